package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/neckchi/vesseleta/internal/middleware"
	"github.com/neckchi/vesseleta/internal/schema"
	"github.com/neckchi/vesseleta/internal/utils"
	log "github.com/sirupsen/logrus"
)

type batchSummary struct {
	Total            int       `json:"total"`
	FetchSuccessRate float64   `json:"fetch_success_rate"`
	VesselFoundRate  float64   `json:"vessel_found_rate"`
	ETAExtractedRate float64   `json:"eta_extracted_rate"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
}

// CheckAllHandler streams one result per terminal as soon as it is resolved and closes
// the document with the batch rates. A client that goes away cancels the remaining
// terminals, the batch itself still runs to the end.
func CheckAllHandler(resolver Resolver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fw := utils.NewFlushWriter(w)
		queryParams, _ := r.Context().Value(middleware.BatchQueryParamsKey).(schema.QueryParamsForBatch)

		_, _ = fw.Write([]byte(`{"results":[`))
		fw.Flush()

		first := true
		report := resolver.CheckAll(r.Context(), queryParams.Vessel, func(result schema.ResolutionResult) {
			body, err := json.Marshal(result)
			if err != nil {
				log.Errorf("marshal result %s: %v", result.Terminal, err)
				return
			}
			if !first {
				_, _ = fw.Write([]byte(","))
			}
			first = false
			_, _ = fw.Write(body)
			fw.Flush()
		})

		summary, _ := json.Marshal(batchSummary{
			Total:            report.Total,
			FetchSuccessRate: report.FetchSuccessRate,
			VesselFoundRate:  report.VesselFoundRate,
			ETAExtractedRate: report.ETAExtractedRate,
			StartedAt:        report.StartedAt,
			FinishedAt:       report.FinishedAt,
		})
		_, _ = fw.Write([]byte(`],"summary":`))
		_, _ = fw.Write(summary)
		_, _ = fw.Write([]byte(`}`))
		fw.Flush()
		if err := fw.Err(); err != nil {
			log.Warnf("check-all stream to client aborted: %v", err)
		}
	})
}
