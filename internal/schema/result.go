package schema

import "time"

// Confidence tags how a document row was tied to the target sailing.
type Confidence string

const (
	VesselAndVoyage Confidence = "vessel_and_voyage"
	VesselOnly      Confidence = "vessel_only"
	VoyageOnly      Confidence = "voyage_only"
	FullNameOnly    Confidence = "full_name_only"
	NotFound        Confidence = "not_found"
)

// MatchCandidate is the row (or text section) judged to belong to the target vessel.
type MatchCandidate struct {
	RowCells        []string
	HeaderCells     []string
	VesselCellIndex int
	VoyageCellIndex *int
	Confidence      Confidence
	// Window is the document text from the matched section on, only set for non-tabular documents.
	Window string
	// Lead is the section directly above the match, read after Window.
	Lead string
}

// Matched reports whether any row was tied to the target.
func (m MatchCandidate) Matched() bool {
	return m.Confidence != NotFound && m.Confidence != ""
}

// SearchMethod is the closed taxonomy of matching tiers reported on every result.
type SearchMethod string

const (
	SearchVesselAndVoyage SearchMethod = "vessel_name_and_voyage"
	SearchVesselOnly      SearchMethod = "vessel_name_only"
	SearchVoyageOnly      SearchMethod = "voyage_code_only"
	SearchFullName        SearchMethod = "full_name_match"
	SearchNotFound        SearchMethod = "not_found"
	SearchFetchFailed     SearchMethod = "fetch_failed"
	SearchExternalPending SearchMethod = "external_pending"
)

var SearchMethodForConfidence = map[Confidence]SearchMethod{
	VesselAndVoyage: SearchVesselAndVoyage,
	VesselOnly:      SearchVesselOnly,
	VoyageOnly:      SearchVoyageOnly,
	FullNameOnly:    SearchFullName,
	NotFound:        SearchNotFound,
}

// ResolutionResult is the uniform outcome of resolving one descriptor against one terminal.
type ResolutionResult struct {
	Terminal     TerminalCode `json:"terminal"`
	TerminalName string       `json:"terminal_name"`
	VesselName   string       `json:"vessel_name"`
	VoyageCode   string       `json:"voyage_code"`
	Success      bool         `json:"success"`
	VesselFound  bool         `json:"vessel_found"`
	VoyageFound  bool         `json:"voyage_found"`
	ETA          *string      `json:"eta"`
	ETD          *string      `json:"etd"`
	SearchMethod SearchMethod `json:"search_method"`
	RawEvidence  string       `json:"raw_evidence"`
	CheckedAt    time.Time    `json:"checked_at"`
	Error        *string      `json:"error"`
}

// HasETA reports whether an arrival time was resolved.
func (r ResolutionResult) HasETA() bool {
	return r.ETA != nil && *r.ETA != ""
}

// BatchReport is the outcome of checking every registered terminal.
type BatchReport struct {
	Results          []ResolutionResult `json:"results"`
	Total            int                `json:"total"`
	FetchSuccessRate float64            `json:"fetch_success_rate"`
	VesselFoundRate  float64            `json:"vessel_found_rate"`
	ETAExtractedRate float64            `json:"eta_extracted_rate"`
	StartedAt        time.Time          `json:"started_at"`
	FinishedAt       time.Time          `json:"finished_at"`
}

// Summarize recomputes the aggregate rates from Results.
func (b *BatchReport) Summarize() {
	b.Total = len(b.Results)
	if b.Total == 0 {
		b.FetchSuccessRate, b.VesselFoundRate, b.ETAExtractedRate = 0, 0, 0
		return
	}
	var fetched, found, withETA int
	for _, r := range b.Results {
		if r.Success {
			fetched++
		}
		if r.VesselFound {
			found++
		}
		if r.HasETA() {
			withETA++
		}
	}
	total := float64(b.Total)
	b.FetchSuccessRate = float64(fetched) / total
	b.VesselFoundRate = float64(found) / total
	b.ETAExtractedRate = float64(withETA) / total
}
