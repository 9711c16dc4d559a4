package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/neckchi/vesseleta/internal/exceptions"
)

func HealthCheckHandler(resolver Resolver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		responseBody := map[string]any{
			"message":   "Health check successful",
			"terminals": len(resolver.Terminals()),
			"errors":    exceptions.Counts(),
		}
		responseJSON, err := json.Marshal(responseBody)
		if err != nil {
			failedCheck := fmt.Errorf("health check failed in json marshal %s", err)
			exceptions.InternalErrorHandler(w, failedCheck)
			return
		}
		_, _ = w.Write(responseJSON)
	})
}
