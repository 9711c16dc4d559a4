package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/neckchi/vesseleta/internal/exceptions"
)

// TerminalsHandler lists the registered terminal profiles.
func TerminalsHandler(resolver Resolver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := json.Marshal(map[string]any{"terminals": resolver.Terminals()})
		if err != nil {
			exceptions.InternalErrorHandler(w, err)
			return
		}
		_, _ = w.Write(body)
	})
}
