package middleware

import (
	"net/http"
)

// AddHeaders must run inside AddCorrelationID.
func AddHeaders(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		headers := map[string]string{
			"Cache-Control":    "no-cache",
			"Content-Type":     "application/json",
			"X-Correlation-ID": CorrelationID(r.Context()),
		}
		for key, value := range headers {
			w.Header().Set(key, value)
		}
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}
