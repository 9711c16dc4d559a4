package middleware

import (
	"net/http"
	"slices"
	"strings"
)

//Good article! https://eli.thegreenplace.net/2023/introduction-to-cors-for-go-programmers/

var methodAllowlist = []string{"GET", "OPTIONS"}

func isPreflight(r *http.Request) bool {
	return r.Method == "OPTIONS" &&
		r.Header.Get("Origin") != "" &&
		r.Header.Get("Access-Control-Request-Method") != ""
}

func originAllowed(allowlist []string, origin string) bool {
	return origin != "" && (slices.Contains(allowlist, "*") || slices.Contains(allowlist, origin))
}

// CheckCORS answers preflights itself and tags allowed origins on every other request.
func CheckCORS(originAllowlist []string) Middleware {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			w.Header().Add("Vary", "Origin")
			if isPreflight(r) {
				method := r.Header.Get("Access-Control-Request-Method")
				if originAllowed(originAllowlist, origin) && slices.Contains(methodAllowlist, method) {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Methods", strings.Join(methodAllowlist, ", "))
					w.Header().Set("Access-Control-Allow-Headers", string(correlationIDKey))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}
			if originAllowed(originAllowlist, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Expose-Headers", string(correlationIDKey))
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
