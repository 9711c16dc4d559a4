package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type correlateContextKey string

const correlationIDKey correlateContextKey = "X-Correlation-ID"

func AddCorrelationID(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get(string(correlationIDKey))
		if correlationID == "" {
			correlationID = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), correlationIDKey, correlationID)
		r = r.WithContext(ctx)
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}

// CorrelationID returns the id set by AddCorrelationID, or "" outside that middleware.
func CorrelationID(ctx context.Context) string {
	cid, _ := ctx.Value(correlationIDKey).(string)
	return cid
}
