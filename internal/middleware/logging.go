package middleware

import (
	"net/http"
	"time"

	"github.com/neckchi/vesseleta/internal/utils"
	log "github.com/sirupsen/logrus"
)

type extendWriter struct {
	http.ResponseWriter
	statusCode int
}

func (e *extendWriter) WriteHeader(statusCode int) {
	e.ResponseWriter.WriteHeader(statusCode)
	e.statusCode = statusCode
}

// Flush keeps streaming handlers working behind the wrapper.
func (e *extendWriter) Flush() {
	if flusher, ok := e.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func Logging(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		extendedWriter := &extendWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(extendedWriter, r)
		log.WithField(utils.CorrelationField, CorrelationID(r.Context())).
			Infof("%s %s %d %s", r.Method, r.URL, extendedWriter.statusCode, time.Since(startTime))
	}
	return http.HandlerFunc(fn)
}
