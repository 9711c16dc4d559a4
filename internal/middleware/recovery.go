package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/neckchi/vesseleta/internal/exceptions"
	"github.com/neckchi/vesseleta/internal/utils"
	log "github.com/sirupsen/logrus"
)

// Recovery turns a panicking handler into a 500. The stack goes to the log only.
func Recovery(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if caught := recover(); caught != nil {
				if caught == http.ErrAbortHandler {
					panic(caught)
				}
				log.WithFields(log.Fields{
					utils.CorrelationField: CorrelationID(r.Context()),
					"path":                 r.URL.Path,
				}).Errorf("panic: %v\n%s", caught, debug.Stack())
				exceptions.InternalErrorHandler(w, fmt.Errorf("internal error: %v", caught))
			}
		}()
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}
