package exceptions

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type SeverityLevel string

const (
	SeverityCritical SeverityLevel = "critical"
	SeverityError    SeverityLevel = "error"
	SeverityWarning  SeverityLevel = "warning"
)

// ErrorKind groups errors for counting. Messages carry request input so they are not used as keys.
type ErrorKind string

const (
	KindRequest         ErrorKind = "request"
	KindUnknownTerminal ErrorKind = "unknown_terminal"
	KindFetch           ErrorKind = "fetch"
	KindRenderer        ErrorKind = "renderer"
	KindInternal        ErrorKind = "internal"
)

const alertThreshold = 5

type ErrorTracker struct {
	mu    sync.Mutex
	count map[ErrorKind]int
}

var errorTracker = ErrorTracker{count: make(map[ErrorKind]int)}

func (t *ErrorTracker) record(kind ErrorKind) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count[kind]++
	return t.count[kind]
}

// Counts returns a copy of the per-kind totals since start.
func Counts() map[ErrorKind]int {
	errorTracker.mu.Lock()
	defer errorTracker.mu.Unlock()
	out := make(map[ErrorKind]int, len(errorTracker.count))
	for k, v := range errorTracker.count {
		out[k] = v
	}
	return out
}

type ErrorDetail struct {
	Message   string        `json:"message"`
	Kind      ErrorKind     `json:"kind"`
	Count     int           `json:"count"`
	Severity  SeverityLevel `json:"severity"`
	Timestamp string        `json:"timestamp"`
}

type ErrorResponse struct {
	Errors []ErrorDetail `json:"errors"`
}

func kindOf(err error, fallback ErrorKind) ErrorKind {
	switch {
	case errors.Is(err, ErrUnknownTerminal):
		return KindUnknownTerminal
	case errors.Is(err, ErrRendererOutput):
		return KindRenderer
	case IsFetchError(err):
		return KindFetch
	}
	return fallback
}

func trackError(err error, kind ErrorKind, severity SeverityLevel) ErrorDetail {
	return ErrorDetail{
		Message:   err.Error(),
		Kind:      kind,
		Count:     errorTracker.record(kind),
		Severity:  severity,
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func writeError(w http.ResponseWriter, err error, kind ErrorKind, severity SeverityLevel, code int) {
	detail := trackError(err, kind, severity)
	if detail.Count > alertThreshold && detail.Severity == SeverityCritical {
		log.Errorf("ALERT: High occurrence of critical error - %s (Count: %d)", detail.Kind, detail.Count)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Errors: []ErrorDetail{detail}})
}

var (
	RequestErrorHandler = func(w http.ResponseWriter, err error) {
		log.Error(err)
		writeError(w, err, kindOf(err, KindRequest), SeverityError, http.StatusBadRequest)
	}
	NotFoundErrorHandler = func(w http.ResponseWriter, err error) {
		log.Warn(err)
		writeError(w, err, kindOf(err, KindRequest), SeverityWarning, http.StatusNotFound)
	}
	InternalErrorHandler = func(w http.ResponseWriter, err error) {
		log.Error(err)
		writeError(w, err, kindOf(err, KindInternal), SeverityCritical, http.StatusInternalServerError)
	}
)
