package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/neckchi/vesseleta/internal/exceptions"
	"github.com/neckchi/vesseleta/internal/handlers"
	"github.com/neckchi/vesseleta/internal/middleware"
	"github.com/neckchi/vesseleta/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	mu    sync.Mutex
	calls int
}

func ptr(s string) *string { return &s }

func (s *stubResolver) Resolve(_ context.Context, code schema.TerminalCode, raw string) (schema.ResolutionResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	switch code {
	case "LCB1":
		return schema.ResolutionResult{Terminal: code, VesselName: "SRI SUREE", Success: true, VesselFound: true, VoyageFound: true, ETA: ptr("2025-07-22 10:00:00"), SearchMethod: schema.SearchVesselAndVoyage}, nil
	case "ESCO":
		return schema.ResolutionResult{Terminal: code, SearchMethod: schema.SearchFetchFailed, Error: ptr("fetch ESCO: http status 503")}, nil
	}
	return schema.ResolutionResult{}, fmt.Errorf("%w: %s", exceptions.ErrUnknownTerminal, code)
}

func (s *stubResolver) CheckAll(ctx context.Context, raw string, onResult func(schema.ResolutionResult)) schema.BatchReport {
	report := schema.BatchReport{StartedAt: time.Now()}
	for _, code := range []schema.TerminalCode{"LCB1", "ESCO"} {
		r, _ := s.Resolve(ctx, code, raw)
		report.Results = append(report.Results, r)
		onResult(r)
	}
	report.FinishedAt = time.Now()
	report.Summarize()
	return report
}

func (s *stubResolver) Terminals() []schema.TerminalProfile {
	return []schema.TerminalProfile{{Code: "LCB1", DisplayName: "LCB1"}, {Code: "ESCO", DisplayName: "ESCO"}}
}

type memoryCache struct {
	mu      sync.Mutex
	pending map[string][]byte
	stored  map[string][]byte
	flushed chan struct{}
}

func newMemoryCache() *memoryCache {
	return &memoryCache{pending: map[string][]byte{}, stored: map[string][]byte{}, flushed: make(chan struct{}, 10)}
}

func (m *memoryCache) Get(_ context.Context, namespace, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.stored[namespace+key]
	return v, ok
}

func (m *memoryCache) AddToChannel(namespace, key string, value []byte, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[namespace+key] = value
}

func (m *memoryCache) Set(context.Context, string) error {
	m.mu.Lock()
	for k, v := range m.pending {
		m.stored[k] = v
	}
	m.pending = map[string][]byte{}
	m.mu.Unlock()
	m.flushed <- struct{}{}
	return nil
}

func resolveHandler(resolver handlers.Resolver, cache *memoryCache) http.Handler {
	return middleware.CreateStack(middleware.ResolveQueryValidation)(handlers.ResolveHandler(resolver, cache))
}

func TestResolveHandler_CachesSuccessfulResults(t *testing.T) {
	t.Parallel()

	resolver, cache := &stubResolver{}, newMemoryCache()
	h := resolveHandler(resolver, cache)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/eta/resolve?terminal=LCB1&vessel=SRI+SUREE+V.25080S", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	var got schema.ResolutionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, schema.SearchVesselAndVoyage, got.SearchMethod)

	select {
	case <-cache.flushed:
	case <-time.After(2 * time.Second):
		t.Fatal("cache was never flushed")
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/eta/resolve?terminal=LCB1&vessel=sri+suree+v.25080s", nil))

	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, 1, resolver.calls)
}

func TestResolveHandler_FetchFailureIsNotCached(t *testing.T) {
	t.Parallel()

	resolver, cache := &stubResolver{}, newMemoryCache()
	h := resolveHandler(resolver, cache)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/eta/resolve?terminal=ESCO", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, resolver.calls)
}

func TestResolveHandler_UnknownTerminal(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	resolveHandler(&stubResolver{}, newMemoryCache()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/eta/resolve?terminal=NOPE", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckAllHandler_StreamsValidJSON(t *testing.T) {
	t.Parallel()

	h := middleware.CreateStack(middleware.BatchQueryValidation)(handlers.CheckAllHandler(&stubResolver{}))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/eta/check-all", nil))

	var body struct {
		Results []schema.ResolutionResult `json:"results"`
		Summary struct {
			Total            int     `json:"total"`
			FetchSuccessRate float64 `json:"fetch_success_rate"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 2)
	assert.Equal(t, schema.TerminalCode("ESCO"), body.Results[1].Terminal)
	assert.Equal(t, 2, body.Summary.Total)
	assert.InDelta(t, 0.5, body.Summary.FetchSuccessRate, 1e-9)
	assert.True(t, rec.Flushed)
}

func TestTerminalsHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	handlers.TerminalsHandler(&stubResolver{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/eta/terminals", nil))

	var body struct {
		Terminals []schema.TerminalProfile `json:"terminals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Terminals, 2)
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	handlers.HealthCheckHandler(&stubResolver{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Health check successful", body["message"])
	assert.EqualValues(t, 2, body["terminals"])
	assert.Contains(t, body, "errors")
}
