package report_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/neckchi/vesseleta/internal/report"
	"github.com/neckchi/vesseleta/internal/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func batch() schema.BatchReport {
	start := time.Date(2025, 7, 20, 8, 0, 0, 0, time.UTC)
	b := schema.BatchReport{
		StartedAt:  start,
		FinishedAt: start.Add(42 * time.Second),
		Results: []schema.ResolutionResult{
			{Terminal: "LCB1", VesselName: "SRI SUREE", VoyageCode: "25080S", Success: true, VesselFound: true, VoyageFound: true, ETA: ptr("2025-07-22 10:00:00"), SearchMethod: schema.SearchVesselAndVoyage},
			{Terminal: "ESCO", SearchMethod: schema.SearchFetchFailed, Error: ptr("fetch ESCO: http status 503")},
			{Terminal: "JWD", Success: true, SearchMethod: schema.SearchExternalPending},
			{Terminal: "TIPS", Success: true, VesselFound: true, SearchMethod: schema.SearchVesselOnly},
		},
	}
	b.Summarize()
	return b
}

func TestStatus(t *testing.T) {
	b := batch()
	assert.Equal(t, "OK", report.Status(b.Results[0]))
	assert.Equal(t, "FETCH FAILED", report.Status(b.Results[1]))
	assert.Equal(t, "PENDING", report.Status(b.Results[2]))
	assert.Equal(t, "NO ETA", report.Status(b.Results[3]))
	assert.Equal(t, "NOT FOUND", report.Status(schema.ResolutionResult{Success: true, SearchMethod: schema.SearchNotFound}))
}

func TestWriteBatch_Table(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, report.WriteBatch(&buf, batch(), report.FormatTable))

	out := buf.String()
	assert.Contains(t, out, "SRI SUREE")
	assert.Contains(t, out, "2025-07-22 10:00:00")
	assert.Contains(t, out, "FETCH FAILED")
	assert.Contains(t, out, "42s")
	assert.Contains(t, out, "FETCH 75%")
	assert.Contains(t, out, "VESSEL 50%")
	assert.Contains(t, out, "ETA 25%")
}

func TestWriteBatch_JSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, report.WriteBatch(&buf, batch(), report.FormatJSON))

	var decoded schema.BatchReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 4, decoded.Total)
	assert.InDelta(t, 0.75, decoded.FetchSuccessRate, 1e-9)
	assert.Len(t, decoded.Results, 4)
}

func TestWriteDescriptor(t *testing.T) {
	var buf bytes.Buffer
	d := schema.VesselDescriptor{RawText: "SRI SUREE V.25080S", VesselName: "SRI SUREE", VoyageCode: "25080S", FullName: "SRI SUREE V.25080S", ParsingMethod: schema.ParsedVDotPrefix}

	require.NoError(t, report.WriteDescriptor(&buf, d, []string{"25080S", "V.25080S"}, report.FormatJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "SRI SUREE", decoded["vessel_name"])
	assert.Equal(t, "v_dot_prefix", decoded["parsing_method"])
	assert.Equal(t, []any{"25080S", "V.25080S"}, decoded["voyage_variants"])
}

func TestWriteTerminals_Table(t *testing.T) {
	var buf bytes.Buffer
	profiles := []schema.TerminalProfile{
		{Code: "LCB1", DisplayName: "LCB1 Terminal", ResolutionMethod: schema.HTMLTable, DocumentSource: schema.StaticHTTP, Timeout: 20 * time.Second,
			SelfTest: &schema.VesselDescriptor{FullName: "SRI SUREE V.25080S"}},
		{Code: "JWD", DisplayName: "JWD", ResolutionMethod: schema.ExternalWorkflow, DocumentSource: schema.DelegatedExternalResult},
	}

	require.NoError(t, report.WriteTerminals(&buf, profiles, report.FormatTable))

	out := buf.String()
	assert.Contains(t, out, "LCB1 Terminal")
	assert.Contains(t, out, "SRI SUREE V.25080S")
	assert.Contains(t, out, "external_workflow")
}
