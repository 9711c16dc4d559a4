// Package report renders resolution results for the command line, as a table or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/neckchi/vesseleta/internal/schema"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

const evidenceWidth = 60

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func percent(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}

// Status is the one-word outcome shown in the status column.
func Status(r schema.ResolutionResult) string {
	switch {
	case r.SearchMethod == schema.SearchFetchFailed:
		return "FETCH FAILED"
	case r.SearchMethod == schema.SearchExternalPending:
		return "PENDING"
	case r.HasETA():
		return "OK"
	case r.VesselFound:
		return "NO ETA"
	}
	return "NOT FOUND"
}

func resultRow(r schema.ResolutionResult) table.Row {
	return table.Row{r.Terminal, Status(r), r.VesselName, r.VoyageCode, deref(r.ETA), deref(r.ETD), r.SearchMethod, deref(r.Error)}
}

var resultHeader = table.Row{"Terminal", "Status", "Vessel", "Voyage", "ETA", "ETD", "Method", "Error"}

// WriteBatch writes every result of a batch followed by the aggregate rates.
func WriteBatch(w io.Writer, b schema.BatchReport, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, b)
	}
	t := newTable(w)
	t.SetTitle(fmt.Sprintf("Check-all %s (%s)", b.StartedAt.Format("2006-01-02 15:04:05"), b.FinishedAt.Sub(b.StartedAt).Round(time.Second)))
	t.AppendHeader(resultHeader)
	for _, r := range b.Results {
		t.AppendRow(resultRow(r))
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d terminals", b.Total),
		"fetch " + percent(b.FetchSuccessRate),
		"vessel " + percent(b.VesselFoundRate),
		"",
		"eta " + percent(b.ETAExtractedRate),
	})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 8, WidthMax: evidenceWidth}})
	t.Render()
	return nil
}

// WriteResult writes one result with its evidence.
func WriteResult(w io.Writer, r schema.ResolutionResult, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, r)
	}
	t := newTable(w)
	t.SetTitle(fmt.Sprintf("%s %s", r.Terminal, r.TerminalName))
	t.AppendRows([]table.Row{
		{"Status", Status(r)},
		{"Vessel", r.VesselName},
		{"Voyage", r.VoyageCode},
		{"Vessel found", r.VesselFound},
		{"Voyage found", r.VoyageFound},
		{"ETA", deref(r.ETA)},
		{"ETD", deref(r.ETD)},
		{"Method", r.SearchMethod},
		{"Evidence", r.RawEvidence},
		{"Error", deref(r.Error)},
		{"Checked", r.CheckedAt.Format("2006-01-02 15:04:05")},
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: text.Colors{text.Bold}},
		{Number: 2, WidthMax: evidenceWidth},
	})
	t.Render()
	return nil
}

// WriteTerminals lists the registered terminal profiles.
func WriteTerminals(w io.Writer, profiles []schema.TerminalProfile, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, profiles)
	}
	t := newTable(w)
	t.AppendHeader(table.Row{"Code", "Name", "Method", "Source", "Timeout", "Self-test"})
	for _, p := range profiles {
		selfTest := "-"
		if p.SelfTest != nil {
			selfTest = p.SelfTest.FullName
		}
		t.AppendRow(table.Row{p.Code, p.DisplayName, p.ResolutionMethod, p.DocumentSource, p.Timeout, selfTest})
	}
	t.Render()
	return nil
}

// WriteDescriptor shows how a descriptor splits and which voyage variants are searched.
func WriteDescriptor(w io.Writer, d schema.VesselDescriptor, variants []string, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, struct {
			schema.VesselDescriptor
			Variants []string `json:"voyage_variants"`
		}{d, variants})
	}
	t := newTable(w)
	t.AppendRows([]table.Row{
		{"Raw", d.RawText},
		{"Vessel", d.VesselName},
		{"Voyage", d.VoyageCode},
		{"Full name", d.FullName},
		{"Rule", d.ParsingMethod},
		{"Variants", strings.Join(variants, ", ")},
	})
	t.Render()
	return nil
}
