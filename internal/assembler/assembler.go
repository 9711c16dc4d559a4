// Package assembler turns match, extraction and fetch outcomes into ResolutionResults.
package assembler

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/neckchi/vesseleta/internal/eta"
	"github.com/neckchi/vesseleta/internal/schema"
)

// MaxEvidenceLen caps raw_evidence.
const MaxEvidenceLen = 500

const evidenceSeparator = " | "

const pendingEvidence = "resolved by an external workflow"

func base(profile schema.TerminalProfile, d schema.VesselDescriptor, checkedAt time.Time) schema.ResolutionResult {
	return schema.ResolutionResult{
		Terminal:     profile.Code,
		TerminalName: profile.DisplayName,
		VesselName:   d.VesselName,
		VoyageCode:   d.VoyageCode,
		CheckedAt:    checkedAt.UTC(),
	}
}

func truncate(s string) string {
	if len(s) <= MaxEvidenceLen {
		return s
	}
	cut := MaxEvidenceLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// Evidence joins the matched row cells, truncated to MaxEvidenceLen.
func Evidence(cells []string) string {
	return truncate(strings.Join(cells, evidenceSeparator))
}

// FromMatch assembles a fetched document's outcome. voyage_found is only ever true for a
// voyage seen inside the vessel row, or for a full-descriptor match carrying a voyage.
func FromMatch(profile schema.TerminalProfile, d schema.VesselDescriptor, c schema.MatchCandidate, ex eta.Extraction, checkedAt time.Time) schema.ResolutionResult {
	r := base(profile, d, checkedAt)
	r.Success = true
	r.SearchMethod = schema.SearchMethodForConfidence[c.Confidence]
	if r.SearchMethod == "" {
		r.SearchMethod = schema.SearchNotFound
	}

	switch c.Confidence {
	case schema.VesselAndVoyage:
		r.VesselFound, r.VoyageFound = true, true
	case schema.VesselOnly:
		r.VesselFound = true
	case schema.FullNameOnly:
		r.VesselFound = true
		r.VoyageFound = d.HasVoyage()
	case schema.VoyageOnly:
		// the row only shares a voyage code, the vessel is not confirmed
	default:
		return r
	}

	r.ETA, r.ETD = ex.ETA, ex.ETD
	r.RawEvidence = Evidence(c.RowCells)
	return r
}

// FetchFailed never reports the vessel as found.
func FetchFailed(profile schema.TerminalProfile, d schema.VesselDescriptor, err error, checkedAt time.Time) schema.ResolutionResult {
	r := base(profile, d, checkedAt)
	r.SearchMethod = schema.SearchFetchFailed
	msg := "fetch failed"
	if err != nil {
		msg = err.Error()
	}
	r.Error = &msg
	return r
}

// ExternalPending is the placeholder for terminals resolved outside this engine.
func ExternalPending(profile schema.TerminalProfile, d schema.VesselDescriptor, checkedAt time.Time) schema.ResolutionResult {
	r := base(profile, d, checkedAt)
	r.Success = true
	r.SearchMethod = schema.SearchExternalPending
	r.RawEvidence = pendingEvidence
	return r
}

// legacyMethods maps collaborator search methods outside the taxonomy onto it.
var legacyMethods = map[string]schema.SearchMethod{
	"vessel_and_voyage": schema.SearchVesselAndVoyage,
	"vessel_voyage":     schema.SearchVesselAndVoyage,
	"vessel_only":       schema.SearchVesselOnly,
	"vessel_name":       schema.SearchVesselOnly,
	"voyage_only":       schema.SearchVoyageOnly,
	"voyage_code":       schema.SearchVoyageOnly,
	"full_name":         schema.SearchFullName,
	"full_name_only":    schema.SearchFullName,
	"error":             schema.SearchFetchFailed,
	"failed":            schema.SearchFetchFailed,
}

var taxonomy = map[schema.SearchMethod]bool{
	schema.SearchVesselAndVoyage: true,
	schema.SearchVesselOnly:      true,
	schema.SearchVoyageOnly:      true,
	schema.SearchFullName:        true,
	schema.SearchNotFound:        true,
	schema.SearchFetchFailed:     true,
	schema.SearchExternalPending: true,
}

func searchMethodFor(out schema.RenderedOutcome) schema.SearchMethod {
	method := schema.SearchMethod(strings.ToLower(strings.TrimSpace(out.SearchMethod)))
	if taxonomy[method] {
		return method
	}
	if mapped, ok := legacyMethods[string(method)]; ok {
		return mapped
	}
	switch {
	case !out.Success:
		return schema.SearchFetchFailed
	case out.VesselFound && out.VoyageFound:
		return schema.SearchVesselAndVoyage
	case out.VesselFound:
		return schema.SearchVesselOnly
	default:
		return schema.SearchNotFound
	}
}

// reconcile keeps the reported tier consistent with the found flags.
func reconcile(method schema.SearchMethod, vesselFound, voyageFound bool) schema.SearchMethod {
	switch {
	case !vesselFound && (method == schema.SearchVesselAndVoyage || method == schema.SearchVesselOnly || method == schema.SearchFullName):
		return schema.SearchNotFound
	case vesselFound && voyageFound && method != schema.SearchFullName:
		return schema.SearchVesselAndVoyage
	case vesselFound && !voyageFound && (method == schema.SearchVesselAndVoyage || method == schema.SearchNotFound || method == schema.SearchVoyageOnly || method == schema.SearchExternalPending):
		return schema.SearchVesselOnly
	}
	return method
}

func normalized(value *string) *string {
	if value == nil {
		return nil
	}
	v, ok := eta.Normalize(*value)
	if !ok {
		return nil
	}
	return &v
}

// FromRenderer normalizes collaborator output into the same shape as a local match.
func FromRenderer(profile schema.TerminalProfile, d schema.VesselDescriptor, out schema.RenderedOutcome, stderr string, checkedAt time.Time) schema.ResolutionResult {
	r := base(profile, d, checkedAt)
	r.Success = out.Success
	r.SearchMethod = searchMethodFor(out)
	r.RawEvidence = truncate(stderr)
	if out.Error != nil && *out.Error != "" {
		msg := *out.Error
		r.Error = &msg
	}
	if !r.Success {
		if r.Error == nil {
			msg := "renderer reported failure"
			r.Error = &msg
		}
		r.SearchMethod = schema.SearchFetchFailed
		return r
	}
	if r.SearchMethod == schema.SearchFetchFailed {
		r.SearchMethod = schema.SearchNotFound
	}

	r.VesselFound = out.VesselFound
	r.VoyageFound = out.VoyageFound && out.VesselFound
	r.SearchMethod = reconcile(r.SearchMethod, r.VesselFound, r.VoyageFound)
	if r.VesselFound || r.SearchMethod == schema.SearchVoyageOnly {
		r.ETA, r.ETD = normalized(out.ETA), normalized(out.ETD)
	}
	return r
}
