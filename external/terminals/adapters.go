// Package terminals holds the resolution strategies, one per ResolutionMethod.
package terminals

import (
	"context"
	"time"

	"github.com/neckchi/vesseleta/external/renderer"
	"github.com/neckchi/vesseleta/internal/assembler"
	"github.com/neckchi/vesseleta/internal/descriptor"
	"github.com/neckchi/vesseleta/internal/eta"
	"github.com/neckchi/vesseleta/internal/matcher"
	"github.com/neckchi/vesseleta/internal/schema"
	log "github.com/sirupsen/logrus"
)

// Adapter resolves one descriptor against one terminal. Every outcome, failures
// included, comes back as a ResolutionResult.
type Adapter interface {
	Resolve(ctx context.Context, profile schema.TerminalProfile, d schema.VesselDescriptor) schema.ResolutionResult
}

type matchFunc func(raw string, target matcher.Target) schema.MatchCandidate

func targetFor(d schema.VesselDescriptor) matcher.Target {
	return matcher.Target{VesselName: d.VesselName, FullName: d.FullName, Variants: descriptor.Variants(d.VoyageCode)}
}

func resolveDocument(ctx context.Context, fetcher DocumentFetcher, match matchFunc, profile schema.TerminalProfile, d schema.VesselDescriptor) schema.ResolutionResult {
	doc, err := fetcher.FetchDocument(ctx, profile)
	if err != nil {
		log.Warnf("%s: %v", profile.Code, err)
		return assembler.FetchFailed(profile, d, err, time.Now())
	}
	candidate := match(doc.RawContent, targetFor(d))
	result := assembler.FromMatch(profile, d, candidate, eta.ExtractFromCandidate(candidate), doc.FetchedAt)
	log.Debugf("%s: %s %q %s", profile.Code, result.SearchMethod, d.FullName, candidate.Confidence)
	return result
}

// TableAdapter reads server-rendered berth tables; documents without a table fall back
// to line sections.
type TableAdapter struct {
	Fetcher DocumentFetcher
}

func (a *TableAdapter) Resolve(ctx context.Context, profile schema.TerminalProfile, d schema.VesselDescriptor) schema.ResolutionResult {
	return resolveDocument(ctx, a.Fetcher, matcher.Match, profile, d)
}

// TextAdapter reads schedules published as free text.
type TextAdapter struct {
	Fetcher DocumentFetcher
}

func (a *TextAdapter) Resolve(ctx context.Context, profile schema.TerminalProfile, d schema.VesselDescriptor) schema.ResolutionResult {
	return resolveDocument(ctx, a.Fetcher, matcher.MatchText, profile, d)
}

// RenderedAdapter hands the lookup to the rendering collaborator and trusts its
// structured output after normalization.
type RenderedAdapter struct {
	Renderer renderer.Renderer
}

func (a *RenderedAdapter) Resolve(ctx context.Context, profile schema.TerminalProfile, d schema.VesselDescriptor) schema.ResolutionResult {
	req := renderer.Request{Terminal: profile.Code, VesselName: d.VesselName, VoyageCode: d.VoyageCode, Timeout: profile.Timeout}
	res, err := a.Renderer.Render(ctx, profile.Renderer, req)
	if err != nil {
		log.Warnf("%s: %v", profile.Code, err)
		failed := assembler.FetchFailed(profile, d, err, time.Now())
		failed.RawEvidence = res.Stderr
		return failed
	}
	return assembler.FromRenderer(profile, d, res.Output, res.Stderr, time.Now())
}

// DelegatedAdapter covers terminals answered by an outside workflow.
type DelegatedAdapter struct{}

func (DelegatedAdapter) Resolve(_ context.Context, profile schema.TerminalProfile, d schema.VesselDescriptor) schema.ResolutionResult {
	return assembler.ExternalPending(profile, d, time.Now())
}
