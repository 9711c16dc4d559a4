// Package engine runs single resolutions and the sequential all-terminal batch.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neckchi/vesseleta/external/terminals"
	"github.com/neckchi/vesseleta/internal/assembler"
	"github.com/neckchi/vesseleta/internal/descriptor"
	"github.com/neckchi/vesseleta/internal/exceptions"
	"github.com/neckchi/vesseleta/internal/registry"
	"github.com/neckchi/vesseleta/internal/schema"
	log "github.com/sirupsen/logrus"
)

const DefaultPolitenessDelay = 3 * time.Second

type Option func(*Engine)

// WithPolitenessDelay sets the pause between two terminal calls of a batch.
func WithPolitenessDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.delay = d
	}
}

// WithSleep replaces the context-aware pause, mostly for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Engine) {
		e.sleep = sleep
	}
}

type Engine struct {
	registry *registry.Registry
	factory  *terminals.AdapterFactory
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

func New(reg *registry.Registry, factory *terminals.AdapterFactory, opts ...Option) *Engine {
	e := &Engine{registry: reg, factory: factory, delay: DefaultPolitenessDelay, sleep: sleepContext}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Terminals lists the registered profiles in configuration order.
func (e *Engine) Terminals() []schema.TerminalProfile {
	return e.registry.All()
}

// descriptorFor parses raw, or falls back to the terminal's own self-test descriptor.
func descriptorFor(profile schema.TerminalProfile, raw string) schema.VesselDescriptor {
	if strings.TrimSpace(raw) == "" && profile.SelfTest != nil {
		return *profile.SelfTest
	}
	return descriptor.Parse(raw)
}

// Resolve only fails for a terminal code that is not registered; every other outcome,
// fetch failures included, is a result.
func (e *Engine) Resolve(ctx context.Context, code schema.TerminalCode, raw string) (schema.ResolutionResult, error) {
	profile, ok := e.registry.Get(code)
	if !ok {
		return schema.ResolutionResult{}, fmt.Errorf("%w: %s", exceptions.ErrUnknownTerminal, code)
	}
	return e.resolve(ctx, profile, descriptorFor(profile, raw)), nil
}

func (e *Engine) resolve(ctx context.Context, profile schema.TerminalProfile, d schema.VesselDescriptor) schema.ResolutionResult {
	if err := ctx.Err(); err != nil {
		return assembler.FetchFailed(profile, d, fmt.Errorf("not attempted: %w", err), time.Now())
	}
	adapter, err := e.factory.CreateAdapter(profile.ResolutionMethod)
	if err != nil {
		return assembler.FetchFailed(profile, d, err, time.Now())
	}
	start := time.Now()
	result := adapter.Resolve(ctx, profile, d)
	log.Infof("Resolve: %s %q %s eta=%s %.3fs", profile.Code, d.FullName, result.SearchMethod, valueOr(result.ETA, "-"), time.Since(start).Seconds())
	return result
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// CheckAll resolves raw (or each terminal's self-test descriptor when raw is empty)
// against every terminal, one at a time with the politeness delay in between. Once ctx
// is done the remaining terminals are reported as not attempted. onResult, when set, is
// called after each terminal.
func (e *Engine) CheckAll(ctx context.Context, raw string, onResult func(schema.ResolutionResult)) schema.BatchReport {
	profiles := e.registry.All()
	report := schema.BatchReport{Results: make([]schema.ResolutionResult, 0, len(profiles)), StartedAt: time.Now().UTC()}

	for i, profile := range profiles {
		if i > 0 && ctx.Err() == nil {
			_ = e.sleep(ctx, e.delay)
		}
		result := e.resolve(ctx, profile, descriptorFor(profile, raw))
		report.Results = append(report.Results, result)
		if onResult != nil {
			onResult(result)
		}
	}

	report.FinishedAt = time.Now().UTC()
	report.Summarize()
	log.Infof("CheckAll: %d terminals fetch=%.0f%% vessel=%.0f%% eta=%.0f%%", report.Total, report.FetchSuccessRate*100, report.VesselFoundRate*100, report.ETAExtractedRate*100)
	return report
}
