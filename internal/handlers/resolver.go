package handlers

import (
	"context"

	"github.com/neckchi/vesseleta/internal/schema"
)

// Resolver is the part of engine.Engine the handlers depend on.
type Resolver interface {
	Resolve(ctx context.Context, code schema.TerminalCode, raw string) (schema.ResolutionResult, error)
	CheckAll(ctx context.Context, raw string, onResult func(schema.ResolutionResult)) schema.BatchReport
	Terminals() []schema.TerminalProfile
}
