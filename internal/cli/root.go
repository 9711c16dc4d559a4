// Package cli implements the etacheck command line: single checks, the all-terminal
// batch, the registry listing, descriptor parsing and a cron-driven watch loop.
package cli

import (
	"context"

	"github.com/neckchi/vesseleta/internal/dependencies"
	"github.com/neckchi/vesseleta/internal/report"
	"github.com/neckchi/vesseleta/internal/schema"
	"github.com/neckchi/vesseleta/internal/utils"
	"github.com/spf13/cobra"
)

const serviceName = "etacheck"

// Resolver is the engine surface the commands drive.
type Resolver interface {
	Resolve(ctx context.Context, code schema.TerminalCode, raw string) (schema.ResolutionResult, error)
	CheckAll(ctx context.Context, raw string, onResult func(schema.ResolutionResult)) schema.BatchReport
	Terminals() []schema.TerminalProfile
}

type loader func(envFile string) (Resolver, error)

type options struct {
	envFile  string
	logLevel string
	json     bool
	load     loader
}

func (o *options) format() report.Format {
	if o.json {
		return report.FormatJSON
	}
	return report.FormatTable
}

func (o *options) resolver() (Resolver, error) {
	return o.load(o.envFile)
}

func loadEngine(envFile string) (Resolver, error) {
	deps, err := dependencies.NewDependencies(envFile, serviceName)
	if err != nil {
		return nil, err
	}
	return deps.Engine, nil
}

// NewRootCommand builds the etacheck command tree on the configured engine.
func NewRootCommand() *cobra.Command {
	return newRootCommand(loadEngine)
}

func newRootCommand(load loader) *cobra.Command {
	opts := &options{load: load}
	root := &cobra.Command{
		Use:          "etacheck",
		Short:        "Resolve vessel arrival times from terminal schedules",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.ConfigureLogging(opts.logLevel)
		},
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env", ".env", "env file with REDIS_*, RENDERER_CMD and CONFIG_PATH")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warning", "logrus level")
	root.PersistentFlags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")

	root.AddCommand(
		newCheckCommand(opts),
		newCheckAllCommand(opts),
		newListCommand(opts),
		newParseCommand(opts),
		newWatchCommand(opts),
	)
	return root
}
