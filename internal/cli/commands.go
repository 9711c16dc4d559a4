package cli

import (
	"strings"

	"github.com/neckchi/vesseleta/internal/descriptor"
	"github.com/neckchi/vesseleta/internal/report"
	"github.com/neckchi/vesseleta/internal/schema"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newCheckCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <terminal> [descriptor...]",
		Short: "Resolve one descriptor against one terminal",
		Long:  "Resolve one descriptor against one terminal. Without a descriptor the terminal's self-test vessel is used.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := opts.resolver()
			if err != nil {
				return err
			}
			code := schema.TerminalCode(strings.ToUpper(args[0]))
			result, err := resolver.Resolve(cmd.Context(), code, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return report.WriteResult(cmd.OutOrStdout(), result, opts.format())
		},
	}
}

func newCheckAllCommand(opts *options) *cobra.Command {
	var vessel string
	cmd := &cobra.Command{
		Use:   "check-all",
		Short: "Check every registered terminal and report the success rates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := opts.resolver()
			if err != nil {
				return err
			}
			batch := resolver.CheckAll(cmd.Context(), vessel, func(r schema.ResolutionResult) {
				log.Infof("%s: %s", r.Terminal, report.Status(r))
			})
			return report.WriteBatch(cmd.OutOrStdout(), batch, opts.format())
		},
	}
	cmd.Flags().StringVar(&vessel, "vessel", "", "descriptor to use for every terminal instead of the self-test vessels")
	return cmd
}

func newListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the registered terminals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := opts.resolver()
			if err != nil {
				return err
			}
			return report.WriteTerminals(cmd.OutOrStdout(), resolver.Terminals(), opts.format())
		},
	}
}

func newParseCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <descriptor...>",
		Short: "Show how a descriptor splits into vessel and voyage",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := descriptor.Parse(strings.Join(args, " "))
			return report.WriteDescriptor(cmd.OutOrStdout(), d, descriptor.Variants(d.VoyageCode), opts.format())
		},
	}
}
