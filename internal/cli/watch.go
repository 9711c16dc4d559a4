package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/neckchi/vesseleta/internal/report"
	"github.com/neckchi/vesseleta/internal/schema"
	"github.com/neckchi/vesseleta/internal/utils"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

func newWatchCommand(opts *options) *cobra.Command {
	var (
		schedule string
		vessel   string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run check-all on a cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := cronParser.Parse(schedule); err != nil {
				return fmt.Errorf("invalid --cron %q: %w", schedule, err)
			}
			resolver, err := opts.resolver()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			cronLog := cron.PrintfLogger(log.StandardLogger())
			c := cron.New(cron.WithParser(cronParser), cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)))
			_, err = c.AddFunc(schedule, func() {
				runLog := log.WithField(utils.CorrelationField, uuid.NewString())
				runLog.Info("watch: check-all started")
				batch := resolver.CheckAll(ctx, vessel, func(r schema.ResolutionResult) {
					runLog.Infof("%s: %s", r.Terminal, report.Status(r))
				})
				if err := report.WriteBatch(out, batch, opts.format()); err != nil {
					runLog.Errorf("watch: write report: %v", err)
				}
			})
			if err != nil {
				return err
			}

			c.Start()
			log.Infof("watch: scheduled check-all %q", schedule)
			<-ctx.Done()
			<-c.Stop().Done()
			log.Info("watch: stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&schedule, "cron", "*/30 * * * *", "cron expression (5 fields or @every <duration>)")
	cmd.Flags().StringVar(&vessel, "vessel", "", "descriptor to use for every terminal instead of the self-test vessels")
	return cmd
}
