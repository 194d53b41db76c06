package cli

import (
	"fmt"

	"github.com/arthur-debert/fanout/pkg/demo"
	"github.com/arthur-debert/fanout/pkg/style"
	"github.com/spf13/cobra"
)

func newDemoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: MsgDemoShort,
		Example: `  fanout demo
  fanout demo --samples 100 --interval 10ms --sinks bar,log
  fanout demo --drop-after 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, style.TitleStyle.Render("fanout demo"))

			report, err := demo.Run(cmd.Context(), demo.Options{
				Sinks:           cfg.Demo.Sinks,
				Samples:         cfg.Demo.Samples,
				Interval:        cfg.Demo.Interval,
				DropAfter:       cfg.Demo.DropAfter,
				Wave:            cfg.Demo.Wave,
				ShutdownTimeout: cfg.Loop.ShutdownTimeout,
				QueueWarnDepth:  cfg.Loop.QueueWarnDepth,
				Out:             out,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, MsgDemoSummary, report.Produced, report.Loop.Executed, report.Loop.Panicked)
			for _, d := range report.Delivered {
				fmt.Fprintf(out, MsgDelivery, d.Sink, d.Count)
			}
			if report.Dropped != "" {
				fmt.Fprint(out, style.MutedStyle.Render(fmt.Sprintf(MsgDropped, report.Dropped, cfg.Demo.DropAfter)))
			}
			return nil
		},
	}

	cmd.Flags().Int("samples", 0, MsgFlagSamples)
	cmd.Flags().Duration("interval", 0, MsgFlagInterval)
	cmd.Flags().StringSlice("sinks", nil, MsgFlagSinks)
	cmd.Flags().Int("drop-after", 0, MsgFlagDropAfter)

	return cmd
}
