package cli

import (
	"fmt"

	"github.com/arthur-debert/fanout/pkg/sinks"
	"github.com/arthur-debert/fanout/pkg/style"
	"github.com/spf13/cobra"
)

func newExplainCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "explain",
		Short: MsgExplainShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			color := style.ColorEnabled(out, a.cfg.Logging.NoColor)
			_, err := fmt.Fprint(out, style.NewMarkdownRenderer(color).Render(MsgExplain))
			return err
		},
	}
}

func newSinksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sinks",
		Short: MsgSinksShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range sinks.Catalog().Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}
}
