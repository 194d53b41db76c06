package cli

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/fanout/pkg/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:       "config",
		Short:     MsgConfigShort,
		Args:      cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.cfg.Dump(format)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# sources: %s\n", strings.Join(a.cfg.Source, ", "))
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", config.FormatTOML, MsgFlagFormat)
	return cmd
}
