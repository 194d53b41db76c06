package cli

import (
	"fmt"
	"os"

	"github.com/arthur-debert/fanout/internal/version"
	"github.com/arthur-debert/fanout/pkg/config"
	"github.com/arthur-debert/fanout/pkg/logging"
	"github.com/arthur-debert/fanout/pkg/style"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app carries state shared by all commands of one invocation.
type app struct {
	configPath string
	verbosity  int
	noColor    bool

	cfg *config.Config
}

// configFlags maps command-line flags to the config keys they override.
var configFlags = []struct {
	flag string
	key  string
}{
	{"verbose", "logging.verbosity"},
	{"no-color", "logging.no_color"},
	{"samples", "demo.samples"},
	{"interval", "demo.interval"},
	{"sinks", "demo.sinks"},
	{"drop-after", "demo.drop_after"},
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "fanout",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			log.Debug().Str("command", cmd.Name()).Strs("sources", a.cfg.Source).Msg("Command started")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, MsgFlagNoColor)

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newDemoCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))
	rootCmd.AddCommand(newExplainCmd(a))
	rootCmd.AddCommand(newSinksCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

// setup loads the configuration and configures logging and styles from it.
func (a *app) setup(cmd *cobra.Command) error {
	overrides, err := flagOverrides(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.Load(config.LoadOptions{Path: a.configPath, Overrides: overrides})
	if err != nil {
		return err
	}
	a.cfg = cfg

	logging.Setup(logging.Options{
		Verbosity: cfg.Logging.Verbosity,
		File:      cfg.Logging.File,
		NoColor:   !style.ColorEnabled(os.Stderr, cfg.Logging.NoColor),
	})
	style.Configure(cmd.OutOrStdout(), cfg.Logging.NoColor)
	return nil
}

func flagOverrides(cmd *cobra.Command) (map[string]interface{}, error) {
	flags := cmd.Flags()
	out := make(map[string]interface{})

	for _, cf := range configFlags {
		f := flags.Lookup(cf.flag)
		if f == nil || !f.Changed {
			continue
		}

		var (
			v   interface{}
			err error
		)
		switch f.Value.Type() {
		case "count":
			v, err = flags.GetCount(cf.flag)
		case "int":
			v, err = flags.GetInt(cf.flag)
		case "bool":
			v, err = flags.GetBool(cf.flag)
		case "duration":
			v, err = flags.GetDuration(cf.flag)
		case "stringSlice":
			v, err = flags.GetStringSlice(cf.flag)
		default:
			v = f.Value.String()
		}
		if err != nil {
			return nil, err
		}
		out[cf.key] = v
	}
	return out, nil
}
