package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Broadcast signal samples to registered listeners"
	MsgRootLong        = "fanout demonstrates a listener registry that broadcasts safely while\nlisteners come and go, funneling notifications onto a single main loop."
	MsgDemoShort       = "Run the producer/main-loop demo"
	MsgConfigShort     = "Print the effective configuration"
	MsgExplainShort    = "Explain the dispatch model"
	MsgSinksShort      = "List available sinks"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	MsgDemoSummary = "\nproduced %d samples, %d main-loop tasks (%d panicked)\n"
	MsgDelivery    = "  %-8s %d\n"
	MsgDropped     = "  %s unsubscribed after sample %d\n"

	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Config file (default $XDG_CONFIG_HOME/fanout/config.toml)"
	MsgFlagNoColor   = "Disable colored output"
	MsgFlagSamples   = "Number of samples to produce"
	MsgFlagInterval  = "Delay between samples"
	MsgFlagSinks     = "Comma-separated sinks to register"
	MsgFlagDropAfter = "Unsubscribe the first sink at this sample (0 disables)"
	MsgFlagFormat    = "Output format: toml or yaml"
	MsgFlagManDir    = "Directory to write man pages to"
)

var (
	//go:embed msgs/usage.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/explain.md
	MsgExplain string
)
