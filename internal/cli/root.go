// Package cli wires the sweepbot commands: run one cycle, watch the ledger,
// or print node status.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sweepbot-go/internal/config"
)

// rootOptions holds the global flag overrides. Empty values mean "use the
// config file or built-in default".
type rootOptions struct {
	ConfigPath string
	Mode       string
	Risk       string
	RPCURL     string
	LogLevel   string
}

// NewRootCommand creates the sweepbot root command.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "sweepbot",
		Short: "XRPL treasury sweep engine",
		Long:  "Sizes a sweep above a reserve floor by risk tier, records settlement intent, and optionally submits the payment legs.",
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config (optional)")
	cmd.PersistentFlags().StringVar(&opts.Mode, "mode", "", "run mode: simulate|live (default simulate)")
	cmd.PersistentFlags().StringVar(&opts.Risk, "risk", "", "risk tier: aggressive|moderate|conservative|ultra-conservative (default moderate)")
	cmd.PersistentFlags().StringVar(&opts.RPCURL, "rpc-url", "", "ledger JSON-RPC endpoint")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level: trace|debug|info|warn|error")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))

	return cmd
}

// resolve layers flag overrides on top of the config file (or defaults).
func (o *rootOptions) resolve() (*config.Config, error) {
	cfg := config.Default()
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if o.Mode != "" {
		mode, err := normalizeMode(o.Mode)
		if err != nil {
			return nil, err
		}
		cfg.Mode = mode
	}
	if o.Risk != "" {
		cfg.Risk.Tier = o.Risk
	}
	if o.RPCURL != "" {
		cfg.Ledger.RPCURL = o.RPCURL
	}
	if o.LogLevel != "" {
		cfg.App.LogLevel = o.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func normalizeMode(s string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SIMULATE", "SIM", "PAPER":
		return config.ModeSimulate, nil
	case "LIVE":
		return config.ModeLive, nil
	default:
		return "", fmt.Errorf("unknown mode %q: want simulate or live", s)
	}
}
