package cli

import (
	"time"

	"github.com/spf13/cobra"

	"sweepbot-go/internal/audit"
	"sweepbot-go/internal/pipeline"
	"sweepbot-go/internal/util"
	"sweepbot-go/internal/xrpl"
)

// NewRunCommand executes exactly one sweep cycle.
func NewRunCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one sweep cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve()
			if err != nil {
				return err
			}
			log := util.NewLogger(cfg.App.LogLevel)

			recorder, err := audit.NewJSONLRecorder(cfg.Audit.OutboxPath)
			if err != nil {
				return err
			}
			defer recorder.Close()

			client := xrpl.New(cfg.Ledger.RPCURL, time.Duration(cfg.Ledger.TimeoutMs)*time.Millisecond)
			runner := pipeline.NewRunner(cfg, client, recorder, util.Component(log, "pipeline"))

			_, err = runner.Run(cmd.Context())
			return err
		},
	}
}
