package cli

import (
	"time"

	"github.com/spf13/cobra"

	"sweepbot-go/internal/metrics"
	"sweepbot-go/internal/util"
	"sweepbot-go/internal/wallet"
	"sweepbot-go/internal/xrpl"
)

// NewWatchCommand follows ledger closes and reports source balance changes.
// Observation only; it never plans or submits anything.
func NewWatchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch ledger closes and the source balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve()
			if err != nil {
				return err
			}
			log := util.NewLogger(cfg.App.LogLevel)

			cred, err := wallet.Load(cfg.Wallet.SourcePath)
			if err != nil {
				return err
			}

			_ = metrics.Serve(cfg.App.MetricsAddr)
			log.Info().Str("addr", cfg.App.MetricsAddr).Msg("metrics up")

			ctx := cmd.Context()
			client := xrpl.New(cfg.Ledger.RPCURL, time.Duration(cfg.Ledger.TimeoutMs)*time.Millisecond)
			stream := xrpl.NewLedgerStream(cfg.Ledger.WSURL, util.Component(log, "stream"))

			closes := make(chan xrpl.LedgerClose, 16)
			go func() {
				if err := stream.Run(ctx, closes); err != nil && ctx.Err() == nil {
					log.Error().Err(err).Msg("ledger stream stopped")
				}
			}()

			log.Info().Str("account", cred.Address).Msg("watching balance")
			var lastBalance int64 = -1
			for {
				select {
				case <-ctx.Done():
					log.Info().Msg("watch stopped")
					return nil
				case evt := <-closes:
					metrics.LedgerClosesTotal.Inc()
					balance, err := client.Balance(ctx, cred.Address)
					if err != nil {
						log.Warn().Err(err).Uint32("ledger", evt.LedgerIndex).Msg("balance lookup failed")
						continue
					}
					if balance != lastBalance {
						log.Info().
							Uint32("ledger", evt.LedgerIndex).
							Str("balance", xrpl.FormatXRP(balance)).
							Msg("balance update")
						lastBalance = balance
					}
				}
			}
		},
	}
}
