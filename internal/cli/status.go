package cli

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"sweepbot-go/internal/xrpl"
)

// NewStatusCommand prints the node's server status and fee ladder as JSON.
func NewStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print ledger server status and fees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve()
			if err != nil {
				return err
			}
			client := xrpl.New(cfg.Ledger.RPCURL, time.Duration(cfg.Ledger.TimeoutMs)*time.Millisecond)

			status, err := client.ServerStatus(cmd.Context())
			if err != nil {
				return err
			}
			fees, err := client.Fee(cmd.Context())
			if err != nil {
				return err
			}

			out := struct {
				Endpoint         string      `json:"endpoint"`
				Status           xrpl.Status `json:"status"`
				BaseFeeDrops     int64       `json:"base_fee_drops"`
				MedianFeeDrops   int64       `json:"median_fee_drops"`
				OpenLedgerDrops  int64       `json:"open_ledger_fee_drops"`
				RecommendedDrops int64       `json:"recommended_fee_drops"`
			}{
				Endpoint:         cfg.Ledger.RPCURL,
				Status:           status,
				BaseFeeDrops:     fees.BaseDrops,
				MedianFeeDrops:   fees.MedianDrops,
				OpenLedgerDrops:  fees.OpenLedgerDrops,
				RecommendedDrops: fees.Recommended(),
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(out)
		},
	}
}
