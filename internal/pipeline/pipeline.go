// Package pipeline runs one sweep cycle top to bottom: load credentials,
// snapshot ledger state, size the sweep, write the settlement record, then
// simulate or submit. One invocation is one linear pass with no retries and
// no state carried between runs.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"sweepbot-go/internal/audit"
	"sweepbot-go/internal/config"
	"sweepbot-go/internal/execution"
	"sweepbot-go/internal/metrics"
	"sweepbot-go/internal/risk"
	"sweepbot-go/internal/wallet"
	"sweepbot-go/internal/xrpl"
)

// Ledger is the full node surface one cycle touches.
type Ledger interface {
	execution.Ledger
	AccountInfo(ctx context.Context, address string) (*xrpl.AccountRoot, error)
	ServerStatus(ctx context.Context) (xrpl.Status, error)
	Fee(ctx context.Context) (xrpl.FeeSnapshot, error)
}

// Recorder persists settlement records.
type Recorder interface {
	Append(audit.SettlementRecord) error
}

// Result summarizes how the cycle ended. A nil error with StandDown set means
// nothing was deployable; a nil error otherwise means the cycle completed,
// possibly with a fee-leg warning captured on the report.
type Result struct {
	StandDown bool
	Plan      risk.Plan
	Record    *audit.SettlementRecord
	Report    *execution.Report
}

// Runner wires the collaborators for a cycle.
type Runner struct {
	cfg      *config.Config
	ledger   Ledger
	recorder Recorder
	log      zerolog.Logger
}

// NewRunner builds a cycle runner.
func NewRunner(cfg *config.Config, ledger Ledger, recorder Recorder, log zerolog.Logger) *Runner {
	return &Runner{cfg: cfg, ledger: ledger, recorder: recorder, log: log}
}

// Run executes one cycle. Errors are fatal for the run: credential problems,
// a failed balance lookup, or a failed principal leg. Advisory failures
// (status lookup, fee-leg submission) degrade and are logged instead.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	mode := r.cfg.Mode
	tier := risk.ParseTier(r.cfg.Risk.Tier)
	metrics.CyclesTotal.WithLabelValues(mode).Inc()

	r.log.Info().Str("mode", mode).Str("risk", tier.Label()).Msg("cycle starting")

	// Credentials first: configuration errors must surface before any
	// network call.
	cred, err := wallet.Load(r.cfg.Wallet.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("load source wallet: %w", err)
	}
	vaultAddress, err := wallet.LoadVaultAddress(r.cfg.Wallet.VaultPath)
	if err != nil {
		return nil, fmt.Errorf("load vault wallet: %w", err)
	}
	r.log.Info().Str("source", cred.Address).Str("vault", orNone(vaultAddress)).Msg("wallets loaded")

	// Advisory ledger snapshot. A failure here degrades to absent fields.
	status, err := r.ledger.ServerStatus(ctx)
	if err != nil {
		r.log.Warn().Err(err).Msg("status lookup failed; continuing without ledger context")
		status = xrpl.Status{}
	} else {
		r.logStatus(status)
	}

	// Critical balance lookup.
	balance, err := r.ledger.Balance(ctx, cred.Address)
	if err != nil {
		return nil, fmt.Errorf("balance lookup: %w", err)
	}
	r.log.Info().Str("balance", xrpl.FormatXRP(balance)).Msg("source balance")

	routable := r.vaultRoutable(ctx, cred.Address, vaultAddress)

	// Sizing.
	plan, ok := risk.Size(balance, r.cfg.Risk.ReserveDrops, tier, r.cfg.Risk.FeeBps, r.cfg.Risk.MinFeeDrops)
	if !ok {
		metrics.StandDownsTotal.Inc()
		r.log.Info().
			Str("balance", xrpl.FormatXRP(balance)).
			Str("reserve", xrpl.FormatXRP(r.cfg.Risk.ReserveDrops)).
			Msg("nothing deployable above reserve; standing down")
		// Stand-down cycles write no settlement record: the outbox holds
		// planned movements only.
		return &Result{StandDown: true, Plan: plan}, nil
	}
	r.log.Info().
		Int64("principal_drops", plan.TradeDrops).
		Int64("fee_drops", plan.FeeDrops).
		Str("principal", xrpl.FormatXRP(plan.TradeDrops)).
		Msg("sweep sized")

	// Estimated network fee for the record; advisory.
	var networkFee int64
	if fees, err := r.ledger.Fee(ctx); err != nil {
		r.log.Warn().Err(err).Msg("fee lookup failed; recording zero network fee estimate")
	} else {
		networkFee = fees.Recommended()
	}

	// Write-ahead settlement record: it must exist even if submission fails.
	destination := ""
	if routable {
		destination = vaultAddress
	}
	record := audit.Build(audit.BuildInput{
		Now:         time.Now(),
		Source:      cred.Address,
		Destination: destination,
		Legs: []audit.Leg{
			{Purpose: string(execution.PurposePrincipal), Drops: plan.TradeDrops},
			{Purpose: string(execution.PurposeFee), Drops: plan.FeeDrops},
		},
		NetworkFeeDrops: networkFee,
		ProtocolFeeBps:  r.cfg.Risk.FeeBps,
		Status:          status,
		Mode:            mode,
		RiskTier:        tier.Label(),
	})
	if err := r.recorder.Append(record); err != nil {
		return nil, fmt.Errorf("append settlement record: %w", err)
	}
	r.log.Info().Str("end_to_end_id", record.EndToEndID).Msg("settlement record appended")

	result := &Result{Plan: plan, Record: &record}

	if !routable {
		r.log.Warn().Msg("no routable vault; cycle is log and report only")
		result.Report = &execution.Report{Live: mode == config.ModeLive, OpeningDrops: balance, ClosingDrops: balance}
		return result, nil
	}

	principal, err := execution.NewPlannedTransfer(cred.Address, vaultAddress, plan.TradeDrops, execution.PurposePrincipal)
	if err != nil {
		return nil, fmt.Errorf("build principal: %w", err)
	}
	fee, err := execution.NewPlannedTransfer(cred.Address, vaultAddress, plan.FeeDrops, execution.PurposeFee)
	if err != nil {
		return nil, fmt.Errorf("build fee leg: %w", err)
	}

	executor := execution.NewExecutor(r.ledger, r.log)
	if mode != config.ModeLive {
		result.Report = executor.Simulate(principal, fee, balance)
		r.log.Info().Msg("simulation complete; balance delta 0.000000 XRP")
		return result, nil
	}

	report, err := executor.ExecuteLive(ctx, cred, principal, fee, balance)
	result.Report = report
	if err != nil {
		return result, err
	}
	if report.FeeLegError != "" {
		r.log.Warn().Str("detail", report.FeeLegError).Msg("cycle complete with fee-leg discrepancy")
	}
	r.log.Info().Str("delta", xrpl.FormatXRP(report.DeltaDrops)).Msg("live cycle complete")
	return result, nil
}

// vaultRoutable applies the live-routing preconditions: a vault is
// configured, differs from the source, and exists on-ledger.
func (r *Runner) vaultRoutable(ctx context.Context, source, vault string) bool {
	if vault == "" {
		return false
	}
	if vault == source {
		r.log.Warn().Msg("vault address equals source; vault routing disabled")
		return false
	}
	if _, err := r.ledger.AccountInfo(ctx, vault); err != nil {
		var qe *xrpl.QueryError
		if errors.As(err, &qe) && qe.NotFound() {
			r.log.Warn().Str("vault", vault).Msg("vault account not found on-ledger; vault routing disabled")
		} else {
			r.log.Warn().Err(err).Msg("vault lookup failed; vault routing disabled")
		}
		return false
	}
	return true
}

func (r *Runner) logStatus(status xrpl.Status) {
	evt := r.log.Info()
	if status.LedgerSequence != nil {
		evt = evt.Uint32("ledger_seq", *status.LedgerSequence)
	}
	if status.LoadFactor != nil {
		evt = evt.Float64("load_factor", *status.LoadFactor)
	}
	if status.Peers != nil {
		evt = evt.Int("peers", *status.Peers)
	}
	if status.ServerState != nil {
		evt = evt.Str("server_state", *status.ServerState)
	}
	evt.Msg("ledger status")
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}
