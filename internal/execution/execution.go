// Package execution turns a sized plan into ledger payments: build, validate,
// sign, submit, and report the realized outcome of one cycle.
package execution

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"sweepbot-go/internal/metrics"
	"sweepbot-go/internal/wallet"
	"sweepbot-go/internal/xrpl"
)

// Purpose tags each leg of a cycle.
type Purpose string

const (
	// PurposePrincipal is the main sweep leg.
	PurposePrincipal Purpose = "principal"
	// PurposeFee is the protocol-fee leg.
	PurposeFee Purpose = "protocol-fee"
)

// ErrInvalidTransfer marks degenerate transfer parameters. Upstream sizing
// should make this unreachable.
var ErrInvalidTransfer = errors.New("invalid transfer")

// PlannedTransfer is one immutable transfer instruction. Amounts are drops.
type PlannedTransfer struct {
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
	AmountDrops int64   `json:"amount_drops"`
	Purpose     Purpose `json:"purpose"`
}

// NewPlannedTransfer validates and constructs a transfer instruction.
func NewPlannedTransfer(source, destination string, amountDrops int64, purpose Purpose) (PlannedTransfer, error) {
	if amountDrops <= 0 {
		return PlannedTransfer{}, fmt.Errorf("%w: non-positive amount %d", ErrInvalidTransfer, amountDrops)
	}
	if source == destination {
		return PlannedTransfer{}, fmt.Errorf("%w: source equals destination %s", ErrInvalidTransfer, source)
	}
	return PlannedTransfer{
		Source:      source,
		Destination: destination,
		AmountDrops: amountDrops,
		Purpose:     purpose,
	}, nil
}

// Ledger is the slice of the node client the executor needs.
type Ledger interface {
	Balance(ctx context.Context, address string) (int64, error)
	Autofill(ctx context.Context, p *xrpl.Payment) error
	SubmitAndWait(ctx context.Context, p *xrpl.Payment) (xrpl.Outcome, error)
}

// LegResult is the outcome of one submitted leg.
type LegResult struct {
	Transfer PlannedTransfer
	Outcome  xrpl.Outcome
}

// Report summarizes one executed or simulated cycle.
type Report struct {
	Live         bool
	Principal    *LegResult
	Fee          *LegResult
	FeeLegError  string // set when the fee leg failed after a good principal
	OpeningDrops int64
	ClosingDrops int64
	DeltaDrops   int64
}

// Executor submits payments through a ledger client.
type Executor struct {
	ledger Ledger
	log    zerolog.Logger
}

// NewExecutor wires a ledger client and logger.
func NewExecutor(ledger Ledger, log zerolog.Logger) *Executor {
	return &Executor{ledger: ledger, log: log}
}

// Simulate builds both legs without touching the network and reports a zero
// balance delta.
func (e *Executor) Simulate(principal, fee PlannedTransfer, openingDrops int64) *Report {
	for _, leg := range []PlannedTransfer{principal, fee} {
		e.log.Info().
			Str("purpose", string(leg.Purpose)).
			Str("dest", leg.Destination).
			Int64("drops", leg.AmountDrops).
			Msg("simulated leg, not submitted")
		metrics.TransfersTotal.WithLabelValues(string(leg.Purpose), "simulated").Inc()
	}
	return &Report{
		Live:         false,
		Principal:    &LegResult{Transfer: principal},
		Fee:          &LegResult{Transfer: fee},
		OpeningDrops: openingDrops,
		ClosingDrops: openingDrops,
		DeltaDrops:   0,
	}
}

// ExecuteLive submits the principal leg, then the fee leg, then re-reads the
// source balance for the realized delta.
//
// Failure policy: a principal failure aborts the cycle before the fee leg is
// attempted and is returned as the error. A fee failure after a validated
// principal is recorded on the report as a warning; the principal is never
// rolled back or retried.
func (e *Executor) ExecuteLive(ctx context.Context, cred *wallet.Credential, principal, fee PlannedTransfer, openingDrops int64) (*Report, error) {
	report := &Report{Live: true, OpeningDrops: openingDrops}

	principalResult, err := e.submitLeg(ctx, cred, principal)
	report.Principal = principalResult
	if err != nil {
		return report, fmt.Errorf("principal leg: %w", err)
	}

	feeResult, err := e.submitLeg(ctx, cred, fee)
	report.Fee = feeResult
	if err != nil {
		report.FeeLegError = err.Error()
		e.log.Warn().Err(err).Msg("fee leg failed after validated principal; not rolling back")
	}

	closing, err := e.ledger.Balance(ctx, cred.Address)
	if err != nil {
		e.log.Warn().Err(err).Msg("could not re-read balance for delta report")
		report.ClosingDrops = openingDrops
	} else {
		report.ClosingDrops = closing
	}
	report.DeltaDrops = report.ClosingDrops - report.OpeningDrops
	return report, nil
}

func (e *Executor) submitLeg(ctx context.Context, cred *wallet.Credential, t PlannedTransfer) (*LegResult, error) {
	pub, priv, err := cred.Keys()
	if err != nil {
		return nil, err
	}

	payment := &xrpl.Payment{
		Account:     t.Source,
		Destination: t.Destination,
		AmountDrops: t.AmountDrops,
	}
	if err := e.ledger.Autofill(ctx, payment); err != nil {
		metrics.TransfersTotal.WithLabelValues(string(t.Purpose), "failed").Inc()
		return nil, err
	}
	if err := payment.Sign(pub, priv); err != nil {
		metrics.TransfersTotal.WithLabelValues(string(t.Purpose), "failed").Inc()
		return nil, err
	}

	e.log.Info().
		Str("purpose", string(t.Purpose)).
		Str("dest", t.Destination).
		Int64("drops", t.AmountDrops).
		Uint32("sequence", payment.Sequence).
		Msg("submitting leg")

	outcome, err := e.ledger.SubmitAndWait(ctx, payment)
	result := &LegResult{Transfer: t, Outcome: outcome}
	if err != nil {
		metrics.TransfersTotal.WithLabelValues(string(t.Purpose), "failed").Inc()
		return result, err
	}
	if !outcome.Succeeded() {
		metrics.TransfersTotal.WithLabelValues(string(t.Purpose), "failed").Inc()
		return result, fmt.Errorf("validated with result %s", outcome.Result)
	}
	metrics.TransfersTotal.WithLabelValues(string(t.Purpose), "validated").Inc()
	e.log.Info().Str("hash", outcome.Hash).Str("result", outcome.Result).Msg("leg validated")
	return result, nil
}
