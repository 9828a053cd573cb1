package xrpl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Ledgers from the current validated tip a submitted transaction stays
// eligible for inclusion.
const lastLedgerOffset = 20

// SubmitResult is the provisional answer from the submit command.
type SubmitResult struct {
	EngineResult        string `json:"engine_result"`
	EngineResultCode    int    `json:"engine_result_code"`
	EngineResultMessage string `json:"engine_result_message"`
	Accepted            bool   `json:"accepted"`
	Applied             bool   `json:"applied"`
}

type txResult struct {
	Validated bool `json:"validated"`
	Meta      struct {
		TransactionResult string `json:"TransactionResult"`
	} `json:"meta"`
}

// Outcome is the final, validated fate of one submitted payment.
type Outcome struct {
	Hash        string
	Result      string
	Validated   bool
	LedgerIndex uint32
}

// Succeeded reports whether the transaction made it into a validated ledger
// with a tes result.
func (o Outcome) Succeeded() bool {
	return o.Validated && strings.HasPrefix(o.Result, "tes")
}

// Autofill fills sequence, network fee, and the last-ledger bound from live
// ledger state. The caller supplies the rest of the payment.
func (c *Client) Autofill(ctx context.Context, p *Payment) error {
	root, err := c.AccountInfo(ctx, p.Account)
	if err != nil {
		return fmt.Errorf("autofill sequence: %w", err)
	}
	p.Sequence = root.Sequence

	fees, err := c.Fee(ctx)
	if err != nil {
		return fmt.Errorf("autofill fee: %w", err)
	}
	p.FeeDrops = fees.Recommended()

	status, err := c.ServerStatus(ctx)
	if err != nil {
		return fmt.Errorf("autofill ledger bound: %w", err)
	}
	if status.LedgerSequence == nil {
		return fmt.Errorf("autofill ledger bound: no validated ledger reported")
	}
	p.LastLedgerSequence = *status.LedgerSequence + lastLedgerOffset
	return nil
}

// Submit sends a signed blob to the open ledger.
func (c *Client) Submit(ctx context.Context, blob string) (SubmitResult, error) {
	raw, err := c.Request(ctx, "submit", map[string]any{"tx_blob": blob})
	if err != nil {
		return SubmitResult{}, err
	}
	var result SubmitResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return SubmitResult{}, &QueryError{Method: "submit", Err: fmt.Errorf("decode result: %w", err)}
	}
	return result, nil
}

// Tx looks up a transaction by hash.
func (c *Client) Tx(ctx context.Context, hash string) (validated bool, result string, err error) {
	raw, err := c.Request(ctx, "tx", map[string]any{"transaction": hash, "binary": false})
	if err != nil {
		return false, "", err
	}
	var tx txResult
	if err := json.Unmarshal(raw, &tx); err != nil {
		return false, "", &QueryError{Method: "tx", Err: fmt.Errorf("decode result: %w", err)}
	}
	return tx.Validated, tx.Meta.TransactionResult, nil
}

// SubmitAndWait submits a signed payment and polls until it lands in a
// validated ledger or its last-ledger bound passes.
func (c *Client) SubmitAndWait(ctx context.Context, p *Payment) (Outcome, error) {
	blob, err := p.Blob()
	if err != nil {
		return Outcome{}, err
	}
	hash, err := p.Hash()
	if err != nil {
		return Outcome{}, err
	}

	submitted, err := c.Submit(ctx, blob)
	if err != nil {
		return Outcome{Hash: hash}, err
	}
	// ter/tec class results can still be retried by the network into a later
	// ledger; anything tem/tef is dead on arrival.
	if strings.HasPrefix(submitted.EngineResult, "tem") || strings.HasPrefix(submitted.EngineResult, "tef") {
		return Outcome{Hash: hash, Result: submitted.EngineResult},
			fmt.Errorf("submit rejected: %s %s", submitted.EngineResult, submitted.EngineResultMessage)
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return Outcome{Hash: hash}, ctx.Err()
		case <-ticker.C:
		}

		validated, result, err := c.Tx(ctx, hash)
		if err != nil {
			var qe *QueryError
			if errors.As(err, &qe) && qe.NotFound() {
				expired, expErr := c.pastLastLedger(ctx, p.LastLedgerSequence)
				if expErr == nil && expired {
					return Outcome{Hash: hash},
						fmt.Errorf("transaction not included by ledger %d", p.LastLedgerSequence)
				}
				continue
			}
			return Outcome{Hash: hash}, err
		}
		if validated {
			return Outcome{Hash: hash, Result: result, Validated: true}, nil
		}
	}
}

func (c *Client) pastLastLedger(ctx context.Context, bound uint32) (bool, error) {
	status, err := c.ServerStatus(ctx)
	if err != nil {
		return false, err
	}
	if status.LedgerSequence == nil {
		return false, nil
	}
	return *status.LedgerSequence > bound, nil
}
