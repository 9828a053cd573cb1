package xrpl

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// AccountRoot is the slice of the on-ledger account object the engine reads.
type AccountRoot struct {
	Account  string `json:"Account"`
	Balance  string `json:"Balance"`
	Sequence uint32 `json:"Sequence"`
}

type accountInfoResult struct {
	AccountData AccountRoot `json:"account_data"`
	LedgerIndex uint32      `json:"ledger_index"`
	Validated   bool        `json:"validated"`
}

// AccountInfo fetches the validated account root for an address.
func (c *Client) AccountInfo(ctx context.Context, address string) (*AccountRoot, error) {
	raw, err := c.Request(ctx, "account_info", map[string]any{
		"account":      address,
		"ledger_index": "validated",
		"strict":       true,
	})
	if err != nil {
		return nil, err
	}
	var result accountInfoResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &QueryError{Method: "account_info", Err: fmt.Errorf("decode account_data: %w", err)}
	}
	return &result.AccountData, nil
}

// Balance returns the confirmed balance for an address in drops.
func (c *Client) Balance(ctx context.Context, address string) (int64, error) {
	root, err := c.AccountInfo(ctx, address)
	if err != nil {
		return 0, err
	}
	drops, err := strconv.ParseInt(root.Balance, 10, 64)
	if err != nil {
		return 0, &QueryError{Method: "account_info", Err: fmt.Errorf("parse balance %q: %w", root.Balance, err)}
	}
	return drops, nil
}

// Status is the advisory server snapshot. Fields are pointers: a failed or
// partial lookup leaves them nil rather than zero.
type Status struct {
	LedgerSequence *uint32  `json:"ledger_sequence,omitempty"`
	LoadFactor     *float64 `json:"load_factor,omitempty"`
	Peers          *int     `json:"peers,omitempty"`
	ServerState    *string  `json:"server_state,omitempty"`
}

type serverInfoResult struct {
	Info struct {
		ValidatedLedger struct {
			Seq uint32 `json:"seq"`
		} `json:"validated_ledger"`
		LoadFactor  float64 `json:"load_factor"`
		Peers       int     `json:"peers"`
		ServerState string  `json:"server_state"`
	} `json:"info"`
}

// ServerStatus fetches server_info. Errors are the caller's to demote; the
// trade decision never depends on this data.
func (c *Client) ServerStatus(ctx context.Context) (Status, error) {
	raw, err := c.Request(ctx, "server_info", nil)
	if err != nil {
		return Status{}, err
	}
	var result serverInfoResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return Status{}, &QueryError{Method: "server_info", Err: fmt.Errorf("decode info: %w", err)}
	}

	status := Status{}
	if result.Info.ValidatedLedger.Seq > 0 {
		seq := result.Info.ValidatedLedger.Seq
		status.LedgerSequence = &seq
	}
	if result.Info.LoadFactor > 0 {
		lf := result.Info.LoadFactor
		status.LoadFactor = &lf
	}
	if result.Info.Peers > 0 {
		peers := result.Info.Peers
		status.Peers = &peers
	}
	if result.Info.ServerState != "" {
		state := result.Info.ServerState
		status.ServerState = &state
	}
	return status, nil
}

// FeeSnapshot exposes the fee ladder from the rippled fee command, in drops.
type FeeSnapshot struct {
	BaseDrops       int64
	MedianDrops     int64
	OpenLedgerDrops int64
	LoadFactor      float64
}

type feeResult struct {
	Drops struct {
		BaseFee       string `json:"base_fee"`
		MedianFee     string `json:"median_fee"`
		OpenLedgerFee string `json:"open_ledger_fee"`
	} `json:"drops"`
	LoadFactor float64 `json:"load_factor"`
}

// maxNetworkFeeDrops caps autofilled fees so a stressed open ledger can never
// make a sweep pay more than 0.01 XRP in network fees.
const maxNetworkFeeDrops = 10_000

// Fee fetches the current fee ladder.
func (c *Client) Fee(ctx context.Context) (FeeSnapshot, error) {
	raw, err := c.Request(ctx, "fee", nil)
	if err != nil {
		return FeeSnapshot{}, err
	}
	var result feeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return FeeSnapshot{}, &QueryError{Method: "fee", Err: fmt.Errorf("decode drops: %w", err)}
	}

	snap := FeeSnapshot{LoadFactor: result.LoadFactor}
	snap.BaseDrops = parseDropsDefault(result.Drops.BaseFee, 10)
	snap.MedianDrops = parseDropsDefault(result.Drops.MedianFee, snap.BaseDrops)
	snap.OpenLedgerDrops = parseDropsDefault(result.Drops.OpenLedgerFee, snap.MedianDrops)
	return snap, nil
}

func parseDropsDefault(s string, fallback int64) int64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// Recommended returns a network fee in drops: the open-ledger fee with a 20%
// safety margin, never below the median, never above the cap.
func (s FeeSnapshot) Recommended() int64 {
	fee := s.OpenLedgerDrops + s.OpenLedgerDrops/5
	if fee < s.MedianDrops {
		fee = s.MedianDrops
	}
	if fee < 10 {
		fee = 10
	}
	if fee > maxNetworkFeeDrops {
		fee = maxNetworkFeeDrops
	}
	return fee
}
