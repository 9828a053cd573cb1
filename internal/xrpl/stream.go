package xrpl

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// LedgerClose is one ledgerClosed event from the ledger stream.
type LedgerClose struct {
	LedgerIndex uint32 `json:"ledger_index"`
	LedgerHash  string `json:"ledger_hash"`
	TxnCount    int    `json:"txn_count"`
	FeeBase     int64  `json:"fee_base"`
}

// LedgerStream subscribes to ledger closes over the rippled websocket API.
type LedgerStream struct {
	url string
	log zerolog.Logger
}

// NewLedgerStream builds a stream against the given websocket endpoint.
func NewLedgerStream(url string, log zerolog.Logger) *LedgerStream {
	return &LedgerStream{url: url, log: log}
}

type streamFrame struct {
	Type        string `json:"type"`
	LedgerIndex uint32 `json:"ledger_index"`
	LedgerHash  string `json:"ledger_hash"`
	TxnCount    int    `json:"txn_count"`
	FeeBase     int64  `json:"fee_base"`
}

// Run connects, subscribes, and forwards every ledger close until the context
// is cancelled. One connection per call; no reconnect loop.
func (s *LedgerStream) Run(ctx context.Context, out chan<- LedgerClose) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}
	defer conn.Close()

	sub := map[string]any{
		"id":      1,
		"command": "subscribe",
		"streams": []string{"ledger"},
	}
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	s.log.Info().Str("url", s.url).Msg("subscribed to ledger stream")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-done:
			return
		case <-ctx.Done():
		}
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}
		var frame streamFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			s.log.Warn().Err(err).Msg("skipping malformed stream frame")
			continue
		}
		if frame.Type != "ledgerClosed" {
			continue
		}
		evt := LedgerClose{
			LedgerIndex: frame.LedgerIndex,
			LedgerHash:  frame.LedgerHash,
			TxnCount:    frame.TxnCount,
			FeeBase:     frame.FeeBase,
		}
		select {
		case out <- evt:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
