// Package audit builds and persists the settlement record for each cycle:
// one ISO 20022-flavoured JSON line appended to the outbox before any
// submission is attempted.
package audit

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"sweepbot-go/internal/xrpl"
)

// Schema identifies the record layout for downstream consumers.
const Schema = "sweepbot-pacs008-v1"

// Party identifies one side of the settlement.
type Party struct {
	Name     string `json:"name"`
	ID       string `json:"id"`
	RailHint string `json:"rail_hint"`
}

// TransferLine is one planned leg as recorded.
type TransferLine struct {
	Purpose  string `json:"purpose"`
	Currency string `json:"currency"`
	Drops    int64  `json:"value_drops"`
	Value    string `json:"value"`
}

// Charges captures the expected cost structure of the cycle.
type Charges struct {
	EstimatedNetworkFeeDrops int64 `json:"estimated_network_fee_drops"`
	ProtocolFeeBps           int64 `json:"protocol_fee_bps"`
}

// Context snapshots advisory ledger state at planning time. Absent fields
// stay null in the serialized record.
type Context struct {
	LedgerSequence *uint32  `json:"ledger_seq"`
	LoadFactor     *float64 `json:"load_factor"`
	ServerState    *string  `json:"server_state"`
	Mode           string   `json:"mode"`
	RiskTier       string   `json:"risk_tier"`
}

// SettlementRecord is one line of the append-only outbox.
type SettlementRecord struct {
	RecordID   string         `json:"record_id"`
	Schema     string         `json:"schema"`
	Timestamp  time.Time      `json:"timestamp"`
	Debtor     Party          `json:"debtor"`
	Creditor   Party          `json:"creditor"`
	Transfers  []TransferLine `json:"transfers"`
	Charges    Charges        `json:"charges"`
	Context    Context        `json:"context"`
	EndToEndID string         `json:"end_to_end_id"`
}

// Leg is one planned movement to be recorded.
type Leg struct {
	Purpose string
	Drops   int64
}

// BuildInput carries everything a record is derived from. Destination may be
// empty when no vault is routable; the record still captures the planned
// amounts.
type BuildInput struct {
	Now             time.Time
	Source          string
	Destination     string
	Legs            []Leg
	NetworkFeeDrops int64
	ProtocolFeeBps  int64
	Status          xrpl.Status
	Mode            string
	RiskTier        string
}

// Build derives a settlement record. Everything except RecordID and Timestamp
// is a pure function of the input.
func Build(in BuildInput) SettlementRecord {
	lines := make([]TransferLine, 0, len(in.Legs))
	for _, leg := range in.Legs {
		lines = append(lines, TransferLine{
			Purpose:  leg.Purpose,
			Currency: "XRP",
			Drops:    leg.Drops,
			Value:    fmt.Sprintf("%.6f", xrpl.DropsToXRP(leg.Drops)),
		})
	}

	var seq uint32
	if in.Status.LedgerSequence != nil {
		seq = *in.Status.LedgerSequence
	}

	return SettlementRecord{
		RecordID:  uuid.NewString(),
		Schema:    Schema,
		Timestamp: in.Now.UTC(),
		Debtor: Party{
			Name:     "sweep source",
			ID:       in.Source,
			RailHint: "XRPL",
		},
		Creditor:  creditor(in.Destination),
		Transfers: lines,
		Charges: Charges{
			EstimatedNetworkFeeDrops: in.NetworkFeeDrops,
			ProtocolFeeBps:           in.ProtocolFeeBps,
		},
		Context: Context{
			LedgerSequence: in.Status.LedgerSequence,
			LoadFactor:     in.Status.LoadFactor,
			ServerState:    in.Status.ServerState,
			Mode:           in.Mode,
			RiskTier:       in.RiskTier,
		},
		EndToEndID: fmt.Sprintf("SWEEP-%d-%d", seq, in.Now.UTC().Unix()),
	}
}

func creditor(destination string) Party {
	if destination == "" {
		return Party{Name: "N/A", ID: "N/A", RailHint: "N/A"}
	}
	return Party{Name: "sweep vault", ID: destination, RailHint: "XRPL"}
}
