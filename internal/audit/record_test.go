package audit

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"sweepbot-go/internal/xrpl"
)

func sampleInput() BuildInput {
	seq := uint32(91234567)
	load := 1.0
	state := "full"
	return BuildInput{
		Now:         time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Source:      "rSourceAddress",
		Destination: "rVaultAddress",
		Legs: []Leg{
			{Purpose: "principal", Drops: 5_000_000},
			{Purpose: "protocol-fee", Drops: 2500},
		},
		NetworkFeeDrops: 12,
		ProtocolFeeBps:  5,
		Status: xrpl.Status{
			LedgerSequence: &seq,
			LoadFactor:     &load,
			ServerState:    &state,
		},
		Mode:     "SIMULATE",
		RiskTier: "moderate",
	}
}

func TestBuildIsDeterministicApartFromIdentity(t *testing.T) {
	first := Build(sampleInput())
	second := Build(sampleInput())

	if !reflect.DeepEqual(first.Transfers, second.Transfers) {
		t.Fatalf("transfers differ between identical builds")
	}
	if first.Charges != second.Charges {
		t.Fatalf("charges differ between identical builds")
	}
	if first.Debtor != second.Debtor || first.Creditor != second.Creditor {
		t.Fatalf("parties differ between identical builds")
	}
	if first.EndToEndID != second.EndToEndID {
		t.Fatalf("end-to-end id should be stable for a fixed timestamp and sequence")
	}
	if first.RecordID == second.RecordID {
		t.Fatalf("record ids must be unique")
	}
}

func TestBuildFields(t *testing.T) {
	record := Build(sampleInput())

	if record.Schema != Schema {
		t.Fatalf("unexpected schema: %s", record.Schema)
	}
	if record.EndToEndID != "SWEEP-91234567-1788091200" {
		t.Fatalf("unexpected end-to-end id: %s", record.EndToEndID)
	}
	if len(record.Transfers) != 2 {
		t.Fatalf("expected 2 transfer lines, got %d", len(record.Transfers))
	}
	if record.Transfers[0].Value != "5.000000" {
		t.Fatalf("principal value = %s, want 5.000000", record.Transfers[0].Value)
	}
	if record.Transfers[1].Drops != 2500 {
		t.Fatalf("fee drops = %d, want 2500", record.Transfers[1].Drops)
	}
	if record.Charges.ProtocolFeeBps != 5 {
		t.Fatalf("protocol fee bps = %d, want 5", record.Charges.ProtocolFeeBps)
	}
	if record.Context.RiskTier != "moderate" {
		t.Fatalf("risk tier = %s, want moderate", record.Context.RiskTier)
	}
}

func TestBuildWithoutDestination(t *testing.T) {
	in := sampleInput()
	in.Destination = ""
	record := Build(in)
	if record.Creditor.ID != "N/A" {
		t.Fatalf("creditor id = %s, want N/A", record.Creditor.ID)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	record := Build(sampleInput())
	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	var decoded SettlementRecord
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	if !reflect.DeepEqual(record, decoded) {
		t.Fatalf("round trip mismatch:\n  sent %+v\n  got  %+v", record, decoded)
	}
}
