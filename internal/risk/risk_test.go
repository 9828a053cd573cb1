package risk

import "testing"

func TestParseTier(t *testing.T) {
	cases := map[string]Tier{
		"aggressive":         Aggressive,
		"A":                  Aggressive,
		"moderate":           Moderate,
		"b":                  Moderate,
		"Conservative":       Conservative,
		"ultra-conservative": UltraConservative,
		"ultra":              UltraConservative,
		"":                   Moderate,
		"yolo":               Moderate,
	}
	for input, want := range cases {
		if got := ParseTier(input); got != want {
			t.Fatalf("ParseTier(%q) = %s, want %s", input, got, want)
		}
	}
}

func TestDeployFractions(t *testing.T) {
	cases := map[Tier]float64{
		Aggressive:        0.25,
		Moderate:          0.05,
		Conservative:      0.025,
		UltraConservative: 0.01,
	}
	for tier, want := range cases {
		if got := tier.DeployFraction(); got != want {
			t.Fatalf("%s fraction = %v, want %v", tier, got, want)
		}
	}
}

func TestSizeStandsDownAtOrBelowReserve(t *testing.T) {
	// 10.00001 XRP against a 10 XRP reserve leaves only dust.
	if _, ok := Size(10_000_010, 10_000_000, Moderate, 5, 10); ok {
		t.Fatalf("expected stand down for dust-level deployable")
	}
	if _, ok := Size(10_000_000, 10_000_000, Moderate, 5, 10); ok {
		t.Fatalf("expected stand down for balance equal to reserve")
	}
	if _, ok := Size(5_000_000, 10_000_000, Aggressive, 5, 10); ok {
		t.Fatalf("expected stand down for balance under reserve")
	}
}

func TestSizeModerateTier(t *testing.T) {
	// 110 XRP balance, 10 XRP reserve, moderate 5%: deployable 100 XRP,
	// principal 5 XRP, fee floor(5e6 * 5 / 10000) = 2500 drops.
	plan, ok := Size(110_000_000, 10_000_000, Moderate, 5, 10)
	if !ok {
		t.Fatalf("expected a sized plan")
	}
	if plan.DeployableDrops != 100_000_000 {
		t.Fatalf("deployable = %d, want 100000000", plan.DeployableDrops)
	}
	if plan.TradeDrops != 5_000_000 {
		t.Fatalf("principal = %d, want 5000000", plan.TradeDrops)
	}
	if plan.FeeDrops != 2500 {
		t.Fatalf("fee = %d, want 2500", plan.FeeDrops)
	}
}

func TestSizeFeeFloor(t *testing.T) {
	// Small principal: computed fee under the floor gets raised to it.
	plan, ok := Size(10_002_000, 10_000_000, Aggressive, 5, 10)
	if !ok {
		t.Fatalf("expected a sized plan")
	}
	if plan.TradeDrops != 500 {
		t.Fatalf("principal = %d, want 500", plan.TradeDrops)
	}
	if plan.FeeDrops != 10 {
		t.Fatalf("fee = %d, want floor 10", plan.FeeDrops)
	}
}

func TestSizeFeeNeverBelowFloor(t *testing.T) {
	for balance := int64(10_000_100); balance < 10_010_000; balance += 777 {
		plan, ok := Size(balance, 10_000_000, Aggressive, 5, 10)
		if !ok {
			continue
		}
		if plan.FeeDrops < 10 {
			t.Fatalf("balance %d: fee %d below floor", balance, plan.FeeDrops)
		}
	}
}

func TestSizeInvariantLegsWithinDeployable(t *testing.T) {
	plan, ok := Size(1_000_000_000, 10_000_000, Aggressive, 5, 10)
	if !ok {
		t.Fatalf("expected a sized plan")
	}
	if plan.TradeDrops+plan.FeeDrops > plan.DeployableDrops {
		t.Fatalf("principal+fee %d exceeds deployable %d", plan.TradeDrops+plan.FeeDrops, plan.DeployableDrops)
	}
}

func TestSizeClampsFeeToDeployable(t *testing.T) {
	// Deployable 10 XRP, aggressive principal 2.5 XRP, but an absurd fee
	// floor of 100 XRP. The fee leg gets clamped to what remains rather
	// than eating into the reserve.
	plan, ok := Size(20_000_000, 10_000_000, Aggressive, 10_000, 100_000_000)
	if !ok {
		t.Fatalf("expected a sized plan")
	}
	if plan.TradeDrops != 2_500_000 {
		t.Fatalf("principal = %d, want 2500000", plan.TradeDrops)
	}
	if plan.FeeDrops != 7_500_000 {
		t.Fatalf("fee = %d, want remaining deployable 7500000", plan.FeeDrops)
	}
	if plan.TradeDrops+plan.FeeDrops > plan.DeployableDrops {
		t.Fatalf("principal+fee %d exceeds deployable %d", plan.TradeDrops+plan.FeeDrops, plan.DeployableDrops)
	}
}
