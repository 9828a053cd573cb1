// Package risk sizes one sweep from live balance, the reserve floor, and a
// fixed tier table. Pure arithmetic, no I/O.
package risk

import "strings"

// Tier selects what share of the deployable balance one cycle may move.
type Tier string

const (
	Aggressive        Tier = "aggressive"
	Moderate          Tier = "moderate"
	Conservative      Tier = "conservative"
	UltraConservative Tier = "ultra-conservative"
)

// Transfers below this are ledger dust and not worth a fee.
const minTradeDrops = 10

// ParseTier maps operator input onto a tier. Unrecognized values fall back to
// moderate rather than failing the run.
func ParseTier(s string) Tier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "aggressive", "a":
		return Aggressive
	case "moderate", "b":
		return Moderate
	case "conservative", "c":
		return Conservative
	case "ultra-conservative", "ultra", "d":
		return UltraConservative
	default:
		return Moderate
	}
}

// DeployFraction returns the fixed deploy percentage for a tier.
func (t Tier) DeployFraction() float64 {
	switch t {
	case Aggressive:
		return 0.25
	case Conservative:
		return 0.025
	case UltraConservative:
		return 0.01
	default:
		return 0.05
	}
}

// Label returns the operator-facing tier name.
func (t Tier) Label() string {
	if t == "" {
		return string(Moderate)
	}
	return string(t)
}

// Plan is the sized outcome of one cycle, in drops.
type Plan struct {
	Tier            Tier
	BalanceDrops    int64
	ReserveDrops    int64
	DeployableDrops int64
	TradeDrops      int64
	FeeDrops        int64
}

// Size computes the principal and protocol-fee amounts for one cycle.
// The second return is false when the cycle must stand down: balance at or
// under the reserve floor, or a principal below the dust floor.
func Size(balanceDrops, reserveDrops int64, tier Tier, feeBps, minFeeDrops int64) (Plan, bool) {
	plan := Plan{
		Tier:         tier,
		BalanceDrops: balanceDrops,
		ReserveDrops: reserveDrops,
	}
	if balanceDrops <= reserveDrops {
		return plan, false
	}

	plan.DeployableDrops = balanceDrops - reserveDrops
	plan.TradeDrops = int64(float64(plan.DeployableDrops) * tier.DeployFraction())
	if plan.TradeDrops < minTradeDrops {
		plan.TradeDrops = 0
		return plan, false
	}

	plan.FeeDrops = plan.TradeDrops * feeBps / 10_000
	if plan.FeeDrops < minFeeDrops {
		plan.FeeDrops = minFeeDrops
	}
	// Both legs must fit inside the deployable balance so the reserve floor
	// holds even under extreme fee settings.
	if remaining := plan.DeployableDrops - plan.TradeDrops; plan.FeeDrops > remaining {
		plan.FeeDrops = remaining
	}
	return plan, true
}
