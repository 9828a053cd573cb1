package xrpl

import "fmt"

// DropsPerXRP is the minor-unit scale of the native currency.
const DropsPerXRP = 1_000_000

// DropsToXRP converts drops to a major-unit float for display.
func DropsToXRP(drops int64) float64 {
	return float64(drops) / DropsPerXRP
}

// FormatXRP renders drops as XRP with the canonical six decimals.
func FormatXRP(drops int64) string {
	return fmt.Sprintf("%.6f XRP", DropsToXRP(drops))
}
