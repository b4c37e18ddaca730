package plans

import "strings"

// Plan constants (single source of truth)
const (
	Starter = "starter"
	Creator = "creator"
	Pro     = "pro"
)

// PriceINR is the fixed price table in rupees. There is no plans table in the
// database; the three tiers and their prices are a product constant.
var PriceINR = map[string]float64{
	Starter: 99,
	Creator: 199,
	Pro:     299,
}

// FromAmount maps a payment amount in rupees to a plan.
// Unknown amounts fall back to starter rather than erroring, so a price
// change on the gateway side never drops a captured payment.
func FromAmount(amount float64) string {
	switch amount {
	case 99:
		return Starter
	case 199:
		return Creator
	case 299:
		return Pro
	default:
		return Starter
	}
}

// Normalize returns the canonical plan name, or "" if the input is not a
// known plan.
func Normalize(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case Starter:
		return Starter
	case Creator:
		return Creator
	case Pro:
		return Pro
	}
	return ""
}

// Rank orders plans for merge priority. Higher is better.
func Rank(plan string) int {
	switch plan {
	case Pro:
		return 3
	case Creator:
		return 2
	case Starter:
		return 1
	default:
		return 0
	}
}
