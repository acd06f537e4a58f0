// Package activation computes activated allocation fractions and tracks
// activation state across runs.
package activation

import (
	"strings"

	"github.com/bobmcallan/cryptofolio/internal/models"
)

// Stables is the stable-asset allowlist: tokens always treated as fully
// activated regardless of price or thresholds.
type Stables map[string]bool

// NewStables builds a case-insensitive allowlist from token labels.
func NewStables(tokens []string) Stables {
	s := make(Stables, len(tokens))
	for _, t := range tokens {
		s[strings.ToLower(strings.TrimSpace(t))] = true
	}
	return s
}

// Contains reports whether token is on the allowlist (case-insensitive).
func (s Stables) Contains(token string) bool {
	return s[strings.ToLower(strings.TrimSpace(token))]
}

// ComputeFraction applies the activation rules in order, first match wins:
// stable asset => 1.0 unconditionally; single threshold => all-or-nothing at
// entry1; two thresholds => each contributes an independent half; otherwise
// 0.0. An unknown price never satisfies a threshold.
func ComputeFraction(pos models.Position, price *float64, stables Stables) float64 {
	if stables.Contains(pos.Token) {
		return 1.0
	}

	switch {
	case pos.Entry1 != nil && pos.Entry2 == nil:
		if price != nil && *price <= *pos.Entry1 {
			return 1.0
		}
		return 0.0
	case pos.Entry1 != nil && pos.Entry2 != nil:
		fraction := 0.0
		if price != nil && *price <= *pos.Entry1 {
			fraction += 0.5
		}
		if price != nil && *price <= *pos.Entry2 {
			fraction += 0.5
		}
		return fraction
	default:
		return 0.0
	}
}

// ComputeRecord builds the activation record for one position. A non-nil
// override supersedes the computed fraction (clamped to [0,1]); the computed
// value remains the default an operator sees before overriding.
func ComputeRecord(pos models.Position, marketID string, price *float64, override *float64, stables Stables) models.ActivationRecord {
	fraction := ComputeFraction(pos, price, stables)

	overridden := false
	if override != nil {
		fraction = clamp01(*override)
		overridden = true
	}

	return models.ActivationRecord{
		Token:             pos.Token,
		MarketID:          marketID,
		TargetPercent:     pos.TargetPercent,
		PriceUSD:          price,
		ActivatedFraction: fraction,
		ActivatedPercent:  pos.TargetPercent * fraction,
		Overridden:        overridden,
	}
}

// ActiveAlloc sums activated allocation percent over all records.
func ActiveAlloc(records []models.ActivationRecord) float64 {
	total := 0.0
	for _, r := range records {
		total += r.ActivatedPercent
	}
	return total
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
