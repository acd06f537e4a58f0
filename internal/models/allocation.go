package models

import "time"

// ActivationRecord is the per-token outcome of one evaluation run.
// MarketID is empty when the token could not be resolved; PriceUSD is nil when
// no quote was available. ActivatedPercent = TargetPercent * ActivatedFraction.
type ActivationRecord struct {
	Token             string   `json:"token"`
	MarketID          string   `json:"market_id,omitempty"`
	TargetPercent     float64  `json:"target_percent"`
	PriceUSD          *float64 `json:"price_usd,omitempty"`
	ActivatedFraction float64  `json:"activated_fraction"`
	ActivatedPercent  float64  `json:"activated_percent"`
	Overridden        bool     `json:"overridden,omitempty"`
}

// ActivationState maps token label to the activated allocation recorded by the
// last run. Values are percent units (0-100), matching ActivatedPercent.
// The state is overwritten wholesale each run; tokens absent from the current
// run drop out.
type ActivationState map[string]float64

// NewlyActivated is a token that transitioned from zero (or absent) to a
// positive activated allocation in the current run.
type NewlyActivated struct {
	Token            string  `json:"token"`
	ActivatedPercent float64 `json:"activated_percent"`
}

// PortfolioSummary is the full result of one evaluation run.
type PortfolioSummary struct {
	RunID             string             `json:"run_id"`
	GeneratedAt       time.Time          `json:"generated_at"`
	Records           []ActivationRecord `json:"records"`
	ActiveAllocPct    float64            `json:"active_alloc_percent"`
	NewlyActivated    []NewlyActivated   `json:"newly_activated,omitempty"`
	NotifyWarning     string             `json:"notify_warning,omitempty"`
	CatalogDegraded   bool               `json:"catalog_degraded,omitempty"`
	QuotesUnavailable bool               `json:"quotes_unavailable,omitempty"`
}
