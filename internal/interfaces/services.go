package interfaces

import (
	"context"

	"github.com/bobmcallan/cryptofolio/internal/models"
)

// CatalogService maintains the locally cached coin catalog.
type CatalogService interface {
	// Get returns the catalog, refreshing the cache when it is older than
	// the configured TTL. An empty catalog with a non-nil error means the
	// catalog is unavailable: no cache and the fetch failed.
	Get(ctx context.Context) ([]models.CatalogEntry, error)

	// Refresh fetches and persists the catalog regardless of cache age.
	Refresh(ctx context.Context) ([]models.CatalogEntry, error)
}

// TokenResolver maps free-text token labels to canonical market ids.
type TokenResolver interface {
	// Resolve returns the market id for a token label, or ok=false when no
	// exact or fuzzy match clears the cutoff.
	Resolve(token string, catalog []models.CatalogEntry) (id string, ok bool)
}

// QuoteService fetches live prices for resolved market ids.
type QuoteService interface {
	// FetchPrices batches all ids into one request. A failed batch returns
	// an empty map: every token in the run shows "no quote".
	FetchPrices(ctx context.Context, ids []string) map[string]float64
}

// PortfolioService runs the evaluation pipeline.
type PortfolioService interface {
	// Evaluate resolves, prices, activates, diffs and persists one run over
	// the given sheet. Overrides supersede computed fractions per token.
	Evaluate(ctx context.Context, sheet *models.PositionSheet, overrides map[string]float64) (*models.PortfolioSummary, error)

	// EvaluateStored runs Evaluate over the persisted sheet and overrides.
	EvaluateStored(ctx context.Context) (*models.PortfolioSummary, error)

	// LastSummary returns the most recent evaluation result, or nil before
	// the first run.
	LastSummary() *models.PortfolioSummary
}

// ReportService renders evaluation results for download.
type ReportService interface {
	// BuildPDF assembles the summary table and allocation charts into a
	// paginated PDF, returned as an in-memory buffer.
	BuildPDF(summary *models.PortfolioSummary) ([]byte, error)
}
