// Package portfolio orchestrates the evaluation pipeline: resolve tokens,
// fetch quotes, compute activation, diff state, notify.
package portfolio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/cryptofolio/internal/common"
	"github.com/bobmcallan/cryptofolio/internal/interfaces"
	"github.com/bobmcallan/cryptofolio/internal/models"
	"github.com/bobmcallan/cryptofolio/internal/services/activation"
)

// Service implements PortfolioService.
type Service struct {
	catalog  interfaces.CatalogService
	resolver interfaces.TokenResolver
	quotes   interfaces.QuoteService
	tracker  *activation.Tracker
	storage  interfaces.StorageManager
	stables  activation.Stables
	logger   *common.Logger

	// Runs are serialized: the activation state file has a single writer.
	runMu sync.Mutex

	lastMu      sync.RWMutex
	lastSummary *models.PortfolioSummary
}

// NewService creates the pipeline orchestrator.
func NewService(
	catalog interfaces.CatalogService,
	resolver interfaces.TokenResolver,
	quotes interfaces.QuoteService,
	tracker *activation.Tracker,
	storage interfaces.StorageManager,
	stables activation.Stables,
	logger *common.Logger,
) *Service {
	return &Service{
		catalog:  catalog,
		resolver: resolver,
		quotes:   quotes,
		tracker:  tracker,
		storage:  storage,
		stables:  stables,
		logger:   logger,
	}
}

// Evaluate runs one pass over the sheet. Catalog unavailability degrades the
// run to static rules only (stable-asset allowlist, no price comparisons);
// every other upstream failure degrades individual values. Overrides are
// operator-supplied activation fractions in [0,1] by token.
func (s *Service) Evaluate(ctx context.Context, sheet *models.PositionSheet, overrides map[string]float64) (*models.PortfolioSummary, error) {
	if sheet == nil || len(sheet.Positions) == 0 {
		return nil, fmt.Errorf("position sheet is empty")
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.logger.Debug().Strs("tokens", sheet.Tokens()).Msg("Evaluation started")

	start := time.Now()
	summary := &models.PortfolioSummary{
		RunID:       uuid.NewString(),
		GeneratedAt: start,
	}

	// Resolution needs a catalog; an empty one is a hard stop for resolution
	// and pricing, not for the run. Static activation rules still apply.
	entries, err := s.catalog.Get(ctx)
	if err != nil || len(entries) == 0 {
		s.logger.Warn().Err(err).Msg("Catalog unavailable, skipping resolution and quotes")
		summary.CatalogDegraded = true
	}

	ids := map[string]string{}
	prices := map[string]float64{}
	if !summary.CatalogDegraded {
		for _, p := range sheet.Positions {
			if id, ok := s.resolver.Resolve(p.Token, entries); ok {
				ids[p.Token] = id
			}
		}

		batch := make([]string, 0, len(ids))
		for _, id := range ids {
			batch = append(batch, id)
		}
		prices = s.quotes.FetchPrices(ctx, batch)
		if len(batch) > 0 && len(prices) == 0 {
			summary.QuotesUnavailable = true
		}
	}

	records := make([]models.ActivationRecord, 0, len(sheet.Positions))
	for _, pos := range sheet.Positions {
		id := ids[pos.Token]

		var price *float64
		if id != "" {
			if v, ok := prices[id]; ok {
				price = &v
			}
		}

		var override *float64
		if v, ok := overrides[pos.Token]; ok {
			override = &v
		}

		records = append(records, activation.ComputeRecord(pos, id, price, override, s.stables))
	}

	events, warning, err := s.tracker.DiffAndPersist(ctx, records)
	if err != nil {
		return nil, err
	}

	summary.Records = records
	summary.ActiveAllocPct = activation.ActiveAlloc(records)
	summary.NewlyActivated = events
	summary.NotifyWarning = warning

	s.lastMu.Lock()
	s.lastSummary = summary
	s.lastMu.Unlock()

	s.logger.Info().
		Str("run_id", summary.RunID).
		Int("positions", len(records)).
		Int("newly_activated", len(events)).
		Float64("active_alloc", summary.ActiveAllocPct).
		Dur("elapsed", time.Since(start)).
		Msg("Evaluation complete")

	return summary, nil
}

// EvaluateStored runs Evaluate over the persisted sheet and overrides. Used
// by the background watcher and the report endpoints.
func (s *Service) EvaluateStored(ctx context.Context) (*models.PortfolioSummary, error) {
	sheet, err := s.storage.SheetStorage().GetSheet(ctx)
	if err != nil {
		return nil, fmt.Errorf("no position sheet uploaded: %w", err)
	}

	overrides, err := s.storage.StateStorage().GetOverrides(ctx)
	if err != nil {
		overrides = map[string]float64{}
	}

	return s.Evaluate(ctx, sheet, overrides)
}

// LastSummary returns the most recent evaluation result, or nil before the
// first run.
func (s *Service) LastSummary() *models.PortfolioSummary {
	s.lastMu.RLock()
	defer s.lastMu.RUnlock()
	return s.lastSummary
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
