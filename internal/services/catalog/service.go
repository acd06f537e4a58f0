// Package catalog maintains the locally cached coin catalog.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/cryptofolio/internal/common"
	"github.com/bobmcallan/cryptofolio/internal/interfaces"
	"github.com/bobmcallan/cryptofolio/internal/models"
)

// Service implements CatalogService over a CoinGecko client and a file cache.
type Service struct {
	client interfaces.CoinGeckoClient
	store  interfaces.CatalogStorage
	ttl    time.Duration
	logger *common.Logger

	now func() time.Time // test seam
}

// NewService creates a catalog service with the given cache time-to-live.
func NewService(client interfaces.CoinGeckoClient, store interfaces.CatalogStorage, ttl time.Duration, logger *common.Logger) *Service {
	return &Service{
		client: client,
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Get returns the catalog. A cache younger than the TTL wins; otherwise the
// service fetches the full catalog, persists it and returns it. When the
// fetch fails a stale-but-parseable cache is still served; with no cache at
// all the error means the catalog is unavailable and resolution must stop.
func (s *Service) Get(ctx context.Context) ([]models.CatalogEntry, error) {
	cached, mtime, cacheErr := s.store.GetCatalog(ctx)
	if cacheErr == nil && s.now().Sub(mtime) < s.ttl && len(cached) > 0 {
		s.logger.Debug().Int("coins", len(cached)).Msg("Catalog served from cache")
		return cached, nil
	}

	entries, err := s.fetch(ctx)
	if err != nil {
		if cacheErr == nil && len(cached) > 0 {
			s.logger.Warn().Err(err).Msg("Catalog refresh failed, serving stale cache")
			return cached, nil
		}
		return nil, fmt.Errorf("no catalog available: %w", err)
	}

	return entries, nil
}

// Refresh fetches and persists the catalog regardless of cache age.
func (s *Service) Refresh(ctx context.Context) ([]models.CatalogEntry, error) {
	entries, err := s.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog refresh failed: %w", err)
	}
	return entries, nil
}

func (s *Service) fetch(ctx context.Context) ([]models.CatalogEntry, error) {
	entries, err := s.client.ListCoins(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog service returned no coins")
	}

	if err := s.store.SaveCatalog(ctx, entries); err != nil {
		// A fetch that cannot be cached is still usable this run.
		s.logger.Warn().Err(err).Msg("Failed to persist catalog cache")
	}

	s.logger.Info().Int("coins", len(entries)).Msg("Catalog refreshed")
	return entries, nil
}

// Ensure Service implements CatalogService
var _ interfaces.CatalogService = (*Service)(nil)
