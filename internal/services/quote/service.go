// Package quote fetches live USD prices for resolved market ids.
package quote

import (
	"context"
	"sort"

	"github.com/bobmcallan/cryptofolio/internal/common"
	"github.com/bobmcallan/cryptofolio/internal/interfaces"
)

// Service implements QuoteService over a CoinGecko client.
type Service struct {
	client interfaces.CoinGeckoClient
	logger *common.Logger
}

// NewService creates a quote service.
func NewService(client interfaces.CoinGeckoClient, logger *common.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// FetchPrices batches all ids into a single request. A failed batch yields an
// empty map: every token in the run shows "no quote" equally, no partial
// credit and no retry. Duplicate and empty ids are collapsed first.
func (s *Service) FetchPrices(ctx context.Context, ids []string) map[string]float64 {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return map[string]float64{}
	}

	prices, err := s.client.SimplePrices(ctx, unique)
	if err != nil {
		s.logger.Warn().Err(err).Int("ids", len(unique)).Msg("Quote batch failed, all prices unavailable")
		return map[string]float64{}
	}

	s.logger.Debug().Int("requested", len(unique)).Int("quoted", len(prices)).Msg("Quotes fetched")
	return prices
}

// dedupe drops empty and repeated ids, returning a sorted batch so the
// outgoing request is deterministic.
func dedupe(ids []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Ensure Service implements QuoteService
var _ interfaces.QuoteService = (*Service)(nil)
