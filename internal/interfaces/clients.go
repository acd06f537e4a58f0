// Package interfaces defines service contracts for Cryptofolio
package interfaces

import (
	"context"

	"github.com/bobmcallan/cryptofolio/internal/models"
)

// CoinGeckoClient talks to the market-data service.
type CoinGeckoClient interface {
	// ListCoins retrieves the full coin catalog (id, symbol, name).
	ListCoins(ctx context.Context) ([]models.CatalogEntry, error)

	// SimplePrices retrieves current USD prices for a batch of market ids
	// in a single request.
	SimplePrices(ctx context.Context, ids []string) (map[string]float64, error)
}

// Notifier delivers activation alerts to an external messaging endpoint.
type Notifier interface {
	// Send posts a message. Implementations must not panic on missing
	// credentials; use Enabled to decide whether to call Send at all.
	Send(ctx context.Context, text string) error

	// Enabled reports whether credentials are configured.
	Enabled() bool
}
