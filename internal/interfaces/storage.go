package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/cryptofolio/internal/models"
)

// CatalogStorage persists the coin catalog cache artifact.
type CatalogStorage interface {
	// GetCatalog loads the cached catalog and the artifact's modification
	// time. Returns an error when no usable cache exists.
	GetCatalog(ctx context.Context) ([]models.CatalogEntry, time.Time, error)

	// SaveCatalog overwrites the cache artifact.
	SaveCatalog(ctx context.Context, entries []models.CatalogEntry) error
}

// StateStorage persists activation state and operator overrides.
type StateStorage interface {
	// GetState loads the last-recorded activation state. A missing state
	// file yields an empty state, not an error.
	GetState(ctx context.Context) (models.ActivationState, error)

	// SaveState overwrites the activation state wholesale.
	SaveState(ctx context.Context, state models.ActivationState) error

	// GetOverrides loads operator-supplied activation fractions (0-1) by token.
	GetOverrides(ctx context.Context) (map[string]float64, error)

	// SaveOverrides overwrites the override map.
	SaveOverrides(ctx context.Context, overrides map[string]float64) error
}

// SheetStorage persists the last uploaded position sheet so background
// re-evaluation can run without a fresh upload.
type SheetStorage interface {
	GetSheet(ctx context.Context) (*models.PositionSheet, error)
	SaveSheet(ctx context.Context, sheet *models.PositionSheet) error
}

// StorageManager aggregates the storage areas.
type StorageManager interface {
	CatalogStorage() CatalogStorage
	StateStorage() StateStorage
	SheetStorage() SheetStorage
	Close() error
}
