package statefs

import (
	"context"
	"fmt"

	"github.com/bobmcallan/cryptofolio/internal/models"
)

// stateStorage persists the activation state and operator overrides as flat
// JSON maps, overwritten wholesale on every save.
type stateStorage struct {
	store *Store
}

func (st *stateStorage) GetState(_ context.Context) (models.ActivationState, error) {
	state := models.ActivationState{}
	if err := st.store.readJSON(stateFile, &state); err != nil {
		// No prior run is a normal condition, not an error.
		return models.ActivationState{}, nil
	}
	return state, nil
}

func (st *stateStorage) SaveState(_ context.Context, state models.ActivationState) error {
	if state == nil {
		state = models.ActivationState{}
	}
	if err := st.store.writeJSON(stateFile, state); err != nil {
		return fmt.Errorf("failed to save activation state: %w", err)
	}
	st.store.logger.Debug().Int("tokens", len(state)).Msg("Activation state saved")
	return nil
}

func (st *stateStorage) GetOverrides(_ context.Context) (map[string]float64, error) {
	overrides := map[string]float64{}
	if err := st.store.readJSON(overridesFile, &overrides); err != nil {
		return map[string]float64{}, nil
	}
	return overrides, nil
}

func (st *stateStorage) SaveOverrides(_ context.Context, overrides map[string]float64) error {
	if overrides == nil {
		overrides = map[string]float64{}
	}
	if err := st.store.writeJSON(overridesFile, overrides); err != nil {
		return fmt.Errorf("failed to save overrides: %w", err)
	}
	return nil
}

// sheetStorage persists the last uploaded position sheet.
type sheetStorage struct {
	store *Store
}

func (sh *sheetStorage) GetSheet(_ context.Context) (*models.PositionSheet, error) {
	var sheet models.PositionSheet
	if err := sh.store.readJSON(sheetFile, &sheet); err != nil {
		return nil, fmt.Errorf("no position sheet stored")
	}
	return &sheet, nil
}

func (sh *sheetStorage) SaveSheet(_ context.Context, sheet *models.PositionSheet) error {
	if sheet == nil {
		return fmt.Errorf("sheet is required")
	}
	if err := sh.store.writeJSON(sheetFile, sheet); err != nil {
		return fmt.Errorf("failed to save position sheet: %w", err)
	}
	sh.store.logger.Debug().Int("positions", len(sheet.Positions)).Msg("Position sheet saved")
	return nil
}
