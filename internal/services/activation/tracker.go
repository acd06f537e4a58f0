package activation

import (
	"context"
	"fmt"

	"github.com/bobmcallan/cryptofolio/internal/common"
	"github.com/bobmcallan/cryptofolio/internal/interfaces"
	"github.com/bobmcallan/cryptofolio/internal/models"
)

// Tracker diffs a run's records against persisted activation state, notifies
// on 0-to-positive transitions, and overwrites the state.
type Tracker struct {
	store    interfaces.StateStorage
	notifier interfaces.Notifier
	logger   *common.Logger
}

// NewTracker creates a tracker. notifier may be nil when no sink is wired.
func NewTracker(store interfaces.StateStorage, notifier interfaces.Notifier, logger *common.Logger) *Tracker {
	return &Tracker{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// DiffAndPersist computes the newly-activated set, overwrites the persisted
// state with the current run's mapping, and forwards one message per event to
// the notification sink. State values are percent units (0-100).
//
// Notification failures come back as a non-fatal warning string; only a state
// persistence failure is returned as an error. Deactivations (positive to
// zero) never produce events.
func (t *Tracker) DiffAndPersist(ctx context.Context, records []models.ActivationRecord) ([]models.NewlyActivated, string, error) {
	previous, err := t.store.GetState(ctx)
	if err != nil {
		// Unreadable state is treated as no prior run; the overwrite below
		// repairs the artifact.
		t.logger.Warn().Err(err).Msg("Activation state unreadable, assuming empty")
		previous = models.ActivationState{}
	}

	var events []models.NewlyActivated
	current := make(models.ActivationState, len(records))
	for _, r := range records {
		current[r.Token] = r.ActivatedPercent
		if r.ActivatedPercent > 0 && previous[r.Token] == 0 {
			events = append(events, models.NewlyActivated{
				Token:            r.Token,
				ActivatedPercent: r.ActivatedPercent,
			})
		}
	}

	// State is overwritten wholesale whether or not anything fired; tokens
	// absent from this run drop out.
	if err := t.store.SaveState(ctx, current); err != nil {
		return events, "", fmt.Errorf("persist activation state: %w", err)
	}

	warning := t.notify(ctx, events)

	t.logger.Info().
		Int("tokens", len(current)).
		Int("newly_activated", len(events)).
		Msg("Activation state persisted")

	return events, warning, nil
}

// notify forwards each event to the sink. Failures never abort the run.
func (t *Tracker) notify(ctx context.Context, events []models.NewlyActivated) string {
	if len(events) == 0 {
		return ""
	}
	if t.notifier == nil || !t.notifier.Enabled() {
		t.logger.Debug().Msg("Notification sink not configured, skipping alerts")
		return ""
	}

	failed := 0
	for _, e := range events {
		msg := fmt.Sprintf("%s – %.2f%% activated", e.Token, e.ActivatedPercent)
		if err := t.notifier.Send(ctx, msg); err != nil {
			failed++
			t.logger.Warn().Err(err).Str("token", e.Token).Msg("Activation alert delivery failed")
		}
	}

	if failed > 0 {
		return fmt.Sprintf("%d of %d activation alerts failed to send", failed, len(events))
	}
	return ""
}
