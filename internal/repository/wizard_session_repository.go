package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
)

const wizardSessionPrefix = "l2l:wizard:"

// WizardSessionRepository stores Project Builder sessions as JSON slots with a sliding TTL.
type WizardSessionRepository struct {
	store SlotStore
	ttl   time.Duration
}

// NewWizardSessionRepository constructs the repository.
func NewWizardSessionRepository(store SlotStore, ttl time.Duration) *WizardSessionRepository {
	return &WizardSessionRepository{store: store, ttl: ttl}
}

func wizardSessionKey(id string) string {
	return wizardSessionPrefix + id
}

// Get loads a session. Unknown or expired ids yield ErrSlotNotFound.
func (r *WizardSessionRepository) Get(ctx context.Context, id string) (*models.WizardSession, error) {
	raw, err := r.store.Get(ctx, wizardSessionKey(id))
	if err != nil {
		return nil, err
	}
	var session models.WizardSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode wizard session %s: %w", id, err)
	}
	return &session, nil
}

// Save writes a session and refreshes its TTL.
func (r *WizardSessionRepository) Save(ctx context.Context, session *models.WizardSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode wizard session %s: %w", session.ID, err)
	}
	return r.store.Put(ctx, wizardSessionKey(session.ID), payload, r.ttl)
}

// Delete removes a session.
func (r *WizardSessionRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, wizardSessionKey(id))
}
