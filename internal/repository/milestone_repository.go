package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
)

// DefaultMilestoneSlot is the slot key holding the milestone list.
const DefaultMilestoneSlot = "l2l:milestones"

// MilestoneRepository persists the whole milestone list as one JSON array in a slot.
type MilestoneRepository struct {
	store SlotStore
	key   string
}

// NewMilestoneRepository binds the repository to a slot key.
func NewMilestoneRepository(store SlotStore, key string) *MilestoneRepository {
	if key == "" {
		key = DefaultMilestoneSlot
	}
	return &MilestoneRepository{store: store, key: key}
}

// Key returns the slot key in use.
func (r *MilestoneRepository) Key() string {
	return r.key
}

// Load reads and decodes the list. A missing slot yields ErrSlotNotFound.
func (r *MilestoneRepository) Load(ctx context.Context) ([]models.Milestone, error) {
	raw, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, err
	}
	var list []models.Milestone
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode milestones: %w", err)
	}
	if list == nil {
		// a stored null counts as absent; [] is a real empty list
		return nil, ErrSlotNotFound
	}
	return list, nil
}

// Store encodes and writes the list.
func (r *MilestoneRepository) Store(ctx context.Context, list []models.Milestone) error {
	if list == nil {
		list = []models.Milestone{}
	}
	payload, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode milestones: %w", err)
	}
	return r.store.Put(ctx, r.key, payload, 0)
}
