package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
)

const exportJobPrefix = "l2l:export:"

type exportJobRecord struct {
	models.ExportJob
	ResultPath string `json:"resultPath"`
	Token      string `json:"token"`
}

// ExportJobRepository tracks export jobs in a slot store.
type ExportJobRepository struct {
	store SlotStore
	ttl   time.Duration
}

// NewExportJobRepository constructs the repository. Jobs expire after ttl.
func NewExportJobRepository(store SlotStore, ttl time.Duration) *ExportJobRepository {
	return &ExportJobRepository{store: store, ttl: ttl}
}

// Save writes the job including its private result path and token.
func (r *ExportJobRepository) Save(ctx context.Context, job *models.ExportJob) error {
	rec := exportJobRecord{ExportJob: *job, ResultPath: job.ResultPath, Token: job.Token}
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode export job %s: %w", job.ID, err)
	}
	return r.store.Put(ctx, exportJobPrefix+job.ID, payload, r.ttl)
}

// Get loads a job. Unknown ids yield ErrSlotNotFound.
func (r *ExportJobRepository) Get(ctx context.Context, id string) (*models.ExportJob, error) {
	raw, err := r.store.Get(ctx, exportJobPrefix+id)
	if err != nil {
		return nil, err
	}
	var rec exportJobRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode export job %s: %w", id, err)
	}
	job := rec.ExportJob
	job.ResultPath = rec.ResultPath
	job.Token = rec.Token
	return &job, nil
}
