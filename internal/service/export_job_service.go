package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/dto"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/repository"
	appErrors "github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/errors"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/jobs"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/storage"
)

type exportJobStore interface {
	Save(ctx context.Context, job *models.ExportJob) error
	Get(ctx context.Context, id string) (*models.ExportJob, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) (string, error)
}

type exportGenerator interface {
	Generate(ctx context.Context, job *models.ExportJob) (*ExportResult, error)
}

type exportOpener interface {
	Open(token string) (*Download, error)
}

// ExportJobService accepts export requests and reports their progress.
type ExportJobService struct {
	repo      exportJobStore
	queue     jobDispatcher
	files     exportOpener
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportJobService constructs the service.
func NewExportJobService(repo exportJobStore, queue jobDispatcher, files exportOpener, validate *validator.Validate, logger *zap.Logger) *ExportJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &ExportJobService{repo: repo, queue: queue, files: files, validator: validate, logger: logger, now: time.Now}
}

// Request persists a queued job and hands it to the worker pool.
func (s *ExportJobService) Request(ctx context.Context, userID string, req dto.ExportRequest) (*models.ExportJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}
	job := &models.ExportJob{
		ID:        uuid.NewString(),
		Kind:      models.ExportKindCompletedWork,
		Format:    req.Format,
		Status:    models.ExportStatusQueued,
		CreatedBy: userID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Save(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist export job")
	}
	if _, err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Kind), Payload: job.Format}); err != nil {
		job.Status = models.ExportStatusFailed
		job.Error = "failed to enqueue job"
		if saveErr := s.repo.Save(ctx, job); saveErr != nil {
			s.logger.Warn("failed to mark export failed", zap.String("job_id", job.ID), zap.Error(saveErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}
	return job, nil
}

// Status returns a job owned by userID.
func (s *ExportJobService) Status(ctx context.Context, userID, id string) (*models.ExportJob, error) {
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSlotNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	if job.CreatedBy != userID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return job, nil
}

// Download resolves a signed token into the stored file.
func (s *ExportJobService) Download(_ context.Context, token string) (*Download, error) {
	dl, err := s.files.Open(token)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrTokenExpired):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "download link expired")
		case errors.Is(err, storage.ErrInvalidToken):
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid download token")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file not found")
	}
	return dl, nil
}

// ExportWorker bridges queue jobs to ExportService.
type ExportWorker struct {
	repo     exportJobStore
	exporter exportGenerator
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportWorker constructs a worker.
func NewExportWorker(repo exportJobStore, exporter exportGenerator, metrics *MetricsService, logger *zap.Logger) *ExportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportWorker{repo: repo, exporter: exporter, metrics: metrics, logger: logger, now: time.Now}
}

// Handle processes one queue job. Errors are returned so the queue can retry.
func (w *ExportWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.repo.Get(ctx, job.ID)
	if err != nil {
		return err
	}
	record.Status = models.ExportStatusRunning
	if err := w.repo.Save(ctx, record); err != nil {
		return err
	}

	result, err := w.exporter.Generate(ctx, record)
	if err != nil {
		record.Status = models.ExportStatusQueued
		record.Error = err.Error()
		if saveErr := w.repo.Save(ctx, record); saveErr != nil {
			w.logger.Warn("failed to mark export queued", zap.String("job_id", job.ID), zap.Error(saveErr))
		}
		return err
	}

	now := w.now().UTC()
	expires := result.ExpiresAt
	record.Status = models.ExportStatusDone
	record.ResultPath = result.RelativePath
	record.Token = result.Token
	record.URL = result.URL
	record.ExpiresAt = &expires
	record.Error = ""
	record.FinishedAt = &now
	if err := w.repo.Save(ctx, record); err != nil {
		return err
	}
	w.metrics.RecordExportJob(string(record.Format), string(record.Status))
	w.logger.Info("export finished", zap.String("job_id", job.ID), zap.String("path", result.RelativePath))
	return nil
}

// GiveUp marks a job failed after the queue exhausts its retries.
func (w *ExportWorker) GiveUp(job jobs.Job, cause error) {
	ctx := context.Background()
	record, err := w.repo.Get(ctx, job.ID)
	if err != nil {
		w.logger.Warn("failed to load export after retries", zap.String("job_id", job.ID), zap.Error(err))
		return
	}
	now := w.now().UTC()
	record.Status = models.ExportStatusFailed
	record.Error = cause.Error()
	record.FinishedAt = &now
	if err := w.repo.Save(ctx, record); err != nil {
		w.logger.Warn("failed to mark export failed", zap.String("job_id", job.ID), zap.Error(err))
	}
	w.metrics.RecordExportJob(string(record.Format), string(record.Status))
}
