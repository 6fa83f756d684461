package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/dto"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/repository"
	appErrors "github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/errors"
)

// Realtime event types published on every milestone mutation.
const (
	EventMilestoneUpdated  = "milestone.updated"
	EventMilestonesReplace = "milestones.replaced"
)

type milestoneRepository interface {
	Load(ctx context.Context) ([]models.Milestone, error)
	Store(ctx context.Context, list []models.Milestone) error
}

// Publisher pushes an event to realtime subscribers.
type Publisher interface {
	Publish(msgType string, payload interface{})
}

// MilestoneStore is the shared milestone contract used by both the student and mentor views.
// None of its methods fail: read problems yield the seed list and write problems are logged.
type MilestoneStore interface {
	GetAll(ctx context.Context) []models.Milestone
	SaveAll(ctx context.Context, list []models.Milestone)
	UpdateByID(ctx context.Context, id int, patch models.MilestonePatch) (models.Milestone, bool)
}

// MilestoneService owns the persisted milestone list and the review workflow layered on top of it.
type MilestoneService struct {
	mu        sync.Mutex
	repo      milestoneRepository
	validator *validator.Validate
	publisher Publisher
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

var _ MilestoneStore = (*MilestoneService)(nil)

// NewMilestoneService constructs the service. publisher and metrics may be nil.
func NewMilestoneService(repo milestoneRepository, validate *validator.Validate, publisher Publisher, metrics *MetricsService, logger *zap.Logger) *MilestoneService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &MilestoneService{
		repo:      repo,
		validator: validate,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// GetAll returns the persisted list, or the seed list when nothing usable is stored.
func (s *MilestoneService) GetAll(ctx context.Context) []models.Milestone {
	list, err := s.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrSlotNotFound) {
			s.logger.Warn("milestone read failed, serving seed list", zap.Error(err))
			s.metrics.RecordStoreFallback("read")
		}
		return models.SeedMilestones()
	}
	return list
}

// SaveAll overwrites the persisted list. A write failure is logged and dropped.
func (s *MilestoneService) SaveAll(ctx context.Context, list []models.Milestone) {
	if err := s.repo.Store(ctx, list); err != nil {
		s.logger.Error("milestone write failed", zap.Int("count", len(list)), zap.Error(err))
		s.metrics.RecordStoreFallback("write")
	}
}

// UpdateByID shallow-merges patch onto the matching record and writes the list back.
// It reports false and writes nothing when no record has that id.
func (s *MilestoneService) UpdateByID(ctx context.Context, id int, patch models.MilestonePatch) (models.Milestone, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(ctx, id, patch)
}

func (s *MilestoneService) updateLocked(ctx context.Context, id int, patch models.MilestonePatch) (models.Milestone, bool) {
	list := s.GetAll(ctx)
	for i := range list {
		if list[i].ID != id {
			continue
		}
		list[i] = list[i].Apply(patch)
		s.SaveAll(ctx, list)
		s.publish(EventMilestoneUpdated, list[i])
		return list[i], true
	}
	return models.Milestone{}, false
}

// List returns every milestone.
func (s *MilestoneService) List(ctx context.Context) []models.Milestone {
	return s.GetAll(ctx)
}

// Get returns one milestone.
func (s *MilestoneService) Get(ctx context.Context, id int) (*models.Milestone, error) {
	for _, m := range s.GetAll(ctx) {
		if m.ID == id {
			found := m
			return &found, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "milestone not found")
}

// Update applies a validated partial edit.
func (s *MilestoneService) Update(ctx context.Context, id int, req dto.UpdateMilestoneRequest) (*models.Milestone, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid milestone payload")
	}
	patch := req.Patch()
	if patch.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}
	if patch.Status != nil && !patch.Status.Editable() {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "status is set through submit and review"),
			map[string]interface{}{"status": *patch.Status})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil && !current.Status.Editable() && current.Status != models.MilestoneDenied {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrConflict, "milestone is under review or completed"),
			map[string]interface{}{"status": current.Status})
	}
	updated, _ := s.updateLocked(ctx, id, patch)
	return &updated, nil
}

// Replace overwrites the whole list after validating every record.
func (s *MilestoneService) Replace(ctx context.Context, req dto.ReplaceMilestonesRequest) ([]models.Milestone, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid milestone list")
	}
	seen := make(map[int]struct{}, len(req.Milestones))
	for _, m := range req.Milestones {
		if _, dup := seen[m.ID]; dup {
			return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "duplicate milestone id"), map[string]interface{}{"id": m.ID})
		}
		seen[m.ID] = struct{}{}
	}
	s.mu.Lock()
	s.SaveAll(ctx, req.Milestones)
	s.mu.Unlock()
	s.publish(EventMilestonesReplace, req.Milestones)
	return req.Milestones, nil
}

// Submit moves a milestone into Pending Review on behalf of the student.
func (s *MilestoneService) Submit(ctx context.Context, id int) (*models.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	switch current.Status {
	case models.MilestonePendingReview, models.MilestoneCompleted:
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrConflict, "milestone cannot be submitted"),
			map[string]interface{}{"status": current.Status})
	}

	now := s.now().UTC()
	status := models.MilestonePendingReview
	empty := ""
	updated, _ := s.updateLocked(ctx, id, models.MilestonePatch{
		Status:      &status,
		SubmittedAt: &now,
		Feedback:    &empty,
		Decision:    new(models.ReviewDecision),
	})
	return &updated, nil
}

// Review records a mentor decision on a pending milestone.
func (s *MilestoneService) Review(ctx context.Context, id int, req dto.ReviewMilestoneRequest, reviewer string) (*models.Milestone, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	if req.Decision == models.DecisionDeny && strings.TrimSpace(req.Feedback) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "feedback is required when denying a milestone")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != models.MilestonePendingReview {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrConflict, "milestone is not pending review"),
			map[string]interface{}{"status": current.Status})
	}

	status := models.MilestoneCompleted
	if req.Decision == models.DecisionDeny {
		status = models.MilestoneDenied
	}
	now := s.now().UTC()
	decision := req.Decision
	feedback := req.Feedback
	patch := models.MilestonePatch{
		Status:     &status,
		Decision:   &decision,
		Feedback:   &feedback,
		ReviewedAt: &now,
		Reviewer:   &reviewer,
	}
	if req.ReviewBy != "" {
		reviewBy := req.ReviewBy
		patch.ReviewBy = &reviewBy
	}
	updated, _ := s.updateLocked(ctx, id, patch)
	s.logger.Info("milestone reviewed",
		zap.Int("milestone_id", id),
		zap.String("decision", string(req.Decision)),
		zap.String("reviewer", reviewer))
	return &updated, nil
}

// PendingReview lists milestones awaiting a mentor.
func (s *MilestoneService) PendingReview(ctx context.Context) []models.Milestone {
	var out []models.Milestone
	for _, m := range s.GetAll(ctx) {
		if m.Status == models.MilestonePendingReview {
			out = append(out, m)
		}
	}
	return out
}

// Reset restores the seed list.
func (s *MilestoneService) Reset(ctx context.Context) []models.Milestone {
	seed := models.SeedMilestones()
	s.mu.Lock()
	s.SaveAll(ctx, seed)
	s.mu.Unlock()
	s.publish(EventMilestonesReplace, seed)
	return seed
}

func (s *MilestoneService) find(ctx context.Context, id int) (models.Milestone, error) {
	for _, m := range s.GetAll(ctx) {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Milestone{}, appErrors.Clone(appErrors.ErrNotFound, "milestone not found")
}

func (s *MilestoneService) publish(msgType string, payload interface{}) {
	if s.publisher != nil {
		s.publisher.Publish(msgType, payload)
	}
}
