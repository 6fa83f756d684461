package service

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/dto"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
)

type bookmarkLister interface {
	List(ctx context.Context, userID string) ([]int, error)
}

// DashboardService composes the student dashboard from milestones and bookmarks.
type DashboardService struct {
	milestones milestoneLister
	bookmarks  bookmarkLister
	logger     *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(milestones milestoneLister, bookmarks bookmarkLister, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{milestones: milestones, bookmarks: bookmarks, logger: logger}
}

// Summary returns progress counters for userID. A bookmark lookup failure degrades to zero.
func (s *DashboardService) Summary(ctx context.Context, userID string) (*dto.DashboardSummary, error) {
	var (
		list      []models.Milestone
		bookmarks []int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list = s.milestones.GetAll(gctx)
		return nil
	})
	if s.bookmarks != nil && userID != "" {
		g.Go(func() error {
			ids, err := s.bookmarks.List(gctx, userID)
			if err != nil {
				s.logger.Warn("dashboard bookmark lookup failed", zap.String("user_id", userID), zap.Error(err))
				return nil
			}
			bookmarks = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := SummarizeMilestones(list)
	summary.Bookmarks = len(bookmarks)
	return summary, nil
}

// SummarizeMilestones computes status counts, completion percentage and the next due item.
func SummarizeMilestones(list []models.Milestone) *dto.DashboardSummary {
	summary := &dto.DashboardSummary{
		Total:    len(list),
		ByStatus: make(map[models.MilestoneStatus]int, len(models.MilestoneStatuses())),
	}
	for _, st := range models.MilestoneStatuses() {
		summary.ByStatus[st] = 0
	}

	open := make([]models.Milestone, 0, len(list))
	for _, m := range list {
		summary.ByStatus[m.Status]++
		if m.Status == models.MilestoneCompleted {
			continue
		}
		if m.DueDate != "" {
			open = append(open, m)
		}
	}
	summary.PendingReview = summary.ByStatus[models.MilestonePendingReview]
	if summary.Total > 0 {
		summary.PercentComplete = summary.ByStatus[models.MilestoneCompleted] * 100 / summary.Total
	}

	// ISO dates order lexically.
	sort.SliceStable(open, func(i, j int) bool { return open[i].DueDate < open[j].DueDate })
	if len(open) > 0 {
		next := open[0]
		summary.NextDue = &next
	}
	return summary
}
