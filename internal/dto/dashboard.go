package dto

import "github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"

// DashboardSummary aggregates milestone progress for the student dashboard.
type DashboardSummary struct {
	Total           int                            `json:"total"`
	ByStatus        map[models.MilestoneStatus]int `json:"byStatus"`
	PercentComplete int                            `json:"percentComplete"`
	PendingReview   int                            `json:"pendingReview"`
	NextDue         *models.Milestone              `json:"nextDue,omitempty"`
	Bookmarks       int                            `json:"bookmarkedMentors"`
}
