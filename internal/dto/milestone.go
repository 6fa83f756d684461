package dto

import "github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"

// UpdateMilestoneRequest is a partial update; omitted fields stay untouched.
type UpdateMilestoneRequest struct {
	Title       *string                 `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string                 `json:"description,omitempty" validate:"omitempty,max=2000"`
	DueDate     *string                 `json:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Status      *models.MilestoneStatus `json:"status,omitempty" validate:"omitempty,milestonestatus"`
}

// Patch converts the request into a store patch.
func (r UpdateMilestoneRequest) Patch() models.MilestonePatch {
	return models.MilestonePatch{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Status:      r.Status,
	}
}

// ReviewMilestoneRequest is a mentor's verdict on a pending milestone.
type ReviewMilestoneRequest struct {
	Decision models.ReviewDecision `json:"decision" validate:"required,oneof=approve deny"`
	Feedback string                `json:"feedback" validate:"max=2000"`
	ReviewBy string                `json:"reviewBy,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// ReplaceMilestonesRequest overwrites the whole list.
type ReplaceMilestonesRequest struct {
	Milestones []models.Milestone `json:"milestones" validate:"dive"`
}
