package models

import "time"

// MilestoneStatus is the review lifecycle of a milestone.
type MilestoneStatus string

const (
	MilestoneNotStarted    MilestoneStatus = "Not Started"
	MilestoneInProgress    MilestoneStatus = "In Progress"
	MilestonePendingReview MilestoneStatus = "Pending Review"
	MilestoneCompleted     MilestoneStatus = "Completed"
	MilestoneDenied        MilestoneStatus = "Denied"
)

// MilestoneStatuses lists every status in lifecycle order.
func MilestoneStatuses() []MilestoneStatus {
	return []MilestoneStatus{
		MilestoneNotStarted,
		MilestoneInProgress,
		MilestonePendingReview,
		MilestoneCompleted,
		MilestoneDenied,
	}
}

// Valid reports whether s is a known status.
func (s MilestoneStatus) Valid() bool {
	for _, known := range MilestoneStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// Editable reports whether a student may set s directly. The other statuses are
// reached through submit and review.
func (s MilestoneStatus) Editable() bool {
	return s == MilestoneNotStarted || s == MilestoneInProgress
}

// ReviewDecision is a mentor's verdict on a submitted milestone.
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionDeny    ReviewDecision = "deny"
)

// Milestone is a mentor-reviewable checkpoint in a student's project.
type Milestone struct {
	ID          int             `json:"id" validate:"min=1"`
	Title       string          `json:"title" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	DueDate     string          `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Status      MilestoneStatus `json:"status" validate:"milestonestatus"`
	Feedback    string          `json:"feedback,omitempty"`
	Decision    ReviewDecision  `json:"decision,omitempty"`
	ReviewBy    string          `json:"reviewBy,omitempty"`
	SubmittedAt *time.Time      `json:"submittedAt,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewedAt,omitempty"`
	Reviewer    string          `json:"reviewer,omitempty"`
}

// MilestonePatch holds a partial update. Nil fields are left as they are.
type MilestonePatch struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	DueDate     *string          `json:"dueDate,omitempty"`
	Status      *MilestoneStatus `json:"status,omitempty"`
	Feedback    *string          `json:"feedback,omitempty"`
	Decision    *ReviewDecision  `json:"decision,omitempty"`
	ReviewBy    *string          `json:"reviewBy,omitempty"`
	SubmittedAt *time.Time       `json:"submittedAt,omitempty"`
	ReviewedAt  *time.Time       `json:"reviewedAt,omitempty"`
	Reviewer    *string          `json:"reviewer,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p MilestonePatch) Empty() bool {
	return p == MilestonePatch{}
}

// Apply returns m with the patch's fields overlaid.
func (m Milestone) Apply(p MilestonePatch) Milestone {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.DueDate != nil {
		m.DueDate = *p.DueDate
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.Feedback != nil {
		m.Feedback = *p.Feedback
	}
	if p.Decision != nil {
		m.Decision = *p.Decision
	}
	if p.ReviewBy != nil {
		m.ReviewBy = *p.ReviewBy
	}
	if p.SubmittedAt != nil {
		ts := *p.SubmittedAt
		m.SubmittedAt = &ts
	}
	if p.ReviewedAt != nil {
		ts := *p.ReviewedAt
		m.ReviewedAt = &ts
	}
	if p.Reviewer != nil {
		m.Reviewer = *p.Reviewer
	}
	return m
}

// SeedMilestones is the list served when nothing has been persisted yet.
func SeedMilestones() []Milestone {
	return []Milestone{
		{
			ID:          1,
			Title:       "Project Proposal Approved",
			Description: "Submit the independent study proposal and get mentor sign-off.",
			DueDate:     "2025-09-15",
			Status:      MilestoneCompleted,
			Feedback:    "Clear scope and realistic timeline. Approved.",
			Decision:    DecisionApprove,
			Reviewer:    "Dr. Sarah Chen",
		},
		{
			ID:          2,
			Title:       "Literature Review",
			Description: "Summarise at least ten sources and identify the open question the project targets.",
			DueDate:     "2025-10-13",
			Status:      MilestoneInProgress,
		},
		{
			ID:          3,
			Title:       "Prototype Demo",
			Description: "Demonstrate a working prototype to your mentor and collect feedback.",
			DueDate:     "2025-11-10",
			Status:      MilestonePendingReview,
			ReviewBy:    "2025-11-17",
		},
		{
			ID:          4,
			Title:       "Final Presentation",
			Description: "Present results at the end-of-semester showcase and hand in the final report.",
			DueDate:     "2025-12-08",
			Status:      MilestoneNotStarted,
		},
	}
}
