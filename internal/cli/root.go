// Package cli implements l2lctl, the operator command line for the L2L backend.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/directory"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/dto"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/pkg/response"
)

// MentorDirectory is the read side of the mentor service.
type MentorDirectory interface {
	List(ctx context.Context, userID string, q dto.MentorListQuery) ([]directory.Mentor, *response.Pagination, bool, error)
	Departments(ctx context.Context) []dto.DepartmentResponse
}

// MilestoneBoard exposes the milestone operations an operator needs.
type MilestoneBoard interface {
	List(ctx context.Context) []models.Milestone
	PendingReview(ctx context.Context) []models.Milestone
	Reset(ctx context.Context) []models.Milestone
}

// Maintenance covers store housekeeping.
type Maintenance interface {
	SeedDemoUsers(ctx context.Context, password string) (int, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

// App holds the services commands run against. Fields a command does not touch may be nil.
type App struct {
	Mentors     MentorDirectory
	Milestones  MilestoneBoard
	Maintenance Maintenance
}

// NewRootCmd builds the l2lctl command tree.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "l2lctl",
		Short:         "Operate the L2L independent study backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMentorsCmd(app),
		newMilestonesCmd(app),
		newWizardCmd(),
		newNavigationCmd(),
		newStoreCmd(app),
	)

	return root
}
