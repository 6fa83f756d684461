package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/models"
)

var errNoMilestones = errors.New("milestone store is not configured")

func newMilestonesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestones",
		Short: "Inspect and reset the shared milestone list",
	}

	cmd.AddCommand(
		newMilestonesListCmd(app),
		newMilestonesResetCmd(app),
	)

	return cmd
}

func newMilestonesListCmd(app *App) *cobra.Command {
	var pending bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List milestones",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Milestones == nil {
				return errNoMilestones
			}
			list := app.Milestones.List(cmd.Context())
			if pending {
				list = app.Milestones.PendingReview(cmd.Context())
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No milestones.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), milestoneTable(list))
			return nil
		},
	}

	cmd.Flags().BoolVar(&pending, "pending", false, "only milestones awaiting mentor review")
	return cmd
}

func newMilestonesResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the seed milestones",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Milestones == nil {
				return errNoMilestones
			}
			if !yes {
				return errors.New("reset discards all milestone progress; pass --yes to confirm")
			}
			list := app.Milestones.Reset(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d seed milestones.\n", len(list))
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}

func milestoneTable(list []models.Milestone) string {
	headers := []string{"ID", "Title", "Due", "Status", "Reviewer"}
	rows := make([][]string, 0, len(list))
	for _, m := range list {
		rows = append(rows, []string{strconv.Itoa(m.ID), m.Title, m.DueDate, string(m.Status), m.Reviewer})
	}
	return renderTable(headers, rows)
}
