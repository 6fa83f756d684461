package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/dto"
)

var errNoMentors = errors.New("mentor directory is not configured")

func newMentorsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mentors",
		Short: "Browse the mentor directory",
	}

	cmd.AddCommand(
		newMentorsSearchCmd(app),
		newMentorsDepartmentsCmd(app),
	)

	return cmd
}

func newMentorsSearchCmd(app *App) *cobra.Command {
	var (
		q      dto.MentorListQuery
		userID string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Filter and sort mentors",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Mentors == nil {
				return errNoMentors
			}
			if q.BookmarkedOnly && userID == "" {
				return errors.New("--bookmarked requires --user")
			}
			mentors, page, _, err := app.Mentors.List(cmd.Context(), userID, q)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(mentors) == 0 {
				fmt.Fprintln(out, "No mentors match.")
				return nil
			}

			headers := []string{"ID", "Name", "Department", "Match", "Years", "Interests"}
			rows := make([][]string, 0, len(mentors))
			for _, m := range mentors {
				rows = append(rows, []string{
					strconv.Itoa(m.ID),
					m.Name,
					m.Department,
					fmt.Sprintf("%d%%", m.MatchPercentage),
					strconv.Itoa(m.YearsExperience),
					strings.Join(m.Interests, ", "),
				})
			}
			fmt.Fprint(out, renderTable(headers, rows))
			if page != nil {
				fmt.Fprintf(out, "page %d, %d of %d mentors\n", page.Page, len(mentors), page.TotalCount)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringSliceVar(&q.Departments, "department", nil, "department id, repeatable")
	f.StringSliceVar(&q.Interests, "interest", nil, "sub-interest, repeatable")
	f.StringVarP(&q.Search, "query", "q", "", "free-text search over name, title and interests")
	f.StringVar(&q.Sort, "sort", "", "match, experience or name")
	f.BoolVar(&q.BookmarkedOnly, "bookmarked", false, "only mentors the user bookmarked")
	f.StringVar(&userID, "user", "", "user whose bookmarks apply")
	f.IntVar(&q.Page, "page", 0, "page number")
	f.IntVar(&q.PageSize, "page-size", 0, "mentors per page")

	return cmd
}

func newMentorsDepartmentsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "departments",
		Short: "List departments with mentor counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Mentors == nil {
				return errNoMentors
			}
			departments := app.Mentors.Departments(cmd.Context())

			headers := []string{"ID", "Name", "Icon", "Mentors"}
			rows := make([][]string, 0, len(departments))
			for _, d := range departments {
				rows = append(rows, []string{d.ID, d.Name, string(d.Icon), strconv.Itoa(d.MentorCount)})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(headers, rows))
			return nil
		},
	}
}
