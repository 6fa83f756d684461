package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/navigation"
)

func newNavigationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "navigation",
		Short: "Resolve paths to top-level views",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "views",
			Short: "List views and their canonical paths",
			RunE: func(cmd *cobra.Command, args []string) error {
				rows := make([][]string, 0, len(navigation.Views()))
				for _, v := range navigation.Views() {
					rows = append(rows, []string{string(v), navigation.PathForView(v)})
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"View", "Path"}, rows))
				return nil
			},
		},
		&cobra.Command{
			Use:   "resolve PATH",
			Short: "Show which view a path lands on",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v := navigation.ViewForPath(args[0])
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n", args[0], v, navigation.PathForView(v))
				return nil
			},
		},
		newNavigationWalkCmd(),
	)

	return cmd
}

func newNavigationWalkCmd() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "walk STEP...",
		Short: "Replay a browsing session through the back/forward history",
		Long: `Each STEP is a path, a view name, or one of "back" and "forward".
Paths and views push a history entry only when the path changes.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := navigation.NewHistory(start)
			rows := make([][]string, 0, len(args))
			for _, step := range args {
				var note string
				switch step {
				case "back":
					if _, ok := h.Back(); !ok {
						note = "at start"
					}
				case "forward":
					if _, ok := h.Forward(); !ok {
						note = "at end"
					}
				default:
					var pushed bool
					if v, err := navigation.ParseView(step); err == nil {
						pushed = h.Navigate(v)
					} else {
						pushed = h.NavigatePath(step)
					}
					if !pushed {
						note = "unchanged"
					}
				}
				path, view := h.Current()
				rows = append(rows, []string{step, path, string(view), note})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Step", "Path", "View", "Note"}, rows))
			fmt.Fprintf(cmd.OutOrStdout(), "%d history entries\n", h.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "/", "path the session starts on")
	return cmd
}
