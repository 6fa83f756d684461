package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/manyap062/L2L-Independent-Study-Demo-sub000/internal/wizard"
)

func newWizardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Inspect the Project Builder state machine",
	}

	cmd.AddCommand(
		newWizardTableCmd(),
		newWizardEventsCmd(),
	)

	return cmd
}

func newWizardTableCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the transition table",
		RunE: func(cmd *cobra.Command, args []string) error {
			edges := wizard.Table()
			out := cmd.OutOrStdout()

			switch format {
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(edges); err != nil {
					return fmt.Errorf("encode transition table: %w", err)
				}
				return enc.Close()
			case "table", "":
				headers := []string{"From", "Event", "To", "Guarded", "When"}
				rows := make([][]string, 0, len(edges))
				for _, e := range edges {
					to := string(e.To)
					if e.Exit != "" {
						to = "exit:" + e.Exit
					}
					guarded := ""
					if e.Guarded {
						guarded = "yes"
					}
					rows = append(rows, []string{string(e.From), string(e.Event), to, guarded, e.When})
				}
				fmt.Fprint(out, renderTable(headers, rows))
				fmt.Fprintf(out, "%s and %s are accepted on every screen.\n", wizard.EventBackToStart, wizard.EventRestart)
				return nil
			default:
				return fmt.Errorf("unknown format %q (want table or yaml)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "table", "table or yaml")
	return cmd
}

func newWizardEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events SCREEN",
		Short: "List the events a screen accepts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			screen, err := wizard.ParseScreen(args[0])
			if err != nil {
				return err
			}
			allowed := wizard.Allowed(screen)
			names := make([]string, len(allowed))
			for i, ev := range allowed {
				names[i] = string(ev)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(names, "\n"))
			return nil
		},
	}
}
