package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNoMaintenance = errors.New("store maintenance is not configured")

func newStoreCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Store housekeeping",
	}

	var password string
	seed := &cobra.Command{
		Use:   "seed-users",
		Short: "Create the demo student, mentor and admin accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Maintenance == nil {
				return errNoMaintenance
			}
			if password == "" {
				return errors.New("--password is required")
			}
			n, err := app.Maintenance.SeedDemoUsers(cmd.Context(), password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d demo users.\n", n)
			return nil
		},
	}
	seed.Flags().StringVar(&password, "password", "", "password for every demo account")

	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete expired slots",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Maintenance == nil {
				return errNoMaintenance
			}
			n, err := app.Maintenance.PurgeExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purged %d expired slots.\n", n)
			return nil
		},
	}

	cmd.AddCommand(seed, purge)
	return cmd
}
