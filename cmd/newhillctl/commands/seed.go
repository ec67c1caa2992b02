package commands

import (
	"fmt"

	"newhill-spices/internal/seed"
	"newhill-spices/pkg/clock"

	"github.com/spf13/cobra"
)

var accessOnly bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert roles, privileges, the admin account and sample catalog",
	Long: `Seed is safe to repeat: rows that already exist are left alone.

Examples:
  newhillctl seed                 # Access control plus sample catalog
  newhillctl seed --access-only   # Roles, privileges and admin only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := connect()
		if err != nil {
			return err
		}
		s := seed.New(db, clock.NewRealClock())
		admin := seed.Admin{Email: cfg.AdminEmail, Password: cfg.AdminPassword}
		if accessOnly {
			err = s.Access(admin)
		} else {
			err = s.Run(admin)
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Seed complete")
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&accessOnly, "access-only", false, "Skip the sample catalog")
	rootCmd.AddCommand(seedCmd)
}
