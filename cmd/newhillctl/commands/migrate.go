package commands

import (
	"fmt"

	"newhill-spices/internal/model"
	"newhill-spices/pkg/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables for every model",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := connect()
		if err != nil {
			return err
		}
		if err := database.Migrate(db, model.All()...); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Migrated %d tables\n", len(model.All()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
