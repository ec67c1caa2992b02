package commands

import (
	"fmt"
	"os"

	"newhill-spices/pkg/config"
	"newhill-spices/pkg/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	// Global flags
	dbURL   string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "newhillctl",
	Short: "Operator tooling for the Newhill Spices store",
	Long: `newhillctl runs one-off maintenance against the store database.

Commands:
  migrate         - Create or update tables
  seed            - Insert roles, the admin account and sample data
  reset-password  - Set a new password and sign the user out everywhere
  rates           - Inspect or change Gulf exchange rates`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database URL (defaults to DATABASE_URL or the DB_* variables)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log SQL statements")
}

// connect loads config and opens the database named by --db or the environment.
func connect() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	db, err := database.Open(cfg.DSN(), verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	return cfg, db, nil
}
