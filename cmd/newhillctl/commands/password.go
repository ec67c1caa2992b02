package commands

import (
	"errors"
	"fmt"

	"newhill-spices/internal/repository"
	"newhill-spices/internal/service"
	"newhill-spices/pkg/clock"
	"newhill-spices/pkg/jwt"

	"github.com/spf13/cobra"
)

var (
	resetEmail    string
	resetPassword string
)

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Set a new password and revoke the user's sessions",
	Long: `Examples:
  newhillctl reset-password --email admin@newhillspices.com --password 'n3w-secret'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := connect()
		if err != nil {
			return err
		}
		clk := clock.NewRealClock()
		users := repository.NewUserRepo(db)
		audit := service.NewAuditService(repository.NewAuditRepo(db), nil, clk)
		auth := service.NewAuthService(users, repository.NewRoleRepo(db), jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL), audit, clk)

		if err := auth.ResetPassword(resetEmail, resetPassword); err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				return fmt.Errorf("❌ user %s not found", resetEmail)
			}
			return fmt.Errorf("❌ reset failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Password for %s updated, existing sessions revoked\n", resetEmail)
		return nil
	},
}

func init() {
	resetPasswordCmd.Flags().StringVar(&resetEmail, "email", "", "Account email")
	resetPasswordCmd.Flags().StringVar(&resetPassword, "password", "", "New password, at least 8 characters")
	_ = resetPasswordCmd.MarkFlagRequired("email")
	_ = resetPasswordCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(resetPasswordCmd)
}
