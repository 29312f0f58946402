package cmd

import (
	"errors"
	"fmt"

	"github.com/Kariqs/shopfront-api/models"
	"github.com/Kariqs/shopfront-api/services"
	"github.com/Kariqs/shopfront-api/utils"
	"github.com/spf13/cobra"
)

var (
	adminName     string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account or promote an existing user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminEmail == "" {
			return errors.New("--email is required")
		}

		cfg, logger, db, err := bootstrap()
		if err != nil {
			return err
		}
		users := services.NewUserService(db)

		user, err := users.SetRole(cmd.Context(), adminEmail, models.RoleAdmin)
		if err == nil {
			logger.Info("user promoted to admin", "user_id", user.ID, "email", user.Email)
			return nil
		}
		if !errors.Is(err, services.ErrUserNotFound) {
			return err
		}

		if adminPassword == "" {
			return fmt.Errorf("no user with email %s; pass --password to create one", adminEmail)
		}
		auth := services.NewAuthService(services.AuthServiceConfig{
			DB:       db,
			Sessions: services.NewSessionIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL, nil),
			Mailer:   &utils.LogMailer{Logger: logger},
			Logger:   logger,
		})
		result, err := auth.Register(cmd.Context(), models.RegisterData{
			Name:     adminName,
			Email:    adminEmail,
			Password: adminPassword,
		})
		if err != nil {
			return err
		}
		if _, err := users.SetRole(cmd.Context(), result.User.Email, models.RoleAdmin); err != nil {
			return err
		}

		logger.Info("admin created", "user_id", result.User.ID, "email", result.User.Email)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "Display name for a new admin")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Password when creating a new account")
}
