package system

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/yonathan001/Appointment/config"
	"github.com/yonathan001/Appointment/internal/model"
	"github.com/yonathan001/Appointment/pkg/authorize"
	"github.com/yonathan001/Appointment/pkg/database"
	"github.com/yonathan001/Appointment/pkg/util/password"
)

// NewSeedCommand bootstraps the first system admin account. Every other
// account can be created through the API once this one exists.
func NewSeedCommand() *cobra.Command {
	var (
		email string
		pass  string
		name  string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the initial system admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || pass == "" {
				return fmt.Errorf("--email and --password are required")
			}

			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return fmt.Errorf("failed to get config flag: %w", err)
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}

			db, err := database.NewFromCentral(cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			sqlDB, err := db.DB()
			if err != nil {
				return fmt.Errorf("failed to access database pool: %w", err)
			}
			defer sqlDB.Close()

			email = strings.ToLower(strings.TrimSpace(email))

			var existing model.User
			err = db.Where("email = ?", email).First(&existing).Error
			switch {
			case err == nil:
				fmt.Println("Account already exists, nothing to do.")
				return nil
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return fmt.Errorf("failed to look up account: %w", err)
			}

			hash, err := password.Hash(pass)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}

			admin := model.User{
				Email:        email,
				PasswordHash: hash,
				FirstName:    name,
				Role:         authorize.RoleSystemAdmin,
				IsSuperuser:  true,
				IsActive:     true,
			}
			if err := db.Create(&admin).Error; err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}

			fmt.Printf("System admin %s created.\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&pass, "password", "", "admin password")
	cmd.Flags().StringVar(&name, "name", "Admin", "admin display name")

	return cmd
}
