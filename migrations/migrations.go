// SPDX-License-Identifier: GPL-3.0-only

package migrations

import (
	"errors"
	"findstay-server/commons"
	"findstay-server/crypto"
	"findstay-server/models"
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func List() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "001_seed_staff_user",
			Migrate: func(tx *gorm.DB) error {
				username := commons.GetEnv("ADMIN_USERNAME")
				email := commons.GetEnv("ADMIN_EMAIL")
				password := commons.GetEnv("ADMIN_PASSWORD")

				if username == "" || email == "" || password == "" {
					commons.Logger.Debug("ADMIN_* variables not set, skipping staff user seed")
					return nil
				}

				var existing models.User
				err := tx.Where("username = ? OR email = ?", username, email).First(&existing).Error
				if err == nil {
					return nil
				}
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("failed to check for existing staff user: %w", err)
				}

				hash, err := crypto.NewCrypto().HashPassword(password)
				if err != nil {
					return fmt.Errorf("failed to hash staff password: %w", err)
				}

				staff := models.User{
					Username:   username,
					Email:      email,
					Password:   hash,
					IsStaff:    true,
					IsVerified: true,
				}
				if err := tx.Create(&staff).Error; err != nil {
					return fmt.Errorf("failed to seed staff user: %w", err)
				}

				commons.Logger.Infof("Seeded staff user %q", username)
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				username := commons.GetEnv("ADMIN_USERNAME")
				if username == "" {
					return nil
				}
				return tx.Unscoped().Where("username = ? AND is_staff = ?", username, true).
					Delete(&models.User{}).Error
			},
		},
	}
}
