package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/vpa-project/vpa-backend/internal/config"
	"github.com/vpa-project/vpa-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Seed ensures the canonical roles and the bootstrap admin account exist.
// Guarded by the unique role name and unique user email, so it is safe to
// run on every process start.
func Seed(db *gorm.DB, cfg *config.Config) error {
	for _, name := range []string{models.RoleAdmin, models.RoleLotManager, models.RoleCustomer} {
		var role models.Role
		if err := db.Where("name = ?", name).FirstOrCreate(&role, models.Role{Name: name}).Error; err != nil {
			return fmt.Errorf("failed to seed role %q: %w", name, err)
		}
	}

	var admin models.User
	err := db.Where("email = ?", cfg.AdminEmail).First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	var adminRole models.Role
	if err := db.Where("name = ?", models.RoleAdmin).First(&adminRole).Error; err != nil {
		return fmt.Errorf("admin role missing after seed: %w", err)
	}

	admin = models.User{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: string(hash),
		Roles:        []models.Role{adminRole},
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	slog.Info("admin account seeded", "email", cfg.AdminEmail)
	return nil
}
