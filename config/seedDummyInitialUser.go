package config

import (
	"errors"
	"fmt"
	"strings"

	"parking-marketplace-backend/db/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedInitialAdmin creates the first admin account from ADMIN_EMAIL / ADMIN_PASSWORD so promo
// codes and vehicle verification can be managed on a fresh database. No-op when unset.
func SeedInitialAdmin(db *gorm.DB) error {
	email := strings.ToLower(strings.TrimSpace(GetEnv("ADMIN_EMAIL")))
	password := GetEnv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		Logger.Info("Initial admin already exists", zap.String("email", existing.Email))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("error checking for existing admin: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := models.User{
		FullName: GetEnvDefault("ADMIN_NAME", "Administrator"),
		Email:    email,
		Password: string(hashed),
		Role:     models.AdminRole,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create initial admin: %w", err)
	}

	Logger.Info("Initial admin created", zap.String("email", admin.Email))
	return nil
}
