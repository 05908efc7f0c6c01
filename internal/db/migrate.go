package db

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rubricware/rubrichub/internal/models"
	"github.com/rubricware/rubrichub/internal/security"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for all persisted models and seeds
// the initial admin account when none exists.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errAuto := conn.AutoMigrate(
		&models.User{},
		&models.Rubric{},
		&models.RubricRow{},
		&models.RubricTemplate{},
		&models.TemplateRow{},
		&models.Setting{},
	); errAuto != nil {
		return fmt.Errorf("db: migrate: %w", errAuto)
	}
	return seedAdmin(conn)
}

// seedAdmin creates the bootstrap admin account when no admin exists. The
// password comes from RUBRICHUB_ADMIN_PASSWORD and defaults to "admin".
func seedAdmin(conn *gorm.DB) error {
	var existing models.User
	errFind := conn.Where("role = ?", models.RoleAdmin).First(&existing).Error
	if errFind == nil {
		return nil
	}
	if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return fmt.Errorf("db: seed admin lookup: %w", errFind)
	}

	password := strings.TrimSpace(os.Getenv("RUBRICHUB_ADMIN_PASSWORD"))
	if password == "" {
		password = "admin"
	}
	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return fmt.Errorf("db: seed admin hash: %w", errHash)
	}

	admin := models.User{
		Username: "admin",
		Email:    "admin@localhost",
		Password: hash,
		Role:     models.RoleAdmin,
		Active:   true,
	}
	if errCreate := conn.Create(&admin).Error; errCreate != nil {
		return fmt.Errorf("db: seed admin: %w", errCreate)
	}
	return nil
}
