package database

import (
	"errors"
	"log"

	"github.com/ukai02/iitk-transport/config"
	"github.com/ukai02/iitk-transport/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// The store is a single-writer embedded file; one connection avoids
	// SQLITE_BUSY between concurrent handlers.
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Driver{},
		&models.DriverStatus{},
		&models.Admin{},
	)
}

// SeedAdmin creates the panel account on first start. Existing accounts
// are left untouched so a changed env password never rotates silently.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) {
	var existing models.Admin
	err := db.Where("username = ?", cfg.Username).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[seed] admin lookup failed: %v", err)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[seed] hash failed: %v", err)
		return
	}
	if err := db.Create(&models.Admin{Username: cfg.Username, PasswordHash: string(hash)}).Error; err != nil {
		log.Printf("[seed] admin create failed: %v", err)
		return
	}
	log.Printf("[seed] admin account %q created", cfg.Username)
}
