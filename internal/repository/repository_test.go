package repository

import (
	"testing"
	"time"

	"github.com/ukai02/iitk-transport/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Driver{}, &models.DriverStatus{}, &models.Admin{}))
	return db
}

func seedDriver(t *testing.T, drivers *DriverRepository, name, phone, vehicle, location string, at time.Time) *models.Driver {
	t.Helper()
	d := models.NewDriver(name, phone, vehicle, "")
	require.NoError(t, drivers.CreateWithStatus(d, location, at))
	return d
}
