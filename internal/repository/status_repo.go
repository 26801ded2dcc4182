package repository

import (
	"errors"
	"time"

	"github.com/ukai02/iitk-transport/internal/models"

	"gorm.io/gorm"
)

type StatusRepository struct {
	db *gorm.DB
}

func NewStatusRepository(db *gorm.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

func (r *StatusRepository) GetByDriverID(driverID uint) (*models.DriverStatus, error) {
	var s models.DriverStatus
	err := r.db.Where("driver_id = ?", driverID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SetOnline replaces the driver's status row with an online one at the
// given location.
func (r *StatusRepository) SetOnline(driverID uint, location string, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return replaceStatusTx(tx, &models.DriverStatus{
			DriverID:     driverID,
			LocationName: location,
			IsOnline:     true,
			LastUpdated:  now,
		})
	})
}

// SetOffline only flips the flag; the stored location survives so a later
// force-online can reuse it. Missing status row is a no-op.
func (r *StatusRepository) SetOffline(driverID uint) error {
	return r.db.Model(&models.DriverStatus{}).
		Where("driver_id = ?", driverID).
		Update("is_online", false).Error
}

// ExpireStale forces offline every row still flagged online whose last
// update is older than the cutoff. Idempotent; returns the number of rows
// flipped.
func (r *StatusRepository) ExpireStale(cutoff time.Time) (int64, error) {
	res := r.db.Model(&models.DriverStatus{}).
		Where("is_online = ? AND last_updated < ?", true, cutoff).
		Update("is_online", false)
	return res.RowsAffected, res.Error
}

// ListOnline returns drivers with an online status row, freshest first.
func (r *StatusRepository) ListOnline() ([]models.Driver, error) {
	var drivers []models.Driver
	err := r.db.
		Joins("JOIN driver_status ON driver_status.driver_id = drivers.id").
		Where("driver_status.is_online = ?", true).
		Preload("Status").
		Order("driver_status.last_updated DESC").
		Find(&drivers).Error
	return drivers, err
}

// ListAll returns every driver that has a status row, online first then by
// freshness, for the admin panel.
func (r *StatusRepository) ListAll() ([]models.Driver, error) {
	var drivers []models.Driver
	err := r.db.
		Joins("JOIN driver_status ON driver_status.driver_id = drivers.id").
		Preload("Status").
		Order("driver_status.is_online DESC, driver_status.last_updated DESC").
		Find(&drivers).Error
	return drivers, err
}

// replaceStatusTx implements the replace-the-whole-row contract: delete
// any existing row for the driver, insert the new one.
func replaceStatusTx(tx *gorm.DB, s *models.DriverStatus) error {
	err := tx.Where("driver_id = ?", s.DriverID).Delete(&models.DriverStatus{}).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.Create(s).Error
}
