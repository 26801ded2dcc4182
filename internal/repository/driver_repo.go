package repository

import (
	"errors"
	"time"

	"github.com/ukai02/iitk-transport/internal/models"

	"gorm.io/gorm"
)

// ErrPhoneExists marks a violation of the one-driver-per-phone invariant.
// Callers report it as a business error, never as a server failure.
var ErrPhoneExists = errors.New("phone number already exists")

type DriverRepository struct {
	db *gorm.DB
}

func NewDriverRepository(db *gorm.DB) *DriverRepository {
	return &DriverRepository{db: db}
}

func (r *DriverRepository) GetByID(id uint) (*models.Driver, error) {
	var d models.Driver
	err := r.db.First(&d, id).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DriverRepository) GetByPhone(phone string) (*models.Driver, error) {
	var d models.Driver
	err := r.db.Where("phone = ?", phone).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateWithStatus inserts the driver and its initial online status row in
// one transaction; either both land or neither does.
func (r *DriverRepository) CreateWithStatus(d *models.Driver, location string, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		taken, err := phoneTakenTx(tx, d.Phone, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrPhoneExists
		}
		if err := tx.Create(d).Error; err != nil {
			return err
		}
		return tx.Create(&models.DriverStatus{
			DriverID:     d.ID,
			LocationName: location,
			IsOnline:     true,
			LastUpdated:  now,
		}).Error
	})
}

// Update writes the identity fields and replaces the status row while
// preserving whatever online flag the driver currently has.
func (r *DriverRepository) Update(id uint, name, phone, vehicle, location string, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		taken, err := phoneTakenTx(tx, phone, id)
		if err != nil {
			return err
		}
		if taken {
			return ErrPhoneExists
		}
		if err := tx.Model(&models.Driver{}).Where("id = ?", id).Updates(map[string]interface{}{
			"name": name, "phone": phone, "vehicle_type": vehicle,
		}).Error; err != nil {
			return err
		}

		online := false
		var cur models.DriverStatus
		if err := tx.Where("driver_id = ?", id).First(&cur).Error; err == nil {
			online = cur.IsOnline
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return replaceStatusTx(tx, &models.DriverStatus{
			DriverID:     id,
			LocationName: location,
			IsOnline:     online,
			LastUpdated:  now,
		})
	})
}

// Delete removes the status row together with the driver so no orphaned
// presence row survives.
func (r *DriverRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("driver_id = ?", id).Delete(&models.DriverStatus{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Driver{}, id).Error
	})
}

// GetPhotoURL returns the stored photo reference for a phone, or the empty
// string when the driver is unknown.
func (r *DriverRepository) GetPhotoURL(phone string) (string, error) {
	var d models.Driver
	err := r.db.Select("photo_url").Where("phone = ?", phone).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return d.PhotoURL, nil
}

func phoneTakenTx(tx *gorm.DB, phone string, excludeID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.Driver{}).
		Where("phone = ? AND id != ?", phone, excludeID).
		Count(&count).Error
	return count > 0, err
}
