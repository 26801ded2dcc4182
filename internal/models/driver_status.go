package models

import "time"

// DriverStatus is the single mutable presence row per driver. Every
// location or online change replaces the whole row; no history is kept.
type DriverStatus struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	DriverID     uint      `gorm:"uniqueIndex;not null" json:"driver_id"`
	LocationName string    `gorm:"size:120" json:"location_name"`
	IsOnline     bool      `gorm:"default:false;index" json:"is_online"`
	LastUpdated  time.Time `gorm:"not null;index" json:"last_updated"`
}

func (DriverStatus) TableName() string {
	return "driver_status"
}
