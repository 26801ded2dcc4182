package models

import (
	"time"

	"github.com/ukai02/iitk-transport/internal/domain"
)

type Driver struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Phone       string    `gorm:"uniqueIndex;size:20;not null" json:"phone"`
	VehicleType string    `gorm:"size:40;not null" json:"vehicle_type"` // free text: "Auto", "E-Rick", ...
	PhotoURL    string    `gorm:"size:512;not null" json:"photo_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Status *DriverStatus `gorm:"foreignKey:DriverID" json:"status,omitempty"`
}

// NewDriver fills in the photo sentinel when none was uploaded.
func NewDriver(name, phone, vehicle, photoURL string) *Driver {
	if photoURL == "" {
		photoURL = domain.DefaultPhotoURL
	}
	return &Driver{Name: name, Phone: phone, VehicleType: vehicle, PhotoURL: photoURL}
}
