package repository

import (
	"github.com/ukai02/iitk-transport/internal/models"

	"gorm.io/gorm"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByUsername(username string) (*models.Admin, error) {
	var a models.Admin
	err := r.db.Where("username = ?", username).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}
