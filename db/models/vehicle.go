package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vehicle struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	LicensePlate string         `gorm:"type:varchar(20);not null;uniqueIndex" json:"license_plate"`
	Make         string         `json:"make"`
	Model        string         `json:"model"`
	Color        *string        `json:"color"`
	IsVerified   bool           `gorm:"default:false" json:"is_verified"`
	VerifiedAt   *time.Time     `json:"verified_at"`
	VerifiedBy   *string        `json:"verified_by"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
