package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SpaceAvailability is an owner-declared weekly window in which a space may be booked.
// DayOfWeek follows time.Weekday (0=Sunday..6=Saturday). FromMinute and ToMinute cache the
// HH:MM strings as minutes since midnight and back the exclusion constraint.
type SpaceAvailability struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	SpaceID       uuid.UUID `gorm:"type:uuid;not null;index:idx_space_availability_day" json:"space_id"`
	DayOfWeek     int       `gorm:"not null;index:idx_space_availability_day" json:"day_of_week"`
	AvailableFrom string    `gorm:"type:varchar(5);not null" json:"available_from"`
	AvailableTo   string    `gorm:"type:varchar(5);not null" json:"available_to"`
	FromMinute    int       `gorm:"not null" json:"-"`
	ToMinute      int       `gorm:"not null" json:"-"`
	IsAvailable   bool      `gorm:"not null;default:true" json:"is_available"`

	CreatedBy string         `gorm:"not null" json:"created_by"`
	UpdatedBy *string        `json:"updated_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *SpaceAvailability) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
