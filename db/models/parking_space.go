package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingMode string

const (
	InstantBookingMode BookingMode = "instant"
	RequestBookingMode BookingMode = "request"
)

type SpaceType string

const (
	DrivewaySpaceType SpaceType = "driveway"
	GarageSpaceType   SpaceType = "garage"
	LotSpaceType      SpaceType = "lot"
	StreetSpaceType   SpaceType = "street"
)

// ParkingSpace is a listing owned by a user with the owner role.
// The rate card (hourly/daily/monthly) is read by the booking engine only.
type ParkingSpace struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner       *User     `gorm:"foreignKey:OwnerID;references:ID" json:"owner,omitempty"`
	Title       string    `gorm:"not null" json:"title"`
	Description *string   `gorm:"type:text" json:"description"`
	SpaceType   SpaceType `gorm:"type:varchar(20);not null;default:'driveway'" json:"space_type"`

	Address   string  `gorm:"not null" json:"address"`
	City      string  `gorm:"index" json:"city"`
	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`

	// Rate card
	HourlyRate  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"hourly_rate"`
	DailyRate   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"daily_rate"`
	MonthlyRate decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"monthly_rate"`
	Currency    string          `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"`
	BookingMode BookingMode     `gorm:"type:varchar(20);not null;default:'instant'" json:"booking_mode"`
	IsAvailable bool            `gorm:"default:true" json:"is_available"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *ParkingSpace) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Currency == "" {
		s.Currency = "USD"
	}
	if s.BookingMode == "" {
		s.BookingMode = InstantBookingMode
	}
	return nil
}
