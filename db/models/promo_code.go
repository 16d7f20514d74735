package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DiscountType string

const (
	PercentageDiscount  DiscountType = "percentage"
	FixedAmountDiscount DiscountType = "fixed_amount"
	FreeHoursDiscount   DiscountType = "free_hours"
)

func (t DiscountType) IsValid() bool {
	switch t {
	case PercentageDiscount, FixedAmountDiscount, FreeHoursDiscount:
		return true
	}
	return false
}

type PromoCode struct {
	ID                uuid.UUID        `gorm:"type:uuid;primary_key;" json:"id"`
	Code              string           `gorm:"type:varchar(40);uniqueIndex;not null" json:"code"`
	Description       *string          `json:"description"`
	DiscountType      DiscountType     `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue     decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"discount_value"`
	MaxDiscountAmount *decimal.Decimal `gorm:"type:decimal(12,2)" json:"max_discount_amount"`
	MinBookingHours   *decimal.Decimal `gorm:"type:decimal(8,2)" json:"min_booking_hours"`

	ValidFrom       time.Time `gorm:"not null" json:"valid_from"`
	ValidTo         time.Time `gorm:"not null" json:"valid_to"`
	UsageLimitTotal *int      `json:"usage_limit_total"`
	UsageCount      int       `gorm:"not null;default:0" json:"usage_count"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`

	CreatedBy string         `gorm:"not null" json:"created_by"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *PromoCode) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Code = NormalizePromoCode(p.Code)
	return nil
}

// NormalizePromoCode upper-cases and trims a code so lookups are case-insensitive.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
