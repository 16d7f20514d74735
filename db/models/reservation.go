package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ReservationStatus string

const (
	PendingReservationStatus   ReservationStatus = "pending"
	ConfirmedReservationStatus ReservationStatus = "confirmed"
	ActiveReservationStatus    ReservationStatus = "active"
	CompletedReservationStatus ReservationStatus = "completed"
	CancelledReservationStatus ReservationStatus = "cancelled"
	NoShowReservationStatus    ReservationStatus = "no_show"
)

// InactiveReservationStatuses never block a space.
var InactiveReservationStatuses = []ReservationStatus{
	CancelledReservationStatus,
	CompletedReservationStatus,
	NoShowReservationStatus,
}

// IsActive reports whether a reservation in this status still claims its interval.
func (s ReservationStatus) IsActive() bool {
	switch s {
	case CancelledReservationStatus, CompletedReservationStatus, NoShowReservationStatus:
		return false
	}
	return true
}

func (s ReservationStatus) IsTerminal() bool {
	return !s.IsActive()
}

func (s ReservationStatus) IsValid() bool {
	switch s {
	case PendingReservationStatus, ConfirmedReservationStatus, ActiveReservationStatus,
		CompletedReservationStatus, CancelledReservationStatus, NoShowReservationStatus:
		return true
	}
	return false
}

type BookingPaymentStatus string

const (
	PendingBookingPayment           BookingPaymentStatus = "pending"
	PaidBookingPayment              BookingPaymentStatus = "paid"
	RefundedBookingPayment          BookingPaymentStatus = "refunded"
	PartiallyRefundedBookingPayment BookingPaymentStatus = "partially_refunded"
	FailedBookingPayment            BookingPaymentStatus = "failed"
)

// ReservationExtension is one entry of the append-only extension history.
type ReservationExtension struct {
	OldEndTime       time.Time       `json:"old_end_time"`
	NewEndTime       time.Time       `json:"new_end_time"`
	AdditionalCharge decimal.Decimal `json:"additional_charge"`
	ExtendedAt       time.Time       `json:"extended_at"`
}

type Reservation struct {
	ID                uuid.UUID     `gorm:"type:uuid;primary_key;" json:"id"`
	ReservationNumber string        `gorm:"type:varchar(32);uniqueIndex;not null" json:"reservation_number"`
	UserID            uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	SpaceID           uuid.UUID     `gorm:"type:uuid;not null;index" json:"space_id"`
	Space             *ParkingSpace `gorm:"foreignKey:SpaceID;references:ID" json:"space,omitempty"`
	OwnerID           uuid.UUID     `gorm:"type:uuid;not null;index" json:"owner_id"`
	VehicleID         uuid.UUID     `gorm:"type:uuid;not null" json:"vehicle_id"`
	Vehicle           *Vehicle      `gorm:"foreignKey:VehicleID;references:ID" json:"vehicle,omitempty"`

	StartTime     time.Time       `gorm:"not null;index" json:"start_time"`
	EndTime       time.Time       `gorm:"not null" json:"end_time"`
	DurationHours decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"duration_hours"`

	BasePrice       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_price"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	ExtensionAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"extension_amount"`
	OvertimeAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"overtime_amount"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Currency        string          `gorm:"type:varchar(10);not null" json:"currency"`
	PromoCodeID     *uuid.UUID      `gorm:"type:uuid" json:"promo_code_id"`

	Status        ReservationStatus    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentStatus BookingPaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`

	VerificationCode *string    `gorm:"type:varchar(6)" json:"-"`
	CheckInTime      *time.Time `json:"check_in_time"`
	CheckOutTime     *time.Time `json:"check_out_time"`

	CancellationReason *string          `gorm:"type:text" json:"cancellation_reason"`
	CancelledAt        *time.Time       `json:"cancelled_at"`
	CancelledBy        *uuid.UUID       `gorm:"type:uuid" json:"cancelled_by"`
	RefundAmount       *decimal.Decimal `gorm:"type:decimal(12,2)" json:"refund_amount"`
	RefundPercentage   *int             `json:"refund_percentage"`

	Extensions datatypes.JSONSlice[ReservationExtension] `gorm:"type:jsonb" json:"extensions"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecomputeTotal keeps total = base - discount + extensions + overtime, floored at zero.
func (r *Reservation) RecomputeTotal() {
	total := r.BasePrice.Sub(r.DiscountAmount).Add(r.ExtensionAmount).Add(r.OvertimeAmount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	r.TotalAmount = total.Round(2)
}
