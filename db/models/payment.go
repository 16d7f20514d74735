package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//
// ENUM DEFINITIONS
//

type PaymentMethod string

const (
	CardPaymentMethod   PaymentMethod = "CARD"
	WalletPaymentMethod PaymentMethod = "WALLET"
	CashPaymentMethod   PaymentMethod = "CASH"
)

type TransactionType string

const (
	OrdinaryTransactionType TransactionType = "ORDINARY"
	RefundTransactionType   TransactionType = "REFUND"
)

type PaymentStatus string

const (
	PendingPayment   PaymentStatus = "PENDING"
	PaidPayment      PaymentStatus = "PAID"
	RefundedPayment  PaymentStatus = "REFUNDED"
	FailedPayment    PaymentStatus = "FAILED"
	CancelledPayment PaymentStatus = "CANCELLED"
)

//
// PAYMENT MODEL
//

// Payment records money moving for a reservation. Refunds are reversal rows that point
// back at the original transaction number.
type Payment struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key;" json:"id"`

	ReservationID uuid.UUID `gorm:"type:uuid;not null;index" json:"reservation_id"`

	TransactionNumber string          `gorm:"uniqueIndex;not null" json:"transaction_number"`
	TransactionType   TransactionType `gorm:"type:varchar(30);not null" json:"transaction_type"`

	// Reversal handling
	ReversedForTransactionNumber *string `json:"reversed_for_transaction_number,omitempty"`
	ReversalReason               *string `json:"reversal_reason,omitempty"`
	IsReversal                   bool    `gorm:"default:false" json:"is_reversal"`
	RefundPercentage             *int    `json:"refund_percentage,omitempty"`

	Amount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency string          `gorm:"type:varchar(10);not null" json:"currency"`

	PaymentMethod     PaymentMethod `gorm:"type:varchar(30);not null" json:"payment_method"`
	PaymentStatus     PaymentStatus `gorm:"type:varchar(20);default:'PENDING'" json:"payment_status"`
	ExternalReference *string       `gorm:"index" json:"external_reference,omitempty"` // gateway reference
	ReceiptNumber     string        `gorm:"uniqueIndex;not null" json:"receipt_number"`
	PaymentDate       time.Time     `gorm:"not null" json:"payment_date"`
	SettledAt         *time.Time    `json:"settled_at,omitempty"`

	// Audit trail
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	CreatedBy string    `gorm:"not null" json:"created_by"`
}

// Automatically generate UUID and TransactionNumber before saving
func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	if p.TransactionNumber == "" {
		p.TransactionNumber = fmt.Sprintf("TXN-%s", uuid.NewString()[0:8])
	}

	if p.ReceiptNumber == "" {
		p.ReceiptNumber = fmt.Sprintf("RCT-%s", uuid.NewString()[0:8])
	}

	if p.PaymentDate.IsZero() {
		p.PaymentDate = time.Now()
	}

	return
}
