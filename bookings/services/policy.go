package services

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking engine policy.
const (
	// Check-in is accepted from start-CheckInWindow to start+CheckInWindow.
	CheckInWindow = time.Hour

	FullRefundNotice    = 48 * time.Hour
	PartialRefundNotice = 24 * time.Hour

	FullRefundPercentage    = 100
	PartialRefundPercentage = 50

	// Pricing tiers: up to HourlyTierLimit is billed by the hour, up to DailyTierLimit by
	// started day, beyond that by started 30-day month.
	HourlyTierLimit = 24 * time.Hour
	DailyTierLimit  = 30 * 24 * time.Hour
	BillingMonth    = 30 * 24 * time.Hour

	SpaceLockTTL = 10 * time.Second
)

var OvertimeMultiplier = decimal.RequireFromString("1.5")
