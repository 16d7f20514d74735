package services

import (
	"time"

	"parking-marketplace-backend/db/models"
	promoservices "parking-marketplace-backend/promos/services"

	"github.com/shopspring/decimal"
)

type PricingTier string

const (
	HourlyTier  PricingTier = "hourly"
	DailyTier   PricingTier = "daily"
	MonthlyTier PricingTier = "monthly"
)

var secondsPerHour = decimal.NewFromInt(3600)

type RateCard struct {
	Hourly   decimal.Decimal
	Daily    decimal.Decimal
	Monthly  decimal.Decimal
	Currency string
}

func RateCardOf(space *models.ParkingSpace) RateCard {
	return RateCard{
		Hourly:   space.HourlyRate,
		Daily:    space.DailyRate,
		Monthly:  space.MonthlyRate,
		Currency: space.Currency,
	}
}

// Quote is the priced breakdown of one booking.
type Quote struct {
	DurationHours  decimal.Decimal `json:"duration_hours"`
	Tier           PricingTier     `json:"tier"`
	BillableUnits  decimal.Decimal `json:"billable_units"`
	BasePrice      decimal.Decimal `json:"base_price"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Currency       string          `json:"currency"`
}

// DurationHours returns d in hours, exact to the second.
func DurationHours(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Second)).Div(secondsPerHour)
}

// ceilDiv is ceil(d / unit) for positive durations.
func ceilDiv(d, unit time.Duration) int64 {
	return int64((d + unit - 1) / unit)
}

// BasePrice applies the tiered rate card to a duration:
//
//	d <= 24h          hourly  * hours
//	24h < d <= 720h   daily   * ceil(hours / 24)
//	d > 720h          monthly * ceil(hours / 720)
func BasePrice(card RateCard, d time.Duration) (decimal.Decimal, PricingTier, decimal.Decimal) {
	switch {
	case d <= HourlyTierLimit:
		hours := DurationHours(d)
		return card.Hourly.Mul(hours).Round(2), HourlyTier, hours.Round(2)
	case d <= DailyTierLimit:
		days := decimal.NewFromInt(ceilDiv(d, 24*time.Hour))
		return card.Daily.Mul(days).Round(2), DailyTier, days
	default:
		months := decimal.NewFromInt(ceilDiv(d, BillingMonth))
		return card.Monthly.Mul(months).Round(2), MonthlyTier, months
	}
}

// PriceBooking prices interval on card and applies promo when given. The promo must already
// be validated.
func PriceBooking(card RateCard, interval Interval, promo *models.PromoCode) Quote {
	d := interval.Duration()
	base, tier, units := BasePrice(card, d)
	discount := promoservices.Discount(promo, base, card.Hourly)

	return Quote{
		DurationHours:  DurationHours(d).Round(2),
		Tier:           tier,
		BillableUnits:  units,
		BasePrice:      base,
		DiscountAmount: discount,
		TotalAmount:    promoservices.FinalPrice(base, discount),
		Currency:       card.Currency,
	}
}

// OvertimeCharge bills time held past end: ceil(overtime hours) * hourly * 1.5.
// Returns zero hours and charge when checkOut is not after end.
func OvertimeCharge(hourly decimal.Decimal, end, checkOut time.Time) (int64, decimal.Decimal) {
	if !checkOut.After(end) {
		return 0, decimal.Zero
	}
	hours := ceilDiv(checkOut.Sub(end), time.Hour)
	charge := hourly.Mul(decimal.NewFromInt(hours)).Mul(OvertimeMultiplier).Round(2)
	return hours, charge
}
