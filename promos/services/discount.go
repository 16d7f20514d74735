package services

import (
	"fmt"
	"time"

	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/utils/apperr"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ValidatePromo rejects a code that cannot be applied to a booking of bookingHours at now.
// Every failed check is a rejection, never a silent skip.
func ValidatePromo(promo *models.PromoCode, now time.Time, bookingHours decimal.Decimal) error {
	switch {
	case promo == nil:
		return apperr.NotFound("promo code not found")
	case !promo.IsActive:
		return apperr.Validation("promo code is not active")
	case !promo.DiscountType.IsValid():
		return apperr.Validation(fmt.Sprintf("promo code has unsupported discount type %q", promo.DiscountType))
	case now.Before(promo.ValidFrom):
		return apperr.Validation("promo code is not valid yet")
	case now.After(promo.ValidTo):
		return apperr.Validation("promo code has expired")
	case promo.UsageLimitTotal != nil && promo.UsageCount >= *promo.UsageLimitTotal:
		return apperr.Validation("promo code usage limit reached")
	case promo.MinBookingHours != nil && bookingHours.LessThan(*promo.MinBookingHours):
		return apperr.Validation(fmt.Sprintf("promo code requires a booking of at least %s hours", promo.MinBookingHours.String()))
	}
	return nil
}

// Discount is the monetary discount promo grants on basePrice. free_hours codes are converted
// with the space's hourly rate. The result never exceeds basePrice.
func Discount(promo *models.PromoCode, basePrice, hourlyRate decimal.Decimal) decimal.Decimal {
	if promo == nil || !basePrice.IsPositive() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch promo.DiscountType {
	case models.PercentageDiscount:
		discount = basePrice.Mul(promo.DiscountValue).Div(hundred)
		if promo.MaxDiscountAmount != nil && discount.GreaterThan(*promo.MaxDiscountAmount) {
			discount = *promo.MaxDiscountAmount
		}
	case models.FixedAmountDiscount:
		discount = promo.DiscountValue
	case models.FreeHoursDiscount:
		discount = promo.DiscountValue.Mul(hourlyRate)
	default:
		return decimal.Zero
	}

	if discount.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(discount, basePrice).Round(2)
}

// FinalPrice is max(0, basePrice - discount).
func FinalPrice(basePrice, discount decimal.Decimal) decimal.Decimal {
	final := basePrice.Sub(discount)
	if final.IsNegative() {
		return decimal.Zero
	}
	return final.Round(2)
}
