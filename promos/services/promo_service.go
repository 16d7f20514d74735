package services

import (
	"context"
	"fmt"
	"time"

	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/utils/apperr"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PromoStore is the persistence the promo service needs.
type PromoStore interface {
	CreatePromo(ctx context.Context, promo *models.PromoCode) error
	GetPromoByCode(ctx context.Context, code string) (*models.PromoCode, error)
	ListPromos(ctx context.Context, activeOnly bool, limit, offset int) ([]models.PromoCode, int64, error)
}

type CreatePromoInput struct {
	Code              string           `json:"code" validate:"required,min=3,max=40,alphanum"`
	Description       *string          `json:"description"`
	DiscountType      string           `json:"discount_type" validate:"required,oneof=percentage fixed_amount free_hours"`
	DiscountValue     decimal.Decimal  `json:"discount_value"`
	MaxDiscountAmount *decimal.Decimal `json:"max_discount_amount"`
	MinBookingHours   *decimal.Decimal `json:"min_booking_hours"`
	ValidFrom         time.Time        `json:"valid_from" validate:"required"`
	ValidTo           time.Time        `json:"valid_to" validate:"required,gtfield=ValidFrom"`
	UsageLimitTotal   *int             `json:"usage_limit_total" validate:"omitempty,gt=0"`
}

type PromoService struct {
	store  PromoStore
	logger *zap.Logger
	now    func() time.Time
}

func NewPromoService(store PromoStore, logger *zap.Logger) *PromoService {
	return &PromoService{store: store, logger: logger, now: time.Now}
}

func (s *PromoService) Create(ctx context.Context, principal models.Principal, in CreatePromoInput) (*models.PromoCode, error) {
	if !principal.IsAdmin() {
		return nil, apperr.Forbidden("only admins can create promo codes")
	}
	if !in.DiscountValue.IsPositive() {
		return nil, apperr.Validation("discount_value must be greater than 0")
	}
	if in.DiscountType == string(models.PercentageDiscount) && in.DiscountValue.GreaterThan(hundred) {
		return nil, apperr.Validation("percentage discount_value must not exceed 100")
	}

	promo := &models.PromoCode{
		Code:              models.NormalizePromoCode(in.Code),
		Description:       in.Description,
		DiscountType:      models.DiscountType(in.DiscountType),
		DiscountValue:     in.DiscountValue,
		MaxDiscountAmount: in.MaxDiscountAmount,
		MinBookingHours:   in.MinBookingHours,
		ValidFrom:         in.ValidFrom,
		ValidTo:           in.ValidTo,
		UsageLimitTotal:   in.UsageLimitTotal,
		IsActive:          true,
		CreatedBy:         principal.Email,
	}
	if err := s.store.CreatePromo(ctx, promo); err != nil {
		return nil, err
	}

	s.logger.Info("promo code created", zap.String("code", promo.Code), zap.String("type", string(promo.DiscountType)))
	return promo, nil
}

func (s *PromoService) List(ctx context.Context, activeOnly bool, limit, offset int) ([]models.PromoCode, int64, error) {
	return s.store.ListPromos(ctx, activeOnly, limit, offset)
}

// Check validates a code for the current time and an optional booking length.
func (s *PromoService) Check(ctx context.Context, code string, bookingHours decimal.Decimal) (*models.PromoCode, error) {
	promo, err := s.store.GetPromoByCode(ctx, models.NormalizePromoCode(code))
	if err != nil {
		return nil, err
	}
	if err := ValidatePromo(promo, s.now(), bookingHours); err != nil {
		return nil, fmt.Errorf("promo %s: %w", promo.Code, err)
	}
	return promo, nil
}
