package repositories

import (
	"context"
	"fmt"

	"parking-marketplace-backend/db"
	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/utils/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PromoRepository interface {
	CreatePromo(ctx context.Context, promo *models.PromoCode) error
	GetPromoByCode(ctx context.Context, code string) (*models.PromoCode, error)
	ListPromos(ctx context.Context, activeOnly bool, limit, offset int) ([]models.PromoCode, int64, error)
	RedeemPromo(ctx context.Context, id uuid.UUID) error
}

type promoRepository struct {
	db *gorm.DB
}

func NewPromoRepository(db *gorm.DB) PromoRepository {
	return &promoRepository{db: db}
}

func (r *promoRepository) CreatePromo(ctx context.Context, promo *models.PromoCode) error {
	if err := db.Conn(ctx, r.db).Create(promo).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.Conflict(fmt.Sprintf("promo code %s already exists", promo.Code))
		}
		return apperr.Storage(fmt.Errorf("create promo: %w", err))
	}
	return nil
}

func (r *promoRepository) GetPromoByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := db.Conn(ctx, r.db).Where("code = ?", models.NormalizePromoCode(code)).First(&promo).Error
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(fmt.Sprintf("promo code '%s' not found", code))
		}
		return nil, apperr.Storage(fmt.Errorf("get promo by code: %w", err))
	}
	return &promo, nil
}

func (r *promoRepository) ListPromos(ctx context.Context, activeOnly bool, limit, offset int) ([]models.PromoCode, int64, error) {
	var promos []models.PromoCode
	var total int64

	query := db.Conn(ctx, r.db).Model(&models.PromoCode{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperr.Storage(fmt.Errorf("count promos: %w", err))
	}
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&promos).Error; err != nil {
		return nil, 0, apperr.Storage(fmt.Errorf("list promos: %w", err))
	}
	return promos, total, nil
}

// RedeemPromo increments usage_count in one conditional UPDATE so concurrent bookings can
// never push a code past its limit. Zero rows affected means the code was used up (or
// deactivated) between validation and redemption.
func (r *promoRepository) RedeemPromo(ctx context.Context, id uuid.UUID) error {
	result := db.Conn(ctx, r.db).Model(&models.PromoCode{}).
		Where("id = ? AND is_active = ? AND (usage_limit_total IS NULL OR usage_count < usage_limit_total)", id, true).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return apperr.Storage(fmt.Errorf("redeem promo: %w", result.Error))
	}
	if result.RowsAffected == 0 {
		return apperr.Validation("promo code usage limit reached")
	}
	return nil
}
