package repositories

import (
	"context"
	"fmt"
	"time"

	"parking-marketplace-backend/availability/services"
	"parking-marketplace-backend/db"
	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/utils/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AvailabilityRepository interface {
	services.AvailabilityStore
}

type availabilityRepository struct {
	db *gorm.DB
}

func NewAvailabilityRepository(db *gorm.DB) AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func classify(op string, err error) error {
	if db.IsExclusionViolation(err) || db.IsSerializationFailure(err) {
		return apperr.Conflict("availability window overlaps an existing window")
	}
	return apperr.Storage(fmt.Errorf("%s: %w", op, err))
}

func (r *availabilityRepository) ListWindows(ctx context.Context, spaceID uuid.UUID) ([]models.SpaceAvailability, error) {
	var windows []models.SpaceAvailability
	err := db.Conn(ctx, r.db).
		Where("space_id = ?", spaceID).
		Order("day_of_week ASC").Order("from_minute ASC").
		Find(&windows).Error
	if err != nil {
		return nil, classify("list availability windows", err)
	}
	return windows, nil
}

func (r *availabilityRepository) GetWindow(ctx context.Context, id uuid.UUID) (*models.SpaceAvailability, error) {
	query := db.Conn(ctx, r.db)
	if db.InTransaction(ctx) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var window models.SpaceAvailability
	if err := query.Where("id = ?", id).First(&window).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(fmt.Sprintf("availability window %s not found", id))
		}
		return nil, classify("get availability window", err)
	}
	return &window, nil
}

func (r *availabilityRepository) CreateWindow(ctx context.Context, window *models.SpaceAvailability) error {
	if err := db.Conn(ctx, r.db).Create(window).Error; err != nil {
		return classify("create availability window", err)
	}
	return nil
}

func (r *availabilityRepository) SaveWindow(ctx context.Context, window *models.SpaceAvailability) error {
	if err := db.Conn(ctx, r.db).Save(window).Error; err != nil {
		return classify("save availability window", err)
	}
	return nil
}

// DeleteWindow soft-deletes the window, recording who removed it.
func (r *availabilityRepository) DeleteWindow(ctx context.Context, window *models.SpaceAvailability) error {
	conn := db.Conn(ctx, r.db)
	err := conn.Model(window).Updates(map[string]interface{}{
		"updated_by": window.UpdatedBy,
		"updated_at": time.Now(),
	}).Error
	if err == nil {
		err = conn.Delete(window).Error
	}
	if err != nil {
		return classify("delete availability window", err)
	}
	return nil
}
