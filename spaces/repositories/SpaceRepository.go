package repositories

import (
	"context"
	"fmt"

	"parking-marketplace-backend/db"
	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/utils/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SpaceRepository interface {
	CreateSpace(ctx context.Context, space *models.ParkingSpace) error
	GetSpace(ctx context.Context, id uuid.UUID) (*models.ParkingSpace, error)
	SaveSpace(ctx context.Context, space *models.ParkingSpace) error
	ListSpacesInBox(ctx context.Context, minLat, maxLat, minLng, maxLng float64) ([]models.ParkingSpace, error)
	ListSpacesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ParkingSpace, error)
	ListAllSpaces(ctx context.Context) ([]models.ParkingSpace, error)
}

type spaceRepository struct {
	db *gorm.DB
}

func NewSpaceRepository(db *gorm.DB) SpaceRepository {
	return &spaceRepository{db: db}
}

func (r *spaceRepository) CreateSpace(ctx context.Context, space *models.ParkingSpace) error {
	if err := db.Conn(ctx, r.db).Omit(clause.Associations).Create(space).Error; err != nil {
		return apperr.Storage(fmt.Errorf("create space: %w", err))
	}
	return nil
}

func (r *spaceRepository) GetSpace(ctx context.Context, id uuid.UUID) (*models.ParkingSpace, error) {
	var space models.ParkingSpace
	if err := db.Conn(ctx, r.db).Where("id = ?", id).First(&space).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(fmt.Sprintf("parking space %s not found", id))
		}
		return nil, apperr.Storage(fmt.Errorf("get space: %w", err))
	}
	return &space, nil
}

func (r *spaceRepository) SaveSpace(ctx context.Context, space *models.ParkingSpace) error {
	if err := db.Conn(ctx, r.db).Omit(clause.Associations).Save(space).Error; err != nil {
		return apperr.Storage(fmt.Errorf("save space: %w", err))
	}
	return nil
}

func (r *spaceRepository) ListSpacesInBox(ctx context.Context, minLat, maxLat, minLng, maxLng float64) ([]models.ParkingSpace, error) {
	var spaces []models.ParkingSpace
	err := db.Conn(ctx, r.db).
		Where("is_available = ?", true).
		Where("latitude BETWEEN ? AND ?", minLat, maxLat).
		Where("longitude BETWEEN ? AND ?", minLng, maxLng).
		Find(&spaces).Error
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("list spaces in box: %w", err))
	}
	return spaces, nil
}

func (r *spaceRepository) ListSpacesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ParkingSpace, error) {
	var spaces []models.ParkingSpace
	if err := db.Conn(ctx, r.db).Where("id IN ?", ids).Find(&spaces).Error; err != nil {
		return nil, apperr.Storage(fmt.Errorf("list spaces by id: %w", err))
	}
	return spaces, nil
}

func (r *spaceRepository) ListAllSpaces(ctx context.Context) ([]models.ParkingSpace, error) {
	var spaces []models.ParkingSpace
	if err := db.Conn(ctx, r.db).Order("created_at ASC").Find(&spaces).Error; err != nil {
		return nil, apperr.Storage(fmt.Errorf("list spaces: %w", err))
	}
	return spaces, nil
}
