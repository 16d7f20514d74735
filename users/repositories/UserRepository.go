package repositories

import (
	"context"
	"fmt"
	"time"

	"parking-marketplace-backend/db"
	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/users/services"
	"parking-marketplace-backend/utils/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository stores accounts and their vehicles.
type UserRepository interface {
	services.UserStore
	services.VehicleStore
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	if err := db.Conn(ctx, r.db).Create(user).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.Conflict("an account with that email already exists")
		}
		return apperr.Storage(fmt.Errorf("create user: %w", err))
	}
	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := db.Conn(ctx, r.db).Where("id = ?", id).First(&user).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Storage(fmt.Errorf("get user: %w", err))
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := db.Conn(ctx, r.db).Where("email = ?", email).First(&user).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Storage(fmt.Errorf("get user by email: %w", err))
	}
	return &user, nil
}

func (r *userRepository) RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := db.Conn(ctx, r.db).Model(&models.User{}).Where("id = ?", id).UpdateColumn("last_login_at", at).Error
	if err != nil {
		return apperr.Storage(fmt.Errorf("record login: %w", err))
	}
	return nil
}

func (r *userRepository) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	if err := db.Conn(ctx, r.db).Create(vehicle).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.Conflict(fmt.Sprintf("vehicle %s is already registered", vehicle.LicensePlate))
		}
		return apperr.Storage(fmt.Errorf("create vehicle: %w", err))
	}
	return nil
}

func (r *userRepository) GetVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := db.Conn(ctx, r.db).Where("id = ?", id).First(&vehicle).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(fmt.Sprintf("vehicle %s not found", id))
		}
		return nil, apperr.Storage(fmt.Errorf("get vehicle: %w", err))
	}
	return &vehicle, nil
}

func (r *userRepository) SaveVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	if err := db.Conn(ctx, r.db).Save(vehicle).Error; err != nil {
		return apperr.Storage(fmt.Errorf("save vehicle: %w", err))
	}
	return nil
}

func (r *userRepository) ListVehiclesByUser(ctx context.Context, userID uuid.UUID) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := db.Conn(ctx, r.db).Where("user_id = ?", userID).Order("created_at ASC").Find(&vehicles).Error; err != nil {
		return nil, apperr.Storage(fmt.Errorf("list vehicles: %w", err))
	}
	return vehicles, nil
}
