package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/utils/apperr"
	"parking-marketplace-backend/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type VehicleStore interface {
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	GetVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	SaveVehicle(ctx context.Context, vehicle *models.Vehicle) error
	ListVehiclesByUser(ctx context.Context, userID uuid.UUID) ([]models.Vehicle, error)
}

type RegisterInput struct {
	FullName string      `json:"full_name" validate:"required,max=120"`
	Email    string      `json:"email" validate:"required,email"`
	Phone    *string     `json:"phone" validate:"omitempty,e164"`
	Password string      `json:"password" validate:"required,min=8,max=72"`
	Role     models.Role `json:"role" validate:"omitempty,oneof=user owner"`
}

type VehicleInput struct {
	LicensePlate string  `json:"license_plate" validate:"required,max=20"`
	Make         string  `json:"make" validate:"omitempty,max=60"`
	Model        string  `json:"model" validate:"omitempty,max=60"`
	Color        *string `json:"color" validate:"omitempty,max=30"`
}

// NormalizePlate upper-cases a plate and strips spaces and dashes.
func NormalizePlate(plate string) string {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	return strings.NewReplacer(" ", "", "-", "").Replace(plate)
}

type UserService struct {
	users    UserStore
	vehicles VehicleStore
	logger   *zap.Logger
	now      func() time.Time
}

func NewUserService(users UserStore, vehicles VehicleStore, logger *zap.Logger) *UserService {
	return &UserService{users: users, vehicles: vehicles, logger: logger, now: time.Now}
}

// Register creates a user or owner account. Admins are only ever seeded.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}

	hashed, err := HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("hash password: %w", err))
	}

	user := &models.User{
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		Password: hashed,
		Role:     in.Role,
		IsActive: true,
	}
	if user.Role == "" {
		user.Role = models.UserRole
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return user, nil
}

// Authenticate checks credentials. Unknown emails and wrong passwords are indistinguishable.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}
	if user == nil || !CheckPasswordHash(password, user.Password) {
		s.logger.Warn("Login attempt failed", zap.String("email", email))
		return nil, apperr.Unauthorized("invalid email or password")
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("account is disabled")
	}

	if err := s.users.RecordLogin(ctx, user.ID, s.now()); err != nil {
		s.logger.Warn("failed to record login time", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	return user, nil
}

func (s *UserService) Me(ctx context.Context, principal models.Principal) (*models.User, error) {
	return s.users.GetUserByID(ctx, principal.UserID)
}

func (s *UserService) RegisterVehicle(ctx context.Context, principal models.Principal, in VehicleInput) (*models.Vehicle, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return nil, err
	}
	plate := NormalizePlate(in.LicensePlate)
	if plate == "" {
		return nil, apperr.Validation("license_plate is required")
	}

	vehicle := &models.Vehicle{
		UserID:       principal.UserID,
		LicensePlate: plate,
		Make:         in.Make,
		Model:        in.Model,
		Color:        in.Color,
	}
	if err := s.vehicles.CreateVehicle(ctx, vehicle); err != nil {
		return nil, err
	}

	s.logger.Info("vehicle registered", zap.String("vehicle_id", vehicle.ID.String()), zap.String("license_plate", plate))
	return vehicle, nil
}

func (s *UserService) ListVehicles(ctx context.Context, principal models.Principal) ([]models.Vehicle, error) {
	return s.vehicles.ListVehiclesByUser(ctx, principal.UserID)
}

// VerifyVehicle marks a vehicle as verified so it can be used for bookings.
func (s *UserService) VerifyVehicle(ctx context.Context, principal models.Principal, id uuid.UUID) (*models.Vehicle, error) {
	if !principal.IsAdmin() {
		return nil, apperr.Forbidden("only admins can verify vehicles")
	}

	vehicle, err := s.vehicles.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	if vehicle.IsVerified {
		return vehicle, nil
	}

	now := s.now()
	vehicle.IsVerified = true
	vehicle.VerifiedAt = &now
	vehicle.VerifiedBy = &principal.Email
	if err := s.vehicles.SaveVehicle(ctx, vehicle); err != nil {
		return nil, err
	}

	s.logger.Info("vehicle verified", zap.String("vehicle_id", vehicle.ID.String()), zap.String("verified_by", principal.Email))
	return vehicle, nil
}
