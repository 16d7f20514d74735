package services

import (
	"context"
	"errors"

	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/utils/apperr"
	"parking-marketplace-backend/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AvailabilityStore interface {
	ListWindows(ctx context.Context, spaceID uuid.UUID) ([]models.SpaceAvailability, error)
	GetWindow(ctx context.Context, id uuid.UUID) (*models.SpaceAvailability, error)
	CreateWindow(ctx context.Context, w *models.SpaceAvailability) error
	SaveWindow(ctx context.Context, w *models.SpaceAvailability) error
	DeleteWindow(ctx context.Context, w *models.SpaceAvailability) error
}

type SpaceLookup interface {
	GetSpace(ctx context.Context, id uuid.UUID) (*models.ParkingSpace, error)
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type WindowInput struct {
	DayOfWeek     *int   `json:"day_of_week" validate:"required,min=0,max=6"`
	AvailableFrom string `json:"available_from" validate:"required,hhmm"`
	AvailableTo   string `json:"available_to" validate:"required,hhmm"`
	IsAvailable   *bool  `json:"is_available"`
}

func (in WindowInput) window() (Window, error) {
	if err := validation.ValidateStruct(&in); err != nil {
		return Window{}, err
	}
	return NewWindow(*in.DayOfWeek, in.AvailableFrom, in.AvailableTo)
}

func (in WindowInput) active() bool {
	return in.IsAvailable == nil || *in.IsAvailable
}

// BulkFailure is one rejected entry of a bulk request.
type BulkFailure struct {
	Index             int                       `json:"index"`
	Reason            string                    `json:"reason"`
	ConflictingWindow *models.SpaceAvailability `json:"conflicting_window,omitempty"`
}

type BulkResult struct {
	Created      []models.SpaceAvailability `json:"created"`
	CreatedCount int                        `json:"created_count"`
	FailedCount  int                        `json:"failed_count"`
	Errors       []BulkFailure              `json:"errors"`
}

// AvailabilityService manages the weekly windows in which owners allow bookings.
type AvailabilityService struct {
	store  AvailabilityStore
	spaces SpaceLookup
	tx     Transactor
	logger *zap.Logger
}

func NewAvailabilityService(store AvailabilityStore, spaces SpaceLookup, tx Transactor, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{store: store, spaces: spaces, tx: tx, logger: logger}
}

func (s *AvailabilityService) authorize(ctx context.Context, principal models.Principal, spaceID uuid.UUID) error {
	space, err := s.spaces.GetSpace(ctx, spaceID)
	if err != nil {
		return err
	}
	if !principal.IsAdmin() && space.OwnerID != principal.UserID {
		return apperr.Forbidden("only the space owner can manage its availability")
	}
	return nil
}

func (s *AvailabilityService) List(ctx context.Context, spaceID uuid.UUID) ([]models.SpaceAvailability, error) {
	if _, err := s.spaces.GetSpace(ctx, spaceID); err != nil {
		return nil, err
	}
	return s.store.ListWindows(ctx, spaceID)
}

// insert checks candidate against the stored windows plus accepted and writes it.
func (s *AvailabilityService) insert(ctx context.Context, principal models.Principal, spaceID uuid.UUID, in WindowInput, accepted []models.SpaceAvailability) (*models.SpaceAvailability, error) {
	window, err := in.window()
	if err != nil {
		return nil, err
	}

	record := &models.SpaceAvailability{
		SpaceID:       spaceID,
		DayOfWeek:     window.Day,
		AvailableFrom: in.AvailableFrom,
		AvailableTo:   in.AvailableTo,
		FromMinute:    window.From,
		ToMinute:      window.To,
		IsAvailable:   in.active(),
		CreatedBy:     principal.Email,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.store.ListWindows(ctx, spaceID)
		if err != nil {
			return err
		}
		if record.IsAvailable {
			if conflict := FindWindowConflict(window, append(existing, accepted...), nil); conflict != nil {
				return windowConflictError(conflict)
			}
		}
		return s.store.CreateWindow(ctx, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *AvailabilityService) Create(ctx context.Context, principal models.Principal, spaceID uuid.UUID, in WindowInput) (*models.SpaceAvailability, error) {
	if err := s.authorize(ctx, principal, spaceID); err != nil {
		return nil, err
	}
	record, err := s.insert(ctx, principal, spaceID, in, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("availability window created",
		zap.String("space_id", spaceID.String()),
		zap.Int("day_of_week", record.DayOfWeek),
		zap.String("from", record.AvailableFrom),
		zap.String("to", record.AvailableTo))
	return record, nil
}

// BulkCreate processes schedules in order. Each entry is checked against stored windows and
// the entries accepted before it; rejected entries are reported and do not stop the batch.
// A storage failure aborts the remainder.
func (s *AvailabilityService) BulkCreate(ctx context.Context, principal models.Principal, spaceID uuid.UUID, schedules []WindowInput) (*BulkResult, error) {
	if err := s.authorize(ctx, principal, spaceID); err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, apperr.Validation("schedules must contain at least one window")
	}

	result := &BulkResult{Created: []models.SpaceAvailability{}, Errors: []BulkFailure{}}
	for i, in := range schedules {
		record, err := s.insert(ctx, principal, spaceID, in, result.Created)
		if err == nil {
			result.Created = append(result.Created, *record)
			continue
		}

		var appErr *apperr.Error
		if !errors.As(err, &appErr) || appErr.Kind == apperr.KindStorageUnavailable {
			return nil, err
		}
		failure := BulkFailure{Index: i, Reason: appErr.Message}
		if details, ok := appErr.Details.(map[string]interface{}); ok {
			if w, ok := details["conflicting_window"].(*models.SpaceAvailability); ok {
				failure.ConflictingWindow = w
			}
		}
		result.Errors = append(result.Errors, failure)
	}

	result.CreatedCount = len(result.Created)
	result.FailedCount = len(result.Errors)
	s.logger.Info("bulk availability processed",
		zap.String("space_id", spaceID.String()),
		zap.Int("created", result.CreatedCount),
		zap.Int("failed", result.FailedCount))
	return result, nil
}

// Update replaces a window, re-checking conflicts against every other window of the space.
func (s *AvailabilityService) Update(ctx context.Context, principal models.Principal, id uuid.UUID, in WindowInput) (*models.SpaceAvailability, error) {
	window, err := in.window()
	if err != nil {
		return nil, err
	}

	var updated *models.SpaceAvailability
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.store.GetWindow(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, principal, current.SpaceID); err != nil {
			return err
		}

		active := in.active()
		if active {
			existing, err := s.store.ListWindows(ctx, current.SpaceID)
			if err != nil {
				return err
			}
			if conflict := FindWindowConflict(window, existing, &current.ID); conflict != nil {
				return windowConflictError(conflict)
			}
		}

		current.DayOfWeek = window.Day
		current.AvailableFrom = in.AvailableFrom
		current.AvailableTo = in.AvailableTo
		current.FromMinute = window.From
		current.ToMinute = window.To
		current.IsAvailable = active
		current.UpdatedBy = &principal.Email
		if err := s.store.SaveWindow(ctx, current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("availability window updated", zap.String("window_id", id.String()))
	return updated, nil
}

func (s *AvailabilityService) Delete(ctx context.Context, principal models.Principal, id uuid.UUID) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.store.GetWindow(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, principal, current.SpaceID); err != nil {
			return err
		}
		current.UpdatedBy = &principal.Email
		return s.store.DeleteWindow(ctx, current)
	})
	if err != nil {
		return err
	}
	s.logger.Info("availability window deleted", zap.String("window_id", id.String()))
	return nil
}
