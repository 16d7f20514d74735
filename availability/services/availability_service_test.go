package services

import (
	"context"
	"sync"
	"testing"

	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/utils/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type memWindows struct {
	mu      sync.Mutex
	windows map[uuid.UUID]models.SpaceAvailability
	spaces  map[uuid.UUID]models.ParkingSpace
}

func (m *memWindows) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *memWindows) GetSpace(_ context.Context, id uuid.UUID) (*models.ParkingSpace, error) {
	s, ok := m.spaces[id]
	if !ok {
		return nil, apperr.NotFound("space not found")
	}
	return &s, nil
}

func (m *memWindows) ListWindows(_ context.Context, spaceID uuid.UUID) ([]models.SpaceAvailability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.SpaceAvailability
	for _, w := range m.windows {
		if w.SpaceID == spaceID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *memWindows) GetWindow(_ context.Context, id uuid.UUID) (*models.SpaceAvailability, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.windows[id]
	if !ok {
		return nil, apperr.NotFound("availability window not found")
	}
	return &w, nil
}

func (m *memWindows) CreateWindow(_ context.Context, w *models.SpaceAvailability) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w.ID = uuid.New()
	m.windows[w.ID] = *w
	return nil
}

func (m *memWindows) SaveWindow(_ context.Context, w *models.SpaceAvailability) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows[w.ID] = *w
	return nil
}

func (m *memWindows) DeleteWindow(_ context.Context, w *models.SpaceAvailability) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.windows, w.ID)
	return nil
}

func newAvailabilityFixture() (*AvailabilityService, *memWindows, models.Principal, uuid.UUID) {
	owner := models.Principal{UserID: uuid.New(), Email: "owner@example.com", Role: models.OwnerRole}
	spaceID := uuid.New()
	store := &memWindows{
		windows: map[uuid.UUID]models.SpaceAvailability{},
		spaces:  map[uuid.UUID]models.ParkingSpace{spaceID: {ID: spaceID, OwnerID: owner.UserID}},
	}
	return NewAvailabilityService(store, store, store, zap.NewNop()), store, owner, spaceID
}

func input(day int, from, to string) WindowInput {
	return WindowInput{DayOfWeek: &day, AvailableFrom: from, AvailableTo: to}
}

func TestCreateWindowConflicts(t *testing.T) {
	t.Parallel()
	svc, _, owner, spaceID := newAvailabilityFixture()
	ctx := context.Background()

	first, err := svc.Create(ctx, owner, spaceID, input(1, "09:00", "12:00"))
	if err != nil {
		t.Fatalf("Create 09-12: %v", err)
	}
	if first.FromMinute != 540 || first.ToMinute != 720 || !first.IsAvailable {
		t.Errorf("stored window = %+v", first)
	}

	_, err = svc.Create(ctx, owner, spaceID, input(1, "11:00", "14:00"))
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("Create 11-14 err = %v, want CONFLICT", err)
	}

	if _, err := svc.Create(ctx, owner, spaceID, input(1, "12:00", "14:00")); err != nil {
		t.Fatalf("Create 12-14: %v", err)
	}
}

func TestCreateWindowAuthorization(t *testing.T) {
	t.Parallel()
	svc, _, _, spaceID := newAvailabilityFixture()

	stranger := models.Principal{UserID: uuid.New(), Role: models.OwnerRole}
	if _, err := svc.Create(context.Background(), stranger, spaceID, input(1, "09:00", "12:00")); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("stranger err = %v, want FORBIDDEN", err)
	}

	admin := models.Principal{UserID: uuid.New(), Role: models.AdminRole}
	if _, err := svc.Create(context.Background(), admin, spaceID, input(1, "09:00", "12:00")); err != nil {
		t.Errorf("admin Create: %v", err)
	}

	if _, err := svc.Create(context.Background(), admin, uuid.New(), input(1, "09:00", "12:00")); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("unknown space err = %v, want NOT_FOUND", err)
	}
}

func TestBulkCreatePartialSuccess(t *testing.T) {
	t.Parallel()
	svc, _, owner, spaceID := newAvailabilityFixture()
	ctx := context.Background()

	if _, err := svc.Create(ctx, owner, spaceID, input(1, "09:00", "12:00")); err != nil {
		t.Fatalf("seed window: %v", err)
	}

	result, err := svc.BulkCreate(ctx, owner, spaceID, []WindowInput{
		input(1, "11:00", "14:00"), // overlaps the stored window
		input(2, "08:00", "10:00"), // accepted
		input(2, "09:00", "11:00"), // overlaps entry 1 of this batch
		{AvailableFrom: "08:00"},   // missing fields
		input(3, "18:00", "07:00"), // inverted range
		input(1, "12:00", "14:00"), // touching, accepted
		input(4, "25:00", "26:00"), // bad format
	})
	if err != nil {
		t.Fatalf("BulkCreate: %v", err)
	}

	if result.CreatedCount != 2 || len(result.Created) != 2 {
		t.Errorf("created = %d, want 2", result.CreatedCount)
	}
	if result.FailedCount != 5 {
		t.Fatalf("failed = %d, want 5: %+v", result.FailedCount, result.Errors)
	}

	wantIndexes := []int{0, 2, 3, 4, 6}
	for i, failure := range result.Errors {
		if failure.Index != wantIndexes[i] {
			t.Errorf("errors[%d].index = %d, want %d", i, failure.Index, wantIndexes[i])
		}
		if failure.Reason == "" {
			t.Errorf("errors[%d] has no reason", i)
		}
	}
	if result.Errors[0].ConflictingWindow == nil || result.Errors[0].ConflictingWindow.AvailableFrom != "09:00" {
		t.Errorf("errors[0].conflicting_window = %+v, want the stored 09:00 window", result.Errors[0].ConflictingWindow)
	}
	if result.Errors[1].ConflictingWindow == nil || result.Errors[1].ConflictingWindow.AvailableFrom != "08:00" {
		t.Errorf("errors[1].conflicting_window = %+v, want the batch 08:00 window", result.Errors[1].ConflictingWindow)
	}
}

func TestBulkCreateRejectsEmptyBatch(t *testing.T) {
	t.Parallel()
	svc, _, owner, spaceID := newAvailabilityFixture()
	if _, err := svc.BulkCreate(context.Background(), owner, spaceID, nil); !apperr.Is(err, apperr.KindValidationFailed) {
		t.Errorf("err = %v, want VALIDATION_FAILED", err)
	}
}

func TestUpdateExcludesSelf(t *testing.T) {
	t.Parallel()
	svc, _, owner, spaceID := newAvailabilityFixture()
	ctx := context.Background()

	morning, err := svc.Create(ctx, owner, spaceID, input(1, "09:00", "12:00"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, owner, spaceID, input(1, "14:00", "16:00")); err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := svc.Update(ctx, owner, morning.ID, input(1, "08:00", "13:00"))
	if err != nil {
		t.Fatalf("widening own window: %v", err)
	}
	if updated.FromMinute != 480 || updated.ToMinute != 780 || updated.UpdatedBy == nil {
		t.Errorf("updated = %+v", updated)
	}

	if _, err := svc.Update(ctx, owner, morning.ID, input(1, "08:00", "15:00")); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("overlapping update err = %v, want CONFLICT", err)
	}
}

func TestDeleteWindow(t *testing.T) {
	t.Parallel()
	svc, store, owner, spaceID := newAvailabilityFixture()
	ctx := context.Background()

	w, err := svc.Create(ctx, owner, spaceID, input(1, "09:00", "12:00"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	stranger := models.Principal{UserID: uuid.New(), Role: models.UserRole}
	if err := svc.Delete(ctx, stranger, w.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("stranger Delete err = %v, want FORBIDDEN", err)
	}
	if err := svc.Delete(ctx, owner, w.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.windows) != 0 {
		t.Errorf("windows left = %d", len(store.windows))
	}
	if err := svc.Delete(ctx, owner, w.ID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("second Delete err = %v, want NOT_FOUND", err)
	}
}
