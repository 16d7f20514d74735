package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/utils/apperr"

	"github.com/google/uuid"
)

// memStore is an in-memory implementation of every collaborator the service needs.
type memStore struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]models.Reservation
	payments     map[uuid.UUID]models.Payment
	spaces       map[uuid.UUID]models.ParkingSpace
	vehicles     map[uuid.UUID]models.Vehicle
	promos       map[string]models.PromoCode
	enqueued     []uuid.UUID
}

func newMemStore() *memStore {
	return &memStore{
		reservations: map[uuid.UUID]models.Reservation{},
		payments:     map[uuid.UUID]models.Payment{},
		spaces:       map[uuid.UUID]models.ParkingSpace{},
		vehicles:     map[uuid.UUID]models.Vehicle{},
		promos:       map[string]models.PromoCode{},
	}
}

func (m *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *memStore) CreateReservation(_ context.Context, r *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	r.RecomputeTotal()
	m.reservations[r.ID] = *r
	return nil
}

func (m *memStore) SaveReservation(_ context.Context, r *models.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations[r.ID] = *r
	return nil
}

func (m *memStore) GetReservation(_ context.Context, id uuid.UUID) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok {
		return nil, apperr.NotFound("reservation not found")
	}
	r.Extensions = append(r.Extensions[:0:0], r.Extensions...)
	return &r, nil
}

func (m *memStore) all() []models.Reservation {
	out := make([]models.Reservation, 0, len(m.reservations))
	for _, r := range m.reservations {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (m *memStore) FindConflicting(_ context.Context, spaceID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*models.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return FindConflict(spaceID, Interval{Start: start, End: end}, m.all(), excludeID), nil
}

func (m *memStore) ListReservations(_ context.Context, f ReservationFilter, limit, offset int) ([]models.Reservation, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Reservation
	for _, r := range m.all() {
		if f.UserID != nil && r.UserID != *f.UserID {
			continue
		}
		if f.OwnerID != nil && r.OwnerID != *f.OwnerID {
			continue
		}
		if f.Status != nil && r.Status != *f.Status {
			continue
		}
		out = append(out, r)
	}
	total := int64(len(out))
	if offset >= len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *memStore) MarkNoShows(_ context.Context, startedBefore time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, r := range m.reservations {
		if r.Status == models.ConfirmedReservationStatus && r.StartTime.Before(startedBefore) {
			r.Status = models.NoShowReservationStatus
			m.reservations[id] = r
			n++
		}
	}
	return n, nil
}

func (m *memStore) CreatePayment(_ context.Context, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.TransactionNumber == "" {
		p.TransactionNumber = fmt.Sprintf("TXN-%s", uuid.NewString()[0:8])
	}
	m.payments[p.ID] = *p
	return nil
}

func (m *memStore) SavePayment(_ context.Context, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[p.ID] = *p
	return nil
}

func (m *memStore) GetPayment(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, apperr.NotFound("payment not found")
	}
	return &p, nil
}

func (m *memStore) FindCharge(_ context.Context, reservationID uuid.UUID) (*models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.payments {
		if p.ReservationID == reservationID && !p.IsReversal && p.PaymentStatus == models.PaidPayment {
			return &p, nil
		}
	}
	return nil, apperr.NotFound("no settled payment for reservation")
}

func (m *memStore) GetSpace(_ context.Context, id uuid.UUID) (*models.ParkingSpace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.spaces[id]
	if !ok {
		return nil, apperr.NotFound("space not found")
	}
	return &s, nil
}

func (m *memStore) GetVehicle(_ context.Context, id uuid.UUID) (*models.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[id]
	if !ok {
		return nil, apperr.NotFound("vehicle not found")
	}
	return &v, nil
}

func (m *memStore) GetPromoByCode(_ context.Context, code string) (*models.PromoCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.promos[code]
	if !ok {
		return nil, apperr.NotFound("promo code not found")
	}
	return &p, nil
}

func (m *memStore) RedeemPromo(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for code, p := range m.promos {
		if p.ID != id {
			continue
		}
		if p.UsageLimitTotal != nil && p.UsageCount >= *p.UsageLimitTotal {
			return apperr.Validation("promo code usage limit reached")
		}
		p.UsageCount++
		m.promos[code] = p
		return nil
	}
	return apperr.NotFound("promo code not found")
}

func (m *memStore) EnqueueRefundSettlement(_ context.Context, paymentID, _ uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enqueued = append(m.enqueued, paymentID)
	return nil
}
