package repositories

import (
	"context"
	"fmt"
	"time"

	"parking-marketplace-backend/bookings/services"
	"parking-marketplace-backend/db"
	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/utils/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingRepository persists reservations and their payments.
type BookingRepository interface {
	services.ReservationStore
	services.PaymentStore
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// classify maps storage errors to the error taxonomy. The exclusion constraint and
// serialization failures both mean another booking won the race for the interval.
func classify(op string, err error) error {
	switch {
	case db.IsExclusionViolation(err), db.IsSerializationFailure(err):
		return apperr.Conflict("space is already booked for an overlapping period")
	case db.IsUniqueViolation(err):
		return apperr.Conflict(fmt.Sprintf("%s: duplicate record", op))
	}
	return apperr.Storage(fmt.Errorf("%s: %w", op, err))
}

func (r *bookingRepository) CreateReservation(ctx context.Context, reservation *models.Reservation) error {
	if err := db.Conn(ctx, r.db).Omit(clause.Associations).Create(reservation).Error; err != nil {
		return classify("create reservation", err)
	}
	return nil
}

func (r *bookingRepository) SaveReservation(ctx context.Context, reservation *models.Reservation) error {
	if err := db.Conn(ctx, r.db).Omit(clause.Associations).Save(reservation).Error; err != nil {
		return classify("save reservation", err)
	}
	return nil
}

func (r *bookingRepository) GetReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error) {
	query := db.Conn(ctx, r.db)
	if db.InTransaction(ctx) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	} else {
		query = query.Preload("Space").Preload("Vehicle")
	}

	var reservation models.Reservation
	if err := query.Where("id = ?", id).First(&reservation).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(fmt.Sprintf("reservation %s not found", id))
		}
		return nil, classify("get reservation", err)
	}
	return &reservation, nil
}

// FindConflicting returns the earliest active reservation on the space whose half-open
// interval intersects [start, end).
func (r *bookingRepository) FindConflicting(ctx context.Context, spaceID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*models.Reservation, error) {
	query := db.Conn(ctx, r.db).
		Where("space_id = ?", spaceID).
		Where("status NOT IN ?", models.InactiveReservationStatuses).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var conflicts []models.Reservation
	if err := query.Order("start_time ASC").Limit(1).Find(&conflicts).Error; err != nil {
		return nil, classify("find conflicting reservations", err)
	}
	if len(conflicts) == 0 {
		return nil, nil
	}
	return &conflicts[0], nil
}

// reservationsQueryBuilder builds queries for reservation filtering
type reservationsQueryBuilder struct {
	query  *gorm.DB
	filter services.ReservationFilter
}

func newReservationsQueryBuilder(conn *gorm.DB, filter services.ReservationFilter) *reservationsQueryBuilder {
	return &reservationsQueryBuilder{
		query:  conn.Model(&models.Reservation{}),
		filter: filter,
	}
}

func (qb *reservationsQueryBuilder) applyPartyFilters() *reservationsQueryBuilder {
	if qb.filter.UserID != nil {
		qb.query = qb.query.Where("user_id = ?", *qb.filter.UserID)
	}
	if qb.filter.OwnerID != nil {
		qb.query = qb.query.Where("owner_id = ?", *qb.filter.OwnerID)
	}
	if qb.filter.SpaceID != nil {
		qb.query = qb.query.Where("space_id = ?", *qb.filter.SpaceID)
	}
	if qb.filter.Status != nil {
		qb.query = qb.query.Where("status = ?", *qb.filter.Status)
	}
	return qb
}

func (qb *reservationsQueryBuilder) applyTimeRangeFilter() *reservationsQueryBuilder {
	if qb.filter.From != nil {
		qb.query = qb.query.Where("end_time > ?", *qb.filter.From)
	}
	if qb.filter.To != nil {
		qb.query = qb.query.Where("start_time < ?", *qb.filter.To)
	}
	return qb
}

func (qb *reservationsQueryBuilder) applyLatestOrder() *reservationsQueryBuilder {
	qb.query = qb.query.Order("start_time DESC").Order("created_at DESC")
	return qb
}

func (r *bookingRepository) ListReservations(ctx context.Context, filter services.ReservationFilter, limit, offset int) ([]models.Reservation, int64, error) {
	conn := db.Conn(ctx, r.db)

	var total int64
	counter := newReservationsQueryBuilder(conn, filter).applyPartyFilters().applyTimeRangeFilter()
	if err := counter.query.Count(&total).Error; err != nil {
		return nil, 0, classify("count reservations", err)
	}

	qb := newReservationsQueryBuilder(conn, filter).applyPartyFilters().applyTimeRangeFilter().applyLatestOrder()
	if limit > 0 {
		qb.query = qb.query.Limit(limit).Offset(offset)
	}

	var reservations []models.Reservation
	if err := qb.query.Preload("Space").Preload("Vehicle").Find(&reservations).Error; err != nil {
		return nil, 0, classify("list reservations", err)
	}
	return reservations, total, nil
}

// MarkNoShows flips every confirmed reservation that started before the cutoff to no_show.
func (r *bookingRepository) MarkNoShows(ctx context.Context, startedBefore time.Time) (int64, error) {
	result := db.Conn(ctx, r.db).Model(&models.Reservation{}).
		Where("status = ? AND start_time < ?", models.ConfirmedReservationStatus, startedBefore).
		Updates(map[string]interface{}{
			"status":     models.NoShowReservationStatus,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return 0, classify("mark no-shows", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *bookingRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if err := db.Conn(ctx, r.db).Create(payment).Error; err != nil {
		return classify("create payment", err)
	}
	return nil
}

func (r *bookingRepository) SavePayment(ctx context.Context, payment *models.Payment) error {
	if err := db.Conn(ctx, r.db).Save(payment).Error; err != nil {
		return classify("save payment", err)
	}
	return nil
}

func (r *bookingRepository) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	query := db.Conn(ctx, r.db)
	if db.InTransaction(ctx) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var payment models.Payment
	if err := query.Where("id = ?", id).First(&payment).Error; err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound(fmt.Sprintf("payment %s not found", id))
		}
		return nil, classify("get payment", err)
	}
	return &payment, nil
}

func (r *bookingRepository) FindCharge(ctx context.Context, reservationID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := db.Conn(ctx, r.db).
		Where("reservation_id = ? AND is_reversal = ? AND payment_status = ?", reservationID, false, models.PaidPayment).
		Order("payment_date DESC").
		First(&payment).Error
	if err != nil {
		if db.IsNotFound(err) {
			return nil, apperr.NotFound("no settled payment for reservation")
		}
		return nil, classify("find charge", err)
	}
	return &payment, nil
}
