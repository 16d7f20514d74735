package services

import (
	"context"
	"fmt"
	"time"

	"parking-marketplace-backend/db/models"
	promoservices "parking-marketplace-backend/promos/services"
	"parking-marketplace-backend/utils"
	"parking-marketplace-backend/utils/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReservationFilter narrows reservation listings. Nil fields are not applied.
type ReservationFilter struct {
	UserID  *uuid.UUID
	OwnerID *uuid.UUID
	SpaceID *uuid.UUID
	Status  *models.ReservationStatus
	From    *time.Time
	To      *time.Time
}

type ReservationStore interface {
	CreateReservation(ctx context.Context, r *models.Reservation) error
	SaveReservation(ctx context.Context, r *models.Reservation) error
	// GetReservation locks the row when called inside a transaction.
	GetReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	FindConflicting(ctx context.Context, spaceID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (*models.Reservation, error)
	ListReservations(ctx context.Context, filter ReservationFilter, limit, offset int) ([]models.Reservation, int64, error)
	MarkNoShows(ctx context.Context, startedBefore time.Time) (int64, error)
}

type PaymentStore interface {
	CreatePayment(ctx context.Context, p *models.Payment) error
	SavePayment(ctx context.Context, p *models.Payment) error
	GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	// FindCharge returns the settled, non-reversal payment of a reservation.
	FindCharge(ctx context.Context, reservationID uuid.UUID) (*models.Payment, error)
}

type SpaceLookup interface {
	GetSpace(ctx context.Context, id uuid.UUID) (*models.ParkingSpace, error)
}

type VehicleLookup interface {
	GetVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
}

type PromoStore interface {
	GetPromoByCode(ctx context.Context, code string) (*models.PromoCode, error)
	RedeemPromo(ctx context.Context, id uuid.UUID) error
}

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Dependencies struct {
	Reservations ReservationStore
	Payments     PaymentStore
	Spaces       SpaceLookup
	Vehicles     VehicleLookup
	Promos       PromoStore
	Tx           Transactor
	Locker       SpaceLocker
	Refunds      RefundEnqueuer
}

// ReservationService is the booking lifecycle: it prices, checks conflicts and moves
// reservations through their states.
type ReservationService struct {
	deps   Dependencies
	logger *zap.Logger
	now    func() time.Time
}

func NewReservationService(deps Dependencies, logger *zap.Logger) *ReservationService {
	if deps.Locker == nil {
		deps.Locker = NoopLocker{}
	}
	return &ReservationService{deps: deps, logger: logger, now: time.Now}
}

// WithClock replaces the time source.
func (s *ReservationService) WithClock(now func() time.Time) *ReservationService {
	s.now = now
	return s
}

type CreateReservationInput struct {
	SpaceID   uuid.UUID `json:"space_id" validate:"required"`
	VehicleID uuid.UUID `json:"vehicle_id" validate:"required"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	PromoCode string    `json:"promo_code" validate:"omitempty,max=40"`
}

type CancelResult struct {
	Reservation      *models.Reservation      `json:"reservation"`
	RefundAmount     decimal.Decimal          `json:"refund_amount"`
	RefundPercentage int                      `json:"refund_percentage"`
	Status           models.ReservationStatus `json:"status"`
}

type Overtime struct {
	Hours      int64           `json:"hours"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Charge     decimal.Decimal `json:"charge"`
}

type CheckOutResult struct {
	Reservation *models.Reservation `json:"reservation"`
	Overtime    *Overtime           `json:"overtime,omitempty"`
}

type ExtendResult struct {
	Reservation      *models.Reservation `json:"reservation"`
	OldEndTime       time.Time           `json:"old_end_time"`
	NewEndTime       time.Time           `json:"new_end_time"`
	AdditionalCharge decimal.Decimal     `json:"additional_charge"`
}

type QuoteResult struct {
	Quote
	Available bool `json:"available"`
}

func canView(p models.Principal, r *models.Reservation) bool {
	return p.IsAdmin() || r.UserID == p.UserID || r.OwnerID == p.UserID
}

func isBooker(p models.Principal, r *models.Reservation) bool {
	return p.IsAdmin() || r.UserID == p.UserID
}

func (s *ReservationService) loadPromo(ctx context.Context, code string, hours decimal.Decimal) (*models.PromoCode, error) {
	if code == "" {
		return nil, nil
	}
	promo, err := s.deps.Promos.GetPromoByCode(ctx, models.NormalizePromoCode(code))
	if err != nil {
		return nil, err
	}
	if err := promoservices.ValidatePromo(promo, s.now(), hours); err != nil {
		return nil, err
	}
	return promo, nil
}

// Quote prices a prospective booking without writing anything.
func (s *ReservationService) Quote(ctx context.Context, spaceID uuid.UUID, start, end time.Time, promoCode string) (*QuoteResult, error) {
	interval, err := NewInterval(start, end)
	if err != nil {
		return nil, err
	}
	space, err := s.deps.Spaces.GetSpace(ctx, spaceID)
	if err != nil {
		return nil, err
	}
	promo, err := s.loadPromo(ctx, promoCode, DurationHours(interval.Duration()))
	if err != nil {
		return nil, err
	}
	conflict, err := s.deps.Reservations.FindConflicting(ctx, spaceID, start, end, nil)
	if err != nil {
		return nil, err
	}
	return &QuoteResult{
		Quote:     PriceBooking(RateCardOf(space), interval, promo),
		Available: conflict == nil && space.IsAvailable,
	}, nil
}

// Create books a space for the caller. The conflict check and insert share one serializable
// transaction, taken under the space lock; the storage exclusion constraint backs both.
func (s *ReservationService) Create(ctx context.Context, principal models.Principal, in CreateReservationInput) (*models.Reservation, error) {
	now := s.now()

	interval, err := NewInterval(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}
	if interval.Start.Before(now) {
		return nil, apperr.Validation("start_time must not be in the past")
	}

	space, err := s.deps.Spaces.GetSpace(ctx, in.SpaceID)
	if err != nil {
		return nil, err
	}
	if !space.IsAvailable {
		return nil, apperr.NotAllowed("space is not accepting bookings")
	}

	vehicle, err := s.deps.Vehicles.GetVehicle(ctx, in.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.UserID != principal.UserID {
		return nil, apperr.Forbidden("vehicle does not belong to you")
	}
	if !vehicle.IsVerified {
		return nil, apperr.NotAllowed("vehicle has not been verified")
	}

	promo, err := s.loadPromo(ctx, in.PromoCode, DurationHours(interval.Duration()))
	if err != nil {
		return nil, err
	}
	quote := PriceBooking(RateCardOf(space), interval, promo)

	unlock, err := s.deps.Locker.Lock(ctx, space.ID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	reservation := &models.Reservation{
		ReservationNumber: GenerateReservationNumber(now),
		UserID:            principal.UserID,
		SpaceID:           space.ID,
		OwnerID:           space.OwnerID,
		VehicleID:         vehicle.ID,
		StartTime:         interval.Start,
		EndTime:           interval.End,
		DurationHours:     quote.DurationHours,
		BasePrice:         quote.BasePrice,
		DiscountAmount:    quote.DiscountAmount,
		TotalAmount:       quote.TotalAmount,
		Currency:          quote.Currency,
		Status:            models.PendingReservationStatus,
		PaymentStatus:     models.PendingBookingPayment,
	}
	if promo != nil {
		reservation.PromoCodeID = &promo.ID
	}

	err = s.deps.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		conflict, err := s.deps.Reservations.FindConflicting(ctx, space.ID, interval.Start, interval.End, nil)
		if err != nil {
			return err
		}
		if conflict != nil {
			return ConflictError(conflict)
		}
		if promo != nil {
			if err := s.deps.Promos.RedeemPromo(ctx, promo.ID); err != nil {
				return err
			}
		}
		return s.deps.Reservations.CreateReservation(ctx, reservation)
	})
	if err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			s.logger.Warn("booking rejected: overlapping reservation",
				zap.String("space_id", space.ID.String()),
				zap.Time("start_time", interval.Start),
				zap.Time("end_time", interval.End))
		}
		return nil, err
	}

	s.logger.Info("reservation created",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("reservation_number", reservation.ReservationNumber),
		zap.String("total_amount", reservation.TotalAmount.String()))
	return reservation, nil
}

func (s *ReservationService) Get(ctx context.Context, principal models.Principal, id uuid.UUID) (*models.Reservation, error) {
	reservation, err := s.deps.Reservations.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(principal, reservation) {
		return nil, apperr.Forbidden("you do not have access to this reservation")
	}
	return reservation, nil
}

// List scopes the filter to the caller: users see their bookings, owners asking with
// asOwner see bookings on their spaces, admins see everything.
func (s *ReservationService) List(ctx context.Context, principal models.Principal, filter ReservationFilter, asOwner bool, limit, offset int) ([]models.Reservation, int64, error) {
	switch {
	case asOwner:
		if principal.Role != models.OwnerRole && !principal.IsAdmin() {
			return nil, 0, apperr.Forbidden("only space owners can list owner bookings")
		}
		if !principal.IsAdmin() {
			filter.OwnerID = &principal.UserID
		}
	case !principal.IsAdmin():
		filter.UserID = &principal.UserID
	}
	return s.deps.Reservations.ListReservations(ctx, filter, limit, offset)
}

// mutate loads the reservation for update inside a transaction and runs fn on it.
func (s *ReservationService) mutate(ctx context.Context, id uuid.UUID, fn func(ctx context.Context, r *models.Reservation) error) (*models.Reservation, error) {
	var reservation *models.Reservation
	err := s.deps.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		r, err := s.deps.Reservations.GetReservation(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(ctx, r); err != nil {
			return err
		}
		reservation = r
		return nil
	})
	return reservation, err
}

// ConfirmPayment records a successful (simulated) payment and confirms the booking.
func (s *ReservationService) ConfirmPayment(ctx context.Context, principal models.Principal, id uuid.UUID, method models.PaymentMethod, externalRef *string) (*models.Reservation, *models.Payment, error) {
	var payment *models.Payment
	reservation, err := s.mutate(ctx, id, func(ctx context.Context, r *models.Reservation) error {
		if !isBooker(principal, r) {
			return apperr.Forbidden("only the booking user can pay for this reservation")
		}
		if r.PaymentStatus == models.PaidBookingPayment {
			return apperr.Conflict("reservation is already paid")
		}
		next, err := Transition(r.Status, EventPay)
		if err != nil {
			return err
		}

		payment = &models.Payment{
			ReservationID:     r.ID,
			TransactionType:   models.OrdinaryTransactionType,
			Amount:            r.TotalAmount,
			Currency:          r.Currency,
			PaymentMethod:     method,
			PaymentStatus:     models.PaidPayment,
			ExternalReference: externalRef,
			PaymentDate:       s.now(),
			CreatedBy:         principal.Email,
		}
		if err := s.deps.Payments.CreatePayment(ctx, payment); err != nil {
			return err
		}

		if r.VerificationCode == nil {
			code, err := GenerateVerificationCode()
			if err != nil {
				return apperr.Storage(fmt.Errorf("generate verification code: %w", err))
			}
			r.VerificationCode = &code
		}
		r.Status = next
		r.PaymentStatus = models.PaidBookingPayment
		return s.deps.Reservations.SaveReservation(ctx, r)
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("reservation paid",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("transaction_number", payment.TransactionNumber))
	return reservation, payment, nil
}

// Cancel cancels a pending or confirmed booking and records the refund owed under the
// notice schedule. A refund is settled in the background.
func (s *ReservationService) Cancel(ctx context.Context, principal models.Principal, id uuid.UUID, reason *string) (*CancelResult, error) {
	now := s.now()
	var refund Refund
	var refundPayment *models.Payment

	reservation, err := s.mutate(ctx, id, func(ctx context.Context, r *models.Reservation) error {
		if !canView(principal, r) {
			return apperr.Forbidden("you cannot cancel this reservation")
		}
		next, err := Transition(r.Status, EventCancel)
		if err != nil {
			return err
		}

		var charge *models.Payment
		collected := decimal.Zero
		if r.PaymentStatus == models.PaidBookingPayment && RefundPercentage(r.StartTime, now) > 0 {
			if charge, err = s.deps.Payments.FindCharge(ctx, r.ID); err != nil {
				return err
			}
			collected = charge.Amount
		}

		refund = ComputeRefund(r, collected, now)
		if refund.Amount.IsPositive() {
			refundPayment = &models.Payment{
				ReservationID:                r.ID,
				TransactionType:              models.RefundTransactionType,
				IsReversal:                   true,
				ReversedForTransactionNumber: &charge.TransactionNumber,
				ReversalReason:               reason,
				RefundPercentage:             utils.IntPtr(refund.Percentage),
				Amount:                       refund.Amount,
				Currency:                     r.Currency,
				PaymentMethod:                charge.PaymentMethod,
				PaymentStatus:                models.PendingPayment,
				PaymentDate:                  now,
				CreatedBy:                    principal.Email,
			}
			if err := s.deps.Payments.CreatePayment(ctx, refundPayment); err != nil {
				return err
			}
		}

		r.Status = next
		r.CancellationReason = reason
		r.CancelledAt = &now
		r.CancelledBy = &principal.UserID
		r.RefundAmount = &refund.Amount
		r.RefundPercentage = utils.IntPtr(refund.Percentage)
		return s.deps.Reservations.SaveReservation(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	if refundPayment != nil && s.deps.Refunds != nil {
		if err := s.deps.Refunds.EnqueueRefundSettlement(ctx, refundPayment.ID, reservation.ID); err != nil {
			// the refund row stays PENDING and can be re-enqueued
			s.logger.Error("failed to enqueue refund settlement",
				zap.String("payment_id", refundPayment.ID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("reservation cancelled",
		zap.String("reservation_id", reservation.ID.String()),
		zap.Int("refund_percentage", refund.Percentage),
		zap.String("refund_amount", refund.Amount.String()))

	return &CancelResult{
		Reservation:      reservation,
		RefundAmount:     refund.Amount,
		RefundPercentage: refund.Percentage,
		Status:           reservation.Status,
	}, nil
}

// CheckIn activates a confirmed booking inside [start-1h, start+1h]. A late attempt marks the
// booking no_show and is rejected.
func (s *ReservationService) CheckIn(ctx context.Context, principal models.Principal, id uuid.UUID, verificationCode string) (*models.Reservation, error) {
	now := s.now()
	missed := false

	reservation, err := s.mutate(ctx, id, func(ctx context.Context, r *models.Reservation) error {
		if !isBooker(principal, r) {
			return apperr.Forbidden("only the booking user can check in")
		}
		if r.Status != models.ConfirmedReservationStatus {
			_, err := Transition(r.Status, EventCheckIn)
			if err == nil {
				err = apperr.NotAllowed(fmt.Sprintf("cannot check in a reservation that is %s", r.Status))
			}
			return err
		}

		if now.After(r.StartTime.Add(CheckInWindow)) {
			next, err := Transition(r.Status, EventMissCheckIn)
			if err != nil {
				return err
			}
			r.Status = next
			missed = true
			return s.deps.Reservations.SaveReservation(ctx, r)
		}
		if now.Before(r.StartTime.Add(-CheckInWindow)) {
			return apperr.NotAllowed(fmt.Sprintf("check-in opens at %s", r.StartTime.Add(-CheckInWindow).Format(time.RFC3339)))
		}
		if verificationCode != "" && (r.VerificationCode == nil || *r.VerificationCode != verificationCode) {
			return apperr.Validation("verification code does not match")
		}

		next, err := Transition(r.Status, EventCheckIn)
		if err != nil {
			return err
		}
		r.Status = next
		r.CheckInTime = &now
		return s.deps.Reservations.SaveReservation(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	if missed {
		s.logger.Warn("late check-in, reservation marked no_show", zap.String("reservation_id", reservation.ID.String()))
		return nil, apperr.NotAllowed("check-in window has passed, reservation marked as no_show").
			WithDetails(map[string]interface{}{"status": reservation.Status})
	}

	s.logger.Info("reservation checked in", zap.String("reservation_id", reservation.ID.String()))
	return reservation, nil
}

// CheckOut completes an active booking, billing overtime past the booked end.
func (s *ReservationService) CheckOut(ctx context.Context, principal models.Principal, id uuid.UUID) (*CheckOutResult, error) {
	now := s.now()
	var overtime *Overtime

	reservation, err := s.mutate(ctx, id, func(ctx context.Context, r *models.Reservation) error {
		if !isBooker(principal, r) {
			return apperr.Forbidden("only the booking user can check out")
		}
		next, err := Transition(r.Status, EventCheckOut)
		if err != nil {
			return err
		}

		if now.After(r.EndTime) {
			space, err := s.deps.Spaces.GetSpace(ctx, r.SpaceID)
			if err != nil {
				return err
			}
			hours, charge := OvertimeCharge(space.HourlyRate, r.EndTime, now)
			overtime = &Overtime{
				Hours:      hours,
				HourlyRate: space.HourlyRate,
				Multiplier: OvertimeMultiplier,
				Charge:     charge,
			}
			r.OvertimeAmount = r.OvertimeAmount.Add(charge)
			r.RecomputeTotal()
		}

		r.Status = next
		r.CheckOutTime = &now
		return s.deps.Reservations.SaveReservation(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{zap.String("reservation_id", reservation.ID.String())}
	if overtime != nil {
		fields = append(fields, zap.Int64("overtime_hours", overtime.Hours), zap.String("overtime_charge", overtime.Charge.String()))
	}
	s.logger.Info("reservation checked out", fields...)

	return &CheckOutResult{Reservation: reservation, Overtime: overtime}, nil
}

// Extend pushes the end of a confirmed or active booking. Only the added interval is
// conflict-checked and priced; promos do not apply to extensions. A confirmed booking whose
// check-in window has closed is marked no_show instead.
func (s *ReservationService) Extend(ctx context.Context, principal models.Principal, id uuid.UUID, newEnd time.Time) (*ExtendResult, error) {
	current, err := s.deps.Reservations.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isBooker(principal, current) {
		return nil, apperr.Forbidden("only the booking user can extend this reservation")
	}

	unlock, err := s.deps.Locker.Lock(ctx, current.SpaceID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result ExtendResult
	missed := false
	reservation, err := s.mutate(ctx, id, func(ctx context.Context, r *models.Reservation) error {
		if _, err := Transition(r.Status, EventExtend); err != nil {
			return err
		}
		if r.Status == models.ConfirmedReservationStatus && s.now().After(r.StartTime.Add(CheckInWindow)) {
			next, err := Transition(r.Status, EventMissCheckIn)
			if err != nil {
				return err
			}
			r.Status = next
			missed = true
			return s.deps.Reservations.SaveReservation(ctx, r)
		}
		if !newEnd.After(r.EndTime) {
			return apperr.Validation("new_end_time must be after the current end_time")
		}

		added := Interval{Start: r.EndTime, End: newEnd}
		conflict, err := s.deps.Reservations.FindConflicting(ctx, r.SpaceID, added.Start, added.End, &r.ID)
		if err != nil {
			return err
		}
		if conflict != nil {
			return ConflictError(conflict)
		}

		space, err := s.deps.Spaces.GetSpace(ctx, r.SpaceID)
		if err != nil {
			return err
		}
		charge, _, _ := BasePrice(RateCardOf(space), added.Duration())

		now := s.now()
		result.OldEndTime = r.EndTime
		result.NewEndTime = newEnd
		result.AdditionalCharge = charge

		r.Extensions = append(r.Extensions, models.ReservationExtension{
			OldEndTime:       r.EndTime,
			NewEndTime:       newEnd,
			AdditionalCharge: charge,
			ExtendedAt:       now,
		})
		r.EndTime = newEnd
		r.DurationHours = DurationHours(newEnd.Sub(r.StartTime)).Round(2)
		r.ExtensionAmount = r.ExtensionAmount.Add(charge)
		r.RecomputeTotal()
		return s.deps.Reservations.SaveReservation(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	if missed {
		s.logger.Warn("extension after missed check-in, reservation marked no_show", zap.String("reservation_id", reservation.ID.String()))
		return nil, apperr.NotAllowed("check-in window has passed, reservation marked as no_show").
			WithDetails(map[string]interface{}{"status": reservation.Status})
	}

	s.logger.Info("reservation extended",
		zap.String("reservation_id", reservation.ID.String()),
		zap.Time("new_end_time", newEnd),
		zap.String("additional_charge", result.AdditionalCharge.String()))

	result.Reservation = reservation
	return &result, nil
}

// SweepNoShows marks every confirmed reservation whose check-in window closed as no_show,
// the same guard CheckIn applies reactively.
func (s *ReservationService) SweepNoShows(ctx context.Context) (int64, error) {
	return s.deps.Reservations.MarkNoShows(ctx, s.now().Add(-CheckInWindow))
}

// SettleRefund completes a pending refund record against the (stubbed) gateway. Settling an
// already settled refund is a no-op so task retries are safe.
func (s *ReservationService) SettleRefund(ctx context.Context, paymentID uuid.UUID) error {
	err := s.deps.Tx.WithinTransaction(ctx, func(ctx context.Context) error {
		payment, err := s.deps.Payments.GetPayment(ctx, paymentID)
		if err != nil {
			return err
		}
		if !payment.IsReversal {
			return apperr.NotAllowed("payment is not a refund")
		}
		if payment.PaymentStatus != models.PendingPayment {
			return nil
		}

		now := s.now()
		payment.PaymentStatus = models.RefundedPayment
		payment.SettledAt = &now
		if err := s.deps.Payments.SavePayment(ctx, payment); err != nil {
			return err
		}

		r, err := s.deps.Reservations.GetReservation(ctx, payment.ReservationID)
		if err != nil {
			return err
		}
		r.PaymentStatus = models.PartiallyRefundedBookingPayment
		if payment.RefundPercentage != nil && *payment.RefundPercentage == FullRefundPercentage {
			r.PaymentStatus = models.RefundedBookingPayment
		}
		return s.deps.Reservations.SaveReservation(ctx, r)
	})
	if err != nil {
		return err
	}

	s.logger.Info("refund settled", zap.String("payment_id", paymentID.String()))
	return nil
}
