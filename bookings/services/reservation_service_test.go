package services

import (
	"context"
	"testing"
	"time"

	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/utils/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type fixture struct {
	store   *memStore
	svc     *ReservationService
	now     time.Time
	owner   models.Principal
	driver  models.Principal
	space   models.ParkingSpace
	vehicle models.Vehicle
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	f := &fixture{
		store:  newMemStore(),
		now:    now,
		owner:  models.Principal{UserID: uuid.New(), Email: "owner@example.com", Role: models.OwnerRole},
		driver: models.Principal{UserID: uuid.New(), Email: "driver@example.com", Role: models.UserRole},
	}
	f.space = models.ParkingSpace{
		ID:          uuid.New(),
		OwnerID:     f.owner.UserID,
		Title:       "Driveway on Main",
		HourlyRate:  dec("10"),
		DailyRate:   dec("80"),
		MonthlyRate: dec("600"),
		Currency:    "USD",
		BookingMode: models.InstantBookingMode,
		IsAvailable: true,
	}
	f.vehicle = models.Vehicle{ID: uuid.New(), UserID: f.driver.UserID, LicensePlate: "ABC123", IsVerified: true}
	f.store.spaces[f.space.ID] = f.space
	f.store.vehicles[f.vehicle.ID] = f.vehicle

	f.svc = NewReservationService(Dependencies{
		Reservations: f.store,
		Payments:     f.store,
		Spaces:       f.store,
		Vehicles:     f.store,
		Promos:       f.store,
		Tx:           f.store,
		Refunds:      f.store,
	}, zap.NewNop()).WithClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) book(t *testing.T, start, end time.Time) *models.Reservation {
	t.Helper()
	r, err := f.svc.Create(context.Background(), f.driver, CreateReservationInput{
		SpaceID: f.space.ID, VehicleID: f.vehicle.ID, StartTime: start, EndTime: end,
	})
	if err != nil {
		t.Fatalf("Create(%s, %s): %v", start, end, err)
	}
	return r
}

func (f *fixture) pay(t *testing.T, id uuid.UUID) *models.Reservation {
	t.Helper()
	r, _, err := f.svc.ConfirmPayment(context.Background(), f.driver, id, models.CardPaymentMethod, nil)
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	return r
}

func dayBefore() time.Time { return at("10:00").Add(-24 * time.Hour) }

func TestCreatePricesAndAppliesPromo(t *testing.T) {
	t.Parallel()
	f := newFixture(t, dayBefore())

	limit := 10
	maxDiscount := dec("5")
	f.store.promos["SAVE20"] = models.PromoCode{
		ID: uuid.New(), Code: "SAVE20", DiscountType: models.PercentageDiscount, DiscountValue: dec("20"),
		MaxDiscountAmount: &maxDiscount, ValidFrom: f.now.Add(-time.Hour), ValidTo: f.now.Add(72 * time.Hour),
		UsageLimitTotal: &limit, IsActive: true,
	}

	r, err := f.svc.Create(context.Background(), f.driver, CreateReservationInput{
		SpaceID: f.space.ID, VehicleID: f.vehicle.ID, StartTime: at("10:00"), EndTime: at("13:00"), PromoCode: "save20",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !r.BasePrice.Equal(dec("30")) || !r.DiscountAmount.Equal(dec("5")) || !r.TotalAmount.Equal(dec("25")) {
		t.Errorf("price = base %s discount %s total %s, want 30/5/25", r.BasePrice, r.DiscountAmount, r.TotalAmount)
	}
	if r.Status != models.PendingReservationStatus || r.PaymentStatus != models.PendingBookingPayment {
		t.Errorf("status = %s/%s, want pending/pending", r.Status, r.PaymentStatus)
	}
	if !r.DurationHours.Equal(dec("3")) {
		t.Errorf("duration_hours = %s, want 3", r.DurationHours)
	}
	if r.OwnerID != f.owner.UserID {
		t.Errorf("owner_id = %s, want space owner", r.OwnerID)
	}
	if got := f.store.promos["SAVE20"].UsageCount; got != 1 {
		t.Errorf("promo usage_count = %d, want 1", got)
	}
}

func TestCreateConflictAndTouchingBoundary(t *testing.T) {
	t.Parallel()
	f := newFixture(t, dayBefore())

	f.book(t, at("10:00"), at("14:00"))

	_, err := f.svc.Create(context.Background(), f.driver, CreateReservationInput{
		SpaceID: f.space.ID, VehicleID: f.vehicle.ID, StartTime: at("13:00"), EndTime: at("16:00"),
	})
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("overlapping booking: err = %v, want CONFLICT", err)
	}

	f.book(t, at("14:00"), at("16:00"))
}

func TestCreateIgnoresCancelledReservations(t *testing.T) {
	t.Parallel()
	f := newFixture(t, dayBefore())

	first := f.book(t, at("10:00"), at("14:00"))
	if _, err := f.svc.Cancel(context.Background(), f.driver, first.ID, nil); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	f.book(t, at("11:00"), at("12:00"))
}

func TestCreateGuards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setup    func(f *fixture) CreateReservationInput
		wantKind apperr.Kind
	}{
		{
			name: "start in the past",
			setup: func(f *fixture) CreateReservationInput {
				return CreateReservationInput{SpaceID: f.space.ID, VehicleID: f.vehicle.ID, StartTime: f.now.Add(-time.Minute), EndTime: f.now.Add(time.Hour)}
			},
			wantKind: apperr.KindValidationFailed,
		},
		{
			name: "end before start",
			setup: func(f *fixture) CreateReservationInput {
				return CreateReservationInput{SpaceID: f.space.ID, VehicleID: f.vehicle.ID, StartTime: at("12:00"), EndTime: at("11:00")}
			},
			wantKind: apperr.KindValidationFailed,
		},
		{
			name: "unknown space",
			setup: func(f *fixture) CreateReservationInput {
				return CreateReservationInput{SpaceID: uuid.New(), VehicleID: f.vehicle.ID, StartTime: at("10:00"), EndTime: at("11:00")}
			},
			wantKind: apperr.KindNotFound,
		},
		{
			name: "someone else's vehicle",
			setup: func(f *fixture) CreateReservationInput {
				v := models.Vehicle{ID: uuid.New(), UserID: uuid.New(), IsVerified: true}
				f.store.vehicles[v.ID] = v
				return CreateReservationInput{SpaceID: f.space.ID, VehicleID: v.ID, StartTime: at("10:00"), EndTime: at("11:00")}
			},
			wantKind: apperr.KindForbidden,
		},
		{
			name: "unverified vehicle",
			setup: func(f *fixture) CreateReservationInput {
				v := models.Vehicle{ID: uuid.New(), UserID: f.driver.UserID}
				f.store.vehicles[v.ID] = v
				return CreateReservationInput{SpaceID: f.space.ID, VehicleID: v.ID, StartTime: at("10:00"), EndTime: at("11:00")}
			},
			wantKind: apperr.KindOperationNotAllowed,
		},
		{
			name: "expired promo",
			setup: func(f *fixture) CreateReservationInput {
				f.store.promos["OLD"] = models.PromoCode{
					ID: uuid.New(), Code: "OLD", DiscountType: models.FixedAmountDiscount, DiscountValue: dec("5"),
					ValidFrom: f.now.Add(-72 * time.Hour), ValidTo: f.now.Add(-time.Hour), IsActive: true,
				}
				return CreateReservationInput{SpaceID: f.space.ID, VehicleID: f.vehicle.ID, StartTime: at("10:00"), EndTime: at("11:00"), PromoCode: "OLD"}
			},
			wantKind: apperr.KindValidationFailed,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, dayBefore())
			_, err := f.svc.Create(context.Background(), f.driver, tt.setup(f))
			if !apperr.Is(err, tt.wantKind) {
				t.Fatalf("err = %v, want kind %s", err, tt.wantKind)
			}
		})
	}
}

func TestGetIsIdempotentAndAuthorized(t *testing.T) {
	t.Parallel()
	f := newFixture(t, dayBefore())
	r := f.book(t, at("10:00"), at("13:00"))

	first, err := f.svc.Get(context.Background(), f.driver, r.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := f.svc.Get(context.Background(), f.owner, r.ID)
	if err != nil {
		t.Fatalf("Get as owner: %v", err)
	}
	if !first.TotalAmount.Equal(second.TotalAmount) || !first.DurationHours.Equal(second.DurationHours) {
		t.Errorf("repeated reads differ: %s/%s vs %s/%s", first.TotalAmount, first.DurationHours, second.TotalAmount, second.DurationHours)
	}

	stranger := models.Principal{UserID: uuid.New(), Role: models.UserRole}
	if _, err := f.svc.Get(context.Background(), stranger, r.ID); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("stranger Get err = %v, want FORBIDDEN", err)
	}
}

func TestConfirmPayment(t *testing.T) {
	t.Parallel()
	f := newFixture(t, dayBefore())
	r := f.book(t, at("10:00"), at("13:00"))

	paid := f.pay(t, r.ID)
	if paid.Status != models.ConfirmedReservationStatus || paid.PaymentStatus != models.PaidBookingPayment {
		t.Fatalf("status = %s/%s, want confirmed/paid", paid.Status, paid.PaymentStatus)
	}
	if paid.VerificationCode == nil || len(*paid.VerificationCode) != 6 {
		t.Fatalf("verification code = %v, want 6 digits", paid.VerificationCode)
	}

	_, _, err := f.svc.ConfirmPayment(context.Background(), f.driver, r.ID, models.CardPaymentMethod, nil)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("second payment err = %v, want CONFLICT", err)
	}
}

func TestCancelRefundSchedule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		notice  time.Duration
		paid    bool
		wantPct int
		wantAmt string
	}{
		{"paid, 72h notice", 72 * time.Hour, true, 100, "30"},
		{"paid, exactly 48h", 48 * time.Hour, true, 50, "15"},
		{"paid, 24h", 24 * time.Hour, true, 0, "0"},
		{"unpaid, 72h", 72 * time.Hour, false, 100, "0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, at("10:00").Add(-96*time.Hour))
			r := f.book(t, at("10:00"), at("13:00"))
			if tt.paid {
				f.pay(t, r.ID)
			}

			f.now = at("10:00").Add(-tt.notice)
			reason := "plans changed"
			res, err := f.svc.Cancel(context.Background(), f.driver, r.ID, &reason)
			if err != nil {
				t.Fatalf("Cancel: %v", err)
			}
			if res.Status != models.CancelledReservationStatus {
				t.Errorf("status = %s, want cancelled", res.Status)
			}
			if res.RefundPercentage != tt.wantPct || !res.RefundAmount.Equal(dec(tt.wantAmt)) {
				t.Errorf("refund = %d%% %s, want %d%% %s", res.RefundPercentage, res.RefundAmount, tt.wantPct, tt.wantAmt)
			}

			wantEnqueued := 0
			if dec(tt.wantAmt).IsPositive() {
				wantEnqueued = 1
			}
			if len(f.store.enqueued) != wantEnqueued {
				t.Errorf("enqueued refunds = %d, want %d", len(f.store.enqueued), wantEnqueued)
			}
		})
	}
}

func TestCancelAfterExtendRefundsOnlyWhatWasCharged(t *testing.T) {
	t.Parallel()
	f := newFixture(t, at("10:00").Add(-96*time.Hour))
	r := f.book(t, at("10:00"), at("13:00"))
	f.pay(t, r.ID)

	ext, err := f.svc.Extend(context.Background(), f.driver, r.ID, at("16:00"))
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if !ext.Reservation.TotalAmount.Equal(dec("60")) {
		t.Fatalf("total after extend = %s, want 60", ext.Reservation.TotalAmount)
	}

	f.now = at("10:00").Add(-72 * time.Hour)
	res, err := f.svc.Cancel(context.Background(), f.driver, r.ID, nil)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if res.RefundPercentage != 100 || !res.RefundAmount.Equal(dec("30")) {
		t.Errorf("refund = %d%% %s, want 100%% of the 30 charged", res.RefundPercentage, res.RefundAmount)
	}

	charge, err := f.store.FindCharge(context.Background(), r.ID)
	if err != nil {
		t.Fatalf("FindCharge: %v", err)
	}
	for _, p := range f.store.payments {
		if !p.IsReversal {
			continue
		}
		if p.Amount.GreaterThan(charge.Amount) {
			t.Errorf("reversal %s of %s exceeds charge %s", p.TransactionNumber, p.Amount, charge.Amount)
		}
		if p.ReversedForTransactionNumber == nil || *p.ReversedForTransactionNumber != charge.TransactionNumber {
			t.Errorf("reversal points at %v, want %s", p.ReversedForTransactionNumber, charge.TransactionNumber)
		}
	}
}

func TestCancelTwiceConflicts(t *testing.T) {
	t.Parallel()
	f := newFixture(t, dayBefore())
	r := f.book(t, at("10:00"), at("13:00"))

	if _, err := f.svc.Cancel(context.Background(), f.owner, r.ID, nil); err != nil {
		t.Fatalf("owner Cancel: %v", err)
	}
	if _, err := f.svc.Cancel(context.Background(), f.driver, r.ID, nil); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("second Cancel err = %v, want CONFLICT", err)
	}
}

func TestSettleRefund(t *testing.T) {
	t.Parallel()
	f := newFixture(t, at("10:00").Add(-96*time.Hour))
	r := f.book(t, at("10:00"), at("13:00"))
	f.pay(t, r.ID)

	f.now = at("10:00").Add(-30 * time.Hour)
	if _, err := f.svc.Cancel(context.Background(), f.driver, r.ID, nil); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if len(f.store.enqueued) != 1 {
		t.Fatalf("expected one enqueued refund, got %d", len(f.store.enqueued))
	}

	paymentID := f.store.enqueued[0]
	for i := 0; i < 2; i++ {
		if err := f.svc.SettleRefund(context.Background(), paymentID); err != nil {
			t.Fatalf("SettleRefund #%d: %v", i+1, err)
		}
	}

	p, _ := f.store.GetPayment(context.Background(), paymentID)
	if p.PaymentStatus != models.RefundedPayment || !p.IsReversal || p.ReversedForTransactionNumber == nil {
		t.Errorf("refund payment = %+v", p)
	}
	got, _ := f.store.GetReservation(context.Background(), r.ID)
	if got.PaymentStatus != models.PartiallyRefundedBookingPayment {
		t.Errorf("payment_status = %s, want partially_refunded", got.PaymentStatus)
	}
}

func TestCheckInWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		offset     time.Duration
		wantStatus models.ReservationStatus
		wantKind   apperr.Kind
	}{
		{"too early", -61 * time.Minute, models.ConfirmedReservationStatus, apperr.KindOperationNotAllowed},
		{"window opens", -time.Hour, models.ActiveReservationStatus, ""},
		{"on time", 0, models.ActiveReservationStatus, ""},
		{"window closes", time.Hour, models.ActiveReservationStatus, ""},
		{"two hours late", 2 * time.Hour, models.NoShowReservationStatus, apperr.KindOperationNotAllowed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, dayBefore())
			r := f.book(t, at("10:00"), at("13:00"))
			f.pay(t, r.ID)

			f.now = at("10:00").Add(tt.offset)
			_, err := f.svc.CheckIn(context.Background(), f.driver, r.ID, "")
			if tt.wantKind != "" && !apperr.Is(err, tt.wantKind) {
				t.Fatalf("CheckIn err = %v, want %s", err, tt.wantKind)
			}
			if tt.wantKind == "" && err != nil {
				t.Fatalf("CheckIn: %v", err)
			}

			stored, _ := f.store.GetReservation(context.Background(), r.ID)
			if stored.Status != tt.wantStatus {
				t.Errorf("status = %s, want %s", stored.Status, tt.wantStatus)
			}
		})
	}
}

func TestCheckInVerificationCode(t *testing.T) {
	t.Parallel()
	f := newFixture(t, dayBefore())
	r := f.book(t, at("10:00"), at("13:00"))
	paid := f.pay(t, r.ID)

	f.now = at("10:00")
	if _, err := f.svc.CheckIn(context.Background(), f.driver, r.ID, "000000x"); !apperr.Is(err, apperr.KindValidationFailed) {
		t.Fatalf("wrong code err = %v, want VALIDATION_FAILED", err)
	}
	active, err := f.svc.CheckIn(context.Background(), f.driver, r.ID, *paid.VerificationCode)
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if active.CheckInTime == nil || !active.CheckInTime.Equal(f.now) {
		t.Errorf("check_in_time = %v, want %v", active.CheckInTime, f.now)
	}
}

func TestCheckInRequiresConfirmed(t *testing.T) {
	t.Parallel()
	f := newFixture(t, dayBefore())
	r := f.book(t, at("10:00"), at("13:00"))

	f.now = at("10:00")
	if _, err := f.svc.CheckIn(context.Background(), f.driver, r.ID, ""); !apperr.Is(err, apperr.KindOperationNotAllowed) {
		t.Fatalf("pending CheckIn err = %v, want OPERATION_NOT_ALLOWED", err)
	}
}

func TestCheckOutOvertime(t *testing.T) {
	t.Parallel()
	f := newFixture(t, dayBefore())
	r := f.book(t, at("10:00"), at("14:00"))
	f.pay(t, r.ID)

	f.now = at("10:00")
	if _, err := f.svc.CheckIn(context.Background(), f.driver, r.ID, ""); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	f.now = at("14:00").Add(3 * time.Hour)
	res, err := f.svc.CheckOut(context.Background(), f.driver, r.ID)
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if res.Reservation.Status != models.CompletedReservationStatus {
		t.Errorf("status = %s, want completed", res.Reservation.Status)
	}
	if res.Overtime == nil || res.Overtime.Hours != 3 || !res.Overtime.Charge.Equal(dec("45")) {
		t.Fatalf("overtime = %+v, want 3h / 45", res.Overtime)
	}
	if !res.Reservation.TotalAmount.Equal(dec("85")) {
		t.Errorf("total = %s, want 40 + 45", res.Reservation.TotalAmount)
	}
}

func TestCheckOutOnTimeHasNoOvertime(t *testing.T) {
	t.Parallel()
	f := newFixture(t, dayBefore())
	r := f.book(t, at("10:00"), at("14:00"))
	f.pay(t, r.ID)
	f.now = at("10:00")
	if _, err := f.svc.CheckIn(context.Background(), f.driver, r.ID, ""); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	f.now = at("13:30")
	res, err := f.svc.CheckOut(context.Background(), f.driver, r.ID)
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if res.Overtime != nil || !res.Reservation.TotalAmount.Equal(dec("40")) {
		t.Errorf("overtime = %+v total = %s, want none / 40", res.Overtime, res.Reservation.TotalAmount)
	}
}

func TestExtend(t *testing.T) {
	t.Parallel()
	f := newFixture(t, dayBefore())
	r := f.book(t, at("10:00"), at("12:00"))
	f.pay(t, r.ID)

	blocker := f.book(t, at("15:00"), at("16:00"))

	res, err := f.svc.Extend(context.Background(), f.driver, r.ID, at("14:00"))
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if !res.OldEndTime.Equal(at("12:00")) || !res.NewEndTime.Equal(at("14:00")) || !res.AdditionalCharge.Equal(dec("20")) {
		t.Errorf("extend result = %+v", res)
	}
	if !res.Reservation.TotalAmount.Equal(dec("40")) || len(res.Reservation.Extensions) != 1 {
		t.Errorf("total = %s extensions = %d, want 40 / 1", res.Reservation.TotalAmount, len(res.Reservation.Extensions))
	}
	if !res.Reservation.DurationHours.Equal(dec("4")) {
		t.Errorf("duration_hours = %s, want 4", res.Reservation.DurationHours)
	}

	if _, err := f.svc.Extend(context.Background(), f.driver, r.ID, at("15:30")); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("extend into %s: err = %v, want CONFLICT", blocker.ReservationNumber, err)
	}
	if _, err := f.svc.Extend(context.Background(), f.driver, r.ID, at("13:00")); !apperr.Is(err, apperr.KindValidationFailed) {
		t.Errorf("shrinking extend err = %v, want VALIDATION_FAILED", err)
	}
	if _, err := f.svc.Extend(context.Background(), f.driver, blocker.ID, at("17:00")); !apperr.Is(err, apperr.KindOperationNotAllowed) {
		t.Errorf("extend pending err = %v, want OPERATION_NOT_ALLOWED", err)
	}
}

func TestExtendAfterMissedCheckInMarksNoShow(t *testing.T) {
	t.Parallel()
	f := newFixture(t, dayBefore())
	r := f.book(t, at("10:00"), at("12:00"))
	f.pay(t, r.ID)

	f.now = at("11:30")
	_, err := f.svc.Extend(context.Background(), f.driver, r.ID, at("14:00"))
	if !apperr.Is(err, apperr.KindOperationNotAllowed) {
		t.Fatalf("Extend after window: err = %v, want OPERATION_NOT_ALLOWED", err)
	}

	got, _ := f.store.GetReservation(context.Background(), r.ID)
	if got.Status != models.NoShowReservationStatus {
		t.Errorf("status = %s, want no_show", got.Status)
	}
	if !got.EndTime.Equal(at("12:00")) || len(got.Extensions) != 0 {
		t.Errorf("reservation was extended to %s with %d extensions", got.EndTime, len(got.Extensions))
	}
}

func TestSweepNoShows(t *testing.T) {
	t.Parallel()
	f := newFixture(t, dayBefore())

	late := f.book(t, at("10:00"), at("11:00"))
	f.pay(t, late.ID)
	onTime := f.book(t, at("12:00"), at("13:00"))
	f.pay(t, onTime.ID)
	unpaid := f.book(t, at("09:00"), at("09:30"))

	f.now = at("11:30")
	n, err := f.svc.SweepNoShows(context.Background())
	if err != nil {
		t.Fatalf("SweepNoShows: %v", err)
	}
	if n != 1 {
		t.Fatalf("swept = %d, want 1", n)
	}

	for id, want := range map[uuid.UUID]models.ReservationStatus{
		late.ID:   models.NoShowReservationStatus,
		onTime.ID: models.ConfirmedReservationStatus,
		unpaid.ID: models.PendingReservationStatus,
	} {
		got, _ := f.store.GetReservation(context.Background(), id)
		if got.Status != want {
			t.Errorf("reservation %s status = %s, want %s", got.ReservationNumber, got.Status, want)
		}
	}
}

func TestListScopesToCaller(t *testing.T) {
	t.Parallel()
	f := newFixture(t, dayBefore())
	f.book(t, at("10:00"), at("11:00"))
	f.book(t, at("12:00"), at("13:00"))

	mine, total, err := f.svc.List(context.Background(), f.driver, ReservationFilter{}, false, 10, 0)
	if err != nil || total != 2 || len(mine) != 2 {
		t.Fatalf("driver list = %d/%d, err %v", len(mine), total, err)
	}

	stranger := models.Principal{UserID: uuid.New(), Role: models.UserRole}
	none, total, err := f.svc.List(context.Background(), stranger, ReservationFilter{}, false, 10, 0)
	if err != nil || total != 0 || len(none) != 0 {
		t.Fatalf("stranger list = %d/%d, err %v", len(none), total, err)
	}

	owned, total, err := f.svc.List(context.Background(), f.owner, ReservationFilter{}, true, 10, 0)
	if err != nil || total != 2 || len(owned) != 2 {
		t.Fatalf("owner list = %d/%d, err %v", len(owned), total, err)
	}

	if _, _, err := f.svc.List(context.Background(), f.driver, ReservationFilter{}, true, 10, 0); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("driver owner-list err = %v, want FORBIDDEN", err)
	}
}

func TestQuoteReportsAvailability(t *testing.T) {
	t.Parallel()
	f := newFixture(t, dayBefore())
	f.book(t, at("10:00"), at("14:00"))

	q, err := f.svc.Quote(context.Background(), f.space.ID, at("13:00"), at("16:00"), "")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.Available || !q.TotalAmount.Equal(dec("30")) {
		t.Errorf("quote = %+v, want unavailable / 30", q)
	}

	q, err = f.svc.Quote(context.Background(), f.space.ID, at("14:00"), at("16:00"), "")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if !q.Available {
		t.Error("touching interval should be available")
	}
}
