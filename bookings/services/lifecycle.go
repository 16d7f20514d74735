package services

import (
	"fmt"

	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/utils/apperr"
)

type Event string

const (
	EventPay         Event = "pay"
	EventCancel      Event = "cancel"
	EventCheckIn     Event = "check_in"
	EventMissCheckIn Event = "miss_check_in"
	EventCheckOut    Event = "check_out"
	EventExtend      Event = "extend"
)

// transitions lists every allowed (status, event) pair. Anything missing is rejected.
var transitions = map[models.ReservationStatus]map[Event]models.ReservationStatus{
	models.PendingReservationStatus: {
		EventPay:    models.ConfirmedReservationStatus,
		EventCancel: models.CancelledReservationStatus,
	},
	models.ConfirmedReservationStatus: {
		EventPay:         models.ConfirmedReservationStatus,
		EventCancel:      models.CancelledReservationStatus,
		EventCheckIn:     models.ActiveReservationStatus,
		EventMissCheckIn: models.NoShowReservationStatus,
		EventExtend:      models.ConfirmedReservationStatus,
	},
	models.ActiveReservationStatus: {
		EventCheckOut: models.CompletedReservationStatus,
		EventExtend:   models.ActiveReservationStatus,
	},
}

// Transition returns the status reached from `from` on ev. Terminal reservations answer with
// CONFLICT, other disallowed moves with OPERATION_NOT_ALLOWED.
func Transition(from models.ReservationStatus, ev Event) (models.ReservationStatus, error) {
	if to, ok := transitions[from][ev]; ok {
		return to, nil
	}
	if from.IsTerminal() {
		return from, apperr.Conflict(fmt.Sprintf("reservation is already %s", from))
	}
	return from, apperr.NotAllowed(fmt.Sprintf("cannot %s a reservation that is %s", describe(ev), from))
}

func CanTransition(from models.ReservationStatus, ev Event) bool {
	_, ok := transitions[from][ev]
	return ok
}

func describe(ev Event) string {
	switch ev {
	case EventCheckIn, EventMissCheckIn:
		return "check in"
	case EventCheckOut:
		return "check out"
	default:
		return string(ev)
	}
}
