package services

import (
	"time"

	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/utils/apperr"

	"github.com/google/uuid"
)

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	if start.IsZero() || end.IsZero() {
		return Interval{}, apperr.Validation("start_time and end_time are required")
	}
	if !end.After(start) {
		return Interval{}, apperr.Validation("end_time must be after start_time")
	}
	return Interval{Start: start, End: end}, nil
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps is s1 < e2 && e1 > s2. Intervals that only touch do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// FindConflict returns the first active reservation in existing that overlaps candidate on
// the given space, skipping excludeID.
func FindConflict(spaceID uuid.UUID, candidate Interval, existing []models.Reservation, excludeID *uuid.UUID) *models.Reservation {
	for i := range existing {
		r := &existing[i]
		if r.SpaceID != spaceID || !r.Status.IsActive() {
			continue
		}
		if excludeID != nil && r.ID == *excludeID {
			continue
		}
		if candidate.Overlaps(Interval{Start: r.StartTime, End: r.EndTime}) {
			return r
		}
	}
	return nil
}

// ConflictError describes the blocking reservation without exposing who holds it.
func ConflictError(conflicting *models.Reservation) error {
	return apperr.Conflict("space is already booked for an overlapping time").WithDetails(map[string]interface{}{
		"conflicting_reservation": map[string]interface{}{
			"reservation_number": conflicting.ReservationNumber,
			"start_time":         conflicting.StartTime,
			"end_time":           conflicting.EndTime,
		},
	})
}
