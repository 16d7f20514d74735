package services

import (
	"fmt"
	"strconv"

	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/utils/apperr"
	"parking-marketplace-backend/validation"

	"github.com/google/uuid"
)

// ParseHHMM converts a 24-hour "HH:MM" string to minutes since midnight.
func ParseHHMM(value string) (int, error) {
	if !validation.HHMMPattern.MatchString(value) {
		return 0, apperr.Validation(fmt.Sprintf("invalid time of day %q, expected HH:MM", value))
	}
	hours, _ := strconv.Atoi(value[:2])
	minutes, _ := strconv.Atoi(value[3:])
	return hours*60 + minutes, nil
}

// Window is a weekly time-of-day range [From, To) in minutes since midnight.
type Window struct {
	Day  int
	From int
	To   int
}

func NewWindow(day int, from, to string) (Window, error) {
	if day < 0 || day > 6 {
		return Window{}, apperr.Validation("day_of_week must be between 0 (Sunday) and 6 (Saturday)")
	}
	fromMin, err := ParseHHMM(from)
	if err != nil {
		return Window{}, err
	}
	toMin, err := ParseHHMM(to)
	if err != nil {
		return Window{}, err
	}
	if fromMin >= toMin {
		return Window{}, apperr.Validation("available_from must be before available_to")
	}
	return Window{Day: day, From: fromMin, To: toMin}, nil
}

func WindowOf(a *models.SpaceAvailability) Window {
	return Window{Day: a.DayOfWeek, From: a.FromMinute, To: a.ToMinute}
}

// Overlaps applies the half-open rule within a single day of the week.
func (w Window) Overlaps(other Window) bool {
	return w.Day == other.Day && w.From < other.To && w.To > other.From
}

// FindWindowConflict returns the first active window in existing that overlaps candidate.
func FindWindowConflict(candidate Window, existing []models.SpaceAvailability, excludeID *uuid.UUID) *models.SpaceAvailability {
	for i := range existing {
		w := &existing[i]
		if !w.IsAvailable {
			continue
		}
		if excludeID != nil && w.ID == *excludeID {
			continue
		}
		if candidate.Overlaps(WindowOf(w)) {
			return w
		}
	}
	return nil
}

func windowConflictError(w *models.SpaceAvailability) error {
	return apperr.Conflict(fmt.Sprintf("overlaps existing window %s-%s on day %d", w.AvailableFrom, w.AvailableTo, w.DayOfWeek)).
		WithDetails(map[string]interface{}{"conflicting_window": w})
}
