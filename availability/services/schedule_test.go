package services

import (
	"testing"

	"parking-marketplace-backend/db/models"
	"parking-marketplace-backend/utils/apperr"

	"github.com/google/uuid"
)

func TestParseHHMM(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"9:30", 0, true},
		{"12:60", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseHHMM(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHHMM(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !apperr.Is(err, apperr.KindValidationFailed) {
				t.Errorf("err kind = %s, want VALIDATION_FAILED", apperr.KindOf(err))
			}
			if got != tt.want {
				t.Errorf("ParseHHMM(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewWindowRejectsInvertedRange(t *testing.T) {
	t.Parallel()

	for _, tc := range [][2]string{{"12:00", "12:00"}, {"14:00", "09:00"}} {
		if _, err := NewWindow(1, tc[0], tc[1]); !apperr.Is(err, apperr.KindValidationFailed) {
			t.Errorf("NewWindow(%s, %s) err = %v, want VALIDATION_FAILED", tc[0], tc[1], err)
		}
	}
	if _, err := NewWindow(7, "09:00", "10:00"); err == nil {
		t.Error("day 7 should be rejected")
	}
}

func window(t *testing.T, day int, from, to string) models.SpaceAvailability {
	t.Helper()
	w, err := NewWindow(day, from, to)
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	return models.SpaceAvailability{
		ID: uuid.New(), DayOfWeek: day, AvailableFrom: from, AvailableTo: to,
		FromMinute: w.From, ToMinute: w.To, IsAvailable: true,
	}
}

func TestFindWindowConflict(t *testing.T) {
	t.Parallel()

	existing := []models.SpaceAvailability{window(t, 1, "09:00", "12:00")}
	inactive := window(t, 1, "15:00", "18:00")
	inactive.IsAvailable = false
	existing = append(existing, inactive)

	tests := []struct {
		name     string
		day      int
		from, to string
		conflict bool
	}{
		{"overlapping tail", 1, "11:00", "14:00", true},
		{"contained", 1, "10:00", "11:00", true},
		{"touching", 1, "12:00", "14:00", false},
		{"other day", 2, "09:00", "12:00", false},
		{"inactive window ignored", 1, "16:00", "17:00", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			candidate, err := NewWindow(tt.day, tt.from, tt.to)
			if err != nil {
				t.Fatalf("NewWindow: %v", err)
			}
			got := FindWindowConflict(candidate, existing, nil)
			if (got != nil) != tt.conflict {
				t.Errorf("conflict = %v, want %v", got, tt.conflict)
			}
		})
	}

	self, _ := NewWindow(1, "09:00", "13:00")
	if got := FindWindowConflict(self, existing, &existing[0].ID); got != nil {
		t.Errorf("excluded window still conflicts: %+v", got)
	}
}
