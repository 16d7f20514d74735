package validation

import (
	"strings"
	"testing"

	"parking-marketplace-backend/utils/apperr"
)

type windowRequest struct {
	DayOfWeek     *int   `json:"day_of_week" validate:"required,gte=0,lte=6"`
	AvailableFrom string `json:"available_from" validate:"required,hhmm"`
	AvailableTo   string `json:"available_to" validate:"required,hhmm"`
}

func intPtr(i int) *int { return &i }

func TestHHMMPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  bool
	}{
		{"00:00", true},
		{"09:30", true},
		{"23:59", true},
		{"24:00", false},
		{"9:30", false},
		{"12:60", false},
		{"12-30", false},
		{"", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()
			if got := HHMMPattern.MatchString(tt.value); got != tt.want {
				t.Errorf("HHMMPattern.MatchString(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		req := windowRequest{DayOfWeek: intPtr(1), AvailableFrom: "09:00", AvailableTo: "12:00"}
		if err := ValidateStruct(&req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("day out of range and bad time", func(t *testing.T) {
		t.Parallel()
		req := windowRequest{DayOfWeek: intPtr(7), AvailableFrom: "9am", AvailableTo: "12:00"}
		err := ValidateStruct(&req)
		if err == nil {
			t.Fatal("expected validation error")
		}
		if !apperr.Is(err, apperr.KindValidationFailed) {
			t.Fatalf("kind = %s, want VALIDATION_FAILED", apperr.KindOf(err))
		}
		msg := err.Error()
		if !strings.Contains(msg, "day_of_week") || !strings.Contains(msg, "available_from") {
			t.Errorf("message %q should name both json fields", msg)
		}
	})

	t.Run("missing required", func(t *testing.T) {
		t.Parallel()
		err := ValidateStruct(&windowRequest{})
		if !apperr.Is(err, apperr.KindValidationFailed) {
			t.Fatalf("expected VALIDATION_FAILED, got %v", err)
		}
	})
}
