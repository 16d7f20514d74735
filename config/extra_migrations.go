package config

import (
	"fmt"

	"gorm.io/gorm"
)

// CreateReservationExclusionConstraint makes Postgres reject two active reservations whose
// [start_time, end_time) ranges overlap on the same space. Cancelled, completed and no_show
// rows are outside the predicate so they never block a space.
func CreateReservationExclusionConstraint(db *gorm.DB) error {
	return db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'reservations_no_overlap'
			) THEN
				ALTER TABLE reservations
				ADD CONSTRAINT reservations_no_overlap
				EXCLUDE USING gist (
					space_id WITH =,
					tstzrange(start_time, end_time, '[)') WITH &&
				)
				WHERE (status NOT IN ('cancelled', 'completed', 'no_show'));
			END IF;
		END
		$$;
	`).Error
}

// CreateAvailabilityExclusionConstraint enforces non-overlapping active weekly windows per
// (space, day_of_week). Soft-deleted rows are ignored.
func CreateAvailabilityExclusionConstraint(db *gorm.DB) error {
	return db.Exec(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = 'space_availabilities_no_overlap'
			) THEN
				ALTER TABLE space_availabilities
				ADD CONSTRAINT space_availabilities_no_overlap
				EXCLUDE USING gist (
					space_id WITH =,
					day_of_week WITH =,
					int4range(from_minute, to_minute, '[)') WITH &&
				)
				WHERE (is_available AND deleted_at IS NULL);
			END IF;
		END
		$$;
	`).Error
}

func runExtraMigrations(db *gorm.DB) error {
	steps := []struct {
		name string
		fn   func(*gorm.DB) error
	}{
		{"reservations_no_overlap", CreateReservationExclusionConstraint},
		{"space_availabilities_no_overlap", CreateAvailabilityExclusionConstraint},
	}
	for _, step := range steps {
		if err := step.fn(db); err != nil {
			return fmt.Errorf("extra migration %s: %w", step.name, err)
		}
	}
	return nil
}
