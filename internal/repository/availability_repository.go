package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pulsefit/studio-scheduler-api/internal/models"
)

// AvailabilityRepository reads teacher leave ranges and blackout dates from
// the external availability manager.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ListTimeOff returns leave ranges overlapping [from, to).
func (r *AvailabilityRepository) ListTimeOff(ctx context.Context, from, to time.Time) ([]models.TeacherTimeOff, error) {
	const query = `SELECT teacher_name, start_date, end_date, COALESCE(reason, '') AS reason
	FROM teacher_time_off
	WHERE start_date < $2 AND end_date >= $1
	ORDER BY teacher_name, start_date`

	var items []models.TeacherTimeOff
	if err := r.db.SelectContext(ctx, &items, query, from, to); err != nil {
		return nil, fmt.Errorf("list time off: %w", err)
	}
	return items, nil
}

// ListBlackouts returns individual blackout dates inside [from, to).
func (r *AvailabilityRepository) ListBlackouts(ctx context.Context, from, to time.Time) ([]models.TeacherBlackout, error) {
	const query = `SELECT teacher_name, date
	FROM teacher_blackout_dates
	WHERE date >= $1 AND date < $2
	ORDER BY teacher_name, date`

	var items []models.TeacherBlackout
	if err := r.db.SelectContext(ctx, &items, query, from, to); err != nil {
		return nil, fmt.Errorf("list blackout dates: %w", err)
	}
	return items, nil
}
