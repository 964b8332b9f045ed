package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pulsefit/studio-scheduler-api/internal/models"
)

// PerformanceRepository loads historical class performance rows. Rows are
// written by the external ingester; this side only reads.
type PerformanceRepository struct {
	db *sqlx.DB
}

// NewPerformanceRepository constructs a PerformanceRepository.
func NewPerformanceRepository(db *sqlx.DB) *PerformanceRepository {
	return &PerformanceRepository{db: db}
}

// ListAll returns every performance row with numeric fields coerced to zero
// when absent, ordered deterministically.
func (r *PerformanceRepository) ListAll(ctx context.Context) ([]models.PerformanceRecord, error) {
	const query = `SELECT class_format, day, time, location, teacher_name,
		COALESCE(score, 0) AS score,
		COALESCE(avg_attendance, 0) AS avg_attendance,
		COALESCE(avg_attendance_no_empty, 0) AS avg_attendance_no_empty,
		COALESCE(fill_rate_pct, 0) AS fill_rate_pct,
		COALESCE(revenue_per_class, 0) AS revenue_per_class,
		COALESCE(tips_per_class, 0) AS tips_per_class,
		COALESCE(late_cancel_rate, 0) AS late_cancel_rate
	FROM class_performance
	ORDER BY class_format, day, time, location, teacher_name`

	var records []models.PerformanceRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list performance records: %w", err)
	}
	return records, nil
}
