package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pulsefit/studio-scheduler-api/internal/models"
)

// PriorityRepository loads the curated priority catalog. The performance
// snapshot columns were copied onto the row at ingestion time.
type PriorityRepository struct {
	db *sqlx.DB
}

// NewPriorityRepository constructs a PriorityRepository.
func NewPriorityRepository(db *sqlx.DB) *PriorityRepository {
	return &PriorityRepository{db: db}
}

type priorityRow struct {
	ClassFormat          string  `db:"class_format"`
	Day                  string  `db:"day"`
	Time                 string  `db:"time"`
	Location             string  `db:"location"`
	TeacherName          string  `db:"teacher_name"`
	PriorityRank         int     `db:"priority_rank"`
	MustInclude          bool    `db:"must_include"`
	Score                float64 `db:"score"`
	AvgAttendance        float64 `db:"avg_attendance"`
	AvgAttendanceNoEmpty float64 `db:"avg_attendance_no_empty"`
	FillRatePct          float64 `db:"fill_rate_pct"`
	RevenuePerClass      float64 `db:"revenue_per_class"`
	TipsPerClass         float64 `db:"tips_per_class"`
	LateCancelRate       float64 `db:"late_cancel_rate"`
}

// ListRanked returns catalog entries ordered by rank descending, stable within
// equal ranks.
func (r *PriorityRepository) ListRanked(ctx context.Context) ([]models.PriorityEntry, error) {
	const query = `SELECT class_format, day, time, location, teacher_name, priority_rank, must_include,
		COALESCE(score, 0) AS score,
		COALESCE(avg_attendance, 0) AS avg_attendance,
		COALESCE(avg_attendance_no_empty, 0) AS avg_attendance_no_empty,
		COALESCE(fill_rate_pct, 0) AS fill_rate_pct,
		COALESCE(revenue_per_class, 0) AS revenue_per_class,
		COALESCE(tips_per_class, 0) AS tips_per_class,
		COALESCE(late_cancel_rate, 0) AS late_cancel_rate
	FROM priority_catalog
	ORDER BY priority_rank DESC, id`

	var rows []priorityRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list priority catalog: %w", err)
	}

	entries := make([]models.PriorityEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.PriorityEntry{
			ClassFormat:  row.ClassFormat,
			Day:          row.Day,
			Time:         row.Time,
			Location:     row.Location,
			TeacherName:  row.TeacherName,
			PriorityRank: row.PriorityRank,
			MustInclude:  row.MustInclude,
			Performance: models.PerformanceRecord{
				ClassFormat:          row.ClassFormat,
				Day:                  row.Day,
				Time:                 row.Time,
				Location:             row.Location,
				TeacherName:          row.TeacherName,
				Score:                row.Score,
				AvgAttendance:        row.AvgAttendance,
				AvgAttendanceNoEmpty: row.AvgAttendanceNoEmpty,
				FillRatePct:          row.FillRatePct,
				RevenuePerClass:      row.RevenuePerClass,
				TipsPerClass:         row.TipsPerClass,
				LateCancelRate:       row.LateCancelRate,
			},
		})
	}
	return entries, nil
}
