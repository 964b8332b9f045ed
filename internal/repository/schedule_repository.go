package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pulsefit/studio-scheduler-api/internal/models"
)

// ScheduleRepository persists the committed schedule store. The persisted
// layout is an ordered collection of instances keyed by generated id strings;
// every commit replaces the full set.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const instanceColumns = `id, day, time, location, class_format, teacher_first_name, teacher_last_name,
	duration_hours, participants, revenue, is_top_performer, is_private, adjusted_score, avg_attendance, fill_rate`

// ListAll returns the persisted instance set in grid order.
func (r *ScheduleRepository) ListAll(ctx context.Context) ([]models.ScheduledClassInstance, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_instances ORDER BY position", instanceColumns)
	var instances []models.ScheduledClassInstance
	if err := r.db.SelectContext(ctx, &instances, query); err != nil {
		return nil, fmt.Errorf("list schedule instances: %w", err)
	}
	return instances, nil
}

// ReplaceAll swaps the persisted instance set for the provided one inside a
// single transaction. On error nothing is changed.
func (r *ScheduleRepository) ReplaceAll(ctx context.Context, instances []models.ScheduledClassInstance) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace schedule: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM schedule_instances"); err != nil {
		err = fmt.Errorf("clear schedule instances: %w", err)
		return err
	}

	const insert = `INSERT INTO schedule_instances
		(id, day, time, location, class_format, teacher_first_name, teacher_last_name,
		 duration_hours, participants, revenue, is_top_performer, is_private, adjusted_score, avg_attendance, fill_rate, position)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	for idx, inst := range instances {
		if _, err = tx.ExecContext(ctx, insert,
			inst.ID, inst.Day, inst.Time, inst.Location, inst.ClassFormat,
			inst.TeacherFirstName, inst.TeacherLastName, inst.DurationHours,
			inst.Participants, inst.Revenue, inst.IsTopPerformer, inst.IsPrivate,
			inst.AdjustedScore, inst.AvgAttendance, inst.FillRate, idx,
		); err != nil {
			err = fmt.Errorf("insert schedule instance %s: %w", inst.ID, err)
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		err = fmt.Errorf("commit replace schedule: %w", err)
		return err
	}
	return nil
}
