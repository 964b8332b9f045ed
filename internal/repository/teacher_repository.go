package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/pulsefit/studio-scheduler-api/internal/models"
)

// TeacherRepository reads the teacher roster maintained by the external
// roster manager.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

const teacherColumns = `id, first_name, last_name, specialties, priority_tier,
	COALESCE(min_hours, 0) AS min_hours,
	COALESCE(max_hours, 0) AS max_hours,
	preferred_days, status`

// ListRoster returns the full roster, every cohort included; engines apply
// their own cohort rules.
func (r *TeacherRepository) ListRoster(ctx context.Context) ([]models.Teacher, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers ORDER BY last_name, first_name", teacherColumns)
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	return teachers, nil
}

// List returns teachers filtered by status along with the total count.
func (r *TeacherRepository) List(ctx context.Context, status string, page, pageSize int) ([]models.Teacher, int, error) {
	base := "FROM teachers WHERE 1=1"
	var args []interface{}
	if status != "" {
		base += fmt.Sprintf(" AND status = $%d", len(args)+1)
		args = append(args, strings.ToLower(status))
	}

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf("SELECT %s %s ORDER BY last_name, first_name LIMIT %d OFFSET %d", teacherColumns, base, pageSize, offset)
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}

	return teachers, total, nil
}
