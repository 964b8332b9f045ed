package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func teacherRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "first_name", "last_name", "specialties", "priority_tier",
		"min_hours", "max_hours", "preferred_days", "status",
	})
}

func TestTeacherRepositoryListRoster(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTeacherRepository(db)

	rows := teacherRows().
		AddRow("t-1", "Ana", "Silva", "{Reformer Flow,Barre}", 2, 4.0, 12.0, "{}", "active").
		AddRow("t-2", "Cara", "Diaz", "{Foundations}", 1, 0.0, 8.0, "{Saturday,Sunday}", "new")

	mock.ExpectQuery("(?s)SELECT .+ FROM teachers ORDER BY last_name, first_name").WillReturnRows(rows)

	teachers, err := repo.ListRoster(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 2)
	assert.Equal(t, "Ana Silva", teachers[0].FullName())
	assert.True(t, teachers[0].HasSpecialty("barre"))
	assert.True(t, teachers[1].PrefersDay("Saturday"))
	assert.False(t, teachers[1].PrefersDay("Monday"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListFiltersByStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTeacherRepository(db)

	rows := teacherRows().
		AddRow("t-2", "Cara", "Diaz", "{Foundations}", 1, 0.0, 8.0, "{}", "new")

	mock.ExpectQuery("(?s)SELECT .+ FROM teachers WHERE 1=1 AND status = \\$1").
		WithArgs("new").
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM teachers WHERE 1=1 AND status = \\$1").
		WithArgs("new").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	teachers, total, err := repo.List(context.Background(), "NEW", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, teachers, 1)
	assert.Equal(t, "new", teachers[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
