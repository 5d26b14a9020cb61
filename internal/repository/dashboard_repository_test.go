package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardCounts(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM students").
		WillReturnRows(sqlmock.NewRows([]string{"students", "active_tutors", "active_enrollments", "unassigned"}).AddRow(12, 4, 9, 2))

	counts, err := NewDashboardRepository(db).Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, counts.Students)
	assert.Equal(t, 2, counts.Unassigned)
	assert.NoError(t, mock.ExpectationsWereMet())
}
