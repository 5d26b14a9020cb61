package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/korepetycje-admin/internal/models"
)

// DashboardRepository computes the headline counts in one round trip.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Counts returns student, tutor and enrollment totals.
func (r *DashboardRepository) Counts(ctx context.Context) (*models.DashboardCounts, error) {
	const query = `SELECT
	(SELECT COUNT(*) FROM students) AS students,
	(SELECT COUNT(*) FROM tutors WHERE active = TRUE) AS active_tutors,
	(SELECT COUNT(*) FROM enrollments WHERE status = 'active') AS active_enrollments,
	(SELECT COUNT(*) FROM enrollments WHERE status = 'active' AND tutor_id IS NULL) AS unassigned`
	var counts models.DashboardCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("dashboard counts: %w", err)
	}
	return &counts, nil
}
