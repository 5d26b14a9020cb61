package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/korepetycje-admin/internal/models"
)

const tutorColumns = `id, first_name, last_name, email, phone, rate, bio, active, created_at, updated_at`

// TutorRepository provides database access for tutors.
type TutorRepository struct {
	db *sqlx.DB
}

// NewTutorRepository creates a new instance of TutorRepository.
func NewTutorRepository(db *sqlx.DB) *TutorRepository {
	return &TutorRepository{db: db}
}

// List returns every tutor ordered by last name.
func (r *TutorRepository) List(ctx context.Context) ([]models.Tutor, error) {
	query := fmt.Sprintf(`SELECT %s FROM tutors ORDER BY last_name, first_name`, tutorColumns)
	var tutors []models.Tutor
	if err := r.db.SelectContext(ctx, &tutors, query); err != nil {
		return nil, fmt.Errorf("list tutors: %w", err)
	}
	return tutors, nil
}

// ListActiveOptions returns the active tutors offered in assignment pickers.
func (r *TutorRepository) ListActiveOptions(ctx context.Context) ([]models.TutorOption, error) {
	const query = `SELECT id, first_name, last_name FROM tutors WHERE active = TRUE ORDER BY last_name, first_name`
	var options []models.TutorOption
	if err := r.db.SelectContext(ctx, &options, query); err != nil {
		return nil, fmt.Errorf("list tutor options: %w", err)
	}
	return options, nil
}

// FindByID returns a tutor by identifier.
func (r *TutorRepository) FindByID(ctx context.Context, id string) (*models.Tutor, error) {
	query := fmt.Sprintf(`SELECT %s FROM tutors WHERE id = $1`, tutorColumns)
	var tutor models.Tutor
	if err := r.db.GetContext(ctx, &tutor, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find tutor: %w", err)
	}
	return &tutor, nil
}

// SetActive sets the active flag on exactly the given tutors and reports
// how many rows changed.
func (r *TutorRepository) SetActive(ctx context.Context, ids []string, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	const query = `UPDATE tutors SET active = $1, updated_at = $2 WHERE id = ANY($3)`
	res, err := r.db.ExecContext(ctx, query, active, time.Now().UTC(), pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("set tutors active: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("set tutors active rows: %w", err)
	}
	return affected, nil
}
