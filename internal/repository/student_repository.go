package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/korepetycje-admin/internal/models"
)

// StudentRepository provides read access to students.
type StudentRepository struct {
	db      *sqlx.DB
	fetcher *RecordFetcher
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB, fetcher *RecordFetcher) *StudentRepository {
	return &StudentRepository{db: db, fetcher: fetcher}
}

// ListRoster returns students ordered by name with their enrollments, and
// each enrollment's subject and tutor, embedded.
func (r *StudentRepository) ListRoster(ctx context.Context, filter models.StudentFilter) ([]models.StudentRecord, error) {
	q := Query{
		Label:   "students.roster",
		Table:   "students",
		Columns: studentColumns,
		Embeds: []Embed{{
			Alias:       "enrollments",
			Table:       "enrollments",
			Columns:     enrollmentColumns,
			LocalKey:    "id",
			ForeignKey:  "student_id",
			Cardinality: ToMany,
			Order:       []Order{Asc("created_at")},
			Embeds:      []Embed{subjectEmbed(), tutorEmbed()},
		}},
		Order: []Order{Asc("last_name"), Asc("first_name")},
	}
	if filter.ID != "" {
		q.Filters = append(q.Filters, Eq("id", filter.ID))
	}
	if filter.Search != "" {
		q.Filters = append(q.Filters, Search(filter.Search, "first_name", "last_name"))
	}
	if filter.Active != nil {
		q.Filters = append(q.Filters, Eq("active", *filter.Active))
	}

	var records []models.StudentRecord
	if _, err := r.fetcher.Fetch(ctx, q, &records); err != nil {
		return nil, fmt.Errorf("list student roster: %w", err)
	}
	return records, nil
}

// FindByID returns a student by identifier.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, first_name, last_name, active, notes, created_at FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}
