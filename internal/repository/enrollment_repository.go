package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/korepetycje-admin/internal/models"
)

// ErrNoActiveSubject is returned when a new enrollment cannot be created
// because no usable subject exists.
var ErrNoActiveSubject = errors.New("no active subject")

const enrollmentSelect = `SELECT id, student_id, subject_id, tutor_id, status, created_at FROM enrollments`

// EnrollmentRepository manages enrollment persistence.
type EnrollmentRepository struct {
	db      *sqlx.DB
	fetcher *RecordFetcher
}

// NewEnrollmentRepository constructs a repository instance.
func NewEnrollmentRepository(db *sqlx.DB, fetcher *RecordFetcher) *EnrollmentRepository {
	return &EnrollmentRepository{db: db, fetcher: fetcher}
}

// ListByStudents returns the enrollments of the given students with subject
// and tutor embedded.
func (r *EnrollmentRepository) ListByStudents(ctx context.Context, studentIDs []string) ([]models.EnrollmentRecord, error) {
	if len(studentIDs) == 0 {
		return nil, nil
	}
	q := Query{
		Label:   "enrollments.by_students",
		Table:   "enrollments",
		Columns: enrollmentColumns,
		Embeds:  []Embed{subjectEmbed(), tutorEmbed()},
		Filters: []Filter{In("student_id", studentIDs)},
		Order:   []Order{Asc("created_at")},
	}
	var records []models.EnrollmentRecord
	if _, err := r.fetcher.Fetch(ctx, q, &records); err != nil {
		return nil, fmt.Errorf("list enrollments by students: %w", err)
	}
	return records, nil
}

// ListAssigned returns every enrollment that has a tutor, with subject
// embedded. Used to derive per-tutor subjects and student counts.
func (r *EnrollmentRepository) ListAssigned(ctx context.Context) ([]models.EnrollmentRecord, error) {
	q := Query{
		Label:   "enrollments.assigned",
		Table:   "enrollments",
		Columns: enrollmentColumns,
		Embeds:  []Embed{subjectEmbed()},
		Filters: []Filter{NotNull("tutor_id")},
	}
	var records []models.EnrollmentRecord
	if _, err := r.fetcher.Fetch(ctx, q, &records); err != nil {
		return nil, fmt.Errorf("list assigned enrollments: %w", err)
	}
	return records, nil
}

// ListByTutor returns the enrollments of one tutor with student and subject
// embedded.
func (r *EnrollmentRepository) ListByTutor(ctx context.Context, tutorID string) ([]models.EnrollmentRecord, error) {
	q := Query{
		Label:   "enrollments.by_tutor",
		Table:   "enrollments",
		Columns: enrollmentColumns,
		Embeds:  []Embed{studentEmbed(), subjectEmbed()},
		Filters: []Filter{Eq("tutor_id", tutorID)},
		Order:   []Order{Asc("created_at")},
	}
	var records []models.EnrollmentRecord
	if _, err := r.fetcher.Fetch(ctx, q, &records); err != nil {
		return nil, fmt.Errorf("list enrollments by tutor: %w", err)
	}
	return records, nil
}

// UpdateTutor sets the tutor of one enrollment and returns the stored row.
// sql.ErrNoRows is returned when the enrollment does not exist.
func (r *EnrollmentRepository) UpdateTutor(ctx context.Context, enrollmentID, tutorID string) (*models.Enrollment, error) {
	const query = `UPDATE enrollments SET tutor_id = $2 WHERE id = $1 RETURNING id, student_id, subject_id, tutor_id, status, created_at`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, enrollmentID, tutorID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update enrollment tutor: %w", err)
	}
	return &enrollment, nil
}

// AssignToStudent assigns a tutor to the student's active enrollment, or
// creates one when the student has none. The student row is locked for the
// duration of the transaction so concurrent assignments for the same
// student serialise and at most one active enrollment is created.
//
// subjectID selects the subject of a created enrollment; when empty, unknown
// or inactive the first active subject by name is used. ErrNoActiveSubject is returned when
// no such subject exists, sql.ErrNoRows when the student does not.
func (r *EnrollmentRepository) AssignToStudent(ctx context.Context, studentID, tutorID, subjectID string) (result *models.AssignmentResult, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin assign tutor: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var locked string
	if err = tx.GetContext(ctx, &locked, `SELECT id FROM students WHERE id = $1 FOR UPDATE`, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("lock student: %w", err)
	}

	var current models.Enrollment
	err = tx.GetContext(ctx, &current, enrollmentSelect+` WHERE student_id = $1 AND status = $2 ORDER BY created_at LIMIT 1`, studentID, models.EnrollmentStatusActive)
	switch {
	case err == nil:
		if _, err = tx.ExecContext(ctx, `UPDATE enrollments SET tutor_id = $2 WHERE id = $1`, current.ID, tutorID); err != nil {
			return nil, fmt.Errorf("update active enrollment: %w", err)
		}
		current.TutorID = &tutorID
		if err = tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit assign tutor: %w", err)
		}
		return &models.AssignmentResult{Enrollment: current}, nil
	case err != sql.ErrNoRows:
		return nil, fmt.Errorf("find active enrollment: %w", err)
	}

	var subject string
	err = sql.ErrNoRows
	if subjectID != "" {
		err = tx.GetContext(ctx, &subject, `SELECT id FROM subjects WHERE id = $1 AND active = TRUE`, subjectID)
	}
	if err == sql.ErrNoRows {
		err = tx.GetContext(ctx, &subject, `SELECT id FROM subjects WHERE active = TRUE ORDER BY name LIMIT 1`)
	}
	if err != nil {
		if err == sql.ErrNoRows {
			err = ErrNoActiveSubject
			return nil, err
		}
		return nil, fmt.Errorf("pick subject: %w", err)
	}

	created := models.Enrollment{
		ID:        uuid.NewString(),
		StudentID: studentID,
		SubjectID: subject,
		TutorID:   &tutorID,
		Status:    models.EnrollmentStatusActive,
		CreatedAt: time.Now().UTC(),
	}
	const insert = `INSERT INTO enrollments (id, student_id, subject_id, tutor_id, status, created_at) VALUES (:id, :student_id, :subject_id, :tutor_id, :status, :created_at)`
	if _, err = tx.NamedExecContext(ctx, insert, &created); err != nil {
		return nil, fmt.Errorf("insert enrollment: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit assign tutor: %w", err)
	}
	return &models.AssignmentResult{Enrollment: created, Created: true}, nil
}
