package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/korepetycje-admin/internal/dto"
	"github.com/noah-isme/korepetycje-admin/internal/models"
	"github.com/noah-isme/korepetycje-admin/internal/viewmodel"
	appErrors "github.com/noah-isme/korepetycje-admin/pkg/errors"
)

type studentRoster interface {
	ListRoster(ctx context.Context, filter models.StudentFilter) ([]models.StudentRecord, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type tutorOptionLister interface {
	ListActiveOptions(ctx context.Context) ([]models.TutorOption, error)
}

type subjectLister interface {
	ListActive(ctx context.Context) ([]models.Subject, error)
}

// StudentService serves the students page.
type StudentService struct {
	repo      studentRoster
	tutors    tutorOptionLister
	subjects  subjectLister
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRoster, tutors tutorOptionLister, subjects subjectLister, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, tutors: tutors, subjects: subjects, cache: cache, validator: validate, logger: logger}
}

// Roster returns the student rows together with the tutor and subject
// pickers.
func (s *StudentService) Roster(ctx context.Context, filter models.StudentFilter) (*dto.StudentRoster, error) {
	key := rosterKey("students", filter)
	var cached dto.StudentRoster
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	records, err := s.repo.ListRoster(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	tutors, err := s.tutors.ListActiveOptions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tutors")
	}
	subjects, err := s.subjects.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subjects")
	}

	roster := &dto.StudentRoster{
		Rows:     viewmodel.StudentRows(records),
		Tutors:   tutors,
		Subjects: subjects,
	}
	_ = s.cache.Set(ctx, key, roster, 0)
	return roster, nil
}

// Row re-reads the row of one student, bypassing the cache.
func (s *StudentService) Row(ctx context.Context, id string) (*viewmodel.StudentRow, error) {
	records, err := s.repo.ListRoster(ctx, models.StudentFilter{ID: id})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	rows := viewmodel.StudentRows(records)
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "nie znaleziono ucznia")
	}
	return &rows[0], nil
}

// UpdateNotes records a requested edit of a student's notes. Edits are not
// persisted yet; the request is validated and logged.
func (s *StudentService) UpdateNotes(ctx context.Context, id string, req models.UpdateStudentNotesRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "notatka jest zbyt długa")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "nie znaleziono ucznia")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	fields := []zap.Field{zap.String("student_id", id), zap.Int("notes_length", len(req.Notes))}
	if req.Active != nil {
		fields = append(fields, zap.Bool("active", *req.Active))
	}
	s.logger.Info("student edit requested", fields...)
	return nil
}

func rosterKey(page string, filter models.StudentFilter) string {
	active := "any"
	if filter.Active != nil {
		active = fmt.Sprintf("%t", *filter.Active)
	}
	return fmt.Sprintf("%s%s:%s:%s:%s", CacheKeyRoster, page, filter.ID, strings.ToLower(filter.Search), active)
}
