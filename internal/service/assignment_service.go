package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/korepetycje-admin/internal/dto"
	"github.com/noah-isme/korepetycje-admin/internal/models"
	"github.com/noah-isme/korepetycje-admin/internal/repository"
	"github.com/noah-isme/korepetycje-admin/internal/viewmodel"
	appErrors "github.com/noah-isme/korepetycje-admin/pkg/errors"
)

type enrollmentAssigner interface {
	UpdateTutor(ctx context.Context, enrollmentID, tutorID string) (*models.Enrollment, error)
	AssignToStudent(ctx context.Context, studentID, tutorID, subjectID string) (*models.AssignmentResult, error)
}

type tutorFinder interface {
	FindByID(ctx context.Context, id string) (*models.Tutor, error)
}

// AssignmentService writes tutor assignments. Every call is a single write:
// either the whole assignment lands or nothing changes.
type AssignmentService struct {
	enrollments enrollmentAssigner
	tutors      tutorFinder
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService constructs an AssignmentService.
func NewAssignmentService(enrollments enrollmentAssigner, tutors tutorFinder, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{enrollments: enrollments, tutors: tutors, cache: cache, validator: validate, logger: logger}
}

// AssignToEnrollment sets the tutor of one existing enrollment.
func (s *AssignmentService) AssignToEnrollment(ctx context.Context, enrollmentID string, req models.AssignEnrollmentTutorRequest) (*dto.AssignmentOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "wybierz korepetytora")
	}

	tutor, err := s.activeTutor(ctx, req.TutorID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.enrollments.UpdateTutor(ctx, enrollmentID, req.TutorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "nie znaleziono zapisu")
		}
		s.logger.Error("enrollment assignment failed", zap.String("enrollment_id", enrollmentID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "nie udało się przypisać korepetytora")
	}
	cell := viewmodel.NewAssignmentCell(req.TutorID, viewmodel.Display(tutor.FirstName, tutor.LastName))

	s.logger.Info("tutor assigned to enrollment", zap.String("enrollment_id", enrollmentID), zap.String("tutor_id", req.TutorID))
	s.cache.InvalidateRoster(ctx)
	return &dto.AssignmentOutcome{Enrollment: *enrollment, Cell: cell}, nil
}

// AssignToStudent assigns a tutor to the student's active enrollment,
// creating one when the student has none.
func (s *AssignmentService) AssignToStudent(ctx context.Context, studentID string, req models.AssignTutorRequest) (*dto.AssignmentOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "wybierz korepetytora")
	}

	tutor, err := s.activeTutor(ctx, req.TutorID)
	if err != nil {
		return nil, err
	}

	result, err := s.enrollments.AssignToStudent(ctx, studentID, req.TutorID, req.SubjectID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "nie znaleziono ucznia")
		case errors.Is(err, repository.ErrNoActiveSubject):
			return nil, appErrors.ErrNoSubjects
		}
		s.logger.Error("student assignment failed", zap.String("student_id", studentID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "nie udało się przypisać korepetytora")
	}
	cell := viewmodel.NewAssignmentCell(req.TutorID, viewmodel.Display(tutor.FirstName, tutor.LastName))

	s.logger.Info("tutor assigned to student",
		zap.String("student_id", studentID),
		zap.String("tutor_id", req.TutorID),
		zap.String("enrollment_id", result.Enrollment.ID),
		zap.Bool("created", result.Created),
	)
	s.cache.InvalidateRoster(ctx)
	return &dto.AssignmentOutcome{Enrollment: result.Enrollment, Created: result.Created, Cell: cell}, nil
}

func (s *AssignmentService) activeTutor(ctx context.Context, id string) (*models.Tutor, error) {
	tutor, err := s.tutors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "nie znaleziono korepetytora")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tutor")
	}
	if !tutor.Active {
		return nil, appErrors.ErrTutorInactive
	}
	return tutor, nil
}
