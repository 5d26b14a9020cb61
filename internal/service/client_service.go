package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/korepetycje-admin/internal/dto"
	"github.com/noah-isme/korepetycje-admin/internal/models"
	"github.com/noah-isme/korepetycje-admin/internal/viewmodel"
	appErrors "github.com/noah-isme/korepetycje-admin/pkg/errors"
)

type parentLinkLister interface {
	ListLinks(ctx context.Context) ([]models.StudentParentRecord, error)
}

type studentEnrollmentLister interface {
	ListByStudents(ctx context.Context, studentIDs []string) ([]models.EnrollmentRecord, error)
}

// ClientService serves the clients page: parents, their students and the
// students' enrollments.
type ClientService struct {
	links       parentLinkLister
	enrollments studentEnrollmentLister
	tutors      tutorOptionLister
	cache       *CacheService
	logger      *zap.Logger
}

// NewClientService constructs a ClientService.
func NewClientService(links parentLinkLister, enrollments studentEnrollmentLister, tutors tutorOptionLister, cache *CacheService, logger *zap.Logger) *ClientService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClientService{links: links, enrollments: enrollments, tutors: tutors, cache: cache, logger: logger}
}

// Roster returns one row per parent, student and enrollment.
func (s *ClientService) Roster(ctx context.Context) (*dto.ClientRoster, error) {
	const key = CacheKeyRoster + "clients"
	var cached dto.ClientRoster
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	links, err := s.links.ListLinks(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list clients")
	}

	seen := make(map[string]struct{}, len(links))
	studentIDs := make([]string, 0, len(links))
	for _, link := range links {
		if link.StudentID == "" {
			continue
		}
		if _, dup := seen[link.StudentID]; dup {
			continue
		}
		seen[link.StudentID] = struct{}{}
		studentIDs = append(studentIDs, link.StudentID)
	}

	enrollments, err := s.enrollments.ListByStudents(ctx, studentIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	tutors, err := s.tutors.ListActiveOptions(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tutors")
	}

	roster := &dto.ClientRoster{Rows: viewmodel.ClientRows(links, enrollments), Tutors: tutors}
	_ = s.cache.Set(ctx, key, roster, 0)
	return roster, nil
}
