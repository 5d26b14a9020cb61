package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/korepetycje-admin/internal/models"
	appErrors "github.com/noah-isme/korepetycje-admin/pkg/errors"
	"github.com/noah-isme/korepetycje-admin/pkg/webhook"
)

type reservationStore interface {
	List(ctx context.Context) ([]models.Reservation, error)
	Create(ctx context.Context, reservation *models.Reservation) error
	UpdateStatus(ctx context.Context, id string, status models.ReservationStatus, guard func(models.Reservation) error) (*models.Reservation, error)
}

type bookingNotifier interface {
	NotifyBooking(ctx context.Context, in webhook.BookingInput)
	NotifyCancellation(ctx context.Context, reservationID, reason, cancelledBy string)
}

// ReservationFilter narrows the reservation list.
type ReservationFilter struct {
	Status string `form:"status"`
	Search string `form:"q"`
}

// ReservationService manages the reservation catalogue.
type ReservationService struct {
	store     reservationStore
	notifier  bookingNotifier
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	location  *time.Location
}

// NewReservationService constructs a ReservationService. Lesson times are
// interpreted in loc, UTC when nil.
func NewReservationService(store reservationStore, notifier bookingNotifier, cache *CacheService, validate *validator.Validate, logger *zap.Logger, loc *time.Location) *ReservationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReservationService{store: store, notifier: notifier, cache: cache, validator: validate, logger: logger, location: loc}
}

// List returns the reservations matching filter and the statistics of the
// whole catalogue.
func (s *ReservationService) List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, models.ReservationStats, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, models.ReservationStats{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reservations")
	}

	stats := ReservationStatsOf(all)
	status := strings.TrimSpace(filter.Status)
	term := strings.ToLower(strings.TrimSpace(filter.Search))
	if status == "" && term == "" {
		return all, stats, nil
	}

	out := make([]models.Reservation, 0, len(all))
	for _, r := range all {
		if status != "" && string(r.Status) != status {
			continue
		}
		if term != "" && !matchesReservation(r, term) {
			continue
		}
		out = append(out, r)
	}
	return out, stats, nil
}

func matchesReservation(r models.Reservation, term string) bool {
	for _, field := range []string{r.StudentName, r.TutorName, r.Subject} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// ReservationStatsOf counts reservations per status. Revenue sums the price
// of completed and in-progress lessons.
func ReservationStatsOf(list []models.Reservation) models.ReservationStats {
	stats := models.ReservationStats{Total: len(list)}
	for _, r := range list {
		switch r.Status {
		case models.ReservationConfirmed:
			stats.Confirmed++
		case models.ReservationInProgress:
			stats.InProgress++
			stats.Revenue += r.Price
		case models.ReservationCompleted:
			stats.Completed++
			stats.Revenue += r.Price
		case models.ReservationCancelled:
			stats.Cancelled++
		case models.ReservationScheduled:
			stats.Scheduled++
		}
	}
	return stats
}

// Create books a lesson and notifies the automation endpoint.
func (s *ReservationService) Create(ctx context.Context, req models.CreateReservationRequest) (*models.Reservation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "nieprawidłowe dane rezerwacji")
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.StartTime, s.location)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "nieprawidłowa data lub godzina")
	}
	end := start.Add(time.Duration(req.Duration) * time.Minute)

	reservation := &models.Reservation{
		StudentName: strings.TrimSpace(req.StudentName),
		ParentName:  strings.TrimSpace(req.ParentName),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Subject:     req.Subject,
		Level:       req.Level,
		TutorName:   strings.TrimSpace(req.TutorName),
		Date:        req.Date,
		Time:        fmt.Sprintf("%s-%s", start.Format("15:04"), end.Format("15:04")),
		Duration:    req.Duration,
		Status:      models.ReservationScheduled,
		Price:       req.Price,
		Location:    req.Location,
		Notes:       strings.TrimSpace(req.Notes),
	}
	if err := s.store.Create(ctx, reservation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create reservation")
	}
	s.logger.Info("reservation created",
		zap.String("reservation_id", reservation.ID),
		zap.String("student", reservation.StudentName),
		zap.String("subject", reservation.Subject),
		zap.String("date", reservation.Date),
	)
	s.invalidate(ctx)

	if s.notifier != nil {
		s.notifier.NotifyBooking(ctx, webhook.BookingInput{
			ReservationID: reservation.ID,
			StudentName:   reservation.StudentName,
			ParentName:    reservation.ParentName,
			Email:         reservation.Email,
			Phone:         reservation.Phone,
			Subject:       SubjectPayload(reservation.Subject),
			Level:         LevelPayload(reservation.Level),
			Start:         start,
			End:           end,
			Note:          reservation.Notes,
		})
	}
	return reservation, nil
}

// Cancel marks a reservation as cancelled and notifies the automation
// endpoint.
func (s *ReservationService) Cancel(ctx context.Context, id string, req models.CancelReservationRequest) (*models.Reservation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "nieprawidłowe dane anulowania")
	}

	updated, err := s.store.UpdateStatus(ctx, id, models.ReservationCancelled, cancellable)
	if err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel reservation")
	}
	if updated == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "nie znaleziono rezerwacji")
	}
	s.logger.Info("reservation cancelled", zap.String("reservation_id", id), zap.String("cancelled_by", req.CancelledBy))
	s.invalidate(ctx)

	if s.notifier != nil {
		s.notifier.NotifyCancellation(ctx, id, req.Reason, req.CancelledBy)
	}
	return updated, nil
}

func cancellable(current models.Reservation) error {
	switch current.Status {
	case models.ReservationCancelled:
		return appErrors.Clone(appErrors.ErrConflict, "rezerwacja jest już anulowana")
	case models.ReservationCompleted:
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "nie można anulować zakończonej lekcji")
	}
	return nil
}

// HoursByTutor sums the scheduled minutes of non-cancelled lessons per
// tutor name, in hours.
func (s *ReservationService) HoursByTutor(ctx context.Context) (map[string]float64, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reservations")
	}
	hours := make(map[string]float64)
	for _, r := range all {
		if r.Status == models.ReservationCancelled || r.TutorName == "" {
			continue
		}
		hours[r.TutorName] += float64(r.Duration) / 60
	}
	return hours, nil
}

// Stats returns the statistics of the whole catalogue.
func (s *ReservationService) Stats(ctx context.Context) (models.ReservationStats, error) {
	_, stats, err := s.List(ctx, ReservationFilter{})
	return stats, err
}

func (s *ReservationService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Invalidate(ctx, CacheKeyDashboard+"*")
}
