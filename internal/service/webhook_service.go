package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/korepetycje-admin/internal/dto"
	appErrors "github.com/noah-isme/korepetycje-admin/pkg/errors"
	"github.com/noah-isme/korepetycje-admin/pkg/jobs"
	"github.com/noah-isme/korepetycje-admin/pkg/webhook"
)

// Job types dispatched through the webhook queue.
const (
	JobTypeBooking      = "webhook.booking"
	JobTypeCancellation = "webhook.cancellation"
)

type webhookSender interface {
	Enabled() bool
	SendBooking(ctx context.Context, payload webhook.Booking) webhook.Result
	SendCancellation(ctx context.Context, payload webhook.Cancellation) webhook.Result
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// WebhookService notifies the workflow automation endpoint about bookings
// and cancellations. Notifications are fire-and-forget: they are queued and
// their outcome never reaches the caller.
type WebhookService struct {
	client    webhookSender
	queue     jobEnqueuer
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	location  *time.Location
	now       func() time.Time
}

// NewWebhookService constructs a WebhookService. Without a queue
// notifications are delivered inline. Test form times are read in loc, UTC
// when nil, and should match the location reservations are booked in.
func NewWebhookService(client webhookSender, metrics *MetricsService, logger *zap.Logger, loc *time.Location) *WebhookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &WebhookService{client: client, metrics: metrics, validator: validator.New(), logger: logger, location: loc, now: time.Now}
}

// AttachQueue routes notifications through q. The queue's handler should be
// Handle.
func (s *WebhookService) AttachQueue(q jobEnqueuer) {
	s.queue = q
}

// Enabled reports whether an endpoint is configured.
func (s *WebhookService) Enabled() bool {
	return s != nil && s.client != nil && s.client.Enabled()
}

// NotifyBooking queues a booking payload.
func (s *WebhookService) NotifyBooking(ctx context.Context, in webhook.BookingInput) {
	if !s.Enabled() {
		s.logger.Debug("webhook disabled, booking not sent", zap.String("reservation_id", in.ReservationID))
		return
	}
	s.dispatch(ctx, JobTypeBooking, webhook.NewBooking(in, s.now()))
}

// NotifyCancellation queues a cancellation payload.
func (s *WebhookService) NotifyCancellation(ctx context.Context, reservationID, reason, cancelledBy string) {
	if !s.Enabled() {
		s.logger.Debug("webhook disabled, cancellation not sent", zap.String("reservation_id", reservationID))
		return
	}
	if cancelledBy == "" {
		cancelledBy = webhook.CancelledByAdmin
	}
	s.dispatch(ctx, JobTypeCancellation, webhook.NewCancellation(reservationID, reason, cancelledBy, s.now()))
}

func (s *WebhookService) dispatch(ctx context.Context, jobType string, payload interface{}) {
	job := jobs.Job{ID: uuid.NewString(), Type: jobType, Payload: payload, Enqueued: s.now().UTC()}
	if s.queue == nil {
		if err := s.Handle(ctx, job); err != nil {
			s.logger.Warn("webhook delivery failed", zap.String("type", jobType), zap.Error(err))
		}
		return
	}
	if err := s.queue.Enqueue(job); err != nil {
		s.metrics.RecordWebhook(jobType, false)
		if errors.Is(err, jobs.ErrQueueFull) {
			s.logger.Warn("webhook queue full, notification dropped", zap.String("type", jobType))
			return
		}
		s.logger.Error("failed to enqueue webhook", zap.String("type", jobType), zap.Error(err))
	}
}

// Handle delivers one queued notification.
func (s *WebhookService) Handle(ctx context.Context, job jobs.Job) error {
	var result webhook.Result
	switch payload := job.Payload.(type) {
	case webhook.Booking:
		result = s.client.SendBooking(ctx, payload)
	case webhook.Cancellation:
		result = s.client.SendCancellation(ctx, payload)
	default:
		return fmt.Errorf("unsupported webhook payload %T", job.Payload)
	}
	s.metrics.RecordWebhook(job.Type, result.Success)
	if !result.Success {
		return errors.New(result.Error)
	}
	return nil
}

// SendTest validates the webhook test form and posts the chosen payload
// synchronously.
func (s *WebhookService) SendTest(ctx context.Context, req dto.WebhookTestRequest) (webhook.Result, error) {
	if err := s.validator.Struct(req); err != nil {
		return webhook.Result{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "uzupełnij wymagane pola")
	}
	if req.Kind == "cancellation" {
		return s.SendTestCancellation(ctx, req.ReservationID, req.Reason, req.CancelledBy), nil
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.StartTime, s.location)
	if err != nil {
		return webhook.Result{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "nieprawidłowa data lub godzina")
	}
	duration := req.Duration
	if duration == 0 {
		duration = 60
	}
	return s.SendTestBooking(ctx, webhook.BookingInput{
		StudentName: req.StudentName,
		ParentName:  req.ParentName,
		Email:       req.Email,
		Phone:       req.Phone,
		Subject:     SubjectPayload(req.Subject),
		Level:       LevelPayload(req.Level),
		Start:       start,
		End:         start.Add(time.Duration(duration) * time.Minute),
		Note:        req.Note,
	}), nil
}

// SendTestBooking posts a booking synchronously and returns the outcome.
// It backs the webhook test page.
func (s *WebhookService) SendTestBooking(ctx context.Context, in webhook.BookingInput) webhook.Result {
	if !s.Enabled() {
		return webhook.Result{Success: false, Error: webhook.ErrDisabled.Error()}
	}
	if in.ReservationID == "" {
		in.ReservationID = "test-" + uuid.NewString()
	}
	result := s.client.SendBooking(ctx, webhook.NewBooking(in, s.now()))
	s.metrics.RecordWebhook(JobTypeBooking, result.Success)
	return result
}

// SendTestCancellation posts a cancellation synchronously.
func (s *WebhookService) SendTestCancellation(ctx context.Context, reservationID, reason, cancelledBy string) webhook.Result {
	if !s.Enabled() {
		return webhook.Result{Success: false, Error: webhook.ErrDisabled.Error()}
	}
	if cancelledBy == "" {
		cancelledBy = webhook.CancelledByAdmin
	}
	result := s.client.SendCancellation(ctx, webhook.NewCancellation(reservationID, reason, cancelledBy, s.now()))
	s.metrics.RecordWebhook(JobTypeCancellation, result.Success)
	return result
}

// SubjectPayload describes a subject by its display name.
func SubjectPayload(name string) webhook.Subject {
	return webhook.Subject{ID: slug(name), Name: name, Icon: subjectIcons[name]}
}

// LevelPayload describes a level by its display name.
func LevelPayload(name string) webhook.Level {
	return webhook.Level{ID: slug(name), Name: name, Description: levelDescriptions[name]}
}

var subjectIcons = map[string]string{
	"Matematyka":      "📐",
	"Fizyka":          "⚛️",
	"Chemia":          "🧪",
	"Biologia":        "🧬",
	"Język angielski": "🇬🇧",
	"Historia":        "📜",
}

var levelDescriptions = map[string]string{
	"Podstawowy":        "Szkoła podstawowa",
	"Średni":            "Liceum i technikum",
	"Rozszerzony":       "Matura rozszerzona",
	"Szkoła podstawowa": "Klasy 1-8",
	"Liceum":            "Szkoła średnia",
	"Matura":            "Przygotowanie do matury",
	"Studia":            "Poziom akademicki",
}

var slugFold = strings.NewReplacer(
	"ą", "a", "ć", "c", "ę", "e", "ł", "l", "ń", "n", "ó", "o", "ś", "s", "ź", "z", "ż", "z",
	" ", "-",
)

func slug(name string) string {
	return slugFold.Replace(strings.ToLower(strings.TrimSpace(name)))
}
