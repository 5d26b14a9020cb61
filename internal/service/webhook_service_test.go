package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/korepetycje-admin/internal/dto"
	"github.com/noah-isme/korepetycje-admin/internal/models"
	"github.com/noah-isme/korepetycje-admin/internal/repository"
	appErrors "github.com/noah-isme/korepetycje-admin/pkg/errors"
	"github.com/noah-isme/korepetycje-admin/pkg/jobs"
	"github.com/noah-isme/korepetycje-admin/pkg/webhook"
)

type fakeWebhookClient struct {
	enabled       bool
	fail          bool
	bookings      []webhook.Booking
	cancellations []webhook.Cancellation
}

func (f *fakeWebhookClient) Enabled() bool { return f.enabled }

func (f *fakeWebhookClient) SendBooking(_ context.Context, p webhook.Booking) webhook.Result {
	f.bookings = append(f.bookings, p)
	if f.fail {
		return webhook.Result{Success: false, Error: "HTTP error! status: 500"}
	}
	return webhook.Result{Success: true, Message: "ok"}
}

func (f *fakeWebhookClient) SendCancellation(_ context.Context, p webhook.Cancellation) webhook.Result {
	f.cancellations = append(f.cancellations, p)
	if f.fail {
		return webhook.Result{Success: false, Error: "HTTP error! status: 500"}
	}
	return webhook.Result{Success: true, Message: "ok"}
}

type fakeQueue struct {
	jobs []jobs.Job
	err  error
}

func (f *fakeQueue) Enqueue(job jobs.Job) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

var fixedNow = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func newWebhookService(client *fakeWebhookClient, metrics *MetricsService) *WebhookService {
	svc := NewWebhookService(client, metrics, nil, time.UTC)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestWebhookServiceQueuesBooking(t *testing.T) {
	client := &fakeWebhookClient{enabled: true}
	queue := &fakeQueue{}
	svc := newWebhookService(client, nil)
	svc.AttachQueue(queue)

	start := time.Date(2024, 1, 20, 23, 30, 0, 0, time.FixedZone("CET", 3600))
	svc.NotifyBooking(context.Background(), webhook.BookingInput{ReservationID: "r1", Start: start, End: start.Add(time.Hour)})

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, JobTypeBooking, queue.jobs[0].Type)
	booking, ok := queue.jobs[0].Payload.(webhook.Booking)
	require.True(t, ok)
	assert.Equal(t, "2024-01-20", booking.Date)
	assert.Equal(t, webhook.SourceBooking, booking.Source)
	assert.Empty(t, client.bookings)

	require.NoError(t, svc.Handle(context.Background(), queue.jobs[0]))
	assert.Len(t, client.bookings, 1)
}

func TestWebhookServiceDisabledSkips(t *testing.T) {
	client := &fakeWebhookClient{enabled: false}
	queue := &fakeQueue{}
	svc := newWebhookService(client, nil)
	svc.AttachQueue(queue)

	svc.NotifyBooking(context.Background(), webhook.BookingInput{ReservationID: "r1"})
	svc.NotifyCancellation(context.Background(), "r1", "", "")
	assert.Empty(t, queue.jobs)

	result := svc.SendTestBooking(context.Background(), webhook.BookingInput{})
	assert.False(t, result.Success)
	assert.Equal(t, webhook.ErrDisabled.Error(), result.Error)
}

func TestWebhookServiceQueueFullCountsFailure(t *testing.T) {
	metrics := NewMetricsService()
	svc := newWebhookService(&fakeWebhookClient{enabled: true}, metrics)
	svc.AttachQueue(&fakeQueue{err: fmt.Errorf("queue webhooks: %w", jobs.ErrQueueFull)})

	svc.NotifyCancellation(context.Background(), "r1", "", "")
	assert.Equal(t, uint64(1), metrics.Snapshot().WebhooksFailed)
}

func TestWebhookServiceInlineDeliveryWithoutQueue(t *testing.T) {
	client := &fakeWebhookClient{enabled: true}
	metrics := NewMetricsService()
	svc := newWebhookService(client, metrics)

	svc.NotifyCancellation(context.Background(), "r9", "choroba", "")
	require.Len(t, client.cancellations, 1)
	assert.Equal(t, webhook.CancelledByAdmin, client.cancellations[0].CancelledBy)
	assert.Equal(t, webhook.SourceCancellation, client.cancellations[0].Source)
	assert.Equal(t, uint64(1), metrics.Snapshot().WebhooksDelivered)
}

func TestWebhookServiceHandleReportsFailure(t *testing.T) {
	svc := newWebhookService(&fakeWebhookClient{enabled: true, fail: true}, nil)

	err := svc.Handle(context.Background(), jobs.Job{Type: JobTypeBooking, Payload: webhook.Booking{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")

	err = svc.Handle(context.Background(), jobs.Job{Type: "other", Payload: 42})
	assert.Error(t, err)
}

func TestWebhookServiceSendTest(t *testing.T) {
	client := &fakeWebhookClient{enabled: true}
	svc := newWebhookService(client, nil)
	ctx := context.Background()

	_, err := svc.SendTest(ctx, dto.WebhookTestRequest{Kind: "booking"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	result, err := svc.SendTest(ctx, dto.WebhookTestRequest{
		Kind:        "booking",
		StudentName: "Ola Lis",
		Subject:     "Fizyka",
		Level:       "Średni",
		Date:        "2024-03-01",
		StartTime:   "10:00",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, client.bookings, 1)
	sent := client.bookings[0]
	assert.Contains(t, sent.ReservationID, "test-")
	assert.Equal(t, "2024-03-01T10:00:00.000Z", sent.StartTime)
	assert.Equal(t, "2024-03-01T11:00:00.000Z", sent.EndTime)
	assert.Equal(t, "sredni", sent.Level.ID)

	result, err = svc.SendTest(ctx, dto.WebhookTestRequest{Kind: "cancellation", ReservationID: "r1", CancelledBy: "tutor"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, client.cancellations, 1)
	assert.Equal(t, "tutor", client.cancellations[0].CancelledBy)
}

func TestWebhookTestBookingMatchesReservationBooking(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	client := &fakeWebhookClient{enabled: true}
	svc := NewWebhookService(client, nil, nil, cet)
	svc.now = func() time.Time { return fixedNow }

	_, err := svc.SendTest(context.Background(), dto.WebhookTestRequest{
		Kind:        "booking",
		StudentName: "Ola Lis",
		Subject:     "Fizyka",
		Level:       "Średni",
		Date:        "2024-03-01",
		StartTime:   "10:00",
		Duration:    90,
	})
	require.NoError(t, err)
	require.Len(t, client.bookings, 1)
	assert.Equal(t, "2024-03-01T09:00:00.000Z", client.bookings[0].StartTime)
	assert.Equal(t, "2024-03-01T10:30:00.000Z", client.bookings[0].EndTime)

	notifier := &recordingNotifier{}
	reservations := NewReservationService(repository.NewReservationRepository(), notifier, nil, nil, nil, cet)
	_, err = reservations.Create(context.Background(), models.CreateReservationRequest{
		StudentName: "Ola Lis",
		Subject:     "Fizyka",
		Level:       "Średni",
		Date:        "2024-03-01",
		StartTime:   "10:00",
		Duration:    90,
		Location:    "Online",
	})
	require.NoError(t, err)
	require.Len(t, notifier.bookings, 1)
	booked := webhook.NewBooking(notifier.bookings[0], fixedNow)
	assert.Equal(t, client.bookings[0].StartTime, booked.StartTime)
	assert.Equal(t, client.bookings[0].EndTime, booked.EndTime)
	assert.Equal(t, client.bookings[0].Date, booked.Date)
}
