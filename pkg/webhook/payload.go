package webhook

import "time"

// Source tags understood by the automation workflow.
const (
	SourceBooking      = "calendar_booking"
	SourceCancellation = "calendar_cancellation"
)

// Booking statuses.
const (
	StatusConfirmed = "confirmed"
	StatusPending   = "pending"
	StatusCancelled = "cancelled"
)

// TimeLayout renders instants in UTC with millisecond precision, the shape
// the automation workflow parses.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Parties that may cancel a reservation.
const (
	CancelledByStudent = "student"
	CancelledByTutor   = "tutor"
	CancelledByAdmin   = "admin"
)

type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

type Level struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Booking is the payload posted when a reservation is made.
type Booking struct {
	ReservationID string  `json:"reservationId"`
	StudentName   string  `json:"studentName"`
	ParentName    string  `json:"parentName"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Subject       Subject `json:"subject"`
	Level         Level   `json:"level"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Date          string  `json:"date"`
	Note          string  `json:"note,omitempty"`
	Status        string  `json:"status"`
	Timestamp     string  `json:"timestamp"`
	Source        string  `json:"source"`
}

// Cancellation is the payload posted when a reservation is cancelled.
type Cancellation struct {
	ReservationID string `json:"reservationId"`
	Status        string `json:"status"`
	Reason        string `json:"reason,omitempty"`
	CancelledBy   string `json:"cancelledBy"`
	Timestamp     string `json:"timestamp"`
	Source        string `json:"source"`
}

// BookingInput carries the caller supplied part of a booking payload.
type BookingInput struct {
	ReservationID string
	StudentName   string
	ParentName    string
	Email         string
	Phone         string
	Subject       Subject
	Level         Level
	Start         time.Time
	End           time.Time
	Note          string
	Status        string
}

// NewBooking fills in derived fields. The date is the UTC calendar day of
// the start time and status defaults to confirmed.
func NewBooking(in BookingInput, now time.Time) Booking {
	status := in.Status
	if status == "" {
		status = StatusConfirmed
	}
	start := in.Start.UTC()
	return Booking{
		ReservationID: in.ReservationID,
		StudentName:   in.StudentName,
		ParentName:    in.ParentName,
		Email:         in.Email,
		Phone:         in.Phone,
		Subject:       in.Subject,
		Level:         in.Level,
		StartTime:     start.Format(TimeLayout),
		EndTime:       in.End.UTC().Format(TimeLayout),
		Date:          start.Format("2006-01-02"),
		Note:          in.Note,
		Status:        status,
		Timestamp:     now.UTC().Format(TimeLayout),
		Source:        SourceBooking,
	}
}

// NewCancellation builds a cancellation payload.
func NewCancellation(reservationID, reason, cancelledBy string, now time.Time) Cancellation {
	return Cancellation{
		ReservationID: reservationID,
		Status:        StatusCancelled,
		Reason:        reason,
		CancelledBy:   cancelledBy,
		Timestamp:     now.UTC().Format(TimeLayout),
		Source:        SourceCancellation,
	}
}
