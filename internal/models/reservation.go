package models

// ReservationStatus is the lifecycle label of a reservation.
type ReservationStatus string

const (
	ReservationConfirmed  ReservationStatus = "Potwierdzona"
	ReservationInProgress ReservationStatus = "W trakcie"
	ReservationCompleted  ReservationStatus = "Zakończona"
	ReservationCancelled  ReservationStatus = "Anulowana"
	ReservationScheduled  ReservationStatus = "Zaplanowana"
)

// Reservation is a booked lesson.
type Reservation struct {
	ID          string            `json:"id"`
	StudentName string            `json:"student_name"`
	ParentName  string            `json:"parent_name,omitempty"`
	Email       string            `json:"email,omitempty"`
	Phone       string            `json:"phone,omitempty"`
	Subject     string            `json:"subject"`
	Level       string            `json:"level"`
	TutorName   string            `json:"tutor"`
	Date        string            `json:"date"`
	Time        string            `json:"time"`
	Duration    int               `json:"duration"`
	Status      ReservationStatus `json:"status"`
	Price       float64           `json:"price"`
	Location    string            `json:"location"`
	Notes       string            `json:"notes,omitempty"`
}

// ReservationStats summarises a reservation list. Revenue counts completed
// and in-progress lessons only.
type ReservationStats struct {
	Total      int     `json:"total"`
	Confirmed  int     `json:"confirmed"`
	InProgress int     `json:"in_progress"`
	Completed  int     `json:"completed"`
	Cancelled  int     `json:"cancelled"`
	Scheduled  int     `json:"scheduled"`
	Revenue    float64 `json:"total_revenue"`
}

// CreateReservationRequest books a new lesson.
type CreateReservationRequest struct {
	StudentName string  `json:"student_name" form:"student_name" validate:"required,max=120"`
	ParentName  string  `json:"parent_name" form:"parent_name" validate:"max=120"`
	Email       string  `json:"email" form:"email" validate:"omitempty,email"`
	Phone       string  `json:"phone" form:"phone" validate:"max=40"`
	Subject     string  `json:"subject" form:"subject" validate:"required"`
	Level       string  `json:"level" form:"level" validate:"required"`
	TutorName   string  `json:"tutor" form:"tutor"`
	Date        string  `json:"date" form:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string  `json:"start_time" form:"start_time" validate:"required,datetime=15:04"`
	Duration    int     `json:"duration" form:"duration" validate:"required,min=15,max=240"`
	Price       float64 `json:"price" form:"price" validate:"gte=0"`
	Location    string  `json:"location" form:"location" validate:"required,oneof=Online Stacjonarnie"`
	Notes       string  `json:"notes" form:"notes" validate:"max=500"`
}

// CancelReservationRequest cancels a lesson.
type CancelReservationRequest struct {
	Reason      string `json:"reason" form:"reason" validate:"max=500"`
	CancelledBy string `json:"cancelled_by" form:"cancelled_by" validate:"omitempty,oneof=student tutor admin"`
}
