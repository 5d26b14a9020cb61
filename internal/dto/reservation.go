package dto

import "github.com/noah-isme/korepetycje-admin/internal/models"

// ReservationList is the reservations page payload.
type ReservationList struct {
	Items []models.Reservation    `json:"items"`
	Stats models.ReservationStats `json:"stats"`
}

// WebhookTestRequest is the form of the webhook test page.
type WebhookTestRequest struct {
	Kind          string `form:"kind" validate:"required,oneof=booking cancellation"`
	StudentName   string `form:"student_name" validate:"required_if=Kind booking,max=120"`
	ParentName    string `form:"parent_name" validate:"max=120"`
	Email         string `form:"email" validate:"omitempty,email"`
	Phone         string `form:"phone" validate:"max=40"`
	Subject       string `form:"subject" validate:"required_if=Kind booking"`
	Level         string `form:"level" validate:"required_if=Kind booking"`
	Date          string `form:"date" validate:"required_if=Kind booking"`
	StartTime     string `form:"start_time" validate:"required_if=Kind booking"`
	Duration      int    `form:"duration" validate:"gte=0,lte=240"`
	Note          string `form:"note" validate:"max=500"`
	ReservationID string `form:"reservation_id" validate:"required_if=Kind cancellation"`
	Reason        string `form:"reason" validate:"max=500"`
	CancelledBy   string `form:"cancelled_by" validate:"omitempty,oneof=student tutor admin"`
}
