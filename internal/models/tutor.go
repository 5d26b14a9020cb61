package models

import "time"

// Tutor is a contracted tutor offering lessons.
type Tutor struct {
	ID        string    `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Rate      *float64  `db:"rate" json:"rate,omitempty"`
	Bio       *string   `db:"bio" json:"bio,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TutorRef is the embedded projection of a tutor.
type TutorRef struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// TutorOption is an entry of the tutor picker.
type TutorOption struct {
	ID        string `db:"id" json:"id"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}

// TutorFilter captures the query-string filters of the tutor list.
// Monthly hours bounds are inclusive; nil means unbounded.
type TutorFilter struct {
	Search   string   `form:"q"`
	Subject  string   `form:"subject"`
	Level    string   `form:"level"`
	Status   string   `form:"status" validate:"omitempty,oneof=active inactive"`
	MinHours *float64 `form:"min_hours" validate:"omitempty,gte=0"`
	MaxHours *float64 `form:"max_hours" validate:"omitempty,gte=0"`
	SortBy   string   `form:"sort" validate:"omitempty,oneof=name subjects students hours status"`
	Order    string   `form:"order" validate:"omitempty,oneof=asc desc"`
	Page     int      `form:"page" validate:"omitempty,gte=1"`
	PageSize int      `form:"page_size" validate:"omitempty,gte=1,lte=100"`
}

// BulkAction is an operation applied to a selection of tutors.
type BulkAction string

const (
	BulkActivate   BulkAction = "activate"
	BulkDeactivate BulkAction = "deactivate"
	BulkExport     BulkAction = "export"
	BulkMessage    BulkAction = "message"
)

// BulkTutorRequest applies Action to the tutors in IDs. When All is set the
// action targets every tutor matching the filter instead.
type BulkTutorRequest struct {
	Action  BulkAction  `json:"action" form:"action" validate:"required,oneof=activate deactivate export message"`
	IDs     []string    `json:"ids" form:"ids" validate:"dive,required"`
	All     bool        `json:"all" form:"all"`
	Message string      `json:"message" form:"message" validate:"max=2000"`
	Filter  TutorFilter `json:"-" form:"-"`
}

// BulkResult reports the outcome of a bulk action.
type BulkResult struct {
	Action   BulkAction `json:"action"`
	Affected int        `json:"affected"`
}
