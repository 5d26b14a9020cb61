package models

import (
	"time"

	"github.com/noah-isme/korepetycje-admin/internal/relation"
)

// Student is a learner known to the tutoring business.
type Student struct {
	ID        string    `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Active    bool      `db:"active" json:"active"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StudentRef is the embedded projection of a student.
type StudentRef struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// StudentRecord is a student row with its enrollments embedded.
type StudentRecord struct {
	Student
	Enrollments relation.Many[EnrollmentRecord] `json:"enrollments"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	ID     string
	Search string
	Active *bool
}

// UpdateStudentNotesRequest edits the free-text notes and active flag.
type UpdateStudentNotesRequest struct {
	Notes  string `json:"notes" form:"notes" validate:"max=2000"`
	Active *bool  `json:"active" form:"active"`
}
