package models

import (
	"time"

	"github.com/noah-isme/korepetycje-admin/internal/relation"
)

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusActive EnrollmentStatus = "active"
	EnrollmentStatusPaused EnrollmentStatus = "paused"
	EnrollmentStatusEnded  EnrollmentStatus = "ended"
)

// Enrollment binds a student to a subject and, once assigned, a tutor.
type Enrollment struct {
	ID        string           `db:"id" json:"id"`
	StudentID string           `db:"student_id" json:"student_id"`
	SubjectID string           `db:"subject_id" json:"subject_id"`
	TutorID   *string          `db:"tutor_id" json:"tutor_id"`
	Status    EnrollmentStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// EnrollmentRecord is an enrollment with its related rows embedded.
type EnrollmentRecord struct {
	ID        string                   `json:"id"`
	StudentID string                   `json:"student_id"`
	SubjectID string                   `json:"subject_id"`
	TutorID   *string                  `json:"tutor_id"`
	Status    EnrollmentStatus         `json:"status"`
	Subject   relation.One[SubjectRef] `json:"subjects"`
	Tutor     relation.One[TutorRef]   `json:"tutors"`
	Student   relation.One[StudentRef] `json:"students"`
}

// AssignTutorRequest assigns a tutor to a student. SubjectID selects the
// subject of a newly created enrollment and is ignored when the student
// already has an active one.
type AssignTutorRequest struct {
	TutorID   string `json:"tutor_id" form:"tutor_id" validate:"required"`
	SubjectID string `json:"subject_id" form:"subject_id"`
}

// AssignEnrollmentTutorRequest sets the tutor of one enrollment.
type AssignEnrollmentTutorRequest struct {
	TutorID string `json:"tutor_id" form:"tutor_id" validate:"required"`
}

// AssignmentResult describes the write performed by an assignment.
type AssignmentResult struct {
	Enrollment Enrollment `json:"enrollment"`
	Created    bool       `json:"created"`
}
