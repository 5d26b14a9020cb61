package dto

import (
	"github.com/noah-isme/korepetycje-admin/internal/models"
	"github.com/noah-isme/korepetycje-admin/internal/viewmodel"
)

// StudentRoster is the students page payload.
type StudentRoster struct {
	Rows     []viewmodel.StudentRow `json:"rows"`
	Tutors   []models.TutorOption   `json:"tutors"`
	Subjects []models.Subject       `json:"subjects"`
}

// ClientRoster is the clients page payload.
type ClientRoster struct {
	Rows   []viewmodel.ClientRow `json:"rows"`
	Tutors []models.TutorOption  `json:"tutors"`
}

// AssignmentOutcome reports a tutor assignment and the resulting state of
// the row's assignment cell.
type AssignmentOutcome struct {
	Enrollment models.Enrollment        `json:"enrollment"`
	Created    bool                     `json:"created"`
	Cell       viewmodel.AssignmentCell `json:"assignment"`
}
