package dto

import (
	"github.com/noah-isme/korepetycje-admin/internal/models"
	"github.com/noah-isme/korepetycje-admin/internal/viewmodel"
)

// TutorRow is one line of the tutors table.
type TutorRow struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Subjects     []string `json:"subjects"`
	Levels       []string `json:"levels"`
	Students     int      `json:"students"`
	MonthlyHours float64  `json:"monthly_hours"`
	Active       bool     `json:"active"`
	Status       string   `json:"status"`
}

// TutorList is one page of the filtered tutors table.
type TutorList struct {
	Rows       []TutorRow         `json:"rows"`
	Pagination *models.Pagination `json:"-"`
	TotalPages int                `json:"total_pages"`
	Subjects   []string           `json:"subject_options"`
	Levels     []string           `json:"level_options"`
	Filter     models.TutorFilter `json:"-"`
}

// TutorDetail is the tutor detail page payload.
type TutorDetail struct {
	Tutor    models.Tutor                `json:"tutor"`
	Row      TutorRow                    `json:"summary"`
	Students []viewmodel.TutorStudentRow `json:"students"`
}

// BulkOutcome is the result of a bulk tutor action. File is set for exports.
type BulkOutcome struct {
	Result  models.BulkResult `json:"result"`
	Message string            `json:"message"`
	File    *FileExport       `json:"-"`
}
