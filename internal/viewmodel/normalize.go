// Package viewmodel turns fetched records into display rows and holds the
// request-scoped table state of the dashboard pages. Everything here is a
// pure function of its input.
package viewmodel

import (
	"strings"

	"github.com/noah-isme/korepetycje-admin/internal/models"
	"github.com/noah-isme/korepetycje-admin/internal/relation"
)

// Sentinel is rendered wherever a value is missing.
const Sentinel = "—"

// Display joins the non-blank parts with a space, or returns Sentinel.
func Display(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	if len(kept) == 0 {
		return Sentinel
	}
	return strings.Join(kept, " ")
}

// EnrollmentView is a flattened enrollment.
type EnrollmentView struct {
	ID           string                  `json:"id"`
	StudentID    string                  `json:"student_id"`
	Subject      string                  `json:"subject"`
	SubjectColor string                  `json:"subject_color,omitempty"`
	TutorID      string                  `json:"tutor_id,omitempty"`
	TutorName    string                  `json:"tutor_name"`
	Status       models.EnrollmentStatus `json:"status"`
}

// NormalizeEnrollment flattens an enrollment record. Missing relations
// render as Sentinel.
func NormalizeEnrollment(rec models.EnrollmentRecord) EnrollmentView {
	view := EnrollmentView{
		ID:        rec.ID,
		StudentID: rec.StudentID,
		Subject:   Sentinel,
		TutorName: Sentinel,
		Status:    rec.Status,
	}
	if subject, ok := rec.Subject.Get(); ok {
		view.Subject = Display(subject.Name)
		view.SubjectColor = subject.Color
	}
	if rec.TutorID != nil {
		view.TutorID = *rec.TutorID
	}
	view.TutorName = tutorName(rec.Tutor)
	return view
}

func tutorName(ref relation.One[models.TutorRef]) string {
	tutor, ok := ref.Get()
	if !ok {
		return Sentinel
	}
	return Display(tutor.FirstName, tutor.LastName)
}

// EnrollmentStatusLabel renders an enrollment status in Polish.
func EnrollmentStatusLabel(status models.EnrollmentStatus) string {
	switch status {
	case models.EnrollmentStatusActive:
		return "W trakcie"
	case models.EnrollmentStatusPaused:
		return "Wstrzymane"
	case models.EnrollmentStatusEnded:
		return "Zakończone"
	default:
		return Sentinel
	}
}

// StudentRow is one line of the students page.
type StudentRow struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Active       bool           `json:"active"`
	Notes        string         `json:"notes,omitempty"`
	EnrollmentID string         `json:"enrollment_id,omitempty"`
	Subject      string         `json:"subject"`
	SubjectColor string         `json:"subject_color,omitempty"`
	Status       string         `json:"status"`
	Enrollments  int            `json:"enrollments"`
	Cell         AssignmentCell `json:"assignment"`
}

// StudentRows flattens the roster. The row shows the student's active
// enrollment, falling back to the earliest one.
func StudentRows(records []models.StudentRecord) []StudentRow {
	rows := make([]StudentRow, 0, len(records))
	for _, rec := range records {
		row := StudentRow{
			ID:          rec.ID,
			Name:        Display(rec.FirstName, rec.LastName),
			Active:      rec.Active,
			Subject:     Sentinel,
			Status:      Sentinel,
			Enrollments: len(rec.Enrollments),
			Cell:        NewAssignmentCell("", ""),
		}
		if rec.Notes != nil {
			row.Notes = *rec.Notes
		}
		if current, ok := currentEnrollment(rec.Enrollments); ok {
			view := NormalizeEnrollment(current)
			row.EnrollmentID = view.ID
			row.Subject = view.Subject
			row.SubjectColor = view.SubjectColor
			row.Status = EnrollmentStatusLabel(view.Status)
			row.Cell = NewAssignmentCell(view.TutorID, view.TutorName)
		}
		rows = append(rows, row)
	}
	return rows
}

func currentEnrollment(list relation.Many[models.EnrollmentRecord]) (models.EnrollmentRecord, bool) {
	for _, e := range list {
		if e.Status == models.EnrollmentStatusActive {
			return e, true
		}
	}
	first, ok := list.First().Get()
	return first, ok
}

// ClientRow is one line of the clients page: a parent and student pair
// combined with one of the student's enrollments. Placeholder rows stand in
// for pairs whose student has no enrollment and cannot be assigned. IDs are
// "parentID:enrollmentID", or "parentID:studentID" for placeholders, since
// one enrollment appears once per parent.
type ClientRow struct {
	ID            string         `json:"id"`
	EnrollmentID  string         `json:"enrollment_id,omitempty"`
	StudentID     string         `json:"student_id"`
	StudentName   string         `json:"student_name"`
	ParentID      string         `json:"parent_id"`
	ParentName    string         `json:"parent_name"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	Primary       bool           `json:"is_primary"`
	Relation      string         `json:"relation"`
	PaymentStatus string         `json:"payment_status"`
	Subject       string         `json:"subject"`
	Placeholder   bool           `json:"placeholder"`
	Cell          AssignmentCell `json:"assignment"`
}

// ClientRows joins parent links with the enrollments of their students.
// Links missing either side are skipped.
func ClientRows(links []models.StudentParentRecord, enrollments []models.EnrollmentRecord) []ClientRow {
	byStudent := make(map[string][]EnrollmentView)
	for _, rec := range enrollments {
		if rec.StudentID == "" {
			continue
		}
		byStudent[rec.StudentID] = append(byStudent[rec.StudentID], NormalizeEnrollment(rec))
	}

	var rows []ClientRow
	for _, link := range links {
		parent, okParent := link.Parent.Get()
		student, okStudent := link.Student.Get()
		if !okParent || !okStudent || student.ID == "" {
			continue
		}
		base := ClientRow{
			StudentID:     student.ID,
			StudentName:   Display(student.FirstName, student.LastName),
			ParentID:      parent.ID,
			ParentName:    Display(parent.FirstName, parent.LastName),
			Email:         Display(parent.Email),
			Phone:         Display(parent.Phone),
			Primary:       link.IsPrimary,
			Relation:      RelationLabel(link.Relation),
			PaymentStatus: Sentinel,
		}

		views := byStudent[student.ID]
		if len(views) == 0 {
			row := base
			row.ID = parent.ID + ":" + student.ID
			row.Subject = Sentinel
			row.Placeholder = true
			row.Cell = NewAssignmentCell("", "")
			rows = append(rows, row)
			continue
		}
		for _, view := range views {
			row := base
			row.ID = parent.ID + ":" + view.ID
			row.EnrollmentID = view.ID
			row.Subject = view.Subject
			row.Cell = NewAssignmentCell(view.TutorID, view.TutorName)
			rows = append(rows, row)
		}
	}
	return rows
}

// RelationLabel renders a parent relation in Polish.
func RelationLabel(r models.ParentRelation) string {
	switch r {
	case models.RelationMother:
		return "Matka"
	case models.RelationFather:
		return "Ojciec"
	case models.RelationGuardian:
		return "Opiekun"
	case models.RelationOther:
		return "Inne"
	default:
		return Sentinel
	}
}

// TutorStudentRow is one student on the tutor detail page.
type TutorStudentRow struct {
	EnrollmentID string `json:"enrollment_id"`
	StudentID    string `json:"student_id"`
	Name         string `json:"name"`
	Subject      string `json:"subject"`
	Status       string `json:"status"`
}

// TutorStudentRows flattens the enrollments of one tutor.
func TutorStudentRows(records []models.EnrollmentRecord) []TutorStudentRow {
	rows := make([]TutorStudentRow, 0, len(records))
	for _, rec := range records {
		row := TutorStudentRow{
			EnrollmentID: rec.ID,
			StudentID:    rec.StudentID,
			Name:         Sentinel,
			Subject:      Sentinel,
			Status:       EnrollmentStatusLabel(rec.Status),
		}
		if student, ok := rec.Student.Get(); ok {
			row.Name = Display(student.FirstName, student.LastName)
		}
		if subject, ok := rec.Subject.Get(); ok {
			row.Subject = Display(subject.Name)
		}
		rows = append(rows, row)
	}
	return rows
}
