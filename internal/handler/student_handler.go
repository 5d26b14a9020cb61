package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/korepetycje-admin/internal/dto"
	"github.com/noah-isme/korepetycje-admin/internal/middleware"
	"github.com/noah-isme/korepetycje-admin/internal/models"
	"github.com/noah-isme/korepetycje-admin/internal/viewmodel"
	appErrors "github.com/noah-isme/korepetycje-admin/pkg/errors"
	"github.com/noah-isme/korepetycje-admin/pkg/response"
)

const studentsPath = "/uczniowie"

type studentService interface {
	Roster(ctx context.Context, filter models.StudentFilter) (*dto.StudentRoster, error)
	Row(ctx context.Context, id string) (*viewmodel.StudentRow, error)
	UpdateNotes(ctx context.Context, id string, req models.UpdateStudentNotesRequest) error
}

type assignmentService interface {
	AssignToStudent(ctx context.Context, studentID string, req models.AssignTutorRequest) (*dto.AssignmentOutcome, error)
	AssignToEnrollment(ctx context.Context, enrollmentID string, req models.AssignEnrollmentTutorRequest) (*dto.AssignmentOutcome, error)
}

// StudentHandler exposes the students page and student endpoints.
type StudentHandler struct {
	students    studentService
	assignments assignmentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService, assignments assignmentService) *StudentHandler {
	return &StudentHandler{students: students, assignments: assignments}
}

type studentsVM struct {
	BaseVM
	Load   viewmodel.Load
	Search string
	Roster *dto.StudentRoster
}

func studentFilterFromQuery(c *gin.Context) models.StudentFilter {
	filter := models.StudentFilter{Search: strings.TrimSpace(c.Query("q"))}
	switch c.Query("active") {
	case "true":
		v := true
		filter.Active = &v
	case "false":
		v := false
		filter.Active = &v
	}
	return filter
}

// Page renders the students roster.
func (h *StudentHandler) Page(c *gin.Context) {
	filter := studentFilterFromQuery(c)
	roster, err := h.students.Roster(c.Request.Context(), filter)
	if roster == nil {
		roster = &dto.StudentRoster{}
	}
	response.Page(c, http.StatusOK, "students.html", studentsVM{
		BaseVM: newBaseVM(c, "Uczniowie", "students"),
		Load:   viewmodel.NewLoad(len(roster.Rows), err, "Nie udało się pobrać listy uczniów."),
		Search: filter.Search,
		Roster: roster,
	})
}

// AssignForm assigns a tutor from the roster and redirects back to it.
func (h *StudentHandler) AssignForm(c *gin.Context) {
	var req models.AssignTutorRequest
	_ = c.ShouldBind(&req)

	outcome, err := h.assignments.AssignToStudent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		redirectWithError(c, studentsPath, err)
		return
	}
	redirectWithFlash(c, studentsPath, middleware.FlashSuccess, "Przypisano korepetytora: "+outcome.Cell.TutorName)
}

// NotesForm records a notes edit.
func (h *StudentHandler) NotesForm(c *gin.Context) {
	var req models.UpdateStudentNotesRequest
	_ = c.ShouldBind(&req)

	if err := h.students.UpdateNotes(c.Request.Context(), c.Param("id"), req); err != nil {
		redirectWithError(c, studentsPath, err)
		return
	}
	redirectWithFlash(c, studentsPath, middleware.FlashSuccess, "Zapisano zmiany ucznia")
}

// List godoc
// @Summary List students with their current enrollment
// @Tags Students
// @Produce json
// @Param q query string false "Search by name"
// @Param active query bool false "Filter by active state"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	roster, err := h.students.Roster(c.Request.Context(), studentFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil, middleware.ResponseMeta(c))
}

// Assign godoc
// @Summary Assign a tutor to a student
// @Description Updates the active enrollment or creates one when the student has none
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body models.AssignTutorRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /students/{id}/assign [post]
func (h *StudentHandler) Assign(c *gin.Context) {
	var req models.AssignTutorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	id := c.Param("id")
	current, err := h.students.Row(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	cell := current.Cell
	if err := cell.Begin(req.TutorID); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "wybierz korepetytora"))
		return
	}

	outcome, err := h.assignments.AssignToStudent(c.Request.Context(), id, req)
	if err != nil {
		_ = cell.Fail()
		response.ErrorWithData(c, err, gin.H{"assignment": gin.H{"assignment": cell}})
		return
	}
	_ = cell.Succeed(outcome.Cell.TutorName)
	outcome.Cell = cell

	row, err := h.students.Row(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"assignment": outcome, "row": row}, nil)
}
