package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/korepetycje-admin/internal/dto"
	"github.com/noah-isme/korepetycje-admin/internal/middleware"
	"github.com/noah-isme/korepetycje-admin/internal/models"
	"github.com/noah-isme/korepetycje-admin/internal/viewmodel"
	appErrors "github.com/noah-isme/korepetycje-admin/pkg/errors"
	"github.com/noah-isme/korepetycje-admin/pkg/response"
)

const clientsPath = "/klienci"

type clientService interface {
	Roster(ctx context.Context) (*dto.ClientRoster, error)
}

// ClientHandler exposes the clients page.
type ClientHandler struct {
	clients     clientService
	assignments assignmentService
}

// NewClientHandler constructs ClientHandler.
func NewClientHandler(clients clientService, assignments assignmentService) *ClientHandler {
	return &ClientHandler{clients: clients, assignments: assignments}
}

type clientsVM struct {
	BaseVM
	Load   viewmodel.Load
	Roster *dto.ClientRoster
}

// Page renders parent and student pairs with their enrollments.
func (h *ClientHandler) Page(c *gin.Context) {
	roster, err := h.clients.Roster(c.Request.Context())
	if roster == nil {
		roster = &dto.ClientRoster{}
	}
	response.Page(c, http.StatusOK, "clients.html", clientsVM{
		BaseVM: newBaseVM(c, "Klienci", "clients"),
		Load:   viewmodel.NewLoad(len(roster.Rows), err, "Nie udało się pobrać listy klientów."),
		Roster: roster,
	})
}

// AssignForm sets the tutor of one enrollment from the clients page.
func (h *ClientHandler) AssignForm(c *gin.Context) {
	var req models.AssignEnrollmentTutorRequest
	_ = c.ShouldBind(&req)

	outcome, err := h.assignments.AssignToEnrollment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		redirectWithError(c, clientsPath, err)
		return
	}
	redirectWithFlash(c, clientsPath, middleware.FlashSuccess, "Przypisano korepetytora: "+outcome.Cell.TutorName)
}

// List godoc
// @Summary List parents with their students' enrollments
// @Tags Clients
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	roster, err := h.clients.Roster(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster, nil, middleware.ResponseMeta(c))
}

// AssignEnrollment godoc
// @Summary Set the tutor of an enrollment
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param payload body models.AssignEnrollmentTutorRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments/{id}/tutor [put]
func (h *ClientHandler) AssignEnrollment(c *gin.Context) {
	var req models.AssignEnrollmentTutorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	outcome, err := h.assignments.AssignToEnrollment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome, nil)
}
