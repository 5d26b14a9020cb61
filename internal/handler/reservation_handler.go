package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/korepetycje-admin/internal/dto"
	"github.com/noah-isme/korepetycje-admin/internal/middleware"
	"github.com/noah-isme/korepetycje-admin/internal/models"
	"github.com/noah-isme/korepetycje-admin/internal/service"
	"github.com/noah-isme/korepetycje-admin/internal/viewmodel"
	appErrors "github.com/noah-isme/korepetycje-admin/pkg/errors"
	"github.com/noah-isme/korepetycje-admin/pkg/response"
)

const reservationsPath = "/rezerwacje"

var reservationStatuses = []string{
	string(models.ReservationConfirmed),
	string(models.ReservationScheduled),
	string(models.ReservationInProgress),
	string(models.ReservationCompleted),
	string(models.ReservationCancelled),
}

type reservationService interface {
	List(ctx context.Context, filter service.ReservationFilter) ([]models.Reservation, models.ReservationStats, error)
	Create(ctx context.Context, req models.CreateReservationRequest) (*models.Reservation, error)
	Cancel(ctx context.Context, id string, req models.CancelReservationRequest) (*models.Reservation, error)
}

// ReservationHandler exposes the reservations page and endpoints.
type ReservationHandler struct {
	reservations reservationService
}

// NewReservationHandler constructs ReservationHandler.
func NewReservationHandler(reservations reservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

type reservationsVM struct {
	BaseVM
	Load     viewmodel.Load
	List     dto.ReservationList
	Search   string
	Status   string
	Statuses []string
	Levels   []string
}

func reservationFilter(c *gin.Context) service.ReservationFilter {
	return service.ReservationFilter{Status: c.Query("status"), Search: c.Query("q")}
}

// Page renders the reservation list with its statistics and booking form.
func (h *ReservationHandler) Page(c *gin.Context) {
	filter := reservationFilter(c)
	items, stats, err := h.reservations.List(c.Request.Context(), filter)
	response.Page(c, http.StatusOK, "reservations.html", reservationsVM{
		BaseVM:   newBaseVM(c, "Rezerwacje", "reservations"),
		Load:     viewmodel.NewLoad(len(items), err, "Nie udało się pobrać rezerwacji."),
		List:     dto.ReservationList{Items: items, Stats: stats},
		Search:   filter.Search,
		Status:   filter.Status,
		Statuses: reservationStatuses,
		Levels:   service.TutorLevels,
	})
}

// CreateForm books a lesson from the reservations page.
func (h *ReservationHandler) CreateForm(c *gin.Context) {
	var req models.CreateReservationRequest
	_ = c.ShouldBind(&req)

	created, err := h.reservations.Create(c.Request.Context(), req)
	if err != nil {
		redirectWithError(c, reservationsPath, err)
		return
	}
	redirectWithFlash(c, reservationsPath, middleware.FlashSuccess, fmt.Sprintf("Dodano rezerwację: %s, %s %s", created.StudentName, created.Date, created.Time))
}

// CancelForm cancels a lesson from the reservations page.
func (h *ReservationHandler) CancelForm(c *gin.Context) {
	var req models.CancelReservationRequest
	_ = c.ShouldBind(&req)

	if _, err := h.reservations.Cancel(c.Request.Context(), c.Param("id"), req); err != nil {
		redirectWithError(c, reservationsPath, err)
		return
	}
	redirectWithFlash(c, reservationsPath, middleware.FlashSuccess, "Rezerwacja została anulowana")
}

// List godoc
// @Summary List reservations
// @Tags Reservations
// @Produce json
// @Param status query string false "Reservation status label"
// @Param q query string false "Search student, tutor or subject"
// @Success 200 {object} response.Envelope
// @Router /reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	items, stats, err := h.reservations.List(c.Request.Context(), reservationFilter(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.ReservationList{Items: items, Stats: stats}, nil)
}

// Create godoc
// @Summary Book a lesson
// @Tags Reservations
// @Accept json
// @Produce json
// @Param payload body models.CreateReservationRequest true "Reservation"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	created, err := h.reservations.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Cancel godoc
// @Summary Cancel a lesson
// @Tags Reservations
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param payload body models.CancelReservationRequest false "Cancellation"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reservations/{id}/cancel [post]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	var req models.CancelReservationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
			return
		}
	}
	cancelled, err := h.reservations.Cancel(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cancelled, nil)
}
