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

type dashboardService interface {
	Summary(ctx context.Context) (*models.DashboardSummary, bool, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

type dashboardVM struct {
	BaseVM
	Load    viewmodel.Load
	Summary *models.DashboardSummary
}

// Page renders the landing page.
func (h *DashboardHandler) Page(c *gin.Context) {
	summary, _, err := h.service.Summary(c.Request.Context())
	vm := dashboardVM{BaseVM: newBaseVM(c, "Pulpit", "dashboard"), Summary: summary}
	count := 0
	if summary != nil {
		count = 1
	}
	vm.Load = viewmodel.NewLoad(count, err, "Nie udało się pobrać podsumowania.")
	response.Page(c, http.StatusOK, "dashboard.html", vm)
}

// Summary godoc
// @Summary Dashboard summary
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	summary, cacheHit, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, dto.DashboardResponse{Summary: *summary, CacheHit: cacheHit}, nil, middleware.ResponseMeta(c))
}
