package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/korepetycje-admin/internal/dto"
	"github.com/noah-isme/korepetycje-admin/internal/middleware"
	"github.com/noah-isme/korepetycje-admin/internal/models"
	"github.com/noah-isme/korepetycje-admin/internal/viewmodel"
	"github.com/noah-isme/korepetycje-admin/pkg/response"
)

const paymentsPath = "/platnosci"

type paymentService interface {
	List(ctx context.Context, tab string) (*dto.PaymentList, error)
	Action(ctx context.Context, req models.PaymentActionRequest) (*dto.PaymentActionOutcome, error)
	Report(ctx context.Context, tab, format string) (*dto.FileExport, error)
}

// PaymentHandler exposes the payments overview.
type PaymentHandler struct {
	payments paymentService
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(payments paymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type paymentsVM struct {
	BaseVM
	Load viewmodel.Load
	List *dto.PaymentList
}

// Page renders one tab of the payments overview.
func (h *PaymentHandler) Page(c *gin.Context) {
	list, err := h.payments.List(c.Request.Context(), c.Query("tab"))
	if list == nil {
		list = &dto.PaymentList{Tab: "all"}
	}
	response.Page(c, http.StatusOK, "payments.html", paymentsVM{
		BaseVM: newBaseVM(c, "Płatności", "payments"),
		Load:   viewmodel.NewLoad(len(list.Items), err, "Nie udało się pobrać płatności."),
		List:   list,
	})
}

// ActionForm runs a payment action on the checked rows.
func (h *PaymentHandler) ActionForm(c *gin.Context) {
	var req models.PaymentActionRequest
	_ = c.ShouldBind(&req)
	back := paymentsPath
	if tab := c.PostForm("tab"); tab != "" {
		back += "?" + url.Values{"tab": {tab}}.Encode()
	}

	outcome, err := h.payments.Action(c.Request.Context(), req)
	if err != nil {
		redirectWithError(c, back, err)
		return
	}
	redirectWithFlash(c, back, middleware.FlashSuccess, outcome.Message)
}

// ReportFile downloads the payments report of a tab.
func (h *PaymentHandler) ReportFile(c *gin.Context) {
	file, err := h.payments.Report(c.Request.Context(), c.Query("tab"), c.DefaultQuery("format", dto.FormatCSV))
	if err != nil {
		redirectWithError(c, paymentsPath, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// List godoc
// @Summary Payment overview
// @Tags Payments
// @Produce json
// @Param tab query string false "all, paid, pending, overdue or cancelled"
// @Success 200 {object} response.Envelope
// @Router /payments [get]
func (h *PaymentHandler) List(c *gin.Context) {
	list, err := h.payments.List(c.Request.Context(), c.Query("tab"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}
