package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/korepetycje-admin/internal/dto"
	"github.com/noah-isme/korepetycje-admin/pkg/response"
	"github.com/noah-isme/korepetycje-admin/pkg/webhook"
)

type webhookTester interface {
	Enabled() bool
	SendTest(ctx context.Context, req dto.WebhookTestRequest) (webhook.Result, error)
}

// WebhookHandler serves the webhook test page.
type WebhookHandler struct {
	webhooks webhookTester
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(webhooks webhookTester) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks}
}

type webhookVM struct {
	BaseVM
	Enabled bool
	Result  *webhook.Result
}

// Page renders the test forms.
func (h *WebhookHandler) Page(c *gin.Context) {
	response.Page(c, http.StatusOK, "webhook_test.html", webhookVM{
		BaseVM:  newBaseVM(c, "Test webhooka", "webhook"),
		Enabled: h.webhooks.Enabled(),
	})
}

// Submit posts a test payload and renders its outcome in place.
func (h *WebhookHandler) Submit(c *gin.Context) {
	var req dto.WebhookTestRequest
	_ = c.ShouldBind(&req)

	result, err := h.webhooks.SendTest(c.Request.Context(), req)
	if err != nil {
		result = webhook.Result{Success: false, Message: userMessage(err)}
	} else if result.Message == "" {
		if result.Success {
			result.Message = "Webhook wysłany pomyślnie"
		} else {
			result.Message = "Wysyłka webhooka nie powiodła się"
		}
	}
	response.Page(c, http.StatusOK, "webhook_test.html", webhookVM{
		BaseVM:  newBaseVM(c, "Test webhooka", "webhook"),
		Enabled: h.webhooks.Enabled(),
		Result:  &result,
	})
}
