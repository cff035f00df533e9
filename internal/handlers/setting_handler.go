package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "caishen/internal/errors"
	"caishen/internal/services"
)

// SettingHandler handles runtime settings requests.
type SettingHandler struct {
	settingService services.SettingServicer
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(settingService services.SettingServicer) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// WebhookRequest represents the webhook configuration payload.
type WebhookRequest struct {
	WebhookURL string `json:"webhook_url"`
}

// SetWebhook handles storing the daily report webhook destination.
// @Summary     Configure webhook
// @Description Set (or clear, with an empty value) the daily report webhook URL
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body WebhookRequest true "Webhook URL"
// @Success     200 {object} map[string]string "Saved"
// @Failure     400 {object} ErrorResponse "URL not scheme-prefixed"
// @Router      /settings/webhook [post]
func (h *SettingHandler) SetWebhook(c *gin.Context) {
	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	if err := h.settingService.SetWebhookURL(req.WebhookURL); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

// GetWebhook handles reading the configured webhook destination.
// @Summary     Get webhook
// @Description Get the configured daily report webhook URL, empty when unset
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} WebhookRequest "Current webhook URL"
// @Router      /settings/webhook [get]
func (h *SettingHandler) GetWebhook(c *gin.Context) {
	url, err := h.settingService.GetWebhookURL()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, WebhookRequest{WebhookURL: url})
}
