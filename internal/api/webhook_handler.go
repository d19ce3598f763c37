package api

import (
	"alcyxob/fitness-program/internal/metrics"
	"alcyxob/fitness-program/internal/service"
	"alcyxob/fitness-program/internal/webhook"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// maxWebhookBodyBytes caps the body read before signature verification.
const maxWebhookBodyBytes = 1 << 20

// EventVerifier authenticates a raw webhook delivery.
type EventVerifier interface {
	Verify(payload []byte, header http.Header) (*webhook.Event, error)
}

// WebhookHandler receives identity-provider user events.
type WebhookHandler struct {
	verifier EventVerifier
	userSync service.UserSyncService
	log      zerolog.Logger
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(verifier EventVerifier, userSync service.UserSyncService, log zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, userSync: userSync, log: log}
}

// HandleClerkWebhook godoc
// @Summary Receive Clerk user events
// @Description Verifies the svix signature over the raw body, then mirrors user.created / user.updated into the user table.
// @Tags Webhooks
// @Accept json
// @Produce plain
// @Success 200 {string} string "Webhook processed"
// @Failure 400 {object} map[string]string "Verification failed"
// @Failure 500 {object} map[string]string "Store failure"
// @Router /api/clerk-users-webhook [post]
func (h *WebhookHandler) HandleClerkWebhook(c *gin.Context) {
	// The signature covers the exact bytes sent, so read them before any decoding.
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		metrics.RecordWebhookEvent("", "rejected")
		abortWithError(c, http.StatusBadRequest, "Failed to read request body")
		return
	}

	event, err := h.verifier.Verify(payload, c.Request.Header)
	if err != nil {
		metrics.RecordWebhookEvent("", "rejected")
		abortWithError(c, http.StatusBadRequest, "Error occurred -- no svix headers or invalid signature")
		return
	}

	outcome, err := h.userSync.HandleEvent(c.Request.Context(), event)
	if err != nil {
		h.log.Error().Err(err).
			Str("request_id", getRequestID(c)).
			Str("type", event.Type).
			Msg("failed to process webhook event")
		metrics.RecordWebhookEvent(event.Type, "failed")
		abortWithError(c, http.StatusInternalServerError, "Error processing webhook")
		return
	}

	metrics.RecordWebhookEvent(event.Type, string(outcome))
	c.String(http.StatusOK, "Webhook processed")
}
