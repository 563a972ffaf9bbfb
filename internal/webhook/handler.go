package webhook

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vigia/internal/logger"
	errs "vigia/pkg/errors"
	"vigia/pkg/logging"
	"vigia/pkg/metrics"
)

// Publisher hands an accepted delivery to the broker for asynchronous
// processing.
type Publisher interface {
	Publish(ctx context.Context, deliveryID string, payload []byte) error
}

// Processor runs the enrichment pipeline over one delivery.
type Processor interface {
	ProcessEnvelope(ctx context.Context, envelope *Envelope) error
}

// Handler serves the platform-facing intake endpoints. With a broker
// configured, deliveries are acknowledged as soon as they are published;
// without one, they are processed inline and a non-2xx reply asks the
// platform to redeliver.
type Handler struct {
	verifyToken string
	publisher   Publisher
	processor   Processor
	log         logger.Logger
}

func NewHandler(verifyToken string, publisher Publisher, processor Processor, log logger.Logger) *Handler {
	return &Handler{
		verifyToken: verifyToken,
		publisher:   publisher,
		processor:   processor,
		log:         log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/webhook", h.Verify)
	router.POST("/webhook", h.Receive)
}

// Verify answers the platform's subscription handshake by echoing the raw
// challenge value.
func (h *Handler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != "subscribe" || token != h.verifyToken || challenge == "" {
		h.log.WarnwCtx(c.Request.Context(), "webhook verification rejected", "mode", mode)
		c.String(http.StatusForbidden, "Forbidden")
		return
	}

	c.String(http.StatusOK, challenge)
}

func (h *Handler) Receive(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		metrics.WebhookDeliveriesTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, errs.ToErrorResponse(errs.ErrValidation.WithCause(err)))
		return
	}

	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		metrics.WebhookDeliveriesTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusBadRequest, errs.ToErrorResponse(errs.ErrValidation.WithCause(err)))
		return
	}

	deliveryID := uuid.NewString()
	ctx := logging.WithDeliveryID(c.Request.Context(), deliveryID)

	if h.publisher != nil {
		if err := h.publisher.Publish(ctx, deliveryID, body); err != nil {
			metrics.WebhookDeliveriesTotal.WithLabelValues("error").Inc()
			h.log.ErrorwCtx(ctx, "failed to hand delivery to broker", "error", err)
			c.JSON(errs.ToHTTPStatus(err), errs.ToErrorResponse(err))
			return
		}
		metrics.WebhookDeliveriesTotal.WithLabelValues("accepted").Inc()
		h.log.InfowCtx(ctx, "delivery accepted")
		c.JSON(http.StatusOK, gin.H{"status": "accepted", "delivery_id": deliveryID})
		return
	}

	if err := h.processor.ProcessEnvelope(ctx, &envelope); err != nil {
		metrics.WebhookDeliveriesTotal.WithLabelValues("error").Inc()
		h.log.ErrorwCtx(ctx, "delivery processing failed", "error", err)
		c.JSON(errs.ToHTTPStatus(err), errs.ToErrorResponse(err))
		return
	}

	metrics.WebhookDeliveriesTotal.WithLabelValues("processed").Inc()
	c.JSON(http.StatusOK, gin.H{"status": "processed", "delivery_id": deliveryID})
}
