package gather

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"vigia/internal/logger"
	errs "vigia/pkg/errors"
)

// Handler serves the aggregated view over HTTP.
type Handler struct {
	aggregator *Aggregator
	log        logger.Logger
}

func NewHandler(aggregator *Aggregator, log logger.Logger) *Handler {
	return &Handler{aggregator: aggregator, log: log}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/results", h.GetResults)
}

// GetResults streams the projected rows as a single JSON document. Rows are
// written as they are produced, so a large store never materializes in
// memory. The status is committed together with the first row: a scan that
// fails before emitting anything returns 503, while a failure later in the
// stream can only truncate the body.
func (h *Handler) GetResults(c *gin.Context) {
	ctx := c.Request.Context()
	w := c.Writer

	wrote := false
	err := h.aggregator.Scan(ctx, func(row Row) error {
		data, err := json.Marshal(row)
		if err != nil {
			return err
		}
		if !wrote {
			c.Header("Content-Type", "application/json")
			c.Status(http.StatusOK)
			if _, err := w.Write([]byte(`{"results":[`)); err != nil {
				return err
			}
			wrote = true
		} else if _, err := w.Write([]byte(",")); err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})
	if err != nil {
		h.log.ErrorwCtx(ctx, "aggregation scan failed", "error", err)
		if !wrote {
			appErr := errs.ErrServiceUnavailable.WithCause(err)
			c.JSON(errs.ToHTTPStatus(appErr), errs.ToErrorResponse(appErr))
		}
		return
	}

	if !wrote {
		c.Header("Content-Type", "application/json")
		c.Status(http.StatusOK)
		if _, err := w.Write([]byte(`{"results":[`)); err != nil {
			return
		}
	}
	w.Write([]byte(`]}`))
}
