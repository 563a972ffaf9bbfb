package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigia/internal/logger"
	errs "vigia/pkg/errors"
)

type stubPublisher struct {
	published [][]byte
	err       error
}

func (p *stubPublisher) Publish(ctx context.Context, deliveryID string, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, payload)
	return nil
}

type stubProcessor struct {
	envelopes []*Envelope
	err       error
}

func (p *stubProcessor) ProcessEnvelope(ctx context.Context, envelope *Envelope) error {
	if p.err != nil {
		return p.err
	}
	p.envelopes = append(p.envelopes, envelope)
	return nil
}

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h.RegisterRoutes(router)
	return router
}

func TestVerifyEchoesChallenge(t *testing.T) {
	h := NewHandler("dev-verify-token", nil, &stubProcessor{}, logger.NopLogger())
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=dev-verify-token&hub.challenge=1158201444", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1158201444", w.Body.String())
}

func TestVerifyRejectsBadToken(t *testing.T) {
	h := NewHandler("dev-verify-token", nil, &stubProcessor{}, logger.NopLogger())
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=1158201444", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestVerifyRejectsMissingChallenge(t *testing.T) {
	h := NewHandler("dev-verify-token", nil, &stubProcessor{}, logger.NopLogger())
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=dev-verify-token", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReceiveProcessesInline(t *testing.T) {
	processor := &stubProcessor{}
	h := NewHandler("dev-verify-token", nil, processor, logger.NopLogger())
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(inboundEnvelope))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, processor.envelopes, 1)
	assert.Len(t, processor.envelopes[0].Entry, 1)
	assert.Contains(t, w.Body.String(), `"status":"processed"`)
}

func TestReceivePublishesWhenBrokerConfigured(t *testing.T) {
	publisher := &stubPublisher{}
	processor := &stubProcessor{}
	h := NewHandler("dev-verify-token", publisher, processor, logger.NopLogger())
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(inboundEnvelope))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"accepted"`)
	require.Len(t, publisher.published, 1)
	assert.JSONEq(t, inboundEnvelope, string(publisher.published[0]))
	assert.Empty(t, processor.envelopes, "broker mode must not process inline")
}

func TestReceiveRejectsMalformedBody(t *testing.T) {
	h := NewHandler("dev-verify-token", nil, &stubProcessor{}, logger.NopLogger())
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReceiveSurfacesProcessingFailure(t *testing.T) {
	processor := &stubProcessor{err: errs.ErrServiceUnavailable.WithCause(assert.AnError)}
	h := NewHandler("dev-verify-token", nil, processor, logger.NopLogger())
	router := newTestRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(inboundEnvelope))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
