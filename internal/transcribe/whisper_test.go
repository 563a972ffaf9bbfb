package transcribe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vigia/internal/config"
	"vigia/internal/logger"
	errs "vigia/pkg/errors"
)

func newTestWhisper(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *WhisperTranscriber {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewWhisperTranscriber(
		config.OpenAIConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1"},
		config.TranscriptionConfig{Model: "whisper-1", Timeout: timeout},
		logger.NopLogger(),
	)
}

func TestWhisperTranscribeSuccess(t *testing.T) {
	tr := newTestWhisper(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"hay un barco pescando con red"}`))
	}, 5*time.Second)

	res := tr.Transcribe(context.Background(), []byte("ogg-bytes"), "audio/ogg; codecs=opus")

	assert.True(t, res.OK)
	assert.Equal(t, "hay un barco pescando con red", res.Text)
	assert.Empty(t, res.Error)
}

func TestWhisperTranscribeServerError(t *testing.T) {
	tr := newTestWhisper(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"upstream unavailable","type":"server_error"}}`))
	}, 5*time.Second)

	res := tr.Transcribe(context.Background(), []byte("ogg-bytes"), "audio/ogg")

	assert.False(t, res.OK)
	assert.Equal(t, errs.KindHTTP, res.Error)
	assert.NotEmpty(t, res.Message)
	assert.Empty(t, res.Text)
}

func TestWhisperTranscribeTimeout(t *testing.T) {
	tr := newTestWhisper(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"text":"too late"}`))
	}, 20*time.Millisecond)

	res := tr.Transcribe(context.Background(), []byte("ogg-bytes"), "audio/ogg")

	assert.False(t, res.OK)
	assert.Equal(t, errs.KindTimeout, res.Error)
}

func TestExtensionFromMime(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{"audio/ogg; codecs=opus", "ogg"},
		{"audio/mpeg", "mpeg"},
		{"audio/mp4", "mp4"},
		{"", "bin"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extensionFromMime(tt.mime), tt.mime)
	}
}
