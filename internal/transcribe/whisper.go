package transcribe

import (
	"bytes"
	"context"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"vigia/internal/config"
	"vigia/internal/constants"
	"vigia/internal/logger"
	errs "vigia/pkg/errors"
	"vigia/pkg/metrics"
)

const defaultModel = openai.Whisper1

// WhisperTranscriber calls the OpenAI audio transcription endpoint. Each call
// is bounded by the configured timeout; there are no retries here, upstream
// redelivery is the retry mechanism.
type WhisperTranscriber struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	log     logger.Logger
}

func NewWhisperTranscriber(openaiCfg config.OpenAIConfig, cfg config.TranscriptionConfig, log logger.Logger) *WhisperTranscriber {
	clientCfg := openai.DefaultConfig(openaiCfg.APIKey)
	if openaiCfg.BaseURL != "" {
		clientCfg.BaseURL = openaiCfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultCapabilityTimeout
	}

	return &WhisperTranscriber{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   model,
		timeout: timeout,
		log:     log,
	}
}

func (t *WhisperTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) Result {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: "audio." + extensionFromMime(mimeType),
		Reader:   bytes.NewReader(audio),
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		kind := errs.Kind(err)
		metrics.TranscriptionRequestsTotal.WithLabelValues("error").Inc()
		t.log.WarnwCtx(ctx, "transcription failed",
			"kind", kind,
			"error", err)
		return Result{OK: false, Error: kind, Message: err.Error()}
	}

	metrics.TranscriptionRequestsTotal.WithLabelValues("success").Inc()
	return Result{OK: true, Text: resp.Text}
}

// extensionFromMime derives a filename extension from a media content type
// such as "audio/ogg; codecs=opus". The transcription endpoint infers the
// container format from the uploaded filename.
func extensionFromMime(mimeType string) string {
	base := strings.TrimSpace(strings.Split(mimeType, ";")[0])
	parts := strings.Split(base, "/")
	ext := parts[len(parts)-1]
	if ext == "" {
		return "bin"
	}
	return ext
}
