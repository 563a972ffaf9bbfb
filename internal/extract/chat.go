package extract

import (
	"context"
	"encoding/json"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"vigia/internal/config"
	"vigia/internal/constants"
	"vigia/internal/logger"
	errs "vigia/pkg/errors"
	"vigia/pkg/metrics"
)

const (
	defaultModel       = "gpt-4.1"
	defaultTemperature = 1.0
)

// ChatExtractor asks a chat completion endpoint for the structured form of a
// report, constrained by the fixed response schema. One bounded call per
// message, no retries.
type ChatExtractor struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	log         logger.Logger
}

func NewChatExtractor(openaiCfg config.OpenAIConfig, cfg config.ExtractionConfig, log logger.Logger) *ChatExtractor {
	clientCfg := openai.DefaultConfig(openaiCfg.APIKey)
	if openaiCfg.BaseURL != "" {
		clientCfg.BaseURL = openaiCfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultCapabilityTimeout
	}

	return &ChatExtractor{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: temperature,
		timeout:     timeout,
		log:         log,
	}
}

func (e *ChatExtractor) Extract(ctx context.Context, text string) Result {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: e.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemMessage},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: schemaJSON,
			},
		},
	})
	if err != nil {
		kind := errs.Kind(err)
		metrics.ExtractionRequestsTotal.WithLabelValues("error").Inc()
		e.log.WarnwCtx(ctx, "extraction failed",
			"kind", kind,
			"error", err)
		return attachContract(Result{OK: false, Error: kind, Message: err.Error()})
	}

	parsed := parseContent(resp)
	if parsed == nil {
		// The endpoint answered but produced nothing usable. The raw
		// response is kept so the record stays debuggable.
		raw, _ := json.Marshal(resp)
		metrics.ExtractionRequestsTotal.WithLabelValues("empty").Inc()
		e.log.WarnwCtx(ctx, "extraction returned no structure")
		return attachContract(Result{OK: false, Response: raw})
	}

	metrics.ExtractionRequestsTotal.WithLabelValues("success").Inc()
	return attachContract(Result{OK: true, Result: parsed})
}

func parseContent(resp openai.ChatCompletionResponse) map[string]interface{} {
	if len(resp.Choices) == 0 {
		return nil
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return nil
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil
	}
	return parsed
}
