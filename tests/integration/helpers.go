package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"vigia/internal/enrich"
	"vigia/internal/extract"
	"vigia/internal/logger"
	"vigia/internal/transcribe"
	"vigia/internal/webhook"
)

func createTestLogger() logger.Logger {
	return logger.NopLogger()
}

type stubMedia struct {
	data     []byte
	mimeType string
}

func (s *stubMedia) Fetch(ctx context.Context, mediaID, phoneNumberID string) (*enrich.Media, error) {
	return &enrich.Media{Data: s.data, MimeType: s.mimeType}, nil
}

type stubTranscriber struct {
	text  string
	calls int
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) transcribe.Result {
	s.calls++
	return transcribe.Result{OK: true, Text: s.text}
}

type stubExtractor struct {
	fields map[string]interface{}
}

func (s *stubExtractor) Extract(ctx context.Context, text string) extract.Result {
	return extract.Result{OK: true, Result: s.fields}
}

func textEnvelope(messageID, from, timestamp, body string) *webhook.Envelope {
	return envelopeFromJSON(fmt.Sprintf(`{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"metadata": {"display_phone_number": "15550000000", "phone_number_id": "pn-1"},
					"messages": [{
						"id": %q, "from": %q, "timestamp": %q,
						"type": "text", "text": {"body": %q}
					}]
				}
			}]
		}]
	}`, messageID, from, timestamp, body))
}

func audioEnvelope(messageID, from, timestamp, mediaID, mimeType string) *webhook.Envelope {
	return envelopeFromJSON(fmt.Sprintf(`{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "entry-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"metadata": {"display_phone_number": "15550000000", "phone_number_id": "pn-1"},
					"messages": [{
						"id": %q, "from": %q, "timestamp": %q,
						"type": "audio", "audio": {"id": %q, "mime_type": %q, "voice": true}
					}]
				}
			}]
		}]
	}`, messageID, from, timestamp, mediaID, mimeType))
}

func envelopeFromJSON(payload string) *webhook.Envelope {
	var envelope webhook.Envelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		panic(err)
	}
	return &envelope
}

func decodeRecord(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var record map[string]interface{}
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("failed to decode record: %v", err)
	}
	return record
}
