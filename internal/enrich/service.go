// Package enrich runs the per-message enrichment pipeline: identity
// normalization, media fetch, transcription, structured extraction and
// idempotent persistence.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"vigia/internal/extract"
	"vigia/internal/ident"
	"vigia/internal/logger"
	"vigia/internal/outkey"
	"vigia/internal/store"
	"vigia/internal/transcribe"
	"vigia/internal/webhook"
	errs "vigia/pkg/errors"
	"vigia/pkg/logging"
	"vigia/pkg/metrics"
)

// Service orchestrates enrichment for every message in a delivery. Messages
// are handled sequentially in payload order; each one is persisted under its
// deterministic output key no matter which enrichment steps succeeded.
type Service struct {
	media       MediaFetcher
	transcriber transcribe.Transcriber
	extractor   extract.Extractor
	objects     store.ObjectStore
	log         logger.Logger
}

func NewService(
	media MediaFetcher,
	transcriber transcribe.Transcriber,
	extractor extract.Extractor,
	objects store.ObjectStore,
	log logger.Logger,
) *Service {
	return &Service{
		media:       media,
		transcriber: transcriber,
		extractor:   extractor,
		objects:     objects,
		log:         log,
	}
}

// ProcessEnvelope implements webhook.Processor. The only error that escapes
// is a persistence failure; everything else degrades into tagged fields on
// the stored record.
func (s *Service) ProcessEnvelope(ctx context.Context, envelope *webhook.Envelope) error {
	return envelope.Walk(func(msg *webhook.Message, meta webhook.Metadata) error {
		return s.processMessage(ctx, msg, meta.PhoneNumberID)
	})
}

func (s *Service) processMessage(ctx context.Context, msg *webhook.Message, phoneNumberID string) error {
	start := time.Now()
	ctx = logging.WithMessageID(ctx, msg.ID)

	tracer := otel.Tracer("vigia-enrich")
	ctx, span := tracer.Start(ctx, "enrich.message")
	span.SetAttributes(attribute.String("message.type", msg.Type))
	defer span.End()

	ts, err := strconv.ParseInt(msg.Timestamp, 10, 64)
	if err != nil {
		// A message without a usable timestamp has no output key; it is
		// dropped before any enrichment.
		metrics.MessagesDroppedTotal.WithLabelValues("bad_timestamp").Inc()
		s.log.DebugwCtx(ctx, "dropping message with unparseable timestamp",
			"timestamp", msg.Timestamp)
		return nil
	}

	key := outkey.Build(ts, msg.From, ident.ShortID(msg.ID))

	var enr enrichment
	var text *string
	switch msg.Type {
	case "text":
		if msg.Text != nil {
			text = &msg.Text.Body
		}
	case "audio":
		text = s.enrichAudio(ctx, msg, phoneNumberID, key.Directory, &enr)
	}

	if text != nil {
		res := s.extractor.Extract(ctx, *text)
		enr.structure = &res
	}

	record, err := buildRecord(msg.Raw(), enr)
	if err != nil {
		metrics.MessagesProcessedTotal.WithLabelValues("error").Inc()
		metrics.ObserveEnrichmentDuration(time.Since(start), "error")
		return errs.ErrInternal.WithCause(err)
	}

	if err := s.objects.Put(ctx, key.Object(), record, "application/json"); err != nil {
		metrics.MessagesProcessedTotal.WithLabelValues("error").Inc()
		metrics.ObserveEnrichmentDuration(time.Since(start), "error")
		s.log.ErrorwCtx(ctx, "failed to persist enriched record",
			"key", key.Object(),
			"error", err)
		return errs.ErrServiceUnavailable.WithCause(err)
	}

	metrics.MessagesProcessedTotal.WithLabelValues("success").Inc()
	metrics.ObserveEnrichmentDuration(time.Since(start), "success")
	s.log.InfowCtx(ctx, "message persisted",
		"key", key.Object(),
		"type", msg.Type)
	return nil
}

// enrichment holds the fields added to the delivered message before
// persistence. Absent pointers mean the corresponding step never produced
// anything.
type enrichment struct {
	audioFile     *string
	transcription *transcribe.Result
	structure     *extract.Result
}

// enrichAudio fetches the attachment, stores it content-addressed next to
// the record, and transcribes it. Each step that fails leaves the record
// with whatever enrichment was gathered up to that point.
func (s *Service) enrichAudio(ctx context.Context, msg *webhook.Message, phoneNumberID, dir string, enr *enrichment) *string {
	if msg.Audio == nil || msg.Audio.ID == "" {
		return nil
	}

	media, err := s.media.Fetch(ctx, msg.Audio.ID, phoneNumberID)
	if err != nil {
		s.log.WarnwCtx(ctx, "media fetch failed, persisting without audio",
			"media_id", msg.Audio.ID,
			"error", err)
		return nil
	}

	mime := msg.Audio.MimeType
	if mime == "" {
		mime = media.MimeType
	}

	audioKey := fmt.Sprintf("%s/%s.%s", dir, msg.Audio.ID, mediaExtension(mime))
	if err := s.objects.Put(ctx, audioKey, media.Data, mime); err != nil {
		s.log.WarnwCtx(ctx, "failed to store audio, persisting without it",
			"key", audioKey,
			"error", err)
		return nil
	}

	uri := s.objects.URI(audioKey)
	enr.audioFile = &uri

	res := s.transcriber.Transcribe(ctx, media.Data, mime)
	enr.transcription = &res
	if !res.OK {
		return nil
	}
	return &res.Text
}

// buildRecord merges the enrichment fields into the message exactly as it
// was delivered, so unknown platform fields survive persistence. The
// structure field is always written, null when no text was available.
func buildRecord(raw json.RawMessage, enr enrichment) ([]byte, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode delivered message: %w", err)
	}

	if enr.audioFile != nil {
		fields["audio_file"] = *enr.audioFile
	}
	if enr.transcription != nil {
		fields["transcription"] = enr.transcription
	}
	if enr.structure != nil {
		fields["structure"] = enr.structure
	} else {
		fields["structure"] = nil
	}

	return json.Marshal(fields)
}

// mediaExtension derives the stored audio file extension from the declared
// content type, e.g. "audio/ogg; codecs=opus" -> "ogg".
func mediaExtension(mimeType string) string {
	base := strings.TrimSpace(strings.Split(mimeType, ";")[0])
	parts := strings.Split(base, "/")
	ext := parts[len(parts)-1]
	if ext == "" {
		return "bin"
	}
	return ext
}
