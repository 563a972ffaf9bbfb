// Package gather projects every stored enriched record into a flat tabular
// row for analysis.
package gather

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"vigia/internal/constants"
	"vigia/internal/logger"
	"vigia/internal/store"
	"vigia/pkg/metrics"
)

// Row is one projected record. Successful extractions contribute their
// result fields top-level, so the key set varies per row.
type Row map[string]interface{}

// Aggregator scans the object store and projects records into rows. It holds
// no cursor state; every Scan is a fresh pass over the full namespace.
type Aggregator struct {
	objects store.ObjectStore
	log     logger.Logger
}

func NewAggregator(objects store.ObjectStore, log logger.Logger) *Aggregator {
	return &Aggregator{objects: objects, log: log}
}

// Scan walks the store in enumeration order and emits one row per record
// object. Non-record objects (stored media) are skipped by suffix. Records
// that do not decode into an object are logged and skipped; the scan itself
// only fails on storage errors or an emit error.
func (a *Aggregator) Scan(ctx context.Context, emit func(Row) error) error {
	start := time.Now()

	tracer := otel.Tracer("vigia-gather")
	ctx, span := tracer.Start(ctx, "gather.scan")
	defer span.End()

	err := a.objects.List(ctx, func(info store.ObjectInfo) error {
		if !strings.HasSuffix(info.Key, constants.RecordSuffix) {
			return nil
		}

		data, err := a.objects.Get(ctx, info.Key)
		if err != nil {
			return fmt.Errorf("failed to read record %s: %w", info.Key, err)
		}

		var record map[string]interface{}
		if err := json.Unmarshal(data, &record); err != nil {
			a.log.WarnwCtx(ctx, "skipping undecodable record",
				"key", info.Key,
				"error", err)
			return nil
		}

		metrics.GatherRowsTotal.Inc()
		return emit(project(record))
	})

	metrics.ObserveGatherScanDuration(time.Since(start))
	return err
}

// project maps one stored record onto its flat row. The text and audio_file
// columns depend on the message type and on whether transcription succeeded;
// a successful extraction is flattened field by field next to its version.
func project(record map[string]interface{}) Row {
	row := Row{
		"from":      record["from"],
		"timestamp": record["timestamp"],
		"type":      record["type"],
	}

	msgType, _ := record["type"].(string)
	transcription, _ := record["transcription"].(map[string]interface{})
	transcriptionOK, _ := transcription["ok"].(bool)

	switch {
	case msgType == "text":
		row["text"] = textBody(record)
		row["audio_file"] = nil
	case msgType == "audio" && transcriptionOK:
		row["text"] = transcription["text"]
		row["audio_file"] = record["audio_file"]
	default:
		row["text"] = nil
		row["audio_file"] = nil
	}

	structure, _ := record["structure"].(map[string]interface{})
	if ok, _ := structure["ok"].(bool); ok {
		row["version"] = structure["version"]
		if result, ok := structure["result"].(map[string]interface{}); ok {
			for field, value := range result {
				row[field] = value
			}
		}
	} else {
		row["version"] = nil
	}

	return row
}

func textBody(record map[string]interface{}) interface{} {
	if text, ok := record["text"].(map[string]interface{}); ok {
		return text["body"]
	}
	return nil
}
