// Package extract converts free-text report content into the fixed JSON
// structure used downstream. Like transcription, every attempt produces a
// tagged Result that is persisted as-is.
package extract

import (
	"context"
	"encoding/json"
)

// Result is the outcome of one extraction attempt, stored verbatim as the
// record's "structure" field.
//
// Exactly one of three shapes applies: transport failure carries Error and
// Message; a reachable endpoint that produced no usable payload carries the
// raw Response; success carries Result. Version, SystemMessage and JSONSchema
// are attached to every shape.
type Result struct {
	OK            bool                   `json:"ok"`
	Result        map[string]interface{} `json:"result,omitempty"`
	Error         string                 `json:"error,omitempty"`
	Message       string                 `json:"message,omitempty"`
	Response      json.RawMessage        `json:"response,omitempty"`
	Version       int                    `json:"version"`
	SystemMessage string                 `json:"system_message"`
	JSONSchema    json.RawMessage        `json:"json_schema"`
}

type Extractor interface {
	Extract(ctx context.Context, text string) Result
}

func attachContract(r Result) Result {
	r.Version = Version
	r.SystemMessage = SystemMessage
	r.JSONSchema = fullSchemaJSON
	return r
}
