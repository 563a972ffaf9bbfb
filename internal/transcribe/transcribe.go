// Package transcribe turns fetched voice-note bytes into text. Every attempt
// yields a tagged Result that is persisted verbatim inside the enriched
// record; failures are data, never surfaced as Go errors.
package transcribe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrCacheMiss is returned by TranscriptCache.Get when the key has no entry.
var ErrCacheMiss = errors.New("transcript cache miss")

// Result is the outcome of one transcription attempt.
//
// OK true carries Text. OK false carries Error, one of the fixed failure
// kinds, plus a human-readable Message.
type Result struct {
	OK      bool   `json:"ok"`
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) Result
}

// Digest content-addresses audio bytes for cache keying. Redelivered audio
// hashes to the same digest regardless of media id.
func Digest(audio []byte) string {
	sum := sha256.Sum256(audio)
	return hex.EncodeToString(sum[:])
}
