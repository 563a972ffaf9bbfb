package transcribe

import (
	"context"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"

	"vigia/pkg/circuitbreaker"
	errs "vigia/pkg/errors"
)

func testBreaker(name string) *circuitbreaker.Wrapper {
	return circuitbreaker.NewWrapper(circuitbreaker.Config{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
}

func TestBreakeredPassesThroughSuccess(t *testing.T) {
	next := &stubTranscriber{res: Result{OK: true, Text: "hola"}}
	b := NewBreakered(next, testBreaker("transcription-pass"))

	res := b.Transcribe(context.Background(), []byte("voice"), "audio/ogg")

	assert.True(t, res.OK)
	assert.Equal(t, "hola", res.Text)
}

func TestBreakeredPassesThroughFailureResults(t *testing.T) {
	next := &stubTranscriber{res: Result{OK: false, Error: errs.KindTimeout, Message: "deadline"}}
	b := NewBreakered(next, testBreaker("transcription-fail"))

	res := b.Transcribe(context.Background(), []byte("voice"), "audio/ogg")

	assert.False(t, res.OK)
	assert.Equal(t, errs.KindTimeout, res.Error)
	assert.Equal(t, 1, next.calls)
}

func TestBreakeredOpensAfterConsecutiveFailures(t *testing.T) {
	next := &stubTranscriber{res: Result{OK: false, Error: errs.KindConnection, Message: "refused"}}
	b := NewBreakered(next, testBreaker("transcription-open"))

	for i := 0; i < 3; i++ {
		b.Transcribe(context.Background(), []byte("voice"), "audio/ogg")
	}
	assert.Equal(t, 3, next.calls)

	res := b.Transcribe(context.Background(), []byte("voice"), "audio/ogg")

	assert.False(t, res.OK)
	assert.Equal(t, errs.KindCircuitOpen, res.Error)
	assert.Equal(t, 3, next.calls, "open circuit must not reach upstream")
}
