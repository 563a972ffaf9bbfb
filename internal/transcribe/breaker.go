package transcribe

import (
	"context"
	"errors"

	"vigia/pkg/circuitbreaker"
	errs "vigia/pkg/errors"
)

// errAttemptFailed signals a failed Result to the breaker so repeated
// capability failures trip it open.
var errAttemptFailed = errors.New("transcription attempt failed")

// Breakered wraps a Transcriber with a circuit breaker. While the circuit is
// open, calls short-circuit into a CircuitOpen result without touching the
// upstream endpoint.
type Breakered struct {
	next Transcriber
	cb   *circuitbreaker.Wrapper
}

func NewBreakered(next Transcriber, cb *circuitbreaker.Wrapper) *Breakered {
	return &Breakered{next: next, cb: cb}
}

func (b *Breakered) Transcribe(ctx context.Context, audio []byte, mimeType string) Result {
	v, err := b.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		res := b.next.Transcribe(ctx, audio, mimeType)
		if !res.OK {
			return res, errAttemptFailed
		}
		return res, nil
	})

	if res, ok := v.(Result); ok {
		return res
	}
	if err == nil {
		err = errAttemptFailed
	}
	return Result{OK: false, Error: errs.Kind(err), Message: err.Error()}
}
