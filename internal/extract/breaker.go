package extract

import (
	"context"
	"errors"

	"vigia/pkg/circuitbreaker"
	errs "vigia/pkg/errors"
)

var errAttemptFailed = errors.New("extraction attempt failed")

// Breakered wraps an Extractor with a circuit breaker. An open circuit yields
// a CircuitOpen result without reaching the upstream endpoint.
type Breakered struct {
	next Extractor
	cb   *circuitbreaker.Wrapper
}

func NewBreakered(next Extractor, cb *circuitbreaker.Wrapper) *Breakered {
	return &Breakered{next: next, cb: cb}
}

func (b *Breakered) Extract(ctx context.Context, text string) Result {
	v, err := b.cb.ExecuteWithContext(ctx, func() (interface{}, error) {
		res := b.next.Extract(ctx, text)
		if !res.OK && res.Error != "" {
			// Transport-level failures trip the breaker; an empty
			// payload from a healthy endpoint does not.
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
	return attachContract(Result{OK: false, Error: errs.Kind(err), Message: err.Error()})
}
