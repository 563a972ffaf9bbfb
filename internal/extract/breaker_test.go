package extract

import (
	"context"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"

	"vigia/pkg/circuitbreaker"
	errs "vigia/pkg/errors"
)

type stubExtractor struct {
	res   Result
	calls int
}

func (s *stubExtractor) Extract(ctx context.Context, text string) Result {
	s.calls++
	return s.res
}

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
	next := &stubExtractor{res: attachContract(Result{OK: true, Result: map[string]interface{}{"Certeza": "ALTO"}})}
	b := NewBreakered(next, testBreaker("extraction-pass"))

	res := b.Extract(context.Background(), "informe")

	assert.True(t, res.OK)
	assert.Equal(t, "ALTO", res.Result["Certeza"])
}

func TestBreakeredEmptyPayloadDoesNotTrip(t *testing.T) {
	next := &stubExtractor{res: attachContract(Result{OK: false, Response: []byte(`{}`)})}
	b := NewBreakered(next, testBreaker("extraction-empty"))

	for i := 0; i < 5; i++ {
		res := b.Extract(context.Background(), "informe")
		assert.False(t, res.OK)
		assert.Empty(t, res.Error)
	}
	assert.Equal(t, 5, next.calls)
}

func TestBreakeredOpensAfterTransportFailures(t *testing.T) {
	next := &stubExtractor{res: attachContract(Result{OK: false, Error: errs.KindConnection, Message: "refused"})}
	b := NewBreakered(next, testBreaker("extraction-open"))

	for i := 0; i < 3; i++ {
		b.Extract(context.Background(), "informe")
	}

	res := b.Extract(context.Background(), "informe")

	assert.False(t, res.OK)
	assert.Equal(t, errs.KindCircuitOpen, res.Error)
	assert.Equal(t, 3, next.calls)
	assert.Equal(t, Version, res.Version, "open-circuit results still carry the contract")
}
