package errors

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDetail_DoesNotMutateReceiver(t *testing.T) {
	err := ErrServiceUnavailable.WithDetail("status", 502)

	assert.Equal(t, 502, err.Details["status"])
	assert.Empty(t, ErrServiceUnavailable.Details)

	response := ToErrorResponse(ErrServiceUnavailable)
	assert.NotContains(t, response, "details")
}

func TestWithDetail_ChainAccumulates(t *testing.T) {
	err := ErrServiceUnavailable.
		WithDetail("status", 502).
		WithDetail("attempt", 3)

	assert.Equal(t, 502, err.Details["status"])
	assert.Equal(t, 3, err.Details["attempt"])
	assert.Empty(t, ErrServiceUnavailable.Details)
}

func TestWithDetail_ConcurrentOnSharedSentinel(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(status int) {
			defer wg.Done()
			err := ErrServiceUnavailable.WithDetail("status", status)
			assert.Equal(t, status, err.Details["status"])
		}(500 + i)
	}
	wg.Wait()

	assert.Empty(t, ErrServiceUnavailable.Details)
}

func TestRecoverPanic_DoesNotPolluteInternalSentinel(t *testing.T) {
	err := RecoverPanic("boom")
	require.Error(t, err)

	appErr, ok := err.(*Error)
	require.True(t, ok)
	assert.Equal(t, true, appErr.Details["panic"])
	assert.NotEmpty(t, appErr.Details["stack_trace"])

	assert.Empty(t, ErrInternal.Details)
}

func TestToHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, ToHTTPStatus(ErrServiceUnavailable))
	assert.Equal(t, http.StatusBadRequest, ToHTTPStatus(ErrValidation.WithCause(assert.AnError)))
	assert.Equal(t, http.StatusInternalServerError, ToHTTPStatus(assert.AnError))
}
