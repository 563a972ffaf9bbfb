package errors

import (
	"context"
	"errors"
	"net"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"
)

// Capability failure kinds embedded in persisted records. They are stable
// classifiers, never raw error chains, so stored payloads stay analyzable.
const (
	KindTimeout     = "Timeout"
	KindConnection  = "ConnectionError"
	KindHTTP        = "HTTPError"
	KindDecode      = "DecodeError"
	KindCircuitOpen = "CircuitOpen"
	KindCanceled    = "Canceled"
	KindUnknown     = "Error"
)

// Kind maps an error from an external capability call onto one of the fixed
// kind strings above.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return KindCircuitOpen
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	}

	// Non-2xx replies from the AI provider surface as API errors.
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return KindHTTP
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindConnection
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnection
	}

	// http.Client wraps context deadline errors in *url.Error with a text
	// suffix on some Go versions.
	if strings.Contains(err.Error(), "context deadline exceeded") {
		return KindTimeout
	}

	return KindUnknown
}
