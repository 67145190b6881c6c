package llm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies LLM call failures.
type ErrorKind string

const (
	// KindUnconfigured means no credential is configured for the provider.
	KindUnconfigured ErrorKind = "unconfigured"
	// KindHTTPStatus means the provider returned a non-2xx response.
	KindHTTPStatus ErrorKind = "http_status"
	// KindTransport means the request failed at the network level.
	KindTransport ErrorKind = "transport"
	// KindMalformedResponse means a 2xx body did not have the expected shape.
	KindMalformedResponse ErrorKind = "malformed_response"
)

// Error is a typed LLM call failure. It is a result value, not a panic
// path: callers branch on Kind to decide user-facing behavior.
type Error struct {
	Kind    ErrorKind
	Message string
	Status  int // set for KindHTTPStatus
}

func (e *Error) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("llm %s: status %d: %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("llm %s: %s", e.Kind, e.Message)
}

// KindOf extracts the ErrorKind from an error chain, if present.
func KindOf(err error) (ErrorKind, bool) {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind, true
	}
	return "", false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	got, ok := KindOf(err)
	return ok && got == kind
}
