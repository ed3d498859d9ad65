package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable marks transport-level failures: the server could not be
	// reached or did not answer in time.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized marks 401/403 class responses. The caller either lost
	// its session or bypassed a client-side role gate.
	ErrUnauthorized = errors.New("unauthorized")
)

// ProtocolError reports a success response that omitted a field the contract
// requires (for example a login response without a token). It signals a
// client/server schema mismatch, not a user mistake.
type ProtocolError struct {
	Endpoint string
	Field    string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: response missing %q", e.Endpoint, e.Field)
}

// RequestError reports a failed remote call: either a non-2xx response
// (Status holds the HTTP code) or a transport failure (Status is zero and the
// error wraps ErrUnavailable). Message is always safe to show to the user; it
// is resolved from the server's "message" field, then its "error" field, then
// a per-call fallback string.
type RequestError struct {
	Status  int
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

func (e *RequestError) Unwrap() error { return e.Err }

// UserMessage extracts the displayable message from any error returned by
// this package, falling back to the error text itself.
func UserMessage(err error) string {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Message
	}
	return err.Error()
}
