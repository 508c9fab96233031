package entity

import "errors"

// Stable error kinds surfaced to extension callers.
var (
	// ErrNotFound means an identity does not resolve. Extension-facing calls
	// turn it into a stub or null value instead of rejecting.
	ErrNotFound = errors.New("not found")

	// ErrUnsupported means the host cannot perform the requested transition.
	// The operation is skipped and the call still succeeds.
	ErrUnsupported = errors.New("unsupported")

	// ErrInvalidArgument rejects malformed creation or update data.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrCurrentUnresolved is returned when the CURRENT sentinel reaches a layer
	// that only accepts concrete identities.
	ErrCurrentUnresolved = errors.New("current sentinel must be resolved by the caller")

	// ErrHostFailure wraps errors returned by the windowing host.
	ErrHostFailure = errors.New("host operation failed")
)

// Error kind names used on the wire.
const (
	KindNotFound        = "not_found"
	KindUnsupported     = "unsupported"
	KindInvalidArgument = "invalid_argument"
	KindHostFailure     = "host_failure"
	KindInternal        = "internal"
)

// ErrorKind classifies err into one of the stable kinds.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnsupported):
		return KindUnsupported
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrCurrentUnresolved):
		return KindInvalidArgument
	case errors.Is(err, ErrHostFailure):
		return KindHostFailure
	default:
		return KindInternal
	}
}
