package apperrors

import "errors"

// Standard application errors
var (
	// ErrInvalidInput is returned when the input provided by the client is invalid.
	ErrInvalidInput = errors.New("invalid input provided")

	// ErrTransportFailure is returned when a remote endpoint answers with a non-2xx status
	// or the request cannot be delivered at all.
	ErrTransportFailure = errors.New("transport failure")

	// ErrQueryFailure is returned when a remote endpoint reports a structured error in its payload.
	ErrQueryFailure = errors.New("query failure")

	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("operation timed out")

	// ErrInvalidRegistry is returned when registry data fails to decode or validate.
	ErrInvalidRegistry = errors.New("invalid registry data")

	// ErrInternal is returned for unexpected internal system errors.
	ErrInternal = errors.New("internal system error")
)
