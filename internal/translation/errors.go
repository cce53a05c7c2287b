package translation

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOperation is matched by UnsupportedOperationError
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrInvalidRequest reports a request rejected before any backend call
	ErrInvalidRequest = errors.New("invalid translation request")
)

// UnsupportedOperationError is returned when a backend is asked for a
// capability it lacks, such as auto-detection on MyMemory.
type UnsupportedOperationError struct {
	Backend   Backend
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s is not supported by the %s backend", e.Operation, e.Backend)
}

func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupportedOperation
}

// BackendError wraps network, HTTP and decoding failures of a backend
type BackendError struct {
	Backend    string
	Message    string
	StatusCode int // HTTP status, 0 when no response was received
	Cause      error
}

func (e *BackendError) Error() string {
	msg := fmt.Sprintf("%s translation error: %s", e.Backend, e.Message)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}

// IsBackendError reports whether err is or wraps a BackendError
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
