package ports

import (
	"errors"
	"fmt"
)

// ErrNotInterested is returned by an EventSink that does not care about an
// event right now. Callers swallow it and continue.
var ErrNotInterested = errors.New("event sink not interested")

// ErrSessionNotFound is returned when a session handle cannot be resolved
// by the service.
var ErrSessionNotFound = errors.New("session not found")

// ServiceError wraps a transport or internal failure of the lesson
// service. It is fatal to the current practice session; the engine never
// retries it.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("lesson service: %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError wraps err with the failing operation name.
func NewServiceError(op string, err error) *ServiceError {
	return &ServiceError{Op: op, Err: err}
}
