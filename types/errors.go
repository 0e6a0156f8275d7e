package types

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrNotAssignee is returned when a volunteer confirms a task assigned to someone else.
	ErrNotAssignee = errors.New("request is not assigned to this volunteer")
)

// ValidationError reports malformed input. It is shown to the user and never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InvalidTransitionError reports a lifecycle action attempted from the wrong state.
type InvalidTransitionError struct {
	RequestID string
	From      RequestStatus
	Action    string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s request %s in status %q", e.Action, e.RequestID, e.From)
}

// RemoteOperationError wraps a failure of the backing store or another remote service.
type RemoteOperationError struct {
	Op  string
	Err error
}

func (e *RemoteOperationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteOperationError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsInvalidTransition(err error) bool {
	var t *InvalidTransitionError
	return errors.As(err, &t)
}

func IsRemote(err error) bool {
	var r *RemoteOperationError
	return errors.As(err, &r)
}
