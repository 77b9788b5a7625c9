package zoom

import "fmt"

// InvalidEventError reports an event that fails validation before any
// network call is made.
type InvalidEventError struct {
	Reason string
}

// Error implements the error interface.
func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("invalid event: %s", e.Reason)
}

// MissingFieldError reports a required event field that is absent. It is
// surfaced before any network call is made.
type MissingFieldError struct {
	Field string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// UnexpectedError wraps any transport failure, non-2xx vendor response or
// malformed payload. The message is deliberately generic: vendor error
// codes are logged at the adapter boundary but never surfaced to callers
// as distinct types.
type UnexpectedError struct {
	Err error
}

// Error implements the error interface.
func (e *UnexpectedError) Error() string {
	return "unexpected error"
}

// Unwrap returns the underlying cause for logging and errors.Is/As.
func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// CreateMeetingError reports a create call whose vendor response lacked the
// required fields, or that failed post-validation.
type CreateMeetingError struct {
	Err error
}

// Error implements the error interface.
func (e *CreateMeetingError) Error() string {
	return "Failed to create meeting"
}

// Unwrap returns the underlying cause, if any.
func (e *CreateMeetingError) Unwrap() error {
	return e.Err
}

// UpdateMeetingError reports any HTTP or vendor-level failure while
// updating a meeting.
type UpdateMeetingError struct {
	Err error
}

// Error implements the error interface.
func (e *UpdateMeetingError) Error() string {
	return "Failed to update meeting"
}

// Unwrap returns the underlying cause, if any.
func (e *UpdateMeetingError) Unwrap() error {
	return e.Err
}

// DeleteMeetingError reports any failure while deleting a meeting. A
// vendor "not found" response is a failure, not a no-op success, even
// though the net effect is the same.
type DeleteMeetingError struct {
	Err error
}

// Error implements the error interface.
func (e *DeleteMeetingError) Error() string {
	return "Failed to delete meeting"
}

// Unwrap returns the underlying cause, if any.
func (e *DeleteMeetingError) Unwrap() error {
	return e.Err
}
