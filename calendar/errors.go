package calendar

import (
	"errors"
	"fmt"
)

// Kind categorizes scheduling failures so callers can branch on the class of
// failure instead of parsing message strings.
type Kind string

const (
	// KindValidation marks a slot that violates a booking rule.
	KindValidation Kind = "VALIDATION"
	// KindConflict marks a slot overlapping an existing meeting.
	KindConflict Kind = "CONFLICT"
	// KindBadInput marks unparsable or incomplete request data.
	KindBadInput Kind = "BAD_INPUT"
	// KindStorage marks a durable read/write failure. Unlike the other
	// kinds this signals "system unavailable" rather than "bad request".
	KindStorage Kind = "STORAGE"
)

// Error is a categorized scheduling failure. Message is safe to speak or
// render to the end user; Err carries the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schedule error [%s]: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("schedule error [%s]: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.Err }

// NewError creates an Error with the given kind and user-facing message.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// UserMessage maps a scheduling failure to what the caller should hear.
// Request-class failures surface their own message; storage failures and
// anything unexpected collapse to a generic apology so internals never leak
// into the conversation.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindStorage {
		return e.Message
	}
	return "Failed to schedule meeting: please try again later"
}
