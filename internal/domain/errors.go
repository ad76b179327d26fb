package domain

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")

	// ErrEmptyMessage is returned when the submitted text is blank.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrRequestInFlight is returned when a reply is still pending.
	ErrRequestInFlight = errors.New("a request is already in flight")

	// ErrConversationReset is returned when the mode changed while a reply
	// was pending; the reply is discarded.
	ErrConversationReset = errors.New("conversation was reset while awaiting reply")
)
