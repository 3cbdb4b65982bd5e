package models

import "fmt"

// The error kinds every core operation can return. Handlers map these to
// HTTP status codes; nothing below is ever retried by the core itself.

// ValidationError means the caller sent malformed or missing input
type ValidationError struct {
	Field   string // which field was bad
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NotFoundError means a referenced entity does not exist
type NotFoundError struct {
	Resource string // "course", "question", "response", "task"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError means a transition violated the review state machine.
// A retrying caller should treat this as "already applied" and re-fetch.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// AuthorizationError means the actor's role or membership does not permit
// the operation
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}
