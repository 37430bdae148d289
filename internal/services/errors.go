package services

// Typed service errors, mapped to wire status centrally in the handlers
// package.

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

// NotOwnedError marks records that exist but belong to another user. It is
// kept distinct in-process for logging/tests, but the HTTP layer collapses it
// into the same 404 NOT_FOUND as NotFoundError so that callers cannot probe
// for other users' record IDs.
type NotOwnedError struct{ Message string }

func (e *NotOwnedError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type RateLimitError struct{ Message string }

func (e *RateLimitError) Error() string { return e.Message }
