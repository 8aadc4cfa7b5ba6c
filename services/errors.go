package services

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the caller's credential is missing or invalid.
var ErrUnauthorized = errors.New("unauthorized")

// Match steps, used to label dependency failures.
const (
	StepAnnounce = "announce search"
	StepLookup   = "find candidate"
	StepCreate   = "create match"
	StepClear    = "clear search flags"
)

// DependencyError reports a failed storage round trip. Retrying RequestMatch is safe.
type DependencyError struct {
	Step string
	Err  error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }

// Details is the caller-safe description of the failure.
func (e *DependencyError) Details() string {
	switch {
	case errors.Is(e.Err, ErrProfileNotFound):
		return "profile not found"
	case errors.Is(e.Err, ErrMatchExists):
		return "this pair has already been matched"
	}
	return "failed to " + e.Step
}

// InternalError wraps an unclassified fault. Its cause is logged, never returned to callers.
type InternalError struct {
	Err error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %v", e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }
