package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrBusy               = errors.New("a reading is already being submitted")
	ErrNoImage            = errors.New("no image selected")
	ErrInference          = errors.New("inference failed")
	// ErrSendInFlight is a validation error: the chat already waits for a reply.
	ErrSendInFlight = fmt.Errorf("%w: a message is already being sent", ErrValidation)
)

// ValidationError names the request fields that were missing or invalid.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	msg := ErrValidation.Error() + ": " + strings.Join(e.Fields, ", ")
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) HasField(name string) bool {
	for _, f := range e.Fields {
		if strings.EqualFold(f, name) {
			return true
		}
	}
	return false
}

// InferenceError is a failed call to the generation service.
type InferenceError struct {
	Reason string
	Err    error
}

func (e *InferenceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrInference, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %v", ErrInference, e.Reason, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

func (e *InferenceError) Is(target error) bool {
	return target == ErrInference
}
