package application

import (
	"errors"
	"strings"
)

// Sentinel errors returned by SessionService. Driving adapters map them to
// user-facing messages or HTTP statuses with errors.Is.
var (
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrInvalidCredential = errors.New("invalid API key")
	ErrInvalidTransition = errors.New("action not allowed in the current session state")
	ErrTopicNotFound     = errors.New("topic not found")
	ErrIdeaNotFound      = errors.New("idea not found")
	ErrGeneration        = errors.New("generation failed")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError is returned when user input is rejected before any
// provider or store call is made.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// Has reports whether field was among the rejected fields.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
