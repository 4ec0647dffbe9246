// Package apierr defines the error taxonomy surfaced by the wallet client.
// Validation errors never reach the network, authorization errors are absorbed
// by the session layer, and everything else carries a human-readable message.
package apierr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// GenericMessage is shown when a failure carries no usable message of its own.
const GenericMessage = "Something went wrong. Please try again."

// Validation is a local, field-scoped validation failure. It blocks
// submission and is never the result of a network call.
type Validation struct {
	Fields map[string]string
}

// NewValidation builds an empty validation error ready to collect field errors.
func NewValidation() *Validation {
	return &Validation{Fields: make(map[string]string)}
}

// Add records a field-level error, keeping the first message per field.
func (e *Validation) Add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// Empty reports whether no field errors were recorded.
func (e *Validation) Empty() bool {
	return len(e.Fields) == 0
}

func (e *Validation) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unauthorized is a 401 from the server. It is handled centrally by the
// session layer and must not be shown as a dialog error.
type Unauthorized struct{}

func (e *Unauthorized) Error() string {
	return "unauthorized"
}

// Request is a non-401 4xx/5xx response with the server's message, or a
// generic fallback when the body carried none.
type Request struct {
	Status  int
	Message string
}

func (e *Request) Error() string {
	return e.Message
}

// Network is a transport failure where no response was received.
type Network struct {
	Err error
}

func (e *Network) Error() string {
	return GenericMessage
}

func (e *Network) Unwrap() error {
	return e.Err
}

// UserMessage extracts the message a dialog should display for err. Raw error
// objects never reach the UI.
func UserMessage(err error) string {
	var reqErr *Request
	if errors.As(err, &reqErr) && reqErr.Message != "" {
		return reqErr.Message
	}
	var valErr *Validation
	if errors.As(err, &valErr) {
		return valErr.Error()
	}
	return GenericMessage
}
