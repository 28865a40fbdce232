// Package errors provides the tagged domain errors returned by services and stores
// of the Filmarkiv API.
//
// Services return typed errors and never pick HTTP statuses themselves:
//
//	if !id.Valid(id.PrefixMovie, movieID) {
//	    return nil, errors.InvalidID(movieID)
//	}
//
// The API layer matches on the Code:
//
//	var domainErr *errors.Error
//	if errors.As(err, &domainErr) {
//	    switch domainErr.Code {
//	    case errors.CodeInvalidID:
//	        ...
//	    case errors.CodeValidation:
//	        ...
//	    }
//	}
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Is re-exports errors.Is for callers that already import this package.
var Is = errors.Is

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeInvalidID  Code = "INVALID_ID"
	CodeNotFound   Code = "NOT_FOUND"
	CodeValidation Code = "VALIDATION"
	CodeBadRequest Code = "BAD_REQUEST"
)

// FieldError is a single failed constraint on one field of a document.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code         `json:"code"`
	Message string       `json:"message"`
	Value   string       `json:"value,omitempty"` // offending id for INVALID_ID and NOT_FOUND
	Fields  []FieldError `json:"fields,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Value:   e.Value,
		Fields:  e.Fields,
		cause:   err,
	}
}

// InvalidID creates an error for an identifier that is not syntactically valid.
func InvalidID(id string) *Error {
	return &Error{Code: CodeInvalidID, Message: "invalid id " + id, Value: id}
}

// NotFound creates a not found error for a well-formed id with no document.
func NotFound(id string) *Error {
	return &Error{Code: CodeNotFound, Message: "no document with id " + id, Value: id}
}

// Validation creates a validation error aggregating all field errors.
// The message is the field messages joined with ", ".
func Validation(fields []FieldError) *Error {
	msgs := make([]string, len(fields))
	for i, f := range fields {
		msgs[i] = f.Message
	}
	return &Error{Code: CodeValidation, Message: strings.Join(msgs, ", "), Fields: fields}
}

// BadRequest creates an error for a request that could not be decoded.
func BadRequest(msg string) *Error {
	return &Error{Code: CodeBadRequest, Message: msg}
}
