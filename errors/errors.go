package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type Code int

const (
	Internal   Code = http.StatusInternalServerError
	NotFound   Code = http.StatusNotFound
	Forbidden  Code = http.StatusForbidden
	Validation Code = http.StatusBadRequest
)

// Kind is a machine readable error classification
type Kind string

const (
	// InvalidField indicates a missing, blank or malformed field path
	InvalidField Kind = "INVALID_FIELD"
	// InvalidSortOrder indicates a sort order other than asc/ascending/desc/descending
	InvalidSortOrder Kind = "INVALID_SORT_ORDER"
	// InvalidJSON indicates a malformed or incomplete request
	InvalidJSON Kind = "INVALID_JSON"
	// DatasetValidation indicates an invalid dataset name or record payload
	DatasetValidation Kind = "DATASET_VALIDATION_ERROR"
	// DatasetNotFound indicates a dataset that does not exist
	DatasetNotFound Kind = "DATASET_NOT_FOUND"
	// RecordNotFound indicates a record that does not exist or was deleted
	RecordNotFound Kind = "RECORD_NOT_FOUND"
	// InternalError indicates an unexpected failure
	InternalError Kind = "INTERNAL_ERROR"
)

// Kinds returns every error kind
func Kinds() []Kind {
	return []Kind{InvalidField, InvalidSortOrder, InvalidJSON, DatasetValidation, DatasetNotFound, RecordNotFound, InternalError}
}

// Error is a custom error
type Error struct {
	Code     Code     `json:"code"`
	Kind     Kind     `json:"kind,omitempty"`
	Messages []string `json:"messages"`
	Details  []string `json:"details,omitempty"`
	Err      error    `json:"err,omitempty"`
}

// Error returns the Error as a json string
func (e *Error) Error() string {
	if e.Code == 0 {
		e.Code = http.StatusOK
	}
	bits, _ := json.Marshal(e)
	return string(bits)
}

// Unwrap returns the wrapped error, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the most recent message or the wrapped error's message
func (e *Error) Message() string {
	if len(e.Messages) > 0 {
		return e.Messages[len(e.Messages)-1]
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

// RemoveError removes the error from the Error and leaves it's messages and code
func (e *Error) RemoveError() *Error {
	return &Error{
		Code:     e.Code,
		Kind:     e.Kind,
		Messages: e.Messages,
		Details:  e.Details,
		Err:      nil,
	}
}

// WithKind sets the kind of the error and returns it
func (e *Error) WithKind(kind Kind) *Error {
	e.Kind = kind
	return e
}

// WithDetails appends details to the error and returns it
func (e *Error) WithDetails(details ...string) *Error {
	e.Details = append(e.Details, details...)
	return e
}

// New creates a new error with the given code and message
func New(code Code, msg string, args ...any) error {
	return &Error{
		Code:     code,
		Messages: []string{fmt.Sprintf(msg, args...)},
	}
}

// NewKind creates a new error with the given code, kind and message
func NewKind(code Code, kind Kind, msg string, args ...any) *Error {
	return &Error{
		Code:     code,
		Kind:     kind,
		Messages: []string{fmt.Sprintf(msg, args...)},
	}
}

// Extract extracts the custom Error from the given error
func Extract(err error) *Error {
	e, ok := err.(*Error)
	if !ok {
		return &Error{
			Code:     0,
			Messages: nil,
			Err:      err,
		}
	}
	return e
}

// KindOf returns the kind of the error or an empty string if it has none
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	return Extract(err).Kind
}

// Is returns true if the error carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Wrap wraps the given error and returns a new one
func Wrap(err error, code Code, msg string, args ...any) error {
	if err == nil {
		return nil
	}
	e, ok := err.(*Error)
	if ok {
		if msg != "" {
			e.Messages = append(e.Messages, fmt.Sprintf(msg, args...))
		}
		if code > 0 {
			e.Code = code
		}
		return e
	}
	e = &Error{
		Code: code,
		Err:  err,
	}
	if code == Internal {
		e.Kind = InternalError
	}
	if msg != "" {
		e.Messages = append(e.Messages, fmt.Sprintf(msg, args...))
	}
	return e
}
