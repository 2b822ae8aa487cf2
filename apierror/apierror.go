// Package apierror defines the classified error returned by every call that
// crosses the HTTP boundary.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
)

// Kind classifies a failure. Callers branch on Kind, never on transport errors.
type Kind string

const (
	KindNetwork      Kind = "Network"      // No response was received
	KindValidation   Kind = "Validation"   // 400, may carry field errors
	KindUnauthorized Kind = "Unauthorized" // 401
	KindForbidden    Kind = "Forbidden"    // 403
	KindNotFound     Kind = "NotFound"     // 404
	KindServer       Kind = "Server"       // 5xx
	KindGeneric      Kind = "Generic"      // Anything else
)

// Sentinels for errors.Is matching on kind only.
var (
	ErrNetwork      = &Error{Kind: KindNetwork}
	ErrValidation   = &Error{Kind: KindValidation}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrServer       = &Error{Kind: KindServer}
	ErrGeneric      = &Error{Kind: KindGeneric}
)

// Error is the envelope for every classified failure. It is never mutated after construction.
type Error struct {
	Kind        Kind                `json:"kind"`
	Message     string              `json:"message"`
	StatusCode  int                 `json:"statusCode,omitempty"`
	FieldErrors map[string][]string `json:"fieldErrors,omitempty"`
	Body        []byte              `json:"-"`
	cause       error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches another *Error by kind, which makes the package sentinels usable with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Fields returns the names of the fields that failed validation, sorted.
func (e *Error) Fields() []string {
	fields := make([]string, 0, len(e.FieldErrors))
	for f := range e.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// FieldMessage returns the first message recorded for field, or "".
func (e *Error) FieldMessage(field string) string {
	msgs := e.FieldErrors[field]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[0]
}

func NewNetwork(message string, cause error) *Error {
	if message == "" {
		message = "Network error - please check your connection"
	}
	return &Error{Kind: KindNetwork, Message: message, cause: cause}
}

func NewValidation(message string, fieldErrors map[string][]string, body []byte) *Error {
	if message == "" {
		message = "Validation failed"
	}
	return &Error{Kind: KindValidation, Message: message, StatusCode: http.StatusBadRequest, FieldErrors: copyFields(fieldErrors), Body: body}
}

func NewUnauthorized(message string) *Error {
	if message == "" {
		message = "Unauthorized access"
	}
	return &Error{Kind: KindUnauthorized, Message: message, StatusCode: http.StatusUnauthorized}
}

func NewForbidden(message string) *Error {
	if message == "" {
		message = "Access forbidden"
	}
	return &Error{Kind: KindForbidden, Message: message, StatusCode: http.StatusForbidden}
}

func NewNotFound(message string) *Error {
	if message == "" {
		message = "Resource not found"
	}
	return &Error{Kind: KindNotFound, Message: message, StatusCode: http.StatusNotFound}
}

func NewServer(message string, statusCode int) *Error {
	if message == "" {
		message = "Internal server error"
	}
	return &Error{Kind: KindServer, Message: message, StatusCode: statusCode}
}

// New builds a Generic error. cause may be nil.
func New(message string, statusCode int, cause error) *Error {
	if message == "" {
		message = "An error occurred"
	}
	return &Error{Kind: KindGeneric, Message: message, StatusCode: statusCode, cause: cause}
}

// FromStatus maps an HTTP error status onto exactly one Kind.
func FromStatus(statusCode int, message string, fieldErrors map[string][]string, body []byte) *Error {
	var e *Error
	switch {
	case statusCode == http.StatusBadRequest:
		return NewValidation(message, fieldErrors, body)
	case statusCode == http.StatusUnauthorized:
		e = NewUnauthorized(message)
	case statusCode == http.StatusForbidden:
		e = NewForbidden(message)
	case statusCode == http.StatusNotFound:
		e = NewNotFound(message)
	case statusCode >= 500 && statusCode <= 599:
		e = NewServer(message, statusCode)
	default:
		e = New(message, statusCode, nil)
	}
	e.Body = body
	return e
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the classified kind of err. Unclassified errors report Generic, nil reports "".
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindGeneric
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	if e, ok := As(err); ok {
		return e.StatusCode
	}
	return 0
}

// IsKind reports whether err is classified as kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage is the text to show an end user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	e, ok := As(err)
	if !ok {
		return "Something went wrong. Please try again."
	}
	switch e.Kind {
	case KindNetwork:
		return "Unable to reach LankaConnect. Check your internet connection and try again."
	case KindValidation:
		if e.Message != "" {
			return e.Message
		}
		return "Some of the information you entered is invalid."
	case KindUnauthorized:
		return "Your session has expired. Please log in again."
	case KindForbidden:
		return "You do not have permission to do that."
	case KindNotFound:
		return "The item you were looking for could not be found."
	case KindServer:
		return "The server ran into a problem. Please try again later."
	default:
		if e.Message != "" {
			return e.Message
		}
		return "Something went wrong. Please try again."
	}
}

func copyFields(in map[string][]string) map[string][]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string(nil), v...)
	}
	return out
}
