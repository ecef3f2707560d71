package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/noah-isme/lms-student-client/pkg/response"
)

// Error represents a typed client error with HTTP awareness. Status is zero
// when the request never produced a response.
type Error struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Detail  json.RawMessage `json:"detail,omitempty"`
	Err     error           `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors of the same code so callers can compare against the
// predefined values below.
func (e *Error) Is(target error) bool {
	var t *Error
	if e == nil || !errors.As(target, &t) || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNetwork       = New("NETWORK_ERROR", 0, "the server could not be reached")
	ErrUnauthorized  = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrForbidden     = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrNotFound      = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict      = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation    = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal      = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrDecode        = New("DECODE_ERROR", 0, "unexpected response payload")
	ErrLoginRequired = New("LOGIN_REQUIRED", http.StatusUnauthorized, "sign in first")
	ErrPageLoad      = New("PAGE_LOAD_FAILED", 0, "could not load the page, try again")
)

// FromResponse classifies a non-2xx response. The raw "detail" member of the
// body is preserved for callers that need server-specific codes.
func FromResponse(status int, body []byte) *Error {
	base := classify(status)
	out := &Error{Code: base.Code, Status: status, Message: base.Message}

	var payload response.ErrorBody
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil && len(payload.Detail) > 0 && string(payload.Detail) != "null" {
		out.Detail = payload.Detail
		if msg := ParseDetail(payload.Detail).Message; msg != "" {
			out.Message = msg
		}
	}
	return out
}

func classify(status int) *Error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return ErrValidation
	default:
		return ErrInternal
	}
}

// Detail is the normalised view of a server "detail" member, which may be a
// plain string, an object, or a list of field errors.
type Detail struct {
	Code    string
	Field   string
	Message string
	Loc     []string
}

// ParseDetail decodes whichever detail shape the server produced.
func ParseDetail(raw json.RawMessage) Detail {
	var d Detail
	if len(raw) == 0 {
		return d
	}

	var text string
	if json.Unmarshal(raw, &text) == nil {
		d.Message = text
		return d
	}

	type entry struct {
		Code    string        `json:"code"`
		Field   string        `json:"field"`
		Message string        `json:"message"`
		Msg     string        `json:"msg"`
		Loc     []interface{} `json:"loc"`
	}
	merge := func(e entry) {
		if d.Code == "" {
			d.Code = e.Code
		}
		if d.Field == "" {
			d.Field = e.Field
		}
		if d.Message == "" {
			d.Message = firstNonEmpty(e.Message, e.Msg)
		}
		for _, part := range e.Loc {
			d.Loc = append(d.Loc, fmt.Sprint(part))
		}
	}

	var obj entry
	if json.Unmarshal(raw, &obj) == nil {
		merge(obj)
		return d
	}
	var list []entry
	if json.Unmarshal(raw, &list) == nil {
		for _, e := range list {
			merge(e)
		}
	}
	return d
}

// HasLoc reports whether the detail location path mentions name.
func (d Detail) HasLoc(name string) bool {
	for _, part := range d.Loc {
		if strings.EqualFold(part, name) {
			return true
		}
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or zero.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
