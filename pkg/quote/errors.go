package quote

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies quote errors.
type Kind string

const (
	// KindDecode is a malformed or incomplete callback payload.
	KindDecode Kind = "decode"
	// KindInvalidArgument is a value that cannot be interpreted, such as a non-numeric tier id.
	KindInvalidArgument Kind = "invalid_argument"
	// KindIndex is a tier position outside the catalog.
	KindIndex Kind = "index"
)

// Error is a failure raised while decoding or quoting a callback.
type Error struct {
	Op      string
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewError creates a new Error.
func NewError(op string, kind Kind, message string) *Error {
	return &Error{Op: op, Kind: kind, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// Sentinel errors for the quote protocol.
var (
	// ErrMalformedPayload indicates the callback body is not valid JSON or lacks a required field.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrMissingAddress indicates an initial quote was requested without a shipping address.
	ErrMissingAddress = errors.New("missing shipping address")

	// ErrInvalidTierID indicates the chosen tier id is not an integer literal.
	ErrInvalidTierID = errors.New("invalid tier id")

	// ErrTierOutOfRange indicates the chosen tier does not exist in the catalog.
	ErrTierOutOfRange = errors.New("tier out of range")
)

// IsClientError reports whether err was caused by the caller's payload
// rather than by a business-rule rejection or an internal fault.
func IsClientError(err error) bool {
	var qe *Error
	if errors.As(err, &qe) {
		return true
	}
	return errors.Is(err, ErrMalformedPayload) ||
		errors.Is(err, ErrMissingAddress) ||
		errors.Is(err, ErrInvalidTierID) ||
		errors.Is(err, ErrTierOutOfRange)
}

// RejectionName is the error name every address rejection carries.
const RejectionName = "UNPROCESSABLE_ENTITY"

// Issue is a single reason attached to a Rejection.
type Issue struct {
	Code IssueCode
}

// Rejection reports that the supplied address cannot be served.
type Rejection struct {
	Name   string
	Issues []Issue
}

// NewRejection builds a rejection carrying the given issue codes in order.
func NewRejection(codes ...IssueCode) *Rejection {
	issues := make([]Issue, len(codes))
	for i, c := range codes {
		issues[i] = Issue{Code: c}
	}
	return &Rejection{Name: RejectionName, Issues: issues}
}

// Error implements the error interface.
func (r *Rejection) Error() string {
	codes := make([]string, len(r.Issues))
	for i, is := range r.Issues {
		codes[i] = string(is.Code)
	}
	return fmt.Sprintf("%s: %s", r.Name, strings.Join(codes, ","))
}

// AsRejection extracts a *Rejection from err.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
