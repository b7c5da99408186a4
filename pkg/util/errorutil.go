package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for lifecycle and input validation failures. All are
// recoverable: a caller is expected to show a corrective message and retry.
const (
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeMissingSolution     = "MISSING_SOLUTION"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeNotEligible         = "NOT_ELIGIBLE"
	CodeAlreadyRated        = "ALREADY_RATED"
	CodeAlreadyResolved     = "ALREADY_RESOLVED"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeNotFound            = "NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeInternal            = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewInvalidTransition reports a state change not permitted by the
// lifecycle graph.
func NewInvalidTransition(from, to string) error {
	return NewDomainError(CodeInvalidTransition,
		fmt.Sprintf("transition from %s to %s is not allowed", from, to),
		http.StatusConflict,
		map[string]any{"from": from, "to": to})
}

// NewMissingSolution reports a resolve/close attempt without an acceptable
// solution text.
func NewMissingSolution() error {
	return NewDomainError(CodeMissingSolution,
		"a solution of at least 10 characters is required",
		http.StatusUnprocessableEntity, nil)
}

// NewConstraintViolation reports a violated assignment constraint.
func NewConstraintViolation(message string, details map[string]any) error {
	return NewDomainError(CodeConstraintViolation, message, http.StatusConflict, details)
}

// NewNotEligible reports unmet rating preconditions.
func NewNotEligible(message string) error {
	return NewDomainError(CodeNotEligible, message, http.StatusConflict, nil)
}

// NewAlreadyRated reports a second rating attempt on the same ticket.
func NewAlreadyRated(ticketID int64) error {
	return NewDomainError(CodeAlreadyRated, "ticket has already been rated",
		http.StatusConflict, map[string]any{"ticket_id": ticketID})
}

// NewAlreadyResolved reports a second resolution attempt on a complaint.
func NewAlreadyResolved(complaintID int64) error {
	return NewDomainError(CodeAlreadyResolved, "complaint has already been resolved",
		http.StatusConflict, map[string]any{"complaint_id": complaintID})
}

// NewInvalidInput reports out-of-range or malformed caller input. Input is
// never coerced into range; it is always rejected.
func NewInvalidInput(message string, details map[string]any) error {
	return NewDomainError(CodeInvalidInput, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err is a DomainError carrying the given code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Code == code
}

func MapError(err error) error {
	return ToDomainError(err)
}
