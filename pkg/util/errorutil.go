package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the Postgres error code for unique_violation.
const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation, so callers can map insert races to 409 instead of 500.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// Error codes exposed in API responses.
const (
	CodeMissingCredential  = "MISSING_CREDENTIAL"
	CodeInvalidCredential  = "INVALID_OR_EXPIRED_CREDENTIAL"
	CodeInsufficientRole   = "INSUFFICIENT_ROLE"
	CodeNotSelf            = "NOT_SELF"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeRecordNotFound     = "RECORD_NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodePersistenceFailure = "PERSISTENCE_FAILURE"
	CodeInternalError      = "INTERNAL_ERROR"
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

// NewMissingCredential rejects requests with no usable bearer credential.
func NewMissingCredential() error {
	return NewDomainError(CodeMissingCredential, "missing or malformed authorization header", http.StatusUnauthorized, nil)
}

// NewInvalidCredential rejects undecodable tokens. Expired, tampered and
// malformed tokens all surface this one error so callers cannot tell them
// apart.
func NewInvalidCredential() error {
	return NewDomainError(CodeInvalidCredential, "invalid or expired credential", http.StatusUnauthorized, nil)
}

// NewInsufficientRole rejects callers whose role is not allowed for the route.
func NewInsufficientRole() error {
	return NewDomainError(CodeInsufficientRole, "insufficient role", http.StatusForbidden, nil)
}

// NewNotSelf rejects customers acting on a record they do not own.
func NewNotSelf() error {
	return NewDomainError(CodeNotSelf, "not permitted for this customer", http.StatusForbidden, nil)
}

// NewInvalidInput rejects malformed request payloads.
func NewInvalidInput(message string, details map[string]any) error {
	return NewDomainError(CodeInvalidInput, message, http.StatusBadRequest, details)
}

// NewNotFound reports a missing record.
func NewNotFound(resource string) error {
	return NewDomainError(CodeRecordNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

// NewConflict reports a uniqueness or state conflict.
func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

// NewPersistenceFailure wraps a failed store operation.
func NewPersistenceFailure(err error) error {
	return &DomainError{
		Code:       CodePersistenceFailure,
		Message:    "persistence failure",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternalError,
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
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource").(*DomainError); ok {
			return de
		}
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts generic errors to DomainError.
func MapError(err error) error {
	return ToDomainError(err)
}
