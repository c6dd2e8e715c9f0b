package util

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes returned by the core to its callers. The HTTP layer maps these
// to transport statuses; other callers switch on the code.
const (
	CodeMissingFields     = "MISSING_FIELDS"
	CodeNoAgentsAvailable = "NO_AGENTS_AVAILABLE"
	CodeTicketNotFound    = "TICKET_NOT_FOUND"
	CodeAgentNotFound     = "AGENT_NOT_FOUND"
	CodeCustomerNotFound  = "CUSTOMER_NOT_FOUND"
	CodeMissingStatus     = "MISSING_STATUS"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeValidationFailed  = "VALIDATION_FAILED"
	CodeStorageError      = "STORAGE_ERROR"
	CodeInternalError     = "INTERNAL_ERROR"
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

// NewMissingFields reports required creation fields that were absent.
func NewMissingFields(fields []string) error {
	return NewDomainError(CodeMissingFields,
		"missing required fields: "+strings.Join(fields, ", "),
		http.StatusBadRequest,
		map[string]any{"fields": fields})
}

// NewNoAgentsAvailable reports an empty agent population. Distinct from a
// validation failure so callers can alert operations.
func NewNoAgentsAvailable() error {
	return NewDomainError(CodeNoAgentsAvailable, "no agents available for assignment", http.StatusServiceUnavailable, nil)
}

// NewTicketNotFound reports an unknown ticket id.
func NewTicketNotFound(ticketID string) error {
	return NewDomainError(CodeTicketNotFound, "ticket not found", http.StatusNotFound, map[string]any{"ticket_id": ticketID})
}

// NewAgentNotFound reports an unresolvable agent reference.
func NewAgentNotFound(agentID string) error {
	return NewDomainError(CodeAgentNotFound, "agent not found", http.StatusNotFound, map[string]any{"agent_id": agentID})
}

// NewCustomerNotFound reports an unknown customer id.
func NewCustomerNotFound(customerID string) error {
	return NewDomainError(CodeCustomerNotFound, "customer not found", http.StatusNotFound, map[string]any{"customer_id": customerID})
}

// NewMissingStatus reports a status-change request without a status.
func NewMissingStatus() error {
	return NewDomainError(CodeMissingStatus, "status is required", http.StatusBadRequest, nil)
}

// NewInvalidTransition reports a status change not permitted by the
// lifecycle table.
func NewInvalidTransition(current, next string) error {
	return NewDomainError(CodeInvalidTransition,
		fmt.Sprintf("invalid status transition from %q to %q", current, next),
		http.StatusConflict,
		map[string]any{"current": current, "requested": next})
}

// NewValidationError reports malformed caller input outside the dedicated
// missing-field cases.
func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

// NewStorageError wraps an opaque failure from the backing store. The core
// never retries; retry policy belongs to the caller.
func NewStorageError(err error) error {
	return &DomainError{
		Code:       CodeStorageError,
		Message:    "storage operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewInternalError wraps an unexpected failure such as a recovered panic.
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
	if de, ok := NewStorageError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       CodeStorageError,
		Message:    "storage operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError normalizes an error into the domain taxonomy.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

// CodeOf extracts the taxonomy code from an error, or empty string.
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}
