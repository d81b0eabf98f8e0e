package util

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeValidation         = "VALIDATION_FAILED"
	CodeDuplicateID        = "DUPLICATE_EMPLOYEE_ID"
	CodeNotFound           = "NOT_FOUND"
	CodeAllocationOverflow = "ALLOCATION_OVERFLOW"
	CodeStore              = "STORE_ERROR"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_ERROR"
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

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewDuplicateID(employeeID string) error {
	var details map[string]any
	if employeeID != "" {
		details = map[string]any{"employeeId": employeeID}
	}
	return NewDomainError(CodeDuplicateID, "Employee ID already exists", http.StatusBadRequest, details)
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

func NewAllocationOverflow(err error) error {
	return &DomainError{
		Code:       CodeAllocationOverflow,
		Message:    "employee id space exhausted",
		HTTPStatus: http.StatusConflict,
		Err:        err,
	}
}

func NewStoreError(err error) error {
	return &DomainError{
		Code:       CodeStore,
		Message:    "record store failure",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewRateLimited() error {
	return NewDomainError(CodeRateLimited, "too many requests", http.StatusTooManyRequests, nil)
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

// WithStoreStatus returns err unchanged unless it is a store failure, in which
// case a copy carrying the given HTTP status is returned.
func WithStoreStatus(err error, status int) error {
	de := ToDomainError(err)
	if de == nil || de.Code != CodeStore {
		return err
	}
	cp := *de
	cp.HTTPStatus = status
	return &cp
}

// IsCode reports whether err is a DomainError with the given code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
