package utils

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindDependency   ErrorKind = "dependency"
	KindInternal     ErrorKind = "internal"
)

// AppError is the error type returned across service boundaries.
type AppError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Details map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func NewValidationError(message string, details map[string]string) *AppError {
	return &AppError{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message, Details: details}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Kind: KindUnauthorized, Code: "UNAUTHORIZED", Message: message}
}

func NewForbiddenError(code, message string) *AppError {
	return &AppError{Kind: KindForbidden, Code: code, Message: message}
}

func NewNotFoundError(resource string) *AppError {
	return &AppError{Kind: KindNotFound, Code: "NOT_FOUND", Message: resource + " not found"}
}

func NewConflictError(code, message string) *AppError {
	return &AppError{Kind: KindConflict, Code: code, Message: message}
}

func NewDependencyError(message string, err error) *AppError {
	return &AppError{Kind: KindDependency, Code: "DEPENDENCY_FAILED", Message: message, Err: err}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{Kind: KindInternal, Code: "INTERNAL_ERROR", Message: message, Err: err}
}
