package pkg

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrDuplicate          = errors.New("duplicate entity")
	ErrNotFound           = errors.New("not found")
	ErrMissingField       = errors.New("missing field")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidReference   = errors.New("invalid reference")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
)

// AppError carries a client-facing message together with the kind of failure.
type AppError struct {
	Kind    error
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Kind
}

func NewError(kind error, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Errorf(kind error, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func MissingField(name string) *AppError {
	return Errorf(ErrMissingField, "Missing required field: %s", name)
}

// HTTPStatus maps an error kind to the status code the API answers with.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrMissingField),
		errors.Is(err, ErrInvalidReference),
		errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
