package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrBadRequest          = errors.New("bad request")
	ErrInternal            = errors.New("internal server error")
	ErrInvalidInput        = errors.New("invalid input")
	ErrRateLimitExceeded   = errors.New("rate limit exceeded")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPendingApproval     = errors.New("account pending approval")
	ErrInvalidOrExpired    = errors.New("invalid or expired token")
	ErrEmailAlreadyTaken   = errors.New("email already registered")
	ErrBookmarkExists      = errors.New("research already bookmarked")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrPendingApproval):
		return http.StatusForbidden
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidOrExpired), errors.Is(err, ErrUnsupportedFileType):
		return http.StatusBadRequest
	case errors.Is(err, ErrEmailAlreadyTaken), errors.Is(err, ErrBookmarkExists):
		return http.StatusConflict
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
