package errors

import (
	"fmt"
	"net/http"

	"github.com/serendibtrip/serendibtrip-api/logger"
)

type ErrorType string

const (
	ValidationError     ErrorType = "VALIDATION_ERROR"
	NotFoundError       ErrorType = "NOT_FOUND"
	AuthError           ErrorType = "AUTHENTICATION_ERROR"
	DatabaseError       ErrorType = "DATABASE_ERROR"
	ServerError         ErrorType = "SERVER_ERROR"
	ForbiddenError      ErrorType = "FORBIDDEN"
	TripNotFoundError   ErrorType = "TRIP_NOT_FOUND"
	ConflictError       ErrorType = "CONFLICT"
	DateOverlapError    ErrorType = "DATE_OVERLAP"
	RateLimitError      ErrorType = "RATE_LIMIT_EXCEEDED"
	QuotaExceededError  ErrorType = "QUOTA_EXCEEDED"
	FeatureDisabled     ErrorType = "FEATURE_DISABLED"
	UpstreamError       ErrorType = "UPSTREAM_UNAVAILABLE"
	ErrorTypeValidation           = "validation_failed"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
	// Extra carries structured fields rendered alongside the error body
	// (quota remaining, upgrade hints, the conflicting trip).
	Extra map[string]interface{} `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the status the error should be rendered with.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// WithExtra attaches a structured field to the rendered error body.
func (e *AppError) WithExtra(key string, value interface{}) *AppError {
	if e.Extra == nil {
		e.Extra = make(map[string]interface{})
	}
	e.Extra[key] = value
	return e
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// Helper functions for common errors
func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

func AuthenticationFailed(message string) *AppError {
	return &AppError{
		Type:       AuthError,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func NewDatabaseError(err error) *AppError {
	// Log original error but return sanitized message
	logger.GetLogger().Errorw("Database error", "error", err)
	return &AppError{
		Type:       DatabaseError,
		Message:    "Database operation failed",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func Forbidden(message string, details string) *AppError {
	return &AppError{
		Type:       ForbiddenError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusForbidden,
	}
}

func TripNotFound(id string) *AppError {
	return &AppError{
		Type:       TripNotFoundError,
		Message:    "Trip not found",
		Detail:     fmt.Sprintf("Trip ID: %s", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func NewConflictError(message string, detail string) *AppError {
	return &AppError{
		Type:       ConflictError,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusConflict,
	}
}

// DateOverlap reports that a trip's dates collide with an existing trip.
// Clients must change the dates before the trip can be saved.
func DateOverlap(destination, startDate, endDate string) *AppError {
	return &AppError{
		Type:       DateOverlapError,
		Message:    "Trip dates overlap with an existing trip",
		Detail:     fmt.Sprintf("%s (%s to %s)", destination, startDate, endDate),
		HTTPStatus: http.StatusConflict,
	}
}

func RateLimitExceeded(message string, retryAfterSeconds int) *AppError {
	e := &AppError{
		Type:       RateLimitError,
		Message:    message,
		HTTPStatus: http.StatusTooManyRequests,
	}
	return e.WithExtra("retryAfter", retryAfterSeconds)
}

func QuotaExceeded(feature, reason string, showUpgrade bool) *AppError {
	e := &AppError{
		Type:       QuotaExceededError,
		Code:       feature,
		Message:    reason,
		HTTPStatus: http.StatusTooManyRequests,
	}
	return e.WithExtra("remaining", 0).WithExtra("showUpgrade", showUpgrade)
}

func FeatureNotAvailable(feature, reason string, showUpgrade bool) *AppError {
	e := &AppError{
		Type:       FeatureDisabled,
		Code:       feature,
		Message:    reason,
		HTTPStatus: http.StatusForbidden,
	}
	return e.WithExtra("showUpgrade", showUpgrade)
}

func UpstreamUnavailable(service string, err error) *AppError {
	e := &AppError{
		Type:       UpstreamError,
		Message:    fmt.Sprintf("%s is temporarily unavailable", service),
		HTTPStatus: http.StatusBadGateway,
		Raw:        err,
	}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

func Unauthorized(code, message string) error {
	return NewError(
		AuthError,
		code,
		message,
		http.StatusUnauthorized,
	)
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError, TripNotFoundError:
		return http.StatusNotFound
	case AuthError:
		return http.StatusUnauthorized
	case DatabaseError:
		return http.StatusInternalServerError
	case ForbiddenError, FeatureDisabled:
		return http.StatusForbidden
	case ConflictError, DateOverlapError:
		return http.StatusConflict
	case RateLimitError, QuotaExceededError:
		return http.StatusTooManyRequests
	case UpstreamError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func NewError(errType ErrorType, code string, message string, status int) error {
	return &AppError{
		Type:       errType,
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == errType
}
