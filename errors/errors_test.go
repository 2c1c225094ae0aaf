package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ValidationError, "invalid input", "field required")
	assert.Equal(t, ValidationError, err.Type)
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "field required", err.Detail)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
}

func TestWrap(t *testing.T) {
	originalErr := fmt.Errorf("original error")
	wrappedErr := Wrap(originalErr, DatabaseError, "database operation failed")

	assert.Equal(t, DatabaseError, wrappedErr.Type)
	assert.Equal(t, "database operation failed", wrappedErr.Message)
	assert.Equal(t, originalErr.Error(), wrappedErr.Detail)
	assert.Equal(t, http.StatusInternalServerError, wrappedErr.HTTPStatus)
	assert.True(t, stderrors.Is(wrappedErr, originalErr))

	assert.Nil(t, Wrap(nil, DatabaseError, "unused"))
}

func TestNotFound(t *testing.T) {
	err := NotFound("Trip", "abc")
	assert.Equal(t, NotFoundError, err.Type)
	assert.Equal(t, "Trip not found", err.Message)
	assert.Equal(t, "ID: abc", err.Detail)
	assert.Equal(t, http.StatusNotFound, err.GetHTTPStatus())
}

func TestNewDatabaseError(t *testing.T) {
	originalErr := fmt.Errorf("connection failed")
	err := NewDatabaseError(originalErr)
	assert.Equal(t, DatabaseError, err.Type)
	assert.Equal(t, "Database operation failed", err.Message)
	assert.Equal(t, "Please try again later", err.Detail)
	assert.Equal(t, originalErr, err.Raw)
}

func TestDateOverlap(t *testing.T) {
	err := DateOverlap("Kandy", "2025-03-01", "2025-03-05")
	assert.Equal(t, DateOverlapError, err.Type)
	assert.Equal(t, http.StatusConflict, err.GetHTTPStatus())
	assert.Contains(t, err.Detail, "Kandy")
}

func TestQuotaExceeded(t *testing.T) {
	err := QuotaExceeded("ai_chat", "Daily limit reached", true)
	assert.Equal(t, http.StatusTooManyRequests, err.GetHTTPStatus())
	assert.Equal(t, "ai_chat", err.Code)
	assert.Equal(t, true, err.Extra["showUpgrade"])
	assert.Equal(t, 0, err.Extra["remaining"])
}

func TestGetHTTPStatusFallsBackToType(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    int
	}{
		{ValidationError, http.StatusBadRequest},
		{AuthError, http.StatusUnauthorized},
		{FeatureDisabled, http.StatusForbidden},
		{DateOverlapError, http.StatusConflict},
		{RateLimitError, http.StatusTooManyRequests},
		{UpstreamError, http.StatusBadGateway},
		{ErrorType("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.errType), func(t *testing.T) {
			err := &AppError{Type: tt.errType}
			assert.Equal(t, tt.want, err.GetHTTPStatus())
		})
	}
}

func TestIsType(t *testing.T) {
	assert.True(t, IsType(NotFound("Trip", 1), NotFoundError))
	assert.False(t, IsType(fmt.Errorf("plain"), NotFoundError))
}
