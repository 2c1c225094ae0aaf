package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/serendibtrip/serendibtrip-api/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

// MockJWTValidator mocks Validator.
type MockJWTValidator struct {
	mock.Mock
}

func (m *MockJWTValidator) Validate(tokenString string) (string, error) {
	args := m.Called(tokenString)
	return args.String(0), args.Error(1)
}

var _ Validator = (*MockJWTValidator)(nil)

func setupAuthTestRouter(validator Validator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler(), OptionalAuth(validator))

	r.GET("/whoami", func(c *gin.Context) {
		actor := GetActor(c)
		c.JSON(http.StatusOK, gin.H{"userId": actor.UserID, "sessionId": actor.SessionID})
	})
	r.GET("/protected", RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString(string(UserIDKey))})
	})
	return r
}

func TestOptionalAuth(t *testing.T) {
	tests := []struct {
		name          string
		authHeader    string
		sessionHeader string
		setupMock     func(m *MockJWTValidator)
		wantStatus    int
		wantUserID    string
		wantSession   string
	}{
		{
			name:          "guest keeps supplied session",
			sessionHeader: "guest-session-1",
			wantStatus:    http.StatusOK,
			wantSession:   "guest-session-1",
		},
		{
			name:       "guest without session gets one generated",
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid bearer token",
			authHeader: "Bearer good-token",
			setupMock: func(m *MockJWTValidator) {
				m.On("Validate", "good-token").Return("user-123", nil)
			},
			wantStatus: http.StatusOK,
			wantUserID: "user-123",
		},
		{
			name:       "lowercase bearer scheme",
			authHeader: "bearer good-token",
			setupMock: func(m *MockJWTValidator) {
				m.On("Validate", "good-token").Return("user-123", nil)
			},
			wantStatus: http.StatusOK,
			wantUserID: "user-123",
		},
		{
			name:       "invalid token rejected",
			authHeader: "Bearer bad-token",
			setupMock: func(m *MockJWTValidator) {
				m.On("Validate", "bad-token").Return("", fmt.Errorf("%w: signature", ErrTokenInvalid))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token rejected",
			authHeader: "Bearer old-token",
			setupMock: func(m *MockJWTValidator) {
				m.On("Validate", "old-token").Return("", fmt.Errorf("%w: exp", ErrTokenExpired))
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "non bearer scheme treated as guest",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := new(MockJWTValidator)
			if tt.setupMock != nil {
				tt.setupMock(validator)
			}
			r := setupAuthTestRouter(validator)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			if tt.sessionHeader != "" {
				req.Header.Set(SessionIDHeader, tt.sessionHeader)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			session := w.Header().Get(SessionIDHeader)
			assert.NotEmpty(t, session)
			if tt.wantSession != "" {
				assert.Equal(t, tt.wantSession, session)
			}
			validator.AssertExpectations(t)

			if tt.wantStatus != http.StatusOK {
				return
			}
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantUserID, body["userId"])
			assert.Equal(t, session, body["sessionId"])
		})
	}
}

func TestOptionalAuthGuestSessionStablePerClient(t *testing.T) {
	r := setupAuthTestRouter(new(MockJWTValidator))

	sessionFor := func(remoteAddr, header string) string {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.RemoteAddr = remoteAddr
		if header != "" {
			req.Header.Set(SessionIDHeader, header)
		}
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		return w.Header().Get(SessionIDHeader)
	}

	first := sessionFor("203.0.113.7:5000", "")
	assert.NotEmpty(t, first)
	assert.Equal(t, first, sessionFor("203.0.113.7:6000", ""))
	assert.NotEqual(t, first, sessionFor("198.51.100.2:5000", ""))
	assert.Equal(t, "kept", sessionFor("203.0.113.7:5000", "kept"))
}

func TestOptionalAuthExpiredTokenCode(t *testing.T) {
	validator := new(MockJWTValidator)
	validator.On("Validate", "old-token").Return("", ErrTokenExpired)
	r := setupAuthTestRouter(validator)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer old-token")
	r.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "token_expired", body["errorCode"])
	assert.Equal(t, "Your session has expired", body["message"])
}

func TestRequireAuth(t *testing.T) {
	validator := new(MockJWTValidator)
	validator.On("Validate", "good-token").Return("user-123", nil)
	r := setupAuthTestRouter(validator)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-123")
}
