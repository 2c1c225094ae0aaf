package services

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/serendibtrip/serendibtrip-api/logger"
	"github.com/serendibtrip/serendibtrip-api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

// mockPgxPool exposes only Ping from a pgxmock pool.
type mockPgxPool struct {
	mock pgxmock.PgxPoolIface
}

func (m *mockPgxPool) Ping(ctx context.Context) error {
	return m.mock.Ping(ctx)
}

func TestNewHealthService(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	service := NewHealthService(&mockPgxPool{mock: mockDB}, nil, "1.0.0", "development", true)

	assert.NotNil(t, service)
	assert.Equal(t, "1.0.0", service.version)
	assert.NotNil(t, service.log)
	assert.False(t, service.startTime.IsZero())
}

func TestHealthService_CheckHealth(t *testing.T) {
	tests := []struct {
		name           string
		setupMocks     func(pgxmock.PgxPoolIface, redismock.ClientMock)
		aiEnabled      bool
		expectedStatus types.HealthStatus
		expectedComps  map[string]types.HealthStatus
	}{
		{
			name: "All services healthy",
			setupMocks: func(db pgxmock.PgxPoolIface, redisMock redismock.ClientMock) {
				db.ExpectPing()
				redisMock.ExpectPing().SetVal("PONG")
			},
			aiEnabled:      true,
			expectedStatus: types.HealthStatusUp,
			expectedComps: map[string]types.HealthStatus{
				"database": types.HealthStatusUp,
				"redis":    types.HealthStatusUp,
				"ai":       types.HealthStatusUp,
			},
		},
		{
			name: "Database down",
			setupMocks: func(db pgxmock.PgxPoolIface, redisMock redismock.ClientMock) {
				db.ExpectPing().WillReturnError(errors.New("connection refused"))
				redisMock.ExpectPing().SetVal("PONG")
			},
			aiEnabled:      true,
			expectedStatus: types.HealthStatusDown,
			expectedComps: map[string]types.HealthStatus{
				"database": types.HealthStatusDown,
				"redis":    types.HealthStatusUp,
			},
		},
		{
			name: "Redis down",
			setupMocks: func(db pgxmock.PgxPoolIface, redisMock redismock.ClientMock) {
				db.ExpectPing()
				redisMock.ExpectPing().SetErr(errors.New("redis connection failed"))
			},
			aiEnabled:      true,
			expectedStatus: types.HealthStatusDown,
			expectedComps: map[string]types.HealthStatus{
				"database": types.HealthStatusUp,
				"redis":    types.HealthStatusDown,
			},
		},
		{
			name: "AI not configured degrades",
			setupMocks: func(db pgxmock.PgxPoolIface, redisMock redismock.ClientMock) {
				db.ExpectPing()
				redisMock.ExpectPing().SetVal("PONG")
			},
			aiEnabled:      false,
			expectedStatus: types.HealthStatusDegraded,
			expectedComps: map[string]types.HealthStatus{
				"ai": types.HealthStatusDegraded,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mockDB.Close()
			mockRedisClient, mockRedis := redismock.NewClientMock()

			tt.setupMocks(mockDB, mockRedis)

			service := NewHealthService(&mockPgxPool{mock: mockDB}, mockRedisClient, "1.2.3", "test", tt.aiEnabled)
			health := service.CheckHealth(context.Background())

			assert.Equal(t, tt.expectedStatus, health.Status)
			assert.Equal(t, "1.2.3", health.Version)
			assert.Equal(t, "test", health.Environment)
			assert.NotEmpty(t, health.Timestamp)
			for name, status := range tt.expectedComps {
				assert.Equal(t, status, health.Components[name].Status, name)
			}
			assert.NoError(t, mockDB.ExpectationsWereMet())
			assert.NoError(t, mockRedis.ExpectationsWereMet())
		})
	}
}

func TestHealthService_WithoutRedis(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockDB.Close()

	service := NewHealthService(&mockPgxPool{mock: mockDB}, nil, "1.0.0", "development", true)
	health := service.CheckHealth(context.Background())

	assert.Equal(t, types.HealthStatusUp, health.Status)
	assert.Equal(t, "disabled", health.Components["redis"].Details)
}
