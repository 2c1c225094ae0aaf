package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitService_CheckLimit(t *testing.T) {
	const key = "serendibtrip:rate_limit:api:user:u1"

	tests := []struct {
		name        string
		setup       func(redismock.ClientMock)
		wantAllowed bool
		wantRetry   time.Duration
		wantErr     bool
	}{
		{
			name: "under limit",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectIncr(key).SetVal(3)
				mock.ExpectExpireNX(key, time.Minute).SetVal(false)
			},
			wantAllowed: true,
		},
		{
			name: "over limit reports ttl",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectIncr(key).SetVal(11)
				mock.ExpectExpireNX(key, time.Minute).SetVal(false)
				mock.ExpectTTL(key).SetVal(42 * time.Second)
			},
			wantAllowed: false,
			wantRetry:   42 * time.Second,
		},
		{
			name: "over limit without ttl falls back to window",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectIncr(key).SetVal(11)
				mock.ExpectExpireNX(key, time.Minute).SetVal(false)
				mock.ExpectTTL(key).SetVal(-1)
			},
			wantAllowed: false,
			wantRetry:   time.Minute,
		},
		{
			name: "redis error",
			setup: func(mock redismock.ClientMock) {
				mock.ExpectIncr(key).SetErr(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, mock := redismock.NewClientMock()
			tt.setup(mock)
			s := NewRateLimitService(client)

			allowed, retry, err := s.CheckLimit(context.Background(), "api:user:u1", 10, time.Minute)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAllowed, allowed)
			assert.Equal(t, tt.wantRetry, retry)
		})
	}
}
