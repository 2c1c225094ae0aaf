package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/serendibtrip/serendibtrip-api/logger"
	"github.com/serendibtrip/serendibtrip-api/types"
	"go.uber.org/zap"
)

// DatabasePinger is the part of *pgxpool.Pool the health check uses.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

type poolStatter interface {
	Stat() *pgxpool.Stat
}

type HealthService struct {
	db          DatabasePinger
	redisClient redis.Cmdable
	version     string
	environment string
	aiEnabled   bool
	startTime   time.Time
	log         *zap.SugaredLogger
}

// NewHealthService builds the checker. redisClient may be nil when counters
// run in memory.
func NewHealthService(db DatabasePinger, redisClient redis.Cmdable, version, environment string, aiEnabled bool) *HealthService {
	return &HealthService{
		db:          db,
		redisClient: redisClient,
		version:     version,
		environment: environment,
		aiEnabled:   aiEnabled,
		startTime:   time.Now(),
		log:         logger.GetLogger(),
	}
}

func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := map[string]types.HealthComponent{
		"database": h.checkDatabase(ctx),
		"redis":    h.checkRedis(ctx),
		"ai":       h.checkAI(),
	}

	overallStatus := types.HealthStatusUp
	for _, c := range components {
		switch c.Status {
		case types.HealthStatusDown:
			overallStatus = types.HealthStatusDown
		case types.HealthStatusDegraded:
			if overallStatus != types.HealthStatusDown {
				overallStatus = types.HealthStatusDegraded
			}
		}
	}

	return types.HealthCheck{
		Status:      overallStatus,
		Components:  components,
		Version:     h.version,
		Environment: h.environment,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
	}
}

func (h *HealthService) checkDatabase(ctx context.Context) types.HealthComponent {
	if h.db == nil {
		return types.HealthComponent{Status: types.HealthStatusDown, Details: "Database not configured"}
	}
	if err := h.db.Ping(ctx); err != nil {
		h.log.Errorw("Database health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Database connection failed",
		}
	}

	if s, ok := h.db.(poolStatter); ok {
		if stat := s.Stat(); stat != nil && stat.MaxConns() > 0 &&
			float64(stat.AcquiredConns())/float64(stat.MaxConns()) > 0.8 {
			return types.HealthComponent{
				Status:  types.HealthStatusDegraded,
				Details: "Connection pool near capacity",
			}
		}
	}

	return types.HealthComponent{Status: types.HealthStatusUp}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if h.redisClient == nil {
		return types.HealthComponent{Status: types.HealthStatusUp, Details: "disabled"}
	}
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed",
		}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}

// checkAI reports configuration only; probing the provider would spend quota.
func (h *HealthService) checkAI() types.HealthComponent {
	if !h.aiEnabled {
		return types.HealthComponent{Status: types.HealthStatusDegraded, Details: "AI provider not configured"}
	}
	return types.HealthComponent{Status: types.HealthStatusUp}
}
