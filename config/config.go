// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/serendibtrip/serendibtrip-api/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"

	minJWTLength = 32
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment            Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port                   string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins         []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version                string      `mapstructure:"VERSION" yaml:"version"`
	JwtSecretKey           string      `mapstructure:"JWT_SECRET_KEY" yaml:"jwt_secret_key"`
	FrontendURL            string      `mapstructure:"FRONTEND_URL" yaml:"frontend_url"`
	TrustedProxies         []string    `mapstructure:"TRUSTED_PROXIES" yaml:"trusted_proxies"`
	ShutdownTimeoutSeconds int         `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS" yaml:"shutdown_timeout_seconds"`
}

// DatabaseConfig holds PostgreSQL database connection details.
type DatabaseConfig struct {
	Host           string `mapstructure:"HOST" yaml:"host"`
	Port           int    `mapstructure:"PORT" yaml:"port"`
	User           string `mapstructure:"USER" yaml:"user"`
	Password       string `mapstructure:"PASSWORD" yaml:"password"`
	Name           string `mapstructure:"NAME" yaml:"name"`
	MaxConnections int    `mapstructure:"MAX_CONNECTIONS" yaml:"max_connections"`
	MinConnections int    `mapstructure:"MIN_CONNECTIONS" yaml:"min_connections"`
	SSLMode        string `mapstructure:"SSL_MODE" yaml:"ssl_mode"`
	ConnMaxLife    string `mapstructure:"CONN_MAX_LIFE" yaml:"conn_max_life"`
	RunMigrations  bool   `mapstructure:"RUN_MIGRATIONS" yaml:"run_migrations"`
}

// URL returns a postgres:// connection URL suitable for golang-migrate and pgxpool.
func (c *DatabaseConfig) URL() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
		sslmode,
	)
}

// RedisConfig holds Redis connection details.
type RedisConfig struct {
	Address      string `mapstructure:"ADDRESS" yaml:"address"`
	Password     string `mapstructure:"PASSWORD" yaml:"password"`
	DB           int    `mapstructure:"DB" yaml:"db"`
	UseTLS       bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
	PoolSize     int    `mapstructure:"POOL_SIZE" yaml:"pool_size"`
	MinIdleConns int    `mapstructure:"MIN_IDLE_CONNS" yaml:"min_idle_conns"`
}

// AIConfig configures the Gemini recommendation provider. An empty API key
// leaves AI endpoints answering 502.
type AIConfig struct {
	GeminiAPIKey   string  `mapstructure:"GEMINI_API_KEY" yaml:"gemini_api_key"`
	Model          string  `mapstructure:"MODEL" yaml:"model"`
	TimeoutSeconds int     `mapstructure:"TIMEOUT_SECONDS" yaml:"timeout_seconds"`
	Temperature    float32 `mapstructure:"TEMPERATURE" yaml:"temperature"`
}

// Enabled reports whether a provider can be constructed.
func (c AIConfig) Enabled() bool {
	return c.GeminiAPIKey != ""
}

// StorageConfig configures the S3-compatible bucket that holds shared
// itinerary snapshots. Leave AccountID empty to talk to AWS S3 via Region.
type StorageConfig struct {
	Enabled         bool   `mapstructure:"ENABLED" yaml:"enabled"`
	AccountID       string `mapstructure:"ACCOUNT_ID" yaml:"account_id"`
	Endpoint        string `mapstructure:"ENDPOINT" yaml:"endpoint"`
	Region          string `mapstructure:"REGION" yaml:"region"`
	Bucket          string `mapstructure:"BUCKET" yaml:"bucket"`
	AccessKeyID     string `mapstructure:"ACCESS_KEY_ID" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"SECRET_ACCESS_KEY" yaml:"secret_access_key"`
	ShareTTLDays    int    `mapstructure:"SHARE_TTL_DAYS" yaml:"share_ttl_days"`
	ShareSecret     string `mapstructure:"SHARE_SECRET" yaml:"share_secret"`
}

// ShareTTL is the lifetime of share tokens and presigned snapshot links.
func (c StorageConfig) ShareTTL() time.Duration {
	return time.Duration(c.ShareTTLDays) * 24 * time.Hour
}

// FeatureGateConfig controls usage quotas.
type FeatureGateConfig struct {
	// BypassLimits allows every gated feature unconditionally.
	BypassLimits         bool   `mapstructure:"BYPASS_LIMITS" yaml:"bypass_limits"`
	LimitsFile           string `mapstructure:"LIMITS_FILE" yaml:"limits_file"`
	GuestSessionTTLHours int    `mapstructure:"GUEST_SESSION_TTL_HOURS" yaml:"guest_session_ttl_hours"`
	// Store selects the counter backend: "redis" or "memory".
	Store string `mapstructure:"STORE" yaml:"store"`
}

// GuestSessionTTL is how long a guest session counter lives.
func (c FeatureGateConfig) GuestSessionTTL() time.Duration {
	return time.Duration(c.GuestSessionTTLHours) * time.Hour
}

// RateLimitConfig holds configuration for API rate limiting.
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"REQUESTS_PER_MINUTE" yaml:"requests_per_minute"`
	WindowSeconds     int `mapstructure:"WINDOW_SECONDS" yaml:"window_seconds"`
}

// CacheConfig sizes the in-process recommendation cache.
type CacheConfig struct {
	RecommendationTTLMinutes int `mapstructure:"RECOMMENDATION_TTL_MINUTES" yaml:"recommendation_ttl_minutes"`
	CleanupIntervalMinutes   int `mapstructure:"CLEANUP_INTERVAL_MINUTES" yaml:"cleanup_interval_minutes"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Server      ServerConfig      `mapstructure:"SERVER" yaml:"server"`
	Database    DatabaseConfig    `mapstructure:"DATABASE" yaml:"database"`
	Redis       RedisConfig       `mapstructure:"REDIS" yaml:"redis"`
	AI          AIConfig          `mapstructure:"AI" yaml:"ai"`
	Storage     StorageConfig     `mapstructure:"STORAGE" yaml:"storage"`
	FeatureGate FeatureGateConfig `mapstructure:"FEATURE_GATE" yaml:"feature_gate"`
	RateLimit   RateLimitConfig   `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
	Cache       CacheConfig       `mapstructure:"CACHE" yaml:"cache"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.TRUSTED_PROXIES", []string{})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("SERVER.SHUTDOWN_TIMEOUT_SECONDS", 15)
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "")
	v.SetDefault("DATABASE.NAME", "serendibtrip_dev")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.MAX_CONNECTIONS", 10)
	v.SetDefault("DATABASE.MIN_CONNECTIONS", 1)
	v.SetDefault("DATABASE.CONN_MAX_LIFE", "1h")
	v.SetDefault("DATABASE.RUN_MIGRATIONS", true)
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("REDIS.POOL_SIZE", 5)
	v.SetDefault("REDIS.MIN_IDLE_CONNS", 1)
	v.SetDefault("AI.MODEL", "gemini-2.0-flash")
	v.SetDefault("AI.TIMEOUT_SECONDS", 45)
	v.SetDefault("AI.TEMPERATURE", 0.7)
	v.SetDefault("STORAGE.ENABLED", false)
	v.SetDefault("STORAGE.REGION", "auto")
	v.SetDefault("STORAGE.BUCKET", "serendibtrip-shares")
	v.SetDefault("STORAGE.SHARE_TTL_DAYS", 30)
	v.SetDefault("FEATURE_GATE.BYPASS_LIMITS", false)
	v.SetDefault("FEATURE_GATE.LIMITS_FILE", "")
	v.SetDefault("FEATURE_GATE.GUEST_SESSION_TTL_HOURS", 24)
	v.SetDefault("FEATURE_GATE.STORE", "redis")
	v.SetDefault("RATE_LIMIT.REQUESTS_PER_MINUTE", 120)
	v.SetDefault("RATE_LIMIT.WINDOW_SECONDS", 60)
	v.SetDefault("CACHE.RECOMMENDATION_TTL_MINUTES", 30)
	v.SetDefault("CACHE.CLEANUP_INTERVAL_MINUTES", 10)
}

var envBindings = [][2]string{
	{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
	{"SERVER.PORT", "PORT"},
	{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
	{"SERVER.VERSION", "APP_VERSION"},
	{"SERVER.JWT_SECRET_KEY", "JWT_SECRET_KEY"},
	{"SERVER.FRONTEND_URL", "FRONTEND_URL"},
	{"SERVER.TRUSTED_PROXIES", "TRUSTED_PROXIES"},
	{"SERVER.SHUTDOWN_TIMEOUT_SECONDS", "SHUTDOWN_TIMEOUT_SECONDS"},
	{"DATABASE.HOST", "DB_HOST"},
	{"DATABASE.PORT", "DB_PORT"},
	{"DATABASE.USER", "DB_USER"},
	{"DATABASE.PASSWORD", "DB_PASSWORD"},
	{"DATABASE.NAME", "DB_NAME"},
	{"DATABASE.SSL_MODE", "DB_SSL_MODE"},
	{"DATABASE.MAX_CONNECTIONS", "DB_MAX_CONNECTIONS"},
	{"DATABASE.RUN_MIGRATIONS", "DB_RUN_MIGRATIONS"},
	{"REDIS.ADDRESS", "REDIS_ADDRESS"},
	{"REDIS.PASSWORD", "REDIS_PASSWORD"},
	{"REDIS.DB", "REDIS_DB"},
	{"REDIS.USE_TLS", "REDIS_USE_TLS"},
	{"AI.GEMINI_API_KEY", "GEMINI_API_KEY"},
	{"AI.MODEL", "GEMINI_MODEL"},
	{"AI.TIMEOUT_SECONDS", "AI_TIMEOUT_SECONDS"},
	{"AI.TEMPERATURE", "AI_TEMPERATURE"},
	{"STORAGE.ENABLED", "STORAGE_ENABLED"},
	{"STORAGE.ACCOUNT_ID", "R2_ACCOUNT_ID"},
	{"STORAGE.ENDPOINT", "STORAGE_ENDPOINT"},
	{"STORAGE.REGION", "STORAGE_REGION"},
	{"STORAGE.BUCKET", "STORAGE_BUCKET"},
	{"STORAGE.ACCESS_KEY_ID", "STORAGE_ACCESS_KEY_ID"},
	{"STORAGE.SECRET_ACCESS_KEY", "STORAGE_SECRET_ACCESS_KEY"},
	{"STORAGE.SHARE_TTL_DAYS", "SHARE_TTL_DAYS"},
	{"STORAGE.SHARE_SECRET", "SHARE_TOKEN_SECRET"},
	{"FEATURE_GATE.BYPASS_LIMITS", "FEATURE_GATE_BYPASS_LIMITS"},
	{"FEATURE_GATE.LIMITS_FILE", "FEATURE_GATE_LIMITS_FILE"},
	{"FEATURE_GATE.GUEST_SESSION_TTL_HOURS", "FEATURE_GATE_GUEST_SESSION_TTL_HOURS"},
	{"FEATURE_GATE.STORE", "FEATURE_GATE_STORE"},
	{"RATE_LIMIT.REQUESTS_PER_MINUTE", "RATE_LIMIT_REQUESTS_PER_MINUTE"},
	{"RATE_LIMIT.WINDOW_SECONDS", "RATE_LIMIT_WINDOW_SECONDS"},
	{"CACHE.RECOMMENDATION_TTL_MINUTES", "CACHE_RECOMMENDATION_TTL_MINUTES"},
	{"CACHE.CLEANUP_INTERVAL_MINUTES", "CACHE_CLEANUP_INTERVAL_MINUTES"},
}

// LoadConfig loads configuration from environment variables using Viper,
// sets default values, binds environment variables to config struct fields,
// unmarshals the configuration, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	log.Infow("Configuration loaded",
		"environment", v.GetString("SERVER.ENVIRONMENT"),
		"server_port", v.GetString("SERVER.PORT"),
		"db_host", v.GetString("DATABASE.HOST"),
		"redis_address", v.GetString("REDIS.ADDRESS"),
		"ai_model", v.GetString("AI.MODEL"),
		"storage_enabled", v.GetBool("STORAGE.ENABLED"),
		"feature_gate_store", v.GetString("FEATURE_GATE.STORE"),
		"feature_gate_bypass", v.GetBool("FEATURE_GATE.BYPASS_LIMITS"),
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	// Comma-separated env values arrive as a single element.
	cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins)
	cfg.Server.TrustedProxies = splitList(cfg.Server.TrustedProxies)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Info("Configuration validated successfully")
	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	log := logger.GetLogger()

	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if len(cfg.Server.JwtSecretKey) < minJWTLength {
		return fmt.Errorf("JWT secret key must be at least %d characters long", minJWTLength)
	}
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}
	if cfg.Server.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	if cfg.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if cfg.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if cfg.Database.Password == "" {
		log.Warn("Database password is not set. Ensure this is intended (e.g., using trusted auth).")
	}
	if cfg.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}

	if cfg.Redis.Address == "" {
		return fmt.Errorf("redis address is required")
	}

	if !cfg.AI.Enabled() {
		log.Warn("GEMINI_API_KEY is not set, AI recommendations and chat will be unavailable")
	}
	if cfg.AI.TimeoutSeconds <= 0 {
		return fmt.Errorf("AI timeout must be positive")
	}

	if err := validateStorageConfig(&cfg.Storage, cfg.Server.JwtSecretKey, log); err != nil {
		return err
	}

	switch cfg.FeatureGate.Store {
	case "redis", "memory":
	default:
		return fmt.Errorf("feature gate store must be redis or memory, got %q", cfg.FeatureGate.Store)
	}
	if cfg.FeatureGate.GuestSessionTTLHours <= 0 {
		return fmt.Errorf("guest session TTL must be positive")
	}
	if cfg.FeatureGate.BypassLimits {
		if cfg.IsProduction() {
			return fmt.Errorf("feature gate bypass must not be enabled in production")
		}
		log.Warn("Feature gate bypass is enabled, all usage limits are ignored")
	}

	if cfg.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate limit requests per minute must be positive")
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("rate limit window seconds must be positive")
	}

	if cfg.Cache.RecommendationTTLMinutes <= 0 {
		return fmt.Errorf("recommendation cache TTL must be positive")
	}

	return nil
}

// validateStorageConfig checks share storage settings. Sharing without a
// dedicated secret falls back to the JWT secret.
func validateStorageConfig(cfg *StorageConfig, jwtSecret string, log *zap.SugaredLogger) error {
	if cfg.ShareTTLDays <= 0 {
		return fmt.Errorf("share TTL days must be positive")
	}
	if cfg.ShareSecret == "" {
		cfg.ShareSecret = jwtSecret
	}
	if len(cfg.ShareSecret) < minJWTLength {
		return fmt.Errorf("share token secret must be at least %d characters long", minJWTLength)
	}

	if !cfg.Enabled {
		return nil
	}
	if cfg.Bucket == "" {
		return fmt.Errorf("storage bucket is required when storage is enabled")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		log.Warn("Storage credentials not set, auto-disabling itinerary sharing")
		cfg.Enabled = false
	}
	return nil
}

// containsWildcard checks if the list of allowed origins contains the wildcard "*".
func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
