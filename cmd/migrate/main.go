// Package main applies the embedded schema migrations without starting the
// API server. Useful as a release step ahead of a rolling deploy.
package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/serendibtrip/serendibtrip-api/db"
	"github.com/serendibtrip/serendibtrip-api/logger"
)

func main() {
	dbURL := flag.String("database-url", "", "PostgreSQL URL; defaults to DATABASE_URL or the DB_* variables")
	flag.Parse()

	logger.InitLogger()
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	target := *dbURL
	if target == "" {
		target = buildDatabaseURL()
	}
	log.Infow("Applying migrations", "database", logger.MaskConnectionString(target))

	if err := db.RunMigrations(target); err != nil {
		log.Errorw("Migration failed", "error", err)
		os.Exit(1)
	}
}

// buildDatabaseURL constructs a PostgreSQL connection string from env vars.
// Supports DATABASE_URL directly, or individual DB_* vars.
func buildDatabaseURL() string {
	if u := os.Getenv("DATABASE_URL"); u != "" {
		return u
	}

	host := envOrDefault("DB_HOST", "localhost")
	port := envOrDefault("DB_PORT", "5432")
	user := envOrDefault("DB_USER", "postgres")
	pass := envOrDefault("DB_PASSWORD", "")
	name := envOrDefault("DB_NAME", "serendibtrip_dev")
	ssl := envOrDefault("DB_SSL_MODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(user), url.QueryEscape(pass), host, port, name, ssl)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
