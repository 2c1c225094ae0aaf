// Package db owns the schema and applies it with golang-migrate.
package db

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/serendibtrip/serendibtrip-api/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies pending migrations embedded in the binary. A dirty
// version left by a failed run is forced back one step and retried.
func RunMigrations(dbURL string) error {
	log := logger.GetLogger()

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, convertToPgx5URL(dbURL))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Info("No migrations applied yet, starting from scratch")
	case err != nil:
		return fmt.Errorf("failed to read migration version: %w", err)
	case dirty:
		clean := int(version) - 1
		log.Warnw("Dirty migration state detected, resetting to retry",
			"dirtyVersion", version,
			"resettingTo", clean)
		if clean < 1 {
			clean = -1
		}
		if err := m.Force(clean); err != nil {
			return fmt.Errorf("failed to reset dirty migration: %w", err)
		}
	default:
		log.Infow("Current migration version", "version", version)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Database is up to date, no migrations to apply")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	if version, dirty, err := m.Version(); err == nil {
		log.Infow("Migrations applied successfully", "currentVersion", version, "dirty", dirty)
	}
	return nil
}

// convertToPgx5URL switches a postgres:// URL to the pgx5:// scheme the
// pgx v5 migrate driver registers.
func convertToPgx5URL(dbURL string) string {
	for _, scheme := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dbURL, scheme) {
			return "pgx5://" + strings.TrimPrefix(dbURL, scheme)
		}
	}
	return dbURL
}
