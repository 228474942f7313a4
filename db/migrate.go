// file: db/migrate.go

package db

import (
	"errors"
	"fmt"
	"granite-core/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies every pending migration found at sourceURL
// (e.g. "file://db/migrations") against the database at connStr.
func RunMigrations(sourceURL, connStr string) error {
	log := logger.Log.WithField("source", sourceURL)
	log.Info("Applying database migrations")

	mig, err := migrate.New(sourceURL, connStr)
	if err != nil {
		return fmt.Errorf("cannot create migrate instance: %w", err)
	}
	defer mig.Close()

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrate up: %w", err)
	}

	version, dirty, err := mig.Version()
	if err == nil {
		log.WithField("version", version).WithField("dirty", dirty).Info("Database schema is up to date")
	}
	return nil
}
