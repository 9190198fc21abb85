// Package metrics owns the append-only summary_records store and its
// time-window aggregates. The pipeline writes one record per successful run;
// only the dashboard layer reads.
package metrics

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3" // Required by the library implementation.
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type Recorder struct {
	db  *sql.DB
	log *slog.Logger
}

func New(ctx context.Context, dbPath string, log *slog.Logger) (*Recorder, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open DB file: %w", err)
	}

	dbInstance, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return nil, fmt.Errorf("create DB instance: %w", err)
	}

	srcInstance, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("create source instance: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", srcInstance, "sqlite3", dbInstance)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}

	if migrateErr := m.Up(); migrateErr != nil {
		if !errors.Is(migrateErr, migrate.ErrNoChange) {
			return nil, fmt.Errorf("apply migrations: %w", migrateErr)
		}

		log.InfoContext(ctx, "No migrations to apply", "dbPath", dbPath)
	} else {
		log.InfoContext(ctx, "DB is migrated", "dbPath", dbPath)
	}

	return &Recorder{db: db, log: log}, nil
}

func (r *Recorder) Close() error {
	return r.db.Close()
}
