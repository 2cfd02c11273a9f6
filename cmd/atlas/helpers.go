package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/Veraticus/industry-atlas/internal/classification"
	"github.com/Veraticus/industry-atlas/internal/config"
	"github.com/Veraticus/industry-atlas/internal/filter"
	"github.com/Veraticus/industry-atlas/internal/service"
	"github.com/Veraticus/industry-atlas/internal/storage"
	"github.com/Veraticus/industry-atlas/internal/storage/postgres"
	"github.com/Veraticus/industry-atlas/internal/taxonomy"
)

// envKeyReplacer maps nested keys onto env names: database.dsn -> ATLAS_DATABASE_DSN.
var envKeyReplacer = strings.NewReplacer(".", "_")

const sessionFileName = "session"

// env holds what a command needs, opened on first use.
type env struct {
	app    *config.App
	table  *taxonomy.Table
	cache  *classification.Cache
	store  service.Storage
	guard  *storage.Guarded
	local  *storage.SQLiteStorage
	closed bool
}

// loadEnv resolves the configuration and the category table.
func loadEnv() (*env, error) {
	app, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	table, err := loadTaxonomy(app.Taxonomy.File)
	if err != nil {
		return nil, err
	}
	return &env{app: app, table: table, cache: classification.NewCache(classification.NewClassifier(table))}, nil
}

// loadTaxonomy returns the category table from file, or the built-in table
// when no file is configured.
func loadTaxonomy(file string) (*taxonomy.Table, error) {
	if file == "" {
		return taxonomy.Default(), nil
	}
	table, err := taxonomy.LoadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy %s: %w", file, err)
	}
	slog.Debug("loaded taxonomy override", "file", file, "categories", table.Len())
	return table, nil
}

func (e *env) translator() *filter.Translator {
	return filter.NewTranslator(e.table)
}

// companies opens the configured company store behind a circuit breaker.
func (e *env) companies(ctx context.Context) (*storage.Guarded, error) {
	if e.guard != nil {
		return e.guard, nil
	}

	var store service.Storage
	switch e.app.Database.Driver {
	case config.DriverPostgres:
		pg, err := postgres.Open(e.app.Database.DSN, e.table)
		if err != nil {
			return nil, err
		}
		store = pg
	default:
		local, err := e.localStore(ctx)
		if err != nil {
			return nil, err
		}
		store = local
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	e.store = store
	e.guard = storage.NewGuarded(store, e.app.Breaker)
	return e.guard, nil
}

// localStore opens the SQLite database, which always holds the session
// values and, with the sqlite driver, the companies too.
func (e *env) localStore(ctx context.Context) (*storage.SQLiteStorage, error) {
	if e.local != nil {
		return e.local, nil
	}

	local, err := storage.NewSQLiteStorage(e.app.Database.Path, storage.WithTaxonomy(e.table))
	if err != nil {
		return nil, err
	}
	if err := local.Migrate(ctx); err != nil {
		_ = local.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	e.local = local
	return local, nil
}

// session returns the handoff store of this user's session.
func (e *env) session(ctx context.Context) (*storage.SessionStore, error) {
	local, err := e.localStore(ctx)
	if err != nil {
		return nil, err
	}
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	id, err := sessionID(dir)
	if err != nil {
		return nil, err
	}
	return local.Session(id)
}

// Close releases every opened store.
func (e *env) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	var errs []error
	if e.store != nil && e.store != service.Storage(e.local) {
		errs = append(errs, e.store.Close())
	}
	if e.local != nil {
		errs = append(errs, e.local.Close())
	}
	return errors.Join(errs...)
}

// sessionID returns the session id stored in dir, creating one on first use.
// CLI invocations share it so a selection applied by one command is seen by
// the next.
func sessionID(dir string) (string, error) {
	path := filepath.Join(dir, sessionFileName)

	data, err := os.ReadFile(path) //nolint:gosec // path is under the config dir
	if err == nil {
		if id, parseErr := uuid.Parse(strings.TrimSpace(string(data))); parseErr == nil {
			return id.String(), nil
		}
		slog.Warn("Replacing malformed session file", "path", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to read session file: %w", err)
	}

	id := uuid.NewString()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("failed to write session file: %w", err)
	}
	return id, nil
}
