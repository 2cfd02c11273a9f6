package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Veraticus/industry-atlas/internal/filter"
	"github.com/Veraticus/industry-atlas/internal/taxonomy"

	"github.com/mattn/go-sqlite3"
)

// driverName is go-sqlite3 with the filter fold function on every connection.
const driverName = "sqlite3_atlas"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(filter.FoldFunc, filter.Fold, true)
		},
	})
}

// SQLiteStorage implements service.Storage using SQLite.
type SQLiteStorage struct {
	db         *sql.DB
	translator *filter.Translator
	dbPath     string
}

// Option configures a SQLiteStorage.
type Option func(*SQLiteStorage)

// WithTaxonomy sets the table category filters are translated with.
func WithTaxonomy(table *taxonomy.Table) Option {
	return func(s *SQLiteStorage) {
		s.translator = filter.NewTranslator(table)
	}
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string, opts ...Option) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open(driverName, dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't benefit from multiple connections
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStorage{
		db:         db,
		dbPath:     dbPath,
		translator: filter.NewTranslator(taxonomy.Default()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
