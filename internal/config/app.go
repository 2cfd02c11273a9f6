package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/industry-atlas/internal/common"
	"github.com/Veraticus/industry-atlas/internal/export"
	"github.com/Veraticus/industry-atlas/internal/filter"
	"github.com/Veraticus/industry-atlas/internal/flatfile"
	"github.com/Veraticus/industry-atlas/internal/storage"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// App is the resolved application configuration.
type App struct {
	Database DatabaseConfig
	Taxonomy TaxonomyConfig
	Export   ExportConfig
	Breaker  storage.BreakerConfig
	PageSize int
}

// DatabaseConfig selects and locates the company store.
type DatabaseConfig struct {
	Driver string
	Path   string
	DSN    string
}

// TaxonomyConfig locates the classification flat file and an optional
// category table override.
type TaxonomyConfig struct {
	Source string
	File   string
}

// ExportConfig controls exports.
type ExportConfig struct {
	Dir      string
	MaxItems int
}

// Dir returns the application's config directory, honoring XDG_CONFIG_HOME.
func Dir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "atlas"), nil
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "~/.local/share/atlas/atlas.db")
	v.SetDefault("taxonomy.source", flatfile.DefaultSource)
	v.SetDefault("export.max_items", export.DefaultMaxItems)
	v.SetDefault("export.dir", ".")
	v.SetDefault("search.page_size", filter.DefaultLimit)
	v.SetDefault("breaker.max_failures", storage.DefaultBreakerConfig().MaxFailures)
	v.SetDefault("breaker.timeout", storage.DefaultBreakerConfig().Timeout)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// expandSource expands file paths and leaves URLs untouched.
func expandSource(source string) string {
	if flatfile.IsURL(source) {
		return source
	}
	return ExpandPath(source)
}

// Load resolves the application configuration from v.
func Load(v *viper.Viper) (*App, error) {
	cfg := &App{
		Database: DatabaseConfig{
			Driver: strings.ToLower(strings.TrimSpace(v.GetString("database.driver"))),
			Path:   ExpandPath(v.GetString("database.path")),
			DSN:    v.GetString("database.dsn"),
		},
		Taxonomy: TaxonomyConfig{
			Source: expandSource(v.GetString("taxonomy.source")),
			File:   ExpandPath(v.GetString("taxonomy.file")),
		},
		Export: ExportConfig{
			Dir:      ExpandPath(v.GetString("export.dir")),
			MaxItems: v.GetInt("export.max_items"),
		},
		Breaker: storage.BreakerConfig{
			MaxFailures:         v.GetUint32("breaker.max_failures"),
			Timeout:             v.GetDuration("breaker.timeout"),
			HalfOpenMaxRequests: 1,
		},
		PageSize: v.GetInt("search.page_size"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the resolved configuration.
func (a *App) Validate() error {
	switch a.Database.Driver {
	case DriverSQLite:
		if a.Database.Path == "" {
			return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
		}
	case DriverPostgres:
		if a.Database.DSN == "" {
			return fmt.Errorf("%w: database.dsn is required for the postgres driver", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: unknown database.driver %q", common.ErrInvalidConfig, a.Database.Driver)
	}

	if a.Export.MaxItems <= 0 {
		return fmt.Errorf("%w: export.max_items must be positive", common.ErrInvalidConfig)
	}
	if a.PageSize <= 0 {
		return fmt.Errorf("%w: search.page_size must be positive", common.ErrInvalidConfig)
	}
	if a.Breaker.Timeout < 0 || a.Breaker.Timeout > 24*time.Hour {
		return fmt.Errorf("%w: breaker.timeout out of range", common.ErrInvalidConfig)
	}
	return nil
}
