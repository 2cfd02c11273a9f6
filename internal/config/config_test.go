package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/industry-atlas/internal/common"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("ATLAS_TEST_DIR", "/data")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/x/y.db", want: filepath.Join(home, "x/y.db")},
		{in: "$ATLAS_TEST_DIR/atlas.db", want: "/data/atlas.db"},
		{in: "/abs/path", want: "/abs/path"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandPath(tt.in), tt.in)
	}
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.True(t, filepath.IsAbs(cfg.Database.Path))
	assert.Equal(t, 10000, cfg.Export.MaxItems)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, uint32(3), cfg.Breaker.MaxFailures)
	assert.Equal(t, 30*time.Second, cfg.Breaker.Timeout)
	assert.Equal(t, "toimiala_1_20250101.csv", cfg.Taxonomy.Source)
}

func TestLoad_TaxonomySource(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("ATLAS_TEST_DIR", "/data")

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "url kept verbatim", source: "https://example.com/toimiala.csv?sig=$abc&v=$HOME", want: "https://example.com/toimiala.csv?sig=$abc&v=$HOME"},
		{name: "plain http url", source: "http://example.com/$ATLAS_TEST_DIR.csv", want: "http://example.com/$ATLAS_TEST_DIR.csv"},
		{name: "path with env", source: "$ATLAS_TEST_DIR/toimiala.csv", want: "/data/toimiala.csv"},
		{name: "home path", source: "~/toimiala.csv", want: filepath.Join(home, "toimiala.csv")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set("taxonomy.source", tt.source)

			cfg, err := Load(v)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Taxonomy.Source)
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		set     map[string]any
		wantErr error
		name    string
	}{
		{name: "unknown driver", set: map[string]any{"database.driver": "oracle"}, wantErr: common.ErrInvalidConfig},
		{name: "postgres without dsn", set: map[string]any{"database.driver": "postgres"}, wantErr: common.ErrMissingConfig},
		{name: "zero export cap", set: map[string]any{"export.max_items": 0}, wantErr: common.ErrInvalidConfig},
		{name: "zero page size", set: map[string]any{"search.page_size": 0}, wantErr: common.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := Load(v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_Postgres(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("database.driver", "Postgres")
	v.Set("database.dsn", "postgres://u:p@db/atlas")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
}

func TestLoadSheetsConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "")
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "")

	_, err := LoadSheetsConfig()
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	viper.Set("sheets.service_account_path", "/keys/sa.json")
	viper.Set("sheets.sheet_title", "Farms")
	cfg, err := LoadSheetsConfig()
	require.NoError(t, err)
	assert.Equal(t, "/keys/sa.json", cfg.ServiceAccountPath)
	assert.Equal(t, "Farms", cfg.SheetTitle)

	viper.Reset()
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "id")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "refresh")
	cfg, err = LoadSheetsConfig()
	require.NoError(t, err)
	assert.Equal(t, "id", cfg.ClientID)
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, "/xdg/atlas", dir)
}
