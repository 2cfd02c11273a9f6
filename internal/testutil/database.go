// Package testutil provides test databases seeded with company fixtures.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/industry-atlas/internal/model"
	"github.com/Veraticus/industry-atlas/internal/storage"
	"github.com/Veraticus/industry-atlas/internal/taxonomy"
)

// TestDB is a migrated SQLite company store scoped to one test.
type TestDB struct {
	Storage   *storage.SQLiteStorage
	t         *testing.T
	Companies []model.Company
}

// SetupTestDB creates a database in the test's temp dir, migrates it and
// saves companies. The database is closed when the test ends.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.NewCompanyBuilder().
//		WithBasicCompanies().
//		Build())
func SetupTestDB(t *testing.T, companies []model.Company) *TestDB {
	t.Helper()
	return SetupTestDBWithTaxonomy(t, taxonomy.Default(), companies)
}

// SetupTestDBWithTaxonomy is SetupTestDB with a custom category table.
func SetupTestDBWithTaxonomy(t *testing.T, table *taxonomy.Table, companies []model.Company) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"), storage.WithTaxonomy(table))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if len(companies) > 0 {
		if err := store.SaveCompanies(ctx, companies); err != nil {
			t.Fatalf("failed to seed companies: %v", err)
		}
	}

	return &TestDB{Storage: store, t: t, Companies: companies}
}

// MustGet returns the company with id, failing the test if it is missing.
func (db *TestDB) MustGet(id int64) *model.Company {
	db.t.Helper()

	c, err := db.Storage.GetCompany(context.Background(), id)
	if err != nil {
		db.t.Fatalf("failed to get company %d: %v", id, err)
	}
	return c
}
