// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/industry-atlas/internal/filter"
	"github.com/Veraticus/industry-atlas/internal/model"
)

// CompanyStore defines the contract for the company directory.
// Backing-store failures are returned as a *common.StoreError; a missing
// company and invalid arguments are not store failures.
type CompanyStore interface {
	// SearchCompanies returns one page of companies matching filters,
	// ordered by name, with the exact count of all matches.
	SearchCompanies(ctx context.Context, filters filter.CompanyFilters) (*model.CompanyPage, error)
	// GetCompany returns the company with id or common.ErrNotFound.
	GetCompany(ctx context.Context, id int64) (*model.Company, error)
	// SaveCompanies inserts companies, updating rows with a known business id.
	SaveCompanies(ctx context.Context, companies []model.Company) error
	// CountMatching counts the companies satisfying p.
	CountMatching(ctx context.Context, p filter.Predicate) (int, error)
}

// Storage is a CompanyStore that also manages its own schema.
type Storage interface {
	CompanyStore
	Migrate(ctx context.Context) error
	Close() error
}

// CompanyExporter writes a set of companies somewhere outside the store.
type CompanyExporter interface {
	Export(ctx context.Context, companies []model.Company) (string, error)
}
