// Package storage provides the data persistence layer for the company directory.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/industry-atlas/internal/filter"
	"github.com/Veraticus/industry-atlas/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrEmptySlice     = errors.New("slice cannot be empty")
	ErrInvalidRange   = errors.New("range minimum is above its maximum")
	ErrInvalidCompany = errors.New("invalid company")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// ValidateCompanies checks a batch before it is saved: it must be non-empty
// and every company needs a business id and a name and no negative revenue.
// Every company store applies it.
func ValidateCompanies(companies []model.Company) error {
	if companies == nil {
		return fmt.Errorf("%w: companies", ErrNilParameter)
	}
	if len(companies) == 0 {
		return fmt.Errorf("%w: companies", ErrEmptySlice)
	}

	for i := range companies {
		if err := validateCompany(&companies[i]); err != nil {
			return fmt.Errorf("company at index %d: %w", i, err)
		}
	}
	return nil
}

// validateCompany validates a single company.
func validateCompany(c *model.Company) error {
	if c == nil {
		return fmt.Errorf("%w: company", ErrNilParameter)
	}
	if strings.TrimSpace(c.BusinessID) == "" {
		return fmt.Errorf("%w: missing business id", ErrInvalidCompany)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCompany)
	}
	if c.Revenue != nil && *c.Revenue < 0 {
		return fmt.Errorf("%w: negative revenue", ErrInvalidCompany)
	}
	return nil
}

// ValidateFilters rejects inverted revenue or date ranges.
func ValidateFilters(f filter.CompanyFilters) error {
	if f.MinRevenue != nil && f.MaxRevenue != nil && *f.MinRevenue > *f.MaxRevenue {
		return fmt.Errorf("%w: revenue %v > %v", ErrInvalidRange, *f.MinRevenue, *f.MaxRevenue)
	}
	if f.MinDate != nil && f.MaxDate != nil && f.MinDate.After(*f.MaxDate) {
		return fmt.Errorf("%w: registration date %s > %s", ErrInvalidRange,
			f.MinDate.Format(filter.DateLayout), f.MaxDate.Format(filter.DateLayout))
	}
	return nil
}
