// Package export writes company search results to files and spreadsheets.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/industry-atlas/internal/common"
	"github.com/Veraticus/industry-atlas/internal/filter"
	"github.com/Veraticus/industry-atlas/internal/model"
)

// DefaultMaxItems caps how many companies one export fetches.
const DefaultMaxItems = 10000

// DefaultBaseName is the file name prefix when none is given.
const DefaultBaseName = "companies_export"

// Column is one exported field.
type Column struct {
	Name  string
	Value func(model.Company) string
	Width int
}

// Columns are the exported fields, in order. Width is in characters.
var Columns = []Column{
	{Name: "name", Width: 30, Value: func(c model.Company) string { return c.Name }},
	{Name: "business_id", Width: 15, Value: func(c model.Company) string { return c.BusinessID }},
	{Name: "industry", Width: 25, Value: func(c model.Company) string { return c.Industry }},
	{Name: "city", Width: 20, Value: func(c model.Company) string { return c.City }},
	{Name: "company_type", Width: 20, Value: func(c model.Company) string { return c.CompanyType }},
	{Name: "registration_date", Width: 15, Value: func(c model.Company) string {
		if c.RegistrationDate == nil {
			return ""
		}
		return c.RegistrationDate.Format(filter.DateLayout)
	}},
	{Name: "address", Width: 40, Value: func(c model.Company) string { return c.Address }},
}

// Header returns the column names.
func Header() []string {
	names := make([]string, len(Columns))
	for i, col := range Columns {
		names[i] = col.Name
	}
	return names
}

// Row renders c in column order.
func Row(c model.Company) []string {
	row := make([]string, len(Columns))
	for i, col := range Columns {
		row[i] = col.Value(c)
	}
	return row
}

// FileName returns "<base>_YYYY-MM-DD.<ext>" for the day of now.
func FileName(base, ext string, now time.Time) string {
	if base == "" {
		base = DefaultBaseName
	}
	return fmt.Sprintf("%s_%s.%s", base, now.Format(filter.DateLayout), ext)
}

// Searcher returns pages of companies.
type Searcher interface {
	SearchCompanies(ctx context.Context, filters filter.CompanyFilters) (*model.CompanyPage, error)
}

// pageSize is how many rows Collect requests at a time.
const pageSize = 500

// Collect pages through every company matching filters, stopping after
// maxItems. It returns common.ErrNothingToExport when nothing matches.
func Collect(ctx context.Context, store Searcher, filters filter.CompanyFilters, maxItems int) ([]model.Company, error) {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	var out []model.Company
	filters.Limit = min(pageSize, maxItems)
	for filters.Page = 1; len(out) < maxItems; filters.Page++ {
		page, err := store.SearchCompanies(ctx, filters)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", filters.Page, err)
		}
		out = append(out, page.Companies...)
		if len(page.Companies) < filters.Limit || filters.Page >= page.TotalPages() {
			break
		}
	}

	if len(out) > maxItems {
		out = out[:maxItems]
	}
	if len(out) == 0 {
		return nil, common.ErrNothingToExport
	}
	return out, nil
}
