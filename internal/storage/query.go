package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/industry-atlas/internal/filter"
	"github.com/Veraticus/industry-atlas/internal/model"
)

// CompanyColumns is the select list ScanCompany expects, in order.
const CompanyColumns = `id, business_id, name, industry, city, company_type, address,
	postal_code, country, website, email, phone, status, registration_date, revenue,
	created_at, updated_at`

// SearchQuery is a company search rendered for one SQL dialect.
type SearchQuery struct {
	Count  string
	Select string
	Args   []any
	Page   int
	Limit  int
}

// BuildSearch renders filters as a counting query and a windowed select
// over the companies table. Select takes Args plus limit and offset.
func BuildSearch(tr *filter.Translator, filters filter.CompanyFilters, d filter.Dialect) (SearchQuery, error) {
	if err := ValidateFilters(filters); err != nil {
		return SearchQuery{}, err
	}

	where, args, err := filter.Render(tr.Build(filters), d)
	if err != nil {
		return SearchQuery{}, err
	}

	page, limit, offset := filters.Window()
	selectArgs := append(append([]any{}, args...), limit, offset)

	return SearchQuery{
		Count: "SELECT COUNT(*) FROM companies WHERE " + where,
		Select: fmt.Sprintf("SELECT %s FROM companies WHERE %s ORDER BY name, id LIMIT %s OFFSET %s",
			CompanyColumns, where, d.Placeholder(len(args)+1), d.Placeholder(len(args)+2)),
		Args:  selectArgs,
		Page:  page,
		Limit: limit,
	}, nil
}

// CountArgs returns the arguments of the Count query.
func (q SearchQuery) CountArgs() []any {
	return q.Args[:len(q.Args)-2]
}

type rowScanner interface {
	Scan(dest ...any) error
}

// ScanCompany reads one row selected with CompanyColumns.
func ScanCompany(row rowScanner) (model.Company, error) {
	var (
		c       model.Company
		regDate sql.NullString
		revenue sql.NullFloat64
	)
	err := row.Scan(
		&c.ID, &c.BusinessID, &c.Name, &c.Industry, &c.City, &c.CompanyType, &c.Address,
		&c.PostalCode, &c.Country, &c.Website, &c.Email, &c.Phone, &c.Status,
		&regDate, &revenue, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return model.Company{}, err
	}

	if regDate.Valid && regDate.String != "" {
		d, parseErr := ParseDate(regDate.String)
		if parseErr != nil {
			return model.Company{}, fmt.Errorf("company %s: %w", c.BusinessID, parseErr)
		}
		c.RegistrationDate = &d
	}
	if revenue.Valid {
		v := revenue.Float64
		c.Revenue = &v
	}
	return c, nil
}

// ParseDate accepts a calendar date or a full timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(filter.DateLayout, s); err == nil {
		return d, nil
	}
	d, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate renders an optional date the way registration_date is stored.
func FormatDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(filter.DateLayout)
}

// NullableFloat converts an optional float to a driver value.
func NullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
