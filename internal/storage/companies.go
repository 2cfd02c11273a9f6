package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/industry-atlas/internal/common"
	"github.com/Veraticus/industry-atlas/internal/filter"
	"github.com/Veraticus/industry-atlas/internal/model"
)

// SearchCompanies returns one page of companies matching filters.
func (s *SQLiteStorage) SearchCompanies(ctx context.Context, filters filter.CompanyFilters) (*model.CompanyPage, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	q, err := BuildSearch(s.translator, filters, filter.SQLite)
	if err != nil {
		return nil, err
	}

	page := &model.CompanyPage{Page: q.Page, Limit: q.Limit, Companies: []model.Company{}}
	if err := s.db.QueryRowContext(ctx, q.Count, q.CountArgs()...).Scan(&page.Total); err != nil {
		return nil, common.NewStoreError("count companies", err)
	}

	rows, err := s.db.QueryContext(ctx, q.Select, q.Args...)
	if err != nil {
		return nil, common.NewStoreError("search companies", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		c, scanErr := ScanCompany(rows)
		if scanErr != nil {
			return nil, common.NewStoreError("search companies", scanErr)
		}
		page.Companies = append(page.Companies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewStoreError("search companies", err)
	}

	return page, nil
}

// GetCompany retrieves a company by id.
func (s *SQLiteStorage) GetCompany(ctx context.Context, id int64) (*model.Company, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+CompanyColumns+" FROM companies WHERE id = ?", id)
	c, err := ScanCompany(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("company %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, common.NewStoreError("get company", err)
	}
	return &c, nil
}

// SaveCompanies upserts companies by business id.
func (s *SQLiteStorage) SaveCompanies(ctx context.Context, companies []model.Company) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := ValidateCompanies(companies); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return common.NewStoreError("save companies", fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO companies (
			business_id, name, industry, city, company_type, address, postal_code,
			country, website, email, phone, status, registration_date, revenue,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(business_id) DO UPDATE SET
			name = excluded.name,
			industry = excluded.industry,
			city = excluded.city,
			company_type = excluded.company_type,
			address = excluded.address,
			postal_code = excluded.postal_code,
			country = excluded.country,
			website = excluded.website,
			email = excluded.email,
			phone = excluded.phone,
			status = excluded.status,
			registration_date = excluded.registration_date,
			revenue = excluded.revenue,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return common.NewStoreError("save companies", fmt.Errorf("failed to prepare statement: %w", err))
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for _, c := range companies {
		_, err = stmt.ExecContext(ctx,
			c.BusinessID, c.Name, c.Industry, c.City, c.CompanyType, c.Address, c.PostalCode,
			c.Country, c.Website, c.Email, c.Phone, c.Status,
			FormatDate(c.RegistrationDate), NullableFloat(c.Revenue),
			now, now,
		)
		if err != nil {
			return common.NewStoreError("save companies", fmt.Errorf("company %s: %w", c.BusinessID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return common.NewStoreError("save companies", err)
	}
	return nil
}

// CountMatching counts the companies satisfying p.
func (s *SQLiteStorage) CountMatching(ctx context.Context, p filter.Predicate) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	where, args, err := filter.Render(p, filter.SQLite)
	if err != nil {
		return 0, err
	}

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM companies WHERE "+where, args...).Scan(&n); err != nil {
		return 0, common.NewStoreError("count companies", err)
	}
	return n, nil
}
