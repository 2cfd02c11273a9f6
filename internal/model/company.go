package model

import "time"

// Company is one entry of the company directory.
type Company struct {
	RegistrationDate *time.Time `json:"registration_date,omitempty"`
	Revenue          *float64   `json:"revenue,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	BusinessID       string     `json:"business_id"`
	Name             string     `json:"name"`
	Industry         string     `json:"industry,omitempty"`
	City             string     `json:"city,omitempty"`
	CompanyType      string     `json:"company_type,omitempty"`
	Address          string     `json:"address,omitempty"`
	PostalCode       string     `json:"postal_code,omitempty"`
	Country          string     `json:"country,omitempty"`
	Website          string     `json:"website,omitempty"`
	Email            string     `json:"email,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Status           string     `json:"status,omitempty"`
	ID               int64      `json:"id"`
}

// CompanyPage is one window of a company search result.
type CompanyPage struct {
	Companies []Company
	Total     int
	Page      int
	Limit     int
}

// TotalPages returns how many pages of Limit rows the result spans.
func (p CompanyPage) TotalPages() int {
	if p.Limit <= 0 || p.Total == 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}
