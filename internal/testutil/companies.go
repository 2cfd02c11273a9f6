package testutil

import (
	"fmt"
	"time"

	"github.com/Veraticus/industry-atlas/internal/model"
)

// CompanyBuilder assembles company fixtures with a fluent API.
// Business ids are generated in insertion order unless set.
type CompanyBuilder struct {
	companies []model.Company
}

// NewCompanyBuilder starts an empty fixture set.
func NewCompanyBuilder() *CompanyBuilder {
	return &CompanyBuilder{}
}

// WithCompany adds a company with the given name, industry and city.
func (b *CompanyBuilder) WithCompany(name, industry, city string) *CompanyBuilder {
	return b.WithFull(model.Company{Name: name, Industry: industry, City: city})
}

// WithFull adds c as is, filling in a business id when it has none.
func (b *CompanyBuilder) WithFull(c model.Company) *CompanyBuilder {
	if c.BusinessID == "" {
		c.BusinessID = fmt.Sprintf("%07d-%d", 1000000+len(b.companies), len(b.companies)%10)
	}
	b.companies = append(b.companies, c)
	return b
}

// WithBasicCompanies adds one company for each of a few categories of the
// default table: two agriculture, one construction, one retail and one
// that only the fallback category catches.
func (b *CompanyBuilder) WithBasicCompanies() *CompanyBuilder {
	registered := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	revenue := 250000.0

	b.WithCompany("Acme Farming Oy", "Crop farming", "Helsinki")
	b.WithCompany("Charlie Cereals Ab", "Growing of cereals", "Oulu")
	b.WithFull(model.Company{
		Name:             "Bravo Builders Oy",
		Industry:         "Construction of buildings",
		City:             "Tampere",
		CompanyType:      "Osakeyhtiö",
		RegistrationDate: &registered,
		Revenue:          &revenue,
	})
	b.WithCompany("Delta Retail Oy", "Retail sale of clothing", "Turku")
	b.WithCompany("Echo Oy", "", "Espoo")
	return b
}

// Build returns the fixtures.
func (b *CompanyBuilder) Build() []model.Company {
	out := make([]model.Company, len(b.companies))
	copy(out, b.companies)
	return out
}
