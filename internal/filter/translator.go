package filter

import (
	"strings"
	"time"

	"github.com/Veraticus/industry-atlas/internal/model"
	"github.com/Veraticus/industry-atlas/internal/taxonomy"
)

// Company columns the filters address.
const (
	FieldName             = "name"
	FieldBusinessID       = "business_id"
	FieldIndustry         = "industry"
	FieldCity             = "city"
	FieldCompanyType      = "company_type"
	FieldAddress          = "address"
	FieldPostalCode       = "postal_code"
	FieldWebsite          = "website"
	FieldStatus           = "status"
	FieldRevenue          = "revenue"
	FieldRegistrationDate = "registration_date"
)

// Paging defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// CompanyFilters are the independent, optional constraints of a company
// search. Empty fields and nil bounds constrain nothing. There is a single
// locality field, City.
type CompanyFilters struct {
	MinRevenue  *float64
	MaxRevenue  *float64
	MinDate     *time.Time
	MaxDate     *time.Time
	Search      string
	CompanyName string
	BusinessID  string
	Industry    string
	City        string
	CompanyType string
	Address     string
	PostalCode  string
	Website     string
	Status      string
	Categories  model.FilterSelection
	Page        int
	Limit       int
}

// Window returns the normalized page and limit and the row offset they imply.
func (f CompanyFilters) Window() (page, limit, offset int) {
	page, limit = f.Page, f.Limit
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	return page, limit, (page - 1) * limit
}

// Translator maps category selections onto keyword filters.
type Translator struct {
	table *taxonomy.Table
}

// NewTranslator creates a translator over table.
func NewTranslator(table *taxonomy.Table) *Translator {
	return &Translator{table: table}
}

// ToKeywords returns the union of the selected categories' keywords,
// deduplicated in first-seen order. Unknown category ids are skipped. An
// empty selection yields an empty list, which means "no category filter".
func (t *Translator) ToKeywords(sel model.FilterSelection) []string {
	keywords := []string{}
	seen := make(map[string]struct{})
	for _, id := range sel.IDs() {
		def, ok := t.table.ByID(id)
		if !ok {
			continue
		}
		for _, kw := range def.Keywords {
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// UnknownIDs returns the selected ids the taxonomy does not define.
func (t *Translator) UnknownIDs(sel model.FilterSelection) []string {
	var unknown []string
	for _, id := range sel.IDs() {
		if _, ok := t.table.ByID(id); !ok {
			unknown = append(unknown, id)
		}
	}
	return unknown
}

// ToPredicate ORs a case-insensitive substring test of field per keyword.
// No keywords give True.
func ToPredicate(keywords []string, field string) Predicate {
	terms := make([]Predicate, 0, len(keywords))
	for _, kw := range keywords {
		terms = append(terms, Contains{Field: field, Value: kw})
	}
	return AnyOf(terms...)
}

// CategoryPredicate is the industry filter for a selection.
func (t *Translator) CategoryPredicate(sel model.FilterSelection) Predicate {
	return ToPredicate(t.ToKeywords(sel), FieldIndustry)
}

// Build ANDs every constraint present in f, including the category filter.
func (t *Translator) Build(f CompanyFilters) Predicate {
	var terms []Predicate

	if s := strings.TrimSpace(f.Search); s != "" {
		terms = append(terms, AnyOf(
			Contains{Field: FieldName, Value: s},
			Contains{Field: FieldBusinessID, Value: s},
		))
	}

	contains := []struct {
		field string
		value string
	}{
		{FieldName, f.CompanyName},
		{FieldBusinessID, f.BusinessID},
		{FieldIndustry, f.Industry},
		{FieldCity, f.City},
		{FieldAddress, f.Address},
		{FieldPostalCode, f.PostalCode},
		{FieldWebsite, f.Website},
	}
	for _, c := range contains {
		if v := strings.TrimSpace(c.value); v != "" {
			terms = append(terms, Contains{Field: c.field, Value: v})
		}
	}

	if v := strings.TrimSpace(f.CompanyType); v != "" {
		terms = append(terms, Equals{Field: FieldCompanyType, Value: v})
	}
	if v := strings.TrimSpace(f.Status); v != "" {
		terms = append(terms, Equals{Field: FieldStatus, Value: v})
	}
	if f.MinRevenue != nil || f.MaxRevenue != nil {
		terms = append(terms, Range{Field: FieldRevenue, Min: f.MinRevenue, Max: f.MaxRevenue})
	}
	if f.MinDate != nil || f.MaxDate != nil {
		terms = append(terms, DateRange{Field: FieldRegistrationDate, From: f.MinDate, To: f.MaxDate})
	}

	terms = append(terms, t.CategoryPredicate(f.Categories))

	return AllOf(terms...)
}
