package filter

import (
	"slices"
	"testing"
	"time"

	"github.com/Veraticus/industry-atlas/internal/model"
	"github.com/Veraticus/industry-atlas/internal/taxonomy"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *taxonomy.Table {
	t.Helper()
	table, err := taxonomy.New([]model.CategoryDefinition{
		{ID: "A", Label: "Agriculture", Keywords: []string{"agriculture", "farming"}},
		{ID: "B", Label: "Food", Keywords: []string{"food", "farming", "dairy"}},
		{ID: "T", Label: "Other", Keywords: []string{"repair"}, Fallback: true},
	})
	require.NoError(t, err)
	return table
}

func TestTranslator_ToKeywords(t *testing.T) {
	tr := NewTranslator(testTable(t))

	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{name: "empty selection", ids: nil, want: []string{}},
		{name: "single category", ids: []string{"A"}, want: []string{"agriculture", "farming"}},
		{name: "shared keyword appears once", ids: []string{"A", "B"}, want: []string{"agriculture", "farming", "food", "dairy"}},
		{name: "first seen order follows selection", ids: []string{"B", "A"}, want: []string{"food", "farming", "dairy", "agriculture"}},
		{name: "unknown ids are skipped", ids: []string{"ZZ", "T", "QQ"}, want: []string{"repair"}},
		{name: "only unknown ids", ids: []string{"ZZ"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tr.ToKeywords(model.NewFilterSelection(tt.ids...))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ToKeywords() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTranslator_ToKeywordsMonotonic(t *testing.T) {
	table := taxonomy.Default()
	tr := NewTranslator(table)
	ids := table.IDs()

	for _, a := range ids {
		for _, b := range ids {
			single := tr.ToKeywords(model.NewFilterSelection(a))
			both := tr.ToKeywords(model.NewFilterSelection(a, b))
			reversed := tr.ToKeywords(model.NewFilterSelection(b, a))

			for _, kw := range single {
				assert.Contains(t, both, kw, "selecting %s then %s dropped %q", a, b, kw)
			}

			sortedBoth := slices.Clone(both)
			sortedReversed := slices.Clone(reversed)
			slices.Sort(sortedBoth)
			slices.Sort(sortedReversed)
			assert.Equal(t, sortedBoth, sortedReversed, "{%s,%s} differs from {%s,%s}", a, b, b, a)

			assert.Equal(t, len(both), len(uniq(both)), "duplicates for {%s,%s}", a, b)
		}
	}
}

func TestTranslator_UnknownIDs(t *testing.T) {
	tr := NewTranslator(testTable(t))

	assert.Equal(t, []string{"ZZ"}, tr.UnknownIDs(model.NewFilterSelection("A", "ZZ")))
	assert.Empty(t, tr.UnknownIDs(model.NewFilterSelection("A")))
}

func TestToPredicate(t *testing.T) {
	p := ToPredicate([]string{"agriculture", "farming"}, "industry")
	assert.Equal(t, "industry ILIKE '%agriculture%' OR industry ILIKE '%farming%'", p.String())

	single := ToPredicate([]string{"repair"}, "industry")
	assert.Equal(t, Contains{Field: "industry", Value: "repair"}, single)

	assert.True(t, IsTrue(ToPredicate(nil, "industry")))
	assert.True(t, IsTrue(ToPredicate([]string{}, "industry")))
}

func TestTranslator_ConcreteScenario(t *testing.T) {
	table, err := taxonomy.New([]model.CategoryDefinition{
		{ID: "A", Label: "Agriculture", Keywords: []string{"agriculture", "farming"}},
		{ID: "T", Label: "Other", Keywords: []string{"repair"}, Fallback: true},
	})
	require.NoError(t, err)
	tr := NewTranslator(table)

	keywords := tr.ToKeywords(model.NewFilterSelection("A"))
	assert.Equal(t, []string{"agriculture", "farming"}, keywords)
	assert.Equal(t,
		"industry ILIKE '%agriculture%' OR industry ILIKE '%farming%'",
		ToPredicate(keywords, "industry").String())
}

func TestTranslator_Build(t *testing.T) {
	tr := NewTranslator(testTable(t))
	minRev, maxRev := 1000.0, 5000.5
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		want    string
		filters CompanyFilters
	}{
		{
			name:    "no filters",
			filters: CompanyFilters{},
			want:    "TRUE",
		},
		{
			name:    "blank strings are ignored",
			filters: CompanyFilters{City: "  ", Search: ""},
			want:    "TRUE",
		},
		{
			name:    "free text search spans name and business id",
			filters: CompanyFilters{Search: "acme"},
			want:    "name ILIKE '%acme%' OR business_id ILIKE '%acme%'",
		},
		{
			name:    "category filter alone",
			filters: CompanyFilters{Categories: model.NewFilterSelection("A")},
			want:    "industry ILIKE '%agriculture%' OR industry ILIKE '%farming%'",
		},
		{
			name: "category filter combined with other fields",
			filters: CompanyFilters{
				City:        "Helsinki",
				CompanyType: "Oy",
				Categories:  model.NewFilterSelection("A"),
			},
			want: "city ILIKE '%Helsinki%' AND company_type = 'Oy' AND " +
				"(industry ILIKE '%agriculture%' OR industry ILIKE '%farming%')",
		},
		{
			name:    "revenue and date ranges",
			filters: CompanyFilters{MinRevenue: &minRev, MaxRevenue: &maxRev, MinDate: &from, MaxDate: &to},
			want: "revenue >= 1000 AND revenue <= 5000.5 AND " +
				"registration_date >= '2020-01-01' AND registration_date <= '2021-12-31'",
		},
		{
			name:    "open ended range",
			filters: CompanyFilters{MinRevenue: &minRev, Status: "active"},
			want:    "status = 'active' AND revenue >= 1000",
		},
		{
			name:    "unknown category contributes nothing",
			filters: CompanyFilters{Industry: "bakery", Categories: model.NewFilterSelection("ZZ")},
			want:    "industry ILIKE '%bakery%'",
		},
		{
			name:    "quotes are escaped in the readable form",
			filters: CompanyFilters{CompanyName: "O'Brien"},
			want:    "name ILIKE '%O''Brien%'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Build(tt.filters).String())
		})
	}
}

func TestCompanyFilters_Window(t *testing.T) {
	page, limit, offset := CompanyFilters{}.Window()
	assert.Equal(t, []int{1, 10, 0}, []int{page, limit, offset})

	page, limit, offset = CompanyFilters{Page: 3, Limit: 25}.Window()
	assert.Equal(t, []int{3, 25, 50}, []int{page, limit, offset})

	page, limit, offset = CompanyFilters{Page: -1, Limit: -5}.Window()
	assert.Equal(t, []int{1, 10, 0}, []int{page, limit, offset})
}

func uniq(s []string) []string {
	out := slices.Clone(s)
	slices.Sort(out)
	return slices.Compact(out)
}
