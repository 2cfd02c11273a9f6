package classification

import (
	"testing"

	"github.com/Veraticus/industry-atlas/internal/model"
	"github.com/Veraticus/industry-atlas/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []model.ClassificationRecord {
	return []model.ClassificationRecord{
		{Code: "01", Level: 1, Name: "Mixed farming"},
		{Code: "33", Level: 1, Name: "Repair of machinery"},
		{Code: "011", Level: 2, Name: "Agriculture of perennial crops"},
		{Code: "99", Level: 1, Name: "Quantum flux capacitor"},
	}
}

func TestClassifier_Bucket(t *testing.T) {
	c := NewClassifier(reducedTable(t))
	b := c.Bucket(sampleRecords())

	agri, ok := b.Get("A")
	require.True(t, ok)
	assert.Equal(t, []string{"01", "011"}, codes(agri.Items))
	assert.Equal(t, "Agriculture", agri.Definition.Label)

	other, ok := b.Get("T")
	require.True(t, ok)
	assert.Equal(t, []string{"33", "99"}, codes(other.Items))

	assert.Equal(t, 4, b.Total())
	assert.Equal(t, map[string]int{"A": 2, "T": 2}, b.Counts())
}

func TestClassifier_BucketPartition(t *testing.T) {
	table := taxonomy.Default()
	c := NewClassifier(table)

	records := append(sampleRecords(),
		model.ClassificationRecord{Code: "55", Level: 1, Name: "Accommodation"},
		model.ClassificationRecord{Code: "64", Level: 1, Name: "Financial service activities"},
	)
	b := c.Bucket(records)

	sum := 0
	for _, bucket := range b.All() {
		sum += bucket.Count()
	}
	assert.Equal(t, len(records), sum)
	assert.Len(t, b.All(), table.Len())
}

func TestClassifier_BucketEmptyInput(t *testing.T) {
	table := taxonomy.Default()
	b := NewClassifier(table).Bucket(nil)

	all := b.All()
	require.Len(t, all, table.Len())
	for i, bucket := range all {
		assert.Equal(t, table.IDs()[i], bucket.Definition.ID)
		assert.NotNil(t, bucket.Items)
		assert.Empty(t, bucket.Items)
	}
	assert.Zero(t, b.Total())
}

func TestClassifier_BucketIdempotent(t *testing.T) {
	c := NewClassifier(reducedTable(t))

	first := c.Bucket(sampleRecords())
	second := c.Bucket(sampleRecords())
	assert.Equal(t, first.Counts(), second.Counts())
	for _, id := range []string{"A", "T"} {
		a, _ := first.Get(id)
		b, _ := second.Get(id)
		assert.Equal(t, a.Items, b.Items)
	}
}

func TestBrowse(t *testing.T) {
	b := NewClassifier(reducedTable(t)).Bucket(sampleRecords())

	tests := []struct {
		name       string
		categoryID string
		term       string
		want       []string
	}{
		{name: "everything", categoryID: AllCategories, want: []string{"01", "011", "33", "99"}},
		{name: "empty id means all", categoryID: "", want: []string{"01", "011", "33", "99"}},
		{name: "one category", categoryID: "T", want: []string{"33", "99"}},
		{name: "term on name", categoryID: AllCategories, term: "MACHINERY", want: []string{"33"}},
		{name: "term on code", categoryID: AllCategories, term: "011", want: []string{"011"}},
		{name: "term within category", categoryID: "A", term: "crops", want: []string{"011"}},
		{name: "unknown category", categoryID: "ZZ", want: nil},
		{name: "no match", categoryID: "A", term: "repair", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codesOrNil(Browse(b, tt.categoryID, tt.term)))
		})
	}
}

func TestCache(t *testing.T) {
	cache := NewCache(NewClassifier(reducedTable(t)))

	first := cache.Buckets(sampleRecords())
	second := cache.Buckets(sampleRecords())
	assert.Same(t, first, second)

	hits, misses := cache.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)

	changed := append(sampleRecords(), model.ClassificationRecord{Code: "02", Level: 1, Name: "Forestry farming"})
	third := cache.Buckets(changed)
	assert.NotSame(t, first, third)
	assert.Equal(t, 5, third.Total())

	cache.Invalidate()
	fourth := cache.Buckets(changed)
	assert.NotSame(t, third, fourth)

	hits, misses = cache.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 3, misses)
}

func TestBuckets_AccessorsReturnCopies(t *testing.T) {
	cache := NewCache(NewClassifier(reducedTable(t)))
	b := cache.Buckets(sampleRecords())

	agri, ok := b.Get("A")
	require.True(t, ok)
	want := agri.Count()
	agri.Items = append(agri.Items, model.ClassificationRecord{Code: "99", Name: "Injected"})
	agri.Definition.Keywords[0] = "changed"

	for _, bucket := range b.All() {
		bucket.Items = nil
	}

	again, ok := cache.Buckets(sampleRecords()).Get("A")
	require.True(t, ok)
	assert.Equal(t, want, again.Count())
	assert.NotEqual(t, "changed", again.Definition.Keywords[0])
	assert.Equal(t, want, b.Counts()["A"])
}

func codes(items []model.ClassificationRecord) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Code)
	}
	return out
}

func codesOrNil(items []model.ClassificationRecord) []string {
	if len(items) == 0 {
		return nil
	}
	return codes(items)
}
