package classification

import (
	"slices"
	"strings"

	"github.com/Veraticus/industry-atlas/internal/model"
	"github.com/Veraticus/industry-atlas/internal/taxonomy"
)

// AllCategories selects every bucket in Browse.
const AllCategories = "all"

// Buckets is the partition of a record set over the taxonomy.
// Every category has a bucket, empty or not, kept in table order.
// A Buckets is immutable; accessors hand out copies.
type Buckets struct {
	byID  map[string]*model.CategoryBucket
	order []string
	total int
}

// Bucket partitions records by category. Items keep their input order.
func (c *Classifier) Bucket(records []model.ClassificationRecord) *Buckets {
	b := &Buckets{
		byID:  make(map[string]*model.CategoryBucket, len(c.categories)),
		order: make([]string, 0, len(c.categories)),
		total: len(records),
	}
	for _, cat := range c.categories {
		b.byID[cat.ID] = &model.CategoryBucket{Definition: cat, Items: []model.ClassificationRecord{}}
		b.order = append(b.order, cat.ID)
	}

	for _, r := range records {
		id := c.Classify(r)
		bucket := b.byID[id]
		bucket.Items = append(bucket.Items, r)
	}

	return b
}

// Get returns a copy of the bucket for a category id.
func (b *Buckets) Get(id string) (*model.CategoryBucket, bool) {
	bucket, ok := b.byID[id]
	if !ok {
		return nil, false
	}
	return cloneBucket(bucket), true
}

// All returns the buckets in table order.
func (b *Buckets) All() []*model.CategoryBucket {
	out := make([]*model.CategoryBucket, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, cloneBucket(b.byID[id]))
	}
	return out
}

func cloneBucket(b *model.CategoryBucket) *model.CategoryBucket {
	return &model.CategoryBucket{
		Definition: model.CategoryDefinition{
			ID:       b.Definition.ID,
			Label:    b.Definition.Label,
			Keywords: slices.Clone(b.Definition.Keywords),
			Fallback: b.Definition.Fallback,
		},
		Items: slices.Clone(b.Items),
	}
}

// Counts returns the number of items per category id.
func (b *Buckets) Counts() map[string]int {
	counts := make(map[string]int, len(b.byID))
	for id, bucket := range b.byID {
		counts[id] = len(bucket.Items)
	}
	return counts
}

// Total returns the number of records that were bucketed.
func (b *Buckets) Total() int {
	return b.total
}

// Browse lists the records of one category, or of all categories when
// categoryID is empty or AllCategories, keeping those whose name or code
// contains term. Unknown category ids yield nothing.
func Browse(b *Buckets, categoryID, term string) []model.ClassificationRecord {
	var buckets []*model.CategoryBucket
	if categoryID == "" || categoryID == AllCategories {
		buckets = b.All()
	} else if bucket, ok := b.Get(categoryID); ok {
		buckets = []*model.CategoryBucket{bucket}
	}

	term = taxonomy.Normalize(strings.TrimSpace(term))
	var out []model.ClassificationRecord
	for _, bucket := range buckets {
		for _, item := range bucket.Items {
			if term == "" ||
				strings.Contains(taxonomy.Normalize(item.Name), term) ||
				strings.Contains(taxonomy.Normalize(item.Code), term) {
				out = append(out, item)
			}
		}
	}
	return out
}
