// Package classification assigns industry classification records to business
// categories and groups them into per-category buckets.
package classification

import (
	"strings"

	"github.com/Veraticus/industry-atlas/internal/model"
	"github.com/Veraticus/industry-atlas/internal/taxonomy"
)

// Classifier assigns exactly one category to each classification record.
// It is stateless after construction and safe for concurrent use.
type Classifier struct {
	table      *taxonomy.Table
	categories []model.CategoryDefinition
	fallbackID string
}

// NewClassifier creates a classifier over table.
func NewClassifier(table *taxonomy.Table) *Classifier {
	return &Classifier{
		table:      table,
		categories: table.All(),
		fallbackID: table.Fallback().ID,
	}
}

// Table returns the taxonomy the classifier matches against.
func (c *Classifier) Table() *taxonomy.Table {
	return c.table
}

// Classify returns the id of the first category, in table order, with a
// keyword contained in the record's name. Records matching nothing get the
// fallback category.
func (c *Classifier) Classify(record model.ClassificationRecord) string {
	id, _ := c.match(taxonomy.Normalize(record.Name))
	return id
}

// Explain is Classify that also reports the keyword that decided the match.
// The keyword is empty when the record fell through to the fallback.
func (c *Classifier) Explain(record model.ClassificationRecord) (id, keyword string) {
	return c.match(taxonomy.Normalize(record.Name))
}

func (c *Classifier) match(name string) (string, string) {
	if name == "" {
		return c.fallbackID, ""
	}
	for _, cat := range c.categories {
		for _, kw := range cat.Keywords {
			if strings.Contains(name, kw) {
				return cat.ID, kw
			}
		}
	}
	return c.fallbackID, ""
}
