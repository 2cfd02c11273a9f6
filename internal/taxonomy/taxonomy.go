// Package taxonomy holds the immutable table of business categories used to
// classify industry codes and to translate category selections into filters.
package taxonomy

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Veraticus/industry-atlas/internal/model"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidTaxonomy reports a category table that violates its invariants.
var ErrInvalidTaxonomy = errors.New("invalid taxonomy")

// Table is an ordered, read-only set of category definitions.
// Table order is both the matching priority and the listing order.
type Table struct {
	byID       map[string]int
	categories []model.CategoryDefinition
	fallback   int
}

// New validates defs and builds a table from them. Keywords are normalized
// to lowercase so that a mixed-case configuration still matches.
func New(defs []model.CategoryDefinition) (*Table, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("%w: no categories defined", ErrInvalidTaxonomy)
	}

	t := &Table{
		byID:       make(map[string]int, len(defs)),
		categories: make([]model.CategoryDefinition, 0, len(defs)),
		fallback:   -1,
	}

	for i, def := range defs {
		id := strings.TrimSpace(def.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: category at index %d has no id", ErrInvalidTaxonomy, i)
		}
		if _, dup := t.byID[id]; dup {
			return nil, fmt.Errorf("%w: duplicate category id %q", ErrInvalidTaxonomy, id)
		}
		if len(def.Keywords) == 0 {
			return nil, fmt.Errorf("%w: category %q has no keywords", ErrInvalidTaxonomy, id)
		}

		keywords := make([]string, 0, len(def.Keywords))
		for _, kw := range def.Keywords {
			kw = Normalize(strings.TrimSpace(kw))
			if kw == "" {
				return nil, fmt.Errorf("%w: category %q has an empty keyword", ErrInvalidTaxonomy, id)
			}
			keywords = append(keywords, kw)
		}

		if def.Fallback {
			if t.fallback >= 0 {
				return nil, fmt.Errorf("%w: categories %q and %q are both marked fallback",
					ErrInvalidTaxonomy, t.categories[t.fallback].ID, id)
			}
			t.fallback = i
		}

		label := strings.TrimSpace(def.Label)
		if label == "" {
			label = id
		}

		t.byID[id] = i
		t.categories = append(t.categories, model.CategoryDefinition{
			ID:       id,
			Label:    label,
			Keywords: keywords,
			Fallback: def.Fallback,
		})
	}

	if t.fallback < 0 {
		return nil, fmt.Errorf("%w: no fallback category", ErrInvalidTaxonomy)
	}

	return t, nil
}

// MustNew is New for package-level tables; it panics on invalid input.
func MustNew(defs []model.CategoryDefinition) *Table {
	t, err := New(defs)
	if err != nil {
		panic(err)
	}
	return t
}

// All returns every category in table order.
func (t *Table) All() []model.CategoryDefinition {
	out := make([]model.CategoryDefinition, len(t.categories))
	for i, c := range t.categories {
		out[i] = cloneDefinition(c)
	}
	return out
}

// Len returns the number of categories.
func (t *Table) Len() int {
	return len(t.categories)
}

// IDs returns the category ids in table order.
func (t *Table) IDs() []string {
	ids := make([]string, len(t.categories))
	for i, c := range t.categories {
		ids[i] = c.ID
	}
	return ids
}

// ByID looks up a category. Unknown ids report false.
func (t *Table) ByID(id string) (model.CategoryDefinition, bool) {
	i, ok := t.byID[id]
	if !ok {
		return model.CategoryDefinition{}, false
	}
	return cloneDefinition(t.categories[i]), true
}

// Fallback returns the category that catches unmatched records.
func (t *Table) Fallback() model.CategoryDefinition {
	return cloneDefinition(t.categories[t.fallback])
}

// Search returns the categories whose label or any keyword contains term,
// ignoring case. An empty term returns every category.
func (t *Table) Search(term string) []model.CategoryDefinition {
	term = Normalize(strings.TrimSpace(term))
	if term == "" {
		return t.All()
	}

	var out []model.CategoryDefinition
	for _, c := range t.categories {
		if strings.Contains(Normalize(c.Label), term) ||
			slices.ContainsFunc(c.Keywords, func(kw string) bool { return strings.Contains(kw, term) }) {
			out = append(out, cloneDefinition(c))
		}
	}
	return out
}

// Normalize folds s into the form keywords are compared in:
// NFKC-normalized and lowercased.
func Normalize(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}

func cloneDefinition(c model.CategoryDefinition) model.CategoryDefinition {
	c.Keywords = slices.Clone(c.Keywords)
	return c
}
