// Package stats aggregates the company directory by taxonomy category.
package stats

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/industry-atlas/internal/filter"
	"github.com/Veraticus/industry-atlas/internal/model"
	"github.com/Veraticus/industry-atlas/internal/service"
	"github.com/Veraticus/industry-atlas/internal/taxonomy"
)

// DefaultConcurrency bounds how many category counts run at once.
const DefaultConcurrency = 4

// Counter counts companies matching a predicate.
type Counter interface {
	CountMatching(ctx context.Context, p filter.Predicate) (int, error)
}

var _ Counter = service.CompanyStore(nil)

// CategoryCount is the number of companies whose industry matches a
// category's keywords.
type CategoryCount struct {
	ID    string
	Label string
	Count int
}

// Summary is the per-category breakdown of the directory.
type Summary struct {
	Categories []CategoryCount
	Total      int
}

// CategoryCounts counts every category of table concurrently. Results are
// in table order. Categories share keywords, so the per-category counts
// may add up to more than Total.
func CategoryCounts(ctx context.Context, store Counter, table *taxonomy.Table, concurrency int) (*Summary, error) {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	defs := table.All()
	tr := filter.NewTranslator(table)
	summary := &Summary{Categories: make([]CategoryCount, len(defs))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	g.Go(func() error {
		n, err := store.CountMatching(gctx, filter.True)
		if err != nil {
			return fmt.Errorf("failed to count companies: %w", err)
		}
		summary.Total = n
		return nil
	})

	for i, def := range defs {
		g.Go(func() error {
			n, err := store.CountMatching(gctx, tr.CategoryPredicate(model.NewFilterSelection(def.ID)))
			if err != nil {
				return fmt.Errorf("failed to count category %s: %w", def.ID, err)
			}
			// Each goroutine owns its index.
			summary.Categories[i] = CategoryCount{ID: def.ID, Label: def.Label, Count: n}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}
