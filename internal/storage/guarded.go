package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Veraticus/industry-atlas/internal/common"
	"github.com/Veraticus/industry-atlas/internal/filter"
	"github.com/Veraticus/industry-atlas/internal/model"
	"github.com/Veraticus/industry-atlas/internal/service"
)

// BreakerConfig holds the configuration for the store circuit breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive store failures that open the circuit.
	MaxFailures uint32
	// Timeout is how long the circuit stays open before letting a probe through.
	Timeout time.Duration
	// HalfOpenMaxRequests is the number of probes allowed while half-open.
	HalfOpenMaxRequests uint32
}

// DefaultBreakerConfig returns the breaker settings used when none are configured.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures:         3,
		Timeout:             30 * time.Second,
		HalfOpenMaxRequests: 1,
	}
}

// Guarded wraps a CompanyStore in a circuit breaker. Once the backing store
// has failed MaxFailures times in a row, calls fail fast with
// common.ErrStoreUnavailable until Timeout elapses.
type Guarded struct {
	store   service.CompanyStore
	breaker *gobreaker.CircuitBreaker
}

// NewGuarded wraps store.
func NewGuarded(store service.CompanyStore, cfg BreakerConfig) *Guarded {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = DefaultBreakerConfig().MaxFailures
	}
	settings := gobreaker.Settings{
		Name:        "company-store",
		MaxRequests: cfg.HalfOpenMaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// Only backing-store failures count against the store.
			return err == nil || !common.IsStoreError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String())
		},
	}
	return &Guarded{store: store, breaker: gobreaker.NewCircuitBreaker(settings)}
}

// State returns the breaker state: closed, open or half-open.
func (g *Guarded) State() string {
	return g.breaker.State().String()
}

func guard[T any](ctx context.Context, g *Guarded, op string, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	result, err := g.breaker.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, common.NewStoreError(op, errors.Join(common.ErrStoreUnavailable, err))
	}
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}

// SearchCompanies implements service.CompanyStore.
func (g *Guarded) SearchCompanies(ctx context.Context, filters filter.CompanyFilters) (*model.CompanyPage, error) {
	return guard(ctx, g, "search companies", func() (*model.CompanyPage, error) {
		return g.store.SearchCompanies(ctx, filters)
	})
}

// GetCompany implements service.CompanyStore.
func (g *Guarded) GetCompany(ctx context.Context, id int64) (*model.Company, error) {
	return guard(ctx, g, "get company", func() (*model.Company, error) {
		return g.store.GetCompany(ctx, id)
	})
}

// SaveCompanies implements service.CompanyStore.
func (g *Guarded) SaveCompanies(ctx context.Context, companies []model.Company) error {
	_, err := guard(ctx, g, "save companies", func() (struct{}, error) {
		return struct{}{}, g.store.SaveCompanies(ctx, companies)
	})
	return err
}

// CountMatching implements service.CompanyStore.
func (g *Guarded) CountMatching(ctx context.Context, p filter.Predicate) (int, error) {
	return guard(ctx, g, "count companies", func() (int, error) {
		return g.store.CountMatching(ctx, p)
	})
}
