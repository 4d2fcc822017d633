package cache

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	domain "user-search-service/internal/domain/user"
)

// InstrumentedPageCache counts hits, misses and errors of the wrapped cache.
type InstrumentedPageCache struct {
	inner   PageCache
	lookups *prometheus.CounterVec
}

// NewInstrumentedPageCache wraps inner and registers its counter on reg.
// A counter already registered on reg is reused.
func NewInstrumentedPageCache(inner PageCache, reg prometheus.Registerer) (*InstrumentedPageCache, error) {
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "usersearch_page_cache_lookups_total",
		Help: "Page cache lookups by result (hit, miss, error).",
	}, []string{"result"})

	if err := reg.Register(lookups); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		lookups = existing
	}

	return &InstrumentedPageCache{inner: inner, lookups: lookups}, nil
}

// Get implements PageCache.
func (c *InstrumentedPageCache) Get(ctx context.Context, key PageKey) (*domain.PageResult, error) {
	result, err := c.inner.Get(ctx, key)
	switch {
	case err != nil:
		c.lookups.WithLabelValues("error").Inc()
	case result == nil:
		c.lookups.WithLabelValues("miss").Inc()
	default:
		c.lookups.WithLabelValues("hit").Inc()
	}
	return result, err
}

// Set implements PageCache.
func (c *InstrumentedPageCache) Set(ctx context.Context, key PageKey, result *domain.PageResult) error {
	return c.inner.Set(ctx, key, result)
}
