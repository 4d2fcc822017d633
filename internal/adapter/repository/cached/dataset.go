package cached

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	domain "user-search-service/internal/domain/user"
	"user-search-service/internal/usecase/user"
)

const loadKey = "dataset"

// loadTimeout bounds a shared source load. The load runs detached from the
// caller that started it, so it needs its own deadline.
const loadTimeout = 30 * time.Second

// CachedDatasetRepository implements user.Repository by keeping the last
// successfully loaded snapshot in memory. It wraps a source repository
// (file or DB) and reloads it when the snapshot expires or is invalidated.
type CachedDatasetRepository struct {
	source user.Repository
	ttl    time.Duration
	log    *zap.Logger
	group  singleflight.Group

	mu         sync.RWMutex
	snapshot   *domain.Dataset
	loadedAt   time.Time
	generation uint64 // bumped by Invalidate; loads started earlier are not stored
	now        func() time.Time
}

// NewCachedDatasetRepository creates a new instance of CachedDatasetRepository.
// A ttl of zero keeps the snapshot until Invalidate is called.
func NewCachedDatasetRepository(source user.Repository, ttl time.Duration, log *zap.Logger) *CachedDatasetRepository {
	return &CachedDatasetRepository{
		source: source,
		ttl:    ttl,
		log:    log,
		now:    time.Now,
	}
}

// Load returns the cached snapshot, loading it from the source on a miss.
// Failed loads are not cached. Callers sharing a load each wait on their own
// context, and one caller giving up does not cancel the load for the rest.
func (r *CachedDatasetRepository) Load(ctx context.Context) (*domain.Dataset, error) {
	if ds := r.current(); ds != nil {
		return ds, nil
	}

	// Cache miss - use single-flight to prevent stampede
	ch := r.group.DoChan(loadKey, func() (any, error) {
		r.mu.RLock()
		gen := r.generation
		r.mu.RUnlock()

		// Double-check in case another request populated it while we were waiting
		if ds := r.current(); ds != nil {
			return ds, nil
		}

		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		ds, err := r.source.Load(loadCtx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		stored := r.generation == gen
		if stored {
			r.snapshot = ds
			r.loadedAt = r.now()
		}
		r.mu.Unlock()

		if !stored {
			r.log.Info("dataset changed during load, snapshot not kept",
				zap.String("source", ds.Source),
				zap.String("version", ds.Version))
			return ds, nil
		}

		r.log.Info("dataset loaded",
			zap.String("source", ds.Source),
			zap.String("version", ds.Version),
			zap.Int("users", len(ds.Users)))
		return ds, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			r.log.Debug("dataset load shared between callers")
		}
		return res.Val.(*domain.Dataset), nil
	}
}

// Invalidate drops the cached snapshot so the next Load reads the source
// again. A load already in flight still answers its callers but does not
// replace the snapshot.
func (r *CachedDatasetRepository) Invalidate() {
	r.mu.Lock()
	r.snapshot = nil
	r.generation++
	r.mu.Unlock()
	r.group.Forget(loadKey)
	r.log.Info("dataset cache invalidated")
}

func (r *CachedDatasetRepository) current() *domain.Dataset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.snapshot == nil {
		return nil
	}
	if r.ttl > 0 && r.now().Sub(r.loadedAt) >= r.ttl {
		return nil
	}
	return r.snapshot
}
