package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"user-search-service/internal/client/api"
)

// Fetcher loads one page of users.
type Fetcher interface {
	FetchUsers(ctx context.Context, search string, page int64) (*api.Page, error)
}

// Timer is a cancellable scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler runs f after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler replaces the wall-clock timer source.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		c.sched = s
	}
}

// WithOnChange registers a callback invoked with every new state. It runs
// while the controller is locked and must not call back into it.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) {
		c.onChange = fn
	}
}

// WithLogger sets the logger used for fetch diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// Controller executes the effects of Transition against real timers and a
// Fetcher. It is safe for concurrent use.
type Controller struct {
	fetcher  Fetcher
	sched    Scheduler
	onChange func(State)
	log      *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	state       State
	timer       Timer
	cancelFetch context.CancelFunc
	closed      bool
	waiters     []chan struct{} // released once the state settles
}

// New creates a controller in the initial state. No fetch happens until the
// first search or page change.
func New(ctx context.Context, fetcher Fetcher, opts ...Option) *Controller {
	c := &Controller{
		fetcher: fetcher,
		sched:   realScheduler{},
		log:     zap.NewNop(),
		state:   InitialState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetSearch changes the search text and returns to the first page.
func (c *Controller) SetSearch(term string) {
	c.dispatch(SearchChanged{Term: term})
}

// SetPage jumps to page.
func (c *Controller) SetPage(page int64) {
	c.dispatch(PageChanged{Page: page})
}

// NextPage advances one page unless already on the last one.
func (c *Controller) NextPage() {
	c.mu.Lock()
	s := c.state
	c.mu.Unlock()
	if s.CurrentPage < s.TotalPages() {
		c.dispatch(PageChanged{Page: s.CurrentPage + 1})
	}
}

// PrevPage goes back one page unless already on the first one.
func (c *Controller) PrevPage() {
	c.mu.Lock()
	s := c.state
	c.mu.Unlock()
	if s.CurrentPage > 1 {
		c.dispatch(PageChanged{Page: s.CurrentPage - 1})
	}
}

// Settle fires a pending debounce at once and waits until the latest
// search or page change has loaded or failed. It returns early when ctx is
// done or the controller is closed.
func (c *Controller) Settle(ctx context.Context) error {
	c.mu.Lock()
	if c.closed || settled(c.state.Phase) {
		c.mu.Unlock()
		return nil
	}
	if c.state.Phase == Debouncing {
		if c.timer != nil {
			c.timer.Stop()
			c.timer = nil
		}
		c.dispatchLocked(DelayElapsed{Generation: c.state.Generation})
	}
	done := make(chan struct{})
	c.waiters = append(c.waiters, done)
	c.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels pending timers and fetches. Later events are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopPending()
	c.cancel()
	c.releaseWaiters()
}

func settled(p Phase) bool {
	return p != Debouncing && p != Fetching
}

func (c *Controller) releaseWaiters() {
	for _, w := range c.waiters {
		close(w)
	}
	c.waiters = nil
}

func (c *Controller) dispatch(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dispatchLocked(ev)
}

// dispatchLocked applies ev and runs its effects. Callers hold c.mu.
func (c *Controller) dispatchLocked(ev Event) {
	if c.closed {
		return
	}

	next, effects := Transition(c.state, ev)
	changed := next.Generation != c.state.Generation || next.Phase != c.state.Phase
	c.state = next

	for _, eff := range effects {
		c.run(eff)
	}

	if changed && c.onChange != nil {
		c.onChange(next)
	}
	if settled(next.Phase) {
		c.releaseWaiters()
	}
}

// run executes one effect. Callers hold c.mu.
func (c *Controller) run(eff Effect) {
	switch eff := eff.(type) {
	case CancelPending:
		c.stopPending()

	case ScheduleFetch:
		gen := eff.Generation
		c.timer = c.sched.AfterFunc(eff.Delay, func() {
			c.dispatch(DelayElapsed{Generation: gen})
		})

	case StartFetch:
		ctx, cancel := context.WithCancel(c.ctx)
		c.cancelFetch = cancel
		go c.fetch(ctx, cancel, eff)
	}
}

func (c *Controller) stopPending() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
}

func (c *Controller) fetch(ctx context.Context, cancel context.CancelFunc, eff StartFetch) {
	defer cancel()

	page, err := c.fetcher.FetchUsers(ctx, eff.Search, eff.Page)
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			// Superseded; the newer generation owns the state.
			c.log.Debug("fetch canceled", zap.Uint64("generation", eff.Generation))
			return
		}
		c.log.Warn("fetch failed",
			zap.Uint64("generation", eff.Generation),
			zap.String("search", eff.Search),
			zap.Int64("page", eff.Page),
			zap.Error(err),
		)
		c.dispatch(FetchFailed{Generation: eff.Generation, Message: err.Error()})
		return
	}

	c.dispatch(FetchSucceeded{
		Generation: eff.Generation,
		Users:      page.Users,
		Total:      page.Pagination.Total,
	})
}
