package portal

import (
	"context"
	"sync"

	"fleetmove/internal/domain"
	"fleetmove/internal/moveapi"
)

// Fetcher loads one page of T from endpoint.
type Fetcher[T any] func(ctx context.Context, endpoint string, p domain.PageParams) (domain.Page[T], error)

// ClientFetcher adapts the REST client to a Fetcher.
func ClientFetcher[T any](c *moveapi.Client) Fetcher[T] {
	return func(ctx context.Context, endpoint string, p domain.PageParams) (domain.Page[T], error) {
		return moveapi.FetchPage[T](ctx, c, endpoint, p)
	}
}

type QueryConfig struct {
	Endpoint    string
	DefaultSort string
	PageSize    int
}

// QueryState is a snapshot of a PaginatedQuery. Data is nil until the first
// successful fetch; it is kept when a later fetch fails.
type QueryState[T any] struct {
	Data      *domain.Page[T]
	IsLoading bool
	Err       error
	Params    domain.PageParams
}

// PaginatedQuery fetches pages of T. The newest fetch wins: starting a fetch
// cancels the one in flight and a response from an older fetch is dropped.
type PaginatedQuery[T any] struct {
	cfg   QueryConfig
	fetch Fetcher[T]

	mu     sync.Mutex
	token  uint64
	cancel context.CancelFunc
	closed bool
	// fresh marks a page loaded by Refetch that no render has shown yet.
	fresh bool
	state QueryState[T]
}

func NewPaginatedQuery[T any](cfg QueryConfig, fetch Fetcher[T]) *PaginatedQuery[T] {
	if cfg.PageSize < 1 {
		cfg.PageSize = 10
	}
	if cfg.DefaultSort == "" {
		cfg.DefaultSort = "id"
	}
	return &PaginatedQuery[T]{cfg: cfg, fetch: fetch}
}

func (q *PaginatedQuery[T]) Config() QueryConfig { return q.cfg }

func (q *PaginatedQuery[T]) State() QueryState[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Fetch loads the page for p and returns the state after it settles.
func (q *PaginatedQuery[T]) Fetch(ctx context.Context, p domain.PageParams) QueryState[T] {
	return q.fetchPage(ctx, p, false)
}

func (q *PaginatedQuery[T]) fetchPage(ctx context.Context, p domain.PageParams, markFresh bool) QueryState[T] {
	p = p.Normalize(q.cfg.PageSize, q.cfg.DefaultSort)

	q.mu.Lock()
	if q.closed {
		st := q.state
		q.mu.Unlock()
		return st
	}
	if q.cancel != nil {
		q.cancel()
	}
	q.token++
	token := q.token
	q.fresh = false
	fctx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	q.state.IsLoading = true
	q.state.Params = p
	q.mu.Unlock()

	page, err := q.fetch(fctx, q.cfg.Endpoint, p)
	cancel()

	q.mu.Lock()
	defer q.mu.Unlock()
	if token != q.token || q.closed {
		return q.state
	}
	q.cancel = nil
	q.state.IsLoading = false
	if err != nil {
		q.state.Err = err
		return q.state
	}
	q.state.Data = &page
	q.state.Err = nil
	q.fresh = markFresh
	return q.state
}

// Refetch repeats the last fetch with the same parameters.
func (q *PaginatedQuery[T]) Refetch(ctx context.Context) QueryState[T] {
	q.mu.Lock()
	p := q.state.Params
	q.mu.Unlock()
	return q.fetchPage(ctx, p, true)
}

// Show returns the page for p, reusing a page that Refetch loaded for the
// same parameters and nothing has shown yet. Anything else fetches.
func (q *PaginatedQuery[T]) Show(ctx context.Context, p domain.PageParams) QueryState[T] {
	p = p.Normalize(q.cfg.PageSize, q.cfg.DefaultSort)

	q.mu.Lock()
	if q.fresh && q.state.Data != nil && q.state.Params.Values().Encode() == p.Values().Encode() {
		q.fresh = false
		st := q.state
		q.mu.Unlock()
		return st
	}
	q.mu.Unlock()
	return q.Fetch(ctx, p)
}

// Close cancels any fetch in flight; later fetches are no-ops.
func (q *PaginatedQuery[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	q.state.IsLoading = false
}
