package controllers

import (
	"context"
	"sync"

	"github.com/amaumene/rakuroku/internal/models"
)

// PageFunc fetches one page of a feed. Pages are numbered from 1.
type PageFunc[T any] func(ctx context.Context, page int) (models.Page[T], error)

// Paginator accumulates the pages of an infinite feed. Pages are appended
// as they arrive and never deduplicated.
type Paginator[T any] struct {
	mu      sync.Mutex
	fetch   PageFunc[T]
	items   []T
	page    int
	hasNext bool
	loading bool
	gen     uint64
}

// NewPaginator creates a paginator that has not loaded anything yet
func NewPaginator[T any](fetch PageFunc[T]) *Paginator[T] {
	return &Paginator[T]{fetch: fetch, hasNext: true}
}

// Reset discards everything and loads page 1. A load still in flight from
// before the reset is dropped when it returns.
func (p *Paginator[T]) Reset(ctx context.Context) error {
	p.mu.Lock()
	p.gen++
	gen := p.gen
	p.items = nil
	p.page = 0
	p.hasNext = true
	p.loading = true
	p.mu.Unlock()

	return p.load(ctx, gen, 1)
}

// LoadMore fetches the next page and appends it. It reports false without
// fetching when a load is in flight or the last page was reached.
func (p *Paginator[T]) LoadMore(ctx context.Context) (bool, error) {
	p.mu.Lock()
	if p.loading || !p.hasNext {
		p.mu.Unlock()
		return false, nil
	}
	p.loading = true
	gen := p.gen
	next := p.page + 1
	p.mu.Unlock()

	return true, p.load(ctx, gen, next)
}

func (p *Paginator[T]) load(ctx context.Context, gen uint64, page int) error {
	result, err := p.fetch(ctx, page)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		return err
	}
	p.loading = false
	if err != nil {
		return err
	}
	p.items = append(p.items, result.Items...)
	p.page = page
	p.hasNext = result.HasNextPage
	return nil
}

// Items returns a copy of the accumulated items
func (p *Paginator[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]T(nil), p.items...)
}

// Page returns the last page loaded, 0 before the first load
func (p *Paginator[T]) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// HasNextPage reports whether the service has more pages
func (p *Paginator[T]) HasNextPage() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasNext
}

// Loading reports whether a page fetch is in flight
func (p *Paginator[T]) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}
