package controllers

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/amaumene/rakuroku/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	// SearchDebounce is the quiet period after the last keystroke before a
	// search is sent
	SearchDebounce = 300 * time.Millisecond
	// SearchPageSize is the page size of title searches
	SearchPageSize = 20
)

type stopper interface {
	Stop() bool
}

func realAfterFunc(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

// SearchController runs search-as-you-type. Keystrokes are debounced and
// each dispatched search carries a sequence number; only the latest may
// replace the session. A dispatched search starts a fresh session, so a
// failed search shows no results.
type SearchController struct {
	mu        sync.Mutex
	api       MediaSearcher
	logger    *logrus.Logger
	delay     time.Duration
	afterFunc func(time.Duration, func()) stopper

	timer   stopper
	seq     uint64
	query   string
	session *Paginator[models.MediaRef]
	closed  bool
	wg      sync.WaitGroup
}

// NewSearchController creates a new search controller
func NewSearchController(api MediaSearcher, logger *logrus.Logger) *SearchController {
	return &SearchController{
		api:       api,
		logger:    logger,
		delay:     SearchDebounce,
		afterFunc: realAfterFunc,
	}
}

// SetQuery records a keystroke. A blank query clears the results at once;
// anything else restarts the debounce timer.
func (c *SearchController) SetQuery(ctx context.Context, query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.stopTimer()
	c.query = query
	c.seq++

	if strings.TrimSpace(query) == "" {
		c.session = nil
		return
	}

	seq := c.seq
	c.wg.Add(1)
	c.timer = c.afterFunc(c.delay, func() {
		c.dispatch(ctx, seq, query)
	})
}

// Submit searches for query right away, skipping the debounce
func (c *SearchController) Submit(ctx context.Context, query string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopTimer()
	c.query = query
	c.seq++
	seq := c.seq
	if strings.TrimSpace(query) == "" {
		c.session = nil
		c.mu.Unlock()
		return
	}
	c.wg.Add(1)
	c.mu.Unlock()

	c.dispatch(ctx, seq, query)
}

// stopTimer cancels the pending search, releasing its slot in wg when the
// callback will no longer run. Must be called with mu held.
func (c *SearchController) stopTimer() {
	if c.timer == nil {
		return
	}
	if c.timer.Stop() {
		c.wg.Done()
	}
	c.timer = nil
}

// dispatch runs one scheduled search. The caller has already added it to wg.
func (c *SearchController) dispatch(ctx context.Context, seq uint64, query string) {
	defer c.wg.Done()

	c.mu.Lock()
	if c.closed || seq != c.seq {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	session := NewPaginator(func(ctx context.Context, page int) (models.Page[models.MediaRef], error) {
		return c.api.SearchMedia(ctx, query, page, SearchPageSize)
	})
	c.session = session
	c.mu.Unlock()

	c.logger.WithField("query", query).Debug("Searching titles")
	if _, err := session.LoadMore(ctx); err != nil {
		c.logger.WithError(err).WithField("query", query).Debug("Search failed")
	}
}

// LoadMore fetches the next page of the current session
func (c *SearchController) LoadMore(ctx context.Context) bool {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if session == nil {
		return false
	}

	loaded, err := session.LoadMore(ctx)
	if err != nil {
		c.logger.WithError(err).Debug("Loading more search results failed")
	}
	return loaded
}

// Query returns the latest query text
func (c *SearchController) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Results returns the accumulated results of the current session
func (c *SearchController) Results() []models.MediaRef {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if session == nil {
		return nil
	}
	return session.Items()
}

// HasNextPage reports whether the current session has more pages
func (c *SearchController) HasNextPage() bool {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	return session != nil && session.HasNextPage()
}

// Loading reports whether a search is pending or in flight
func (c *SearchController) Loading() bool {
	c.mu.Lock()
	pending := c.timer != nil
	session := c.session
	c.mu.Unlock()
	return pending || (session != nil && session.Loading())
}

// Wait blocks until scheduled and dispatched searches have returned or been
// cancelled
func (c *SearchController) Wait() {
	c.wg.Wait()
}

// Close cancels a pending search and discards the session. Searches already
// in flight return into a session nobody reads.
func (c *SearchController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimer()
	c.closed = true
	c.seq++
	c.session = nil
}
