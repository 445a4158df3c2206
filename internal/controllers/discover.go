package controllers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/amaumene/rakuroku/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DiscoverPreviewSize is how many titles each discover row shows
const DiscoverPreviewSize = 10

// SeasonPreview is the top of one season's listing
type SeasonPreview struct {
	Season  models.Season
	Year    int
	Label   string
	Entries []models.SeasonalEntry
	HasMore bool
}

// DiscoverController shows the current and next season side by side
type DiscoverController struct {
	mu     sync.Mutex
	api    SeasonFetcher
	logger *logrus.Logger
	now    func() time.Time

	loader
	current SeasonPreview
	next    SeasonPreview
}

// NewDiscoverController creates a new discover controller
func NewDiscoverController(api SeasonFetcher, logger *logrus.Logger) *DiscoverController {
	return &DiscoverController{
		api:    api,
		logger: logger,
		now:    time.Now,
	}
}

// Load fetches both seasons. Either failing fails the screen.
func (c *DiscoverController) Load(ctx context.Context) error {
	now := c.now()
	curSeason, curYear := SeasonOf(now.Month()), now.Year()
	nextSeason, nextYear := NextSeason(curSeason, curYear)

	c.mu.Lock()
	seq := c.begin()
	c.mu.Unlock()

	current := SeasonPreview{Season: curSeason, Year: curYear, Label: "This Season"}
	next := SeasonPreview{Season: nextSeason, Year: nextYear, Label: "Next Season"}

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range []*SeasonPreview{&current, &next} {
		p := p
		g.Go(func() error {
			page, err := c.api.FetchSeasonalPage(gctx, p.Season, p.Year, 1, DiscoverPreviewSize, models.SortPopularityDesc)
			if err != nil {
				return err
			}
			p.Entries = page.Items
			p.HasMore = page.HasNextPage
			return nil
		})
	}
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.latest(seq) {
		return nil
	}
	if err != nil {
		c.fail(err)
		return fmt.Errorf("failed to load seasons: %w", err)
	}
	c.current, c.next = current, next
	c.ready()
	return nil
}

// State returns the load state and the error message, if any
func (c *DiscoverController) State() (LoadState, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.errMsg
}

// Previews returns the current and next season rows
func (c *DiscoverController) Previews() (current, next SeasonPreview) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current, c.next
}
