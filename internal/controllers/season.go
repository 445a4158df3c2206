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

// SeasonPageSize is the page size of seasonal listings
const SeasonPageSize = 25

// SeasonOf returns the airing season a month falls in
func SeasonOf(month time.Month) models.Season {
	switch {
	case month <= time.March:
		return models.SeasonWinter
	case month <= time.June:
		return models.SeasonSpring
	case month <= time.September:
		return models.SeasonSummer
	default:
		return models.SeasonFall
	}
}

// NextSeason returns the season after the given one, rolling the year
// over after fall
func NextSeason(season models.Season, year int) (models.Season, int) {
	switch season {
	case models.SeasonWinter:
		return models.SeasonSpring, year
	case models.SeasonSpring:
		return models.SeasonSummer, year
	case models.SeasonSummer:
		return models.SeasonFall, year
	default:
		return models.SeasonWinter, year + 1
	}
}

// SeasonController drives an infinite seasonal listing
type SeasonController struct {
	mu     sync.Mutex
	api    SeasonFetcher
	logger *logrus.Logger
	season models.Season
	year   int

	loader
	pages *Paginator[models.SeasonalEntry]
	index models.StatusIndex
}

// NewSeasonController creates a controller for one season
func NewSeasonController(api SeasonFetcher, season models.Season, year int, sort models.MediaSort, logger *logrus.Logger) *SeasonController {
	return &SeasonController{
		api:    api,
		logger: logger,
		season: season,
		year:   year,
		pages: NewPaginator(func(ctx context.Context, page int) (models.Page[models.SeasonalEntry], error) {
			return api.FetchSeasonalPage(ctx, season, year, page, SeasonPageSize, sort)
		}),
	}
}

// Season returns the season and year shown
func (c *SeasonController) Season() (models.Season, int) {
	return c.season, c.year
}

// Load fetches the first page together with the anime list
func (c *SeasonController) Load(ctx context.Context) error {
	c.mu.Lock()
	seq := c.begin()
	c.mu.Unlock()

	var list []models.ListEntry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.pages.Reset(gctx)
	})
	g.Go(func() error {
		var err error
		list, err = c.api.FetchList(gctx, models.MediaTypeAnime)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.latest(seq) {
		return nil
	}
	if err != nil {
		c.fail(err)
		return fmt.Errorf("failed to load %s %d: %w", c.season, c.year, err)
	}
	c.index = models.NewStatusIndex(list)
	c.ready()
	return nil
}

// LoadMore appends the next page. A failure leaves the loaded pages alone.
func (c *SeasonController) LoadMore(ctx context.Context) (bool, error) {
	loaded, err := c.pages.LoadMore(ctx)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"season": c.season,
			"year":   c.year,
		}).Debug("Loading more seasonal titles failed")
		return false, err
	}
	return loaded, nil
}

// HasNextPage reports whether more titles can be loaded
func (c *SeasonController) HasNextPage() bool {
	return c.pages.HasNextPage()
}

// State returns the load state and the error message, if any
func (c *SeasonController) State() (LoadState, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.errMsg
}

// Items returns the loaded titles annotated with list status
func (c *SeasonController) Items() []Annotated[models.SeasonalEntry] {
	items := c.pages.Items()
	c.mu.Lock()
	defer c.mu.Unlock()
	return annotate(items, c.index, func(e models.SeasonalEntry) int { return e.ID })
}
