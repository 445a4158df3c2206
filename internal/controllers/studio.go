package controllers

import (
	"context"
	"fmt"
	"sync"

	"github.com/amaumene/rakuroku/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// StudioController drives a studio's catalog screen
type StudioController struct {
	mu       sync.Mutex
	api      StudioFetcher
	logger   *logrus.Logger
	studioID int

	loader
	catalog *models.StudioCatalog
	index   models.StatusIndex
}

// NewStudioController creates a controller for one studio
func NewStudioController(api StudioFetcher, studioID int, logger *logrus.Logger) *StudioController {
	return &StudioController{
		api:      api,
		logger:   logger,
		studioID: studioID,
	}
}

// Load fetches the full catalog together with the anime list
func (c *StudioController) Load(ctx context.Context) error {
	c.mu.Lock()
	seq := c.begin()
	c.mu.Unlock()

	var (
		catalog *models.StudioCatalog
		list    []models.ListEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = c.api.FetchStudioMedia(gctx, c.studioID)
		return err
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
		return fmt.Errorf("failed to load studio %d: %w", c.studioID, err)
	}
	c.catalog = catalog
	c.index = models.NewStatusIndex(list)
	c.ready()
	return nil
}

// State returns the load state and the error message, if any
func (c *StudioController) State() (LoadState, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.errMsg
}

// Studio returns the loaded studio
func (c *StudioController) Studio() (models.Studio, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.catalog == nil {
		return models.Studio{}, false
	}
	return c.catalog.Studio, true
}

// Media returns the catalog annotated with list status
func (c *StudioController) Media() []Annotated[models.StudioMedia] {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.catalog == nil {
		return nil
	}
	return annotate(c.catalog.Media, c.index, func(m models.StudioMedia) int { return m.ID })
}
