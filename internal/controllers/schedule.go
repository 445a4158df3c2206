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

// ScheduleController drives the weekly airing calendar, one day at a time
type ScheduleController struct {
	mu     sync.Mutex
	api    ScheduleFetcher
	logger *logrus.Logger

	loader
	day      int
	episodes []models.AiringEvent
	index    models.StatusIndex
}

// NewScheduleController creates a schedule controller showing today
func NewScheduleController(api ScheduleFetcher, logger *logrus.Logger) *ScheduleController {
	return &ScheduleController{
		api:    api,
		logger: logger,
		day:    int(time.Now().Weekday()),
	}
}

// Day returns the selected weekday, 0 for Sunday
func (c *ScheduleController) Day() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.day
}

// SetDay selects a weekday, wrapping around the week
func (c *ScheduleController) SetDay(day int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.day = ((day % 7) + 7) % 7
}

// NextDay selects the following weekday and returns it
func (c *ScheduleController) NextDay() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.day = (c.day + 1) % 7
	return c.day
}

// PrevDay selects the preceding weekday and returns it
func (c *ScheduleController) PrevDay() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.day = (c.day + 6) % 7
	return c.day
}

// Load fetches the selected day's schedule together with the anime list
func (c *ScheduleController) Load(ctx context.Context) error {
	c.mu.Lock()
	seq := c.begin()
	day := c.day
	c.mu.Unlock()

	var (
		events []models.AiringEvent
		list   []models.ListEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = c.api.FetchAiringSchedule(gctx, day)
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
		return fmt.Errorf("failed to load schedule: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"day":      day,
		"episodes": len(events),
	}).Debug("Loaded schedule")

	c.episodes = events
	c.index = models.NewStatusIndex(list)
	c.ready()
	return nil
}

// State returns the load state and the error message, if any
func (c *ScheduleController) State() (LoadState, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.errMsg
}

// Episodes returns the loaded day's episodes annotated with list status
func (c *ScheduleController) Episodes() []Annotated[models.AiringEvent] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return annotate(c.episodes, c.index, func(e models.AiringEvent) int { return e.Media.ID })
}
