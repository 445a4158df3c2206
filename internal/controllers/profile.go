package controllers

import (
	"context"
	"fmt"
	"sync"

	"github.com/amaumene/rakuroku/internal/models"
	"github.com/amaumene/rakuroku/internal/services/anilist"
	"github.com/sirupsen/logrus"
)

// ProfileController drives the profile screen: the user, then their feed
type ProfileController struct {
	mu     sync.Mutex
	api    ProfileFetcher
	logger *logrus.Logger
	count  int

	loader
	user       *models.User
	activities []models.ActivityEvent
}

// NewProfileController creates a profile controller. count <= 0 uses the
// default feed length.
func NewProfileController(api ProfileFetcher, count int, logger *logrus.Logger) *ProfileController {
	if count <= 0 {
		count = anilist.DefaultActivityCount
	}
	return &ProfileController{
		api:    api,
		logger: logger,
		count:  count,
	}
}

// Load fetches the user, then their recent activity
func (c *ProfileController) Load(ctx context.Context) error {
	c.mu.Lock()
	seq := c.begin()
	c.mu.Unlock()

	user, err := c.api.FetchUser(ctx)
	var activities []models.ActivityEvent
	if err == nil {
		activities, err = c.api.FetchActivities(ctx, user.ID, c.count)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.latest(seq) {
		return nil
	}
	if err != nil {
		c.fail(err)
		return fmt.Errorf("failed to load profile: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"user":       user.Name,
		"activities": len(activities),
	}).Debug("Loaded profile")

	c.user = user
	c.activities = activities
	c.ready()
	return nil
}

// State returns the load state and the error message, if any
func (c *ProfileController) State() (LoadState, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.errMsg
}

// User returns the loaded profile
func (c *ProfileController) User() *models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Activities returns the feed, newest first
func (c *ProfileController) Activities() []models.ActivityEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.ActivityEvent(nil), c.activities...)
}
