package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/amaumene/rakuroku/internal/models"
	"github.com/amaumene/rakuroku/internal/services/anilist"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DetailController drives a title's detail page and its list membership
type DetailController struct {
	mu      sync.Mutex
	api     DetailFetcher
	auth    Authenticator
	logger  *logrus.Logger
	mediaID int

	loader
	details *models.MediaDetails
	entryID int // 0 when the title is not on the list
	busy    bool

	edits *MutationController
}

// NewDetailController creates a controller for one title
func NewDetailController(api DetailFetcher, auth Authenticator, mediaID int, logger *logrus.Logger) *DetailController {
	return &DetailController{
		api:     api,
		auth:    auth,
		logger:  logger,
		mediaID: mediaID,
		edits:   NewMutationController(api, auth, logger),
	}
}

// Edits returns the controller applying progress, score and status edits
func (c *DetailController) Edits() *MutationController {
	return c.edits
}

// Load fetches the details and the user's entry side by side. The entry
// lookup needs a user name but no token; without a user name the title is
// shown as not on the list.
func (c *DetailController) Load(ctx context.Context) error {
	c.mu.Lock()
	seq := c.begin()
	c.mu.Unlock()

	var (
		details *models.MediaDetails
		entry   *models.ListEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		details, err = c.api.FetchDetails(gctx, c.mediaID)
		return err
	})
	g.Go(func() error {
		var err error
		entry, err = c.api.FetchUserEntry(gctx, c.mediaID)
		if errors.Is(err, anilist.ErrNoUserName) {
			return nil
		}
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
		return fmt.Errorf("failed to load title %d: %w", c.mediaID, err)
	}

	c.details = details
	c.setEntry(entry, details)
	c.ready()
	return nil
}

// setEntry tracks entry for edits. Must be called with mu held.
func (c *DetailController) setEntry(entry *models.ListEntry, details *models.MediaDetails) {
	if c.entryID != 0 {
		c.edits.Forget(c.entryID)
	}
	c.entryID = 0
	if entry == nil {
		return
	}
	e := *entry
	if details != nil {
		e.Media = details.MediaRef
	}
	c.entryID = e.ID
	c.edits.Track(e)
}

// State returns the load state and the error message, if any
func (c *DetailController) State() (LoadState, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.errMsg
}

// Details returns the loaded title
func (c *DetailController) Details() *models.MediaDetails {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.details
}

// Entry returns the user's entry for the title, reflecting pending edits
func (c *DetailController) Entry() (models.ListEntry, bool) {
	c.mu.Lock()
	id := c.entryID
	c.mu.Unlock()
	if id == 0 {
		return models.ListEntry{}, false
	}
	return c.edits.Entry(id)
}

// AddEntry puts the title on the list. It waits for the service before
// showing the entry; failures are logged and leave the page unchanged.
func (c *DetailController) AddEntry(ctx context.Context, status models.ListStatus) (bool, error) {
	if !status.Valid() {
		return false, fmt.Errorf("invalid list status %q", status)
	}
	if c.auth != nil && !c.auth.Authenticated() {
		return false, anilist.ErrNotAuthenticated
	}

	c.mu.Lock()
	if c.busy || c.entryID != 0 {
		c.mu.Unlock()
		return false, nil
	}
	c.busy = true
	c.mu.Unlock()

	entry, err := c.api.AddListEntry(ctx, c.mediaID, status)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if err != nil {
		c.logger.WithError(err).WithField("media_id", c.mediaID).Debug("Adding to list failed")
		return false, nil
	}
	c.setEntry(entry, c.details)
	return true, nil
}

// RemoveEntry takes the title off the list. Like AddEntry it only changes
// the page once the service confirmed.
func (c *DetailController) RemoveEntry(ctx context.Context) (bool, error) {
	if c.auth != nil && !c.auth.Authenticated() {
		return false, anilist.ErrNotAuthenticated
	}

	c.mu.Lock()
	if c.busy || c.entryID == 0 {
		c.mu.Unlock()
		return false, nil
	}
	c.busy = true
	entryID := c.entryID
	c.mu.Unlock()

	err := c.api.DeleteListEntry(ctx, entryID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if err != nil {
		c.logger.WithError(err).WithField("entry_id", entryID).Debug("Removing from list failed")
		return false, nil
	}
	if c.entryID == entryID {
		c.setEntry(nil, nil)
	}
	return true, nil
}
