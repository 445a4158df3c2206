package controllers

import (
	"context"
	"fmt"
	"sync"

	"github.com/amaumene/rakuroku/internal/models"
	"github.com/amaumene/rakuroku/internal/utils"
	"github.com/sirupsen/logrus"
)

// RevealOffset is how far past the top a pull must go to reveal search
const RevealOffset = -50

// ListController drives one list screen: load, refresh, filter, search
type ListController struct {
	mu        sync.Mutex
	api       ListFetcher
	mediaType models.MediaType
	logger    *logrus.Logger

	loader
	entries    []models.ListEntry
	refreshing bool
	filter     string
	query      string
	showSearch bool
	revealed   bool
}

// NewListController creates a list controller for one media type
func NewListController(api ListFetcher, mediaType models.MediaType, logger *logrus.Logger) *ListController {
	return &ListController{
		api:       api,
		mediaType: mediaType,
		logger:    logger,
		filter:    utils.DefaultFilter(mediaType),
	}
}

// MediaType returns the list's media type
func (c *ListController) MediaType() models.MediaType {
	return c.mediaType
}

// Load fetches the list from scratch. A failure moves the screen to the
// error state and keeps the message for display.
func (c *ListController) Load(ctx context.Context) error {
	c.mu.Lock()
	seq := c.begin()
	c.mu.Unlock()

	c.logger.WithField("type", c.mediaType).Debug("Loading list")
	entries, err := c.api.FetchList(ctx, c.mediaType)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.latest(seq) {
		c.logger.WithField("type", c.mediaType).Debug("Dropping superseded list load")
		return nil
	}
	if err != nil {
		c.fail(err)
		return fmt.Errorf("failed to load %s list: %w", c.mediaType, err)
	}
	c.entries = entries
	c.ready()
	return nil
}

// Refresh refetches the list without clearing what is shown. A refresh
// supersedes a pending Load, so when nothing was shown yet its failure moves
// the screen to the error state.
func (c *ListController) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.refreshing = true
	c.mu.Unlock()

	entries, err := c.api.FetchList(ctx, c.mediaType)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshing = false

	if !c.latest(seq) {
		return nil
	}
	if err != nil {
		c.logger.WithError(err).WithField("type", c.mediaType).Warn("List refresh failed")
		if c.state != StateReady {
			c.fail(err)
		}
		return fmt.Errorf("failed to refresh %s list: %w", c.mediaType, err)
	}
	c.entries = entries
	c.ready()
	return nil
}

// State returns the load state and the error message, if any
func (c *ListController) State() (LoadState, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state, c.errMsg
}

// Refreshing reports whether a refresh is in flight
func (c *ListController) Refreshing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshing
}

// Entries returns every loaded entry, unfiltered
func (c *ListController) Entries() []models.ListEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.ListEntry(nil), c.entries...)
}

// StatusIndex builds an index from the loaded entries
func (c *ListController) StatusIndex() models.StatusIndex {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.NewStatusIndex(c.entries)
}

// View returns the entries under the current filter and search text
func (c *ListController) View() []models.ListEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	filtered := utils.FilterByStatus(c.entries, c.filter)
	return append([]models.ListEntry(nil), utils.SearchEntries(filtered, c.query)...)
}

// Filter returns the selected filter label
func (c *ListController) Filter() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SelectFilter switches filter and closes the search
func (c *ListController) SelectFilter(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = label
	c.showSearch = false
	c.query = ""
}

// SetSearchQuery sets the search text
func (c *ListController) SetSearchQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = query
}

// SearchQuery returns the search text
func (c *ListController) SearchQuery() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// SetShowSearch opens or closes the search input. Closing clears the text.
func (c *ListController) SetShowSearch(show bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showSearch = show
	if !show {
		c.query = ""
	}
}

// SearchVisible reports whether the search input is open
func (c *ListController) SearchVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showSearch
}

// HandleScroll reveals the search input when pulled past RevealOffset, once
// per focus session. It reports whether this call revealed it.
func (c *ListController) HandleScroll(offsetY float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if offsetY >= RevealOffset || c.revealed {
		return false
	}
	c.revealed = true
	c.showSearch = true
	return true
}

// Focus starts a new focus session
func (c *ListController) Focus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revealed = false
}

// Blur resets search and filter when the screen loses focus. Data is kept.
func (c *ListController) Blur() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = ""
	c.showSearch = false
	c.filter = utils.DefaultFilter(c.mediaType)
}

// ApplyChange folds a confirmed edit into the loaded entries
func (c *ListController) ApplyChange(change EntryChange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.entries {
		if c.entries[i].ID != change.EntryID {
			continue
		}
		switch change.Field {
		case FieldProgress:
			c.entries[i].Progress = change.Entry.Progress
		case FieldScore:
			c.entries[i].Score = change.Entry.Score
		case FieldStatus:
			c.entries[i].Status = change.Entry.Status
		}
		return
	}
}
