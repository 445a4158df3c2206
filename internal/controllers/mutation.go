package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/amaumene/rakuroku/internal/models"
	"github.com/amaumene/rakuroku/internal/services/anilist"
	"github.com/sirupsen/logrus"
)

// ErrUnknownEntry is returned for an entry id the controller does not track
var ErrUnknownEntry = errors.New("unknown list entry")

// EntryField names the field a mutation changed
type EntryField string

const (
	FieldProgress EntryField = "progress"
	FieldScore    EntryField = "score"
	FieldStatus   EntryField = "status"
)

// EntryChange reports a confirmed edit so sibling views can reconcile
// without a refetch. Entry holds the confirmed state.
type EntryChange struct {
	EntryID int
	Field   EntryField
	Entry   models.ListEntry
}

// MutationController applies progress, score and status edits locally,
// confirms them in the background and rolls back on failure
type MutationController struct {
	mu       sync.Mutex
	api      EntryMutator
	auth     Authenticator
	logger   *logrus.Logger
	entries  map[int]*models.ListEntry
	inFlight map[int]bool
	onChange func(EntryChange)
}

// NewMutationController creates a new mutation controller
func NewMutationController(api EntryMutator, auth Authenticator, logger *logrus.Logger) *MutationController {
	return &MutationController{
		api:      api,
		auth:     auth,
		logger:   logger,
		entries:  make(map[int]*models.ListEntry),
		inFlight: make(map[int]bool),
	}
}

// OnChange registers the callback invoked after each confirmed edit
func (c *MutationController) OnChange(fn func(EntryChange)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Track starts tracking entries, replacing any tracked copy with the same id.
// A replaced copy with an edit in flight is no longer rolled back into.
func (c *MutationController) Track(entries ...models.ListEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range entries {
		e := e
		c.entries[e.ID] = &e
	}
}

// Forget stops tracking an entry
func (c *MutationController) Forget(entryID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, entryID)
}

// Entry returns the current local state of an entry
func (c *MutationController) Entry(entryID int) (models.ListEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[entryID]
	if !ok {
		return models.ListEntry{}, false
	}
	return *e, true
}

// InFlight reports whether an edit to the entry awaits confirmation
func (c *MutationController) InFlight(entryID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight[entryID]
}

// The edit methods below return a nil Mutation and nil error when the edit
// is ignored: out of bounds, unchanged, or another edit to the same entry
// still in flight. Nothing is sent in that case.

// AdjustProgress moves progress by delta within [0, total]
func (c *MutationController) AdjustProgress(ctx context.Context, entryID, delta int) (*Mutation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.editable(entryID)
	if e == nil || err != nil {
		return nil, err
	}
	return c.setProgress(ctx, e, e.Progress+delta), nil
}

// SetProgress sets progress to an absolute value within [0, total]
func (c *MutationController) SetProgress(ctx context.Context, entryID, progress int) (*Mutation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.editable(entryID)
	if e == nil || err != nil {
		return nil, err
	}
	return c.setProgress(ctx, e, progress), nil
}

func (c *MutationController) setProgress(ctx context.Context, e *models.ListEntry, progress int) *Mutation {
	total := e.Media.TotalUnits()
	if progress == e.Progress || progress < 0 || (total > 0 && progress > total) {
		c.logger.WithFields(logrus.Fields{
			"entry_id": e.ID,
			"progress": e.Progress,
			"target":   progress,
			"total":    total,
		}).Debug("Progress change out of bounds, ignoring")
		return nil
	}

	mediaID := e.Media.ID
	return c.start(ctx, e, FieldProgress, func(e *models.ListEntry) {
		e.Progress = progress
	}, func(ctx context.Context) error {
		return c.api.UpdateProgress(ctx, mediaID, progress)
	})
}

// SetScore sets the score, which must be within 0-10
func (c *MutationController) SetScore(ctx context.Context, entryID, score int) (*Mutation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.editable(entryID)
	if e == nil || err != nil {
		return nil, err
	}
	if score == e.Score || score < 0 || score > 10 {
		c.logger.WithFields(logrus.Fields{"entry_id": entryID, "score": score}).Debug("Score change out of bounds, ignoring")
		return nil, nil
	}

	mediaID := e.Media.ID
	return c.start(ctx, e, FieldScore, func(e *models.ListEntry) {
		e.Score = score
	}, func(ctx context.Context) error {
		return c.api.UpdateScore(ctx, mediaID, score)
	}), nil
}

// SetStatus moves the entry to another list
func (c *MutationController) SetStatus(ctx context.Context, entryID int, status models.ListStatus) (*Mutation, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid list status %q", status)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.editable(entryID)
	if e == nil || err != nil {
		return nil, err
	}
	if status == e.Status {
		return nil, nil
	}

	mediaID := e.Media.ID
	return c.start(ctx, e, FieldStatus, func(e *models.ListEntry) {
		e.Status = status
	}, func(ctx context.Context) error {
		return c.api.UpdateStatus(ctx, mediaID, status)
	}), nil
}

// editable returns the tracked entry, or nil when an edit is already in
// flight for it. Must be called with mu held.
func (c *MutationController) editable(entryID int) (*models.ListEntry, error) {
	if c.auth != nil && !c.auth.Authenticated() {
		return nil, anilist.ErrNotAuthenticated
	}
	e, ok := c.entries[entryID]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEntry, entryID)
	}
	if c.inFlight[entryID] {
		c.logger.WithField("entry_id", entryID).Debug("Edit already in flight, ignoring")
		return nil, nil
	}
	return e, nil
}

// start runs an optimistic edit. Must be called with mu held.
func (c *MutationController) start(ctx context.Context, e *models.ListEntry, field EntryField, change func(*models.ListEntry), send func(context.Context) error) *Mutation {
	entryID := e.ID
	c.inFlight[entryID] = true

	return optimistic[models.ListEntry]{
		snapshot: func() models.ListEntry { return *e },
		apply:    func() { change(e) },
		confirm:  send,
		restore: func(snap models.ListEntry) {
			c.mu.Lock()
			defer c.mu.Unlock()
			// a Track since the edit began holds fresher data than snap
			if cur, ok := c.entries[entryID]; ok && cur == e {
				*cur = snap
			}
		},
		settle: func(err error) {
			c.mu.Lock()
			delete(c.inFlight, entryID)
			cur, tracked := c.entries[entryID]
			var confirmed models.ListEntry
			if tracked {
				confirmed = *cur
			}
			onChange := c.onChange
			c.mu.Unlock()

			if err != nil {
				c.logger.WithFields(logrus.Fields{
					"entry_id": entryID,
					"field":    field,
				}).WithError(err).Debug("Edit failed, rolled back")
				return
			}
			if onChange != nil && tracked {
				onChange(EntryChange{EntryID: entryID, Field: field, Entry: confirmed})
			}
		},
	}.start(ctx)
}
