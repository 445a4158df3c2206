package anilist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/amaumene/rakuroku/internal/models"
)

// FetchList retrieves every entry of the user's list for one media type,
// most recently updated first
func (c *Client) FetchList(ctx context.Context, mediaType models.MediaType) ([]models.ListEntry, error) {
	if err := c.requireUserName(); err != nil {
		return nil, err
	}

	var data struct {
		MediaListCollection struct {
			Lists []struct {
				Status  string          `json:"status"`
				Entries []listEntryJSON `json:"entries"`
			} `json:"lists"`
		} `json:"MediaListCollection"`
	}

	variables := map[string]any{
		"userName": c.userName,
		"type":     mediaType,
	}
	if err := c.doRequest(ctx, "fetch_list", listQuery, variables, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch %s list: %w", mediaType, err)
	}

	var entries []models.ListEntry
	for _, list := range data.MediaListCollection.Lists {
		for _, e := range list.Entries {
			entry := e.toModel()
			if entry.Media.Type == "" {
				entry.Media.Type = mediaType
			}
			entries = append(entries, entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})

	c.logger.WithField("type", mediaType).WithField("count", len(entries)).Debug("Fetched list")
	return entries, nil
}

// FetchUserEntry retrieves the user's entry for one title. It returns nil
// without error when the title is not on the user's list.
func (c *Client) FetchUserEntry(ctx context.Context, mediaID int) (*models.ListEntry, error) {
	if err := c.requireUserName(); err != nil {
		return nil, err
	}

	var data struct {
		MediaList *listEntryJSON `json:"MediaList"`
	}

	variables := map[string]any{
		"userName": c.userName,
		"mediaId":  mediaID,
	}
	if err := c.doRequest(ctx, "fetch_user_entry", userEntryQuery, variables, &data); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch list entry for media %d: %w", mediaID, err)
	}

	if data.MediaList == nil {
		return nil, nil
	}
	entry := data.MediaList.toModel()
	return &entry, nil
}

// isNotFound matches the 404 the service answers when a list entry is absent
func isNotFound(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return (apiErr.Kind == KindService || apiErr.Kind == KindQuery) && apiErr.StatusCode == http.StatusNotFound
}

type savedEntryJSON struct {
	SaveMediaListEntry listEntryJSON `json:"SaveMediaListEntry"`
}

// UpdateProgress sets the progress of the user's entry for a title
func (c *Client) UpdateProgress(ctx context.Context, mediaID, progress int) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	if progress < 0 {
		return fmt.Errorf("progress must not be negative, got %d", progress)
	}

	variables := map[string]any{
		"mediaId":  mediaID,
		"progress": progress,
	}
	if err := c.doRequest(ctx, "update_progress", updateProgressMutation, variables, nil); err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	return nil
}

// UpdateScore sets the 0-10 score of the user's entry for a title
func (c *Client) UpdateScore(ctx context.Context, mediaID, score int) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	if score < 0 || score > 10 {
		return fmt.Errorf("score must be between 0 and 10, got %d", score)
	}

	variables := map[string]any{
		"mediaId": mediaID,
		"score":   score,
	}
	if err := c.doRequest(ctx, "update_score", updateScoreMutation, variables, nil); err != nil {
		return fmt.Errorf("failed to update score: %w", err)
	}
	return nil
}

// UpdateStatus sets the list status of the user's entry for a title
func (c *Client) UpdateStatus(ctx context.Context, mediaID int, status models.ListStatus) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	if !status.Valid() {
		return fmt.Errorf("invalid list status %q", status)
	}

	variables := map[string]any{
		"mediaId": mediaID,
		"status":  status,
	}
	if err := c.doRequest(ctx, "update_status", updateStatusMutation, variables, nil); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// AddListEntry puts a title on the user's list and returns the created entry
func (c *Client) AddListEntry(ctx context.Context, mediaID int, status models.ListStatus) (*models.ListEntry, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("invalid list status %q", status)
	}

	var data savedEntryJSON
	variables := map[string]any{
		"mediaId": mediaID,
		"status":  status,
	}
	if err := c.doRequest(ctx, "add_entry", addEntryMutation, variables, &data); err != nil {
		return nil, fmt.Errorf("failed to add media %d to list: %w", mediaID, err)
	}

	entry := data.SaveMediaListEntry.toModel()
	return &entry, nil
}

// DeleteListEntry removes an entry by its list entry id
func (c *Client) DeleteListEntry(ctx context.Context, entryID int) error {
	if err := c.requireAuth(); err != nil {
		return err
	}

	var data struct {
		DeleteMediaListEntry struct {
			Deleted bool `json:"deleted"`
		} `json:"DeleteMediaListEntry"`
	}

	variables := map[string]any{"id": entryID}
	if err := c.doRequest(ctx, "delete_entry", deleteEntryMutation, variables, &data); err != nil {
		return fmt.Errorf("failed to delete list entry %d: %w", entryID, err)
	}
	if !data.DeleteMediaListEntry.Deleted {
		return fmt.Errorf("list entry %d was not deleted", entryID)
	}
	return nil
}
