package anilist

import (
	"context"
	"fmt"
	"time"

	"github.com/amaumene/rakuroku/internal/models"
)

// DefaultActivityCount is how many activities the profile shows
const DefaultActivityCount = 15

// FetchUser retrieves the configured user's profile
func (c *Client) FetchUser(ctx context.Context) (*models.User, error) {
	if err := c.requireUserName(); err != nil {
		return nil, err
	}

	var data struct {
		User *struct {
			ID          int       `json:"id"`
			Name        string    `json:"name"`
			Avatar      imageJSON `json:"avatar"`
			BannerImage string    `json:"bannerImage"`
			Statistics  struct {
				Anime struct {
					Count           int `json:"count"`
					EpisodesWatched int `json:"episodesWatched"`
					MinutesWatched  int `json:"minutesWatched"`
				} `json:"anime"`
				Manga struct {
					Count        int `json:"count"`
					ChaptersRead int `json:"chaptersRead"`
				} `json:"manga"`
			} `json:"statistics"`
		} `json:"User"`
	}

	if err := c.doRequest(ctx, "fetch_user", userQuery, map[string]any{"name": c.userName}, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", c.userName, err)
	}
	if data.User == nil {
		return nil, fmt.Errorf("user %s not found", c.userName)
	}

	u := data.User
	return &models.User{
		ID:          u.ID,
		Name:        u.Name,
		Avatar:      models.CoverImage{Large: u.Avatar.Large, Medium: u.Avatar.Medium},
		BannerImage: u.BannerImage,
		Anime: models.AnimeStatistics{
			Count:           u.Statistics.Anime.Count,
			EpisodesWatched: u.Statistics.Anime.EpisodesWatched,
			MinutesWatched:  u.Statistics.Anime.MinutesWatched,
		},
		Manga: models.MangaStatistics{
			Count:        u.Statistics.Manga.Count,
			ChaptersRead: u.Statistics.Manga.ChaptersRead,
		},
	}, nil
}

// FetchActivities retrieves the most recent list activities of a user,
// newest first
func (c *Client) FetchActivities(ctx context.Context, userID, count int) ([]models.ActivityEvent, error) {
	if count <= 0 {
		count = DefaultActivityCount
	}

	var data struct {
		Page struct {
			Activities []struct {
				ID        int       `json:"id"`
				Status    string    `json:"status"`
				Progress  string    `json:"progress"`
				CreatedAt int64     `json:"createdAt"`
				Media     mediaJSON `json:"media"`
			} `json:"activities"`
		} `json:"Page"`
	}

	variables := map[string]any{
		"userId":  userID,
		"page":    1,
		"perPage": count,
	}
	if err := c.doRequest(ctx, "fetch_activities", activityQuery, variables, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch activities for user %d: %w", userID, err)
	}

	events := make([]models.ActivityEvent, 0, len(data.Page.Activities))
	for _, a := range data.Page.Activities {
		// Other activity kinds come back as empty objects
		if a.ID == 0 {
			continue
		}
		events = append(events, models.ActivityEvent{
			ID:        a.ID,
			Status:    a.Status,
			Progress:  a.Progress,
			Media:     a.Media.toRef(),
			CreatedAt: time.Unix(a.CreatedAt, 0),
		})
	}
	return events, nil
}
