package anilist

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/amaumene/rakuroku/internal/models"
)

// dayLength is the inclusive span of one schedule day in seconds, minus one
const dayLength = 86400 - 1

// DayWindow resolves dayIndex (0=Sunday..6=Saturday) against the local week
// containing now and returns the first and last second of that day.
func DayWindow(now time.Time, dayIndex int) (start, end int64) {
	offset := dayIndex - int(now.Weekday())
	y, m, d := now.Date()
	midnight := time.Date(y, m, d+offset, 0, 0, 0, 0, now.Location())
	start = midnight.Unix()
	return start, start + dayLength
}

// FetchAiringSchedule retrieves every episode airing on the given weekday of
// the current local week, ordered by airing time
func (c *Client) FetchAiringSchedule(ctx context.Context, dayIndex int) ([]models.AiringEvent, error) {
	if dayIndex < 0 || dayIndex > 6 {
		return nil, fmt.Errorf("day index must be between 0 and 6, got %d", dayIndex)
	}

	start, end := DayWindow(c.now(), dayIndex)

	var events []models.AiringEvent
	for page := 1; page <= maxAggregatePages; page++ {
		var data struct {
			Page struct {
				PageInfo        pageInfo `json:"pageInfo"`
				AiringSchedules []struct {
					ID       int       `json:"id"`
					AiringAt int64     `json:"airingAt"`
					Episode  int       `json:"episode"`
					Media    mediaJSON `json:"media"`
				} `json:"airingSchedules"`
			} `json:"Page"`
		}

		// The service bounds are exclusive
		variables := map[string]any{
			"page":             page,
			"airingAt_greater": start - 1,
			"airingAt_lesser":  end + 1,
		}
		if err := c.doRequest(ctx, "fetch_schedule", airingScheduleQuery, variables, &data); err != nil {
			return nil, fmt.Errorf("failed to fetch airing schedule page %d: %w", page, err)
		}

		for _, s := range data.Page.AiringSchedules {
			if s.AiringAt < start || s.AiringAt > end {
				continue
			}
			events = append(events, models.AiringEvent{
				ID:       s.ID,
				Media:    s.Media.toRef(),
				Episode:  s.Episode,
				AiringAt: time.Unix(s.AiringAt, 0),
			})
		}

		if !data.Page.PageInfo.HasNextPage {
			break
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].AiringAt.Before(events[j].AiringAt)
	})

	c.logger.WithField("day", dayIndex).WithField("count", len(events)).Debug("Fetched airing schedule")
	return events, nil
}
