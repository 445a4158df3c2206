package controllers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amaumene/rakuroku/internal/models"
	"github.com/amaumene/rakuroku/internal/services/anilist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listOf(entries ...models.ListEntry) func(context.Context, models.MediaType) ([]models.ListEntry, error) {
	return func(context.Context, models.MediaType) ([]models.ListEntry, error) {
		return entries, nil
	}
}

func TestScheduleAnnotatesEpisodes(t *testing.T) {
	var requestedDay int
	api := &fakeAPI{
		fetchList: listOf(
			animeEntry(1, 10, models.StatusCurrent, 3, 12),
			animeEntry(2, 11, models.StatusDropped, 1, 12),
		),
		fetchSchedule: func(_ context.Context, day int) ([]models.AiringEvent, error) {
			requestedDay = day
			return []models.AiringEvent{
				{ID: 1, Episode: 4, Media: models.MediaRef{ID: 10}},
				{ID: 2, Episode: 2, Media: models.MediaRef{ID: 11}},
				{ID: 3, Episode: 1, Media: models.MediaRef{ID: 12}},
			}, nil
		},
	}
	c := NewScheduleController(api, testLogger())
	c.SetDay(2)

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, 2, requestedDay)

	episodes := c.Episodes()
	require.Len(t, episodes, 3)

	assert.True(t, episodes[0].OnList)
	assert.True(t, episodes[0].Highlighted)
	assert.Equal(t, models.StatusCurrent, episodes[0].Status)

	assert.True(t, episodes[1].OnList)
	assert.False(t, episodes[1].Highlighted)
	assert.Equal(t, models.StatusDropped, episodes[1].Status)

	assert.False(t, episodes[2].OnList)
	assert.Empty(t, episodes[2].Status)
}

func TestScheduleDayWraps(t *testing.T) {
	c := NewScheduleController(&fakeAPI{}, testLogger())
	c.SetDay(6)
	assert.Equal(t, 0, c.NextDay())
	assert.Equal(t, 6, c.PrevDay())
	c.SetDay(-1)
	assert.Equal(t, 6, c.Day())
	c.SetDay(15)
	assert.Equal(t, 1, c.Day())
	c.SetDay(0)
	assert.Equal(t, 6, c.PrevDay())
}

func TestScheduleFirstFailureWins(t *testing.T) {
	api := &fakeAPI{
		fetchList: func(ctx context.Context, _ models.MediaType) ([]models.ListEntry, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
		fetchSchedule: func(context.Context, int) ([]models.AiringEvent, error) {
			return nil, &anilist.Error{Kind: anilist.KindService, StatusCode: 502}
		},
	}
	c := NewScheduleController(api, testLogger())

	err := c.Load(context.Background())
	kind, ok := anilist.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, anilist.KindService, kind)

	state, msg := c.State()
	assert.Equal(t, StateError, state)
	assert.Equal(t, "AniList API error: 502", msg)
	assert.Empty(t, c.Episodes())
}

func TestSeasonLoadAndLoadMore(t *testing.T) {
	api := &fakeAPI{
		fetchList: listOf(animeEntry(1, 2, models.StatusCompleted, 12, 12)),
		fetchSeasonal: func(_ context.Context, season models.Season, year, page, pageSize int, sort models.MediaSort) (models.Page[models.SeasonalEntry], error) {
			assert.Equal(t, models.SeasonFall, season)
			assert.Equal(t, 2024, year)
			assert.Equal(t, SeasonPageSize, pageSize)
			assert.Equal(t, models.SortScoreDesc, sort)
			return models.Page[models.SeasonalEntry]{
				Items: []models.SeasonalEntry{
					{MediaRef: models.MediaRef{ID: page * 2}},
					{MediaRef: models.MediaRef{ID: page*2 + 1}},
				},
				CurrentPage: page,
				HasNextPage: page < 2,
			}, nil
		},
	}
	c := NewSeasonController(api, models.SeasonFall, 2024, models.SortScoreDesc, testLogger())

	require.NoError(t, c.Load(context.Background()))
	items := c.Items()
	require.Len(t, items, 2)
	assert.True(t, items[0].Highlighted)
	assert.False(t, items[1].OnList)

	loaded, err := c.LoadMore(context.Background())
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Len(t, c.Items(), 4)
	assert.False(t, c.HasNextPage())

	loaded, err = c.LoadMore(context.Background())
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, 2, api.count("FetchSeasonalPage"))
}

func TestSeasonOf(t *testing.T) {
	assert.Equal(t, models.SeasonWinter, SeasonOf(time.January))
	assert.Equal(t, models.SeasonWinter, SeasonOf(time.March))
	assert.Equal(t, models.SeasonSpring, SeasonOf(time.April))
	assert.Equal(t, models.SeasonSummer, SeasonOf(time.August))
	assert.Equal(t, models.SeasonFall, SeasonOf(time.December))

	s, y := NextSeason(models.SeasonFall, 2024)
	assert.Equal(t, models.SeasonWinter, s)
	assert.Equal(t, 2025, y)
	s, y = NextSeason(models.SeasonSpring, 2024)
	assert.Equal(t, models.SeasonSummer, s)
	assert.Equal(t, 2024, y)
}

func TestDiscoverRollsOverYear(t *testing.T) {
	type req struct {
		season models.Season
		year   int
	}
	seen := make(chan req, 2)
	api := &fakeAPI{
		fetchSeasonal: func(_ context.Context, season models.Season, year, page, _ int, _ models.MediaSort) (models.Page[models.SeasonalEntry], error) {
			assert.Equal(t, 1, page)
			seen <- req{season, year}
			return models.Page[models.SeasonalEntry]{
				Items:       []models.SeasonalEntry{{MediaRef: models.MediaRef{ID: year}}},
				HasNextPage: true,
			}, nil
		},
	}
	c := NewDiscoverController(api, testLogger())
	c.now = func() time.Time { return time.Date(2024, time.November, 3, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, c.Load(context.Background()))
	close(seen)

	var reqs []req
	for r := range seen {
		reqs = append(reqs, r)
	}
	assert.ElementsMatch(t, []req{{models.SeasonFall, 2024}, {models.SeasonWinter, 2025}}, reqs)

	current, next := c.Previews()
	assert.Equal(t, "This Season", current.Label)
	assert.Equal(t, 2024, current.Entries[0].ID)
	assert.Equal(t, models.SeasonWinter, next.Season)
	assert.Equal(t, 2025, next.Entries[0].ID)
	assert.True(t, next.HasMore)
}

func TestDiscoverFailure(t *testing.T) {
	api := &fakeAPI{
		fetchSeasonal: func(_ context.Context, season models.Season, _, _, _ int, _ models.MediaSort) (models.Page[models.SeasonalEntry], error) {
			if season == models.SeasonWinter {
				return models.Page[models.SeasonalEntry]{}, &anilist.Error{Kind: anilist.KindQuery, Message: "Invalid season"}
			}
			return models.Page[models.SeasonalEntry]{}, nil
		},
	}
	c := NewDiscoverController(api, testLogger())
	c.now = func() time.Time { return time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC) }

	require.Error(t, c.Load(context.Background()))
	state, msg := c.State()
	assert.Equal(t, StateError, state)
	assert.Equal(t, "Invalid season", msg)
}

func TestStudioLoad(t *testing.T) {
	api := &fakeAPI{
		fetchList: listOf(animeEntry(1, 5, models.StatusPlanning, 0, 12)),
		fetchStudio: func(_ context.Context, id int) (*models.StudioCatalog, error) {
			assert.Equal(t, 44, id)
			return &models.StudioCatalog{
				Studio: models.Studio{ID: 44, Name: "Shaft"},
				Media: []models.StudioMedia{
					{MediaRef: models.MediaRef{ID: 5}},
					{MediaRef: models.MediaRef{ID: 6}},
				},
			}, nil
		},
	}
	c := NewStudioController(api, 44, testLogger())

	_, ok := c.Studio()
	assert.False(t, ok)
	assert.Nil(t, c.Media())

	require.NoError(t, c.Load(context.Background()))
	studio, ok := c.Studio()
	require.True(t, ok)
	assert.Equal(t, "Shaft", studio.Name)

	media := c.Media()
	require.Len(t, media, 2)
	assert.Equal(t, models.StatusPlanning, media[0].Status)
	assert.False(t, media[0].Highlighted)
	assert.False(t, media[1].OnList)
}

func TestDetailLoadTracksEntry(t *testing.T) {
	api := &fakeAPI{
		fetchDetails: func(_ context.Context, id int) (*models.MediaDetails, error) {
			return &models.MediaDetails{MediaRef: models.MediaRef{ID: id, Episodes: 12, Type: models.MediaTypeAnime}}, nil
		},
		fetchUserEntry: func(_ context.Context, mediaID int) (*models.ListEntry, error) {
			return &models.ListEntry{ID: 77, Status: models.StatusCurrent, Progress: 11, Media: models.MediaRef{ID: mediaID}}, nil
		},
	}
	c := NewDetailController(api, fakeAuth(true), 9, testLogger())
	require.NoError(t, c.Load(context.Background()))

	entry, ok := c.Entry()
	require.True(t, ok)
	assert.Equal(t, 12, entry.Media.Episodes)

	m, err := c.Edits().AdjustProgress(context.Background(), 77, 1)
	require.NoError(t, err)
	require.NotNil(t, m)
	require.NoError(t, m.Wait())

	m, err = c.Edits().AdjustProgress(context.Background(), 77, 1)
	require.NoError(t, err)
	assert.Nil(t, m)

	entry, _ = c.Entry()
	assert.Equal(t, 12, entry.Progress)
}

func TestDetailShowsEntryWhenLoggedOut(t *testing.T) {
	api := &fakeAPI{
		fetchUserEntry: func(_ context.Context, mediaID int) (*models.ListEntry, error) {
			return &models.ListEntry{ID: 77, Status: models.StatusPaused, Progress: 4, Media: models.MediaRef{ID: mediaID}}, nil
		},
	}
	c := NewDetailController(api, fakeAuth(false), 9, testLogger())
	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, 1, api.count("FetchUserEntry"))
	entry, ok := c.Entry()
	require.True(t, ok)
	assert.Equal(t, models.StatusPaused, entry.Status)
	assert.Equal(t, 9, c.Details().ID)

	_, err := c.Edits().AdjustProgress(context.Background(), 77, 1)
	assert.ErrorIs(t, err, anilist.ErrNotAuthenticated)
	_, err = c.RemoveEntry(context.Background())
	assert.ErrorIs(t, err, anilist.ErrNotAuthenticated)
	assert.Equal(t, 0, api.count("UpdateProgress"))
	assert.Equal(t, 0, api.count("DeleteListEntry"))
}

func TestDetailWithoutUserName(t *testing.T) {
	api := &fakeAPI{
		fetchUserEntry: func(context.Context, int) (*models.ListEntry, error) {
			return nil, anilist.ErrNoUserName
		},
	}
	c := NewDetailController(api, fakeAuth(false), 9, testLogger())
	require.NoError(t, c.Load(context.Background()))

	state, _ := c.State()
	assert.Equal(t, StateReady, state)
	_, ok := c.Entry()
	assert.False(t, ok)

	_, err := c.AddEntry(context.Background(), models.StatusPlanning)
	assert.ErrorIs(t, err, anilist.ErrNotAuthenticated)
}

func TestDetailAddAndRemove(t *testing.T) {
	api := &fakeAPI{}
	c := NewDetailController(api, fakeAuth(true), 9, testLogger())
	require.NoError(t, c.Load(context.Background()))
	ctx := context.Background()

	added, err := c.AddEntry(ctx, models.StatusPlanning)
	require.NoError(t, err)
	assert.True(t, added)
	entry, ok := c.Entry()
	require.True(t, ok)
	assert.Equal(t, models.StatusPlanning, entry.Status)

	added, err = c.AddEntry(ctx, models.StatusCurrent)
	require.NoError(t, err)
	assert.False(t, added)

	removed, err := c.RemoveEntry(ctx)
	require.NoError(t, err)
	assert.True(t, removed)
	_, ok = c.Entry()
	assert.False(t, ok)
	_, tracked := c.Edits().Entry(entry.ID)
	assert.False(t, tracked)

	removed, err = c.RemoveEntry(ctx)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 1, api.count("DeleteListEntry"))
}

func TestDetailAddFailureIsSwallowed(t *testing.T) {
	api := &fakeAPI{
		addListEntry: func(context.Context, int, models.ListStatus) (*models.ListEntry, error) {
			return nil, errors.New("offline")
		},
	}
	c := NewDetailController(api, fakeAuth(true), 9, testLogger())
	require.NoError(t, c.Load(context.Background()))

	added, err := c.AddEntry(context.Background(), models.StatusPlanning)
	require.NoError(t, err)
	assert.False(t, added)
	_, ok := c.Entry()
	assert.False(t, ok)

	_, err = c.AddEntry(context.Background(), "BOGUS")
	assert.Error(t, err)
}

func TestProfileLoad(t *testing.T) {
	api := &fakeAPI{
		fetchUser: func(context.Context) (*models.User, error) {
			return &models.User{ID: 5, Name: "kaze"}, nil
		},
		fetchActivities: func(_ context.Context, userID, count int) ([]models.ActivityEvent, error) {
			assert.Equal(t, 5, userID)
			assert.Equal(t, anilist.DefaultActivityCount, count)
			return []models.ActivityEvent{{ID: 2}, {ID: 1}}, nil
		},
	}
	c := NewProfileController(api, 0, testLogger())

	require.NoError(t, c.Load(context.Background()))
	assert.Equal(t, "kaze", c.User().Name)
	assert.Len(t, c.Activities(), 2)
}

func TestProfileUserFailureSkipsFeed(t *testing.T) {
	api := &fakeAPI{
		fetchUser: func(context.Context) (*models.User, error) {
			return nil, &anilist.Error{Kind: anilist.KindTransport, Err: errors.New("dial tcp: refused")}
		},
	}
	c := NewProfileController(api, 5, testLogger())

	require.Error(t, c.Load(context.Background()))
	assert.Equal(t, 0, api.count("FetchActivities"))
	state, msg := c.State()
	assert.Equal(t, StateError, state)
	assert.Contains(t, msg, "request failed")
}

func TestLoadStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "error", StateError.String())
	assert.Equal(t, "unknown", LoadState(42).String())
}
