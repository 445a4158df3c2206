package controllers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/amaumene/rakuroku/internal/models"
	"github.com/amaumene/rakuroku/internal/utils"
	"github.com/sirupsen/logrus"
)

// fakeAPI stands in for *anilist.Client. Unset funcs return zero values.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	fetchList       func(ctx context.Context, mediaType models.MediaType) ([]models.ListEntry, error)
	updateProgress  func(ctx context.Context, mediaID, progress int) error
	updateScore     func(ctx context.Context, mediaID, score int) error
	updateStatus    func(ctx context.Context, mediaID int, status models.ListStatus) error
	fetchSchedule   func(ctx context.Context, dayIndex int) ([]models.AiringEvent, error)
	fetchSeasonal   func(ctx context.Context, season models.Season, year, page, pageSize int, sort models.MediaSort) (models.Page[models.SeasonalEntry], error)
	fetchStudio     func(ctx context.Context, studioID int) (*models.StudioCatalog, error)
	searchMedia     func(ctx context.Context, query string, page, pageSize int) (models.Page[models.MediaRef], error)
	fetchDetails    func(ctx context.Context, id int) (*models.MediaDetails, error)
	fetchUserEntry  func(ctx context.Context, mediaID int) (*models.ListEntry, error)
	addListEntry    func(ctx context.Context, mediaID int, status models.ListStatus) (*models.ListEntry, error)
	deleteListEntry func(ctx context.Context, entryID int) error
	fetchUser       func(ctx context.Context) (*models.User, error)
	fetchActivities func(ctx context.Context, userID, count int) ([]models.ActivityEvent, error)
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[name]++
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) FetchList(ctx context.Context, mediaType models.MediaType) ([]models.ListEntry, error) {
	f.record("FetchList")
	if f.fetchList == nil {
		return nil, nil
	}
	return f.fetchList(ctx, mediaType)
}

func (f *fakeAPI) UpdateProgress(ctx context.Context, mediaID, progress int) error {
	f.record("UpdateProgress")
	if f.updateProgress == nil {
		return nil
	}
	return f.updateProgress(ctx, mediaID, progress)
}

func (f *fakeAPI) UpdateScore(ctx context.Context, mediaID, score int) error {
	f.record("UpdateScore")
	if f.updateScore == nil {
		return nil
	}
	return f.updateScore(ctx, mediaID, score)
}

func (f *fakeAPI) UpdateStatus(ctx context.Context, mediaID int, status models.ListStatus) error {
	f.record("UpdateStatus")
	if f.updateStatus == nil {
		return nil
	}
	return f.updateStatus(ctx, mediaID, status)
}

func (f *fakeAPI) FetchAiringSchedule(ctx context.Context, dayIndex int) ([]models.AiringEvent, error) {
	f.record("FetchAiringSchedule")
	if f.fetchSchedule == nil {
		return nil, nil
	}
	return f.fetchSchedule(ctx, dayIndex)
}

func (f *fakeAPI) FetchSeasonalPage(ctx context.Context, season models.Season, year, page, pageSize int, sort models.MediaSort) (models.Page[models.SeasonalEntry], error) {
	f.record("FetchSeasonalPage")
	if f.fetchSeasonal == nil {
		return models.Page[models.SeasonalEntry]{}, nil
	}
	return f.fetchSeasonal(ctx, season, year, page, pageSize, sort)
}

func (f *fakeAPI) FetchStudioMedia(ctx context.Context, studioID int) (*models.StudioCatalog, error) {
	f.record("FetchStudioMedia")
	if f.fetchStudio == nil {
		return &models.StudioCatalog{}, nil
	}
	return f.fetchStudio(ctx, studioID)
}

func (f *fakeAPI) SearchMedia(ctx context.Context, query string, page, pageSize int) (models.Page[models.MediaRef], error) {
	f.record("SearchMedia")
	if f.searchMedia == nil {
		return models.Page[models.MediaRef]{}, nil
	}
	return f.searchMedia(ctx, query, page, pageSize)
}

func (f *fakeAPI) FetchDetails(ctx context.Context, id int) (*models.MediaDetails, error) {
	f.record("FetchDetails")
	if f.fetchDetails == nil {
		return &models.MediaDetails{MediaRef: models.MediaRef{ID: id}}, nil
	}
	return f.fetchDetails(ctx, id)
}

func (f *fakeAPI) FetchUserEntry(ctx context.Context, mediaID int) (*models.ListEntry, error) {
	f.record("FetchUserEntry")
	if f.fetchUserEntry == nil {
		return nil, nil
	}
	return f.fetchUserEntry(ctx, mediaID)
}

func (f *fakeAPI) AddListEntry(ctx context.Context, mediaID int, status models.ListStatus) (*models.ListEntry, error) {
	f.record("AddListEntry")
	if f.addListEntry == nil {
		return &models.ListEntry{ID: 1, Status: status, Media: models.MediaRef{ID: mediaID}}, nil
	}
	return f.addListEntry(ctx, mediaID, status)
}

func (f *fakeAPI) DeleteListEntry(ctx context.Context, entryID int) error {
	f.record("DeleteListEntry")
	if f.deleteListEntry == nil {
		return nil
	}
	return f.deleteListEntry(ctx, entryID)
}

func (f *fakeAPI) FetchUser(ctx context.Context) (*models.User, error) {
	f.record("FetchUser")
	if f.fetchUser == nil {
		return &models.User{ID: 1, Name: "tester"}, nil
	}
	return f.fetchUser(ctx)
}

func (f *fakeAPI) FetchActivities(ctx context.Context, userID, count int) ([]models.ActivityEvent, error) {
	f.record("FetchActivities")
	if f.fetchActivities == nil {
		return nil, nil
	}
	return f.fetchActivities(ctx, userID, count)
}

type fakeAuth bool

func (a fakeAuth) Authenticated() bool { return bool(a) }

func testLogger() *logrus.Logger {
	return utils.DiscardLogger()
}

func animeEntry(id, mediaID int, status models.ListStatus, progress, episodes int) models.ListEntry {
	return models.ListEntry{
		ID:       id,
		Status:   status,
		Progress: progress,
		Media: models.MediaRef{
			ID:       mediaID,
			Type:     models.MediaTypeAnime,
			Episodes: episodes,
			Title:    models.MediaTitle{Romaji: "Title " + string(rune('A'+id%26))},
		},
	}
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
