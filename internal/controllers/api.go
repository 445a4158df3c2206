package controllers

import (
	"context"

	"github.com/amaumene/rakuroku/internal/models"
)

// The interfaces below are the slices of *anilist.Client each controller
// depends on.

// ListFetcher loads a user's full list
type ListFetcher interface {
	FetchList(ctx context.Context, mediaType models.MediaType) ([]models.ListEntry, error)
}

// EntryMutator sends list entry edits
type EntryMutator interface {
	UpdateProgress(ctx context.Context, mediaID, progress int) error
	UpdateScore(ctx context.Context, mediaID, score int) error
	UpdateStatus(ctx context.Context, mediaID int, status models.ListStatus) error
}

// ScheduleFetcher backs the airing schedule screen
type ScheduleFetcher interface {
	ListFetcher
	FetchAiringSchedule(ctx context.Context, dayIndex int) ([]models.AiringEvent, error)
}

// SeasonFetcher backs the seasonal and discover screens
type SeasonFetcher interface {
	ListFetcher
	FetchSeasonalPage(ctx context.Context, season models.Season, year, page, pageSize int, sort models.MediaSort) (models.Page[models.SeasonalEntry], error)
}

// StudioFetcher backs the studio screen
type StudioFetcher interface {
	ListFetcher
	FetchStudioMedia(ctx context.Context, studioID int) (*models.StudioCatalog, error)
}

// MediaSearcher runs title searches
type MediaSearcher interface {
	SearchMedia(ctx context.Context, query string, page, pageSize int) (models.Page[models.MediaRef], error)
}

// DetailFetcher backs the title detail screen
type DetailFetcher interface {
	EntryMutator
	FetchDetails(ctx context.Context, id int) (*models.MediaDetails, error)
	FetchUserEntry(ctx context.Context, mediaID int) (*models.ListEntry, error)
	AddListEntry(ctx context.Context, mediaID int, status models.ListStatus) (*models.ListEntry, error)
	DeleteListEntry(ctx context.Context, entryID int) error
}

// ProfileFetcher backs the profile screen
type ProfileFetcher interface {
	FetchUser(ctx context.Context) (*models.User, error)
	FetchActivities(ctx context.Context, userID, count int) ([]models.ActivityEvent, error)
}

// Authenticator reports whether a token is held
type Authenticator interface {
	Authenticated() bool
}
