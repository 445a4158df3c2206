package models

import "time"

// MediaTitle holds the three title variants the service returns
type MediaTitle struct {
	Romaji  string
	English string
	Native  string
}

// Display prefers the English title, falling back to romaji
func (t MediaTitle) Display() string {
	if t.English != "" {
		return t.English
	}
	return t.Romaji
}

// CoverImage holds cover URLs
type CoverImage struct {
	Large  string
	Medium string
}

// NextAiring points at the next episode to air
type NextAiring struct {
	AiringAt        time.Time
	TimeUntilAiring time.Duration
	Episode         int
}

// MediaRef is a normalized reference to a trackable title
type MediaRef struct {
	ID           int
	Type         MediaType
	Title        MediaTitle
	Cover        CoverImage
	Episodes     int // 0 when unknown
	Chapters     int // 0 when unknown
	Format       string
	Status       string // release status
	AverageScore int    // 0 when unscored
	NextAiring   *NextAiring
}

// TotalUnits returns the episode count for anime and chapter count for manga.
// Zero means the total is unknown.
func (m MediaRef) TotalUnits() int {
	if m.Type == MediaTypeManga {
		return m.Chapters
	}
	return m.Episodes
}

// ListEntry is the user's tracking record for one title
type ListEntry struct {
	ID        int // list entry id, distinct from Media.ID
	Media     MediaRef
	Status    ListStatus
	Progress  int
	Score     int // 0-10
	UpdatedAt time.Time
}

// FuzzyDate is a date with partial precision. Zero fields are unknown.
type FuzzyDate struct {
	Year  int
	Month int
	Day   int
}

// AiringEvent is one scheduled episode broadcast
type AiringEvent struct {
	ID       int
	Media    MediaRef
	Episode  int
	AiringAt time.Time
}

// Studio is a production studio
type Studio struct {
	ID                int
	Name              string
	IsAnimationStudio bool
	IsMain            bool
}

// SeasonalEntry is a title from a season listing
type SeasonalEntry struct {
	MediaRef
	Studios []Studio
}

// StudioMedia is a title from a studio catalog
type StudioMedia struct {
	MediaRef
	StartDate FuzzyDate
}

// StudioCatalog is a studio together with every title it worked on
type StudioCatalog struct {
	Studio Studio
	Media  []StudioMedia
}

// ActivityEvent is one list activity from a user's feed
type ActivityEvent struct {
	ID        int
	Status    string // e.g. "watched episode"
	Progress  string // e.g. "3 - 5"
	Media     MediaRef
	CreatedAt time.Time
}

// Ranking is a seasonal or all-time rank
type Ranking struct {
	ID      int
	Rank    int
	Type    string // RATED or POPULAR
	Format  string
	Year    int
	Season  Season
	AllTime bool
	Context string
}

// Relation links a title to a related one
type Relation struct {
	Type  string // SEQUEL, PREQUEL, ...
	Media MediaRef
}

// Trailer is an external trailer reference
type Trailer struct {
	ID        string
	Site      string
	Thumbnail string
}

// MediaDetails is the full detail view of a title
type MediaDetails struct {
	MediaRef
	BannerImage string
	Description string
	Volumes     int
	MeanScore   int
	Popularity  int
	Genres      []string
	Season      Season
	SeasonYear  int
	StartDate   FuzzyDate
	EndDate     FuzzyDate
	Duration    int // minutes per episode
	Source      string
	Studios     []Studio
	Trailer     *Trailer
	Rankings    []Ranking
	Relations   []Relation
}

// SeasonalRank returns the RATED rank for the title's own season, falling
// back to POPULAR
func (d MediaDetails) SeasonalRank() *Ranking {
	if d.Season == "" || d.SeasonYear == 0 {
		return nil
	}
	for _, want := range []string{"RATED", "POPULAR"} {
		for i := range d.Rankings {
			r := d.Rankings[i]
			if r.Season == d.Season && r.Year == d.SeasonYear && r.Type == want {
				return &r
			}
		}
	}
	return nil
}

// AnimeStatistics summarises a user's anime list
type AnimeStatistics struct {
	Count           int
	EpisodesWatched int
	MinutesWatched  int
}

// MangaStatistics summarises a user's manga list
type MangaStatistics struct {
	Count        int
	ChaptersRead int
}

// User is a profile
type User struct {
	ID          int
	Name        string
	Avatar      CoverImage
	BannerImage string
	Anime       AnimeStatistics
	Manga       MangaStatistics
}

// Page is one page of a paginated listing
type Page[T any] struct {
	Items       []T
	CurrentPage int
	HasNextPage bool
}
