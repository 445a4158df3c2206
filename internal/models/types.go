package models

// MediaType represents the kind of title (anime or manga)
type MediaType string

const (
	MediaTypeAnime MediaType = "ANIME"
	MediaTypeManga MediaType = "MANGA"
)

// ListStatus represents where a title sits in the user's list
type ListStatus string

const (
	StatusCurrent   ListStatus = "CURRENT"
	StatusCompleted ListStatus = "COMPLETED"
	StatusDropped   ListStatus = "DROPPED"
	StatusPlanning  ListStatus = "PLANNING"
	StatusPaused    ListStatus = "PAUSED"
	StatusRepeating ListStatus = "REPEATING"
)

// ListStatuses lists every valid status in display order
var ListStatuses = []ListStatus{
	StatusCurrent,
	StatusCompleted,
	StatusPaused,
	StatusDropped,
	StatusPlanning,
	StatusRepeating,
}

// Valid reports whether s is one of the known statuses
func (s ListStatus) Valid() bool {
	switch s {
	case StatusCurrent, StatusCompleted, StatusDropped, StatusPlanning, StatusPaused, StatusRepeating:
		return true
	default:
		return false
	}
}

// Season represents an airing season
type Season string

const (
	SeasonWinter Season = "WINTER"
	SeasonSpring Season = "SPRING"
	SeasonSummer Season = "SUMMER"
	SeasonFall   Season = "FALL"
)

// Valid reports whether s is one of the four seasons
func (s Season) Valid() bool {
	switch s {
	case SeasonWinter, SeasonSpring, SeasonSummer, SeasonFall:
		return true
	default:
		return false
	}
}

// MediaSort is a sort key accepted by paginated title queries
type MediaSort string

const (
	SortPopularityDesc MediaSort = "POPULARITY_DESC"
	SortScoreDesc      MediaSort = "SCORE_DESC"
	SortTrendingDesc   MediaSort = "TRENDING_DESC"
	SortStartDateDesc  MediaSort = "START_DATE_DESC"
	SortTitleRomaji    MediaSort = "TITLE_ROMAJI"
)
