package anilist

import (
	"math"
	"time"

	"github.com/amaumene/rakuroku/internal/models"
)

// Response shapes as returned by the service. Nullable scalars decode to
// their zero value, which the models treat as "unknown".

type pageInfo struct {
	HasNextPage bool `json:"hasNextPage"`
	CurrentPage int  `json:"currentPage"`
}

type titleJSON struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Native  string `json:"native"`
}

type imageJSON struct {
	Large  string `json:"large"`
	Medium string `json:"medium"`
}

type fuzzyDateJSON struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type nextAiringJSON struct {
	AiringAt        int64 `json:"airingAt"`
	TimeUntilAiring int64 `json:"timeUntilAiring"`
	Episode         int   `json:"episode"`
}

type studioEdgeJSON struct {
	IsMain bool `json:"isMain"`
	Node   struct {
		ID                int    `json:"id"`
		Name              string `json:"name"`
		IsAnimationStudio bool   `json:"isAnimationStudio"`
	} `json:"node"`
}

type mediaJSON struct {
	ID                int             `json:"id"`
	Type              string          `json:"type"`
	Title             titleJSON       `json:"title"`
	CoverImage        imageJSON       `json:"coverImage"`
	Episodes          int             `json:"episodes"`
	Chapters          int             `json:"chapters"`
	Format            string          `json:"format"`
	Status            string          `json:"status"`
	AverageScore      int             `json:"averageScore"`
	NextAiringEpisode *nextAiringJSON `json:"nextAiringEpisode"`
	StartDate         fuzzyDateJSON   `json:"startDate"`
	Studios           struct {
		Edges []studioEdgeJSON `json:"edges"`
	} `json:"studios"`
}

func (m mediaJSON) toRef() models.MediaRef {
	ref := models.MediaRef{
		ID:   m.ID,
		Type: models.MediaType(m.Type),
		Title: models.MediaTitle{
			Romaji:  m.Title.Romaji,
			English: m.Title.English,
			Native:  m.Title.Native,
		},
		Cover: models.CoverImage{
			Large:  m.CoverImage.Large,
			Medium: m.CoverImage.Medium,
		},
		Episodes:     m.Episodes,
		Chapters:     m.Chapters,
		Format:       m.Format,
		Status:       m.Status,
		AverageScore: m.AverageScore,
	}
	if n := m.NextAiringEpisode; n != nil {
		ref.NextAiring = &models.NextAiring{
			AiringAt:        time.Unix(n.AiringAt, 0),
			TimeUntilAiring: time.Duration(n.TimeUntilAiring) * time.Second,
			Episode:         n.Episode,
		}
	}
	return ref
}

func toStudios(edges []studioEdgeJSON) []models.Studio {
	studios := make([]models.Studio, 0, len(edges))
	for _, e := range edges {
		studios = append(studios, models.Studio{
			ID:                e.Node.ID,
			Name:              e.Node.Name,
			IsAnimationStudio: e.Node.IsAnimationStudio,
			IsMain:            e.IsMain,
		})
	}
	return studios
}

func (d fuzzyDateJSON) toModel() models.FuzzyDate {
	return models.FuzzyDate{Year: d.Year, Month: d.Month, Day: d.Day}
}

type listEntryJSON struct {
	ID        int       `json:"id"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	Score     float64   `json:"score"`
	UpdatedAt int64     `json:"updatedAt"`
	Media     mediaJSON `json:"media"`
}

func (e listEntryJSON) toModel() models.ListEntry {
	return models.ListEntry{
		ID:        e.ID,
		Media:     e.Media.toRef(),
		Status:    models.ListStatus(e.Status),
		Progress:  e.Progress,
		Score:     int(math.Round(e.Score)),
		UpdatedAt: time.Unix(e.UpdatedAt, 0),
	}
}

type detailsJSON struct {
	mediaJSON
	BannerImage string        `json:"bannerImage"`
	Description string        `json:"description"`
	Volumes     int           `json:"volumes"`
	MeanScore   int           `json:"meanScore"`
	Popularity  int           `json:"popularity"`
	Genres      []string      `json:"genres"`
	Season      string        `json:"season"`
	SeasonYear  int           `json:"seasonYear"`
	EndDate     fuzzyDateJSON `json:"endDate"`
	Duration    int           `json:"duration"`
	Source      string        `json:"source"`
	Trailer     *struct {
		ID        string `json:"id"`
		Site      string `json:"site"`
		Thumbnail string `json:"thumbnail"`
	} `json:"trailer"`
	Rankings []struct {
		ID      int    `json:"id"`
		Rank    int    `json:"rank"`
		Type    string `json:"type"`
		Format  string `json:"format"`
		Year    int    `json:"year"`
		Season  string `json:"season"`
		AllTime bool   `json:"allTime"`
		Context string `json:"context"`
	} `json:"rankings"`
	Relations struct {
		Edges []struct {
			RelationType string    `json:"relationType"`
			Node         mediaJSON `json:"node"`
		} `json:"edges"`
	} `json:"relations"`
}

func (d detailsJSON) toModel() models.MediaDetails {
	details := models.MediaDetails{
		MediaRef:    d.mediaJSON.toRef(),
		BannerImage: d.BannerImage,
		Description: d.Description,
		Volumes:     d.Volumes,
		MeanScore:   d.MeanScore,
		Popularity:  d.Popularity,
		Genres:      d.Genres,
		Season:      models.Season(d.Season),
		SeasonYear:  d.SeasonYear,
		StartDate:   d.StartDate.toModel(),
		EndDate:     d.EndDate.toModel(),
		Duration:    d.Duration,
		Source:      d.Source,
		Studios:     toStudios(d.Studios.Edges),
	}
	if d.Trailer != nil {
		details.Trailer = &models.Trailer{
			ID:        d.Trailer.ID,
			Site:      d.Trailer.Site,
			Thumbnail: d.Trailer.Thumbnail,
		}
	}
	for _, r := range d.Rankings {
		details.Rankings = append(details.Rankings, models.Ranking{
			ID:      r.ID,
			Rank:    r.Rank,
			Type:    r.Type,
			Format:  r.Format,
			Year:    r.Year,
			Season:  models.Season(r.Season),
			AllTime: r.AllTime,
			Context: r.Context,
		})
	}
	for _, e := range d.Relations.Edges {
		details.Relations = append(details.Relations, models.Relation{
			Type:  e.RelationType,
			Media: e.Node.toRef(),
		})
	}
	return details
}
