package anilist

import (
	"context"
	"fmt"

	"github.com/amaumene/rakuroku/internal/models"
)

// FetchDetails retrieves the full detail view of a title
func (c *Client) FetchDetails(ctx context.Context, id int) (*models.MediaDetails, error) {
	var data struct {
		Media *detailsJSON `json:"Media"`
	}

	if err := c.doRequest(ctx, "fetch_details", detailsQuery, map[string]any{"id": id}, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch media %d: %w", id, err)
	}
	if data.Media == nil {
		return nil, fmt.Errorf("media %d not found", id)
	}

	details := data.Media.toModel()
	return &details, nil
}

// FetchSeasonalPage retrieves one page of a season's anime
func (c *Client) FetchSeasonalPage(ctx context.Context, season models.Season, year, page, pageSize int, sort models.MediaSort) (models.Page[models.SeasonalEntry], error) {
	if !season.Valid() {
		return models.Page[models.SeasonalEntry]{}, fmt.Errorf("invalid season %q", season)
	}
	if sort == "" {
		sort = models.SortPopularityDesc
	}

	var data struct {
		Page struct {
			PageInfo pageInfo    `json:"pageInfo"`
			Media    []mediaJSON `json:"media"`
		} `json:"Page"`
	}

	variables := map[string]any{
		"season":     season,
		"seasonYear": year,
		"page":       page,
		"perPage":    pageSize,
		"sort":       []models.MediaSort{sort},
	}
	if err := c.doRequest(ctx, "fetch_seasonal", seasonalQuery, variables, &data); err != nil {
		return models.Page[models.SeasonalEntry]{}, fmt.Errorf("failed to fetch %s %d page %d: %w", season, year, page, err)
	}

	items := make([]models.SeasonalEntry, 0, len(data.Page.Media))
	for _, m := range data.Page.Media {
		items = append(items, models.SeasonalEntry{
			MediaRef: m.toRef(),
			Studios:  toStudios(m.Studios.Edges),
		})
	}

	return models.Page[models.SeasonalEntry]{
		Items:       items,
		CurrentPage: data.Page.PageInfo.CurrentPage,
		HasNextPage: data.Page.PageInfo.HasNextPage,
	}, nil
}

// SearchMedia retrieves one page of titles matching query
func (c *Client) SearchMedia(ctx context.Context, query string, page, pageSize int) (models.Page[models.MediaRef], error) {
	var data struct {
		Page struct {
			PageInfo pageInfo    `json:"pageInfo"`
			Media    []mediaJSON `json:"media"`
		} `json:"Page"`
	}

	variables := map[string]any{
		"search":  query,
		"page":    page,
		"perPage": pageSize,
	}
	if err := c.doRequest(ctx, "search_media", searchQuery, variables, &data); err != nil {
		return models.Page[models.MediaRef]{}, fmt.Errorf("failed to search %q: %w", query, err)
	}

	items := make([]models.MediaRef, 0, len(data.Page.Media))
	for _, m := range data.Page.Media {
		items = append(items, m.toRef())
	}

	return models.Page[models.MediaRef]{
		Items:       items,
		CurrentPage: data.Page.PageInfo.CurrentPage,
		HasNextPage: data.Page.PageInfo.HasNextPage,
	}, nil
}

// FetchStudioMedia retrieves a studio's whole catalog. The service lists a
// title once per production edge, so results are deduplicated by media id,
// keeping the first occurrence.
func (c *Client) FetchStudioMedia(ctx context.Context, studioID int) (*models.StudioCatalog, error) {
	catalog := &models.StudioCatalog{}
	seen := make(map[int]struct{})

	for page := 1; page <= maxAggregatePages; page++ {
		var data struct {
			Studio *struct {
				ID                int    `json:"id"`
				Name              string `json:"name"`
				IsAnimationStudio bool   `json:"isAnimationStudio"`
				Media             struct {
					PageInfo pageInfo `json:"pageInfo"`
					Edges    []struct {
						Node mediaJSON `json:"node"`
					} `json:"edges"`
				} `json:"media"`
			} `json:"Studio"`
		}

		variables := map[string]any{"id": studioID, "page": page}
		if err := c.doRequest(ctx, "fetch_studio", studioQuery, variables, &data); err != nil {
			return nil, fmt.Errorf("failed to fetch studio %d page %d: %w", studioID, page, err)
		}
		if data.Studio == nil {
			return nil, fmt.Errorf("studio %d not found", studioID)
		}

		catalog.Studio = models.Studio{
			ID:                data.Studio.ID,
			Name:              data.Studio.Name,
			IsAnimationStudio: data.Studio.IsAnimationStudio,
		}

		for _, edge := range data.Studio.Media.Edges {
			if _, dup := seen[edge.Node.ID]; dup {
				continue
			}
			seen[edge.Node.ID] = struct{}{}
			catalog.Media = append(catalog.Media, models.StudioMedia{
				MediaRef:  edge.Node.toRef(),
				StartDate: edge.Node.StartDate.toModel(),
			})
		}

		if !data.Studio.Media.PageInfo.HasNextPage {
			return catalog, nil
		}
	}

	c.logger.WithField("studio_id", studioID).Warn("Studio catalog truncated at page limit")
	return catalog, nil
}
