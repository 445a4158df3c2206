package utils

import (
	"strings"

	"github.com/amaumene/rakuroku/internal/models"
	"golang.org/x/text/cases"
)

// FilterAll is the identity filter label
const FilterAll = "All"

// filterStatuses maps a filter label to the statuses it selects
var filterStatuses = map[string][]models.ListStatus{
	"Watching":   {models.StatusCurrent},
	"Reading":    {models.StatusCurrent},
	"Completed":  {models.StatusCompleted},
	"Dropped":    {models.StatusDropped},
	"Planning":   {models.StatusPlanning},
	"Paused":     {models.StatusPaused},
	"Rewatching": {models.StatusRepeating},
	"Rereading":  {models.StatusRepeating},
}

var (
	animeFilters = []string{FilterAll, "Watching", "Completed", "Dropped", "Planning"}
	mangaFilters = []string{FilterAll, "Reading", "Completed", "Dropped", "Planning"}
)

// FiltersFor returns the filter labels offered for a media type
func FiltersFor(mediaType models.MediaType) []string {
	if mediaType == models.MediaTypeManga {
		return append([]string(nil), mangaFilters...)
	}
	return append([]string(nil), animeFilters...)
}

// DefaultFilter is the filter a list screen starts with
func DefaultFilter(mediaType models.MediaType) string {
	if mediaType == models.MediaTypeManga {
		return "Reading"
	}
	return "Watching"
}

// FilterByStatus keeps the entries whose status the label selects, in their
// original order. "All" and unknown labels return entries unchanged.
func FilterByStatus(entries []models.ListEntry, label string) []models.ListEntry {
	if label == FilterAll {
		return entries
	}
	statuses, ok := filterStatuses[label]
	if !ok {
		return entries
	}

	filtered := make([]models.ListEntry, 0, len(entries))
	for _, e := range entries {
		for _, s := range statuses {
			if e.Status == s {
				filtered = append(filtered, e)
				break
			}
		}
	}
	return filtered
}

// SearchEntries keeps the entries whose romaji or English title contains
// query ignoring case, or whose native title contains it exactly. A blank
// query returns entries unchanged.
func SearchEntries(entries []models.ListEntry, query string) []models.ListEntry {
	if strings.TrimSpace(query) == "" {
		return entries
	}

	fold := cases.Fold()
	folded := fold.String(query)

	matched := make([]models.ListEntry, 0, len(entries))
	for _, e := range entries {
		t := e.Media.Title
		if strings.Contains(fold.String(t.Romaji), folded) ||
			strings.Contains(fold.String(t.English), folded) ||
			(t.Native != "" && strings.Contains(t.Native, query)) {
			matched = append(matched, e)
		}
	}
	return matched
}
