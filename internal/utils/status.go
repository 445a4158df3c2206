package utils

import "github.com/amaumene/rakuroku/internal/models"

// Status colors
const (
	ColorWatching  = "#22C55E"
	ColorCompleted = "#3B82F6"
	ColorDropped   = "#EF4444"
	ColorPaused    = "#F59E0B"
	ColorPlanning  = "#9CA3AF"
)

// StatusColor returns the display color of a list status. ok is false for
// an empty or unknown status, which renders nothing.
func StatusColor(status models.ListStatus) (color string, ok bool) {
	switch status {
	case models.StatusCurrent, models.StatusRepeating:
		return ColorWatching, true
	case models.StatusCompleted:
		return ColorCompleted, true
	case models.StatusDropped:
		return ColorDropped, true
	case models.StatusPaused:
		return ColorPaused, true
	case models.StatusPlanning:
		return ColorPlanning, true
	default:
		return "", false
	}
}

// StatusLabel returns the display label of a list status. Anime and manga
// use different verbs for CURRENT and REPEATING.
func StatusLabel(status models.ListStatus, mediaType models.MediaType) (label string, ok bool) {
	manga := mediaType == models.MediaTypeManga

	switch status {
	case models.StatusCurrent:
		if manga {
			return "Reading", true
		}
		return "Watching", true
	case models.StatusCompleted:
		return "Completed", true
	case models.StatusDropped:
		return "Dropped", true
	case models.StatusPaused:
		return "Paused", true
	case models.StatusPlanning:
		return "Planning", true
	case models.StatusRepeating:
		if manga {
			return "Rereading", true
		}
		return "Rewatching", true
	default:
		return "", false
	}
}

// ParseStatus accepts either the enum value or a display label, so the CLI
// can take "watching" as well as "CURRENT"
func ParseStatus(s string) (models.ListStatus, bool) {
	if st := models.ListStatus(upper(s)); st.Valid() {
		return st, true
	}
	if statuses, ok := filterStatuses[title(s)]; ok && len(statuses) == 1 {
		return statuses[0], true
	}
	return "", false
}
