package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/rakuroku/internal/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func title(s string) string {
	return cases.Title(language.English).String(strings.TrimSpace(s))
}

// FormatFuzzyDate renders a partial date: "TBA" without a year, the bare
// year without a month, else "Mon D, YYYY" ("Mon YYYY" without a day)
func FormatFuzzyDate(d models.FuzzyDate) string {
	if d.Year == 0 {
		return "TBA"
	}
	if d.Month < 1 || d.Month > 12 {
		return strconv.Itoa(d.Year)
	}
	if d.Day == 0 {
		return fmt.Sprintf("%s %d", monthNames[d.Month-1], d.Year)
	}
	return fmt.Sprintf("%s %d, %d", monthNames[d.Month-1], d.Day, d.Year)
}

// FormatCountdown buckets the time left until at: minutes under an hour,
// hours under a day, else days and hours. Elapsed times give "".
func FormatCountdown(at, now time.Time) string {
	diff := int64(at.Sub(now) / time.Second)
	switch {
	case diff < 0:
		return ""
	case diff < 3600:
		return fmt.Sprintf("%dm", diff/60)
	case diff < 86400:
		return fmt.Sprintf("%dh", diff/3600)
	default:
		return fmt.Sprintf("%dd %dh", diff/86400, (diff%86400)/3600)
	}
}

// FormatNextAiring renders "Episode N airing in <countdown>"
func FormatNextAiring(next *models.NextAiring, now time.Time) string {
	if next == nil {
		return ""
	}
	countdown := FormatCountdown(next.AiringAt, now)
	if countdown == "" {
		return ""
	}
	return fmt.Sprintf("Episode %d airing in %s", next.Episode, countdown)
}

// FormatTimeAgo renders how long ago ts was
func FormatTimeAgo(ts, now time.Time) string {
	diff := int64(now.Sub(ts) / time.Second)
	switch {
	case diff < 60:
		return "Just now"
	case diff < 3600:
		return fmt.Sprintf("%dm ago", diff/60)
	case diff < 86400:
		return fmt.Sprintf("%dh ago", diff/3600)
	case diff < 604800:
		return fmt.Sprintf("%dd ago", diff/86400)
	default:
		return fmt.Sprintf("%dw ago", diff/604800)
	}
}

// FormatSeason renders "Fall 2024"; empty when either part is missing
func FormatSeason(season models.Season, year int) string {
	if season == "" || year == 0 {
		return ""
	}
	return fmt.Sprintf("%s %d", title(string(season)), year)
}

var formatNames = map[string]string{
	"TV":       "TV",
	"TV_SHORT": "TV Short",
	"MOVIE":    "Movie",
	"SPECIAL":  "Special",
	"OVA":      "OVA",
	"ONA":      "ONA",
	"MUSIC":    "Music",
	"MANGA":    "Manga",
	"NOVEL":    "Light Novel",
	"ONE_SHOT": "One Shot",
}

// FormatFormat renders a media format, passing unknown values through
func FormatFormat(format string) string {
	if name, ok := formatNames[format]; ok {
		return name
	}
	return format
}

var releaseStatusNames = map[string]string{
	"FINISHED":         "Finished",
	"RELEASING":        "Releasing",
	"NOT_YET_RELEASED": "Not Yet Released",
	"CANCELLED":        "Cancelled",
	"HIATUS":           "Hiatus",
}

// FormatReleaseStatus renders a release status, passing unknown values through
func FormatReleaseStatus(status string) string {
	if name, ok := releaseStatusNames[status]; ok {
		return name
	}
	return status
}

// FormatSource renders an adaptation source like LIGHT_NOVEL as "Light Novel"
func FormatSource(source string) string {
	if source == "" {
		return "Unknown"
	}
	return title(strings.ToLower(strings.ReplaceAll(source, "_", " ")))
}

var (
	brTag      = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTag     = regexp.MustCompile(`<[^>]*>`)
	extraLines = regexp.MustCompile(`\n{3,}`)
	entities   = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

// StripHTML turns a description with markup into plain text
func StripHTML(text string) string {
	text = brTag.ReplaceAllString(text, "\n")
	text = anyTag.ReplaceAllString(text, "")
	text = entities.Replace(text)
	text = extraLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// MainStudio returns the studio flagged as main, else the first one
func MainStudio(studios []models.Studio) (models.Studio, bool) {
	for _, s := range studios {
		if s.IsMain {
			return s, true
		}
	}
	if len(studios) > 0 {
		return studios[0], true
	}
	return models.Studio{}, false
}
