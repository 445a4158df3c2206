package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/amaumene/rakuroku/internal/controllers"
	"github.com/amaumene/rakuroku/internal/models"
	"github.com/amaumene/rakuroku/internal/utils"
)

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func progressText(progress, total int) string {
	if total > 0 {
		return fmt.Sprintf("%d/%d", progress, total)
	}
	return fmt.Sprintf("%d/?", progress)
}

func scoreText(score int) string {
	if score == 0 {
		return "-"
	}
	return fmt.Sprintf("%d", score)
}

func statusText(status models.ListStatus, mediaType models.MediaType) string {
	label, ok := utils.StatusLabel(status, mediaType)
	if !ok {
		return ""
	}
	return label
}

func printEntries(out io.Writer, entries []models.ListEntry, mediaType models.MediaType) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "Nothing here.")
		return
	}
	w := newTable(out)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPROGRESS\tSCORE")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			e.Media.ID,
			e.Media.Title.Display(),
			statusText(e.Status, mediaType),
			progressText(e.Progress, e.Media.TotalUnits()),
			scoreText(e.Score),
		)
	}
	w.Flush()
}

func printDetails(out io.Writer, d *models.MediaDetails, entry *models.ListEntry, now time.Time) {
	fmt.Fprintln(out, d.Title.Display())
	if d.Title.Romaji != "" && d.Title.Romaji != d.Title.Display() {
		fmt.Fprintln(out, d.Title.Romaji)
	}
	if d.Title.Native != "" {
		fmt.Fprintln(out, d.Title.Native)
	}
	fmt.Fprintln(out)

	w := newTable(out)
	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(w, "%s\t%s\n", k, v)
		}
	}
	row("Format", utils.FormatFormat(d.Format))
	row("Status", utils.FormatReleaseStatus(d.Status))
	if d.Type == models.MediaTypeManga {
		if d.Chapters > 0 {
			row("Chapters", fmt.Sprint(d.Chapters))
		}
		if d.Volumes > 0 {
			row("Volumes", fmt.Sprint(d.Volumes))
		}
	} else {
		if d.Episodes > 0 {
			row("Episodes", fmt.Sprint(d.Episodes))
		}
		if d.Duration > 0 {
			row("Duration", fmt.Sprintf("%d min", d.Duration))
		}
	}
	row("Season", utils.FormatSeason(d.Season, d.SeasonYear))
	row("Start", utils.FormatFuzzyDate(d.StartDate))
	row("End", utils.FormatFuzzyDate(d.EndDate))
	row("Source", utils.FormatSource(d.Source))
	if d.AverageScore > 0 {
		row("Score", fmt.Sprintf("%d%%", d.AverageScore))
	}
	if rank := d.SeasonalRank(); rank != nil {
		row("Rank", fmt.Sprintf("#%d %s", rank.Rank, strings.ToLower(rank.Context)))
	}
	if studio, ok := utils.MainStudio(d.Studios); ok {
		row("Studio", fmt.Sprintf("%s (%d)", studio.Name, studio.ID))
	}
	row("Genres", strings.Join(d.Genres, ", "))
	row("Next", utils.FormatNextAiring(d.NextAiring, now))
	if entry != nil {
		row("On list", fmt.Sprintf("%s, %s, score %s",
			statusText(entry.Status, d.Type),
			progressText(entry.Progress, d.TotalUnits()),
			scoreText(entry.Score)))
	}
	w.Flush()

	if desc := utils.StripHTML(d.Description); desc != "" {
		fmt.Fprintf(out, "\n%s\n", desc)
	}
	if len(d.Relations) > 0 {
		fmt.Fprintln(out, "\nRelated:")
		w = newTable(out)
		for _, r := range d.Relations {
			fmt.Fprintf(w, "  %d\t%s\t%s\n", r.Media.ID, r.Media.Title.Display(), strings.ToLower(strings.ReplaceAll(r.Type, "_", " ")))
		}
		w.Flush()
	}
}

func marker(highlighted, onList bool) string {
	switch {
	case highlighted:
		return "*"
	case onList:
		return "+"
	default:
		return " "
	}
}

func printSchedule(out io.Writer, episodes []controllers.Annotated[models.AiringEvent], now time.Time) {
	if len(episodes) == 0 {
		fmt.Fprintln(out, "Nothing airs this day.")
		return
	}
	w := newTable(out)
	fmt.Fprintln(w, " \tTIME\tID\tTITLE\tEP\tIN")
	for _, e := range episodes {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d\t%s\n",
			marker(e.Highlighted, e.OnList),
			e.Item.AiringAt.Local().Format("15:04"),
			e.Item.Media.ID,
			e.Item.Media.Title.Display(),
			e.Item.Episode,
			utils.FormatCountdown(e.Item.AiringAt, now),
		)
	}
	w.Flush()
}

func printSeasonal(out io.Writer, items []controllers.Annotated[models.SeasonalEntry]) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No titles.")
		return
	}
	w := newTable(out)
	fmt.Fprintln(w, " \tID\tTITLE\tFORMAT\tSTUDIO\tSCORE")
	for _, it := range items {
		studio := ""
		if s, ok := utils.MainStudio(it.Item.Studios); ok {
			studio = s.Name
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			marker(it.Highlighted, it.OnList),
			it.Item.ID,
			it.Item.Title.Display(),
			utils.FormatFormat(it.Item.Format),
			studio,
			percent(it.Item.AverageScore),
		)
	}
	w.Flush()
}

func percent(score int) string {
	if score == 0 {
		return "-"
	}
	return fmt.Sprintf("%d%%", score)
}

func printPreview(out io.Writer, p controllers.SeasonPreview) {
	fmt.Fprintf(out, "%s: %s\n", p.Label, utils.FormatSeason(p.Season, p.Year))
	if len(p.Entries) == 0 {
		fmt.Fprintln(out, "  Nothing announced yet.")
		return
	}
	w := newTable(out)
	for _, e := range p.Entries {
		fmt.Fprintf(w, "  %d\t%s\t%s\n", e.ID, e.Title.Display(), utils.FormatFormat(e.Format))
	}
	w.Flush()
	if p.HasMore {
		fmt.Fprintf(out, "  more: rakuroku season %s %d\n", strings.ToLower(string(p.Season)), p.Year)
	}
}

func printMedia(out io.Writer, refs []models.MediaRef) {
	w := newTable(out)
	fmt.Fprintln(w, "ID\tTITLE\tTYPE\tFORMAT\tSTATUS")
	for _, m := range refs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			m.ID,
			m.Title.Display(),
			strings.ToLower(string(m.Type)),
			utils.FormatFormat(m.Format),
			utils.FormatReleaseStatus(m.Status),
		)
	}
	w.Flush()
}

func printStudio(out io.Writer, media []controllers.Annotated[models.StudioMedia]) {
	if len(media) == 0 {
		fmt.Fprintln(out, "No titles.")
		return
	}
	w := newTable(out)
	fmt.Fprintln(w, " \tID\tTITLE\tFORMAT\tSTART")
	for _, m := range media {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			marker(m.Highlighted, m.OnList),
			m.Item.ID,
			m.Item.Title.Display(),
			utils.FormatFormat(m.Item.Format),
			utils.FormatFuzzyDate(m.Item.StartDate),
		)
	}
	w.Flush()
}

func printProfile(out io.Writer, u *models.User, activities []models.ActivityEvent, now time.Time) {
	fmt.Fprintln(out, u.Name)
	fmt.Fprintf(out, "Anime: %d titles, %d episodes, %.1f days\n",
		u.Anime.Count, u.Anime.EpisodesWatched, float64(u.Anime.MinutesWatched)/(60*24))
	fmt.Fprintf(out, "Manga: %d titles, %d chapters\n", u.Manga.Count, u.Manga.ChaptersRead)

	if len(activities) == 0 {
		return
	}
	fmt.Fprintln(out, "\nRecent activity:")
	w := newTable(out)
	for _, a := range activities {
		what := a.Status
		if a.Progress != "" {
			what += " " + a.Progress + " of"
		}
		fmt.Fprintf(w, "  %s\t%s %s\n", utils.FormatTimeAgo(a.CreatedAt, now), what, a.Media.Title.Display())
	}
	w.Flush()
}
