package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amaumene/rakuroku/internal/api"
	"github.com/amaumene/rakuroku/internal/controllers"
	"github.com/amaumene/rakuroku/internal/models"
	"github.com/amaumene/rakuroku/internal/services/anilist"
	"github.com/amaumene/rakuroku/internal/utils"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "rakuroku",
		Short:         "Track anime and manga progress on AniList",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCommand(),
		newLogoutCommand(),
		newListCommand(),
		newShowCommand(),
		newProgressCommand(),
		newScoreCommand(),
		newStatusCommand(),
		newAddCommand(),
		newRemoveCommand(),
		newScheduleCommand(),
		newSeasonCommand(),
		newDiscoverCommand(),
		newSearchCommand(),
		newStudioCommand(),
		newProfileCommand(),
	)
	return root
}

func newLoginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authorize rakuroku with your AniList account",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			if err := a.cfg.RequireClientID(); err != nil {
				return err
			}

			ctx := cmd.Context()
			server := api.NewServer(a.cfg, a.session, a.logger)
			serverErr := make(chan error, 1)
			go func() { serverErr <- server.Start(ctx) }()

			fmt.Fprintf(a.out, "Open this URL in your browser to log in:\n\n  %s\n\n", anilist.AuthorizeURL(a.cfg.ClientID))
			fmt.Fprintf(a.out, "The AniList client must redirect to %s\n", server.RedirectURL())

			select {
			case token := <-server.Tokens():
				if err := server.Shutdown(ctx); err != nil {
					a.logger.WithError(err).Debug("Redirect receiver shutdown failed")
				}
				if err := a.session.Login(token); err != nil {
					return fmt.Errorf("failed to save token: %w", err)
				}
				fmt.Fprintln(a.out, "Logged in.")
				return nil
			case err := <-serverErr:
				return err
			case <-ctx.Done():
				return ctx.Err()
			}
		}),
	}
}

func newLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: withApp(func(_ *cobra.Command, a *app, _ []string) error {
			if err := a.session.Logout(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		}),
	}
}

func parseMediaType(s string) (models.MediaType, error) {
	switch strings.ToLower(s) {
	case "", "anime":
		return models.MediaTypeAnime, nil
	case "manga":
		return models.MediaTypeManga, nil
	default:
		return "", fmt.Errorf("unknown media type %q, want anime or manga", s)
	}
}

func newListCommand() *cobra.Command {
	var (
		filter string
		query  string
	)
	cmd := &cobra.Command{
		Use:   "list [anime|manga]",
		Short: "Show your list",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.requireUserName(); err != nil {
				return err
			}
			mediaType, err := parseMediaType(firstArg(args))
			if err != nil {
				return err
			}

			list := controllers.NewListController(a.client, mediaType, a.logger)
			if err := list.Load(cmd.Context()); err != nil {
				_, msg := list.State()
				return errors.New(msg)
			}
			if filter != "" {
				list.SelectFilter(filter)
			}
			if query != "" {
				list.SetShowSearch(true)
				list.SetSearchQuery(query)
			}

			printEntries(a.out, list.View(), mediaType)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "filter label: All, Watching/Reading, Completed, Dropped, Planning, Paused, Rewatching/Rereading")
	cmd.Flags().StringVarP(&query, "search", "s", "", "only titles containing this text")
	return cmd
}

func parseID(s, what string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", what, s)
	}
	return id, nil
}

// loadDetail loads a title's page. The user's entry shows whenever a user
// name is configured; editing it still needs a login.
func loadDetail(cmd *cobra.Command, a *app, arg string) (*controllers.DetailController, error) {
	mediaID, err := parseID(arg, "media id")
	if err != nil {
		return nil, err
	}

	detail := controllers.NewDetailController(a.client, a.session, mediaID, a.logger)
	if err := detail.Load(cmd.Context()); err != nil {
		_, msg := detail.State()
		return nil, errors.New(msg)
	}
	return detail, nil
}

func newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <media-id>",
		Short: "Show a title's details",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			detail, err := loadDetail(cmd, a, args[0])
			if err != nil {
				return err
			}
			entry, ok := detail.Entry()
			var e *models.ListEntry
			if ok {
				e = &entry
			}
			printDetails(a.out, detail.Details(), e, time.Now())
			return nil
		}),
	}
}

// editEntry loads the title, runs edit against its entry and prints the
// outcome once confirmed or rolled back
func editEntry(cmd *cobra.Command, a *app, arg string, edit func(c *controllers.MutationController, entryID int) (*controllers.Mutation, error)) error {
	if err := a.requireUserName(); err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	detail, err := loadDetail(cmd, a, arg)
	if err != nil {
		return err
	}
	entry, ok := detail.Entry()
	if !ok {
		return fmt.Errorf("%s is not on your list, add it first", detail.Details().Title.Display())
	}

	m, err := edit(detail.Edits(), entry.ID)
	if err != nil {
		return err
	}
	if m == nil {
		fmt.Fprintln(a.out, "Nothing to change.")
		return nil
	}

	select {
	case <-m.Done():
	case <-cmd.Context().Done():
		return cmd.Context().Err()
	}

	entry, _ = detail.Entry()
	printEntries(a.out, []models.ListEntry{entry}, entry.Media.Type)
	return nil
}

func newProgressCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <media-id> <+n|-n|n>",
		Short: "Change episode or chapter progress",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			value, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid progress %q", args[1])
			}
			relative := strings.HasPrefix(args[1], "+") || strings.HasPrefix(args[1], "-")

			return editEntry(cmd, a, args[0], func(c *controllers.MutationController, entryID int) (*controllers.Mutation, error) {
				if relative {
					return c.AdjustProgress(cmd.Context(), entryID, value)
				}
				return c.SetProgress(cmd.Context(), entryID, value)
			})
		}),
	}
}

func newScoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "score <media-id> <0-10>",
		Short: "Score a title",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			score, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid score %q", args[1])
			}
			return editEntry(cmd, a, args[0], func(c *controllers.MutationController, entryID int) (*controllers.Mutation, error) {
				return c.SetScore(cmd.Context(), entryID, score)
			})
		}),
	}
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status <media-id> <status>",
		Short: "Move a title to another list",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			status, ok := utils.ParseStatus(args[1])
			if !ok {
				return fmt.Errorf("unknown status %q", args[1])
			}
			return editEntry(cmd, a, args[0], func(c *controllers.MutationController, entryID int) (*controllers.Mutation, error) {
				return c.SetStatus(cmd.Context(), entryID, status)
			})
		}),
	}
}

func newAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <media-id> [status]",
		Short: "Add a title to your list (Planning by default)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.requireUserName(); err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}

			status := models.StatusPlanning
			if len(args) == 2 {
				var ok bool
				if status, ok = utils.ParseStatus(args[1]); !ok {
					return fmt.Errorf("unknown status %q", args[1])
				}
			}

			detail, err := loadDetail(cmd, a, args[0])
			if err != nil {
				return err
			}
			title := detail.Details().Title.Display()
			if _, ok := detail.Entry(); ok {
				fmt.Fprintf(a.out, "%s is already on your list.\n", title)
				return nil
			}

			added, err := detail.AddEntry(cmd.Context(), status)
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintf(a.out, "Could not add %s.\n", title)
				return nil
			}
			fmt.Fprintf(a.out, "Added %s.\n", title)
			return nil
		}),
	}
}

func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <media-id>",
		Short: "Remove a title from your list",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.requireUserName(); err != nil {
				return err
			}
			if err := a.requireLogin(); err != nil {
				return err
			}

			detail, err := loadDetail(cmd, a, args[0])
			if err != nil {
				return err
			}
			title := detail.Details().Title.Display()
			if _, ok := detail.Entry(); !ok {
				fmt.Fprintf(a.out, "%s is not on your list.\n", title)
				return nil
			}

			removed, err := detail.RemoveEntry(cmd.Context())
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(a.out, "Could not remove %s.\n", title)
				return nil
			}
			fmt.Fprintf(a.out, "Removed %s.\n", title)
			return nil
		}),
	}
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

func parseDay(s string, today time.Weekday) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "today":
		return int(today), nil
	case "tomorrow":
		return (int(today) + 1) % 7, nil
	case "yesterday":
		return (int(today) + 6) % 7, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && n <= 6 {
		return n, nil
	}
	if len(s) >= 3 {
		if d, ok := weekdays[s[:3]]; ok {
			return int(d), nil
		}
	}
	return 0, fmt.Errorf("invalid day %q", s)
}

func newScheduleCommand() *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show what airs on a day this week",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			if err := a.requireUserName(); err != nil {
				return err
			}
			now := time.Now()
			d, err := parseDay(day, now.Weekday())
			if err != nil {
				return err
			}

			schedule := controllers.NewScheduleController(a.client, a.logger)
			schedule.SetDay(d)
			if err := schedule.Load(cmd.Context()); err != nil {
				_, msg := schedule.State()
				return errors.New(msg)
			}

			fmt.Fprintf(a.out, "%s\n\n", time.Weekday(schedule.Day()))
			printSchedule(a.out, schedule.Episodes(), now)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&day, "day", "d", "today", "weekday name, 0-6 (0 is Sunday), today, tomorrow or yesterday")
	return cmd
}

func newSeasonCommand() *cobra.Command {
	var (
		sort  string
		pages int
	)
	cmd := &cobra.Command{
		Use:   "season <winter|spring|summer|fall> <year>",
		Short: "Browse a season's anime",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.requireUserName(); err != nil {
				return err
			}
			season := models.Season(strings.ToUpper(args[0]))
			if !season.Valid() {
				return fmt.Errorf("unknown season %q", args[0])
			}
			year, err := parseID(args[1], "year")
			if err != nil {
				return err
			}

			c := controllers.NewSeasonController(a.client, season, year, models.MediaSort(strings.ToUpper(sort)), a.logger)
			if err := c.Load(cmd.Context()); err != nil {
				_, msg := c.State()
				return errors.New(msg)
			}
			for i := 1; i < pages; i++ {
				loaded, err := c.LoadMore(cmd.Context())
				if err != nil {
					return errors.New(anilist.DisplayMessage(err))
				}
				if !loaded {
					break
				}
			}

			fmt.Fprintf(a.out, "%s\n\n", utils.FormatSeason(season, year))
			printSeasonal(a.out, c.Items())
			if c.HasNextPage() {
				fmt.Fprintln(a.out, "\nMore titles available, use --pages to load them.")
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&sort, "sort", string(models.SortPopularityDesc), "sort key, e.g. POPULARITY_DESC, SCORE_DESC, TRENDING_DESC")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	return cmd
}

func newDiscoverCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Show popular titles this season and next",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			c := controllers.NewDiscoverController(a.client, a.logger)
			if err := c.Load(cmd.Context()); err != nil {
				_, msg := c.State()
				return errors.New(msg)
			}
			current, next := c.Previews()
			printPreview(a.out, current)
			fmt.Fprintln(a.out)
			printPreview(a.out, next)
			return nil
		}),
	}
}

func newSearchCommand() *cobra.Command {
	var pages int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search titles",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			search := controllers.NewSearchController(a.client, a.logger)
			defer search.Close()

			search.Submit(cmd.Context(), strings.Join(args, " "))
			for i := 1; i < pages && search.HasNextPage(); i++ {
				if !search.LoadMore(cmd.Context()) {
					break
				}
			}

			results := search.Results()
			if len(results) == 0 {
				fmt.Fprintln(a.out, "No results.")
				return nil
			}
			printMedia(a.out, results)
			return nil
		}),
	}
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	return cmd
}

func newStudioCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "studio <studio-id>",
		Short: "Show a studio's catalog",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			if err := a.requireUserName(); err != nil {
				return err
			}
			id, err := parseID(args[0], "studio id")
			if err != nil {
				return err
			}

			c := controllers.NewStudioController(a.client, id, a.logger)
			if err := c.Load(cmd.Context()); err != nil {
				_, msg := c.State()
				return errors.New(msg)
			}
			studio, _ := c.Studio()
			fmt.Fprintf(a.out, "%s\n\n", studio.Name)
			printStudio(a.out, c.Media())
			return nil
		}),
	}
}

func newProfileCommand() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your profile and recent activity",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			if err := a.requireUserName(); err != nil {
				return err
			}
			c := controllers.NewProfileController(a.client, count, a.logger)
			if err := c.Load(cmd.Context()); err != nil {
				_, msg := c.State()
				return errors.New(msg)
			}
			printProfile(a.out, c.User(), c.Activities(), time.Now())
			return nil
		}),
	}
	cmd.Flags().IntVarP(&count, "count", "n", anilist.DefaultActivityCount, "number of activities to show")
	return cmd
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
