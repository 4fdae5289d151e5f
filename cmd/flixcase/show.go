package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/flixcase/internal/catalog"
	"github.com/vmunix/flixcase/internal/importer"
	"github.com/vmunix/flixcase/internal/library"
	"github.com/vmunix/flixcase/pkg/titles"
)

func init() {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Manage TV shows",
	}

	addCmd := &cobra.Command{
		Use:   "add <file|dir>...",
		Short: "Import a season of episode files",
		Long: `Imports episode files as one season. Directories are searched for
video files. Files are numbered in natural order ("Episode 2" before
"Episode 10").

Create a new show with --title, or add a season to an existing show with
--show-id or --show. --poster sets the show's poster when it has none.
Without --season the next free season number is used.

A failed episode is skipped and the rest of the season continues.
Ctrl-C stops the batch after removing the episode in progress.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runShowAdd,
	}
	addCmd.Flags().StringP("title", "t", "", "Title of a new show")
	addCmd.Flags().String("poster", "", "Poster image for a show that has none")
	addCmd.Flags().Int64("show-id", 0, "Existing show ID")
	addCmd.Flags().String("show", "", "Existing show, matched by name")
	addCmd.Flags().Int("season", 0, "Season number (default: next free)")
	addCmd.Flags().StringP("preset", "p", "", "Encoding preset (default: from config)")
	addCmd.MarkFlagsMutuallyExclusive("title", "show-id", "show")
	addCmd.MarkFlagsOneRequired("title", "show-id", "show")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List shows",
		Args:  cobra.NoArgs,
		RunE:  runShowList,
	}
	addSortFlags(listCmd)

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search shows by title",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runShowSearch,
	}
	addSortFlags(searchCmd)

	infoCmd := &cobra.Command{
		Use:   "info <id>",
		Short: "Show seasons and episodes",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowInfo,
	}

	titlesCmd := &cobra.Command{
		Use:   "titles",
		Short: "List show IDs and titles",
		Args:  cobra.NoArgs,
		RunE:  runShowTitles,
	}

	renameCmd := &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a show",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runShowRename,
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a show with all seasons and files",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowRemove,
	}

	showCmd.AddCommand(addCmd, listCmd, searchCmd, infoCmd, titlesCmd, renameCmd, rmCmd)
	rootCmd.AddCommand(showCmd)
}

// episodeFiles expands directories to their video files and orders the
// result naturally.
func episodeFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		videos, err := library.FindVideos(arg)
		if err != nil {
			return nil, err
		}
		files = append(files, videos...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no video files found", catalog.ErrValidation)
	}
	titles.SortPaths(files)
	return files, nil
}

// matchShow resolves a typed show name. An exact match ignoring case wins;
// otherwise the closest title must be at least a medium-confidence match.
func matchShow(shows []catalog.ShowTitle, name string) (catalog.ShowTitle, error) {
	candidates := make([]string, len(shows))
	for i, s := range shows {
		if strings.EqualFold(strings.TrimSpace(name), s.Title) {
			return s, nil
		}
		candidates[i] = s.Title
	}

	m := titles.BestMatch(name, candidates)
	switch {
	case m.Index < 0:
		return catalog.ShowTitle{}, fmt.Errorf("%w: no show matches %q", catalog.ErrNotFound, name)
	case m.Confidence < titles.ConfidenceMedium:
		return catalog.ShowTitle{}, fmt.Errorf("%w: no show matches %q (closest: %q, use --show-id)", catalog.ErrNotFound, name, m.Title)
	}
	return shows[m.Index], nil
}

func runShowAdd(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	poster, _ := cmd.Flags().GetString("poster")
	showID, _ := cmd.Flags().GetInt64("show-id")
	showName, _ := cmd.Flags().GetString("show")
	season, _ := cmd.Flags().GetInt("season")
	preset, _ := cmd.Flags().GetString("preset")

	files, err := episodeFiles(args)
	if err != nil {
		return err
	}

	return withApp(cmd, func(a *app) error {
		if preset == "" {
			preset = a.cfg.Encoder.DefaultPreset
		}

		req := importer.SeasonRequest{ShowID: showID, Season: season, Files: files, Preset: preset, Poster: poster}
		switch {
		case title != "":
			req.NewShow = &importer.NewShow{Title: title}
		case showName != "":
			shows, err := a.store.ListShowTitles()
			if err != nil {
				return err
			}
			match, err := matchShow(shows, showName)
			if err != nil {
				return err
			}
			req.ShowID = match.ID
			if !jsonOutput {
				fmt.Fprintf(cmd.OutOrStdout(), "Adding to show #%d %q\n", match.ID, match.Title)
			}
		}

		ctx, stop := interruptContext(cmd)
		defer stop()

		var stopProgress func()
		if !jsonOutput {
			stopProgress = newProgressPrinter(cmd.OutOrStdout()).follow(a.bus)
		}
		res, err := a.imp.ImportSeason(ctx, req)
		if stopProgress != nil {
			stopProgress()
		}
		if res != nil && !jsonOutput {
			printSeasonResult(cmd, res)
		}
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), seasonResultJSON(res))
		}
		return nil
	})
}

func printSeasonResult(cmd *cobra.Command, res *importer.SeasonResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s season %d: %d committed, %d skipped\n",
		res.Show.Title, res.Season.Number, len(res.Committed), len(res.Skipped))
	for _, o := range res.Skipped {
		fmt.Fprintf(out, "  episode %d (%s): %v\n", o.Number, o.Source, o.Err)
	}
}

type outcomeJSON struct {
	Source    string `json:"source"`
	Episode   int    `json:"episode"`
	EpisodeID int64  `json:"episode_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

func seasonResultJSON(res *importer.SeasonResult) map[string]any {
	conv := func(in []importer.EpisodeOutcome) []outcomeJSON {
		out := make([]outcomeJSON, len(in))
		for i, o := range in {
			out[i] = outcomeJSON{Source: o.Source, Episode: o.Number}
			if o.Episode != nil {
				out[i].EpisodeID = o.Episode.ID
			}
			if o.Err != nil {
				out[i].Error = o.Err.Error()
			}
		}
		return out
	}
	return map[string]any{
		"operation_id": res.OperationID,
		"show_id":      res.Show.ID,
		"season":       res.Season.Number,
		"committed":    conv(res.Committed),
		"skipped":      conv(res.Skipped),
	}
}

func runShowList(cmd *cobra.Command, args []string) error {
	key, asc := sortFlags(cmd)
	return listShows(cmd, catalog.ShowQuery{Sort: key, Ascending: asc})
}

func runShowSearch(cmd *cobra.Command, args []string) error {
	key, asc := sortFlags(cmd)
	return listShows(cmd, catalog.ShowQuery{Sort: key, Ascending: asc, Search: strings.Join(args, " ")})
}

func listShows(cmd *cobra.Command, q catalog.ShowQuery) error {
	return withApp(cmd, func(a *app) error {
		shows, err := a.store.ListShows(q)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, shows)
		}
		if len(shows) == 0 {
			fmt.Fprintln(out, "No shows found.")
			return nil
		}
		rows := make([][]string, len(shows))
		for i, sh := range shows {
			rows[i] = []string{
				itoa(sh.ID),
				sh.Title,
				fmt.Sprint(sh.SeasonCount),
				fmt.Sprint(sh.EpisodeCount),
				sh.AddedAt.Local().Format("2006-01-02"),
			}
		}
		fmt.Fprintln(out, renderTable(
			[]string{"ID", "Title", "Seasons", "Episodes", "Added"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
		))
		return nil
	})
}

func runShowInfo(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "show")
	if err != nil {
		return err
	}
	return withApp(cmd, func(a *app) error {
		sh, err := a.store.GetShow(id)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, sh)
		}

		fmt.Fprintf(out, "#%d %s\n", sh.ID, sh.Title)
		if dir := importer.ShowDir(sh); dir != "" {
			abs, _ := a.lib.Abs(dir)
			fmt.Fprintf(out, "  Folder: %s\n", abs)
		}
		if len(sh.Seasons) == 0 {
			fmt.Fprintln(out, "  No seasons.")
			return nil
		}
		var rows [][]string
		for _, se := range sh.Seasons {
			for _, ep := range se.Episodes {
				rows = append(rows, []string{
					itoa(ep.ID),
					fmt.Sprintf("S%02dE%02d", se.Number, ep.Number),
					ep.Title,
					formatProgress(ep.Position, ep.Duration),
				})
			}
		}
		fmt.Fprintln(out, renderTable(
			[]string{"ID", "Episode", "Title", "Progress"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
		))
		return nil
	})
}

func runShowTitles(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(a *app) error {
		shows, err := a.store.ListShowTitles()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, shows)
		}
		for _, s := range shows {
			fmt.Fprintf(out, "%d\t%s\n", s.ID, s.Title)
		}
		return nil
	})
}

func runShowRename(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "show")
	if err != nil {
		return err
	}
	title := strings.Join(args[1:], " ")
	return withApp(cmd, func(a *app) error {
		if err := a.store.RenameShow(id, title); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed show #%d to %q\n", id, strings.TrimSpace(title))
		return nil
	})
}

func runShowRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "show")
	if err != nil {
		return err
	}
	return withApp(cmd, func(a *app) error {
		sh, err := a.imp.DeleteShow(id)
		if err != nil {
			return err
		}
		episodes := 0
		for _, se := range sh.Seasons {
			episodes += len(se.Episodes)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted show #%d %q (%d seasons, %d episodes)\n",
			sh.ID, sh.Title, len(sh.Seasons), episodes)
		return nil
	})
}
