package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/flixcase/internal/catalog"
	"github.com/vmunix/flixcase/internal/importer"
	"github.com/vmunix/flixcase/pkg/titles"
)

func init() {
	movieCmd := &cobra.Command{
		Use:   "movie",
		Short: "Manage movies",
	}

	addCmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Import a movie file",
		Long: `Copies or re-encodes a movie into the library.

The title defaults to the file name with dots, underscores and dashes
turned into spaces. Ctrl-C cancels the import and removes partial files.`,
		Args: cobra.ExactArgs(1),
		RunE: runMovieAdd,
	}
	addCmd.Flags().StringP("title", "t", "", "Movie title (default: from file name)")
	addCmd.Flags().String("thumbnail", "", "Thumbnail image")
	addCmd.Flags().StringSlice("subtitle", nil, "External subtitle file (repeatable)")
	addCmd.Flags().Bool("embedded-subs", true, "Add subtitle tracks found inside the file")
	addCmd.Flags().StringP("preset", "p", "", "Encoding preset (default: from config)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List movies",
		Args:  cobra.NoArgs,
		RunE:  runMovieList,
	}
	addSortFlags(listCmd)

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search movies by title",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runMovieSearch,
	}
	addSortFlags(searchCmd)

	infoCmd := &cobra.Command{
		Use:   "info <id>",
		Short: "Show one movie",
		Args:  cobra.ExactArgs(1),
		RunE:  runMovieInfo,
	}

	renameCmd := &cobra.Command{
		Use:   "rename <id> <title>",
		Short: "Rename a movie",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runMovieRename,
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a movie and its files",
		Args:  cobra.ExactArgs(1),
		RunE:  runMovieRemove,
	}

	movieCmd.AddCommand(addCmd, listCmd, searchCmd, infoCmd, renameCmd, rmCmd)
	rootCmd.AddCommand(movieCmd)
}

func addSortFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("sort", "s", "date", "Sort by date or title")
	cmd.Flags().Bool("asc", false, "Ascending order (default: newest first, A-Z for title)")
	cmd.Flags().Bool("desc", false, "Descending order")
}

// sortFlags reads the sort flags. Title sorts default to ascending.
func sortFlags(cmd *cobra.Command) (catalog.SortKey, bool) {
	s, _ := cmd.Flags().GetString("sort")
	asc, _ := cmd.Flags().GetBool("asc")
	desc, _ := cmd.Flags().GetBool("desc")
	key := catalog.ParseSortKey(s)
	switch {
	case asc:
		return key, true
	case desc:
		return key, false
	default:
		return key, key == catalog.SortTitle
	}
}

// interruptContext cancels on Ctrl-C or SIGTERM.
func interruptContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

func runMovieAdd(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	thumb, _ := cmd.Flags().GetString("thumbnail")
	subs, _ := cmd.Flags().GetStringSlice("subtitle")
	embedded, _ := cmd.Flags().GetBool("embedded-subs")
	preset, _ := cmd.Flags().GetString("preset")

	if strings.TrimSpace(title) == "" {
		title = titles.FromFilename(args[0])
	}

	return withApp(cmd, func(a *app) error {
		if preset == "" {
			preset = a.cfg.Encoder.DefaultPreset
		}

		ctx, stop := interruptContext(cmd)
		defer stop()

		var stopProgress func()
		if !jsonOutput {
			stopProgress = newProgressPrinter(cmd.OutOrStdout()).follow(a.bus)
		}
		res, err := a.imp.ImportMovie(ctx, importer.MovieRequest{
			Title:          title,
			Source:         args[0],
			Thumbnail:      thumb,
			Subtitles:      subs,
			DetectEmbedded: embedded,
			Preset:         preset,
		})
		if stopProgress != nil {
			stopProgress()
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), res)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added movie #%d %q (%s)\n", res.Movie.ID, res.Movie.Title, res.Movie.MediaPath)
		return nil
	})
}

func runMovieList(cmd *cobra.Command, args []string) error {
	key, asc := sortFlags(cmd)
	return listMovies(cmd, catalog.MovieQuery{Sort: key, Ascending: asc})
}

func runMovieSearch(cmd *cobra.Command, args []string) error {
	key, asc := sortFlags(cmd)
	return listMovies(cmd, catalog.MovieQuery{Sort: key, Ascending: asc, Search: strings.Join(args, " ")})
}

func listMovies(cmd *cobra.Command, q catalog.MovieQuery) error {
	return withApp(cmd, func(a *app) error {
		movies, err := a.store.ListMovies(q)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, movies)
		}
		if len(movies) == 0 {
			fmt.Fprintln(out, "No movies found.")
			return nil
		}
		fmt.Fprintln(out, renderMovies(movies))
		return nil
	})
}

func renderMovies(movies []*catalog.Movie) string {
	rows := make([][]string, len(movies))
	for i, m := range movies {
		rows[i] = []string{
			itoa(m.ID),
			m.Title,
			formatProgress(m.Position, m.Duration),
			fmt.Sprint(len(m.Subtitles)),
			m.AddedAt.Local().Format("2006-01-02"),
		}
	}
	return renderTable(
		[]string{"ID", "Title", "Progress", "Subs", "Added"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	)
}

func runMovieInfo(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "movie")
	if err != nil {
		return err
	}
	return withApp(cmd, func(a *app) error {
		m, err := a.store.GetMovie(id)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, m)
		}

		media, _ := a.lib.Abs(m.MediaPath)
		fmt.Fprintf(out, "#%d %s\n", m.ID, m.Title)
		fmt.Fprintf(out, "  File:      %s\n", media)
		if m.ThumbPath != "" {
			thumb, _ := a.lib.Abs(m.ThumbPath)
			fmt.Fprintf(out, "  Thumbnail: %s\n", thumb)
		}
		fmt.Fprintf(out, "  Added:     %s\n", m.AddedAt.Local().Format("2006-01-02 15:04"))
		fmt.Fprintf(out, "  Progress:  %s\n", formatProgress(m.Position, m.Duration))
		fmt.Fprintf(out, "  Watched:   %s\n", formatAge(m.PlayedAt))
		for _, sub := range m.Subtitles {
			where := sub.Path
			if sub.Embedded {
				where = fmt.Sprintf("embedded track %d", sub.TrackIndex)
			}
			fmt.Fprintf(out, "  Subtitle:  %s (%s)\n", sub.Label, where)
		}
		return nil
	})
}

func runMovieRename(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "movie")
	if err != nil {
		return err
	}
	title := strings.Join(args[1:], " ")
	return withApp(cmd, func(a *app) error {
		if err := a.store.RenameMovie(id, title); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed movie #%d to %q\n", id, strings.TrimSpace(title))
		return nil
	})
}

func runMovieRemove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "movie")
	if err != nil {
		return err
	}
	return withApp(cmd, func(a *app) error {
		m, err := a.imp.DeleteMovie(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted movie #%d %q\n", m.ID, m.Title)
		return nil
	})
}
