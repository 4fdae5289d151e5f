package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/flixcase/internal/catalog"
)

func init() {
	resumeCmd := &cobra.Command{
		Use:   "resume",
		Short: "List partially watched movies and episodes",
		Long: `Lists movies and episodes with a saved position, most recently
watched first. Finished items drop off the list.`,
		Args: cobra.NoArgs,
		RunE: runResume,
	}
	resumeCmd.Flags().IntP("limit", "n", 0, "Maximum items (default: from config)")
	rootCmd.AddCommand(resumeCmd)
}

func runResume(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	return withApp(cmd, func(a *app) error {
		if limit <= 0 {
			limit = a.cfg.Resume.Limit
		}
		items, err := a.store.ContinueWatching(limit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, resumeJSON(items))
		}
		if len(items) == 0 {
			fmt.Fprintln(out, "Nothing to resume.")
			return nil
		}
		fmt.Fprintln(out, renderResume(items))
		return nil
	})
}

type resumeItemJSON struct {
	Kind      catalog.Kind `json:"kind"`
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	ShowID    int64        `json:"show_id,omitempty"`
	MediaPath string       `json:"media_path"`
	Position  float64      `json:"position"`
	Duration  float64      `json:"duration"`
}

func resumeJSON(items []catalog.ResumeItem) []resumeItemJSON {
	out := make([]resumeItemJSON, len(items))
	for i, it := range items {
		pos, dur := it.Progress()
		out[i] = resumeItemJSON{
			Kind:      it.Kind,
			ID:        it.ID(),
			Title:     it.Title(),
			ShowID:    it.ShowID,
			MediaPath: it.MediaPath(),
			Position:  pos,
			Duration:  dur,
		}
	}
	return out
}

func renderResume(items []catalog.ResumeItem) string {
	rows := make([][]string, len(items))
	for i, it := range items {
		pos, dur := it.Progress()
		var watched string
		if it.Kind == catalog.KindEpisode {
			watched = formatAge(it.Episode.PlayedAt)
		} else {
			watched = formatAge(it.Movie.PlayedAt)
		}
		rows[i] = []string{
			string(it.Kind),
			itoa(it.ID()),
			it.Title(),
			formatProgress(pos, dur),
			watched,
		}
	}
	return renderTable(
		[]string{"Kind", "ID", "Title", "Progress", "Watched"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
	)
}
