package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/flixcase/internal/catalog"
)

func init() {
	playbackCmd := &cobra.Command{
		Use:   "playback",
		Short: "Record playback position",
		Long: `Records how far a movie or episode has been watched, the same way a
player does through the API. --finished resets the position so the item
leaves the resume list.`,
	}

	for _, kind := range []catalog.Kind{catalog.KindMovie, catalog.KindEpisode} {
		c := &cobra.Command{
			Use:   string(kind) + " <id>",
			Short: "Record playback of a " + string(kind),
			Args:  cobra.ExactArgs(1),
			RunE:  runPlayback(kind),
		}
		c.Flags().Float64("position", 0, "Position in seconds")
		c.Flags().Float64("duration", 0, "Total duration in seconds")
		c.Flags().Bool("finished", false, "Mark as watched to the end")
		c.MarkFlagsMutuallyExclusive("position", "finished")
		playbackCmd.AddCommand(c)
	}

	rootCmd.AddCommand(playbackCmd)
}

// playbackUpdate is a parsed playback command.
type playbackUpdate struct {
	position    float64
	duration    float64
	setDuration bool
}

func parsePlaybackFlags(cmd *cobra.Command) (playbackUpdate, error) {
	var u playbackUpdate
	finished, _ := cmd.Flags().GetBool("finished")
	switch {
	case finished:
	case cmd.Flags().Changed("position"):
		u.position, _ = cmd.Flags().GetFloat64("position")
	default:
		return u, fmt.Errorf("%w: --position is required unless --finished is set", catalog.ErrValidation)
	}
	if cmd.Flags().Changed("duration") {
		u.duration, _ = cmd.Flags().GetFloat64("duration")
		u.setDuration = true
	}
	return u, nil
}

func runPlayback(kind catalog.Kind) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], string(kind))
		if err != nil {
			return err
		}
		u, err := parsePlaybackFlags(cmd)
		if err != nil {
			return err
		}

		return withApp(cmd, func(a *app) error {
			setDuration, setPosition := a.store.UpdateMovieDuration, a.store.UpdateMoviePosition
			if kind == catalog.KindEpisode {
				setDuration, setPosition = a.store.UpdateEpisodeDuration, a.store.UpdateEpisodePosition
			}
			if u.setDuration {
				if err := setDuration(id, u.duration); err != nil {
					return err
				}
			}
			if err := setPosition(id, u.position); err != nil {
				return err
			}

			p, err := a.store.GetPlayable(kind, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput {
				return printJSON(out, resumeJSON([]catalog.ResumeItem{*p})[0])
			}
			pos, dur := p.Progress()
			fmt.Fprintf(out, "%s: %s\n", p.Title(), formatProgress(pos, dur))
			return nil
		})
	}
}
