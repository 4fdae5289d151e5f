package importer

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/vmunix/flixcase/internal/catalog"
	"github.com/vmunix/flixcase/internal/events"
	"github.com/vmunix/flixcase/internal/library"
	"github.com/vmunix/flixcase/internal/metrics"
	"github.com/vmunix/flixcase/internal/transcode"
)

// MovieRequest describes one movie to import.
type MovieRequest struct {
	Title          string
	Source         string   // media file
	Thumbnail      string   // optional image file
	Subtitles      []string // optional external subtitle files
	DetectEmbedded bool     // add subtitle tracks found inside Source
	Preset         string
}

// MovieResult is a committed movie import.
type MovieResult struct {
	OperationID string
	Movie       *catalog.Movie
	Message     string // transcode result message
}

// ImportMovie copies artwork and subtitles into a new title directory,
// transcodes the source into it, and commits the movie with its subtitles.
// On failure or cancellation the title directory is removed and nothing is
// committed.
func (i *Importer) ImportMovie(ctx context.Context, req MovieRequest) (*MovieResult, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: movie title is required", ErrValidation)
	}
	if err := requireFile("movie file", req.Source); err != nil {
		return nil, err
	}
	if req.Thumbnail != "" {
		if err := requireFile("thumbnail", req.Thumbnail); err != nil {
			return nil, err
		}
	}
	preset, err := lookupPreset(req.Preset)
	if err != nil {
		return nil, err
	}

	op, release, err := i.begin(events.KindMovie, events.EntityMovie, 1)
	if err != nil {
		return nil, err
	}
	defer release()
	log := op.log.With("title", title, "preset", preset.Key)

	log.Info("movie import started", "source", req.Source)
	i.publish(ctx, &events.ImportStarted{
		BaseEvent:  op.base(events.EventImportStarted),
		Operation:  op.Operation,
		Title:      title,
		TotalItems: 1,
		Preset:     preset.Key,
	})

	res, err := i.importMovie(ctx, op, req, title, preset)
	switch {
	case err == nil:
	case errors.Is(err, ErrCancelled):
		metrics.ImportItemsTotal.WithLabelValues(events.KindMovie, metrics.OutcomeCancelled).Inc()
		i.cancelled(ctx, op, 0)
		return nil, err
	default:
		metrics.ImportItemsTotal.WithLabelValues(events.KindMovie, metrics.OutcomeFailure).Inc()
		i.failed(ctx, op, 0, err)
		return nil, err
	}

	metrics.ImportItemsTotal.WithLabelValues(events.KindMovie, metrics.OutcomeCommitted).Inc()
	op.entityID = res.Movie.ID
	i.publish(ctx, &events.ImportItemCommitted{
		BaseEvent: op.base(events.EventImportItemCommitted),
		Operation: op.Operation,
		Source:    req.Source,
		MediaPath: res.Movie.MediaPath,
	})
	i.publish(ctx, &events.ImportCompleted{
		BaseEvent: op.base(events.EventImportCompleted),
		Operation: op.Operation,
		Committed: []events.ItemOutcome{{Source: req.Source, MediaPath: res.Movie.MediaPath}},
	})
	log.Info("movie import complete", "movie_id", res.Movie.ID, "dest", res.Movie.MediaPath, "subtitles", len(res.Movie.Subtitles))
	return res, nil
}

func (i *Importer) importMovie(ctx context.Context, op *operation, req MovieRequest, title string, preset transcode.Preset) (_ *MovieResult, err error) {
	dir, err := i.lib.CreateTitleDir(title)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err == nil {
			return
		}
		if rmErr := i.lib.RemoveTitleDir(dir); rmErr != nil {
			op.log.Warn("remove movie directory", "dir", dir, "error", rmErr)
		}
	}()

	movie := &catalog.Movie{Title: title}
	if req.Thumbnail != "" {
		thumb, err := i.copyAsset(ctx, req.Thumbnail, dir, library.ThumbnailFile(library.Ext(req.Thumbnail, ".jpg")))
		if err != nil {
			return nil, err
		}
		movie.ThumbPath = thumb
	}
	movie.Subtitles = append(i.copySubtitles(ctx, op, req.Subtitles, dir), i.embeddedSubtitles(ctx, op, req)...)

	movie.MediaPath = path.Join(dir, library.MovieFile(preset.OutputExt(library.Ext(req.Source, ".mp4"))))
	dest, err := i.lib.Abs(movie.MediaPath)
	if err != nil {
		return nil, err
	}

	result := i.transcode(ctx, op, 0, transcode.Request{Input: req.Source, Output: dest, Preset: preset.Key})
	if !result.Success {
		if result.Cancelled() {
			return nil, fmt.Errorf("import %q: %w", title, ErrCancelled)
		}
		return nil, fmt.Errorf("import %q: %s: %w", title, result.Message, result.Err)
	}

	if err := i.catalog.CreateMovie(movie); err != nil {
		return nil, fmt.Errorf("commit movie %q: %w", title, err)
	}
	return &MovieResult{OperationID: op.OperationID, Movie: movie, Message: result.Message}, nil
}

// copySubtitles copies external subtitle files as subtitle_N.<ext>. A file
// that cannot be copied is logged and left out.
func (i *Importer) copySubtitles(ctx context.Context, op *operation, files []string, dir string) []catalog.Subtitle {
	var subs []catalog.Subtitle
	for n, src := range files {
		rel, err := i.copyAsset(ctx, src, dir, library.SubtitleFile(n, library.Ext(src, ".srt")))
		if err != nil {
			op.log.Warn("subtitle copy failed, skipping", "source", src, "error", err)
			continue
		}
		base := filepath.Base(src)
		subs = append(subs, catalog.Subtitle{
			Path:  rel,
			Label: strings.TrimSuffix(base, filepath.Ext(base)),
		})
	}
	return subs
}

func (i *Importer) embeddedSubtitles(ctx context.Context, op *operation, req MovieRequest) []catalog.Subtitle {
	if !req.DetectEmbedded {
		return nil
	}
	tracks, err := i.tr.EmbeddedSubtitles(ctx, req.Source)
	if err != nil {
		op.log.Warn("embedded subtitle detection failed", "source", req.Source, "error", err)
		return nil
	}
	subs := make([]catalog.Subtitle, 0, len(tracks))
	for _, t := range tracks {
		subs = append(subs, catalog.Subtitle{Label: t.Label, Embedded: true, TrackIndex: t.Index})
	}
	return subs
}
