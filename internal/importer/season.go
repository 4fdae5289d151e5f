package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vmunix/flixcase/internal/catalog"
	"github.com/vmunix/flixcase/internal/events"
	"github.com/vmunix/flixcase/internal/library"
	"github.com/vmunix/flixcase/internal/metrics"
	"github.com/vmunix/flixcase/internal/transcode"
	"github.com/vmunix/flixcase/pkg/titles"
)

// NewShow creates the show a season is imported into.
type NewShow struct {
	Title string
}

// SeasonRequest describes a batch of episode files for one season. Exactly
// one of ShowID and NewShow is set. Files are imported in the given order
// and numbered from 1. Poster is optional; an existing show only takes it
// when it has none yet.
type SeasonRequest struct {
	ShowID  int64
	NewShow *NewShow
	Season  int // 0 picks the next free number
	Files   []string
	Preset  string
	Poster  string
}

// EpisodeOutcome is the result for one file of a batch.
type EpisodeOutcome struct {
	Index   int // position in SeasonRequest.Files
	Source  string
	Number  int
	Episode *catalog.Episode // nil when skipped
	Err     error            // why the file was skipped
}

// SeasonResult reports a finished batch. Skipped items are not an error.
type SeasonResult struct {
	OperationID string
	Show        *catalog.Show
	Season      *catalog.Season
	Committed   []EpisodeOutcome
	Skipped     []EpisodeOutcome
}

var errCommitEpisode = errors.New("commit episode")

// ImportSeason creates the season (and the show, when requested), then
// transcodes the files one at a time. Each successful file is committed as
// an episode before the next starts; a failed file is skipped and its
// number left unused. Cancellation stops the batch after removing the
// current item's files; episodes already committed stay.
func (i *Importer) ImportSeason(ctx context.Context, req SeasonRequest) (*SeasonResult, error) {
	plan, err := i.planSeason(req)
	if err != nil {
		return nil, err
	}

	op, release, err := i.begin(events.KindSeason, events.EntityShow, len(req.Files))
	if err != nil {
		return nil, err
	}
	defer release()
	op.entityID = req.ShowID
	op.log = op.log.With("show", plan.title, "season", plan.number, "preset", plan.preset.Key)

	op.log.Info("season import started", "files", len(req.Files))
	i.publish(ctx, &events.ImportStarted{
		BaseEvent:  op.base(events.EventImportStarted),
		Operation:  op.Operation,
		Title:      plan.title,
		Season:     plan.number,
		TotalItems: len(req.Files),
		Preset:     plan.preset.Key,
	})

	show, season, dir, err := i.createSeason(ctx, op, req, plan)
	if err != nil {
		i.failed(ctx, op, 0, err)
		return nil, err
	}
	op.entityID = show.ID

	result := &SeasonResult{OperationID: op.OperationID, Show: show, Season: season}
	for idx, src := range req.Files {
		outcome := EpisodeOutcome{Index: idx, Source: src, Number: idx + 1}
		if ctx.Err() != nil {
			i.cancelled(ctx, op, len(result.Committed))
			return result, fmt.Errorf("season %d of %q: %w", plan.number, plan.title, ErrCancelled)
		}

		ep, err := i.importEpisode(ctx, op, idx, src, outcome.Number, dir, season, plan.preset)
		switch {
		case err == nil:
			outcome.Episode = ep
			result.Committed = append(result.Committed, outcome)
			season.Episodes = append(season.Episodes, ep)
			metrics.ImportItemsTotal.WithLabelValues(events.KindSeason, metrics.OutcomeCommitted).Inc()
			i.publish(ctx, &events.ImportItemCommitted{
				BaseEvent: op.base(events.EventImportItemCommitted),
				Operation: op.Operation,
				ItemIndex: idx,
				Source:    src,
				MediaPath: ep.MediaPath,
				EpisodeID: ep.ID,
				Episode:   ep.Number,
			})
		case errors.Is(err, ErrCancelled):
			metrics.ImportItemsTotal.WithLabelValues(events.KindSeason, metrics.OutcomeCancelled).Inc()
			i.cancelled(ctx, op, len(result.Committed))
			return result, fmt.Errorf("season %d of %q: %w", plan.number, plan.title, err)
		case errors.Is(err, errCommitEpisode):
			metrics.ImportItemsTotal.WithLabelValues(events.KindSeason, metrics.OutcomeFailure).Inc()
			i.failed(ctx, op, len(result.Committed), err)
			return result, err
		default:
			outcome.Err = err
			result.Skipped = append(result.Skipped, outcome)
			metrics.ImportItemsTotal.WithLabelValues(events.KindSeason, metrics.OutcomeSkipped).Inc()
			op.log.Warn("episode failed, skipping", "episode", outcome.Number, "source", src, "error", err)
			i.publish(ctx, &events.ImportItemSkipped{
				BaseEvent: op.base(events.EventImportItemSkipped),
				Operation: op.Operation,
				ItemIndex: idx,
				Source:    src,
				Episode:   outcome.Number,
				Reason:    err.Error(),
			})
		}
	}

	i.publish(ctx, &events.ImportCompleted{
		BaseEvent: op.base(events.EventImportCompleted),
		Operation: op.Operation,
		Committed: itemOutcomes(result.Committed),
		Skipped:   itemOutcomes(result.Skipped),
	})
	op.log.Info("season import complete",
		"show_id", show.ID,
		"season_id", season.ID,
		"committed", len(result.Committed),
		"skipped", len(result.Skipped))
	return result, nil
}

type seasonPlan struct {
	existing *catalog.Show // nil when creating a show
	title    string
	number   int
	preset   transcode.Preset
}

// planSeason validates req before anything is written.
func (i *Importer) planSeason(req SeasonRequest) (*seasonPlan, error) {
	if len(req.Files) == 0 {
		return nil, fmt.Errorf("%w: no episode files", ErrValidation)
	}
	if (req.ShowID > 0) == (req.NewShow != nil) {
		return nil, fmt.Errorf("%w: exactly one of an existing show or a new show is required", ErrValidation)
	}
	if req.Season < 0 {
		return nil, fmt.Errorf("%w: season number must be at least 1, got %d", ErrValidation, req.Season)
	}
	for _, f := range req.Files {
		if err := requireFile("episode file", f); err != nil {
			return nil, err
		}
	}
	if req.Poster != "" {
		if err := requireFile("poster", req.Poster); err != nil {
			return nil, err
		}
	}
	preset, err := lookupPreset(req.Preset)
	if err != nil {
		return nil, err
	}
	plan := &seasonPlan{number: req.Season, preset: preset}

	if req.NewShow != nil {
		plan.title = strings.TrimSpace(req.NewShow.Title)
		if plan.title == "" {
			return nil, fmt.Errorf("%w: show title is required", ErrValidation)
		}
		if plan.number == 0 {
			plan.number = 1
		}
		return plan, nil
	}

	show, err := i.catalog.GetShow(req.ShowID)
	if err != nil {
		return nil, err
	}
	plan.existing, plan.title = show, show.Title
	if req.Poster != "" && show.ThumbPath != "" {
		return nil, fmt.Errorf("%w: %s already has a poster", ErrValidation, show.Title)
	}
	if plan.number == 0 {
		if plan.number, err = i.catalog.NextSeasonNumber(show.ID); err != nil {
			return nil, err
		}
		return plan, nil
	}
	for _, se := range show.Seasons {
		if se.Number == plan.number {
			return nil, fmt.Errorf("%w: %s already has season %d", ErrValidation, show.Title, plan.number)
		}
	}
	return plan, nil
}

// createSeason prepares the show directory and commits the show and season
// rows together. A show without a recorded directory gets one.
func (i *Importer) createSeason(ctx context.Context, op *operation, req SeasonRequest, plan *seasonPlan) (_ *catalog.Show, _ *catalog.Season, dir string, err error) {
	show := plan.existing
	dir = ShowDir(show)
	newDir := dir == ""
	if newDir {
		if dir, err = i.lib.CreateTitleDir(plan.title); err != nil {
			return nil, nil, "", err
		}
		defer func() {
			if err == nil {
				return
			}
			if rmErr := i.lib.RemoveTitleDir(dir); rmErr != nil {
				op.log.Warn("remove show directory", "dir", dir, "error", rmErr)
			}
		}()
	}

	var poster string
	if req.Poster != "" {
		if poster, err = i.copyAsset(ctx, req.Poster, dir, library.PosterFile(library.Ext(req.Poster, ".jpg"))); err != nil {
			return nil, nil, "", err
		}
		if !newDir {
			defer func() {
				if err == nil {
					return
				}
				if rmErr := i.lib.RemoveFile(poster); rmErr != nil {
					op.log.Warn("remove poster", "path", poster, "error", rmErr)
				}
			}()
		}
	}

	tx, err := i.catalog.Begin()
	if err != nil {
		return nil, nil, "", err
	}
	defer func() { _ = tx.Rollback() }()

	switch {
	case show == nil:
		show = &catalog.Show{Title: plan.title, Dir: dir, ThumbPath: poster}
		if err := tx.CreateShow(show); err != nil {
			return nil, nil, "", fmt.Errorf("create show %q: %w", plan.title, err)
		}
	default:
		if show.Dir == "" {
			if err := tx.SetShowDir(show.ID, dir); err != nil {
				return nil, nil, "", err
			}
		}
		if poster != "" {
			if err := tx.SetShowThumbnail(show.ID, poster); err != nil {
				return nil, nil, "", err
			}
		}
	}
	season := &catalog.Season{ShowID: show.ID, Number: plan.number}
	if err := tx.CreateSeason(season); err != nil {
		return nil, nil, "", fmt.Errorf("create season %d of %q: %w", plan.number, plan.title, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, "", fmt.Errorf("commit season %d of %q: %w", plan.number, plan.title, err)
	}
	show.Dir = dir
	if poster != "" {
		show.ThumbPath = poster
	}
	return show, season, dir, nil
}

// importEpisode transcodes one file into <dir>/sNNeNN/ and commits it.
// Any failure removes the episode directory.
func (i *Importer) importEpisode(ctx context.Context, op *operation, idx int, src string, number int, dir string, season *catalog.Season, preset transcode.Preset) (_ *catalog.Episode, err error) {
	epDir := library.EpisodeDir(dir, season.Number, number)
	absDir, err := i.lib.Abs(epDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("create episode directory: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rmErr := i.lib.RemoveTitleDir(epDir); rmErr != nil {
			op.log.Warn("remove episode directory", "dir", epDir, "error", rmErr)
		}
	}()

	ep := &catalog.Episode{
		SeasonID:  season.ID,
		Number:    number,
		Title:     titles.EpisodeTitle(filepath.Base(src)),
		MediaPath: path.Join(epDir, library.EpisodeFile(preset.OutputExt(library.Ext(src, ".mp4")))),
	}
	dest := filepath.Join(absDir, filepath.Base(filepath.FromSlash(ep.MediaPath)))

	op.log.Debug("episode started", "episode", number, "source", src, "dest", ep.MediaPath)
	result := i.transcode(ctx, op, idx, transcode.Request{Input: src, Output: dest, Preset: preset.Key})
	if !result.Success {
		if result.Cancelled() {
			return nil, ErrCancelled
		}
		return nil, fmt.Errorf("%s: %w", result.Message, result.Err)
	}

	if err := i.catalog.CreateEpisode(ep); err != nil {
		return nil, fmt.Errorf("%w %d: %w", errCommitEpisode, number, err)
	}
	return ep, nil
}

func itemOutcomes(in []EpisodeOutcome) []events.ItemOutcome {
	out := make([]events.ItemOutcome, 0, len(in))
	for _, o := range in {
		item := events.ItemOutcome{Source: o.Source, Episode: o.Number}
		if o.Episode != nil {
			item.MediaPath = o.Episode.MediaPath
		}
		if o.Err != nil {
			item.Error = o.Err.Error()
		}
		out = append(out, item)
	}
	return out
}

// ShowDir returns the catalog directory holding a show's files. Shows
// without a recorded directory fall back to their poster or any episode
// path. Returns "" when nothing is known.
func ShowDir(show *catalog.Show) string {
	if show == nil {
		return ""
	}
	if show.Dir != "" {
		return show.Dir
	}
	if show.ThumbPath != "" {
		return path.Dir(show.ThumbPath)
	}
	for _, se := range show.Seasons {
		for _, ep := range se.Episodes {
			if ep.MediaPath != "" {
				return path.Dir(path.Dir(ep.MediaPath))
			}
		}
	}
	return ""
}
