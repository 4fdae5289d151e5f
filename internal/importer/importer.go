// Package importer brings movies and seasons of episodes into the library:
// it copies artwork, drives one transcode job per media file, and commits
// catalog rows as each file lands.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/vmunix/flixcase/internal/catalog"
	"github.com/vmunix/flixcase/internal/events"
	"github.com/vmunix/flixcase/internal/library"
	"github.com/vmunix/flixcase/internal/metrics"
	"github.com/vmunix/flixcase/internal/transcode"
)

//go:generate mockgen -destination=mocks/mock_transcoder.go -package=mocks . Transcoder

// Transcoder runs transcode jobs. *transcode.Transcoder implements it.
type Transcoder interface {
	Run(ctx context.Context, req transcode.Request) <-chan transcode.Update
	EmbeddedSubtitles(ctx context.Context, path string) ([]transcode.SubtitleTrack, error)
}

// Deps are the collaborators of an Importer. Bus may be nil.
type Deps struct {
	Catalog    *catalog.Store
	Library    *library.Library
	Transcoder Transcoder
	Bus        *events.Bus
}

// Importer runs imports one at a time per library.
type Importer struct {
	catalog *catalog.Store
	lib     *library.Library
	tr      Transcoder
	bus     *events.Bus
	log     *slog.Logger
}

// New creates an importer.
func New(deps Deps, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		catalog: deps.Catalog,
		lib:     deps.Library,
		tr:      deps.Transcoder,
		bus:     deps.Bus,
		log:     logger.With("component", "importer"),
	}
}

// operation is the per-import state shared by the movie and season paths.
type operation struct {
	events.Operation
	entity   string
	entityID int64
	total    int
	log      *slog.Logger
}

func (i *Importer) begin(kind, entity string, total int) (*operation, func(), error) {
	lock, err := i.lib.TryLock()
	if err != nil {
		return nil, nil, err
	}
	metrics.ImportsInProgress.Inc()
	id := uuid.NewString()
	op := &operation{
		Operation: events.Operation{OperationID: id, Kind: kind},
		entity:    entity,
		total:     total,
		log:       i.log.With("operation_id", id, "kind", kind),
	}
	release := func() {
		metrics.ImportsInProgress.Dec()
		if err := lock.Unlock(); err != nil {
			op.log.Warn("release library lock", "error", err)
		}
	}
	return op, release, nil
}

func (op *operation) base(eventType string) events.BaseEvent {
	return events.NewBaseEvent(eventType, op.entity, op.entityID)
}

// publish delivers e even when the import context has been cancelled, so
// terminal events still reach the event log.
func (i *Importer) publish(ctx context.Context, e events.Event) {
	if i.bus == nil {
		return
	}
	_ = i.bus.Publish(context.WithoutCancel(ctx), e)
}

// transcode runs one item and forwards its progress as overall batch
// progress. It returns when the job has sent its terminal result.
func (i *Importer) transcode(ctx context.Context, op *operation, index int, req transcode.Request) transcode.Result {
	for u := range i.tr.Run(ctx, req) {
		if u.Done {
			if u.Result == nil {
				break
			}
			return *u.Result
		}
		i.publish(ctx, &events.ImportProgressed{
			BaseEvent:  op.base(events.EventImportProgressed),
			Operation:  op.Operation,
			ItemIndex:  index,
			TotalItems: op.total,
			Stage:      string(u.Stage),
			Percent:    overallPercent(index, op.total, u.Percent),
		})
	}
	err := errors.New("transcode ended without a result")
	return transcode.Result{Message: err.Error(), Err: err}
}

// overallPercent weights item index (0-based) of total at item percent pct:
// (index + pct/100) / total * 100. Negative pct stays indeterminate.
func overallPercent(index, total int, pct float64) float64 {
	if pct < 0 || total <= 0 {
		return -1
	}
	return (float64(index) + pct/100) / float64(total) * 100
}

func (i *Importer) failed(ctx context.Context, op *operation, committed int, err error) {
	op.log.Error("import failed", "error", err)
	i.publish(ctx, &events.ImportFailed{
		BaseEvent: op.base(events.EventImportFailed),
		Operation: op.Operation,
		Reason:    err.Error(),
		Committed: committed,
	})
}

func (i *Importer) cancelled(ctx context.Context, op *operation, committed int) {
	op.log.Info("import cancelled", "committed", committed)
	i.publish(ctx, &events.ImportCancelled{
		BaseEvent: op.base(events.EventImportCancelled),
		Operation: op.Operation,
		Committed: committed,
	})
}

// copyAsset copies artwork into dir as name and returns its catalog path.
func (i *Importer) copyAsset(ctx context.Context, src, dir, name string) (string, error) {
	rel := dir + "/" + name
	dst, err := i.lib.Abs(rel)
	if err != nil {
		return "", err
	}
	if _, err := library.CopyFile(ctx, src, dst); err != nil {
		return "", fmt.Errorf("%w: %w", ErrAssetCopyFailed, err)
	}
	return rel, nil
}

func requireFile(what, path string) error {
	if path == "" {
		return fmt.Errorf("%w: %s is required", ErrValidation, what)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrValidation, what, path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s %s is a directory", ErrValidation, what, path)
	}
	return nil
}

func lookupPreset(key string) (transcode.Preset, error) {
	p, err := transcode.LookupPreset(key)
	if err != nil {
		return transcode.Preset{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return p, nil
}
