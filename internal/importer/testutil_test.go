package importer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/flixcase/internal/catalog"
	"github.com/vmunix/flixcase/internal/events"
	"github.com/vmunix/flixcase/internal/importer/mocks"
	"github.com/vmunix/flixcase/internal/library"
	"github.com/vmunix/flixcase/internal/transcode"
)

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	imp    *Importer
	store  *catalog.Store
	lib    *library.Library
	tr     *mocks.MockTranscoder
	bus    *events.Bus
	evlog  *events.EventLog
	srcDir string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	store, err := catalog.Open(filepath.Join(root, "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	lib, err := library.New(root)
	require.NoError(t, err)
	require.NoError(t, lib.Init())

	evlog := events.NewEventLog(store.DB())
	bus := events.NewBus(evlog, testLogger())
	t.Cleanup(func() { _ = bus.Close() })

	tr := mocks.NewMockTranscoder(gomock.NewController(t))
	imp := New(Deps{Catalog: store, Library: lib, Transcoder: tr, Bus: bus}, testLogger())
	return &fixture{imp: imp, store: store, lib: lib, tr: tr, bus: bus, evlog: evlog, srcDir: t.TempDir()}
}

// source writes a file into the fixture's source directory.
func (f *fixture) source(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(f.srcDir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// persistedTypes returns the event types stored for an operation.
func (f *fixture) persistedTypes(t *testing.T, operationID string) []string {
	t.Helper()
	raws, err := f.evlog.ForOperation(context.Background(), operationID)
	require.NoError(t, err)
	types := make([]string, len(raws))
	for i, r := range raws {
		types[i] = r.EventType
	}
	return types
}

type runFunc = func(ctx context.Context, req transcode.Request) <-chan transcode.Update

func updates(us ...transcode.Update) <-chan transcode.Update {
	ch := make(chan transcode.Update, len(us))
	for _, u := range us {
		ch <- u
	}
	close(ch)
	return ch
}

func done(res transcode.Result) transcode.Update {
	return transcode.Update{Done: true, Result: &res}
}

// succeed writes content to the output and reports 0, 50 and success.
func succeed(content string) runFunc {
	return func(_ context.Context, req transcode.Request) <-chan transcode.Update {
		if err := os.WriteFile(req.Output, []byte(content), 0o644); err != nil {
			return updates(done(transcode.Result{Message: err.Error(), Err: err}))
		}
		return updates(
			transcode.Update{Stage: transcode.StageEncoding, Percent: 0},
			transcode.Update{Stage: transcode.StageEncoding, Percent: 50},
			done(transcode.Result{Success: true, Message: "Compression complete."}),
		)
	}
}

// fail leaves a partial output behind, as a crashed encoder would before
// the job removes it, and reports an encode failure.
func fail(diagnostics string) runFunc {
	return func(_ context.Context, req transcode.Request) <-chan transcode.Update {
		_ = os.WriteFile(req.Output, []byte("partial"), 0o644)
		err := &transcode.EncodeError{ExitCode: 1, Diagnostics: diagnostics}
		return updates(
			transcode.Update{Stage: transcode.StageEncoding, Percent: 20},
			done(transcode.Result{Message: "FFmpeg error: " + diagnostics, Err: err}),
		)
	}
}

func cancelled() runFunc {
	return func(_ context.Context, _ transcode.Request) <-chan transcode.Update {
		return updates(done(transcode.Result{Message: "Cancelled.", Err: transcode.ErrCancelled}))
	}
}

func exists(t *testing.T, lib *library.Library, rel string) bool {
	t.Helper()
	abs, err := lib.Abs(rel)
	require.NoError(t, err)
	_, err = os.Stat(abs)
	return err == nil
}
