package transcode

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake encoder scripts need a POSIX shell")
	}
}

// writeScript writes an executable shell script into dir.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

// fakeProbe prints a fixed ffprobe JSON document.
func fakeProbe(t *testing.T, dir, json string) string {
	return writeScript(t, dir, "ffprobe", "cat <<'JSON'\n"+json+"\nJSON\n")
}

const tenSecondProbe = `{"format": {"duration": "10.000000"}, "streams": [{"index": 0, "codec_type": "video", "codec_name": "h264"}]}`

// encoderPrelude sets $last to the output path (the final argument) and
// fails hardware self-tests.
const encoderPrelude = `for last; do :; done
case "$*" in *lavfi*) exit 1;; esac
`

func writeInput(t *testing.T, dir string, size int) string {
	t.Helper()
	path := filepath.Join(dir, "input.mp4")
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 253)
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func newTestTranscoder(ffmpeg, ffprobe string) *Transcoder {
	return New(Config{FFmpeg: ffmpeg, FFprobe: ffprobe, HWAccel: HWNone}, testLogger())
}

// collect drains a job, returning non-terminal percents and the result.
func collect(t *testing.T, updates <-chan Update) ([]float64, Result) {
	t.Helper()
	var percents []float64
	for u := range updates {
		if u.Done {
			require.NotNil(t, u.Result)
			return percents, *u.Result
		}
		percents = append(percents, u.Percent)
	}
	t.Fatal("update channel closed without a terminal update")
	return nil, Result{}
}
