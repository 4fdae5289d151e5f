package transcode

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
)

// DefaultDiagnosticsLimit bounds the stderr excerpt carried by failures.
const DefaultDiagnosticsLimit = 500

// Config configures the encoder binaries and hardware acceleration.
type Config struct {
	FFmpeg           string
	FFprobe          string
	HWAccel          HWAccel
	VAAPIDevice      string
	DiagnosticsLimit int
}

// Transcoder starts transcode jobs. One Transcoder is shared by the process;
// hardware detection runs once on first use.
type Transcoder struct {
	cfg    Config
	logger *slog.Logger

	hwOnce sync.Once
	hw     HWAccel
}

// New creates a Transcoder. Empty binaries resolve to a bundled copy next to
// the executable, then to $PATH.
func New(cfg Config, logger *slog.Logger) *Transcoder {
	cfg.FFmpeg = ResolveBinary("ffmpeg", cfg.FFmpeg)
	cfg.FFprobe = ResolveBinary("ffprobe", cfg.FFprobe)
	if cfg.HWAccel == "" {
		cfg.HWAccel = HWAuto
	}
	if cfg.DiagnosticsLimit <= 0 {
		cfg.DiagnosticsLimit = DefaultDiagnosticsLimit
	}
	return &Transcoder{cfg: cfg, logger: logger.With("component", "transcode")}
}

// Config returns the resolved configuration.
func (t *Transcoder) Config() Config { return t.cfg }

// Run starts a job and returns its update channel. The last update has
// Done set; the channel is closed after it.
func (t *Transcoder) Run(ctx context.Context, req Request) <-chan Update {
	return t.Start(ctx, req).Updates()
}

// Probe inspects a media file with the configured ffprobe.
func (t *Transcoder) Probe(ctx context.Context, path string) (ProbeResult, error) {
	return Probe(ctx, t.cfg.FFprobe, path)
}

// EmbeddedSubtitles lists subtitle streams inside a media file.
func (t *Transcoder) EmbeddedSubtitles(ctx context.Context, path string) ([]SubtitleTrack, error) {
	res, err := t.Probe(ctx, path)
	if err != nil {
		return nil, err
	}
	return res.SubtitleTracks(), nil
}

// HardwareAccel returns the detected hardware encoder family, running
// detection if it has not run yet.
func (t *Transcoder) HardwareAccel(ctx context.Context) HWAccel {
	return t.detectHW(ctx)
}

// ResolveBinary returns configured when set, else <exe dir>/ffmpeg/<name>
// when that file exists, else the $PATH match, else name unchanged.
func ResolveBinary(name, configured string) string {
	if configured != "" {
		return configured
	}
	file := name
	if runtime.GOOS == "windows" {
		file += ".exe"
	}
	if exe, err := os.Executable(); err == nil {
		bundled := filepath.Join(filepath.Dir(exe), "ffmpeg", file)
		if info, err := os.Stat(bundled); err == nil && !info.IsDir() {
			return bundled
		}
	}
	if p, err := exec.LookPath(file); err == nil {
		return p
	}
	return name
}
