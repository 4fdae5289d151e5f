package transcode

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/flixcase/internal/library"
	"github.com/vmunix/flixcase/internal/metrics"
)

// Stage is the current phase of a job.
type Stage string

const (
	StageProbing  Stage = "probing"
	StageCopying  Stage = "copying"
	StageEncoding Stage = "encoding"
)

// Request is one input to output conversion.
type Request struct {
	Input  string
	Output string
	Preset string
}

// Update is a progress sample or, when Done is set, the terminal result.
// Percent < 0 means progress is indeterminate.
type Update struct {
	Stage   Stage
	Percent float64
	Done    bool
	Result  *Result
}

// Result is how a job ended. Err is nil on success, wraps ErrCancelled when
// cancelled, and is an *EncodeError when the encoder exited non-zero.
type Result struct {
	Success bool
	Message string
	Err     error
	Accel   HWAccel // encoder family used, HWNone for CPU or copy
}

// Cancelled reports whether the job was stopped on request.
func (r Result) Cancelled() bool { return errors.Is(r.Err, ErrCancelled) }

const (
	updateBuffer       = 32
	diagnosticsBufSize = 8 << 10
)

// killGrace bounds how long Wait keeps reading the encoder's output after
// it exits or is killed, e.g. when a child process still holds the pipes.
var killGrace = 5 * time.Second

// Job is a running transcode. It owns the encoder process and the output
// file until the terminal update is sent.
type Job struct {
	updates chan Update
	done    chan struct{}
	cancel  context.CancelFunc
	result  Result
}

// Start launches req in the background. Cancelling ctx or calling
// Job.Cancel stops it.
func (t *Transcoder) Start(ctx context.Context, req Request) *Job {
	ctx, cancel := context.WithCancel(ctx)
	j := &Job{
		updates: make(chan Update, updateBuffer),
		done:    make(chan struct{}),
		cancel:  cancel,
	}

	go func() {
		defer cancel()
		started := time.Now()
		metrics.TranscodeJobsInProgress.Inc()
		res := t.run(ctx, req, j)
		metrics.TranscodeJobsInProgress.Dec()
		metrics.TranscodeJobDuration.WithLabelValues(req.Preset).Observe(time.Since(started).Seconds())
		metrics.TranscodeJobsTotal.WithLabelValues(req.Preset, outcome(res)).Inc()

		j.result = res
		j.updates <- Update{Done: true, Result: &res}
		close(j.updates)
		close(j.done)
	}()
	return j
}

func outcome(res Result) string {
	switch {
	case res.Success:
		return metrics.OutcomeSuccess
	case res.Cancelled():
		return metrics.OutcomeCancelled
	default:
		return metrics.OutcomeFailure
	}
}

// Updates returns the job's update stream. Read it to completion or call Wait.
func (j *Job) Updates() <-chan Update { return j.updates }

// Cancel requests cancellation. The job still sends its terminal update.
func (j *Job) Cancel() { j.cancel() }

// Wait discards remaining updates and returns the result.
func (j *Job) Wait() Result {
	for range j.updates {
	}
	<-j.done
	return j.result
}

// progress sends a sample without blocking; samples are dropped when the
// consumer is behind.
func (j *Job) progress(stage Stage, pct float64) {
	select {
	case j.updates <- Update{Stage: stage, Percent: pct}:
	default:
	}
}

// milestone sends a sample that must be delivered (0 and 100).
func (j *Job) milestone(ctx context.Context, stage Stage, pct float64) {
	select {
	case j.updates <- Update{Stage: stage, Percent: pct}:
	case <-ctx.Done():
	}
}

func (t *Transcoder) run(ctx context.Context, req Request, j *Job) Result {
	log := t.logger.With("input", req.Input, "output", req.Output, "preset", req.Preset)

	preset, err := LookupPreset(req.Preset)
	if err != nil {
		return failure(err)
	}
	if info, err := os.Stat(req.Input); err != nil || info.IsDir() {
		return failure(fmt.Errorf("%w: %s", ErrSourceMissing, req.Input))
	}
	if _, err := os.Stat(req.Output); err == nil {
		return failure(fmt.Errorf("%w: %s", ErrDestinationExists, req.Output))
	}
	if err := os.MkdirAll(filepath.Dir(req.Output), 0o755); err != nil {
		return failure(fmt.Errorf("create output directory: %w", err))
	}

	if preset.IsCopy() {
		return t.copy(ctx, req, j, log)
	}
	return t.encode(ctx, req, preset, j, log)
}

func failure(err error) Result {
	return Result{Message: err.Error(), Err: err, Accel: HWNone}
}

func cancelled() Result {
	return Result{Message: "Cancelled.", Err: ErrCancelled, Accel: HWNone}
}

func (t *Transcoder) copy(ctx context.Context, req Request, j *Job, log *slog.Logger) Result {
	j.milestone(ctx, StageCopying, 0)
	n, err := library.CopyFile(ctx, req.Input, req.Output)
	if err != nil {
		if ctx.Err() != nil {
			return cancelled()
		}
		return failure(err)
	}
	log.Debug("file copied", "bytes", n)
	j.milestone(ctx, StageCopying, 100)
	return Result{Success: true, Message: "File copied successfully.", Accel: HWNone}
}

func (t *Transcoder) encode(ctx context.Context, req Request, preset Preset, j *Job, log *slog.Logger) Result {
	j.progress(StageProbing, -1)
	var duration float64
	if probe, err := t.Probe(ctx, req.Input); err != nil {
		log.Warn("duration probe failed, progress will be indeterminate", "error", err)
	} else {
		duration = probe.DurationSeconds()
	}
	if ctx.Err() != nil {
		return cancelled()
	}

	accel := HWNone
	if usesHW(preset) {
		accel = t.detectHW(ctx)
	}
	args := t.buildArgs(req, preset, accel)
	log.Debug("starting encoder", "ffmpeg", t.cfg.FFmpeg, "args", strings.Join(args, " "), "duration", duration)

	// Output is copied by exec itself so WaitDelay can abandon pipes a
	// stray child keeps open.
	diag := newTailBuffer(diagnosticsBufSize)
	stdout, stdoutW := io.Pipe()
	cmd := exec.CommandContext(ctx, t.cfg.FFmpeg, args...)
	cmd.Stdout = stdoutW
	cmd.Stderr = diag
	cmd.WaitDelay = killGrace
	if err := cmd.Start(); err != nil {
		return failure(fmt.Errorf("%w: %v", ErrEncoderNotFound, err))
	}

	initial := -1.0
	if duration > 0 {
		initial = 0
	}
	j.milestone(ctx, StageEncoding, initial)

	var g errgroup.Group
	g.Go(func() error {
		sc := bufio.NewScanner(stdout)
		last := -1.0
		for sc.Scan() {
			if ctx.Err() != nil {
				continue // keep draining until the killed process closes the pipe
			}
			elapsed, ok := parseProgressLine(sc.Text())
			if !ok {
				continue
			}
			if pct, ok := percentOf(elapsed, duration); ok && pct != last {
				last = pct
				j.progress(StageEncoding, pct)
			}
		}
		if err := sc.Err(); err != nil {
			_ = stdout.CloseWithError(err)
			return err
		}
		return nil
	})
	waitErr := cmd.Wait()
	_ = stdoutW.Close()
	readErr := g.Wait()

	if ctx.Err() != nil {
		removePartial(req.Output)
		log.Debug("encode cancelled")
		return cancelled()
	}
	if waitErr != nil {
		removePartial(req.Output)
		encErr := &EncodeError{ExitCode: -1, Diagnostics: tail(diag.String(), t.cfg.DiagnosticsLimit), Err: waitErr}
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			encErr.ExitCode = exitErr.ExitCode()
		}
		return Result{Message: "FFmpeg error: " + encErr.Diagnostics, Err: encErr, Accel: accel}
	}
	if readErr != nil {
		log.Warn("reading encoder output", "error", readErr)
	}

	j.milestone(ctx, StageEncoding, 100)
	return Result{Success: true, Message: "Compression complete.", Accel: accel}
}

// buildArgs assembles the ffmpeg command line. -n makes ffmpeg refuse to
// overwrite; progress goes to stdout, diagnostics to stderr.
func (t *Transcoder) buildArgs(req Request, preset Preset, accel HWAccel) []string {
	hwIn, video := t.videoArgs(preset, accel)

	args := []string{"-hide_banner", "-nostdin", "-n"}
	args = append(args, hwIn...)
	args = append(args, "-i", req.Input, "-map", "0", "-dn")
	args = append(args, video...)
	args = append(args, "-c:a", preset.AudioCodec)
	if preset.AudioBitrate != "" {
		args = append(args, "-b:a", preset.AudioBitrate)
	}
	args = append(args, "-c:s", "copy", "-c:t", "copy")
	args = append(args, "-progress", "pipe:1", "-nostats", req.Output)
	return args
}

// removePartial deletes an unfinished output file, if any.
func removePartial(path string) {
	_ = os.Remove(path)
}
