// Package engine runs conversion jobs by shelling out to ffmpeg.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/zinojeng/mov2mp4/internal/batch"
	"github.com/zinojeng/mov2mp4/pkg/ffprobe"
)

// DefaultBinary is used when no explicit ffmpeg path is configured.
const DefaultBinary = "ffmpeg"

// checkTimeout caps the preflight -version run so a wedged binary
// cannot hang the batch before it starts.
const checkTimeout = 5 * time.Second

// Prober supplies media metadata for input validation and progress
// estimation. *ffprobe.Client satisfies it.
type Prober interface {
	Probe(ctx context.Context, path string) (*ffprobe.Result, error)
	Version(ctx context.Context) (string, error)
}

// FFmpeg converts QuickTime sources to MP4 through the ffmpeg binary.
type FFmpeg struct {
	binary string
	probe  Prober
	runner Runner
	log    *slog.Logger
}

var _ batch.Converter = (*FFmpeg)(nil)

// NewFFmpeg creates an engine around the given ffmpeg binary.
func NewFFmpeg(binary string, probe Prober, runner Runner, logger *slog.Logger) *FFmpeg {
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FFmpeg{
		binary: binary,
		probe:  probe,
		runner: runner,
		log:    logger.With("component", "engine"),
	}
}

// Info describes the engine binaries located by Check.
type Info struct {
	FFmpegPath     string
	FFmpegVersion  string
	FFprobeVersion string // empty when ffprobe is unavailable
}

// Check verifies ffmpeg is runnable before any batch starts. A missing
// ffprobe is reported in the result but is not an error: conversions
// degrade to coarse progress without it.
func (e *FFmpeg) Check(ctx context.Context) (Info, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	path, err := e.runner.LookPath(e.binary)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %q not found in PATH", batch.ErrEngineNotAvailable, e.binary)
	}

	info := Info{FFmpegPath: path}
	res, err := e.runner.Run(ctx, e.binary, []string{"-version"}, func(line string) {
		if info.FFmpegVersion == "" {
			info.FFmpegVersion = strings.TrimSpace(line)
		}
	})
	if err != nil || res.ExitCode != 0 {
		return Info{}, fmt.Errorf("%w: %s -version failed", batch.ErrEngineNotAvailable, e.binary)
	}

	if v, err := e.probe.Version(ctx); err == nil {
		info.FFprobeVersion = v
	} else {
		e.log.Warn("ffprobe unavailable, progress reporting will be coarse", "error", err)
	}
	return info, nil
}

// Convert runs one job to completion. Every per-job disposition comes
// back inside the Result; the error return is reserved for an engine
// binary that cannot be started at all.
func (e *FFmpeg) Convert(ctx context.Context, job batch.Job, onProgress func(float64)) (batch.Result, error) {
	start := time.Now()
	res := batch.Result{Job: job}

	fail := func(reason batch.Reason, detail string) (batch.Result, error) {
		res.Outcome = batch.OutcomeFailed
		res.Reason = reason
		res.Detail = detail
		res.Elapsed = time.Since(start)
		return res, nil
	}

	info, err := os.Stat(job.Source)
	if err != nil {
		return fail(batch.ReasonInputNotFound, err.Error())
	}
	if info.Size() == 0 {
		return fail(batch.ReasonUnsupportedFormat, "file is empty")
	}
	res.InputBytes = info.Size()

	// Probe for a video stream and the duration that progress fractions
	// are computed against. A machine without ffprobe still converts,
	// just with indeterminate progress.
	var duration time.Duration
	pr, err := e.probe.Probe(ctx, job.Source)
	switch {
	case err == nil:
		if !pr.HasVideo() {
			return fail(batch.ReasonUnsupportedFormat, "no video stream")
		}
		duration, _ = pr.Duration()
	case errors.Is(err, exec.ErrNotFound):
		e.log.Warn("ffprobe not found, skipping input validation", "source", job.Source)
	case errors.Is(err, context.DeadlineExceeded):
		return fail(batch.ReasonTimeout, "probing input timed out")
	case errors.Is(err, context.Canceled):
		res.Outcome = batch.OutcomeCancelled
		res.Reason = batch.ReasonCancelled
		res.Elapsed = time.Since(start)
		return res, nil
	default:
		return fail(batch.ReasonUnsupportedFormat, fmt.Sprintf("not a readable video: %v", err))
	}

	e.checkSpace(job, info.Size())

	parser := newProgressParser(duration)
	runRes, runErr := e.runner.Run(ctx, e.binary, buildArgs(job), func(line string) {
		if f, ok := parser.observe(line); ok && onProgress != nil {
			onProgress(f)
		}
	})
	res.ExitCode = runRes.ExitCode
	res.Elapsed = time.Since(start)

	if runErr != nil {
		e.removePartial(job.Dest)
		switch {
		case errors.Is(runErr, context.DeadlineExceeded):
			detail := "conversion timed out"
			if pos := parser.position(); pos != "" {
				detail = fmt.Sprintf("conversion timed out at %s", pos)
			}
			return fail(batch.ReasonTimeout, detail)
		case errors.Is(runErr, context.Canceled):
			res.Outcome = batch.OutcomeCancelled
			res.Reason = batch.ReasonCancelled
			return res, nil
		default:
			return batch.Result{}, fmt.Errorf("%w: %v", batch.ErrEngineNotAvailable, runErr)
		}
	}

	if runRes.ExitCode != 0 {
		e.removePartial(job.Dest)
		return fail(batch.ReasonEngineFailed, failDetail(runRes))
	}

	// Exit code 0 alone is not success: ffmpeg can report a clean exit
	// after writing nothing usable.
	out, err := os.Stat(job.Dest)
	if err != nil || out.Size() == 0 {
		e.removePartial(job.Dest)
		return fail(batch.ReasonCorruptOutput, "output file missing or empty")
	}

	res.OutputBytes = out.Size()
	res.Outcome = batch.OutcomeSuccess
	e.log.Debug("conversion complete",
		"source", job.Source,
		"dest", job.Dest,
		"in", humanize.IBytes(uint64(res.InputBytes)),
		"out", humanize.IBytes(uint64(res.OutputBytes)))
	return res, nil
}

// checkSpace warns when the destination volume looks too small for the
// output, sized pessimistically at the input size plus ten percent.
// Never fatal: a wrong guess must not block a convertible file.
func (e *FFmpeg) checkSpace(job batch.Job, inputBytes int64) {
	free, err := freeSpace(filepath.Dir(job.Dest))
	if err != nil {
		return
	}
	need := inputBytes + inputBytes/10
	if free < need {
		e.log.Warn("low disk space for output",
			"dest", job.Dest,
			"need", humanize.IBytes(uint64(need)),
			"free", humanize.IBytes(uint64(free)))
	}
}

// removePartial clears a half-written destination so a rerun is never
// blocked or fooled by it.
func (e *FFmpeg) removePartial(dest string) {
	if dest == "" {
		return
	}
	if err := os.Remove(dest); err != nil && !errors.Is(err, fs.ErrNotExist) {
		e.log.Warn("could not remove partial output", "dest", dest, "error", err)
	}
}

// failDetail condenses the engine's output tail to one line, skipping
// the key=value progress noise interleaved with real error text.
func failDetail(res RunResult) string {
	for i := len(res.Tail) - 1; i >= 0; i-- {
		line := strings.TrimSpace(res.Tail[i])
		if line == "" {
			continue
		}
		if strings.Contains(line, "=") && !strings.ContainsRune(line, ' ') {
			continue
		}
		return fmt.Sprintf("exit code %d: %s", res.ExitCode, line)
	}
	return fmt.Sprintf("exit code %d", res.ExitCode)
}
