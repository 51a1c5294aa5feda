package engine_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/zinojeng/mov2mp4/internal/batch"
	"github.com/zinojeng/mov2mp4/internal/engine"
	"github.com/zinojeng/mov2mp4/internal/engine/mocks"
	"github.com/zinojeng/mov2mp4/pkg/ffprobe"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testJob creates a fake MOV source on disk and a job converting it.
func testJob(t *testing.T) batch.Job {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "clip.mov")
	require.NoError(t, os.WriteFile(src, []byte("fake quicktime bytes"), 0o644))
	return batch.NewJob(src, filepath.Join(dir, "clip.mp4"), batch.PresetMedium)
}

func videoResult(durationSec float64) *ffprobe.Result {
	return &ffprobe.Result{
		Format:  ffprobe.Format{Duration: durationSec},
		Streams: []ffprobe.Stream{{CodecType: "video", CodecName: "h264"}},
	}
}

func TestFFmpeg_Convert_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	job := testJob(t)

	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().Probe(gomock.Any(), job.Source).Return(videoResult(10), nil)

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().
		Run(gomock.Any(), "ffmpeg", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, name string, args []string, onLine func(string)) (engine.RunResult, error) {
			onLine("frame=120")
			onLine("out_time=00:00:05.000000")
			onLine("progress=continue")
			require.NoError(t, os.WriteFile(job.Dest, []byte("mp4 data"), 0o644))
			onLine("progress=end")
			return engine.RunResult{}, nil
		})

	eng := engine.NewFFmpeg("ffmpeg", prober, runner, testLogger())

	var fractions []float64
	res, err := eng.Convert(context.Background(), job, func(f float64) { fractions = append(fractions, f) })
	require.NoError(t, err)

	assert.Equal(t, batch.OutcomeSuccess, res.Outcome)
	assert.True(t, res.Ok())
	assert.Equal(t, int64(20), res.InputBytes)
	assert.Equal(t, int64(8), res.OutputBytes)
	require.Len(t, fractions, 1)
	assert.InDelta(t, 0.5, fractions[0], 0.001)
}

func TestFFmpeg_Convert_NoVideoStream(t *testing.T) {
	ctrl := gomock.NewController(t)
	job := testJob(t)

	audioOnly := &ffprobe.Result{
		Streams: []ffprobe.Stream{{CodecType: "audio", CodecName: "aac"}},
	}
	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().Probe(gomock.Any(), job.Source).Return(audioOnly, nil)

	// No Run expectation: the engine must not be invoked for a file
	// that cannot produce video output.
	runner := mocks.NewMockRunner(ctrl)

	eng := engine.NewFFmpeg("ffmpeg", prober, runner, testLogger())
	res, err := eng.Convert(context.Background(), job, nil)
	require.NoError(t, err)

	assert.Equal(t, batch.OutcomeFailed, res.Outcome)
	assert.Equal(t, batch.ReasonUnsupportedFormat, res.Reason)
	assert.Equal(t, "no video stream", res.Detail)
}

func TestFFmpeg_Convert_ProbeMissingStillConverts(t *testing.T) {
	ctrl := gomock.NewController(t)
	job := testJob(t)

	notFound := fmt.Errorf("ffprobe %q: %w", job.Source, &exec.Error{Name: "ffprobe", Err: exec.ErrNotFound})
	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().Probe(gomock.Any(), job.Source).Return(nil, notFound)

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().
		Run(gomock.Any(), "ffmpeg", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, name string, args []string, onLine func(string)) (engine.RunResult, error) {
			onLine("out_time=00:00:05.000000")
			require.NoError(t, os.WriteFile(job.Dest, []byte("mp4 data"), 0o644))
			return engine.RunResult{}, nil
		})

	eng := engine.NewFFmpeg("ffmpeg", prober, runner, testLogger())

	var fractions []float64
	res, err := eng.Convert(context.Background(), job, func(f float64) { fractions = append(fractions, f) })
	require.NoError(t, err)

	assert.Equal(t, batch.OutcomeSuccess, res.Outcome)
	assert.Empty(t, fractions, "no duration means no computable fractions")
}

func TestFFmpeg_Convert_UnreadableInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	job := testJob(t)

	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().Probe(gomock.Any(), job.Source).
		Return(nil, fmt.Errorf("ffprobe %q: exit status 1", job.Source))

	runner := mocks.NewMockRunner(ctrl)

	eng := engine.NewFFmpeg("ffmpeg", prober, runner, testLogger())
	res, err := eng.Convert(context.Background(), job, nil)
	require.NoError(t, err)

	assert.Equal(t, batch.OutcomeFailed, res.Outcome)
	assert.Equal(t, batch.ReasonUnsupportedFormat, res.Reason)
	assert.Contains(t, res.Detail, "not a readable video")
}

func TestFFmpeg_Convert_EngineExit(t *testing.T) {
	ctrl := gomock.NewController(t)
	job := testJob(t)

	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().Probe(gomock.Any(), job.Source).Return(videoResult(10), nil)

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().
		Run(gomock.Any(), "ffmpeg", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, name string, args []string, onLine func(string)) (engine.RunResult, error) {
			// Engine wrote a partial file before dying.
			require.NoError(t, os.WriteFile(job.Dest, []byte("partial"), 0o644))
			return engine.RunResult{
				ExitCode: 1,
				Tail: []string{
					"frame=10",
					"Error while decoding stream #0:0: Invalid data found when processing input",
					"progress=end",
				},
			}, nil
		})

	eng := engine.NewFFmpeg("ffmpeg", prober, runner, testLogger())
	res, err := eng.Convert(context.Background(), job, nil)
	require.NoError(t, err)

	assert.Equal(t, batch.OutcomeFailed, res.Outcome)
	assert.Equal(t, batch.ReasonEngineFailed, res.Reason)
	assert.Equal(t, 1, res.ExitCode)
	assert.Contains(t, res.Detail, "exit code 1")
	assert.Contains(t, res.Detail, "Invalid data found")
	assert.NoFileExists(t, job.Dest, "partial output should be removed")
}

func TestFFmpeg_Convert_CorruptOutput(t *testing.T) {
	tests := []struct {
		name  string
		write func(t *testing.T, dest string)
	}{
		{"missing output", func(t *testing.T, dest string) {}},
		{"empty output", func(t *testing.T, dest string) {
			require.NoError(t, os.WriteFile(dest, nil, 0o644))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			job := testJob(t)

			prober := mocks.NewMockProber(ctrl)
			prober.EXPECT().Probe(gomock.Any(), job.Source).Return(videoResult(10), nil)

			runner := mocks.NewMockRunner(ctrl)
			runner.EXPECT().
				Run(gomock.Any(), "ffmpeg", gomock.Any(), gomock.Any()).
				DoAndReturn(func(ctx context.Context, name string, args []string, onLine func(string)) (engine.RunResult, error) {
					tt.write(t, job.Dest)
					return engine.RunResult{}, nil
				})

			eng := engine.NewFFmpeg("ffmpeg", prober, runner, testLogger())
			res, err := eng.Convert(context.Background(), job, nil)
			require.NoError(t, err)

			assert.Equal(t, batch.OutcomeFailed, res.Outcome)
			assert.Equal(t, batch.ReasonCorruptOutput, res.Reason)
			assert.NoFileExists(t, job.Dest)
		})
	}
}

func TestFFmpeg_Convert_Timeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	job := testJob(t)

	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().Probe(gomock.Any(), job.Source).Return(videoResult(10), nil)

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().
		Run(gomock.Any(), "ffmpeg", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, name string, args []string, onLine func(string)) (engine.RunResult, error) {
			onLine("frame= 75 fps=25 q=28.0 size= 256KiB time=00:00:03.00 bitrate= 697.4kbits/s speed=1x")
			require.NoError(t, os.WriteFile(job.Dest, []byte("partial"), 0o644))
			return engine.RunResult{}, context.DeadlineExceeded
		})

	eng := engine.NewFFmpeg("ffmpeg", prober, runner, testLogger())
	res, err := eng.Convert(context.Background(), job, nil)
	require.NoError(t, err)

	assert.Equal(t, batch.OutcomeFailed, res.Outcome)
	assert.Equal(t, batch.ReasonTimeout, res.Reason)
	assert.Contains(t, res.Detail, "timed out at 3s")
	assert.NoFileExists(t, job.Dest)
}

func TestFFmpeg_Convert_Cancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	job := testJob(t)

	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().Probe(gomock.Any(), job.Source).Return(videoResult(10), nil)

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().
		Run(gomock.Any(), "ffmpeg", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, name string, args []string, onLine func(string)) (engine.RunResult, error) {
			require.NoError(t, os.WriteFile(job.Dest, []byte("partial"), 0o644))
			return engine.RunResult{}, context.Canceled
		})

	eng := engine.NewFFmpeg("ffmpeg", prober, runner, testLogger())
	res, err := eng.Convert(context.Background(), job, nil)
	require.NoError(t, err)

	assert.Equal(t, batch.OutcomeCancelled, res.Outcome)
	assert.Equal(t, batch.ReasonCancelled, res.Reason)
	assert.NoFileExists(t, job.Dest)
}

func TestFFmpeg_Convert_CancelledWithInterruptExitStatus(t *testing.T) {
	// A real interrupted ffmpeg exits 255, which the runner reports
	// alongside the context error. That must classify as cancelled,
	// not as an engine failure with exit 255.
	ctrl := gomock.NewController(t)
	job := testJob(t)

	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().Probe(gomock.Any(), job.Source).Return(videoResult(10), nil)

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().
		Run(gomock.Any(), "ffmpeg", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, name string, args []string, onLine func(string)) (engine.RunResult, error) {
			require.NoError(t, os.WriteFile(job.Dest, []byte("partial"), 0o644))
			return engine.RunResult{
				ExitCode: 255,
				Tail:     []string{"Exiting normally, received signal 2."},
			}, context.Canceled
		})

	eng := engine.NewFFmpeg("ffmpeg", prober, runner, testLogger())
	res, err := eng.Convert(context.Background(), job, nil)
	require.NoError(t, err)

	assert.Equal(t, batch.OutcomeCancelled, res.Outcome)
	assert.Equal(t, batch.ReasonCancelled, res.Reason)
	assert.Equal(t, 255, res.ExitCode)
	assert.NoFileExists(t, job.Dest)
}

func TestFFmpeg_Convert_StartFailureAbortsBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	job := testJob(t)

	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().Probe(gomock.Any(), job.Source).Return(videoResult(10), nil)

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().
		Run(gomock.Any(), "ffmpeg", gomock.Any(), gomock.Any()).
		Return(engine.RunResult{}, &exec.Error{Name: "ffmpeg", Err: exec.ErrNotFound})

	eng := engine.NewFFmpeg("ffmpeg", prober, runner, testLogger())
	_, err := eng.Convert(context.Background(), job, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, batch.ErrEngineNotAvailable)
}

func TestFFmpeg_Convert_MissingInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	job := batch.NewJob(filepath.Join(t.TempDir(), "ghost.mov"), "ghost.mp4", batch.PresetMedium)

	eng := engine.NewFFmpeg("ffmpeg", mocks.NewMockProber(ctrl), mocks.NewMockRunner(ctrl), testLogger())
	res, err := eng.Convert(context.Background(), job, nil)
	require.NoError(t, err)

	assert.Equal(t, batch.OutcomeFailed, res.Outcome)
	assert.Equal(t, batch.ReasonInputNotFound, res.Reason)
}

func TestFFmpeg_Convert_EmptyInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "empty.mov")
	require.NoError(t, os.WriteFile(src, nil, 0o644))
	job := batch.NewJob(src, filepath.Join(dir, "empty.mp4"), batch.PresetMedium)

	eng := engine.NewFFmpeg("ffmpeg", mocks.NewMockProber(ctrl), mocks.NewMockRunner(ctrl), testLogger())
	res, err := eng.Convert(context.Background(), job, nil)
	require.NoError(t, err)

	assert.Equal(t, batch.OutcomeFailed, res.Outcome)
	assert.Equal(t, batch.ReasonUnsupportedFormat, res.Reason)
	assert.Equal(t, "file is empty", res.Detail)
}

func TestFFmpeg_Check(t *testing.T) {
	ctrl := gomock.NewController(t)

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().LookPath("ffmpeg").Return("/usr/bin/ffmpeg", nil)
	runner.EXPECT().
		Run(gomock.Any(), "ffmpeg", []string{"-version"}, gomock.Any()).
		DoAndReturn(func(ctx context.Context, name string, args []string, onLine func(string)) (engine.RunResult, error) {
			onLine("ffmpeg version 6.1.1 Copyright (c) 2000-2023 the FFmpeg developers")
			onLine("built with gcc 13")
			return engine.RunResult{}, nil
		})

	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().Version(gomock.Any()).Return("ffprobe version 6.1.1", nil)

	eng := engine.NewFFmpeg("ffmpeg", prober, runner, testLogger())
	info, err := eng.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/usr/bin/ffmpeg", info.FFmpegPath)
	assert.Contains(t, info.FFmpegVersion, "ffmpeg version 6.1.1")
	assert.Equal(t, "ffprobe version 6.1.1", info.FFprobeVersion)
}

func TestFFmpeg_Check_VersionProbeCarriesDeadline(t *testing.T) {
	ctrl := gomock.NewController(t)

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().LookPath("ffmpeg").Return("/usr/bin/ffmpeg", nil)
	runner.EXPECT().
		Run(gomock.Any(), "ffmpeg", []string{"-version"}, gomock.Any()).
		DoAndReturn(func(ctx context.Context, name string, args []string, onLine func(string)) (engine.RunResult, error) {
			deadline, ok := ctx.Deadline()
			assert.True(t, ok, "a wedged binary must not hang the preflight")
			assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
			onLine("ffmpeg version 6.1.1")
			return engine.RunResult{}, nil
		})

	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().Version(gomock.Any()).Return("ffprobe version 6.1.1", nil)

	eng := engine.NewFFmpeg("ffmpeg", prober, runner, testLogger())
	_, err := eng.Check(context.Background())
	require.NoError(t, err)
}

func TestFFmpeg_Check_MissingBinary(t *testing.T) {
	ctrl := gomock.NewController(t)

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().LookPath("ffmpeg").Return("", exec.ErrNotFound)

	eng := engine.NewFFmpeg("ffmpeg", mocks.NewMockProber(ctrl), runner, testLogger())
	_, err := eng.Check(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, batch.ErrEngineNotAvailable)
}

func TestFFmpeg_Check_NoFFprobe(t *testing.T) {
	ctrl := gomock.NewController(t)

	runner := mocks.NewMockRunner(ctrl)
	runner.EXPECT().LookPath("ffmpeg").Return("/usr/bin/ffmpeg", nil)
	runner.EXPECT().
		Run(gomock.Any(), "ffmpeg", []string{"-version"}, gomock.Any()).
		Return(engine.RunResult{}, nil)

	prober := mocks.NewMockProber(ctrl)
	prober.EXPECT().Version(gomock.Any()).Return("", exec.ErrNotFound)

	eng := engine.NewFFmpeg("ffmpeg", prober, runner, testLogger())
	info, err := eng.Check(context.Background())

	require.NoError(t, err, "missing ffprobe is a degradation, not a failure")
	assert.Empty(t, info.FFprobeVersion)
}
