package engine

import (
	"strconv"

	"github.com/zinojeng/mov2mp4/internal/batch"
)

// Fixed codec choices for every conversion. Video quality varies with
// the preset; audio is always transcoded to AAC at a constant bitrate.
const (
	videoCodec   = "libx264"
	audioCodec   = "aac"
	audioBitrate = "128k"
)

// buildArgs assembles the full ffmpeg argument list for one job.
// -movflags +faststart relocates the moov atom so outputs start
// playing before they finish downloading; -progress pipe:1 streams
// machine-readable progress on stdout.
func buildArgs(job batch.Job) []string {
	return []string{
		"-hide_banner", "-nostdin",
		"-loglevel", "error",
		"-y",
		"-progress", "pipe:1",
		"-stats_period", "0.5",
		"-i", job.Source,
		"-c:v", videoCodec,
		"-crf", strconv.Itoa(job.Preset.CRF()),
		"-preset", job.Preset.Speed(),
		"-c:a", audioCodec,
		"-b:a", audioBitrate,
		"-movflags", "+faststart",
		job.Dest,
	}
}
