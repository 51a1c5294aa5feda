package batch

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// OutExt is the container extension every conversion produces.
const OutExt = ".mp4"

// Job binds one source file to its destination and encoder settings.
// Jobs are immutable once the plan is built.
type Job struct {
	ID     string
	Source string
	Dest   string
	Preset Preset

	// Filled at plan time for jobs that never reach the engine.
	SkipReason Reason
	FailReason Reason
	FailDetail string
}

// NewJob creates a dispatchable job with a fresh ID.
func NewJob(source, dest string, preset Preset) Job {
	return Job{
		ID:     uuid.NewString(),
		Source: source,
		Dest:   dest,
		Preset: preset,
	}
}

// Resolved reports whether the job's outcome was decided at plan time.
func (j Job) Resolved() bool {
	return j.SkipReason != "" || j.FailReason != ""
}

// DestFor computes the destination for source: the same base name with
// OutExt, placed in outputDir when set, otherwise alongside the source.
func DestFor(source, outputDir string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + OutExt
	if outputDir != "" {
		return filepath.Join(outputDir, base)
	}
	return filepath.Join(filepath.Dir(source), base)
}
