package batch

import (
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/zinojeng/mov2mp4/internal/discover"
)

// PlanOptions control how discovered files are turned into jobs.
type PlanOptions struct {
	// OutputDir places every destination in one directory. Empty means
	// each output lands next to its source.
	OutputDir string

	// Preset is the quality preset applied to every job. Zero value
	// falls back to PresetMedium.
	Preset Preset

	// Overwrite converts even when the destination already exists.
	// When false such jobs are planned as skips.
	Overwrite bool
}

// Plan is an ordered batch of jobs ready for the scheduler. Jobs keep
// discovery order; inputs that could not produce a runnable job are
// still present as pre-resolved entries so the summary accounts for
// every requested input.
type Plan struct {
	Jobs  []Job
	Notes []discover.Problem
}

// Runnable counts jobs that still need the engine.
func (p *Plan) Runnable() int {
	n := 0
	for _, j := range p.Jobs {
		if !j.Resolved() {
			n++
		}
	}
	return n
}

// BuildPlan maps discovered files to conversion jobs. Two sources that
// resolve to the same destination abort the whole batch with a
// ConflictError before anything runs. Existing destinations become
// planned skips unless opts.Overwrite is set. Discovery problems ride
// along as pre-failed jobs, except empty-directory notes which carry
// no job and are kept on the plan for reporting.
func BuildPlan(files []string, problems []discover.Problem, opts PlanOptions) (*Plan, error) {
	preset := opts.Preset
	if preset == "" {
		preset = PresetMedium
	}

	plan := &Plan{Jobs: make([]Job, 0, len(files)+len(problems))}

	// Destination ownership keyed by folded path. Case-insensitive and
	// Unicode-normalized so batches stay portable across filesystems
	// that fold names differently than the host.
	owners := make(map[string][]string)

	for _, src := range files {
		dest := DestFor(src, opts.OutputDir)
		key := foldPath(dest)

		if key == foldPath(src) {
			job := NewJob(src, dest, preset)
			job.FailReason = ReasonUnsupportedFormat
			job.FailDetail = "destination would overwrite the source file"
			plan.Jobs = append(plan.Jobs, job)
			continue
		}

		owners[key] = append(owners[key], src)
		if len(owners[key]) > 1 {
			return nil, &ConflictError{Dest: dest, Sources: owners[key]}
		}

		job := NewJob(src, dest, preset)
		if !opts.Overwrite {
			if _, err := os.Stat(dest); err == nil {
				job.SkipReason = ReasonDestinationExists
			}
		}
		plan.Jobs = append(plan.Jobs, job)
	}

	for _, p := range problems {
		switch p.Reason {
		case discover.ProblemNotFound:
			job := NewJob(p.Path, "", preset)
			job.FailReason = ReasonInputNotFound
			job.FailDetail = p.Detail
			plan.Jobs = append(plan.Jobs, job)
		case discover.ProblemUnsupported:
			job := NewJob(p.Path, "", preset)
			job.FailReason = ReasonUnsupportedFormat
			job.FailDetail = p.Detail
			plan.Jobs = append(plan.Jobs, job)
		default:
			plan.Notes = append(plan.Notes, p)
		}
	}

	return plan, nil
}

func foldPath(path string) string {
	return strings.ToLower(norm.NFC.String(path))
}
