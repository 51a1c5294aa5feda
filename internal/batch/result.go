package batch

import "time"

// Outcome is the terminal disposition of one job.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailed    Outcome = "failed"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeCancelled Outcome = "cancelled"
)

// Reason classifies non-success outcomes.
type Reason string

const (
	ReasonInputNotFound     Reason = "input_not_found"
	ReasonUnsupportedFormat Reason = "unsupported_format"
	ReasonEngineFailed      Reason = "engine_failed"
	ReasonCorruptOutput     Reason = "corrupt_output"
	ReasonTimeout           Reason = "timeout"
	ReasonCancelled         Reason = "cancelled"
	ReasonDestinationExists Reason = "destination_exists"
)

// Result is the immutable record of one finished job. Failures are
// values here, never errors: a broken input file is an answer, not an
// exception.
type Result struct {
	Job         Job
	Outcome     Outcome
	Reason      Reason // empty on success
	Detail      string // diagnostics, e.g. the engine's stderr tail
	ExitCode    int    // engine exit code, 0 when the engine never ran
	Elapsed     time.Duration
	InputBytes  int64
	OutputBytes int64
}

// Ok reports whether the job produced a usable output.
func (r Result) Ok() bool {
	return r.Outcome == OutcomeSuccess
}
