package batch

import "time"

// Exit codes reported to the shell.
const (
	ExitOK        = 0
	ExitFailures  = 1
	ExitCancelled = 130 // interrupt convention, 128+SIGINT
)

// Summary aggregates per-job results in plan order.
type Summary struct {
	Results []Result
	Elapsed time.Duration
}

// Total is the number of jobs in the batch.
func (s *Summary) Total() int {
	return len(s.Results)
}

// Count returns how many jobs finished with the given outcome.
func (s *Summary) Count(o Outcome) int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome == o {
			n++
		}
	}
	return n
}

func (s *Summary) Succeeded() int { return s.Count(OutcomeSuccess) }
func (s *Summary) Failed() int    { return s.Count(OutcomeFailed) }
func (s *Summary) Skipped() int   { return s.Count(OutcomeSkipped) }
func (s *Summary) Cancelled() int { return s.Count(OutcomeCancelled) }

// TotalInputBytes sums the source sizes of successful conversions.
func (s *Summary) TotalInputBytes() int64 {
	var n int64
	for _, r := range s.Results {
		if r.Ok() {
			n += r.InputBytes
		}
	}
	return n
}

// TotalOutputBytes sums the produced file sizes of successful conversions.
func (s *Summary) TotalOutputBytes() int64 {
	var n int64
	for _, r := range s.Results {
		if r.Ok() {
			n += r.OutputBytes
		}
	}
	return n
}

// SpaceSaved is the byte difference between sources and outputs for
// successful conversions. Negative when outputs grew.
func (s *Summary) SpaceSaved() int64 {
	return s.TotalInputBytes() - s.TotalOutputBytes()
}

// ExitCode maps the batch to a shell exit status: interrupted batches
// report the interrupt, otherwise any failure makes the run non-zero.
// Skipped jobs are not failures.
func (s *Summary) ExitCode() int {
	if s.Cancelled() > 0 {
		return ExitCancelled
	}
	if s.Failed() > 0 {
		return ExitFailures
	}
	return ExitOK
}
