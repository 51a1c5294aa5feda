package display

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/zinojeng/mov2mp4/internal/batch"
)

// reasonText maps machine reasons to the phrasing the summary uses.
var reasonText = map[string]string{
	string(batch.ReasonInputNotFound):     "input not found",
	string(batch.ReasonUnsupportedFormat): "unsupported format",
	string(batch.ReasonEngineFailed):      "conversion failed",
	string(batch.ReasonCorruptOutput):     "output corrupt",
	string(batch.ReasonTimeout):           "timed out",
	string(batch.ReasonCancelled):         "cancelled",
	string(batch.ReasonDestinationExists): "destination already exists",
}

// ReasonText renders a job failure reason for humans. Unknown reasons
// pass through untouched.
func ReasonText(reason string) string {
	if t, ok := reasonText[reason]; ok {
		return t
	}
	return reason
}

// PrintSummary writes the end-of-batch report: one row per job in
// discovery order, then totals.
func PrintSummary(w io.Writer, s *batch.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== CONVERSION SUMMARY ===")

	for _, r := range s.Results {
		switch r.Outcome {
		case batch.OutcomeSuccess:
			fmt.Fprintf(w, "  + %s -> %s (%s -> %s, %s)\n",
				r.Job.Source, r.Job.Dest,
				humanize.IBytes(uint64(r.InputBytes)),
				humanize.IBytes(uint64(r.OutputBytes)),
				FormatDuration(r.Elapsed))
		case batch.OutcomeFailed:
			if r.Detail != "" {
				fmt.Fprintf(w, "  x %s: %s (%s)\n", r.Job.Source, ReasonText(string(r.Reason)), r.Detail)
			} else {
				fmt.Fprintf(w, "  x %s: %s\n", r.Job.Source, ReasonText(string(r.Reason)))
			}
		case batch.OutcomeSkipped:
			fmt.Fprintf(w, "  - %s: %s\n", r.Job.Source, ReasonText(string(r.Reason)))
		case batch.OutcomeCancelled:
			fmt.Fprintf(w, "  x %s: cancelled\n", r.Job.Source)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d converted, %d failed, %d skipped", s.Succeeded(), s.Failed(), s.Skipped())
	if n := s.Cancelled(); n > 0 {
		fmt.Fprintf(w, ", %d cancelled", n)
	}
	fmt.Fprintf(w, " in %s\n", FormatDuration(s.Elapsed))

	if s.Succeeded() > 0 {
		if saved := s.SpaceSaved(); saved > 0 {
			fmt.Fprintf(w, "space saved: %s\n", humanize.IBytes(uint64(saved)))
		} else if saved < 0 {
			fmt.Fprintf(w, "space grew: %s\n", humanize.IBytes(uint64(-saved)))
		}
	}
}
