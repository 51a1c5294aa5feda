package main

import (
	"encoding/json"
	"io"

	"github.com/zinojeng/mov2mp4/internal/batch"
)

// jsonSummary is the machine-readable batch report for --json runs.
type jsonSummary struct {
	Total          int          `json:"total"`
	Succeeded      int          `json:"succeeded"`
	Failed         int          `json:"failed"`
	Skipped        int          `json:"skipped"`
	Cancelled      int          `json:"cancelled"`
	ElapsedSeconds float64      `json:"elapsed_seconds"`
	SpaceSaved     int64        `json:"space_saved_bytes"`
	Results        []jsonResult `json:"results"`
}

type jsonResult struct {
	Source      string `json:"source"`
	Dest        string `json:"dest,omitempty"`
	Outcome     string `json:"outcome"`
	Reason      string `json:"reason,omitempty"`
	Detail      string `json:"detail,omitempty"`
	ExitCode    int    `json:"exit_code,omitempty"`
	ElapsedMs   int64  `json:"elapsed_ms"`
	InputBytes  int64  `json:"input_bytes,omitempty"`
	OutputBytes int64  `json:"output_bytes,omitempty"`
}

func newJSONSummary(s *batch.Summary) jsonSummary {
	out := jsonSummary{
		Total:          s.Total(),
		Succeeded:      s.Succeeded(),
		Failed:         s.Failed(),
		Skipped:        s.Skipped(),
		Cancelled:      s.Cancelled(),
		ElapsedSeconds: s.Elapsed.Seconds(),
		SpaceSaved:     s.SpaceSaved(),
		Results:        make([]jsonResult, 0, len(s.Results)),
	}
	for _, r := range s.Results {
		out.Results = append(out.Results, jsonResult{
			Source:      r.Job.Source,
			Dest:        r.Job.Dest,
			Outcome:     string(r.Outcome),
			Reason:      string(r.Reason),
			Detail:      r.Detail,
			ExitCode:    r.ExitCode,
			ElapsedMs:   r.Elapsed.Milliseconds(),
			InputBytes:  r.InputBytes,
			OutputBytes: r.OutputBytes,
		})
	}
	return out
}

func printJSONSummary(w io.Writer, s *batch.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(newJSONSummary(s))
}
