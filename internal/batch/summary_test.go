package batch

import "testing"

func summaryOf(outcomes ...Outcome) *Summary {
	s := &Summary{}
	for _, o := range outcomes {
		s.Results = append(s.Results, Result{Outcome: o})
	}
	return s
}

func TestSummary_Counts(t *testing.T) {
	s := summaryOf(OutcomeSuccess, OutcomeSuccess, OutcomeFailed, OutcomeSkipped, OutcomeCancelled)

	if s.Total() != 5 {
		t.Errorf("Total() = %d, want 5", s.Total())
	}
	if s.Succeeded() != 2 {
		t.Errorf("Succeeded() = %d, want 2", s.Succeeded())
	}
	if s.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", s.Failed())
	}
	if s.Skipped() != 1 {
		t.Errorf("Skipped() = %d, want 1", s.Skipped())
	}
	if s.Cancelled() != 1 {
		t.Errorf("Cancelled() = %d, want 1", s.Cancelled())
	}
}

func TestSummary_ExitCode(t *testing.T) {
	tests := []struct {
		name     string
		outcomes []Outcome
		want     int
	}{
		{"empty batch", nil, ExitOK},
		{"all success", []Outcome{OutcomeSuccess, OutcomeSuccess}, ExitOK},
		{"skips are not failures", []Outcome{OutcomeSuccess, OutcomeSkipped}, ExitOK},
		{"one failure", []Outcome{OutcomeSuccess, OutcomeFailed}, ExitFailures},
		{"cancelled", []Outcome{OutcomeSuccess, OutcomeCancelled}, ExitCancelled},
		{"cancelled outranks failure", []Outcome{OutcomeFailed, OutcomeCancelled}, ExitCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summaryOf(tt.outcomes...).ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSummary_SpaceSaved(t *testing.T) {
	s := &Summary{Results: []Result{
		{Outcome: OutcomeSuccess, InputBytes: 1000, OutputBytes: 400},
		{Outcome: OutcomeSuccess, InputBytes: 2000, OutputBytes: 900},
		// Failed jobs contribute nothing even with sizes recorded.
		{Outcome: OutcomeFailed, InputBytes: 5000, OutputBytes: 100},
	}}

	if got := s.TotalInputBytes(); got != 3000 {
		t.Errorf("TotalInputBytes() = %d, want 3000", got)
	}
	if got := s.TotalOutputBytes(); got != 1300 {
		t.Errorf("TotalOutputBytes() = %d, want 1300", got)
	}
	if got := s.SpaceSaved(); got != 1700 {
		t.Errorf("SpaceSaved() = %d, want 1700", got)
	}
}

func TestSummary_SpaceSavedNegativeWhenOutputGrows(t *testing.T) {
	s := &Summary{Results: []Result{
		{Outcome: OutcomeSuccess, InputBytes: 100, OutputBytes: 250},
	}}
	if got := s.SpaceSaved(); got != -150 {
		t.Errorf("SpaceSaved() = %d, want -150", got)
	}
}
