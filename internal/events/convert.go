package events

// Event type constants
const (
	EventBatchStarted  = "batch.started"
	EventBatchFinished = "batch.finished"
	EventJobStarted    = "job.started"
	EventJobProgressed = "job.progressed"
	EventJobCompleted  = "job.completed"
	EventJobFailed     = "job.failed"
	EventJobSkipped    = "job.skipped"
	EventJobCancelled  = "job.cancelled"
)

// BatchStarted is emitted once before any conversion is dispatched.
type BatchStarted struct {
	BaseEvent
	Total    int `json:"total"`
	Parallel int `json:"parallel"`
}

// JobStarted is emitted when a conversion subprocess is launched.
type JobStarted struct {
	BaseEvent
	Source string `json:"source"`
	Dest   string `json:"dest"`
}

// JobProgressed is emitted as the engine reports conversion progress.
type JobProgressed struct {
	BaseEvent
	Fraction float64 `json:"fraction"` // 0.0 - 1.0
}

// JobCompleted is emitted when a conversion finishes successfully.
type JobCompleted struct {
	BaseEvent
	Source         string  `json:"source"`
	Dest           string  `json:"dest"`
	OutputBytes    int64   `json:"output_bytes"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// JobFailed is emitted when a conversion fails.
type JobFailed struct {
	BaseEvent
	Source string `json:"source"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// JobSkipped is emitted for jobs resolved without running the engine.
type JobSkipped struct {
	BaseEvent
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// JobCancelled is emitted for jobs stopped by batch cancellation.
type JobCancelled struct {
	BaseEvent
	Source string `json:"source"`
}

// BatchFinished is emitted after the last job resolves.
type BatchFinished struct {
	BaseEvent
	Succeeded      int     `json:"succeeded"`
	Failed         int     `json:"failed"`
	Skipped        int     `json:"skipped"`
	Cancelled      int     `json:"cancelled"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}
