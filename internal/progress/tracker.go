// Package progress aggregates per-job conversion state into consistent
// batch-wide snapshots.
package progress

import "sync"

// Tracker is the single authority for live batch progress. Every write
// is an O(1) map update under one mutex, so conversion workers never
// wait on a consumer. Completions can never be lost or downgraded:
// only transitions permitted by the state machine are applied, and a
// stale fraction simply overwrites an older one for the same job.
type Tracker struct {
	mu    sync.Mutex
	jobs  map[string]*jobEntry
	order []string // registration order, keeps snapshots stable
}

type jobEntry struct {
	source   string
	state    State
	fraction float64 // 0..1, or -1 while unknown
}

// JobProgress is one job's position in a snapshot.
type JobProgress struct {
	ID       string
	Source   string
	State    State
	Fraction float64
}

// Snapshot is a consistent copy of the whole batch at one instant.
type Snapshot struct {
	Jobs      []JobProgress // registration order
	Total     int
	Pending   int
	Running   int
	Succeeded int
	Failed    int
	Skipped   int
	Cancelled int
	Overall   float64 // 0..1 across the batch
}

// Done reports how many jobs have reached a terminal state.
func (s Snapshot) Done() int {
	return s.Succeeded + s.Failed + s.Skipped + s.Cancelled
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{jobs: make(map[string]*jobEntry)}
}

// Add registers a job in pending state. Registering an existing ID is
// a no-op so the first registration wins.
func (t *Tracker) Add(id, source string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.jobs[id]; ok {
		return
	}
	t.jobs[id] = &jobEntry{source: source, state: StatePending, fraction: -1}
	t.order = append(t.order, id)
}

// Start moves a job to running.
func (t *Tracker) Start(id string) {
	t.transition(id, StateRunning)
}

// Resolve moves a job to a terminal state. Invalid transitions are
// dropped, so a late cancellation cannot downgrade a finished job.
func (t *Tracker) Resolve(id string, state State) {
	t.transition(id, state)
}

func (t *Tracker) transition(id string, target State) {
	t.mu.Lock()
	defer t.mu.Unlock()

	j, ok := t.jobs[id]
	if !ok || !j.state.CanTransitionTo(target) {
		return
	}
	j.state = target
	if target == StateSuccess {
		j.fraction = 1
	}
}

// Progress records the completed fraction for a running job. Values are
// clamped to [0,1]; updates for jobs not running are dropped.
func (t *Tracker) Progress(id string, fraction float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	j, ok := t.jobs[id]
	if !ok || j.state != StateRunning {
		return
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	j.fraction = fraction
}

// Snapshot returns a consistent copy of all job states and counts.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := Snapshot{Total: len(t.order)}
	var completed float64

	for _, id := range t.order {
		j := t.jobs[id]
		snap.Jobs = append(snap.Jobs, JobProgress{
			ID:       id,
			Source:   j.source,
			State:    j.state,
			Fraction: j.fraction,
		})

		switch j.state {
		case StatePending:
			snap.Pending++
		case StateRunning:
			snap.Running++
			if j.fraction > 0 {
				completed += j.fraction
			}
		case StateSuccess:
			snap.Succeeded++
			completed++
		case StateFailed:
			snap.Failed++
			completed++
		case StateSkipped:
			snap.Skipped++
			completed++
		case StateCancelled:
			snap.Cancelled++
			completed++
		}
	}

	if snap.Total > 0 {
		snap.Overall = completed / float64(snap.Total)
	}
	return snap
}
