package progress

// State is the lifecycle position of one conversion job.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateSuccess   State = "success"
	StateFailed    State = "failed"
	StateSkipped   State = "skipped"
	StateCancelled State = "cancelled"
)

// validTransitions defines allowed state transitions.
// Key is the "from" state, value is list of valid "to" states.
// Jobs are never retried, so terminal states have no way out.
var validTransitions = map[State][]State{
	StatePending:   {StateRunning, StateFailed, StateSkipped, StateCancelled},
	StateRunning:   {StateSuccess, StateFailed, StateCancelled},
	StateSuccess:   {},
	StateFailed:    {},
	StateSkipped:   {},
	StateCancelled: {},
}

// CanTransitionTo returns true if transitioning from s to target is valid.
func (s State) CanTransitionTo(target State) bool {
	valid, ok := validTransitions[s]
	if !ok {
		return false
	}
	for _, v := range valid {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if this state has no outgoing transitions.
func (s State) IsTerminal() bool {
	valid, ok := validTransitions[s]
	return ok && len(valid) == 0
}
