// Package game runs scripted scenarios against a battle field.
package game

// State is where a session is in its lifecycle.
type State int

const (
	// StateSetup - units and deck not placed yet
	StateSetup State = iota
	// StateRunning - steps are being applied
	StateRunning
	// StateVictory - no enemy units remain
	StateVictory
	// StateDefeat - no player units remain
	StateDefeat
	// StateUnresolved - the script ran out with both sides standing
	StateUnresolved
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateRunning:
		return "running"
	case StateVictory:
		return "victory"
	case StateDefeat:
		return "defeat"
	case StateUnresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Done reports whether the session has finished.
func (s State) Done() bool {
	return s >= StateVictory
}
