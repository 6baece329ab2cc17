// Package session implements the preview session engine: a state machine
// synchronized to the host's simulated-execution lifecycle that isolates a
// rig subtree into an editable clone, diffs the clone against a pre-isolation
// baseline on save, and re-applies the saved changes to the original after
// the host leaves simulated mode — even when leaving it rebuilds every
// in-memory object.
package session

// State is the engine's position in the session lifecycle. Transitions are
// driven exclusively by engine calls and host lifecycle edges; there is no
// timer anywhere in the machine.
type State int

const (
	// Idle: no session. The only state Start accepts.
	Idle State = iota
	// AwaitingIsolation: enter-sim requested, waiting for the host to
	// confirm the mode switch.
	AwaitingIsolation
	// Isolating: inside the isolation sequence. Transient; observable only
	// from within the sequence itself.
	Isolating
	// Active: clone built, selection moved, session editable.
	Active
	// AwaitingRestore: exit-sim underway, waiting for the host to finish so
	// restoration can run against the post-exit object graph.
	AwaitingRestore
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingIsolation:
		return "awaiting-isolation"
	case Isolating:
		return "isolating"
	case Active:
		return "active"
	case AwaitingRestore:
		return "awaiting-restore"
	default:
		return "unknown"
	}
}
