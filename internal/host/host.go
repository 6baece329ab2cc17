// Package host abstracts the editor environment the session engine runs in:
// the four simulated-execution lifecycle signals, a next-tick deferral
// queue, the current selection, and the registries of loaded scenes and
// automation hooks. The real editor provides this; the Headless
// implementation drives the same contract for tests and the CLI.
package host

import "github.com/rigtools/rigpreview/internal/scene"

// Lifecycle is one of the four edges of the host's simulated-execution
// mode transition. The session engine drives its state machine purely from
// these edges.
type Lifecycle int

const (
	WillEnterSim Lifecycle = iota
	DidEnterSim
	WillExitSim
	DidExitSim
)

func (l Lifecycle) String() string {
	switch l {
	case WillEnterSim:
		return "will-enter-sim"
	case DidEnterSim:
		return "did-enter-sim"
	case WillExitSim:
		return "will-exit-sim"
	case DidExitSim:
		return "did-exit-sim"
	default:
		return "unknown"
	}
}

// Host is the editor environment seen by the engine. All methods are called
// from the host's single main loop; implementations need no locking for
// engine traffic.
type Host interface {
	// Subscribe registers a lifecycle listener. Listeners run in
	// subscription order, synchronously with the transition.
	Subscribe(fn func(Lifecycle))

	// RequestEnterSim asks the host to enter simulated-execution mode on a
	// later loop turn. Fails when already simulating.
	RequestEnterSim() error

	// RequestExitSim asks the host to leave simulated-execution mode on a
	// later loop turn. Fails when not simulating.
	RequestExitSim() error

	// InSim reports whether the host is in simulated-execution mode.
	InSim() bool

	// Defer schedules fn for the next loop turn. Ordering is guaranteed
	// within one turn only; across turns, unrelated handlers interleave
	// arbitrarily.
	Defer(fn func())

	// Selection returns the currently selected node, or nil.
	Selection() *scene.Node

	// SetSelection changes the selection. External selection handlers may
	// observe and override it within the same turn.
	SetSelection(n *scene.Node)

	// Scenes returns the registry of loaded scenes.
	Scenes() *scene.Registry

	// Automations returns the registry of automation hooks.
	Automations() *scene.AutomationRegistry
}
