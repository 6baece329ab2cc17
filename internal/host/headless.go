package host

import (
	"errors"

	"github.com/rigtools/rigpreview/internal/scene"
)

var (
	ErrAlreadySimulating = errors.New("host is already in simulated-execution mode")
	ErrNotSimulating     = errors.New("host is not in simulated-execution mode")
)

// Headless is a single-threaded, cooperative host for tests and the CLI.
// Step runs one loop turn: pending mode transitions first, then the
// deferred-work queue. Not safe for concurrent use; the host loop is
// single-threaded by design.
type Headless struct {
	subs      []func(Lifecycle)
	selSubs   []func(*scene.Node) *scene.Node
	inSim     bool
	pending   []Lifecycle
	deferred  []func()
	selection *scene.Node
	scenes    *scene.Registry
	autos     *scene.AutomationRegistry

	// reload, when set, models the editor's domain reload: every in-memory
	// scene object is discarded between WillExitSim and DidExitSim and the
	// world is rebuilt from scratch.
	reload func(*scene.Registry)
}

// NewHeadless creates an empty headless host.
func NewHeadless() *Headless {
	return &Headless{
		scenes: scene.NewRegistry(),
		autos:  scene.NewAutomationRegistry(),
	}
}

// SetReload installs a rebuild function that simulates the host tearing
// down and reconstructing all in-memory state when leaving simulated mode.
func (h *Headless) SetReload(rebuild func(*scene.Registry)) { h.reload = rebuild }

// OnSelectionChanged registers an external selection handler. Handlers run
// synchronously inside SetSelection, in registration order; a non-nil
// return value overrides the selection without re-running handlers. This
// models third-party editor extensions fighting over the selection within
// a single loop turn.
func (h *Headless) OnSelectionChanged(fn func(*scene.Node) *scene.Node) {
	h.selSubs = append(h.selSubs, fn)
}

func (h *Headless) Subscribe(fn func(Lifecycle)) { h.subs = append(h.subs, fn) }

func (h *Headless) InSim() bool { return h.inSim }

func (h *Headless) RequestEnterSim() error {
	if h.inSim {
		return ErrAlreadySimulating
	}
	h.pending = append(h.pending, WillEnterSim)
	return nil
}

func (h *Headless) RequestExitSim() error {
	if !h.inSim {
		return ErrNotSimulating
	}
	h.pending = append(h.pending, WillExitSim)
	return nil
}

func (h *Headless) Defer(fn func()) {
	if fn != nil {
		h.deferred = append(h.deferred, fn)
	}
}

func (h *Headless) Selection() *scene.Node { return h.selection }

func (h *Headless) SetSelection(n *scene.Node) {
	h.selection = n
	for _, fn := range h.selSubs {
		if override := fn(n); override != nil {
			h.selection = override
		}
	}
}

func (h *Headless) Scenes() *scene.Registry { return h.scenes }

func (h *Headless) Automations() *scene.AutomationRegistry { return h.autos }

// Step runs one loop turn: pending mode transitions, then every function
// deferred before this turn. Work deferred during the turn, lifecycle
// handlers included, runs on the next Step.
func (h *Headless) Step() {
	work := h.deferred
	h.deferred = nil
	pending := h.pending
	h.pending = nil
	for _, edge := range pending {
		switch edge {
		case WillEnterSim:
			h.emit(WillEnterSim)
			h.inSim = true
			h.emit(DidEnterSim)
		case WillExitSim:
			h.emit(WillExitSim)
			if h.reload != nil {
				h.scenes.Clear()
				h.selection = nil
				h.reload(h.scenes)
			}
			h.inSim = false
			h.emit(DidExitSim)
		}
	}

	for _, fn := range work {
		fn()
	}
}

func (h *Headless) emit(edge Lifecycle) {
	for _, fn := range h.subs {
		fn(edge)
	}
}
