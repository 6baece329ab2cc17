package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/rigtools/rigpreview/internal/changeset"
	"github.com/rigtools/rigpreview/internal/config"
	"github.com/rigtools/rigpreview/internal/host"
	"github.com/rigtools/rigpreview/internal/logging"
	"github.com/rigtools/rigpreview/internal/pathres"
	"github.com/rigtools/rigpreview/internal/scene"
	"github.com/rigtools/rigpreview/internal/settings"
	"github.com/rigtools/rigpreview/internal/snapshot"
	"github.com/rigtools/rigpreview/internal/store"
)

var (
	// ErrEngineExists is returned when a second engine is constructed while
	// one is live. Exactly one engine may subscribe to the host lifecycle.
	ErrEngineExists = errors.New("a session engine already exists")

	ErrSessionActive  = errors.New("a preview session is already active")
	ErrNotActive      = errors.New("no active preview session")
	ErrNoTarget       = errors.New("no target node")
	ErrNotInScene     = errors.New("target is not part of a registered scene")
	ErrNothingTracked = errors.New("target subtree has no tracked components")
	ErrHostSimulating = errors.New("host is already in simulated-execution mode")
)

// live guards the one-engine invariant across the whole process.
var live atomic.Bool

// deactivatedRoot remembers one top-level root the isolation step disabled,
// addressed by scene path so reactivation survives a host reload.
type deactivatedRoot struct {
	Path      pathres.ScenePath
	WasActive bool
}

// Engine is the preview session state machine. All methods must be called
// from the host's main loop; the engine holds no locks.
type Engine struct {
	host  host.Host
	store *store.Store
	set   *settings.Settings
	cfg   *config.Config
	log   *slog.Logger
	trace *logging.SessionTrace

	snaps *snapshot.Store
	diff  *changeset.Builder

	state     State
	sessionID string

	origin      pathres.ScenePath // addresses the original preview root
	targetPath  string            // target relative to the preview root
	baseline    snapshot.Baseline
	cloneRoot   *scene.Node
	clonePath   pathres.ScenePath
	tracker     Tracker
	deactivated []deactivatedRoot
	suppressed  *scene.SuppressionRecord
}

// New constructs the engine and subscribes it to the host lifecycle. Only
// one engine may be live at a time; a second call fails with
// ErrEngineExists until Close releases the first.
func New(h host.Host, st *store.Store, set *settings.Settings, cfg *config.Config, log *slog.Logger, trace *logging.SessionTrace) (*Engine, error) {
	if !live.CompareAndSwap(false, true) {
		return nil, ErrEngineExists
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = slog.Default()
	}
	e := &Engine{
		host:  h,
		store: st,
		set:   set,
		cfg:   cfg,
		log:   log,
		trace: trace,
		snaps: snapshot.NewStore(log),
		diff:  changeset.NewBuilder(cfg.Diff.Tolerance, log),
		state: Idle,
	}
	h.Subscribe(e.onLifecycle)
	return e, nil
}

// Close releases the one-engine guard. The engine must be Idle; closing a
// live session would strand the host in simulated mode.
func (e *Engine) Close() error {
	if e.state != Idle {
		return fmt.Errorf("cannot close engine in state %s", e.state)
	}
	live.Store(false)
	return nil
}

// State returns the engine's current state.
func (e *Engine) State() State { return e.state }

// IsActive reports whether a session is editable right now.
func (e *Engine) IsActive() bool { return e.state == Active }

// SessionID returns the current session's identifier, or "" when idle.
func (e *Engine) SessionID() string { return e.sessionID }

// CloneRoot returns the live clone root, or nil outside an active session.
func (e *Engine) CloneRoot() *scene.Node { return e.cloneRoot }

// OriginalRoot re-resolves the original preview root in the current graph.
func (e *Engine) OriginalRoot() *scene.Node {
	return e.origin.Resolve(e.host.Scenes())
}

// Start begins a preview session for target. It validates the target,
// discards any stale change buffer from a previous crash, captures the
// baseline context and asks the host to enter simulated mode; isolation
// itself runs when the host confirms the transition. Starting while a
// session exists is a logged no-op error, not a restart.
func (e *Engine) Start(ctx context.Context, target *scene.Node) error {
	if e.state != Idle {
		e.log.Warn("start ignored, session in progress", "state", e.state.String())
		return ErrSessionActive
	}
	if target == nil {
		return ErrNoTarget
	}
	if e.host.InSim() {
		return ErrHostSimulating
	}

	sp, ok := pathres.Locate(target, e.host.Scenes())
	if !ok {
		return ErrNotInScene
	}
	if sp.Path == "" {
		// The scene root itself cannot be isolated.
		return ErrNotInScene
	}
	if !hasTracked(target) {
		return ErrNothingTracked
	}

	// A buffer left behind by a crashed session is stale: its origin may no
	// longer exist and silently applying it now would be surprising.
	if pending, err := e.store.LoadBuffer(ctx); err != nil {
		e.log.Error("change buffer unreadable, continuing without it", "error", err)
	} else if pending != nil {
		e.log.Warn("discarding stale change buffer",
			"origin", pending.Origin.String(), "saved_at", pending.SavedAt)
		if err := e.store.ClearBuffer(ctx); err != nil {
			return fmt.Errorf("clearing stale buffer: %w", err)
		}
	}

	sceneRoot := e.host.Scenes().Scene(sp.Scene)
	previewRoot := topLevelAncestor(target, sceneRoot)
	e.origin = pathres.ScenePath{Scene: sp.Scene, Path: pathres.Relative(previewRoot, sceneRoot)}
	e.targetPath = pathres.Relative(target, previewRoot)
	e.sessionID = uuid.NewString()

	e.setState(AwaitingIsolation)
	if err := e.host.RequestEnterSim(); err != nil {
		e.reset()
		return fmt.Errorf("requesting simulated mode: %w", err)
	}
	e.log.Info("session starting",
		"session", e.sessionID, "origin", e.origin.String())
	return nil
}

// Save diffs the clone against the baseline and persists the result to the
// durable change buffer. Each save replaces the previous one: an empty diff
// clears the buffer, so reverting every edit and saving undoes an earlier
// save instead of leaving it to apply on exit.
func (e *Engine) Save(ctx context.Context) error {
	if e.state != Active {
		return ErrNotActive
	}
	cs := e.diff.Diff(e.cloneRoot, e.baseline)
	if cs.Empty() {
		e.log.Info("no changes to save", "session", e.sessionID)
		return e.store.ClearBuffer(ctx)
	}
	payload, err := cs.Encode()
	if err != nil {
		return err
	}
	if err := e.store.SaveBuffer(ctx, e.origin, payload); err != nil {
		return err
	}
	e.log.Info("changes saved",
		"session", e.sessionID, "entries", cs.Len())
	return nil
}

// RequestExit asks the host to leave simulated mode; restoration runs when
// the host confirms. Unsaved edits on the clone are discarded by design.
func (e *Engine) RequestExit() error {
	if e.state != Active {
		return ErrNotActive
	}
	e.setState(AwaitingRestore)
	if err := e.host.RequestExitSim(); err != nil {
		e.setState(Active)
		return fmt.Errorf("requesting exit from simulated mode: %w", err)
	}
	return nil
}

// onLifecycle advances the state machine on host mode edges.
func (e *Engine) onLifecycle(edge host.Lifecycle) {
	switch edge {
	case host.WillEnterSim:
		// Isolation runs before the host is simulating: the baseline must
		// be captured while nothing can perturb property values.
		if e.state == AwaitingIsolation {
			e.isolate()
		}
	case host.DidEnterSim:
		if e.state == Isolating {
			e.setState(Active)
			e.log.Info("session active", "session", e.sessionID)
		}
	case host.WillExitSim:
		// Exit can be user-initiated through the host UI rather than
		// through RequestExit; treat both the same.
		if e.state == Active {
			e.setState(AwaitingRestore)
		}
	case host.DidExitSim:
		if e.state == AwaitingRestore {
			e.restore()
		}
	}
}

// isolate runs the isolation sequence. Any failure, panic included, rolls
// back every completed step and abandons the session; a half-isolated scene
// is worse than no session.
func (e *Engine) isolate() {
	e.setState(Isolating)
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("isolation panicked, rolling back", "panic", r)
			e.rollback()
		}
	}()
	if err := e.doIsolate(); err != nil {
		e.log.Error("isolation failed, rolling back", "error", err)
		e.rollback()
	}
}

func (e *Engine) doIsolate() error {
	ctx := context.Background()

	sceneRoot := e.host.Scenes().Scene(e.origin.Scene)
	if sceneRoot == nil {
		return fmt.Errorf("scene %q is no longer loaded", e.origin.Scene)
	}
	previewRoot := pathres.Resolve(sceneRoot, e.origin.Path)
	if previewRoot == nil {
		return fmt.Errorf("preview root %s no longer resolves", e.origin.String())
	}

	// Baseline first: isolation must never be mistaken for an edit.
	e.baseline = e.snaps.Capture(previewRoot)
	if len(e.baseline) == 0 {
		return fmt.Errorf("baseline capture found no tracked components under %s", e.origin.String())
	}

	policy := scene.SuppressPolicy{
		AllowPrefixes:      e.cfg.Suppression.AllowPrefixes,
		AutoBuildFragments: e.cfg.Suppression.AutoBuildFragments,
		ExporterFragments:  e.cfg.Suppression.ExporterFragments,
		SuppressAutoBuild:  e.set.SuppressAutoBuild(ctx),
		SuppressExporters:  e.set.SuppressExporters(ctx),
	}
	e.suppressed = e.host.Automations().Suppress(policy)
	for _, name := range e.suppressed.Names() {
		h := e.host.Automations().Find(name)
		owner := ""
		if h != nil {
			owner = h.Owner
		}
		e.trace.Suppressed(e.sessionID, name, owner)
	}
	e.log.Debug("hooks suppressed",
		"session", e.sessionID, "count", e.suppressed.Count())

	// Disable every top-level root so only the clone simulates. Recorded by
	// scene path: the nodes themselves may not survive the session.
	for _, top := range sceneRoot.Children() {
		e.deactivated = append(e.deactivated, deactivatedRoot{
			Path:      pathres.ScenePath{Scene: e.origin.Scene, Path: pathres.Relative(top, sceneRoot)},
			WasActive: top.Active,
		})
		top.Active = false
	}

	clone, stripped := scene.CloneTree(previewRoot)
	clone.Name = previewRoot.Name + " (Preview)"
	clone.Active = true
	sceneRoot.AddChild(clone)
	e.cloneRoot = clone
	e.clonePath = pathres.ScenePath{Scene: e.origin.Scene, Path: pathres.Relative(clone, sceneRoot)}
	e.log.Debug("clone built",
		"session", e.sessionID, "stripped", stripped)

	e.tracker.SetContext(previewRoot, pathres.Resolve(previewRoot, e.targetPath))
	e.tracker.SetClone(clone)
	sel := e.tracker.Target()
	if sel == nil {
		// A resolution miss falls back to the clone root; it must never
		// fail the session.
		sel = clone
	}
	e.guardSelection(sel, e.cfg.Guard.Ticks)
	return nil
}

// rollback undoes a failed isolation: suppression restored, roots
// reactivated, clone removed, host asked back out of simulated mode.
func (e *Engine) rollback() {
	e.suppressed.Restore()
	e.reactivateRoots()
	e.removeClone()
	if e.host.InSim() {
		if err := e.host.RequestExitSim(); err != nil {
			e.log.Error("rollback could not exit simulated mode", "error", err)
		}
	} else {
		// The enter transition is still in flight and cannot be cancelled;
		// back out of simulated mode on the next loop turn.
		e.host.Defer(func() {
			if e.host.InSim() {
				if err := e.host.RequestExitSim(); err != nil {
					e.log.Error("rollback could not exit simulated mode", "error", err)
				}
			}
		})
	}
	e.reset()
}

// restore runs after the host has fully left simulated mode, against
// whatever object graph now exists — the same one, or one rebuilt from
// scratch by a reload. Everything here re-resolves by path.
func (e *Engine) restore() {
	ctx := context.Background()

	e.reactivateRoots()
	e.removeClone()
	e.suppressed.Restore()

	pending, err := e.store.LoadBuffer(ctx)
	if err != nil {
		e.log.Error("loading change buffer", "error", err)
	}
	if pending != nil {
		e.applyPending(ctx, pending)
		// The buffer is one-shot: consumed on success and on failure alike,
		// so a poisoned payload cannot wedge every later session.
		if err := e.store.ClearBuffer(ctx); err != nil {
			e.log.Error("clearing change buffer", "error", err)
		}
	}

	e.log.Info("session restored", "session", e.sessionID)
	e.reset()
}

func (e *Engine) applyPending(ctx context.Context, pending *store.PendingChange) {
	cs, err := changeset.Decode(pending.Payload)
	if err != nil {
		e.log.Error("change buffer is corrupt, discarding", "error", err)
		return
	}
	originRoot := pending.Origin.Resolve(e.host.Scenes())
	if originRoot == nil {
		e.log.Warn("change buffer origin no longer resolves, discarding",
			"origin", pending.Origin.String())
		return
	}
	applied, skipped := e.apply(originRoot, cs)
	e.log.Info("changes applied",
		"session", e.sessionID, "applied", applied, "skipped", skipped)
}

func (e *Engine) reactivateRoots() {
	for _, rec := range e.deactivated {
		node := rec.Path.Resolve(e.host.Scenes())
		if node == nil {
			// Root did not survive the session; nothing to reactivate.
			e.log.Debug("deactivated root gone", "path", rec.Path.String())
			continue
		}
		node.Active = rec.WasActive
	}
	e.deactivated = nil
}

func (e *Engine) removeClone() {
	node := e.clonePath.Resolve(e.host.Scenes())
	if node == nil {
		// A reload rebuilds scenes from their saved form; the clone was
		// never saved, so after a reload there is nothing to remove.
		return
	}
	if p := node.Parent(); p != nil {
		p.RemoveChild(node)
	}
}

func (e *Engine) reset() {
	e.trace.Transition(e.sessionID, e.state.String(), Idle.String())
	e.state = Idle
	e.sessionID = ""
	e.origin = pathres.ScenePath{}
	e.targetPath = ""
	e.baseline = nil
	e.cloneRoot = nil
	e.clonePath = pathres.ScenePath{}
	e.tracker.Clear()
	e.deactivated = nil
	e.suppressed = nil
}

func (e *Engine) setState(s State) {
	e.trace.Transition(e.sessionID, e.state.String(), s.String())
	e.state = s
}

// topLevelAncestor returns the ancestor of n that sits directly under
// sceneRoot, or n itself when it already does.
func topLevelAncestor(n, sceneRoot *scene.Node) *scene.Node {
	cur := n
	for cur.Parent() != nil && cur.Parent() != sceneRoot {
		cur = cur.Parent()
	}
	return cur
}

func hasTracked(n *scene.Node) bool {
	found := false
	n.Visit(func(nd *scene.Node) {
		for _, c := range nd.Components() {
			if scene.IsTracked(c.TypeName()) {
				found = true
			}
		}
	})
	return found
}
