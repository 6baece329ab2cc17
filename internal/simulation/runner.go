package simulation

import (
	"context"
	"io"
	"testing"

	"github.com/rigtools/rigpreview/internal/config"
	"github.com/rigtools/rigpreview/internal/host"
	"github.com/rigtools/rigpreview/internal/logging"
	"github.com/rigtools/rigpreview/internal/pathres"
	"github.com/rigtools/rigpreview/internal/scene"
	"github.com/rigtools/rigpreview/internal/session"
	"github.com/rigtools/rigpreview/internal/settings"
	"github.com/rigtools/rigpreview/internal/store"
)

// Runner orchestrates preview-session experiments against a real engine,
// headless host and SQLite store.
type Runner struct {
	t      *testing.T
	host   *host.Headless
	store  *store.Store
	set    *settings.Settings
	engine *session.Engine
}

// NewRunner creates a runner with an isolated store and a fresh headless
// host. The engine is closed and the store released when the test ends.
func NewRunner(t *testing.T) *Runner {
	t.Helper()

	st, err := store.Open(t.TempDir())
	if err != nil {
		t.Fatalf("NewRunner: opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	h := host.NewHeadless()
	set := settings.New(st)
	eng, err := session.New(h, st, set, config.Default(),
		logging.NewLogger("info", io.Discard), nil)
	if err != nil {
		t.Fatalf("NewRunner: creating engine: %v", err)
	}

	r := &Runner{t: t, host: h, store: st, set: set, engine: eng}
	t.Cleanup(func() {
		r.drainSession()
		if err := eng.Close(); err != nil {
			t.Errorf("NewRunner cleanup: %v", err)
		}
	})
	return r
}

// Host returns the headless host for direct manipulation mid-scenario.
func (r *Runner) Host() *host.Headless { return r.host }

// Engine returns the live session engine.
func (r *Runner) Engine() *session.Engine { return r.engine }

// Settings returns the persisted settings bound to the runner's store.
func (r *Runner) Settings() *settings.Settings { return r.set }

// Run executes the scenario: build the scene, register hooks, start a
// session on the target, edit the clone, optionally save, then exit.
func (r *Runner) Run(sc Scenario) Result {
	r.t.Helper()
	ctx := context.Background()

	root := sc.BuildScene()
	r.host.Scenes().Add("Main", root)
	for _, hk := range sc.Hooks {
		r.host.Automations().Register(hk)
	}

	target := pathres.Resolve(root, sc.TargetPath)
	if target == nil {
		r.t.Fatalf("%s: target path %q does not resolve", sc.Name, sc.TargetPath)
	}

	if err := r.engine.Start(ctx, target); err != nil {
		r.t.Fatalf("%s: Start: %v", sc.Name, err)
	}
	r.host.Step()
	if !r.engine.IsActive() {
		r.t.Fatalf("%s: session did not become active (state %s)", sc.Name, r.engine.State())
	}

	if sc.Edit != nil {
		sc.Edit(r.engine.CloneRoot())
	}
	if sc.Save {
		if err := r.engine.Save(ctx); err != nil {
			r.t.Fatalf("%s: Save: %v", sc.Name, err)
		}
	}

	if sc.ReloadOnExit {
		r.host.SetReload(func(reg *scene.Registry) {
			reg.Add("Main", sc.BuildScene())
		})
	}

	if !sc.SkipExit {
		if err := r.engine.RequestExit(); err != nil {
			r.t.Fatalf("%s: RequestExit: %v", sc.Name, err)
		}
		r.host.Step()
		if got := r.engine.State(); got != session.Idle {
			r.t.Fatalf("%s: state after exit = %s, want idle", sc.Name, got)
		}
	}

	return Result{
		Host:   r.host,
		Engine: r.engine,
		Store:  r.store,
		Scene:  r.host.Scenes().Scene("Main"),
	}
}

// drainSession walks a possibly mid-flight session back to idle so the
// engine can close even when a test bailed out early.
func (r *Runner) drainSession() {
	for i := 0; i < 4 && r.engine.State() != session.Idle; i++ {
		if r.engine.IsActive() {
			_ = r.engine.RequestExit()
		}
		r.host.Step()
	}
}
