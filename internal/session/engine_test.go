package session

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigtools/rigpreview/internal/config"
	"github.com/rigtools/rigpreview/internal/host"
	"github.com/rigtools/rigpreview/internal/logging"
	"github.com/rigtools/rigpreview/internal/rig"
	"github.com/rigtools/rigpreview/internal/scene"
	"github.com/rigtools/rigpreview/internal/settings"
	"github.com/rigtools/rigpreview/internal/store"
)

func newEngine(t *testing.T) (*Engine, *host.Headless, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	h := host.NewHeadless()
	e, err := New(h, st, settings.New(st), config.Default(),
		logging.NewLogger("info", io.Discard), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if e.Close() != nil {
			// A test that ends mid-session still has to release the
			// one-engine guard for the next test.
			live.Store(false)
		}
	})
	return e, h, st
}

// buildScene registers SceneRoot/Rig/Tail with a spring chain on Tail and
// returns the Tail node.
func buildScene(h *host.Headless) *scene.Node {
	root := scene.NewNode("SceneRoot")
	rigNode := scene.NewNode("Rig")
	tail := scene.NewNode("Tail")
	tail.AddComponent(&rig.SpringChain{
		Gravity: 0.3, Stiffness: 1, Drag: 0.4,
		RootBones: []string{"hips", "spine"},
	})
	rigNode.AddChild(tail)
	root.AddChild(rigNode)
	h.Scenes().Add("Main", root)
	return tail
}

func cloneChain(t *testing.T, e *Engine) *rig.SpringChain {
	t.Helper()
	clone := e.CloneRoot()
	require.NotNil(t, clone)
	tail := clone.Child("Tail")
	require.NotNil(t, tail)
	sc, ok := tail.Component(rig.TypeSpringChain).(*rig.SpringChain)
	require.True(t, ok)
	return sc
}

func TestSession_FullCycleWithReload(t *testing.T) {
	ctx := context.Background()
	e, h, st := newEngine(t)
	tail := buildScene(h)

	require.NoError(t, e.Start(ctx, tail))
	assert.Equal(t, AwaitingIsolation, e.State())
	assert.False(t, e.IsActive())

	h.Step()
	require.Equal(t, Active, e.State())

	clone := e.CloneRoot()
	assert.Equal(t, "Rig (Preview)", clone.Name)
	assert.True(t, clone.Active)
	orig := h.Scenes().Scene("Main").Child("Rig")
	assert.False(t, orig.Active, "original root must be deactivated during the session")

	cloneChain(t, e).Gravity = 0.7
	require.NoError(t, e.Save(ctx))

	// Leaving simulated mode rebuilds the whole scene from scratch, with
	// the pre-session parameter values.
	h.SetReload(func(reg *scene.Registry) {
		root := scene.NewNode("SceneRoot")
		rigNode := scene.NewNode("Rig")
		rebuilt := scene.NewNode("Tail")
		rebuilt.AddComponent(&rig.SpringChain{
			Gravity: 0.3, Stiffness: 1, Drag: 0.4,
			RootBones: []string{"hips", "spine"},
		})
		rigNode.AddChild(rebuilt)
		root.AddChild(rigNode)
		reg.Add("Main", root)
	})

	require.NoError(t, e.RequestExit())
	h.Step()
	assert.Equal(t, Idle, e.State())

	after, ok := h.Scenes().Scene("Main").Child("Rig").Child("Tail").
		Component(rig.TypeSpringChain).(*rig.SpringChain)
	require.True(t, ok)
	assert.InDelta(t, 0.7, after.Gravity, 1e-9, "saved change must survive the reload")
	assert.InDelta(t, 0.4, after.Drag, 1e-9, "unchanged properties must keep their values")
	assert.True(t, h.Scenes().Scene("Main").Child("Rig").Active)
	assert.Nil(t, h.Scenes().Scene("Main").Child("Rig (Preview)"), "clone must not survive")

	pending, err := st.LoadBuffer(ctx)
	require.NoError(t, err)
	assert.Nil(t, pending, "buffer must be consumed after apply")
}

func TestSession_ExitWithoutSaveDiscardsEdits(t *testing.T) {
	ctx := context.Background()
	e, h, _ := newEngine(t)
	tail := buildScene(h)

	require.NoError(t, e.Start(ctx, tail))
	h.Step()
	require.Equal(t, Active, e.State())

	cloneChain(t, e).Gravity = 0.9

	require.NoError(t, e.RequestExit())
	h.Step()
	assert.Equal(t, Idle, e.State())

	orig, _ := h.Scenes().Scene("Main").Child("Rig").Child("Tail").
		Component(rig.TypeSpringChain).(*rig.SpringChain)
	assert.InDelta(t, 0.3, orig.Gravity, 1e-9, "unsaved edits are discarded")
	assert.True(t, h.Scenes().Scene("Main").Child("Rig").Active)
	assert.Nil(t, h.Scenes().Scene("Main").Child("Rig (Preview)"))
}

func TestSession_SaveWithinToleranceWritesNothing(t *testing.T) {
	ctx := context.Background()
	e, h, st := newEngine(t)
	tail := buildScene(h)

	require.NoError(t, e.Start(ctx, tail))
	h.Step()

	cloneChain(t, e).Gravity = 0.3 + 1e-6
	require.NoError(t, e.Save(ctx))

	pending, err := st.LoadBuffer(ctx)
	require.NoError(t, err)
	assert.Nil(t, pending, "round-off sized change must not be saved")

	require.NoError(t, e.RequestExit())
	h.Step()
}

func TestSession_UnreadableBufferLoggedOnStart(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)

	h := host.NewHeadless()
	var logBuf bytes.Buffer
	e, err := New(h, st, settings.New(st), config.Default(),
		logging.NewLogger("info", &logBuf), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if e.Close() != nil {
			live.Store(false)
		}
	})

	tail := buildScene(h)
	require.NoError(t, st.Close(), "closed store stands in for a corrupt one")

	// An unreadable buffer must not block the session, but it must leave a
	// trace rather than pass for "no buffer".
	require.NoError(t, e.Start(ctx, tail))
	assert.Contains(t, logBuf.String(), "change buffer unreadable")
}

func TestSession_EmptySaveClearsEarlierSave(t *testing.T) {
	ctx := context.Background()
	e, h, st := newEngine(t)
	tail := buildScene(h)

	require.NoError(t, e.Start(ctx, tail))
	h.Step()
	require.Equal(t, Active, e.State())

	chain := cloneChain(t, e)
	chain.Gravity = 0.7
	require.NoError(t, e.Save(ctx))

	// Reverting the edit and saving again must undo the earlier save, not
	// leave it pending: the last save represents baseline state.
	chain.Gravity = 0.3
	require.NoError(t, e.Save(ctx))

	pending, err := st.LoadBuffer(ctx)
	require.NoError(t, err)
	assert.Nil(t, pending, "reverted save must clear the buffer")

	require.NoError(t, e.RequestExit())
	h.Step()

	after, ok := h.Scenes().Scene("Main").Child("Rig").Child("Tail").
		Component(rig.TypeSpringChain).(*rig.SpringChain)
	require.True(t, ok)
	assert.InDelta(t, 0.3, after.Gravity, 1e-9, "reverted value must win on exit")
}

func TestSession_StartValidation(t *testing.T) {
	ctx := context.Background()
	e, h, _ := newEngine(t)

	assert.ErrorIs(t, e.Start(ctx, nil), ErrNoTarget)

	orphan := scene.NewNode("Orphan")
	orphan.AddComponent(&rig.SpringChain{})
	assert.ErrorIs(t, e.Start(ctx, orphan), ErrNotInScene)

	buildScene(h)
	sceneRoot := h.Scenes().Scene("Main")
	assert.ErrorIs(t, e.Start(ctx, sceneRoot), ErrNotInScene)

	bare := scene.NewNode("Bare")
	sceneRoot.AddChild(bare)
	assert.ErrorIs(t, e.Start(ctx, bare), ErrNothingTracked)

	assert.Equal(t, Idle, e.State(), "failed validation must not leave the idle state")
}

func TestSession_StartWhileActiveIsRejected(t *testing.T) {
	ctx := context.Background()
	e, h, _ := newEngine(t)
	tail := buildScene(h)

	require.NoError(t, e.Start(ctx, tail))
	assert.ErrorIs(t, e.Start(ctx, tail), ErrSessionActive)

	h.Step()
	require.Equal(t, Active, e.State())
	assert.ErrorIs(t, e.Start(ctx, tail), ErrSessionActive)

	require.NoError(t, e.RequestExit())
	h.Step()
}

func TestSession_SaveAndExitRequireActive(t *testing.T) {
	ctx := context.Background()
	e, _, _ := newEngine(t)

	assert.ErrorIs(t, e.Save(ctx), ErrNotActive)
	assert.ErrorIs(t, e.RequestExit(), ErrNotActive)
}

func TestSession_StaleBufferDiscardedOnStart(t *testing.T) {
	ctx := context.Background()
	e, h, st := newEngine(t)
	tail := buildScene(h)

	// Simulate a buffer left behind by a crash.
	require.NoError(t, st.SaveBuffer(ctx, e.origin, []byte(`{"components":[]}`)))

	require.NoError(t, e.Start(ctx, tail))
	pending, err := st.LoadBuffer(ctx)
	require.NoError(t, err)
	assert.Nil(t, pending, "stale buffer must be discarded, not applied")

	h.Step()
	require.NoError(t, e.RequestExit())
	h.Step()
}

func TestSession_IsolationFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	e, h, _ := newEngine(t)
	tail := buildScene(h)
	hook := &scene.Automation{Name: "AutoBuildOnSave", Owner: "com.example.autobuild", Enabled: true}
	h.Automations().Register(hook)

	require.NoError(t, e.Start(ctx, tail))
	// Unload the scene before the host starts the transition; isolation
	// must fail and roll everything back.
	h.Scenes().Clear()
	h.Step()

	assert.Equal(t, Idle, e.State())
	assert.True(t, hook.Enabled, "suppression must be rolled back")

	// Backing out of the in-flight enter transition takes two more turns.
	h.Step()
	h.Step()
	assert.False(t, h.InSim(), "rollback must leave simulated mode")
}

func TestSession_HookSuppression(t *testing.T) {
	ctx := context.Background()
	e, h, _ := newEngine(t)
	tail := buildScene(h)

	foreign := &scene.Automation{Name: "AutoBuildOnSave", Owner: "com.example.autobuild", Enabled: true}
	exporter := &scene.Automation{Name: "BatchExporter", Owner: "com.example.export", Enabled: true}
	own := &scene.Automation{Name: "RigGizmoDraw", Owner: "com.rigtools.gizmo", Enabled: true}
	h.Automations().Register(foreign)
	h.Automations().Register(exporter)
	h.Automations().Register(own)

	require.NoError(t, e.Start(ctx, tail))
	h.Step()
	require.Equal(t, Active, e.State())

	assert.False(t, foreign.Enabled)
	assert.False(t, exporter.Enabled)
	assert.True(t, own.Enabled, "allow-listed owners are never suppressed")

	require.NoError(t, e.RequestExit())
	h.Step()

	assert.True(t, foreign.Enabled)
	assert.True(t, exporter.Enabled)
	assert.True(t, own.Enabled)
}

func TestSession_ExporterToggleOff(t *testing.T) {
	ctx := context.Background()
	e, h, st := newEngine(t)
	tail := buildScene(h)
	require.NoError(t, settings.New(st).SetSuppressExporters(ctx, false))

	exporter := &scene.Automation{Name: "BatchExporter", Owner: "com.example.export", Enabled: true}
	h.Automations().Register(exporter)

	require.NoError(t, e.Start(ctx, tail))
	h.Step()

	assert.True(t, exporter.Enabled, "exporter family follows its toggle")

	require.NoError(t, e.RequestExit())
	h.Step()
}

func TestSession_SelectionGuardWinsOneTimeSteal(t *testing.T) {
	ctx := context.Background()
	e, h, _ := newEngine(t)
	tail := buildScene(h)

	decoy := scene.NewNode("Decoy")
	stole := false
	h.OnSelectionChanged(func(n *scene.Node) *scene.Node {
		if !stole && n != decoy {
			stole = true
			return decoy
		}
		return nil
	})

	require.NoError(t, e.Start(ctx, tail))
	h.Step()
	require.Equal(t, Active, e.State())

	// The thief won the same-turn race.
	assert.Equal(t, decoy, h.Selection())

	// The guard re-asserts on the next turn.
	h.Step()
	want := e.CloneRoot().Child("Tail")
	assert.Equal(t, want, h.Selection())

	require.NoError(t, e.RequestExit())
	h.Step()
}

func TestSession_ObjectRefChangeIsSkippedOnApply(t *testing.T) {
	ctx := context.Background()
	e, h, _ := newEngine(t)
	tail := buildScene(h)

	require.NoError(t, e.Start(ctx, tail))
	h.Step()

	sc := cloneChain(t, e)
	sc.Gravity = 0.5
	sc.ColliderGroup.ID = "colliders-01"
	require.NoError(t, e.Save(ctx))

	require.NoError(t, e.RequestExit())
	h.Step()

	after, _ := h.Scenes().Scene("Main").Child("Rig").Child("Tail").
		Component(rig.TypeSpringChain).(*rig.SpringChain)
	assert.InDelta(t, 0.5, after.Gravity, 1e-9)
	assert.Empty(t, after.ColliderGroup.ID, "object references are reported but never restored")
}

func TestSession_SliceShrinkAppliesSizeBeforeElements(t *testing.T) {
	ctx := context.Background()
	e, h, _ := newEngine(t)
	tail := buildScene(h)

	require.NoError(t, e.Start(ctx, tail))
	h.Step()

	sc := cloneChain(t, e)
	sc.RootBones = []string{"pelvis"}
	require.NoError(t, e.Save(ctx))

	require.NoError(t, e.RequestExit())
	h.Step()

	after, _ := h.Scenes().Scene("Main").Child("Rig").Child("Tail").
		Component(rig.TypeSpringChain).(*rig.SpringChain)
	assert.Equal(t, []string{"pelvis"}, after.RootBones)
}

func TestEngine_SingleInstance(t *testing.T) {
	e, h, st := newEngine(t)

	_, err := New(h, st, settings.New(st), config.Default(),
		logging.NewLogger("info", io.Discard), nil)
	assert.ErrorIs(t, err, ErrEngineExists)

	require.NoError(t, e.Close())
	e2, err := New(h, st, settings.New(st), config.Default(),
		logging.NewLogger("info", io.Discard), nil)
	require.NoError(t, err)
	require.NoError(t, e2.Close())

	// Reacquire so the fixture cleanup's Close finds a live engine.
	live.Store(true)
}
