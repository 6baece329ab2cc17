package simulation

import (
	"github.com/rigtools/rigpreview/internal/host"
	"github.com/rigtools/rigpreview/internal/scene"
	"github.com/rigtools/rigpreview/internal/session"
	"github.com/rigtools/rigpreview/internal/store"
)

// Scenario defines one complete preview-session experiment.
type Scenario struct {
	Name string

	// BuildScene constructs the scene registered as "Main". When
	// ReloadOnExit is set it is called a second time to rebuild the world,
	// the way a host domain reload does.
	BuildScene func() *scene.Node

	// TargetPath addresses the session target under the scene root.
	TargetPath string

	// Hooks are automation hooks registered before the session starts.
	Hooks []*scene.Automation

	// Edit mutates the live clone while the session is active.
	Edit func(clone *scene.Node)

	// Save persists the clone's changes before exiting.
	Save bool

	// ReloadOnExit discards and rebuilds every in-memory scene object
	// between the will-exit and did-exit edges.
	ReloadOnExit bool

	// SkipExit leaves the session active; the test drives the rest itself.
	SkipExit bool
}

// Result captures the world state after the scenario ran.
type Result struct {
	Host   *host.Headless
	Engine *session.Engine
	Store  *store.Store

	// Scene is the "Main" scene root as it stands after the scenario —
	// the rebuilt one when ReloadOnExit was set.
	Scene *scene.Node
}
