// Package rig defines the fixed set of physics-parameter component types
// the preview engine tracks: spring bone chains and their colliders. The
// engine never constructs these; the host's import pipeline attaches them
// to nodes and the engine only reads and writes their properties through
// the generic walker.
package rig

import (
	"github.com/rigtools/rigpreview/internal/property"
	"github.com/rigtools/rigpreview/internal/scene"
)

// Type identifiers. These are the stable names used in component keys and
// the durable change buffer; renaming one requires a legacy alias.
const (
	TypeSpringChain      = "rig.SpringChain"
	TypeSphereCollider   = "rig.SphereCollider"
	TypeAutoBuildTrigger = "tools.AutoBuildTrigger"
)

// UpdateMode selects when a spring chain integrates.
type UpdateMode int

const (
	UpdateNormal UpdateMode = iota
	UpdateFixed
	UpdateLate
)

// SpringChain is a verlet-style bone chain with tunable physics parameters.
type SpringChain struct {
	Comment string

	Gravity    float64
	GravityDir property.Vec3
	Stiffness  float64
	// StiffnessCurve scales stiffness along the chain, root to tip.
	StiffnessCurve property.Curve
	Drag           float64
	HitRadius      float64
	Center         property.Vec3
	RestRotation   property.Quat

	UpdateMode UpdateMode
	SimBounds  property.Bounds

	GizmoColor property.Color

	// ColliderGroup references the collider set this chain collides with.
	// Reported in change sets, never restored after a reload.
	ColliderGroup property.Ref

	RootBones []string
}

func (*SpringChain) TypeName() string { return TypeSpringChain }

// SphereCollider is one collision sphere a spring chain can hit.
type SphereCollider struct {
	Offset property.Vec3
	Radius float64
}

func (*SphereCollider) TypeName() string { return TypeSphereCollider }

// AutoBuildTrigger is a stand-in for a foreign automation component: it is
// neither tracked nor essential, so cloning strips it and its owning
// automation hooks are suppressed for the session's duration.
type AutoBuildTrigger struct {
	Target string
}

func (*AutoBuildTrigger) TypeName() string { return TypeAutoBuildTrigger }

func init() {
	scene.RegisterTracked(TypeSpringChain)
	scene.RegisterTracked(TypeSphereCollider)

	// Names these types shipped under before the rig runtime was renamed.
	scene.RegisterAlias("SpringBoneBehaviour", TypeSpringChain)
	scene.RegisterAlias("LegacySphereCollider", TypeSphereCollider)
}
