// Package snapshot captures the full property state of every tracked
// component under a root, keyed by (relative-path, type). The capture is the
// diff baseline for a preview session and must be taken before the subtree
// is isolated, so that isolation itself can never be mistaken for an edit.
package snapshot

import (
	"log/slog"

	"github.com/rigtools/rigpreview/internal/pathres"
	"github.com/rigtools/rigpreview/internal/property"
	"github.com/rigtools/rigpreview/internal/scene"
)

// ComponentKey correlates a tracked component between two structurally
// congruent object graphs. Unique within one root's inventory; two
// same-typed components at the same structural path are undefined behavior
// (capture keeps the first and warns).
type ComponentKey struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

func (k ComponentKey) String() string { return k.Type + "@" + k.Path }

// Recorded is one captured property value with its kind tag.
type Recorded struct {
	Kind  property.Kind `json:"kind"`
	Value string        `json:"value"`
}

// PropertySnapshot maps property paths to captured values for one component.
type PropertySnapshot map[string]Recorded

// Baseline is the full capture of a root's tracked components.
type Baseline map[ComponentKey]PropertySnapshot

// Store captures baselines. Capture is pure with respect to the scene graph
// and idempotent: two captures of an unmodified root are equal.
type Store struct {
	log *slog.Logger
}

// NewStore creates a snapshot store. A nil logger falls back to slog.Default.
func NewStore(log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{log: log}
}

// Capture walks every node under root, inactive ones included, and records a
// property snapshot for each tracked component.
func (s *Store) Capture(root *scene.Node) Baseline {
	base := make(Baseline)
	if root == nil {
		return base
	}
	root.Visit(func(n *scene.Node) {
		for _, c := range n.Components() {
			if !scene.IsTracked(c.TypeName()) {
				continue
			}
			key := ComponentKey{Path: pathres.Relative(n, root), Type: c.TypeName()}
			if _, dup := base[key]; dup {
				s.log.Warn("duplicate component key, keeping first",
					"key", key.String())
				continue
			}
			base[key] = Record(c)
		}
	})
	return base
}

// Record snapshots a single component: every walker-visible property except
// unsupported kinds, serialized through the codec.
func Record(c scene.Component) PropertySnapshot {
	ps := make(PropertySnapshot)
	for _, p := range property.Walk(c) {
		if p.Kind == property.KindUnknown {
			continue
		}
		ps[p.Path] = Recorded{Kind: p.Kind, Value: property.Serialize(p.Get())}
	}
	return ps
}
