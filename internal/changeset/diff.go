package changeset

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/rigtools/rigpreview/internal/pathres"
	"github.com/rigtools/rigpreview/internal/property"
	"github.com/rigtools/rigpreview/internal/scene"
	"github.com/rigtools/rigpreview/internal/snapshot"
)

// DefaultTolerance is the absolute float tolerance used to ignore
// serialization round-off. Chosen empirically; anything a user would notice
// on a physics parameter is orders of magnitude larger.
const DefaultTolerance = 1e-4

// Builder diffs a clone against a baseline. Diff never mutates either graph.
type Builder struct {
	tolerance float64
	log       *slog.Logger
}

// NewBuilder creates a diff builder. A tolerance <= 0 selects
// DefaultTolerance; a nil logger falls back to slog.Default.
func NewBuilder(tolerance float64, log *slog.Logger) *Builder {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if log == nil {
		log = slog.Default()
	}
	return &Builder{tolerance: tolerance, log: log}
}

// Diff walks every tracked component under cloneRoot, looks up its baseline
// snapshot by ComponentKey, and emits an Entry for each property whose
// current value differs beyond the equality rules: absolute tolerance for
// numeric kinds, exact string equality for everything else. A component
// missing from the baseline (added after capture) is logged and skipped; a
// single unmatched component never fails the save.
func (b *Builder) Diff(cloneRoot *scene.Node, baseline snapshot.Baseline) ChangeSet {
	var cs ChangeSet
	if cloneRoot == nil {
		return cs
	}
	cloneRoot.Visit(func(n *scene.Node) {
		for _, c := range n.Components() {
			if !scene.IsTracked(c.TypeName()) {
				continue
			}
			key := snapshot.ComponentKey{
				Path: pathres.Relative(n, cloneRoot),
				Type: c.TypeName(),
			}
			base, ok := baseline[key]
			if !ok {
				b.log.Warn("component not in baseline, skipping",
					"key", key.String())
				continue
			}
			entries := b.diffComponent(c, base)
			if len(entries) > 0 {
				cs.Components = append(cs.Components, ComponentChanges{
					Key:     key,
					Entries: entries,
				})
			}
		}
	})
	return cs
}

func (b *Builder) diffComponent(c scene.Component, base snapshot.PropertySnapshot) []Entry {
	var entries []Entry
	for _, p := range property.Walk(c) {
		if p.Kind == property.KindUnknown {
			continue
		}
		rec, ok := base[p.Path]
		if !ok {
			// Version drift: the property did not exist at capture time.
			b.log.Debug("property not in baseline, skipping",
				"type", c.TypeName(), "path", p.Path)
			continue
		}
		cur := property.Serialize(p.Get())
		if b.equal(p.Kind, rec.Value, cur) {
			continue
		}
		entries = append(entries, Entry{Path: p.Path, Kind: p.Kind, Value: cur})
	}
	return entries
}

// equal applies the kind-specific comparison rules.
func (b *Builder) equal(k property.Kind, old, cur string) bool {
	if old == cur {
		return true
	}
	if !k.Numeric() {
		return false
	}
	oldFs, okOld := parseFloats(old)
	curFs, okCur := parseFloats(cur)
	if !okOld || !okCur || len(oldFs) != len(curFs) {
		return false
	}
	for i := range oldFs {
		if math.Abs(oldFs[i]-curFs[i]) > b.tolerance {
			return false
		}
	}
	return true
}

func parseFloats(s string) ([]float64, bool) {
	parts := strings.Split(s, ",")
	fs := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, false
		}
		fs[i] = f
	}
	return fs, true
}
