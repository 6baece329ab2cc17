// Package changeset builds and serializes the minimal list of property
// deltas between a live clone and its captured baseline. A ChangeSet is
// plain data by construction — paths, kind tags and serialized strings, no
// live references — because it must cross the host-reload boundary intact.
package changeset

import (
	"encoding/json"
	"fmt"

	"github.com/rigtools/rigpreview/internal/property"
	"github.com/rigtools/rigpreview/internal/snapshot"
)

// Entry is one changed property: path, kind, new serialized value.
type Entry struct {
	Path  string        `json:"path"`
	Kind  property.Kind `json:"kind"`
	Value string        `json:"value"`
}

// ComponentChanges groups the entries of one component.
type ComponentChanges struct {
	Key     snapshot.ComponentKey `json:"key"`
	Entries []Entry               `json:"entries"`
}

// ChangeSet is the ordered list of component changes produced by one save.
type ChangeSet struct {
	Components []ComponentChanges `json:"components"`
}

// Empty reports whether the set carries no entries at all.
func (cs ChangeSet) Empty() bool {
	for _, cc := range cs.Components {
		if len(cc.Entries) > 0 {
			return false
		}
	}
	return true
}

// Len returns the total number of change entries.
func (cs ChangeSet) Len() int {
	n := 0
	for _, cc := range cs.Components {
		n += len(cc.Entries)
	}
	return n
}

// Encode serializes the set for the durable buffer.
func (cs ChangeSet) Encode() ([]byte, error) {
	data, err := json.Marshal(cs)
	if err != nil {
		return nil, fmt.Errorf("encoding change set: %w", err)
	}
	return data, nil
}

// Decode parses a durable buffer payload back into a ChangeSet.
func Decode(data []byte) (ChangeSet, error) {
	var cs ChangeSet
	if err := json.Unmarshal(data, &cs); err != nil {
		return ChangeSet{}, fmt.Errorf("decoding change set: %w", err)
	}
	return cs, nil
}
