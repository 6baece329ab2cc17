package changeset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigtools/rigpreview/internal/property"
	"github.com/rigtools/rigpreview/internal/snapshot"
)

func sampleSet() ChangeSet {
	return ChangeSet{Components: []ComponentChanges{
		{
			Key: snapshot.ComponentKey{Path: "Spine/Tail", Type: "diff.Chain"},
			Entries: []Entry{
				{Path: "Gravity", Kind: property.KindFloat, Value: "0.7"},
				{Path: "Dir", Kind: property.KindVec3, Value: "0,-1,0"},
			},
		},
	}}
}

func TestChangeSet_EmptyAndLen(t *testing.T) {
	assert.True(t, ChangeSet{}.Empty())
	assert.Zero(t, ChangeSet{}.Len())

	// Components without entries still count as empty.
	hollow := ChangeSet{Components: []ComponentChanges{
		{Key: snapshot.ComponentKey{Path: "X", Type: "T"}},
	}}
	assert.True(t, hollow.Empty())

	cs := sampleSet()
	assert.False(t, cs.Empty())
	assert.Equal(t, 2, cs.Len())
}

func TestChangeSet_EncodeDecode(t *testing.T) {
	cs := sampleSet()

	data, err := cs.Encode()
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, cs, got)
}

func TestDecode_Corrupt(t *testing.T) {
	_, err := Decode([]byte("{components:"))
	assert.Error(t, err)
}

func TestDecode_PreservesOrder(t *testing.T) {
	cs := ChangeSet{Components: []ComponentChanges{
		{Key: snapshot.ComponentKey{Path: "A", Type: "T"}, Entries: []Entry{
			{Path: "Bones/size", Kind: property.KindArraySize, Value: "1"},
			{Path: "Bones/0", Kind: property.KindString, Value: "pelvis"},
		}},
		{Key: snapshot.ComponentKey{Path: "B", Type: "T"}, Entries: []Entry{
			{Path: "Radius", Kind: property.KindFloat, Value: "0.5"},
		}},
	}}

	data, err := cs.Encode()
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)

	// Apply depends on entry order: a size entry must stay ahead of the
	// element entries it makes addressable.
	assert.Equal(t, cs, got)
}
