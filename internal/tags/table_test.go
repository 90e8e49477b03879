package tags

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable_AllUndefined(t *testing.T) {
	tbl := NewTable()

	snap := tbl.Snapshot()
	require.Len(t, snap, Count)
	for i, v := range snap {
		assert.Equal(t, i, v.ID)
		assert.Equal(t, Undefined, v.Quality, "tag %d", i)
	}
}

func TestTable_SetMarksDefined(t *testing.T) {
	tbl := NewTable()

	require.NoError(t, tbl.Set(PrintCount, 42))
	require.NoError(t, tbl.Set(Alarm, 0))

	want := []Value{
		{ID: 0},
		{ID: 1},
		{ID: 2},
		{ID: PrintCount, Value: 42, Quality: Defined},
		{ID: 4},
		{ID: 5},
		{ID: 6},
		{ID: Alarm, Value: 0, Quality: Defined},
		{ID: 8},
		{ID: 9},
		{ID: 10},
	}
	if diff := cmp.Diff(want, tbl.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestTable_SetOutOfRange(t *testing.T) {
	tbl := NewTable()

	assert.Error(t, tbl.Set(-1, 1))
	assert.Error(t, tbl.Set(Count, 1))

	_, ok := tbl.Get(Count)
	assert.False(t, ok)
}

func TestTable_SnapshotIsCopy(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Set(LiveBit, 1))

	snap := tbl.Snapshot()
	snap[LiveBit].Value = 0

	v, ok := tbl.Get(LiveBit)
	require.True(t, ok)
	assert.Equal(t, 1.0, v.Value)
}

func TestTable_Reset(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Set(RollIndexLine1, 7))

	tbl.Reset()

	v, _ := tbl.Get(RollIndexLine1)
	assert.Equal(t, Undefined, v.Quality)
	assert.Zero(t, v.Value)
}

func TestName(t *testing.T) {
	assert.Equal(t, "Printing", Name(Printing))
	assert.Equal(t, "Live bit", Name(LiveBit))
	assert.Equal(t, "", Name(99))
}
