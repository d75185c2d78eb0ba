package engine

import (
	"testing"

	"github.com/arcalight/corvid/board"
	"github.com/stretchr/testify/require"
)

func TestHashTablePutGetRoundTrip(t *testing.T) {
	pos, err := board.PositionFromFEN(board.FENStartPos)
	require.NoError(t, err)

	ht := NewHashTable(1)
	entry := hashEntry{kind: exact, score: 123, depth: 4, move: board.NullMove()}
	ht.put(pos, entry)

	got := ht.get(pos)
	require.Equal(t, entry.kind, got.kind)
	require.Equal(t, entry.score, got.score)
	require.Equal(t, entry.depth, got.depth)
}

func TestHashTableMissOnDifferentPosition(t *testing.T) {
	pos, err := board.PositionFromFEN(board.FENStartPos)
	require.NoError(t, err)
	other, err := board.PositionFromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)

	ht := NewHashTable(1)
	ht.put(pos, hashEntry{kind: exact, score: 55, depth: 2})

	got := ht.get(other)
	require.Equal(t, hashFlags(0), got.kind, "different position must not collide with a real entry")
}

func TestHashTableSameKeyAlwaysOverwrites(t *testing.T) {
	pos, err := board.PositionFromFEN(board.FENStartPos)
	require.NoError(t, err)

	ht := NewHashTable(1)
	ht.put(pos, hashEntry{kind: exact, score: 1, depth: 8})
	ht.put(pos, hashEntry{kind: failedLow, score: 2, depth: 1})

	got := ht.get(pos)
	require.EqualValues(t, 1, got.depth, "a write matching an existing entry's lock replaces it outright")
	require.EqualValues(t, 2, got.score)
	require.Equal(t, failedLow, got.kind)
}

func TestHashTableReplacementPrefersEmptySlot(t *testing.T) {
	ht := NewHashTable(1)
	lock, key0, key1 := uint32(7), uint32(3), uint32(9)
	_ = lock
	ht.table[key0] = hashEntry{}
	ht.table[key1] = hashEntry{kind: exact, depth: 5, generation: ht.generation}

	// Exercise the replacement policy directly rather than through put,
	// since put's fast path only fires on a matching lock. The switch below
	// is a copy of put's.
	a, b := &ht.table[key0], &ht.table[key1]
	entry := hashEntry{kind: exact, depth: 3}
	var target *hashEntry
	switch {
	case a.kind == 0:
		target = a
	case b.kind == 0:
		target = b
	case a.generation != ht.generation:
		target = a
	case b.generation != ht.generation:
		target = b
	case a.depth <= b.depth && a.depth < entry.depth:
		target = a
	case b.depth < a.depth && b.depth < entry.depth:
		target = b
	}
	require.Same(t, a, target, "an empty slot must be preferred over an occupied one")
}

func TestHashTableNewSearchBumpsGeneration(t *testing.T) {
	ht := NewHashTable(1)
	require.EqualValues(t, 0, ht.generation)
	ht.NewSearch()
	require.EqualValues(t, 1, ht.generation)
}

func TestHashfullPerMilleStartsAtZero(t *testing.T) {
	ht := NewHashTable(1)
	require.Equal(t, 0, ht.HashfullPerMille())
}

func TestHashTableClear(t *testing.T) {
	pos, err := board.PositionFromFEN(board.FENStartPos)
	require.NoError(t, err)

	ht := NewHashTable(1)
	ht.put(pos, hashEntry{kind: exact, score: 7, depth: 3})
	ht.Clear()

	got := ht.get(pos)
	require.Equal(t, hashFlags(0), got.kind)
}
