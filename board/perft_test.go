package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPerftStartPos(t *testing.T) {
	for depth, want := range PerftExpectedStartPos {
		pos, err := PositionFromFEN(FENStartPos)
		require.NoError(t, err)
		got := Perft(pos, depth, nil)
		require.Equal(t, want, got, "depth %d", depth)
	}
}

func TestPerftKiwipete(t *testing.T) {
	for depth, want := range PerftExpectedKiwipete {
		pos, err := PositionFromFEN(FENKiwipete)
		require.NoError(t, err)
		got := Perft(pos, depth, nil)
		require.Equal(t, want, got, "depth %d", depth)
	}
}

func TestPerftDuplain(t *testing.T) {
	for depth, want := range PerftExpectedDuplain {
		pos, err := PositionFromFEN(FENDuplain)
		require.NoError(t, err)
		got := Perft(pos, depth, nil)
		require.Equal(t, want, got, "depth %d", depth)
	}
}

func TestPerftHashTableMatchesUncached(t *testing.T) {
	pos, err := PositionFromFEN(FENStartPos)
	require.NoError(t, err)
	table := NewPerftHashTable(16)
	got := Perft(pos, 4, table)
	require.Equal(t, PerftExpectedStartPos[4], got)
}
