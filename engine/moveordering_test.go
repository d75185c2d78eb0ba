package engine

import (
	"testing"

	"github.com/arcalight/corvid/board"
	"github.com/stretchr/testify/require"
)

func TestHistoryTableAccumulatesAndEvicts(t *testing.T) {
	pos, err := board.PositionFromFEN(board.FENStartPos)
	require.NoError(t, err)

	m1 := legalMove(t, pos, "e2", "e4")
	m2 := legalMove(t, pos, "d2", "d4")

	ht := &historyTable{}
	require.EqualValues(t, 0, ht.get(m1))

	ht.add(m1, 16)
	ht.add(m1, 16)
	require.EqualValues(t, 32, ht.get(m1))

	// If m2 happens to hash to the same slot as m1, the newer add evicts
	// the old entry outright rather than accumulating into it.
	ht.add(m2, 5)
	if historyHash(m1) == historyHash(m2) {
		require.EqualValues(t, 5, ht.get(m2))
		require.EqualValues(t, 0, ht.get(m1))
	} else {
		require.EqualValues(t, 5, ht.get(m2))
		require.EqualValues(t, 32, ht.get(m1))
	}
}

func TestStackPopMoveReturnsHashMoveFirst(t *testing.T) {
	pos, err := board.PositionFromFEN(board.FENStartPos)
	require.NoError(t, err)

	st := newStack()
	st.Reset(pos)

	hash := legalMove(t, pos, "e2", "e4")
	st.GenerateMoves(board.All, hash)

	require.Equal(t, hash, st.PopMove(), "the hash move must be returned before anything else")
}

func TestStackPopMoveExhaustsAllLegalMoves(t *testing.T) {
	pos, err := board.PositionFromFEN(board.FENStartPos)
	require.NoError(t, err)

	st := newStack()
	st.Reset(pos)
	st.GenerateMoves(board.All, board.NullMove())

	seen := map[board.Move]bool{}
	for m := st.PopMove(); m != board.NullMove(); m = st.PopMove() {
		seen[m] = true
	}

	for _, m := range pos.LegalMoves() {
		require.True(t, seen[m], "every legal move must eventually be returned")
	}
}

func TestStackSaveKillerIsRecalledAsKiller(t *testing.T) {
	pos, err := board.PositionFromFEN(board.FENStartPos)
	require.NoError(t, err)

	st := newStack()
	st.Reset(pos)
	st.GenerateMoves(board.All, board.NullMove())

	quiet := legalMove(t, pos, "g1", "f3")
	require.True(t, quiet.IsQuiet())

	st.SaveKiller(quiet)
	require.True(t, st.IsKiller(quiet))
}
