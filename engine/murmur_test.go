package engine

import (
	"testing"

	"github.com/arcalight/corvid/board"
	"github.com/stretchr/testify/require"
)

func TestMurmurMixIsDeterministic(t *testing.T) {
	a := murmurMix(123, murmurSeed[board.White])
	b := murmurMix(123, murmurSeed[board.White])
	require.Equal(t, a, b)
}

func TestMurmurMixDistinguishesSeeds(t *testing.T) {
	k := uint64(0xdeadbeef)
	require.NotEqual(t, murmurMix(k, murmurSeed[board.White]), murmurMix(k, murmurSeed[board.Black]))
}

func TestMoveHashKeyDistinguishesDistinctMoves(t *testing.T) {
	pos, err := board.PositionFromFEN(board.FENStartPos)
	require.NoError(t, err)

	e4 := legalMove(t, pos, "e2", "e4")
	d4 := legalMove(t, pos, "d2", "d4")
	require.NotEqual(t, moveHashKey(e4), moveHashKey(d4))
}

func TestHistoryHashWithinTableBounds(t *testing.T) {
	pos, err := board.PositionFromFEN(board.FENStartPos)
	require.NoError(t, err)

	for _, m := range pos.LegalMoves() {
		h := historyHash(m)
		require.Less(t, h, uint32(1024))
	}
}
