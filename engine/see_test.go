package engine

import (
	"testing"

	"github.com/arcalight/corvid/board"
	"github.com/stretchr/testify/require"
)

func legalMove(t *testing.T, pos *board.Position, from, to string) board.Move {
	t.Helper()
	m, err := ParseUCIMove(pos, from+to)
	require.NoError(t, err)
	return m
}

func TestSeeWinningPawnTakesQueen(t *testing.T) {
	// White pawn on e4 can take a queen on d5 defended by nothing else.
	pos, err := board.PositionFromFEN("4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	m := legalMove(t, pos, "e4", "d5")
	require.False(t, seeSign(pos, m), "capturing an undefended queen with a pawn must not be a losing exchange")
	require.Greater(t, see(pos, m), int32(0))
}

func TestSeeLosingRookTakesDefendedPawn(t *testing.T) {
	// White rook on d1 takes a pawn on d5 that is defended by a pawn on c6.
	pos, err := board.PositionFromFEN("4k3/8/2p5/3p4/8/8/8/3RK3 w - - 0 1")
	require.NoError(t, err)

	m := legalMove(t, pos, "d1", "d5")
	require.True(t, seeSign(pos, m), "a rook capturing a pawn defended by a pawn loses material")
	require.Less(t, see(pos, m), int32(0))
}

func TestSeeEqualPawnTrade(t *testing.T) {
	// d5 pawn is defended by the c6 pawn, so e4xd5 c6xd5 is an even trade.
	pos, err := board.PositionFromFEN("4k3/8/2p5/3p4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	m := legalMove(t, pos, "e4", "d5")
	require.False(t, seeSign(pos, m))
	require.Equal(t, int32(0), see(pos, m))
}
