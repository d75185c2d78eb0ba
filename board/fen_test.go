package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFENRoundTrip(t *testing.T) {
	fens := []string{
		FENStartPos,
		FENKiwipete,
		FENDuplain,
		"8/8/8/4k3/8/4K3/8/8 w - - 0 1",
		"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
	}
	for _, fen := range fens {
		pos, err := PositionFromFEN(fen)
		require.NoError(t, err, fen)
		require.Equal(t, fen, pos.String())
	}
}

func TestFENInvalid(t *testing.T) {
	bad := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0",
		"not-a-fen",
		"8/8/8/8/8/8/8/8 x - - 0 1",
	}
	for _, fen := range bad {
		_, err := PositionFromFEN(fen)
		require.Error(t, err, fen)
	}
}

func TestSquareFromString(t *testing.T) {
	sq, err := SquareFromString("e4")
	require.NoError(t, err)
	require.Equal(t, SquareE4, sq)
	require.Equal(t, "e4", sq.String())

	_, err = SquareFromString("z9")
	require.Error(t, err)
}
