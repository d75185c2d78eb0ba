package engine

import (
	"testing"

	"github.com/arcalight/corvid/board"
	"github.com/stretchr/testify/require"
)

func evalFEN(t *testing.T, fen string) int32 {
	t.Helper()
	pos, err := board.PositionFromFEN(fen)
	require.NoError(t, err)
	return Evaluate(pos, &PawnCache{})
}

func TestEvaluateStartPositionIsBalanced(t *testing.T) {
	require.EqualValues(t, 0, evalFEN(t, board.FENStartPos))
}

func TestEvaluateMaterialAdvantageFavorsWhite(t *testing.T) {
	// White has an extra queen, otherwise bare kings.
	score := evalFEN(t, "4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.Greater(t, score, int32(0))
}

func TestEvaluateMaterialAdvantageFavorsBlack(t *testing.T) {
	// Black has an extra queen, otherwise bare kings.
	score := evalFEN(t, "3qk3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.Less(t, score, int32(0))
}

func TestEvaluateRookVsMinorFavorsRookSide(t *testing.T) {
	score := evalFEN(t, "4k1n1/8/8/8/8/8/8/3RK3 w - - 0 1")
	require.Greater(t, score, int32(0))
}

func TestPawnCacheReusesScoreForSamePawnStructure(t *testing.T) {
	pos, err := board.PositionFromFEN(board.FENStartPos)
	require.NoError(t, err)

	pc := &PawnCache{}
	w1, b1 := pc.Load(pos)
	w2, b2 := pc.Load(pos)
	require.Equal(t, w1, w2)
	require.Equal(t, b1, b2)
}
