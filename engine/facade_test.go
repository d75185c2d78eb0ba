package engine

import (
	"testing"
	"time"

	"github.com/arcalight/corvid/board"
	"github.com/stretchr/testify/require"
)

func TestFacadeMateInOne(t *testing.T) {
	f := NewFacade(NulLogger{}, Options{HashSizeMB: 16})
	req := AnalyzeRequest{
		ID:    "t1",
		FEN:   "6k1/5ppp/8/8/8/8/5PPP/4Q1K1 w - - 0 1",
		Limit: SearchLimit{Kind: "depth", Depth: 4},
	}

	var infos []SearchInfo
	best, err := f.Analyze(req, func(info SearchInfo) { infos = append(infos, info) })
	require.NoError(t, err)
	require.Equal(t, "e1e8", best.Best)
	require.NotEmpty(t, infos)
	last := infos[len(infos)-1]
	require.Equal(t, "mate", last.Score.Kind)
	require.EqualValues(t, 1, last.Score.Value)
}

func TestFacadeStalemateHasNoBestMove(t *testing.T) {
	f := NewFacade(NulLogger{}, Options{HashSizeMB: 16})
	req := AnalyzeRequest{
		ID:    "t2",
		FEN:   "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
		Limit: SearchLimit{Kind: "depth", Depth: 4},
	}

	var infos []SearchInfo
	best, err := f.Analyze(req, func(info SearchInfo) { infos = append(infos, info) })
	require.NoError(t, err)
	require.Empty(t, best.Best)
	require.Len(t, infos, 1)
	require.Equal(t, "cp", infos[0].Score.Kind)
	require.EqualValues(t, 0, infos[0].Score.Value)
}

func TestFacadeEnPassantPinIsNotOfferedAsLegal(t *testing.T) {
	pos := mustParsePosition(t, "8/8/8/KPp4r/8/8/8/6k1 w - c6 0 1")
	_, err := ParseUCIMove(pos, "b5c6")
	require.Error(t, err, "capturing en passant here would expose the king to the rook on the rank")
}

func TestFacadeCastlingThroughCheckIsNotOfferedAsLegal(t *testing.T) {
	pos := mustParsePosition(t, "r3k2r/8/8/8/8/8/4r3/4K2R w K - 0 1")
	_, err := ParseUCIMove(pos, "e1g1")
	require.Error(t, err, "the rook on e2 gives check to the king on e1, so castling out of check is illegal")
}

func TestFacadePromotionChoiceOffersAllFourPieces(t *testing.T) {
	pos := mustParsePosition(t, "8/P7/8/8/8/8/8/4k2K w - - 0 1")
	for _, letter := range []byte{'n', 'b', 'r', 'q'} {
		_, err := ParseUCIMove(pos, "a7a8"+string(letter))
		require.NoError(t, err, "promotion to %q must be offered", string(letter))
	}

	promotions := 0
	for _, m := range pos.LegalMoves() {
		if m.MoveType == board.Promotion {
			promotions++
		}
	}
	require.Equal(t, 4, promotions, "a7a8 must promote to exactly the four non-king, non-pawn pieces")
}

func TestFacadeStopIsResponsiveWithin50ms(t *testing.T) {
	f := NewFacade(NulLogger{}, Options{HashSizeMB: 16})
	req := AnalyzeRequest{
		ID:    "t3",
		FEN:   "startpos",
		Limit: SearchLimit{Kind: "infinite"},
	}

	done := make(chan struct{})
	go func() {
		_, _ = f.Analyze(req, nil)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	start := time.Now()
	f.Stop()

	select {
	case <-done:
	case <-time.After(50 * time.Millisecond):
		t.Fatal("Stop did not cause Analyze to return within 50ms")
	}
	require.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestFacadeDeterministicAtFixedDepth(t *testing.T) {
	req := AnalyzeRequest{
		ID:    "t4",
		FEN:   "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		Limit: SearchLimit{Kind: "depth", Depth: 4},
	}

	f1 := NewFacade(NulLogger{}, Options{HashSizeMB: 16})
	best1, err := f1.Analyze(req, nil)
	require.NoError(t, err)

	f2 := NewFacade(NulLogger{}, Options{HashSizeMB: 16})
	best2, err := f2.Analyze(req, nil)
	require.NoError(t, err)

	require.Equal(t, best1.Best, best2.Best, "a fresh engine given the same fixed-depth request must pick the same move")
}

func TestFacadeRejectsConcurrentAnalyze(t *testing.T) {
	f := NewFacade(NulLogger{}, Options{HashSizeMB: 16})
	req := AnalyzeRequest{ID: "t5", FEN: "startpos", Limit: SearchLimit{Kind: "infinite"}}

	done := make(chan struct{})
	go func() {
		_, _ = f.Analyze(req, nil)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)

	_, err := f.Analyze(req, nil)
	require.Error(t, err)

	f.Stop()
	<-done
}

func mustParsePosition(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.PositionFromFEN(fen)
	require.NoError(t, err)
	return pos
}
