package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDoUndoMoveRestoresPosition(t *testing.T) {
	pos, err := PositionFromFEN(FENKiwipete)
	require.NoError(t, err)

	before := pos.String()
	beforeZobrist := pos.Zobrist()

	var moves []Move
	pos.GenerateMoves(All, &moves)
	for _, m := range moves {
		pos.DoMove(m)
		pos.UndoMove()
		require.Equal(t, before, pos.String(), "move %v", m.UCI())
		require.Equal(t, beforeZobrist, pos.Zobrist(), "move %v", m.UCI())
	}
}

func TestMateInOne(t *testing.T) {
	// Back-rank mate: Qd8 delivers checkmate, Black has no escape.
	pos, err := PositionFromFEN("6k1/5ppp/8/8/8/8/5PPP/3Q2K1 w - - 0 1")
	require.NoError(t, err)

	to, err := SquareFromString("d8")
	require.NoError(t, err)
	from, err := SquareFromString("d1")
	require.NoError(t, err)

	var found Move
	var foundOK bool
	var moves []Move
	pos.GenerateMoves(All, &moves)
	for _, m := range moves {
		if m.From == from && m.To == to {
			found, foundOK = m, true
		}
	}
	require.True(t, foundOK, "expected Qd1-d8 to be generated")
	pos.DoMove(found)
	require.True(t, pos.IsChecked(pos.SideToMove))
	require.False(t, pos.HasLegalMoves())
	pos.UndoMove()
}

func TestStalemate(t *testing.T) {
	// Classic stalemate position: Black king on h8 has no legal move and is
	// not in check.
	pos, err := PositionFromFEN("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	require.NoError(t, err)
	require.False(t, pos.IsChecked(pos.SideToMove))
	require.False(t, pos.HasLegalMoves())
}

func TestEnPassantCapture(t *testing.T) {
	pos, err := PositionFromFEN("4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1")
	require.NoError(t, err)
	require.True(t, pos.IsEnpassantSquare(SquareE3))

	var moves []Move
	pos.GenerateMoves(Violent, &moves)

	var epMove Move
	found := false
	for _, m := range moves {
		if m.MoveType == Enpassant {
			epMove = m
			found = true
		}
	}
	require.True(t, found, "expected an en-passant capture to be generated")

	pos.DoMove(epMove)
	require.Equal(t, NoPiece, pos.Get(SquareE4))
	pos.UndoMove()
	require.Equal(t, WhitePawn, pos.Get(SquareE4))
}

func TestEnPassantPinDisallowed(t *testing.T) {
	// White king h5, white pawn e5, black pawn d5 (just moved from d7),
	// black rook a5. Capturing exd6 e.p. removes both pawns from rank 5,
	// so the rook would then attack the white king along the rank.
	pos, err := PositionFromFEN("8/8/8/r2pP2K/8/8/8/4k3 w - d6 0 1")
	require.NoError(t, err)

	var moves []Move
	pos.GenerateMoves(Violent, &moves)

	for _, m := range moves {
		if m.MoveType != Enpassant {
			continue
		}
		pos.DoMove(m)
		inCheck := pos.IsChecked(pos.SideToMove.Opposite())
		pos.UndoMove()
		require.True(t, inCheck, "en-passant capture should expose the king on the rank")
	}
}

func TestCastlingThroughCheckDisallowed(t *testing.T) {
	// Black rook on e8's file? use rook attacking f1 so O-O is illegal,
	// while O-O-O remains legal.
	pos, err := PositionFromFEN("4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	require.NoError(t, err)
	// Place an attacker on f-file by putting a black rook there instead:
	pos2, err := PositionFromFEN("5r2/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	require.NoError(t, err)

	var moves []Move
	pos.GenerateMoves(Tactical, &moves)
	var castles int
	for _, m := range moves {
		if m.MoveType == Castling {
			castles++
		}
	}
	require.Equal(t, 2, castles, "both castles available with no attackers")

	moves = moves[:0]
	pos2.GenerateMoves(Tactical, &moves)
	for _, m := range moves {
		if m.MoveType == Castling {
			require.NotEqual(t, SquareG1, m.To, "O-O must be excluded: rook attacks f1, the king's transit square")
		}
	}
}

func TestPromotionChoiceGeneratesAllFourPieces(t *testing.T) {
	pos, err := PositionFromFEN("8/P6k/8/8/8/8/8/6K1 w - - 0 1")
	require.NoError(t, err)

	var moves []Move
	pos.GenerateMoves(All, &moves)

	seen := map[Figure]bool{}
	for _, m := range moves {
		if m.MoveType == Promotion {
			seen[m.Promotion().Figure()] = true
		}
	}
	require.True(t, seen[Knight])
	require.True(t, seen[Bishop])
	require.True(t, seen[Rook])
	require.True(t, seen[Queen])
}

func TestInsufficientMaterial(t *testing.T) {
	pos, err := PositionFromFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	require.True(t, pos.InsufficientMaterial())

	pos, err = PositionFromFEN("4k3/8/8/8/8/8/P7/4K3 w - - 0 1")
	require.NoError(t, err)
	require.False(t, pos.InsufficientMaterial())
}
