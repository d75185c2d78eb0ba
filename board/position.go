package board

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kinds of moves GenerateMoves can be asked to produce.
const (
	// Quiet: no capture, no castling, no promotion.
	Quiet int = 1 << iota
	// Tactical: castling and underpromotions (including captures).
	Tactical
	// Violent: captures and queen promotions.
	Violent
	// All moves.
	All = Quiet | Tactical | Violent
)

// lostCastleRights[sq] is the castling rights lost when a piece moves to or
// from sq (the rook/king home squares).
var lostCastleRights [64]Castle

func init() {
	lostCastleRights[SquareA1] = WhiteOOO
	lostCastleRights[SquareE1] = WhiteOOO | WhiteOO
	lostCastleRights[SquareH1] = WhiteOO
	lostCastleRights[SquareA8] = BlackOOO
	lostCastleRights[SquareE8] = BlackOOO | BlackOO
	lostCastleRights[SquareH8] = BlackOO
}

// state is per-ply position state that cannot be cheaply recovered when
// undoing a move: castling rights, en-passant square, the irreversible-move
// marker, the Zobrist key, the move that was played to reach this ply, and
// the half-move clock from before that move.
type state struct {
	CastlingAbility Castle
	EnpassantSquare [2]Square // [0] = polyglot (only if capturable), [1] = FEN
	IrreversiblePly int
	Zobrist         uint64
	Move            Move
	HalfMoveClock   int // half-move clock before Move was played
}

// Position encodes a chess board and the state needed to make and unmake
// moves on it.
type Position struct {
	ByFigure   [FigureArraySize]Bitboard
	ByColor    [ColorArraySize]Bitboard
	SideToMove Color

	HalfMoveClock  int
	FullMoveNumber int
	Ply            int

	states []state
	curr   *state
}

// NewPosition returns an empty position (use PositionFromFEN to populate).
func NewPosition() *Position {
	pos := &Position{
		HalfMoveClock:  0,
		FullMoveNumber: 1,
		states:         make([]state, 1),
	}
	pos.curr = &pos.states[pos.Ply]
	return pos
}

// PositionFromFEN parses a position out of Forsyth-Edwards Notation.
// http://en.wikipedia.org/wiki/Forsyth%E2%80%93Edwards_Notation
func PositionFromFEN(fen string) (*Position, error) {
	f, p := [6]string{}, 0
	for i := 0; i < len(fen); {
		for ; i < len(fen) && fen[i] == ' '; i++ {
		}
		start := i
		for ; i < len(fen) && fen[i] != ' '; i++ {
		}
		limit := i
		if start == limit {
			continue
		}
		if p >= len(f) {
			return nil, errors.Errorf("fen %q has too many fields", fen)
		}
		f[p] = fen[start:limit]
		p++
	}
	if p < len(f) {
		return nil, errors.Errorf("fen %q has too few fields", fen)
	}

	pos := NewPosition()
	if err := parsePiecePlacement(f[0], pos); err != nil {
		return nil, errors.Wrap(err, "piece placement")
	}
	if err := parseSideToMove(f[1], pos); err != nil {
		return nil, errors.Wrap(err, "side to move")
	}
	if err := parseCastlingAbility(f[2], pos); err != nil {
		return nil, errors.Wrap(err, "castling ability")
	}
	if err := parseEnpassantSquare(f[3], pos); err != nil {
		return nil, errors.Wrap(err, "en passant square")
	}
	var err error
	if pos.HalfMoveClock, err = parseNonNegativeInt(f[4]); err != nil {
		return nil, errors.Wrap(err, "half-move clock")
	}
	if pos.FullMoveNumber, err = parseNonNegativeInt(f[5]); err != nil {
		return nil, errors.Wrap(err, "full-move number")
	}
	return pos, nil
}

// String returns the position in FEN. For a human-readable board use
// DebugBoard.
func (pos *Position) String() string {
	s := formatPiecePlacement(pos)
	s += " " + formatSideToMove(pos)
	s += " " + formatCastlingAbility(pos)
	s += " " + formatEnpassantSquare(pos)
	s += " " + fmt.Sprint(pos.HalfMoveClock)
	s += " " + fmt.Sprint(pos.FullMoveNumber)
	return s
}

func (pos *Position) prev() *state {
	return &pos.states[pos.Ply-1]
}

func (pos *Position) popState() {
	pos.states = pos.states[:pos.Ply]
	pos.Ply--
	pos.curr = &pos.states[pos.Ply]
}

func (pos *Position) pushState() {
	pos.states = append(pos.states, pos.states[pos.Ply])
	pos.Ply++
	pos.curr = &pos.states[pos.Ply]
}

// IsEnpassantSquare reports whether sq is the current en-passant target.
func (pos *Position) IsEnpassantSquare(sq Square) bool {
	return sq != SquareA1 && sq == pos.EnpassantSquare()
}

// EnpassantSquare returns the current en-passant target square, or SquareA1
// if none.
func (pos *Position) EnpassantSquare() Square {
	return pos.curr.EnpassantSquare[1]
}

// CastlingAbility returns the current castling rights.
func (pos *Position) CastlingAbility() Castle {
	return pos.curr.CastlingAbility
}

// Zobrist returns the Zobrist hash of the position.
func (pos *Position) Zobrist() uint64 {
	return pos.curr.Zobrist
}

// Sides returns the side to move and its opponent.
func (pos *Position) Sides() (Color, Color) {
	return pos.SideToMove, pos.SideToMove.Opposite()
}

// NumPieces returns the total number of pieces still on the board.
func (pos *Position) NumPieces() int {
	return (pos.ByColor[White] | pos.ByColor[Black]).Popcnt()
}

// NumNonPawns returns the number of minor and major pieces col controls.
func (pos *Position) NumNonPawns(col Color) int {
	return pos.MinorsAndMajors(col).Popcnt()
}

// HasNonPawns reports whether col has at least one minor or major piece.
func (pos *Position) HasNonPawns(col Color) bool {
	return pos.MinorsAndMajors(col) != 0
}

// MinorsAndMajors returns the bitboard of col's knights/bishops/rooks/queens.
func (pos *Position) MinorsAndMajors(col Color) Bitboard {
	return pos.ByColor[col] &^ pos.ByFigure[Pawn] &^ pos.ByFigure[King]
}

// InsufficientMaterial reports whether neither side has enough material to
// deliver mate (K vs K, K vs K+N, K vs K+B, K+B vs K+B same-color bishops).
func (pos *Position) InsufficientMaterial() bool {
	if pos.ByFigure[Pawn]|pos.ByFigure[Rook]|pos.ByFigure[Queen] != 0 {
		return false
	}
	minors := pos.ByFigure[Knight] | pos.ByFigure[Bishop]
	if minors.Popcnt() <= 1 {
		return true
	}
	if pos.ByFigure[Knight] == 0 && minors == minors&BbWhiteSquares {
		return true
	}
	if pos.ByFigure[Knight] == 0 && minors == minors&BbBlackSquares {
		return true
	}
	return false
}

// FiftyMoveRule reports whether the fifty-move (no capture/pawn-move) rule
// allows a draw claim.
func (pos *Position) FiftyMoveRule() bool {
	return pos.HalfMoveClock >= 100
}

// Verify checks internal consistency of the position; used in tests and
// debug assertions.
func (pos *Position) Verify() error {
	if bb := pos.ByColor[White] & pos.ByColor[Black]; bb != 0 {
		sq := bb.Pop()
		return errors.Errorf("square %v is both White and Black", sq)
	}
	for col := ColorMinValue; col <= ColorMaxValue; col++ {
		bb := pos.ByPiece(col, King)
		sq := bb.Pop()
		if bb != 0 {
			sq2 := bb.Pop()
			return errors.Errorf("more than one King for %v at %v and %v", col, sq, sq2)
		}
	}
	for col := ColorMinValue; col <= ColorMaxValue; col++ {
		for bb := pos.ByColor[col]; bb != 0; {
			sq := bb.Pop()
			pi := pos.Get(sq)
			if pi.Color() != col {
				return errors.Errorf("expected color %v at %v, got %v", col, sq, pi)
			}
		}
	}
	for pi1 := PieceMinValue; pi1 <= PieceMaxValue; pi1++ {
		for pi2 := pi1 + 1; pi2 <= PieceMaxValue; pi2++ {
			if pos.ByPiece(pi1.Color(), pi1.Figure())&pos.ByPiece(pi2.Color(), pi2.Figure()) != 0 {
				return errors.Errorf("%v and %v overlap", pi1, pi2)
			}
		}
	}
	return nil
}

// SetCastlingAbility updates castling rights, keeping the Zobrist key in
// sync.
func (pos *Position) SetCastlingAbility(castle Castle) {
	if pos.curr.CastlingAbility == castle {
		return
	}
	pos.curr.Zobrist ^= ZobristCastle[pos.curr.CastlingAbility]
	pos.curr.CastlingAbility = castle
	pos.curr.Zobrist ^= ZobristCastle[pos.curr.CastlingAbility]
}

// SetSideToMove updates the side to move, keeping the Zobrist key in sync.
func (pos *Position) SetSideToMove(col Color) {
	pos.curr.Zobrist ^= ZobristColor[pos.SideToMove]
	pos.SideToMove = col
	pos.curr.Zobrist ^= ZobristColor[pos.SideToMove]
}

// SetEnpassantSquare updates the en-passant target square, keeping the
// Zobrist key in sync (polyglot semantics: the hash only changes when the
// square is actually capturable next move).
func (pos *Position) SetEnpassantSquare(sq Square) {
	if sq == pos.curr.EnpassantSquare[1] {
		return
	}

	pos.curr.Zobrist ^= ZobristEnpassant[pos.curr.EnpassantSquare[0]]
	pos.curr.EnpassantSquare[0] = sq
	pos.curr.EnpassantSquare[1] = sq

	if sq != SquareA1 {
		var theirs Bitboard
		if sq.Rank() == 2 {
			theirs, sq = pos.ByPiece(Black, Pawn), RankFile(3, sq.File())
		} else if sq.Rank() == 5 {
			theirs, sq = pos.ByPiece(White, Pawn), RankFile(4, sq.File())
		} else {
			panic("bad en passant square")
		}

		if (sq.File() == 0 || !theirs.Has(sq-1)) && (sq.File() == 7 || !theirs.Has(sq+1)) {
			pos.curr.EnpassantSquare[0] = SquareA1
		}
	}

	pos.curr.Zobrist ^= ZobristEnpassant[pos.curr.EnpassantSquare[0]]
}

// ByPiece returns the bitboard of col's fig pieces.
func (pos *Position) ByPiece(col Color, fig Figure) Bitboard {
	return pos.ByColor[col] & pos.ByFigure[fig]
}

// Put places pi on sq. No-op for NoPiece; does not validate the input.
func (pos *Position) Put(sq Square, pi Piece) {
	if pi != NoPiece {
		pos.curr.Zobrist ^= ZobristPiece[pi][sq]
		bb := sq.Bitboard()
		pos.ByColor[pi.Color()] |= bb
		pos.ByFigure[pi.Figure()] |= bb
	}
}

// Remove clears pi from sq. No-op for NoPiece; does not validate the input.
func (pos *Position) Remove(sq Square, pi Piece) {
	if pi != NoPiece {
		pos.curr.Zobrist ^= ZobristPiece[pi][sq]
		bb := ^sq.Bitboard()
		pos.ByColor[pi.Color()] &= bb
		pos.ByFigure[pi.Figure()] &= bb
	}
}

// IsEmpty reports whether sq is unoccupied.
func (pos *Position) IsEmpty(sq Square) bool {
	return (pos.ByColor[White]|pos.ByColor[Black])>>sq&1 == 0
}

// Get returns the piece occupying sq, or NoPiece.
func (pos *Position) Get(sq Square) Piece {
	var col Color
	if pos.ByColor[White].Has(sq) {
		col = White
	} else if pos.ByColor[Black].Has(sq) {
		col = Black
	} else {
		return NoPiece
	}
	for fig := FigureMinValue; fig <= FigureMaxValue; fig++ {
		if pos.ByFigure[fig].Has(sq) {
			return ColorFigure(col, fig)
		}
	}
	panic("unreachable: square marked occupied but no figure found")
}

// KnightMobility returns the squares a knight on sq attacks.
func (pos *Position) KnightMobility(sq Square) Bitboard {
	return BbKnightAttack[sq]
}

// BishopMobility returns the squares a bishop on sq attacks given occupancy.
func (pos *Position) BishopMobility(sq Square, all Bitboard) Bitboard {
	return BishopMagic[sq].Attack(all)
}

// RookMobility returns the squares a rook on sq attacks given occupancy.
func (pos *Position) RookMobility(sq Square, all Bitboard) Bitboard {
	return RookMagic[sq].Attack(all)
}

// QueenMobility returns the squares a queen on sq attacks given occupancy.
func (pos *Position) QueenMobility(sq Square, all Bitboard) Bitboard {
	return RookMagic[sq].Attack(all) | BishopMagic[sq].Attack(all)
}

// KingMobility returns the squares a king on sq attacks, excluding castling.
func (pos *Position) KingMobility(sq Square) Bitboard {
	return BbKingAttack[sq]
}

// IsThreeFoldRepetition reports whether the current position has occurred
// three times since the last irreversible move, counting only plies where
// the same side was to move.
func (pos *Position) IsThreeFoldRepetition() bool {
	if pos.Ply-pos.curr.IrreversiblePly < 4 {
		return false
	}
	c, z := 0, pos.Zobrist()
	for i := pos.Ply; i >= pos.curr.IrreversiblePly; i -= 2 {
		if pos.states[i].Zobrist == z {
			if c++; c == 3 {
				return true
			}
		}
	}
	return false
}

// IsChecked reports whether side's king is attacked.
func (pos *Position) IsChecked(side Color) bool {
	kingSq := pos.ByPiece(side, King).AsSquare()
	return pos.GetAttacker(kingSq, side.Opposite()) != NoFigure
}

// DebugBoard renders an 8x8 text dump of the position, for test failures
// and interactive debugging. The comma marks the en-passant square.
func (pos *Position) DebugBoard() string {
	s := fmt.Sprintf("zobrist = %d\nfen = %s\n", pos.Zobrist(), pos.String())
	for r := 7; r >= 0; r-- {
		line := ""
		for f := 0; f < 8; f++ {
			sq := RankFile(r, f)
			if pos.IsEnpassantSquare(sq) {
				line += ","
			} else {
				line += pos.Get(sq).String()
			}
		}
		if r == 7 && pos.SideToMove == Black {
			line += " *"
		}
		if r == 0 && pos.SideToMove == White {
			line += " *"
		}
		s += line + "\n"
	}
	return s
}

// DoMove plays move, which must be pseudo-legal for the current position.
func (pos *Position) DoMove(move Move) {
	pos.pushState()
	pos.curr.Move = move
	pos.curr.HalfMoveClock = pos.HalfMoveClock

	pi := move.Piece()
	if pi != NoPiece {
		pos.SetCastlingAbility(pos.prev().CastlingAbility &^ lostCastleRights[move.From] &^ lostCastleRights[move.To])
	}
	if move.Capture != NoPiece || pi.Figure() == Pawn {
		pos.curr.IrreversiblePly = pos.Ply
	}
	if move.MoveType == Castling {
		rook, start, end := CastlingRook(move.To)
		pos.Remove(start, rook)
		pos.Put(end, rook)
	}
	if pi.Figure() == Pawn &&
		move.From.Bitboard()&BbPawnStartRank != 0 &&
		move.To.Bitboard()&BbPawnDoubleRank != 0 {
		pos.SetEnpassantSquare((move.From + move.To) / 2)
	} else {
		pos.SetEnpassantSquare(SquareA1)
	}

	pos.Remove(move.From, pi)
	pos.Remove(move.CaptureSquare(), move.Capture)
	pos.Put(move.To, move.Target)
	pos.SetSideToMove(pos.SideToMove.Opposite())

	if pi.Figure() == Pawn || move.Capture != NoPiece {
		pos.HalfMoveClock = 0
	} else {
		pos.HalfMoveClock++
	}
	if pos.SideToMove == White {
		pos.FullMoveNumber++
	}
}

// UndoMove takes back the last move played with DoMove.
func (pos *Position) UndoMove() {
	move := pos.curr.Move

	pos.SetSideToMove(pos.SideToMove.Opposite())
	if pos.SideToMove == Black {
		pos.FullMoveNumber--
	}

	pi := move.Piece()
	pos.Put(move.From, pi)
	pos.Remove(move.To, move.Target)
	pos.Put(move.CaptureSquare(), move.Capture)

	if move.MoveType == Castling {
		rook, start, end := CastlingRook(move.To)
		pos.Put(start, rook)
		pos.Remove(end, rook)
	}

	pos.HalfMoveClock = pos.curr.HalfMoveClock
	pos.popState()
}

// PawnThreats returns the squares threatened by side's pawns.
func (pos *Position) PawnThreats(side Color) Bitboard {
	pawns := Forward(side, pos.ByPiece(side, Pawn))
	return West(pawns) | East(pawns)
}

func (pos *Position) genPawnPromotions(kind int, moves *[]Move) {
	if kind&(Violent|Tactical) == 0 {
		return
	}

	pMin, pMax := Queen, Rook
	if kind&Violent != 0 {
		pMax = Queen
	}
	if kind&Tactical != 0 {
		pMin = Knight
	}

	us := pos.SideToMove
	them := us.Opposite()

	all := pos.ByColor[White] | pos.ByColor[Black]
	ours := pos.ByPiece(us, Pawn)
	theirs := pos.ByColor[them]

	var forward Square
	if us == White {
		ours &= BbRank7
		forward = RankFile(+1, 0)
	} else {
		ours &= BbRank2
		forward = RankFile(-1, 0)
	}

	for ours != 0 {
		from := ours.Pop()
		to := from + forward

		if !all.Has(to) {
			for p := pMin; p <= pMax; p++ {
				*moves = append(*moves, MakeMove(Promotion, from, to, NoPiece, ColorFigure(us, p)))
			}
		}
		if to.File() != 0 && theirs.Has(to-1) {
			capt := pos.Get(to - 1)
			for p := pMin; p <= pMax; p++ {
				*moves = append(*moves, MakeMove(Promotion, from, to-1, capt, ColorFigure(us, p)))
			}
		}
		if to.File() != 7 && theirs.Has(to+1) {
			capt := pos.Get(to + 1)
			for p := pMin; p <= pMax; p++ {
				*moves = append(*moves, MakeMove(Promotion, from, to+1, capt, ColorFigure(us, p)))
			}
		}
	}
}

// genPawnAdvanceMoves generates single-square pawn pushes (no promotions).
func (pos *Position) genPawnAdvanceMoves(kind int, moves *[]Move) {
	if kind&Quiet == 0 {
		return
	}

	ours := pos.ByPiece(pos.SideToMove, Pawn)
	occu := pos.ByColor[White] | pos.ByColor[Black]
	pawn := ColorFigure(pos.SideToMove, Pawn)

	var forward Square
	if pos.SideToMove == White {
		ours = ours &^ South(occu) &^ BbRank7
		forward = RankFile(+1, 0)
	} else {
		ours = ours &^ North(occu) &^ BbRank2
		forward = RankFile(-1, 0)
	}

	for ours != 0 {
		from := ours.Pop()
		to := from + forward
		*moves = append(*moves, MakeMove(Normal, from, to, NoPiece, pawn))
	}
}

// genPawnDoubleAdvanceMoves generates two-square pawn pushes.
func (pos *Position) genPawnDoubleAdvanceMoves(kind int, moves *[]Move) {
	if kind&Quiet == 0 {
		return
	}

	ours := pos.ByPiece(pos.SideToMove, Pawn)
	occu := pos.ByColor[White] | pos.ByColor[Black]
	pawn := ColorFigure(pos.SideToMove, Pawn)

	var forward Square
	if pos.SideToMove == White {
		ours &= RankBb(1) &^ South(occu) &^ South(South(occu))
		forward = RankFile(+2, 0)
	} else {
		ours &= RankBb(6) &^ North(occu) &^ North(North(occu))
		forward = RankFile(-2, 0)
	}

	for ours != 0 {
		from := ours.Pop()
		to := from + forward
		*moves = append(*moves, MakeMove(Normal, from, to, NoPiece, pawn))
	}
}

func (pos *Position) pawnCapture(to Square) (MoveType, Piece) {
	if pos.IsEnpassantSquare(to) {
		return Enpassant, ColorFigure(pos.SideToMove.Opposite(), Pawn)
	}
	return Normal, pos.Get(to)
}

// genPawnAttackMoves generates pawn captures, including en-passant (no
// promotions).
func (pos *Position) genPawnAttackMoves(kind int, moves *[]Move) {
	if kind&Violent == 0 {
		return
	}

	theirs := pos.ByColor[pos.SideToMove.Opposite()]
	if pos.curr.EnpassantSquare[0] != SquareA1 {
		theirs |= pos.curr.EnpassantSquare[0].Bitboard()
	}

	forward := 0
	pawn := ColorFigure(pos.SideToMove, Pawn)
	ours := pos.ByPiece(pos.SideToMove, Pawn)
	if pos.SideToMove == White {
		ours = ours &^ BbRank7
		theirs = South(theirs)
		forward = +1
	} else {
		ours = ours &^ BbRank2
		theirs = North(theirs)
		forward = -1
	}

	att := RankFile(forward, -1)
	for bbl := ours & East(theirs); bbl > 0; {
		from := bbl.Pop()
		to := from + att
		mt, capt := pos.pawnCapture(to)
		*moves = append(*moves, MakeMove(mt, from, to, capt, pawn))
	}

	att = RankFile(forward, +1)
	for bbr := ours & West(theirs); bbr > 0; {
		from := bbr.Pop()
		to := from + att
		mt, capt := pos.pawnCapture(to)
		*moves = append(*moves, MakeMove(mt, from, to, capt, pawn))
	}
}

func (pos *Position) genBitboardMoves(pi Piece, from Square, att Bitboard, moves *[]Move) {
	for att != 0 {
		to := att.Pop()
		*moves = append(*moves, MakeMove(Normal, from, to, pos.Get(to), pi))
	}
}

func (pos *Position) getMask(kind int) Bitboard {
	mask := Bitboard(0)
	if kind&Violent != 0 {
		mask |= pos.ByColor[pos.SideToMove.Opposite()]
	}
	if kind&Quiet != 0 {
		mask |= ^(pos.ByColor[White] | pos.ByColor[Black])
	}
	return mask
}

func (pos *Position) genKnightMoves(kind int, moves *[]Move) {
	mask := pos.getMask(kind)
	pi := ColorFigure(pos.SideToMove, Knight)
	for bb := pos.ByPiece(pos.SideToMove, Knight); bb != 0; {
		from := bb.Pop()
		att := BbKnightAttack[from] & mask
		pos.genBitboardMoves(pi, from, att, moves)
	}
}

func (pos *Position) genBishopMoves(fig Figure, kind int, moves *[]Move) {
	mask := pos.getMask(kind)
	pi := ColorFigure(pos.SideToMove, fig)
	ref := pos.ByColor[White] | pos.ByColor[Black]
	for bb := pos.ByPiece(pos.SideToMove, fig); bb != 0; {
		from := bb.Pop()
		att := BishopMagic[from].Attack(ref) & mask
		pos.genBitboardMoves(pi, from, att, moves)
	}
}

func (pos *Position) genRookMoves(fig Figure, kind int, moves *[]Move) {
	mask := pos.getMask(kind)
	pi := ColorFigure(pos.SideToMove, fig)
	ref := pos.ByColor[White] | pos.ByColor[Black]
	for bb := pos.ByPiece(pos.SideToMove, fig); bb != 0; {
		from := bb.Pop()
		att := RookMagic[from].Attack(ref) & mask
		pos.genBitboardMoves(pi, from, att, moves)
	}
}

func (pos *Position) genKingMovesNear(kind int, moves *[]Move) {
	mask := pos.getMask(kind)
	pi := ColorFigure(pos.SideToMove, King)
	from := pos.ByPiece(pos.SideToMove, King).AsSquare()
	att := BbKingAttack[from] & mask
	pos.genBitboardMoves(pi, from, att, moves)
}

func (pos *Position) genKingCastles(kind int, moves *[]Move) {
	if kind&Tactical == 0 {
		return
	}

	rank := pos.SideToMove.KingHomeRank()
	oo, ooo := WhiteOO, WhiteOOO
	if pos.SideToMove == Black {
		oo, ooo = BlackOO, BlackOOO
	}
	other := pos.SideToMove.Opposite()

	if pos.curr.CastlingAbility&oo != 0 {
		r5, r6 := RankFile(rank, 5), RankFile(rank, 6)
		if pos.IsEmpty(r5) && pos.IsEmpty(r6) {
			r4 := RankFile(rank, 4)
			if pos.GetAttacker(r4, other) == NoFigure &&
				pos.GetAttacker(r5, other) == NoFigure &&
				pos.GetAttacker(r6, other) == NoFigure {
				*moves = append(*moves, MakeMove(Castling, r4, r6, NoPiece, ColorFigure(pos.SideToMove, King)))
			}
		}
	}

	if pos.curr.CastlingAbility&ooo != 0 {
		r3, r2, r1 := RankFile(rank, 3), RankFile(rank, 2), RankFile(rank, 1)
		if pos.IsEmpty(r3) && pos.IsEmpty(r2) && pos.IsEmpty(r1) {
			r4 := RankFile(rank, 4)
			if pos.GetAttacker(r4, other) == NoFigure &&
				pos.GetAttacker(r3, other) == NoFigure &&
				pos.GetAttacker(r2, other) == NoFigure {
				*moves = append(*moves, MakeMove(Castling, r4, r2, NoPiece, ColorFigure(pos.SideToMove, King)))
			}
		}
	}
}

// GetAttacker returns the smallest figure of color them that attacks sq, or
// NoFigure.
func (pos *Position) GetAttacker(sq Square, them Color) Figure {
	enemy := pos.ByColor[them]
	if enemy&BbPawnAttack[sq]&pos.ByFigure[Pawn] != 0 {
		if att := sq.Bitboard() & pos.PawnThreats(them); att != 0 {
			return Pawn
		}
	}
	if enemy&BbKnightAttack[sq]&pos.ByFigure[Knight] != 0 {
		return Knight
	}
	if enemy&BbSuperAttack[sq]&^pos.ByFigure[Pawn] == 0 {
		return NoFigure
	}
	all := pos.ByColor[White] | pos.ByColor[Black]
	bishop := pos.BishopMobility(sq, all)
	if enemy&pos.ByFigure[Bishop]&bishop != 0 {
		return Bishop
	}
	rook := pos.RookMobility(sq, all)
	if enemy&pos.ByFigure[Rook]&rook != 0 {
		return Rook
	}
	if enemy&pos.ByFigure[Queen]&(bishop|rook) != 0 {
		return Queen
	}
	if enemy&BbKingAttack[sq]&pos.ByFigure[King] != 0 {
		return King
	}
	return NoFigure
}

// GenerateMoves appends to moves every pseudo-legal move of kind available
// to the side to move. Pseudo-legal means the king may be left in check;
// use LegalMoves, or filter with DoMove+IsChecked, before playing one.
func (pos *Position) GenerateMoves(kind int, moves *[]Move) {
	// Move order here matters for search move-ordering heuristics further
	// up the stack (later quiet moves get reduced more); this order was
	// kept from extensive empirical tuning.
	pos.genKingMovesNear(kind, moves)
	pos.genPawnDoubleAdvanceMoves(kind, moves)
	pos.genRookMoves(Rook, kind, moves)
	pos.genBishopMoves(Queen, kind, moves)
	pos.genPawnAttackMoves(kind, moves)
	pos.genPawnAdvanceMoves(kind, moves)
	pos.genPawnPromotions(kind, moves)
	pos.genKnightMoves(kind, moves)
	pos.genBishopMoves(Bishop, kind, moves)
	pos.genKingCastles(kind, moves)
	pos.genRookMoves(Queen, kind, moves)
}

// GenerateFigureMoves appends to moves the pseudo-legal moves of kind for a
// single figure type.
func (pos *Position) GenerateFigureMoves(fig Figure, kind int, moves *[]Move) {
	switch fig {
	case Pawn:
		pos.genPawnAdvanceMoves(kind, moves)
		pos.genPawnAttackMoves(kind, moves)
		pos.genPawnDoubleAdvanceMoves(kind, moves)
		pos.genPawnPromotions(kind, moves)
	case Knight:
		pos.genKnightMoves(kind, moves)
	case Bishop:
		pos.genBishopMoves(Bishop, kind, moves)
	case Rook:
		pos.genRookMoves(Rook, kind, moves)
	case Queen:
		pos.genBishopMoves(Queen, kind, moves)
		pos.genRookMoves(Queen, kind, moves)
	case King:
		pos.genKingMovesNear(kind, moves)
		pos.genKingCastles(kind, moves)
	}
}

// LegalMoves returns every fully legal move in the position: pseudo-legal
// moves filtered by playing them and checking the moving side isn't left in
// check, exactly the way perft and the search's root move list do it.
func (pos *Position) LegalMoves() []Move {
	pseudo := make([]Move, 0, 64)
	pos.GenerateMoves(All, &pseudo)

	legal := make([]Move, 0, len(pseudo))
	for _, m := range pseudo {
		pos.DoMove(m)
		ok := !pos.IsChecked(pos.SideToMove.Opposite())
		pos.UndoMove()
		if ok {
			legal = append(legal, m)
		}
	}
	return legal
}

// HasLegalMoves reports whether the side to move has at least one legal
// move (used to distinguish checkmate/stalemate from a normal position).
func (pos *Position) HasLegalMoves() bool {
	pseudo := make([]Move, 0, 64)
	pos.GenerateMoves(All, &pseudo)
	for _, m := range pseudo {
		pos.DoMove(m)
		ok := !pos.IsChecked(pos.SideToMove.Opposite())
		pos.UndoMove()
		if ok {
			return true
		}
	}
	return false
}

// LastMove returns the move that produced the current position, or NullMove
// at the root of a search.
func (pos *Position) LastMove() Move {
	return pos.curr.Move
}

// IsPseudoLegal reports whether m could have been generated by
// GenerateMoves/GenerateFigureMoves in the current position. A hash move
// retrieved from the transposition table must be checked with this before
// being played, since the table entry may belong to a different position
// that hashes to the same key, or may have been recorded by a shallower
// search no longer applicable here.
func (pos *Position) IsPseudoLegal(m Move) bool {
	if m == NullMove() {
		return false
	}
	if pos.IsEmpty(m.From) || pos.Get(m.From).Color() != pos.SideToMove {
		return false
	}

	pi := pos.Get(m.From)
	if pi != m.Piece() {
		return false
	}

	if m.MoveType == Castling || m.MoveType == Enpassant {
		var moves []Move
		pos.GenerateFigureMoves(pi.Figure(), All, &moves)
		for _, cand := range moves {
			if cand == m {
				return true
			}
		}
		return false
	}

	target := pos.Get(m.To)
	if target != NoPiece {
		if target.Color() == pos.SideToMove {
			return false
		}
		if m.Capture != target {
			return false
		}
	} else if m.Capture != NoPiece {
		return false
	}

	var moves []Move
	pos.GenerateFigureMoves(pi.Figure(), All, &moves)
	for _, cand := range moves {
		if cand == m {
			return true
		}
	}
	return false
}
