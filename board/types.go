// Package board implements the chess data model: squares, bitboards,
// pieces, moves, and the Position type with move generation, make/unmake,
// FEN conversion and perft counting.
package board

import (
	"fmt"

	"github.com/pkg/errors"
)

var errInvalidSquare = fmt.Errorf("invalid square")

var figureToSymbol = map[Figure]string{
	Knight: "N",
	Bishop: "B",
	Rook:   "R",
	Queen:  "Q",
	King:   "K",
}

// Square identifies a location on the board, A1=0 .. H8=63, file-major.
type Square uint8

// RankFile returns the square at rank r, file f. r and f must be 0..7.
func RankFile(r, f int) Square {
	return Square(r*8 + f)
}

// SquareFromString parses a square in standard [a-h][1-8] notation.
func SquareFromString(s string) (Square, error) {
	if len(s) != 2 {
		return SquareA1, errors.Wrapf(errInvalidSquare, "square %q", s)
	}

	f, r := -1, -1
	if 'a' <= s[0] && s[0] <= 'h' {
		f = int(s[0] - 'a')
	}
	if 'A' <= s[0] && s[0] <= 'H' {
		f = int(s[0] - 'A')
	}
	if '1' <= s[1] && s[1] <= '8' {
		r = int(s[1] - '1')
	}
	if f == -1 || r == -1 {
		return SquareA1, errors.Wrapf(errInvalidSquare, "square %q", s)
	}

	return RankFile(r, f), nil
}

// Bitboard returns a bitboard with only sq set.
func (sq Square) Bitboard() Bitboard {
	return 1 << uint(sq)
}

// Relative returns the square offset dr ranks and df files from sq.
// The result is undefined if it falls off the board.
func (sq Square) Relative(dr, df int) Square {
	return sq + Square(dr*8+df)
}

// Rank returns 0..7, the rank of sq.
func (sq Square) Rank() int {
	return int(sq / 8)
}

// File returns 0..7, the file of sq.
func (sq Square) File() int {
	return int(sq % 8)
}

func (sq Square) String() string {
	return string([]byte{
		uint8(sq.File() + 'a'),
		uint8(sq.Rank() + '1'),
	})
}

// Figure identifies a piece kind without color.
type Figure uint

const (
	NoFigure Figure = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King

	FigureArraySize = int(iota)
	FigureMinValue  = Pawn
	FigureMaxValue  = King
)

func (f Figure) String() string {
	switch f {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "NoFigure"
	}
}

// Color identifies a side: White or Black.
type Color uint

const (
	NoColor Color = iota
	White
	Black

	ColorArraySize = int(iota)
	ColorMinValue  = White
	ColorMaxValue  = Black
)

var kingHomeRank = [ColorArraySize]int{0, 0, 7}

// Opposite returns the other color. Undefined if c is not White or Black.
func (c Color) Opposite() Color {
	return White + Black - c
}

// KingHomeRank returns the king's starting rank for c.
func (c Color) KingHomeRank() int {
	return kingHomeRank[c]
}

func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Piece is a figure owned by a color.
type Piece uint8

const (
	NoPiece        = Piece(0)
	PieceArraySize = Piece(FigureArraySize << 2)
	PieceMinValue  = WhitePawn
	PieceMaxValue  = BlackKing
)

const (
	WhitePawn Piece = Piece(iota+Pawn)<<2 + Piece(White)
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
)

const (
	BlackPawn Piece = Piece(iota+Pawn)<<2 + Piece(Black)
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
)

// ColorFigure builds a Piece out of a color and a figure.
func ColorFigure(col Color, fig Figure) Piece {
	return Piece(fig<<2) + Piece(col)
}

// Color returns the piece's color.
func (pi Piece) Color() Color {
	return Color(pi & 3)
}

// Figure returns the piece's figure.
func (pi Piece) Figure() Figure {
	return Figure(pi >> 2)
}

func (pi Piece) String() string {
	if pi == NoPiece {
		return "-"
	}
	sym := figureToSymbol[pi.Figure()]
	if sym == "" {
		sym = "P"
	}
	if pi.Color() == Black {
		return string(sym[0] + ('a' - 'A'))
	}
	return sym
}

// Castle is a bitmask of castling rights.
type Castle uint8

const (
	WhiteOO Castle = 1 << iota
	WhiteOOO
	BlackOO
	BlackOOO

	NoCastle  Castle = 0
	AnyCastle Castle = WhiteOO | WhiteOOO | BlackOO | BlackOOO

	CastleArraySize = int(AnyCastle + 1)
	CastleMinValue  = NoCastle
	CastleMaxValue  = AnyCastle
)

var castleToSymbol = map[Castle]byte{
	WhiteOO:  'K',
	WhiteOOO: 'Q',
	BlackOO:  'k',
	BlackOOO: 'q',
}

func (c Castle) String() string {
	if c == 0 {
		return "-"
	}
	var r []byte
	for c > 0 {
		k := c & (-c)
		r = append(r, castleToSymbol[k])
		c -= k
	}
	return string(r)
}

// CastlingRook returns the rook piece, start and end square for the rook
// participating in castling to kingEnd.
func CastlingRook(kingEnd Square) (Piece, Square, Square) {
	// if kingEnd == C1 (b010), rookStart == A1 (b000); if kingEnd == G1
	// (b110), rookStart == H1 (b111). Bit 3 sets bits 2 and 1.
	piece := Piece(Rook<<2) + 1 + Piece(kingEnd>>5)
	rookStart := kingEnd&^3 | (kingEnd & 4 >> 1) | (kingEnd & 4 >> 2)
	rookEnd := kingEnd ^ (kingEnd&4>>1) | 1
	return piece, rookStart, rookEnd
}

// Known starting/testing positions.
var (
	FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	FENKiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	FENDuplain  = "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
)

const (
	SquareA1 Square = iota
	SquareB1
	SquareC1
	SquareD1
	SquareE1
	SquareF1
	SquareG1
	SquareH1
	SquareA2
	SquareB2
	SquareC2
	SquareD2
	SquareE2
	SquareF2
	SquareG2
	SquareH2
	SquareA3
	SquareB3
	SquareC3
	SquareD3
	SquareE3
	SquareF3
	SquareG3
	SquareH3
	SquareA4
	SquareB4
	SquareC4
	SquareD4
	SquareE4
	SquareF4
	SquareG4
	SquareH4
	SquareA5
	SquareB5
	SquareC5
	SquareD5
	SquareE5
	SquareF5
	SquareG5
	SquareH5
	SquareA6
	SquareB6
	SquareC6
	SquareD6
	SquareE6
	SquareF6
	SquareG6
	SquareH6
	SquareA7
	SquareB7
	SquareC7
	SquareD7
	SquareE7
	SquareF7
	SquareG7
	SquareH7
	SquareA8
	SquareB8
	SquareC8
	SquareD8
	SquareE8
	SquareF8
	SquareG8
	SquareH8

	SquareArraySize = int(iota)
	SquareMinValue  = SquareA1
	SquareMaxValue  = SquareH8
)
