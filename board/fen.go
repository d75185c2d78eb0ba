// fen.go converts Position to and from Forsyth-Edwards Notation.
package board

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type castleInfo struct {
	Castle Castle
	Piece  [2]Piece
	Square [2]Square
}

var (
	colorToSymbol = []string{"", "w", "b"}

	symbolToCastleInfo = map[rune]castleInfo{
		'K': {Castle: WhiteOO, Piece: [2]Piece{WhiteKing, WhiteRook}, Square: [2]Square{SquareE1, SquareH1}},
		'k': {Castle: BlackOO, Piece: [2]Piece{BlackKing, BlackRook}, Square: [2]Square{SquareE8, SquareH8}},
		'Q': {Castle: WhiteOOO, Piece: [2]Piece{WhiteKing, WhiteRook}, Square: [2]Square{SquareE1, SquareA1}},
		'q': {Castle: BlackOOO, Piece: [2]Piece{BlackKing, BlackRook}, Square: [2]Square{SquareE8, SquareA8}},
	}
	symbolToColor = map[string]Color{"w": White, "b": Black}
	symbolToPiece = map[rune]Piece{
		'p': BlackPawn, 'n': BlackKnight, 'b': BlackBishop, 'r': BlackRook, 'q': BlackQueen, 'k': BlackKing,
		'P': WhitePawn, 'N': WhiteKnight, 'B': WhiteBishop, 'R': WhiteRook, 'Q': WhiteQueen, 'K': WhiteKing,
	}
)

func parseNonNegativeInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing integer %q", s)
	}
	if n < 0 {
		return 0, errors.Errorf("negative integer %q", s)
	}
	return n, nil
}

// parsePiecePlacement parses the board field of a FEN record into pos.
func parsePiecePlacement(str string, pos *Position) error {
	ranks := strings.Split(str, "/")
	if len(ranks) != 8 {
		return errors.Errorf("expected 8 ranks, got %d", len(ranks))
	}
	for r := range ranks {
		f := 0
		for _, p := range ranks[r] {
			pi := symbolToPiece[p]
			if pi == NoPiece {
				if '1' <= p && p <= '8' {
					f += int(p) - int('0') - 1
				} else {
					return errors.Errorf("expected piece or digit, got %q", string(p))
				}
			}
			if f >= 8 {
				return errors.Errorf("rank %d too long (%d cells)", 8-r, f)
			}
			// 7-r because FEN describes the board from the 8th rank down.
			pos.Put(RankFile(7-r, f), pi)
			f++
		}
		if f < 8 {
			return errors.Errorf("rank %d too short (%d cells)", 8-r, f)
		}
	}
	return nil
}

// formatPiecePlacement converts pos to the board field of a FEN record.
func formatPiecePlacement(pos *Position) string {
	var s strings.Builder
	for r := 7; r >= 0; r-- {
		space := 0
		for f := 0; f < 8; f++ {
			sq := RankFile(r, f)
			pi := pos.Get(sq)
			if pi == NoPiece {
				space++
			} else {
				if space != 0 {
					s.WriteString(strconv.Itoa(space))
					space = 0
				}
				s.WriteString(pi.String())
			}
		}
		if space != 0 {
			s.WriteString(strconv.Itoa(space))
		}
		if r != 0 {
			s.WriteByte('/')
		}
	}
	return s.String()
}

func parseEnpassantSquare(str string, pos *Position) error {
	if str[:1] == "-" {
		pos.SetEnpassantSquare(SquareA1)
		return nil
	}
	sq, err := SquareFromString(str)
	if err != nil {
		return err
	}
	pos.SetEnpassantSquare(sq)
	return nil
}

func formatEnpassantSquare(pos *Position) string {
	if pos.EnpassantSquare() != SquareA1 {
		return pos.EnpassantSquare().String()
	}
	return "-"
}

func parseSideToMove(str string, pos *Position) error {
	if col, ok := symbolToColor[str]; ok {
		pos.SetSideToMove(col)
		return nil
	}
	return errors.Errorf("invalid color %q", str)
}

func formatSideToMove(pos *Position) string {
	return colorToSymbol[pos.SideToMove]
}

func parseCastlingAbility(str string, pos *Position) error {
	if str == "-" {
		pos.SetCastlingAbility(NoCastle)
		return nil
	}

	ability := NoCastle
	for _, p := range str {
		info, ok := symbolToCastleInfo[p]
		if !ok {
			return errors.Errorf("invalid castling ability %q", str)
		}
		ability |= info.Castle
		for i := 0; i < 2; i++ {
			if info.Piece[i] != pos.Get(info.Square[i]) {
				return errors.Errorf("expected %v at %v, got %v",
					info.Piece[i], info.Square[i], pos.Get(info.Square[i]))
			}
		}
	}
	pos.SetCastlingAbility(ability)
	return nil
}

func formatCastlingAbility(pos *Position) string {
	return pos.CastlingAbility().String()
}
