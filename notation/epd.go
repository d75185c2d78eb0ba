// Package notation implements parsing of chess positions and test
// records: FEN (via board.PositionFromFEN) and EPD, the Extended Position
// Description format used to express a position alongside annotations such
// as an expected best move.
//
// Unlike the teacher's goyacc-generated grammar, this parser is a small
// hand-written scanner: EPD's shape (four position fields, then a run of
// "opcode operand...;" groups) doesn't need a generated parser to get
// right, and a hand-written one avoids carrying a grammar toolchain
// dependency for a test-fixture format.
package notation

import (
	"strconv"
	"strings"

	"github.com/arcalight/corvid/board"
	"github.com/pkg/errors"
)

// EPD is one parsed Extended Position Description record.
type EPD struct {
	Position *board.Position
	ID       string
	BestMove []board.Move
	Comment  map[string]string
}

// ParseEPD parses one EPD line: four space-separated position fields
// (piece placement, side to move, castling ability, en passant square)
// followed by semicolon-terminated operations. Recognized operations are
// id "...", bm <uci> [<uci> ...], fmvn <n>, hmvc <n>, and c0-c9 "...".
// Best moves are given in UCI syntax (board has no SAN parser), not the
// SAN the original EPD spec uses.
func ParseEPD(line string) (*EPD, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return nil, errors.Errorf("epd: expected at least 4 position fields, got %d", len(fields))
	}

	fen := strings.Join(fields[0:4], " ") + " 0 1"
	pos, err := board.PositionFromFEN(fen)
	if err != nil {
		return nil, errors.Wrap(err, "epd: position fields")
	}

	epd := &EPD{Position: pos, Comment: map[string]string{}}

	rest := strings.Join(fields[4:], " ")
	for _, op := range splitOperations(rest) {
		if err := epd.applyOperation(op); err != nil {
			return nil, err
		}
	}
	return epd, nil
}

// splitOperations splits the operation section of an EPD line on the
// semicolons that terminate each opcode, without splitting inside a
// double-quoted argument.
func splitOperations(s string) []string {
	var ops []string
	inQuotes := false
	start := 0
	for i, r := range s {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ';':
			if !inQuotes {
				if op := strings.TrimSpace(s[start:i]); op != "" {
					ops = append(ops, op)
				}
				start = i + 1
			}
		}
	}
	if op := strings.TrimSpace(s[start:]); op != "" {
		ops = append(ops, op)
	}
	return ops
}

// applyOperation parses and applies one "opcode arg arg..." operation,
// where args may be double-quoted strings containing spaces.
func (epd *EPD) applyOperation(op string) error {
	opcode, argStr, ok := strings.Cut(strings.TrimSpace(op), " ")
	if !ok {
		opcode, argStr = op, ""
	}
	args := splitArguments(argStr)

	switch opcode {
	case "id":
		if len(args) != 1 {
			return errors.Errorf("epd: id expects exactly one argument, got %d", len(args))
		}
		epd.ID = trimQuotes(args[0])

	case "bm":
		for _, a := range args {
			move, err := findLegalUCIMove(epd.Position, a)
			if err != nil {
				return errors.Wrapf(err, "epd: bm %q", a)
			}
			epd.BestMove = append(epd.BestMove, move)
		}

	case "fmvn":
		if len(args) != 1 {
			return errors.Errorf("epd: fmvn expects exactly one argument")
		}
		if _, err := strconv.Atoi(args[0]); err != nil {
			return errors.Wrapf(err, "epd: fmvn %q", args[0])
		}

	case "hmvc":
		if len(args) != 1 {
			return errors.Errorf("epd: hmvc expects exactly one argument")
		}
		if _, err := strconv.Atoi(args[0]); err != nil {
			return errors.Wrapf(err, "epd: hmvc %q", args[0])
		}

	case "c0", "c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8", "c9":
		if len(args) != 1 {
			return errors.Errorf("epd: %s expects exactly one argument", opcode)
		}
		epd.Comment[opcode] = trimQuotes(args[0])

	default:
		// Unknown opcodes are preserved as opaque comments rather than
		// rejected: EPD tooling in the wild defines many private opcodes.
		epd.Comment[opcode] = argStr
	}
	return nil
}

// findLegalUCIMove resolves s against pos's legal moves by its from and to
// squares. Unlike engine.ParseUCIMove it ignores a promotion letter (the
// first legal promotion between the two squares is returned) and does not
// accept king-takes-rook castling strings. Kept separate rather than
// imported so notation does not depend on engine for a four-line lookup.
func findLegalUCIMove(pos *board.Position, s string) (board.Move, error) {
	if len(s) < 4 {
		return board.Move{}, errors.Errorf("not a UCI move")
	}
	from, err := board.SquareFromString(s[0:2])
	if err != nil {
		return board.Move{}, err
	}
	to, err := board.SquareFromString(s[2:4])
	if err != nil {
		return board.Move{}, err
	}
	for _, m := range pos.LegalMoves() {
		if m.From == from && m.To == to {
			return m, nil
		}
	}
	return board.Move{}, errors.Errorf("no legal move %s", s)
}

// splitArguments splits an operation's argument string on whitespace,
// keeping double-quoted substrings (which may contain spaces) intact.
func splitArguments(s string) []string {
	var args []string
	var cur strings.Builder
	inQuotes := false
	flush := func() {
		if cur.Len() > 0 {
			args = append(args, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == ' ' && !inQuotes:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return args
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// String renders epd back to EPD text, in the same field order ParseEPD
// reads: position fields, then bm/id/comment operations.
func (epd *EPD) String() string {
	var b strings.Builder
	fields := strings.Fields(epd.Position.String())
	b.WriteString(strings.Join(fields[:4], " "))
	for _, bm := range epd.BestMove {
		b.WriteString(" bm ")
		b.WriteString(bm.UCI())
		b.WriteString(";")
	}
	if epd.ID != "" {
		b.WriteString(" id \"")
		b.WriteString(epd.ID)
		b.WriteString("\";")
	}
	for k, v := range epd.Comment {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString(" \"")
		b.WriteString(v)
		b.WriteString("\";")
	}
	return b.String()
}
