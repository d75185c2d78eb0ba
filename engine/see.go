// see.go implements static exchange evaluation: estimating the material
// result of a sequence of captures on one square without searching it.
package engine

import "github.com/arcalight/corvid/board"

// seeBonus approximates each figure's mid-game value for SEE purposes;
// distinct from the evaluator's own piece values in eval.go.
var seeBonus = [board.FigureArraySize]int32{0, 100, 357, 377, 712, 1253, 20000}

func seeScore(m board.Move) int32 {
	score := seeBonus[m.Capture.Figure()]
	if m.MoveType == board.Promotion {
		score -= seeBonus[board.Pawn]
		score += seeBonus[m.Target.Figure()]
	}
	return score
}

// seeSign reports whether see(m) < 0 without the cost of running the full
// swap algorithm when the answer is obviously no: capturing with a piece no
// more valuable than what it takes can never come out negative.
func seeSign(pos *board.Position, m board.Move) bool {
	if m.Piece().Figure() <= m.Capture.Figure() {
		return false
	}
	return see(pos, m) < 0
}

// see returns the static exchange evaluation for m, valid in the current
// position (m has not yet been played).
//
// The swap algorithm replays the sequence of recaptures on m.To with the
// least valuable attacker each side has available, stopping when a side has
// no attacker left or declines a losing recapture, then backs up the gain
// array to find the best result either side can force.
func see(pos *board.Position, m board.Move) int32 {
	us := pos.SideToMove
	sq := m.To
	bb := sq.Bitboard()
	target := m.Target
	bb27 := bb &^ (board.RankBb(0) | board.RankBb(7))
	bb18 := bb & (board.RankBb(0) | board.RankBb(7))

	var occ [board.ColorArraySize]board.Bitboard
	occ[board.White] = pos.ByColor[board.White]
	occ[board.Black] = pos.ByColor[board.Black]

	occ[us] &^= m.From.Bitboard()
	occ[us] |= m.To.Bitboard()
	occ[us.Opposite()] &^= m.CaptureSquare().Bitboard()
	us = us.Opposite()

	all := occ[board.White] | occ[board.Black]

	score := seeScore(m)
	tmp := [16]int32{score}
	gain := tmp[:1]

	for score >= 0 {
		var fig board.Figure
		var att board.Bitboard
		var pawn, bishop, rook board.Bitboard

		ours := occ[us]
		mt := board.Normal

		pawn = board.Backward(us, board.West(bb27)|board.East(bb27))
		if att = pawn & ours & pos.ByFigure[board.Pawn]; att != 0 {
			fig = board.Pawn
			goto makeMove
		}

		if att = pos.KnightMobility(sq) & ours & pos.ByFigure[board.Knight]; att != 0 {
			fig = board.Knight
			goto makeMove
		}

		if board.BbSuperAttack[sq]&ours == 0 {
			// No other figure can reach sq; give up early.
			break
		}

		bishop = pos.BishopMobility(sq, all)
		if att = bishop & ours & pos.ByFigure[board.Bishop]; att != 0 {
			fig = board.Bishop
			goto makeMove
		}

		rook = pos.RookMobility(sq, all)
		if att = rook & ours & pos.ByFigure[board.Rook]; att != 0 {
			fig = board.Rook
			goto makeMove
		}

		// Pawn promotions are valued as queens minus the pawn.
		pawn = board.Backward(us, board.West(bb18)|board.East(bb18))
		if att = pawn & ours & pos.ByFigure[board.Pawn]; att != 0 {
			fig, mt = board.Queen, board.Promotion
			goto makeMove
		}

		if att = (rook | bishop) & ours & pos.ByFigure[board.Queen]; att != 0 {
			fig = board.Queen
			goto makeMove
		}

		if att = pos.KingMobility(sq) & ours & pos.ByFigure[board.King]; att != 0 {
			fig = board.King
			goto makeMove
		}

		break

	makeMove:
		from := att.LSB()
		attacker := board.ColorFigure(us, fig)
		nm := board.MakeMove(mt, from.AsSquare(), sq, target, attacker)
		target = attacker

		score = seeScore(nm) - score
		gain = append(gain, score)

		occ[us] = occ[us] &^ from
		all = all &^ from

		us = us.Opposite()
	}

	for i := len(gain) - 2; i >= 0; i-- {
		if -gain[i+1] < gain[i] {
			gain[i] = -gain[i+1]
		}
	}
	return gain[0]
}
