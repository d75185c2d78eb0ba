// search.go implements the alpha-beta search: negamax with principal
// variation search, null-move pruning, late move reductions, futility and
// history-leaf pruning, check extensions, quiescence search, an aspiration
// window around each iterative-deepening depth, and mate-distance pruning.
package engine

import "github.com/arcalight/corvid/board"

const (
	checkDepthExtension int32 = 1
	nullMoveDepthLimit  int32 = 1
	lmrDepthLimit       int32 = 3
	futilityDepthLimit  int32 = 3

	initialAspirationWindow = 21
	futilityMargin          = 150
	checkpointStep          = 10000
)

// Known scoring bounds, in centipawns.
const (
	KnownWinScore  = 25000
	KnownLossScore = -KnownWinScore
	MateScore      = 30000
	MatedScore     = -MateScore
	InfinityScore  = 32000
)

// Options carries the tunable knobs of a search.
type Options struct {
	AnalyseMode bool // loaded from config; the search itself does not read it
	HashSizeMB  int
}

// Stats reports progress of an in-flight or finished search.
type Stats struct {
	CacheHit  uint64
	CacheMiss uint64
	Nodes     uint64
	Depth     int32
	SelDepth  int32
}

// CacheHitRatio reports the fraction of transposition table probes that hit.
func (s *Stats) CacheHitRatio() float32 {
	if s.CacheHit+s.CacheMiss == 0 {
		return 0
	}
	return float32(s.CacheHit) / float32(s.CacheHit+s.CacheMiss)
}

// Logger receives progress notifications from a search in progress.
type Logger interface {
	BeginSearch()
	EndSearch()
	PrintPV(stats Stats, score int32, pv []board.Move)
}

// NulLogger discards every notification.
type NulLogger struct{}

func (NulLogger) BeginSearch()                      {}
func (NulLogger) EndSearch()                        {}
func (NulLogger) PrintPV(Stats, int32, []board.Move) {}

// Engine searches a Position for the best move.
type Engine struct {
	Options  Options
	Log      Logger
	Stats    Stats
	Position *board.Position

	Hash  *HashTable
	pawns *PawnCache

	rootPly int
	stack   *stack
	history *historyTable

	timeControl *TimeControl
	stopped     bool
	checkpoint  uint64
}

// NewEngine creates an Engine over pos (or the start position, if pos is
// nil) with a transposition table sized per options.
func NewEngine(pos *board.Position, log Logger, options Options) *Engine {
	if log == nil {
		log = NulLogger{}
	}
	size := options.HashSizeMB
	if size <= 0 {
		size = DefaultHashTableSizeMB
	}
	eng := &Engine{
		Options: options,
		Log:     log,
		Hash:    NewHashTable(size),
		pawns:   &PawnCache{},
		stack:   newStack(),
		history: &historyTable{},
	}
	eng.SetPosition(pos)
	return eng
}

// SetPosition replaces the position being searched.
func (eng *Engine) SetPosition(pos *board.Position) {
	if pos != nil {
		eng.Position = pos
		return
	}
	p, err := board.PositionFromFEN(board.FENStartPos)
	if err != nil {
		panic(err)
	}
	eng.Position = p
}

func (eng *Engine) DoMove(move board.Move) {
	eng.Position.DoMove(move)
}

func (eng *Engine) UndoMove() {
	eng.Position.UndoMove()
}

func sideMultiplier(c board.Color) int32 {
	if c == board.White {
		return 1
	}
	return -1
}

// Score evaluates the current position from the side to move's POV.
func (eng *Engine) Score() int32 {
	return Evaluate(eng.Position, eng.pawns) * sideMultiplier(eng.Position.SideToMove)
}

// endPosition reports a terminal score when the game is already decided by
// a rule rather than by search: checkmate/stalemate is handled by the
// caller finding no legal moves, this only covers draws and lone-king
// edge cases that can arise mid-tree.
func (eng *Engine) endPosition() (int32, bool) {
	pos := eng.Position
	if pos.ByPiece(board.White, board.King) == 0 && pos.ByPiece(board.Black, board.King) == 0 {
		return 0, true
	}
	if pos.ByPiece(board.White, board.King) == 0 {
		return sideMultiplier(pos.SideToMove) * (MatedScore + eng.ply()), true
	}
	if pos.ByPiece(board.Black, board.King) == 0 {
		return sideMultiplier(pos.SideToMove) * (MateScore - eng.ply()), true
	}
	if pos.InsufficientMaterial() {
		return 0, true
	}
	if pos.FiftyMoveRule() {
		return 0, true
	}
	if eng.ply() > 0 && pos.IsThreeFoldRepetition() {
		return 0, true
	}
	return 0, false
}

func (eng *Engine) retrieveHash() hashEntry {
	entry := eng.Hash.get(eng.Position)
	if entry.kind == 0 {
		eng.Stats.CacheMiss++
		return hashEntry{}
	}
	if entry.move != board.NullMove() && !eng.Position.IsPseudoLegal(entry.move) {
		eng.Stats.CacheMiss++
		return hashEntry{}
	}

	if entry.score < KnownLossScore {
		if entry.kind == exact {
			entry.score += int16(eng.ply())
		}
	} else if entry.score > KnownWinScore {
		if entry.kind == exact {
			entry.score -= int16(eng.ply())
		}
	}

	eng.Stats.CacheHit++
	return entry
}

func (eng *Engine) updateHash(alpha, beta, depth, score int32, move board.Move) {
	kind := getBound(alpha, beta, score)

	if score < KnownLossScore {
		if kind == exact {
			score -= eng.ply()
		} else if kind == failedLow {
			score = KnownLossScore
		} else {
			return
		}
	} else if score > KnownWinScore {
		if kind == exact {
			score += eng.ply()
		} else if kind == failedHigh {
			score = KnownWinScore
		} else {
			return
		}
	}

	eng.Hash.put(eng.Position, hashEntry{
		kind:  kind,
		score: int16(score),
		depth: int8(depth),
		move:  move,
	})
}

// searchQuiescence resolves captures until the position is "quiet", i.e.
// no move can change the static evaluation significantly.
func (eng *Engine) searchQuiescence(alpha, beta int32) int32 {
	eng.Stats.Nodes++
	if score, done := eng.endPosition(); done {
		return score
	}

	static := eng.Score()
	if static >= beta {
		return static
	}

	pos := eng.Position
	us := pos.SideToMove
	inCheck := pos.IsChecked(us)
	localAlpha := max32(alpha, static)

	eng.stack.GenerateMoves(board.Violent, board.NullMove())
	for move := eng.stack.PopMove(); move != board.NullMove(); move = eng.stack.PopMove() {
		if !inCheck && isFutile(pos, static, localAlpha, futilityMargin, move) {
			continue
		}

		if !inCheck && move.MoveType == board.Normal && seeSign(pos, move) {
			continue
		}
		eng.DoMove(move)
		if eng.Position.IsChecked(us) {
			eng.UndoMove()
			continue
		}
		score := -eng.searchQuiescence(-beta, -localAlpha)
		eng.UndoMove()

		if score >= beta {
			return score
		}
		if score > localAlpha {
			localAlpha = score
		}
	}

	return localAlpha
}

// tryMove plays move, descends the tree with the given reduction/window
// policy, then undoes it. move may be the null move.
func (eng *Engine) tryMove(alpha, beta, depth, lmr int32, nullWindow bool, move board.Move) int32 {
	depth--

	score := alpha + 1
	if lmr > 0 {
		score = -eng.searchTree(-alpha-1, -alpha, depth-lmr)
	}

	if score > alpha {
		if nullWindow {
			score = -eng.searchTree(-alpha-1, -alpha, depth)
			if alpha < score && score < beta {
				score = -eng.searchTree(-beta, -alpha, depth)
			}
		} else {
			score = -eng.searchTree(-beta, -alpha, depth)
		}
	}

	eng.UndoMove()
	return score
}

func (eng *Engine) ply() int32 {
	return int32(eng.Position.Ply - eng.rootPly)
}

// passed reports whether m creates or removes a passed pawn, used to veto
// futility pruning on moves that can swing the static eval a lot.
func passed(pos *board.Position, m board.Move) bool {
	if m.Piece().Figure() == board.Pawn {
		bb := m.To.Bitboard()
		bb = board.West(bb) | bb | board.East(bb)
		pawns := pos.ByFigure[board.Pawn] &^ m.To.Bitboard() &^ m.From.Bitboard()
		if board.ForwardSpan(m.SideToMove(), bb)&pawns == 0 {
			return true
		}
	}
	if m.Capture.Figure() == board.Pawn {
		bb := m.To.Bitboard()
		bb = board.West(bb) | bb | board.East(bb)
		pawns := pos.ByFigure[board.Pawn] &^ m.To.Bitboard() &^ m.From.Bitboard()
		if board.BackwardSpan(m.SideToMove(), bb)&pawns == 0 {
			return true
		}
	}
	return false
}

// isFutile reports whether m cannot plausibly raise static above alpha,
// even allowing margin for tactics. A heuristic: mistakes are tolerated
// since a wrongly-pruned move only costs a missed improvement, not
// correctness.
func isFutile(pos *board.Position, static, alpha, margin int32, m board.Move) bool {
	if m.MoveType == board.Promotion {
		return false
	}
	delta := futilityFigureBonus[m.Capture.Figure()]
	return static+delta+margin < alpha && !passed(pos, m)
}

// searchTree is the negamax core. It fails soft: the returned score may
// fall outside [alpha, beta). Invariant: score <= alpha means failed low
// (score is an upper bound), score >= beta means failed high (score is a
// lower bound), otherwise the score is exact.
func (eng *Engine) searchTree(alpha, beta, depth int32) int32 {
	ply := eng.ply()
	pvNode := alpha+1 < beta
	pos := eng.Position
	us, them := pos.SideToMove, pos.SideToMove.Opposite()

	eng.Stats.Nodes++
	if !eng.stopped && eng.Stats.Nodes >= eng.checkpoint {
		eng.checkpoint = eng.Stats.Nodes + checkpointStep
		if eng.timeControl.Stopped() {
			eng.stopped = true
		}
	}
	if eng.stopped {
		return alpha
	}
	if pvNode && ply > eng.Stats.SelDepth {
		eng.Stats.SelDepth = ply
	}

	if score, done := eng.endPosition(); done {
		if ply != 0 || score != 0 {
			return score
		}
	}

	if MateScore-ply <= alpha {
		return KnownWinScore
	}

	entry := eng.retrieveHash()
	hash := entry.move
	if entry.kind != 0 && depth <= int32(entry.depth) {
		score := int32(entry.score)
		if entry.kind == exact {
			return score
		}
		if entry.kind == failedLow && score <= alpha {
			return score
		}
		if entry.kind == failedHigh && score >= beta {
			return score
		}
	}

	if depth <= 0 {
		if alpha >= KnownWinScore || beta <= KnownLossScore {
			return eng.Score()
		}
		score := eng.searchQuiescence(alpha, beta)
		eng.updateHash(alpha, beta, depth, score, board.NullMove())
		return score
	}

	sideIsChecked := pos.IsChecked(us)

	if depth > nullMoveDepthLimit &&
		!sideIsChecked &&
		pos.MinorsAndMajors(us) != 0 &&
		KnownLossScore < alpha && beta < KnownWinScore {
		eng.DoMove(board.NullMove())
		reduction := int32(pos.MinorsAndMajors(us).CountMax2())
		score := eng.tryMove(beta-1, beta, depth-reduction, 0, false, board.NullMove())
		if score >= beta {
			return score
		}
	}

	bestMove, bestScore := board.NullMove(), int32(-InfinityScore)

	static := int32(0)
	allowLeafsPruning := false
	if depth <= futilityDepthLimit &&
		!sideIsChecked &&
		!pvNode &&
		KnownLossScore < alpha && beta < KnownWinScore {
		allowLeafsPruning = true
		static = eng.Score()
	}

	nullWindow := false
	allowLateMove := !sideIsChecked && depth > lmrDepthLimit

	dropped := false
	numMoves := int32(0)
	localAlpha := alpha

	eng.stack.GenerateMoves(board.All, hash)
	for move := eng.stack.PopMove(); move != board.NullMove(); move = eng.stack.PopMove() {
		critical := move == hash || eng.stack.IsKiller(move)
		numMoves++

		newDepth := depth
		losingCapture := !move.IsQuiet() && seeSign(pos, move)
		eng.DoMove(move)

		if pos.IsChecked(us) {
			eng.UndoMove()
			continue
		}

		givesCheck := pos.IsChecked(them)
		if givesCheck {
			if pos.GetAttacker(move.To, them) == board.NoFigure ||
				pos.GetAttacker(move.To, us) != board.NoFigure {
				newDepth += checkDepthExtension
			}
		}

		lmr := int32(0)
		if allowLateMove && !givesCheck && !critical {
			if move.IsQuiet() || losingCapture {
				lmr = 1 + min32(depth, numMoves)/5
			}
		}

		if allowLeafsPruning && !givesCheck && !critical {
			if stat := eng.history.get(move); stat < -15 && (move.IsQuiet() || losingCapture) {
				dropped = true
				eng.UndoMove()
				continue
			}
			if isFutile(pos, static, localAlpha, depth*futilityMargin, move) {
				bestScore = max32(bestScore, static)
				dropped = true
				eng.UndoMove()
				continue
			}
		}

		score := eng.tryMove(localAlpha, beta, newDepth, lmr, nullWindow, move)
		if allowLeafsPruning && !givesCheck {
			if score > alpha {
				eng.history.add(move, 16)
			} else {
				eng.history.add(move, -1)
			}
		}

		if score >= beta {
			eng.stack.SaveKiller(move)
			eng.updateHash(alpha, beta, depth, score, move)
			return score
		}
		if score > bestScore {
			nullWindow = true
			bestMove, bestScore = move, score
			localAlpha = max32(localAlpha, score)
		}
	}

	if !dropped {
		if bestMove == board.NullMove() {
			if sideIsChecked {
				bestScore = MatedScore + ply
			} else {
				bestScore = 0
			}
		}
		eng.updateHash(alpha, beta, depth, bestScore, bestMove)
	}

	return bestScore
}

// search runs one iterative-deepening depth with an aspiration window
// around the previous depth's score, widening and re-searching on fail
// low/high.
func (eng *Engine) search(depth, estimated int32) int32 {
	gamma, delta := estimated, int32(initialAspirationWindow)
	alpha, beta := max32(gamma-delta, -InfinityScore), min32(gamma+delta, InfinityScore)
	score := estimated

	if depth < 4 {
		alpha = -InfinityScore
		beta = InfinityScore
	}

	for !eng.stopped {
		score = eng.searchTree(alpha, beta, depth)
		if score <= alpha {
			alpha = max32(alpha-delta, -InfinityScore)
			delta += delta / 2
		} else if score >= beta {
			beta = min32(beta+delta, InfinityScore)
			delta += delta / 2
		} else {
			return score
		}
	}

	return score
}

// PV walks the transposition table from pos, following the best move at
// each position up to maxLen plies, to recover the principal variation of
// the last completed search. Used instead of a dedicated PV table: every
// position searched to completion is already in the hash table with an
// exact score, so a second bookkeeping structure would only duplicate it.
func (eng *Engine) PV(maxLen int) []board.Move {
	pos := eng.Position
	var pv []board.Move
	seen := map[uint64]bool{}
	for i := 0; i < maxLen; i++ {
		entry := eng.Hash.get(pos)
		if entry.kind&exact == 0 || entry.move == board.NullMove() {
			break
		}
		if !pos.IsPseudoLegal(entry.move) {
			break
		}
		z := pos.Zobrist()
		if seen[z] {
			break
		}
		seen[z] = true
		pv = append(pv, entry.move)
		pos.DoMove(entry.move)
	}
	for range pv {
		pos.UndoMove()
	}
	return pv
}

// Play iteratively deepens the search until tc says to stop, and returns
// the principal variation found (pv[0] is the move to play). tc must
// already be started. Returns an empty pv if the position is already over.
func (eng *Engine) Play(tc *TimeControl) []board.Move {
	eng.Log.BeginSearch()
	eng.Stats = Stats{Depth: -1}

	eng.rootPly = eng.Position.Ply
	eng.timeControl = tc
	eng.stopped = false
	eng.checkpoint = checkpointStep
	eng.stack.Reset(eng.Position)

	var pv []board.Move
	score := int32(0)
	for depth := int32(0); depth < 64; depth++ {
		if !tc.NextDepth(int(depth)) {
			break
		}

		eng.Stats.Depth = depth
		score = eng.search(depth, score)

		if !eng.stopped {
			pv = eng.PV(int(depth) + 1)
			eng.Log.PrintPV(eng.Stats, score, pv)
		}
	}

	eng.Log.EndSearch()
	return pv
}
