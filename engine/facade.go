// facade.go implements the session-level API consumed by hosts: a network
// service relaying client analysis requests, or an in-process binding. Both
// speak the same request/event vocabulary, modeled here as typed structs
// rather than the wire JSON a host marshals them to or from.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/arcalight/corvid/board"
	"github.com/pkg/errors"
)

// SearchLimit bounds one analysis. Exactly one of the Kind-selected fields
// is meaningful; the rest are ignored.
type SearchLimit struct {
	Kind       string // "depth", "nodes", "time", or "infinite"
	Depth      int
	Nodes      uint64
	MoveTimeMs int
}

// AnalyzeOptions carries the per-request tunables a host may override.
type AnalyzeOptions struct {
	HashSizeMB int
	Threads    int // must be 1
	MultiPV    int // default 1
}

// AnalyzeRequest is one inbound analysis request.
type AnalyzeRequest struct {
	ID      string
	FEN     string // "startpos" or a FEN string
	Moves   []string
	Limit   SearchLimit
	Options AnalyzeOptions
}

// ScoreReport is the tagged-union score carried on a SearchInfo or BestMove
// event: either a centipawn value or a mate distance in plies.
type ScoreReport struct {
	Kind  string // "cp" or "mate"
	Value int32
}

func reportScore(raw int32) ScoreReport {
	if raw > KnownWinScore {
		return ScoreReport{Kind: "mate", Value: MateScore - raw}
	}
	if raw < KnownLossScore {
		return ScoreReport{Kind: "mate", Value: MatedScore - raw}
	}
	return ScoreReport{Kind: "cp", Value: raw}
}

// SearchInfo is emitted once per completed iterative-deepening depth.
type SearchInfo struct {
	ID       string
	Depth    int32
	SelDepth int32
	Nodes    uint64
	NPS      uint64
	TimeMs   int64
	Score    ScoreReport
	PV       []string
	HashFull int
	TBHits   uint64
}

// BestMove is the final event of a successful analysis.
type BestMove struct {
	ID     string
	Best   string
	Ponder string
}

// AnalyzeError reports a failure of an analysis: either the request never
// started a search (malformed FEN, illegal move in the applied history) or
// a search started and was aborted by an internal fault.
type AnalyzeError struct {
	ID      string
	Message string
}

func (e *AnalyzeError) Error() string {
	return fmt.Sprintf("analyze %s: %s", e.ID, e.Message)
}

// Emit receives SearchInfo snapshots during an analysis. It is called
// synchronously from the search goroutine and must not block for long.
type Emit func(SearchInfo)

var errBusy = errors.New("engine: analysis already in progress")

// Facade is the single-session object a host drives: one position, one
// search at a time. It owns the Engine and the TimeControl of whichever
// analysis is currently running, so Stop can reach it from another
// goroutine.
type Facade struct {
	eng *Engine

	mu      sync.Mutex
	busy    bool
	current *TimeControl
}

// NewFacade creates a Facade with a fresh engine at the start position.
func NewFacade(log Logger, options Options) *Facade {
	return &Facade{eng: NewEngine(nil, log, options)}
}

// SetPosition parses fen (or "startpos"), applies moves in order, and resets
// per-search heuristics. Returns an error without changing the current
// position if fen is malformed or a move is illegal at its point of
// application.
func (f *Facade) SetPosition(fen string, moves []string) error {
	pos, err := parseFENOrStartpos(fen)
	if err != nil {
		return errors.Wrap(err, "malformed FEN")
	}
	for _, uci := range moves {
		m, err := ParseUCIMove(pos, uci)
		if err != nil {
			return err
		}
		pos.DoMove(m)
	}
	f.eng.SetPosition(pos)
	f.eng.history = &historyTable{}
	return nil
}

func parseFENOrStartpos(fen string) (*board.Position, error) {
	if fen == "" || fen == "startpos" {
		return board.PositionFromFEN(board.FENStartPos)
	}
	return board.PositionFromFEN(fen)
}

// ParseUCIMove resolves a UCI move string against pos's legal-move list,
// normalizing Chess960-style king-captures-own-rook castling encodings
// (e.g. "e1h1") to the king's two-square form the rest of the engine uses.
// Returns an error if the string is malformed or names no legal move.
func ParseUCIMove(pos *board.Position, uci string) (board.Move, error) {
	if len(uci) < 4 {
		return board.Move{}, errors.Errorf("illegal move %q", uci)
	}
	from, err := board.SquareFromString(uci[0:2])
	if err != nil {
		return board.Move{}, errors.Wrapf(err, "illegal move %q", uci)
	}
	to, err := board.SquareFromString(uci[2:4])
	if err != nil {
		return board.Move{}, errors.Wrapf(err, "illegal move %q", uci)
	}

	if p := pos.Get(from); p.Figure() == board.King {
		if own := pos.Get(to); own != board.NoPiece && own.Color() == p.Color() && own.Figure() == board.Rook {
			if to > from {
				to = from + 2
			} else {
				to = from - 2
			}
		}
	}

	promo := byte(0)
	if len(uci) >= 5 {
		promo = uci[4]
	}

	for _, m := range pos.LegalMoves() {
		if m.From != from || m.To != to {
			continue
		}
		if m.MoveType == board.Promotion && promo != 0 && promotionLetter(m.Promotion()) != promo {
			continue
		}
		return m, nil
	}
	return board.Move{}, errors.Errorf("illegal move %q", uci)
}

func promotionLetter(p board.Piece) byte {
	switch p.Figure() {
	case board.Knight:
		return 'n'
	case board.Bishop:
		return 'b'
	case board.Rook:
		return 'r'
	case board.Queen:
		return 'q'
	}
	return 0
}

// Analyze runs iterative deepening under limit, invoking emit once per
// completed depth, and returns the BestMove for the search. It blocks the
// caller until the search stops; Stop (called from another goroutine) is
// how a host interrupts an infinite analysis. Analyze rejects a second
// concurrent call with errBusy: the engine is a single-session object.
func (f *Facade) Analyze(req AnalyzeRequest, emit Emit) (BestMove, error) {
	f.mu.Lock()
	if f.busy {
		f.mu.Unlock()
		return BestMove{}, &AnalyzeError{ID: req.ID, Message: errBusy.Error()}
	}
	f.busy = true
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.busy = false
		f.mu.Unlock()
	}()

	if err := f.SetPosition(req.FEN, req.Moves); err != nil {
		return BestMove{}, &AnalyzeError{ID: req.ID, Message: err.Error()}
	}
	if req.Options.Threads != 0 && req.Options.Threads != 1 {
		return BestMove{}, &AnalyzeError{ID: req.ID, Message: "threads must be 1"}
	}
	if req.Options.HashSizeMB > 0 {
		f.eng.Hash = NewHashTable(req.Options.HashSizeMB)
	}

	tc := timeControlFromLimit(f.eng.Position, req.Limit)
	f.setCurrent(tc)
	tc.Start(false)

	if !f.eng.Position.HasLegalMoves() {
		f.setCurrent(nil)
		return f.terminalBestMove(req, emit)
	}

	savedLog := f.eng.Log
	f.eng.Log = newFacadeLogger(req.ID, f.eng, emit)
	defer func() { f.eng.Log = savedLog }()

	var pv []board.Move
	func() {
		defer func() {
			if r := recover(); r != nil {
				pv = nil
			}
		}()
		pv = f.eng.Play(tc)
	}()
	f.setCurrent(nil)

	if len(pv) == 0 {
		return BestMove{}, &AnalyzeError{ID: req.ID, Message: "search aborted before any depth completed"}
	}

	best := BestMove{ID: req.ID, Best: uciMove(pv[0])}
	if len(pv) > 1 {
		best.Ponder = uciMove(pv[1])
	}
	return best, nil
}

// terminalBestMove handles a position with no legal moves at the root
// (checkmate or stalemate): the PV is empty by definition, so rather than
// force a fake BestMove.Best, one SearchInfo carrying the terminal score is
// emitted and BestMove.Best is left empty, the same shape a host would see
// from a resigned or already-over game.
func (f *Facade) terminalBestMove(req AnalyzeRequest, emit Emit) (BestMove, error) {
	score := int32(0)
	if f.eng.Position.IsChecked(f.eng.Position.SideToMove) {
		score = MatedScore
	}
	if emit != nil {
		emit(SearchInfo{ID: req.ID, Score: reportScore(score)})
	}
	return BestMove{ID: req.ID}, nil
}

// timeControlFromLimit translates a wire SearchLimit into the engine's
// TimeControl. A "nodes" limit has no direct TimeControl equivalent (the
// time manager only knows wall-clock and depth budgets), so it is mapped to
// the same unbounded-depth control as "infinite"; Engine.Stats.Nodes still
// lets a host emulate a node cutoff by calling Stop() once Nodes crosses
// the requested count.
func timeControlFromLimit(pos *board.Position, limit SearchLimit) *TimeControl {
	switch limit.Kind {
	case "depth":
		return NewFixedDepthTimeControl(pos, limit.Depth)
	case "time":
		return NewDeadlineTimeControl(pos, time.Duration(limit.MoveTimeMs)*time.Millisecond)
	default:
		return NewTimeControl(pos)
	}
}

func uciMove(m board.Move) string {
	return m.UCI()
}

func uciMoves(moves []board.Move) []string {
	r := make([]string, len(moves))
	for i, m := range moves {
		r[i] = m.UCI()
	}
	return r
}

// facadeLogger adapts the Engine's Logger callback to the façade's
// SearchInfo event shape, translating the engine's raw mate-distance score
// encoding into the wire tagged union as it goes.
type facadeLogger struct {
	id    string
	eng   *Engine
	emit  Emit
	start time.Time
}

func newFacadeLogger(id string, eng *Engine, emit Emit) *facadeLogger {
	return &facadeLogger{id: id, eng: eng, emit: emit}
}

func (fl *facadeLogger) BeginSearch() {
	fl.start = time.Now()
}

func (fl *facadeLogger) EndSearch() {}

func (fl *facadeLogger) PrintPV(stats Stats, score int32, pv []board.Move) {
	if fl.emit == nil {
		return
	}
	ms := time.Since(fl.start).Milliseconds()
	if ms <= 0 {
		ms = 1
	}
	fl.emit(SearchInfo{
		ID:       fl.id,
		Depth:    stats.Depth,
		SelDepth: stats.SelDepth,
		Nodes:    stats.Nodes,
		NPS:      stats.Nodes * 1000 / uint64(ms),
		TimeMs:   ms,
		Score:    reportScore(score),
		PV:       uciMoves(pv),
		HashFull: fl.eng.Hash.HashfullPerMille(),
	})
}

func (f *Facade) setCurrent(tc *TimeControl) {
	f.mu.Lock()
	f.current = tc
	f.mu.Unlock()
}

// Stop requests the in-flight analysis, if any, to abort at its next poll.
// A Stop with no analysis running is a no-op. Safe to call from a different
// goroutine than the one running Analyze.
func (f *Facade) Stop() {
	f.mu.Lock()
	tc := f.current
	f.mu.Unlock()
	if tc != nil {
		tc.Stop()
	}
}

// NewGame clears the transposition table generation, history, killers,
// countermove table, and pawn cache, so the next analysis starts without
// carrying state from a previous game.
func (f *Facade) NewGame() {
	f.eng.Hash.Clear()
	f.eng.history = &historyTable{}
	f.eng.stack = newStack()
	f.eng.pawns = &PawnCache{}
}
