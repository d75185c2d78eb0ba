package engine

import (
	"math"
	"sync"
	"time"

	"github.com/arcalight/corvid/board"
)

const (
	defaultMovesToGo    = 30 // default number of more moves expected to play
	defaultbranchFactor = 2  // default branching factor
)

// atomicFlag is a mutex-guarded bool that can only be set, never cleared
// except by replacing the whole struct.
type atomicFlag struct {
	lock sync.Mutex
	flag bool
}

func (af *atomicFlag) set() {
	af.lock.Lock()
	af.flag = true
	af.lock.Unlock()
}

func (af *atomicFlag) get() bool {
	af.lock.Lock()
	tmp := af.flag
	af.lock.Unlock()
	return tmp
}

// TimeControl splits the remaining clock time over the expected remaining
// moves and enforces both a soft (searchDeadline) and, implicitly through
// Stopped(), a hard cutoff.
type TimeControl struct {
	WTime, WInc time.Duration
	BTime, BInc time.Duration
	Depth       int
	MovesToGo   int

	numPieces  int
	sideToMove board.Color
	stopped    atomicFlag
	ponderhit  atomicFlag

	searchTime     time.Duration
	searchDeadline time.Time
	ponderTime     time.Duration
	ponderDeadline time.Time
}

// NewTimeControl returns a time control with no time limit, no depth limit,
// zero increment and the default moves-to-go.
func NewTimeControl(pos *board.Position) *TimeControl {
	inf := time.Duration(math.MaxInt64)
	return &TimeControl{
		WTime:      inf,
		WInc:       0,
		BTime:      inf,
		BInc:       0,
		Depth:      64,
		MovesToGo:  defaultMovesToGo,
		numPieces:  pos.NumPieces(),
		sideToMove: pos.SideToMove,
	}
}

// NewFixedDepthTimeControl returns a time control that stops exactly at depth.
func NewFixedDepthTimeControl(pos *board.Position, depth int) *TimeControl {
	tc := NewTimeControl(pos)
	tc.Depth = depth
	tc.MovesToGo = 1
	return tc
}

// NewDeadlineTimeControl returns a time control with a single fixed budget.
func NewDeadlineTimeControl(pos *board.Position, deadline time.Duration) *TimeControl {
	tc := NewTimeControl(pos)
	tc.WTime = deadline
	tc.BTime = deadline
	tc.MovesToGo = 1
	return tc
}

// thinkingTime computes how much of remaining time t (plus increment i) to
// spend this move.
func (tc *TimeControl) thinkingTime(t, i time.Duration) time.Duration {
	tmp := time.Duration(tc.MovesToGo)
	if tt := (t + (tmp-1)*i) / tmp; tt < t {
		return tt
	}
	return t
}

// Start arms the deadlines. Call as soon as the search begins so elapsed
// wall-clock time is accounted for correctly.
func (tc *TimeControl) Start(ponder bool) {
	// Branch more when there are more pieces on the board: with fewer
	// pieces there's less mobility and the hash table does more work.
	branchFactor := time.Duration(defaultbranchFactor)
	for np := tc.numPieces - 2; np > 0; np /= 6 {
		branchFactor++
	}

	// Pad branchFactor when few moves remain before the next time control.
	for i := 4; i > 0; i /= 2 {
		if tc.MovesToGo <= i {
			branchFactor++
		}
	}

	var otime, oinc time.Duration
	var ttime, tinc time.Duration
	if tc.sideToMove == board.White {
		otime, oinc = tc.WTime, tc.WInc
		ttime, tinc = tc.BTime, tc.BInc
	} else {
		otime, oinc = tc.BTime, tc.BInc
		ttime, tinc = tc.WTime, tc.WInc
	}

	tc.stopped = atomicFlag{}
	tc.ponderhit = atomicFlag{flag: !ponder}

	tc.searchTime = tc.thinkingTime(otime, oinc) / branchFactor
	tc.ponderTime = (tc.thinkingTime(ttime, tinc) + tc.searchTime/2) / branchFactor

	now := time.Now()
	tc.ponderDeadline = now.Add(tc.ponderTime)
	tc.searchDeadline = now.Add(tc.searchTime)
}

// NextDepth reports whether iterative deepening should start a new
// iteration at depth.
func (tc *TimeControl) NextDepth(depth int) bool {
	return depth <= tc.Depth && (depth <= 2 || !tc.Stopped())
}

// PonderHit switches the clock to the real (non-ponder) time budget.
func (tc *TimeControl) PonderHit() {
	tc.searchDeadline = time.Now().Add(tc.searchTime)
	tc.ponderhit.set()
}

// Aborted reports whether a ponder search was aborted before the ponder hit.
func (tc *TimeControl) Aborted() bool {
	return !tc.ponderhit.get() && tc.stopped.get()
}

// Stop requests the search to stop as soon as possible.
func (tc *TimeControl) Stop() {
	tc.stopped.set()
}

// Stopped reports whether the search has been asked to stop, checking the
// deadline each call so it is responsive without a separate timer goroutine.
func (tc *TimeControl) Stopped() bool {
	if tc.stopped.get() {
		return true
	}
	if tc.ponderhit.get() && time.Now().After(tc.searchDeadline) {
		tc.stopped.set()
		return true
	}
	if !tc.ponderhit.get() && time.Now().After(tc.ponderDeadline) {
		tc.stopped.set()
		return true
	}
	return false
}
