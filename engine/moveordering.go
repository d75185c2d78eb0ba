// moveordering.go generates and orders moves for the search. Generation is
// staged so that a beta cutoff from an early phase (hash move, good capture,
// killer) can avoid the cost of generating and sorting quiet moves entirely.
package engine

import "github.com/arcalight/corvid/board"

const (
	msHash          = iota // return hash move
	msGenViolent           // generate violent moves
	msReturnViolent        // return violent moves in order
	msGenKiller            // generate killer moves
	msReturnKiller         // return killer moves in order
	msGenRest              // generate remaining moves
	msReturnRest           // return remaining moves in order
	msDone                 // all moves returned
)

// mvvlvaBonus is indexed by figure; values based on one pawn = 10.
var mvvlvaBonus = [...]int16{0, 10, 40, 45, 68, 145, 256}

// historyEntry keeps the running score of how well a move performed the
// last time it was searched.
type historyEntry struct {
	stat int32
	move board.Move
}

// historyTable is an approx.-LRU hash table of move history: old entries
// are evicted automatically when a new move hashes to the same slot.
type historyTable [1024]historyEntry

func (ht *historyTable) get(m board.Move) int32 {
	h := historyHash(m)
	if ht[h].move != m {
		return 0
	}
	return ht[h].stat
}

func (ht *historyTable) add(m board.Move, delta int32) {
	h := historyHash(m)
	if ht[h].move != m {
		ht[h] = historyEntry{stat: delta, move: m}
	} else {
		ht[h].stat += delta
	}
}

// mvvlva scores m for move ordering: Most Valuable Victim / Least Valuable
// Aggressor for captures, history heuristic for quiet moves.
func mvvlva(h *historyTable, m board.Move) int16 {
	if m.IsQuiet() {
		// Start at a very low score so quiets never outrank a capture.
		return int16(-20000 + h.get(m))
	}
	a := m.Target.Figure()
	v := m.Capture.Figure()
	return mvvlvaBonus[v]*64 - mvvlvaBonus[a]
}

// moveStack holds the moves and per-ply state for one ply of the search.
type moveStack struct {
	moves []board.Move
	order []int16

	kind   int
	state  int
	hash   board.Move
	killer [3]board.Move // two killer moves and one counter move
}

// stack is the per-ply moveStack, indexed by the position's current ply.
type stack struct {
	position *board.Position
	moves    []moveStack
	history  *historyTable
	counter  *[1 << 11]board.Move
}

func newStack() *stack {
	return &stack{
		history: &historyTable{},
		counter: &[1 << 11]board.Move{},
	}
}

// Reset clears the stack for a new position.
func (st *stack) Reset(pos *board.Position) {
	st.position = pos
	st.moves = st.moves[:0]
}

func (st *stack) get() *moveStack {
	for len(st.moves) <= st.position.Ply {
		st.moves = append(st.moves, moveStack{
			moves: make([]board.Move, 0, 16),
			order: make([]int16, 0, 16),
		})
	}
	return &st.moves[st.position.Ply]
}

// GenerateMoves arms move generation for the current ply: kind bounds which
// move classes will ever be produced, hash is the transposition-table move
// to try first.
func (st *stack) GenerateMoves(kind int, hash board.Move) {
	ms := st.get()
	ms.moves = ms.moves[:0]
	ms.order = ms.order[:0]
	ms.kind = kind
	ms.state = msHash
	ms.hash = hash
	ms.killer[2] = board.NullMove()
}

func (st *stack) generateMoves(kind int) {
	ms := &st.moves[st.position.Ply]
	if len(ms.moves) != 0 || len(ms.order) != 0 {
		panic("moveordering: expected no moves pending")
	}
	if ms.kind&kind == 0 {
		return
	}
	st.position.GenerateMoves(ms.kind&kind, &ms.moves)
	for _, m := range ms.moves {
		ms.order = append(ms.order, mvvlva(st.history, m))
	}
	st.sort()
}

// shellSortGaps are from Best Increments for the Average Case of Shellsort,
// Marcin Ciura.
var shellSortGaps = [...]int{132, 57, 23, 10, 4, 1}

func (st *stack) sort() {
	ms := &st.moves[st.position.Ply]
	for _, gap := range shellSortGaps {
		for i := gap; i < len(ms.order); i++ {
			j := i
			to, tm := ms.order[j], ms.moves[j]
			for ; j >= gap && ms.order[j-gap] > to; j -= gap {
				ms.order[j] = ms.order[j-gap]
				ms.moves[j] = ms.moves[j-gap]
			}
			ms.order[j], ms.moves[j] = to, tm
		}
	}
}

func (st *stack) popFront() board.Move {
	ms := &st.moves[st.position.Ply]
	if len(ms.moves) == 0 {
		return board.NullMove()
	}
	last := len(ms.moves) - 1
	move := ms.moves[last]
	ms.moves = ms.moves[:last]
	ms.order = ms.order[:last]
	return move
}

// PopMove returns the next move to search at the current ply, in phase
// order: the hash move, then violent moves (best first), then killers,
// then the rest. Returns NullMove once all moves have been returned.
func (st *stack) PopMove() board.Move {
	ms := &st.moves[st.position.Ply]
	for {
		switch ms.state {
		case msHash:
			ms.state = msGenViolent
			if st.position.IsPseudoLegal(ms.hash) {
				return ms.hash
			}

		case msGenViolent:
			ms.state = msReturnViolent
			st.generateMoves(board.Violent)

		case msReturnViolent:
			if m := st.popFront(); m == board.NullMove() {
				if ms.kind&board.Quiet == 0 {
					ms.state = msDone
				} else {
					ms.state = msGenKiller
				}
			} else if m != ms.hash {
				return m
			}

		case msGenKiller:
			ms.state = msReturnKiller
			cm := st.counter[st.counterIndex()]
			if cm != ms.killer[0] && cm != ms.killer[1] && cm != board.NullMove() {
				ms.killer[2] = cm
				ms.moves = append(ms.moves, cm)
				ms.order = append(ms.order, -2)
			}
			if m := ms.killer[1]; m != board.NullMove() {
				ms.moves = append(ms.moves, m)
				ms.order = append(ms.order, -1)
			}
			if m := ms.killer[0]; m != board.NullMove() {
				ms.moves = append(ms.moves, m)
				ms.order = append(ms.order, 0)
			}

		case msReturnKiller:
			if m := st.popFront(); m == board.NullMove() {
				ms.state = msGenRest
			} else if m != ms.hash && st.position.IsPseudoLegal(m) {
				return m
			}

		case msGenRest:
			ms.state = msReturnRest
			st.generateMoves(board.Quiet)

		case msReturnRest:
			if m := st.popFront(); m == board.NullMove() {
				ms.state = msDone
			} else if m == ms.hash || st.IsKiller(m) {
				break
			} else {
				return m
			}

		case msDone:
			return board.NullMove()
		}
	}
}

// IsKiller reports whether m is a killer or counter move at the current ply.
func (st *stack) IsKiller(m board.Move) bool {
	ms := &st.moves[st.position.Ply]
	return m == ms.killer[0] || m == ms.killer[1] || m == ms.killer[2]
}

// SaveKiller records m as a killer move after it caused a beta cutoff.
func (st *stack) SaveKiller(m board.Move) {
	ms := &st.moves[st.position.Ply]
	if !m.IsViolent() {
		st.counter[st.counterIndex()] = m
		if m != ms.killer[0] {
			ms.killer[1] = ms.killer[0]
			ms.killer[0] = m
		}
	}
}

// counterIndex hashes the last move played into an index into the counter
// move table.
func (st *stack) counterIndex() int {
	pos := st.position
	hash := murmurMix(uint64(moveHashKey(pos.LastMove())), murmurSeed[pos.SideToMove])
	return int(hash % uint64(len(st.counter)))
}
