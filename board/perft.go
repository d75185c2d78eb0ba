// perft.go counts leaf nodes of the legal-move game tree to a fixed depth,
// the standard correctness/benchmark check for a move generator.
// https://www.chessprogramming.org/Perft
package board

// PerftCounters tallies leaf-node statistics for one perft run.
type PerftCounters struct {
	Nodes      uint64
	Captures   uint64
	Enpassant  uint64
	Castles    uint64
	Promotions uint64
}

// Add accumulates ot into co.
func (co *PerftCounters) Add(ot PerftCounters) {
	co.Nodes += ot.Nodes
	co.Captures += ot.Captures
	co.Enpassant += ot.Enpassant
	co.Castles += ot.Castles
	co.Promotions += ot.Promotions
}

type perftHashEntry struct {
	zobrist  uint64
	counters PerftCounters
	depth    int
}

// PerftHashTable optionally speeds up repeated perft runs by caching
// subtree counts keyed by (Zobrist key, depth).
type PerftHashTable []perftHashEntry

// NewPerftHashTable allocates a hash table with 2^bits entries.
func NewPerftHashTable(bits uint) PerftHashTable {
	return make(PerftHashTable, 1<<bits)
}

// Perft counts the perft leaf statistics to depth for pos, optionally using
// table to memoize subtrees (pass nil to disable).
func Perft(pos *Position, depth int, table PerftHashTable) PerftCounters {
	moves := make([]Move, 0, 256)
	return perft(pos, depth, table, &moves)
}

func perft(pos *Position, depth int, table PerftHashTable, moves *[]Move) PerftCounters {
	if depth == 0 {
		return PerftCounters{Nodes: 1}
	}

	if table != nil {
		index := pos.Zobrist() % uint64(len(table))
		if table[index].depth == depth && table[index].zobrist == pos.Zobrist() {
			return table[index].counters
		}
	}

	var r PerftCounters
	start := len(*moves)
	pos.GenerateMoves(All, moves)
	for start < len(*moves) {
		last := len(*moves) - 1
		move := (*moves)[last]
		*moves = (*moves)[:last]

		pos.DoMove(move)
		if pos.IsChecked(pos.SideToMove.Opposite()) {
			pos.UndoMove()
			continue
		}

		if depth == 1 {
			if move.Capture != NoPiece {
				r.Captures++
			}
			switch move.MoveType {
			case Enpassant:
				r.Enpassant++
			case Castling:
				r.Castles++
			case Promotion:
				r.Promotions++
			}
		}

		r.Add(perft(pos, depth-1, table, moves))
		pos.UndoMove()
	}

	if table != nil {
		index := pos.Zobrist() % uint64(len(table))
		table[index] = perftHashEntry{zobrist: pos.Zobrist(), counters: r, depth: depth}
	}
	return r
}

// PerftExpected holds the known-correct perft node counts for the three
// canonical test positions, indexed by depth (index 0 is the trivial depth-0
// count of 1).
var (
	PerftExpectedStartPos = []PerftCounters{
		{Nodes: 1},
		{Nodes: 20},
		{Nodes: 400},
		{Nodes: 8902, Captures: 34},
		{Nodes: 197281, Captures: 1576},
		{Nodes: 4865609, Captures: 82719, Enpassant: 258},
		{Nodes: 119060324, Captures: 2812008, Enpassant: 5248},
	}

	PerftExpectedKiwipete = []PerftCounters{
		{Nodes: 1},
		{Nodes: 48, Captures: 8, Castles: 2},
		{Nodes: 2039, Captures: 351, Enpassant: 1, Castles: 91},
		{Nodes: 97862, Captures: 17102, Enpassant: 45, Castles: 3162},
	}

	PerftExpectedDuplain = []PerftCounters{
		{Nodes: 1},
		{Nodes: 14, Captures: 1},
		{Nodes: 191, Captures: 14},
		{Nodes: 2812, Captures: 209, Enpassant: 2},
		{Nodes: 43238, Captures: 3348, Enpassant: 123},
		{Nodes: 674624, Captures: 52051, Enpassant: 1165},
		{Nodes: 11030083, Captures: 940350, Enpassant: 33325, Promotions: 7552},
	}
)
