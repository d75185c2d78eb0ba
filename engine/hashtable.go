// hashtable.go implements the transposition table.
package engine

import (
	"unsafe"

	"github.com/arcalight/corvid/board"
)

// DefaultHashTableSizeMB is the default transposition table size.
var DefaultHashTableSizeMB = 64

type hashFlags uint8

const (
	exact      hashFlags = 1 << iota // exact score is known
	failedLow                        // search failed low, score is an upper bound
	failedHigh                       // search failed high, score is a lower bound
	hasStatic                        // entry carries a static evaluation
)

// isInBounds reports whether score, combined with the stored bound kind,
// lets the caller reuse it directly at window [α, β).
func isInBounds(flags hashFlags, alpha, beta, score int32) bool {
	if flags&exact != 0 {
		return true
	}
	if flags&failedLow != 0 && score <= alpha {
		return true
	}
	if flags&failedHigh != 0 && score >= beta {
		return true
	}
	return false
}

// getBound classifies score relative to the search window.
func getBound(alpha, beta, score int32) hashFlags {
	if score <= alpha {
		return failedLow
	}
	if score >= beta {
		return failedHigh
	}
	return exact
}

// hashEntry is one transposition table slot.
type hashEntry struct {
	lock       uint32 // disambiguates hash collisions
	move       board.Move
	score      int16
	static     int16
	depth      int8
	generation uint8 // search generation this entry was written in
	kind       hashFlags
}

// HashTable caches position scores across the search tree so transpositions
// don't have to be researched. Each Zobrist key maps to two candidate
// slots; put() picks whichever the replacement policy prefers.
type HashTable struct {
	table      []hashEntry
	mask       uint32
	generation uint8
}

// NewHashTable builds a table that takes up to hashSizeMB megabytes, rounded
// down to a power-of-two entry count.
func NewHashTable(hashSizeMB int) *HashTable {
	entrySize := uint64(unsafe.Sizeof(hashEntry{}))
	size := uint64(hashSizeMB) << 20 / entrySize
	for size&(size-1) != 0 {
		size &= size - 1
	}
	if size == 0 {
		size = 1
	}
	return &HashTable{
		table: make([]hashEntry, size),
		mask:  uint32(size - 1),
	}
}

// Size returns the number of entries in the table.
func (ht *HashTable) Size() int {
	return int(ht.mask + 1)
}

// HashfullPerMille samples a fixed number of buckets and returns the
// fraction, in per-mille, that are occupied by the current generation —
// the UCI "hashfull" statistic.
func (ht *HashTable) HashfullPerMille() int {
	const sample = 1000
	n := sample
	if n > len(ht.table) {
		n = len(ht.table)
	}
	used := 0
	for i := 0; i < n; i++ {
		if ht.table[i].kind != 0 && ht.table[i].generation == ht.generation {
			used++
		}
	}
	if n == 0 {
		return 0
	}
	return used * 1000 / n
}

// NewSearch bumps the generation counter; entries from older generations are
// now preferred replacement targets.
func (ht *HashTable) NewSearch() {
	ht.generation++
}

// split splits the Zobrist key into a lock and two candidate table indexes.
func split(lock uint64, mask uint32) (uint32, uint32, uint32) {
	hi := uint32(lock >> 32)
	lo := uint32(lock)
	h0 := lo & mask
	h1 := h0 ^ (lo >> 29)
	return hi, h0, h1
}

// put stores entry, replacing whichever of the two candidate slots the
// policy prefers: an empty slot first, then a slot from an older
// generation, then a slot strictly shallower than entry, and otherwise keep
// what's there.
func (ht *HashTable) put(pos *board.Position, entry hashEntry) {
	lock, key0, key1 := split(pos.Zobrist(), ht.mask)
	entry.lock = lock
	entry.generation = ht.generation

	a, b := &ht.table[key0], &ht.table[key1]
	for _, e := range [2]*hashEntry{a, b} {
		if e.lock == lock {
			*e = entry
			return
		}
	}
	var target *hashEntry
	switch {
	case a.kind == 0:
		target = a
	case b.kind == 0:
		target = b
	case a.generation != ht.generation:
		target = a
	case b.generation != ht.generation:
		target = b
	case a.depth <= b.depth && a.depth < entry.depth:
		target = a
	case b.depth < a.depth && b.depth < entry.depth:
		target = b
	default:
		return
	}
	*target = entry
}

// get returns the entry matching pos's Zobrist key, or the zero value if
// there is no match (a rare hash collision may return an unrelated entry;
// callers must verify the move is still pseudo-legal before playing it).
func (ht *HashTable) get(pos *board.Position) hashEntry {
	lock, key0, key1 := split(pos.Zobrist(), ht.mask)
	if ht.table[key0].lock == lock {
		return ht.table[key0]
	}
	if ht.table[key1].lock == lock {
		return ht.table[key1]
	}
	return hashEntry{}
}

// Clear empties the table.
func (ht *HashTable) Clear() {
	for i := range ht.table {
		ht.table[i] = hashEntry{}
	}
	ht.generation = 0
}
