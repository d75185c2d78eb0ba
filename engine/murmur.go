package engine

import "github.com/arcalight/corvid/board"

// Murmur2-inspired mixing used to build small hash indexes (pawn cache,
// counter-move table) from a handful of board quantities.
const (
	murmurMultiplier = uint64(0xc6a4a7935bd1e995)
	murmurShift      = uint(51)
)

// murmurSeed gives each side-to-move (plus the "no color" sentinel) a
// distinct starting state so the same bitboards mixed for White don't
// collide with the mix for Black.
var murmurSeed = [board.ColorArraySize]uint64{
	0x77a166129ab66e91,
	0x4f4863d5038ea3a3,
	0xe14ec7e648a4068b,
}

// murmurMix folds k into running hash state h.
func murmurMix(k, h uint64) uint64 {
	h ^= k
	h *= murmurMultiplier
	h ^= h >> murmurShift
	return h
}

// moveHashKey packs the fields of m into a single uint32 for use as a
// multiplicative hash input. board.Move is a struct rather than the packed
// integer moves are sometimes encoded as, so fields are folded by hand.
func moveHashKey(m board.Move) uint32 {
	k := uint32(m.From)
	k = k<<6 | uint32(m.To)
	k = k<<8 | uint32(m.Capture)
	k = k<<8 | uint32(m.Target)
	k = k<<3 | uint32(m.MoveType)
	return k
}

// historyHash hashes a move into an index into a historyTable.
func historyHash(m board.Move) uint32 {
	h := moveHashKey(m) * 438650727
	return (h + (h << 17)) >> 22 & 1023
}
