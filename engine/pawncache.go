// pawncache.go caches pawn-structure evaluation. Pawn shape changes rarely
// relative to the rest of the position (pawns move one file at a time, if
// at all), so memoizing it on the pawn+king bitboards pays for itself.
package engine

import "github.com/arcalight/corvid/board"

const pawnCacheBits = 13

// pawnCacheEntry is one slot: the lock disambiguates collisions, and the
// two scores are this pawn structure's contribution to White's and Black's
// side of the evaluation respectively.
type pawnCacheEntry struct {
	lock  uint64
	white Score
	black Score
}

// PawnCache is a fixed-size, always-replace cache of pawn-structure scores.
type PawnCache [1 << pawnCacheBits]pawnCacheEntry

func (c *PawnCache) put(lock uint64, white, black Score) {
	idx := lock & uint64(len(c)-1)
	c[idx] = pawnCacheEntry{lock, white, black}
}

func (c *PawnCache) get(lock uint64) (Score, Score, bool) {
	idx := lock & uint64(len(c)-1)
	e := &c[idx]
	return e.white, e.black, e.lock == lock
}

// Load returns the pawn-structure evaluation for both sides in pos, using
// the cache when the pawn+king shape has been seen before.
func (c *PawnCache) Load(pos *board.Position) (white, black Score) {
	h := pawnCacheHash(pos)
	white, black, ok := c.get(h)
	if !ok {
		white = evaluatePawnsAndShelter(pos, board.White)
		black = evaluatePawnsAndShelter(pos, board.Black)
		c.put(h, white, black)
	}
	return white, black
}

// pawnCacheHash mixes the two kings and the pawn bitboard; kings are
// included because pawn shelter scoring depends on where the king sits
// relative to its own pawns.
func pawnCacheHash(pos *board.Position) uint64 {
	h := murmurSeed[pos.SideToMove]
	h = murmurMix(h, uint64(pos.ByPiece(board.White, board.King)))
	h = murmurMix(h, uint64(pos.ByPiece(board.Black, board.King)))
	h = murmurMix(h, uint64(pos.ByFigure[board.Pawn]))
	return h
}
