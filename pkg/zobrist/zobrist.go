// Package zobrist implements the engine's position hasher: a seeded
// math/rand table of generic (piece, square) + side-to-move keys built
// once at construction, with incremental update on move, plus per-depth
// nonces so transposition-cache entries at different remaining depths
// never alias.
package zobrist

import (
	"math/rand"

	"github.com/ruleforge/engine/pkg/game"
)

// Hash is a Zobrist position hash.
type Hash uint64

// DefaultSeed is the engine's default table seed.
const DefaultSeed int64 = 123

// MinDepth and MaxDepth bound the depth nonce table; depth is clamped to
// [-MinDepth, MaxDepth].
const (
	MinDepth = 16
	MaxDepth = 128
)

// Table holds the random keys used to hash positions and to distinguish
// cache entries computed at different remaining search depths.
type Table struct {
	pieces [256][game.MaxSquares]Hash // indexed by piece code, not just 0..12 (scripts may use more)
	side   Hash
	nonce  [MinDepth + MaxDepth + 1]Hash
}

// NewTable builds a hash table from the given seed. Deterministic: the same
// seed always yields the same keys.
func NewTable(seed int64) *Table {
	r := rand.New(rand.NewSource(seed))

	t := &Table{}
	for piece := 0; piece < 256; piece++ {
		for sq := 0; sq < game.MaxSquares; sq++ {
			t.pieces[piece][sq] = Hash(r.Uint64())
		}
	}
	t.side = Hash(r.Uint64())
	for i := range t.nonce {
		t.nonce[i] = Hash(r.Uint64())
	}
	return t
}

// DepthNonce returns depth_nonce[depth + MinDepth]. depth may be negative
// (under null-move reductions) but must stay within [-MinDepth, MaxDepth].
func (t *Table) DepthNonce(depth int) Hash {
	idx := depth + MinDepth
	if idx < 0 {
		idx = 0
	}
	if idx >= len(t.nonce) {
		idx = len(t.nonce) - 1
	}
	return t.nonce[idx]
}

// Hash computes the full hash of a position: XOR of all occupied
// (piece, square) keys, XOR the side key if NextPlayer == 1.
func (t *Table) Hash(p *game.Position) Hash {
	var h Hash
	n := p.Size()
	for i := 0; i < n; i++ {
		if code := p.Board[i]; code != 0 {
			h ^= t.pieces[code][i]
		}
	}
	if p.NextPlayer == 1 {
		h ^= t.side
	}
	return h
}

// Move computes the hash after applying m to a position whose hash was h,
// incrementally: XOR out every square whose code changed, XOR in the new
// code, toggle the side key. Correctness requires
// hash(apply(p, m)) == Move(hash(p), p, m); diffuse changes (e.g. castling)
// are handled by XORing out/in every differing square rather than trying to
// special-case them, which keeps the incremental update correct for any rule
// script's move shape.
func (t *Table) Move(h Hash, p *game.Position, m game.Move) Hash {
	n := p.Size()
	for i := 0; i < n; i++ {
		before := p.Board[i]
		after := m.Board[i]
		if before == after {
			continue
		}
		if before != 0 {
			h ^= t.pieces[before][i]
		}
		if after != 0 {
			h ^= t.pieces[after][i]
		}
	}
	h ^= t.side
	return h
}
