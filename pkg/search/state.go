package search

import (
	"sync"

	"go.uber.org/atomic"

	"github.com/ruleforge/engine/pkg/eval"
	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/rulescript"
	"github.com/ruleforge/engine/pkg/zobrist"
)

// NoChild marks BestChildIndex as unset.
const NoChild = ^uint32(0)

// SearchState is one node of the explicit search stack. A node is
// uniquely owned by whatever currently holds it: the shared stack, or the
// worker processing it; Parent is a non-owning back-reference, valid for as
// long as the parent remains reachable (enforced by PendingChildren never
// reaching zero until every child has reported).
type SearchState struct {
	Classification rulescript.Classification
	Position       *game.Position
	Hash           zobrist.Hash
	StaticScore    eval.Score
	Depth          int
	RootSide       uint8 // side to move at the root of this bound() call

	Parent    *SearchState
	MoveIndex int       // which child-of-parent this is, for killer/parent updates (-1 for a NullMove probe, which never updates its parent's Best/BestChildIndex)
	Move      game.Move // the move that produced this node from Parent (zero at the root)
	NullMove  bool      // true if this node is a null-move-reduced copy of its parent, run only to seed the killer table for Parent.Hash

	// Moves is the full, unfiltered move list returned by valid_moves() when
	// this node was expanded, index-aligned with MoveIndex: Moves[i] is the
	// move that produced the child whose MoveIndex == i. Bound() reads
	// root.Moves[root.BestChildIndex] to report the winning move.
	Moves []game.Move

	// Mutable fields below are guarded by mu; Cond signals whenever Best,
	// BestChildIndex, PendingChildren, or KillChildren change in a way a
	// waiter might care about.
	mu              sync.Mutex
	cond            *sync.Cond
	Best            eval.Score
	BestChildIndex  uint32
	PendingChildren int
	KillChildren    atomic.Bool

	// GThreshold is the g value computed at this node's first visit; per the resolved open question, tighten
	// always uses this node's own first-visit g, never a value recomputed
	// at completion time.
	GThreshold eval.Score
}

// NewSearchState constructs a node with Best = -infinity and
// BestChildIndex = none, its state before any child has reported.
func NewSearchState(parent *SearchState, moveIndex int, rootSide uint8) *SearchState {
	s := &SearchState{
		Parent:         parent,
		MoveIndex:      moveIndex,
		RootSide:       rootSide,
		Best:           eval.LOSING,
		BestChildIndex: NoChild,
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Key returns this node's transposition-cache key: hash XOR depth_nonce[depth + MIN_DEPTH].
func (s *SearchState) Key(t *zobrist.Table) uint64 {
	return uint64(s.Hash ^ t.DepthNonce(s.Depth))
}
