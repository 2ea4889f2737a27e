// Package search implements the engine's core: the concurrent transposition
// cache and killer table, the cooperative worker pool, and the MTD(f)
// null-window explicit-stack searcher. Unlike the call-stack-recursive
// single-threaded searchers kept in internal/legacy for comparison, this
// one expands the tree as an iterative, cooperative walk over an explicit
// stack so worker goroutines can pick up sibling subtrees.
package search

import (
	"context"
	"sort"

	"github.com/ruleforge/engine/pkg/eval"
	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/rulescript"
	"github.com/ruleforge/engine/pkg/zobrist"
)

// Searcher ties the concurrent infrastructure together into the MTD(f)
// null-window search: given a target gamma, Bound determines whether the
// root's true minimax value is >= gamma or < gamma.
type Searcher struct {
	// NewScript returns a fresh rule-script handle. The bridge is not
	// thread-safe; every pool worker gets its own, and the calling
	// participant reuses the handle that classified the root.
	NewScript func() rulescript.Script
	Table     *zobrist.Table
	Cache     *Cache
	Killer    *KillerTable
	Pool      *Pool
	Eval      eval.Evaluator
}

func NewSearcher(newScript func() rulescript.Script, table *zobrist.Table, cache *Cache, killer *KillerTable, pool *Pool, ev eval.Evaluator) *Searcher {
	return &Searcher{NewScript: newScript, Table: table, Cache: cache, Killer: killer, Pool: pool, Eval: ev}
}

// scoreFor returns the static score for a position already classified as c,
// clamping terminal classifications to the WINNING/LOSING/0 sentinels.
func scoreFor(c rulescript.Classification, p *game.Position, ev eval.Evaluator) eval.Score {
	switch c {
	case rulescript.Win:
		return eval.WINNING
	case rulescript.Loss:
		return eval.LOSING
	case rulescript.Draw:
		return 0
	default:
		return ev.Evaluate(p)
	}
}

// Bound performs one MTD(f) null-window test against gamma at the given
// depth, returning the move that achieves the reported score, the score
// itself, and whether a child of root reported that score. The bool is
// false when root has no legal move, and also when root is resolved
// without searching its children (a cache bound, stand-pat, or the
// leaf-quiescence cut); the returned move is then the zero Move.
func (sr *Searcher) Bound(ctx context.Context, root *game.Position, gamma eval.Score, depth int) (game.Move, eval.Score, bool) {
	rootScript := sr.NewScript()
	rootSide := root.NextPlayer

	rootState := NewSearchState(nil, 0, rootSide)
	rootState.Position = root.Clone()
	rootState.Classification = rootScript.Classify(rootState.Position)
	rootState.Hash = sr.Table.Hash(rootState.Position)
	rootState.StaticScore = scoreFor(rootState.Classification, rootState.Position, sr.Eval)
	rootState.Depth = depth

	st := newStack(rootState)

	sr.Pool.Run(func(workerID int) {
		script := rootScript
		if workerID != sr.Pool.Workers() {
			script = sr.NewScript()
		}

		for {
			node, ok := st.pop()
			if !ok {
				return
			}
			sr.visit(script, st, node, gamma)
			st.done()
		}
	})

	rootState.mu.Lock()
	best := rootState.Best
	bestChild := rootState.BestChildIndex
	rootState.mu.Unlock()

	if bestChild == NoChild || int(bestChild) >= len(rootState.Moves) {
		return game.Move{}, best, false
	}
	return rootState.Moves[bestChild], best, true
}

// visit runs a node through the node-expansion protocol and, once its
// children (if any) have all reported, the completion protocol -- both
// phases performed by the same worker, which blocks on s's own condition
// variable between them while other workers keep draining the shared
// stack. This realizes "at most two passes through the work loop" per node
// without ever re-popping s itself: the worker that pushed s's
// children IS the thread that eventually performs s's second-visit /
// completion, which sidesteps the race of some other worker popping s back
// off the stack before its children are ready.
func (sr *Searcher) visit(script rulescript.Script, st *stack, s *SearchState, gamma eval.Score) {
	g := gamma
	if s.Position.NextPlayer == s.RootSide {
		g = 1 - gamma // negamax re-flip
	}
	s.GThreshold = g

	// Step 2: a cutoff found by a sibling already dooms this subtree.
	if s.Parent != nil && s.Parent.KillChildren.Load() {
		s.KillChildren.Store(true)
		sr.complete(s, eval.LOSING)
		return
	}

	// Step 3: transposition cache short-circuit.
	key := s.Key(sr.Table)
	if w, ok := sr.Cache.Probe(key); ok {
		if w.Lo >= g {
			sr.complete(s, w.Lo)
			return
		}
		if w.Hi < g {
			sr.complete(s, w.Hi)
			return
		}
	}

	// Step 4: stand-pat in quiescence.
	if s.Depth <= 0 && s.StaticScore >= g {
		sr.complete(s, s.StaticScore)
		return
	}

	// Step 5: depth floor or terminal classification.
	if s.Depth <= -MinDepth || s.Classification != rulescript.Other {
		sr.complete(s, s.StaticScore)
		return
	}

	// Step 6: null-move reduction -- a killer-seeding probe only. Its
	// result is discarded; s is still expanded over its real children
	// below, same as the recursion this was distilled from, which calls
	// bound() at depth-3 purely for the side effect of populating
	// killer_move[s.hash] before searching every real move.
	if _, hasKiller := sr.Killer.Get(uint64(s.Hash)); !hasKiller && s.Depth > 2 && !s.NullMove {
		sr.nullMove(st, s)
	}

	// Steps 7-9: enumerate, order, and futility-prune children.
	children := sr.expand(script, s)
	if len(children) == 0 {
		// Internal: Classification == Other guarantees valid_moves is
		// non-empty; reaching here means the script broke that
		// contract.
		sr.complete(s, s.StaticScore)
		return
	}

	// Step 10: leaf quiescence -- the best-ordered child's one-ply static
	// score is already conclusive; don't bother recursing.
	if s.Depth <= 1 {
		negated := eval.Negate(children[0].StaticScore)
		if negated < g {
			sr.complete(s, negated)
			return
		}
	}

	// Step 11: push children, wait for them, then complete.
	sr.fork(st, s, children)
}

// nullMove implements step 6: a single child sharing s's position (no move
// applied) at depth-3, pushed and waited on purely to seed the killer
// table for s.Hash before s itself is expanded -- its reported score is
// never attributed to s (see Searcher.complete's NullMove check).
func (sr *Searcher) nullMove(st *stack, s *SearchState) {
	child := NewSearchState(s, -1, s.RootSide)
	child.Position = s.Position
	child.Classification = s.Classification
	child.Hash = s.Hash // same hash as s: the aliasing the design notes flag
	child.StaticScore = s.StaticScore
	child.Depth = s.Depth - 3
	child.NullMove = true

	s.mu.Lock()
	s.PendingChildren = 1
	s.mu.Unlock()

	st.push(child)

	s.mu.Lock()
	for s.PendingChildren > 0 {
		s.cond.Wait()
	}
	s.mu.Unlock()
}

// fork pushes children, blocks the current worker on s's own children-done
// signal, and then runs s's completion step.
func (sr *Searcher) fork(st *stack, s *SearchState, children []*SearchState) {
	s.mu.Lock()
	s.PendingChildren = len(children)
	s.mu.Unlock()

	st.push(children...)

	s.mu.Lock()
	for s.PendingChildren > 0 {
		s.cond.Wait()
	}
	best := s.Best
	s.mu.Unlock()

	sr.complete(s, best)
}

// complete runs the completion / parent-update protocol.
func (sr *Searcher) complete(s *SearchState, best eval.Score) {
	s.mu.Lock()
	s.Best = best
	bestChild := s.BestChildIndex
	s.mu.Unlock()

	if bestChild != NoChild {
		sr.Killer.InsertOrReplace(uint64(s.Hash), bestChild)
	}
	sr.Cache.Tighten(s.Key(sr.Table), best, s.GThreshold)

	parent := s.Parent
	if parent == nil {
		return // root: Best/BestChildIndex already hold the search result.
	}

	if s.NullMove {
		// A killer-seeding probe's score is not a value of parent: parent
		// is expanded over its real children after this just unblocks
		// nullMove's wait.
		parent.mu.Lock()
		parent.PendingChildren--
		done := parent.PendingChildren == 0
		parent.mu.Unlock()

		if done {
			parent.cond.Broadcast()
		}
		return
	}

	candidate := eval.Negate(best)

	parent.mu.Lock()
	if candidate > parent.Best {
		parent.Best = candidate
		parent.BestChildIndex = uint32(s.MoveIndex)
	}
	if candidate > parent.GThreshold {
		parent.KillChildren.Store(true) // cutoff: siblings should abort
	}
	parent.PendingChildren--
	done := parent.PendingChildren == 0
	parent.mu.Unlock()

	if done {
		parent.cond.Broadcast()
	}
}

// expandCandidate is scratch state for one move during ordering, before it is promoted to a full child SearchState.
type expandCandidate struct {
	index          int
	move           game.Move
	classification rulescript.Classification
	hash           zobrist.Hash
	score          eval.Score
}

// expand enumerates s's legal moves, orders them (killer first, then
// ascending static score -- a child with a low score from its OWN mover's
// perspective is a good outcome for s, so trying those first surfaces
// likely cutoffs soonest), applies futility pruning, and returns the
// surviving children as SearchStates with s.Moves populated for later move
// lookup.
func (sr *Searcher) expand(script rulescript.Script, s *SearchState) []*SearchState {
	moves := script.ValidMoves(s.Position, nil)
	s.Moves = moves
	if len(moves) == 0 {
		return nil
	}

	cands := make([]expandCandidate, len(moves))
	for i, m := range moves {
		// Hash must be updated from the pre-move board; Apply below mutates
		// s.Position in place, so compute it first.
		childHash := sr.Table.Move(s.Hash, s.Position, m)

		prevBoard, prevSide := game.Apply(s.Position, m)
		classification := script.Classify(s.Position)
		score := scoreFor(classification, s.Position, sr.Eval)
		game.Unapply(s.Position, prevBoard, prevSide)

		cands[i] = expandCandidate{index: i, move: m, classification: classification, hash: childHash, score: score}
	}

	killer, ok := sr.killerIndex(s)
	if !ok {
		killer = -1 // no killer recorded: no candidate is moved to the front
	}
	ordered := orderCandidates(cands, killer)

	minScore := s.StaticScore + QS - QSA*eval.Score(s.Depth)
	children := make([]*SearchState, 0, len(ordered))
	for i, c := range ordered {
		if i > 0 && eval.Negate(c.score) < minScore {
			// Futility: once the negated (parent-perspective) score of a
			// non-killer, non-first candidate dips below the threshold,
			// every later one in ascending order is at least as bad, so
			// nothing past this point is worth exploring either.
			break
		}

		childPos := s.Position.Clone()
		game.Apply(childPos, c.move)

		child := NewSearchState(s, c.index, s.RootSide)
		child.Position = childPos
		child.Classification = c.classification
		child.Hash = c.hash
		child.StaticScore = c.score
		child.Depth = s.Depth - 1
		child.Move = c.move
		children = append(children, child)
	}
	return children
}

func (sr *Searcher) killerIndex(s *SearchState) (int, bool) {
	idx, ok := sr.Killer.Get(uint64(s.Hash))
	return int(idx), ok
}

// orderCandidates puts the killer move (if any and still a legal index)
// first -- exempt from futility pruning, same as the original source's
// unconditional killer slot -- then sorts the rest by ASCENDING static
// score. A low static score on a child is, after the parent's negamax
// flip, a high value for the parent: sorting ascending tries the
// candidates most likely to produce a cutoff first (see DESIGN.md for why
// this is ascending rather than the reverse, resolved against the original
// source this was distilled from, which is also the only order consistent
// with a mate-in-one being tried before being pruned).
func orderCandidates(cands []expandCandidate, killer int) []expandCandidate {
	var first *expandCandidate
	rest := make([]expandCandidate, 0, len(cands))
	for i := range cands {
		if cands[i].index == killer && first == nil {
			c := cands[i]
			first = &c
			continue
		}
		rest = append(rest, cands[i])
	}

	sort.SliceStable(rest, func(i, j int) bool { return rest[i].score < rest[j].score })

	if first == nil {
		return rest
	}
	return append([]expandCandidate{*first}, rest...)
}
