// Package legacy holds single-threaded, call-stack-recursive reference
// searchers (Minimax, AlphaBeta), useful for comparison and validation
// against pkg/search's explicit-stack MTD(f) searcher on small,
// fully-enumerable game trees. Not reachable from cmd/ruleforge; exercised
// only by pkg/search's own tests (see pkg/search/oracle_test.go).
package legacy

import (
	"context"

	"github.com/ruleforge/engine/pkg/eval"
	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/rulescript"
)

// Minimax implements naive minimax search to a fixed ply depth, returning
// the score from root.NextPlayer's perspective and the move that achieves
// it (false if the position is already terminal or has no legal move).
type Minimax struct {
	Script rulescript.Script
	Eval   eval.Evaluator
}

func (m Minimax) Search(ctx context.Context, pos *game.Position, depth int) (eval.Score, game.Move, bool) {
	return m.search(ctx, pos, depth)
}

func (m Minimax) search(ctx context.Context, pos *game.Position, depth int) (eval.Score, game.Move, bool) {
	if c := m.Script.Classify(pos); c != rulescript.Other {
		return scoreFor(c, pos, m.Eval), game.Move{}, false
	}
	if depth == 0 {
		return m.Eval.Evaluate(pos), game.Move{}, false
	}

	moves := m.Script.ValidMoves(pos, nil)
	if len(moves) == 0 {
		return m.Eval.Evaluate(pos), game.Move{}, false
	}

	best := eval.Score(0)
	var bestMove game.Move
	for i, mv := range moves {
		prevBoard, prevSide := game.Apply(pos, mv)
		s, _, _ := m.search(ctx, pos, depth-1)
		game.Unapply(pos, prevBoard, prevSide)

		s = eval.Negate(s)
		if i == 0 || s > best {
			best = s
			bestMove = mv
		}
	}
	return best, bestMove, true
}

// scoreFor clamps a terminal classification to the search's sentinel
// scores, matching pkg/search's own convention.
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
