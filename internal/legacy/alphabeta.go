package legacy

import (
	"context"

	"github.com/ruleforge/engine/pkg/eval"
	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/rulescript"
)

// AlphaBeta implements alpha-beta pruning to a fixed ply depth, over the
// same Script/Evaluator contract as Minimax. Stripped of any transposition
// table or quiescence layer: this is a reference oracle, not a production
// searcher, so it only needs to agree with pkg/search's Searcher on final
// score and move, not match its performance.
type AlphaBeta struct {
	Script rulescript.Script
	Eval   eval.Evaluator
}

func (a AlphaBeta) Search(ctx context.Context, pos *game.Position, depth int) (eval.Score, game.Move, bool) {
	return a.search(ctx, pos, depth, eval.LOSING, eval.WINNING)
}

func (a AlphaBeta) search(ctx context.Context, pos *game.Position, depth int, alpha, beta eval.Score) (eval.Score, game.Move, bool) {
	if c := a.Script.Classify(pos); c != rulescript.Other {
		return scoreFor(c, pos, a.Eval), game.Move{}, false
	}
	if depth == 0 {
		return a.Eval.Evaluate(pos), game.Move{}, false
	}

	moves := a.Script.ValidMoves(pos, nil)
	if len(moves) == 0 {
		return a.Eval.Evaluate(pos), game.Move{}, false
	}

	var bestMove game.Move
	for i, mv := range moves {
		prevBoard, prevSide := game.Apply(pos, mv)
		s, _, _ := a.search(ctx, pos, depth-1, eval.Negate(beta), eval.Negate(alpha))
		game.Unapply(pos, prevBoard, prevSide)

		s = eval.Negate(s)
		if i == 0 || s > alpha {
			alpha = s
			bestMove = mv
		}
		if alpha >= beta {
			break // beta cutoff
		}
	}
	return alpha, bestMove, true
}
