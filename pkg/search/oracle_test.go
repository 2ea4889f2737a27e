package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruleforge/engine/internal/legacy"
	"github.com/ruleforge/engine/pkg/eval"
	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/rulescript/toy1d"
	"github.com/ruleforge/engine/pkg/search"
)

// TestSearcherAgreesWithLegacyOracles checks the explicit-stack MTD(f)
// searcher's score against the recursive reference searchers in
// internal/legacy on the small, fully-enumerable 1-D race game: all three
// must agree on the minimax value of the root at a fixed depth, since the
// game tree is small enough for Minimax/AlphaBeta to explore it
// exhaustively.
func TestSearcherAgreesWithLegacyOracles(t *testing.T) {
	ctx := context.Background()
	script := toy1d.Script{}
	root := script.InitialPosition()

	const depth = 4

	mm := legacy.Minimax{Script: script, Eval: eval.PieceSquare{}}
	mmScore, _, mmOK := mm.Search(ctx, root.Clone(), depth)
	require.True(t, mmOK)

	ab := legacy.AlphaBeta{Script: script, Eval: eval.PieceSquare{}}
	abScore, _, abOK := ab.Search(ctx, root.Clone(), depth)
	require.True(t, abOK)

	assert.Equal(t, mmScore, abScore, "minimax and alpha-beta must agree exactly")

	sr := newToy1dSearcher(4)
	srScore := bisectExactScore(ctx, t, sr, root, depth)

	assert.Equal(t, mmScore, srScore, "explicit-stack searcher must agree with the recursive oracles")
}

// bisectExactScore runs the same MTD(f) null-window bisection pkg/driver
// performs, at a single fixed depth, until the window collapses to an exact
// value -- i.e. EvalRoughness = 0 rather than the driver's default
// tolerance, since this test wants the precise minimax value, not just a
// value within the driver's normal convergence band.
func bisectExactScore(ctx context.Context, t *testing.T, sr *search.Searcher, root *game.Position, depth int) eval.Score {
	t.Helper()

	lo, hi := eval.LOSING, eval.WINNING
	var score eval.Score
	for hi > lo {
		mid := (hi + lo + 1) / 2
		_, s, ok := sr.Bound(ctx, root, mid, depth)
		require.True(t, ok)
		score = s
		if s >= mid {
			lo = s
		} else {
			hi = s - 1
		}
	}
	return score
}
