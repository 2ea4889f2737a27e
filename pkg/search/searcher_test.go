package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruleforge/engine/pkg/eval"
	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/rulescript"
	"github.com/ruleforge/engine/pkg/rulescript/chess"
	"github.com/ruleforge/engine/pkg/rulescript/toy1d"
	"github.com/ruleforge/engine/pkg/search"
	"github.com/ruleforge/engine/pkg/zobrist"
)

func newToy1dSearcher(workers int) *search.Searcher {
	return search.NewSearcher(
		func() rulescript.Script { return toy1d.Script{} },
		zobrist.NewTable(zobrist.DefaultSeed),
		search.NewCache(),
		search.NewKillerTable(),
		search.NewPool(workers),
		eval.PieceSquare{},
	)
}

// TestBoundFindsForcedWinInRaceGame exercises the whole searcher against the
// deterministic 1-D race script: with side 0's token one step away from its
// goal, the only legal move wins outright. depth=1 keeps this below the
// null-move reduction's depth>2 threshold, so the root is fully expanded
// rather than taking the reduced-depth probe.
func TestBoundFindsForcedWinInRaceGame(t *testing.T) {
	sr := newToy1dSearcher(4)

	root := &game.Position{Width: toy1d.Width, Height: 1}
	root.Set(game.Coordinate{Row: 0, Col: toy1d.Lane - 2}, toy1d.Side0)
	root.Set(game.Coordinate{Row: 0, Col: toy1d.Width - 1}, toy1d.Side1)

	move, score, ok := sr.Bound(context.Background(), root, 0, 1)
	require.True(t, ok)
	assert.Equal(t, eval.WINNING, score)
	assert.Equal(t, game.Coordinate{Row: 0, Col: toy1d.Lane - 2}, move.From)
	assert.Equal(t, game.Coordinate{Row: 0, Col: toy1d.Lane - 1}, move.To)
}

// TestBoundIsDeterministicAcrossWorkerCounts checks that the reported score
// does not depend on how many workers cooperate over the stack -- the
// result is a property of the game tree, not the scheduling. Ties in score
// may resolve to different (equally good) moves depending on completion
// order, so only the score is compared. depth=2 again stays clear of the
// null-move threshold so the whole 2-ply tree is genuinely explored.
func TestBoundIsDeterministicAcrossWorkerCounts(t *testing.T) {
	s := toy1d.Script{}
	root := s.InitialPosition()

	var scores []eval.Score
	for _, workers := range []int{1, 2, 8} {
		sr := newToy1dSearcher(workers)
		_, score, ok := sr.Bound(context.Background(), root, 0, 2)
		require.True(t, ok)
		scores = append(scores, score)
	}
	for _, sc := range scores[1:] {
		assert.Equal(t, scores[0], sc)
	}
}

// TestBoundNoMovesReturnsNotOK covers a position with no legal continuation:
// Bound must report ok=false rather than panic or fabricate a move.
func TestBoundNoMovesReturnsNotOK(t *testing.T) {
	sr := newToy1dSearcher(2)
	p := &game.Position{Width: toy1d.Width, Height: 1}
	// Neither token placed: ValidMoves can't find a token to move for either
	// side, so the root itself has none.
	_, _, ok := sr.Bound(context.Background(), p, 0, 1)
	assert.False(t, ok)
}

func newChessSearcher(workers int) *search.Searcher {
	return search.NewSearcher(
		func() rulescript.Script { return chess.Script{} },
		zobrist.NewTable(zobrist.DefaultSeed),
		search.NewCache(),
		search.NewKillerTable(),
		search.NewPool(workers),
		eval.PieceSquare{},
	)
}

// TestBoundInitialPositionFailsLowAtGammaOne: no single ply from the
// initial chess position swings the PST evaluation by a full point, so a
// depth=1 probe against gamma=1 must fail low.
func TestBoundInitialPositionFailsLowAtGammaOne(t *testing.T) {
	sr := newChessSearcher(4)
	s := chess.Script{}
	root := s.InitialPosition()

	_, score, ok := sr.Bound(context.Background(), root, 1, 1)
	require.True(t, ok)
	assert.Less(t, score, eval.Score(1))
}

// TestBoundFindsMateInOne: from a position with a forced mate in one,
// bound(gamma = WINNING-10, depth = 2) must report a score >= WINNING-10
// and the mating move itself.
func TestBoundFindsMateInOne(t *testing.T) {
	// The classic king-and-queen back-rank mate: Black king a8, White king
	// b6, White queen c1 with a clear c-file (Black is not in check). Qc1-c8
	// is check along the 8th rank and covers b8, while Kb6 covers a7 and b7
	// -- a unique mate in one (the other queen checks, from c6, a1, a3 and
	// h1, all leave b8 free). Depth 2 stays at or below the null-move
	// reduction's depth>2 threshold, so both plies are genuinely
	// expanded rather than probed.
	p, err := chess.Decode("k7/8/1K6/8/8/8/8/2Q5 w - - 0 1")
	require.NoError(t, err)

	sr := newChessSearcher(4)
	gamma := eval.WINNING - 10

	move, score, ok := sr.Bound(context.Background(), p, gamma, 2)
	require.True(t, ok)
	assert.GreaterOrEqual(t, score, gamma)
	assert.Equal(t, game.Coordinate{Row: 0, Col: 2}, move.From) // c1
	assert.Equal(t, game.Coordinate{Row: 7, Col: 2}, move.To)   // c8
}

// TestBoundFindsMateInOneAtNullMoveDepth is TestBoundFindsMateInOne's
// position again, but at depth=3: the first depth where the root itself
// (no killer recorded yet) crosses the null-move reduction's depth>2
// threshold and takes the reduced-depth probe before being expanded. The
// probe must only seed the killer table, not stand in for the root's own
// value -- Bound still has to return the mating move.
func TestBoundFindsMateInOneAtNullMoveDepth(t *testing.T) {
	p, err := chess.Decode("k7/8/1K6/8/8/8/8/2Q5 w - - 0 1")
	require.NoError(t, err)

	sr := newChessSearcher(4)
	gamma := eval.WINNING - 10

	move, score, ok := sr.Bound(context.Background(), p, gamma, 3)
	require.True(t, ok)
	assert.GreaterOrEqual(t, score, gamma)
	assert.Equal(t, game.Coordinate{Row: 0, Col: 2}, move.From) // c1
	assert.Equal(t, game.Coordinate{Row: 7, Col: 2}, move.To)   // c8
}
