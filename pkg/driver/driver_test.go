package driver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/ruleforge/engine/pkg/driver"
	"github.com/ruleforge/engine/pkg/eval"
	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/rulescript"
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

// TestIterativeFindsForcedWin drives the full Analyze loop (iterative
// deepening + MTD(f) bisection) against the 1-D race script's
// one-move-from-goal position and checks it converges on the winning move
// without needing the caller to pick a depth or a gamma by hand.
func TestIterativeFindsForcedWin(t *testing.T) {
	sr := newToy1dSearcher(2)
	it := &driver.Iterative{Searcher: sr}

	root := &game.Position{Width: toy1d.Width, Height: 1}
	root.Set(game.Coordinate{Row: 0, Col: toy1d.Lane - 2}, toy1d.Side0)
	root.Set(game.Coordinate{Row: 0, Col: toy1d.Width - 1}, toy1d.Side1)

	h, out := it.Launch(context.Background(), root, driver.Options{DepthLimit: lang.Some(2)})

	var last driver.PV
	for pv := range out {
		last = pv
	}
	h.Halt()

	require.True(t, last.HasMove)
	assert.Equal(t, eval.WINNING, last.Score)
	assert.Equal(t, game.Coordinate{Row: 0, Col: toy1d.Lane - 2}, last.Move.From)
}

// TestIterativeHaltIsIdempotent checks that calling Halt twice, and after
// the search has already finished on its own, never panics or blocks.
func TestIterativeHaltIsIdempotent(t *testing.T) {
	sr := newToy1dSearcher(1)
	it := &driver.Iterative{Searcher: sr}

	root := toy1d.Script{}.InitialPosition()
	h, out := it.Launch(context.Background(), root, driver.Options{DepthLimit: lang.Some(1)})

	for range out {
	}

	_ = h.Halt()
	_ = h.Halt()
}
