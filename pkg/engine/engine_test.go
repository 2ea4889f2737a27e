package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruleforge/engine/pkg/driver"
	"github.com/ruleforge/engine/pkg/engine"
	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/rulescript"
	"github.com/ruleforge/engine/pkg/rulescript/toy1d"
	"github.com/seekerror/stdlib/pkg/lang"
)

func newToy1dEngine(ctx context.Context) *engine.Engine {
	return engine.New(ctx, "ruleforge-toy1d", "test", func() rulescript.Script { return toy1d.Script{} },
		engine.WithOptions(engine.Options{Workers: 2}))
}

func TestEngineResetAndMove(t *testing.T) {
	ctx := context.Background()
	e := newToy1dEngine(ctx)

	before := e.Board()
	moves := (toy1d.Script{}).ValidMoves(before, nil)
	require.NotEmpty(t, moves)

	err := e.Move(ctx, moves[0].From, moves[0].To)
	require.NoError(t, err)

	after := e.Board()
	assert.False(t, before.Equals(after))
}

func TestEngineMoveRejectsIllegalMove(t *testing.T) {
	ctx := context.Background()
	e := newToy1dEngine(ctx)

	err := e.Move(ctx, game.Coordinate{Row: 0, Col: 0}, game.Coordinate{Row: 0, Col: toy1d.Width - 1})
	assert.Error(t, err)
}

func TestEngineTakeBackRestoresInitialPosition(t *testing.T) {
	ctx := context.Background()
	e := newToy1dEngine(ctx)

	initial := e.Board()
	moves := (toy1d.Script{}).ValidMoves(initial, nil)
	require.NoError(t, e.Move(ctx, moves[0].From, moves[0].To))

	require.NoError(t, e.TakeBack(ctx))
	assert.True(t, initial.Equals(e.Board()))

	assert.Error(t, e.TakeBack(ctx))
}

func TestEngineAnalyzeReturnsAMove(t *testing.T) {
	ctx := context.Background()
	e := newToy1dEngine(ctx)

	out, err := e.Analyze(ctx, driver.Options{DepthLimit: lang.Some(2)})
	require.NoError(t, err)

	var last driver.PV
	for pv := range out {
		last = pv
	}
	_, _ = e.Halt(ctx)

	assert.True(t, last.HasMove)
}

func TestEngineAnalyzeRejectsConcurrentSearch(t *testing.T) {
	ctx := context.Background()
	e := newToy1dEngine(ctx)

	_, err := e.Analyze(ctx, driver.Options{DepthLimit: lang.Some(3)})
	require.NoError(t, err)

	_, err = e.Analyze(ctx, driver.Options{DepthLimit: lang.Some(3)})
	assert.Error(t, err)

	_, _ = e.Halt(ctx)
}
