package toy1d_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/rulescript"
	"github.com/ruleforge/engine/pkg/rulescript/toy1d"
)

func TestInitialMoves(t *testing.T) {
	s := toy1d.Script{}
	p := s.InitialPosition()

	require.Equal(t, rulescript.Other, s.Classify(p))
	require.Len(t, s.ValidMoves(p, nil), 3) // steps of 1, 2, 3 all fit on an empty lane
}

func TestRaceToWin(t *testing.T) {
	s := toy1d.Script{}
	p := s.InitialPosition()

	for i := 0; i < 10 && s.Classify(p) == rulescript.Other; i++ {
		moves := s.ValidMoves(p, nil)
		require.NotEmpty(t, moves)

		// Moves are appended in increasing step order; the last is the
		// greedy (largest legal step) choice for whichever side is to move.
		greedy := moves[len(moves)-1]

		next := p.Clone()
		game.Apply(next, greedy)
		p = next
	}

	require.Contains(t, []rulescript.Classification{rulescript.Win, rulescript.Loss}, s.Classify(p))
}

func TestIndependentLanesNeverInteract(t *testing.T) {
	s := toy1d.Script{}
	p := &game.Position{Width: toy1d.Width, Height: 1}
	p.Set(game.Coordinate{Row: 0, Col: toy1d.Lane - 1}, toy1d.Side0)
	p.Set(game.Coordinate{Row: 0, Col: toy1d.Width - 1}, toy1d.Side1)

	require.Equal(t, rulescript.Win, s.Classify(p))

	p.NextPlayer = 1
	require.Equal(t, rulescript.Loss, s.Classify(p))
}
