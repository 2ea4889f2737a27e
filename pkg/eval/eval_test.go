package eval_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ruleforge/engine/pkg/eval"
	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/rulescript/chess"
)

func TestInitialPositionIsBalanced(t *testing.T) {
	s := chess.Script{}
	p := s.InitialPosition()

	require.EqualValues(t, 0, eval.Evaluate(p))
}

// TestScoreFlipsWithMoverAlone exercises the core perspective guarantee
//: Evaluate always reads from NextPlayer, so toggling it without
// touching the board negates the score.
func TestScoreFlipsWithMoverAlone(t *testing.T) {
	s := chess.Script{}
	p := s.InitialPosition()
	p = move(t, s, p, "e2", "e4")
	p = move(t, s, p, "d7", "d5")
	p = move(t, s, p, "d1", "h5") // queen sortie, imbalances the PST sum

	flipped := p.Clone()
	flipped.NextPlayer = 1 - p.NextPlayer

	require.Equal(t, eval.Evaluate(p), -eval.Evaluate(flipped))
}

// mirror flips a position vertically and swaps side codes, producing the
// board as White and Black would see it if the sides' roles (and home
// ranks) were exchanged.
func mirror(p *game.Position) *game.Position {
	m := &game.Position{Width: p.Width, Height: p.Height, NextPlayer: 1 - p.NextPlayer}
	for r := uint8(0); r < p.Height; r++ {
		for c := uint8(0); c < p.Width; c++ {
			code := p.At(game.Coordinate{Row: r, Col: c})
			m.Set(game.Coordinate{Row: p.Height - 1 - r, Col: c}, swapSide(code))
		}
	}
	return m
}

func swapSide(code byte) byte {
	switch {
	case code >= 1 && code <= 6:
		return code + 6
	case code >= 7 && code <= 12:
		return code - 6
	case code == 13:
		return 14
	case code == 14:
		return 13
	default:
		return code
	}
}

// TestScoreIsSymmetricUnderMirroring checks that the piece-square tables
// carry no inherent bias between the two sides: mirroring the board
// vertically and swapping which side owns which pieces describes the exact
// same balance of power, just relabeled, so the mover's score is unchanged.
func TestScoreIsSymmetricUnderMirroring(t *testing.T) {
	s := chess.Script{}
	p := s.InitialPosition()
	p = move(t, s, p, "e2", "e4")
	p = move(t, s, p, "b8", "c6")
	p = move(t, s, p, "d1", "h5")

	m := mirror(p)

	require.Equal(t, eval.Evaluate(p), eval.Evaluate(m))
}

func move(t *testing.T, s chess.Script, p *game.Position, from, to string) *game.Position {
	t.Helper()
	fc := game.Coordinate{Row: from[1] - '1', Col: from[0] - 'a'}
	tc := game.Coordinate{Row: to[1] - '1', Col: to[0] - 'a'}

	for _, mv := range s.ValidMoves(p, nil) {
		if mv.From == fc && mv.To == tc {
			next := p.Clone()
			game.Apply(next, mv)
			return next
		}
	}
	t.Fatalf("no legal move %v->%v", from, to)
	return nil
}

func TestRandomAddsBoundedJitterAndIsDeterministic(t *testing.T) {
	s := chess.Script{}
	p := s.InitialPosition()
	base := eval.PieceSquare{}

	a := eval.NewRandom(base, 10, 7)
	b := eval.NewRandom(base, 10, 7)

	for i := 0; i < 20; i++ {
		va := a.Evaluate(p)
		vb := b.Evaluate(p)
		require.Equal(t, va, vb)
		require.InDelta(t, int(base.Evaluate(p)), int(va), 5)
	}
}

func TestRandomZeroLimitIsNoop(t *testing.T) {
	s := chess.Script{}
	p := s.InitialPosition()
	base := eval.PieceSquare{}

	r := eval.NewRandom(base, 0, 1)
	require.Equal(t, base.Evaluate(p), r.Evaluate(p))
}
