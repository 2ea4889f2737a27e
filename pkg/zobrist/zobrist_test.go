package zobrist_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/rulescript/chess"
	"github.com/ruleforge/engine/pkg/zobrist"
)

func TestDeterministic(t *testing.T) {
	a := zobrist.NewTable(zobrist.DefaultSeed)
	b := zobrist.NewTable(zobrist.DefaultSeed)

	s := chess.Script{}
	p := s.InitialPosition()

	require.Equal(t, a.Hash(p), b.Hash(p))
}

func TestIncrementalMatchesFullRehash(t *testing.T) {
	tbl := zobrist.NewTable(zobrist.DefaultSeed)

	s := chess.Script{}
	p := s.InitialPosition()
	h := tbl.Hash(p)

	for _, m := range s.ValidMoves(p, nil) {
		got := tbl.Move(h, p, m)

		next := p.Clone()
		game.Apply(next, m)
		want := tbl.Hash(next)

		require.Equal(t, want, got, "incremental hash mismatch for move %v", m)
	}
}

func TestDepthNonceDistinctAndClamped(t *testing.T) {
	tbl := zobrist.NewTable(zobrist.DefaultSeed)

	require.NotEqual(t, tbl.DepthNonce(0), tbl.DepthNonce(1))
	require.Equal(t, tbl.DepthNonce(-zobrist.MinDepth), tbl.DepthNonce(-zobrist.MinDepth-100))
	require.Equal(t, tbl.DepthNonce(zobrist.MaxDepth), tbl.DepthNonce(zobrist.MaxDepth+100))
}
