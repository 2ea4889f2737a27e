package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/rulescript"
	"github.com/ruleforge/engine/pkg/zobrist"
)

// Book represents an opening book, keyed by Zobrist hash rather than by
// FEN string, since a generic rule script has no algebraic move notation
// to key a book string on.
type Book interface {
	// Find returns a list -- potentially empty -- of moves known to be good
	// from the position with the given hash. Once an empty list is
	// returned, the book should not be consulted again for the game.
	Find(ctx context.Context, hash zobrist.Hash) ([]game.Move, error)
}

// Line is an opening line expressed as a sequence of move indices into the
// ValidMoves() result at each step, starting from the rule script's
// InitialPosition -- in place of algebraic move strings, since that is all
// the generic Script interface gives us to key on.
type Line []int

// NoBook is an empty opening book.
var NoBook Book = &book{moves: map[zobrist.Hash][]game.Move{}}

// NewBook replays each line from script's initial position, recording at
// every position along the way which move(s) continue some known line.
func NewBook(script rulescript.Script, table *zobrist.Table, lines []Line) (Book, error) {
	dedup := map[zobrist.Hash]map[game.Move]bool{}

	for _, line := range lines {
		pos := script.InitialPosition()
		for step, idx := range line {
			moves := script.ValidMoves(pos, nil)
			if idx < 0 || idx >= len(moves) {
				return nil, fmt.Errorf("invalid book line %v: step %v index %v out of range (%v legal moves)", line, step, idx, len(moves))
			}

			h := table.Hash(pos)
			if dedup[h] == nil {
				dedup[h] = map[game.Move]bool{}
			}
			dedup[h][moves[idx]] = true

			pos = pos.Clone()
			game.Apply(pos, moves[idx])
		}
	}

	out := map[zobrist.Hash][]game.Move{}
	for h, set := range dedup {
		var list []game.Move
		for m := range set {
			list = append(list, m)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].String() < list[j].String() })
		out[h] = list
	}
	return &book{moves: out}, nil
}

type book struct {
	moves map[zobrist.Hash][]game.Move
}

func (b *book) Find(ctx context.Context, hash zobrist.Hash) ([]game.Move, error) {
	return b.moves[hash], nil
}
