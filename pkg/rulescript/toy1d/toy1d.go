// Package toy1d implements a minimal one-dimensional rule script: proof that
// the search core in pkg/search is not chess-specific. Each side
// has a token on its own lane of Lane cells and races it toward the far end,
// advancing 1-3 cells per turn; first token to reach its lane's far end wins.
// Grounded on chessvariantengine-lib's compact, self-contained
// movegen.go/search.go shape: a tiny variant engine with no third-party
// dependency footprint of its own.
package toy1d

import (
	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/rulescript"
)

// Lane is the per-side track length; the two lanes together make up the
// board, well under the 64-square cap.
const Lane = 6

// Width is the combined board width: side 0's lane (cols 0..Lane-1) followed
// by side 1's lane (cols Lane..2*Lane-1).
const Width = 2 * Lane

const (
	Empty byte = 0
	Side0 byte = 1
	Side1 byte = 2
)

// Script implements rulescript.Script for the 1-D race game.
type Script struct{}

func init() {
	rulescript.Register("toy1d", func() rulescript.Script { return Script{} })
}

func (Script) BoardDims() (uint8, uint8) {
	return Width, 1
}

func (Script) PieceNames() map[byte]string {
	return map[byte]string{Empty: ".", Side0: "0", Side1: "1"}
}

func (Script) InitialPosition() *game.Position {
	p := &game.Position{Width: Width, Height: 1}
	p.Set(game.Coordinate{Row: 0, Col: 0}, Side0)
	p.Set(game.Coordinate{Row: 0, Col: Width - 1}, Side1)
	return p
}

func codeOf(side int) byte {
	if side == 0 {
		return Side0
	}
	return Side1
}

// laneGoal is the token's own lane boundary: side 0 runs left to right
// starting at column 0 and finishes at Lane-1; side 1 runs right to left
// starting at the last column and finishes at Lane. Each lane is disjoint,
// so the two tokens never interact.
func laneGoal(side int) uint8 {
	if side == 0 {
		return Lane - 1
	}
	return Lane
}

func tokenCol(p *game.Position, code byte) (uint8, bool) {
	for c := uint8(0); c < p.Width; c++ {
		if p.At(game.Coordinate{Row: 0, Col: c}) == code {
			return c, true
		}
	}
	return 0, false
}

func (Script) ValidMoves(p *game.Position, out []game.Move) []game.Move {
	s := int(p.NextPlayer)
	mine := codeOf(s)

	from, ok := tokenCol(p, mine)
	if !ok {
		return out // Internal: every position has both tokens.
	}

	forward := 1
	if s == 1 {
		forward = -1
	}
	goal := int(laneGoal(s))

	for step := 1; step <= 3; step++ {
		to := int(from) + forward*step
		if s == 0 && to > goal {
			break
		}
		if s == 1 && to < goal {
			break
		}

		nb := p.Board
		nb[game.Coordinate{Row: 0, Col: from}.Index(p.Width)] = Empty
		nb[game.Coordinate{Row: 0, Col: uint8(to)}.Index(p.Width)] = mine

		out = append(out, game.Move{
			From:  game.Coordinate{Row: 0, Col: from},
			To:    game.Coordinate{Row: 0, Col: uint8(to)},
			Board: nb,
		})
	}
	return out
}

func (Script) Classify(p *game.Position) rulescript.Classification {
	s := int(p.NextPlayer)

	mineCol, _ := tokenCol(p, codeOf(s))
	theirCol, _ := tokenCol(p, codeOf(1-s))

	if mineCol == laneGoal(s) {
		return rulescript.Win
	}
	if theirCol == laneGoal(1 - s) {
		return rulescript.Loss
	}
	return rulescript.Other
}
