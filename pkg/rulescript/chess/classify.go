package chess

import (
	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/rulescript"
)

// Classify implements rulescript.Script. Loss = the side to move has
// no legal move and is in check (checkmate). Draw = no legal move and not in
// check (stalemate), or insufficient material. Win is never returned by this
// script -- standard chess has no "already won" position for the side to
// move -- but the classification exists for rule sets that do.
func (s Script) Classify(p *game.Position) rulescript.Classification {
	mover := int(p.NextPlayer)

	if insufficientMaterial(p) {
		return rulescript.Draw
	}

	moves := s.ValidMoves(p, nil)
	if len(moves) > 0 {
		return rulescript.Other
	}
	if inCheck(p, mover) {
		return rulescript.Loss
	}
	return rulescript.Draw
}

func insufficientMaterial(p *game.Position) bool {
	var minorCount int
	for i := 0; i < p.Size(); i++ {
		switch normalize(p.Board[i]) {
		case Empty, WKing, BKing:
			// no material
		case WKnight, WBishop, BKnight, BBishop:
			minorCount++
		default:
			return false // any pawn, rook, or queen means sufficient material
		}
	}
	return minorCount <= 1
}
