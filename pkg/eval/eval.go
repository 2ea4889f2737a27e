// Package eval contains the static position evaluator: classic Sunfish
// piece-square tables scored from the mover's perspective over pkg/game's
// dense row-major board.
package eval

import "github.com/ruleforge/engine/pkg/game"

// Evaluator is a static position evaluator.
type Evaluator interface {
	Evaluate(p *game.Position) Score
}

// PieceSquare is the classic Sunfish evaluator.
type PieceSquare struct{}

func (PieceSquare) Evaluate(p *game.Position) Score {
	return Evaluate(p)
}

// pieceValue holds the classic Sunfish nominal piece values. Index 0 is
// unused (Empty); 1..6 are the six chess piece types; 7..12 (side 1) fold
// onto the same six entries.
var pieceValue = [7]Score{
	0,     // unused
	100,   // Pawn
	280,   // Knight
	320,   // Bishop
	479,   // Rook
	929,   // Queen
	60000, // King
}

// canonical folds a piece code (1..6 side 0, 7..12 side 1) onto its
// canonical 1..6 type. Codes outside that range (a rule script using its
// own piece space, or chess's transient en-passant markers 13/14) fold to
// the nearest meaningful type or to 0: the
// evaluator must degrade gracefully rather than index out of range, since
// these tables are chess-specific data.
func canonical(code byte) int {
	switch {
	case code >= 1 && code <= 6:
		return int(code)
	case code >= 7 && code <= 12:
		return int(code) - 6
	case code == 13, code == 14: // chess.WPawnJustMoved / BPawnJustMoved
		return 1
	default:
		return 0
	}
}

// ownerOf reports which side (0 or 1) owns a piece code, or -1 if the code
// belongs to neither canonical side.
func ownerOf(code byte) int {
	switch {
	case code >= 1 && code <= 6, code == 13:
		return 0
	case code >= 7 && code <= 12, code == 14:
		return 1
	default:
		return -1
	}
}

// Evaluate returns the position score from the mover's perspective: sum piece_value+pst into each side's accumulator, then return
// mover_total - opponent_total.
func Evaluate(p *game.Position) Score {
	mover := int(p.NextPlayer)

	var total [2]Score
	n := p.Size()
	for i := 0; i < n; i++ {
		owner := ownerOf(p.Board[i])
		if owner < 0 {
			continue
		}

		piece := canonical(p.Board[i])
		if piece == 0 {
			continue
		}

		total[owner] += pieceValue[piece]
		if p.Width == 8 && p.Height == 8 {
			total[owner] += pstValue(piece, game.FromIndex(i, p.Width), owner)
		}
	}

	return total[mover] - total[1-mover]
}

// pstValue looks up the piece-square bonus for a canonical piece type (1..6)
// at coordinate c, from owner's own point of view: each side's pieces are
// scored as if that side were White, which is what lets the same six tables
// serve both sides. Boards other than 8x8 (e.g.
// pkg/rulescript/toy1d) get material value only, no PST, since these tables
// are sized for a standard chess board.
func pstValue(piece int, c game.Coordinate, owner int) Score {
	if c.Row >= 8 || c.Col >= 8 {
		return 0
	}

	row := c.Row
	if owner == 0 {
		row = 7 - row // White's forward direction is increasing row; tables list the far rank first.
	}
	return pst[piece][int(row)*8+int(c.Col)]
}
