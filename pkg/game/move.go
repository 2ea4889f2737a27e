package game

// Move is an opaque transition produced by the rule script. From/To are
// used only for ordering and display; the search never interprets them.
// Board is the complete post-move board array.
type Move struct {
	From, To Coordinate
	Board    [MaxSquares]byte
}

func (m Move) String() string {
	return m.From.String() + "->" + m.To.String()
}

// Apply applies m to p: the move's board snapshot replaces p's board and the
// side to move flips. Returns the previous state so the caller can
// Unapply later; no heap allocation is performed.
func Apply(p *Position, m Move) (prevBoard [MaxSquares]byte, prevSide uint8) {
	prevBoard = p.Board
	prevSide = p.NextPlayer

	n := p.Size()
	copy(p.Board[:n], m.Board[:n])
	p.NextPlayer ^= 1

	return prevBoard, prevSide
}

// Unapply restores a position to the state captured by a prior Apply call.
func Unapply(p *Position, prevBoard [MaxSquares]byte, prevSide uint8) {
	p.Board = prevBoard
	p.NextPlayer = prevSide
}
