package chess

import "github.com/ruleforge/engine/pkg/game"

var knightOffsets = [8][2]int{
	{1, 2}, {2, 1}, {2, -1}, {1, -2},
	{-1, -2}, {-2, -1}, {-2, 1}, {-1, 2},
}

var kingOffsets = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

var rookDirs = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
var bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

func inBounds(row, col int) bool {
	return row >= 0 && row < int(Height) && col >= 0 && col < int(Width)
}

// attacked reports whether sq is attacked by any piece of attackerSide
// (0=White, 1=Black) on the given board.
func attacked(p *game.Position, sq game.Coordinate, attackerSide int) bool {
	row, col := int(sq.Row), int(sq.Col)

	// Pawns: a White pawn on (r,c) attacks (r+1,c-1) and (r+1,c+1).
	pawnRow := row - 1
	if attackerSide == 1 {
		pawnRow = row + 1
	}
	for _, dc := range [2]int{-1, 1} {
		if inBounds(pawnRow, col+dc) {
			code := p.At(game.Coordinate{Row: uint8(pawnRow), Col: uint8(col + dc)})
			if isPawn(code) && side(code) == attackerSide {
				return true
			}
		}
	}

	for _, d := range knightOffsets {
		r, c := row+d[0], col+d[1]
		if inBounds(r, c) {
			code := p.At(game.Coordinate{Row: uint8(r), Col: uint8(c)})
			if normalize(code) == knightCode(attackerSide) {
				return true
			}
		}
	}

	for _, d := range kingOffsets {
		r, c := row+d[0], col+d[1]
		if inBounds(r, c) {
			code := p.At(game.Coordinate{Row: uint8(r), Col: uint8(c)})
			if code == kingCode(attackerSide) {
				return true
			}
		}
	}

	if rayAttacks(p, row, col, rookDirs[:], attackerSide, rookCode(attackerSide), queenCode(attackerSide)) {
		return true
	}
	if rayAttacks(p, row, col, bishopDirs[:], attackerSide, bishopCode(attackerSide), queenCode(attackerSide)) {
		return true
	}
	return false
}

func rayAttacks(p *game.Position, row, col int, dirs [][2]int, attackerSide int, straight, diag byte) bool {
	for _, d := range dirs {
		r, c := row+d[0], col+d[1]
		for inBounds(r, c) {
			code := p.At(game.Coordinate{Row: uint8(r), Col: uint8(c)})
			if code != Empty {
				n := normalize(code)
				if n == straight || n == diag {
					return true
				}
				break
			}
			r += d[0]
			c += d[1]
		}
	}
	return false
}

func knightCode(s int) byte {
	if s == 0 {
		return WKnight
	}
	return BKnight
}

func kingCode(s int) byte {
	if s == 0 {
		return WKing
	}
	return BKing
}

func rookCode(s int) byte {
	if s == 0 {
		return WRook
	}
	return BRook
}

func queenCode(s int) byte {
	if s == 0 {
		return WQueen
	}
	return BQueen
}

func bishopCode(s int) byte {
	if s == 0 {
		return WBishop
	}
	return BBishop
}

// findKing returns the coordinate of the given side's king.
func findKing(p *game.Position, s int) (game.Coordinate, bool) {
	want := kingCode(s)
	for i := 0; i < p.Size(); i++ {
		if p.Board[i] == want {
			return game.FromIndex(i, p.Width), true
		}
	}
	return game.Coordinate{}, false
}

// inCheck reports whether side s's king is attacked by the opponent.
func inCheck(p *game.Position, s int) bool {
	king, ok := findKing(p, s)
	if !ok {
		return false
	}
	return attacked(p, king, 1-s)
}
