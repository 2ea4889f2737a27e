package chess

import "github.com/ruleforge/engine/pkg/game"

// candidate is an in-progress move before legality filtering.
type candidate struct {
	from, to game.Coordinate
	board    [game.MaxSquares]byte
}

func newBoard(p *game.Position) [game.MaxSquares]byte {
	nb := p.Board
	n := p.Size()
	for i := 0; i < n; i++ {
		nb[i] = normalize(nb[i])
	}
	return nb
}

// ValidMoves implements rulescript.Script.
func (Script) ValidMoves(p *game.Position, out []game.Move) []game.Move {
	s := int(p.NextPlayer)

	var candidates []candidate
	for i := 0; i < p.Size(); i++ {
		code := p.Board[i]
		if side(code) != s {
			continue
		}
		from := game.FromIndex(i, p.Width)
		switch normalize(code) {
		case WPawn:
			candidates = append(candidates, pawnMoves(p, s, from)...)
		case WKnight:
			candidates = append(candidates, leaperMoves(p, s, from, knightOffsets[:])...)
		case WBishop:
			candidates = append(candidates, sliderMoves(p, s, from, bishopDirs[:])...)
		case WRook:
			candidates = append(candidates, sliderMoves(p, s, from, rookDirs[:])...)
		case WQueen:
			candidates = append(candidates, sliderMoves(p, s, from, rookDirs[:])...)
			candidates = append(candidates, sliderMoves(p, s, from, bishopDirs[:])...)
		case WKing:
			candidates = append(candidates, leaperMoves(p, s, from, kingOffsets[:])...)
			candidates = append(candidates, castlingMoves(p, s, from)...)
		}
	}

	for _, c := range candidates {
		tmp := &game.Position{Width: p.Width, Height: p.Height, NextPlayer: p.NextPlayer, Board: c.board}
		if !inCheck(tmp, s) {
			out = append(out, game.Move{From: c.from, To: c.to, Board: c.board})
		}
	}
	return out
}

func leaperMoves(p *game.Position, s int, from game.Coordinate, offsets [][2]int) []candidate {
	var ret []candidate
	for _, d := range offsets {
		r, c := int(from.Row)+d[0], int(from.Col)+d[1]
		if !inBounds(r, c) {
			continue
		}
		to := game.Coordinate{Row: uint8(r), Col: uint8(c)}
		target := p.At(to)
		if target != Empty && side(target) == s {
			continue
		}
		nb := newBoard(p)
		nb[from.Index(p.Width)] = Empty
		nb[to.Index(p.Width)] = normalize(p.At(from))
		ret = append(ret, candidate{from: from, to: to, board: nb})
	}
	return ret
}

func sliderMoves(p *game.Position, s int, from game.Coordinate, dirs [][2]int) []candidate {
	var ret []candidate
	for _, d := range dirs {
		r, c := int(from.Row)+d[0], int(from.Col)+d[1]
		for inBounds(r, c) {
			to := game.Coordinate{Row: uint8(r), Col: uint8(c)}
			target := p.At(to)
			if target != Empty && side(target) == s {
				break
			}
			nb := newBoard(p)
			nb[from.Index(p.Width)] = Empty
			nb[to.Index(p.Width)] = normalize(p.At(from))
			ret = append(ret, candidate{from: from, to: to, board: nb})
			if target != Empty {
				break // captured a piece; ray stops here
			}
			r += d[0]
			c += d[1]
		}
	}
	return ret
}

var promotionPieces = map[int][]byte{
	0: {WQueen, WRook, WBishop, WKnight},
	1: {BQueen, BRook, BBishop, BKnight},
}

func pawnMoves(p *game.Position, s int, from game.Coordinate) []candidate {
	var ret []candidate

	dir, startRow, promoRow := 1, uint8(1), int(Height)-1
	if s == 1 {
		dir, startRow, promoRow = -1, Height-2, 0
	}

	addPush := func(to game.Coordinate, isDouble bool) {
		nb := newBoard(p)
		nb[from.Index(p.Width)] = Empty
		if int(to.Row) == promoRow {
			for _, promo := range promotionPieces[s] {
				b := nb
				b[to.Index(p.Width)] = promo
				ret = append(ret, candidate{from: from, to: to, board: b})
			}
			return
		}
		code := normalize(p.At(from))
		if isDouble {
			code = justMovedCode(s)
		}
		nb[to.Index(p.Width)] = code
		ret = append(ret, candidate{from: from, to: to, board: nb})
	}

	// Single push.
	r1 := int(from.Row) + dir
	if inBounds(r1, int(from.Col)) {
		one := game.Coordinate{Row: uint8(r1), Col: from.Col}
		if p.At(one) == Empty {
			addPush(one, false)

			// Double push from the starting rank.
			if from.Row == startRow {
				r2 := r1 + dir
				two := game.Coordinate{Row: uint8(r2), Col: from.Col}
				if inBounds(r2, int(from.Col)) && p.At(two) == Empty {
					addPush(two, true)
				}
			}
		}
	}

	// Captures, including en passant.
	for _, dc := range [2]int{-1, 1} {
		c := int(from.Col) + dc
		if !inBounds(r1, c) {
			continue
		}
		to := game.Coordinate{Row: uint8(r1), Col: uint8(c)}
		target := p.At(to)

		if target != Empty && side(target) == 1-s {
			nb := newBoard(p)
			nb[from.Index(p.Width)] = Empty
			if int(to.Row) == promoRow {
				for _, promo := range promotionPieces[s] {
					b := nb
					b[to.Index(p.Width)] = promo
					ret = append(ret, candidate{from: from, to: to, board: b})
				}
				continue
			}
			nb[to.Index(p.Width)] = normalize(p.At(from))
			ret = append(ret, candidate{from: from, to: to, board: nb})
			continue
		}

		if target == Empty {
			// En passant: the captured pawn sits beside `from`, marked as just-moved.
			victim := p.At(game.Coordinate{Row: from.Row, Col: uint8(c)})
			if victim == justMovedCode(1-s) {
				nb := newBoard(p)
				nb[from.Index(p.Width)] = Empty
				nb[game.Coordinate{Row: from.Row, Col: uint8(c)}.Index(p.Width)] = Empty
				nb[to.Index(p.Width)] = normalize(p.At(from))
				ret = append(ret, candidate{from: from, to: to, board: nb})
			}
		}
	}

	return ret
}

func justMovedCode(s int) byte {
	if s == 0 {
		return WPawnJustMoved
	}
	return BPawnJustMoved
}

// castlingMoves generates kingside/queenside castling for side s, derived
// purely from board content (king and rook on home squares, empty path,
// king not in/through/into check). game.Position carries no castling-rights
// state, so a king and rook on their home squares may castle even if
// either has moved before.
func castlingMoves(p *game.Position, s int, from game.Coordinate) []candidate {
	homeRow := uint8(0)
	if s == 1 {
		homeRow = Height - 1
	}
	if from.Row != homeRow || from.Col != 4 || p.At(from) != kingCode(s) {
		return nil
	}
	if inCheck(p, s) {
		return nil
	}

	var ret []candidate

	// Kingside: rook on col 7, king passes through col 5,6.
	if p.At(game.Coordinate{Row: homeRow, Col: 7}) == rookCode(s) &&
		p.At(game.Coordinate{Row: homeRow, Col: 5}) == Empty &&
		p.At(game.Coordinate{Row: homeRow, Col: 6}) == Empty &&
		!attacked(p, game.Coordinate{Row: homeRow, Col: 5}, 1-s) &&
		!attacked(p, game.Coordinate{Row: homeRow, Col: 6}, 1-s) {

		nb := newBoard(p)
		nb[from.Index(p.Width)] = Empty
		nb[game.Coordinate{Row: homeRow, Col: 6}.Index(p.Width)] = kingCode(s)
		nb[game.Coordinate{Row: homeRow, Col: 7}.Index(p.Width)] = Empty
		nb[game.Coordinate{Row: homeRow, Col: 5}.Index(p.Width)] = rookCode(s)
		ret = append(ret, candidate{from: from, to: game.Coordinate{Row: homeRow, Col: 6}, board: nb})
	}

	// Queenside: rook on col 0, king passes through col 3,2; col 1 must be clear too.
	if p.At(game.Coordinate{Row: homeRow, Col: 0}) == rookCode(s) &&
		p.At(game.Coordinate{Row: homeRow, Col: 1}) == Empty &&
		p.At(game.Coordinate{Row: homeRow, Col: 2}) == Empty &&
		p.At(game.Coordinate{Row: homeRow, Col: 3}) == Empty &&
		!attacked(p, game.Coordinate{Row: homeRow, Col: 3}, 1-s) &&
		!attacked(p, game.Coordinate{Row: homeRow, Col: 2}, 1-s) {

		nb := newBoard(p)
		nb[from.Index(p.Width)] = Empty
		nb[game.Coordinate{Row: homeRow, Col: 2}.Index(p.Width)] = kingCode(s)
		nb[game.Coordinate{Row: homeRow, Col: 0}.Index(p.Width)] = Empty
		nb[game.Coordinate{Row: homeRow, Col: 3}.Index(p.Width)] = rookCode(s)
		ret = append(ret, candidate{from: from, to: game.Coordinate{Row: homeRow, Col: 2}, board: nb})
	}

	return ret
}
