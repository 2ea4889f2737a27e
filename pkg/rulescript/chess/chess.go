// Package chess implements a complete standard-chess rulescript.Script
// over the generic dense-array game.Position the search core requires --
// legal move generation, check detection, and terminal classification.
// See DESIGN.md.
package chess

import (
	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/rulescript"
)

// Piece codes. 1..6 are White, 7..12 are Black, in the same canonical
// per-side order. 13/14 are transient "just double-stepped" pawn markers
// used to encode the one-ply en passant window directly in the board array,
// since game.Position carries no side-channel for move history.
const (
	Empty byte = 0
)

const (
	WPawn byte = iota + 1
	WKnight
	WBishop
	WRook
	WQueen
	WKing
	BPawn
	BKnight
	BBishop
	BRook
	BQueen
	BKing
	WPawnJustMoved
	BPawnJustMoved
)

const (
	Width  uint8 = 8
	Height uint8 = 8
)

// Script implements rulescript.Script for standard chess.
type Script struct{}

func init() {
	rulescript.Register("chess", func() rulescript.Script { return Script{} })
}

func (Script) BoardDims() (uint8, uint8) {
	return Width, Height
}

func (Script) PieceNames() map[byte]string {
	return map[byte]string{
		Empty:          ".",
		WPawn:          "P",
		WKnight:        "N",
		WBishop:        "B",
		WRook:          "R",
		WQueen:         "Q",
		WKing:          "K",
		BPawn:          "p",
		BKnight:        "n",
		BBishop:        "b",
		BRook:          "r",
		BQueen:         "q",
		BKing:          "k",
		WPawnJustMoved: "P",
		BPawnJustMoved: "p",
	}
}

func (Script) InitialPosition() *game.Position {
	p, err := Decode(InitialFEN)
	if err != nil {
		panic(err) // Internal: the compiled-in initial FEN must always parse.
	}
	return p
}

// side returns 0 for White piece codes, 1 for Black piece codes, and 2 for Empty.
func side(code byte) int {
	switch {
	case code == Empty:
		return 2
	case code <= WKing || code == WPawnJustMoved:
		return 0
	default:
		return 1
	}
}

// normalize maps a just-moved marker back to its plain pawn code.
func normalize(code byte) byte {
	switch code {
	case WPawnJustMoved:
		return WPawn
	case BPawnJustMoved:
		return BPawn
	default:
		return code
	}
}

func isPawn(code byte) bool {
	n := normalize(code)
	return n == WPawn || n == BPawn
}

func isKing(code byte) bool {
	return code == WKing || code == BKing
}
