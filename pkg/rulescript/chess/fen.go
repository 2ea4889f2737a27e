package chess

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ruleforge/engine/pkg/game"
)

// InitialFEN is the standard starting position, board field only relevant;
// the castling/en-passant fields are accepted but not carried forward as
// separate state -- see Decode for why.
const InitialFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

var fenPieces = map[rune]byte{
	'P': WPawn, 'N': WKnight, 'B': WBishop, 'R': WRook, 'Q': WQueen, 'K': WKing,
	'p': BPawn, 'n': BKnight, 'b': BBishop, 'r': BRook, 'q': BQueen, 'k': BKing,
}

// Decode parses a FEN board+side-to-move into a game.Position. Only the
// first two fields are interpreted (board, side to move); the remainder
// (castling rights, en passant target, clocks) are accepted for
// compatibility with standard FEN strings but ignored, since this script
// derives castling/en-passant legality from board content alone -- the
// Position carries no extra state to hold them across moves.
func Decode(fen string) (*game.Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		return nil, fmt.Errorf("chess: invalid FEN %q", fen)
	}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != int(Height) {
		return nil, fmt.Errorf("chess: invalid FEN ranks %q", fen)
	}

	p := &game.Position{Width: Width, Height: Height}

	for i, rank := range ranks {
		row := uint8(int(Height) - 1 - i) // FEN ranks run 8..1, row 0 is rank 1
		col := uint8(0)
		for _, r := range rank {
			if r >= '1' && r <= '8' {
				col += uint8(r - '0')
				continue
			}
			code, ok := fenPieces[r]
			if !ok {
				return nil, fmt.Errorf("chess: invalid FEN piece %q", r)
			}
			if col >= Width {
				return nil, fmt.Errorf("chess: invalid FEN rank width %q", rank)
			}
			p.Set(game.Coordinate{Row: row, Col: col}, code)
			col++
		}
		if col != Width {
			return nil, fmt.Errorf("chess: invalid FEN rank width %q", rank)
		}
	}

	switch fields[1] {
	case "w":
		p.NextPlayer = 0
	case "b":
		p.NextPlayer = 1
	default:
		return nil, fmt.Errorf("chess: invalid FEN side %q", fields[1])
	}

	return p, nil
}

// Encode renders the board+side-to-move fields of a position as FEN, for
// use in log/error messages.
func Encode(p *game.Position) string {
	var sb strings.Builder
	for i := 0; i < int(p.Height); i++ {
		row := uint8(int(p.Height) - 1 - i)
		empty := 0
		for col := uint8(0); col < p.Width; col++ {
			code := normalize(p.At(game.Coordinate{Row: row, Col: col}))
			if code == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteRune(fenRune(code))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if i != int(p.Height)-1 {
			sb.WriteByte('/')
		}
	}

	if p.NextPlayer == 0 {
		sb.WriteString(" w")
	} else {
		sb.WriteString(" b")
	}
	return sb.String()
}

func fenRune(code byte) rune {
	for r, c := range fenPieces {
		if c == code {
			return r
		}
	}
	return '?'
}
