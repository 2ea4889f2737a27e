// Package rulescript defines the bridge contract between the search core and
// the external rule script that supplies board geometry, legal-move
// generation and terminal-position classification. The
// actual script host -- loading a script file, executing it, marshalling its
// return values -- is an external collaborator out of scope for this
// repository; only the interface it must expose is defined here,
// together with a small by-name Registry standing in for it.
package rulescript

import (
	"fmt"

	"github.com/ruleforge/engine/pkg/game"
)

// Classification is the terminal status of a position from the perspective
// of the side to move.
type Classification int

const (
	// Other means the game is not over.
	Other Classification = iota
	Win
	Loss
	Draw
)

func (c Classification) String() string {
	switch c {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Draw:
		return "draw"
	default:
		return "other"
	}
}

// Script is the contract a rule script must satisfy. Implementations
// are NOT required to be thread-safe -- the engine gives every worker its
// own handle.
type Script interface {
	// InitialPosition returns the starting state.
	InitialPosition() *game.Position

	// ValidMoves appends the full set of legal moves for position.NextPlayer
	// to out and returns the extended slice. An empty result means no legal
	// continuation from this position.
	ValidMoves(position *game.Position, out []game.Move) []game.Move

	// Classify returns the terminal classification of position from the
	// perspective of the side to move.
	Classify(position *game.Position) Classification

	// BoardDims returns (width, height).
	BoardDims() (uint8, uint8)

	// PieceNames returns a display name for each piece code, for logging.
	PieceNames() map[byte]string
}

// ErrorKind distinguishes the error taxonomy below.
type ErrorKind int

const (
	KindScript ErrorKind = iota
	KindProtocol
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindScript:
		return "ScriptError"
	case KindProtocol:
		return "ProtocolError"
	case KindInternal:
		return "Internal"
	default:
		return "Error"
	}
}

// ScriptError reports a failure to load or run a rule script: a file-read
// failure, a script execution error, an ill-typed return, an out-of-bounds
// coordinate, or a wrong board dimension. Fatal; the driver reports
// Message on stderr verbatim.
type ScriptError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ScriptError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %v: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%v: %v", e.Kind, e.Message)
}

func (e *ScriptError) Unwrap() error {
	return e.Cause
}

func newScriptError(format string, args ...interface{}) error {
	return &ScriptError{Kind: KindScript, Message: fmt.Sprintf(format, args...)}
}
