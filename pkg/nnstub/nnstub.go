// Package nnstub declares the interface boundary for a neural-network
// evaluator without implementing one. A real NN evaluator is an external
// collaborator that would satisfy eval.Evaluator directly (pkg/eval), the
// same seam pkg/eval.Random already wraps.
package nnstub

import "github.com/ruleforge/engine/pkg/game"

// Weights is an opaque handle to a trained network's parameters, as
// produced by pkg/trainer and loaded by an external NN evaluator. Its
// representation is deliberately unspecified.
type Weights interface {
	// Name identifies the weights set, e.g. a file path or training run id.
	Name() string
}

// Evaluator is the interface a neural-network static evaluator would
// satisfy to be usable in place of eval.PieceSquare. It is never
// implemented in this repository.
type Evaluator interface {
	// Load constructs an evaluator from a trained Weights handle.
	Load(w Weights) (Evaluator, error)

	// Evaluate scores position p from the mover's perspective, the same
	// contract as eval.Evaluator.
	Evaluate(p *game.Position) int32
}
