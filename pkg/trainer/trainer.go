// Package trainer declares the interface boundary for a self-play trainer
// loop that persists weights, without implementing one.
package trainer

import (
	"context"

	"github.com/ruleforge/engine/pkg/nnstub"
	"github.com/ruleforge/engine/pkg/rulescript"
)

// Trainer runs self-play games against a rule script and persists the
// resulting weights. An external collaborator would implement this,
// consuming pkg/rulescript and pkg/search the same way cmd/ruleforge's
// play subcommand does; this repository only specifies the seam -- the
// CLI's train subcommand calls none of this (it is a stub, see
// cmd/ruleforge/main.go).
type Trainer interface {
	// Train runs a self-play training session against script and writes
	// the resulting weights to path.
	Train(ctx context.Context, script rulescript.Script, path string) (nnstub.Weights, error)
}
