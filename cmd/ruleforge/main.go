// Command ruleforge dispatches validate/play/train subcommands over a
// named, registered rule script.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/ruleforge/engine/pkg/driver"
	"github.com/ruleforge/engine/pkg/engine"
	"github.com/ruleforge/engine/pkg/protocol"
	"github.com/ruleforge/engine/pkg/rulescript"

	// Registered rule scripts; import for side-effecting init() registration.
	_ "github.com/ruleforge/engine/pkg/rulescript/chess"
	_ "github.com/ruleforge/engine/pkg/rulescript/toy1d"
)

var (
	workers = flag.Int("workers", 3, "search worker-pool size, excluding the caller")
	depth   = flag.Int("depth", 0, "search depth limit; 0 means no limit")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	args := flag.Args()
	if len(args) < 2 {
		logw.Exitf(ctx, "usage: ruleforge <validate|play|train> <script> [weights]")
	}

	cmd, name := args[0], args[1]

	switch cmd {
	case "validate":
		runValidate(ctx, name)
	case "play":
		runPlay(ctx, name)
	case "train":
		if len(args) < 3 {
			logw.Exitf(ctx, "usage: ruleforge train <script> <weights>")
		}
		runTrain(ctx, name, args[2])
	default:
		logw.Exitf(ctx, "unknown subcommand %q", cmd)
	}
}

// runValidate confirms the script loads and returns well-formed moves on
// the initial position.
func runValidate(ctx context.Context, name string) {
	script, err := rulescript.New(name)
	if err != nil {
		logw.Exitf(ctx, "Failed to load script %q: %v", name, err)
	}

	pos := script.InitialPosition()
	w, h := script.BoardDims()
	if int(w)*int(h) > 64 {
		logw.Exitf(ctx, "Script %q board is %vx%v, exceeds the 64-square limit", name, w, h)
	}

	moves := script.ValidMoves(pos, nil)
	classification := script.Classify(pos)

	logw.Infof(ctx, "Script %q: %vx%v board, %v legal move(s) from the initial position, classification=%v",
		name, w, h, len(moves), classification)
	fmt.Printf("ok: %v legal moves, classification=%v\n", len(moves), classification)
}

// runPlay launches the line-oriented outer-server protocol over
// stdin/stdout.
func runPlay(ctx context.Context, name string) {
	newScript := func() rulescript.Script {
		s, err := rulescript.New(name)
		if err != nil {
			logw.Exitf(ctx, "Failed to load script %q: %v", name, err)
		}
		return s
	}

	opt := driver.Options{}
	if *depth > 0 {
		opt.DepthLimit = lang.Some(*depth)
	}

	in := engine.ReadStdinLines(ctx)
	d, out := protocol.NewDriver(ctx, newScript, *workers, opt, in)

	engine.WriteStdoutLines(ctx, out)
	<-d.Closed()
}

// runTrain is a thin stub: the self-play trainer that would persist weights
// to the given file is an out-of-scope external collaborator, so
// this only confirms the script loads and reports that training itself is
// not implemented here.
func runTrain(ctx context.Context, name, weights string) {
	if _, err := rulescript.New(name); err != nil {
		logw.Exitf(ctx, "Failed to load script %q: %v", name, err)
	}

	logw.Infof(ctx, "train is a thin stub; weights path %q not written", weights)
	os.Exit(0)
}
