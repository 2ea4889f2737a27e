// perft is a movegen debugging tool: it counts leaf nodes of a rule
// script's game tree to a fixed depth. See:
// https://www.chessprogramming.org/Perft_Results. Walks any registered
// script's move generator through rulescript.Script, not just chess.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/seekerror/logw"

	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/rulescript"

	_ "github.com/ruleforge/engine/pkg/rulescript/chess"
	_ "github.com/ruleforge/engine/pkg/rulescript/toy1d"
)

var (
	depth  = flag.Int("depth", 4, "search depth")
	name   = flag.String("script", "chess", "registered rule script name")
	divide = flag.Bool("divide", false, "print per-root-move counts at the final depth")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	script, err := rulescript.New(*name)
	if err != nil {
		logw.Exitf(ctx, "Failed to load script %q: %v", *name, err)
	}

	root := script.InitialPosition()

	for i := 1; i <= *depth; i++ {
		start := time.Now()
		nodes := search(script, root, i, *divide && i == *depth)
		duration := time.Since(start)

		fmt.Printf("perft,%v,%v,%v,%v\n", *name, i, nodes, duration.Microseconds())
	}
}

func search(script rulescript.Script, pos *game.Position, depth int, d bool) int64 {
	if depth == 0 {
		return 1
	}
	if script.Classify(pos) != rulescript.Other {
		return 1
	}

	var nodes int64
	for _, m := range script.ValidMoves(pos, nil) {
		prevBoard, prevSide := game.Apply(pos, m)
		count := search(script, pos, depth-1, false)
		game.Unapply(pos, prevBoard, prevSide)

		if d {
			fmt.Printf("%v: %v\n", m, count)
		}
		nodes += count
	}
	return nodes
}
