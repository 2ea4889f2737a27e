// Package driver implements the top-level search controller: iterative
// deepening over increasing depth, with an MTD(f)-style bisection of the
// score window at each depth.
package driver

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"

	"github.com/ruleforge/engine/pkg/eval"
	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/search"
	"github.com/ruleforge/engine/pkg/zobrist"
)

// EvalRoughness is the bisection window the driver considers converged.
const EvalRoughness eval.Score = 15

// DefaultTimeLimit is the wall-clock budget for one Analyze call absent an
// explicit TimeLimit option.
const DefaultTimeLimit = 10 * time.Second

// MaxDepth bounds the outer iterative-deepening loop.
const MaxDepth = zobrist.MaxDepth

// Options hold the dynamic knobs for one Analyze call.
type Options struct {
	// DepthLimit, if set, stops deepening once this ply depth completes.
	DepthLimit lang.Optional[int]
	// TimeLimit, if set, overrides DefaultTimeLimit.
	TimeLimit lang.Optional[time.Duration]
}

func (o Options) String() string {
	var parts []string
	if v, ok := o.DepthLimit.V(); ok {
		parts = append(parts, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.TimeLimit.V(); ok {
		parts = append(parts, fmt.Sprintf("time=%v", v))
	}
	return fmt.Sprintf("[%v]", strings.Join(parts, ", "))
}

// PV is one reported principal-variation update: the best move and score
// found so far, at the given completed depth.
type PV struct {
	Depth   int
	Score   eval.Score
	Move    game.Move
	HasMove bool
	Time    time.Duration
}

func (p PV) String() string {
	if !p.HasMove {
		return fmt.Sprintf("depth=%v score=%v (no move)", p.Depth, p.Score)
	}
	return fmt.Sprintf("depth=%v score=%v move=%v (%v)", p.Depth, p.Score, p.Move, p.Time)
}

// Handle lets the caller halt an in-flight Analyze call. Halt is
// idempotent and always returns the latest PV.
type Handle interface {
	Halt() PV
}

// Iterative drives one Searcher through the iterative-deepening + MTD(f)
// bisection loop.
type Iterative struct {
	Searcher *search.Searcher
}

// Launch starts the search loop in its own goroutine and returns a Handle
// plus a channel of PV updates, one per completed depth; the channel is
// closed when the search loop returns (deepening exhausted, depth limit
// reached, a forced mate found, or time budget spent).
func (it *Iterative) Launch(ctx context.Context, root *game.Position, opt Options) (Handle, <-chan PV) {
	out := make(chan PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, it.Searcher, root, opt, out)
	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	mu sync.Mutex
	pv PV
}

func (h *handle) process(ctx context.Context, sr *search.Searcher, root *game.Position, opt Options, out chan PV) {
	defer h.init.Close()
	defer close(out)

	limit := DefaultTimeLimit
	if v, ok := opt.TimeLimit.V(); ok {
		limit = v
	}

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	deadline := time.Now().Add(limit)

	maxDepth := MaxDepth
	if v, ok := opt.DepthLimit.V(); ok && v < maxDepth {
		maxDepth = v
	}

	for depth := 1; depth <= maxDepth; depth++ {
		if h.quit.IsClosed() || contextx.IsCancelled(wctx) {
			return
		}

		start := time.Now()
		move, score, hasMove, ok := bisect(wctx, sr, root, depth, deadline)
		if !ok {
			return // halted mid-bisection
		}
		overTime := time.Now().After(deadline)

		pv := PV{Depth: depth, Score: score, Move: move, HasMove: hasMove, Time: time.Since(start)}

		logw.Debugf(ctx, "Searched depth=%v: %v", depth, pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()

		if !hasMove {
			return // no probe at this depth reported a move (e.g. a terminal root).
		}
		if overTime {
			return
		}
		if score >= eval.WINNING-eval.Score(depth) || score <= eval.LOSING+eval.Score(depth) {
			return // forced win/loss found within this depth: exact result.
		}
	}
}

// bisect runs the MTD(f)-style binary search over score bounds at a fixed
// depth: repeated null-window Bound calls narrow [lo, hi]
// until the window is within EvalRoughness or the deadline passes. The
// returned move is the one from the latest Bound call that reported a move.
// The last result is false if ctx was cancelled.
func bisect(ctx context.Context, sr *search.Searcher, root *game.Position, depth int, deadline time.Time) (game.Move, eval.Score, bool, bool) {
	lo, hi := eval.LOSING, eval.WINNING
	var move game.Move
	var score eval.Score
	var hasMove bool

	for hi-lo > EvalRoughness && !time.Now().After(deadline) && !contextx.IsCancelled(ctx) {
		mid := (hi + lo + 1) / 2

		m, s, has := sr.Bound(ctx, root, mid, depth)
		score = s
		if has {
			move, hasMove = m, true
		}

		if s >= mid {
			lo = s
		} else {
			hi = s - 1
		}
	}

	return move, score, hasMove, !contextx.IsCancelled(ctx)
}

func (h *handle) Halt() PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv
}
