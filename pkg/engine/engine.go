// Package engine provides the game-playing facade on top of pkg/search and
// pkg/driver: reset/move/takeback/analyze/halt over a rule-script-driven
// position.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/ruleforge/engine/pkg/driver"
	"github.com/ruleforge/engine/pkg/eval"
	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/rulescript"
	"github.com/ruleforge/engine/pkg/search"
	"github.com/ruleforge/engine/pkg/zobrist"
)

var version = build.NewVersion(0, 1, 0)

// Options are search creation options.
type Options struct {
	// Depth is the search depth limit. If zero, there is no limit. Overridden by
	// per-call Analyze options if provided.
	Depth uint
	// Workers is the search worker-pool size, excluding the caller.
	Workers int
	// Noise adds evaluation randomness, in score units, for variety (eval.Random).
	Noise uint
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, workers=%v, noise=%v}", o.Depth, o.Workers, o.Noise)
}

// Engine encapsulates one rule script's game-playing state: the current
// position, its move history (for TakeBack), and the shared search
// infrastructure (cache, killer table, pool) that persists across moves
// within a game.
type Engine struct {
	name, author string

	newScript func() rulescript.Script
	table     *zobrist.Table
	seed      int64
	opts      Options
	book      Book

	script  rulescript.Script
	pos     *game.Position
	history []game.Move

	cache  *search.Cache
	killer *search.KillerTable
	pool   *search.Pool
	noise  eval.Evaluator

	active driver.Handle
	mu     sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithOptions sets default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithZobrist configures the engine to use the given Zobrist seed instead of
// zobrist.DefaultSeed.
func WithZobrist(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithBook configures an opening book consulted by Analyze before falling
// back to the searcher.
func WithBook(book Book) Option {
	return func(e *Engine) { e.book = book }
}

// New constructs an engine for the named rule script.
func New(ctx context.Context, name, author string, newScript func() rulescript.Script, opts ...Option) *Engine {
	e := &Engine{
		name:      name,
		author:    author,
		newScript: newScript,
		book:      NoBook,
		opts:      Options{Workers: 3},
	}
	for _, fn := range opts {
		fn(e)
	}
	if e.seed == 0 {
		e.seed = zobrist.DefaultSeed
	}
	e.table = zobrist.NewTable(e.seed)

	e.Reset(ctx)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Depth = depth
}

func (e *Engine) SetNoise(amount uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Noise = amount
}

// Board returns a copy of the current position.
func (e *Engine) Board() *game.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pos.Clone()
}

// Reset resets the engine to the rule script's initial position.
func (e *Engine) Reset(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltSearchIfActiveLocked(ctx)

	e.script = e.newScript()
	e.pos = e.script.InitialPosition()
	e.history = nil

	e.cache = search.NewCache()
	e.killer = search.NewKillerTable()
	e.pool = search.NewPool(e.opts.Workers)

	var base eval.Evaluator = eval.PieceSquare{}
	if e.opts.Noise > 0 {
		base = eval.NewRandom(base, int(e.opts.Noise), e.seed)
	}
	e.noise = base

	logw.Infof(ctx, "Reset %v, depth=%v, workers=%v, noise=%vcp", name(e.script), e.opts.Depth, e.opts.Workers, e.opts.Noise)
}

// Move selects the given move, usually supplied by an opponent or an outer
// driver. from/to are matched against the rule script's own
// ValidMoves for the current position.
func (e *Engine) Move(ctx context.Context, from, to game.Coordinate) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltSearchIfActiveLocked(ctx)

	moves := e.script.ValidMoves(e.pos, nil)
	for _, m := range moves {
		if m.From != from || m.To != to {
			continue
		}

		game.Apply(e.pos, m)
		e.history = append(e.history, m)

		logw.Infof(ctx, "Move %v: %v", m, e.pos)
		return nil
	}
	return fmt.Errorf("illegal move: %v->%v", from, to)
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltSearchIfActiveLocked(ctx)

	if len(e.history) == 0 {
		return fmt.Errorf("no move to take back")
	}

	n := len(e.history) - 1
	last := e.history[n]
	e.history = e.history[:n]

	// Replay from the initial position: the engine does not keep a
	// per-ply undo buffer, only the move history, so TakeBack reconstructs
	// the position rather than reversing last in place.
	e.pos = e.script.InitialPosition()
	for _, m := range e.history {
		game.Apply(e.pos, m)
	}

	logw.Infof(ctx, "Takeback %v", last)
	return nil
}

// Analyze analyzes the current position: consults the opening book first,
// and if it has nothing to say, launches the iterative-deepening searcher.
func (e *Engine) Analyze(ctx context.Context, opt driver.Options) (<-chan driver.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	if _, ok := opt.DepthLimit.V(); !ok && e.opts.Depth > 0 {
		opt.DepthLimit = lang.Some(int(e.opts.Depth))
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.pos, opt)

	if moves, err := e.book.Find(ctx, e.table.Hash(e.pos)); err == nil && len(moves) > 0 {
		out := make(chan driver.PV, 1)
		out <- driver.PV{Move: moves[0], HasMove: true}
		close(out)
		return out, nil
	}

	sr := search.NewSearcher(e.newScript, e.table, e.cache, e.killer, e.pool, e.noise)
	it := &driver.Iterative{Searcher: sr}

	h, out := it.Launch(ctx, e.pos.Clone(), opt)
	e.active = h
	return out, nil
}

// Halt halts the active search and returns the principal variation, if any.
func (e *Engine) Halt(ctx context.Context) (driver.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Halt")

	pv, ok := e.haltSearchIfActiveLocked(ctx)
	if !ok {
		return driver.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

func (e *Engine) haltSearchIfActiveLocked(ctx context.Context) (driver.PV, bool) {
	if e.active != nil {
		pv := e.active.Halt()
		logw.Infof(ctx, "Search halted: %v", pv)
		e.active = nil
		return pv, true
	}
	return driver.PV{}, false
}

func name(s rulescript.Script) string {
	w, h := s.BoardDims()
	return fmt.Sprintf("%vx%v board", w, h)
}
