// Package protocol implements the line-oriented outer-server I/O: a
// driver that reads board-dimension and position queries from stdin and
// writes legal-move listings or best-move answers to stdout.
package protocol

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/iox"

	"github.com/ruleforge/engine/pkg/driver"
	"github.com/ruleforge/engine/pkg/eval"
	"github.com/ruleforge/engine/pkg/game"
	"github.com/ruleforge/engine/pkg/rulescript"
	"github.com/ruleforge/engine/pkg/search"
	"github.com/ruleforge/engine/pkg/zobrist"
)

const ProtocolName = "line"

// ptypeFor maps a rulescript.Classification onto the integer encoding for
// the q=0 response's first line.
func ptypeFor(c rulescript.Classification) int {
	switch c {
	case rulescript.Win:
		return 1
	case rulescript.Draw:
		return 0
	case rulescript.Loss:
		return -1
	default:
		return -2
	}
}

// Driver implements the outer-server protocol: one process per game,
// stateless across queries except for the shared search caches that persist
// between q=1 calls to make deepening cheaper on repeated positions.
type Driver struct {
	iox.AsyncCloser

	script    rulescript.Script
	newScript func() rulescript.Script
	table     *zobrist.Table
	cache     *search.Cache
	killer    *search.KillerTable
	workers   int
	opt       driver.Options

	out chan<- string
}

// NewDriver constructs a protocol driver over the given rule script and
// begins processing in <-chan string, writing responses to the returned
// channel (closed when in is exhausted or a ProtocolError terminates the
// process).
func NewDriver(ctx context.Context, newScript func() rulescript.Script, workers int, opt driver.Options, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		script:      newScript(),
		newScript:   newScript,
		table:       zobrist.NewTable(zobrist.DefaultSeed),
		cache:       search.NewCache(),
		killer:      search.NewKillerTable(),
		workers:     workers,
		opt:         opt,
		out:         out,
	}
	go d.process(ctx, in)
	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "Line protocol initialized")

	width, height := d.script.BoardDims()

	header, ok := d.readLine(ctx, in)
	if !ok {
		return
	}
	n, m, err := parseDims(header)
	if err != nil {
		logw.Errorf(ctx, "Malformed header %q: %v", header, err)
		return
	}
	if n != int(width) || m != int(height) {
		logw.Errorf(ctx, "Board dims %v x %v do not match script dims %v x %v", n, m, width, height)
		return
	}

	for {
		line, ok := d.readLine(ctx, in)
		if !ok {
			return
		}
		if err := d.handleQuery(ctx, line, n, m); err != nil {
			logw.Errorf(ctx, "Query %q failed: %v", line, err)
			return
		}
	}
}

func (d *Driver) readLine(ctx context.Context, in <-chan string) (string, bool) {
	line, ok := <-in
	if !ok {
		logw.Infof(ctx, "Input stream broken. Exiting")
		return "", false
	}
	return line, true
}

func parseDims(line string) (int, int, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected 'n m', got %q", line)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, err
	}
	m, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, err
	}
	return n, m, nil
}

func (d *Driver) handleQuery(ctx context.Context, line string, n, m int) error {
	fields := strings.Fields(line)
	if len(fields) < 2+n*m {
		return fmt.Errorf("malformed query %q: expected 'q nextPlayer board...'", line)
	}

	q, err := strconv.Atoi(fields[0])
	if err != nil {
		return err
	}

	pos, err := parsePosition(fields[1:], n, m)
	if err != nil {
		return err
	}

	switch q {
	case 0:
		d.respondLegalMoves(ctx, pos, n, m)
		return nil
	case 1:
		return d.respondBestMove(ctx, pos, n, m)
	default:
		return fmt.Errorf("unknown query kind %v", q)
	}
}

func parsePosition(fields []string, n, m int) (*game.Position, error) {
	nextPlayer, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, err
	}
	p := &game.Position{Width: uint8(n), Height: uint8(m), NextPlayer: uint8(nextPlayer)}

	for i := 0; i < n*m; i++ {
		v, err := strconv.Atoi(fields[1+i])
		if err != nil {
			return nil, err
		}
		p.Board[i] = byte(v)
	}
	return p, nil
}

// respondLegalMoves implements the q=0 response.
func (d *Driver) respondLegalMoves(ctx context.Context, pos *game.Position, n, m int) {
	classification := d.script.Classify(pos)
	moves := d.script.ValidMoves(pos, nil)

	d.out <- strconv.Itoa(ptypeFor(classification))
	d.out <- strconv.Itoa(len(moves))
	for _, mv := range moves {
		d.out <- formatMove(mv, n, m)
	}

	logw.Debugf(ctx, "q=0 %v: ptype=%v moves=%v", pos, classification, len(moves))
}

// respondBestMove implements the q=1 response: a single best move, or an
// error if the position has no legal continuation.
func (d *Driver) respondBestMove(ctx context.Context, pos *game.Position, n, m int) error {
	moves := d.script.ValidMoves(pos, nil)
	if len(moves) == 0 {
		return fmt.Errorf("no legal move from position")
	}

	sr := search.NewSearcher(d.newScript, d.table, d.cache, d.killer, search.NewPool(d.workers), eval.PieceSquare{})
	it := &driver.Iterative{Searcher: sr}

	h, pvs := it.Launch(ctx, pos, d.opt)
	var last driver.PV
	for pv := range pvs {
		last = pv
	}
	h.Halt()

	if !last.HasMove {
		return fmt.Errorf("search produced no move")
	}

	d.out <- formatMove(last.Move, n, m)
	logw.Debugf(ctx, "q=1 %v: move=%v score=%v depth=%v", pos, last.Move, last.Score, last.Depth)
	return nil
}

// formatMove renders a move as "from_i from_j to_i to_j n m board...".
func formatMove(m game.Move, n, mdim int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v %v %v %v %v %v", m.From.Row, m.From.Col, m.To.Row, m.To.Col, n, mdim)
	for i := 0; i < n*mdim; i++ {
		fmt.Fprintf(&sb, " %v", m.Board[i])
	}
	return sb.String()
}

// DefaultOptions returns the default analysis budget for q=1 queries.
func DefaultOptions() driver.Options {
	return driver.Options{TimeLimit: lang.Some(driver.DefaultTimeLimit)}
}
