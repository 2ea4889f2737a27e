package eval

import (
	"math/rand"
	"sync"

	"github.com/ruleforge/engine/pkg/game"
)

// Random is a randomized noise generator, layered on top of another
// Evaluator to break ties between otherwise-identical scores. The
// limit specifies how many score units to add/remove, in [-limit/2,
// limit/2]. limit <= 0 always returns zero. Guarded by a mutex since the
// search core's worker pool evaluates leaves concurrently and
// math/rand.Rand is not safe for concurrent use.
type Random struct {
	mu    sync.Mutex
	rand  *rand.Rand
	limit int
	base  Evaluator
}

func NewRandom(base Evaluator, limit int, seed int64) *Random {
	return &Random{
		base:  base,
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (n *Random) Evaluate(p *game.Position) Score {
	s := n.base.Evaluate(p)
	if n.limit <= 0 {
		return s
	}

	n.mu.Lock()
	noise := n.rand.Intn(n.limit) - n.limit/2
	n.mu.Unlock()

	return s + Score(noise)
}
