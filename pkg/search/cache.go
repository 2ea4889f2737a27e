package search

import (
	"sync"

	"github.com/ruleforge/engine/pkg/eval"
)

// Window is a [lo, hi] score-bound window.
type Window struct {
	Lo, Hi eval.Score
}

var defaultWindow = Window{Lo: eval.LOSING, Hi: eval.WINNING}

// Cache is the concurrent transposition cache: a map from
// hash-XOR-depth-nonce to a score-bound window, sharded for write
// contention reduction. Each shard is a mutex-guarded bucket holding the
// window directly, since tighten is a read-modify-write over two bounds
// rather than a whole-entry replace.
type Cache struct {
	shards [Shards]cacheShard
}

type cacheShard struct {
	mu      sync.Mutex
	entries map[uint64]Window
}

// NewCache returns an empty cache. Neither Probe nor Tighten ever evicts:
// this cache grows without bound for the lifetime of a search.
func NewCache() *Cache {
	c := &Cache{}
	for i := range c.shards {
		c.shards[i].entries = make(map[uint64]Window)
	}
	return c
}

func (c *Cache) shard(key uint64) *cacheShard {
	return &c.shards[key%Shards]
}

// Probe returns the window stored for key, if any. On a miss it returns
// the default {LOSING, WINNING} window and false.
func (c *Cache) Probe(key uint64) (Window, bool) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.entries[key]
	if !ok {
		return defaultWindow, false
	}
	return w, ok
}

// Tighten narrows the window for key given a completed search result best
// against threshold gamma: fail-low (best < gamma) lowers hi to
// best; fail-high raises lo to best. Absent entries start from
// {LOSING, WINNING}. Performed entirely under the shard's lock so a
// concurrent tighten on the same key is never lost.
func (c *Cache) Tighten(key uint64, best, gamma eval.Score) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.entries[key]
	if !ok {
		w = defaultWindow
	}

	if best < gamma {
		if best < w.Hi {
			w.Hi = best
		}
	} else {
		if best > w.Lo {
			w.Lo = best
		}
	}
	s.entries[key] = w
}
