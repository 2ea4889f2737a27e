package search

import "github.com/ruleforge/engine/pkg/zobrist"

// Shards is the shard count for the concurrent cache and killer table.
const Shards = 32

// MinDepth bounds how far depth may go negative under null-move reductions;
// shared with the Zobrist depth-nonce table so a node's cache key always
// indexes a valid nonce.
const MinDepth = zobrist.MinDepth

// Futility pruning constants.
const (
	QS  = 40
	QSA = 140
)
