package columnar

import (
	"sync"

	"github.com/standardbeagle/codegraph/internal/graph"
	"github.com/standardbeagle/codegraph/internal/types"
)

// NodeIdGenerator hands out densely-increasing NodeIDs per node table
// (§4.E). A full build starts every table at 1; a reindex run seeds each
// table from the store's current max id so new rows never collide with
// surviving ones (invariant 5).
type NodeIdGenerator struct {
	mu   sync.Mutex
	next map[graph.NodeTable]uint32
}

// NewNodeIdGenerator returns a generator with every table starting at 1.
func NewNodeIdGenerator() *NodeIdGenerator {
	return &NodeIdGenerator{next: make(map[graph.NodeTable]uint32)}
}

// Seed sets a table's next id to maxExistingID+1, for reindex runs.
func (g *NodeIdGenerator) Seed(table graph.NodeTable, maxExistingID uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next[table] = maxExistingID + 1
}

// Next returns the next unused id for table and advances the counter.
func (g *NodeIdGenerator) Next(table graph.NodeTable) types.NodeID {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.next[table]
	if !ok {
		n = 1
	}
	g.next[table] = n + 1
	return types.NodeID(n)
}
