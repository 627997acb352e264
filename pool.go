package lyn

// Pool is the memory substrate described in spec.md §4.1: every AST
// node is "allocated" and "freed" through it so the pipeline can
// assert the §8 invariant that a full free walk drives LiveCount back
// to zero, and so a batch of independent compilations never leaks
// state into each other (spec.md §5).
//
// Go's garbage collector already reclaims node memory, so unlike the
// C original's fixed-block free list, Pool's job is narrowed to
// exactly the part of the contract that still matters here:
// recycling is a no-op, counting is not. Alloc/Free are still the
// single choke point every node passes through, which is what makes
// the live-count invariant and the "reset between compilations" rule
// checkable at all.
type Pool struct {
	allocCount int
	liveCount  int
	exhausted  bool // test hook: forces Alloc to return a ResourceError
}

func NewPool() *Pool { return &Pool{} }

// Alloc records one more live node. It returns a ResourceError only
// when the pool has been explicitly marked exhausted (used by tests
// exercising the depleted-pool error path from spec.md §4.1); a real
// Pool never exhausts under Go's allocator.
func (p *Pool) Alloc() error {
	if p.exhausted {
		return newResourceError("AST pool exhausted")
	}
	p.allocCount++
	p.liveCount++
	return nil
}

// Free releases a single node's accounting. It does not recurse —
// FreeAST walks the tree and calls Free once per node, so the
// optimizer can release a single dropped subtree without disturbing
// nodes still reachable from the parent.
func (p *Pool) Free() {
	p.liveCount--
}

func (p *Pool) LiveCount() int  { return p.liveCount }
func (p *Pool) AllocCount() int { return p.allocCount }

// MarkExhausted is a test-only hook simulating a depleted pool.
func (p *Pool) MarkExhausted() { p.exhausted = true }

// FreeAST recursively releases n and every node it owns. Child
// pointers are exclusively owned by their parent (spec.md §3), so a
// single post-order walk visits every allocated node exactly once.
func FreeAST(p *Pool, n Node) {
	if n == nil {
		return
	}
	for _, c := range Children(n) {
		FreeAST(p, c)
	}
	p.Free()
}
