package lyn

import "strconv"

// Context threads the four pieces of process state spec.md §5/§9
// calls out as "global" in the C original — the active Backend, the
// AST Pool, the global code-gen symbol set, and the label counter —
// through the pipeline explicitly. A fresh Context per compilation
// means batch/multi-target runs never contaminate each other, with no
// locking required (spec.md §5: single-threaded, synchronous).
type Context struct {
	Pool    *Pool
	Backend Backend

	globals      []string // insertion order, deterministic given input
	globalsSet   map[string]bool
	labelCounter int
}

// NewContext creates a Context for a single compilation targeting the
// given Backend.
func NewContext(backend Backend) *Context {
	return &Context{
		Pool:       NewPool(),
		Backend:    backend,
		globalsSet: map[string]bool{},
	}
}

// AddGlobal registers name as a global symbol if it hasn't been seen
// yet in this compilation, preserving first-seen order for
// deterministic `.data` emission (spec.md §3).
func (c *Context) AddGlobal(name string) {
	if c.globalsSet[name] {
		return
	}
	c.globalsSet[name] = true
	c.globals = append(c.globals, name)
}

// Globals returns the global symbol set in emission order.
func (c *Context) Globals() []string { return c.globals }

// NextLabel returns a fresh, compilation-unique label built from
// prefix, satisfying the §8 label-uniqueness invariant: the counter is
// per-Context, not a package global, so two Contexts compiling
// concurrently (e.g. a multi-target batch) never collide.
func (c *Context) NextLabel(prefix string) string {
	c.labelCounter++
	return labelName(prefix, c.labelCounter)
}

func labelName(prefix string, n int) string {
	return prefix + "_" + strconv.Itoa(n)
}
