/*
Package segvec implements a segmented vector: a sequence of elements stored in
blocks, with the blocks kept in a weighted splay tree.

Locating an element is O(log n) in the number of blocks, access within the
block is O(1). Inserting or removing a range touches only the blocks at its
boundaries, so edits in the middle of a long sequence are cheap.

Blocks are sized near a target size. Small inserts split the owning block and
insert new blocks of at most the target size; afterwards undersized neighbors
are joined again, which keeps the block count from creeping up under many
small edits.

In fragmentation mode every block is allocated at the full target capacity.
An insert that fits into the spare capacity of the owning block is done by
shifting elements in place, which is the fast path for typing single
characters. Joins in this mode leave head room by merging only up to half the
target size. Elements vacated within a block are always zeroed, so stale
content never resurfaces when a block's capacity is reused.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package segvec

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to the global core-tracer.
func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
