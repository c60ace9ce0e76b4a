/*
Package splay provides a top-down splay tree over ranges carrying two
cumulative weights.

Every entry of the tree covers a contiguous range in a dense X coordinate
space and contributes a second, sparse weight Y. Entries do not store
absolute coordinates. A node keeps its local weights (xCount, yCount) and the
aggregate weights of its subtree (xSize, ySize); the start of an entry is
derived while searching, by summing weights along the search path.

	xSize(n) = xSize(left(n)) + xCount(n) + xSize(right(n))
	ySize(n) = ySize(left(n)) + yCount(n) + ySize(right(n))

The ranges tile the X space without gaps: the start of an entry is the sum of
the xCounts of all entries in front of it. Y carries no such requirement,
zero-length Y ranges are legal.

Splaying is adapted from D. Sleator's simple top-down splay (1992), with the
modification that splaying works for keys not present in the tree: the node
left at the root is then a neighbor of the key. Rotations recompute subtree
weights, and after the walk two clean-up passes repair the weights along the
spines of the left and right trees assembled during the walk.

Nodes live in an arena and are addressed by index; the empty subtree is the
reserved index 0. There are no parent links and no shared sentinel node.
Removed nodes are zeroed and recycled.

All operations are amortized O(log n). A Tree is not safe for concurrent use.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package splay

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
