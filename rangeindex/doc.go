/*
Package rangeindex implements a sparse range index: an ordered sequence of
ranges which tile a dense X coordinate space and carry a sparse Y weight.

A typical use is mapping line numbers to byte offsets. X counts lines, Y
counts bytes, and an entry may stand for a whole run of lines. X ranges never
have gaps and are never empty; Y ranges may be empty.

Ranges are addressed by their X start only. Callers are expected to derive
starts from a prior NearestLessOrEqual or Extent call, so an exact-start miss
(splay.ErrKeyNotFound) signals a defect on the caller's side.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package rangeindex

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to the global core-tracer.
func tracer() tracing.Trace {
	return gtrace.CoreTracer
}
