/*
Package linebuf implements a line-indexed text buffer over a segmented vector
of UTF-8 bytes.

The byte sequence always begins and ends with a synthetic CRLF marker. The
marker pair is not part of the logical content, it guarantees that every
search for the nearest line boundary succeeds without special cases at the
ends. A line is the span of bytes between two consecutive line breaks,
excluding the break itself; CRLF, CR and LF are all recognized.

Line positions are tracked two-level. A coarse index maps runs of lines to
their byte lengths (one entry per up to Config.IndexSparseness lines), and a
cursor remembers the start of the line visited last. Moving to a line starts
from whichever of the nearest index entry or the cursor is closer and then
walks line by line. Sequential access patterns thus cost a constant scan per
line, and the index stays small.

Mutations write CRLF after every line they touch, regardless of the line
breaks found when loading. A Buffer records the line endings found while
loading in a LineEndingTally, and serialization may choose any line ending.

A Buffer is not safe for concurrent use.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package linebuf

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
