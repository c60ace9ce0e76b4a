/*
Package metrics provides per-line display metrics on texts: cell width,
grapheme count and words, plus a cache of line widths which follows the
changes of a text.

Widths are measured according to UAX#11 (East Asian Width), graphemes
according to UAX#29.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) 2020–21, Norbert Pillmayer

Please refer to the LICENSE file for details.
*/
package metrics

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with the global core-tracer
func tracer() tracing.Trace {
	return gtrace.CoreTracer
}
