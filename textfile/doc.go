/*
Package textfile loads and saves texts from and to files.

Files are read completely into a text. Encodings other than UTF-8 are
supported through golang.org/x/text/encoding: ASCII-compatible encodings
(e.g. the charmap family) are decoded line by line, all others (e.g. UTF-16)
are decoded as a stream. A byte order mark in the file overrides the
encoding given.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the LICENSE file for details.
*/
package textfile

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with the global core-tracer
func tracer() tracing.Trace {
	return gtrace.CoreTracer
}
