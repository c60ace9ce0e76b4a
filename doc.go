/*
Package splaytext is a line-oriented text store for editors.

A Text holds a sequence of lines. It is never empty: a text without content
consists of a single empty line, and a text of n lines holds n-1 line
breaks. Lines are kept in a segmented byte vector with a coarse line index
on top; both are built on order-statistic splay trees (see the sub-packages
splay, rangeindex, segvec and linebuf).

Positions within a line are given as rune offsets. Section operations
(CloneSection, DeleteSection, InsertSection) take a start position and an
end position, the end being exclusive.

	text := splaytext.FromString("Hello\nWorld")
	text.DeleteSection(0, 3, 1, 2)   // "Helrld"

Clients interested in changes may register hooks with OnReplace, which are
called synchronously before a text is modified, or subscribe to a channel of
replace events with Subscribe.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) 2020–21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
this list of conditions and the following disclaimer in the documentation
and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
contributors may be used to endorse or promote products derived from
this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
*/
package splaytext

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

// TextError is an error type for the splaytext module
type TextError string

func (e TextError) Error() string {
	return string(e)
}

// ErrIndexOutOfBounds is flagged whenever a line or column is outside of
// the text.
const ErrIndexOutOfBounds = TextError("index out of bounds")

// ErrIllegalArguments is flagged whenever function parameters are invalid,
// e.g. a section which ends before it starts.
const ErrIllegalArguments = TextError("illegal arguments")
