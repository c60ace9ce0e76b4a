package linebuf

import (
	"bufio"
	"fmt"
	"io"
	"iter"

	"github.com/npillmayer/splaytext/segvec"
)

// Lines returns an iterator over line numbers and line bodies. Each body is a
// fresh copy. The buffer must not be modified during iteration.
func (b *Buffer) Lines() iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		for i := 0; i < b.totalLines; i++ {
			line, err := b.Line(i)
			b.must(err)
			if !yield(i, line) {
				return
			}
		}
	}
}

// WriteText writes the content of b to w, terminating every line but the last
// with ending. A BOM is not written.
func (b *Buffer) WriteText(w io.Writer, ending LineEnding) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	eol := ending.Bytes()
	for i, line := range b.Lines() {
		if i > 0 {
			k, err := bw.Write(eol)
			n += int64(k)
			if err != nil {
				return n, err
			}
		}
		k, err := bw.Write(line)
		n += int64(k)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Slice creates a new buffer from the lines [startLine, startLine+count).
// Line breaks are copied as they are, the last line of the new buffer is
// unterminated. A count of zero yields a buffer with a single empty line.
func (b *Buffer) Slice(startLine, count int) (*Buffer, LineEndingTally, error) {
	if startLine < 0 || count < 0 || startLine+count > b.totalLines {
		return nil, LineEndingTally{}, fmt.Errorf("%w: slice [%d:%d] of %d lines",
			ErrLineOutOfRange, startLine, startLine+count, b.totalLines)
	}
	if count == 0 {
		s, err := New(b.cfg)
		return s, LineEndingTally{}, err
	}
	b.must(b.MoveTo(startLine))
	from := b.currentOffset
	b.must(b.MoveTo(startLine + count))
	to := b.startOfLineBreak(b.currentOffset - 1)
	r, err := segvec.NewReader(b.vec, from, to-from)
	b.must(err)
	return load(r, nil, false, b.cfg)
}

// IndexEntries returns the number of entries of the line index, including
// the entry for the prefix marker.
func (b *Buffer) IndexEntries() int {
	return b.index.ranges.Len()
}

// IndexDepth returns the height of the tree of the line index.
func (b *Buffer) IndexDepth() int {
	return b.index.ranges.Depth()
}

// BlockCount returns the number of blocks of the byte vector.
func (b *Buffer) BlockCount() int {
	return b.vec.BlockCount()
}

// WriteIndexDot writes the tree of the line index in Graphviz DOT format.
func (b *Buffer) WriteIndexDot(w io.Writer) error {
	return b.index.writeDot(w)
}
