package linebuf

import (
	"bytes"
	"fmt"

	"github.com/npillmayer/splaytext/segvec"
)

// Validate walks every line boundary from scratch and cross-checks the
// result against the prefix and suffix markers, the cursor and the line
// index. It is O(n) and meant for tests and debugging.
func (b *Buffer) Validate() error {
	err := b.validate()
	if err != nil {
		tracer().Errorf("line buffer: %v", err)
	}
	return err
}

func (b *Buffer) validate() error {
	n := b.vec.Len()
	if n < b.prefixLen+b.suffixLen {
		return fmt.Errorf("%w: content of %d bytes cannot hold markers", ErrCorrupt, n)
	}
	var lineOffsets []int
	for offset := b.prefixLen; offset != n; {
		if offset > n {
			return fmt.Errorf("%w: line break overruns content at %d", ErrCorrupt, offset)
		}
		lineOffsets = append(lineOffsets, offset)
		next, err := segvec.IndexOfAny(b.vec, lineEndingChars, offset, n-offset)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if next < offset {
			return fmt.Errorf("%w: unterminated line at %d", ErrCorrupt, offset)
		}
		offset = b.afterLineBreak(next)
	}
	marker := make([]byte, len(canonical))
	if err := b.vec.CopyOut(b.prefixLen-len(canonical), marker); err != nil || !bytes.Equal(marker, canonical) {
		return fmt.Errorf("%w: prefix marker %q", ErrCorrupt, marker)
	}
	if err := b.vec.CopyOut(n-b.suffixLen, marker); err != nil || !bytes.Equal(marker, canonical) {
		return fmt.Errorf("%w: suffix marker %q", ErrCorrupt, marker)
	}
	if len(lineOffsets) != b.totalLines {
		return fmt.Errorf("%w: found %d lines, expected %d", ErrCorrupt, len(lineOffsets), b.totalLines)
	}
	lineOffsets = append(lineOffsets, n)
	if b.currentLine < 0 || b.currentLine > b.totalLines {
		return fmt.Errorf("%w: cursor at line %d of %d", ErrCorrupt, b.currentLine, b.totalLines)
	}
	if b.currentOffset != lineOffsets[b.currentLine] {
		return fmt.Errorf("%w: cursor line %d at offset %d, line starts at %d",
			ErrCorrupt, b.currentLine, b.currentOffset, lineOffsets[b.currentLine])
	}
	if b.index.lineCount() != b.totalLines {
		return fmt.Errorf("%w: index covers %d lines, expected %d", ErrCorrupt, b.index.lineCount(), b.totalLines)
	}
	if b.index.charCount() != n {
		return fmt.Errorf("%w: index covers %d bytes, expected %d", ErrCorrupt, b.index.charCount(), n)
	}
	for e := range b.index.entries() {
		if lineOffsets[e.startLine] != e.charOffset {
			return fmt.Errorf("%w: index entry for line %d at offset %d, line starts at %d",
				ErrCorrupt, e.startLine, e.charOffset, lineOffsets[e.startLine])
		}
	}
	return b.index.ranges.Check()
}
