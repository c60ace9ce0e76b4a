package linebuf

import (
	"bytes"
	"fmt"
	"math"

	"github.com/npillmayer/splaytext/segvec"
)

// Buffer is a line-indexed text buffer. Create one with New or Load.
//
// Byte layout of the underlying vector:
//
//	[BOM] CRLF line₀ break₀ line₁ break₁ … lineₙ₋₁ CRLF
//
// The leading CRLF (prefix) and the trailing CRLF (suffix) are synthetic; the
// suffix doubles as the terminator of the last line.
type Buffer struct {
	vec   *segvec.Vector[byte]
	index lineIndex
	cfg   Config

	totalLines    int
	currentLine   int // cursor line, 0 ≤ currentLine ≤ totalLines
	currentOffset int // byte offset of the start of currentLine

	prefixLen int
	suffixLen int
	bomLen    int
}

// New creates a buffer holding a single empty line.
func New(cfg Config) (*Buffer, error) {
	b, err := newBuffer(cfg)
	if err != nil {
		return nil, err
	}
	b.Clear()
	return b, nil
}

func newBuffer(cfg Config) (*Buffer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg = cfg.normalized()
	vec, err := segvec.New[byte](cfg.vectorConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	b := &Buffer{vec: vec, cfg: cfg}
	b.index.sparseness = cfg.IndexSparseness
	return b, nil
}

// Config returns the normalized configuration of b.
func (b *Buffer) Config() Config {
	return b.cfg
}

// Clear resets b to a single empty line. A BOM is dropped.
func (b *Buffer) Clear() {
	b.vec.Clear()
	b.bomLen = 0
	b.prefixLen = len(canonical)
	b.suffixLen = len(canonical)
	b.must(b.vec.InsertRange(0, canonical))
	b.must(b.vec.InsertRange(b.prefixLen, canonical))
	b.totalLines = 1
	b.currentLine = 0
	b.currentOffset = b.prefixLen
	b.index.reset(b.prefixLen, b.suffixLen)
	b.autoValidate(math.MaxInt)
}

// Count returns the number of lines. A buffer always has at least one line.
func (b *Buffer) Count() int {
	return b.totalLines
}

// Current returns the line the cursor is on.
func (b *Buffer) Current() int {
	return b.currentLine
}

// ByteLen returns the length of the logical content in bytes, with line
// breaks as stored but without the synthetic markers and BOM.
func (b *Buffer) ByteLen() int {
	return b.vec.Len() - b.prefixLen - b.suffixLen
}

// HasBOM reports whether the content was loaded with a UTF-8 byte order mark.
// The BOM is kept out of the logical content.
func (b *Buffer) HasBOM() bool {
	return b.bomLen > 0
}

// must panics on errors which signal a defect of the buffer, not of the caller.
func (b *Buffer) must(err error) {
	if err != nil {
		tracer().Errorf("line buffer: %v", err)
		panic(fmt.Errorf("%w: %w", ErrCorrupt, err))
	}
}

func (b *Buffer) autoValidate(cutoff int) {
	if b.cfg.Validate && b.totalLines < cutoff {
		if err := b.Validate(); err != nil {
			panic(err)
		}
	}
}

// --- Line break helpers ----------------------------------------------------

func (b *Buffer) isAtLineEnding(offset int) bool {
	c := b.vec.At(offset)
	return c == '\r' || c == '\n'
}

// startOfLineBreak returns the first byte of the line break whose last byte is
// at offset.
func (b *Buffer) startOfLineBreak(offset int) int {
	switch b.vec.At(offset) {
	case '\n':
		if offset > 0 && b.vec.At(offset-1) == '\r' {
			return offset - 1
		}
		return offset
	case '\r':
		return offset
	}
	panic(fmt.Errorf("%w: no line break at offset %d", ErrCorrupt, offset))
}

// afterLineBreak returns the offset following the line break starting at offset.
func (b *Buffer) afterLineBreak(offset int) int {
	switch b.vec.At(offset) {
	case '\r':
		if offset+1 < b.vec.Len() && b.vec.At(offset+1) == '\n' {
			return offset + 2
		}
		return offset + 1
	case '\n':
		return offset + 1
	}
	panic(fmt.Errorf("%w: no line break at offset %d", ErrCorrupt, offset))
}

// currentLineExtent measures the line starting at offset.
func (b *Buffer) currentLineExtent(offset int) (bodyLen, breakLen int) {
	assert(b.isAtLineEnding(offset-1), "line buffer: offset is not at a line start")
	breakStart, err := segvec.IndexOfAny(b.vec, lineEndingChars, offset, b.vec.Len()-offset)
	b.must(err)
	assert(breakStart >= 0 && breakStart <= b.vec.Len()-b.suffixLen, "line buffer: missing suffix marker")
	return breakStart - offset, b.afterLineBreak(breakStart) - breakStart
}

// previousLineExtent measures the line ending right before offset.
func (b *Buffer) previousLineExtent(offset int) (start, bodyLen, breakLen int) {
	assert(b.isAtLineEnding(offset-1), "line buffer: offset is not at a line start")
	assert(offset-1 >= b.prefixLen, "line buffer: no line before offset")
	breakStart := b.startOfLineBreak(offset - 1)
	preceding, err := segvec.LastIndexOfAny(b.vec, lineEndingChars, breakStart-1, breakStart)
	b.must(err)
	assert(preceding >= b.prefixLen-1, "line buffer: missing prefix marker")
	start = preceding + 1
	return start, breakStart - start, offset - breakStart
}

// walk moves a (line, offset) position line by line to target.
func (b *Buffer) walk(target, line, offset int) int {
	for ; line < target; line++ {
		bodyLen, breakLen := b.currentLineExtent(offset)
		offset += bodyLen + breakLen
	}
	for ; line > target; line-- {
		offset, _, _ = b.previousLineExtent(offset)
	}
	return offset
}

// offsetRelative returns the offset of the line lines away from the line
// starting at offset.
func (b *Buffer) offsetRelative(lines, offset int) int {
	return b.walk(lines, 0, offset)
}

// --- Cursor ----------------------------------------------------------------

// MoveTo moves the cursor to the start of line target, 0 ≤ target ≤ Count().
// Moving to Count() places the cursor behind the suffix marker.
func (b *Buffer) MoveTo(target int) error {
	if target < 0 || target > b.totalLines {
		return fmt.Errorf("%w: move to %d, buffer has %d lines", ErrLineOutOfRange, target, b.totalLines)
	}
	b.autoValidate(validateCutoffThorough)
	assert(b.index.lineCount() == b.totalLines, "line buffer: index line count out of sync")
	assert(b.index.charCount() == b.vec.Len(), "line buffer: index byte count out of sync")
	e := b.index.nearest(target)
	if abs(e.startLine-target) < abs(b.currentLine-target) {
		b.currentLine = e.startLine
		b.currentOffset = e.charOffset
		b.autoValidate(validateCutoffModerate)
	}
	b.currentOffset = b.walk(target, b.currentLine, b.currentOffset)
	b.currentLine = target
	b.autoValidate(validateCutoffModerate)
	return nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// --- Line access -----------------------------------------------------------

func (b *Buffer) checkLine(index int) error {
	if index < 0 || index >= b.totalLines {
		return fmt.Errorf("%w: line %d, buffer has %d lines", ErrLineOutOfRange, index, b.totalLines)
	}
	return nil
}

func checkPayload(body []byte) error {
	if i := bytes.IndexAny(body, "\r\n"); i >= 0 {
		return fmt.Errorf("%w: byte %d of %d", ErrLineEndingInPayload, i, len(body))
	}
	return nil
}

// Line returns a copy of the body of line index, without its line break.
func (b *Buffer) Line(index int) ([]byte, error) {
	if err := b.checkLine(index); err != nil {
		return nil, err
	}
	b.must(b.MoveTo(index))
	bodyLen, _ := b.currentLineExtent(b.currentOffset)
	return b.vec.Slice(b.currentOffset, b.currentOffset+bodyLen)
}

// LineLen returns the length in bytes of the body of line index.
func (b *Buffer) LineLen(index int) (int, error) {
	if err := b.checkLine(index); err != nil {
		return 0, err
	}
	b.must(b.MoveTo(index))
	bodyLen, _ := b.currentLineExtent(b.currentOffset)
	return bodyLen, nil
}

// SetLine replaces the body of line index. body must not contain CR or LF.
func (b *Buffer) SetLine(index int, body []byte) error {
	if err := checkPayload(body); err != nil {
		return err
	}
	if err := b.checkLine(index); err != nil {
		return err
	}
	b.must(b.MoveTo(index))
	if len(body) == 0 {
		// a lone CR in front of an empty line ending in LF would read as CRLF
		b.normalizePrecedingBreak()
	}
	bodyLen, _ := b.currentLineExtent(b.currentOffset)
	b.must(b.vec.ReplaceRange(b.currentOffset, bodyLen, body))
	b.index.lineLengthChanged(b.currentLine, len(body)-bodyLen)
	b.autoValidate(validateCutoffModerate)
	return nil
}

// InsertLine inserts a new line in front of line index, 0 ≤ index ≤ Count().
// body must not contain CR or LF.
func (b *Buffer) InsertLine(index int, body []byte) error {
	if err := checkPayload(body); err != nil {
		return err
	}
	if index < 0 || index > b.totalLines {
		return fmt.Errorf("%w: insert at %d, buffer has %d lines", ErrLineOutOfRange, index, b.totalLines)
	}
	b.must(b.MoveTo(index))
	b.normalizePrecedingBreak()
	b.must(b.vec.InsertRange(b.currentOffset, body))
	b.must(b.vec.InsertRange(b.currentOffset+len(body), canonical))
	line, offset := b.currentLine, b.currentOffset
	b.index.lineInserted(line, len(body)+len(canonical), func(l int) int {
		return b.offsetRelative(l-line, offset)
	})
	b.totalLines++
	assert(b.isAtLineEnding(b.currentOffset-1), "line buffer: cursor lost line start")
	b.autoValidate(validateCutoffModerate)
	return nil
}

// RemoveLine removes line index. Removing the only line of a buffer leaves a
// single empty line.
func (b *Buffer) RemoveLine(index int) error {
	if err := b.checkLine(index); err != nil {
		return err
	}
	if b.totalLines == 1 {
		return b.SetLine(0, nil)
	}
	b.must(b.MoveTo(index))
	bodyLen, breakLen := b.currentLineExtent(b.currentOffset)
	b.must(b.vec.RemoveRange(b.currentOffset, bodyLen+breakLen))
	b.index.lineRemoved(b.currentLine, -(bodyLen + breakLen))
	b.normalizePrecedingBreak()
	b.totalLines--
	assert(b.currentOffset <= b.vec.Len(), "line buffer: cursor beyond content")
	assert(b.isAtLineEnding(b.currentOffset-1), "line buffer: cursor lost line start")
	b.autoValidate(validateCutoffModerate)
	return nil
}

// normalizePrecedingBreak replaces the line break in front of the cursor by
// the canonical marker.
func (b *Buffer) normalizePrecedingBreak() {
	breakStart := b.startOfLineBreak(b.currentOffset - 1)
	breakLen := b.currentOffset - breakStart
	if breakLen == len(canonical) {
		return // CRLF already
	}
	assert(breakStart >= b.prefixLen, "line buffer: normalizing the prefix marker")
	b.must(b.vec.ReplaceRange(breakStart, breakLen, canonical))
	b.index.lineLengthChanged(b.currentLine-1, len(canonical)-breakLen)
	b.currentOffset += len(canonical) - breakLen
}
