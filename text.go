package splaytext

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/guiguan/caster"
	"github.com/npillmayer/splaytext/linebuf"
	"golang.org/x/text/encoding"
)

// Text is a sequence of lines with section operations on rune columns.
// A Text is not safe for concurrent use; replace events may be consumed
// concurrently (see Subscribe).
type Text struct {
	buf      *linebuf.Buffer
	ending   linebuf.LineEnding // used by WriteTo
	modified bool
	hooks    []func(ReplaceEvent)
	cast     *caster.Caster // created on first Subscribe
}

// New creates a text consisting of a single empty line.
func New(cfg linebuf.Config) (*Text, error) {
	buf, err := linebuf.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Text{buf: buf, ending: linebuf.Unix}, nil
}

// FromString creates a text from a string. Lines may be terminated by CRLF,
// CR or LF.
func FromString(s string) *Text {
	text, _, err := FromReader(strings.NewReader(s), nil, linebuf.Config{})
	if err != nil { // cannot happen for a strings.Reader and a default config
		panic(err)
	}
	return text
}

// FromLines creates a text with one line per argument. No argument yields a
// single empty line. Lines must not contain CR or LF.
func FromLines(lines ...string) (*Text, error) {
	text, err := New(linebuf.Config{})
	if err != nil {
		return nil, err
	}
	for i, line := range lines {
		if i == 0 {
			err = text.buf.SetLine(0, []byte(line))
		} else {
			err = text.buf.InsertLine(i, []byte(line))
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrIllegalArguments, i, err)
		}
	}
	return text, nil
}

// FromReader reads a text from r and reports the line endings found. See
// linebuf.Load for the treatment of enc. The dominant line ending becomes the
// one used by WriteTo.
func FromReader(r io.Reader, enc encoding.Encoding, cfg linebuf.Config) (*Text, linebuf.LineEndingTally, error) {
	buf, tally, err := linebuf.Load(r, enc, cfg)
	if err != nil {
		return nil, tally, err
	}
	text := &Text{buf: buf, ending: linebuf.Unix}
	if tally.Total() > 0 {
		text.ending = tally.Dominant()
	}
	T().Debugf("text: read %d lines, %s", buf.Count(), tally)
	return text, tally, nil
}

// Buffer exposes the line buffer of t. Modifying it directly bypasses
// replace notifications and the modified flag.
func (t *Text) Buffer() *linebuf.Buffer {
	return t.buf
}

// Count returns the number of lines, which is at least 1.
func (t *Text) Count() int {
	return t.buf.Count()
}

// Empty reports whether t consists of a single empty line.
func (t *Text) Empty() bool {
	if t.buf.Count() != 1 {
		return false
	}
	n, _ := t.buf.LineLen(0)
	return n == 0
}

// Modified reports whether t has been changed by a section operation since
// it was created or the flag was reset.
func (t *Text) Modified() bool {
	return t.modified
}

// SetModified sets or resets the modified flag.
func (t *Text) SetModified(modified bool) {
	t.modified = modified
}

// LineEnding returns the line ending WriteTo uses.
func (t *Text) LineEnding() linebuf.LineEnding {
	return t.ending
}

// SetLineEnding sets the line ending WriteTo uses.
func (t *Text) SetLineEnding(ending linebuf.LineEnding) {
	t.ending = ending
}

// Line returns line index without its line break.
func (t *Text) Line(index int) (string, error) {
	line, err := t.line(index)
	return string(line), err
}

// LineLen returns the length of line index in runes.
func (t *Text) LineLen(index int) (int, error) {
	line, err := t.line(index)
	if err != nil {
		return 0, err
	}
	return utf8.RuneCount(line), nil
}

func (t *Text) line(index int) ([]byte, error) {
	if index < 0 || index >= t.buf.Count() {
		return nil, fmt.Errorf("%w: line %d of %d", ErrIndexOutOfBounds, index, t.buf.Count())
	}
	line, err := t.buf.Line(index)
	if err != nil {
		panic(err) // index has been checked
	}
	return line, nil
}

// byteOffset converts a rune column to a byte offset into line. Bytes which
// are not valid UTF-8 count as one rune each.
func byteOffset(line []byte, column int) (int, bool) {
	if column < 0 {
		return 0, false
	}
	offset := 0
	for ; column > 0; column-- {
		if offset >= len(line) {
			return 0, false
		}
		_, w := utf8.DecodeRune(line[offset:])
		offset += w
	}
	return offset, true
}

// section is a checked and resolved section of a text.
type section struct {
	startLine, endLine int
	first, last        []byte // bodies of startLine and endLine
	from, to           int    // byte offsets into first and last
}

func (t *Text) section(startLine, startChar, endLine, endCharPlusOne int) (section, error) {
	var s section
	if startLine > endLine || (startLine == endLine && startChar > endCharPlusOne) {
		return s, fmt.Errorf("%w: section (%d,%d)-(%d,%d) ends before it starts",
			ErrIllegalArguments, startLine, startChar, endLine, endCharPlusOne)
	}
	first, err := t.line(startLine)
	if err != nil {
		return s, err
	}
	last := first
	if endLine != startLine {
		if last, err = t.line(endLine); err != nil {
			return s, err
		}
	}
	from, ok := byteOffset(first, startChar)
	if !ok {
		return s, fmt.Errorf("%w: column %d of line %d", ErrIndexOutOfBounds, startChar, startLine)
	}
	to, ok := byteOffset(last, endCharPlusOne)
	if !ok {
		return s, fmt.Errorf("%w: column %d of line %d", ErrIndexOutOfBounds, endCharPlusOne, endLine)
	}
	return section{
		startLine: startLine, endLine: endLine,
		first: first, last: last,
		from: from, to: to,
	}, nil
}

// CloneSection copies the section from (startLine, startChar) up to, but
// not including, (endLine, endCharPlusOne) into a new, unmodified text.
func (t *Text) CloneSection(startLine, startChar, endLine, endCharPlusOne int) (*Text, error) {
	s, err := t.section(startLine, startChar, endLine, endCharPlusOne)
	if err != nil {
		return nil, err
	}
	return t.clone(s), nil
}

func (t *Text) clone(s section) *Text {
	lines := s.endLine - s.startLine + 1
	buf, _, err := t.buf.Slice(s.startLine, lines)
	if err != nil {
		panic(err) // section has been checked
	}
	if lines == 1 {
		mustSet(buf, 0, s.first[s.from:s.to])
	} else {
		mustSet(buf, 0, s.first[s.from:])
		mustSet(buf, lines-1, s.last[:s.to])
	}
	return &Text{buf: buf, ending: t.ending}
}

// Clone copies all of t into a new, unmodified text.
func (t *Text) Clone() *Text {
	buf, _, err := t.buf.Slice(0, t.buf.Count())
	if err != nil {
		panic(err)
	}
	return &Text{buf: buf, ending: t.ending}
}

func mustSet(buf *linebuf.Buffer, index int, body []byte) {
	if err := buf.SetLine(index, body); err != nil {
		panic(err)
	}
}

func mustInsert(buf *linebuf.Buffer, index int, body []byte) {
	if err := buf.InsertLine(index, body); err != nil {
		panic(err)
	}
}

// DeleteSection removes the section from (startLine, startChar) up to, but
// not including, (endLine, endCharPlusOne). The remainder of endLine is
// appended to startLine.
func (t *Text) DeleteSection(startLine, startChar, endLine, endCharPlusOne int) error {
	s, err := t.section(startLine, startChar, endLine, endCharPlusOne)
	if err != nil {
		return err
	}
	if t.observed() {
		t.notify(ReplaceEvent{
			StartLine:              startLine,
			StartChar:              startChar,
			Deleted:                t.clone(s),
			ReplacedEndLine:        startLine,
			ReplacedEndCharPlusOne: startChar,
		})
	}
	composite := make([]byte, 0, s.from+len(s.last)-s.to)
	composite = append(composite, s.first[:s.from]...)
	composite = append(composite, s.last[s.to:]...)
	for i := s.startLine; i < s.endLine; i++ {
		if err := t.buf.RemoveLine(s.startLine + 1); err != nil {
			panic(err)
		}
	}
	mustSet(t.buf, s.startLine, composite)
	t.modified = true
	return nil
}

// InsertSection inserts the lines of insert at (line, char). The first
// line of insert is appended to the head of line, the tail of line is
// appended to the last line of insert.
func (t *Text) InsertSection(line, char int, insert *Text) error {
	s, err := t.section(line, char, line, char)
	if err != nil {
		return err
	}
	if insert == t {
		insert = t.Clone()
	}
	n := insert.Count()
	lines := make([][]byte, n)
	for i := range lines {
		lines[i], _ = insert.line(i)
	}
	if t.observed() {
		endChar := utf8.RuneCount(lines[n-1])
		if n == 1 {
			endChar += char
		}
		t.notify(ReplaceEvent{
			StartLine:              line,
			StartChar:              char,
			ReplacedEndLine:        line + n - 1,
			ReplacedEndCharPlusOne: endChar,
		})
	}
	head, tail := s.first[:s.from], s.first[s.from:]
	if n == 1 {
		mustSet(t.buf, line, concat(head, lines[0], tail))
	} else {
		for i := 1; i < n-1; i++ {
			mustInsert(t.buf, line+i, lines[i])
		}
		mustInsert(t.buf, line+n-1, concat(lines[n-1], tail))
		mustSet(t.buf, line, concat(head, lines[0]))
	}
	t.modified = true
	return nil
}

func concat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// Join returns the content of t with lines separated by ending.
func (t *Text) Join(ending linebuf.LineEnding) string {
	var sb strings.Builder
	if _, err := t.buf.WriteText(&sb, ending); err != nil {
		panic(err) // strings.Builder does not fail
	}
	return sb.String()
}

// String returns the content of t with lines separated by LF.
func (t *Text) String() string {
	return t.Join(linebuf.Unix)
}

// WriteText writes the content of t to w with lines separated by ending.
func (t *Text) WriteText(w io.Writer, ending linebuf.LineEnding) (int64, error) {
	return t.buf.WriteText(w, ending)
}

// WriteTo writes the content of t to w, using the line ending found
// when t was read, or the one set with SetLineEnding.
func (t *Text) WriteTo(w io.Writer) (int64, error) {
	return t.buf.WriteText(w, t.ending)
}
