package metrics

import (
	"unicode"
	"unicode/utf8"
)

// Span is a byte-range descriptor inside a line.
//
// Pos is the start byte offset, Len is the span length in bytes.
type Span struct {
	Pos int
	Len int
}

// Words returns the spans of the words of a line. Words are runs of
// characters which are not white space.
func Words(line []byte) []Span {
	spans := make([]Span, 0, 8)
	for pos := 0; pos < len(line); {
		r, width := utf8.DecodeRune(line[pos:])
		if unicode.IsSpace(r) {
			pos += width
			continue
		}
		start := pos
		pos += width
		for pos < len(line) {
			r, width = utf8.DecodeRune(line[pos:])
			if unicode.IsSpace(r) {
				break
			}
			pos += width
		}
		spans = append(spans, Span{Pos: start, Len: pos - start})
	}
	return spans
}

// WordCount returns the number of words of a line.
func WordCount(line []byte) int {
	return len(Words(line))
}
