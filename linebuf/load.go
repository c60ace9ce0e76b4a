package linebuf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/npillmayer/splaytext/segvec"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads a stream into a new buffer and reports the line endings found.
//
// enc names the encoding of the stream. A nil encoding or UTF-8 keeps the
// bytes as they are and detects a UTF-8 byte order mark. Any other encoding
// must be ASCII compatible as far as CR and LF are concerned (e.g. one of the
// charmap encodings); lines which are not valid UTF-8 are decoded with it.
// Streams in encodings like UTF-16 should be transcoded by the caller.
//
// I/O errors are returned unchanged, wrapped. No buffer is returned in that
// case.
func Load(r io.Reader, enc encoding.Encoding, cfg Config) (*Buffer, LineEndingTally, error) {
	return load(r, enc, true, cfg)
}

func isUTF8(enc encoding.Encoding) bool {
	return enc == nil || enc == unicode.UTF8 || enc == unicode.UTF8BOM
}

func load(r io.Reader, enc encoding.Encoding, detectBOM bool, cfg Config) (*Buffer, LineEndingTally, error) {
	var tally LineEndingTally
	b, err := newBuffer(cfg)
	if err != nil {
		return nil, tally, err
	}
	chunk := make([]byte, b.cfg.BlockSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			b.must(b.vec.InsertRange(b.vec.Len(), chunk[:n]))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, tally, fmt.Errorf("linebuf: reading stream: %w", err)
		}
	}
	utf := isUTF8(enc)
	if detectBOM && utf && b.vec.Len() >= len(utf8BOM) {
		head, _ := b.vec.Slice(0, len(utf8BOM))
		if bytes.Equal(head, utf8BOM) {
			b.bomLen = len(utf8BOM)
		}
	}
	b.prefixLen = b.bomLen + len(canonical)
	b.must(b.vec.InsertRange(b.bomLen, canonical))
	b.suffixLen = len(canonical)
	b.must(b.vec.InsertRange(b.vec.Len(), canonical))
	b.totalLines = 0
	b.currentLine = 0
	b.currentOffset = b.prefixLen
	b.index.reset(b.prefixLen, b.suffixLen)

	endOfData := b.vec.Len() - b.suffixLen
	terminated := 0
	var group struct{ startLine, numLines, charLength int }
	for b.currentOffset < endOfData {
		textEnd, err := indexOfLineEnding(b, b.currentOffset, endOfData)
		if err != nil {
			return nil, tally, err
		}
		if !utf {
			delta, err := b.transcode(enc, b.currentOffset, textEnd)
			if err != nil {
				return nil, tally, err
			}
			textEnd += delta
			endOfData += delta
		}
		next := textEnd
		if next < endOfData {
			terminated++
			if b.vec.At(next) == '\r' {
				if b.vec.At(next+1) == '\n' {
					next++
					tally.Windows++
				} else {
					tally.Macintosh++
				}
			} else {
				tally.Unix++
			}
			next++
		}
		group.numLines++
		group.charLength += next - b.currentOffset
		if group.numLines > b.cfg.IndexSparseness {
			b.index.bulkLinesInserted(group.startLine, group.numLines, group.charLength)
			group.startLine += group.numLines
			group.numLines, group.charLength = 0, 0
		}
		b.currentLine++
		b.totalLines++
		b.currentOffset = next
	}
	if group.numLines > 0 {
		b.index.bulkLinesInserted(group.startLine, group.numLines, group.charLength)
	}
	if terminated == b.totalLines {
		// content ends with a line break (or is empty): the suffix entry of
		// the index stands for the final empty line
		b.totalLines++
	} else {
		// the last line is unterminated: the suffix marker takes its place
		b.index.lineRemoved(b.currentLine, -b.suffixLen)
		b.index.lineLengthChanged(b.currentLine, b.suffixLen)
		b.currentOffset += b.suffixLen
	}
	tracer().Debugf("line buffer: loaded %d lines, %d bytes, %s", b.totalLines, b.ByteLen(), tally)
	b.autoValidate(math.MaxInt)
	return b, tally, nil
}

// indexOfLineEnding returns the offset of the next CR or LF in [from, to), or
// to if there is none.
func indexOfLineEnding(b *Buffer, from, to int) (int, error) {
	i, err := segvec.IndexOfAny(b.vec, lineEndingChars, from, to-from)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return to, nil
	}
	return i, nil
}

// transcode decodes the line body [from, to) with enc if it is not valid
// UTF-8, and returns the change in length.
func (b *Buffer) transcode(enc encoding.Encoding, from, to int) (int, error) {
	body, err := b.vec.Slice(from, to)
	if err != nil {
		return 0, err
	}
	if utf8.Valid(body) {
		return 0, nil
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return 0, fmt.Errorf("linebuf: decoding line at byte %d: %w", from, err)
	}
	if err := checkPayload(decoded); err != nil {
		return 0, fmt.Errorf("linebuf: decoding line at byte %d: %w", from, err)
	}
	b.must(b.vec.ReplaceRange(from, len(body), decoded))
	return len(decoded) - len(body), nil
}
