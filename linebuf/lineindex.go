package linebuf

import (
	"io"
	"iter"

	"github.com/npillmayer/splaytext/rangeindex"
)

// lineIndex is the coarse line index of a buffer. Each entry covers a run of
// lines (X) and their byte length including line breaks (Y).
//
// Entry 0 stands for the prefix marker, so line l lives at X coordinate l+1.
// All exported positions of the index are in lines; the +1 shift is local to
// this type.
type lineIndex struct {
	ranges     rangeindex.Array
	sparseness int
}

// indexEntry is an entry of the line index, in line coordinates.
type indexEntry struct {
	startLine, numLines   int
	charOffset, charCount int
}

func (ix *lineIndex) reset(prefixLen, suffixLen int) {
	ix.ranges.Clear()
	ix.must(ix.ranges.Insert(0, 1, prefixLen))
	ix.must(ix.ranges.Insert(1, 1, suffixLen))
}

func (ix *lineIndex) must(err error) {
	if err != nil {
		tracer().Errorf("line index: %v", err)
		panic(err)
	}
}

// lineCount is the number of lines covered, excluding the prefix entry.
func (ix *lineIndex) lineCount() int {
	return ix.ranges.XSize() - 1
}

// charCount is the number of bytes covered, including prefix and suffix.
func (ix *lineIndex) charCount() int {
	return ix.ranges.YSize()
}

// nearest returns the entry covering line. A line beyond the end yields the
// last entry.
func (ix *lineIndex) nearest(line int) indexEntry {
	r, err := ix.ranges.NearestLessOrEqualExtent(line + 1)
	ix.must(err)
	return indexEntry{
		startLine:  r.XStart - 1,
		numLines:   r.XCount,
		charOffset: r.YStart,
		charCount:  r.YCount,
	}
}

func (ix *lineIndex) setCounts(e indexEntry) {
	ix.must(ix.ranges.SetCounts(e.startLine+1, e.numLines, e.charCount))
}

func (ix *lineIndex) lineLengthChanged(line, charDelta int) {
	e := ix.nearest(line)
	e.charCount += charDelta
	assert(e.charCount >= 0, "line index: negative entry length")
	ix.setCounts(e)
}

// bulkLinesInserted inserts an entry for numLines lines in front of the entry
// starting at startLine. Used while loading, where startLine is always at an
// entry boundary.
func (ix *lineIndex) bulkLinesInserted(startLine, numLines, charLength int) {
	ix.must(ix.ranges.Insert(startLine+1, numLines, charLength))
}

// lineInserted accounts for a new line of charsAdded bytes in front of line.
// An entry growing beyond the sparseness is split at its midpoint;
// offsetOfLine must return the byte offset of a line in the updated content.
func (ix *lineIndex) lineInserted(line, charsAdded int, offsetOfLine func(int) int) {
	assert(charsAdded != 0, "line index: inserted line without bytes")
	e := ix.nearest(line)
	e.numLines++
	e.charCount += charsAdded
	ix.setCounts(e)
	if e.numLines <= ix.sparseness {
		return
	}
	mid := e.startLine + e.numLines/2
	firstHalf := offsetOfLine(mid) - e.charOffset
	ix.setCounts(indexEntry{startLine: e.startLine, numLines: mid - e.startLine, charCount: firstHalf})
	ix.must(ix.ranges.Insert(mid+1, e.startLine+e.numLines-mid, e.charCount-firstHalf))
	tracer().Debugf("line index: split entry at line %d, %d lines", e.startLine, e.numLines)
}

// lineRemoved accounts for removing line, which had charsAdded (negative)
// bytes. An entry left empty is dropped, an entry shrinking to half the
// sparseness is merged with its successor.
func (ix *lineIndex) lineRemoved(line, charsAdded int) {
	assert(charsAdded < 0, "line index: removed line without bytes")
	e := ix.nearest(line)
	e.numLines--
	e.charCount += charsAdded
	assert((e.numLines == 0) == (e.charCount == 0), "line index: entry lines and bytes disagree")
	if e.numLines == 0 {
		ix.must(ix.ranges.Remove(e.startLine+1, 1))
		return
	}
	ix.setCounts(e)
	if e.numLines > ix.sparseness/2 {
		return
	}
	next, ok, err := ix.ranges.Next(e.startLine + 1)
	ix.must(err)
	if !ok {
		return
	}
	nextLines, _, nextChars, err := ix.ranges.Extent(next)
	ix.must(err)
	ix.must(ix.ranges.Remove(next, nextLines))
	e.numLines += nextLines
	e.charCount += nextChars
	ix.setCounts(e)
	tracer().Debugf("line index: merged entries at line %d, %d lines", e.startLine, e.numLines)
}

// entries iterates over the index entries following the prefix entry.
func (ix *lineIndex) entries() iter.Seq[indexEntry] {
	return func(yield func(indexEntry) bool) {
		for r := range ix.ranges.Ranges() {
			if r.XStart == 0 {
				continue
			}
			e := indexEntry{
				startLine:  r.XStart - 1,
				numLines:   r.XCount,
				charOffset: r.YStart,
				charCount:  r.YCount,
			}
			if !yield(e) {
				return
			}
		}
	}
}

func (ix *lineIndex) writeDot(w io.Writer) error {
	return ix.ranges.WriteDot(w)
}
