package metrics

import (
	"strings"

	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax11"
	"github.com/npillmayer/uax/uax14"
)

// WrapPoints returns the byte offsets at which a line should be broken to
// fit into width cells. Breaks are placed at UAX#14 line break
// opportunities, first fit:
//
//	SpaceLeft := LineWidth
//	for each Word in Text
//	    if Width(Word) > SpaceLeft
//	         insert line break before Word in Text
//	         SpaceLeft := LineWidth - Width(Word)
//	    else
//	         SpaceLeft := SpaceLeft - Width(Word)
//
// A segment wider than width is not broken further. Trailing blanks of a
// segment do not count against the width.
func WrapPoints(line string, width int, context *uax11.Context) []int {
	if context == nil {
		context = uax11.LatinContext
	}
	if line == "" {
		return nil
	}
	linewrap := uax14.NewLineWrap()
	segmenter := segment.NewSegmenter(linewrap)
	segmenter.Init(strings.NewReader(line))
	var breaks []int
	spaceleft := width
	pos := 0
	for segmenter.Next() {
		frag := string(segmenter.Bytes())
		if frag == "" {
			continue
		}
		fraglen := stringWidth(strings.TrimRight(frag, " "), context)
		if fraglen > spaceleft && spaceleft < width {
			breaks = append(breaks, pos)
			spaceleft = width
		}
		spaceleft -= stringWidth(frag, context)
		pos += len(frag)
	}
	tracer().Debugf("metrics: wrap %d bytes at %v", len(line), breaks)
	return breaks
}

// Wrap breaks a line into pieces fitting into width cells, see WrapPoints.
// Trailing blanks are removed from all pieces but the last.
func Wrap(line string, width int, context *uax11.Context) []string {
	pieces := make([]string, 0, 1)
	start := 0
	for _, p := range WrapPoints(line, width, context) {
		pieces = append(pieces, strings.TrimRight(line[start:p], " "))
		start = p
	}
	return append(pieces, line[start:])
}
