package metrics

import (
	"strings"
	"sync"

	"github.com/npillmayer/splaytext"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/uax11"
)

var setupGraphemes sync.Once

// graphemes must not be called with an empty string.
func graphemes(line string) grapheme.String {
	setupGraphemes.Do(func() { grapheme.SetupGraphemeClasses() })
	return grapheme.StringFromString(line)
}

// GraphemeCount returns the number of user-perceived characters of a line.
func GraphemeCount(line string) int {
	if line == "" {
		return 0
	}
	return graphemes(line).Len()
}

// stringWidth is uax11.StringWidth for strings which may be empty.
func stringWidth(s string, context *uax11.Context) int {
	if s == "" {
		return 0
	}
	return uax11.StringWidth(graphemes(s), context)
}

// LineWidth returns the number of terminal cells a line occupies. context
// may be nil, in which case uax11.LatinContext is used.
func LineWidth(line string, context *uax11.Context) int {
	if context == nil {
		context = uax11.LatinContext
	}
	return stringWidth(line, context)
}

// Truncate cuts a line to at most width cells. Lines are cut between
// graphemes only.
func Truncate(line string, width int, context *uax11.Context) string {
	if context == nil {
		context = uax11.LatinContext
	}
	if line == "" || width <= 0 {
		return ""
	}
	gstr := graphemes(line)
	var b strings.Builder
	w := 0
	for i := 0; i < gstr.Len(); i++ {
		g := gstr.Nth(i)
		gw := stringWidth(g, context)
		if w+gw > width {
			break
		}
		w += gw
		b.WriteString(g)
	}
	return b.String()
}

// Summary holds metrics of a complete text.
type Summary struct {
	Lines     int
	Bytes     int // line bodies only, without line breaks
	Words     int
	Graphemes int
	MaxWidth  int // width of the widest line
	Widest    int // index of the widest line
}

// Measure computes a summary of text. context may be nil, see LineWidth.
func Measure(text *splaytext.Text, context *uax11.Context) Summary {
	s := Summary{Lines: text.Count()}
	for i, line := range text.Buffer().Lines() {
		str := string(line)
		s.Bytes += len(line)
		s.Words += WordCount(line)
		s.Graphemes += GraphemeCount(str)
		if w := LineWidth(str, context); w > s.MaxWidth {
			s.MaxWidth, s.Widest = w, i
		}
	}
	tracer().Debugf("metrics: %d lines, %d words, max width %d", s.Lines, s.Words, s.MaxWidth)
	return s
}
