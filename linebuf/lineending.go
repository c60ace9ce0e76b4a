package linebuf

import "fmt"

// LineEnding is a line terminator convention.
type LineEnding int8

const (
	Windows   LineEnding = iota // CR LF
	Macintosh                   // CR
	Unix                        // LF
)

var lineEndingBytes = [...][]byte{
	Windows:   {'\r', '\n'},
	Macintosh: {'\r'},
	Unix:      {'\n'},
}

// Bytes returns the terminator sequence of a line ending.
func (le LineEnding) Bytes() []byte {
	if le < Windows || le > Unix {
		panic(fmt.Sprintf("linebuf: unknown line ending %d", le))
	}
	return lineEndingBytes[le]
}

func (le LineEnding) String() string {
	switch le {
	case Windows:
		return "CRLF"
	case Macintosh:
		return "CR"
	case Unix:
		return "LF"
	}
	return fmt.Sprintf("LineEnding(%d)", int(le))
}

// ParseLineEnding accepts "crlf", "cr" and "lf" as well as "windows",
// "macintosh" and "unix", in upper or lower case.
func ParseLineEnding(s string) (LineEnding, error) {
	switch s {
	case "crlf", "CRLF", "windows", "Windows":
		return Windows, nil
	case "cr", "CR", "macintosh", "Macintosh", "mac":
		return Macintosh, nil
	case "lf", "LF", "unix", "Unix":
		return Unix, nil
	}
	return Windows, fmt.Errorf("linebuf: unknown line ending %q", s)
}

// canonical is the marker used for prefix, suffix and every line break
// written by a mutation.
var canonical = lineEndingBytes[Windows]

// lineEndingChars holds the bytes which may be part of a line break.
var lineEndingChars = []byte{'\r', '\n'}

// LineEndingTally counts the line terminators found while loading.
type LineEndingTally struct {
	Windows   int
	Macintosh int
	Unix      int
}

// Total returns the number of terminators counted.
func (t LineEndingTally) Total() int {
	return t.Windows + t.Macintosh + t.Unix
}

// Dominant returns the most frequent line ending. Ties and an empty tally
// resolve in the order Windows, Unix, Macintosh.
func (t LineEndingTally) Dominant() LineEnding {
	switch {
	case t.Windows >= t.Unix && t.Windows >= t.Macintosh:
		return Windows
	case t.Unix >= t.Macintosh:
		return Unix
	}
	return Macintosh
}

func (t LineEndingTally) String() string {
	return fmt.Sprintf("CRLF=%d CR=%d LF=%d", t.Windows, t.Macintosh, t.Unix)
}
