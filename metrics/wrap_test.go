package metrics

import (
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	redirectTracing(t)
	//
	line := "The quick brown fox jumps over the lazy dog"
	for _, width := range []int{10, 15, 20, 80} {
		pieces := Wrap(line, width, nil)
		if strings.Join(strings.Fields(strings.Join(pieces, " ")), " ") != line {
			t.Errorf("width %d: pieces %q do not reproduce the line", width, pieces)
		}
		for _, p := range pieces {
			if w := LineWidth(p, nil); w > width {
				t.Errorf("width %d: piece %q is %d cells wide", width, p, w)
			}
		}
		if width == 80 && len(pieces) != 1 {
			t.Errorf("line fits into 80 cells, got %q", pieces)
		}
	}
	if pieces := Wrap("", 10, nil); len(pieces) != 1 || pieces[0] != "" {
		t.Errorf("empty line should wrap to a single empty piece, got %q", pieces)
	}
	for _, blank := range []string{" ", "   "} {
		if pieces := Wrap(blank, 2, nil); len(pieces) != 1 || pieces[0] != blank {
			t.Errorf("blank line %q should wrap to itself, got %q", blank, pieces)
		}
	}
	if pieces := Wrap("ab      cd", 4, nil); len(pieces) != 2 || pieces[0] != "ab" || pieces[1] != "cd" {
		t.Errorf("expected a break after the blanks, got %q", pieces)
	}
	if pieces := Wrap("incomprehensibilities", 5, nil); len(pieces) != 1 {
		t.Errorf("overlong word should stay in one piece, got %q", pieces)
	}
}
