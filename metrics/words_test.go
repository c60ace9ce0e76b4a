package metrics

import (
	"testing"
)

func TestWords(t *testing.T) {
	line := []byte("Hello  my\tname is Simon")
	if WordCount(line) != 5 {
		t.Fatalf("unexpected word count: got=%d want=5", WordCount(line))
	}
	want := []Span{
		{Pos: 0, Len: 5},
		{Pos: 7, Len: 2},
		{Pos: 10, Len: 4},
		{Pos: 15, Len: 2},
		{Pos: 18, Len: 5},
	}
	spans := Words(line)
	if len(spans) != len(want) {
		t.Fatalf("unexpected spans len: got=%d want=%d", len(spans), len(want))
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Fatalf("span %d mismatch: got=%+v want=%+v", i, spans[i], want[i])
		}
	}
}

func TestWordsEdgeCases(t *testing.T) {
	for _, tc := range []struct {
		line  string
		count int
	}{
		{"", 0},
		{"   ", 0},
		{"x", 1},
		{" grüße an alle ", 3},
		{"a\xffb c", 2},
	} {
		if n := WordCount([]byte(tc.line)); n != tc.count {
			t.Errorf("%q: got %d words, want %d", tc.line, n, tc.count)
		}
	}
}
