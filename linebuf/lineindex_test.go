package linebuf

import "testing"

func collectEntries(ix *lineIndex) []indexEntry {
	var entries []indexEntry
	for e := range ix.entries() {
		entries = append(entries, e)
	}
	return entries
}

func TestLineIndexSplitAndMerge(t *testing.T) {
	ix := &lineIndex{sparseness: 4}
	ix.reset(2, 2)
	if ix.lineCount() != 1 || ix.charCount() != 4 {
		t.Fatalf("unexpected reset state: %d lines, %d bytes", ix.lineCount(), ix.charCount())
	}
	offsetOfLine := func(l int) int { return 2 + 3*l }
	for i := 0; i < 5; i++ {
		ix.lineInserted(0, 3, offsetOfLine)
	}
	entries := collectEntries(ix)
	want := []indexEntry{
		{startLine: 0, numLines: 3, charOffset: 2, charCount: 9},
		{startLine: 3, numLines: 3, charOffset: 11, charCount: 8},
	}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, have %v", len(want), entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d: got=%+v want=%+v", i, entries[i], want[i])
		}
	}
	ix.lineRemoved(0, -3)
	entries = collectEntries(ix)
	if len(entries) != 1 || entries[0].numLines != 5 || entries[0].charCount != 14 {
		t.Errorf("expected entries to merge, have %v", entries)
	}
	ix.lineLengthChanged(3, 4)
	if ix.charCount() != 2+14+4 {
		t.Errorf("unexpected byte count %d", ix.charCount())
	}
	if e := ix.nearest(99); e.startLine != 0 {
		t.Errorf("expected line beyond end to map to last entry, got %+v", e)
	}
}
