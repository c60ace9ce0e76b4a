package linebuf

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"golang.org/x/text/encoding/charmap"
)

// redirectTracing sends traces to the log of t until t completes.
func redirectTracing(t *testing.T) {
	previous := gtrace.CoreTracer
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	t.Cleanup(func() {
		teardown()
		gtrace.CoreTracer = previous
	})
}

// testConfig uses tiny blocks and a sparse index, so that block splits and
// index entry splits and merges happen on small inputs.
var testConfig = Config{BlockSize: 8, IndexSparseness: 5, Validate: true}

func newTestBuffer(t *testing.T, cfg Config) *Buffer {
	t.Helper()
	b, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return b
}

func loadString(t *testing.T, s string, cfg Config) (*Buffer, LineEndingTally) {
	t.Helper()
	b, tally, err := Load(strings.NewReader(s), nil, cfg)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return b, tally
}

func assertLines(t *testing.T, b *Buffer, want []string) {
	t.Helper()
	if err := b.Validate(); err != nil {
		t.Fatalf("validation: %v", err)
	}
	if b.Count() != len(want) {
		t.Fatalf("line count mismatch: got=%d want=%d", b.Count(), len(want))
	}
	for i := range want {
		line, err := b.Line(i)
		if err != nil {
			t.Fatalf("Line(%d): %v", i, err)
		}
		if string(line) != want[i] {
			t.Fatalf("line %d mismatch: got=%q want=%q", i, line, want[i])
		}
	}
}

func TestNewBuffer(t *testing.T) {
	b := newTestBuffer(t, testConfig)
	assertLines(t, b, []string{""})
	if b.ByteLen() != 0 || b.HasBOM() {
		t.Errorf("expected empty content, got %d bytes", b.ByteLen())
	}
	if _, err := New(Config{IndexSparseness: 1}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestInsertRemoveSetScenario(t *testing.T) {
	redirectTracing(t)
	//
	b := newTestBuffer(t, testConfig)
	if err := b.SetLine(0, []byte("a")); err != nil {
		t.Fatal(err)
	}
	if err := b.InsertLine(1, []byte("bb")); err != nil {
		t.Fatal(err)
	}
	if err := b.InsertLine(2, []byte("ccc")); err != nil {
		t.Fatal(err)
	}
	if b.Count() != 3 {
		t.Fatalf("expected 3 lines, have %d", b.Count())
	}
	if line, _ := b.Line(1); string(line) != "bb" {
		t.Errorf("expected line 1 to be \"bb\", is %q", line)
	}
	if err := b.RemoveLine(0); err != nil {
		t.Fatal(err)
	}
	if b.Count() != 2 {
		t.Fatalf("expected 2 lines, have %d", b.Count())
	}
	if line, _ := b.Line(0); string(line) != "bb" {
		t.Errorf("expected line 0 to be \"bb\", is %q", line)
	}
	if err := b.SetLine(0, []byte("z")); err != nil {
		t.Fatal(err)
	}
	assertLines(t, b, []string{"z", "ccc"})
}

func TestPayloadAndRangeErrors(t *testing.T) {
	b := newTestBuffer(t, testConfig)
	if err := b.SetLine(0, []byte("a\nb")); !errors.Is(err, ErrLineEndingInPayload) {
		t.Errorf("expected ErrLineEndingInPayload, got %v", err)
	}
	if err := b.InsertLine(0, []byte("\r")); !errors.Is(err, ErrLineEndingInPayload) {
		t.Errorf("expected ErrLineEndingInPayload, got %v", err)
	}
	if err := b.InsertLine(2, []byte("x")); !errors.Is(err, ErrLineOutOfRange) {
		t.Errorf("expected ErrLineOutOfRange, got %v", err)
	}
	if _, err := b.Line(1); !errors.Is(err, ErrLineOutOfRange) {
		t.Errorf("expected ErrLineOutOfRange, got %v", err)
	}
	if err := b.MoveTo(-1); !errors.Is(err, ErrLineOutOfRange) {
		t.Errorf("expected ErrLineOutOfRange, got %v", err)
	}
	if err := b.RemoveLine(0); err != nil {
		t.Errorf("removing the only line should empty it, got %v", err)
	}
	assertLines(t, b, []string{""})
}

func TestLoadMixedLineEndings(t *testing.T) {
	b, tally := loadString(t, "one\r\ntwo\rthree\nfour", testConfig)
	assertLines(t, b, []string{"one", "two", "three", "four"})
	if tally.Windows != 1 || tally.Macintosh != 1 || tally.Unix != 1 {
		t.Errorf("unexpected tally %s", tally)
	}
	if tally.Total() != b.Count()-1 {
		t.Errorf("tally %d does not match %d lines", tally.Total(), b.Count())
	}
	if b.ByteLen() != len("one\r\ntwo\rthree\nfour") {
		t.Errorf("unexpected byte length %d", b.ByteLen())
	}
}

func TestLoadTrailingTerminator(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want []string
	}{
		{"", []string{""}},
		{"\n", []string{"", ""}},
		{"a\r", []string{"a", ""}},
		{"a\r\n", []string{"a", ""}},
		{"\r\n\r\n", []string{"", "", ""}},
		{"\n\r", []string{"", "", ""}},
		{"x\n\ny", []string{"x", "", "y"}},
	} {
		b, tally := loadString(t, tc.in, testConfig)
		assertLines(t, b, tc.want)
		if tally.Total() != b.Count()-1 {
			t.Errorf("%q: tally %s does not match %d lines", tc.in, tally, b.Count())
		}
	}
}

func TestLoadManyLinesBuildsIndex(t *testing.T) {
	var sb strings.Builder
	var want []string
	for i := 0; i < 57; i++ {
		line := strings.Repeat("x", i%7)
		want = append(want, line)
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	want = append(want, "")
	b, tally := loadString(t, sb.String(), testConfig)
	if tally.Unix != 57 || tally.Dominant() != Unix {
		t.Errorf("unexpected tally %s", tally)
	}
	if b.IndexEntries() < 57/6 {
		t.Errorf("expected a sparse index with at least %d entries, has %d", 57/6, b.IndexEntries())
	}
	assertLines(t, b, want)
	// backwards access exercises the reverse line walk
	for i := len(want) - 1; i >= 0; i-- {
		line, _ := b.Line(i)
		if string(line) != want[i] {
			t.Fatalf("line %d mismatch: got=%q want=%q", i, line, want[i])
		}
	}
}

func TestLoadBOM(t *testing.T) {
	b, _ := loadString(t, "\xEF\xBB\xBFhello\nworld", testConfig)
	if !b.HasBOM() {
		t.Errorf("expected BOM to be detected")
	}
	assertLines(t, b, []string{"hello", "world"})
	if err := b.InsertLine(0, []byte("first")); err != nil {
		t.Fatal(err)
	}
	assertLines(t, b, []string{"first", "hello", "world"})
	var out bytes.Buffer
	if _, err := b.WriteText(&out, Unix); err != nil {
		t.Fatal(err)
	}
	if out.String() != "first\nhello\nworld" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestLoadCharmap(t *testing.T) {
	in := []byte("caf\xe9\r\nna\xefve\r\nplain")
	b, tally, err := Load(bytes.NewReader(in), charmap.Windows1252, testConfig)
	if err != nil {
		t.Fatal(err)
	}
	assertLines(t, b, []string{"café", "naïve", "plain"})
	if tally.Windows != 2 {
		t.Errorf("unexpected tally %s", tally)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestLoadPropagatesIOError(t *testing.T) {
	if _, _, err := Load(failingReader{}, nil, testConfig); err == nil || !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("expected I/O error, got %v", err)
	}
}

func TestMutationsNormalizeLineBreaks(t *testing.T) {
	b, _ := loadString(t, "a\rb\nc", testConfig)
	if err := b.InsertLine(1, nil); err != nil {
		t.Fatal(err)
	}
	assertLines(t, b, []string{"a", "", "b", "c"})
	if err := b.RemoveLine(2); err != nil {
		t.Fatal(err)
	}
	assertLines(t, b, []string{"a", "", "c"})
	if err := b.RemoveLine(2); err != nil {
		t.Fatal(err)
	}
	assertLines(t, b, []string{"a", ""})
	if err := b.InsertLine(2, []byte("end")); err != nil {
		t.Fatal(err)
	}
	assertLines(t, b, []string{"a", "", "end"})
	// emptying a line between a CR and an LF must not fuse the two breaks
	b, _ = loadString(t, "a\rx\ny", testConfig)
	if err := b.SetLine(1, nil); err != nil {
		t.Fatal(err)
	}
	assertLines(t, b, []string{"a", "", "y"})
}

func TestSlice(t *testing.T) {
	b, _ := loadString(t, "l0\nl1\r\nl2\rl3\nl4", testConfig)
	s, tally, err := b.Slice(1, 3)
	if err != nil {
		t.Fatal(err)
	}
	assertLines(t, s, []string{"l1", "l2", "l3"})
	if tally.Windows != 1 || tally.Macintosh != 1 || tally.Unix != 0 {
		t.Errorf("unexpected slice tally %s", tally)
	}
	s, _, _ = b.Slice(3, 2)
	assertLines(t, s, []string{"l3", "l4"})
	if _, _, err := b.Slice(4, 2); !errors.Is(err, ErrLineOutOfRange) {
		t.Errorf("expected ErrLineOutOfRange, got %v", err)
	}
}

func TestRandomizedAgainstModel(t *testing.T) {
	for _, seed := range []int64{3, 17, 2024} {
		for _, frag := range []bool{false, true} {
			cfg := testConfig
			cfg.Fragmented = frag
			r := rand.New(rand.NewSource(seed))
			b := newTestBuffer(t, cfg)
			model := []string{""}
			for step := 0; step < 300; step++ {
				body := strings.Repeat(string(rune('a'+r.Intn(26))), r.Intn(6))
				switch op := r.Intn(4); op {
				case 0, 1:
					at := r.Intn(len(model) + 1)
					if err := b.InsertLine(at, []byte(body)); err != nil {
						t.Fatalf("step %d: insert at %d: %v", step, at, err)
					}
					model = append(model[:at], append([]string{body}, model[at:]...)...)
				case 2:
					at := r.Intn(len(model))
					if err := b.RemoveLine(at); err != nil {
						t.Fatalf("step %d: remove at %d: %v", step, at, err)
					}
					if len(model) == 1 {
						model[0] = ""
					} else {
						model = append(model[:at], model[at+1:]...)
					}
				default:
					at := r.Intn(len(model))
					if err := b.SetLine(at, []byte(body)); err != nil {
						t.Fatalf("step %d: set at %d: %v", step, at, err)
					}
					model[at] = body
				}
				assertLines(t, b, model)
			}
		}
	}
}

func TestTracingEndsWithTest(t *testing.T) {
	before := gtrace.CoreTracer
	t.Run("traced", func(t *testing.T) {
		redirectTracing(t)
		if _, _, err := Load(strings.NewReader("a\nb"), nil, testConfig); err != nil {
			t.Fatal(err)
		}
	})
	if gtrace.CoreTracer != before {
		t.Fatalf("tracer of a completed test is still installed")
	}
	// must not log to the completed sub-test
	if _, _, err := Load(strings.NewReader("c\nd"), nil, testConfig); err != nil {
		t.Fatal(err)
	}
}

func FuzzLoad(f *testing.F) {
	f.Add("a\r\nb\rc\nd")
	f.Add("\r\r\n\n\r")
	f.Add("\xEF\xBB\xBF\n")
	f.Fuzz(func(t *testing.T, in string) {
		redirectTracing(t)
		b, tally, err := Load(strings.NewReader(in), nil, testConfig)
		if err != nil {
			t.Fatal(err)
		}
		if err := b.Validate(); err != nil {
			t.Fatal(err)
		}
		if tally.Total() != b.Count()-1 {
			t.Fatalf("tally %s does not match %d lines", tally, b.Count())
		}
		for _, line := range b.Lines() {
			if bytes.ContainsAny(line, "\r\n") {
				t.Fatalf("line body %q contains a line break", line)
			}
		}
	})
}

func BenchmarkSequentialLineAccess(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 100000; i++ {
		sb.WriteString("the quick brown fox\n")
	}
	buf, _, _ := Load(strings.NewReader(sb.String()), nil, Config{})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = buf.Line(i % buf.Count())
	}
}
