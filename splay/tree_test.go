package splay

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
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

func TestEmptyTree(t *testing.T) {
	tree := Tree[struct{}]{}
	if !tree.IsEmpty() || tree.Len() != 0 || tree.XSize() != 0 || tree.YSize() != 0 {
		t.Fatalf("zero tree is not empty")
	}
	if err := tree.Check(); err != nil {
		t.Fatalf("empty tree does not validate: %v", err)
	}
	if _, ok, err := tree.NearestLessOrEqual(3); ok || err != nil {
		t.Errorf("expected no entry in empty tree, got ok=%v err=%v", ok, err)
	}
	if _, err := tree.XCount(0); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
	if err := tree.Insert(1, 1, 1, struct{}{}); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound for insert beyond end, got %v", err)
	}
}

func TestTwoRanges(t *testing.T) {
	redirectTracing(t)
	//
	tree := New[struct{}]()
	if err := tree.Insert(0, 5, 2, struct{}{}); err != nil {
		t.Fatal(err)
	}
	if err := tree.Insert(5, 3, 4, struct{}{}); err != nil {
		t.Fatal(err)
	}
	xCount, yStart, yCount, err := tree.Extent(5)
	if err != nil {
		t.Fatal(err)
	}
	if xCount != 3 || yStart != 2 || yCount != 4 {
		t.Errorf("expected extent (3, 2, 4) at 5, got (%d, %d, %d)", xCount, yStart, yCount)
	}
	if x, ok, err := tree.NearestLessOrEqual(6); err != nil || !ok || x != 5 {
		t.Errorf("expected nearest start 5 for 6, got %d (ok=%v, err=%v)", x, ok, err)
	}
	if y, err := tree.YEndBound(0); err != nil || y != 2 {
		t.Errorf("expected Y end bound 2 for entry at 0, got %d (err=%v)", y, err)
	}
	if x, ok, _ := tree.NearestLessOrEqual(4); !ok || x != 0 {
		t.Errorf("expected nearest start 0 for 4, got %d", x)
	}
	if x, ok, _ := tree.NearestLessOrEqual(100); !ok || x != 5 {
		t.Errorf("expected nearest start 5 for 100, got %d", x)
	}
	if tree.XSize() != 8 || tree.YSize() != 6 {
		t.Errorf("expected sizes (8, 6), got (%d, %d)", tree.XSize(), tree.YSize())
	}
	if err := tree.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestInsertInFront(t *testing.T) {
	tree := New[string]()
	for _, s := range []string{"c", "b", "a"} {
		if err := tree.Insert(0, 2, 1, s); err != nil {
			t.Fatal(err)
		}
	}
	var got []string
	for e := range tree.Entries() {
		got = append(got, e.Value)
	}
	if strings.Join(got, "") != "abc" {
		t.Errorf("expected order abc, got %v", got)
	}
	if v, err := tree.Value(2); err != nil || v != "b" {
		t.Errorf("expected b at 2, got %q (err=%v)", v, err)
	}
}

func TestInsertErrors(t *testing.T) {
	tree := New[struct{}]()
	_ = tree.Insert(0, 4, 0, struct{}{})
	_ = tree.Insert(4, 4, 0, struct{}{})
	if err := tree.Insert(2, 1, 0, struct{}{}); !errors.Is(err, ErrInvalidOperation) && !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected error for insert inside an entry, got %v", err)
	}
	if err := tree.Insert(9, 1, 0, struct{}{}); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound for insert beyond end, got %v", err)
	}
	if err := tree.Insert(8, 0, 1, struct{}{}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero-width insert, got %v", err)
	}
	if err := tree.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestRemove(t *testing.T) {
	tree := New[int]()
	for i := 0; i < 10; i++ {
		if err := tree.Insert(i*3, 3, i, i); err != nil {
			t.Fatal(err)
		}
	}
	if err := tree.Remove(4, 0); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound for inexact start, got %v", err)
	}
	if err := tree.Remove(6, 2); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound for width mismatch, got %v", err)
	}
	if err := tree.Remove(6, 3); err != nil {
		t.Fatal(err)
	}
	if tree.Len() != 9 || tree.XSize() != 27 || tree.YSize() != 45-2 {
		t.Errorf("unexpected state after remove: len=%d x=%d y=%d", tree.Len(), tree.XSize(), tree.YSize())
	}
	if v, err := tree.Value(6); err != nil || v != 3 {
		t.Errorf("expected entry 3 to move to 6, got %d (err=%v)", v, err)
	}
	if err := tree.Check(); err != nil {
		t.Fatal(err)
	}
	// freed slot is reused
	if err := tree.Insert(0, 1, 1, 99); err != nil {
		t.Fatal(err)
	}
	if len(tree.nodes) != 10 {
		t.Errorf("expected arena of 10 nodes, has %d", len(tree.nodes))
	}
}

func TestPreviousNext(t *testing.T) {
	tree := New[struct{}]()
	starts := []int{0, 2, 7, 8}
	widths := []int{2, 5, 1, 4}
	for i := range starts {
		_ = tree.Insert(starts[i], widths[i], 1, struct{}{})
	}
	for i, s := range starts {
		next, ok, err := tree.Next(s)
		if err != nil {
			t.Fatal(err)
		}
		if next != s+widths[i] || ok != (i < len(starts)-1) {
			t.Errorf("Next(%d) = %d, %v", s, next, ok)
		}
		prev, ok, err := tree.Previous(s)
		if err != nil {
			t.Fatal(err)
		}
		if i == 0 && ok {
			t.Errorf("Previous(0) reported an entry")
		} else if i > 0 && (!ok || prev != starts[i-1]) {
			t.Errorf("Previous(%d) = %d, %v", s, prev, ok)
		}
	}
}

func TestSetCounts(t *testing.T) {
	tree := New[struct{}]()
	_ = tree.Insert(0, 2, 2, struct{}{})
	_ = tree.Insert(2, 2, 2, struct{}{})
	_ = tree.Insert(4, 2, 2, struct{}{})
	if err := tree.SetCounts(2, 5, 0); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := tree.Next(2); !ok {
		t.Errorf("expected entry after 2")
	}
	if c, _ := tree.XCount(7); c != 2 {
		t.Errorf("expected last entry to start at 7")
	}
	if tree.XSize() != 9 || tree.YSize() != 4 {
		t.Errorf("unexpected sizes (%d, %d)", tree.XSize(), tree.YSize())
	}
	if err := tree.SetCounts(2, 0, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if err := tree.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestWriteDot(t *testing.T) {
	tree := New[string]()
	_ = tree.Insert(0, 1, 1, "x")
	_ = tree.Insert(1, 1, 1, "y")
	var buf bytes.Buffer
	if err := tree.WriteDot(&buf, func(s string) string { return s }); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "strict digraph {") || !strings.Contains(out, "“y”") {
		t.Errorf("unexpected DOT output:\n%s", out)
	}
}

// --- Randomized property test -----------------------------------------------

type modelEntry struct {
	x, y, id int
}

func checkAgainstModel(t *testing.T, tree *Tree[int], model []modelEntry) {
	t.Helper()
	if err := tree.Check(); err != nil {
		t.Fatalf("invariant: %v", err)
	}
	if tree.Len() != len(model) {
		t.Fatalf("length mismatch: got=%d want=%d", tree.Len(), len(model))
	}
	i, x, y := 0, 0, 0
	tree.Walk(func(e Entry[int]) bool {
		m := model[i]
		if e.XStart != x || e.YStart != y || e.XCount != m.x || e.YCount != m.y || e.Value != m.id {
			t.Fatalf("entry %d mismatch: got=%+v want=%+v at (%d,%d)", i, e, m, x, y)
		}
		x += m.x
		y += m.y
		i++
		return true
	})
	if tree.XSize() != x || tree.YSize() != y {
		t.Fatalf("size mismatch: got=(%d,%d) want=(%d,%d)", tree.XSize(), tree.YSize(), x, y)
	}
	// gapless forward walk with Next
	if len(model) > 0 {
		start, k := 0, 0
		for {
			next, ok, err := tree.Next(start)
			if err != nil {
				t.Fatalf("Next(%d): %v", start, err)
			}
			k++
			if !ok {
				break
			}
			if next <= start {
				t.Fatalf("Next(%d) = %d is not increasing", start, next)
			}
			start = next
		}
		if k != len(model) {
			t.Fatalf("Next walk visited %d entries, want %d", k, len(model))
		}
	}
}

func modelStarts(model []modelEntry) []int {
	starts := make([]int, len(model)+1)
	for i, m := range model {
		starts[i+1] = starts[i] + m.x
	}
	return starts
}

func runRandomOps(t *testing.T, r *rand.Rand, steps int) {
	tree := New[int]()
	var model []modelEntry
	id := 0
	for step := 0; step < steps; step++ {
		starts := modelStarts(model)
		switch op := r.Intn(10); {
		case op < 5 || len(model) == 0:
			pos := r.Intn(len(model) + 1)
			e := modelEntry{x: r.Intn(9) + 1, y: r.Intn(4), id: id}
			id++
			if err := tree.Insert(starts[pos], e.x, e.y, e.id); err != nil {
				t.Fatalf("step %d: insert at %d: %v", step, starts[pos], err)
			}
			model = append(model[:pos], append([]modelEntry{e}, model[pos:]...)...)
		case op < 8:
			pos := r.Intn(len(model))
			if err := tree.Remove(starts[pos], model[pos].x); err != nil {
				t.Fatalf("step %d: remove at %d: %v", step, starts[pos], err)
			}
			model = append(model[:pos], model[pos+1:]...)
		case op < 9:
			pos := r.Intn(len(model))
			model[pos].x, model[pos].y = r.Intn(9)+1, r.Intn(4)
			if err := tree.SetCounts(starts[pos], model[pos].x, model[pos].y); err != nil {
				t.Fatalf("step %d: set counts at %d: %v", step, starts[pos], err)
			}
		default:
			x := r.Intn(starts[len(model)] + 3)
			got, ok, err := tree.NearestLessOrEqual(x)
			if err != nil || !ok {
				t.Fatalf("step %d: nearest(%d): ok=%v err=%v", step, x, ok, err)
			}
			want := 0
			for _, s := range starts[:len(model)] {
				if s <= x {
					want = s
				}
			}
			if got != want {
				t.Fatalf("step %d: nearest(%d) = %d, want %d", step, x, got, want)
			}
		}
		checkAgainstModel(t, tree, model)
	}
}

func TestRandomizedProperty(t *testing.T) {
	for _, seed := range []int64{1, 7, 42, 1234, 987654} {
		r := rand.New(rand.NewSource(seed))
		runRandomOps(t, r, 400)
	}
}

func FuzzRandomizedProperty(f *testing.F) {
	f.Add(int64(1), uint16(100))
	f.Add(int64(99), uint16(300))
	f.Fuzz(func(t *testing.T, seed int64, steps uint16) {
		r := rand.New(rand.NewSource(seed))
		runRandomOps(t, r, int(steps%500))
	})
}

func BenchmarkSequentialAppend(b *testing.B) {
	for i := 0; i < b.N; i++ {
		tree := New[struct{}]()
		for k := 0; k < 10000; k++ {
			_ = tree.Insert(k*4, 4, 1, struct{}{})
		}
	}
}

func BenchmarkRandomLookup(b *testing.B) {
	tree := New[struct{}]()
	for k := 0; k < 10000; k++ {
		_ = tree.Insert(k*4, 4, 1, struct{}{})
	}
	r := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = tree.NearestLessOrEqual(r.Intn(40000))
	}
}
