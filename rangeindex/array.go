package rangeindex

import (
	"io"
	"iter"
	"strconv"

	"github.com/npillmayer/splaytext/splay"
)

// Range is a snapshot of one entry of an Array.
type Range struct {
	XStart, XCount int
	YStart, YCount int
}

// XEnd returns the X coordinate following the range.
func (r Range) XEnd() int { return r.XStart + r.XCount }

// YEnd returns the Y coordinate following the range.
func (r Range) YEnd() int { return r.YStart + r.YCount }

// Array is a sparse range index. The zero value is an empty index.
type Array struct {
	tree splay.Tree[struct{}]
}

// New creates an empty index.
func New() *Array {
	return &Array{}
}

// Insert adds a range in front of the range starting at xStart, or appends it
// if xStart equals XSize().
func (a *Array) Insert(xStart, xCount, yCount int) error {
	return a.tree.Insert(xStart, xCount, yCount, struct{}{})
}

// Remove deletes the range starting at xStart. A non-zero xCount must match
// the range's width.
func (a *Array) Remove(xStart, xCount int) error {
	return a.tree.Remove(xStart, xCount)
}

// SetCounts re-weights the range starting at xStart.
func (a *Array) SetCounts(xStart, xCount, yCount int) error {
	return a.tree.SetCounts(xStart, xCount, yCount)
}

// Clear removes all ranges.
func (a *Array) Clear() {
	a.tree.Clear()
}

// Extent returns X width, Y start and Y width of the range starting at xStart.
func (a *Array) Extent(xStart int) (xCount, yStart, yCount int, err error) {
	return a.tree.Extent(xStart)
}

// XCount returns the X width of the range starting at xStart.
func (a *Array) XCount(xStart int) (int, error) {
	return a.tree.XCount(xStart)
}

// YCount returns the Y width of the range starting at xStart.
func (a *Array) YCount(xStart int) (int, error) {
	return a.tree.YCount(xStart)
}

// YEndBound returns the Y coordinate following the range starting at xStart.
func (a *Array) YEndBound(xStart int) (int, error) {
	return a.tree.YEndBound(xStart)
}

// NearestLessOrEqual returns the start of the range covering x. x beyond the
// end yields the last range. ok is false only for an empty index.
func (a *Array) NearestLessOrEqual(x int) (xStart int, ok bool, err error) {
	return a.tree.NearestLessOrEqual(x)
}

// NearestLessOrEqualExtent returns the range covering x.
func (a *Array) NearestLessOrEqualExtent(x int) (Range, error) {
	xStart, xCount, yStart, yCount, err := a.tree.NearestLessOrEqualExtent(x)
	if err != nil {
		return Range{}, err
	}
	return Range{XStart: xStart, XCount: xCount, YStart: yStart, YCount: yCount}, nil
}

// Previous returns the start of the range in front of the range starting at
// xStart.
func (a *Array) Previous(xStart int) (int, bool, error) {
	return a.tree.Previous(xStart)
}

// Next returns the start of the range following the range starting at xStart.
func (a *Array) Next(xStart int) (int, bool, error) {
	return a.tree.Next(xStart)
}

// XSize returns the total X width.
func (a *Array) XSize() int { return a.tree.XSize() }

// YSize returns the total Y width.
func (a *Array) YSize() int { return a.tree.YSize() }

// Len returns the number of ranges.
func (a *Array) Len() int { return a.tree.Len() }

// Depth returns the current height of the underlying tree.
func (a *Array) Depth() int { return a.tree.Depth() }

// Ranges returns an iterator over all ranges in X order. The index must not be
// modified during iteration.
func (a *Array) Ranges() iter.Seq[Range] {
	return func(yield func(Range) bool) {
		a.tree.Walk(func(e splay.Entry[struct{}]) bool {
			return yield(Range{XStart: e.XStart, XCount: e.XCount, YStart: e.YStart, YCount: e.YCount})
		})
	}
}

// Check validates the weights and structure of the underlying tree.
func (a *Array) Check() error {
	if err := a.tree.Check(); err != nil {
		tracer().Errorf("range index: %v", err)
		return err
	}
	return nil
}

// WriteDot writes the underlying tree in Graphviz DOT format.
func (a *Array) WriteDot(w io.Writer) error {
	return a.tree.WriteDot(w, nil)
}

// String lists the ranges as (xStart+xCount, yStart+yCount) pairs, for debugging.
func (a *Array) String() string {
	buf := make([]byte, 0, 16*a.Len()+2)
	buf = append(buf, '[')
	for r := range a.Ranges() {
		if r.XStart > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, '(')
		buf = strconv.AppendInt(buf, int64(r.XStart), 10)
		buf = append(buf, '+')
		buf = strconv.AppendInt(buf, int64(r.XCount), 10)
		buf = append(buf, ',')
		buf = strconv.AppendInt(buf, int64(r.YStart), 10)
		buf = append(buf, '+')
		buf = strconv.AppendInt(buf, int64(r.YCount), 10)
		buf = append(buf, ')')
	}
	buf = append(buf, ']')
	return string(buf)
}
