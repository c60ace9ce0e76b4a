package segvec

import (
	"fmt"
	"iter"
	"slices"

	"github.com/npillmayer/splaytext/splay"
)

// Vector is a segmented vector of elements of type T.
//
// Each block is an entry of a splay tree with both weights equal to the
// block's length. A block is a slice whose length is the number of live
// elements; in fragmentation mode its capacity is the target block size.
type Vector[T any] struct {
	tree   splay.Tree[[]T]
	target int
	frag   bool
}

// New creates an empty vector.
func New[T any](cfg Config) (*Vector[T], error) {
	cfg = normalized[T](cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Vector[T]{target: cfg.TargetBlockSize, frag: cfg.Fragmented}, nil
}

// Config returns the normalized configuration of v.
func (v *Vector[T]) Config() Config {
	return Config{TargetBlockSize: v.target, Fragmented: v.frag}
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int {
	return v.tree.XSize()
}

// BlockCount returns the number of blocks.
func (v *Vector[T]) BlockCount() int {
	return v.tree.Len()
}

// --- Block helpers ---------------------------------------------------------

// block returns the block covering index. index == Len() yields the last
// block. The vector must not be empty.
func (v *Vector[T]) block(index int) (start, count int, items []T) {
	start, count, items, err := v.tree.NearestLessOrEqualCountValue(index)
	assert(err == nil, "segvec: no block for index")
	return
}

// setBlock replaces the block starting at start by items, which must be
// non-empty.
func (v *Vector[T]) setBlock(start int, items []T) {
	err := v.tree.SetCounts(start, len(items), len(items))
	assert(err == nil, "segvec: lost block start")
	v.tree.SetValue(start, items)
}

func (v *Vector[T]) insertBlock(start int, items []T) {
	err := v.tree.Insert(start, len(items), len(items), items)
	assert(err == nil, "segvec: cannot insert block")
}

// newBlock allocates a zeroed block of n elements.
func (v *Vector[T]) newBlock(n int) []T {
	if v.frag {
		return make([]T, n, v.target)
	}
	return make([]T, n)
}

// splitAt makes index the start of a block.
func (v *Vector[T]) splitAt(index int) {
	if index <= 0 || index >= v.Len() {
		return
	}
	start, count, items := v.block(index)
	if start == index {
		return
	}
	countL := index - start
	var left []T
	right := v.newBlock(count - countL)
	copy(right, items[countL:count])
	if v.frag {
		left = items[:countL]
		clear(items[countL:count])
	} else {
		left = slices.Clone(items[:countL])
	}
	v.setBlock(start, left)
	v.insertBlock(index, right)
}

// tryJoinNext merges the block starting at start with its successor if the
// result fits the join limit.
func (v *Vector[T]) tryJoinNext(start int) bool {
	countL, left, err := v.tree.CountValue(start)
	assert(err == nil, "segvec: lost block start")
	countR, right, err := v.tree.CountValue(start + countL)
	assert(err == nil, "segvec: lost block start")
	limit := v.target
	if v.frag {
		limit = v.target / 2
	}
	if countL+countR > limit {
		return false
	}
	var joined []T
	if v.frag {
		joined = append(left, right...)
	} else {
		joined = make([]T, 0, countL+countR)
		joined = append(append(joined, left...), right...)
	}
	err = v.tree.Remove(start+countL, countR)
	assert(err == nil, "segvec: cannot remove joined block")
	v.setBlock(start, joined)
	return true
}

// join tries to merge the block starting at index with its neighbors. It does
// nothing if index is not a block start.
func (v *Vector[T]) join(index int) {
	start, ok, _ := v.tree.NearestLessOrEqual(index)
	if !ok || start != index || index >= v.Len() {
		return
	}
	if index > 0 {
		prev, _, err := v.tree.Previous(index)
		assert(err == nil, "segvec: cannot find previous block")
		if v.tryJoinNext(prev) {
			index = prev
		}
	}
	next, ok, err := v.tree.Next(index)
	assert(err == nil, "segvec: lost block start")
	if ok && next < v.Len() {
		v.tryJoinNext(index)
	}
}

// --- Element access --------------------------------------------------------

// At returns the element at index. It panics if index is out of range, as
// slice indexing does.
func (v *Vector[T]) At(index int) T {
	if index < 0 || index >= v.Len() {
		panic(fmt.Sprintf("segvec: index %d out of range [0:%d]", index, v.Len()))
	}
	start, _, items := v.block(index)
	return items[index-start]
}

// Set overwrites the element at index. It panics if index is out of range.
func (v *Vector[T]) Set(index int, value T) {
	if index < 0 || index >= v.Len() {
		panic(fmt.Sprintf("segvec: index %d out of range [0:%d]", index, v.Len()))
	}
	start, _, items := v.block(index)
	items[index-start] = value
}

// --- Mutation --------------------------------------------------------------

// InsertZeroed inserts count zero elements in front of index.
func (v *Vector[T]) InsertZeroed(index, count int) error {
	if index < 0 || index > v.Len() || count < 0 {
		return fmt.Errorf("%w: insert %d elements at %d, length is %d",
			ErrIndexOutOfBounds, count, index, v.Len())
	}
	if count == 0 {
		return nil
	}
	inPlace := false
	if v.frag && v.Len() > 0 {
		start, segCount, items := v.block(index)
		if segCount+count <= v.target {
			if cap(items) < segCount+count {
				grown := make([]T, segCount, v.target)
				copy(grown, items)
				items = grown
			}
			offset := index - start
			items = items[:segCount+count]
			copy(items[offset+count:], items[offset:segCount])
			clear(items[offset : offset+count])
			v.setBlock(start, items)
			inPlace = true
		}
	}
	if !inPlace {
		v.splitAt(index)
		for remaining := count; remaining > 0; {
			n := min(remaining, v.target)
			v.insertBlock(index, v.newBlock(n))
			remaining -= n
		}
	}
	v.join(index)
	v.join(index + count)
	return nil
}

// InsertRange inserts a copy of items in front of index.
func (v *Vector[T]) InsertRange(index int, items []T) error {
	if err := v.InsertZeroed(index, len(items)); err != nil {
		return err
	}
	return v.CopyIn(index, items)
}

// Insert inserts a single element in front of index.
func (v *Vector[T]) Insert(index int, item T) error {
	return v.InsertRange(index, []T{item})
}

// Append adds items at the end of the vector.
func (v *Vector[T]) Append(items ...T) error {
	return v.InsertRange(v.Len(), items)
}

// RemoveRange removes count elements starting at index.
func (v *Vector[T]) RemoveRange(index, count int) error {
	if index < 0 || count < 0 || index+count > v.Len() {
		return fmt.Errorf("%w: remove %d elements at %d, length is %d",
			ErrIndexOutOfBounds, count, index, v.Len())
	}
	if count == 0 {
		return nil
	}
	if !v.frag {
		v.splitAt(index)
		v.splitAt(index + count)
		for count > 0 {
			n, err := v.tree.XCount(index)
			assert(err == nil, "segvec: lost block start after split")
			err = v.tree.Remove(index, n)
			assert(err == nil, "segvec: cannot remove block")
			count -= n
		}
	} else {
		for remaining := count; remaining > 0; {
			start, segCount, items := v.block(index)
			switch {
			case start < index: // tail of a block, possibly in its middle
				offset := index - start
				n := min(remaining, segCount-offset)
				copy(items[offset:], items[offset+n:segCount])
				clear(items[segCount-n : segCount])
				v.setBlock(start, items[:segCount-n])
				remaining -= n
			case remaining >= segCount: // whole block
				clear(items[:segCount])
				err := v.tree.Remove(start, segCount)
				assert(err == nil, "segvec: cannot remove block")
				remaining -= segCount
			default: // head of a block
				copy(items, items[remaining:segCount])
				clear(items[segCount-remaining : segCount])
				v.setBlock(start, items[:segCount-remaining])
				remaining = 0
			}
		}
	}
	v.join(index)
	return nil
}

// RemoveAt removes the element at index.
func (v *Vector[T]) RemoveAt(index int) error {
	return v.RemoveRange(index, 1)
}

// ReplaceRange replaces count elements starting at index by items.
func (v *Vector[T]) ReplaceRange(index, count int, items []T) error {
	if err := v.RemoveRange(index, count); err != nil {
		return err
	}
	return v.InsertRange(index, items)
}

// Clear removes all elements.
func (v *Vector[T]) Clear() {
	v.tree.Clear()
}

// --- Bulk access -----------------------------------------------------------

// IterateRangeBatch walks the elements [index, index+len(external)) block by
// block. For every block touched, fn receives the affected part of the block
// and the corresponding part of external. Both slices have the same length
// and may be written to.
func (v *Vector[T]) IterateRangeBatch(index int, external []T, fn func(own, ext []T)) error {
	count := len(external)
	if index < 0 || index+count > v.Len() {
		return fmt.Errorf("%w: range [%d:%d], length is %d",
			ErrIndexOutOfBounds, index, index+count, v.Len())
	}
	for j := 0; count > 0; {
		start, segCount, items := v.block(index)
		offset := index - start
		n := min(count, segCount-offset)
		fn(items[offset:offset+n], external[j:j+n])
		j += n
		index += n
		count -= n
	}
	return nil
}

// IterateRange is like IterateRangeBatch, but calls fn once per element.
func (v *Vector[T]) IterateRange(index int, external []T, fn func(own, ext *T)) error {
	return v.IterateRangeBatch(index, external, func(own, ext []T) {
		for i := range own {
			fn(&own[i], &ext[i])
		}
	})
}

// CopyIn overwrites the elements starting at index with items.
func (v *Vector[T]) CopyIn(index int, items []T) error {
	return v.IterateRangeBatch(index, items, func(own, ext []T) {
		copy(own, ext)
	})
}

// CopyOut copies the elements starting at index into dst.
func (v *Vector[T]) CopyOut(index int, dst []T) error {
	return v.IterateRangeBatch(index, dst, func(own, ext []T) {
		copy(ext, own)
	})
}

// Slice returns a copy of the elements [from, to).
func (v *Vector[T]) Slice(from, to int) ([]T, error) {
	if from > to {
		return nil, fmt.Errorf("%w: range [%d:%d]", ErrIndexOutOfBounds, from, to)
	}
	out := make([]T, to-from)
	if err := v.CopyOut(from, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Blocks returns an iterator over the blocks of v in order. The yielded slices
// alias the vector's storage and are valid until the next mutation.
func (v *Vector[T]) Blocks() iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		v.tree.Walk(func(e splay.Entry[[]T]) bool {
			return yield(e.Value)
		})
	}
}

// All returns an iterator over index/element pairs.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		i := 0
		for items := range v.Blocks() {
			for _, item := range items {
				if !yield(i, item) {
					return
				}
				i++
			}
		}
	}
}

// Check validates the block structure: every block's length matches its
// tree weights and does not exceed the target size.
func (v *Vector[T]) Check() error {
	if err := v.tree.Check(); err != nil {
		return err
	}
	var err error
	v.tree.Walk(func(e splay.Entry[[]T]) bool {
		switch {
		case len(e.Value) != e.XCount || e.XCount != e.YCount:
			err = fmt.Errorf("%w: block at %d has length %d, weights (%d, %d)",
				ErrInvariant, e.XStart, len(e.Value), e.XCount, e.YCount)
		case e.XCount > v.target:
			err = fmt.Errorf("%w: block at %d exceeds target size %d",
				ErrInvariant, e.XStart, v.target)
		}
		return err == nil
	})
	if err != nil {
		tracer().Errorf("segmented vector: %v", err)
	}
	return err
}
