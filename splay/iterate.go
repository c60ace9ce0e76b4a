package splay

import "iter"

// Entry is a snapshot of a tree entry together with its cumulative starts.
type Entry[V any] struct {
	XStart, XCount int
	YStart, YCount int
	Value          V
}

// XEnd returns the X coordinate following the entry.
func (e Entry[V]) XEnd() int {
	return e.XStart + e.XCount
}

// YEnd returns the Y coordinate following the entry.
func (e Entry[V]) YEnd() int {
	return e.YStart + e.YCount
}

// Walk visits all entries in X order. Iteration stops early if fn returns
// false. Walking does not splay; the tree must not be modified by fn.
func (t *Tree[V]) Walk(fn func(e Entry[V]) bool) {
	if t == nil || fn == nil {
		return
	}
	var stack []ref
	var x, y int
	r := t.root
	for r != nilRef || len(stack) > 0 {
		for r != nilRef {
			stack = append(stack, r)
			r = t.at(r).left
		}
		r = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.at(r)
		e := Entry[V]{XStart: x, XCount: n.xCount, YStart: y, YCount: n.yCount, Value: n.value}
		if !fn(e) {
			return
		}
		x += n.xCount
		y += n.yCount
		r = n.right
	}
}

// Entries returns an iterator over all entries in X order.
func (t *Tree[V]) Entries() iter.Seq[Entry[V]] {
	return func(yield func(Entry[V]) bool) {
		t.Walk(yield)
	}
}

// Depth returns the height of the tree; an empty tree has depth 0.
func (t *Tree[V]) Depth() int {
	if t == nil || t.root == nilRef {
		return 0
	}
	type frame struct {
		r     ref
		depth int
	}
	deepest := 0
	stack := []frame{{t.root, 1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if f.depth > deepest {
			deepest = f.depth
		}
		n := t.at(f.r)
		if n.left != nilRef {
			stack = append(stack, frame{n.left, f.depth + 1})
		}
		if n.right != nilRef {
			stack = append(stack, frame{n.right, f.depth + 1})
		}
	}
	return deepest
}
