package splay

import (
	"fmt"
)

// ref addresses a node in the arena of a tree. Node r lives at nodes[r-1];
// the zero ref denotes the empty subtree.
type ref int32

const (
	nilRef ref = 0
	// header stands in for the assembly node of a top-down splay. It never
	// addresses the arena.
	header ref = -1
)

type node[V any] struct {
	left, right    ref
	xCount, yCount int // weights of this entry alone
	xSize, ySize   int // weights of the subtree rooted here
	value          V
}

// Tree is a splay tree of ranges with two cumulative weights. Every entry
// carries a payload of type V; clients without a payload use struct{}.
//
// A tree created by
//
//	Tree[V]{}
//
// is a valid, empty tree.
type Tree[V any] struct {
	nodes []node[V]
	free  []ref
	root  ref
	count int
}

// New creates an empty tree.
func New[V any]() *Tree[V] {
	return &Tree[V]{}
}

// --- Arena -----------------------------------------------------------------

func (t *Tree[V]) at(r ref) *node[V] {
	return &t.nodes[r-1]
}

func (t *Tree[V]) xs(r ref) int {
	if r == nilRef {
		return 0
	}
	return t.nodes[r-1].xSize
}

func (t *Tree[V]) ys(r ref) int {
	if r == nilRef {
		return 0
	}
	return t.nodes[r-1].ySize
}

// alloc may grow the arena; pointers obtained by at() are invalid afterwards.
func (t *Tree[V]) alloc(xCount, yCount int, value V) ref {
	var r ref
	if k := len(t.free); k > 0 {
		r = t.free[k-1]
		t.free = t.free[:k-1]
	} else {
		t.nodes = append(t.nodes, node[V]{})
		r = ref(len(t.nodes))
	}
	*t.at(r) = node[V]{
		xCount: xCount,
		yCount: yCount,
		xSize:  xCount,
		ySize:  yCount,
		value:  value,
	}
	return r
}

// release zeroes a node, dropping any reference held by its payload.
func (t *Tree[V]) release(r ref) {
	*t.at(r) = node[V]{}
	t.free = append(t.free, r)
}

func (t *Tree[V]) update(r ref) {
	n := t.at(r)
	n.xSize = t.xs(n.left) + n.xCount + t.xs(n.right)
	n.ySize = t.ys(n.left) + n.yCount + t.ys(n.right)
}

// start returns the X start of the root of a subtree, relative to the
// subtree's own origin.
func (t *Tree[V]) start(r ref) int {
	return t.xs(t.at(r).left)
}

// --- Splaying --------------------------------------------------------------

// splay restructures the subtree rooted at root such that the entry covering
// x, or a neighbor of x, becomes the subtree's root. x is relative to the
// subtree's origin. It returns the new root.
func (t *Tree[V]) splay(root ref, x int) ref {
	if root == nilRef {
		return nilRef
	}
	var hdrLeft, hdrRight ref // links of the assembly header
	l, r := header, header
	var lx, ly, rx, ry int // weights of the left and right trees built so far
	cur := root
	for {
		n := t.at(cur)
		if x < t.xs(n.left) {
			if n.left == nilRef {
				break
			}
			if x < t.xs(t.at(n.left).left) {
				// rotate right
				y := n.left
				n.left = t.at(y).right
				t.at(y).right = cur
				t.update(cur)
				cur = y
				if t.at(cur).left == nilRef {
					break
				}
			}
			// link right
			if r == header {
				hdrLeft = cur
			} else {
				t.at(r).left = cur
			}
			r = cur
			rn := t.at(r)
			cur = rn.left
			rx += rn.xCount + t.xs(rn.right)
			ry += rn.yCount + t.ys(rn.right)
		} else if x > t.xs(n.left) {
			if n.right == nilRef {
				break
			}
			if x > t.xs(n.left)+n.xCount+t.xs(t.at(n.right).left) {
				// rotate left
				y := n.right
				n.right = t.at(y).left
				t.at(y).left = cur
				t.update(cur)
				cur = y
				if t.at(cur).right == nilRef {
					break
				}
			}
			// link left
			if l == header {
				hdrRight = cur
			} else {
				t.at(l).right = cur
			}
			l = cur
			ln := t.at(l)
			x -= t.xs(ln.left) + ln.xCount
			cur = ln.right
			lx += ln.xCount + t.xs(ln.left)
			ly += ln.yCount + t.ys(ln.left)
		} else {
			break
		}
	}
	c := t.at(cur)
	lx += t.xs(c.left)
	ly += t.ys(c.left)
	rx += t.xs(c.right)
	ry += t.ys(c.right)
	c.xSize = lx + rx + c.xCount
	c.ySize = ly + ry + c.yCount
	if l == header {
		hdrRight = nilRef
	} else {
		t.at(l).right = nilRef
	}
	if r == header {
		hdrLeft = nilRef
	} else {
		t.at(r).left = nilRef
	}
	// Repair the weights along the right spine of the left tree and the left
	// spine of the right tree. Both spines still lack the children of cur.
	for y := hdrRight; y != nilRef; y = t.at(y).right {
		yn := t.at(y)
		yn.xSize, yn.ySize = lx, ly
		lx -= yn.xCount + t.xs(yn.left)
		ly -= yn.yCount + t.ys(yn.left)
	}
	for y := hdrLeft; y != nilRef; y = t.at(y).left {
		yn := t.at(y)
		yn.xSize, yn.ySize = rx, ry
		rx -= yn.xCount + t.xs(yn.right)
		ry -= yn.yCount + t.ys(yn.right)
	}
	// reassemble
	if l == header {
		hdrRight = c.left
	} else {
		t.at(l).right = c.left
	}
	if r == header {
		hdrLeft = c.right
	} else {
		t.at(r).left = c.right
	}
	c.left, c.right = hdrRight, hdrLeft
	return cur
}

// --- Mutation --------------------------------------------------------------

// Insert adds an entry of weights (xCount, yCount) at X coordinate xStart.
//
// xStart must either be the start of an existing entry, in which case the
// new entry is placed immediately in front of it, or equal XSize(), in which
// case the entry is appended. xCount must be positive, yCount may be zero.
func (t *Tree[V]) Insert(xStart, xCount, yCount int, value V) error {
	if xStart < 0 || xCount <= 0 || yCount < 0 {
		return fmt.Errorf("%w: insert at %d with weights (%d, %d)",
			ErrInvalidArgument, xStart, xCount, yCount)
	}
	if t.root == nilRef {
		if xStart != 0 {
			return fmt.Errorf("%w: insert at %d into empty tree", ErrKeyNotFound, xStart)
		}
		t.root = t.alloc(xCount, yCount, value)
		t.count++
		return nil
	}
	t.root = t.splay(t.root, xStart)
	if rn := t.at(t.root); xStart == t.xs(rn.left) {
		// insert in front of the current root
		i := t.alloc(xCount, yCount, value)
		in, rn := t.at(i), t.at(t.root)
		leftX, leftY := t.xs(rn.left), t.ys(rn.left)
		in.left, in.right = rn.left, t.root
		in.xSize += rn.xSize
		in.ySize += rn.ySize
		rn.left = nilRef
		rn.xSize -= leftX
		rn.ySize -= leftY
		t.root = i
	} else {
		// append
		if rn.right != nilRef {
			return fmt.Errorf("%w: insert at %d is inside an entry", ErrInvalidOperation, xStart)
		}
		if xStart != rn.xSize {
			return fmt.Errorf("%w: insert at %d", ErrKeyNotFound, xStart)
		}
		i := t.alloc(xCount, yCount, value)
		rn = t.at(t.root)
		rn.right = i
		rn.xSize += xCount
		rn.ySize += yCount
	}
	t.count++
	return nil
}

// Remove deletes the entry starting at xStart. If xCount is non-zero, it must
// match the entry's X weight; the check guards against stale coordinates.
func (t *Tree[V]) Remove(xStart, xCount int) error {
	rn, err := t.find(xStart)
	if err != nil {
		return err
	}
	if xCount != 0 && xCount != rn.xCount {
		return fmt.Errorf("%w: entry at %d has width %d, not %d",
			ErrKeyNotFound, xStart, rn.xCount, xCount)
	}
	t.detachRoot()
	return nil
}

// detachRoot replaces the root by the join of its two subtrees.
func (t *Tree[V]) detachRoot() {
	old := t.root
	on := t.at(old)
	var x ref
	if on.left == nilRef {
		x = on.right
	} else {
		x = t.splay(on.left, t.xs(on.left))
		xn := t.at(x)
		assert(xn.right == nilRef, "splay to subtree end left a right child")
		xn.right = on.right
	}
	if x != nilRef {
		xn := t.at(x)
		xn.xSize = on.xSize - on.xCount
		xn.ySize = on.ySize - on.yCount
	}
	t.root = x
	t.release(old)
	t.count--
}

// SetCounts changes the weights of the entry starting at xStart. The X
// starts of all following entries move by the change of xCount.
func (t *Tree[V]) SetCounts(xStart, xCount, yCount int) error {
	if xCount <= 0 || yCount < 0 {
		return fmt.Errorf("%w: weights (%d, %d) for entry at %d",
			ErrInvalidArgument, xCount, yCount, xStart)
	}
	rn, err := t.find(xStart)
	if err != nil {
		return err
	}
	rn.xSize += xCount - rn.xCount
	rn.ySize += yCount - rn.yCount
	rn.xCount, rn.yCount = xCount, yCount
	return nil
}

// SetValue replaces the payload of the entry starting at xStart.
func (t *Tree[V]) SetValue(xStart int, value V) error {
	rn, err := t.find(xStart)
	if err != nil {
		return err
	}
	rn.value = value
	return nil
}

// Clear removes all entries. The arena is kept for reuse.
func (t *Tree[V]) Clear() {
	clear(t.nodes)
	t.nodes = t.nodes[:0]
	t.free = t.free[:0]
	t.root = nilRef
	t.count = 0
}

// --- Queries ---------------------------------------------------------------

// find splays the entry starting exactly at xStart to the root.
func (t *Tree[V]) find(xStart int) (*node[V], error) {
	if xStart < 0 {
		return nil, fmt.Errorf("%w: negative start %d", ErrInvalidArgument, xStart)
	}
	if t.root == nilRef {
		return nil, fmt.Errorf("%w: start %d in empty tree", ErrKeyNotFound, xStart)
	}
	t.root = t.splay(t.root, xStart)
	rn := t.at(t.root)
	if xStart != t.xs(rn.left) {
		return nil, fmt.Errorf("%w: start %d", ErrKeyNotFound, xStart)
	}
	return rn, nil
}

// XSize returns the sum of the X weights of all entries.
func (t *Tree[V]) XSize() int {
	return t.xs(t.root)
}

// YSize returns the sum of the Y weights of all entries.
func (t *Tree[V]) YSize() int {
	return t.ys(t.root)
}

// Len returns the number of entries.
func (t *Tree[V]) Len() int {
	return t.count
}

// IsEmpty reports whether the tree has no entries.
func (t *Tree[V]) IsEmpty() bool {
	return t.root == nilRef
}

// Extent returns the X weight, the cumulative Y start and the Y weight of the
// entry starting at xStart.
func (t *Tree[V]) Extent(xStart int) (xCount, yStart, yCount int, err error) {
	rn, err := t.find(xStart)
	if err != nil {
		return 0, 0, 0, err
	}
	return rn.xCount, t.ys(rn.left), rn.yCount, nil
}

// XCount returns the X weight of the entry starting at xStart.
func (t *Tree[V]) XCount(xStart int) (int, error) {
	rn, err := t.find(xStart)
	if err != nil {
		return 0, err
	}
	return rn.xCount, nil
}

// YCount returns the Y weight of the entry starting at xStart.
func (t *Tree[V]) YCount(xStart int) (int, error) {
	rn, err := t.find(xStart)
	if err != nil {
		return 0, err
	}
	return rn.yCount, nil
}

// YEndBound returns the cumulative Y weight up to and including the entry
// starting at xStart.
func (t *Tree[V]) YEndBound(xStart int) (int, error) {
	rn, err := t.find(xStart)
	if err != nil {
		return 0, err
	}
	return t.ys(rn.left) + rn.yCount, nil
}

// Value returns the payload of the entry starting at xStart.
func (t *Tree[V]) Value(xStart int) (V, error) {
	rn, err := t.find(xStart)
	if err != nil {
		var zero V
		return zero, err
	}
	return rn.value, nil
}

// CountValue returns the X weight and the payload of the entry starting at xStart.
func (t *Tree[V]) CountValue(xStart int) (int, V, error) {
	rn, err := t.find(xStart)
	if err != nil {
		var zero V
		return 0, zero, err
	}
	return rn.xCount, rn.value, nil
}

// NearestLessOrEqual returns the largest entry start not greater than x. ok is
// false if no entry starts at or before x, which happens only for an empty
// tree. x beyond XSize() yields the start of the last entry.
func (t *Tree[V]) NearestLessOrEqual(x int) (xStart int, ok bool, err error) {
	if x < 0 {
		return 0, false, fmt.Errorf("%w: negative coordinate %d", ErrInvalidArgument, x)
	}
	if t.root == nilRef {
		return 0, false, nil
	}
	t.root = t.splay(t.root, x)
	rn := t.at(t.root)
	if x >= t.xs(rn.left) {
		return t.xs(rn.left), true, nil
	}
	if rn.left == nilRef {
		if rn.xSize != t.xs(rn.right)+rn.xCount {
			return 0, false, fmt.Errorf("%w: inconsistent root weight", ErrInvalidOperation)
		}
		return 0, false, nil
	}
	// The root is the successor of x; its predecessor is the rightmost entry
	// of the left subtree.
	rn.left = t.splay(rn.left, t.xs(rn.left))
	return t.start(rn.left), true, nil
}

// NearestLessOrEqualExtent combines NearestLessOrEqual and Extent.
func (t *Tree[V]) NearestLessOrEqualExtent(x int) (xStart, xCount, yStart, yCount int, err error) {
	xStart, ok, err := t.NearestLessOrEqual(x)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if !ok {
		return 0, 0, 0, 0, fmt.Errorf("%w: no entry at or before %d", ErrInvalidArgument, x)
	}
	xCount, yStart, yCount, err = t.Extent(xStart)
	return
}

// NearestLessOrEqualCountValue combines NearestLessOrEqual and CountValue.
func (t *Tree[V]) NearestLessOrEqualCountValue(x int) (xStart, xCount int, value V, err error) {
	xStart, ok, err := t.NearestLessOrEqual(x)
	if err == nil && !ok {
		err = fmt.Errorf("%w: no entry at or before %d", ErrInvalidArgument, x)
	}
	if err != nil {
		return 0, 0, value, err
	}
	xCount, value, err = t.CountValue(xStart)
	return
}

// Previous returns the start of the entry in front of the entry starting at
// xStart. ok is false for the first entry.
func (t *Tree[V]) Previous(xStart int) (previous int, ok bool, err error) {
	if xStart < 0 {
		return 0, false, fmt.Errorf("%w: negative start %d", ErrInvalidArgument, xStart)
	}
	if xStart == 0 {
		return 0, false, nil
	}
	return t.NearestLessOrEqual(xStart - 1)
}

// Next returns the start of the entry following the entry starting at xStart,
// which is xStart plus its X weight. ok is false if xStart is the last entry.
func (t *Tree[V]) Next(xStart int) (next int, ok bool, err error) {
	rn, err := t.find(xStart)
	if err != nil {
		return 0, false, err
	}
	return xStart + rn.xCount, rn.right != nilRef, nil
}
