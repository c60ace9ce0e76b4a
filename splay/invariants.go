package splay

import "fmt"

// Check validates the structural invariants of the tree: subtree weights are
// the sums of their parts, every entry has a positive X weight and a
// non-negative Y weight, and every arena slot is either reachable exactly once
// or on the free list.
//
// Check is O(n) and meant for tests and debugging.
func (t *Tree[V]) Check() error {
	if t == nil {
		return fmt.Errorf("%w: nil tree", ErrInvariant)
	}
	if t.root == nilRef {
		if t.count != 0 {
			return fmt.Errorf("%w: empty tree reports %d entries", ErrInvariant, t.count)
		}
		return nil
	}
	seen := make([]bool, len(t.nodes)+1)
	reachable := 0
	// post-order, so children are verified before their parent
	type frame struct {
		r       ref
		visited bool
	}
	stack := []frame{{r: t.root}}
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if f.r < 1 || int(f.r) > len(t.nodes) {
			return fmt.Errorf("%w: node reference %d out of arena", ErrInvariant, f.r)
		}
		n := t.at(f.r)
		if !f.visited {
			if seen[f.r] {
				return fmt.Errorf("%w: node %d reachable twice", ErrInvariant, f.r)
			}
			seen[f.r] = true
			reachable++
			f.visited = true
			if n.left != nilRef {
				stack = append(stack, frame{r: n.left})
			}
			if n.right != nilRef {
				stack = append(stack, frame{r: n.right})
			}
			continue
		}
		stack = stack[:len(stack)-1]
		if n.xCount <= 0 {
			return fmt.Errorf("%w: node %d has X weight %d", ErrInvariant, f.r, n.xCount)
		}
		if n.yCount < 0 {
			return fmt.Errorf("%w: node %d has Y weight %d", ErrInvariant, f.r, n.yCount)
		}
		if x := t.xs(n.left) + n.xCount + t.xs(n.right); x != n.xSize {
			return fmt.Errorf("%w: node %d has xSize %d, children sum to %d",
				ErrInvariant, f.r, n.xSize, x)
		}
		if y := t.ys(n.left) + n.yCount + t.ys(n.right); y != n.ySize {
			return fmt.Errorf("%w: node %d has ySize %d, children sum to %d",
				ErrInvariant, f.r, n.ySize, y)
		}
	}
	if reachable != t.count {
		return fmt.Errorf("%w: %d reachable entries, count is %d", ErrInvariant, reachable, t.count)
	}
	if reachable+len(t.free) != len(t.nodes) {
		return fmt.Errorf("%w: %d reachable and %d free nodes in arena of %d",
			ErrInvariant, reachable, len(t.free), len(t.nodes))
	}
	for _, r := range t.free {
		if seen[r] {
			return fmt.Errorf("%w: free node %d is reachable", ErrInvariant, r)
		}
	}
	return nil
}
