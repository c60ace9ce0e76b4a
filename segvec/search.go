package segvec

import (
	"fmt"
	"slices"
)

func (v *Vector[T]) checkWindow(start, count int) error {
	if start < 0 || count < 0 || start+count > v.Len() {
		return fmt.Errorf("%w: window [%d:%d], length is %d",
			ErrIndexOutOfBounds, start, start+count, v.Len())
	}
	return nil
}

// checkBackwardWindow validates the window (end-count, end], searched
// backwards from end.
func (v *Vector[T]) checkBackwardWindow(end, count int) error {
	if count < 0 || end-count+1 < 0 || (count > 0 && end >= v.Len()) || end > v.Len() {
		return fmt.Errorf("%w: backward window [%d:%d], length is %d",
			ErrIndexOutOfBounds, end-count+1, end+1, v.Len())
	}
	return nil
}

// indexFunc returns the first index in [start, start+count) for which match
// is true, or -1.
func (v *Vector[T]) indexFunc(start, count int, match func(T) bool) (int, error) {
	if err := v.checkWindow(start, count); err != nil {
		return -1, err
	}
	for count > 0 {
		bstart, segCount, items := v.block(start)
		offset := start - bstart
		n := min(segCount-offset, count)
		if i := slices.IndexFunc(items[offset:offset+n], match); i >= 0 {
			return start + i, nil
		}
		start += n
		count -= n
	}
	return -1, nil
}

// lastIndexFunc returns the last index in (end-count, end] for which match
// is true, or -1.
func (v *Vector[T]) lastIndexFunc(end, count int, match func(T) bool) (int, error) {
	if err := v.checkBackwardWindow(end, count); err != nil {
		return -1, err
	}
	for count > 0 {
		bstart, _, items := v.block(end)
		offset := end - bstart
		n := min(offset+1, count)
		for i := offset; i > offset-n; i-- {
			if match(items[i]) {
				return bstart + i, nil
			}
		}
		end -= n
		count -= n
	}
	return -1, nil
}

// IndexOf returns the index of the first occurrence of value within
// [start, start+count), or -1.
func IndexOf[T comparable](v *Vector[T], value T, start, count int) (int, error) {
	return v.indexFunc(start, count, func(e T) bool { return e == value })
}

// IndexOfAny returns the index of the first occurrence of any of values within
// [start, start+count), or -1.
func IndexOfAny[T comparable](v *Vector[T], values []T, start, count int) (int, error) {
	return v.indexFunc(start, count, func(e T) bool { return slices.Contains(values, e) })
}

// LastIndexOf searches backwards from end (inclusive) through count elements
// and returns the index of the first occurrence of value found, or -1.
func LastIndexOf[T comparable](v *Vector[T], value T, end, count int) (int, error) {
	return v.lastIndexFunc(end, count, func(e T) bool { return e == value })
}

// LastIndexOfAny searches backwards from end (inclusive) through count
// elements for any of values, or returns -1.
func LastIndexOfAny[T comparable](v *Vector[T], values []T, end, count int) (int, error) {
	return v.lastIndexFunc(end, count, func(e T) bool { return slices.Contains(values, e) })
}

// BinarySearch searches [start, start+count), which must be sorted by cmp, for
// target. It returns the position where target is found, or where it would be
// inserted, and whether it was found. With firstOfRun set, the position
// of the first of a run of equal elements is returned.
func (v *Vector[T]) BinarySearch(target T, start, count int, firstOfRun bool, cmp func(T, T) int) (int, bool, error) {
	if err := v.checkWindow(start, count); err != nil {
		return 0, false, err
	}
	if firstOfRun {
		i := v.lowerBound(target, start, count, cmp)
		return i, i < start+count && cmp(v.At(i), target) == 0, nil
	}
	lower, upper := start, start+count-1
	for lower <= upper {
		middle := int(uint(lower+upper) >> 1)
		c := cmp(v.At(middle), target)
		switch {
		case c == 0:
			return middle, true, nil
		case c < 0:
			lower = middle + 1
		default:
			upper = middle - 1
		}
	}
	return lower, false, nil
}

// lowerBound returns the first position in [start, start+count) holding an
// element not less than target, or start+count.
func (v *Vector[T]) lowerBound(target T, start, count int, cmp func(T, T) int) int {
	lower, upper := start, start+count
	for lower < upper {
		middle := int(uint(lower+upper) >> 1)
		if cmp(v.At(middle), target) < 0 {
			lower = middle + 1
		} else {
			upper = middle
		}
	}
	return lower
}
