package segvec

import "errors"

var (
	// ErrInvalidConfig signals an invalid vector configuration.
	ErrInvalidConfig = errors.New("segvec: invalid configuration")
	// ErrIndexOutOfBounds signals an invalid element index or range.
	ErrIndexOutOfBounds = errors.New("segvec: index out of bounds")
	// ErrInvariant signals a violated block invariant.
	ErrInvariant = errors.New("segvec: invariant violated")
)
