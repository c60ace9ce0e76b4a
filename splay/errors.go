package splay

import "errors"

var (
	// ErrKeyNotFound signals that no entry starts exactly at a given X coordinate.
	ErrKeyNotFound = errors.New("splay: item not in tree")
	// ErrInvalidArgument signals invalid weights or coordinates, e.g. a zero-width range.
	ErrInvalidArgument = errors.New("splay: invalid argument")
	// ErrInvalidOperation signals a request inconsistent with the tree's structure.
	ErrInvalidOperation = errors.New("splay: invalid operation")
	// ErrInvariant signals a violated structural invariant of the tree.
	ErrInvariant = errors.New("splay: invariant violated")
)
