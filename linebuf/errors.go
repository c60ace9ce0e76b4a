package linebuf

import "errors"

var (
	// ErrLineOutOfRange signals a line index outside the buffer.
	ErrLineOutOfRange = errors.New("linebuf: line index out of range")
	// ErrLineEndingInPayload signals a line body containing CR or LF.
	ErrLineEndingInPayload = errors.New("linebuf: line contains line-ending byte")
	// ErrInvalidConfig signals an invalid buffer configuration.
	ErrInvalidConfig = errors.New("linebuf: invalid configuration")
	// ErrCorrupt signals an inconsistency between content, cursor and index.
	ErrCorrupt = errors.New("linebuf: buffer corrupt")
)
