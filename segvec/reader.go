package segvec

import (
	"errors"
	"fmt"
	"io"
)

// Reader reads a window of a byte vector. It implements io.Reader,
// io.ReaderAt, io.ByteReader and io.Seeker. Positions are relative to the
// start of the window.
//
// The vector must not be modified while a reader is in use.
type Reader struct {
	vec        *Vector[byte]
	start, end int
	cursor     int
}

// NewReader returns a reader for the bytes [start, start+length) of vec.
func NewReader(vec *Vector[byte], start, length int) (*Reader, error) {
	if err := vec.checkWindow(start, length); err != nil {
		return nil, err
	}
	return &Reader{vec: vec, start: start, end: start + length}, nil
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return max(0, r.end-r.start-r.cursor)
}

func (r *Reader) Read(p []byte) (n int, err error) {
	n, err = r.ReadAt(p, int64(r.cursor))
	r.cursor += n
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

// ReadAt reads from the window at offset off, without moving the cursor.
func (r *Reader) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, errors.New("segvec: negative offset")
	}
	pos := r.start + int(off)
	if pos >= r.end {
		return 0, io.EOF
	}
	l := min(len(p), r.end-pos)
	if err = r.vec.CopyOut(pos, p[:l]); err != nil {
		return 0, err
	}
	if l < len(p) {
		return l, io.EOF
	}
	return l, nil
}

// ReadByte reads the next byte.
func (r *Reader) ReadByte() (byte, error) {
	pos := r.start + r.cursor
	if pos >= r.end {
		return 0, io.EOF
	}
	r.cursor++
	return r.vec.At(pos), nil
}

// Seek sets the cursor for the next Read.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(r.cursor) + offset
	case io.SeekEnd:
		abs = int64(r.end-r.start) + offset
	default:
		return 0, fmt.Errorf("segvec: invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, errors.New("segvec: negative position")
	}
	r.cursor = int(abs)
	return abs, nil
}

var _ io.ReadSeeker = (*Reader)(nil)
var _ io.ReaderAt = (*Reader)(nil)
var _ io.ByteReader = (*Reader)(nil)
