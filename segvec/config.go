package segvec

import (
	"fmt"
	"unsafe"
)

// DefaultBlockBytes is the approximate size in bytes of a block of a vector
// configured with the default target block size.
const DefaultBlockBytes = 4096

// Config configures a segmented vector.
type Config struct {
	// TargetBlockSize is the maximum number of elements per block. Zero
	// selects DefaultBlockBytes divided by the element size, but at least 2.
	TargetBlockSize int
	// Fragmented allocates every block at full target capacity and inserts
	// in place where a block has room.
	Fragmented bool
}

// DefaultTargetBlockSize returns the default number of elements per block for
// element type T.
func DefaultTargetBlockSize[T any]() int {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		return DefaultBlockBytes
	}
	return max(2, DefaultBlockBytes/size)
}

func normalized[T any](cfg Config) Config {
	if cfg.TargetBlockSize == 0 {
		cfg.TargetBlockSize = DefaultTargetBlockSize[T]()
	}
	return cfg
}

func (cfg Config) validate() error {
	if cfg.TargetBlockSize < 2 {
		return fmt.Errorf("%w: target block size %d, must be at least 2",
			ErrInvalidConfig, cfg.TargetBlockSize)
	}
	return nil
}
