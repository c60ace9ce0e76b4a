package linebuf

import (
	"fmt"

	"github.com/npillmayer/splaytext/segvec"
)

const (
	// DefaultBlockSize is the default number of bytes per vector block.
	DefaultBlockSize = 4096
	// DefaultIndexSparseness is the default number of lines covered by an
	// entry of the line index before it is split.
	DefaultIndexSparseness = 4096
)

// Cutoffs of automatic validation, in lines. Buffers with fewer lines than
// validateCutoffThorough are validated on every cursor move, buffers with
// fewer lines than validateCutoffModerate after every mutation.
const (
	validateCutoffThorough = 100
	validateCutoffModerate = 500
)

// Config configures a Buffer.
type Config struct {
	// BlockSize is the target block size of the byte vector.
	BlockSize int
	// Fragmented selects fragmentation mode for the byte vector.
	Fragmented bool
	// IndexSparseness is the number of lines an index entry may grow to
	// before it is split. Entries shrinking to half of it are merged with
	// their successor.
	IndexSparseness int
	// Validate enables automatic consistency checks of small buffers after
	// cursor moves and mutations. A failing check panics. Meant for tests.
	Validate bool
}

func (cfg Config) normalized() Config {
	if cfg.BlockSize == 0 {
		cfg.BlockSize = DefaultBlockSize
	}
	if cfg.IndexSparseness == 0 {
		cfg.IndexSparseness = DefaultIndexSparseness
	}
	return cfg
}

func (cfg Config) validate() error {
	cfg = cfg.normalized()
	if cfg.BlockSize < 2 {
		return fmt.Errorf("%w: block size %d", ErrInvalidConfig, cfg.BlockSize)
	}
	if cfg.IndexSparseness < 2 {
		return fmt.Errorf("%w: index sparseness %d, must be at least 2",
			ErrInvalidConfig, cfg.IndexSparseness)
	}
	return nil
}

func (cfg Config) vectorConfig() segvec.Config {
	return segvec.Config{TargetBlockSize: cfg.BlockSize, Fragmented: cfg.Fragmented}
}
