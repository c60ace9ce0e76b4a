package textfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/npillmayer/splaytext"
	"github.com/npillmayer/splaytext/linebuf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNotRegular is returned when loading something which is not a regular
// file, e.g. a directory.
var ErrNotRegular = errors.New("textfile: not a regular file")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Info describes a loaded file.
type Info struct {
	Path     string
	Size     int64 // in bytes, as found on disk
	Tally    linebuf.LineEndingTally
	Encoding encoding.Encoding // as given to Load, may be nil
}

// Load reads a file, which must be a regular file, into a text. enc may be
// nil for UTF-8. The line ending found most often becomes the one the text
// writes with WriteTo.
func Load(name string, enc encoding.Encoding, cfg linebuf.Config) (*splaytext.Text, Info, error) {
	info := Info{Path: name, Encoding: enc}
	f, fi, err := openFile(name)
	if err != nil {
		return nil, info, err
	}
	defer f.Close()
	info.Size = fi.Size()
	var r io.Reader = f
	if enc != nil && !asciiCompatible(enc) {
		r = transform.NewReader(f, unicode.BOMOverride(enc.NewDecoder()))
		enc = nil
	}
	text, tally, err := splaytext.FromReader(r, enc, cfg)
	if err != nil {
		return nil, info, fmt.Errorf("textfile: loading %s: %w", name, err)
	}
	info.Tally = tally
	tracer().Infof("textfile: loaded %s, %d bytes, %d lines", name, info.Size, text.Count())
	return text, info, nil
}

// openFile opens an OS file for reading, checking that it is a regular
// file.
func openFile(name string) (*os.File, os.FileInfo, error) {
	fi, err := os.Stat(name)
	if err != nil {
		return nil, nil, err
	} else if !fi.Mode().IsRegular() {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotRegular, name)
	}
	f, err := os.Open(name) // just open for read access
	if err != nil {
		return nil, nil, err
	}
	return f, fi, nil
}

// asciiCompatible reports whether enc encodes CR and LF as single ASCII
// bytes.
func asciiCompatible(enc encoding.Encoding) bool {
	crlf := []byte("\r\n")
	b, err := enc.NewEncoder().Bytes(crlf)
	return err == nil && bytes.Equal(b, crlf)
}

// Save writes text to file name, separating lines by ending and encoding
// them with enc (nil for UTF-8). A UTF-8 byte order mark the text was loaded
// with is written again. The file is replaced atomically by writing to a
// temporary file in the same directory first.
func Save(name string, text *splaytext.Text, ending linebuf.LineEnding, enc encoding.Encoding) error {
	tmp, err := os.CreateTemp(filepath.Dir(name), "."+filepath.Base(name)+".*")
	if err != nil {
		return err
	}
	cleanup := func(err error) error {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("textfile: saving %s: %w", name, err)
	}
	var w io.Writer = tmp
	var flush io.Closer
	if enc == nil || enc == unicode.UTF8 {
		if text.Buffer().HasBOM() {
			if _, err := tmp.Write(utf8BOM); err != nil {
				return cleanup(err)
			}
		}
	} else {
		w = enc.NewEncoder().Writer(tmp)
		flush, _ = w.(io.Closer)
	}
	n, err := text.WriteText(w, ending)
	if err != nil {
		return cleanup(err)
	}
	if flush != nil {
		if err := flush.Close(); err != nil {
			return cleanup(err)
		}
	}
	if fi, err := os.Stat(name); err == nil {
		if err := tmp.Chmod(fi.Mode().Perm()); err != nil {
			return cleanup(err)
		}
	}
	if err := tmp.Close(); err != nil {
		return cleanup(err)
	}
	if err := os.Rename(tmp.Name(), name); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("textfile: saving %s: %w", name, err)
	}
	tracer().Infof("textfile: saved %s, %d bytes of text, %s", name, n, ending)
	return nil
}
