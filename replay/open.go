package replay

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// Open opens a trade file for reading. Files ending in .xz or .lzma are
// decompressed on the fly.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var r io.Reader
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xz":
		r, err = xz.NewReader(f)
	case ".lzma":
		r, err = lzma.NewReader(f)
	default:
		return f, nil
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decompress %s: %w", path, err)
	}
	return &readCloser{Reader: r, c: f}, nil
}

type readCloser struct {
	io.Reader
	c io.Closer
}

func (rc *readCloser) Close() error { return rc.c.Close() }
