package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arloliu/gridmask/format"
	"github.com/arloliu/gridmask/grid"
)

const blobExt = ".gmsk"

// DirCache stores one blob file per key in a directory.
//
// Writes go through a temporary file and a rename, so concurrent readers never observe a
// partial blob.
type DirCache struct {
	dir         string
	compression format.CompressionType
}

var _ Cache = (*DirCache)(nil)

// NewDirCache creates dir if needed and returns a cache rooted there.
func NewDirCache(dir string, compression format.CompressionType) (*DirCache, error) {
	if dir == "" {
		return nil, errors.New("cache directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	return &DirCache{dir: dir, compression: compression}, nil
}

// Dir returns the cache directory.
func (c *DirCache) Dir() string {
	return c.dir
}

// Get implements Cache.
func (c *DirCache) Get(key uint64) (*grid.Grid, bool, error) {
	data, err := os.ReadFile(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	g, err := grid.Unmarshal(data)
	if err != nil {
		return nil, false, fmt.Errorf("cache entry %016x: %w", key, err)
	}

	return g, true, nil
}

// Put implements Cache.
func (c *DirCache) Put(key uint64, g *grid.Grid) error {
	blob, err := grid.Marshal(g, c.compression)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, "put-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), c.path(key))
}

func (c *DirCache) path(key uint64) string {
	return filepath.Join(c.dir, fmt.Sprintf("%016x%s", key, blobExt))
}
