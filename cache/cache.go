// Package cache memoizes engine results keyed by the module arguments and input data.
//
// Grids are stored as compressed blobs (see grid.Marshal), so a cache of mask grids stays
// small even when it holds many large lattices. MemoryCache keeps blobs in process;
// DirCache keeps one file per key and survives restarts.
package cache

import (
	"github.com/arloliu/gridmask/grid"
	"github.com/arloliu/gridmask/internal/hash"
)

// Cache stores grids by key. Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the grid stored under key. ok is false on a miss.
	Get(key uint64) (g *grid.Grid, ok bool, err error)
	// Put stores g under key, replacing any previous entry.
	Put(key uint64, g *grid.Grid) error
}

// Key derives a cache key from a module name, its argument list, and the input payload.
// Arguments naming files in a session work directory should be normalized by the caller.
func Key(module string, args []string, input []byte) uint64 {
	all := make([]string, 0, len(args)+1)
	all = append(all, module)
	all = append(all, args...)

	return hash.Args(all, input)
}
