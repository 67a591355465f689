package compress

// ZstdLevel is the zstd compression level used by both zstd backends.
const ZstdLevel = 3

// maxZstdOutput bounds the memory a single zstd frame may decode to.
const maxZstdOutput = 1 << 30

// zstdCapacity bounds the preallocated output for a frame of compressed bytes, so a wrong
// size hint cannot force a large allocation before decoding starts.
func zstdCapacity(size, compressed int) int {
	return max(0, min(size, compressed*64))
}

// ZstdCompressor compresses payloads with Zstandard. It has the best ratio of the built-in
// codecs and suits grids that are written to a cache directory.
//
// The pure Go implementation (klauspost/compress) is used by default. Building with the
// gozstd tag and cgo enabled switches to the libzstd binding (valyala/gozstd).
type ZstdCompressor struct{}

var (
	_ Codec             = (*ZstdCompressor)(nil)
	_ SizedDecompressor = (*ZstdCompressor)(nil)
)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
