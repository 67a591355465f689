package grid

import (
	"fmt"
	"math"

	"github.com/arloliu/gridmask/compress"
	"github.com/arloliu/gridmask/endian"
	"github.com/arloliu/gridmask/errs"
	"github.com/arloliu/gridmask/format"
	"github.com/arloliu/gridmask/internal/hash"
	"github.com/arloliu/gridmask/internal/pool"
)

// Blob layout, little-endian:
//
//	magic(4) version(1) compression(1) registration(1) gridType(1)
//	nx(4) ny(4) west east south north xinc yinc (6x8)
//	rawLen(4) payloadLen(4) checksum(8) titleLen(2) title payload
const (
	blobMagic      = 0x4B534D47 // "GMSK"
	blobVersion    = 1
	blobHeaderSize = 4 + 4 + 8 + 48 + 8 + 8 + 2
	maxTitleLen    = math.MaxUint16
)

// Marshal encodes g as a compact blob whose float payload is compressed with compression
// and protected by an xxHash64 checksum. The header remark and z range are not stored;
// Unmarshal recomputes the range.
func Marshal(g *Grid, compression format.CompressionType) ([]byte, error) {
	if err := g.checkShape(); err != nil {
		return nil, err
	}

	codec, err := compress.CreateCodec(compression, "grid")
	if err != nil {
		return nil, err
	}

	engine := endian.GetLittleEndianEngine()

	raw := pool.GetGridBuffer()
	defer pool.PutGridBuffer(raw)
	raw.Grow(len(g.Data) * 4)
	for _, v := range g.Data {
		raw.B = engine.AppendUint32(raw.B, math.Float32bits(v))
	}

	payload, err := codec.Compress(raw.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compress grid payload: %w", err)
	}

	h := g.Header
	title := h.Title
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen]
	}

	out := make([]byte, 0, blobHeaderSize+len(title)+len(payload))
	out = engine.AppendUint32(out, blobMagic)
	out = append(out, blobVersion, byte(compression), byte(h.Registration), byte(h.GridType))
	out = engine.AppendUint32(out, uint32(h.NX))
	out = engine.AppendUint32(out, uint32(h.NY))
	for _, f := range []float64{h.West, h.East, h.South, h.North, h.XInc, h.YInc} {
		out = engine.AppendUint64(out, math.Float64bits(f))
	}
	out = engine.AppendUint32(out, uint32(raw.Len()))
	out = engine.AppendUint32(out, uint32(len(payload)))
	out = engine.AppendUint64(out, hash.Sum(raw.Bytes()))
	out = engine.AppendUint16(out, uint16(len(title)))
	out = append(out, title...)
	out = append(out, payload...)

	return out, nil
}

// blobExpansionSlack covers codec framing on tiny payloads.
const blobExpansionSlack = 64

// maxExpansion returns the largest decompressed/compressed ratio a codec can produce, or 0
// when the codec checks the decoded length itself (zstd frames and S2 blocks carry it).
func maxExpansion(ct format.CompressionType) int64 {
	switch ct {
	case format.CompressionNone:
		return 1
	case format.CompressionLZ4:
		return 255
	default:
		return 0
	}
}

// Unmarshal decodes a blob produced by Marshal.
//
// Returns errs.ErrCorruptedGrid for malformed input and errs.ErrChecksumMismatch when the
// decompressed payload does not match the stored checksum.
func Unmarshal(data []byte) (*Grid, error) {
	if len(data) < blobHeaderSize {
		return nil, fmt.Errorf("%w: blob too short (%d bytes)", errs.ErrCorruptedGrid, len(data))
	}

	engine := endian.GetLittleEndianEngine()
	if engine.Uint32(data[0:4]) != blobMagic {
		return nil, fmt.Errorf("%w: bad magic", errs.ErrCorruptedGrid)
	}
	if data[4] != blobVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", errs.ErrCorruptedGrid, data[4])
	}

	compression := format.CompressionType(data[5])
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCorruptedGrid, err)
	}

	f64 := func(i int) float64 {
		off := 16 + i*8
		return math.Float64frombits(engine.Uint64(data[off : off+8]))
	}

	h := Header{
		West:         f64(0),
		East:         f64(1),
		South:        f64(2),
		North:        f64(3),
		XInc:         f64(4),
		YInc:         f64(5),
		NX:           int(engine.Uint32(data[8:12])),
		NY:           int(engine.Uint32(data[12:16])),
		Registration: format.Registration(data[6]),
		GridType:     format.GridType(data[7]),
	}

	rawLen := int(engine.Uint32(data[64:68]))
	payloadLen := int(engine.Uint32(data[68:72]))
	checksum := engine.Uint64(data[72:80])
	titleLen := int(engine.Uint16(data[80:82]))

	rest := data[blobHeaderSize:]
	if len(rest) != titleLen+payloadLen {
		return nil, fmt.Errorf("%w: expected %d trailing bytes, got %d", errs.ErrCorruptedGrid, titleLen+payloadLen, len(rest))
	}
	h.Title = string(rest[:titleLen])

	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCorruptedGrid, err)
	}
	if rawLen != h.NX*h.NY*4 {
		return nil, fmt.Errorf("%w: payload length %d for %dx%d nodes", errs.ErrCorruptedGrid, rawLen, h.NX, h.NY)
	}
	if limit := maxExpansion(compression); limit > 0 && int64(rawLen) > int64(payloadLen)*limit+blobExpansionSlack {
		return nil, fmt.Errorf("%w: %d payload bytes cannot expand to %d with %s", errs.ErrCorruptedGrid, payloadLen, rawLen, compression)
	}

	payload := rest[titleLen:]
	var raw []byte
	if sized, ok := codec.(compress.SizedDecompressor); ok {
		raw, err = sized.DecompressSized(payload, rawLen)
	} else {
		raw, err = codec.Decompress(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCorruptedGrid, err)
	}
	if len(raw) != rawLen {
		return nil, fmt.Errorf("%w: decompressed %d bytes, want %d", errs.ErrCorruptedGrid, len(raw), rawLen)
	}
	if hash.Sum(raw) != checksum {
		return nil, errs.ErrChecksumMismatch
	}

	g, err := New(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCorruptedGrid, err)
	}
	for i := range g.Data {
		g.Data[i] = math.Float32frombits(engine.Uint32(raw[i*4:]))
	}
	g.UpdateRange()

	return g, nil
}
