package grid

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/arloliu/gridmask/endian"
	"github.com/arloliu/gridmask/errs"
	"github.com/arloliu/gridmask/format"
)

// Layout of the engine's native binary float grid header.
const (
	NativeHeaderSize = 892

	nativeUnitsLen   = 80
	nativeTitleLen   = 80
	nativeCommandLen = 320
	nativeRemarkLen  = 160

	// NativeSuffix asks the engine to write a native binary float grid.
	NativeSuffix = "=bf"

	geographicXUnits = "longitude [degrees_east]"
	geographicYUnits = "latitude [degrees_north]"
)

// ReadNative decodes a native binary float grid.
//
// The format is written in the producing host's byte order; both orders are accepted and
// detected from the registration field. Rows are stored north to south and are flipped so
// that row 0 of the result is the southern edge.
func ReadNative(r io.Reader) (*Grid, error) {
	raw := make([]byte, NativeHeaderSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("%w: native header: %v", errs.ErrCorruptedGrid, err)
	}

	engine := endian.GetNativeEngine()
	if !plausibleHeader(engine, raw) {
		engine = endian.Swap(engine)
	}

	nx := int32(engine.Uint32(raw[0:4]))
	ny := int32(engine.Uint32(raw[4:8]))
	reg := engine.Uint32(raw[8:12])
	if reg > 1 || nx <= 0 || ny <= 0 || nx >= maxNativeDim || ny >= maxNativeDim {
		return nil, fmt.Errorf("%w: native header nx=%d ny=%d registration=%d", errs.ErrCorruptedGrid, nx, ny, reg)
	}

	f64 := func(i int) float64 {
		off := 12 + i*8
		return math.Float64frombits(engine.Uint64(raw[off : off+8]))
	}

	scale, offset := f64(8), f64(9)
	if scale == 0 {
		scale = 1
	}

	strs := raw[92:]
	xUnits := cString(strs[0:nativeUnitsLen])
	title := cString(strs[3*nativeUnitsLen : 3*nativeUnitsLen+nativeTitleLen])
	remarkOff := 3*nativeUnitsLen + nativeTitleLen + nativeCommandLen
	remark := cString(strs[remarkOff : remarkOff+nativeRemarkLen])

	h := Header{
		West:         f64(0),
		East:         f64(1),
		South:        f64(2),
		North:        f64(3),
		ZMin:         f64(4),
		ZMax:         f64(5),
		XInc:         f64(6),
		YInc:         f64(7),
		NX:           int(nx),
		NY:           int(ny),
		Registration: format.Registration(reg),
		Title:        title,
		Remark:       remark,
	}
	if strings.HasPrefix(xUnits, "longitude") {
		h.GridType = format.GridGeographic
	}

	if int64(nx)*int64(ny) > MaxNodes {
		return nil, fmt.Errorf("%w: native header %dx%d nodes exceeds %d", errs.ErrCorruptedGrid, nx, ny, MaxNodes)
	}

	g, err := New(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrCorruptedGrid, err)
	}

	rowBytes := make([]byte, h.NX*4)
	for fileRow := 0; fileRow < h.NY; fileRow++ {
		if _, err := io.ReadFull(r, rowBytes); err != nil {
			return nil, fmt.Errorf("%w: native row %d: %v", errs.ErrCorruptedGrid, fileRow, err)
		}
		dst := g.Row(h.NY - 1 - fileRow)
		for col := range dst {
			v := math.Float32frombits(engine.Uint32(rowBytes[col*4:]))
			if scale != 1 || offset != 0 {
				v = float32(float64(v)*scale + offset)
			}
			dst[col] = v
		}
	}

	return g, nil
}

// WriteNative encodes g as a native binary float grid in the host byte order.
func WriteNative(w io.Writer, g *Grid) error {
	return writeNative(w, g, endian.GetNativeEngine())
}

func writeNative(w io.Writer, g *Grid, engine endian.EndianEngine) error {
	if err := g.checkShape(); err != nil {
		return err
	}

	h := g.Header

	buf := make([]byte, 0, NativeHeaderSize+h.NX*4)
	buf = engine.AppendUint32(buf, uint32(h.NX))
	buf = engine.AppendUint32(buf, uint32(h.NY))
	buf = engine.AppendUint32(buf, uint32(h.Registration))
	for _, f := range []float64{h.West, h.East, h.South, h.North, h.ZMin, h.ZMax, h.XInc, h.YInc, 1, 0} {
		buf = engine.AppendUint64(buf, math.Float64bits(f))
	}

	xUnits, yUnits := "x", "y"
	if h.GridType == format.GridGeographic {
		xUnits, yUnits = geographicXUnits, geographicYUnits
	}
	buf = appendCString(buf, xUnits, nativeUnitsLen)
	buf = appendCString(buf, yUnits, nativeUnitsLen)
	buf = appendCString(buf, "z", nativeUnitsLen)
	buf = appendCString(buf, h.Title, nativeTitleLen)
	buf = appendCString(buf, "", nativeCommandLen)
	buf = appendCString(buf, h.Remark, nativeRemarkLen)

	if _, err := w.Write(buf); err != nil {
		return err
	}

	for row := h.NY - 1; row >= 0; row-- {
		buf = buf[:0]
		for _, v := range g.Row(row) {
			buf = engine.AppendUint32(buf, math.Float32bits(v))
		}
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}

	return nil
}

// maxNativeDim bounds a plausible node count per axis when detecting byte order.
const maxNativeDim = 1 << 24

func plausibleHeader(engine endian.EndianEngine, raw []byte) bool {
	nx, ny, reg := engine.Uint32(raw[0:4]), engine.Uint32(raw[4:8]), engine.Uint32(raw[8:12])
	return reg <= 1 && nx > 0 && ny > 0 && nx < maxNativeDim && ny < maxNativeDim
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}

	return strings.TrimSpace(string(b))
}

func appendCString(buf []byte, s string, size int) []byte {
	if len(s) >= size {
		s = s[:size-1]
	}
	buf = append(buf, s...)

	return append(buf, make([]byte, size-len(s))...)
}
