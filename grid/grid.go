// Package grid is the in-memory form of the rasters the engine produces.
//
// A Grid stores float32 node values row-major with row 0 at the southern edge, so
// At(row, col) addresses the node at (X()[col], Y()[row]) with both coordinate axes ascending.
//
// Two binary encodings are supported:
//   - the engine's native float grid (ReadNative / WriteNative), used to read module output;
//   - a compact, compressed, checksummed blob (Marshal / Unmarshal), used by result caches.
package grid

import (
	"fmt"
	"math"

	"github.com/arloliu/gridmask/errs"
	"github.com/arloliu/gridmask/format"
)

// MaxNodes bounds the node count of any grid, 1 GiB of float32 values.
const MaxNodes = 1 << 28

// Header describes the lattice of a grid.
type Header struct {
	West, East   float64
	South, North float64
	XInc, YInc   float64

	NX, NY int

	Registration format.Registration
	GridType     format.GridType

	ZMin, ZMax float64

	Title  string
	Remark string
}

// NodeCount returns the number of nodes along an axis spanning [lo, hi] at spacing inc.
func NodeCount(lo, hi, inc float64, reg format.Registration) int {
	if inc <= 0 || hi < lo {
		return 0
	}

	n := int(math.Round((hi - lo) / inc))
	if reg == format.RegistrationGridline {
		n++
	}

	return n
}

// NewHeader returns a header for the given region and increments with NX and NY derived
// from the registration.
func NewHeader(west, east, south, north, xinc, yinc float64, reg format.Registration) Header {
	return Header{
		West:         west,
		East:         east,
		South:        south,
		North:        north,
		XInc:         xinc,
		YInc:         yinc,
		NX:           NodeCount(west, east, xinc, reg),
		NY:           NodeCount(south, north, yinc, reg),
		Registration: reg,
		ZMin:         math.NaN(),
		ZMax:         math.NaN(),
	}
}

// Validate checks the header for a usable lattice.
func (h Header) Validate() error {
	if h.NX <= 0 || h.NY <= 0 {
		return fmt.Errorf("%w: %dx%d nodes", errs.ErrInvalidGridShape, h.NX, h.NY)
	}
	if h.NX > MaxNodes || h.NY > MaxNodes || int64(h.NX)*int64(h.NY) > MaxNodes {
		return fmt.Errorf("%w: %dx%d nodes exceeds %d", errs.ErrInvalidGridShape, h.NX, h.NY, MaxNodes)
	}
	if !(h.XInc > 0) || !(h.YInc > 0) {
		return fmt.Errorf("%w: increments %g/%g must be positive", errs.ErrInvalidGridShape, h.XInc, h.YInc)
	}
	if h.East < h.West || h.North < h.South {
		return fmt.Errorf("%w: region %g/%g/%g/%g", errs.ErrInvalidGridShape, h.West, h.East, h.South, h.North)
	}

	return nil
}

// Grid is a 2D raster of float32 node values.
type Grid struct {
	Header Header
	// Data holds NY rows of NX values, south to north.
	Data []float32
}

// New allocates a zero-filled grid for h.
func New(h Header) (*Grid, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	return &Grid{Header: h, Data: make([]float32, h.NX*h.NY)}, nil
}

// Shape returns the number of rows and columns, in that order.
func (g *Grid) Shape() (rows, cols int) {
	return g.Header.NY, g.Header.NX
}

// At returns the value at row (from the south) and col (from the west).
func (g *Grid) At(row, col int) float32 {
	return g.Data[row*g.Header.NX+col]
}

// Set stores v at row and col.
func (g *Grid) Set(row, col int, v float32) {
	g.Data[row*g.Header.NX+col] = v
}

// X returns the node x coordinates in ascending order.
func (g *Grid) X() []float64 {
	return axis(g.Header.West, g.Header.XInc, g.Header.NX, g.Header.Registration)
}

// Y returns the node y coordinates in ascending order.
func (g *Grid) Y() []float64 {
	return axis(g.Header.South, g.Header.YInc, g.Header.NY, g.Header.Registration)
}

// Row returns a view of one row. The slice aliases the grid data.
func (g *Grid) Row(row int) []float32 {
	nx := g.Header.NX
	return g.Data[row*nx : (row+1)*nx]
}

// UpdateRange recomputes ZMin and ZMax, ignoring NaN nodes. Both are NaN when every node is NaN.
func (g *Grid) UpdateRange() {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range g.Data {
		f := float64(v)
		if math.IsNaN(f) {
			continue
		}
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}
	if math.IsInf(lo, 1) {
		lo, hi = math.NaN(), math.NaN()
	}
	g.Header.ZMin, g.Header.ZMax = lo, hi
}

// Count returns how many nodes hold exactly v. NaN counts NaN nodes.
func (g *Grid) Count(v float32) int {
	n := 0
	isNaN := math.IsNaN(float64(v))
	for _, d := range g.Data {
		if d == v || (isNaN && math.IsNaN(float64(d))) {
			n++
		}
	}

	return n
}

func (g *Grid) checkShape() error {
	if err := g.Header.Validate(); err != nil {
		return err
	}
	if len(g.Data) != g.Header.NX*g.Header.NY {
		return fmt.Errorf("%w: %d values for %dx%d nodes", errs.ErrInvalidGridShape, len(g.Data), g.Header.NX, g.Header.NY)
	}

	return nil
}

func axis(origin, inc float64, n int, reg format.Registration) []float64 {
	offset := 0.0
	if reg == format.RegistrationPixel {
		offset = 0.5
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = origin + (float64(i)+offset)*inc
	}

	return out
}
