// Package geometry holds the input data for mask generation: polygons or point coverage
// as multi-segment tables, or names of files the engine reads directly.
package geometry

import (
	"fmt"
	"math"

	"github.com/arloliu/gridmask/errs"
)

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Segment is one polygon (or point group) in a multi-segment table.
type Segment struct {
	// Header is the free text following '>' in the segment header, without the -Z field.
	Header string
	// Z is the value used when the inside or edge bucket selects UseZValue. Nil when unset.
	Z *float64
	// Points are the vertices. Closing the ring is optional.
	Points []Point
}

// Table is an ordered list of segments. The running ID of a polygon is its 1-based index.
type Table struct {
	Segments []Segment
}

// Source is input data the engine session can expose as a virtual file.
// It is implemented by Table and Files.
type Source interface {
	isSource()
}

// Files is a list of input file names passed to the engine unchanged.
type Files []string

func (Files) isSource() {}
func (Table) isSource() {}

// ZValue returns a pointer to v for use as Segment.Z.
func ZValue(v float64) *float64 {
	return &v
}

// FromArray builds a single-segment table from rows of x, y and an optional z column.
//
// When a third column is present and constant it becomes the segment's Z value.
// Rows with fewer than two columns, or with non-finite coordinates, are rejected with
// errs.ErrInvalidInput.
func FromArray(rows [][]float64) (Table, error) {
	if len(rows) == 0 {
		return Table{}, fmt.Errorf("%w: no rows", errs.ErrInvalidInput)
	}

	seg := Segment{Points: make([]Point, 0, len(rows))}
	constZ := len(rows[0]) >= 3
	for i, row := range rows {
		if len(row) < 2 {
			return Table{}, fmt.Errorf("%w: row %d has %d columns, need at least 2", errs.ErrInvalidInput, i, len(row))
		}
		if !finite(row[0]) || !finite(row[1]) {
			return Table{}, fmt.Errorf("%w: row %d has non-finite coordinates", errs.ErrInvalidInput, i)
		}
		seg.Points = append(seg.Points, Point{X: row[0], Y: row[1]})
		if constZ && (len(row) < 3 || row[2] != rows[0][2]) {
			constZ = false
		}
	}
	if constZ {
		seg.Z = ZValue(rows[0][2])
	}

	return Table{Segments: []Segment{seg}}, nil
}

// NumPoints returns the total number of vertices in t.
func (t Table) NumPoints() int {
	n := 0
	for _, s := range t.Segments {
		n += len(s.Points)
	}

	return n
}

// Bounds returns the bounding box of all points as west, east, south, north.
// ok is false for an empty table.
func (t Table) Bounds() (west, east, south, north float64, ok bool) {
	west, south = math.Inf(1), math.Inf(1)
	east, north = math.Inf(-1), math.Inf(-1)
	for _, s := range t.Segments {
		for _, p := range s.Points {
			west = math.Min(west, p.X)
			east = math.Max(east, p.X)
			south = math.Min(south, p.Y)
			north = math.Max(north, p.Y)
			ok = true
		}
	}

	return west, east, south, north, ok
}

// Validate checks that t has at least one segment and every segment has points.
func (t Table) Validate() error {
	if len(t.Segments) == 0 {
		return fmt.Errorf("%w: table has no segments", errs.ErrInvalidInput)
	}
	for i, s := range t.Segments {
		if len(s.Points) == 0 {
			return fmt.Errorf("%w: segment %d has no points", errs.ErrInvalidInput, i+1)
		}
	}

	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
