package geometry

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arloliu/gridmask/errs"
)

const (
	segmentMarker = '>'
	commentMarker = '#'
)

// WriteTo writes t as a multi-segment ASCII table. Every segment starts with a '>' header
// line; a segment Z value is written as "-Z<value>".
func (t Table) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, s := range t.Segments {
		header := ">"
		if s.Header != "" {
			header += " " + s.Header
		}
		if s.Z != nil {
			header += " -Z" + formatCoord(*s.Z)
		}

		m, err := bw.WriteString(header + "\n")
		n += int64(m)
		if err != nil {
			return n, err
		}

		for _, p := range s.Points {
			m, err := bw.WriteString(formatCoord(p.X) + "\t" + formatCoord(p.Y) + "\n")
			n += int64(m)
			if err != nil {
				return n, err
			}
		}
	}

	return n, bw.Flush()
}

// ReadTable parses a multi-segment ASCII table.
//
// Columns may be separated by whitespace or commas; only the first two are read. Lines
// starting with '#' are skipped. Data before the first '>' header forms an implicit
// first segment. A "-Z<value>" token in a header sets the segment's Z value.
func ReadTable(r io.Reader) (Table, error) {
	var (
		t       Table
		cur     *Segment
		lineNum int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNum++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == commentMarker {
			continue
		}

		if line[0] == segmentMarker {
			seg, err := parseHeader(line[1:])
			if err != nil {
				return Table{}, fmt.Errorf("line %d: %w", lineNum, err)
			}
			t.Segments = append(t.Segments, seg)
			cur = &t.Segments[len(t.Segments)-1]

			continue
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ' ' || r == '\t' || r == ','
		})
		if len(fields) < 2 {
			return Table{}, fmt.Errorf("%w: line %d has %d columns, need at least 2", errs.ErrInvalidInput, lineNum, len(fields))
		}
		x, errX := strconv.ParseFloat(fields[0], 64)
		y, errY := strconv.ParseFloat(fields[1], 64)
		if errX != nil || errY != nil {
			return Table{}, fmt.Errorf("%w: line %d: cannot parse %q", errs.ErrInvalidInput, lineNum, line)
		}

		if cur == nil {
			t.Segments = append(t.Segments, Segment{})
			cur = &t.Segments[0]
		}
		cur.Points = append(cur.Points, Point{X: x, Y: y})
	}
	if err := sc.Err(); err != nil {
		return Table{}, err
	}

	return t, nil
}

func parseHeader(s string) (Segment, error) {
	var (
		seg  Segment
		rest []string
	)
	for _, tok := range strings.Fields(s) {
		if strings.HasPrefix(tok, "-Z") && len(tok) > 2 {
			z, err := strconv.ParseFloat(tok[2:], 64)
			if err != nil {
				return Segment{}, fmt.Errorf("%w: bad segment Z value %q", errs.ErrInvalidInput, tok)
			}
			seg.Z = ZValue(z)

			continue
		}
		rest = append(rest, tok)
	}
	seg.Header = strings.Join(rest, " ")

	return seg, nil
}

func formatCoord(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
