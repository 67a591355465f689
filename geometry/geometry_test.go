package geometry

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/gridmask/errs"
)

func triangle() [][]float64 {
	return [][]float64{{125, 30}, {130, 30}, {130, 35}, {125, 30}}
}

func TestFromArray(t *testing.T) {
	t.Run("TwoColumns", func(t *testing.T) {
		tbl, err := FromArray(triangle())
		require.NoError(t, err)
		require.Len(t, tbl.Segments, 1)
		require.Equal(t, 4, tbl.NumPoints())
		require.Nil(t, tbl.Segments[0].Z)
		require.Equal(t, Point{X: 130, Y: 35}, tbl.Segments[0].Points[2])
	})

	t.Run("ConstantZ", func(t *testing.T) {
		tbl, err := FromArray([][]float64{{0, 0, 7}, {1, 0, 7}, {1, 1, 7}})
		require.NoError(t, err)
		require.NotNil(t, tbl.Segments[0].Z)
		require.Equal(t, 7.0, *tbl.Segments[0].Z)
	})

	t.Run("VaryingZ", func(t *testing.T) {
		tbl, err := FromArray([][]float64{{0, 0, 7}, {1, 0, 8}, {1, 1, 7}})
		require.NoError(t, err)
		require.Nil(t, tbl.Segments[0].Z)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := FromArray(nil)
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("OneColumn", func(t *testing.T) {
		_, err := FromArray([][]float64{{1, 2}, {3}})
		require.ErrorIs(t, err, errs.ErrInvalidInput)
		require.Contains(t, err.Error(), "row 1")
	})

	t.Run("NonFinite", func(t *testing.T) {
		_, err := FromArray([][]float64{{math.NaN(), 2}})
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}

func TestTable_Bounds(t *testing.T) {
	tbl, err := FromArray(triangle())
	require.NoError(t, err)

	w, e, s, n, ok := tbl.Bounds()
	require.True(t, ok)
	require.Equal(t, []float64{125, 130, 30, 35}, []float64{w, e, s, n})

	_, _, _, _, ok = Table{}.Bounds()
	require.False(t, ok)
}

func TestTable_Validate(t *testing.T) {
	require.ErrorIs(t, Table{}.Validate(), errs.ErrInvalidInput)
	require.ErrorIs(t, Table{Segments: []Segment{{}}}.Validate(), errs.ErrInvalidInput)

	tbl, _ := FromArray(triangle())
	require.NoError(t, tbl.Validate())
}

func TestTable_WriteRead(t *testing.T) {
	tbl := Table{Segments: []Segment{
		{Header: "lake", Z: ZValue(2.5), Points: []Point{{0, 0}, {1, 0}, {1, 1}}},
		{Points: []Point{{-0.5, 3}, {2, 3}, {2, 4.25}}},
	}}

	var buf bytes.Buffer
	n, err := tbl.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	require.True(t, strings.HasPrefix(buf.String(), "> lake -Z2.5\n0\t0\n"))

	got, err := ReadTable(&buf)
	require.NoError(t, err)
	require.Equal(t, tbl, got)
}

func TestReadTable(t *testing.T) {
	t.Run("ImplicitSegment", func(t *testing.T) {
		in := "# triangle\n125 30\n130,30\n130\t35 99\n\n125 30\n"
		tbl, err := ReadTable(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, tbl.Segments, 1)
		require.Equal(t, 4, tbl.NumPoints())
	})

	t.Run("MultipleSegments", func(t *testing.T) {
		in := "> -Z1 first\n0 0\n1 1\n>\n2 2\n"
		tbl, err := ReadTable(strings.NewReader(in))
		require.NoError(t, err)
		require.Len(t, tbl.Segments, 2)
		require.Equal(t, "first", tbl.Segments[0].Header)
		require.Equal(t, 1.0, *tbl.Segments[0].Z)
		require.Nil(t, tbl.Segments[1].Z)
	})

	t.Run("BadRow", func(t *testing.T) {
		_, err := ReadTable(strings.NewReader("1 2\nabc def\n"))
		require.ErrorIs(t, err, errs.ErrInvalidInput)
		require.Contains(t, err.Error(), "line 2")
	})

	t.Run("BadZ", func(t *testing.T) {
		_, err := ReadTable(strings.NewReader("> -Zfoo\n1 2\n"))
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})
}
