package gridmask

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/gridmask/cache"
	"github.com/arloliu/gridmask/engine"
	"github.com/arloliu/gridmask/errs"
	"github.com/arloliu/gridmask/format"
	"github.com/arloliu/gridmask/geometry"
	"github.com/arloliu/gridmask/grid"
	"github.com/arloliu/gridmask/mask"
	"github.com/arloliu/gridmask/metrics"
)

// triangleMask is the mask of the triangle (125,30)-(130,30)-(130,35) over
// 125/130/30/35 at 1 degree spacing, rows south to north.
var triangleMask = [][]float32{
	{0, 0, 0, 0, 0, 0},
	{0, 0, 1, 1, 1, 0},
	{0, 0, 0, 1, 1, 0},
	{0, 0, 0, 0, 1, 0},
	{0, 0, 0, 0, 0, 0},
	{0, 0, 0, 0, 0, 0},
}

func triangleTable(t *testing.T) geometry.Table {
	t.Helper()

	tbl, err := geometry.FromArray([][]float64{{125, 30}, {130, 30}, {130, 35}, {125, 30}})
	require.NoError(t, err)

	return tbl
}

// fakeGrdmask records each call and writes triangleMask to the -G target.
type fakeGrdmask struct {
	calls [][]string
	err   error
}

func (f *fakeGrdmask) Run(_ context.Context, module string, args []string) error {
	f.calls = append(f.calls, append([]string{module}, args...))
	if f.err != nil {
		return f.err
	}

	var out string
	for _, a := range args {
		if strings.HasPrefix(a, "-G") {
			out = strings.TrimSuffix(a[2:], grid.NativeSuffix)
		}
	}
	if out == "" {
		return errors.New("no -G argument")
	}

	g, err := grid.New(grid.NewHeader(125, 130, 30, 35, 1, 1, format.RegistrationGridline))
	if err != nil {
		return err
	}
	for row, vals := range triangleMask {
		copy(g.Row(row), vals)
	}
	g.UpdateRange()

	var buf bytes.Buffer
	if err := grid.WriteNative(&buf, g); err != nil {
		return err
	}

	return os.WriteFile(out, buf.Bytes(), 0o600)
}

// optionArgs returns the recorded arguments that start with "-", minus the output path.
func optionArgs(call []string) []string {
	var opts []string
	for _, a := range call[1:] {
		if strings.HasPrefix(a, "-") && !strings.HasPrefix(a, "-G") {
			opts = append(opts, a)
		}
	}

	return opts
}

func TestGrdmask_Triangle(t *testing.T) {
	runner := &fakeGrdmask{}

	g, err := Grdmask(context.Background(), triangleTable(t),
		WithRegion(125, 130, 30, 35),
		WithSpacing(1),
		WithRunner(runner),
		WithWorkDir(t.TempDir()),
	)
	require.NoError(t, err)
	require.NotNil(t, g)

	rows, cols := g.Shape()
	assert.Equal(t, 6, rows)
	assert.Equal(t, 6, cols)
	assert.Equal(t, []float64{125, 126, 127, 128, 129, 130}, g.X())
	assert.Equal(t, []float64{30, 31, 32, 33, 34, 35}, g.Y())
	for row, vals := range triangleMask {
		assert.Equal(t, vals, g.Row(row), "row %d", row)
	}
	assert.Equal(t, format.RegistrationGridline, g.Header.Registration)
	assert.Equal(t, format.GridCartesian, g.Header.GridType)
	assert.InDelta(t, 0, g.Header.ZMin, 0)
	assert.InDelta(t, 1, g.Header.ZMax, 0)

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, ModuleName, call[0])
	assert.True(t, strings.HasSuffix(call[1], ".txt"), "input table first, got %q", call[1])
	assert.Equal(t, []string{"-I1", "-R125/130/30/35"}, optionArgs(call))
}

func TestGrdmask_Outgrid(t *testing.T) {
	runner := &fakeGrdmask{}
	outgrid := filepath.Join(t.TempDir(), "mask.grd")

	g, err := Grdmask(context.Background(), triangleTable(t),
		WithRegion(125, 130, 30, 35),
		WithSpacing(1),
		WithOutgrid(outgrid),
		WithRunner(runner),
		WithWorkDir(t.TempDir()),
	)
	require.NoError(t, err)
	require.Nil(t, g)
	require.FileExists(t, outgrid)
	require.Contains(t, runner.calls[0], "-G"+outgrid)

	f, err := os.Open(outgrid)
	require.NoError(t, err)
	defer f.Close()
	written, err := grid.ReadNative(f)
	require.NoError(t, err)
	assert.Equal(t, triangleMask[1], written.Row(1))
}

func TestGrdmask_Arguments(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		expected []string
	}{
		{
			name:     "MaskValues",
			opts:     []Option{WithMaskValues(mask.NaN(), mask.Number(1), mask.Number(1))},
			expected: []string{"-I1", "-NNaN/1/1", "-R125/130/30/35"},
		},
		{
			name:     "RunningID",
			opts:     []Option{WithMaskValues(mask.NaN(), mask.UseRunningID, mask.UseRunningID)},
			expected: []string{"-I1", "-NP/NaN", "-R125/130/30/35"},
		},
		{
			name:     "ZValueZeroOutside",
			opts:     []Option{WithMaskSetting(mask.Setting{Outside: mask.Number(0), Edge: mask.Number(0), Inside: mask.UseZValue})},
			expected: []string{"-I1", "-Nz", "-R125/130/30/35"},
		},
		{
			name:     "DefaultsStillEncoded",
			opts:     []Option{WithMaskSetting(mask.DefaultSetting())},
			expected: []string{"-I1", "-N0/0/1", "-R125/130/30/35"},
		},
		{
			name:     "SearchRadiusPixelVerbose",
			opts:     []Option{WithSearchRadius("5k"), WithPixelRegistration(), WithVerbose(format.VerboseDebug)},
			expected: []string{"-I1", "-R125/130/30/35", "-S5k", "-Vd", "-r"},
		},
		{
			name:     "Extra",
			opts:     []Option{WithExtra("f", "g")},
			expected: []string{"-I1", "-R125/130/30/35", "-fg"},
		},
		{
			name:     "TwoSpacings",
			opts:     []Option{WithSpacing(1, 0.5)},
			expected: []string{"-I1/0.5", "-R125/130/30/35"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeGrdmask{}
			opts := append([]Option{
				WithRegion(125, 130, 30, 35),
				WithSpacing(1),
				WithRunner(runner),
				WithWorkDir(t.TempDir()),
			}, tt.opts...)

			_, err := Grdmask(context.Background(), triangleTable(t), opts...)
			require.NoError(t, err)
			require.Len(t, runner.calls, 1)
			assert.Equal(t, tt.expected, optionArgs(runner.calls[0]))
		})
	}
}

func TestGrdmask_StringRegionAndSpacing(t *testing.T) {
	runner := &fakeGrdmask{}

	_, err := Grdmask(context.Background(), triangleTable(t),
		WithRegionString("125/130/30/35"),
		WithSpacingString("60m"),
		WithRunner(runner),
		WithWorkDir(t.TempDir()),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"-I60m", "-R125/130/30/35"}, optionArgs(runner.calls[0]))
}

func TestGrdmask_Files(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "triangle.txt")
	require.NoError(t, os.WriteFile(path, []byte("125 30\n130 30\n130 35\n125 30\n"), 0o600))

	runner := &fakeGrdmask{}
	g, err := Grdmask(context.Background(), geometry.Files{path},
		WithRegion(125, 130, 30, 35),
		WithSpacing(1),
		WithRunner(runner),
		WithWorkDir(dir),
	)
	require.NoError(t, err)
	require.NotNil(t, g)
	assert.Equal(t, path, runner.calls[0][1])
}

func TestGrdmask_Errors(t *testing.T) {
	table := triangleTable(t)

	t.Run("MissingRegionAndSpacing", func(t *testing.T) {
		runner := &fakeGrdmask{}
		_, err := Grdmask(context.Background(), table, WithRunner(runner))
		require.ErrorIs(t, err, errs.ErrMissingParameter)
		assert.Contains(t, err.Error(), "region")
		assert.Contains(t, err.Error(), "spacing")
		assert.Empty(t, runner.calls)
	})

	t.Run("MissingSpacing", func(t *testing.T) {
		_, err := Grdmask(context.Background(), table, WithRegion(125, 130, 30, 35))
		require.ErrorIs(t, err, errs.ErrMissingParameter)
	})

	t.Run("MissingRegion", func(t *testing.T) {
		_, err := Grdmask(context.Background(), table, WithSpacing(1))
		require.ErrorIs(t, err, errs.ErrMissingParameter)
	})

	t.Run("InvalidCombination", func(t *testing.T) {
		runner := &fakeGrdmask{}
		_, err := Grdmask(context.Background(), table,
			WithRegion(125, 130, 30, 35),
			WithSpacing(1),
			WithMaskValues(mask.Number(0), mask.UseZValue, mask.UseRunningID),
			WithRunner(runner),
		)
		require.ErrorIs(t, err, errs.ErrInvalidCombination)
		assert.Empty(t, runner.calls)
	})

	t.Run("ExtraOutgrid", func(t *testing.T) {
		_, err := Grdmask(context.Background(), table,
			WithRegion(125, 130, 30, 35),
			WithSpacing(1),
			WithExtra("G", "x.grd"),
		)
		require.ErrorIs(t, err, errs.ErrConflictingParameter)
	})

	t.Run("ExtraConflict", func(t *testing.T) {
		_, err := Grdmask(context.Background(), table,
			WithRegion(125, 130, 30, 35),
			WithSpacing(1),
			WithExtra("I", "2"),
		)
		require.ErrorIs(t, err, errs.ErrConflictingParameter)
	})

	t.Run("InvalidSpacing", func(t *testing.T) {
		_, err := Grdmask(context.Background(), table, WithSpacing(1, 2, 3))
		require.ErrorIs(t, err, errs.ErrInvalidParameter)

		_, err = Grdmask(context.Background(), table, WithSpacing(-1))
		require.ErrorIs(t, err, errs.ErrInvalidParameter)
	})

	t.Run("EmptyRegion", func(t *testing.T) {
		_, err := Grdmask(context.Background(), table, WithRegion(130, 125, 30, 35))
		require.ErrorIs(t, err, errs.ErrInvalidParameter)
	})

	t.Run("NilData", func(t *testing.T) {
		_, err := Grdmask(context.Background(), nil, WithRegion(125, 130, 30, 35), WithSpacing(1))
		require.ErrorIs(t, err, errs.ErrInvalidInput)
	})

	t.Run("EngineFailure", func(t *testing.T) {
		runner := &fakeGrdmask{err: errs.ErrEngineFailed}
		_, err := Grdmask(context.Background(), table,
			WithRegion(125, 130, 30, 35),
			WithSpacing(1),
			WithRunner(runner),
			WithWorkDir(t.TempDir()),
		)
		require.ErrorIs(t, err, errs.ErrEngineFailed)
	})
}

func TestGrdmask_Cache(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)
	c := cache.NewMemoryCache(4, format.CompressionZstd)
	runner := &fakeGrdmask{}

	call := func(opts ...Option) *grid.Grid {
		t.Helper()
		base := []Option{
			WithRegion(125, 130, 30, 35),
			WithSpacing(1),
			WithRunner(runner),
			WithWorkDir(t.TempDir()),
			WithCache(c),
			WithMetrics(m),
		}
		g, err := Grdmask(context.Background(), triangleTable(t), append(base, opts...)...)
		require.NoError(t, err)
		require.NotNil(t, g)

		return g
	}

	first := call()
	second := call()
	require.Len(t, runner.calls, 1, "second call is served from the cache")
	assert.Equal(t, first.Data, second.Data)
	assert.Equal(t, 1, c.Len())

	call(WithMaskValues(mask.NaN(), mask.Number(1), mask.Number(1)))
	require.Len(t, runner.calls, 2, "different mask values miss the cache")

	expected := `
# HELP gridmask_cache_lookups_total Total number of result cache lookups
# TYPE gridmask_cache_lookups_total counter
gridmask_cache_lookups_total{result="hit"} 1
gridmask_cache_lookups_total{result="miss"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "gridmask_cache_lookups_total"))

	expected = `
# HELP gridmask_module_calls_total Total number of engine module calls
# TYPE gridmask_module_calls_total counter
gridmask_module_calls_total{module="grdmask",result="success"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "gridmask_module_calls_total"))
}

func TestGrdmask_SharedSession(t *testing.T) {
	runner := &fakeGrdmask{}
	sess, err := engine.NewSession(engine.WithRunner(runner), engine.WithWorkDir(t.TempDir()))
	require.NoError(t, err)
	defer sess.Close()

	for i := 0; i < 2; i++ {
		g, err := Grdmask(context.Background(), triangleTable(t),
			WithRegion(125, 130, 30, 35),
			WithSpacing(1),
			WithSession(sess),
		)
		require.NoError(t, err)
		require.NotNil(t, g)
	}
	require.Len(t, runner.calls, 2)
	require.DirExists(t, sess.Dir(), "caller-owned session stays open")
}

func TestGrdmask_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Grdmask(context.Background(), triangleTable(t),
		WithRegion(125, 130, 30, 35),
		WithSpacing(1),
		WithRunner(&fakeGrdmask{}),
		WithWorkDir(t.TempDir()),
		WithLogger(logger),
	)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "module=grdmask")
	assert.Contains(t, buf.String(), "mask grid decoded")
}

func TestGrdmask_NaNMaskDecoded(t *testing.T) {
	runner := engine.RunnerFunc(func(_ context.Context, _ string, args []string) error {
		var out string
		for _, a := range args {
			if strings.HasPrefix(a, "-G") {
				out = strings.TrimSuffix(a[2:], grid.NativeSuffix)
			}
		}
		g, err := grid.New(grid.NewHeader(0, 1, 0, 1, 1, 1, format.RegistrationGridline))
		if err != nil {
			return err
		}
		g.Data = []float32{float32(math.NaN()), 1, 1, float32(math.NaN())}
		g.UpdateRange()

		var buf bytes.Buffer
		if err := grid.WriteNative(&buf, g); err != nil {
			return err
		}

		return os.WriteFile(out, buf.Bytes(), 0o600)
	})

	g, err := Grdmask(context.Background(), triangleTable(t),
		WithRegion(0, 1, 0, 1),
		WithSpacing(1),
		WithMaskValues(mask.NaN(), mask.Number(1), mask.Number(1)),
		WithRunner(runner),
		WithWorkDir(t.TempDir()),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Count(1))
	assert.True(t, math.IsNaN(float64(g.At(0, 0))))
}

// brokenCache fails every lookup the way a DirCache does on a corrupt entry.
type brokenCache struct {
	puts int
}

func (c *brokenCache) Get(uint64) (*grid.Grid, bool, error) {
	return nil, false, errs.ErrCorruptedGrid
}

func (c *brokenCache) Put(uint64, *grid.Grid) error {
	c.puts++
	return nil
}

func TestGrdmask_CorruptCacheEntryFallsThrough(t *testing.T) {
	runner := &fakeGrdmask{}
	c := &brokenCache{}

	g, err := Grdmask(context.Background(), triangleTable(t),
		WithRegion(125, 130, 30, 35),
		WithSpacing(1),
		WithRunner(runner),
		WithWorkDir(t.TempDir()),
		WithCache(c),
	)
	require.NoError(t, err)
	require.NotNil(t, g)
	require.Len(t, runner.calls, 1)
	require.Equal(t, 1, c.puts)
}
