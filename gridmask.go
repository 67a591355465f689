// Package gridmask creates mask grids from polygons or point coverage.
//
// A mask grid assigns every node of a regular grid one of three values depending on where
// the node falls relative to the input geometry: outside every polygon, on a polygon edge, or
// inside a polygon. With a search radius the polygons are replaced by circles around each data
// point. The gridding itself is done by the GMT grdmask module; this package marshals the
// geometry and parameters, runs the module through an engine.Session and decodes the result.
//
// The mask values are set with WithMaskValues. Besides plain numbers and NaN, the edge and
// inside values may take the polygon's Z value (mask.UseZValue) or its running ID
// (mask.UseRunningID):
//
//	g, err := gridmask.Grdmask(ctx, table,
//	    gridmask.WithRegion(125, 130, 30, 35),
//	    gridmask.WithSpacing(1),
//	    gridmask.WithMaskValues(mask.NaN(), mask.UseRunningID, mask.UseRunningID),
//	)
package gridmask

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/arloliu/gridmask/alias"
	"github.com/arloliu/gridmask/cache"
	"github.com/arloliu/gridmask/engine"
	"github.com/arloliu/gridmask/errs"
	"github.com/arloliu/gridmask/geometry"
	"github.com/arloliu/gridmask/grid"
	"github.com/arloliu/gridmask/internal/options"
)

// ModuleName is the engine module invoked by Grdmask.
const ModuleName = "grdmask"

// outgridOption is bound to the output path and is never accepted through WithExtra.
const outgridOption = "G"

// Grdmask builds a mask grid from data.
//
// data is either a geometry.Table (polygons or points held in memory) or geometry.Files
// naming tables on disk. Region and spacing are required.
//
// Parameters:
//   - ctx: Cancels the module call
//   - data: Input geometry
//   - opts: Gridding, mask-value and runtime options
//
// Returns:
//   - *grid.Grid: The mask grid, or nil when WithOutgrid was given
//   - error: errs.ErrMissingParameter without region or spacing, errs.ErrInvalidCombination
//     for mask values the engine cannot express, errs.ErrEngineFailed when the module fails
//
// Example:
//
//	table, _ := geometry.FromArray([][]float64{{125, 30}, {130, 30}, {130, 35}, {125, 30}})
//	g, err := gridmask.Grdmask(ctx, table,
//	    gridmask.WithRegion(125, 130, 30, 35),
//	    gridmask.WithSpacing(1),
//	    gridmask.WithMaskValues(mask.Number(0), mask.Number(0), mask.Number(1)),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(g.Shape()) // 6 6
func Grdmask(ctx context.Context, data geometry.Source, opts ...Option) (*grid.Grid, error) {
	cfg := newMaskConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("%w: no input data", errs.ErrInvalidInput)
	}
	if cfg.spacing == nil || cfg.region == nil {
		return nil, fmt.Errorf("%w: required parameters: region, spacing", errs.ErrMissingParameter)
	}

	sys, err := cfg.aliases()
	if err != nil {
		return nil, err
	}

	logger := cfg.logger.With("module", ModuleName)
	if t, ok := data.(geometry.Table); ok {
		if w, e, s, n, ok := t.Bounds(); ok {
			logger.Debug("input extent", "west", w, "east", e, "south", s, "north", n, "points", t.NumPoints())
		}
	}

	// Session paths are random, so the key covers the bound options and the input content.
	var key uint64
	useCache := cfg.cache != nil && cfg.outgrid == ""
	if useCache {
		payload, err := sourcePayload(data)
		if err != nil {
			return nil, err
		}
		key = cache.Key(ModuleName, sys.Args(), payload)

		g, hit, err := cfg.cache.Get(key)
		if err != nil {
			logger.Warn("cache lookup failed", "key", fmt.Sprintf("%016x", key), "error", err)
		}
		cfg.metrics.RecordCacheLookup(hit)
		if hit {
			logger.Debug("cache hit", "key", fmt.Sprintf("%016x", key))
			return g, nil
		}
	}

	sess := cfg.session
	if sess == nil {
		sessOpts := []engine.SessionOption{
			engine.WithWorkDir(cfg.workDir),
			engine.WithLogger(cfg.logger),
		}
		if cfg.runner != nil {
			sessOpts = append(sessOpts, engine.WithRunner(cfg.runner))
		}
		sess, err = engine.NewSession(sessOpts...)
		if err != nil {
			return nil, err
		}
		defer func() {
			if cerr := sess.Close(); cerr != nil {
				logger.Warn("close session", "error", cerr)
			}
		}()
	}

	infiles, err := sess.VirtualFileIn(data)
	if err != nil {
		return nil, err
	}
	vout, err := sess.VirtualFileOut(cfg.outgrid)
	if err != nil {
		return nil, err
	}
	sys.SetRaw(outgridOption, vout)

	start := time.Now()
	err = sess.CallModule(ctx, ModuleName, sys.Args(infiles...))
	cfg.metrics.RecordModuleCall(ModuleName, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	g, err := sess.VirtualFileToRaster(vout, cfg.outgrid)
	if err != nil {
		return nil, err
	}
	if g == nil {
		logger.Info("mask grid written", "outgrid", cfg.outgrid)
		return nil, nil
	}

	rows, cols := g.Shape()
	cfg.metrics.RecordGrid(ModuleName, rows*cols)
	logger.Debug("mask grid decoded", "rows", rows, "cols", cols, "elapsed", time.Since(start))

	if useCache {
		if err := cfg.cache.Put(key, g); err != nil {
			logger.Warn("cache store failed", "key", fmt.Sprintf("%016x", key), "error", err)
		}
	}

	return g, nil
}

// aliases binds the configured parameters to their engine options.
func (c *maskConfig) aliases() (*alias.System, error) {
	sys := alias.New()

	if err := sys.Set("I", alias.Alias{Name: "spacing", Value: c.spacing, Sep: "/", Size: 2}); err != nil {
		return nil, err
	}
	if c.maskValues != nil {
		tok, err := c.maskValues.Encode()
		if err != nil {
			return nil, err
		}
		sys.SetToken("maskvalues", tok)
	}
	if err := sys.Set("S", alias.Alias{Name: "search_radius", Value: c.searchRadius}); err != nil {
		return nil, err
	}
	if err := sys.Set("r", alias.Alias{Name: "registration", Value: c.pixel}); err != nil {
		return nil, err
	}
	if err := sys.AddCommon(c.region, c.verbose); err != nil {
		return nil, err
	}

	if _, ok := c.extra[outgridOption]; ok {
		return nil, fmt.Errorf("%w: option -%s is set by WithOutgrid", errs.ErrConflictingParameter, outgridOption)
	}
	if err := sys.Merge(c.extra); err != nil {
		return nil, err
	}

	return sys, nil
}

// sourcePayload returns the bytes that identify src for caching.
func sourcePayload(src geometry.Source) ([]byte, error) {
	var buf bytes.Buffer

	switch v := src.(type) {
	case geometry.Table:
		if _, err := v.WriteTo(&buf); err != nil {
			return nil, err
		}
	case geometry.Files:
		for _, name := range v {
			b, err := os.ReadFile(name)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return nil, fmt.Errorf("%w: input file %q does not exist", errs.ErrInvalidInput, name)
				}

				return nil, fmt.Errorf("read input %q: %w", name, err)
			}
			buf.WriteString(name)
			buf.WriteByte(0)
			buf.Write(b)
			buf.WriteByte(0)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported source %T", errs.ErrInvalidInput, src)
	}

	return buf.Bytes(), nil
}
