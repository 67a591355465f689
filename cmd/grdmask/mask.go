package main

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/arloliu/gridmask"
	"github.com/arloliu/gridmask/format"
	"github.com/arloliu/gridmask/geometry"
	"github.com/arloliu/gridmask/grid"
	"github.com/arloliu/gridmask/mask"
	"github.com/arloliu/gridmask/metrics"
)

var maskFlags struct {
	region       string
	spacing      string
	outgrid      string
	token        string
	outside      string
	edge         string
	inside       string
	searchRadius string
	pixel        bool
	verbose      string
	extra        map[string]string
	xyz          bool
	metrics      bool
}

var maskCmd = &cobra.Command{
	Use:   "mask [TABLE...]",
	Short: "Create a mask grid from polygon or point tables",
	Long: `Create a mask grid from one or more multi-segment tables. Without TABLE arguments
the table is read from stdin.

Mask values are numbers, NaN, z (polygon Z value from the -Z segment header) or id
(running polygon ID). Set them individually with --outside, --edge and --inside, or all at
once with a raw -N token through --mask.

Examples:
  # 0 outside, 1 inside and on edges
  grdmask mask -R 125/130/30/35 -I 1 polygons.txt

  # Label each polygon with its Z value, NaN elsewhere
  grdmask mask -R 0/10/0/10 -I 0.1 --mask Z/NaN -G zones.grd zones.txt

  # Points within 5 km count as inside
  grdmask mask -R g -I 1m --search-radius 5k -G coverage.grd points.txt`,
	RunE: runMask,
}

func init() {
	rootCmd.AddCommand(maskCmd)

	f := maskCmd.Flags()
	f.StringVarP(&maskFlags.region, "region", "R", "", "grid region: west/east/south/north or an engine region code")
	f.StringVarP(&maskFlags.spacing, "spacing", "I", "", "grid spacing: inc or xinc/yinc")
	f.StringVarP(&maskFlags.outgrid, "outgrid", "G", "", "write the grid to this file instead of stdout")
	f.StringVar(&maskFlags.token, "mask", "", "raw -N token, e.g. NaN/1/1 or P/NaN")
	f.StringVar(&maskFlags.outside, "outside", "", "value for nodes outside all polygons")
	f.StringVar(&maskFlags.edge, "edge", "", "value for nodes on a polygon edge")
	f.StringVar(&maskFlags.inside, "inside", "", "value for nodes inside a polygon")
	f.StringVarP(&maskFlags.searchRadius, "search-radius", "S", "", "point coverage radius, e.g. 5k")
	f.BoolVarP(&maskFlags.pixel, "pixel", "r", false, "pixel registration")
	f.StringVarP(&maskFlags.verbose, "verbose", "V", "", "engine verbosity override")
	f.StringToStringVar(&maskFlags.extra, "extra", nil, "extra engine options, e.g. --extra f=g")
	f.BoolVar(&maskFlags.xyz, "xyz", false, "print x y z rows instead of a summary")
	f.BoolVar(&maskFlags.metrics, "metrics", false, "print call metrics to stderr")

	maskCmd.MarkFlagsMutuallyExclusive("mask", "outside")
	maskCmd.MarkFlagsMutuallyExclusive("mask", "edge")
	maskCmd.MarkFlagsMutuallyExclusive("mask", "inside")
	maskCmd.MarkFlagsMutuallyExclusive("outgrid", "xyz")
}

func runMask(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if appCfg.Engine.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, appCfg.Engine.Timeout)
		defer cancel()
	}

	src, err := maskInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	verbose := appCfg.Verbosity()
	if maskFlags.verbose != "" {
		v, ok := format.ParseVerbosity(maskFlags.verbose)
		if !ok {
			return fmt.Errorf("unknown verbosity %q", maskFlags.verbose)
		}
		verbose = v
	}

	reg := prometheus.NewRegistry()
	opts := []gridmask.Option{
		gridmask.WithRegionString(maskFlags.region),
		gridmask.WithSpacingString(maskFlags.spacing),
		gridmask.WithOutgrid(maskFlags.outgrid),
		gridmask.WithVerbose(verbose),
		gridmask.WithRunner(newRunner(appCfg, logger)),
		gridmask.WithWorkDir(appCfg.Engine.WorkDir),
		gridmask.WithLogger(logger),
		gridmask.WithMetrics(metrics.NewMetrics(reg)),
	}

	setting, ok, err := maskSetting()
	if err != nil {
		return err
	}
	if ok {
		opts = append(opts, gridmask.WithMaskSetting(setting))
	}
	if maskFlags.searchRadius != "" {
		opts = append(opts, gridmask.WithSearchRadius(maskFlags.searchRadius))
	}
	if maskFlags.pixel {
		opts = append(opts, gridmask.WithPixelRegistration())
	}
	for k, v := range maskFlags.extra {
		opts = append(opts, gridmask.WithExtra(k, v))
	}

	c, err := appCfg.NewCache()
	if err != nil {
		return err
	}
	if c != nil {
		opts = append(opts, gridmask.WithCache(c))
	}

	g, err := gridmask.Grdmask(ctx, src, opts...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case g == nil:
		fmt.Fprintf(out, "wrote %s\n", maskFlags.outgrid)
	case maskFlags.xyz:
		err = writeXYZ(out, g)
	default:
		writeSummary(out, g)
	}
	if err != nil {
		return err
	}

	if maskFlags.metrics {
		return writeMetrics(cmd.ErrOrStderr(), reg)
	}

	return nil
}

// maskInput returns the table files in args, or the table read from r when args is empty.
func maskInput(r io.Reader, args []string) (geometry.Source, error) {
	if len(args) > 0 {
		return geometry.Files(args), nil
	}

	t, err := geometry.ReadTable(r)
	if err != nil {
		return nil, fmt.Errorf("read table from stdin: %w", err)
	}

	return t, nil
}

// maskSetting builds the mask values from flags. ok is false when none were given.
func maskSetting() (s mask.Setting, ok bool, err error) {
	if maskFlags.token != "" {
		s, err = mask.Decode(maskFlags.token)
		return s, err == nil, err
	}
	if maskFlags.outside == "" && maskFlags.edge == "" && maskFlags.inside == "" {
		return mask.Setting{}, false, nil
	}

	s = mask.DefaultSetting()
	for _, fv := range []struct {
		raw string
		dst *mask.Value
	}{
		{maskFlags.outside, &s.Outside},
		{maskFlags.edge, &s.Edge},
		{maskFlags.inside, &s.Inside},
	} {
		if fv.raw == "" {
			continue
		}
		v, err := mask.ParseValue(fv.raw)
		if err != nil {
			return mask.Setting{}, false, err
		}
		*fv.dst = v
	}

	return s, true, nil
}

func writeSummary(w io.Writer, g *grid.Grid) {
	h := g.Header
	rows, cols := g.Shape()
	fmt.Fprintf(w, "region: %s/%s/%s/%s\n", mask.FormatNumber(h.West), mask.FormatNumber(h.East), mask.FormatNumber(h.South), mask.FormatNumber(h.North))
	fmt.Fprintf(w, "spacing: %s/%s\n", mask.FormatNumber(h.XInc), mask.FormatNumber(h.YInc))
	fmt.Fprintf(w, "shape: %d rows x %d cols (%s, %s)\n", rows, cols, h.Registration, h.GridType)
	fmt.Fprintf(w, "z range: %s to %s\n", mask.FormatNumber(h.ZMin), mask.FormatNumber(h.ZMax))

	nan := 0
	for _, v := range g.Data {
		if math.IsNaN(float64(v)) {
			nan++
		}
	}
	fmt.Fprintf(w, "nodes: %d (%d NaN)\n", len(g.Data), nan)
}

func writeXYZ(w io.Writer, g *grid.Grid) error {
	xs, ys := g.X(), g.Y()
	for row := len(ys) - 1; row >= 0; row-- {
		for col, v := range g.Row(row) {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", mask.FormatNumber(xs[col]), mask.FormatNumber(ys[row]), mask.FormatNumber(float64(v))); err != nil {
				return err
			}
		}
	}

	return nil
}

func writeMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}

	return nil
}
