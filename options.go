package gridmask

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/arloliu/gridmask/cache"
	"github.com/arloliu/gridmask/engine"
	"github.com/arloliu/gridmask/errs"
	"github.com/arloliu/gridmask/format"
	"github.com/arloliu/gridmask/internal/options"
	"github.com/arloliu/gridmask/mask"
	"github.com/arloliu/gridmask/metrics"
)

// Option configures a Grdmask call.
type Option = options.Option[*maskConfig]

type maskConfig struct {
	outgrid      string
	spacing      any
	region       any
	maskValues   *mask.Setting
	searchRadius string
	pixel        bool
	verbose      format.Verbosity
	extra        map[string]string

	runner  engine.Runner
	session *engine.Session
	workDir string
	cache   cache.Cache
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func newMaskConfig() *maskConfig {
	return &maskConfig{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		extra:  make(map[string]string),
	}
}

// WithOutgrid writes the result to path instead of returning it. Grdmask then returns a
// nil grid.
func WithOutgrid(path string) Option {
	return options.NoError(func(c *maskConfig) {
		c.outgrid = path
	})
}

// WithSpacing sets the grid spacing: one value for both axes, or x and y increments.
func WithSpacing(inc ...float64) Option {
	return options.New(func(c *maskConfig) error {
		switch len(inc) {
		case 1:
			c.spacing = inc[0]
		case 2:
			c.spacing = []float64{inc[0], inc[1]}
		default:
			return fmt.Errorf("%w: spacing expects 1 or 2 values, got %d", errs.ErrInvalidParameter, len(inc))
		}
		for _, v := range inc {
			if !(v > 0) {
				return fmt.Errorf("%w: spacing %g must be positive", errs.ErrInvalidParameter, v)
			}
		}

		return nil
	})
}

// WithSpacingString sets the spacing in the engine's own syntax, e.g. "1m" or "0.5/0.25".
func WithSpacingString(spacing string) Option {
	return options.NoError(func(c *maskConfig) {
		if spacing != "" {
			c.spacing = spacing
		}
	})
}

// WithRegion sets the west, east, south and north bounds of the grid.
func WithRegion(west, east, south, north float64) Option {
	return options.New(func(c *maskConfig) error {
		if east <= west || north <= south {
			return fmt.Errorf("%w: region %g/%g/%g/%g is empty", errs.ErrInvalidParameter, west, east, south, north)
		}
		c.region = []float64{west, east, south, north}

		return nil
	})
}

// WithRegionString sets the region in the engine's own syntax, e.g. "g" or "0/10/0/10".
func WithRegionString(region string) Option {
	return options.NoError(func(c *maskConfig) {
		if region != "" {
			c.region = region
		}
	})
}

// WithMaskValues sets the values assigned to outside, edge and inside nodes.
func WithMaskValues(outside, edge, inside mask.Value) Option {
	return WithMaskSetting(mask.Setting{Outside: outside, Edge: edge, Inside: inside})
}

// WithMaskSetting sets the mask values from a Setting.
func WithMaskSetting(s mask.Setting) Option {
	return options.NoError(func(c *maskConfig) {
		c.maskValues = &s
	})
}

// WithSearchRadius switches to point coverage mode: nodes within radius of a data point are
// inside. The radius uses the engine syntax, e.g. "5k" or "0.5".
func WithSearchRadius(radius string) Option {
	return options.NoError(func(c *maskConfig) {
		c.searchRadius = radius
	})
}

// WithPixelRegistration places nodes at cell centers instead of on grid lines.
func WithPixelRegistration() Option {
	return options.NoError(func(c *maskConfig) {
		c.pixel = true
	})
}

// WithVerbose sets the engine verbosity.
func WithVerbose(v format.Verbosity) Option {
	return options.NoError(func(c *maskConfig) {
		c.verbose = v
	})
}

// WithExtra passes a raw option to the engine, e.g. WithExtra("f", "g").
// Options bound by another With* function cannot be overridden.
func WithExtra(option, value string) Option {
	return options.New(func(c *maskConfig) error {
		if option == "" {
			return fmt.Errorf("%w: empty option name", errs.ErrInvalidParameter)
		}
		c.extra[option] = value

		return nil
	})
}

// WithRunner sets the engine runner used by the internally created session.
func WithRunner(r engine.Runner) Option {
	return options.NoError(func(c *maskConfig) {
		c.runner = r
	})
}

// WithSession runs the module in an existing session. The session is left open.
func WithSession(s *engine.Session) Option {
	return options.NoError(func(c *maskConfig) {
		c.session = s
	})
}

// WithWorkDir sets the parent directory for the session work directory.
func WithWorkDir(dir string) Option {
	return options.NoError(func(c *maskConfig) {
		c.workDir = dir
	})
}

// WithCache memoizes results. Only calls that return a grid are cached.
func WithCache(c cache.Cache) Option {
	return options.NoError(func(cfg *maskConfig) {
		cfg.cache = c
	})
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(l *slog.Logger) Option {
	return options.NoError(func(c *maskConfig) {
		if l != nil {
			c.logger = l
		}
	})
}

// WithMetrics records module calls and cache lookups.
func WithMetrics(m *metrics.Metrics) Option {
	return options.NoError(func(c *maskConfig) {
		c.metrics = m
	})
}
