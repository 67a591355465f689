package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/arloliu/gridmask/errs"
	"github.com/arloliu/gridmask/geometry"
	"github.com/arloliu/gridmask/grid"
	"github.com/arloliu/gridmask/internal/options"
)

// Session owns the scratch space for a sequence of module calls: input tables are written
// to virtual files in a private work directory and output grids are read back from it.
//
// A Session is not safe for concurrent use. Close removes the work directory.
type Session struct {
	id     uuid.UUID
	dir    string
	runner Runner
	logger *slog.Logger
	seq    int
	closed bool

	baseDir string
}

// SessionOption configures a Session.
type SessionOption = options.Option[*Session]

// WithRunner sets the module runner. The default is an ExecRunner for DefaultBinary.
func WithRunner(r Runner) SessionOption {
	return options.New(func(s *Session) error {
		if r == nil {
			return fmt.Errorf("%w: nil runner", errs.ErrInvalidParameter)
		}
		s.runner = r

		return nil
	})
}

// WithWorkDir sets the parent directory of the session work directory.
// The default is os.TempDir().
func WithWorkDir(dir string) SessionOption {
	return options.NoError(func(s *Session) {
		s.baseDir = dir
	})
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) SessionOption {
	return options.NoError(func(s *Session) {
		if l != nil {
			s.logger = l
		}
	})
}

// NewSession creates a session and its work directory.
func NewSession(opts ...SessionOption) (*Session, error) {
	s := &Session{
		id:     uuid.New(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if err := options.Apply(s, opts...); err != nil {
		return nil, err
	}
	if s.runner == nil {
		s.runner = &ExecRunner{Logger: s.logger}
	}

	dir, err := os.MkdirTemp(s.baseDir, "gridmask-"+s.id.String()+"-")
	if err != nil {
		return nil, fmt.Errorf("create session work dir: %w", err)
	}
	s.dir = dir
	s.logger = s.logger.With("session", s.id.String())
	s.logger.Debug("session opened", "dir", dir)

	return s, nil
}

// ID returns the unique session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Dir returns the session work directory.
func (s *Session) Dir() string {
	return s.dir
}

// VirtualFileIn exposes src to the engine and returns the input arguments for the module.
//
// Files are passed through unchanged. A Table is written as a multi-segment ASCII file in
// the work directory.
func (s *Session) VirtualFileIn(src geometry.Source) ([]string, error) {
	if s.closed {
		return nil, errs.ErrSessionClosed
	}

	switch v := src.(type) {
	case geometry.Files:
		if len(v) == 0 {
			return nil, fmt.Errorf("%w: no input files", errs.ErrInvalidInput)
		}
		for _, name := range v {
			if name == "" {
				return nil, fmt.Errorf("%w: empty file name", errs.ErrInvalidInput)
			}
		}

		return append([]string(nil), v...), nil
	case geometry.Table:
		if err := v.Validate(); err != nil {
			return nil, err
		}

		name := s.nextName("in", ".txt")
		f, err := os.Create(name)
		if err != nil {
			return nil, fmt.Errorf("create virtual input: %w", err)
		}
		if _, err := v.WriteTo(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("write virtual input: %w", err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("close virtual input: %w", err)
		}
		s.logger.Debug("virtual input written", "file", name, "segments", len(v.Segments), "points", v.NumPoints())

		return []string{name}, nil
	case nil:
		return nil, fmt.Errorf("%w: nil data", errs.ErrInvalidInput)
	default:
		return nil, fmt.Errorf("%w: unsupported source %T", errs.ErrInvalidInput, src)
	}
}

// VirtualFileOut returns the output grid argument. When outgrid is empty the engine is
// asked to write a native float grid into the work directory.
func (s *Session) VirtualFileOut(outgrid string) (string, error) {
	if s.closed {
		return "", errs.ErrSessionClosed
	}
	if outgrid != "" {
		return outgrid, nil
	}

	return s.nextName("out", ".grd") + grid.NativeSuffix, nil
}

// CallModule runs module with args through the session runner.
func (s *Session) CallModule(ctx context.Context, module string, args []string) error {
	if s.closed {
		return errs.ErrSessionClosed
	}

	s.logger.Debug("calling module", "module", module, "args", strings.Join(args, " "))

	return s.runner.Run(ctx, module, args)
}

// VirtualFileToRaster reads the grid written to vfname. It returns nil without error when
// outgrid is set, since the caller asked for the result on disk.
func (s *Session) VirtualFileToRaster(vfname, outgrid string) (*grid.Grid, error) {
	if outgrid != "" {
		return nil, nil
	}
	if s.closed {
		return nil, errs.ErrSessionClosed
	}

	f, err := os.Open(strings.TrimSuffix(vfname, grid.NativeSuffix))
	if err != nil {
		return nil, fmt.Errorf("%w: output grid: %v", errs.ErrEngineFailed, err)
	}
	defer f.Close()

	return grid.ReadNative(f)
}

// Close removes the work directory. It is safe to call more than once.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.logger.Debug("session closed")

	return os.RemoveAll(s.dir)
}

func (s *Session) nextName(prefix, ext string) string {
	s.seq++
	return filepath.Join(s.dir, fmt.Sprintf("%s-%03d%s", prefix, s.seq, ext))
}
