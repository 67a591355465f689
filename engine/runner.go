package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/arloliu/gridmask/errs"
)

// DefaultBinary is the engine executable used when none is configured.
const DefaultBinary = "gmt"

// Runner executes one engine module with an argument list.
type Runner interface {
	Run(ctx context.Context, module string, args []string) error
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, module string, args []string) error

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, module string, args []string) error {
	return f(ctx, module, args)
}

// ExecRunner runs modules through the engine's command-line front end:
// "<Binary> <module> <args...>".
type ExecRunner struct {
	// Binary is the executable path or name. Empty means DefaultBinary.
	Binary string
	// Env is appended to the current environment of the child process.
	Env []string
	// Dir is the working directory of the child process.
	Dir string
	// Logger receives debug output. Nil disables logging.
	Logger *slog.Logger
}

var _ Runner = (*ExecRunner)(nil)

// Run executes the module and waits for it to finish.
//
// A non-zero exit status is returned as errs.ErrEngineFailed carrying the engine's stderr.
func (r *ExecRunner) Run(ctx context.Context, module string, args []string) error {
	bin := r.Binary
	if bin == "" {
		bin = DefaultBinary
	}

	cmd := exec.CommandContext(ctx, bin, append([]string{module}, args...)...)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	if r.Logger != nil {
		r.Logger.Debug("engine module finished",
			"module", module,
			"args", strings.Join(args, " "),
			"duration", time.Since(start).String(),
			"error", err,
		)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}

		return fmt.Errorf("%w: %s: %s", errs.ErrEngineFailed, module, msg)
	}

	return nil
}
