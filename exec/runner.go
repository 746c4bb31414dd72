// Package exec implements ebook2pdf.Tool on top of os/exec.
package exec

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/fwojciec/ebook2pdf"
)

// Ensure Runner implements ebook2pdf.Tool at compile time.
var _ ebook2pdf.Tool = (*Runner)(nil)

// Runner runs external commands and captures their output.
type Runner struct {
	dir string
	env []string
}

// Option configures a Runner.
type Option func(*Runner)

// WithDir sets the working directory of every command.
func WithDir(dir string) Option {
	return func(r *Runner) {
		r.dir = dir
	}
}

// WithEnv appends environment variables to every command's environment.
func WithEnv(env ...string) Option {
	return func(r *Runner) {
		r.env = append(r.env, env...)
	}
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes name with args. A command that exits non-zero yields a result
// with its exit code; an error is returned only when the command could not
// be started or ctx ended first.
func (r *Runner) Run(ctx context.Context, name string, args ...string) (*ebook2pdf.ToolResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.dir
	if len(r.env) > 0 {
		cmd.Env = append(cmd.Environ(), r.env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	result := &ebook2pdf.ToolResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, ebook2pdf.WrapError(ebook2pdf.EINTERNAL, err, "running %s", name)
		}
		result.ExitCode = exitErr.ExitCode()
	}
	return result, nil
}
