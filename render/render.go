// Package render runs an external graphviz renderer on a graph description
// and collects the image it writes.
//
// The renderer is executed directly, never through a shell. Caller supplied
// arguments are passed as separate process arguments, except those that
// would make the renderer write files.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrSpawn    = errors.New("renderer could not be started")
	ErrTimeout  = errors.New("renderer timed out")
	ErrExit     = errors.New("renderer failed")
	ErrArgument = errors.New("renderer argument not allowed")
)

// Error describes a failed render. Stderr holds the renderer diagnostics, if any.
type Error struct {
	Op     string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	msg := "render " + e.Op + ": " + e.Err.Error()
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

const (
	DefaultBinary  = "dot"
	DefaultFormat  = "png"
	DefaultTimeout = 30 * time.Second
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithBinary sets the renderer executable.
func WithBinary(binary string) Option {
	return func(r *Renderer) {
		r.binary = binary
	}
}

// WithFormat sets the output format passed as -T<format>.
func WithFormat(format string) Option {
	return func(r *Renderer) {
		r.format = format
	}
}

// WithTimeout bounds a single render. The renderer is killed when it expires.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Renderer) {
		r.timeout = timeout
	}
}

// WithLenient returns the renderer output even when it exits with an error.
func WithLenient(lenient bool) Option {
	return func(r *Renderer) {
		r.lenient = lenient
	}
}

// WithLogger sets the logger used for renderer diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Renderer invokes an external renderer process.
type Renderer struct {
	binary  string
	format  string
	timeout time.Duration
	lenient bool
	logger  *zap.Logger
}

// New returns a renderer running dot -Tpng unless configured otherwise.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		binary:  DefaultBinary,
		format:  DefaultFormat,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SplitArgs splits an untrusted argument string on whitespace.
func SplitArgs(s string) []string {
	return strings.Fields(s)
}

// CheckArgs rejects arguments that redirect renderer output to a file.
func CheckArgs(args []string) error {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-o") || strings.HasPrefix(arg, "-O") {
			return &Error{Op: "args", Err: fmt.Errorf("%w: %q", ErrArgument, arg)}
		}
	}
	return nil
}

// Render feeds description to the renderer and returns everything it wrote
// to its standard output. Input and output are pumped concurrently so large
// graphs cannot fill a pipe and stall the child.
func (r *Renderer) Render(ctx context.Context, description string, extraArgs []string) ([]byte, error) {
	if err := CheckArgs(extraArgs); err != nil {
		return nil, err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	args := append([]string{"-T" + r.format}, extraArgs...)
	cmd := exec.CommandContext(ctx, r.binary, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &Error{Op: "spawn", Err: fmt.Errorf("%w: %w", ErrSpawn, err)}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &Error{Op: "spawn", Err: fmt.Errorf("%w: %w", ErrSpawn, err)}
	}

	started := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, &Error{Op: "spawn", Err: fmt.Errorf("%w: %w", ErrSpawn, err)}
	}

	var out []byte
	var g errgroup.Group
	g.Go(func() error {
		defer stdin.Close()
		_, err := io.WriteString(stdin, description)
		if errors.Is(err, syscall.EPIPE) {
			// The renderer stopped reading; its exit status tells why.
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		out, err = io.ReadAll(stdout)
		return err
	})

	pumpErr := g.Wait()
	waitErr := cmd.Wait()

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return nil, &Error{Op: "render", Stderr: stderr.String(), Err: fmt.Errorf("%w after %s", ErrTimeout, time.Since(started).Round(time.Millisecond))}
		}
		return nil, &Error{Op: "render", Stderr: stderr.String(), Err: ctxErr}
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return nil, &Error{Op: "wait", Stderr: stderr.String(), Err: waitErr}
		}

		if r.lenient {
			r.logger.Warn("renderer exited with an error",
				zap.String("binary", r.binary),
				zap.Int("exit_code", exitErr.ExitCode()),
				zap.String("stderr", stderr.String()))
			return out, nil
		}

		return nil, &Error{Op: "render", Stderr: stderr.String(), Err: fmt.Errorf("%w: %w", ErrExit, waitErr)}
	}

	if pumpErr != nil {
		return nil, &Error{Op: "pipe", Stderr: stderr.String(), Err: pumpErr}
	}

	if stderr.Len() > 0 {
		r.logger.Warn("renderer diagnostics", zap.String("stderr", stderr.String()))
	}

	r.logger.Debug("rendered graph",
		zap.String("binary", r.binary),
		zap.Strings("args", args),
		zap.Int("input_bytes", len(description)),
		zap.Int("output_bytes", len(out)),
		zap.Duration("duration", time.Since(started)))

	return out, nil
}
