package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const helperModeEnv = "RENDER_HELPER_MODE"

var stubImage = []byte("\x89PNG\r\n\x1a\nstub")

// TestMain lets the test binary act as a stub renderer when helperModeEnv is set.
func TestMain(m *testing.M) {
	if mode := os.Getenv(helperModeEnv); mode != "" {
		os.Exit(runHelper(mode))
	}
	os.Exit(m.Run())
}

func runHelper(mode string) int {
	switch mode {
	case "echo":
		io.Copy(io.Discard, os.Stdin)
		os.Stdout.Write(stubImage)
	case "args":
		io.Copy(io.Discard, os.Stdin)
		fmt.Fprint(os.Stdout, strings.Join(os.Args[1:], "\n"))
	case "cat":
		io.Copy(os.Stdout, os.Stdin)
	case "fail":
		io.Copy(io.Discard, os.Stdin)
		os.Stdout.Write([]byte("partial"))
		fmt.Fprint(os.Stderr, "Error: <stdin>: syntax error in line 1")
		return 3
	case "sleep":
		time.Sleep(time.Minute)
	}
	return 0
}

func stubRenderer(t *testing.T, mode string, opts ...Option) *Renderer {
	t.Helper()

	t.Setenv(helperModeEnv, mode)
	exe, err := os.Executable()
	require.NoError(t, err)

	opts = append([]Option{WithBinary(exe), WithLogger(zaptest.NewLogger(t))}, opts...)
	return New(opts...)
}

func TestRenderReturnsRendererOutput(t *testing.T) {
	r := stubRenderer(t, "echo")

	out, err := r.Render(context.Background(), "strict graph g {\n}", nil)
	require.NoError(t, err)
	assert.Equal(t, stubImage, out)
}

func TestRenderPassesArguments(t *testing.T) {
	r := stubRenderer(t, "args", WithFormat("svg"))

	out, err := r.Render(context.Background(), "graph {}", SplitArgs("  -Gdpi=300\t-Nshape=box "))
	require.NoError(t, err)
	assert.Equal(t, "-Tsvg\n-Gdpi=300\n-Nshape=box", string(out))
}

func TestRenderArgumentsAreNotInterpretedByAShell(t *testing.T) {
	r := stubRenderer(t, "args")

	out, err := r.Render(context.Background(), "graph {}", SplitArgs("-Glabel=$(id) ;rm"))
	require.NoError(t, err)
	assert.Equal(t, "-Tpng\n-Glabel=$(id)\n;rm", string(out))
}

func TestRenderLargeDescription(t *testing.T) {
	r := stubRenderer(t, "cat")

	description := strings.Repeat(`"ALICE" -- "BOB"`+"\n", 200_000)
	out, err := r.Render(context.Background(), description, nil)
	require.NoError(t, err)
	assert.Equal(t, len(description), len(out))
}

func TestRenderNonZeroExit(t *testing.T) {
	r := stubRenderer(t, "fail")

	out, err := r.Render(context.Background(), "graph {", nil)
	assert.Nil(t, out)
	require.ErrorIs(t, err, ErrExit)

	var renderErr *Error
	require.True(t, errors.As(err, &renderErr))
	assert.Contains(t, renderErr.Stderr, "syntax error")
	assert.Contains(t, err.Error(), "syntax error")
}

func TestRenderLenient(t *testing.T) {
	r := stubRenderer(t, "fail", WithLenient(true))

	out, err := r.Render(context.Background(), "graph {", nil)
	require.NoError(t, err)
	assert.Equal(t, "partial", string(out))
}

func TestRenderTimeout(t *testing.T) {
	r := stubRenderer(t, "sleep", WithTimeout(200*time.Millisecond))

	start := time.Now()
	_, err := r.Render(context.Background(), "graph {}", nil)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Less(t, time.Since(start), 30*time.Second)
}

func TestRenderCancelled(t *testing.T) {
	r := stubRenderer(t, "sleep")

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	_, err := r.Render(ctx, "graph {}", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrTimeout)
}

func TestRenderSpawnFailure(t *testing.T) {
	r := New(WithBinary("/nonexistent/meetupgraph-renderer"))

	_, err := r.Render(context.Background(), "graph {}", nil)
	assert.ErrorIs(t, err, ErrSpawn)

	var renderErr *Error
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, "spawn", renderErr.Op)
}

func TestCheckArgs(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr bool
	}{
		{nil, false},
		{[]string{"-Gdpi=300", "-Kneato"}, false},
		{[]string{"-o", "/etc/passwd"}, true},
		{[]string{"-Gdpi=300", "-o/tmp/x.png"}, true},
		{[]string{"-O"}, true},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			err := CheckArgs(tt.args)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrArgument)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRenderRejectsOutputArguments(t *testing.T) {
	r := stubRenderer(t, "echo")

	_, err := r.Render(context.Background(), "graph {}", []string{"-o", "out.png"})
	assert.ErrorIs(t, err, ErrArgument)
}

func TestSplitArgs(t *testing.T) {
	assert.Empty(t, SplitArgs(""))
	assert.Empty(t, SplitArgs("   "))
	assert.Equal(t, []string{"-Gdpi=300", "-Kneato"}, SplitArgs("-Gdpi=300 -Kneato"))
}
