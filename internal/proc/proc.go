// Package proc runs external tools and captures their output.
package proc

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/matzehuels/wsgraph/pkg/observability"
)

// waitDelay bounds how long Run waits for a killed process's pipes to close.
const waitDelay = 5 * time.Second

// Cmd describes one subprocess invocation.
type Cmd struct {
	Argv  []string
	Dir   string
	Env   []string // appended to the current environment
	Stdin io.Reader

	// Stdout and Stderr, if set, also receive the output as it is produced.
	Stdout io.Writer
	Stderr io.Writer
}

// Result holds the captured output of a finished subprocess.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Run starts c and waits for it. The process is killed when ctx is done.
// A non-nil error is returned for start failures, non-zero exits, and
// cancellation; the Result is populated with whatever output was captured.
func Run(ctx context.Context, c Cmd) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	cmd.WaitDelay = waitDelay
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var out, errBuf bytes.Buffer
	cmd.Stdout = tee(&out, c.Stdout)
	cmd.Stderr = tee(&errBuf, c.Stderr)

	hooks := observability.Exec()
	hooks.OnStart(ctx, c.Argv)
	start := time.Now()
	err := cmd.Run()
	res := Result{Stdout: out.Bytes(), Stderr: errBuf.Bytes(), ExitCode: -1}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}
	if ctx.Err() != nil {
		err = ctx.Err()
	}
	hooks.OnExit(ctx, c.Argv, res.ExitCode, time.Since(start), err)
	return res, err
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}
