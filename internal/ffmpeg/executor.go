package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// ErrEmptyCommand is returned by Execute when given no arguments.
var ErrEmptyCommand = errors.New("empty ffmpeg command")

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stdout string
	Stderr string
	Err    error // nil on exit status 0.
}

// Execute runs args[0] with args[1:] and blocks until it exits. Both streams
// are captured; when verbose is set stderr is also tee'd to os.Stderr in
// real time. Cancelling ctx kills the process.
func Execute(ctx context.Context, args []string, verbose bool) ExecResult {
	if len(args) == 0 {
		return ExecResult{Err: ErrEmptyCommand}
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	if verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}
