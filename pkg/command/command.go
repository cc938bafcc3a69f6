// Package command runs external programs.
package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"github.com/go-logr/logr"
	"io"
	"os/exec"
	"strings"
)

// Options configures a single command invocation.
type Options struct {
	// Dir is the directory in which the command is run.
	Dir string
	// Output receives stdout and stderr as they are written
	// in addition to being captured.
	Output io.Writer
}

// Result is the outcome of a command that ran to completion.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner abstracts command execution so that callers can be
// tested without spawning processes.
type Runner interface {
	Run(ctx context.Context, opts Options, name string, args ...string) (*Result, error)
}

// Error is returned when a command could not be started or
// exited with a non-zero status.
type Error struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *Error) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("command %q exited with code %d: %s", e.Command, e.ExitCode, strings.TrimSpace(e.Stderr))
	}
	return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Exec is a Runner that uses os/exec.
type Exec struct{}

func (*Exec) Run(ctx context.Context, opts Options, name string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = opts.Dir

	log := logr.FromContextOrDiscard(ctx).WithValues("command", cmd.String())
	log.V(1).Info("running command", "dir", opts.Dir)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	if opts.Output != nil {
		cmd.Stdout = io.MultiWriter(stdout, opts.Output)
		cmd.Stderr = io.MultiWriter(stderr, opts.Output)
	} else {
		cmd.Stdout = stdout
		cmd.Stderr = stderr
	}

	err := cmd.Run()
	res := &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: cmd.ProcessState.ExitCode(),
	}
	if err != nil {
		cerr := &Error{
			Command:  cmd.String(),
			ExitCode: res.ExitCode,
			Stderr:   res.Stderr,
			Err:      err,
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// the process never started
			cerr.ExitCode = -1
		}
		log.V(1).Info("command failed", "code", cerr.ExitCode)
		return res, cerr
	}
	log.V(2).Info("command succeeded")
	return res, nil
}
