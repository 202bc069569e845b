package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/Nubebuster/forkflow/internal/log"
)

// ExitError is returned when a command ran but exited non-zero.
// The message is the command's trimmed stderr.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	return e.Stderr
}

func command(ctx context.Context, dir, name string, args ...string) *exec.Cmd {
	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	return c
}

// wrapErr converts an exec failure into a user-readable error.
// A cancelled context wins over whatever the killed process reported.
func wrapErr(ctx context.Context, err error, stderr string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = err.Error()
		}
		return &ExitError{Code: exitErr.ExitCode(), Stderr: msg}
	}
	if msg := strings.TrimSpace(stderr); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return err
}

// run runs c, logs it in verbose mode and reports how it ended.
func run(ctx context.Context, c *exec.Cmd) error {
	done := log.FromContext(ctx).Command(c.Dir, c.Args[0], c.Args[1:]...)
	began := time.Now()
	err := c.Run()
	done(time.Since(began))
	return err
}

// RunContext executes a command in dir. On failure the error text is the
// command's stderr.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	var stderr bytes.Buffer
	c := command(ctx, dir, name, args...)
	c.Stderr = &stderr
	if err := run(ctx, c); err != nil {
		return wrapErr(ctx, err, stderr.String())
	}
	return nil
}

// OutputContext is RunContext returning stdout.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	c := command(ctx, dir, name, args...)
	c.Stdout, c.Stderr = &stdout, &stderr
	if err := run(ctx, c); err != nil {
		return nil, wrapErr(ctx, err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// RunInteractive executes a command attached to the current terminal, for
// gh prompts and editors.
func RunInteractive(ctx context.Context, dir, name string, args ...string) error {
	c := command(ctx, dir, name, args...)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := run(ctx, c); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return nil
}

// ExitCode extracts the exit code of a failed command, or -1.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}
