// Package log provides context-aware logging for forkflow.
//
// Diagnostics go to stderr. Primary data (tables, JSON, formatted comments)
// goes through the output package instead.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Nubebuster/forkflow/internal/ui/styles"
)

type ctxKey struct{}

// Logger provides user-facing messages and verbose command logging.
type Logger struct {
	out     io.Writer
	verbose bool
	quiet   bool
}

// New creates a new logger. Quiet wins over verbose.
func New(out io.Writer, verbose, quiet bool) *Logger {
	return &Logger{out: out, verbose: verbose, quiet: quiet}
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{out: io.Discard}
}

// Printf writes formatted output unless quiet.
func (l *Logger) Printf(format string, args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, format, args...)
}

// Println writes a line of output unless quiet.
func (l *Logger) Println(args ...any) {
	if l.quiet {
		return
	}
	fmt.Fprintln(l.out, args...)
}

// Success writes a green check line.
func (l *Logger) Success(format string, args ...any) {
	l.Println(styles.SuccessStyle.Render("✓") + " " + fmt.Sprintf(format, args...))
}

// Warn writes a warning line.
func (l *Logger) Warn(format string, args ...any) {
	l.Println(styles.WarningStyle.Render("!") + " " + fmt.Sprintf(format, args...))
}

// Step writes a progress line for a multi-step operation.
func (l *Logger) Step(format string, args ...any) {
	l.Println(styles.MutedStyle.Render("→") + " " + fmt.Sprintf(format, args...))
}

// Debug writes a message with key=value pairs in verbose mode.
// A trailing key without value is dropped.
func (l *Logger) Debug(msg string, keyvals ...any) {
	if !l.IsVerbose() {
		return
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	fmt.Fprintln(l.out, styles.MutedStyle.Render(b.String()))
}

// Command logs an external command execution in verbose mode.
// The returned func logs the elapsed duration and must be called once the
// command finished.
func (l *Logger) Command(dir, name string, args ...string) func(time.Duration) {
	if !l.IsVerbose() {
		return func(time.Duration) {}
	}
	line := "$ " + name
	if len(args) > 0 {
		line += " " + strings.Join(args, " ")
	}
	if dir != "" {
		line = "[" + dir + "] " + line
	}
	return func(d time.Duration) {
		fmt.Fprintf(l.out, "%s (%s)\n", line, d.Round(time.Millisecond))
	}
}

// IsVerbose returns true if verbose output is enabled and not silenced.
func (l *Logger) IsVerbose() bool {
	return l.verbose && !l.quiet
}

// Writer returns the underlying writer.
func (l *Logger) Writer() io.Writer {
	return l.out
}
