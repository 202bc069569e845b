// Package output writes forkflow's primary data to stdout: tables, status
// reports, PR comments, and their JSON or YAML encodings for scripts.
// Diagnostics go to stderr through the log package instead.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Format is the value of a --format flag.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the accepted --format values, text first.
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ParseFormat validates a --format value. Empty means text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	for _, f := range Formats {
		if Format(s) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format %q: must be text, json or yaml", s)
}

type ctxKey struct{}

// Printer writes to stdout, or wherever tests point it.
type Printer struct {
	w io.Writer
}

// WithPrinter stores a printer over w in ctx.
func WithPrinter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, ctxKey{}, &Printer{w: w})
}

// FromContext returns the printer stored in ctx, or one over os.Stdout.
func FromContext(ctx context.Context) *Printer {
	if p, ok := ctx.Value(ctxKey{}).(*Printer); ok {
		return p
	}
	return &Printer{w: os.Stdout}
}

// Print writes already rendered text.
func (p *Printer) Print(s string) {
	io.WriteString(p.w, s)
}

// Encode writes v as indented JSON or YAML.
func (p *Printer) Encode(format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("format %q cannot encode structured data", format)
}

// Emit encodes v for json and yaml, and prints render() for text. An empty
// rendering prints nothing.
func (p *Printer) Emit(format Format, v any, render func() string) error {
	if format != FormatText {
		return p.Encode(format, v)
	}
	if s := render(); s != "" {
		p.Print(s)
	}
	return nil
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}
