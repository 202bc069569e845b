//go:build integration

package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"

	"github.com/Nubebuster/forkflow/internal/config"
	"github.com/Nubebuster/forkflow/internal/gittest"
	"github.com/Nubebuster/forkflow/internal/log"
	"github.com/Nubebuster/forkflow/internal/output"
)

// testIO captures what a command wrote.
type testIO struct {
	Out *bytes.Buffer // stdout (output.Printer)
	Log *bytes.Buffer // stderr (log.Logger)
}

// testContext returns a context carrying cfg, workDir, a logger and a
// printer that write into buffers.
func testContext(t *testing.T, cfg *config.Config, workDir string) (context.Context, testIO) {
	t.Helper()
	io := testIO{Out: &bytes.Buffer{}, Log: &bytes.Buffer{}}
	ctx := context.Background()
	ctx = config.WithResolver(ctx, config.NewResolver(cfg))
	ctx = withWorkDir(ctx, workDir)
	ctx = log.WithLogger(ctx, log.New(io.Log, false, false))
	ctx = output.WithPrinter(ctx, io.Out)
	return ctx, io
}

// forkConfig returns the default config pointed at the fork's upstream.
func forkConfig(f gittest.Fork) *config.Config {
	cfg := config.Default()
	cfg.Upstream.URL = f.Upstream
	return &cfg
}

// execute runs cmd with args in ctx.
func execute(ctx context.Context, cmd *cobra.Command, args ...string) error {
	// Standalone commands do not inherit these from rootCmd.
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetContext(ctx)
	cmd.SetArgs(args)
	cmd.SetOut(output.FromContext(ctx).Writer())
	cmd.SetErr(log.FromContext(ctx).Writer())
	return cmd.Execute()
}

// currentBranch returns the branch checked out in dir.
func currentBranch(t *testing.T, dir string) string {
	t.Helper()
	return gittest.Run(t, dir, "rev-parse", "--abbrev-ref", "HEAD")
}
