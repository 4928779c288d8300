package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/Alia5/routegen/internal/codegen/generator"
	"github.com/Alia5/routegen/internal/codegen/pipeline"
	"github.com/Alia5/routegen/internal/log"
)

type Generate struct {
	Target      `embed:""`
	DryRun      bool          `help:"List the files that would change without writing them" env:"ROUTEGEN_DRY_RUN"`
	Prune       bool          `help:"Remove generated units whose container no longer exists" default:"true" negatable:"" env:"ROUTEGEN_PRUNE"`
	Diagnostics string        `help:"Diagnostics format: text, json, or auto (text on a terminal)" enum:"auto,text,json" default:"auto" env:"ROUTEGEN_DIAGNOSTICS"`
	Watch       bool          `help:"Keep running and regenerate whenever a source file changes" env:"ROUTEGEN_WATCH"`
	Debounce    time.Duration `help:"Quiet period after a change before regenerating in watch mode" default:"200ms" env:"ROUTEGEN_DEBOUNCE"`
}

// Run is called by Kong when the generate command is executed.
func (g *Generate) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting routegen", "root", g.Root, "out", g.Out, "dryRun", g.DryRun, "watch", g.Watch)

	opts := []generator.Option{
		generator.WithOutput(os.Stdout),
		generator.WithRawLogger(rawLogger),
	}
	if !g.Watch {
		_, err := generator.New(g.config(os.Stdout), logger, opts...).Generate(ctx)
		return err
	}

	// every rerun of the session goes through one runner and its cache
	runner := &pipeline.Runner{Cache: pipeline.NewCache(generator.WatchCacheTTL)}
	opts = append(opts, generator.WithRunner(runner))
	return generator.New(g.config(os.Stdout), logger, opts...).Watch(ctx, g.Debounce)
}

func (g *Generate) config(out io.Writer) generator.Config {
	return generator.Config{
		Root:        g.Root,
		Options:     g.options(),
		DryRun:      g.DryRun,
		Prune:       g.Prune,
		Diagnostics: diagnosticsFormat(g.Diagnostics, out),
	}
}

func diagnosticsFormat(f string, out io.Writer) string {
	if f != "auto" {
		return f
	}
	if fd, ok := out.(interface{ Fd() uintptr }); ok && term.IsTerminal(int(fd.Fd())) {
		return generator.FormatText
	}
	return generator.FormatJSON
}
