// Package generator drives one generation run against a module on disk.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/Alia5/routegen/internal/codegen/diag"
	"github.com/Alia5/routegen/internal/codegen/pipeline"
	"github.com/Alia5/routegen/internal/codegen/scanner"
	"github.com/Alia5/routegen/internal/log"
)

// ErrAborted is returned when a diagnostic aborted the batch.
var ErrAborted = errors.New("generation aborted")

// Diagnostic output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config configures a Generator.
type Config struct {
	// Root is the module root, the directory holding go.mod.
	Root    string
	Options pipeline.Options
	// DryRun lists the units that would change without touching the disk.
	DryRun bool
	// Prune removes generated units that were not regenerated.
	Prune bool
	// Diagnostics selects the format of the diagnostics writer.
	Diagnostics string
}

// Report summarizes a Generate call.
type Report struct {
	Result    *pipeline.Result
	Written   []string
	Unchanged []string
	Pruned    []string
}

type Generator struct {
	cfg    Config
	logger *slog.Logger
	raw    log.RawLogger
	out    io.Writer
	runner *pipeline.Runner

	// mu serializes the write phase of concurrent Generate calls.
	mu sync.Mutex
}

// Option customizes a Generator.
type Option func(*Generator)

// WithOutput sets where diagnostics and dry-run listings are written.
func WithOutput(w io.Writer) Option {
	return func(g *Generator) { g.out = w }
}

// WithRawLogger dumps every rendered unit to raw.
func WithRawLogger(raw log.RawLogger) Option {
	return func(g *Generator) { g.raw = raw }
}

// WithRunner shares a runner, and therefore its cache, between generators.
func WithRunner(r *pipeline.Runner) Option {
	return func(g *Generator) { g.runner = r }
}

func New(cfg Config, logger *slog.Logger, opts ...Option) *Generator {
	g := &Generator{
		cfg:    cfg,
		logger: logger,
		raw:    log.NewRaw(nil),
		out:    io.Discard,
		runner: &pipeline.Runner{},
	}
	for _, o := range opts {
		o(g)
	}
	if g.cfg.Root == "" {
		g.cfg.Root = "."
	}
	return g
}

// Scan loads the module and runs the pipeline without writing anything.
func (g *Generator) Scan(ctx context.Context) (*pipeline.Result, *scanner.Snapshot, error) {
	g.logger.Info("Scanning module", "root", g.cfg.Root)

	snap, err := scanner.LoadSnapshot(g.cfg.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("load module: %w", err)
	}
	g.logger.Debug("Loaded module", "module", snap.Module, "packages", len(snap.Packages()))

	res, err := g.runner.Run(ctx, snap, g.cfg.Options)
	if err != nil {
		return nil, nil, fmt.Errorf("run pipeline: %w", err)
	}
	g.logger.Info("Found endpoint containers",
		"containers", len(res.Metadata.Containers),
		"diagnostics", len(res.Diagnostics))
	return res, snap, nil
}

// Generate runs the pipeline and writes its units below the module root.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	res, snap, err := g.Scan(ctx)
	if err != nil {
		return nil, err
	}
	rep := &Report{Result: res}

	if err := g.report(ctx, res.Diagnostics); err != nil {
		return rep, err
	}
	if res.Aborted {
		return rep, fmt.Errorf("%w: %d error(s)", ErrAborted, res.Diagnostics.Count(diag.SeverityError))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	fresh := make(map[string]bool, len(res.Units))
	for _, u := range res.Units {
		fresh[u.Path] = true
		dest := filepath.Join(g.cfg.Root, filepath.FromSlash(u.Path))
		g.raw.Log(u.Path, u.Source)

		if old, err := os.ReadFile(dest); err == nil && bytes.Equal(old, u.Source) {
			rep.Unchanged = append(rep.Unchanged, u.Path)
			continue
		}
		rep.Written = append(rep.Written, u.Path)
		if g.cfg.DryRun {
			_, _ = fmt.Fprintf(g.out, "write %s\n", u.Path)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return rep, fmt.Errorf("create directory for %s: %w", u.Path, err)
		}
		if err := os.WriteFile(dest, u.Source, 0o644); err != nil {
			return rep, fmt.Errorf("write %s: %w", u.Path, err)
		}
		g.logger.Debug("Wrote unit", "path", u.Path, "container", u.Container)
	}

	if g.cfg.Prune {
		for _, p := range snap.Generated {
			if fresh[p] {
				continue
			}
			rep.Pruned = append(rep.Pruned, p)
			if g.cfg.DryRun {
				_, _ = fmt.Fprintf(g.out, "remove %s\n", p)
				continue
			}
			if err := os.Remove(filepath.Join(g.cfg.Root, filepath.FromSlash(p))); err != nil && !errors.Is(err, os.ErrNotExist) {
				return rep, fmt.Errorf("prune %s: %w", p, err)
			}
			g.logger.Debug("Pruned stale unit", "path", p)
		}
	}

	g.logger.Info("Generation complete",
		"written", len(rep.Written),
		"unchanged", len(rep.Unchanged),
		"pruned", len(rep.Pruned),
		"dryRun", g.cfg.DryRun)
	return rep, nil
}

func (g *Generator) report(ctx context.Context, ds diag.Diagnostics) error {
	var enc *json.Encoder
	if g.cfg.Diagnostics == FormatJSON {
		enc = json.NewEncoder(g.out)
	}
	for _, d := range ds {
		g.logger.Log(ctx, level(d.Severity()), d.Message(),
			"code", d.Code(),
			"rule", d.Rule.Name,
			"pos", d.Pos.String())

		if enc != nil {
			if err := enc.Encode(d.Record()); err != nil {
				return fmt.Errorf("write diagnostic: %w", err)
			}
			continue
		}
		if _, err := fmt.Fprintln(g.out, d.String()); err != nil {
			return fmt.Errorf("write diagnostic: %w", err)
		}
	}
	return nil
}

func level(s diag.Severity) slog.Level {
	switch s {
	case diag.SeverityError:
		return slog.LevelError
	case diag.SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
