package generator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Alia5/routegen/internal/codegen/common"
	"github.com/Alia5/routegen/internal/codegen/pipeline"
	"github.com/Alia5/routegen/internal/codegen/scanner"
)

// WatchCacheTTL is how long a watch session keeps pipeline results around.
// Reverting an edit within that window reuses the earlier result.
const WatchCacheTTL = 10 * time.Minute

// Watch generates once, then regenerates whenever a Go source file or go.mod
// below the root changes. Events are coalesced until the tree has been quiet
// for debounce. Failed or aborted runs are logged and the watch goes on. It
// returns nil once ctx is done.
func (g *Generator) Watch(ctx context.Context, debounce time.Duration) error {
	if g.runner.Cache == nil {
		g.runner.Cache = pipeline.NewCache(WatchCacheTTL)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go g.runner.Cache.Start(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	n, err := g.watchTree(watcher, g.cfg.Root)
	if err != nil {
		return err
	}
	g.logger.Info("Watching for changes", "root", g.cfg.Root, "directories", n, "debounce", debounce)

	done := make(chan struct{})
	runs := 0
	defer func() {
		cancel()
		for ; runs > 0; runs-- {
			<-done
		}
	}()
	start := func() {
		runs++
		go func() {
			g.regenerate(ctx)
			done <- struct{}{}
		}()
	}
	start()

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-done:
			runs--
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.logger.Warn("File watcher error", "error", err)
		case e, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if g.relevant(watcher, e) {
				g.logger.Debug("Source changed", "path", e.Name, "op", e.Op.String())
				timer.Reset(debounce)
			}
		case <-timer.C:
			start()
		}
	}
}

func (g *Generator) regenerate(ctx context.Context) {
	_, err := g.Generate(ctx)
	switch {
	case err == nil:
	case ctx.Err() != nil:
	case errors.Is(err, pipeline.ErrSuperseded):
		g.logger.Debug("Generation superseded by a newer change")
	case errors.Is(err, ErrAborted):
		g.logger.Warn("Generation aborted, waiting for changes", "error", err)
	default:
		g.logger.Error("Generation failed", "error", err)
	}
}

// watchTree adds dir and every source directory below it to the watcher.
func (g *Generator) watchTree(w *fsnotify.Watcher, dir string) (int, error) {
	dirs, err := scanner.SourceDirs(dir)
	if err != nil {
		return 0, fmt.Errorf("list source directories: %w", err)
	}
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			return 0, fmt.Errorf("watch %s: %w", d, err)
		}
	}
	return len(dirs), nil
}

// relevant reports whether e may change the generated output. New
// directories are added to the watcher as they appear.
func (g *Generator) relevant(w *fsnotify.Watcher, e fsnotify.Event) bool {
	if e.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if e.Has(fsnotify.Create) {
		if fi, err := os.Stat(e.Name); err == nil && fi.IsDir() {
			if _, err := g.watchTree(w, e.Name); err != nil {
				g.logger.Warn("Failed to watch new directory", "path", e.Name, "error", err)
			}
			return true
		}
	}

	name := filepath.Base(e.Name)
	switch {
	case name == "go.mod":
		return true
	case !strings.HasSuffix(name, ".go"), strings.HasSuffix(name, "_test.go"):
		return false
	case name == common.AggregatorFile, strings.HasSuffix(name, common.UnitSuffix):
		return false
	}
	return true
}
