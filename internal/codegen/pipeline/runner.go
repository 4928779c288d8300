package pipeline

import (
	"context"
	"errors"
	"sync"

	"github.com/Alia5/routegen/internal/codegen/scanner"
)

// ErrSuperseded is returned by Runner.Run when a newer run was started
// before this one finished. Its partial results are discarded.
var ErrSuperseded = errors.New("pipeline run superseded")

type runFunc func(ctx context.Context, snap *scanner.Snapshot, opts Options) (*Result, error)

// Runner serializes incremental runs: starting a run cancels the one in
// flight.
type Runner struct {
	Cache *Cache

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	run    runFunc
}

func (r *Runner) runFunc() runFunc {
	switch {
	case r.run != nil:
		return r.run
	case r.Cache != nil:
		return func(ctx context.Context, snap *scanner.Snapshot, opts Options) (*Result, error) {
			res, _, err := r.Cache.Run(ctx, snap, opts)
			return res, err
		}
	default:
		return Run
	}
}

// Run starts a run for snap, superseding any in-flight run.
func (r *Runner) Run(ctx context.Context, snap *scanner.Snapshot, opts Options) (*Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.gen++
	gen := r.gen
	r.cancel = cancel
	run := r.runFunc()
	r.mu.Unlock()

	res, err := run(ctx, snap, opts)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return nil, ErrSuperseded
	}
	r.cancel = nil
	if err != nil {
		return nil, err
	}
	return res, nil
}
