// Package pipeline runs scan, extract, validate and emit over one snapshot.
package pipeline

import (
	"context"
	"path"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Alia5/routegen/internal/codegen/common"
	"github.com/Alia5/routegen/internal/codegen/diag"
	"github.com/Alia5/routegen/internal/codegen/emitter"
	"github.com/Alia5/routegen/internal/codegen/extractor"
	"github.com/Alia5/routegen/internal/codegen/meta"
	"github.com/Alia5/routegen/internal/codegen/scanner"
	"github.com/Alia5/routegen/internal/codegen/validator"
)

// DefaultAggregatorDir is where the aggregator unit goes unless configured.
const DefaultAggregatorDir = "routes"

// Options configure one run. Options are comparable and part of the cache
// key.
type Options struct {
	// AggregatorDir is module-relative.
	AggregatorDir string
	// AggregatorPackage overrides the package name of the aggregator unit.
	AggregatorPackage string
	// AggregatorFunc overrides emitter.DefaultAggregatorFunc.
	AggregatorFunc string
	// Routing overrides the import path of the routing API.
	Routing string
}

// Result is the outcome of one run. It is never mutated after Run returns.
type Result struct {
	Hash uint64
	// Metadata holds every extracted container, including the ones that did
	// not survive validation.
	Metadata    meta.Metadata
	Diagnostics diag.Diagnostics
	// Units is empty when the batch was aborted; otherwise it holds one unit
	// per surviving container followed by the aggregator.
	Units   []emitter.Unit
	Aborted bool
}

// Run executes the pipeline. It only fails on context cancellation or when
// generated source cannot be printed.
func Run(ctx context.Context, snap *scanner.Snapshot, opts Options) (*Result, error) {
	res := &Result{Hash: snap.Hash(), Metadata: meta.Metadata{Module: snap.Module}}

	cands := scanner.Scan(snap)
	containers := make([]*meta.Container, len(cands))
	if err := parallel(ctx, len(cands), func(i int) error {
		containers[i] = extractor.Extract(snap, cands[i])
		return nil
	}); err != nil {
		return nil, err
	}
	res.Metadata.Containers = containers

	target := aggregator(snap, opts)
	vr := validator.Validate(containers, target.ImportPath)
	res.Diagnostics = vr.Diagnostics
	if vr.Aborted() {
		res.Aborted = true
		return res, nil
	}
	if len(vr.Containers) == 0 {
		return res, nil
	}

	em := &emitter.Emitter{Routing: opts.Routing, PackageName: snap.PackageName}
	units := make([]emitter.Unit, len(vr.Containers))
	if err := parallel(ctx, len(vr.Containers), func(i int) error {
		u, err := em.Emit(vr.Containers[i])
		units[i] = u
		return err
	}); err != nil {
		return nil, err
	}

	agg, err := em.Aggregate(target, vr.Containers)
	if err != nil {
		return nil, err
	}
	res.Units = append(units, agg)
	return res, nil
}

// parallel calls fn for 0..n-1 on a bounded worker set. Results are written
// by index, so output order does not depend on scheduling.
func parallel(ctx context.Context, n int, fn func(i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range n {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func aggregator(snap *scanner.Snapshot, opts Options) emitter.Aggregator {
	dir := opts.AggregatorDir
	if dir == "" {
		dir = DefaultAggregatorDir
	}
	dir = path.Clean(dir)

	a := emitter.Aggregator{Dir: dir, ImportPath: snap.Module, Func: opts.AggregatorFunc, Package: opts.AggregatorPackage}
	if dir != "." {
		a.ImportPath = snap.Module + "/" + dir
	}
	if a.Package == "" {
		if p, ok := snap.Package(dir); ok {
			a.Package = p.Name
		} else {
			a.Package = common.PackageName(dir)
		}
	}
	return a
}
