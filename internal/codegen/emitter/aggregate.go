package emitter

import (
	"fmt"
	"path"

	"github.com/Alia5/routegen/internal/codegen/common"
	"github.com/Alia5/routegen/internal/codegen/ir"
	"github.com/Alia5/routegen/internal/codegen/meta"
)

// DefaultAggregatorFunc is the name of the umbrella registration procedure.
const DefaultAggregatorFunc = "MapEndpoints"

// Aggregator describes where the aggregator unit is written.
type Aggregator struct {
	// Dir is the module-relative output directory.
	Dir string
	// ImportPath of the package in Dir.
	ImportPath string
	// Package is the package name used for the unit.
	Package string
	// Func defaults to DefaultAggregatorFunc.
	Func string
}

func (a Aggregator) funcName() string {
	if a.Func != "" {
		return a.Func
	}
	return DefaultAggregatorFunc
}

// BuildAggregate returns the IR of the aggregator unit calling every
// container's registration procedure in order.
func (e *Emitter) BuildAggregate(a Aggregator, containers []*meta.Container) *ir.File {
	im := newImports(a.ImportPath, e.PackageName, rootVar)
	routing := im.qualify(e.routing())
	routerType := ir.Qualified{Package: routing, Name: "Router"}

	body := make([]ir.Stmt, 0, len(containers)+1)
	for _, c := range containers {
		body = append(body, ir.ExprStmt{X: ir.Call{
			Fun:  ir.Qualified{Package: im.qualify(c.Package), Name: c.RegistrationFunc()},
			Args: []ir.Expr{ir.Ident{Name: rootVar}},
		}})
	}
	body = append(body, ir.Return{Value: ir.Ident{Name: rootVar}})

	return &ir.File{
		Header:  common.GeneratedHeader(),
		Package: a.Package,
		Imports: im.list(),
		Funcs: []*ir.Func{{
			Doc:     []string{fmt.Sprintf("%s registers every generated endpoint container on r.", a.funcName())},
			Name:    a.funcName(),
			Params:  []ir.Param{{Name: rootVar, Type: routerType}},
			Results: []ir.Expr{routerType},
			Body:    body,
		}},
	}
}

// Aggregate renders the aggregator unit.
func (e *Emitter) Aggregate(a Aggregator, containers []*meta.Container) (Unit, error) {
	src, err := ir.Print(e.BuildAggregate(a, containers))
	if err != nil {
		return Unit{}, fmt.Errorf("emit aggregator: %w", err)
	}
	return Unit{
		Path:    path.Join(a.Dir, common.AggregatorFile),
		Package: a.ImportPath,
		Source:  src,
	}, nil
}
