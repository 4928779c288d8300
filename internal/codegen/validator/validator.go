// Package validator applies the diagnostic rules to extracted containers and
// decides which containers and handlers survive into emission.
package validator

import (
	"strings"

	"github.com/samber/lo"

	"github.com/Alia5/routegen/internal/codegen/diag"
	"github.com/Alia5/routegen/internal/codegen/meta"
)

// Result is the outcome of validating one batch.
type Result struct {
	// Containers holds fresh copies of the surviving containers, each with
	// only its qualifying handlers, in input order.
	Containers  []*meta.Container
	Diagnostics diag.Diagnostics
}

// Aborted reports whether a batch-aborting diagnostic was raised. An aborted
// batch must not produce any output.
func (r Result) Aborted() bool {
	return r.Diagnostics.HasEffect(diag.EffectAbortBatch)
}

// Validate checks every container in order. Diagnostics are reported in
// declaration order: the container itself, its handlers, then the
// container-level outcome. aggregator is the import path of the package
// that will call every surviving container.
func Validate(containers []*meta.Container, aggregator string) Result {
	var res Result
	for _, c := range containers {
		survivor, ds := validateContainer(c, aggregator)
		res.Diagnostics = append(res.Diagnostics, ds...)
		if survivor != nil {
			res.Containers = append(res.Containers, survivor)
		}
	}
	return res
}

func validateContainer(c *meta.Container, aggregator string) (*meta.Container, diag.Diagnostics) {
	var ds diag.Diagnostics
	if !c.Static {
		ds = append(ds, diag.New(diag.ContainerMustBeStatic, c.Pos, c.Name))
	}

	var handlers []*meta.Handler
	for _, h := range c.Handlers {
		if len(h.Verbs) > 1 {
			verbs := lo.Map(h.Verbs, func(v meta.Verb, _ int) string { return string(v) })
			ds = append(ds, diag.New(diag.HandlerMultipleVerbs, h.Pos, h.Name, strings.Join(verbs, ", ")))
		}
		if !h.HasBody {
			ds = append(ds, diag.New(diag.HandlerMissingBody, h.Pos, h.Name))
		}
		if h.BadSignature {
			ds = append(ds, diag.New(diag.HandlerInvalidSignature, h.Pos, h.Name))
		}
		if h.Qualifies() {
			handlers = append(handlers, h)
		}
	}

	if len(handlers) == 0 {
		ds = append(ds, diag.New(diag.ContainerHasNoHandlers, c.Pos, c.Name))
		return nil, ds
	}
	if c.Group == "" && !c.Modifiers.Empty() {
		ds = append(ds, diag.New(diag.ContainerModifiersWithoutGroup, c.Pos, c.Name))
	}
	if c.PackageName == "main" && c.Package != aggregator {
		ds = append(ds, diag.New(diag.ContainerInMainPackage, c.Pos, c.Name, aggregator))
		return nil, ds
	}
	if !c.Static {
		return nil, ds
	}
	return c.WithHandlers(handlers), ds
}
