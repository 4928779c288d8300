package cmd

import "github.com/Alia5/routegen/internal/codegen/pipeline"

// Target selects the module and where its aggregator unit goes. generate and
// scan share it, so a scan reports exactly the units generate would write.
type Target struct {
	Root    string `help:"Module root, the directory holding go.mod" default:"." type:"existingdir" env:"ROUTEGEN_ROOT"`
	Out     string `help:"Module-relative directory of the aggregator unit" default:"routes" env:"ROUTEGEN_OUT"`
	Package string `help:"Package name of the aggregator unit. Defaults to the package already in --out, else the directory name" env:"ROUTEGEN_PACKAGE"`
	Func    string `help:"Name of the aggregator function" default:"MapEndpoints" env:"ROUTEGEN_FUNC"`
	Routing string `help:"Import path of the routing API referenced by generated code" default:"github.com/Alia5/routegen/routing" env:"ROUTEGEN_ROUTING"`
}

func (t Target) options() pipeline.Options {
	return pipeline.Options{
		AggregatorDir:     t.Out,
		AggregatorPackage: t.Package,
		AggregatorFunc:    t.Func,
		Routing:           t.Routing,
	}
}
