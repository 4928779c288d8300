// Package emitter renders validated containers into registration units and
// the aggregator unit.
package emitter

import (
	"fmt"
	"path"

	"github.com/Alia5/routegen/internal/codegen/common"
	"github.com/Alia5/routegen/internal/codegen/ir"
	"github.com/Alia5/routegen/internal/codegen/meta"
)

// RoutingImport is the import path of the host routing API.
const RoutingImport = "github.com/Alia5/routegen/routing"

const (
	rootVar  = "r"
	groupVar = "group"
)

var verbMethods = map[meta.Verb]string{
	meta.VerbGet:    "Get",
	meta.VerbPost:   "Post",
	meta.VerbPut:    "Put",
	meta.VerbPatch:  "Patch",
	meta.VerbDelete: "Delete",
}

// Unit is one generated source file.
type Unit struct {
	// Path is module-relative and slash separated.
	Path    string
	Package string
	// Container is the qualified container name; empty for the aggregator.
	Container string
	Source    []byte
}

// Emitter holds the settings shared by every unit of a run.
type Emitter struct {
	// Routing overrides RoutingImport.
	Routing string
	// PackageName resolves the declared name of an imported package when it
	// is known, e.g. for packages of the scanned module.
	PackageName func(importPath string) (string, bool)
}

func (e *Emitter) routing() string {
	if e.Routing != "" {
		return e.Routing
	}
	return RoutingImport
}

// Build returns the IR of c's registration unit. c must be validated.
func (e *Emitter) Build(c *meta.Container) *ir.File {
	im := newImports(c.Package, e.PackageName, rootVar, groupVar)
	routing := im.qualify(e.routing())
	routerType := ir.Qualified{Package: routing, Name: "Router"}

	var body []ir.Stmt
	root := ir.Ident{Name: rootVar}
	doc := []string{fmt.Sprintf("%s registers the endpoints of %s.", c.RegistrationFunc(), c.Name)}

	if c.Group != "" {
		group := (&ir.Chain{Recv: root}).Then("Group", ir.String{Value: c.Group})
		modifiers(group, im, c.Modifiers)
		body = append(body, ir.Define{Name: groupVar, Value: group.Expr()})
		root = ir.Ident{Name: groupVar}
	}

	for _, h := range c.Handlers {
		var handler ir.Expr = ir.MethodValue{Type: ir.Ident{Name: c.Name}, Pointer: h.PointerReceiver, Method: h.Name}
		if h.Async {
			handler = ir.Call{Fun: ir.Qualified{Package: routing, Name: "ErrorHandler"}, Args: []ir.Expr{handler}}
		}
		route := (&ir.Chain{Recv: root}).Then(verbMethods[h.Verb()], ir.String{Value: h.Route}, handler)
		modifiers(route, im, h.Modifiers)
		body = append(body, ir.ExprStmt{X: route.Expr()})
	}
	body = append(body, ir.Return{Value: ir.Ident{Name: rootVar}})

	return &ir.File{
		Header:  common.GeneratedHeader(),
		Package: c.PackageName,
		Imports: im.list(),
		Funcs: []*ir.Func{{
			Doc:     doc,
			Name:    c.RegistrationFunc(),
			Params:  []ir.Param{{Name: rootVar, Type: routerType}},
			Results: []ir.Expr{routerType},
			Body:    body,
		}},
	}
}

// Emit renders c's registration unit.
func (e *Emitter) Emit(c *meta.Container) (Unit, error) {
	src, err := ir.Print(e.Build(c))
	if err != nil {
		return Unit{}, fmt.Errorf("emit %s: %w", c.QualifiedName(), err)
	}
	return Unit{
		Path:      path.Join(c.Dir, common.UnitFileName(c.Name)),
		Package:   c.Package,
		Container: c.QualifiedName(),
		Source:    src,
	}, nil
}

// modifiers appends the modifier links in their fixed order: filters, tags,
// summary, description, name, authorization, allow-anonymous, display name,
// produces, accepts, cors.
func modifiers(chain *ir.Chain, im *imports, m meta.Modifiers) {
	for _, f := range m.Filters {
		// filters are registered as *T
		if f.Prefix == "*" {
			f.Prefix = ""
		}
		chain.Then("AddFilter", ir.New{Type: im.typeExpr(f)})
	}
	if len(m.Tags) > 0 {
		chain.Then("WithTags", stringExprs(m.Tags)...)
	}
	if m.Summary != "" {
		chain.Then("WithSummary", ir.String{Value: m.Summary})
	}
	if m.Description != "" {
		chain.Then("WithDescription", ir.String{Value: m.Description})
	}
	if m.Name != "" {
		chain.Then("WithName", ir.String{Value: m.Name})
	}
	if a := m.Authorization; a != nil {
		switch a.Mode {
		case meta.AuthPolicyNames:
			if len(a.PolicyNames) > 0 {
				chain.Then("RequireAuthorization", stringExprs(a.PolicyNames)...)
			}
		case meta.AuthPolicyType:
			if a.PolicyType != nil {
				chain.Then("RequireAuthorizationPolicy", ir.New{Type: im.typeExpr(*a.PolicyType)})
			}
		case meta.AuthAuthorizeData:
			if len(a.AuthorizeDataTypes) > 0 {
				args := make([]ir.Expr, 0, len(a.AuthorizeDataTypes))
				for _, t := range a.AuthorizeDataTypes {
					args = append(args, ir.New{Type: im.typeExpr(t)})
				}
				chain.Then("RequireAuthorizationData", args...)
			}
		}
	}
	if m.AllowAnonymous {
		chain.Then("AllowAnonymous")
	}
	if m.DisplayName != "" {
		chain.Then("WithDisplayName", ir.String{Value: m.DisplayName})
	}
	for _, p := range m.Produces {
		args := []ir.Expr{ir.Int{Value: p.StatusCode}, ir.Nil{}}
		if p.ResponseType != nil {
			args[1] = ir.New{Type: im.typeExpr(*p.ResponseType)}
		}
		if p.ContentType != "" {
			args = append(args, ir.String{Value: p.ContentType})
		}
		chain.Then("Produces", args...)
	}
	for _, a := range m.Accepts {
		args := []ir.Expr{ir.New{Type: im.typeExpr(a.RequestType)}, ir.String{Value: a.ContentType}}
		args = append(args, stringExprs(a.AdditionalContentTypes)...)
		chain.Then("Accepts", args...)
	}
	for _, policy := range m.Cors {
		chain.Then("RequireCors", ir.String{Value: policy})
	}
}

func stringExprs(values []string) []ir.Expr {
	out := make([]ir.Expr, 0, len(values))
	for _, v := range values {
		out = append(out, ir.String{Value: v})
	}
	return out
}
