// Package extractor builds the metadata model for confirmed containers.
package extractor

import (
	"go/ast"

	"github.com/samber/lo"

	"github.com/Alia5/routegen/internal/codegen/annotation"
	"github.com/Alia5/routegen/internal/codegen/meta"
	"github.com/Alia5/routegen/internal/codegen/scanner"
)

var verbs = map[annotation.Kind]meta.Verb{
	annotation.KindGet:    meta.VerbGet,
	annotation.KindPost:   meta.VerbPost,
	annotation.KindPut:    meta.VerbPut,
	annotation.KindPatch:  meta.VerbPatch,
	annotation.KindDelete: meta.VerbDelete,
}

// Extract builds the container descriptor for c. Every verb-annotated method
// is recorded, including those that do not qualify as handlers; the
// validator decides what survives.
func Extract(snap *scanner.Snapshot, c scanner.Candidate) *meta.Container {
	r := resolver{pkg: c.Symbol.Package, imports: snap.Imports(c.File)}
	set := c.Annotations.For(annotation.TargetContainer)

	out := &meta.Container{
		Name:        c.Symbol.Name,
		Package:     c.Symbol.Package,
		PackageName: c.Symbol.PackageName,
		Dir:         c.Symbol.Dir,
		Pos:         c.Symbol.Pos,
		Static:      c.Symbol.Static,
		Modifiers:   r.modifiers(set),
	}
	if g, ok := set.First(annotation.KindGroup); ok && len(g.Args) > 0 {
		out.Group, _ = stringLit(g.Args[0])
	}

	for _, m := range c.Package.Methods(c.Symbol.Name) {
		if h := extractHandler(snap, c.Symbol.Package, m); h != nil {
			out.Handlers = append(out.Handlers, h)
		}
	}
	return out
}

func extractHandler(snap *scanner.Snapshot, pkg string, m scanner.Method) *meta.Handler {
	set := annotation.Set(annotation.ParseGroup(m.Decl.Doc))
	verbAnns := set.Verbs()
	if len(verbAnns) == 0 {
		return nil
	}
	r := resolver{pkg: pkg, imports: snap.Imports(m.File)}

	return &meta.Handler{
		Name: m.Decl.Name.Name,
		Pos:  meta.NewPosition(snap.Position(m.Decl.Name.Pos())),
		Verbs: lo.Map(verbAnns, func(a annotation.Annotation, _ int) meta.Verb {
			return verbs[a.Kind]
		}),
		Route:           r.route(verbAnns[0]),
		HasBody:         m.Decl.Body != nil,
		PointerReceiver: m.PointerReceiver,
		Async:           returnsError(m.Decl.Type),
		BadSignature:    !r.handlerSignature(m.Decl.Type),
		Modifiers:       r.modifiers(set.For(annotation.TargetHandler)),
	}
}

func returnsError(ft *ast.FuncType) bool {
	if ft.Results == nil || len(ft.Results.List) == 0 {
		return false
	}
	last := ft.Results.List[len(ft.Results.List)-1].Type
	id, ok := last.(*ast.Ident)
	return ok && id.Name == "error"
}

var (
	responseWriter = meta.TypeRef{Package: "net/http", Name: "ResponseWriter"}
	request        = meta.TypeRef{Package: "net/http", Name: "Request", Prefix: "*"}
)

// handlerSignature reports whether ft is
// func(http.ResponseWriter, *http.Request) with an optional error result.
func (r resolver) handlerSignature(ft *ast.FuncType) bool {
	if ft.TypeParams != nil && len(ft.TypeParams.List) > 0 {
		return false
	}
	var params []meta.TypeRef
	for _, f := range ft.Params.List {
		t, ok := r.typeRef(f.Type)
		if !ok {
			return false
		}
		for range max(1, len(f.Names)) {
			params = append(params, t)
		}
	}
	if len(params) != 2 || params[0] != responseWriter || params[1] != request {
		return false
	}

	if ft.Results == nil || len(ft.Results.List) == 0 {
		return true
	}
	if len(ft.Results.List) != 1 || len(ft.Results.List[0].Names) > 1 {
		return false
	}
	return returnsError(ft)
}
