package extractor

import (
	"go/ast"
	"go/token"
	"go/types"
	"strconv"

	"github.com/samber/lo"

	"github.com/Alia5/routegen/internal/codegen/annotation"
	"github.com/Alia5/routegen/internal/codegen/meta"
)

// resolver interprets directive arguments in the scope of one source file.
// Unrecognized shapes resolve to "absent", never to an error.
type resolver struct {
	pkg     string
	imports map[string]string
}

func (r resolver) typeRef(expr ast.Expr) (meta.TypeRef, bool) {
	switch e := expr.(type) {
	case *ast.ParenExpr:
		return r.typeRef(e.X)
	case *ast.StarExpr:
		t, ok := r.typeRef(e.X)
		t.Prefix = "*" + t.Prefix
		return t, ok
	case *ast.ArrayType:
		if e.Len != nil {
			return meta.TypeRef{}, false
		}
		t, ok := r.typeRef(e.Elt)
		t.Prefix = "[]" + t.Prefix
		return t, ok
	case *ast.Ident:
		if obj := types.Universe.Lookup(e.Name); obj != nil {
			if _, isType := obj.(*types.TypeName); !isType {
				return meta.TypeRef{}, false
			}
			return meta.TypeRef{Name: e.Name}, true
		}
		return meta.TypeRef{Package: r.pkg, Name: e.Name}, true
	case *ast.SelectorExpr:
		x, ok := e.X.(*ast.Ident)
		if !ok {
			return meta.TypeRef{}, false
		}
		p, ok := r.imports[x.Name]
		if !ok {
			return meta.TypeRef{}, false
		}
		return meta.TypeRef{Package: p, Name: e.Sel.Name}, true
	}
	return meta.TypeRef{}, false
}

func isNil(expr ast.Expr) bool {
	id, ok := expr.(*ast.Ident)
	return ok && id.Name == "nil"
}

func stringLit(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return s, true
}

func intLit(expr ast.Expr) (int, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0, false
	}
	n, err := strconv.ParseInt(lit.Value, 0, 0)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// compositeOf returns the elements of a slice literal whose element type is
// the named identifier, e.g. []string{...} or []any{...}.
func compositeOf(expr ast.Expr, elem ...string) ([]ast.Expr, bool) {
	cl, ok := expr.(*ast.CompositeLit)
	if !ok {
		return nil, false
	}
	at, ok := cl.Type.(*ast.ArrayType)
	if !ok || at.Len != nil {
		return nil, false
	}
	switch t := at.Elt.(type) {
	case *ast.Ident:
		if !lo.Contains(elem, t.Name) {
			return nil, false
		}
	case *ast.InterfaceType:
		if !lo.Contains(elem, "any") || (t.Methods != nil && len(t.Methods.List) > 0) {
			return nil, false
		}
	default:
		return nil, false
	}
	return cl.Elts, true
}

// stringList collects every string literal of a []string composite.
func stringList(expr ast.Expr) ([]string, bool) {
	elts, ok := compositeOf(expr, "string")
	if !ok {
		return nil, false
	}
	return lo.FilterMap(elts, func(e ast.Expr, _ int) (string, bool) {
		return stringLit(e)
	}), true
}

// stringArgs collects string arguments; a single []string argument is flattened.
func stringArgs(args []ast.Expr) ([]string, bool) {
	if len(args) == 0 {
		return nil, false
	}
	if list, ok := stringList(args[0]); ok {
		return list, true
	}
	out := make([]string, 0, len(args))
	for _, a := range args {
		if list, ok := stringList(a); ok {
			out = append(out, list...)
			continue
		}
		s, ok := stringLit(a)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

func (r resolver) route(a annotation.Annotation) string {
	if len(a.Args) == 0 {
		return "/"
	}
	if s, ok := stringLit(a.Args[0]); ok {
		return s
	}
	if lit, ok := a.Args[0].(*ast.BasicLit); ok {
		return lit.Value
	}
	return "/"
}

func (r resolver) authorization(set annotation.Set) *meta.Authorization {
	a, ok := set.First(annotation.KindAuthorize)
	if !ok {
		return nil
	}
	if len(a.Args) == 0 {
		if len(a.TypeArgs) == 1 {
			if t, ok := r.typeRef(a.TypeArgs[0]); ok {
				return meta.PolicyType(t)
			}
		}
		return nil
	}

	first := a.Args[0]
	if names, ok := stringList(first); ok {
		return policyNames(names)
	}
	if names, ok := stringArgs(a.Args); ok {
		return policyNames(names)
	}
	if len(a.Args) == 1 {
		if t, ok := r.typeRef(first); ok {
			return meta.PolicyType(t)
		}
	}
	if elts, ok := compositeOf(first, "any"); ok {
		refs := lo.FilterMap(elts, func(e ast.Expr, _ int) (meta.TypeRef, bool) {
			return r.typeRef(e)
		})
		if len(refs) > 0 {
			return meta.AuthorizeData(refs...)
		}
	}
	return nil
}

func policyNames(names []string) *meta.Authorization {
	if len(names) == 0 {
		return nil
	}
	return meta.PolicyNames(names...)
}

func (r resolver) filters(set annotation.Set) []meta.TypeRef {
	return lo.FilterMap(set.All(annotation.KindFilter), func(a annotation.Annotation, _ int) (meta.TypeRef, bool) {
		if len(a.TypeArgs) == 1 {
			return r.typeRef(a.TypeArgs[0])
		}
		if len(a.Args) > 0 {
			return r.typeRef(a.Args[0])
		}
		return meta.TypeRef{}, false
	})
}

func (r resolver) tags(set annotation.Set) []string {
	a, ok := set.First(annotation.KindTags)
	if !ok {
		return nil
	}
	tags, _ := stringArgs(a.Args)
	return tags
}

func (r resolver) text(set annotation.Set, k annotation.Kind) string {
	a, ok := set.First(k)
	if !ok || len(a.Args) == 0 {
		return ""
	}
	s, _ := stringLit(a.Args[0])
	return s
}

func (r resolver) produces(set annotation.Set) []meta.Produces {
	return lo.FilterMap(set.All(annotation.KindProduces), func(a annotation.Annotation, _ int) (meta.Produces, bool) {
		if len(a.Args) == 0 {
			return meta.Produces{}, false
		}
		status, ok := intLit(a.Args[0])
		if !ok {
			return meta.Produces{}, false
		}
		p := meta.Produces{StatusCode: status}
		rest := a.Args[1:]

		if len(a.TypeArgs) == 1 {
			if t, ok := r.typeRef(a.TypeArgs[0]); ok {
				p.ResponseType = &t
			}
			if len(rest) > 0 {
				p.ContentType, _ = stringLit(rest[0])
			}
			return p, true
		}

		if len(rest) > 0 && !isNil(rest[0]) {
			if ct, ok := stringLit(rest[0]); ok {
				p.ContentType = ct
				return p, true
			}
			if t, ok := r.typeRef(rest[0]); ok {
				p.ResponseType = &t
			}
		}
		if len(rest) > 0 {
			rest = rest[1:]
		}
		if len(rest) > 0 {
			p.ContentType, _ = stringLit(rest[0])
		}
		return p, true
	})
}

func (r resolver) accepts(set annotation.Set) []meta.Accepts {
	return lo.FilterMap(set.All(annotation.KindAccepts), func(a annotation.Annotation, _ int) (meta.Accepts, bool) {
		var (
			t    meta.TypeRef
			ok   bool
			rest []ast.Expr
		)
		if len(a.TypeArgs) == 1 {
			t, ok = r.typeRef(a.TypeArgs[0])
			rest = a.Args
		} else if len(a.Args) > 0 {
			t, ok = r.typeRef(a.Args[0])
			rest = a.Args[1:]
		}
		if !ok || len(rest) == 0 {
			return meta.Accepts{}, false
		}
		ct, ok := stringLit(rest[0])
		if !ok || ct == "" {
			return meta.Accepts{}, false
		}
		acc := meta.Accepts{RequestType: t, ContentType: ct}
		if len(rest) > 1 {
			acc.AdditionalContentTypes, _ = stringArgs(rest[1:])
		}
		return acc, true
	})
}

func (r resolver) cors(set annotation.Set) []string {
	return lo.Map(set.All(annotation.KindCors), func(a annotation.Annotation, _ int) string {
		if len(a.Args) == 0 {
			return ""
		}
		s, _ := stringLit(a.Args[0])
		return s
	})
}

func (r resolver) modifiers(set annotation.Set) meta.Modifiers {
	return meta.Modifiers{
		Filters:        orNil(r.filters(set)),
		Tags:           r.tags(set),
		Summary:        r.text(set, annotation.KindSummary),
		Description:    r.text(set, annotation.KindDescription),
		Name:           r.text(set, annotation.KindName),
		Authorization:  r.authorization(set),
		AllowAnonymous: set.Has(annotation.KindAllowAnonymous),
		DisplayName:    r.text(set, annotation.KindDisplayName),
		Produces:       orNil(r.produces(set)),
		Accepts:        orNil(r.accepts(set)),
		Cors:           orNil(r.cors(set)),
	}
}

func orNil[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
