package emitter

import (
	"path"
	"strconv"
	"strings"

	"github.com/Alia5/routegen/internal/codegen/common"
	"github.com/Alia5/routegen/internal/codegen/ir"
	"github.com/Alia5/routegen/internal/codegen/meta"
)

// imports assigns import names for one generated file. Names are handed out
// in first-use order, so identical input yields identical aliases.
type imports struct {
	self   string
	names  func(string) (string, bool)
	byPath map[string]string
	taken  map[string]string
	order  []string
}

func newImports(self string, names func(string) (string, bool), reserved ...string) *imports {
	im := &imports{self: self, names: names, byPath: map[string]string{}, taken: map[string]string{}}
	for _, r := range reserved {
		im.taken[r] = ""
	}
	return im
}

// qualify returns the name to reference importPath with, adding the import
// when needed. The file's own package and predeclared types need none.
func (im *imports) qualify(importPath string) string {
	if importPath == "" || importPath == im.self {
		return ""
	}
	if n, ok := im.byPath[importPath]; ok {
		return n
	}
	base := im.packageName(importPath)
	name := base
	for i := 2; ; i++ {
		if _, used := im.taken[name]; !used {
			break
		}
		name = base + strconv.Itoa(i)
	}
	im.taken[name] = importPath
	im.byPath[importPath] = name
	im.order = append(im.order, importPath)
	return name
}

func (im *imports) packageName(importPath string) string {
	if im.names != nil {
		if n, ok := im.names(importPath); ok {
			return n
		}
	}
	return common.ImportName(importPath)
}

// list returns the import specs. An explicit name is written whenever the
// assigned name could differ from the imported package's own name.
func (im *imports) list() []ir.Import {
	out := make([]ir.Import, 0, len(im.order))
	for _, p := range im.order {
		name := im.byPath[p]
		declared := path.Base(p)
		if im.names != nil {
			if n, ok := im.names(p); ok {
				declared = n
			}
		}
		imp := ir.Import{Path: p}
		if name != declared {
			imp.Name = name
		}
		out = append(out, imp)
	}
	return out
}

// typeExpr renders a type reference, e.g. "[]*pkg.T".
func (im *imports) typeExpr(t meta.TypeRef) ir.Expr {
	var e ir.Expr = ir.Qualified{Package: im.qualify(t.Package), Name: t.Name}
	var wrappers []string
	for p := t.Prefix; p != ""; {
		switch {
		case strings.HasPrefix(p, "*"):
			wrappers = append(wrappers, "*")
			p = p[1:]
		case strings.HasPrefix(p, "[]"):
			wrappers = append(wrappers, "[]")
			p = p[2:]
		default:
			p = ""
		}
	}
	for i := len(wrappers) - 1; i >= 0; i-- {
		if wrappers[i] == "*" {
			e = ir.Pointer{Elem: e}
		} else {
			e = ir.Slice{Elem: e}
		}
	}
	return e
}
