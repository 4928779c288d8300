// Package scanner discovers endpoint containers in a snapshot of Go sources.
package scanner

import (
	"go/ast"
	"go/token"

	"github.com/Alia5/routegen/internal/codegen/annotation"
	"github.com/Alia5/routegen/internal/codegen/meta"
)

// Symbol is the resolved identity of a container type.
type Symbol struct {
	Name        string
	Package     string
	PackageName string
	Dir         string
	Pos         meta.Position
	Static      bool
}

// Candidate is a confirmed container declaration.
type Candidate struct {
	Symbol      Symbol
	Package     *Package
	File        *File
	Spec        *ast.TypeSpec
	Annotations annotation.Set
}

// Scan returns every confirmed container in the snapshot, ordered by package
// import path, file name and declaration order.
func Scan(snap *Snapshot) []Candidate {
	var out []Candidate
	for _, pkg := range snap.Packages() {
		for _, f := range pkg.Files {
			for _, decl := range f.AST.Decls {
				gd, ok := decl.(*ast.GenDecl)
				if !ok || gd.Tok != token.TYPE {
					continue
				}
				for _, s := range gd.Specs {
					ts := s.(*ast.TypeSpec)
					doc := ts.Doc
					if doc == nil && len(gd.Specs) == 1 {
						doc = gd.Doc
					}
					if !annotation.MentionsContainer(doc) {
						continue
					}
					set := annotation.Set(annotation.ParseGroup(doc))
					if !set.Has(annotation.KindEndpoint) {
						continue
					}
					out = append(out, Candidate{
						Symbol: Symbol{
							Name:        ts.Name.Name,
							Package:     pkg.ImportPath,
							PackageName: pkg.Name,
							Dir:         pkg.Dir,
							Pos:         meta.NewPosition(snap.Position(ts.Name.Pos())),
							Static:      isStatic(ts),
						},
						Package:     pkg,
						File:        f,
						Spec:        ts,
						Annotations: set,
					})
				}
			}
		}
	}
	return out
}

// isStatic reports whether ts declares an empty struct without type
// parameters. Aliases never qualify.
func isStatic(ts *ast.TypeSpec) bool {
	if ts.Assign.IsValid() || (ts.TypeParams != nil && len(ts.TypeParams.List) > 0) {
		return false
	}
	st, ok := ts.Type.(*ast.StructType)
	return ok && (st.Fields == nil || len(st.Fields.List) == 0)
}
