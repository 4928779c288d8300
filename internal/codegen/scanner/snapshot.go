package scanner

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/mod/modfile"

	"github.com/Alia5/routegen/internal/codegen/common"
)

// Snapshot is an immutable view of a module's Go sources. A snapshot is built
// once per run and shared read-only by every pipeline stage.
type Snapshot struct {
	Module string
	Fset   *token.FileSet

	// Generated lists module-relative paths of files previously written by
	// routegen. They are not parsed.
	Generated []string

	pkgs    map[string]*Package
	sources map[string][]byte
}

// Package groups the files of one directory.
type Package struct {
	Dir        string
	ImportPath string
	Name       string
	Files      []*File
}

// File is one parsed source file.
type File struct {
	Name string
	Path string
	AST  *ast.File
}

// Method is a method declaration bound to a receiver type.
type Method struct {
	File            *File
	Decl            *ast.FuncDecl
	PointerReceiver bool
}

// NewSnapshot returns an empty snapshot for module.
func NewSnapshot(module string) *Snapshot {
	return &Snapshot{
		Module:  module,
		Fset:    token.NewFileSet(),
		pkgs:    map[string]*Package{},
		sources: map[string][]byte{},
	}
}

// AddFile parses src as the file name in the module-relative directory dir.
func (s *Snapshot) AddFile(dir, name string, src []byte) error {
	dir = path.Clean(filepath.ToSlash(dir))
	p := path.Join(dir, name)
	af, err := parser.ParseFile(s.Fset, p, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return fmt.Errorf("parse %s: %w", p, err)
	}

	pkg, ok := s.pkgs[dir]
	if !ok {
		pkg = &Package{Dir: dir, ImportPath: importPath(s.Module, dir), Name: af.Name.Name}
		s.pkgs[dir] = pkg
	}
	if pkg.Name != af.Name.Name {
		return fmt.Errorf("%s: package %s conflicts with package %s in %s", p, af.Name.Name, pkg.Name, dir)
	}

	f := &File{Name: name, Path: p, AST: af}
	i := sort.Search(len(pkg.Files), func(i int) bool { return pkg.Files[i].Name >= name })
	if i < len(pkg.Files) && pkg.Files[i].Name == name {
		return fmt.Errorf("%s: duplicate file", p)
	}
	pkg.Files = append(pkg.Files, nil)
	copy(pkg.Files[i+1:], pkg.Files[i:])
	pkg.Files[i] = f
	s.sources[p] = src
	return nil
}

// Package returns the package in dir.
func (s *Snapshot) Package(dir string) (*Package, bool) {
	p, ok := s.pkgs[dir]
	return p, ok
}

// Packages returns every package ordered by import path.
func (s *Snapshot) Packages() []*Package {
	out := make([]*Package, 0, len(s.pkgs))
	for _, p := range s.pkgs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ImportPath < out[j].ImportPath })
	return out
}

// Hash fingerprints the snapshot contents.
func (s *Snapshot) Hash() uint64 {
	paths := make([]string, 0, len(s.sources))
	for p := range s.sources {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	h := xxhash.New()
	_, _ = h.WriteString(s.Module)
	for _, p := range paths {
		_, _ = h.WriteString("\x00" + p + "\x00")
		_, _ = h.Write(s.sources[p])
	}
	return h.Sum64()
}

// Position resolves pos against the snapshot's file set.
func (s *Snapshot) Position(pos token.Pos) token.Position {
	return s.Fset.Position(pos)
}

// Methods returns every method declared on the named receiver type, in file
// name order and then declaration order.
func (p *Package) Methods(recv string) []Method {
	var out []Method
	for _, f := range p.Files {
		for _, d := range f.AST.Decls {
			fd, ok := d.(*ast.FuncDecl)
			if !ok || fd.Recv == nil || len(fd.Recv.List) == 0 {
				continue
			}
			name, ptr := receiverBase(fd.Recv.List[0].Type)
			if name == recv {
				out = append(out, Method{File: f, Decl: fd, PointerReceiver: ptr})
			}
		}
	}
	return out
}

func receiverBase(expr ast.Expr) (string, bool) {
	ptr := false
	if star, ok := expr.(*ast.StarExpr); ok {
		ptr = true
		expr = star.X
	}
	switch e := expr.(type) {
	case *ast.IndexExpr:
		expr = e.X
	case *ast.IndexListExpr:
		expr = e.X
	}
	if id, ok := expr.(*ast.Ident); ok {
		return id.Name, ptr
	}
	return "", ptr
}

func importPath(module, dir string) string {
	if dir == "." || dir == "" {
		return module
	}
	return module + "/" + dir
}

// PackageName returns the declared name of the package with importPath,
// when that package belongs to the module.
func (s *Snapshot) PackageName(importPath string) (string, bool) {
	rel, ok := strings.CutPrefix(importPath, s.Module)
	if !ok {
		return "", false
	}
	dir := "."
	if rel != "" {
		if rel[0] != '/' {
			return "", false
		}
		dir = rel[1:]
	}
	p, ok := s.pkgs[dir]
	if !ok {
		return "", false
	}
	return p.Name, true
}

// Imports maps the names f refers to its imports by onto import paths.
// Unaliased imports of module packages use the declared package name; other
// names are derived from the import path.
func (s *Snapshot) Imports(f *File) map[string]string {
	out := make(map[string]string, len(f.AST.Imports))
	for _, imp := range f.AST.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		name, ok := s.PackageName(p)
		if !ok {
			name = common.ImportName(p)
		}
		if imp.Name != nil {
			name = imp.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		out[name] = p
	}
	return out
}

// IsGenerated reports whether src was written by routegen.
func IsGenerated(src []byte) bool {
	return bytes.HasPrefix(src, []byte(common.GeneratedMarker))
}

var skipDirs = map[string]bool{"vendor": true, "testdata": true}

// skipDir reports whether the directory p, named name, is left out of the
// module: vendored, hidden, ignored by the go tool, or a nested module.
func skipDir(p, name string) bool {
	if skipDirs[name] || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return true
	}
	_, err := os.Stat(filepath.Join(p, "go.mod"))
	return err == nil
}

// SourceDirs lists dir and every directory below it that LoadSnapshot would
// read.
func SourceDirs(dir string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && skipDir(p, d.Name()) {
			return filepath.SkipDir
		}
		dirs = append(dirs, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

// LoadSnapshot reads every Go source file of the module rooted at root.
func LoadSnapshot(root string) (*Snapshot, error) {
	modData, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		return nil, fmt.Errorf("read go.mod: %w", err)
	}
	module := modfile.ModulePath(modData)
	if module == "" {
		return nil, fmt.Errorf("%s: no module directive", filepath.Join(root, "go.mod"))
	}

	snap := NewSnapshot(module)
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if skipDir(p, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(rel, ".go") || strings.HasSuffix(rel, "_test.go") {
			return nil
		}
		src, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}
		if IsGenerated(src) {
			snap.Generated = append(snap.Generated, rel)
			return nil
		}
		return snap.AddFile(path.Dir(rel), path.Base(rel), src)
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(snap.Generated)
	return snap, nil
}
