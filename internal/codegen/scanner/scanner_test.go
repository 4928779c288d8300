package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersSrc = `package api

import (
	"net/http"

	authz "example.com/shop/internal/auth"
	"example.com/shop/internal/audit/v2"
)

// Users groups user endpoints.
//
//route:endpoint
//route:group("/users")
type Users struct{}

// Stateful mentions endpoint but carries no directive.
type Stateful struct{ n int }

//route:endpoint
type Generic[T any] struct{}

//route:endpoint
type Alias = struct{}

type (
	//route:endpoint
	Orders struct{}
	Ignored struct{}
)

//route:get("/{id}")
func (Users) GetByID(w http.ResponseWriter, r *http.Request) {}

func (*Users) Delete(w http.ResponseWriter, r *http.Request) {}

func (g Generic[T]) List() {}

var _ = authz.Policy{}
var _ = audit.Filter{}
`

type testCase struct {
	name string
	run  func(t *testing.T)
}

func newSnapshot(t *testing.T) *Snapshot {
	t.Helper()
	snap := NewSnapshot("example.com/shop")
	require.NoError(t, snap.AddFile("api", "users.go", []byte(usersSrc)))
	require.NoError(t, snap.AddFile("api", "admin.go", []byte("package api\n\n//route:endpoint\ntype Admin struct{}\n")))
	require.NoError(t, snap.AddFile(".", "main.go", []byte("package main\n\n//route:endpoint\ntype Root struct{}\n")))
	return snap
}

func TestScannerSuite(t *testing.T) {
	cases := []testCase{
		{
			name: "Scan confirms containers in deterministic order",
			run: func(t *testing.T) {
				got := Scan(newSnapshot(t))
				var names []string
				for _, c := range got {
					names = append(names, c.Symbol.Name)
				}
				assert.Equal(t, []string{"Root", "Admin", "Users", "Generic", "Alias", "Orders"}, names)
			},
		},
		{
			name: "Scan resolves symbols",
			run: func(t *testing.T) {
				byName := map[string]Symbol{}
				for _, c := range Scan(newSnapshot(t)) {
					byName[c.Symbol.Name] = c.Symbol
				}
				users := byName["Users"]
				assert.Equal(t, "example.com/shop/api", users.Package)
				assert.Equal(t, "api", users.PackageName)
				assert.Equal(t, "api", users.Dir)
				assert.Equal(t, "api/users.go", users.Pos.Filename)
				assert.Equal(t, 14, users.Pos.Line)
				assert.True(t, users.Static)

				assert.Equal(t, "example.com/shop", byName["Root"].Package)
				assert.False(t, byName["Generic"].Static)
				assert.False(t, byName["Alias"].Static)
				assert.True(t, byName["Orders"].Static)
			},
		},
		{
			name: "Methods binds value, pointer and generic receivers",
			run: func(t *testing.T) {
				pkg, ok := newSnapshot(t).Package("api")
				require.True(t, ok)

				ms := pkg.Methods("Users")
				require.Len(t, ms, 2)
				assert.Equal(t, "GetByID", ms[0].Decl.Name.Name)
				assert.False(t, ms[0].PointerReceiver)
				assert.Equal(t, "Delete", ms[1].Decl.Name.Name)
				assert.True(t, ms[1].PointerReceiver)

				assert.Len(t, pkg.Methods("Generic"), 1)
				assert.Empty(t, pkg.Methods("Stateful"))
			},
		},
		{
			name: "File imports resolve aliases and versioned paths",
			run: func(t *testing.T) {
				snap := newSnapshot(t)
				pkg, _ := snap.Package("api")
				var users *File
				for _, f := range pkg.Files {
					if f.Name == "users.go" {
						users = f
					}
				}
				require.NotNil(t, users)
				assert.Equal(t, map[string]string{
					"http":  "net/http",
					"authz": "example.com/shop/internal/auth",
					"audit": "example.com/shop/internal/audit/v2",
				}, snap.Imports(users))
			},
		},
		{
			name: "Imports use the declared name of module packages",
			run: func(t *testing.T) {
				snap := NewSnapshot("example.com/shop")
				require.NoError(t, snap.AddFile("internal/handlers", "audit.go", []byte("package api\n\ntype Audit struct{}\n")))
				require.NoError(t, snap.AddFile("users", "users.go", []byte("package users\n\nimport (\n\t\"example.com/shop/internal/handlers\"\n\t\"example.com/other/handlers\"\n)\n")))

				pkg, ok := snap.Package("users")
				require.True(t, ok)
				assert.Equal(t, map[string]string{
					"api":      "example.com/shop/internal/handlers",
					"handlers": "example.com/other/handlers",
				}, snap.Imports(pkg.Files[0]))

				name, ok := snap.PackageName("example.com/shop/internal/handlers")
				assert.True(t, ok)
				assert.Equal(t, "api", name)
				_, ok = snap.PackageName("example.com/shopping/users")
				assert.False(t, ok)
				_, ok = snap.PackageName("example.com/shop")
				assert.False(t, ok)
			},
		},
		{
			name: "Hash follows content",
			run: func(t *testing.T) {
				a, b := newSnapshot(t), newSnapshot(t)
				assert.Equal(t, a.Hash(), b.Hash())
				require.NoError(t, b.AddFile("api", "extra.go", []byte("package api\n")))
				assert.NotEqual(t, a.Hash(), b.Hash())
			},
		},
		{
			name: "AddFile rejects conflicts and syntax errors",
			run: func(t *testing.T) {
				snap := newSnapshot(t)
				assert.Error(t, snap.AddFile("api", "users.go", []byte("package api\n")))
				assert.Error(t, snap.AddFile("api", "other.go", []byte("package other\n")))
				assert.Error(t, snap.AddFile("api", "broken.go", []byte("package api\nfunc {")))
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, c.run)
	}
}

func TestLoadSnapshot(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	write("go.mod", "module example.com/shop\n\ngo 1.25\n")
	write("api/users.go", "package api\n\n//route:endpoint\ntype Users struct{}\n")
	write("api/users_test.go", "package api\n")
	write("api/users_endpoints.gen.go", "// Code generated by routegen. DO NOT EDIT.\n\npackage api\n")
	write("vendor/x/x.go", "package x\n")
	write("testdata/t.go", "package t\n")
	write("_scratch/s.go", "package s\n")
	write(".hidden/h.go", "package h\n")
	write("nested/go.mod", "module example.com/nested\n")
	write("nested/n.go", "package nested\n")

	snap, err := LoadSnapshot(root)
	require.NoError(t, err)
	assert.Equal(t, "example.com/shop", snap.Module)
	assert.Equal(t, []string{"api/users_endpoints.gen.go"}, snap.Generated)

	pkgs := snap.Packages()
	require.Len(t, pkgs, 1)
	assert.Equal(t, "example.com/shop/api", pkgs[0].ImportPath)
	require.Len(t, pkgs[0].Files, 1)
	assert.Equal(t, "api/users.go", pkgs[0].Files[0].Path)

	cands := Scan(snap)
	require.Len(t, cands, 1)
	assert.Equal(t, "Users", cands[0].Symbol.Name)

	dirs, err := SourceDirs(root)
	require.NoError(t, err)
	assert.Equal(t, []string{root, filepath.Join(root, "api")}, dirs)
}

func TestLoadSnapshotRequiresModule(t *testing.T) {
	_, err := LoadSnapshot(t.TempDir())
	assert.Error(t, err)
}
