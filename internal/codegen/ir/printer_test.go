package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func routerType() Expr { return Qualified{Package: "routing", Name: "Router"} }

func TestPrintRegistrationUnit(t *testing.T) {
	group := (&Chain{Recv: Ident{Name: "r"}}).
		Then("Group", String{Value: "/users"}).
		Then("AddFilter", New{Type: Qualified{Package: "audit", Name: "Filter"}})
	route := (&Chain{Recv: Ident{Name: "group"}}).
		Then("Get", String{Value: "/{id}"}, MethodValue{Type: Ident{Name: "Users"}, Method: "GetByID"}).
		Then("RequireAuthorization", String{Value: "Admin"}).
		Then("Produces", Int{Value: 200}, New{Type: Pointer{Elem: Ident{Name: "User"}}}, String{Value: "application/json"}).
		Then("Produces", Int{Value: 404}, Nil{})
	del := (&Chain{Recv: Ident{Name: "group"}}).
		Then("Delete", String{Value: "/{id}"}, Call{
			Fun:  Qualified{Package: "routing", Name: "ErrorHandler"},
			Args: []Expr{MethodValue{Type: Ident{Name: "Users"}, Pointer: true, Method: "Remove"}},
		})

	f := &File{
		Header:  "// Code generated by routegen. DO NOT EDIT.",
		Package: "api",
		Imports: []Import{
			{Path: "github.com/Alia5/routegen/routing"},
			{Path: "example.com/shop/internal/audit"},
		},
		Funcs: []*Func{{
			Doc:     []string{"MapUsers registers the endpoints of Users.", "", "Group: /users"},
			Name:    "MapUsers",
			Params:  []Param{{Name: "r", Type: routerType()}},
			Results: []Expr{routerType()},
			Body: []Stmt{
				Define{Name: "group", Value: group.Expr()},
				ExprStmt{X: route.Expr()},
				ExprStmt{X: del.Expr()},
				Return{Value: Ident{Name: "r"}},
			},
		}},
	}

	got, err := Print(f)
	require.NoError(t, err)

	want := `// Code generated by routegen. DO NOT EDIT.

package api

import (
	"example.com/shop/internal/audit"
	"github.com/Alia5/routegen/routing"
)

// MapUsers registers the endpoints of Users.
//
// Group: /users
func MapUsers(r routing.Router) routing.Router {
	group := r.Group("/users").
		AddFilter(new(audit.Filter))
	group.Get("/{id}", Users{}.GetByID).
		RequireAuthorization("Admin").
		Produces(200, new(*User), "application/json").
		Produces(404, nil)
	group.Delete("/{id}", routing.ErrorHandler((&Users{}).Remove))

	return r
}
`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("Print() mismatch (-want +got):\n%s", diff)
	}
}

func TestPrintEscapesStrings(t *testing.T) {
	f := &File{
		Package: "p",
		Funcs: []*Func{{
			Name: "F",
			Body: []Stmt{ExprStmt{X: Call{Fun: Ident{Name: "println"}, Args: []Expr{String{Value: "a \"quoted\"\nline\t`x`"}}}}},
		}},
	}
	got, err := Print(f)
	require.NoError(t, err)
	assert.Contains(t, string(got), `println("a \"quoted\"\nline\t`+"`x`"+`")`)
}

func TestPrintAliasedImportsAndTypes(t *testing.T) {
	f := &File{
		Package: "routes",
		Imports: []Import{{Name: "api2", Path: "example.com/b/api"}, {Path: "example.com/a/api"}},
		Funcs: []*Func{{
			Name:    "F",
			Results: []Expr{Slice{Elem: Pointer{Elem: Qualified{Package: "api2", Name: "T"}}}, Ident{Name: "error"}},
			Body:    []Stmt{Return{Value: Ident{Name: "nil, nil"}}},
		}},
	}
	got, err := Print(f)
	require.NoError(t, err)
	assert.Contains(t, string(got), "\t\"example.com/a/api\"\n\tapi2 \"example.com/b/api\"\n")
	assert.Contains(t, string(got), "func F() ([]*api2.T, error) {")
}

func TestPrintRejectsInvalidSource(t *testing.T) {
	_, err := Print(&File{Package: "p", Funcs: []*Func{{Name: "F", Body: []Stmt{ExprStmt{X: Ident{Name: "+"}}}}}})
	assert.Error(t, err)
}

func TestChainWithoutLinks(t *testing.T) {
	c := &Chain{Recv: Ident{Name: "r"}}
	assert.Equal(t, Ident{Name: "r"}, c.Expr())
	assert.Equal(t, Chain{Recv: Ident{Name: "r"}, Links: []Link{{Method: "X"}}}, c.Then("X").Expr())
}
