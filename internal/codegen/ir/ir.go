// Package ir is the intermediate representation of generated registration
// units: a small Go subset covering route groups, route registrations and
// modifier chains. Print renders it into gofmt'ed source.
package ir

// File is one generated Go source file.
type File struct {
	Header  string
	Package string
	Imports []Import
	Funcs   []*Func
}

// Import is one import spec. Name is empty when the default package name is
// used.
type Import struct {
	Name string
	Path string
}

// Func is a top-level function declaration.
type Func struct {
	Doc     []string
	Name    string
	Params  []Param
	Results []Expr
	Body    []Stmt
}

// Param is one function parameter.
type Param struct {
	Name string
	Type Expr
}

// Stmt is a statement inside a function body.
type Stmt interface{ stmt() }

// Define is `Name := Value`.
type Define struct {
	Name  string
	Value Expr
}

// ExprStmt evaluates an expression for its side effects.
type ExprStmt struct {
	X Expr
}

// Return is `return Value`.
type Return struct {
	Value Expr
}

func (Define) stmt()   {}
func (ExprStmt) stmt() {}
func (Return) stmt()   {}

// Expr is an expression.
type Expr interface{ expr() }

// Ident is a bare identifier.
type Ident struct {
	Name string
}

// Qualified is `Package.Name` where Package is an import name.
type Qualified struct {
	Package string
	Name    string
}

// String is a string literal.
type String struct {
	Value string
}

// Int is an integer literal.
type Int struct {
	Value int
}

// Nil is the nil literal.
type Nil struct{}

// Pointer is the type `*Elem`.
type Pointer struct {
	Elem Expr
}

// Slice is the type `[]Elem`.
type Slice struct {
	Elem Expr
}

// New is `new(Type)`.
type New struct {
	Type Expr
}

// MethodValue is `T{}.Method` or `(&T{}).Method`.
type MethodValue struct {
	Type    Expr
	Pointer bool
	Method  string
}

// Call is `Fun(Args...)`.
type Call struct {
	Fun  Expr
	Args []Expr
}

// Link is one method call of a Chain.
type Link struct {
	Method string
	Args   []Expr
}

// Chain is `Recv.M1(...).M2(...)...`; every link after the first starts on
// its own line.
type Chain struct {
	Recv  Expr
	Links []Link
}

func (Ident) expr()       {}
func (Qualified) expr()   {}
func (String) expr()      {}
func (Int) expr()         {}
func (Nil) expr()         {}
func (Pointer) expr()     {}
func (Slice) expr()       {}
func (New) expr()         {}
func (MethodValue) expr() {}
func (Call) expr()        {}
func (Chain) expr()       {}

// Then appends a link to the chain.
func (c *Chain) Then(method string, args ...Expr) *Chain {
	c.Links = append(c.Links, Link{Method: method, Args: args})
	return c
}

// Expr returns the chain, or Recv alone when there are no links.
func (c *Chain) Expr() Expr {
	if len(c.Links) == 0 {
		return c.Recv
	}
	return *c
}
