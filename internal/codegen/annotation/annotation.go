// Package annotation defines the routegen directive vocabulary and parses
// directive comments into raw annotations.
//
// A directive is a line comment of the form
//
//	//route:<name>
//	//route:<name>(<args>)
//	//route:<name>[<type args>](<args>)
//
// where everything after the prefix is a Go expression. Arguments are kept as
// Go AST nodes; interpreting them is left to the extractor.
package annotation

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
)

// Prefix marks a comment line as a routegen directive.
const Prefix = "route:"

// ContainerMarker is the substring used by the scanner's cheap pre-filter.
const ContainerMarker = "endpoint"

// Kind enumerates the recognized directives.
type Kind int

const (
	KindUnknown Kind = iota
	KindEndpoint
	KindGroup
	KindGet
	KindPost
	KindPut
	KindPatch
	KindDelete
	KindAuthorize
	KindFilter
	KindTags
	KindName
	KindSummary
	KindDescription
	KindDisplayName
	KindAllowAnonymous
	KindProduces
	KindAccepts
	KindCors
)

// Target describes where a directive may appear.
type Target uint8

const (
	TargetContainer Target = 1 << iota
	TargetHandler
)

// Directive is the static description of one directive kind.
type Directive struct {
	Kind       Kind
	Name       string
	Targets    Target
	Repeatable bool
}

var directives = []Directive{
	{Kind: KindEndpoint, Name: "endpoint", Targets: TargetContainer},
	{Kind: KindGroup, Name: "group", Targets: TargetContainer},
	{Kind: KindGet, Name: "get", Targets: TargetHandler},
	{Kind: KindPost, Name: "post", Targets: TargetHandler},
	{Kind: KindPut, Name: "put", Targets: TargetHandler},
	{Kind: KindPatch, Name: "patch", Targets: TargetHandler},
	{Kind: KindDelete, Name: "delete", Targets: TargetHandler},
	{Kind: KindAuthorize, Name: "authorize", Targets: TargetContainer | TargetHandler},
	{Kind: KindFilter, Name: "filter", Targets: TargetContainer | TargetHandler, Repeatable: true},
	{Kind: KindTags, Name: "tags", Targets: TargetContainer | TargetHandler},
	{Kind: KindName, Name: "name", Targets: TargetContainer | TargetHandler},
	{Kind: KindSummary, Name: "summary", Targets: TargetContainer | TargetHandler},
	{Kind: KindDescription, Name: "description", Targets: TargetContainer | TargetHandler},
	{Kind: KindDisplayName, Name: "displayname", Targets: TargetContainer | TargetHandler},
	{Kind: KindAllowAnonymous, Name: "allowanonymous", Targets: TargetContainer | TargetHandler},
	{Kind: KindProduces, Name: "produces", Targets: TargetContainer | TargetHandler, Repeatable: true},
	{Kind: KindAccepts, Name: "accepts", Targets: TargetContainer | TargetHandler, Repeatable: true},
	{Kind: KindCors, Name: "cors", Targets: TargetContainer | TargetHandler, Repeatable: true},
}

var byName = func() map[string]Directive {
	m := make(map[string]Directive, len(directives))
	for _, s := range directives {
		m[s.Name] = s
	}
	return m
}()

// Lookup resolves a directive name to its directive. Names are matched exactly.
func Lookup(name string) (Directive, bool) {
	s, ok := byName[name]
	return s, ok
}

// DirectiveOf returns the directive for a kind.
func DirectiveOf(k Kind) Directive {
	for _, s := range directives {
		if s.Kind == k {
			return s
		}
	}
	return Directive{Kind: KindUnknown}
}

func (k Kind) String() string {
	if s := DirectiveOf(k); s.Kind != KindUnknown {
		return s.Name
	}
	return "unknown"
}

// IsVerb reports whether k is one of the five HTTP verb directives.
func (k Kind) IsVerb() bool {
	return k >= KindGet && k <= KindDelete
}

// Annotation is one parsed directive.
type Annotation struct {
	Kind     Kind
	TypeArgs []ast.Expr
	Args     []ast.Expr
	Pos      token.Pos
}

// Parse parses a single comment into an annotation. It reports false for
// comments that are not routegen directives, for unknown directive names and
// for malformed expressions.
func Parse(c *ast.Comment) (Annotation, bool) {
	text, ok := strings.CutPrefix(c.Text, "//"+Prefix)
	if !ok {
		return Annotation{}, false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Annotation{}, false
	}
	expr, err := parser.ParseExpr(text)
	if err != nil {
		return Annotation{}, false
	}

	a := Annotation{Pos: c.Slash}
	fun := expr
	if call, ok := expr.(*ast.CallExpr); ok {
		fun = call.Fun
		a.Args = call.Args
	}
	switch f := fun.(type) {
	case *ast.IndexExpr:
		fun = f.X
		a.TypeArgs = []ast.Expr{f.Index}
	case *ast.IndexListExpr:
		fun = f.X
		a.TypeArgs = f.Indices
	}
	ident, ok := fun.(*ast.Ident)
	if !ok {
		return Annotation{}, false
	}
	d, ok := Lookup(ident.Name)
	if !ok {
		return Annotation{}, false
	}
	a.Kind = d.Kind
	return a, true
}

// ParseGroup parses every directive in a doc comment, in source order.
func ParseGroup(doc *ast.CommentGroup) []Annotation {
	if doc == nil {
		return nil
	}
	var out []Annotation
	for _, c := range doc.List {
		if a, ok := Parse(c); ok {
			out = append(out, a)
		}
	}
	return out
}

// MentionsContainer is the cheap textual pre-filter: it reports whether any
// line of doc contains the container marker substring.
func MentionsContainer(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.Contains(c.Text, ContainerMarker) {
			return true
		}
	}
	return false
}

// Set is an ordered list of annotations attached to one declaration.
type Set []Annotation

// Has reports whether the set contains an annotation of kind k.
func (s Set) Has(k Kind) bool {
	_, ok := s.First(k)
	return ok
}

// First returns the first annotation of kind k.
func (s Set) First(k Kind) (Annotation, bool) {
	for _, a := range s {
		if a.Kind == k {
			return a, true
		}
	}
	return Annotation{}, false
}

// All returns every annotation of kind k in source order.
func (s Set) All(k Kind) []Annotation {
	var out []Annotation
	for _, a := range s {
		if a.Kind == k {
			out = append(out, a)
		}
	}
	return out
}

// For drops annotations that are not allowed on target t.
func (s Set) For(t Target) Set {
	var out Set
	for _, a := range s {
		if DirectiveOf(a.Kind).Targets&t != 0 {
			out = append(out, a)
		}
	}
	return out
}

// Verbs returns every verb annotation in source order.
func (s Set) Verbs() []Annotation {
	var out []Annotation
	for _, a := range s {
		if a.Kind.IsVerb() {
			out = append(out, a)
		}
	}
	return out
}
