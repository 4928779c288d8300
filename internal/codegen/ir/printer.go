package ir

import (
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"
)

// Print renders f as formatted Go source.
func Print(f *File) ([]byte, error) {
	var b strings.Builder
	if f.Header != "" {
		b.WriteString(f.Header)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "package %s\n", f.Package)

	if len(f.Imports) > 0 {
		imports := append([]Import(nil), f.Imports...)
		sort.Slice(imports, func(i, j int) bool { return imports[i].Path < imports[j].Path })
		b.WriteString("\nimport (\n")
		for _, imp := range imports {
			if imp.Name != "" {
				fmt.Fprintf(&b, "\t%s %s\n", imp.Name, strconv.Quote(imp.Path))
			} else {
				fmt.Fprintf(&b, "\t%s\n", strconv.Quote(imp.Path))
			}
		}
		b.WriteString(")\n")
	}

	for _, fn := range f.Funcs {
		b.WriteString("\n")
		if err := printFunc(&b, fn); err != nil {
			return nil, err
		}
	}

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", f.Package, err)
	}
	return src, nil
}

func printFunc(b *strings.Builder, fn *Func) error {
	for _, line := range fn.Doc {
		if line == "" {
			b.WriteString("//\n")
			continue
		}
		fmt.Fprintf(b, "// %s\n", line)
	}
	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		t, err := exprString(p.Type)
		if err != nil {
			return err
		}
		params = append(params, p.Name+" "+t)
	}
	results := make([]string, 0, len(fn.Results))
	for _, r := range fn.Results {
		t, err := exprString(r)
		if err != nil {
			return err
		}
		results = append(results, t)
	}

	fmt.Fprintf(b, "func %s(%s)", fn.Name, strings.Join(params, ", "))
	switch len(results) {
	case 0:
	case 1:
		b.WriteString(" " + results[0])
	default:
		b.WriteString(" (" + strings.Join(results, ", ") + ")")
	}
	b.WriteString(" {\n")

	for i, s := range fn.Body {
		if _, ok := s.(Return); ok && i > 0 {
			b.WriteString("\n")
		}
		line, err := stmtString(s)
		if err != nil {
			return err
		}
		b.WriteString("\t" + line + "\n")
	}
	b.WriteString("}\n")
	return nil
}

func stmtString(s Stmt) (string, error) {
	switch s := s.(type) {
	case Define:
		v, err := exprString(s.Value)
		if err != nil {
			return "", err
		}
		return s.Name + " := " + v, nil
	case ExprStmt:
		return exprString(s.X)
	case Return:
		if s.Value == nil {
			return "return", nil
		}
		v, err := exprString(s.Value)
		if err != nil {
			return "", err
		}
		return "return " + v, nil
	}
	return "", fmt.Errorf("unsupported statement %T", s)
}

func exprString(e Expr) (string, error) {
	switch e := e.(type) {
	case Ident:
		return e.Name, nil
	case Qualified:
		if e.Package == "" {
			return e.Name, nil
		}
		return e.Package + "." + e.Name, nil
	case String:
		return strconv.Quote(e.Value), nil
	case Int:
		return strconv.Itoa(e.Value), nil
	case Nil:
		return "nil", nil
	case Pointer:
		s, err := exprString(e.Elem)
		return "*" + s, err
	case Slice:
		s, err := exprString(e.Elem)
		return "[]" + s, err
	case New:
		s, err := exprString(e.Type)
		return "new(" + s + ")", err
	case MethodValue:
		s, err := exprString(e.Type)
		if err != nil {
			return "", err
		}
		if e.Pointer {
			return "(&" + s + "{})." + e.Method, nil
		}
		return s + "{}." + e.Method, nil
	case Call:
		fun, err := exprString(e.Fun)
		if err != nil {
			return "", err
		}
		args, err := argsString(e.Args)
		return fun + "(" + args + ")", err
	case Chain:
		recv, err := exprString(e.Recv)
		if err != nil {
			return "", err
		}
		var b strings.Builder
		b.WriteString(recv)
		for i, l := range e.Links {
			// a chain may only break after the selector dot
			if i > 0 {
				b.WriteString(".\n\t\t")
			} else {
				b.WriteString(".")
			}
			args, err := argsString(l.Args)
			if err != nil {
				return "", err
			}
			b.WriteString(l.Method + "(" + args + ")")
		}
		return b.String(), nil
	}
	return "", fmt.Errorf("unsupported expression %T", e)
}

func argsString(args []Expr) (string, error) {
	out := make([]string, 0, len(args))
	for _, a := range args {
		s, err := exprString(a)
		if err != nil {
			return "", err
		}
		out = append(out, s)
	}
	return strings.Join(out, ", "), nil
}
