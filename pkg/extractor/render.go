package extractor

import (
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"
	"strings"
)

// renderExpr prints an expression back to source text.
func renderExpr(expr ast.Expr, fset *token.FileSet) string {
	var b strings.Builder
	if err := printer.Fprint(&b, fset, expr); err != nil {
		return ""
	}
	return b.String()
}

// renderTemplate flattens a prompt expression into display text:
// string literals stay verbatim, fmt.Sprintf verbs are substituted
// with their arguments, and any other embedded expression is rendered
// as a bracketed placeholder.
func renderTemplate(expr ast.Expr, fset *token.FileSet) string {
	switch e := expr.(type) {
	case *ast.BasicLit:
		if s, ok := stringLit(e); ok {
			return s
		}
	case *ast.BinaryExpr:
		if e.Op == token.ADD {
			return renderTemplate(e.X, fset) + renderTemplate(e.Y, fset)
		}
	case *ast.CallExpr:
		if isSprintf(e) && len(e.Args) > 0 {
			if format, ok := stringLit(e.Args[0]); ok {
				return substituteVerbs(format, e.Args[1:], fset)
			}
		}
	case *ast.ParenExpr:
		return renderTemplate(e.X, fset)
	}
	return "[" + renderExpr(expr, fset) + "]"
}

// renderArgs flattens constructor arguments into a name -> text map.
// Struct-literal arguments contribute one entry per field; positional
// arguments fall back to argN keys.
func renderArgs(args []ast.Expr, fset *token.FileSet) map[string]string {
	out := make(map[string]string)
	for i, arg := range args {
		expr := arg
		if unary, ok := expr.(*ast.UnaryExpr); ok && unary.Op == token.AND {
			expr = unary.X
		}
		if lit, ok := expr.(*ast.CompositeLit); ok {
			for _, elt := range lit.Elts {
				if kv, ok := elt.(*ast.KeyValueExpr); ok {
					if key, ok := kv.Key.(*ast.Ident); ok {
						out[key.Name] = truncate(renderExpr(kv.Value, fset))
						continue
					}
				}
			}
			continue
		}
		out[argKey(i)] = truncate(renderExpr(arg, fset))
	}
	return out
}

func argKey(i int) string {
	return fmt.Sprintf("arg%d", i)
}

func isSprintf(call *ast.CallExpr) bool {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Sprintf" {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == "fmt"
}

// substituteVerbs replaces each %-verb in a Sprintf format with the
// matching argument as a bracketed placeholder. %% passes through as
// a literal percent sign.
func substituteVerbs(format string, args []ast.Expr, fset *token.FileSet) string {
	var b strings.Builder
	next := 0
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			b.WriteByte('%')
			i++
			continue
		}
		// Consume flags, width, and precision up to the verb rune.
		j := i + 1
		for j < len(format) && strings.ContainsRune("+-# 0123456789.*", rune(format[j])) {
			j++
		}
		if j < len(format) {
			j++ // the verb itself
		}
		if next < len(args) {
			b.WriteString("[" + renderExpr(args[next], fset) + "]")
			next++
		}
		i = j - 1
	}
	return b.String()
}
