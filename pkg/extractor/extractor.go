package extractor

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"strconv"
	"strings"

	"github.com/nwalker85/agentfoundry/pkg/ident"
)

// Extractor analyzes one handler module at a time. Stateless and safe
// for concurrent use.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Extract parses the module source and recovers per-handler metadata.
// It returns a structured error when the module does not parse or no
// container type (struct named *Workflow) exists. A single bad handler
// never aborts extraction of the others; failures land in
// Report.Diagnostics.
func (x *Extractor) Extract(src string) (*Report, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "module.go", src, parser.ParseComments)
	if err != nil {
		return nil, &ExtractError{Message: "module does not parse", Err: err}
	}

	container := findContainer(file)
	if container == nil {
		return nil, &ExtractError{Message: fmt.Sprintf("no handler container found (struct type ending in %q)", ContainerSuffix)}
	}

	report := &Report{
		Class: ClassInfo{Name: container.name, Doc: container.doc},
		Nodes: make(map[string]*NodeMetadata),
	}

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		switch {
		case isConstructor(fn, container.name):
			report.Class.Attributes = extractAttributes(fn, fset)
			if report.Class.Doc == "" {
				report.Class.Doc = docText(fn.Doc)
			}
		case receiverOf(fn) == container.name:
			if prefix, isHandler := handlerPrefix(fn.Name.Name); isHandler {
				meta := x.extractHandler(fn, fset, src, prefix, report)
				report.Nodes[meta.NodeID] = meta
			} else {
				report.BusinessMethods = append(report.BusinessMethods, businessMethod(fn, fset, src))
			}
		}
	}

	return report, nil
}

// container is the eligible handler type.
type containerInfo struct {
	name string
	doc  string
}

func findContainer(file *ast.File) *containerInfo {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			if _, isStruct := ts.Type.(*ast.StructType); !isStruct {
				continue
			}
			if !strings.HasSuffix(ts.Name.Name, ContainerSuffix) {
				continue
			}
			doc := docText(ts.Doc)
			if doc == "" {
				doc = docText(gd.Doc)
			}
			return &containerInfo{name: ts.Name.Name, doc: doc}
		}
	}
	return nil
}

func handlerPrefix(name string) (string, bool) {
	for _, prefix := range HandlerPrefixes {
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			return prefix, true
		}
	}
	return "", false
}

func receiverOf(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	switch t := fn.Recv.List[0].Type.(type) {
	case *ast.StarExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return id.Name
		}
	case *ast.Ident:
		return t.Name
	}
	return ""
}

func receiverName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 || len(fn.Recv.List[0].Names) == 0 {
		return ""
	}
	return fn.Recv.List[0].Names[0].Name
}

func isConstructor(fn *ast.FuncDecl, container string) bool {
	return fn.Recv == nil && fn.Name.Name == "New"+container
}

// extractHandler walks a single handler body. Any panic inside the
// walk is captured as a diagnostic so one malformed handler cannot
// take down the rest of the module.
func (x *Extractor) extractHandler(fn *ast.FuncDecl, fset *token.FileSet, src, prefix string, report *Report) (meta *NodeMetadata) {
	nodeID := ident.Sanitize(strings.TrimPrefix(fn.Name.Name, prefix))
	meta = &NodeMetadata{
		NodeID:     nodeID,
		Method:     fn.Name.Name,
		Doc:        docText(fn.Doc),
		SourceText: sourceOf(fn, fset, src),
	}

	defer func() {
		if r := recover(); r != nil {
			report.Diagnostics = append(report.Diagnostics, Diagnostic{
				Location: position(fset, fn.Pos()),
				Reason:   fmt.Sprintf("handler %s: %v", fn.Name.Name, r),
			})
		}
	}()

	if fn.Body == nil {
		report.Diagnostics = append(report.Diagnostics, Diagnostic{
			Location: position(fset, fn.Pos()),
			Reason:   fmt.Sprintf("handler %s has no body", fn.Name.Name),
		})
		return meta
	}

	recv := receiverName(fn)
	calls := make(map[string]bool)
	elseArms := make(map[*ast.IfStmt]bool)

	ast.Inspect(fn.Body, func(n ast.Node) bool {
		switch stmt := n.(type) {
		case *ast.AssignStmt:
			x.inspectAssign(stmt, fset, meta)
		case *ast.IfStmt:
			// Else-if arms were already consumed by their chain head.
			if !elseArms[stmt] {
				x.inspectIf(stmt, fset, meta, "if", elseArms)
			}
		case *ast.CallExpr:
			x.inspectCall(stmt, fset, recv, calls, meta)
		}
		return true
	})

	for name := range calls {
		meta.BusinessRuleCalls = append(meta.BusinessRuleCalls, name)
	}
	sort.Strings(meta.BusinessRuleCalls)
	return meta
}

// inspectAssign records prompt-template assignments and subscript
// writes into the conventional state variables.
func (x *Extractor) inspectAssign(stmt *ast.AssignStmt, fset *token.FileSet, meta *NodeMetadata) {
	for i, lhs := range stmt.Lhs {
		if i >= len(stmt.Rhs) {
			break
		}
		rhs := stmt.Rhs[i]

		if isPromptTarget(lhs) {
			meta.PromptTemplates = append(meta.PromptTemplates, PromptTemplate{
				Template: renderTemplate(rhs, fset),
				Line:     fset.Position(stmt.Pos()).Line,
			})
			continue
		}

		if index, ok := lhs.(*ast.IndexExpr); ok {
			variable, matched := stateVariable(index.X, fset)
			if !matched {
				continue
			}
			key := renderExpr(index.Index, fset)
			if lit, ok := stringLit(index.Index); ok {
				key = lit
			}
			meta.StateMutations = append(meta.StateMutations, StateMutation{
				Variable: variable,
				Key:      key,
				Value:    truncate(renderExpr(rhs, fset)),
				Line:     fset.Position(stmt.Pos()).Line,
			})
		}
	}
}

// inspectIf records branches that assign the prompt variable or test
// the discriminator, tagging else-if arms distinctly.
func (x *Extractor) inspectIf(stmt *ast.IfStmt, fset *token.FileSet, meta *NodeMetadata, kind string, elseArms map[*ast.IfStmt]bool) {
	if branchQualifies(stmt) {
		meta.Conditions = append(meta.Conditions, Condition{
			Expr:   renderExpr(stmt.Cond, fset),
			Branch: kind,
			Line:   fset.Position(stmt.Pos()).Line,
		})
	}
	if elseIf, ok := stmt.Else.(*ast.IfStmt); ok {
		elseArms[elseIf] = true
		x.inspectIf(elseIf, fset, meta, "else if", elseArms)
	}
}

// inspectCall records model-client constructions and receiver-method
// calls for business-rule cross-linking.
func (x *Extractor) inspectCall(call *ast.CallExpr, fset *token.FileSet, recv string, calls map[string]bool, meta *NodeMetadata) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return
	}

	if isModelConstructor(sel.Sel.Name) {
		constructor := sel.Sel.Name
		if pkg, ok := sel.X.(*ast.Ident); ok {
			constructor = pkg.Name + "." + constructor
		}
		meta.ModelConfig = &ModelConfig{
			Constructor: constructor,
			Args:        renderArgs(call.Args, fset),
		}
		return
	}

	base, ok := sel.X.(*ast.Ident)
	if !ok || recv == "" || base.Name != recv {
		return
	}
	if _, isHandler := handlerPrefix(sel.Sel.Name); isHandler {
		return
	}
	calls[sel.Sel.Name] = true
}

func isModelConstructor(name string) bool {
	for _, known := range ModelConstructors {
		if name == known {
			return true
		}
	}
	return false
}

// isPromptTarget matches `prompt = ...` and `x.prompt = ...`.
func isPromptTarget(expr ast.Expr) bool {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name == PromptVar
	case *ast.SelectorExpr:
		return e.Sel.Name == PromptVar
	}
	return false
}

// stateVariable matches the base of a subscript against the
// conventional state containers, tolerating selector paths such as
// state.Data or w.memory.
func stateVariable(base ast.Expr, fset *token.FileSet) (string, bool) {
	rendered := strings.ToLower(renderExpr(base, fset))
	for _, v := range StateVars {
		if rendered == v || strings.Contains(rendered, v) {
			return v, true
		}
	}
	return "", false
}

// branchQualifies reports whether an if statement is worth recording:
// its body assigns the prompt variable, or its condition tests the
// discriminator.
func branchQualifies(stmt *ast.IfStmt) bool {
	if mentionsIdent(stmt.Cond, DiscriminatorVar) {
		return true
	}
	assigns := false
	ast.Inspect(stmt.Body, func(n ast.Node) bool {
		if assigns {
			return false
		}
		if a, ok := n.(*ast.AssignStmt); ok {
			for _, lhs := range a.Lhs {
				if isPromptTarget(lhs) {
					assigns = true
				}
			}
		}
		return true
	})
	return assigns
}

func mentionsIdent(expr ast.Expr, name string) bool {
	found := false
	ast.Inspect(expr, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok && id.Name == name {
			found = true
		}
		if sel, ok := n.(*ast.SelectorExpr); ok && sel.Sel.Name == name {
			found = true
		}
		return !found
	})
	return found
}

func extractAttributes(fn *ast.FuncDecl, fset *token.FileSet) map[string]string {
	attrs := make(map[string]string)
	if fn.Body == nil {
		return attrs
	}
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.AssignStmt:
			// w.field = value
			for i, lhs := range node.Lhs {
				if i >= len(node.Rhs) {
					break
				}
				if sel, ok := lhs.(*ast.SelectorExpr); ok {
					attrs[sel.Sel.Name] = truncate(renderExpr(node.Rhs[i], fset))
				}
			}
		case *ast.CompositeLit:
			// &Workflow{field: value}
			for _, elt := range node.Elts {
				if kv, ok := elt.(*ast.KeyValueExpr); ok {
					if key, ok := kv.Key.(*ast.Ident); ok {
						attrs[key.Name] = truncate(renderExpr(kv.Value, fset))
					}
				}
			}
		}
		return true
	})
	return attrs
}

func businessMethod(fn *ast.FuncDecl, fset *token.FileSet, src string) BusinessMethod {
	m := BusinessMethod{
		Name:   fn.Name.Name,
		Doc:    docText(fn.Doc),
		Source: sourceOf(fn, fset, src),
	}
	if fn.Type.Params != nil {
		for _, field := range fn.Type.Params.List {
			typeText := renderExpr(field.Type, fset)
			if len(field.Names) == 0 {
				m.Params = append(m.Params, Param{Type: typeText})
				continue
			}
			for _, name := range field.Names {
				m.Params = append(m.Params, Param{Name: name.Name, Type: typeText})
			}
		}
	}
	return m
}

func docText(cg *ast.CommentGroup) string {
	if cg == nil {
		return ""
	}
	return strings.TrimSpace(cg.Text())
}

func sourceOf(fn *ast.FuncDecl, fset *token.FileSet, src string) string {
	start := fset.Position(fn.Pos()).Offset
	end := fset.Position(fn.End()).Offset
	if start < 0 || end > len(src) || start >= end {
		return ""
	}
	return src[start:end]
}

func position(fset *token.FileSet, pos token.Pos) string {
	p := fset.Position(pos)
	return fmt.Sprintf("line %d", p.Line)
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

const maxValueText = 80

func truncate(s string) string {
	if len(s) <= maxValueText {
		return s
	}
	return s[:maxValueText] + "..."
}
