package check

import (
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/scope"
	"github.com/kbridge/pytype/internal/types"
)

// BindModule implements the hoisting half of Parse→Bind→Check
// pipeline: every class, function, module-level variable, and import target
// gets a Symbol before Check ever evaluates a function body, so forward
// references within one file resolve regardless of textual order.
func BindModule(mod *pytree.Module, ctx *Context) {
	bindBody(mod.Body, ctx.ModuleScope)
}

func bindBody(body []pytree.Stmt, s *scope.Scope) {
	for _, stmt := range body {
		bindStmt(stmt, s)
	}
}

func bindStmt(stmt pytree.Stmt, s *scope.Scope) {
	switch st := stmt.(type) {
	case *pytree.ClassDef:
		if _, ok := s.LocalLookup(st.Name); !ok {
			sym := s.Declare(st.Name, st.ID(), scope.CategoryClass, nil)
			sym.Inferred.Add(st.ID(), types.NewClass(st.Name))
		}
	case *pytree.FunctionDef:
		if _, ok := s.LocalLookup(st.Name); !ok {
			cat := scope.CategoryFunction
			if s.Kind == scope.KindClass {
				cat = scope.CategoryMethod
			}
			s.Declare(st.Name, st.ID(), cat, nil)
		}
	case *pytree.Assign:
		for _, t := range st.Targets {
			bindAssignTarget(t, s, st.Annotation)
		}
	case *pytree.ForStmt:
		bindAssignTarget(st.Target, s, nil)
		bindBody(st.Body, s)
		bindBody(st.Else, s)
	case *pytree.WhileStmt:
		bindBody(st.Body, s)
		bindBody(st.Orelse, s)
	case *pytree.IfStmt:
		bindBody(st.Body, s)
		bindBody(st.Orelse, s)
	case *pytree.WithStmt:
		for _, item := range st.Items {
			if item.Target != nil {
				bindAssignTarget(item.Target, s, nil)
			}
		}
		bindBody(st.Body, s)
	case *pytree.TryStmt:
		bindBody(st.Body, s)
		for _, h := range st.Handlers {
			if h.Name != "" {
				if _, ok := s.LocalLookup(h.Name); !ok {
					s.Declare(h.Name, 0, scope.CategoryVariable, nil)
				}
			}
			bindBody(h.Body, s)
		}
		bindBody(st.Else, s)
		bindBody(st.Finally, s)
	case *pytree.ImportStmt:
		for _, n := range st.Names {
			name := n.Alias
			if name == "" {
				name = n.Parts[0]
			}
			if _, ok := s.LocalLookup(name); !ok {
				s.Declare(name, st.ID(), scope.CategoryModule, nil)
			}
		}
	case *pytree.ImportFromStmt:
		for _, sym := range st.Symbols {
			if sym.Name == "*" {
				continue
			}
			name := sym.Alias
			if name == "" {
				name = sym.Name
			}
			if _, ok := s.LocalLookup(name); !ok {
				s.Declare(name, st.ID(), scope.CategoryAlias, nil)
			}
		}
	}
}

func bindAssignTarget(t pytree.Expr, s *scope.Scope, annotation pytree.Expr) {
	switch v := t.(type) {
	case *pytree.Name:
		if _, ok := s.LocalLookup(v.Value); !ok {
			s.Declare(v.Value, v.ID(), scope.CategoryVariable, nil)
		}
	case *pytree.TupleExpr:
		for _, e := range v.Elts {
			bindAssignTarget(e, s, nil)
		}
	case *pytree.ListExpr:
		for _, e := range v.Elts {
			bindAssignTarget(e, s, nil)
		}
	case *pytree.Starred:
		bindAssignTarget(v.Value, s, nil)
	}
}
