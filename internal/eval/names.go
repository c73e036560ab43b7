package eval

import (
	"github.com/kbridge/pytype/internal/diag"
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/scope"
	"github.com/kbridge/pytype/internal/types"
)

// evalName implements Name semantics: resolve the symbol; use
// its declared type if present; if the primary declaration is a
// non-variable, use its current type; if resolution crossed out of the
// local scope, use the aggregator's combined type; else use current. Then
// apply active constraints, then conditional specialization.
func (e *Evaluator) evalName(n *pytree.Name, flags Flags) Result {
	sym, owner, ok := e.Scope.Resolve(n.Value)
	if !ok {
		e.report(diag.NotDefined, "name '"+n.Value+"' is not defined")
		return Result{Type: types.Unknown}
	}

	var t types.Type
	switch {
	case sym.Declarations[0].Declared != nil:
		t = sym.Declarations[0].Declared
	case sym.Declarations[0].Category != scope.CategoryVariable:
		t = sym.Current()
	case owner != e.Scope:
		t = sym.Inferred.Get()
	default:
		t = sym.Current()
	}

	sym.Accessed = true
	t = e.Scope.ApplyConstraints(sym, t)

	if flags.ConvertClassToObject {
		t = convertClassToObject(t)
	}
	if !flags.DoNotSpecialize {
		t = types.Specialize(t, nil)
	}
	return Result{Type: t}
}

// SymbolOf resolves n's Symbol for the constraint engine's Derive, returning
// nil for anything other than a bare name (an attribute access has no single
// Symbol to key a narrowing fact by).
func (e *Evaluator) SymbolOf(n pytree.Expr) *scope.Symbol {
	name, ok := n.(*pytree.Name)
	if !ok {
		return nil
	}
	sym, _, ok := e.Scope.Resolve(name.Value)
	if !ok {
		return nil
	}
	return sym
}

// convertClassToObject turns a bare Class reference into Object(Class),
// the default behavior in annotation position.
func convertClassToObject(t types.Type) types.Type {
	if c, ok := t.(*types.Class); ok {
		return types.ObjectOf(c)
	}
	return t
}
