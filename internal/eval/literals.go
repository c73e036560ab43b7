package eval

import (
	"strings"

	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/scope"
	"github.com/kbridge/pytype/internal/types"
)

// evalNumber implements Literals for numeric literals: int unless
// the lexeme carries a float or complex marker.
func (e *Evaluator) evalNumber(n *pytree.NumberLit) Result {
	switch {
	case n.IsComplex:
		return Result{Type: types.ObjectOf(types.Builtins.Complex)}
	case n.IsFloat:
		return Result{Type: types.FloatObj()}
	default:
		return Result{Type: types.IntLiteral(parseIntLiteral(n.Raw))}
	}
}

// parseIntLiteral is a best-effort decimal/hex/octal/binary literal reader;
// unparseable lexemes (overflow, exotic underscores) fall back to 0, which
// only affects the exact literal value tracked, not its type.
func parseIntLiteral(raw string) int64 {
	s := strings.ReplaceAll(raw, "_", "")
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	base := int64(10)
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		base = 16
		s = s[2:]
	case strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O"):
		base = 8
		s = s[2:]
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		base = 2
		s = s[2:]
	}
	var v int64
	for _, r := range s {
		d := int64(-1)
		switch {
		case r >= '0' && r <= '9':
			d = int64(r - '0')
		case r >= 'a' && r <= 'f':
			d = int64(r-'a') + 10
		case r >= 'A' && r <= 'F':
			d = int64(r-'A') + 10
		}
		if d < 0 || d >= base {
			return 0
		}
		v = v*base + d
	}
	if neg {
		v = -v
	}
	return v
}

// evalNameConstant implements Literals for True/False/None/....
func (e *Evaluator) evalNameConstant(n *pytree.NameConstant) Result {
	switch n.Kind {
	case pytree.ConstTrue:
		return Result{Type: types.BoolLiteral(true)}
	case pytree.ConstFalse:
		return Result{Type: types.BoolLiteral(false)}
	case pytree.ConstNone:
		return Result{Type: types.NoneT}
	case pytree.ConstEllipsis:
		return Result{Type: types.Ellipsis}
	}
	return Result{Type: types.Unknown}
}

// evalTuple implements Containers for a tuple literal: a fixed
// Tuple type built from each element's evaluated type.
func (e *Evaluator) evalTuple(n *pytree.TupleExpr, flags Flags) Result {
	entries := make([]types.Type, len(n.Elts))
	for i, el := range n.Elts {
		entries[i] = e.Eval(el, flags).Type
	}
	return Result{Type: &types.Tuple{BaseClass: types.Builtins.Object, Entries: entries}, TypeList: entries}
}

// evalComprehension implements Containers: every comprehension
// form introduces its for-clauses' bare-name targets as Unknown-typed
// locals of a temporary scope (tuple targets are not unpacked); the
// element's type does not refine the comprehension's container.
func (e *Evaluator) evalComprehension(n *pytree.Comprehension, flags Flags) Result {
	inner := *e
	inner.Scope = scope.New(scope.KindTemporary, e.Scope)
	for _, clause := range n.For {
		inner.Eval(clause.Iter, Flags{})
		if name, ok := clause.Target.(*pytree.Name); ok {
			inner.Scope.Declare(name.Value, name.ID(), scope.CategoryVariable, types.Unknown)
		}
		for _, cond := range clause.Ifs {
			inner.Eval(cond, Flags{})
		}
	}
	switch n.Kind {
	case pytree.CompDict:
		if n.Key != nil {
			inner.Eval(n.Key, flags)
		}
		inner.Eval(n.Elt, flags)
		return Result{Type: types.GenericOf(types.Builtins.Dict, types.Unknown, types.Unknown)}
	case pytree.CompSet:
		inner.Eval(n.Elt, flags)
		return Result{Type: types.GenericOf(types.Builtins.Set, types.Unknown)}
	case pytree.CompGenerator:
		inner.Eval(n.Elt, flags)
		return Result{Type: types.Unknown}
	default:
		inner.Eval(n.Elt, flags)
		return Result{Type: types.GenericOf(types.Builtins.List, types.Unknown)}
	}
}
