// Package constraints implements the Type Constraint Engine: it
// derives narrowing facts from conditional test expressions (isinstance(x,
// T), `x is None`, truthy tests) and pushes/pops them on a scope's
// constraint stack around the branches that should see them.
package constraints

import (
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/scope"
	"github.com/kbridge/pytype/internal/types"
)

// Derive computes the positive-branch and negative-branch constraint sets
// implied by test, keyed by the resolved Symbol identity of the narrowed
// expression (the engine narrows by identity of the name being tested, e.g.
// the `x` in `isinstance(x, T)`, not by the tested occurrence's node id) so
// the fact applies to every other occurrence of that name, not just the one
// under test. resolveSymbol returns nil for an expression that isn't a bare
// name (e.g. an attribute access); such facts are still derived but never
// apply, since scope.ApplyConstraints treats a nil Symbol as unmatchable.
func Derive(test pytree.Expr, currentType func(pytree.Expr) types.Type, resolveSymbol func(pytree.Expr) *scope.Symbol) (pos, neg []scope.Constraint) {
	switch t := test.(type) {
	case *pytree.Call:
		if name, ok := t.Callee.(*pytree.Name); ok && name.Value == "isinstance" && len(t.Args) == 2 {
			target := t.Args[0].Value
			sym := resolveSymbol(target)
			current := currentType(target)
			classes := isinstanceClasses(t.Args[1].Value, currentType)
			if len(classes) == 0 {
				return []scope.Constraint{{Sym: sym, Narrower: current, Blocking: true}},
					[]scope.Constraint{{Sym: sym, Narrower: current, Blocking: true}}
			}
			narrowed := types.Combine(classes...)
			return []scope.Constraint{{Sym: sym, Narrower: narrowed, Blocking: true}},
				[]scope.Constraint{{Sym: sym, Narrower: current, Blocking: false}}
		}
	case *pytree.Compare:
		if len(t.Ops) == 1 && (t.Ops[0] == "is" || t.Ops[0] == "is not") {
			if nc, ok := t.Comps[0].(*pytree.NameConstant); ok && nc.Kind == pytree.ConstNone {
				sym := resolveSymbol(t.Left)
				leftType := currentType(t.Left)
				notNone := types.RemoveFalsiness(stripNone(leftType))
				isNoneT := types.NoneT
				if t.Ops[0] == "is" {
					return []scope.Constraint{{Sym: sym, Narrower: isNoneT}},
						[]scope.Constraint{{Sym: sym, Narrower: notNone}}
				}
				return []scope.Constraint{{Sym: sym, Narrower: notNone}},
					[]scope.Constraint{{Sym: sym, Narrower: isNoneT}}
			}
		}
	case *pytree.Name:
		sym := resolveSymbol(t)
		cur := currentType(t)
		return []scope.Constraint{{Sym: sym, Narrower: types.RemoveTruthiness(cur)}},
			[]scope.Constraint{{Sym: sym, Narrower: types.RemoveFalsiness(cur)}}
	case *pytree.UnaryOp:
		if t.Op == "not" {
			p, n := Derive(t.Operand, currentType, resolveSymbol)
			return n, p
		}
	}
	return nil, nil
}

// isinstanceClasses evaluates the second argument of an isinstance() call,
// which is either a bare class or a tuple of classes, into the Object(C)
// types the positive branch should narrow to.
func isinstanceClasses(arg pytree.Expr, currentType func(pytree.Expr) types.Type) []types.Type {
	var classes []pytree.Expr
	if tup, ok := arg.(*pytree.TupleExpr); ok {
		classes = tup.Elts
	} else {
		classes = []pytree.Expr{arg}
	}
	var out []types.Type
	for _, c := range classes {
		if cls, ok := currentType(c).(*types.Class); ok {
			out = append(out, types.ObjectOf(cls))
		}
	}
	return out
}

func stripNone(t types.Type) types.Type {
	u, ok := t.(*types.Union)
	if !ok {
		return t
	}
	var kept []types.Type
	for _, m := range u.Members {
		if _, isNone := m.(types.NoneType); !isNone {
			kept = append(kept, m)
		}
	}
	return types.Combine(kept...)
}

// PushAll pushes every constraint in cs onto s.
func PushAll(s *scope.Scope, cs []scope.Constraint) {
	for _, c := range cs {
		s.PushConstraint(c)
	}
}

// PopN pops n constraints from s, used to unwind a PushAll.
func PopN(s *scope.Scope, n int) {
	for i := 0; i < n; i++ {
		s.PopConstraint()
	}
}
