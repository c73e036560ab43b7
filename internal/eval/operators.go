package eval

import (
	"github.com/kbridge/pytype/internal/constraints"
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/types"
)

// dunderForBinOp maps a binary operator spelling to its forward magic
// method name.
func dunderForBinOp(op string) string {
	switch op {
	case "+":
		return "__add__"
	case "-":
		return "__sub__"
	case "*":
		return "__mul__"
	case "/":
		return "__truediv__"
	case "//":
		return "__floordiv__"
	case "%":
		return "__mod__"
	case "**":
		return "__pow__"
	case "@":
		return "__matmul__"
	case "&":
		return "__and__"
	case "|":
		return "__or__"
	case "^":
		return "__xor__"
	case "<<":
		return "__lshift__"
	case ">>":
		return "__rshift__"
	}
	return ""
}

// evalBinOp implements Binary semantics: numeric operands
// promote via PromoteNumeric; otherwise the left operand's forward dunder
// (falling back to Unknown when absent) determines the result.
func (e *Evaluator) evalBinOp(n *pytree.BinOp, flags Flags) Result {
	left := e.Eval(n.Left, Flags{}).Type
	right := e.Eval(n.Right, Flags{}).Type

	if lc, lok := types.IsNumeric(left); lok {
		if rc, rok := types.IsNumeric(right); rok {
			return Result{Type: types.ObjectOf(types.PromoteNumeric(lc, rc))}
		}
	}

	dunder := dunderForBinOp(n.Op)
	if dunder == "" {
		return Result{Type: types.Unknown}
	}
	if obj, ok := left.(*types.Object); ok {
		if m, _, specialized, ok := types.LookUpClassMember(obj.Class, dunder, types.LookupFlags{}); ok {
			if fn, ok := specialized.(*types.Function); ok {
				bound := types.BindFunctionToClassOrObject(fn, left, false)
				return Result{Type: bound.EffectiveReturn()}
			}
			_ = m
		}
	}
	return Result{Type: types.Unknown}
}

// evalBoolOp implements `and`/`or` semantics: the combined type
// of all operands, since either may be the short-circuited result. Each
// operand after the first is evaluated under the facts derived from the
// ones before it: their truthy branch for `and`, their falsy one for `or`.
func (e *Evaluator) evalBoolOp(n *pytree.BoolOp, flags Flags) Result {
	parts := make([]types.Type, len(n.Values))
	pushed := 0
	for i, v := range n.Values {
		parts[i] = e.Eval(v, Flags{}).Type
		if i < len(n.Values)-1 {
			pos, neg := constraints.Derive(v, e.CurrentType, e.SymbolOf)
			cs := pos
			if n.Op == "or" {
				cs = neg
			}
			constraints.PushAll(e.Scope, cs)
			pushed += len(cs)
		}
	}
	constraints.PopN(e.Scope, pushed)
	return Result{Type: types.Combine(parts...)}
}

// evalCompare implements Comparisons: every chained comparison
// yields bool regardless of operand types (rich-comparison dunders are not
// modeled beyond that).
func (e *Evaluator) evalCompare(n *pytree.Compare, flags Flags) Result {
	e.Eval(n.Left, Flags{})
	for _, c := range n.Comps {
		e.Eval(c, Flags{})
	}
	return Result{Type: types.BoolObj()}
}

// evalTernary implements conditional expression: the combined
// type of both branches (the test's truth value is not resolvable
// statically in general), with the test's narrowing applied to each arm the
// same way an `if`/`else` statement applies it to its branches.
func (e *Evaluator) evalTernary(n *pytree.Ternary, flags Flags) Result {
	e.Eval(n.Test, Flags{})
	pos, neg := constraints.Derive(n.Test, e.CurrentType, e.SymbolOf)

	constraints.PushAll(e.Scope, pos)
	then := e.Eval(n.Then, flags).Type
	constraints.PopN(e.Scope, len(pos))

	constraints.PushAll(e.Scope, neg)
	els := e.Eval(n.Else, flags).Type
	constraints.PopN(e.Scope, len(neg))

	return Result{Type: types.Combine(then, els)}
}

// evalUnary implements unary operators: `not` always yields
// bool; the others defer to the operand's dunder (`__neg__`, `__pos__`,
// `__invert__`), falling back to the operand's own type when absent.
func (e *Evaluator) evalUnary(n *pytree.UnaryOp, flags Flags) Result {
	operand := e.Eval(n.Operand, Flags{}).Type
	if n.Op == "not" {
		return Result{Type: types.BoolObj()}
	}
	dunder := ""
	switch n.Op {
	case "-":
		dunder = "__neg__"
	case "+":
		dunder = "__pos__"
	case "~":
		dunder = "__invert__"
	}
	if obj, ok := operand.(*types.Object); ok && dunder != "" {
		if _, _, specialized, ok := types.LookUpClassMember(obj.Class, dunder, types.LookupFlags{}); ok {
			if fn, ok := specialized.(*types.Function); ok {
				bound := types.BindFunctionToClassOrObject(fn, operand, false)
				return Result{Type: bound.EffectiveReturn()}
			}
		}
	}
	return Result{Type: operand}
}

// evalLambda implements lambda semantics: a Function type built
// from the lambda's parameter list (default expressions are evaluated for
// their side-effects/diagnostics only) and its body's type as the return.
func (e *Evaluator) evalLambda(n *pytree.Lambda, flags Flags) Result {
	params := make([]types.Param, len(n.Params))
	for i, p := range n.Params {
		if p.Default != nil {
			e.Eval(p.Default, Flags{})
		}
		var declared types.Type
		if p.Annotation != nil {
			declared = e.evalAnnotation(p.Annotation)
		}
		params[i] = types.Param{
			Category: types.ParamCategory(p.Category),
			Name: p.Name,
			HasDefault: p.HasDefault,
			Declared: declared,
		}
	}
	ret := e.Eval(n.Body, Flags{}).Type
	return Result{Type: &types.Function{Params: params, Return: ret, Flags: types.FuncFlags{Synthesized: true}}}
}
