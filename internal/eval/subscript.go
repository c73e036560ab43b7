package eval

import (
	"github.com/kbridge/pytype/internal/diag"
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/types"
)

// evalSubscript implements Subscription semantics: for each
// subtype of the base, if it is a class, extract type-arguments and
// specialize (dispatching the special annotation-sub-language builtins);
// None reports an optional-subscript diagnostic.
func (e *Evaluator) evalSubscript(n *pytree.Subscript, flags Flags) Result {
	base := e.Eval(n.Base, Flags{DoNotSpecialize: true})
	args, argList := e.evalTypeArgList(n.Index)

	switch b := base.Type.(type) {
	case types.AnyType, types.UnknownType:
		return Result{Type: types.Unknown}
	case types.NoneType:
		e.report(diag.OptionalAccess, "subscript of None")
		return Result{Type: types.Unknown}
	case *types.Class:
		return Result{Type: e.specializeClassLiteral(b, args, argList)}
	case *types.Union:
		var parts []types.Type
		for _, m := range b.Members {
			if c, ok := m.(*types.Class); ok {
				parts = append(parts, e.specializeClassLiteral(c, args, argList))
			}
		}
		return Result{Type: types.Combine(parts...)}
	}
	return Result{Type: types.Unknown}
}

// evalTypeArgList evaluates a subscript index as a type-argument list: a
// bare expression is one argument, a TupleExpr's elements are each a
// separate argument.
func (e *Evaluator) evalTypeArgList(index pytree.Expr) ([]types.Type, []pytree.Expr) {
	if tup, ok := index.(*pytree.TupleExpr); ok {
		out := make([]types.Type, len(tup.Elts))
		for i, el := range tup.Elts {
			out[i] = e.evalAnnotation(el)
		}
		return out, tup.Elts
	}
	return []types.Type{e.evalAnnotation(index)}, []pytree.Expr{index}
}

// evalAnnotation evaluates an expression in annotation position: classes
// convert to objects, ellipsis becomes Any when the context allows it
// (handled per-builtin below), forward string references are tolerated.
func (e *Evaluator) evalAnnotation(expr pytree.Expr) types.Type {
	if s, ok := expr.(*pytree.StringLit); ok {
		// A forward reference: AllowForwardReferences. Without a
		// real parser to re-parse the string, resolve it as a bare name
		// when possible so simple forward refs ("Foo") still work.
		sym, _, ok := e.Scope.Resolve(s.Value)
		if ok {
			return convertClassToObject(sym.Current())
		}
		return types.Unknown
	}
	if nc, ok := expr.(*pytree.NameConstant); ok && nc.Kind == pytree.ConstEllipsis {
		return types.Ellipsis
	}
	return e.Eval(expr, Flags{ConvertClassToObject: true}).Type
}

// specializeClassLiteral dispatches the special-builtin annotation
// constructors (Optional, Union, Callable, ...), falling back to plain
// specialize() for an ordinary generic class.
func (e *Evaluator) specializeClassLiteral(c *types.Class, args []types.Type, argExprs []pytree.Expr) types.Type {
	switch c.Name {
	case "Optional":
		if len(args) != 1 {
			return types.Unknown
		}
		return types.Combine(args[0], types.NoneT)
	case "Union":
		return types.Combine(args...)
	case "Callable":
		return e.buildCallable(argExprs)
	case "Type":
		if len(args) != 1 {
			return types.Unknown
		}
		return types.Specialize(types.GenericOf(c, args[0]), nil)
	case "ClassVar", "List", "Set", "FrozenSet", "Deque":
		target := builtinFor(c.Name)
		if len(args) != 1 {
			return types.Unknown
		}
		if c.Name == "ClassVar" {
			return args[0]
		}
		return types.GenericOf(target, args[0])
	case "Dict", "DefaultDict", "ChainMap":
		target := builtinFor(c.Name)
		if len(args) != 2 {
			return types.Unknown
		}
		return types.GenericOf(target, args[0], args[1])
	case "Tuple":
		return e.buildTupleAnnotation(args)
	case "Generic":
		return e.buildGenericBase(args)
	case "Protocol":
		clone := *c
		clone.Flags.Protocol = true
		clone.TypeArgs = args
		return &clone
	}
	clone := *c
	clone.TypeArgs = args
	return types.Specialize(&clone, nil)
}

func builtinFor(name string) *types.Class {
	switch name {
	case "List":
		return types.Builtins.List
	case "Set":
		return types.Builtins.Set
	case "FrozenSet":
		return types.Builtins.FrozenSet
	case "Deque":
		return types.Builtins.Deque
	case "Dict":
		return types.Builtins.Dict
	case "DefaultDict":
		return types.Builtins.DefaultDict
	case "ChainMap":
		return types.Builtins.ChainMap
	}
	return types.Builtins.Object
}

// buildCallable implements `Callable[[P1, P2], R]` and the bare
// `Callable`/`Callable[..., R]` forms.
func (e *Evaluator) buildCallable(argExprs []pytree.Expr) types.Type {
	if len(argExprs) == 0 {
		return &types.Function{Params: []types.Param{{Category: types.ParamVarArgsPositional, Name: "args"}}, Return: types.Unknown}
	}
	if len(argExprs) != 2 {
		return types.Unknown
	}
	var params []types.Param
	if nc, ok := argExprs[0].(*pytree.NameConstant); ok && nc.Kind == pytree.ConstEllipsis {
		params = []types.Param{{Category: types.ParamVarArgsPositional, Name: "args"}}
	} else if lst, ok := argExprs[0].(*pytree.ListExpr); ok {
		for _, p := range lst.Elts {
			params = append(params, types.Param{Category: types.ParamSimple, Declared: e.evalAnnotation(p)})
		}
	}
	ret := e.evalAnnotation(argExprs[1])
	return &types.Function{Params: params, Return: ret}
}

func (e *Evaluator) buildTupleAnnotation(args []types.Type) types.Type {
	if len(args) == 2 {
		if a, ok := args[1].(types.AnyType); ok && a.IsEllipsis {
			return &types.Tuple{BaseClass: types.Builtins.Object, Entries: args[:1], AllowMore: true}
		}
	}
	return &types.Tuple{BaseClass: types.Builtins.Object, Entries: args}
}

// buildGenericBase validates `Generic[T1, ...]`: all args must be distinct
// TypeVars, and it is only legal as a base class (validated by the
// statement analyzer, not here).
func (e *Evaluator) buildGenericBase(args []types.Type) types.Type {
	seen := map[string]bool{}
	tvs := make([]*types.TypeVar, 0, len(args))
	for _, a := range args {
		tv, ok := a.(*types.TypeVar)
		if !ok || seen[tv.Name] {
			e.report(diag.BaseClassInvalid, "Generic[...] arguments must be distinct TypeVars")
			continue
		}
		seen[tv.Name] = true
		tvs = append(tvs, tv)
	}
	c := types.NewClass("Generic")
	c.Flags.SpecialBuiltin = true
	c.TypeParams = tvs
	return c
}
