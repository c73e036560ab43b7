package check

import (
	"github.com/kbridge/pytype/internal/diag"
	"github.com/kbridge/pytype/internal/eval"
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/scope"
	"github.com/kbridge/pytype/internal/types"
)

// Synthetic generic wrappers for the async/generator return-type shapes
// names (Awaitable[_], Iterator[_], AsyncGenerator[_, _]); these
// are nominal placeholders, not typeshed-backed builtins, since stub
// parsing is out of scope (typeshedPath is a resolved path, not a
// parsed one here).
var (
	iteratorClass = syntheticGeneric("Iterator", "_Y")
	awaitableClass = syntheticGeneric("Awaitable", "_R")
	asyncGeneratorCls = syntheticGeneric("AsyncGenerator", "_Y", "_S")
)

func syntheticGeneric(name string, paramNames ...string) *types.Class {
	c := types.NewClass(name)
	c.Flags.SpecialBuiltin = true
	for _, p := range paramNames {
		c.TypeParams = append(c.TypeParams, &types.TypeVar{Name: p})
	}
	return c
}

// checkFunctionDef implements Function definition handling.
func (ctx *Context) checkFunctionDef(n *pytree.FunctionDef, s *scope.Scope) {
	sym, ok := s.LocalLookup(n.Name)
	if !ok {
		return
	}

	ev := ctx.evaluator(s)
	fnScope := scope.New(scope.KindFunction, s)

	isStatic, isClassMethod, isAbstract, isOverload := false, false, false, false
	var accessorKind string
	var propertyBase *types.Property

	for _, d := range n.Decorators {
		if kind := propertyAccessorKind(d.Expr); kind != "" && kind != "getter" {
			accessorKind = kind
			if prevSym, ok := s.LocalLookup(n.Name); ok {
				if p, ok := prevSym.Current().(*types.Property); ok {
					propertyBase = p
				}
			}
			continue
		}
		switch decoratorName(d.Expr) {
		case "staticmethod":
			isStatic = true
		case "classmethod":
			isClassMethod = true
		case "abstractmethod":
			isAbstract = true
		case "overload":
			isOverload = true
		}
	}
	_, isProperty := firstDecoratorIsProperty(n.Decorators)

	inClass := s.Kind == scope.KindClass
	cls := ctx.currentClass()

	params := make([]types.Param, len(n.Params))
	for i, p := range n.Params {
		var declared types.Type
		if p.Annotation != nil {
			declared = ev.Annotation(p.Annotation)
		}
		if p.Default != nil {
			ev.Eval(p.Default, eval.Flags{})
		}
		params[i] = types.Param{
			Category: types.ParamCategory(p.Category),
			Name: p.Name,
			HasDefault: p.HasDefault,
			Declared: declared,
		}
	}
	if inClass && cls != nil && !isStatic && len(params) > 0 && params[0].Declared == nil {
		if isClassMethod {
			params[0].Declared = cls
		} else if !cls.Flags.Protocol {
			params[0].Declared = types.ObjectOf(cls)
		}
	}

	var declaredReturn types.Type
	if n.Returns != nil {
		declaredReturn = ev.Annotation(n.Returns)
	}

	fs := &funcState{Scope: fnScope, Def: n, IsGenerator: n.IsGenerator, IsAsync: n.IsAsync}
	ctx.funcStack = append(ctx.funcStack, fs)
	for _, p := range params {
		fnScope.Declare(p.Name, 0, scope.CategoryParameter, p.Declared)
	}
	// Hoist the body's own assignments/defs into fnScope first, the same way
	// BindModule hoists module-level names, so a name assigned or defined
	// later in this body is visible to a reference earlier in it.
	bindBody(n.Body, fnScope)
	for _, stmt := range n.Body {
		ctx.checkStmt(stmt, fnScope)
	}
	ctx.funcStack = ctx.funcStack[:len(ctx.funcStack)-1]

	inferredReturn := fnScope.ReturnAgg.Get()
	if fallsOffEnd(n.Body) {
		inferredReturn = types.Combine(inferredReturn, types.NoneT)
	}

	var finalReturn types.Type
	switch {
	case n.IsGenerator:
		yieldT := fnScope.YieldAgg.Get()
		if n.IsAsync {
			finalReturn = types.GenericOf(asyncGeneratorCls, yieldT, types.NoneT)
		} else {
			finalReturn = types.GenericOf(iteratorClass, yieldT)
		}
	case declaredReturn != nil:
		finalReturn = declaredReturn
		var d discardDiag
		if !types.CanAssign(unwrapAwaitable(declaredReturn, n.IsAsync), inferredReturn, &d, nil, true) {
			ctx.report(diag.ReturnTypeMismatch, "function '"+n.Name+"' returns a value incompatible with its declared return type")
		}
	default:
		finalReturn = inferredReturn
	}
	if n.IsAsync && !n.IsGenerator {
		finalReturn = types.GenericOf(awaitableClass, finalReturn)
	}

	fn := &types.Function{
		Params: params,
		Return: finalReturn,
		Flags: types.FuncFlags{
			Instance: inClass && !isStatic && !isClassMethod,
			Class: isClassMethod,
			Static: isStatic,
			Abstract: isAbstract,
			Overloaded: isOverload,
			Generator: n.IsGenerator,
		},
	}

	if isOverload {
		buf := ctx.pendingOverloads(s)
		buf[n.Name] = append(buf[n.Name], fn)
		return
	}

	var finalType types.Type = fn
	if buf := ctx.pendingOverloads(s); len(buf[n.Name]) > 0 {
		finalType = &types.OverloadedFunction{Overloads: buf[n.Name]}
		delete(buf, n.Name)
	}

	if isProperty {
		finalType = &types.Property{Getter: fn}
	} else if accessorKind != "" && propertyBase != nil {
		prop := *propertyBase
		switch accessorKind {
		case "setter":
			prop.Setter = fn
		case "deleter":
			prop.Deleter = fn
		}
		finalType = &prop
	}

	// All defs sharing one name (a property's getter/setter/deleter trio)
	// contribute to the same aggregator slot, keyed by the symbol's first
	// declaration, so later accessors replace rather than union with the
	// getter's entry.
	if sym.Inferred.Add(sym.Primary().NodeID, finalType) {
		ctx.markChanged()
	}
}

func firstDecoratorIsProperty(decorators []pytree.Decorator) (pytree.Decorator, bool) {
	for _, d := range decorators {
		if decoratorName(d.Expr) == "property" {
			return d, true
		}
	}
	return pytree.Decorator{}, false
}

// unwrapAwaitable strips one Awaitable[_] layer from a declared async
// return annotation so it compares against the raw inferred return type.
func unwrapAwaitable(t types.Type, isAsync bool) types.Type {
	if !isAsync {
		return t
	}
	if o, ok := t.(*types.Object); ok && len(o.Class.TypeArgs) == 1 && o.Class.Name == awaitableClass.Name {
		return o.Class.TypeArgs[0]
	}
	return t
}

// fallsOffEnd is a conservative check of whether a function body can
// complete without hitting a `return`/`raise` on every path; it only
// recognizes the common shapes (a trailing return/raise, or an if/else
// where both arms are exhaustive) and otherwise assumes the body can fall
// through, which is always a safe (if sometimes redundant) over-approximation.
func fallsOffEnd(body []pytree.Stmt) bool {
	if len(body) == 0 {
		return true
	}
	return !stmtAlwaysExits(body[len(body)-1])
}

func stmtAlwaysExits(stmt pytree.Stmt) bool {
	switch v := stmt.(type) {
	case *pytree.Return, *pytree.RaiseStmt:
		return true
	case *pytree.IfStmt:
		if len(v.Orelse) == 0 {
			return false
		}
		return !fallsOffEnd(v.Body) && !fallsOffEnd(v.Orelse)
	case *pytree.TryStmt:
		if len(v.Finally) > 0 && stmtAlwaysExits(v.Finally[len(v.Finally)-1]) {
			return true
		}
		if fallsOffEnd(v.Body) {
			return false
		}
		for _, h := range v.Handlers {
			if fallsOffEnd(h.Body) {
				return false
			}
		}
		return true
	case *pytree.WithStmt:
		return !fallsOffEnd(v.Body)
	}
	return false
}
