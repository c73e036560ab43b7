package eval

import (
	"github.com/kbridge/pytype/internal/diag"
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/token"
	"github.com/kbridge/pytype/internal/types"
)

// evalCall implements Call semantics.
func (e *Evaluator) evalCall(n *pytree.Call, flags Flags) Result {
	callee := e.Eval(n.Callee, Flags{})
	return Result{Type: e.dispatchCall(callee.Type, n)}
}

// dispatchCall resolves a callee type against the call's arguments,
// recursing into Union branches so every callable alternative is checked.
func (e *Evaluator) dispatchCall(calleeType types.Type, n *pytree.Call) types.Type {
	switch c := calleeType.(type) {
	case *types.Class:
		return e.evalConstructorCall(c, n).Type
	case *types.Function:
		return e.matchCall(c, n.Args, nil)
	case *types.OverloadedFunction:
		return e.matchOverload(c, n.Args, nil)
	case *types.Object:
		if m, _, t, ok := types.LookUpClassMember(c.Class, "__call__", types.LookupFlags{}); ok {
			switch f := e.bindMemberToReceiver(m, t, calleeType, false).(type) {
			case *types.Function:
				return e.matchCall(f, n.Args, nil)
			case *types.OverloadedFunction:
				return e.matchOverload(f, n.Args, nil)
			}
		}
		e.report(diag.NotCallable, c.Class.Name+" object is not callable")
		return types.Unknown
	case *types.Union:
		var parts []types.Type
		for _, m := range c.Members {
			parts = append(parts, e.dispatchCall(m, n))
		}
		return types.Combine(parts...)
	case types.AnyType, types.UnknownType:
		return types.Unknown
	}
	e.report(diag.NotCallable, "value is not callable")
	return types.Unknown
}

func (e *Evaluator) evalConstructorCall(c *types.Class, n *pytree.Call) Result {
	switch c.Name {
	case "TypeVar":
		return Result{Type: e.constructTypeVar(n)}
	case "NamedTuple":
		return Result{Type: e.constructNamedTuple(n)}
	case "type":
		if len(n.Args) == 1 {
			if arg, ok := e.Cache.Lookup(n.Args[0].Value.ID()); ok {
				if t, ok := arg.CachedType.(types.Type); ok {
					if o, ok := t.(*types.Object); ok {
						return Result{Type: o.Class}
					}
				}
			}
		}
	}
	newFn, _, _, hasNew := types.LookUpClassMember(c, "__new__", types.LookupFlags{SkipBaseClasses: true})
	var initFn *types.Function
	if hasNew {
		initFn, _ = newFn.Type.(*types.Function)
	}
	if initFn == nil {
		if m, _, t, ok := types.LookUpClassMember(c, "__init__", types.LookupFlags{}); ok {
			initFn, _ = t.(*types.Function)
			_ = m
		}
	}
	result := types.ObjectOf(c)
	if initFn != nil {
		bound := types.BindFunctionToClassOrObject(initFn, result, false)
		e.validateArguments(bound, n.Args, nil)
	}
	return Result{Type: result}
}

// matchCall implements argument matching for a single
// function callee.
func (e *Evaluator) matchCall(f *types.Function, args []pytree.Argument, vm types.VarMap) types.Type {
	if vm == nil {
		vm = make(types.VarMap)
	}
	e.validateArguments(f, args, vm)
	return types.Specialize(f.EffectiveReturn(), vm)
}

// matchOverload implements the overload selection rule of Call:
// pick the first overload whose argument list validates, diagnostics
// silenced during the trial; emit overload-no-match if none fit.
func (e *Evaluator) matchOverload(o *types.OverloadedFunction, args []pytree.Argument, _ types.VarMap) types.Type {
	for _, f := range o.Overloads {
		trial := &Evaluator{Scope: e.Scope, Cache: e.Cache, Diags: nil, Severities: e.Severities, Version: e.Version}
		vm := make(types.VarMap)
		if trial.validateArgumentsOK(f, args, vm) {
			return types.Specialize(f.EffectiveReturn(), vm)
		}
	}
	e.report(diag.OverloadNoMatch, "no overload matches the given arguments")
	return types.Unknown
}

// validateArguments runs the full argument-matching algorithm, recording
// diagnostics through e.Diags.
func (e *Evaluator) validateArguments(f *types.Function, args []pytree.Argument, vm types.VarMap) {
	e.matchArguments(f, args, vm, true)
}

// validateArgumentsOK runs the same algorithm but reports success/failure
// instead of emitting diagnostics, used by overload trial resolution.
func (e *Evaluator) validateArgumentsOK(f *types.Function, args []pytree.Argument, vm types.VarMap) bool {
	return e.matchArguments(f, args, vm, false) == nil
}

// matchArguments matches call arguments against a function's parameter
// list. It returns nil on success (when
// report is false, a non-nil return just signals failure) or emits
// diagnostics and returns a sentinel error when report is true.
func (e *Evaluator) matchArguments(f *types.Function, args []pytree.Argument, vm types.VarMap, report bool) error {
	type slot struct {
		param types.Param
		index int
		needed bool
		got bool
	}
	named := map[string]*slot{}
	var positional []*slot
	var varArgsSlot, varKwSlot *slot
	afterStar := false
	for i, p := range f.Params {
		switch p.Category {
		case types.ParamBareStar:
			afterStar = true
		case types.ParamVarArgsPositional:
			s := &slot{param: p, index: i}
			varArgsSlot = s
			afterStar = true
		case types.ParamVarArgsKeyword:
			varKwSlot = &slot{param: p, index: i}
		case types.ParamVarArgsNamedOnly:
			named[p.Name] = &slot{param: p, index: i, needed: !p.HasDefault}
		default:
			if afterStar {
				named[p.Name] = &slot{param: p, index: i, needed: !p.HasDefault}
			} else {
				positional = append(positional, &slot{param: p, index: i, needed: !p.HasDefault})
			}
		}
	}

	posIdx := 0
	suppressMissingCheck := false
	seenNames := map[string]bool{}
	for _, a := range args {
		if a.Star {
			suppressMissingCheck = true
			for posIdx < len(positional) {
				positional[posIdx].got = true
				posIdx++
			}
			continue
		}
		if a.DoubleStar {
			suppressMissingCheck = true
			for _, s := range named {
				s.got = true
			}
			continue
		}
		if a.Name == "" {
			if posIdx < len(positional) {
				s := positional[posIdx]
				posIdx++
				s.got = true
				if !e.checkAssign(s.param.Declared, a.Value, vm, report) {
					return errMismatch
				}
				continue
			}
			if varArgsSlot != nil {
				varArgsSlot.got = true
				if !e.checkAssign(varArgsSlot.param.Declared, a.Value, vm, report) {
					return errMismatch
				}
				continue
			}
			if report {
				e.report(diag.ParameterCount, "too many positional arguments")
			}
			return errMismatch
		}
		if seenNames[a.Name] {
			if report {
				e.report(diag.DuplicateKeyword, "keyword argument '"+a.Name+"' already assigned")
			}
			return errMismatch
		}
		seenNames[a.Name] = true
		if s, ok := named[a.Name]; ok {
			s.got = true
			if !e.checkAssign(s.param.Declared, a.Value, vm, report) {
				return errMismatch
			}
			continue
		}
		found := false
		for _, s := range positional {
			if s.param.Name == a.Name {
				s.got = true
				found = true
				if !e.checkAssign(s.param.Declared, a.Value, vm, report) {
					return errMismatch
				}
				break
			}
		}
		if !found {
			if varKwSlot != nil {
				continue
			}
			if report {
				e.report(diag.ArgumentMismatch, "unexpected keyword argument '"+a.Name+"'")
			}
			return errMismatch
		}
	}

	if !suppressMissingCheck {
		for _, s := range positional {
			if s.needed && !s.got {
				if report {
					e.report(diag.ParameterCount, "missing required argument '"+s.param.Name+"'")
				}
				return errMismatch
			}
		}
		for _, s := range named {
			if s.needed && !s.got {
				if report {
					e.report(diag.ParameterCount, "missing required keyword argument '"+s.param.Name+"'")
				}
				return errMismatch
			}
		}
	}
	return nil
}

var errMismatch = &mismatchError{}

type mismatchError struct{}

func (*mismatchError) Error() string { return "argument mismatch" }

func (e *Evaluator) checkAssign(paramType types.Type, argExpr pytree.Expr, vm types.VarMap, report bool) bool {
	if paramType == nil {
		paramType = types.Unknown
	}
	argType := e.Eval(argExpr, Flags{}).Type
	var d types.Diag
	ok := types.CanAssign(paramType, argType, d, vm, true)
	if !ok && report {
		msg := "argument of type " + argType.String() + " is not assignable to parameter of type " + paramType.String()
		if suggestsOptionalWrap(paramType, argType) {
			e.reportWithAction(diag.ArgumentMismatch, msg, argExpr.ID())
		} else {
			e.report(diag.ArgumentMismatch, msg)
		}
	}
	return ok
}

// suggestsOptionalWrap reports whether wrapping paramType in Optional[...]
// would make the failing call assignable: the argument is (possibly a
// union including) None, and the non-None remainder of the argument does
// assign to paramType. This is the sole condition under which a diagnostic
// may carry the addoptionalforparam suggested-edit action.
func suggestsOptionalWrap(paramType, argType types.Type) bool {
	if _, isNone := argType.(types.NoneType); isNone {
		return true
	}
	u, ok := argType.(*types.Union)
	if !ok {
		return false
	}
	var sawNone bool
	var rest []types.Type
	for _, m := range u.Members {
		if _, isNone := m.(types.NoneType); isNone {
			sawNone = true
			continue
		}
		rest = append(rest, m)
	}
	if !sawNone {
		return false
	}
	return types.CanAssign(paramType, types.Combine(rest...), nil, nil, true)
}

func (e *Evaluator) reportWithAction(kind diag.Kind, message string, typeNodeID int) {
	if e.Diags == nil {
		return
	}
	d := diag.New(kind, token.Range{}, message, e.Severities).WithAction(typeNodeID)
	e.Diags.Add(d)
}
