package check

import (
	"strings"

	"github.com/kbridge/pytype/internal/constraints"
	"github.com/kbridge/pytype/internal/diag"
	"github.com/kbridge/pytype/internal/eval"
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/scope"
	"github.com/kbridge/pytype/internal/types"
)

// CheckModule implements one full iteration of the statement
// analyzer over an already-bound module.
func CheckModule(mod *pytree.Module, ctx *Context) {
	ctx.checkBody(mod.Body, ctx.ModuleScope)
}

func (ctx *Context) checkBody(body []pytree.Stmt, s *scope.Scope) {
	for _, stmt := range body {
		ctx.checkStmt(stmt, s)
	}
}

func (ctx *Context) checkStmt(stmt pytree.Stmt, s *scope.Scope) {
	switch st := stmt.(type) {
	case *pytree.ClassDef:
		ctx.checkClassDef(st, s)
	case *pytree.FunctionDef:
		ctx.checkFunctionDef(st, s)
	case *pytree.Assign:
		ctx.checkAssign(st, s)
	case *pytree.Return:
		ctx.checkReturn(st, s)
	case *pytree.Yield:
		ctx.checkYield(st, s)
	case *pytree.ExprStmt:
		ctx.evaluator(s).Eval(st.Value, eval.Flags{})
	case *pytree.ForStmt:
		ctx.checkFor(st, s)
	case *pytree.WithStmt:
		ctx.checkWith(st, s)
	case *pytree.TryStmt:
		ctx.checkTry(st, s)
	case *pytree.RaiseStmt:
		ctx.checkRaise(st, s)
	case *pytree.ImportStmt:
		ctx.checkImport(st, s)
	case *pytree.ImportFromStmt:
		ctx.checkImportFrom(st, s)
	case *pytree.GlobalStmt:
		for _, name := range st.Names {
			s.PinGlobal(name)
		}
	case *pytree.NonlocalStmt:
		for _, name := range st.Names {
			s.PinNonlocal(name)
		}
	case *pytree.IfStmt:
		ctx.checkIf(st, s)
	case *pytree.WhileStmt:
		ctx.checkWhile(st, s)
	case *pytree.PassStmt, *pytree.BreakStmt, *pytree.ContinueStmt:
		// no-op
	}
}

func (ctx *Context) contributeSymbol(sym *scope.Symbol, nodeID int, t types.Type) {
	if sym.Inferred.Add(nodeID, t) {
		ctx.markChanged()
	}
}

// enumBaseNames is the heuristic set of standard-library Enum base classes
// that trigger the enum-class transform: a plain name binding in the class
// body becomes a member of type Object(cls) rather than the assigned
// literal's own type.
var enumBaseNames = map[string]bool{"Enum": true, "IntEnum": true, "Flag": true, "IntFlag": true, "StrEnum": true}

func isEnumClass(cls *types.Class) bool {
	for _, b := range cls.Bases {
		if enumBaseNames[b.Name] {
			return true
		}
	}
	return false
}

// checkAssign implements Assignment handling.
func (ctx *Context) checkAssign(st *pytree.Assign, s *scope.Scope) {
	ev := ctx.evaluator(s)

	var rhs types.Type
	if st.Value != nil {
		rhs = ev.Eval(st.Value, eval.Flags{}).Type
	} else {
		rhs = types.Unknown
	}

	var declared types.Type
	if st.Annotation != nil {
		declared = ev.Annotation(st.Annotation)
	}

	cls := ctx.currentClass()
	inClassBodyDirectly := s.Kind == scope.KindClass
	enumTransform := inClassBodyDirectly && cls != nil && isEnumClass(cls) && st.Value != nil

	for _, target := range st.Targets {
		ctx.assignTarget(target, rhs, declared, enumTransform, s, ev)
	}
}

func (ctx *Context) assignTarget(target pytree.Expr, rhs, declared types.Type, enumTransform bool, s *scope.Scope, ev *eval.Evaluator) {
	switch t := target.(type) {
	case *pytree.Name:
		sym, _, ok := s.Resolve(t.Value)
		if !ok {
			return
		}
		effective := rhs
		if enumTransform {
			if cls := ctx.currentClass(); cls != nil {
				effective = types.ObjectOf(cls)
			}
		}
		if declared != nil {
			var d discardDiag
			if !types.CanAssign(declared, effective, &d, nil, true) {
				ctx.report(diag.ArgumentMismatch, "value of type "+effective.String()+" is not assignable to declared type "+declared.String())
			}
			if len(sym.Declarations) > 0 && sym.Declarations[0].Declared == nil {
				sym.Declarations[0].Declared = declared
			}
			effective = declared
		}
		ctx.contributeSymbol(sym, t.ID(), effective)
	case *pytree.TupleExpr:
		for _, el := range t.Elts {
			ctx.assignTarget(el, types.Unknown, nil, enumTransform, s, ev)
		}
	case *pytree.ListExpr:
		for _, el := range t.Elts {
			ctx.assignTarget(el, types.Unknown, nil, enumTransform, s, ev)
		}
	case *pytree.Starred:
		ctx.assignTarget(t.Value, rhs, declared, enumTransform, s, ev)
	case *pytree.Attribute:
		ev.Eval(t.Base, eval.Flags{})
		if fs := ctx.currentFunc(); fs != nil {
			if recv, ok := t.Base.(*pytree.Name); ok && len(fs.Def.Params) > 0 && recv.Value == fs.Def.Params[0].Name {
				if cls := ctx.currentClass(); cls != nil {
					ctx.contributeInstanceField(cls, t.Attr, rhs)
				}
			}
		}
	case *pytree.Subscript:
		ev.Eval(t.Base, eval.Flags{})
		ev.Eval(t.Index, eval.Flags{})
	}
}

func (ctx *Context) contributeInstanceField(cls *types.Class, name string, t types.Type) {
	existing, ok := cls.InstanceFields[name]
	if !ok {
		cls.InstanceFields[name] = &types.Member{Name: name, Type: t, IsInstance: true}
		ctx.markChanged()
		return
	}
	combined := types.Combine(existing.Type, t)
	if !types.IsSame(combined, existing.Type) {
		existing.Type = combined
		ctx.markChanged()
	}
}

func (ctx *Context) checkReturn(st *pytree.Return, s *scope.Scope) {
	ev := ctx.evaluator(s)
	var t types.Type = types.NoneT
	if st.Value != nil {
		t = ev.Eval(st.Value, eval.Flags{}).Type
	}
	if fs := ctx.currentFunc(); fs != nil {
		if fs.Scope.ReturnAgg.Add(st.ID(), t) {
			ctx.markChanged()
		}
	}
}

func (ctx *Context) checkYield(st *pytree.Yield, s *scope.Scope) {
	ev := ctx.evaluator(s)
	var t types.Type = types.NoneT
	if st.Value != nil {
		t = ev.Eval(st.Value, eval.Flags{}).Type
	}
	fs := ctx.currentFunc()
	if fs == nil {
		return
	}
	if st.From {
		if fs.Scope.YieldAgg.Add(st.ID(), t) {
			ctx.markChanged()
		}
		return
	}
	if fs.Scope.YieldAgg.Add(st.ID(), t) {
		ctx.markChanged()
	}
}

// checkFor analyzes a for-loop: the loop target's type comes from the
// iterable's __iter__/__aiter__ member, looked up, bound, and called with
// no arguments.
func (ctx *Context) checkFor(st *pytree.ForStmt, s *scope.Scope) {
	ev := ctx.evaluator(s)
	iterType := ev.Eval(st.Iter, eval.Flags{}).Type
	dunder := "__iter__"
	if st.IsAsync {
		dunder = "__aiter__"
	}
	targetType := iteratorMemberReturn(iterType, dunder)

	loopScope := scope.New(scope.KindTemporary, s)
	ctx.assignTarget(st.Target, targetType, nil, false, loopScope, ev)
	ctx.checkBody(st.Body, loopScope)
	ctx.checkBody(st.Else, s)
}

func iteratorMemberReturn(t types.Type, dunder string) types.Type {
	obj, ok := t.(*types.Object)
	if !ok {
		return types.Unknown
	}
	_, _, specialized, ok := types.LookUpClassMember(obj.Class, dunder, types.LookupFlags{})
	if !ok {
		return types.Unknown
	}
	fn, ok := specialized.(*types.Function)
	if !ok {
		return types.Unknown
	}
	bound := types.BindFunctionToClassOrObject(fn, t, false)
	return bound.EffectiveReturn()
}

// checkWith analyzes a with-statement: each `as` target receives the context
// manager's __enter__/__aenter__ return type.
func (ctx *Context) checkWith(st *pytree.WithStmt, s *scope.Scope) {
	ev := ctx.evaluator(s)
	withScope := scope.New(scope.KindTemporary, s)
	for _, item := range st.Items {
		ctxType := ev.Eval(item.Context, eval.Flags{}).Type
		if item.Target != nil {
			dunder := "__enter__"
			if st.IsAsync {
				dunder = "__aenter__"
			}
			ctx.assignTarget(item.Target, iteratorMemberReturn(ctxType, dunder), nil, false, withScope, ev)
		}
	}
	ctx.checkBody(st.Body, withScope)
}

// checkTry analyzes a try-statement: each except target receives the handled
// exception's instance type.
func (ctx *Context) checkTry(st *pytree.TryStmt, s *scope.Scope) {
	ctx.checkBody(st.Body, s)
	ev := ctx.evaluator(s)
	for _, h := range st.Handlers {
		handlerScope := scope.New(scope.KindTemporary, s)
		if h.Type != nil {
			excType := ev.Eval(h.Type, eval.Flags{ConvertClassToObject: true}).Type
			if h.Name != "" {
				if sym, _, ok := handlerScope.Resolve(h.Name); ok {
					ctx.contributeSymbol(sym, h.Type.ID(), excType)
				} else {
					sym := handlerScope.Declare(h.Name, h.Type.ID(), scope.CategoryVariable, nil)
					ctx.contributeSymbol(sym, h.Type.ID(), excType)
				}
			}
		}
		ctx.checkBody(h.Body, handlerScope)
	}
	ctx.checkBody(st.Else, s)
	ctx.checkBody(st.Finally, s)
}

// checkRaise analyzes a raise-statement: `raise X` requires X derives from
// BaseException.
func (ctx *Context) checkRaise(st *pytree.RaiseStmt, s *scope.Scope) {
	ev := ctx.evaluator(s)
	if st.Exc != nil {
		excType := ev.Eval(st.Exc, eval.Flags{}).Type
		if obj, ok := excType.(*types.Object); ok {
			if !obj.Class.DerivesFrom(types.Builtins.BaseException, nil) {
				ctx.report(diag.ExceptionNotDerived, obj.Class.Name+" does not derive from BaseException")
			}
		} else if cls, ok := excType.(*types.Class); ok {
			if !cls.DerivesFrom(types.Builtins.BaseException, nil) {
				ctx.report(diag.ExceptionNotDerived, cls.Name+" does not derive from BaseException")
			}
		}
	}
	if st.Cause != nil {
		ev.Eval(st.Cause, eval.Flags{})
	}
}

func (ctx *Context) checkImport(st *pytree.ImportStmt, s *scope.Scope) {
	for _, n := range st.Names {
		name := n.Alias
		if name == "" {
			name = n.Parts[0]
		}
		sym, _, ok := s.Resolve(name)
		if !ok {
			continue
		}
		var t types.Type = types.Unknown
		if ctx.Resolver != nil {
			if mod, ok := ctx.Resolver.Resolve(0, n.Parts); ok {
				t = mod
			}
		}
		ctx.contributeSymbol(sym, st.ID(), t)
	}
}

func (ctx *Context) checkImportFrom(st *pytree.ImportFromStmt, s *scope.Scope) {
	var mod *types.Module
	if ctx.Resolver != nil {
		mod, _ = ctx.Resolver.Resolve(st.LeadingDots, st.Module)
	}
	for _, sy := range st.Symbols {
		if sy.Name == "*" {
			if mod == nil {
				continue
			}
			for name, m := range mod.Fields {
				if strings.HasPrefix(name, "_") {
					continue
				}
				if sym, ok := s.LocalLookup(name); ok {
					ctx.contributeSymbol(sym, st.ID(), m.Type)
				}
			}
			continue
		}
		name := sy.Alias
		if name == "" {
			name = sy.Name
		}
		sym, ok := s.LocalLookup(name)
		if !ok {
			continue
		}
		var t types.Type = types.Unknown
		if mod != nil {
			if m, ok := mod.Fields[sy.Name]; ok {
				t = m.Type
			}
		}
		ctx.contributeSymbol(sym, st.ID(), t)
	}
}

func (ctx *Context) checkIf(st *pytree.IfStmt, s *scope.Scope) {
	ev := ctx.evaluator(s)
	ev.Eval(st.Test, eval.Flags{})
	pos, neg := constraints.Derive(st.Test, ev.CurrentType, ev.SymbolOf)

	constraints.PushAll(s, pos)
	ctx.checkBody(st.Body, s)
	constraints.PopN(s, len(pos))

	constraints.PushAll(s, neg)
	ctx.checkBody(st.Orelse, s)
	constraints.PopN(s, len(neg))
}

func (ctx *Context) checkWhile(st *pytree.WhileStmt, s *scope.Scope) {
	ev := ctx.evaluator(s)
	ev.Eval(st.Test, eval.Flags{})
	pos, neg := constraints.Derive(st.Test, ev.CurrentType, ev.SymbolOf)

	constraints.PushAll(s, pos)
	ctx.checkBody(st.Body, s)
	constraints.PopN(s, len(pos))

	ctx.checkBody(st.Orelse, s)
	_ = neg
}
