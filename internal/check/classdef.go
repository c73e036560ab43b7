package check

import (
	"github.com/kbridge/pytype/internal/diag"
	"github.com/kbridge/pytype/internal/eval"
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/scope"
	"github.com/kbridge/pytype/internal/types"
)

// checkClassDef implements Class definition handling.
func (ctx *Context) checkClassDef(n *pytree.ClassDef, s *scope.Scope) {
	sym, ok := s.LocalLookup(n.Name)
	if !ok {
		return
	}
	cls, ok := sym.Current().(*types.Class)
	if !ok {
		return
	}

	ev := ctx.evaluator(s)
	classScope := scope.New(scope.KindClass, s)

	var bases []*types.Class
	var typeParams []*types.TypeVar
	isProtocol, isNamedTuple, isTypedDict := false, false, false

	for _, b := range n.Bases {
		bt := stripUnbound(ev.Eval(b, eval.Flags{}).Type)
		bc, ok := asBaseClass(bt)
		if !ok {
			continue
		}
		switch bc.Name {
		case "Protocol":
			isProtocol = true
			typeParams = append(typeParams, collectTypeVars(bc)...)
			continue
		case "Generic":
			typeParams = append(typeParams, collectTypeVars(bc)...)
			continue
		case "NamedTuple":
			isNamedTuple = true
			continue
		case "TypedDict":
			isTypedDict = true
			continue
		}
		var chain []*types.Class
		if bc == cls || bc.DerivesFrom(cls, &chain) {
			ctx.report(diag.CircularBase, "class "+n.Name+" derives from itself")
			continue
		}
		bases = append(bases, bc)
	}
	if len(bases) == 0 && !isProtocol && !isNamedTuple && !isTypedDict {
		bases = []*types.Class{types.Builtins.Object}
	}

	if !sameClassList(cls.Bases, bases) {
		ctx.markChanged()
	}
	cls.Bases = bases
	if isProtocol {
		cls.Flags.Protocol = true
	}
	if isNamedTuple {
		cls.Flags.NamedTuple = true
	}
	if isTypedDict {
		cls.Flags.TypedDict = true
	}
	if len(typeParams) > 0 {
		cls.TypeParams = typeParams
	}

	for i := len(n.Decorators) - 1; i >= 0; i-- {
		ctx.applyClassDecorator(n.Decorators[i], cls, ev)
	}

	ctx.classStack = append(ctx.classStack, cls)
	// Hoist the class body's own methods/assignments into classScope first,
	// the same way BindModule hoists module-level names, so e.g. a method
	// can call a sibling method defined later in the same class body.
	bindBody(n.Body, classScope)
	for _, stmt := range n.Body {
		ctx.checkStmt(stmt, classScope)
	}
	ctx.classStack = ctx.classStack[:len(ctx.classStack)-1]

	ctx.materializeClassMembers(cls, classScope)

	if cls.Flags.TypedDict {
		synthesizeTypedDictInit(cls)
	}
	if cls.Flags.Dataclass {
		synthesizeDataclassInit(cls)
	}

	ctx.validateOverrides(cls, n.Name)
	cls.Flags.Abstract = hasAbstractMethod(cls)
}

// applyClassDecorator implements the decorator subset names for
// classes: `dataclass` (with optional `init=False`).
func (ctx *Context) applyClassDecorator(d pytree.Decorator, cls *types.Class, ev *eval.Evaluator) {
	name, args := decoratorCall(d.Expr)
	switch name {
	case "dataclass":
		cls.Flags.Dataclass = true
		cls.Flags.DataclassInit = true
		for _, a := range args {
			if a.Name == "init" {
				if nc, ok := a.Value.(*pytree.NameConstant); ok && nc.Kind == pytree.ConstFalse {
					cls.Flags.DataclassInit = false
				}
			}
		}
	}
}

func decoratorName(e pytree.Expr) string {
	name, _ := decoratorCall(e)
	return name
}

// decoratorCall extracts a bare-name or call-form decorator's name and
// arguments (`@foo` and `@foo(...)` both resolve to "foo").
func decoratorCall(e pytree.Expr) (string, []pytree.Argument) {
	switch v := e.(type) {
	case *pytree.Name:
		return v.Value, nil
	case *pytree.Attribute:
		return v.Attr, nil
	case *pytree.Call:
		switch callee := v.Callee.(type) {
		case *pytree.Name:
			return callee.Value, v.Args
		case *pytree.Attribute:
			return callee.Attr, v.Args
		}
	}
	return "", nil
}

// propertyAccessorKind recognizes `@x.setter` / `@x.deleter` decorator forms.
func propertyAccessorKind(e pytree.Expr) string {
	if attr, ok := e.(*pytree.Attribute); ok {
		switch attr.Attr {
		case "setter", "deleter", "getter":
			return attr.Attr
		}
	}
	return ""
}

func stripUnbound(t types.Type) types.Type {
	u, ok := t.(*types.Union)
	if !ok {
		return t
	}
	var kept []types.Type
	for _, m := range u.Members {
		if _, unbound := m.(types.UnboundType); !unbound {
			kept = append(kept, m)
		}
	}
	return types.Combine(kept...)
}

// asBaseClass unwraps `Type[X]` to `X` and accepts a bare Class; any other
// shape is not a valid base.
func asBaseClass(t types.Type) (*types.Class, bool) {
	switch v := t.(type) {
	case *types.Class:
		return v, true
	case *types.Object:
		if len(v.Class.TypeArgs) == 1 && v.Class.Name == "type" {
			if c, ok := v.Class.TypeArgs[0].(*types.Class); ok {
				return c, true
			}
		}
	}
	return nil, false
}

func collectTypeVars(c *types.Class) []*types.TypeVar {
	var out []*types.TypeVar
	for _, a := range c.TypeArgs {
		if tv, ok := a.(*types.TypeVar); ok {
			out = append(out, tv)
		}
	}
	out = append(out, c.TypeParams...)
	return out
}

func sameClassList(a, b []*types.Class) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] && (a[i] == nil || b[i] == nil || a[i].Name != b[i].Name) {
			return false
		}
	}
	return true
}

// materializeClassMembers copies the class body's own scope into the
// class's field tables, splitting instance
// fields (gathered from `self.x = ...` assignments recorded during method
// body checking, see checkAssign) from class-scope names.
func (ctx *Context) materializeClassMembers(cls *types.Class, classScope *scope.Scope) {
	for name, sym := range classScope.All() {
		t := sym.Current()
		isMethod := false
		switch t.(type) {
		case *types.Function, *types.OverloadedFunction:
			isMethod = true
		}
		cls.ClassFields[name] = &types.Member{Name: name, Type: t, IsMethod: isMethod}
	}
}

func hasAbstractMethod(cls *types.Class) bool {
	for _, m := range cls.ClassFields {
		if fn, ok := m.Type.(*types.Function); ok && fn.Flags.Abstract {
			return true
		}
	}
	return false
}

// validateOverrides implements the override-compatibility check: each
// method is checked against the first base class (in MRO order) that
// already declares the same name.
func (ctx *Context) validateOverrides(cls *types.Class, className string) {
	for name, m := range cls.ClassFields {
		if !m.IsMethod {
			continue
		}
		fn, ok := m.Type.(*types.Function)
		if !ok {
			continue
		}
		for _, base := range cls.Bases {
			baseMember, _, specialized, ok := types.LookUpClassMember(base, name, types.LookupFlags{})
			if !ok {
				continue
			}
			baseFn, ok := specialized.(*types.Function)
			if !ok {
				break
			}
			var d discardDiag
			if !types.CanAssign(baseFn, fn, &d, nil, true) {
				ctx.report(diag.IncompatibleOverride, className+"."+name+" incompatibly overrides "+base.Name+"."+name)
			}
			_ = baseMember
			break
		}
	}
}

type discardDiag struct{}

func (*discardDiag) Add(string) {}
