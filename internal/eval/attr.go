package eval

import (
	"github.com/kbridge/pytype/internal/diag"
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/types"
)

// evalAttribute implements Attribute-access semantics.
func (e *Evaluator) evalAttribute(n *pytree.Attribute, flags Flags) Result {
	base := e.Eval(n.Base, Flags{})
	return Result{Type: e.attributeOf(base.Type, n.Attr, n.ID())}
}

func (e *Evaluator) attributeOf(baseType types.Type, attr string, nodeID int) types.Type {
	switch b := baseType.(type) {
	case types.AnyType, types.UnknownType:
		return types.Unknown
	case *types.Class:
		if m, _, specialized, ok := types.LookUpClassMember(b, attr, types.LookupFlags{SkipInstanceVariables: true}); ok {
			return e.bindMemberToReceiver(m, specialized, baseType, true)
		}
		e.report(diag.UnknownMember, "class "+b.Name+" has no attribute '"+attr+"'")
		return types.Unknown
	case *types.Object:
		if m, _, specialized, ok := types.LookUpClassMember(b.Class, attr, types.LookupFlags{}); ok {
			if prop, ok := specialized.(*types.Property); ok {
				return prop.EffectiveType()
			}
			if getObj, ok := specialized.(*types.Object); ok {
				if getter, _, _, ok := types.LookUpClassMember(getObj.Class, "__get__", types.LookupFlags{}); ok {
					if fn, ok := getter.Type.(*types.Function); ok {
						return fn.EffectiveReturn()
					}
				}
			}
			return e.bindMemberToReceiver(m, specialized, baseType, false)
		}
		if fallback, ok := fallbackGetAttr(b.Class); ok {
			return fallback
		}
		e.report(diag.UnknownMember, b.Class.Name+" has no attribute '"+attr+"'")
		return types.Unknown
	case *types.Tuple:
		if b.BaseClass != nil {
			return e.attributeOf(types.ObjectOf(b.BaseClass), attr, nodeID)
		}
		return types.Unknown
	case *types.Module:
		if m, ok := b.Fields[attr]; ok {
			return m.Type
		}
		e.report(diag.UnknownMember, "module "+b.Name+" has no attribute '"+attr+"'")
		return types.Unknown
	case *types.Union:
		var parts []types.Type
		for _, m := range b.Members {
			if _, isNone := m.(types.NoneType); isNone {
				e.report(diag.OptionalAccess, "attribute '"+attr+"' accessed on a possibly-None value")
				continue
			}
			parts = append(parts, e.attributeOf(m, attr, nodeID))
		}
		return types.Combine(parts...)
	case *types.Property:
		switch attr {
		case "getter", "setter", "deleter":
			return synthesizeDecoratorFunction(b)
		}
	}
	return types.Unknown
}

// bindMemberToReceiver binds a method/overload member to its receiver,
// leaving non-callable members untouched.
func (e *Evaluator) bindMemberToReceiver(m *types.Member, specialized, receiver types.Type, classAccess bool) types.Type {
	switch f := specialized.(type) {
	case *types.Function:
		return types.BindFunctionToClassOrObject(f, receiver, classAccess && !m.IsInstance)
	case *types.OverloadedFunction:
		return types.BindOverloadedFunction(f, receiver, classAccess && !m.IsInstance)
	}
	return specialized
}

func fallbackGetAttr(c *types.Class) (types.Type, bool) {
	if m, owner, t, ok := types.LookUpClassMember(c, "__getattribute__", types.LookupFlags{}); ok {
		if fn, ok := t.(*types.Function); ok && !isObjectDefault(m, owner) {
			return fn.EffectiveReturn(), true
		}
	}
	if m, _, t, ok := types.LookUpClassMember(c, "__getattr__", types.LookupFlags{}); ok {
		if fn, ok := t.(*types.Function); ok {
			return fn.EffectiveReturn(), true
		}
		_ = m
	}
	return nil, false
}

func isObjectDefault(m *types.Member, owner *types.Class) bool {
	return owner.Name == "object"
}

func synthesizeDecoratorFunction(p *types.Property) *types.Function {
	return &types.Function{
		Flags: types.FuncFlags{Synthesized: true},
		Params: []types.Param{
			{Category: types.ParamSimple, Name: "self"},
			{Category: types.ParamSimple, Name: "fn"},
		},
		Return: p,
	}
}
