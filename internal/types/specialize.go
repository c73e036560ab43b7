package types

// Specialize substitutes TypeVars for concrete types. When vm
// is nil, each TypeVar is replaced via specializeTypeVarDefault (union of
// its constraints, its bound, or Any). Specialize short-circuits when t
// does not require specialization, and recurses into unions, tuples,
// classes (their type-arguments), objects (through their class), functions
// (parameter types and return), and overloads.
func Specialize(t Type, vm VarMap) Type {
	if t == nil || !RequiresSpecialization(t) {
		return t
	}
	switch v := t.(type) {
	case *TypeVar:
		if vm != nil {
			if bound, ok := vm[v.Name]; ok {
				return bound
			}
		}
		return specializeTypeVarDefault(v)
	case *Union:
		members := make([]Type, len(v.Members))
		for i, m := range v.Members {
			members[i] = Specialize(m, vm)
		}
		return Combine(members...)
	case *Tuple:
		entries := make([]Type, len(v.Entries))
		for i, e := range v.Entries {
			entries[i] = Specialize(e, vm)
		}
		return &Tuple{BaseClass: v.BaseClass, Entries: entries, AllowMore: v.AllowMore}
	case *Class:
		return specializeClass(v, vm)
	case *Object:
		sc := specializeClass(v.Class, vm)
		if sc == v.Class {
			return v
		}
		return &Object{Class: sc.(*Class), Literal: v.Literal}
	case *Function:
		return specializeFunction(v, vm)
	case *OverloadedFunction:
		out := &OverloadedFunction{SourceIDs: v.SourceIDs}
		for _, f := range v.Overloads {
			out.Overloads = append(out.Overloads, specializeFunction(f, vm))
		}
		return out
	}
	return t
}

func specializeClass(c *Class, vm VarMap) Type {
	// Type[Object(C)] collapses to Class(C).
	if c.Flags.SpecialBuiltin && c.Name == "Type" && len(c.TypeArgs) == 1 {
		if obj, ok := c.TypeArgs[0].(*Object); ok {
			return obj.Class
		}
	}
	if len(c.TypeArgs) == 0 {
		if len(c.TypeParams) == 0 {
			return c
		}
		args := make([]Type, len(c.TypeParams))
		for i, tp := range c.TypeParams {
			args[i] = Specialize(tp, vm)
		}
		clone := *c
		clone.TypeArgs = args
		return &clone
	}
	args := make([]Type, len(c.TypeArgs))
	changed := false
	for i, a := range c.TypeArgs {
		args[i] = Specialize(a, vm)
		if args[i] != a {
			changed = true
		}
	}
	if !changed {
		return c
	}
	clone := *c
	clone.TypeArgs = args
	return &clone
}

func specializeFunction(f *Function, vm VarMap) *Function {
	clone := *f
	clone.SpecializedParams = make([]Type, len(f.Params))
	for i, p := range f.Params {
		if p.Declared != nil {
			clone.SpecializedParams[i] = Specialize(p.Declared, vm)
		}
	}
	if f.Return != nil {
		clone.SpecializedReturn = Specialize(f.Return, vm)
	}
	return &clone
}
