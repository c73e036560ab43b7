package types

// MaxAssignDepth bounds can_assign's recursion.
// Exceeding it returns true conservatively to guarantee termination on
// self-referential types.
const MaxAssignDepth = 24

// VarMap binds TypeVars encountered on the dest side during an assignability
// check or during specialization.
type VarMap map[string]Type

// Diag receives human-readable reasons a check failed; nil is fine when the
// caller only wants the bool result.
type Diag interface {
	Add(reason string)
}

type noopDiag struct{}

func (noopDiag) Add(string) {}

// CanAssign is the assignability/subtyping judgement: can a value of type
// src be used where dest is expected.
func CanAssign(dest, src Type, diag Diag, vm VarMap, allowSubclasses bool) bool {
	return canAssignDepth(dest, src, diag, vm, allowSubclasses, 0)
}

func canAssignDepth(dest, src Type, diag Diag, vm VarMap, allowSubclasses bool, depth int) bool {
	if diag == nil {
		diag = noopDiag{}
	}
	if depth >= MaxAssignDepth {
		return true
	}

	// 1. dest is TypeVar.
	if tv, ok := dest.(*TypeVar); ok {
		if vm != nil {
			stripped := stripLiteral(src)
			if bound, ok := vm[tv.Name]; ok {
				return canAssignDepth(bound, stripped, diag, vm, allowSubclasses, depth+1)
			}
			vm[tv.Name] = stripped
			return typeVarAccepts(tv, stripped, diag, depth)
		}
		return typeVarAccepts(tv, src, diag, depth)
	}

	// 2. Any/Unknown short-circuit.
	if IsAnyOrUnknown(dest) || IsAnyOrUnknown(src) {
		return true
	}

	// Never (the empty type) is assignable to every type.
	if src.Kind() == KindNever {
		return true
	}

	// 3. src is TypeVar: specialize to constraints/bound (or Any) and recurse.
	if tv, ok := src.(*TypeVar); ok {
		return canAssignDepth(dest, specializeTypeVarDefault(tv), diag, vm, allowSubclasses, depth+1)
	}

	// 4. src is Union: all branches must assign.
	if u, ok := src.(*Union); ok {
		for _, m := range u.Members {
			if !canAssignDepth(dest, m, diag, vm, allowSubclasses, depth+1) {
				diag.Add("union member " + m.String() + " not assignable to " + dest.String())
				return false
			}
		}
		return true
	}

	// 5. dest is Union: some branch must assign.
	if u, ok := dest.(*Union); ok {
		for _, m := range u.Members {
			if canAssignDepth(m, src, diag, vm, allowSubclasses, depth+1) {
				return true
			}
		}
		diag.Add(src.String() + " not assignable to any member of " + dest.String())
		return false
	}

	// 6. Either Unbound.
	if dest.Kind() == KindUnbound || src.Kind() == KindUnbound {
		return false
	}

	// 7. Both None.
	if dest.Kind() == KindNone && src.Kind() == KindNone {
		return true
	}

	// 8. src is a Class (the class object itself, not an instance).
	if srcClass, ok := src.(*Class); ok {
		if destObj, ok := dest.(*Object); ok {
			return classObjectAssignable(destObj, srcClass)
		}
		if destClass, ok := dest.(*Class); ok {
			return classToClassAssignable(destClass, srcClass, diag, vm, depth)
		}
	}

	// 9. dest is Object.
	if destObj, ok := dest.(*Object); ok {
		switch s := src.(type) {
		case *Object:
			if destObj.Literal != nil {
				if !literalEqual(destObj.Literal, s.Literal) {
					diag.Add("literal mismatch")
					return false
				}
			}
			return classToClassAssignable(destObj.Class, s.Class, diag, vm, depth)
		case *Function:
			if destObj.Class.Flags.Protocol {
				if callMember, _, _, ok := LookUpClassMember(destObj.Class, "__call__", LookupFlags{}); ok {
					return functionAssignable(asFunction(callMember.Type), s, diag, vm, depth)
				}
			}
			return false
		case *Module:
			return destObj.Class.Name == "ModuleType" || destObj.Class.Builtin()
		}
		return false
	}

	// 10. dest is Function.
	if destFn, ok := dest.(*Function); ok {
		callable := asCallable(src)
		if callable == nil {
			diag.Add(src.String() + " is not callable")
			return false
		}
		return functionAssignable(destFn, callable, diag, vm, depth)
	}

	// 11. None/Module widen to object.
	if dest.Kind() == KindNone || dest.Kind() == KindModule {
		return true
	}

	return false
}

func (c *Class) Builtin() bool { return c.Flags.Builtin }

func stripLiteral(t Type) Type {
	if o, ok := t.(*Object); ok && o.Literal != nil {
		return &Object{Class: o.Class}
	}
	return t
}

func typeVarAccepts(tv *TypeVar, t Type, diag Diag, depth int) bool {
	if len(tv.Constraints) > 0 {
		for _, c := range tv.Constraints {
			if canAssignDepth(c, t, diag, nil, true, depth+1) {
				return true
			}
		}
		return false
	}
	if tv.Bound != nil {
		return canAssignDepth(tv.Bound, t, diag, nil, true, depth+1)
	}
	return true
}

func specializeTypeVarDefault(tv *TypeVar) Type {
	if len(tv.Constraints) > 0 {
		return Combine(tv.Constraints...)
	}
	if tv.Bound != nil {
		return tv.Bound
	}
	return Any
}

func classObjectAssignable(destObj *Object, srcClass *Class) bool {
	// dest is Object(type) / Object(Type[X]): true when dest's class is the
	// builtin `type`/`object` or a Type[X] slot matching srcClass.
	if destObj.Class.Name == "type" || destObj.Class.Name == "object" {
		return true
	}
	if len(destObj.Class.TypeArgs) == 1 {
		if c, ok := destObj.Class.TypeArgs[0].(*Class); ok {
			return classToClassAssignable(c, srcClass, noopDiag{}, nil, 0)
		}
	}
	return false
}

// classToClassAssignable implements the class-to-class assignability rule,
// including the protocol structural check and the int->float / Tuple
// special cases.
func classToClassAssignable(dest, src *Class, diag Diag, vm VarMap, depth int) bool {
	if dest.Name == "object" {
		return true
	}
	if dest.Name == "float" && src.Name == "int" {
		return true
	}
	if dest.Flags.Protocol {
		return structuralMatch(dest, src, diag, depth)
	}
	var chain []*Class
	if !src.DerivesFrom(dest, &chain) {
		diag.Add(src.Name + " does not derive from " + dest.Name)
		return false
	}
	if len(dest.TypeArgs) == 0 {
		return true
	}
	// Build the specialization map implied by src's own type-arguments and
	// compare dest's type-arguments against it respecting variance.
	specMap := make(VarMap)
	for i, tp := range src.TypeParams {
		if i < len(src.TypeArgs) {
			specMap[tp.Name] = src.TypeArgs[i]
		}
	}
	for i, arg := range dest.TypeArgs {
		if i >= len(src.TypeArgs) {
			break
		}
		srcArg := Specialize(src.TypeArgs[i], specMap)
		variance := Invariant
		if i < len(dest.TypeParams) {
			variance = dest.TypeParams[i].Variance
		}
		switch variance {
		case Covariant:
			if !canAssignDepth(arg, srcArg, diag, vm, true, depth+1) {
				return false
			}
		case Contravariant:
			if !canAssignDepth(srcArg, arg, diag, vm, true, depth+1) {
				return false
			}
		default:
			if !canAssignDepth(arg, srcArg, diag, vm, true, depth+1) || !canAssignDepth(srcArg, arg, diag, vm, true, depth+1) {
				return false
			}
		}
	}
	return true
}

// structuralMatch checks every member of a protocol against candidate,
// specialized through the protocol's own type-argument map.
func structuralMatch(protocol, candidate *Class, diag Diag, depth int) bool {
	specMap := make(VarMap)
	for i, tp := range protocol.TypeParams {
		if i < len(protocol.TypeArgs) {
			specMap[tp.Name] = protocol.TypeArgs[i]
		}
	}
	members := make(map[string]*Member)
	collectMembers(protocol, members, true)
	for name, m := range members {
		found, _, _, ok := LookUpClassMember(candidate, name, LookupFlags{})
		if !ok {
			diag.Add("missing member " + name)
			return false
		}
		want := Specialize(m.Type, specMap)
		if !canAssignDepth(want, found.Type, diag, nil, true, depth+1) {
			diag.Add("member " + name + " type mismatch")
			return false
		}
	}
	return true
}

func collectMembers(c *Class, out map[string]*Member, includeBases bool) {
	for n, m := range c.ClassFields {
		if _, seen := out[n]; !seen {
			out[n] = m
		}
	}
	for n, m := range c.InstanceFields {
		if _, seen := out[n]; !seen {
			out[n] = m
		}
	}
	if includeBases {
		for _, b := range c.Bases {
			collectMembers(b, out, includeBases)
		}
	}
}

// asFunction unwraps a plain *Function from a Type, or nil.
func asFunction(t Type) *Function {
	f, _ := t.(*Function)
	return f
}

// asCallable derives a callable view of src per rule 10:
// a function, an overload's first match(left to the caller), an object
// with __call__, or nil.
func asCallable(src Type) *Function {
	switch v := src.(type) {
	case *Function:
		return v
	case *OverloadedFunction:
		if len(v.Overloads) > 0 {
			return v.Overloads[0]
		}
	case *Object:
		if m, _, _, ok := LookUpClassMember(v.Class, "__call__", LookupFlags{}); ok {
			return asFunction(m.Type)
		}
	case *Class:
		if m, _, _, ok := LookUpClassMember(v, "__init__", LookupFlags{SkipOriginalClass: false}); ok {
			return asFunction(m.Type)
		}
	}
	return nil
}

// functionAssignable implements function assignability: positional
// parameters pairwise (contravariant), named parameters by name, arity
// bounds without var-args, and covariant return.
func functionAssignable(dest, src *Function, diag Diag, vm VarMap, depth int) bool {
	destPos, destNamed, destHasVarPos, destHasVarKw := splitParams(dest)
	srcPos, srcNamed, srcHasVarPos, _ := splitParams(src)

	n := len(destPos)
	if len(srcPos) < n {
		n = len(srcPos)
	}
	for i := 0; i < n; i++ {
		dp := destPos[i].Declared
		sp := srcPos[i].Declared
		if dp == nil {
			dp = Unknown
		}
		if sp == nil {
			sp = Unknown
		}
		if !canAssignDepth(dp, sp, diag, vm, true, depth+1) {
			diag.Add("parameter type mismatch at position")
			return false
		}
		if !canAssignDepth(sp, dp, diag, vm, true, depth+1) {
			diag.Add("parameter not contravariant")
			return false
		}
	}

	for name, sp := range srcNamed {
		dp, ok := destNamed[name]
		if !ok {
			continue
		}
		dt := dp.Declared
		st := sp.Declared
		if dt == nil {
			dt = Unknown
		}
		if st == nil {
			st = Unknown
		}
		if !canAssignDepth(dt, st, diag, vm, true, depth+1) {
			return false
		}
	}

	if !destHasVarPos && !srcHasVarPos {
		srcRequired := 0
		for _, p := range srcPos {
			if !p.HasDefault {
				srcRequired++
			}
		}
		if len(destPos) < srcRequired {
			diag.Add("too few parameters")
			return false
		}
		if len(destPos) > len(srcPos) && !destHasVarKw {
			// dest accepts more positional slots than src offers; acceptable
			// only if the extras have defaults on dest's own side, which is
			// already implied by dest being the narrower caller-facing type.
		}
	}

	destRet := dest.EffectiveReturn()
	srcRet := src.EffectiveReturn()
	if destRet == nil {
		destRet = NoneT
	}
	if srcRet == nil {
		srcRet = NoneT
	}
	return canAssignDepth(destRet, srcRet, diag, vm, true, depth+1)
}

func splitParams(f *Function) (pos []Param, named map[string]Param, hasVarPos, hasVarKw bool) {
	named = make(map[string]Param)
	afterStar := false
	for _, p := range f.Params {
		switch p.Category {
		case ParamBareStar:
			afterStar = true
		case ParamVarArgsPositional:
			hasVarPos = true
			afterStar = true
		case ParamVarArgsKeyword:
			hasVarKw = true
		case ParamVarArgsNamedOnly:
			named[p.Name] = p
		default:
			if afterStar {
				named[p.Name] = p
			} else {
				pos = append(pos, p)
			}
		}
	}
	return
}

// LookupFlags controls look_up_class_member.
type LookupFlags struct {
	SkipOriginalClass bool
	SkipBaseClasses bool
	SkipObjectBaseClass bool
	SkipInstanceVariables bool
	DeclaredTypesOnly bool
}

// LookUpClassMember is the linear C3-like traversal: optionally instance
// fields, then class fields, then each base in declared order, first
// match wins; at each hop the discovered type is partially specialized
// through the traversal path's type-argument map.
func LookUpClassMember(class *Class, name string, flags LookupFlags) (*Member, *Class, Type, bool) {
	return lookUpClassMember(class, name, flags, make(VarMap), true)
}

func lookUpClassMember(class *Class, name string, flags LookupFlags, specMap VarMap, isOriginal bool) (*Member, *Class, Type, bool) {
	if class == nil {
		return nil, nil, nil, false
	}
	for i, tp := range class.TypeParams {
		if i < len(class.TypeArgs) {
			specMap[tp.Name] = class.TypeArgs[i]
		}
	}
	if !(isOriginal && flags.SkipOriginalClass) {
		if !flags.SkipInstanceVariables {
			if m, ok := class.InstanceFields[name]; ok {
				return m, class, Specialize(m.Type, specMap), true
			}
		}
		if m, ok := class.ClassFields[name]; ok {
			if !flags.DeclaredTypesOnly || m.Type != nil {
				return m, class, Specialize(m.Type, specMap), true
			}
		}
	}
	if flags.SkipBaseClasses {
		return nil, nil, nil, false
	}
	for _, b := range class.Bases {
		if flags.SkipObjectBaseClass && b.Name == "object" {
			continue
		}
		childSpec := make(VarMap)
		for k, v := range specMap {
			childSpec[k] = v
		}
		if m, owner, t, ok := lookUpClassMember(b, name, flags, childSpec, false); ok {
			return m, owner, t, ok
		}
	}
	return nil, nil, nil, false
}

// BindFunctionToClassOrObject strips the first
// parameter of an instance method bound to an object, or a classmethod
// bound to a class, using its declared type to seed the type-var map first.
func BindFunctionToClassOrObject(fn *Function, receiver Type, treatAsClassMember bool) *Function {
	if fn == nil || len(fn.Params) == 0 {
		return fn
	}
	if !(fn.Flags.Instance && isObjectReceiver(receiver) || fn.Flags.Class || treatAsClassMember) {
		return fn
	}
	vm := make(VarMap)
	if fn.Params[0].Declared != nil {
		CanAssign(fn.Params[0].Declared, receiver, nil, vm, true)
	}
	clone := *fn
	clone.Params = fn.Params[1:]
	if len(fn.SpecializedParams) > 1 {
		clone.SpecializedParams = fn.SpecializedParams[1:]
	} else {
		clone.SpecializedParams = nil
	}
	if len(vm) > 0 {
		if clone.Return != nil {
			clone.SpecializedReturn = Specialize(clone.Return, vm)
		}
	}
	return &clone
}

func isObjectReceiver(t Type) bool {
	_, ok := t.(*Object)
	return ok
}

// BindOverloadedFunction binds every overload to the receiver.
func BindOverloadedFunction(o *OverloadedFunction, receiver Type, treatAsClassMember bool) *OverloadedFunction {
	bound := &OverloadedFunction{SourceIDs: o.SourceIDs}
	for _, f := range o.Overloads {
		bound.Overloads = append(bound.Overloads, BindFunctionToClassOrObject(f, receiver, treatAsClassMember))
	}
	return bound
}
