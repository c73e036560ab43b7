// Package types implements the Type Universe: the tagged
// sum of types, literal values, and type-variable maps, plus cheap
// construction and query helpers. The algebra (assignability, union
// normalization, specialization, member lookup, method binding) lives
// alongside it in this package's other files: the whole type system sits
// in one `types` package split by concern across files rather than by
// Go package boundary.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Kind tags which variant of the sum a Type value is.
type Kind int

const (
	KindUnknown Kind = iota
	KindAny
	KindNone
	KindNever
	KindUnbound
	KindClass
	KindObject
	KindFunction
	KindOverloaded
	KindTuple
	KindUnion
	KindTypeVar
	KindModule
	KindProperty
)

// Type is the common interface every variant implements.
type Type interface {
	Kind() Kind
	String() string
}

// ---- Unknown / Any / None / Never / Unbound ----

// UnknownType means "we don't know" and is distinct from Any: it never
// silently widens a diagnostic decision the way Any does conceptually, but
// for assignability purposes both behave permissively.
type UnknownType struct{}

func (UnknownType) Kind() Kind { return KindUnknown }
func (UnknownType) String() string { return "Unknown" }

// AnyType is the user-spelled `Any`, or `...` when IsEllipsis is set (the
// placeholder used in `Callable[..., R]` and untyped tuples).
type AnyType struct {
	IsEllipsis bool
}

func (AnyType) Kind() Kind { return KindAny }
func (a AnyType) String() string {
	if a.IsEllipsis {
		return "..."
	}
	return "Any"
}

type NoneType struct{}

func (NoneType) Kind() Kind { return KindNone }
func (NoneType) String() string { return "None" }

// NeverType is the empty type: the identity element of union combination.
type NeverType struct{}

func (NeverType) Kind() Kind { return KindNever }
func (NeverType) String() string { return "Never" }

// UnboundType marks a symbol used before any assignment reaches it.
type UnboundType struct{}

func (UnboundType) Kind() Kind { return KindUnbound }
func (UnboundType) String() string { return "Unbound" }

var (
	Unknown = UnknownType{}
	Any = AnyType{}
	Ellipsis = AnyType{IsEllipsis: true}
	NoneT = NoneType{}
	Never = NeverType{}
	Unbound = UnboundType{}
)

// ---- Class / Object ----

// ClassFlags are the bits carried by a Class variant.
type ClassFlags struct {
	Builtin bool
	SpecialBuiltin bool // Tuple, Callable, Union, Optional, ... the annotation forms
	Protocol bool
	Dataclass bool
	DataclassInit bool // false only when @dataclass(init=False)
	TypedDict bool
	Abstract bool
	NamedTuple bool
	IsMetaclass bool
}

// Member is one entry of a class's field table (instance or class scoped).
// It is intentionally lighter than scope.Symbol: the type algebra only
// needs a name and a type to do assignability/member-lookup work, and
// scope.Symbol (which carries declarations, aggregators, and access
// tracking) is built on top of *Member where richer bookkeeping is needed.
type Member struct {
	Name string
	Type Type
	IsInstance bool // true if this is an instance field, false if class field
	IsMethod bool
}

// Class is a nominal class, possibly generic and/or specialized.
type Class struct {
	Name string
	Flags ClassFlags
	Bases []*Class
	TypeParams []*TypeVar // ordered generic parameters, declared order
	TypeArgs []Type // non-nil only when specialized
	ClassFields map[string]*Member
	InstanceFields map[string]*Member
	Alias *Class // for a type alias, the class it stands for
	SourceID int
}

func NewClass(name string) *Class {
	return &Class{
		Name: name,
		ClassFields: make(map[string]*Member),
		InstanceFields: make(map[string]*Member),
	}
}

func (c *Class) Kind() Kind { return KindClass }

func (c *Class) String() string {
	if len(c.TypeArgs) == 0 {
		return c.Name
	}
	parts := make([]string, len(c.TypeArgs))
	for i, a := range c.TypeArgs {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s[%s]", c.Name, strings.Join(parts, ", "))
}

// IsSpecialized reports whether this class carries concrete type-arguments.
func (c *Class) IsSpecialized() bool { return len(c.TypeArgs) > 0 }

// RequiresSpecialization reports whether the class has unbound type
// parameters that have not been given arguments.
func (c *Class) RequiresSpecialization() bool {
	return len(c.TypeParams) > 0 && len(c.TypeArgs) == 0
}

// DerivesFrom reports whether c is target or transitively derives from it,
// recording the ancestor chain walked (closest-first) for variance checks.
func (c *Class) DerivesFrom(target *Class, chain *[]*Class) bool {
	if c == target || c.Name == target.Name && c.sameOrigin(target) {
		return true
	}
	for _, b := range c.Bases {
		if chain != nil {
			*chain = append(*chain, b)
		}
		if b.DerivesFrom(target, chain) {
			return true
		}
	}
	return false
}

func (c *Class) sameOrigin(o *Class) bool {
	// Two Class values denote the "same generic class" if they share a name;
	// their type-parameter lists are not compared.
	return c.Name == o.Name
}

// Object is an instance of a Class, optionally carrying a literal value
// that refines the type for subtyping.
type Object struct {
	Class *Class
	Literal interface{} // nil, or one of bool/int64/string (bytes literals are also stored as string)
}

func NewObject(c *Class) *Object { return &Object{Class: c} }

func (o *Object) Kind() Kind { return KindObject }

func (o *Object) String() string {
	if o.Literal != nil {
		switch v := o.Literal.(type) {
		case string:
			return fmt.Sprintf("Literal[%q]", v)
		default:
			return fmt.Sprintf("Literal[%v]", v)
		}
	}
	return o.Class.String()
}

// ---- Function ----

type ParamCategory int

const (
	ParamSimple ParamCategory = iota
	ParamVarArgsPositional
	ParamVarArgsNamedOnly
	ParamVarArgsKeyword
	ParamBareStar
)

type Param struct {
	Category ParamCategory
	Name string
	HasDefault bool
	Declared Type
}

type FuncFlags struct {
	Instance bool
	Class bool
	Static bool
	Constructor bool
	Synthesized bool
	Abstract bool
	Overloaded bool
	Generator bool
}

// Function is a callable signature.
type Function struct {
	Flags FuncFlags
	Params []Param
	Return Type
	SpecializedParams []Type // parallel to Params, nil until specialized
	SpecializedReturn Type
	BuiltinName string
}

func (f *Function) Kind() Kind { return KindFunction }

func (f *Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		t := p.Declared
		if i < len(f.SpecializedParams) && f.SpecializedParams[i] != nil {
			t = f.SpecializedParams[i]
		}
		name := p.Name
		switch p.Category {
		case ParamVarArgsPositional:
			name = "*" + name
		case ParamVarArgsKeyword:
			name = "**" + name
		case ParamBareStar:
			name = "*"
		}
		if t == nil {
			parts[i] = name
		} else {
			parts[i] = fmt.Sprintf("%s: %s", name, t.String())
		}
	}
	ret := f.Return
	if f.SpecializedReturn != nil {
		ret = f.SpecializedReturn
	}
	retStr := "None"
	if ret != nil {
		retStr = ret.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), retStr)
}

// EffectiveReturn returns the specialized return type if present, else the
// declared one.
func (f *Function) EffectiveReturn() Type {
	if f.SpecializedReturn != nil {
		return f.SpecializedReturn
	}
	return f.Return
}

// EffectiveParamType returns the specialized type of parameter i if
// present, else its declared annotation (or Unknown if unannotated).
func (f *Function) EffectiveParamType(i int) Type {
	if i < len(f.SpecializedParams) && f.SpecializedParams[i] != nil {
		return f.SpecializedParams[i]
	}
	if f.Params[i].Declared != nil {
		return f.Params[i].Declared
	}
	return Unknown
}

// OverloadedFunction is an ordered list of (function, source-id) pairs
// sharing one symbol, discovered as a group during binding.
type OverloadedFunction struct {
	Overloads []*Function
	SourceIDs []int
}

func (o *OverloadedFunction) Kind() Kind { return KindOverloaded }

func (o *OverloadedFunction) String() string {
	parts := make([]string, len(o.Overloads))
	for i, f := range o.Overloads {
		parts[i] = f.String()
	}
	return "Overload[" + strings.Join(parts, " | ") + "]"
}

// ---- Tuple ----

// Tuple is a fixed- or indefinite-length positional type.
// AllowMore is set for `Tuple[T, ...]`, meaning any length of T.
type Tuple struct {
	BaseClass *Class
	Entries []Type
	AllowMore bool
}

func (t *Tuple) Kind() Kind { return KindTuple }

func (t *Tuple) String() string {
	parts := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		parts[i] = e.String()
	}
	if t.AllowMore {
		parts = append(parts, "...")
	}
	return fmt.Sprintf("Tuple[%s]", strings.Join(parts, ", "))
}

// ---- Union ----

// Union is an ordered list of unique member types (flattened,
// deduplicated).
type Union struct {
	Members []Type
}

func (u *Union) Kind() Kind { return KindUnion }

func (u *Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// ---- TypeVar ----

type Variance int

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

type TypeVar struct {
	Name string
	Constraints []Type
	Bound Type
	Variance Variance
	DeclSite int // node id of the TypeVar(...) call; disambiguates identity
}

func (t *TypeVar) Kind() Kind { return KindTypeVar }
func (t *TypeVar) String() string { return t.Name }

// ---- Module ----

type Module struct {
	Name string
	Fields map[string]*Member
}

func NewModule(name string) *Module { return &Module{Name: name, Fields: make(map[string]*Member)} }

func (m *Module) Kind() Kind { return KindModule }
func (m *Module) String() string { return fmt.Sprintf("Module(%s)", m.Name) }

// ---- Property ----

type Property struct {
	Getter *Function
	Setter *Function
	Deleter *Function
}

func (p *Property) Kind() Kind { return KindProperty }
func (p *Property) String() string { return "property" }

// EffectiveType is the type a property yields when read: its getter's
// return type, or Unknown if there is no getter.
func (p *Property) EffectiveType() Type {
	if p.Getter != nil {
		return p.Getter.EffectiveReturn()
	}
	return Unknown
}

// ---- Queries ----

// IsAny reports whether t is the Any variant (ellipsis or not).
func IsAny(t Type) bool { _, ok := t.(AnyType); return ok }

// IsAnyOrUnknown reports whether t short-circuits assignability checks:
// Any and Unknown are both compatible with everything.
func IsAnyOrUnknown(t Type) bool {
	switch t.(type) {
	case AnyType, UnknownType:
		return true
	}
	return false
}

// RequiresSpecialization reports whether t contains any TypeVar or
// unspecialized generic class that specialize would need to act on.
func RequiresSpecialization(t Type) bool {
	switch v := t.(type) {
	case *TypeVar:
		return true
	case *Class:
		if v.RequiresSpecialization() {
			return true
		}
		for _, a := range v.TypeArgs {
			if RequiresSpecialization(a) {
				return true
			}
		}
		return false
	case *Object:
		return RequiresSpecialization(v.Class)
	case *Union:
		for _, m := range v.Members {
			if RequiresSpecialization(m) {
				return true
			}
		}
		return false
	case *Tuple:
		for _, e := range v.Entries {
			if RequiresSpecialization(e) {
				return true
			}
		}
		return false
	case *Function:
		for _, p := range v.Params {
			if p.Declared != nil && RequiresSpecialization(p.Declared) {
				return true
			}
		}
		return v.Return != nil && RequiresSpecialization(v.Return)
	case *OverloadedFunction:
		for _, f := range v.Overloads {
			if RequiresSpecialization(f) {
				return true
			}
		}
		return false
	}
	return false
}

// IsSame implements structural equality: tag equality plus recursive
// equality of components.
func IsSame(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case UnknownType, NoneType, NeverType, UnboundType:
		return true
	case AnyType:
		return av.IsEllipsis == b.(AnyType).IsEllipsis
	case *Class:
		bv := b.(*Class)
		if av.Name != bv.Name || len(av.TypeArgs) != len(bv.TypeArgs) {
			return false
		}
		for i := range av.TypeArgs {
			if !IsSame(av.TypeArgs[i], bv.TypeArgs[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv := b.(*Object)
		if !IsSame(av.Class, bv.Class) {
			return false
		}
		return literalEqual(av.Literal, bv.Literal)
	case *Function:
		bv := b.(*Function)
		if len(av.Params) != len(bv.Params) {
			return false
		}
		for i := range av.Params {
			if !IsSame(av.EffectiveParamType(i), bv.EffectiveParamType(i)) {
				return false
			}
		}
		return IsSame(av.EffectiveReturn(), bv.EffectiveReturn())
	case *OverloadedFunction:
		bv := b.(*OverloadedFunction)
		if len(av.Overloads) != len(bv.Overloads) {
			return false
		}
		for i := range av.Overloads {
			if !IsSame(av.Overloads[i], bv.Overloads[i]) {
				return false
			}
		}
		return true
	case *Tuple:
		bv := b.(*Tuple)
		if av.AllowMore != bv.AllowMore || len(av.Entries) != len(bv.Entries) {
			return false
		}
		for i := range av.Entries {
			if !IsSame(av.Entries[i], bv.Entries[i]) {
				return false
			}
		}
		return true
	case *Union:
		bv := b.(*Union)
		if len(av.Members) != len(bv.Members) {
			return false
		}
		used := make([]bool, len(bv.Members))
		for _, m := range av.Members {
			found := false
			for i, o := range bv.Members {
				if !used[i] && IsSame(m, o) {
					used[i] = true
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case *TypeVar:
		bv := b.(*TypeVar)
		return av.Name == bv.Name && av.DeclSite == bv.DeclSite
	case *Module:
		return av.Name == b.(*Module).Name
	case *Property:
		bv := b.(*Property)
		return IsSame(funcOrNil(av.Getter), funcOrNil(bv.Getter))
	}
	return false
}

func funcOrNil(f *Function) Type {
	if f == nil {
		return NoneT
	}
	return f
}

func literalEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}

// AsString renders a type for diagnostics.
func AsString(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// SortLiteralsLast implements the stable "literals after non-literals"
// ordering step of combine_types, used before deduplication.
func SortLiteralsLast(members []Type) []Type {
	out := make([]Type, len(members))
	copy(out, members)
	sort.SliceStable(out, func(i, j int) bool {
		return !isLiteralObject(out[i]) && isLiteralObject(out[j])
	})
	return out
}

func isLiteralObject(t Type) bool {
	o, ok := t.(*Object)
	return ok && o.Literal != nil
}
