package types

// Builtins is the small set of built-in classes the evaluator and checker
// reference directly.
// Each is a singleton *Class so IsSame's name-based class identity holds.
type builtinSet struct {
	Object, Type, ModuleType *Class
	Int, Float, Complex, Str, Bytes, Bool *Class
	List, Dict, Set, FrozenSet, Deque, DefaultDict, ChainMap *Class
	BaseException, Exception *Class
}

func newBuiltinClass(name string) *Class {
	c := NewClass(name)
	c.Flags.Builtin = true
	return c
}

// Builtins holds the process-wide builtin class table. Real projects would
// load these from a typeshed-equivalent stub set;
// here they are constructed directly since stub parsing is outside core
// scope.
var Builtins = func() *builtinSet {
	b := &builtinSet{
		Object: newBuiltinClass("object"),
		Type: newBuiltinClass("type"),
		ModuleType: newBuiltinClass("ModuleType"),
		Int: newBuiltinClass("int"),
		Float: newBuiltinClass("float"),
		Complex: newBuiltinClass("complex"),
		Str: newBuiltinClass("str"),
		Bytes: newBuiltinClass("bytes"),
		Bool: newBuiltinClass("bool"),
		List: newBuiltinClass("list"),
		Dict: newBuiltinClass("dict"),
		Set: newBuiltinClass("set"),
		FrozenSet: newBuiltinClass("frozenset"),
		Deque: newBuiltinClass("deque"),
		DefaultDict: newBuiltinClass("defaultdict"),
		ChainMap: newBuiltinClass("ChainMap"),
		BaseException: newBuiltinClass("BaseException"),
		Exception: newBuiltinClass("Exception"),
	}
	b.Bool.Bases = []*Class{b.Int}
	b.Exception.Bases = []*Class{b.BaseException}
	for _, c := range []*Class{b.Int, b.Float, b.Complex, b.Str, b.Bytes, b.Bool,
		b.List, b.Dict, b.Set, b.FrozenSet, b.Deque, b.DefaultDict, b.ChainMap,
		b.BaseException, b.Exception, b.ModuleType, b.Type} {
		if len(c.Bases) == 0 {
			c.Bases = []*Class{b.Object}
		}
	}
	elemT := &TypeVar{Name: "_T"}
	keyT := &TypeVar{Name: "_K"}
	valT := &TypeVar{Name: "_V"}
	b.List.TypeParams = []*TypeVar{elemT}
	b.Set.TypeParams = []*TypeVar{elemT}
	b.FrozenSet.TypeParams = []*TypeVar{elemT}
	b.Deque.TypeParams = []*TypeVar{elemT}
	b.Dict.TypeParams = []*TypeVar{keyT, valT}
	b.DefaultDict.TypeParams = []*TypeVar{keyT, valT}
	b.ChainMap.TypeParams = []*TypeVar{keyT, valT}

	// A handful of dunder/instance methods the checker's For/With handling
	// and a couple of S2-shaped attribute-access scenarios need resolvable;
	// these stand in for the typeshed stub set a real import resolver
	// would otherwise supply (see internal/prelude).
	iterMethod := func(c *Class, ret Type) {
		c.ClassFields["__iter__"] = &Member{Name: "__iter__", IsInstance: true, IsMethod: true, Type: &Function{
			Flags: FuncFlags{Instance: true, Synthesized: true},
			Params: []Param{{Category: ParamSimple, Name: "self"}},
			Return: ret,
		}}
	}
	iterMethod(b.List, elemT)
	iterMethod(b.Set, elemT)
	iterMethod(b.FrozenSet, elemT)
	iterMethod(b.Deque, elemT)
	iterMethod(b.Dict, keyT)
	iterMethod(b.DefaultDict, keyT)
	iterMethod(b.ChainMap, keyT)
	iterMethod(b.Str, ObjectOf(b.Str))
	iterMethod(b.Bytes, ObjectOf(b.Int))

	b.List.ClassFields["append"] = &Member{Name: "append", IsInstance: true, IsMethod: true, Type: &Function{
		Flags: FuncFlags{Instance: true, Synthesized: true},
		Params: []Param{{Category: ParamSimple, Name: "self"}, {Category: ParamSimple, Name: "value", Declared: elemT}},
		Return: NoneT,
	}}
	b.Str.ClassFields["find"] = &Member{Name: "find", IsInstance: true, IsMethod: true, Type: &Function{
		Flags: FuncFlags{Instance: true, Synthesized: true},
		Params: []Param{{Category: ParamSimple, Name: "self"}, {Category: ParamSimple, Name: "sub", Declared: ObjectOf(b.Str)}},
		Return: ObjectOf(b.Int),
	}}
	b.Str.ClassFields["upper"] = &Member{Name: "upper", IsInstance: true, IsMethod: true, Type: &Function{
		Flags: FuncFlags{Instance: true, Synthesized: true},
		Params: []Param{{Category: ParamSimple, Name: "self"}},
		Return: ObjectOf(b.Str),
	}}
	return b
}()

// ObjectOf instantiates a plain (non-literal) Object(C).
func ObjectOf(c *Class) *Object { return &Object{Class: c} }

// GenericOf specializes a builtin container class with the given
// type-arguments, e.g. GenericOf(Builtins.List, T) == list[T].
func GenericOf(c *Class, args ...Type) *Object {
	clone := *c
	clone.TypeArgs = args
	return &Object{Class: &clone}
}

func IntObj() *Object { return ObjectOf(Builtins.Int) }
func FloatObj() *Object { return ObjectOf(Builtins.Float) }
func StrObj() *Object { return ObjectOf(Builtins.Str) }
func BytesObj() *Object { return ObjectOf(Builtins.Bytes) }
func BoolObj() *Object { return ObjectOf(Builtins.Bool) }

// BoolLiteral returns the truthy/falsy literal object for True/False.
func BoolLiteral(v bool) *Object { return &Object{Class: Builtins.Bool, Literal: v} }

func IntLiteral(v int64) *Object { return &Object{Class: Builtins.Int, Literal: v} }
func StrLiteral(v string) *Object { return &Object{Class: Builtins.Str, Literal: v} }
func BytesLiteral(v []byte) *Object { return &Object{Class: Builtins.Bytes, Literal: string(v)} }

// IsNumeric reports whether t is (an instance of) one of int/float/complex/bool,
// used by the binary-arithmetic promotion rule.
func IsNumeric(t Type) (*Class, bool) {
	o, ok := t.(*Object)
	if !ok {
		return nil, false
	}
	switch o.Class.Name {
	case "int", "float", "complex", "bool":
		return o.Class, true
	}
	return nil, false
}

// PromoteNumeric implements the standard int < float < complex widening
// used by arithmetic binary operators.
func PromoteNumeric(a, b *Class) *Class {
	rank := func(c *Class) int {
		switch c.Name {
		case "complex":
			return 3
		case "float":
			return 2
		default:
			return 1
		}
	}
	if rank(a) >= rank(b) {
		if a.Name == "bool" {
			return Builtins.Int
		}
		return a
	}
	if b.Name == "bool" {
		return Builtins.Int
	}
	return b
}
