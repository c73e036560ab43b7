// Package prelude builds the builtin scope every module scope chains to as
// its ultimate parent: the handful of names ("int", "isinstance", "Union",
// ...) a source file can reference without an explicit import. Real
// projects would source this from a typeshed-equivalent stub set; absent a
// parser for such stubs, this package constructs the same small surface
// types.Builtins already exposes, directly, and registers it where name
// resolution can actually find it.
package prelude

import (
	"github.com/kbridge/pytype/internal/scope"
	"github.com/kbridge/pytype/internal/types"
)

var global = build()

// Scope returns the shared, read-only builtin scope. Every module's own
// scope is constructed with this as its Parent, so an unqualified "int" or
// "isinstance" resolves here once local/enclosing scopes come up empty.
func Scope() *scope.Scope { return global }

func build() *scope.Scope {
	s := scope.New(scope.KindModule, nil)

	declareClass(s, "object", types.Builtins.Object)
	declareClass(s, "type", types.Builtins.Type)
	declareClass(s, "int", types.Builtins.Int)
	declareClass(s, "float", types.Builtins.Float)
	declareClass(s, "complex", types.Builtins.Complex)
	declareClass(s, "str", types.Builtins.Str)
	declareClass(s, "bytes", types.Builtins.Bytes)
	declareClass(s, "bool", types.Builtins.Bool)
	declareClass(s, "list", types.Builtins.List)
	declareClass(s, "dict", types.Builtins.Dict)
	declareClass(s, "set", types.Builtins.Set)
	declareClass(s, "frozenset", types.Builtins.FrozenSet)
	declareClass(s, "BaseException", types.Builtins.BaseException)
	declareClass(s, "Exception", types.Builtins.Exception)

	// typing's annotation-only special forms: each is a bare Class whose
	// Name the evaluator's specializeClassLiteral switches on directly.
	for _, name := range []string{
		"Optional", "Union", "Callable", "Type", "ClassVar",
		"List", "Set", "FrozenSet", "Deque", "Dict", "DefaultDict", "ChainMap",
		"Tuple", "Generic", "Protocol",
	} {
		declareSpecialForm(s, name)
	}

	// TypeVar(...) / NamedTuple(...) are recognized by evalConstructorCall
	// as a Class-callee dispatched by name, not actually instantiated.
	declareSpecialForm(s, "TypeVar")
	declareSpecialForm(s, "NamedTuple")

	declareFunction(s, "isinstance", []types.Param{
		{Category: types.ParamSimple, Name: "obj", Declared: types.Any},
		{Category: types.ParamSimple, Name: "class_or_tuple", Declared: types.Any},
	}, types.BoolObj())

	declareFunction(s, "issubclass", []types.Param{
		{Category: types.ParamSimple, Name: "cls", Declared: types.Any},
		{Category: types.ParamSimple, Name: "class_or_tuple", Declared: types.Any},
	}, types.BoolObj())

	declareFunction(s, "len", []types.Param{
		{Category: types.ParamSimple, Name: "obj", Declared: types.ObjectOf(types.Builtins.Object)},
	}, types.IntObj())

	declareFunction(s, "print", []types.Param{
		{Category: types.ParamVarArgsPositional, Name: "args", Declared: types.Any},
	}, types.NoneT)

	declareFunction(s, "getattr", []types.Param{
		{Category: types.ParamSimple, Name: "obj", Declared: types.Any},
		{Category: types.ParamSimple, Name: "name", Declared: types.StrObj()},
		{Category: types.ParamSimple, Name: "default", Declared: types.Any, HasDefault: true},
	}, types.Any)

	return s
}

func declareClass(s *scope.Scope, name string, c *types.Class) {
	s.Declare(name, 0, scope.CategoryClass, c)
}

func declareSpecialForm(s *scope.Scope, name string) *types.Class {
	c := types.NewClass(name)
	c.Flags.SpecialBuiltin = true
	s.Declare(name, 0, scope.CategoryClass, c)
	return c
}

func declareFunction(s *scope.Scope, name string, params []types.Param, ret types.Type) {
	fn := &types.Function{Flags: types.FuncFlags{Synthesized: true}, Params: params, Return: ret, BuiltinName: name}
	s.Declare(name, 0, scope.CategoryFunction, fn)
}
