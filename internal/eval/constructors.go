package eval

import (
	"strings"

	"github.com/kbridge/pytype/internal/diag"
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/types"
)

// constructTypeVar implements TypeVar(name, *constraints,
// bound=, covariant=, contravariant=).
func (e *Evaluator) constructTypeVar(n *pytree.Call) types.Type {
	if len(n.Args) == 0 || n.Args[0].Name != "" {
		e.report(diag.ArgumentMismatch, "TypeVar() requires a name as the first argument")
		return types.Unknown
	}
	nameLit, ok := n.Args[0].Value.(*pytree.StringLit)
	if !ok {
		e.report(diag.ArgumentMismatch, "TypeVar() first argument must be a string literal")
		return types.Unknown
	}
	tv := &types.TypeVar{Name: nameLit.Value, DeclSite: n.ID()}

	var constraints []types.Type
	seenKw := map[string]bool{}
	var covariant, contravariant bool
	hasBound := false

	for _, a := range n.Args[1:] {
		if a.Name == "" {
			constraints = append(constraints, e.evalAnnotation(a.Value))
			continue
		}
		if seenKw[a.Name] {
			e.report(diag.DuplicateKeyword, "duplicate TypeVar() keyword '"+a.Name+"'")
			continue
		}
		seenKw[a.Name] = true
		switch a.Name {
		case "bound":
			hasBound = true
			tv.Bound = e.evalAnnotation(a.Value)
		case "covariant":
			covariant = boolLiteralValue(a.Value)
		case "contravariant":
			contravariant = boolLiteralValue(a.Value)
		}
	}

	if hasBound && len(constraints) > 0 {
		e.report(diag.ArgumentMismatch, "TypeVar() bound= is mutually exclusive with constraints")
	}
	if covariant && contravariant {
		e.report(diag.ArgumentMismatch, "TypeVar() covariant= and contravariant= are mutually exclusive")
	}
	tv.Constraints = constraints
	switch {
	case covariant:
		tv.Variance = types.Covariant
	case contravariant:
		tv.Variance = types.Contravariant
	default:
		tv.Variance = types.Invariant
	}
	return tv
}

func boolLiteralValue(e2 pytree.Expr) bool {
	nc, ok := e2.(*pytree.NameConstant)
	return ok && nc.Kind == pytree.ConstTrue
}

// constructNamedTuple implements NamedTuple(name, fields),
// in both the untyped (space-separated string) and typed (list of
// (name, type) tuples) forms.
func (e *Evaluator) constructNamedTuple(n *pytree.Call) types.Type {
	if len(n.Args) < 2 {
		e.report(diag.ArgumentMismatch, "NamedTuple() requires a name and a field spec")
		return types.Unknown
	}
	nameLit, ok := n.Args[0].Value.(*pytree.StringLit)
	if !ok {
		return types.Unknown
	}

	type field struct {
		name string
		typ types.Type
	}
	var fields []field
	staticallyKnown := true

	switch spec := n.Args[1].Value.(type) {
	case *pytree.StringLit:
		for _, name := range strings.Fields(spec.Value) {
			fields = append(fields, field{name: name, typ: types.Unknown})
		}
	case *pytree.ListExpr:
		for _, el := range spec.Elts {
			tup, ok := el.(*pytree.TupleExpr)
			if !ok || len(tup.Elts) != 2 {
				staticallyKnown = false
				continue
			}
			nameExpr, ok := tup.Elts[0].(*pytree.StringLit)
			if !ok {
				staticallyKnown = false
				continue
			}
			fields = append(fields, field{name: nameExpr.Value, typ: e.evalAnnotation(tup.Elts[1])})
		}
	default:
		staticallyKnown = false
	}

	seen := map[string]bool{}
	for i := range fields {
		if fields[i].name == "" || seen[fields[i].name] {
			e.report(diag.ArgumentMismatch, "NamedTuple field names must be non-empty and unique")
			fields[i].name = defaultFieldName(i)
		}
		seen[fields[i].name] = true
	}

	class := types.NewClass(nameLit.Value)
	class.Flags.NamedTuple = true
	class.Bases = []*types.Class{types.Builtins.Object}
	self := types.ObjectOf(class)

	params := []types.Param{{Category: types.ParamSimple, Name: "cls"}}
	for _, f := range fields {
		params = append(params, types.Param{Category: types.ParamSimple, Name: f.name, Declared: f.typ})
	}
	newFn := &types.Function{Flags: types.FuncFlags{Class: true, Constructor: true, Synthesized: true}, Params: params, Return: self}
	class.ClassFields["__new__"] = &types.Member{Name: "__new__", Type: newFn}

	initParams := []types.Param{{Category: types.ParamSimple, Name: "self", Declared: self}}
	for _, f := range fields {
		initParams = append(initParams, types.Param{Category: types.ParamSimple, Name: f.name, Declared: f.typ})
	}
	initFn := &types.Function{Flags: types.FuncFlags{Instance: true, Synthesized: true}, Params: initParams, Return: types.NoneT}
	class.ClassFields["__init__"] = &types.Member{Name: "__init__", Type: initFn, IsInstance: true, IsMethod: true}

	for _, f := range fields {
		class.InstanceFields[f.name] = &types.Member{Name: f.name, Type: f.typ, IsInstance: true}
	}

	strList := types.GenericOf(types.Builtins.List, types.StrObj())
	class.ClassFields["keys"] = &types.Member{Name: "keys", Type: &types.Function{Flags: types.FuncFlags{Instance: true, Synthesized: true}, Params: []types.Param{{Name: "self", Declared: self}}, Return: strList}, IsInstance: true, IsMethod: true}
	class.ClassFields["items"] = &types.Member{Name: "items", Type: &types.Function{Flags: types.FuncFlags{Instance: true, Synthesized: true}, Params: []types.Param{{Name: "self", Declared: self}}, Return: strList}, IsInstance: true, IsMethod: true}
	class.ClassFields["__len__"] = &types.Member{Name: "__len__", Type: &types.Function{Flags: types.FuncFlags{Instance: true, Synthesized: true}, Params: []types.Param{{Name: "self", Declared: self}}, Return: types.IntObj()}, IsInstance: true, IsMethod: true}

	if !staticallyKnown {
		class.ClassFields["__getattribute__"] = &types.Member{
			Name: "__getattribute__",
			Type: &types.Function{Flags: types.FuncFlags{Instance: true, Synthesized: true}, Params: []types.Param{{Name: "self", Declared: self}, {Name: "name", Declared: types.StrObj()}}, Return: types.Unknown},
			IsInstance: true, IsMethod: true,
		}
	}

	return class
}

func defaultFieldName(i int) string {
	return "_" + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	return string(digits)
}
