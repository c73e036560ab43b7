package types

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestAsStringGolden snapshots the diagnostic rendering (AsString / String)
// of a representative slice of the type algebra's shapes, the same way the
// teacher snapshots its own rendered fixture output with go-snaps rather
// than hand-writing one assertion per case.
func TestAsStringGolden(t *testing.T) {
	cases := []struct {
		name string
		typ Type
	}{
		{"plain_object", IntObj()},
		{"literal_object", IntLiteral(7)},
		{"generic_list", GenericOf(Builtins.List, IntObj())},
		{"generic_dict", GenericOf(Builtins.Dict, StrObj(), IntObj())},
		{"union", Combine(IntObj(), StrObj(), NoneT)},
		{"tuple_fixed", &Tuple{BaseClass: Builtins.Object, Entries: []Type{IntObj(), StrObj()}}},
		{"tuple_variadic", &Tuple{BaseClass: Builtins.Object, Entries: []Type{IntObj()}, AllowMore: true}},
		{"function", &Function{
			Params: []Param{{Category: ParamSimple, Name: "x", Declared: IntObj()}},
			Return: StrObj(),
		}},
		{"overloaded_function", &OverloadedFunction{Overloads: []*Function{
			{Params: []Param{{Category: ParamSimple, Name: "x", Declared: IntObj()}}, Return: IntObj()},
			{Params: []Param{{Category: ParamSimple, Name: "x", Declared: StrObj()}}, Return: StrObj()},
		}}},
		{"type_var", &TypeVar{Name: "T"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			snaps.MatchSnapshot(t, c.name, AsString(c.typ))
		})
	}
}

// TestCombineGolden snapshots union normalization (§4.2.1) across the
// dedup/sort/literal-absorption rules in one rendered pass.
func TestCombineGolden(t *testing.T) {
	cases := []struct {
		name string
		members []Type
	}{
		{"dedupe_equal", []Type{IntObj(), IntObj()}},
		{"literal_absorbed_by_nonliteral", []Type{IntLiteral(1), IntObj()}},
		{"drops_never", []Type{Never, StrObj()}},
		{"flattens_nested_union", []Type{Combine(IntObj(), StrObj()), BoolObj()}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			snaps.MatchSnapshot(t, c.name, AsString(Combine(c.members...)))
		})
	}
}
