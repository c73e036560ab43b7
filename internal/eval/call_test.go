package eval

import (
	"testing"

	"github.com/kbridge/pytype/internal/diag"
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/pytree/testtree"
	"github.com/kbridge/pytype/internal/types"
)

// capturingSink implements Sink, recording each diagnostic's Kind for
// assertions.
type capturingSink struct{ kinds []diag.Kind }

func (c *capturingSink) Add(d diag.Diagnostic) { c.kinds = append(c.kinds, d.Kind) }

func TestKeywordOnlyAfterBareStar(t *testing.T) {
	b := testtree.New()
	f := &types.Function{
		Params: []types.Param{
			{Category: types.ParamSimple, Name: "a", Declared: types.IntObj()},
			{Category: types.ParamBareStar},
			{Category: types.ParamVarArgsNamedOnly, Name: "b", Declared: types.IntObj()},
		},
		Return: types.NoneT,
	}

	e := New(nil, nil, nil, nil, 1)
	goodArgs := []pytree.Argument{
		{Value: b.Number("1")},
		{Name: "b", Value: b.Number("2")},
	}
	if !e.validateArgumentsOK(f, goodArgs, make(types.VarMap)) {
		t.Fatalf("f(1, b=2) should validate: b is reachable as a keyword after the bare *")
	}

	badArgs := []pytree.Argument{
		{Value: b.Number("1")},
		{Value: b.Number("2")},
	}
	if e.validateArgumentsOK(f, badArgs, make(types.VarMap)) {
		t.Fatalf("f(1, 2) should fail: b is keyword-only after the bare *, not positional")
	}
}

func TestOverloadPicksFirstMatchingSignature(t *testing.T) {
	b := testtree.New()
	intOverload := &types.Function{
		Params: []types.Param{{Category: types.ParamSimple, Name: "x", Declared: types.IntObj()}},
		Return: types.IntObj(),
	}
	strOverload := &types.Function{
		Params: []types.Param{{Category: types.ParamSimple, Name: "x", Declared: types.StrObj()}},
		Return: types.StrObj(),
	}
	o := &types.OverloadedFunction{Overloads: []*types.Function{intOverload, strOverload}}

	e := New(nil, nil, nil, nil, 1)
	intCall := []pytree.Argument{{Value: b.Number("1")}}
	if got := e.matchOverload(o, intCall, nil); got.String() != "int" {
		t.Fatalf("matchOverload(h(1)) = %s, want int", got.String())
	}

	sink := &capturingSink{}
	e2 := New(nil, nil, sink, nil, 1)
	floatCall := []pytree.Argument{{Value: b.Float("1.0")}}
	if got := e2.matchOverload(o, floatCall, nil); got != types.Unknown {
		t.Fatalf("matchOverload(h(1.0)) with no matching overload should be Unknown, got %s", got.String())
	}
	if len(sink.kinds) != 1 || sink.kinds[0] != diag.OverloadNoMatch {
		t.Fatalf("matchOverload with no match should report overload-no-match, got %v", sink.kinds)
	}
}

func TestMissingRequiredArgumentReported(t *testing.T) {
	f := &types.Function{
		Params: []types.Param{{Category: types.ParamSimple, Name: "a", Declared: types.IntObj()}},
		Return: types.NoneT,
	}
	sink := &capturingSink{}
	e := New(nil, nil, sink, nil, 1)
	e.validateArguments(f, nil, make(types.VarMap))
	if len(sink.kinds) != 1 || sink.kinds[0] != diag.ParameterCount {
		t.Fatalf("calling f() with a missing required arg should report parameter-count, got %v", sink.kinds)
	}
}

func TestDuplicateKeywordArgumentReported(t *testing.T) {
	b := testtree.New()
	f := &types.Function{
		Params: []types.Param{{Category: types.ParamVarArgsNamedOnly, Name: "a", Declared: types.IntObj()}},
		Return: types.NoneT,
	}
	sink := &capturingSink{}
	e := New(nil, nil, sink, nil, 1)
	args := []pytree.Argument{
		{Name: "a", Value: b.Number("1")},
		{Name: "a", Value: b.Number("2")},
	}
	e.validateArguments(f, args, make(types.VarMap))
	if len(sink.kinds) != 1 || sink.kinds[0] != diag.DuplicateKeyword {
		t.Fatalf("repeating keyword 'a' should report duplicate-keyword, got %v", sink.kinds)
	}
}
