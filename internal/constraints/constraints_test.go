package constraints

import (
	"testing"

	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/pytree/testtree"
	"github.com/kbridge/pytype/internal/scope"
	"github.com/kbridge/pytype/internal/types"
)

// symbolTable resolves test-built *pytree.Name nodes to a stable *scope.Symbol
// by name, standing in for the real scope lookup so two distinct Name nodes
// spelling the same identifier resolve to the identical Symbol, the way two
// occurrences of `x` in one function body do.
type symbolTable struct{ syms map[string]*scope.Symbol }

func newSymbolTable(names ...string) *symbolTable {
	st := &symbolTable{syms: make(map[string]*scope.Symbol)}
	for _, n := range names {
		st.syms[n] = &scope.Symbol{Name: n}
	}
	return st
}

func (st *symbolTable) resolve(e pytree.Expr) *scope.Symbol {
	n, ok := e.(*pytree.Name)
	if !ok {
		return nil
	}
	return st.syms[n.Value]
}

func TestDeriveIsinstanceNarrowsPositiveBranch(t *testing.T) {
	b := testtree.New()
	x := b.Name("x")
	intName := b.Name("int")
	call := b.Call(b.Name("isinstance"), b.Arg(x), b.Arg(intName))
	st := newSymbolTable("x")

	union := types.Combine(types.IntObj(), types.StrObj())
	currentType := func(e pytree.Expr) types.Type {
		if n, ok := e.(*pytree.Name); ok {
			switch n.Value {
			case "x":
				return union
			case "int":
				return types.Builtins.Int
			}
		}
		return types.Unknown
	}

	pos, neg := Derive(call, currentType, st.resolve)
	if len(pos) != 1 || pos[0].Sym != st.syms["x"] {
		t.Fatalf("Derive(isinstance) positive branch should target x's Symbol")
	}
	if pos[0].Narrower.String() != "int" {
		t.Fatalf("positive branch narrows to %s, want int", pos[0].Narrower.String())
	}
	if !pos[0].Blocking {
		t.Fatalf("isinstance narrowing should be blocking")
	}
	if neg[0].Narrower.String() != union.String() {
		t.Fatalf("negative branch should keep the original union, got %s", neg[0].Narrower.String())
	}
	if neg[0].Blocking {
		t.Fatalf("isinstance negative branch should not be blocking")
	}
}

func TestDeriveAppliesAcrossDistinctOccurrencesOfSameName(t *testing.T) {
	// def f(x: Union[int, str]) -> int:
	//     if isinstance(x, int):
	//         return x
	// Two distinct Name("x") nodes -- the isinstance argument and the
	// returned name -- must narrow identically since they share a Symbol.
	b := testtree.New()
	xInTest := b.Name("x")
	xInReturn := b.Name("x")
	intName := b.Name("int")
	call := b.Call(b.Name("isinstance"), b.Arg(xInTest), b.Arg(intName))
	st := newSymbolTable("x")

	union := types.Combine(types.IntObj(), types.StrObj())
	currentType := func(e pytree.Expr) types.Type {
		if n, ok := e.(*pytree.Name); ok && n.Value == "int" {
			return types.Builtins.Int
		}
		return union
	}

	pos, _ := Derive(call, currentType, st.resolve)
	s := scope.New(scope.KindFunction, nil)
	PushAll(s, pos)
	defer PopN(s, len(pos))

	narrowed := s.ApplyConstraints(st.resolve(xInReturn), union)
	if narrowed.String() != "int" {
		t.Fatalf("the return-position occurrence of x should see the narrowing derived from the test occurrence, got %s", narrowed.String())
	}
}

func TestDeriveIsNoneNarrowsBothBranches(t *testing.T) {
	b := testtree.New()
	x := b.Name("x")
	noneConst := b.NameConstant(pytree.ConstNone)
	cmp := b.Compare(x, []string{"is"}, noneConst)
	st := newSymbolTable("x")

	optional := types.Combine(types.StrObj(), types.NoneT)
	currentType := func(e pytree.Expr) types.Type { return optional }

	pos, neg := Derive(cmp, currentType, st.resolve)
	if pos[0].Narrower != types.NoneT {
		t.Fatalf("`x is None` positive branch should narrow to None, got %s", pos[0].Narrower.String())
	}
	if neg[0].Narrower.String() != "str" {
		t.Fatalf("`x is None` negative branch should narrow to str, got %s", neg[0].Narrower.String())
	}
}

func TestDeriveIsNotNoneInvertsBranches(t *testing.T) {
	b := testtree.New()
	x := b.Name("x")
	noneConst := b.NameConstant(pytree.ConstNone)
	cmp := b.Compare(x, []string{"is not"}, noneConst)
	st := newSymbolTable("x")

	optional := types.Combine(types.StrObj(), types.NoneT)
	currentType := func(e pytree.Expr) types.Type { return optional }

	pos, neg := Derive(cmp, currentType, st.resolve)
	if pos[0].Narrower.String() != "str" {
		t.Fatalf("`x is not None` positive branch should narrow to str, got %s", pos[0].Narrower.String())
	}
	if neg[0].Narrower != types.NoneT {
		t.Fatalf("`x is not None` negative branch should narrow to None, got %s", neg[0].Narrower.String())
	}
}

func TestDeriveTruthyNarrowsPlainName(t *testing.T) {
	b := testtree.New()
	y := b.Name("y")
	st := newSymbolTable("y")
	optional := types.Combine(types.StrObj(), types.NoneT)
	currentType := func(e pytree.Expr) types.Type { return optional }

	pos, neg := Derive(y, currentType, st.resolve)
	if pos[0].Narrower.String() != "str" {
		t.Fatalf("truthy positive branch should drop None, got %s", pos[0].Narrower.String())
	}
	if neg[0].Narrower.String() != optional.String() {
		t.Fatalf("truthy negative branch should keep str | None (no bool literal to drop), got %s", neg[0].Narrower.String())
	}
}

func TestDeriveNotInvertsBranches(t *testing.T) {
	b := testtree.New()
	y := b.Name("y")
	notY := b.UnaryOp("not", y)
	st := newSymbolTable("y")
	optional := types.Combine(types.StrObj(), types.NoneT)
	currentType := func(e pytree.Expr) types.Type { return optional }

	pos, neg := Derive(notY, currentType, st.resolve)
	if pos[0].Narrower.String() != optional.String() {
		t.Fatalf("`not y` positive branch should be y's negative branch, got %s", pos[0].Narrower.String())
	}
	if neg[0].Narrower.String() != "str" {
		t.Fatalf("`not y` negative branch should be y's positive branch, got %s", neg[0].Narrower.String())
	}
}

func TestDeriveUnresolvableTargetNeverMatches(t *testing.T) {
	// `x.attr is None` -- the tested sub-expression isn't a bare name, so
	// resolveSymbol reports nil and the derived fact must never apply.
	b := testtree.New()
	attr := b.Attr(b.Name("x"), "attr")
	noneConst := b.NameConstant(pytree.ConstNone)
	cmp := b.Compare(attr, []string{"is"}, noneConst)
	st := newSymbolTable("x")

	currentType := func(e pytree.Expr) types.Type { return types.Combine(types.StrObj(), types.NoneT) }
	pos, _ := Derive(cmp, currentType, st.resolve)

	s := scope.New(scope.KindFunction, nil)
	PushAll(s, pos)
	defer PopN(s, len(pos))

	if got := s.ApplyConstraints(st.syms["x"], types.Unknown); got != types.Unknown {
		t.Fatalf("a constraint keyed by a nil Symbol should never match a real Symbol, got %s", got.String())
	}
}

func TestPushAllAndPopNRoundTrip(t *testing.T) {
	s := scope.New(scope.KindFunction, nil)
	symA := &scope.Symbol{Name: "a"}
	symB := &scope.Symbol{Name: "b"}
	cs := []scope.Constraint{
		{Sym: symA, Narrower: types.IntObj()},
		{Sym: symB, Narrower: types.StrObj()},
	}
	PushAll(s, cs)
	if got := s.ApplyConstraints(symB, types.Unknown).String(); got != "str" {
		t.Fatalf("after PushAll, symB should resolve to str, got %s", got)
	}
	PopN(s, len(cs))
	if got := s.ApplyConstraints(symB, types.Unknown); got != types.Unknown {
		t.Fatalf("after PopN unwinds PushAll, symB should fall back to Unknown, got %s", got.String())
	}
}
