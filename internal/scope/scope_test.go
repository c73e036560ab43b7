package scope

import (
	"testing"

	"github.com/kbridge/pytype/internal/types"
)

func TestDeclareThenLocalLookup(t *testing.T) {
	s := New(KindModule, nil)
	s.Declare("x", 1, CategoryVariable, nil)
	sym, ok := s.LocalLookup("x")
	if !ok {
		t.Fatalf("LocalLookup(x) should find the declared symbol")
	}
	if sym.Name != "x" {
		t.Fatalf("sym.Name = %q, want x", sym.Name)
	}
}

func TestLookupWalksParentChain(t *testing.T) {
	parent := New(KindModule, nil)
	parent.Declare("g", 1, CategoryVariable, nil)
	child := New(KindFunction, parent)

	sym, owner, ok := child.Lookup("g")
	if !ok {
		t.Fatalf("Lookup(g) from child should find the symbol in parent")
	}
	if owner != parent {
		t.Fatalf("Lookup(g) should report parent as the owning scope")
	}
	if sym.Name != "g" {
		t.Fatalf("sym.Name = %q, want g", sym.Name)
	}
}

func TestLookupMissingNameFails(t *testing.T) {
	s := New(KindModule, nil)
	if _, _, ok := s.Lookup("missing"); ok {
		t.Fatalf("Lookup(missing) should fail in an empty scope")
	}
}

func TestCurrentPrefersDeclaredType(t *testing.T) {
	s := New(KindModule, nil)
	sym := s.Declare("x", 1, CategoryVariable, types.IntObj())
	sym.Inferred.Add(2, types.StrObj())

	if got := sym.Current().String(); got != "int" {
		t.Fatalf("Current() with an explicit annotation = %s, want int", got)
	}
}

func TestCurrentFallsBackToInferred(t *testing.T) {
	s := New(KindModule, nil)
	sym := s.Declare("x", 1, CategoryVariable, nil)
	sym.Inferred.Add(2, types.StrObj())

	if got := sym.Current().String(); got != "str" {
		t.Fatalf("Current() without an annotation = %s, want str", got)
	}
}

func TestPinGlobalResolvesThroughFunctionScope(t *testing.T) {
	module := New(KindModule, nil)
	module.Declare("counter", 1, CategoryVariable, types.IntObj())

	fn := New(KindFunction, module)
	fn.PinGlobal("counter")

	sym, owner, ok := fn.Resolve("counter")
	if !ok {
		t.Fatalf("Resolve(counter) after PinGlobal should succeed")
	}
	if owner != module {
		t.Fatalf("Resolve(counter) after PinGlobal should land in the module scope")
	}
	if sym.Name != "counter" {
		t.Fatalf("sym.Name = %q, want counter", sym.Name)
	}
}

func TestPinNonlocalFindsEnclosingFunction(t *testing.T) {
	module := New(KindModule, nil)
	outer := New(KindFunction, module)
	outer.Declare("acc", 1, CategoryVariable, nil)
	inner := New(KindFunction, outer)

	if ok := inner.PinNonlocal("acc"); !ok {
		t.Fatalf("PinNonlocal(acc) should find acc declared in the enclosing function")
	}

	_, owner, ok := inner.Resolve("acc")
	if !ok || owner != outer {
		t.Fatalf("Resolve(acc) after PinNonlocal should land in the enclosing function scope")
	}
}

func TestPinNonlocalStopsAtModuleScope(t *testing.T) {
	module := New(KindModule, nil)
	module.Declare("g", 1, CategoryVariable, nil)
	fn := New(KindFunction, module)

	if ok := fn.PinNonlocal("g"); ok {
		t.Fatalf("PinNonlocal(g) should not find a module-scope binding")
	}
}

func TestConstraintStackAppliesMostRecentFirst(t *testing.T) {
	s := New(KindModule, nil)
	sym := &Symbol{Name: "x"}
	s.PushConstraint(Constraint{Sym: sym, Narrower: types.IntObj()})
	s.PushConstraint(Constraint{Sym: sym, Narrower: types.StrObj()})

	if got := s.ApplyConstraints(sym, types.Unknown).String(); got != "str" {
		t.Fatalf("ApplyConstraints should use the most recently pushed constraint, got %s", got)
	}

	s.PopConstraint()
	if got := s.ApplyConstraints(sym, types.Unknown).String(); got != "int" {
		t.Fatalf("after popping, ApplyConstraints should fall back to the earlier constraint, got %s", got)
	}
}

func TestApplyConstraintsIgnoresOtherSymbols(t *testing.T) {
	s := New(KindModule, nil)
	sym := &Symbol{Name: "x"}
	other := &Symbol{Name: "y"}
	s.PushConstraint(Constraint{Sym: sym, Narrower: types.IntObj()})
	if got := s.ApplyConstraints(other, types.Unknown); got != types.Unknown {
		t.Fatalf("ApplyConstraints(other, Unknown) should pass through unrelated symbols, got %s", got.String())
	}
}
