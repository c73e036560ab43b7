package aggregate

import (
	"testing"

	"github.com/kbridge/pytype/internal/types"
)

func TestEmptyAggregatorIsUnknown(t *testing.T) {
	a := New()
	if a.Get() != types.Unknown {
		t.Fatalf("Get() on a fresh Aggregator = %s, want Unknown", a.Get().String())
	}
}

func TestAddIsIdempotentForTheSameType(t *testing.T) {
	a := New()
	if changed := a.Add(1, types.IntObj()); !changed {
		t.Fatalf("first Add should report a change")
	}
	if changed := a.Add(1, types.IntObj()); changed {
		t.Fatalf("re-adding the same type at the same source id should not report a change")
	}
	if a.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", a.Len())
	}
}

func TestAddFromTwoSitesCombinesIntoUnion(t *testing.T) {
	a := New()
	a.Add(1, types.IntObj())
	changed := a.Add(2, types.StrObj())
	if !changed {
		t.Fatalf("adding a distinct type from a new source id should report a change")
	}
	if _, ok := a.Get().(*types.Union); !ok {
		t.Fatalf("Get() after two distinct contributions should be a Union, got %T", a.Get())
	}
}

func TestRemoveRecomputesCombinedType(t *testing.T) {
	a := New()
	a.Add(1, types.IntObj())
	a.Add(2, types.StrObj())
	changed := a.Remove(2)
	if !changed {
		t.Fatalf("removing a contribution that narrows the union should report a change")
	}
	if a.Get().String() != "int" {
		t.Fatalf("Get() after removing the str contribution = %s, want int", a.Get().String())
	}
}

func TestRemoveUnknownSourceIsNoop(t *testing.T) {
	a := New()
	a.Add(1, types.IntObj())
	if changed := a.Remove(99); changed {
		t.Fatalf("removing a source id that was never added should not report a change")
	}
}

func TestMergeCombinesBothAggregators(t *testing.T) {
	a := New()
	a.Add(1, types.IntObj())
	b := New()
	b.Add(2, types.StrObj())

	if changed := a.Merge(b); !changed {
		t.Fatalf("merging in a new contribution should report a change")
	}
	if _, ok := a.Get().(*types.Union); !ok {
		t.Fatalf("Get() after merge should be a Union, got %T", a.Get())
	}
}

func TestGetWrappedBuildsSingleArgGeneric(t *testing.T) {
	a := New()
	a.Add(1, types.IntObj())
	wrapped := a.GetWrapped(types.Builtins.List)
	if wrapped.String() != "list[int]" {
		t.Fatalf("GetWrapped(list) = %s, want list[int]", wrapped.String())
	}
}
