package types

import "testing"

func TestUnionCombineSingletonIsIdentity(t *testing.T) {
	got := Combine(ObjectOf(Builtins.Int))
	if _, ok := got.(*Object); !ok {
		t.Fatalf("Combine of one member should return that member unwrapped, got %T (%s)", got, got.String())
	}
	if got.String() != "int" {
		t.Fatalf("Combine([int]) = %s, want int", got.String())
	}
}

func TestUnionCombineNeverIsIdentityElement(t *testing.T) {
	got := Combine(Never, IntObj())
	if got.String() != "int" {
		t.Fatalf("Combine(Never, int) = %s, want int", got.String())
	}
}

func TestUnionCombineDedupesEqualMembers(t *testing.T) {
	got := Combine(IntObj(), IntObj(), StrObj())
	u, ok := got.(*Union)
	if !ok {
		t.Fatalf("Combine(int, int, str) should be a Union, got %T", got)
	}
	if len(u.Members) != 2 {
		t.Fatalf("Combine(int, int, str) should dedupe to 2 members, got %d: %s", len(u.Members), got.String())
	}
}

func TestAsStringDelegatesToKindString(t *testing.T) {
	if AsString(IntObj()) != "int" {
		t.Fatalf("AsString(int) = %q, want %q", AsString(IntObj()), "int")
	}
	if AsString(Unknown) != "Unknown" {
		t.Fatalf("AsString(Unknown) = %q, want %q", AsString(Unknown), "Unknown")
	}
}

func TestIsAnyOrUnknown(t *testing.T) {
	if !IsAnyOrUnknown(Any) {
		t.Fatalf("IsAnyOrUnknown(Any) should be true")
	}
	if !IsAnyOrUnknown(Unknown) {
		t.Fatalf("IsAnyOrUnknown(Unknown) should be true")
	}
	if IsAnyOrUnknown(IntObj()) {
		t.Fatalf("IsAnyOrUnknown(int) should be false")
	}
}
