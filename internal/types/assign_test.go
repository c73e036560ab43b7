package types

import "testing"

func TestCanAssignReflexive(t *testing.T) {
	if !CanAssign(IntObj(), IntObj(), nil, nil, true) {
		t.Fatalf("CanAssign(int, int) should hold")
	}
	if !CanAssign(StrObj(), StrObj(), nil, nil, true) {
		t.Fatalf("CanAssign(str, str) should hold")
	}
}

func TestCanAssignFromNever(t *testing.T) {
	if !CanAssign(IntObj(), Never, nil, nil, true) {
		t.Fatalf("CanAssign(int, Never) should hold: Never is a subtype of everything")
	}
	if !CanAssign(StrObj(), Never, nil, nil, true) {
		t.Fatalf("CanAssign(str, Never) should hold")
	}
}

func TestCanAssignAnyShortCircuits(t *testing.T) {
	if !CanAssign(Any, IntObj(), nil, nil, true) {
		t.Fatalf("CanAssign(Any, int) should hold")
	}
	if !CanAssign(IntObj(), Any, nil, nil, true) {
		t.Fatalf("CanAssign(int, Any) should hold")
	}
	if !CanAssign(Unknown, StrObj(), nil, nil, true) {
		t.Fatalf("CanAssign(Unknown, str) should hold")
	}
	if !CanAssign(StrObj(), Unknown, nil, nil, true) {
		t.Fatalf("CanAssign(str, Unknown) should hold")
	}
}

func TestCanAssignRejectsUnrelatedClasses(t *testing.T) {
	if CanAssign(IntObj(), StrObj(), nil, nil, true) {
		t.Fatalf("CanAssign(int, str) should fail: unrelated builtin classes")
	}
}

func TestCanAssignUnionMemberwise(t *testing.T) {
	union := Combine(IntObj(), StrObj())
	if !CanAssign(union, IntObj(), nil, nil, true) {
		t.Fatalf("CanAssign(Union[int, str], int) should hold")
	}
	if !CanAssign(union, StrObj(), nil, nil, true) {
		t.Fatalf("CanAssign(Union[int, str], str) should hold")
	}
	if CanAssign(union, FloatObj(), nil, nil, true) {
		t.Fatalf("CanAssign(Union[int, str], float) should fail")
	}
}

func TestCanAssignSubclassWrongDirectionFails(t *testing.T) {
	if CanAssign(ObjectOf(Builtins.Exception), ObjectOf(Builtins.BaseException), nil, nil, true) {
		t.Fatalf("CanAssign(Exception, BaseException) should fail: BaseException is the wider ancestor")
	}
}

func TestCanAssignSubclassAllowed(t *testing.T) {
	if !CanAssign(ObjectOf(Builtins.BaseException), ObjectOf(Builtins.Exception), nil, nil, true) {
		t.Fatalf("CanAssign(BaseException, Exception) should hold: Exception derives from BaseException")
	}
}
