package check

import (
	"testing"

	"github.com/kbridge/pytype/internal/diag"
	"github.com/kbridge/pytype/internal/prelude"
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/pytree/testtree"
	"github.com/kbridge/pytype/internal/scope"
	"github.com/kbridge/pytype/internal/types"
)

type recorder struct{ diags []diag.Diagnostic }

func (r *recorder) Add(d diag.Diagnostic) {
	if d.Suppressed() {
		return
	}
	r.diags = append(r.diags, d)
}

func (r *recorder) has(kind diag.Kind) bool {
	for _, d := range r.diags {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// runTwoPasses mirrors what module.Driver does: bind once, then run the
// check pass twice so a second-pass narrowing or a forward reference
// settles, without pulling in the whole driver.
func runTwoPasses(mod *pytree.Module) (*Context, *recorder) {
	rec := &recorder{}
	moduleScope := scope.New(scope.KindModule, prelude.Scope())
	cache := pytree.NewInfoTable(1)
	ctx := NewContext(moduleScope, cache, rec, diag.DefaultSeverities, 1)

	DefaultPasses().RunAll(mod, ctx)
	rec.diags = nil
	CheckOnlyPasses().RunAll(mod, ctx)
	return ctx, rec
}

func TestBindModuleHoistsForwardReferences(t *testing.T) {
	b := testtree.New()
	callFirst := b.ExprStmt(b.Call(b.Name("later")))
	laterDef := b.FunctionDef("later", nil, nil, []pytree.Stmt{b.Return(b.Number("1"))})
	mod := b.Module("fwd", callFirst, laterDef)

	_, rec := runTwoPasses(mod)
	if rec.has(diag.NotDefined) {
		t.Fatalf("calling a function defined later in the same module should not be not-defined, got %v", rec.diags)
	}
}

func TestCheckReportsNotDefinedForUnknownName(t *testing.T) {
	b := testtree.New()
	stmt := b.ExprStmt(b.Name("ghost"))
	mod := b.Module("undef", stmt)

	_, rec := runTwoPasses(mod)
	if !rec.has(diag.NotDefined) {
		t.Fatalf("referencing an unbound name should report not-defined, got %v", rec.diags)
	}
}

func TestCheckInfersAssignedLiteralType(t *testing.T) {
	b := testtree.New()
	assign := b.Assign(b.Name("x"), b.Number("1"))
	mod := b.Module("infer", assign)

	ctx, rec := runTwoPasses(mod)
	if len(rec.diags) != 0 {
		t.Fatalf("plain literal assignment should not raise diagnostics, got %v", rec.diags)
	}
	sym, ok := ctx.ModuleScope.LocalLookup("x")
	if !ok {
		t.Fatalf("x should be declared in the module scope")
	}
	got := types.AsString(sym.Current())
	if got != "Literal[1]" {
		t.Fatalf("x's inferred type = %q, want Literal[1]", got)
	}
}

func TestCheckBindsFunctionLocalAssignment(t *testing.T) {
	// def f():
	//     y = 1
	//     return y
	b := testtree.New()
	assign := b.Assign(b.Name("y"), b.Number("1"))
	ret := b.Return(b.Name("y"))
	fn := b.FunctionDef("f", nil, nil, []pytree.Stmt{assign, ret})
	mod := b.Module("localvar", fn)

	_, rec := runTwoPasses(mod)
	if rec.has(diag.NotDefined) {
		t.Fatalf("a function-local assignment should declare its target before `return` sees it, got %v", rec.diags)
	}
}

func TestCheckReportsOptionalMemberAccess(t *testing.T) {
	b := testtree.New()
	optAnn := b.Subscript(b.Name("Optional"), b.Name("str"))
	xParam := pytree.Parameter{Category: pytree.ParamSimple, Name: "x", Annotation: optAnn}
	body := b.ExprStmt(b.Attr(b.Name("x"), "upper"))
	fn := b.FunctionDef("g", []pytree.Parameter{xParam}, nil, []pytree.Stmt{body})
	mod := b.Module("opt", fn)

	_, rec := runTwoPasses(mod)
	if !rec.has(diag.OptionalAccess) {
		t.Fatalf("accessing a member on an Optional[str] parameter should report optional-access, got %v", rec.diags)
	}
}

func TestCheckNarrowsIsinstanceAcrossOccurrences(t *testing.T) {
	// def f(x: Union[int, str]) -> int:
	//     if isinstance(x, int):
	//         return x
	//     else:
	//         return len(x)
	b := testtree.New()
	unionAnn := b.Subscript(b.Name("Union"), b.Tuple(b.Name("int"), b.Name("str")))
	xParam := pytree.Parameter{Category: pytree.ParamSimple, Name: "x", Annotation: unionAnn}
	xInTest := b.Name("x")
	xInReturn := b.Name("x")
	test := b.Call(b.Name("isinstance"), b.Arg(xInTest), b.Arg(b.Name("int")))
	ifStmt := b.If(test,
		[]pytree.Stmt{b.Return(xInReturn)},
		[]pytree.Stmt{b.Return(b.Call(b.Name("len"), b.Arg(b.Name("x"))))})
	fn := b.FunctionDef("f", []pytree.Parameter{xParam}, b.Name("int"), []pytree.Stmt{ifStmt})
	mod := b.Module("s1", fn)

	ctx, rec := runTwoPasses(mod)
	if len(rec.diags) != 0 {
		t.Fatalf("S1 should type-check cleanly, got %v", rec.diags)
	}

	info, ok := ctx.Cache.Lookup(xInReturn.ID())
	if !ok {
		t.Fatalf("the returned x should have a cached evaluation")
	}
	got := types.AsString(info.CachedType.(types.Type))
	if got != "int" {
		t.Fatalf("`return x` inside `if isinstance(x, int)` should narrow x to int, got %s", got)
	}
}

func TestCheckReportsArgumentMismatch(t *testing.T) {
	b := testtree.New()
	xParam := pytree.Parameter{Category: pytree.ParamSimple, Name: "x", Annotation: b.Name("int")}
	fn := b.FunctionDef("f", []pytree.Parameter{xParam}, nil, []pytree.Stmt{b.Return(b.Name("x"))})
	call := b.ExprStmt(b.Call(b.Name("f"), b.Arg(b.String("oops"))))
	mod := b.Module("argmismatch", fn, call)

	_, rec := runTwoPasses(mod)
	if !rec.has(diag.ArgumentMismatch) {
		t.Fatalf("passing a str literal where int is declared should report argument-mismatch, got %v", rec.diags)
	}
}
