package module

import (
	"testing"

	"github.com/kbridge/pytype/internal/diag"
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/pytree/testtree"
	"github.com/kbridge/pytype/internal/resolve"
)

// fakeResolver maps a single-part module name directly to a file path
// already registered on the Driver, standing in for a real filesystem
// search during cross-file propagation tests.
type fakeResolver struct{ targets map[string]string }

func (r fakeResolver) Resolve(fromFile string, env resolve.Environment, leadingDots int, parts []string, importedSymbols []string) resolve.Result {
	if len(parts) == 0 {
		return resolve.Result{}
	}
	if p, ok := r.targets[parts[0]]; ok {
		return resolve.Result{Found: true, ResolvedPaths: []string{p}}
	}
	return resolve.Result{}
}

func moduleWithAssign(name string, nextID int, value pytree.Expr) *pytree.Module {
	assign := pytree.NewAssign(nextID, []pytree.AssignTarget{pytree.NewName(nextID+1, "x")}, value, nil)
	return pytree.NewModule(nextID+2, name, []pytree.Stmt{assign})
}

func importFromB(nextID int) *pytree.Module {
	imp := pytree.NewImportFromStmt(nextID, 0, []string{"b"}, []pytree.ImportedSymbol{{Name: "x"}})
	return pytree.NewModule(nextID+1, "a", []pytree.Stmt{imp})
}

// TestDriverPropagatesExportChangeToDependent exercises §4.6's cross-file
// propagation: "b"'s exported x starts as int, "a" imports it, then "b"'s
// declaration changes to str and only "a" (the dependent) is re-marked
// dirty and converges on the new type.
func TestDriverPropagatesExportChangeToDependent(t *testing.T) {
	bTree := moduleWithAssign("b", 1, pytree.NewNumberLit(10, "1", false, false))
	aTree := importFromB(20)

	d := NewDriver(fakeResolver{targets: map[string]string{"b": "b.py"}}, resolve.Environment{}, diag.DefaultSeverities)
	d.AddFile("b.py", bTree)
	d.AddFile("a.py", aTree)

	results := d.AnalyzeAll()
	if results.FatalErrorOccurred {
		t.Fatalf("unexpected fatal error")
	}
	for _, dd := range results.Diagnostics["a.py"] {
		if dd.Kind == diag.NotDefined {
			t.Fatalf("a.py: unexpected not-defined diagnostic: %s", dd.Message)
		}
	}

	aFileVersion := d.Files["a.py"].Version

	// "b" changes its declaration of x from int to str; only "a" should be
	// marked dirty again by export-fingerprint propagation.
	d.Files["b.py"].Tree = moduleWithAssign("b", 100, pytree.NewStringLit(110, "hi"))
	d.MarkFilesChanged([]string{"b.py"})
	d.AnalyzeAll()

	if d.Files["a.py"].Version <= aFileVersion {
		t.Fatalf("a.py should have been re-analyzed after b.py's export changed")
	}
}

// TestDriverAnalyzeAllConvergesOnMutualRecursion is a driver-level variant
// of §8 S6: two functions each call the other; AnalyzeFile must stop
// iterating (did_change=false) well within MaxPasses.
func TestDriverAnalyzeAllConvergesOnMutualRecursion(t *testing.T) {
	b := testtree.New()
	aFn := b.FunctionDef("a", []pytree.Parameter{b.Param("n", nil)}, nil,
		[]pytree.Stmt{b.Return(b.Call(b.Name("b"), b.Arg(b.Name("n"))))})
	bFn := b.FunctionDef("b", []pytree.Parameter{b.Param("n", nil)}, nil,
		[]pytree.Stmt{b.Return(b.BinOp("+", b.Call(b.Name("a"), b.Arg(b.Name("n"))), b.Number("1")))})
	mod := b.Module("recur", aFn, bFn)

	d := NewDriver(nil, resolve.Environment{}, diag.DefaultSeverities)
	d.AddFile("recur.py", mod)
	reason := d.AnalyzeFile("recur.py")
	if reason == "pass bound reached" {
		t.Fatalf("mutual recursion should converge before MaxPasses, got reason %q", reason)
	}
}

func TestDriverHoverDefinitionCompletion(t *testing.T) {
	b := testtree.New()
	numLit := b.Number("1")
	assign := b.Assign(b.Name("x"), numLit)
	mod := b.Module("hov", assign)

	d := NewDriver(nil, resolve.Environment{}, diag.DefaultSeverities)
	d.AddFile("hov.py", mod)
	d.AnalyzeAll()

	rendered, ok := d.Hover("hov.py", numLit.ID())
	if !ok {
		t.Fatalf("Hover should resolve the literal's cached type")
	}
	if rendered != "Literal[1]" {
		t.Fatalf("Hover(literal) = %q, want %q", rendered, "Literal[1]")
	}

	ids, ok := d.Definition("hov.py", "x")
	if !ok || len(ids) == 0 {
		t.Fatalf("Definition(x) should resolve at least one declaration")
	}

	names := Completion(d.Files["hov.py"].Scope)
	found := false
	for _, n := range names {
		if n == "x" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Completion() = %v, want it to include %q", names, "x")
	}
}
