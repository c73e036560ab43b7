package module

import (
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/pytree/testtree"
)

// Scenario is one named synthetic parse tree, paired with the source text
// it stands for so the CLI's `check` command has something to render a
// diagnostic's caret excerpt against.
type Scenario struct {
	Name string
	Source string
	Tree *pytree.Module
}

// Scenarios builds the §8 S1-S6 testable-property end-to-end scenarios as
// synthetic parse trees via pytree/testtree, the same way the unit test
// suite constructs fixtures in the absence of a real parser. The CLI's
// `check` command drives these through a Driver so the full
// Parse(synthetic)->Bind->Check pipeline is exercised end to end, not just
// in unit tests.
func Scenarios() []Scenario {
	return []Scenario{
		scenarioS1(),
		scenarioS2(),
		scenarioS3(),
		scenarioS4(),
		scenarioS5(),
		scenarioS6(),
	}
}

// S1 - Literal narrowing through union.
// def f(x: Union[int, str]) -> int:
//     if isinstance(x, int):
//         return x
//     else:
//         return len(x)
func scenarioS1() Scenario {
	b := testtree.New()
	unionAnn := b.Subscript(b.Name("Union"), b.Tuple(b.Name("int"), b.Name("str")))
	xParam := pytree.Parameter{Category: pytree.ParamSimple, Name: "x", Annotation: unionAnn}
	test := b.Call(b.Name("isinstance"), b.Arg(b.Name("x")), b.Arg(b.Name("int")))
	ifStmt := b.If(test,
		[]pytree.Stmt{b.Return(b.Name("x"))},
		[]pytree.Stmt{b.Return(b.Call(b.Name("len"), b.Arg(b.Name("x"))))})
	fn := b.FunctionDef("f", []pytree.Parameter{xParam}, b.Name("int"), []pytree.Stmt{ifStmt})
	mod := b.Module("s1", fn)
	return Scenario{
		Name: "S1",
		Source: "def f(x: Union[int, str]) -> int:\n    if isinstance(x, int):\n        return x\n    else:\n        return len(x)\n",
		Tree: mod,
	}
}

// S2 - Optional attribute access.
// def g(x: Optional[str]) -> int:
//     return x.find('a')
func scenarioS2() Scenario {
	b := testtree.New()
	optAnn := b.Subscript(b.Name("Optional"), b.Name("str"))
	xParam := pytree.Parameter{Category: pytree.ParamSimple, Name: "x", Annotation: optAnn}
	call := b.Call(b.Attr(b.Name("x"), "find"), b.Arg(b.String("a")))
	fn := b.FunctionDef("g", []pytree.Parameter{xParam}, b.Name("int"), []pytree.Stmt{b.Return(call)})
	mod := b.Module("s2", fn)
	return Scenario{
		Name: "S2",
		Source: "def g(x: Optional[str]) -> int:\n    return x.find('a')\n",
		Tree: mod,
	}
}

// S3 - Generic assignment.
// T = TypeVar('T')
// def first(xs: List[T]) -> T:
//     return xs[0]
// y: int = first(['a'])
func scenarioS3() Scenario {
	b := testtree.New()
	typeVarAssign := b.Assign(b.Name("T"), b.Call(b.Name("TypeVar"), b.Arg(b.String("T"))))

	listOfT := b.Subscript(b.Name("List"), b.Name("T"))
	xsParam := pytree.Parameter{Category: pytree.ParamSimple, Name: "xs", Annotation: listOfT}
	indexExpr := b.Subscript(b.Name("xs"), b.Number("0"))
	firstFn := b.FunctionDef("first", []pytree.Parameter{xsParam}, b.Name("T"), []pytree.Stmt{b.Return(indexExpr)})

	call := b.Call(b.Name("first"), b.Arg(b.List(b.String("a"))))
	yAssign := b.AnnAssign(b.Name("y"), b.Name("int"), call)

	mod := b.Module("s3", typeVarAssign, firstFn, yAssign)
	return Scenario{
		Name: "S3",
		Source: "T = TypeVar('T')\ndef first(xs: List[T]) -> T:\n    return xs[0]\ny: int = first(['a'])\n",
		Tree: mod,
	}
}

// S4 - Override incompatibility.
// class A:
//     def m(self, x: int) -> int: ...
// class B(A):
//     def m(self, x: str) -> int:
//         return 0
func scenarioS4() Scenario {
	b := testtree.New()
	mA := b.FunctionDef("m",
		[]pytree.Parameter{b.Param("self", nil), b.Param("x", b.Name("int"))},
		b.Name("int"),
		[]pytree.Stmt{b.Return(b.Number("0"))})
	classA := b.ClassDef("A", nil, []pytree.Stmt{mA})

	mB := b.FunctionDef("m",
		[]pytree.Parameter{b.Param("self", nil), b.Param("x", b.Name("str"))},
		b.Name("int"),
		[]pytree.Stmt{b.Return(b.Number("0"))})
	classB := b.ClassDef("B", []pytree.Expr{b.Name("A")}, []pytree.Stmt{mB})

	mod := b.Module("s4", classA, classB)
	return Scenario{
		Name: "S4",
		Source: "class A:\n    def m(self, x: int) -> int: ...\nclass B(A):\n    def m(self, x: str) -> int:\n        return 0\n",
		Tree: mod,
	}
}

// S5 - Overload selection.
// @overload
// def h(x: int) -> int: ...
// @overload
// def h(x: str) -> str: ...
// def h(x): return x
// h(1)                    # int
// h(1.0)                  # overload-no-match
func scenarioS5() Scenario {
	b := testtree.New()
	hOverload1 := b.FunctionDefDecorated("h",
		[]pytree.Parameter{b.Param("x", b.Name("int"))},
		b.Name("int"),
		[]pytree.Stmt{b.Return(b.Name("x"))},
		"overload")
	hOverload2 := b.FunctionDefDecorated("h",
		[]pytree.Parameter{b.Param("x", b.Name("str"))},
		b.Name("str"),
		[]pytree.Stmt{b.Return(b.Name("x"))},
		"overload")
	hImpl := b.FunctionDef("h",
		[]pytree.Parameter{b.Param("x", nil)},
		nil,
		[]pytree.Stmt{b.Return(b.Name("x"))})

	goodCall := b.ExprStmt(b.Call(b.Name("h"), b.Arg(b.Number("1"))))
	badCall := b.ExprStmt(b.Call(b.Name("h"), b.Arg(b.Float("1.0"))))

	mod := b.Module("s5", hOverload1, hOverload2, hImpl, goodCall, badCall)
	return Scenario{
		Name: "S5",
		Source: "@overload\ndef h(x: int) -> int: ...\n@overload\ndef h(x: str) -> str: ...\ndef h(x): return x\nh(1)\nh(1.0)\n",
		Tree: mod,
	}
}

// S6 - Convergence under mutual recursion.
// def a(n): return b(n)
// def b(n): return a(n)+1
func scenarioS6() Scenario {
	b := testtree.New()
	aFn := b.FunctionDef("a",
		[]pytree.Parameter{b.Param("n", nil)},
		nil,
		[]pytree.Stmt{b.Return(b.Call(b.Name("b"), b.Arg(b.Name("n"))))})
	bFn := b.FunctionDef("b",
		[]pytree.Parameter{b.Param("n", nil)},
		nil,
		[]pytree.Stmt{b.Return(b.BinOp("+", b.Call(b.Name("a"), b.Arg(b.Name("n"))), b.Number("1")))})
	mod := b.Module("s6", aFn, bFn)
	return Scenario{
		Name: "S6",
		Source: "def a(n): return b(n)\ndef b(n): return a(n)+1\n",
		Tree: mod,
	}
}
