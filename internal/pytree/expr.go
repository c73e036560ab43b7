package pytree

// Name is a bare identifier reference, e.g. `x`.
type Name struct {
	exprBase
	Value string
}

// Attribute is `Base.Attr`.
type Attribute struct {
	exprBase
	Base Expr
	Attr string
}

// SubscriptKind distinguishes ordinary indexing from an annotation-position
// type-argument list, since the evaluator treats `X[Y]` differently in each.
type SubscriptKind int

const (
	SubscriptIndex SubscriptKind = iota
	SubscriptTypeArgs
)

// Subscript is `Base[Index]`. Index is itself an expression; when it is a
// TupleExpr the evaluator treats each element as a separate type argument.
type Subscript struct {
	exprBase
	Base Expr
	Index Expr
}

// Argument is one call argument: positional (Name == ""), keyword
// (Name != ""), or unpacked (Star/DoubleStar).
type Argument struct {
	Name string
	Value Expr
	Star bool // *args unpack
	DoubleStar bool // **kwargs unpack
}

// Call is `Callee(Args...)`.
type Call struct {
	exprBase
	Callee Expr
	Args []Argument
}

// BinOp is `Left Op Right` for arithmetic, bitwise, and comparison operators
// other than chained comparisons (see Compare) and `and`/`or` (see BoolOp).
type BinOp struct {
	exprBase
	Op string
	Left Expr
	Right Expr
}

// BoolOp is a short-circuiting `and`/`or` expression.
type BoolOp struct {
	exprBase
	Op string // "and" | "or"
	Values []Expr
}

// Compare is a (possibly chained) comparison: `a < b <= c`.
type Compare struct {
	exprBase
	Left Expr
	Ops []string
	Comps []Expr
}

// UnaryOp is `Op Operand`, e.g. `not x`, `-x`, `~x`.
type UnaryOp struct {
	exprBase
	Op string
	Operand Expr
}

// Ternary is `Then if Test else Else`.
type Ternary struct {
	exprBase
	Test Expr
	Then Expr
	Else Expr
}

// Lambda is an anonymous function expression.
type Lambda struct {
	exprBase
	Params []Parameter
	Body Expr
}

// ListExpr is `[e1, e2, ...]`.
type ListExpr struct {
	exprBase
	Elts []Expr
}

// SetExpr is `{e1, e2, ...}`.
type SetExpr struct {
	exprBase
	Elts []Expr
}

// TupleExpr is `(e1, e2, ...)`, also used to represent bracketed
// multi-element type-argument lists in annotation position.
type TupleExpr struct {
	exprBase
	Elts []Expr
}

// DictEntry is one `key: value` pair, or `**value` when Key is nil.
type DictEntry struct {
	Key Expr // nil for a `**value` unpack entry
	Value Expr
}

// DictExpr is `{k1: v1, k2: v2, ...}`.
type DictExpr struct {
	exprBase
	Entries []DictEntry
}

// ComprehensionKind distinguishes the four comprehension forms, which all
// evaluate to `Unknown`-parameterized containers.
type ComprehensionKind int

const (
	CompList ComprehensionKind = iota
	CompSet
	CompDict
	CompGenerator
)

// Comprehension is `[... for x in xs if cond]` and its set/dict/generator
// variants.
type Comprehension struct {
	exprBase
	Kind ComprehensionKind
	Elt Expr // list/set/generator element, or dict value
	Key Expr // dict key only
	For []ForClause
}

// ForClause is one `for target in iter if cond...` clause of a comprehension.
type ForClause struct {
	Target Expr
	Iter Expr
	Ifs []Expr
}

// Literal kinds.

type NumberLit struct {
	exprBase
	IsFloat bool
	IsComplex bool
	Raw string
}

type StringLit struct {
	exprBase
	Value string
}

type BytesLit struct {
	exprBase
	Value []byte
}

// NameConstantKind enumerates `True`, `False`, `None`, and `...`.
type NameConstantKind int

const (
	ConstTrue NameConstantKind = iota
	ConstFalse
	ConstNone
	ConstEllipsis
)

type NameConstant struct {
	exprBase
	Kind NameConstantKind
}

// Starred is `*expr` used in a container literal or assignment target.
type Starred struct {
	exprBase
	Value Expr
}

// DoubleStarred is `**expr` used inside a dict literal.
type DoubleStarred struct {
	exprBase
	Value Expr
}

// Constructors used by the testtree builder and adaptable to a real
// parser's node-allocation strategy.

func NewName(id int, v string) *Name { return &Name{exprBase: exprBase{base{id: id}}, Value: v} }

func NewAttribute(id int, base_ Expr, attr string) *Attribute {
	n := &Attribute{exprBase: exprBase{base{id: id}}, Base: base_, Attr: attr}
	base_.SetParent(n)
	return n
}

func NewSubscript(id int, b, idx Expr) *Subscript {
	n := &Subscript{exprBase: exprBase{base{id: id}}, Base: b, Index: idx}
	b.SetParent(n)
	idx.SetParent(n)
	return n
}

func NewCall(id int, callee Expr, args []Argument) *Call {
	n := &Call{exprBase: exprBase{base{id: id}}, Callee: callee, Args: args}
	callee.SetParent(n)
	for _, a := range args {
		a.Value.SetParent(n)
	}
	return n
}

func NewBinOp(id int, op string, l, r Expr) *BinOp {
	n := &BinOp{exprBase: exprBase{base{id: id}}, Op: op, Left: l, Right: r}
	l.SetParent(n)
	r.SetParent(n)
	return n
}

func NewBoolOp(id int, op string, vals []Expr) *BoolOp {
	n := &BoolOp{exprBase: exprBase{base{id: id}}, Op: op, Values: vals}
	for _, v := range vals {
		v.SetParent(n)
	}
	return n
}

func NewCompare(id int, left Expr, ops []string, comps []Expr) *Compare {
	n := &Compare{exprBase: exprBase{base{id: id}}, Left: left, Ops: ops, Comps: comps}
	left.SetParent(n)
	for _, c := range comps {
		c.SetParent(n)
	}
	return n
}

func NewUnaryOp(id int, op string, operand Expr) *UnaryOp {
	n := &UnaryOp{exprBase: exprBase{base{id: id}}, Op: op, Operand: operand}
	operand.SetParent(n)
	return n
}

func NewTernary(id int, test, then, els Expr) *Ternary {
	n := &Ternary{exprBase: exprBase{base{id: id}}, Test: test, Then: then, Else: els}
	test.SetParent(n)
	then.SetParent(n)
	els.SetParent(n)
	return n
}

func NewLambda(id int, params []Parameter, body Expr) *Lambda {
	n := &Lambda{exprBase: exprBase{base{id: id}}, Params: params, Body: body}
	body.SetParent(n)
	return n
}

func NewListExpr(id int, elts []Expr) *ListExpr {
	n := &ListExpr{exprBase: exprBase{base{id: id}}, Elts: elts}
	for _, e := range elts {
		e.SetParent(n)
	}
	return n
}

func NewSetExpr(id int, elts []Expr) *SetExpr {
	n := &SetExpr{exprBase: exprBase{base{id: id}}, Elts: elts}
	for _, e := range elts {
		e.SetParent(n)
	}
	return n
}

func NewTupleExpr(id int, elts []Expr) *TupleExpr {
	n := &TupleExpr{exprBase: exprBase{base{id: id}}, Elts: elts}
	for _, e := range elts {
		e.SetParent(n)
	}
	return n
}

func NewDictExpr(id int, entries []DictEntry) *DictExpr {
	n := &DictExpr{exprBase: exprBase{base{id: id}}, Entries: entries}
	for _, e := range entries {
		if e.Key != nil {
			e.Key.SetParent(n)
		}
		e.Value.SetParent(n)
	}
	return n
}

func NewComprehension(id int, kind ComprehensionKind, elt, key Expr, clauses []ForClause) *Comprehension {
	n := &Comprehension{exprBase: exprBase{base{id: id}}, Kind: kind, Elt: elt, Key: key, For: clauses}
	if elt != nil {
		elt.SetParent(n)
	}
	if key != nil {
		key.SetParent(n)
	}
	return n
}

func NewNumberLit(id int, raw string, isFloat, isComplex bool) *NumberLit {
	return &NumberLit{exprBase: exprBase{base{id: id}}, Raw: raw, IsFloat: isFloat, IsComplex: isComplex}
}

func NewStringLit(id int, v string) *StringLit { return &StringLit{exprBase: exprBase{base{id: id}}, Value: v} }

func NewBytesLit(id int, v []byte) *BytesLit { return &BytesLit{exprBase: exprBase{base{id: id}}, Value: v} }

func NewNameConstant(id int, k NameConstantKind) *NameConstant {
	return &NameConstant{exprBase: exprBase{base{id: id}}, Kind: k}
}

func NewStarred(id int, v Expr) *Starred {
	n := &Starred{exprBase: exprBase{base{id: id}}, Value: v}
	v.SetParent(n)
	return n
}

func NewDoubleStarred(id int, v Expr) *DoubleStarred {
	n := &DoubleStarred{exprBase: exprBase{base{id: id}}, Value: v}
	v.SetParent(n)
	return n
}
