// Package testtree builds small pytree.Node graphs by hand for use in
// analyzer unit tests, standing in for the external parser this module
// treats as out of scope. Each call allocates the next sequential node id
// from a per-builder counter so ids stay unique within one constructed
// tree, mirroring how a real parser would hand out stable per-node ids.
package testtree

import "github.com/kbridge/pytype/internal/pytree"

// Builder hands out sequential node ids for one synthetic parse tree.
type Builder struct{ next int }

func New() *Builder { return &Builder{next: 1} }

func (b *Builder) id() int {
	id := b.next
	b.next++
	return id
}

func (b *Builder) Name(v string) *pytree.Name { return pytree.NewName(b.id(), v) }

func (b *Builder) Attr(base pytree.Expr, attr string) *pytree.Attribute {
	return pytree.NewAttribute(b.id(), base, attr)
}

func (b *Builder) Subscript(base, index pytree.Expr) *pytree.Subscript {
	return pytree.NewSubscript(b.id(), base, index)
}

func (b *Builder) Call(callee pytree.Expr, args ...pytree.Argument) *pytree.Call {
	return pytree.NewCall(b.id(), callee, args)
}

func (b *Builder) Arg(v pytree.Expr) pytree.Argument { return pytree.Argument{Value: v} }

func (b *Builder) KwArg(name string, v pytree.Expr) pytree.Argument {
	return pytree.Argument{Name: name, Value: v}
}

func (b *Builder) BinOp(op string, l, r pytree.Expr) *pytree.BinOp {
	return pytree.NewBinOp(b.id(), op, l, r)
}

func (b *Builder) BoolOp(op string, vals ...pytree.Expr) *pytree.BoolOp {
	return pytree.NewBoolOp(b.id(), op, vals)
}

func (b *Builder) Compare(left pytree.Expr, ops []string, comps ...pytree.Expr) *pytree.Compare {
	return pytree.NewCompare(b.id(), left, ops, comps)
}

func (b *Builder) UnaryOp(op string, operand pytree.Expr) *pytree.UnaryOp {
	return pytree.NewUnaryOp(b.id(), op, operand)
}

func (b *Builder) Ternary(test, then, els pytree.Expr) *pytree.Ternary {
	return pytree.NewTernary(b.id(), test, then, els)
}

func (b *Builder) Tuple(elts ...pytree.Expr) *pytree.TupleExpr { return pytree.NewTupleExpr(b.id(), elts) }

func (b *Builder) List(elts ...pytree.Expr) *pytree.ListExpr { return pytree.NewListExpr(b.id(), elts) }

func (b *Builder) Number(raw string) *pytree.NumberLit { return pytree.NewNumberLit(b.id(), raw, false, false) }

func (b *Builder) Float(raw string) *pytree.NumberLit { return pytree.NewNumberLit(b.id(), raw, true, false) }

func (b *Builder) String(v string) *pytree.StringLit { return pytree.NewStringLit(b.id(), v) }

func (b *Builder) NameConstant(k pytree.NameConstantKind) *pytree.NameConstant {
	return pytree.NewNameConstant(b.id(), k)
}

func (b *Builder) FunctionDef(name string, params []pytree.Parameter, returns pytree.Expr, body []pytree.Stmt) *pytree.FunctionDef {
	return pytree.NewFunctionDef(b.id(), name, params, returns, body, nil, false)
}

// FunctionDefDecorated is FunctionDef plus an explicit decorator list, for
// scenarios that need @overload, @property, @staticmethod, and friends.
func (b *Builder) FunctionDefDecorated(name string, params []pytree.Parameter, returns pytree.Expr, body []pytree.Stmt, decorators ...string) *pytree.FunctionDef {
	decos := make([]pytree.Decorator, len(decorators))
	for i, d := range decorators {
		decos[i] = pytree.Decorator{Expr: pytree.NewName(b.id(), d)}
	}
	return pytree.NewFunctionDef(b.id(), name, params, returns, body, decos, false)
}

// Decorator wraps an arbitrary expression as a decorator, for the `@x.setter`
// attribute-form decorators Param lists alone can't express.
func (b *Builder) Decorator(e pytree.Expr) pytree.Decorator { return pytree.Decorator{Expr: e} }

// ClassDefDecorated is ClassDef plus a decorator list (e.g. @dataclass).
func (b *Builder) ClassDefDecorated(name string, bases []pytree.Expr, body []pytree.Stmt, decorators ...string) *pytree.ClassDef {
	decos := make([]pytree.Decorator, len(decorators))
	for i, d := range decorators {
		decos[i] = pytree.Decorator{Expr: pytree.NewName(b.id(), d)}
	}
	return pytree.NewClassDef(b.id(), name, bases, body, decos)
}

// Param builds a simple, optionally-annotated parameter.
func (b *Builder) Param(name string, annotation pytree.Expr) pytree.Parameter {
	return pytree.Parameter{Category: pytree.ParamSimple, Name: name, Annotation: annotation}
}

func (b *Builder) ClassDef(name string, bases []pytree.Expr, body []pytree.Stmt) *pytree.ClassDef {
	return pytree.NewClassDef(b.id(), name, bases, body, nil)
}

func (b *Builder) Assign(target, value pytree.Expr) *pytree.Assign {
	return pytree.NewAssign(b.id(), []pytree.AssignTarget{target}, value, nil)
}

func (b *Builder) AnnAssign(target, annotation, value pytree.Expr) *pytree.Assign {
	return pytree.NewAssign(b.id(), []pytree.AssignTarget{target}, value, annotation)
}

func (b *Builder) Return(v pytree.Expr) *pytree.Return { return pytree.NewReturn(b.id(), v) }

func (b *Builder) ExprStmt(v pytree.Expr) *pytree.ExprStmt { return pytree.NewExprStmt(b.id(), v) }

func (b *Builder) If(test pytree.Expr, body, orelse []pytree.Stmt) *pytree.IfStmt {
	return pytree.NewIfStmt(b.id(), test, body, orelse)
}

func (b *Builder) For(target, iter pytree.Expr, body []pytree.Stmt) *pytree.ForStmt {
	return pytree.NewForStmt(b.id(), target, iter, body, nil, false)
}

func (b *Builder) Raise(exc pytree.Expr) *pytree.RaiseStmt { return pytree.NewRaiseStmt(b.id(), exc, nil) }

func (b *Builder) Module(name string, body ...pytree.Stmt) *pytree.Module {
	return pytree.NewModule(b.id(), name, body)
}
