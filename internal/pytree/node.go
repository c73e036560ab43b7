// Package pytree defines the parse-tree contract the analyzer core consumes.
// The real parser is out of scope for this repository; this
// package only fixes the node shapes an external parser is expected to
// produce, with stable per-node identity so the evaluator's expression-type
// cache and the driver's analysis-version cache can key off it.
package pytree

// Node is implemented by every parse-tree node. IDs are assigned by the
// producing parser and must be stable and unique within a file.
type Node interface {
	ID() int
	Parent() Node
	SetParent(Node)
}

// base is embedded by every concrete node to provide identity and the
// parent link without repeating the bookkeeping in each node type.
type base struct {
	id int
	parent Node
}

func (b *base) ID() int { return b.id }
func (b *base) Parent() Node { return b.parent }
func (b *base) SetParent(p Node) { b.parent = p }

// Expr is any node that can be evaluated to a type.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any node that can appear in a statement list.
type Stmt interface {
	Node
	stmtNode()
}

type exprBase struct{ base }

func (*exprBase) exprNode() {}

type stmtBase struct{ base }

func (*stmtBase) stmtNode() {}

// Module is the root of a file's parse tree.
type Module struct {
	base
	Name string
	Body []Stmt
}

// NewModule constructs a module root and parents its body statements.
func NewModule(id int, name string, body []Stmt) *Module {
	m := &Module{base: base{id: id}, Name: name, Body: body}
	for _, s := range body {
		s.SetParent(m)
	}
	return m
}
