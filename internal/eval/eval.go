// Package eval implements the Expression Evaluator: given a
// parse node and an evaluator flag set, it produces a typed result and
// caches it on the file's expression-type table for hover/definition to
// consult later.
package eval

import (
	"github.com/kbridge/pytype/internal/diag"
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/scope"
	"github.com/kbridge/pytype/internal/token"
	"github.com/kbridge/pytype/internal/types"
)

// Flags is the evaluator's input flag set, carried alongside the node
// being evaluated.
type Flags struct {
	ConvertClassToObject bool
	DoNotSpecialize bool
	AllowForwardReferences bool
	ConvertEllipsisToAny bool
}

// Result is the evaluator's output: a type plus, for a `[x, y]` literal
// used in annotation position, the inner per-element structure.
type Result struct {
	Type types.Type
	TypeList []types.Type
}

// Sink receives diagnostics recorded during evaluation.
type Sink interface {
	Add(d diag.Diagnostic)
}

// Evaluator holds the state threaded through one expression evaluation:
// the current scope (for name resolution and constraint application), the
// file's node-identity cache, and a diagnostics sink.
type Evaluator struct {
	Scope *scope.Scope
	Cache *pytree.InfoTable
	Diags Sink
	Severities map[string]diag.Severity
	Version int
}

// New constructs an Evaluator bound to one scope/cache/sink triple.
func New(s *scope.Scope, cache *pytree.InfoTable, sink Sink, severities map[string]diag.Severity, version int) *Evaluator {
	return &Evaluator{Scope: s, Cache: cache, Diags: sink, Severities: severities, Version: version}
}

// report records a diagnostic. Position ranges are the external parser's
// responsibility; this package's synthetic parse-tree contract
// carries no positions of its own, so callers needing a real range attach
// one via WithRange before handing a diagnostic to the sink.
func (e *Evaluator) report(kind diag.Kind, message string) {
	if e.Diags == nil {
		return
	}
	e.Diags.Add(diag.New(kind, token.Range{}, message, e.Severities))
}

// Eval is the main dispatcher: "per-node semantics" switch.
func (e *Evaluator) Eval(n pytree.Expr, flags Flags) Result {
	res := e.evalNode(n, flags)
	if e.Cache != nil {
		slot := e.Cache.Get(n.ID())
		slot.CachedType = res.Type
		slot.CachedVersion = e.Version
	}
	return res
}

func (e *Evaluator) evalNode(n pytree.Expr, flags Flags) Result {
	switch v := n.(type) {
	case *pytree.Name:
		return e.evalName(v, flags)
	case *pytree.Attribute:
		return e.evalAttribute(v, flags)
	case *pytree.Subscript:
		return e.evalSubscript(v, flags)
	case *pytree.Call:
		return e.evalCall(v, flags)
	case *pytree.NumberLit:
		return e.evalNumber(v)
	case *pytree.StringLit:
		return Result{Type: types.StrObj()}
	case *pytree.BytesLit:
		return Result{Type: types.BytesObj()}
	case *pytree.NameConstant:
		return e.evalNameConstant(v)
	case *pytree.ListExpr:
		for _, el := range v.Elts {
			e.Eval(el, flags)
		}
		return Result{Type: types.GenericOf(types.Builtins.List, types.Unknown)}
	case *pytree.SetExpr:
		for _, el := range v.Elts {
			e.Eval(el, flags)
		}
		return Result{Type: types.GenericOf(types.Builtins.Set, types.Unknown)}
	case *pytree.DictExpr:
		for _, en := range v.Entries {
			if en.Key != nil {
				e.Eval(en.Key, flags)
			}
			e.Eval(en.Value, flags)
		}
		return Result{Type: types.GenericOf(types.Builtins.Dict, types.Unknown, types.Unknown)}
	case *pytree.TupleExpr:
		return e.evalTuple(v, flags)
	case *pytree.Comprehension:
		return e.evalComprehension(v, flags)
	case *pytree.UnaryOp:
		return e.evalUnary(v, flags)
	case *pytree.BinOp:
		return e.evalBinOp(v, flags)
	case *pytree.BoolOp:
		return e.evalBoolOp(v, flags)
	case *pytree.Compare:
		return e.evalCompare(v, flags)
	case *pytree.Ternary:
		return e.evalTernary(v, flags)
	case *pytree.Lambda:
		return e.evalLambda(v, flags)
	case *pytree.Starred:
		return e.Eval(v.Value, flags)
	case *pytree.DoubleStarred:
		return e.Eval(v.Value, flags)
	}
	return Result{Type: types.Unknown}
}

// CurrentType evaluates n under default flags purely to read off its
// current type, e.g. for the constraint engine's Derive helper.
func (e *Evaluator) CurrentType(n pytree.Expr) types.Type {
	return e.Eval(n, Flags{}).Type
}
