// Package check implements the statement analyzer / type checker: a
// parse-tree traversal, threading the current scope, that binds
// declarations and checks statement semantics. One Context is built per file
// per analysis pass; the module analysis driver (package module) owns
// re-running Check to a fixed point.
package check

import (
	"github.com/kbridge/pytype/internal/diag"
	"github.com/kbridge/pytype/internal/eval"
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/scope"
	"github.com/kbridge/pytype/internal/token"
	"github.com/kbridge/pytype/internal/types"
)

// ImportResolver is the boundary the statement analyzer calls through to
// resolve `import`/`from ... import` targets; a nil Resolver leaves every
// imported name Unknown.
type ImportResolver interface {
	Resolve(leadingDots int, parts []string) (*types.Module, bool)
}

// funcState tracks the enclosing function chain for return/yield aggregation
// and for distinguishing a bare `yield` from module/class level code.
type funcState struct {
	Scope *scope.Scope
	Def *pytree.FunctionDef
	IsGenerator bool
	IsAsync bool
}

// Context threads state across one file's Check pass.
type Context struct {
	ModuleScope *scope.Scope
	Cache *pytree.InfoTable
	Diags eval.Sink
	Severities map[string]diag.Severity
	Version int
	Resolver ImportResolver

	// DidChange is set whenever this pass altered a symbol's inferred type,
	// a class's base list, a function's parameter/return type, or a
	// declared type.
	DidChange bool

	funcStack []*funcState
	classStack []*types.Class

	// overloads accumulates @overload-decorated signatures per (scope,
	// name) until the implementing definition closes the group into an
	// OverloadedFunction.
	overloads map[*scope.Scope]map[string][]*types.Function
}

// NewContext constructs a Context for one Check pass over a single module
// scope.
func NewContext(moduleScope *scope.Scope, cache *pytree.InfoTable, sink eval.Sink, severities map[string]diag.Severity, version int) *Context {
	return &Context{
		ModuleScope: moduleScope,
		Cache: cache,
		Diags: sink,
		Severities: severities,
		Version: version,
		overloads: make(map[*scope.Scope]map[string][]*types.Function),
	}
}

func (ctx *Context) evaluator(s *scope.Scope) *eval.Evaluator {
	return eval.New(s, ctx.Cache, ctx.Diags, ctx.Severities, ctx.Version)
}

func (ctx *Context) report(kind diag.Kind, message string) {
	if ctx.Diags == nil {
		return
	}
	ctx.Diags.Add(diag.New(kind, token.Range{}, message, ctx.Severities))
}

func (ctx *Context) currentClass() *types.Class {
	if len(ctx.classStack) == 0 {
		return nil
	}
	return ctx.classStack[len(ctx.classStack)-1]
}

func (ctx *Context) currentFunc() *funcState {
	if len(ctx.funcStack) == 0 {
		return nil
	}
	return ctx.funcStack[len(ctx.funcStack)-1]
}

func (ctx *Context) pendingOverloads(s *scope.Scope) map[string][]*types.Function {
	m, ok := ctx.overloads[s]
	if !ok {
		m = make(map[string][]*types.Function)
		ctx.overloads[s] = m
	}
	return m
}

func (ctx *Context) markChanged() { ctx.DidChange = true }
