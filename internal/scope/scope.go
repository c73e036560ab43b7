// Package scope implements the Scope & Symbol Model: lexical
// scopes, symbol declarations, the per-symbol inferred-type aggregator, and
// name-binding kinds (local / global / nonlocal / imported).
package scope

import (
	"strings"

	"github.com/kbridge/pytype/internal/aggregate"
	"github.com/kbridge/pytype/internal/types"
)

type Kind int

const (
	KindModule Kind = iota
	KindClass
	KindFunction
	KindLambda
	KindTemporary
)

// Category classifies how a name was bound.
type Category int

const (
	CategoryVariable Category = iota
	CategoryParameter
	CategoryFunction
	CategoryMethod
	CategoryClass
	CategoryModule
	CategoryAlias
	CategoryTypeParameter
)

// BindingKind distinguishes how a name resolves within the enclosing
// function chain: ordinary local, or pinned by `global`/`nonlocal`.
type BindingKind int

const (
	BindLocal BindingKind = iota
	BindGlobal
	BindNonlocal
)

// Declaration is one binding site of a Symbol.
type Declaration struct {
	NodeID int
	Declared types.Type // non-nil if this declaration carries an explicit annotation
	Category Category
}

// Symbol is one name's full bookkeeping within a scope.
type Symbol struct {
	Name string
	Declarations []Declaration
	Inferred *aggregate.Aggregator
	Accessed bool
	InitiallyUnbound bool
	Binding BindingKind
	PinnedScope *Scope // non-nil when Binding is Global/Nonlocal
}

// Primary returns the symbol's primary (first) declaration.
func (s *Symbol) Primary() Declaration { return s.Declarations[0] }

// DeclaredType returns the primary declaration's explicit annotation, if
// any.
func (s *Symbol) DeclaredType() (types.Type, bool) {
	d := s.Primary()
	if d.Declared != nil {
		return d.Declared, true
	}
	return nil, false
}

// Current is the symbol's current effective type: the declared type if
// present, else the inferred aggregator's combined type.
func (s *Symbol) Current() types.Type {
	if t, ok := s.DeclaredType(); ok {
		return t
	}
	return s.Inferred.Get()
}

// Scope is one lexical scope.
type Scope struct {
	Kind Kind
	Parent *Scope
	symbols map[string]*Symbol
	Constraints []Constraint
	ReturnAgg *aggregate.Aggregator
	YieldAgg *aggregate.Aggregator
	ExportFilter bool
}

// Constraint is a narrowing fact recorded by the constraint engine; defined
// here to avoid an import cycle since Scope owns the stack. It is keyed by
// the narrowed name's Symbol identity rather than any one occurrence's node
// id, so a fact derived from testing `x` in a condition applies to every
// other occurrence of that same `x`, not just the tested one.
type Constraint struct {
	Sym *Symbol
	Narrower types.Type
	Blocking bool
}

func New(kind Kind, parent *Scope) *Scope {
	return &Scope{
		Kind: kind,
		Parent: parent,
		symbols: make(map[string]*Symbol),
		ReturnAgg: aggregate.New(),
		YieldAgg: aggregate.New(),
	}
}

func normalize(name string) string { return strings.TrimSpace(name) }

// Declare creates (or adds a declaration to) a symbol in this scope.
func (s *Scope) Declare(name string, nodeID int, category Category, declared types.Type) *Symbol {
	key := normalize(name)
	sym, ok := s.symbols[key]
	if !ok {
		sym = &Symbol{Name: name, Inferred: aggregate.New()}
		s.symbols[key] = sym
	}
	sym.Declarations = append(sym.Declarations, Declaration{NodeID: nodeID, Declared: declared, Category: category})
	return sym
}

// LocalLookup returns a symbol declared directly in this scope.
func (s *Scope) LocalLookup(name string) (*Symbol, bool) {
	sym, ok := s.symbols[normalize(name)]
	return sym, ok
}

// Lookup walks parent scopes outward from s, returning the scope the
// symbol was found in as well.
func (s *Scope) Lookup(name string) (*Symbol, *Scope, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.LocalLookup(name); ok {
			return sym, cur, true
		}
	}
	return nil, nil, false
}

// PinGlobal records that name resolves to the module scope regardless of
// intervening function scopes (the `global` statement).
func (s *Scope) PinGlobal(name string) {
	module := s
	for module.Parent != nil {
		module = module.Parent
	}
	sym, ok := module.LocalLookup(name)
	if !ok {
		sym = module.Declare(name, 0, CategoryVariable, nil)
	}
	local := s.forceLocal(name)
	local.Binding = BindGlobal
	local.PinnedScope = module
	_ = sym
}

// PinNonlocal records that name resolves to the nearest enclosing function
// scope (the `nonlocal` statement), skipping the module scope.
func (s *Scope) PinNonlocal(name string) bool {
	for cur := s.Parent; cur != nil; cur = cur.Parent {
		if cur.Kind == KindModule {
			break
		}
		if sym, ok := cur.LocalLookup(name); ok {
			local := s.forceLocal(name)
			local.Binding = BindNonlocal
			local.PinnedScope = cur
			_ = sym
			return true
		}
	}
	return false
}

func (s *Scope) forceLocal(name string) *Symbol {
	key := normalize(name)
	sym, ok := s.symbols[key]
	if !ok {
		sym = &Symbol{Name: name, Inferred: aggregate.New()}
		s.symbols[key] = sym
	}
	return sym
}

// Resolve looks a name up honoring global/nonlocal pinning: if the local
// symbol (if any) is pinned, resolution continues in the pinned scope.
func (s *Scope) Resolve(name string) (*Symbol, *Scope, bool) {
	if local, ok := s.LocalLookup(name); ok && local.PinnedScope != nil {
		return local.PinnedScope.Resolve(name)
	}
	return s.Lookup(name)
}

// All returns every symbol declared directly in this scope, for
// completion/export enumeration.
func (s *Scope) All() map[string]*Symbol { return s.symbols }

// PushConstraint adds a narrowing fact to this scope's constraint stack.
func (s *Scope) PushConstraint(c Constraint) { s.Constraints = append(s.Constraints, c) }

// PopConstraint removes the most recently pushed constraint.
func (s *Scope) PopConstraint() {
	if len(s.Constraints) > 0 {
		s.Constraints = s.Constraints[:len(s.Constraints)-1]
	}
}

// ApplyConstraints narrows t using any constraint on this scope's stack
// that targets sym, most recent first. sym == nil never matches, so
// expressions the constraint engine can't key by symbol identity (e.g.
// attribute accesses) simply see no narrowing.
func (s *Scope) ApplyConstraints(sym *Symbol, t types.Type) types.Type {
	if sym == nil {
		return t
	}
	for i := len(s.Constraints) - 1; i >= 0; i-- {
		c := s.Constraints[i]
		if c.Sym == sym {
			return c.Narrower
		}
	}
	return t
}
