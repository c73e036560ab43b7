// Package module implements the Module Analysis Driver: the
// per-file Parse→Bind→Check pipeline, the iterative fixed-point loop, the
// import graph with cycle detection, and cross-file dirty-bit propagation.
package module

import (
	"github.com/kbridge/pytype/internal/diag"
	"github.com/kbridge/pytype/internal/prelude"
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/scope"
	"github.com/kbridge/pytype/internal/types"
)

// Phase is a file's position in the Parse→Bind→Check pipeline.
type Phase int

const (
	PhaseUnparsed Phase = iota
	PhaseParsed
	PhaseBound
	PhaseChecked
)

// File is one source file's full analysis state, owned by the Driver.
type File struct {
	Path string
	Tree *pytree.Module
	Scope *scope.Scope
	Cache *pytree.InfoTable

	Phase Phase
	Version int
	Diagnostics []diag.Diagnostic
	Fatal error

	Dirty bool
	Opened bool
	Imports []string // resolved file paths this file depends on

	// lastExportFingerprint lets the driver decide whether a file's
	// published symbol table actually changed shape after a Check pass, so
	// dependents are only marked dirty on a real export change, not on
	// every re-check.
	lastExportFingerprint string
}

// diagSink adapts a *File to the eval.Sink / check diagnostics interface.
type diagSink struct{ f *File }

func (s diagSink) Add(d diag.Diagnostic) {
	if d.Suppressed() {
		return
	}
	s.f.Diagnostics = append(s.f.Diagnostics, d)
}

// newFile constructs a File in PhaseParsed, ready for its first Bind.
func newFile(path string, tree *pytree.Module) *File {
	return &File{
		Path: path,
		Tree: tree,
		Scope: scope.New(scope.KindModule, prelude.Scope()),
		Phase: PhaseParsed,
	}
}

// ExportedModule builds the *types.Module a dependent file's `import`/
// `from ... import` resolves to: one Member per symbol declared directly
// in this file's module scope.
func (f *File) ExportedModule() *types.Module {
	m := types.NewModule(f.Path)
	for name, sym := range f.Scope.All() {
		m.Fields[name] = &types.Member{Name: name, Type: sym.Current()}
	}
	return m
}

func (f *File) exportFingerprint() string {
	var sb []byte
	names := sortedNames(f.Scope.All())
	for _, n := range names {
		sb = append(sb, n...)
		sb = append(sb, ':')
		sb = append(sb, f.Scope.All()[n].Current().String()...)
		sb = append(sb, ';')
	}
	return string(sb)
}

func sortedNames(m map[string]*scope.Symbol) []string {
	out := make([]string, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
