package module

import (
	"time"

	"github.com/maruel/natural"

	"github.com/kbridge/pytype/internal/diag"
	"github.com/kbridge/pytype/internal/scope"
	"github.com/kbridge/pytype/internal/types"
)

// AnalysisResults is the output published to collaborators at the end of
// one analysis round.
type AnalysisResults struct {
	Diagnostics map[string][]diag.Diagnostic
	FilesInProgram int
	FilesRequiringAnalysis int
	FatalErrorOccurred bool
	ElapsedTime time.Duration
}

// Hover resolves the type of the expression identified by nodeID in path,
// rendered as a string. Position→node translation is the
// language-server front-end's responsibility (the RPC transport is out of
// scope here); this is the core-side half of that boundary.
func (d *Driver) Hover(path string, nodeID int) (string, bool) {
	f, ok := d.Files[path]
	if !ok || f.Cache == nil {
		return "", false
	}
	slot, ok := f.Cache.Lookup(nodeID)
	if !ok || slot.CachedVersion != f.Version {
		return "", false
	}
	t, ok := slot.CachedType.(types.Type)
	if !ok {
		return "", false
	}
	return types.AsString(t), true
}

// Definition resolves the declaration node id(s) for a symbol name visible
// from path's module scope; it walks that scope's ancestry the same way
// name resolution does.
func (d *Driver) Definition(path, name string) ([]int, bool) {
	f, ok := d.Files[path]
	if !ok {
		return nil, false
	}
	sym, _, ok := f.Scope.Resolve(name)
	if !ok {
		return nil, false
	}
	ids := make([]int, len(sym.Declarations))
	for i, decl := range sym.Declarations {
		ids[i] = decl.NodeID
	}
	return ids, true
}

// Completion returns the sorted set of names visible in s, walking s's
// parent chain the way Scope.Resolve does, with ties broken by natural
// ordering so completion lists read in human-natural order.
func Completion(s *scope.Scope) []string {
	seen := make(map[string]bool)
	var out []string
	for cur := s; cur != nil; cur = cur.Parent {
		for name := range cur.All() {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	natural.Sort(out)
	return out
}
