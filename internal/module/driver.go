package module

import (
	"time"

	"github.com/maruel/natural"

	"github.com/kbridge/pytype/internal/check"
	"github.com/kbridge/pytype/internal/diag"
	"github.com/kbridge/pytype/internal/pytree"
	"github.com/kbridge/pytype/internal/resolve"
	"github.com/kbridge/pytype/internal/token"
	"github.com/kbridge/pytype/internal/types"
)

// MaxPasses bounds the iterative Check loop for one file to an upper
// bound of 25 passes.
const MaxPasses = 25

// MaxImportCycleReport caps how many cycles are recorded per file.
const MaxImportCycleReport = 4

// Driver coordinates per-file analysis passes, import-graph maintenance,
// and cross-file dirty propagation.
type Driver struct {
	Files map[string]*File
	Severities map[string]diag.Severity
	Resolver resolve.Resolver
	Env resolve.Environment
	MaxDepth int // max import depth

	// Interactive is set when recent user input is under 1s old, a hint a
	// caller's own scheduler can use to back off reanalysis; this package
	// only records the flag; it has no scheduler of its own to act on it.
	Interactive bool

	edges map[string]map[string]bool // import graph: file -> imported files
	reverseEdges map[string]map[string]bool // dependents: file -> files that import it
}

// NewDriver constructs a Driver. A nil resolver leaves every import
// Unknown, matching check.Context's documented nil-Resolver behavior.
func NewDriver(resolver resolve.Resolver, env resolve.Environment, severities map[string]diag.Severity) *Driver {
	if severities == nil {
		severities = diag.DefaultSeverities
	}
	return &Driver{
		Files: make(map[string]*File),
		Severities: severities,
		Resolver: resolver,
		Env: env,
		MaxDepth: 50,
		edges: make(map[string]map[string]bool),
		reverseEdges: make(map[string]map[string]bool),
	}
}

// AddFile registers a freshly parsed module under path, marking it dirty
// so the next AnalyzeAll picks it up.
func (d *Driver) AddFile(path string, tree *pytree.Module) *File {
	f := newFile(path, tree)
	f.Dirty = true
	d.Files[path] = f
	return f
}

// SetFileOpened marks a file as open in the editor; open files are
// promoted ahead of others when the driver picks the next dirty file to
// analyze.
func (d *Driver) SetFileOpened(path string, opened bool) {
	if f, ok := d.Files[path]; ok {
		f.Opened = opened
	}
}

// MarkFilesChanged marks the given files dirty: a change event clears any
// pending reanalysis timer and reschedules it; here that reduces to setting
// the dirty bit the next AnalyzeAll loop consults.
func (d *Driver) MarkFilesChanged(paths []string) {
	for _, p := range paths {
		if f, ok := d.Files[p]; ok {
			f.Dirty = true
		}
	}
}

// driverResolver adapts a Driver + resolve.Resolver pair into the
// check.ImportResolver interface the statement analyzer calls through,
// closing the loop between "resolve a dotted import to a file path" and
// "read that file's exported symbol table".
type driverResolver struct {
	driver *Driver
	from string
	depth int
}

func (r *driverResolver) Resolve(leadingDots int, parts []string) (*types.Module, bool) {
	if r.driver.Resolver == nil || r.depth > r.driver.MaxDepth {
		return nil, false
	}
	res := r.driver.Resolver.Resolve(r.from, r.driver.Env, leadingDots, parts, nil)
	if !res.Found || len(res.ResolvedPaths) == 0 {
		return nil, false
	}
	target := res.ResolvedPaths[0]
	r.driver.addEdge(r.from, target)
	dep, ok := r.driver.Files[target]
	if !ok {
		return nil, false
	}
	return dep.ExportedModule(), true
}

func (d *Driver) addEdge(from, to string) {
	if from == to {
		return
	}
	if d.edges[from] == nil {
		d.edges[from] = make(map[string]bool)
	}
	d.edges[from][to] = true
	if d.reverseEdges[to] == nil {
		d.reverseEdges[to] = make(map[string]bool)
	}
	d.reverseEdges[to][from] = true
}

// AnalyzeFile runs path's Bind phase (on every call) and then its Check
// phase to a fixed point or MaxPasses, whichever comes first.
// It returns the reason analysis stopped iterating, for diagnostics.
func (d *Driver) AnalyzeFile(path string) string {
	f, ok := d.Files[path]
	if !ok {
		return "unknown file"
	}
	f.Diagnostics = nil
	f.Dirty = false

	defer func() {
		if r := recover(); r != nil {
			// A fatal error terminates analysis for this file only; the
			// driver moves on to the next file rather than aborting the
			// whole run.
			f.Fatal = panicToError(r)
		}
	}()

	resolver := &driverResolver{driver: d, from: path}

	f.Version++
	f.Cache = pytree.NewInfoTable(f.Version)
	ctx := check.NewContext(f.Scope, f.Cache, diagSink{f}, d.Severities, f.Version)
	ctx.Resolver = resolver
	check.BindOnlyPasses().RunAll(f.Tree, ctx)
	f.Phase = PhaseBound

	checkLoop := check.CheckOnlyPasses()
	reason := "no change"
	for pass := 0; pass < MaxPasses; pass++ {
		f.Version++
		f.Cache = pytree.NewInfoTable(f.Version)
		ctx = check.NewContext(f.Scope, f.Cache, diagSink{f}, d.Severities, f.Version)
		ctx.Resolver = resolver
		f.Diagnostics = nil
		checkLoop.RunAll(f.Tree, ctx)
		if !ctx.DidChange {
			f.Phase = PhaseChecked
			return reason
		}
		reason = "symbol type changed"
	}
	f.Phase = PhaseChecked
	return "pass bound reached"
}

func panicToError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &fatalError{r}
}

type fatalError struct{ v interface{} }

func (e *fatalError) Error() string { return "internal analyzer error" }

// AnalyzeAll drives every dirty file to a fixed point, propagating
// cross-file dirtiness (when a file's exported symbol table changes, its
// dependents are marked dirty) until no file is dirty or a global
// iteration cap is hit (a cycle of two files each re-dirtying the other
// would otherwise thrash forever).
func (d *Driver) AnalyzeAll() AnalysisResults {
	start := time.Now()
	globalCap := (len(d.Files) + 1) * MaxPasses
	var fatal bool

	for i := 0; i < globalCap; i++ {
		path, ok := d.nextDirty()
		if !ok {
			break
		}
		f := d.Files[path]
		prevFingerprint := f.exportFingerprint()
		d.AnalyzeFile(path)
		if f.Fatal != nil {
			fatal = true
		}
		if f.exportFingerprint() != prevFingerprint {
			for dep := range d.reverseEdges[path] {
				if dep2, ok := d.Files[dep]; ok {
					dep2.Dirty = true
				}
			}
		}
	}

	d.detectImportCycles()

	return AnalysisResults{
		Diagnostics: d.collectDiagnostics(),
		FilesInProgram: len(d.Files),
		FilesRequiringAnalysis: d.countDirty(),
		FatalErrorOccurred: fatal,
		ElapsedTime: time.Since(start),
	}
}

// nextDirty returns the naturally-first dirty file path, with opened files
// promoted ahead of the rest.
func (d *Driver) nextDirty() (string, bool) {
	var dirty, openedDirty []string
	for p, f := range d.Files {
		if !f.Dirty {
			continue
		}
		if f.Opened {
			openedDirty = append(openedDirty, p)
		} else {
			dirty = append(dirty, p)
		}
	}
	if len(openedDirty) > 0 {
		natural.Sort(openedDirty)
		return openedDirty[0], true
	}
	if len(dirty) > 0 {
		natural.Sort(dirty)
		return dirty[0], true
	}
	return "", false
}

func (d *Driver) countDirty() int {
	n := 0
	for _, f := range d.Files {
		if f.Dirty {
			n++
		}
	}
	return n
}

func (d *Driver) collectDiagnostics() map[string][]diag.Diagnostic {
	out := make(map[string][]diag.Diagnostic, len(d.Files))
	for p, f := range d.Files {
		out[p] = f.Diagnostics
	}
	return out
}

// detectImportCycles walks the import graph from every file and records an
// import-cycle diagnostic for each cycle found, capped at
// MaxImportCycleReport per file.
func (d *Driver) detectImportCycles() {
	roots := make([]string, 0, len(d.Files))
	for p := range d.Files {
		roots = append(roots, p)
	}
	natural.Sort(roots)

	for _, start := range roots {
		cycles := d.findCyclesFrom(start)
		f := d.Files[start]
		for i, cyc := range cycles {
			if i >= MaxImportCycleReport {
				break
			}
			f.Diagnostics = append(f.Diagnostics, diag.New(diag.ImportCycle, token.Range{}, "import cycle: "+cycleString(cyc), d.Severities))
		}
	}
}

func (d *Driver) findCyclesFrom(start string) [][]string {
	var cycles [][]string
	var path []string
	visited := make(map[string]bool)
	var walk func(node string)
	walk = func(node string) {
		for _, p := range path {
			if p == node {
				cycles = append(cycles, append(append([]string{}, path...), node))
				return
			}
		}
		if visited[node] {
			return
		}
		visited[node] = true
		path = append(path, node)
		next := make([]string, 0, len(d.edges[node]))
		for n := range d.edges[node] {
			next = append(next, n)
		}
		natural.Sort(next)
		for _, n := range next {
			walk(n)
		}
		path = path[:len(path)-1]
	}
	walk(start)
	return cycles
}

func cycleString(cyc []string) string {
	s := ""
	for i, p := range cyc {
		if i > 0 {
			s += " -> "
		}
		s += p
	}
	return s
}
