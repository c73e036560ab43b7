// Package resolve implements the import resolver boundary: a thin,
// swappable collaborator that turns a relative-import spec (leading
// dots, dotted name parts, optionally the symbols being imported) into a
// set of candidate source paths. The core (package module) depends only on
// the Resolver interface; FSResolver is the default filesystem-backed
// implementation, and tests inject an in-memory fstest.MapFS instead.
package resolve

import (
	"io/fs"
	"path"
	"strings"
)

// Result mirrors the import-resolver contract:
// resolve(filePath, execEnvironment, {leadingDots, nameParts, importedSymbols})
// -> {isImportFound, resolvedPaths[], implicitImports[], isTypeshedFile}.
type Result struct {
	Found bool
	ResolvedPaths []string
	ImplicitImports []string
	IsTypeshedFile bool
}

// Environment is the (root, pythonVersion, venv, extraPaths) tuple behind
// an "execution environment" — a path-scoped configuration used during
// import resolution.
type Environment struct {
	Root string
	PythonVersion string
	Venv string
	ExtraPaths []string
}

// Resolver is the interface the statement analyzer's import handling and
// the module driver's import-graph construction call through. FromFile is
// the importing file's path, used to resolve relative (dotted) imports.
type Resolver interface {
	Resolve(fromFile string, env Environment, leadingDots int, parts []string, importedSymbols []string) Result
}

// FSResolver is the default Resolver: it walks extraPaths, typingsPath,
// and typeshedPath (in that order) the way a Python interpreter walks
// sys.path, looking for "<part>/.../<last>.py" or a package directory
// containing "__init__.py".
type FSResolver struct {
	FS fs.FS
	TypeshedPath string
	TypingsPath string
}

// NewFSResolver builds a resolver over filesystem; env.ExtraPaths entries
// and the two stub paths are resolved as paths within it.
func NewFSResolver(filesystem fs.FS, typeshedPath, typingsPath string) *FSResolver {
	return &FSResolver{FS: filesystem, TypeshedPath: typeshedPath, TypingsPath: typingsPath}
}

func (r *FSResolver) Resolve(fromFile string, env Environment, leadingDots int, parts []string, importedSymbols []string) Result {
	searchRoots := r.searchRoots(fromFile, env, leadingDots)
	for _, root := range searchRoots {
		if p, ok := r.tryRoot(root, parts); ok {
			return Result{Found: true, ResolvedPaths: []string{p}, IsTypeshedFile: isUnder(p, r.TypeshedPath)}
		}
	}
	return Result{Found: false}
}

// searchRoots builds the ordered list of directories to try, honoring
// leading dots (relative import: walk up from fromFile's directory) before
// falling back to extraPaths/typingsPath/typeshedPath.
func (r *FSResolver) searchRoots(fromFile string, env Environment, leadingDots int) []string {
	var roots []string
	if leadingDots > 0 {
		dir := path.Dir(fromFile)
		for i := 1; i < leadingDots; i++ {
			dir = path.Dir(dir)
		}
		roots = append(roots, dir)
	}
	roots = append(roots, env.ExtraPaths...)
	if r.TypingsPath != "" {
		roots = append(roots, r.TypingsPath)
	}
	if r.TypeshedPath != "" {
		roots = append(roots, r.TypeshedPath)
	}
	return roots
}

func (r *FSResolver) tryRoot(root string, parts []string) (string, bool) {
	if r.FS == nil || len(parts) == 0 {
		return "", false
	}
	rel := path.Join(parts...)
	candidate := path.Join(root, rel+".py")
	if fileExists(r.FS, candidate) {
		return candidate, true
	}
	pkgInit := path.Join(root, rel, "__init__.py")
	if fileExists(r.FS, pkgInit) {
		return pkgInit, true
	}
	stub := path.Join(root, rel+".pyi")
	if fileExists(r.FS, stub) {
		return stub, true
	}
	return "", false
}

func fileExists(filesystem fs.FS, name string) bool {
	name = strings.TrimPrefix(name, "/")
	info, err := fs.Stat(filesystem, name)
	return err == nil && !info.IsDir()
}

func isUnder(p, root string) bool {
	if root == "" {
		return false
	}
	return strings.HasPrefix(p, strings.TrimSuffix(root, "/")+"/")
}
