package resolve

import (
	"testing"
	"testing/fstest"
)

func TestFSResolverFindsModuleFile(t *testing.T) {
	fsys := fstest.MapFS{
		"proj/pkg/mod.py": &fstest.MapFile{Data: []byte("x = 1\n")},
	}
	r := NewFSResolver(fsys, "", "")
	res := r.Resolve("proj/main.py", Environment{ExtraPaths: []string{"proj"}}, 0, []string{"pkg", "mod"}, nil)
	if !res.Found {
		t.Fatalf("Resolve(pkg.mod) should find proj/pkg/mod.py")
	}
	if res.ResolvedPaths[0] != "proj/pkg/mod.py" {
		t.Fatalf("ResolvedPaths = %v, want [proj/pkg/mod.py]", res.ResolvedPaths)
	}
}

func TestFSResolverFindsPackageInit(t *testing.T) {
	fsys := fstest.MapFS{
		"proj/pkg/__init__.py": &fstest.MapFile{Data: []byte("")},
	}
	r := NewFSResolver(fsys, "", "")
	res := r.Resolve("proj/main.py", Environment{ExtraPaths: []string{"proj"}}, 0, []string{"pkg"}, nil)
	if !res.Found || res.ResolvedPaths[0] != "proj/pkg/__init__.py" {
		t.Fatalf("Resolve(pkg) = %+v, want proj/pkg/__init__.py", res)
	}
}

func TestFSResolverFallsBackToStub(t *testing.T) {
	fsys := fstest.MapFS{
		"stubs/pkg/mod.pyi": &fstest.MapFile{Data: []byte("")},
	}
	r := NewFSResolver(fsys, "", "stubs")
	res := r.Resolve("proj/main.py", Environment{}, 0, []string{"pkg", "mod"}, nil)
	if !res.Found || res.ResolvedPaths[0] != "stubs/pkg/mod.pyi" {
		t.Fatalf("Resolve should fall back to typingsPath stub, got %+v", res)
	}
}

func TestFSResolverRelativeImportWalksUpFromImportingFile(t *testing.T) {
	fsys := fstest.MapFS{
		"proj/sibling.py": &fstest.MapFile{Data: []byte("")},
	}
	r := NewFSResolver(fsys, "", "")
	// `from . import sibling` inside proj/pkg/mod.py: one leading dot means
	// the importing file's own directory.
	res := r.Resolve("proj/pkg/mod.py", Environment{}, 1, []string{"sibling"}, nil)
	if res.Found {
		t.Fatalf("sibling.py lives in proj/, not proj/pkg/, should not resolve with a single leading dot here")
	}

	res = r.Resolve("proj/pkg/mod.py", Environment{}, 2, []string{"sibling"}, nil)
	if !res.Found || res.ResolvedPaths[0] != "proj/sibling.py" {
		t.Fatalf("two leading dots should walk up to proj/, got %+v", res)
	}
}

func TestFSResolverNotFound(t *testing.T) {
	r := NewFSResolver(fstest.MapFS{}, "", "")
	res := r.Resolve("main.py", Environment{}, 0, []string{"missing"}, nil)
	if res.Found {
		t.Fatalf("Resolve(missing) should report not found")
	}
}

func TestFSResolverMarksTypeshedFile(t *testing.T) {
	fsys := fstest.MapFS{
		"typeshed/builtins.pyi": &fstest.MapFile{Data: []byte("")},
	}
	r := NewFSResolver(fsys, "typeshed", "")
	res := r.Resolve("main.py", Environment{}, 0, []string{"builtins"}, nil)
	if !res.Found || !res.IsTypeshedFile {
		t.Fatalf("Resolve(builtins) = %+v, want a typeshed hit", res)
	}
}
