package config

import (
	"encoding/json"
	"testing"

	goyaml "github.com/goccy/go-yaml"
)

const jsonDoc = `{
  "include": ["src"],
  "exclude": ["build"],
  "reportUnusedImport": "warning",
  "reportOptionalMemberAccess": "error",
  "executionEnvironments": [
    {"root": "src/app", "pythonVersion": "3.11"},
    {"root": "src", "pythonVersion": "3.9"}
  ]
}`

const yamlDoc = `
include:
  - src
exclude:
  - build
venvPath: .venv
`

func TestDecodeJSONExtractsRules(t *testing.T) {
	cfg, err := decode([]byte(jsonDoc), json.Unmarshal)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Rules["reportUnusedImport"] != "warning" {
		t.Fatalf("Rules[reportUnusedImport] = %q, want warning", cfg.Rules["reportUnusedImport"])
	}
	if cfg.Rules["reportOptionalMemberAccess"] != "error" {
		t.Fatalf("Rules[reportOptionalMemberAccess] = %q, want error", cfg.Rules["reportOptionalMemberAccess"])
	}
	if len(cfg.Include) != 1 || cfg.Include[0] != "src" {
		t.Fatalf("Include = %v, want [src]", cfg.Include)
	}
}

func TestLoadYAMLSharesStructTags(t *testing.T) {
	cfg, err := decode([]byte(yamlDoc), goyaml.Unmarshal)
	if err != nil {
		t.Fatalf("decodeYAML: %v", err)
	}
	if len(cfg.Include) != 1 || cfg.Include[0] != "src" {
		t.Fatalf("Include = %v, want [src]", cfg.Include)
	}
	if cfg.VenvPath != ".venv" {
		t.Fatalf("VenvPath = %q, want .venv", cfg.VenvPath)
	}
}

func TestGetSetRoundTrip(t *testing.T) {
	cfg, err := decode([]byte(jsonDoc), json.Unmarshal)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	v, ok := cfg.Get("reportUnusedImport")
	if !ok || v != "warning" {
		t.Fatalf("Get(reportUnusedImport) = (%q, %v), want (warning, true)", v, ok)
	}

	if err := cfg.Set("reportUnusedImport", "error"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok = cfg.Get("reportUnusedImport")
	if !ok || v != "error" {
		t.Fatalf("Get after Set = (%q, %v), want (error, true)", v, ok)
	}
	if cfg.Rules["reportUnusedImport"] != "error" {
		t.Fatalf("Set should re-decode Rules too, got %q", cfg.Rules["reportUnusedImport"])
	}
}

func TestGetMissingKey(t *testing.T) {
	cfg, err := decode([]byte(jsonDoc), json.Unmarshal)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := cfg.Get("doesNotExist"); ok {
		t.Fatalf("Get(doesNotExist) should report not-found")
	}
}

func TestResolveEnvironmentLongestRootWins(t *testing.T) {
	cfg, err := decode([]byte(jsonDoc), json.Unmarshal)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	env := cfg.ResolveEnvironment("src/app/main.py")
	if env.PythonVersion != "3.11" {
		t.Fatalf("ResolveEnvironment(src/app/main.py).PythonVersion = %q, want 3.11 (longest matching root)", env.PythonVersion)
	}

	env = cfg.ResolveEnvironment("src/other.py")
	if env.PythonVersion != "3.9" {
		t.Fatalf("ResolveEnvironment(src/other.py).PythonVersion = %q, want 3.9", env.PythonVersion)
	}
}

func TestDefaultSeveritiesMatchDiagDefaults(t *testing.T) {
	cfg := Default()
	if len(cfg.Rules) == 0 {
		t.Fatalf("Default() should carry the built-in rule severities")
	}
}
