// Package config implements the CLI/config surface: the JSON config at
// <project>/<defaultName>.json (or an equivalent pytype.yaml),
// per-rule severities, execution environments, and the point
// get/set operations the CLI's `config` subcommand exposes without a full
// document re-marshal.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	goyaml "github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/kbridge/pytype/internal/diag"
	"github.com/kbridge/pytype/internal/resolve"
)

// DefaultName is the config file pytype looks for at the project root
// absent an explicit --config flag.
const DefaultName = "pytypeconfig.json"

// ExecutionEnvironment is one entry of executionEnvironments[].
type ExecutionEnvironment struct {
	Root string `json:"root" yaml:"root"`
	PythonVersion string `json:"pythonVersion,omitempty" yaml:"pythonVersion,omitempty"`
	Venv string `json:"venv,omitempty" yaml:"venv,omitempty"`
	ExtraPaths []string `json:"extraPaths,omitempty" yaml:"extraPaths,omitempty"`
}

// Config is the decoded project configuration (a non-exhaustive set of
// recognized keys).
type Config struct {
	Include []string `json:"include,omitempty" yaml:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty" yaml:"exclude,omitempty"`
	Ignore []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`

	VenvPath string `json:"venvPath,omitempty" yaml:"venvPath,omitempty"`
	Venv string `json:"venv,omitempty" yaml:"venv,omitempty"`
	PythonPath string `json:"pythonPath,omitempty" yaml:"pythonPath,omitempty"`
	PythonVersion string `json:"pythonVersion,omitempty" yaml:"pythonVersion,omitempty"`
	TypeshedPath string `json:"typeshedPath,omitempty" yaml:"typeshedPath,omitempty"`
	TypingsPath string `json:"typingsPath,omitempty" yaml:"typingsPath,omitempty"`

	Strict []string `json:"strict,omitempty" yaml:"strict,omitempty"`

	ReportImportCycles string `json:"reportImportCycles,omitempty" yaml:"reportImportCycles,omitempty"`
	ReportTypeshedErrors string `json:"reportTypeshedErrors,omitempty" yaml:"reportTypeshedErrors,omitempty"`
	ReportUnusedImport string `json:"reportUnusedImport,omitempty" yaml:"reportUnusedImport,omitempty"`

	// Rules holds every `report*` severity key verbatim (including those that
	// also have a struct field above), so new rule
	// names never need a Go struct field added to be read or written.
	Rules map[string]string `json:"-" yaml:"-"`

	ExecutionEnvironments []ExecutionEnvironment `json:"executionEnvironments,omitempty" yaml:"executionEnvironments,omitempty"`

	raw []byte // the last-loaded document, kept for point get/set round-trips
}

// Default returns a Config with the default severities for the
// subset of rules this repository enforces.
func Default() *Config {
	rules := make(map[string]string, len(diag.DefaultSeverities))
	for rule, sev := range diag.DefaultSeverities {
		rules[rule] = string(sev)
	}
	return &Config{Rules: rules}
}

// Load reads and decodes a JSON config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(data, json.Unmarshal)
}

// LoadYAML reads and decodes a pytype.yaml-style alternative config,
// sharing Config's struct tags with the JSON form.
func LoadYAML(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(data, goyaml.Unmarshal)
}

func decode(data []byte, unmarshal func([]byte, interface{}) error) (*Config, error) {
	cfg := &Config{}
	if err := unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Rules = extractRules(data)
	cfg.raw = data
	return cfg, nil
}

// extractRules pulls every top-level `report*` key out of the raw JSON
// document via gjson, so rule severities round-trip even for rule names
// this package's struct doesn't name explicitly.
func extractRules(data []byte) map[string]string {
	rules := make(map[string]string)
	result := gjson.ParseBytes(data)
	result.ForEach(func(key, value gjson.Result) bool {
		k := key.String()
		if len(k) > 6 && k[:6] == "report" && value.Type == gjson.String {
			rules[k] = value.String()
		}
		return true
	})
	return rules
}

// Severities adapts Config.Rules to the diag.Severity map the module
// driver and statement analyzer consume.
func (c *Config) Severities() map[string]diag.Severity {
	out := make(map[string]diag.Severity, len(c.Rules))
	for k, v := range c.Rules {
		out[k] = diag.Severity(v)
	}
	return out
}

// Get performs a point query over the last-loaded raw document
// (`pytype config get <key>`), returning the raw string representation and
// whether the key was present.
func (c *Config) Get(key string) (string, bool) {
	if c.raw == nil {
		return "", false
	}
	res := gjson.GetBytes(c.raw, key)
	if !res.Exists() {
		return "", false
	}
	return res.String(), true
}

// Set patches a single key in the raw document and re-decodes Config from
// the result (`pytype config set <key> <value>`), without a full
// marshal/unmarshal round trip of the whole struct.
func (c *Config) Set(key, value string) error {
	updated, err := sjson.SetBytes(c.raw, key, value)
	if err != nil {
		return err
	}
	next, err := decode(updated, json.Unmarshal)
	if err != nil {
		return err
	}
	*c = *next
	return nil
}

// Save writes the config's raw document back to path.
func (c *Config) Save(path string) error {
	return os.WriteFile(path, c.raw, 0o644)
}

// ResolveEnvironment performs a longest-root-prefix match over the
// configured environments, returning the
// (root, pythonVersion, venv, extraPaths) tuple used by the import
// resolver boundary for a given source file path.
func (c *Config) ResolveEnvironment(filePath string) resolve.Environment {
	best := -1
	var env resolve.Environment
	for _, e := range c.ExecutionEnvironments {
		root := filepath.Clean(e.Root)
		rel, err := filepath.Rel(root, filePath)
		if err != nil || (len(rel) >= 2 && rel[:2] == "..") {
			continue
		}
		if len(root) > best {
			best = len(root)
			env = resolve.Environment{
				Root: e.Root,
				PythonVersion: e.PythonVersion,
				Venv: e.Venv,
				ExtraPaths: e.ExtraPaths,
			}
		}
	}
	if best < 0 {
		env = resolve.Environment{Root: c.VenvPath, Venv: c.Venv, PythonVersion: c.PythonVersion}
	}
	return env
}
