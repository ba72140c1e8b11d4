package driver

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
entry: src/main.js
format: js
globals:
  name: demo
  retries: 3
  ratio: 0.5
  enabled: true
  tags: [a, b]
  nested:
    level: 2
    items:
      - x
limits:
  max_call_depth: 200
  max_timer_runs: 5
  max_steps: 1000
  timeout: 1500ms
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Format != FormatJS {
		t.Fatalf("format = %q", cfg.Format)
	}
	if want := filepath.Join(dir, "src", "main.js"); cfg.EntryPath() != want {
		t.Fatalf("EntryPath = %q, want %q", cfg.EntryPath(), want)
	}
	if want := []string{"name", "retries", "ratio", "enabled", "tags", "nested"}; !reflect.DeepEqual(cfg.GlobalOrder, want) {
		t.Fatalf("GlobalOrder = %v, want %v", cfg.GlobalOrder, want)
	}
	wantGlobals := map[string]any{
		"name":    "demo",
		"retries": 3.0,
		"ratio":   0.5,
		"enabled": true,
		"tags":    []any{"a", "b"},
		"nested":  map[string]any{"level": 2.0, "items": []any{"x"}},
	}
	if !reflect.DeepEqual(cfg.Globals, wantGlobals) {
		t.Fatalf("Globals = %#v", cfg.Globals)
	}
	wantLimits := Limits{MaxCallDepth: 200, MaxTimerRuns: 5, MaxSteps: 1000, Timeout: 1500 * time.Millisecond}
	if cfg.Limits != wantLimits {
		t.Fatalf("Limits = %+v, want %+v", cfg.Limits, wantLimits)
	}
}

func TestLoadConfigRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
entry: main.js
entrypoint: other.js
`)
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "entrypoint") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadConfigEmpty(t *testing.T) {
	path := writeConfig(t, t.TempDir(), ``)
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty config error, got %v", err)
	}
}

func TestLoadConfigAggregatesIssues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
format: typescript
globals:
  module: 1
  "bad-name": 2
limits:
  max_call_depth: -1
  timeout: soon
`)
	_, err := LoadConfig(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := []string{
		`format: unknown format "typescript" (want js or estree)`,
		`limits.timeout: invalid duration "soon"`,
		`globals: "module" is reserved by the interpreter`,
		`globals: "bad-name" is not a valid identifier`,
		"limits.max_call_depth must not be negative",
	}
	if !reflect.DeepEqual(verr.Issues, want) {
		t.Fatalf("issues = %q", verr.Issues)
	}
	if !strings.HasPrefix(err.Error(), "config validation failed:\n- format") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestLoadConfigRejectsNonMappingGlobals(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
globals: [a, b]
`)
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "globals must be a mapping") {
		t.Fatalf("expected mapping error, got %v", err)
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `entry: main.js`)
	child := filepath.Join(root, "src", "lib")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	found, err := FindConfig(child)
	if err != nil {
		t.Fatalf("FindConfig: %v", err)
	}
	if want := filepath.Join(root, ConfigFileName); found != want {
		t.Fatalf("FindConfig = %q, want %q", found, want)
	}

	_, err = FindConfig(t.TempDir())
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestParseGlobalAssignment(t *testing.T) {
	cases := []struct {
		arg  string
		name string
		want any
	}{
		{"count=3", "count", 3.0},
		{"flag=true", "flag", true},
		{"label=hello world", "label", "hello world"},
		{"list=[1, two]", "list", []any{1.0, "two"}},
		{"obj={a: 1}", "obj", map[string]any{"a": 1.0}},
		{"empty=", "empty", ""},
	}
	for _, tc := range cases {
		name, value, err := ParseGlobalAssignment(tc.arg)
		if err != nil {
			t.Fatalf("%s: %v", tc.arg, err)
		}
		if name != tc.name || !reflect.DeepEqual(value, tc.want) {
			t.Fatalf("%s: got %s=%#v", tc.arg, name, value)
		}
	}
	for _, bad := range []string{"novalue", "1x=2", "exports=3"} {
		if _, _, err := ParseGlobalAssignment(bad); err == nil {
			t.Fatalf("%s: expected error", bad)
		}
	}
}
