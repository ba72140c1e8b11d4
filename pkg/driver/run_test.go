package driver

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/interpreter"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

func jsSource(t *testing.T, code string) *Source {
	t.Helper()
	return &Source{Path: "main.js", Data: []byte(code)}
}

func TestRunInjectsConfiguredGlobals(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
globals:
  greeting: hello
  limits: [1, 2]
`), "/tmp/tinyjs.yml")
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	program, err := Parse(jsSource(t, `
console.log(greeting, limits.length);
exports.total = limits.reduce(function (a, b) { return a + b; }, 0);
try { greeting = "x"; } catch (e) { exports.err = e.name; }
`), FormatJS)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var stdout, stderr bytes.Buffer
	result, err := Run(context.Background(), program, cfg, &stdout, &stderr)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := map[string]any{"total": 3.0, "err": "TypeError"}
	if got := runtime.ToGo(result); !reflect.DeepEqual(got, want) {
		t.Fatalf("exports = %#v, want %#v", got, want)
	}
	if stdout.String() != "hello 2\n" {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestRunWithoutConfig(t *testing.T) {
	program, err := Parse(jsSource(t, `exports.v = Math.max(1, 2);`), FormatJS)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	result, err := Run(context.Background(), program, nil, &bytes.Buffer{}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := runtime.ToGo(result); !reflect.DeepEqual(got, map[string]any{"v": 2.0}) {
		t.Fatalf("exports = %#v", got)
	}
}

func TestRunAppliesLimits(t *testing.T) {
	program, err := Parse(jsSource(t, `while (true) {}`), FormatJS)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg := &Config{Limits: Limits{Timeout: 20 * time.Millisecond}}
	_, err = Run(context.Background(), program, cfg, &bytes.Buffer{}, &bytes.Buffer{})
	if !interpreter.IsFatal(err, interpreter.FatalCancelled) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected cancellation, got %v", err)
	}

	cfg = &Config{Limits: Limits{MaxSteps: 100}}
	_, err = Run(context.Background(), program, cfg, &bytes.Buffer{}, &bytes.Buffer{})
	if !interpreter.IsFatal(err, interpreter.FatalBudgetExceeded) {
		t.Fatalf("expected step budget error, got %v", err)
	}

	program, err = Parse(jsSource(t, `function f() { return f(); } f();`), FormatJS)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	cfg = &Config{Limits: Limits{MaxCallDepth: 50}}
	_, err = Run(context.Background(), program, cfg, &bytes.Buffer{}, &bytes.Buffer{})
	var thrown *runtime.ThrowError
	if !errors.As(err, &thrown) || runtime.DescribeThrown(thrown.Value) != "RangeError: Maximum call stack size exceeded" {
		t.Fatalf("expected stack overflow, got %v", err)
	}
}
