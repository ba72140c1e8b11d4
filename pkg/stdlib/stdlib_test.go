package stdlib_test

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/interpreter"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/parser"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/stdlib"
)

type output struct {
	exports any
	stdout  string
	stderr  string
}

// runWith executes source with the default globals. Unset writers are
// captured into the returned output.
func runWith(t *testing.T, source string, opts interpreter.Options) (output, error) {
	t.Helper()
	program, err := parser.ParseProgram([]byte(source))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var stdout, stderr bytes.Buffer
	if opts.Stdout == nil {
		opts.Stdout = &stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = &stderr
	}
	opts.Globals = stdlib.Globals
	if opts.Budget.MaxSteps == 0 {
		opts.Budget.MaxSteps = 1_000_000
	}
	result, err := interpreter.Execute(program, nil, opts)
	out := output{stdout: stdout.String(), stderr: stderr.String()}
	if err != nil {
		return out, err
	}
	out.exports = runtime.ToGo(result)
	return out, nil
}

func run(t *testing.T, source string) output {
	t.Helper()
	out, err := runWith(t, source, interpreter.Options{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	return out
}

// eval returns the value of a single expression.
func eval(t *testing.T, expr string) any {
	t.Helper()
	exports, ok := run(t, "exports.v = ("+expr+");").exports.(map[string]any)
	if !ok {
		t.Fatalf("expected exports object for %s", expr)
	}
	return exports["v"]
}

func assertExport(t *testing.T, out output, name string, want any) {
	t.Helper()
	exports, ok := out.exports.(map[string]any)
	if !ok {
		t.Fatalf("expected exports object, got %#v", out.exports)
	}
	if got := exports[name]; !reflect.DeepEqual(got, want) {
		t.Fatalf("%s: expected %#v, got %#v", name, want, got)
	}
}

type evalCase struct {
	expr string
	want any
}

func checkEval(t *testing.T, cases []evalCase) {
	t.Helper()
	for _, tc := range cases {
		if got := eval(t, tc.expr); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: expected %#v, got %#v", tc.expr, tc.want, got)
		}
	}
}

// thrown runs source expecting an uncaught exception and returns its
// "Name: message" description.
func thrown(t *testing.T, source string) string {
	t.Helper()
	_, err := runWith(t, source, interpreter.Options{})
	var te *runtime.ThrowError
	if !errors.As(err, &te) {
		t.Fatalf("expected uncaught exception from %q, got %v", source, err)
	}
	return runtime.DescribeThrown(te.Value)
}

func TestGlobalsAreIsolatedPerRealm(t *testing.T) {
	first := stdlib.Globals(runtime.NewRealm())
	second := stdlib.Globals(runtime.NewRealm())
	if first["Array"] == second["Array"] {
		t.Fatalf("expected distinct constructors per realm")
	}
	for _, name := range []string{"Object", "Array", "String", "Number", "Math", "JSON", "console", "setTimeout", "globalThis", "TypeError", "encodeURIComponent"} {
		if _, ok := first[name]; !ok {
			t.Fatalf("missing global %s", name)
		}
	}
}

func TestGlobalThisExposesBindings(t *testing.T) {
	checkEval(t, []evalCase{
		{`globalThis.Math === Math`, true},
		{`typeof globalThis.parseInt`, "function"},
		{`Object.keys(globalThis).length`, 0.0},
	})
}

func TestFunctionPrototypeMethods(t *testing.T) {
	checkEval(t, []evalCase{
		{`(function (a, b) { return [this.tag, a, b]; }).call({ tag: "t" }, 1, 2)`, []any{"t", 1.0, 2.0}},
		{`Math.max.apply(null, [3, 9, 4])`, 9.0},
		{`(function () { return arguments.length; }).apply(null, { length: 3 })`, 3.0},
		{`(function (a, b, c) { return a + b + c; }).bind(null, 1, 2)(3)`, 6.0},
		{`(function (a, b, c) {}).bind(null, 1).length`, 2.0},
		{`(function named() {}).bind(null).name`, "bound named"},
		{`String(Math.abs)`, "function abs() { [native code] }"},
	})
	if got := thrown(t, `Function.prototype.call.call(5)`); got != "TypeError: Function.prototype.call called on 5, which is not a function" {
		t.Fatalf("unexpected %s", got)
	}
	if got := thrown(t, `new Function("return 1")`); got != "EvalError: Code generation from strings disallowed for this context" {
		t.Fatalf("unexpected %s", got)
	}
}

func TestErrorConstructors(t *testing.T) {
	checkEval(t, []evalCase{
		{`String(new RangeError("too far"))`, "RangeError: too far"},
		{`TypeError("no new").message`, "no new"},
		{`new Error("outer", { cause: "inner" }).cause`, "inner"},
		{`new SyntaxError() instanceof Error`, true},
		{`new URIError("x").name`, "URIError"},
		{`Object.prototype.toString.call(new Error("e"))`, "[object Error]"},
		{`Error.prototype.toString.call({ name: "Custom", message: "" })`, "Custom"},
	})
}
