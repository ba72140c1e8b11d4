package interpreter

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/parser"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/stdlib"
)

func mustParseProgram(t *testing.T, source string) *ast.Program {
	t.Helper()
	program, err := parser.ParseProgram([]byte(source))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return program
}

// runSource parses and executes source with the default globals, returning
// module.exports as plain Go data and everything console.log wrote.
func runSource(t *testing.T, source string, opts Options) (any, string, error) {
	t.Helper()
	program := mustParseProgram(t, source)
	var stdout bytes.Buffer
	if opts.Stdout == nil {
		opts.Stdout = &stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = &stdout
	}
	if opts.Globals == nil {
		opts.Globals = stdlib.Globals
	}
	result, err := Execute(program, nil, opts)
	if err != nil {
		return nil, stdout.String(), err
	}
	return runtime.ToGo(result), stdout.String(), nil
}

// mustExport runs source and returns module.exports[name].
func mustExport(t *testing.T, source, name string) any {
	t.Helper()
	exports, _, err := runSource(t, source, Options{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	obj, ok := exports.(map[string]any)
	if !ok {
		t.Fatalf("expected exports object, got %#v", exports)
	}
	return obj[name]
}

func TestLoopAccumulates(t *testing.T) {
	got := mustExport(t, `var r = 0; for (var i = 0; i < 3; i++) { r += 2; } exports.r = r;`, "r")
	if got != 6.0 {
		t.Fatalf("expected 6, got %#v", got)
	}
}

func TestBreakStopsLoop(t *testing.T) {
	got := mustExport(t, `var r = 0; for (var i = 0; i < 3; i++) { r += 2; if (r >= 4) break; } exports.r = r;`, "r")
	if got != 4.0 {
		t.Fatalf("expected 4, got %#v", got)
	}
}

func TestBreakOnlyLeavesInnermostLoop(t *testing.T) {
	got := mustExport(t, `
var outer = 0, inner = 0;
for (var i = 0; i < 3; i++) {
  outer++;
  while (true) { inner++; break; }
}
exports.counts = [outer, inner];
`, "counts")
	if !reflect.DeepEqual(got, []any{3.0, 3.0}) {
		t.Fatalf("expected [3 3], got %#v", got)
	}
}

func TestContinueSkipsRestOfBody(t *testing.T) {
	got := mustExport(t, `
var seen = [];
var n = 0;
do {
  n++;
  if (n % 2 === 0) continue;
  seen.push(n);
} while (n < 6);
exports.seen = seen;
`, "seen")
	if !reflect.DeepEqual(got, []any{1.0, 3.0, 5.0}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestReturnEscapesNestedLoops(t *testing.T) {
	got := mustExport(t, `
function find(grid, target) {
  for (var r = 0; r < grid.length; r++) {
    for (var c of grid[r]) {
      if (c === target) return r;
    }
  }
  return -1;
}
exports.row = find([[1, 2], [3, 4]], 4);
`, "row")
	if got != 1.0 {
		t.Fatalf("expected 1, got %#v", got)
	}
}

func TestFunctionScopeShadowsOuterVar(t *testing.T) {
	got := mustExport(t, `var x = 11; function f() { var x = 22; return x; } exports.v = [f(), x];`, "v")
	if !reflect.DeepEqual(got, []any{22.0, 11.0}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestClosuresShareCapturedEnvironment(t *testing.T) {
	got := mustExport(t, `
function outer() { var n = 0; return function () { return ++n; }; }
var c = outer();
c();
exports.v = c();
`, "v")
	if got != 2.0 {
		t.Fatalf("expected 2, got %#v", got)
	}
}

func TestRecursionAllocatesScopePerCall(t *testing.T) {
	got := mustExport(t, `
var fib = function (n) { var a = n; if (a < 2) return a; return fib(a - 1) + fib(a - 2); };
exports.v = fib(15);
`, "v")
	if got != 610.0 {
		t.Fatalf("expected 610, got %#v", got)
	}
}

func TestVarHoistsOutOfBlocks(t *testing.T) {
	got := mustExport(t, `
var before = typeof hoisted;
{ var hoisted = 1; }
if (true) { var alsoHoisted = 2; }
exports.v = [before, hoisted, alsoHoisted, declaredLater()];
function declaredLater() { return "fn"; }
`, "v")
	if !reflect.DeepEqual(got, []any{"undefined", 1.0, 2.0, "fn"}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestLetIsBlockScoped(t *testing.T) {
	got := mustExport(t, `
let x = 1;
{ let x = 2; }
exports.v = x;
`, "v")
	if got != 1.0 {
		t.Fatalf("expected 1, got %#v", got)
	}
}

func TestForLoopSharesOneScope(t *testing.T) {
	got := mustExport(t, `
var fns = [];
for (let i = 0; i < 3; i++) { fns.push(function () { return i; }); }
exports.v = fns.map(function (f) { return f(); });
`, "v")
	if !reflect.DeepEqual(got, []any{3.0, 3.0, 3.0}) {
		t.Fatalf("expected every closure to see the final value, got %v", got)
	}
}

func TestLogicalOperatorsShortCircuit(t *testing.T) {
	got := mustExport(t, `
var calls = 0;
function touch(v) { calls++; return v; }
var a = touch(1) || touch(2);
var b = touch(0) && touch(3);
var c = touch(null) ?? touch(4);
exports.v = [a, b, c, calls];
`, "v")
	if !reflect.DeepEqual(got, []any{1.0, 0.0, 4.0, 4.0}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestAssignmentResolvesTargetBeforeValue(t *testing.T) {
	got := mustExport(t, `
var log = [];
var obj = { items: {} };
function target() { log.push("target"); return obj.items; }
function value() { log.push("value"); return 7; }
target().k = value();
exports.v = [log.join(","), obj.items.k];
`, "v")
	if !reflect.DeepEqual(got, []any{"target,value", 7.0}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestUpdateExpressionsReturnOldOrNew(t *testing.T) {
	got := mustExport(t, `
var o = { n: 1 };
var a = o.n++;
var b = ++o.n;
var c = o.n--;
exports.v = [a, b, c, o.n];
`, "v")
	if !reflect.DeepEqual(got, []any{1.0, 3.0, 3.0, 2.0}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestOperatorCoercions(t *testing.T) {
	got := mustExport(t, `
exports.v = [
  1 + "2", "3" * "4", 1 == "1", 1 === "1", null == undefined,
  [1, 2] + "", typeof null, 7 % -3, 2 ** 10, "b" > "a", -"x" !== -"x",
];
`, "v")
	want := []any{"12", 12.0, true, false, true, "1,2", "object", 1.0, 1024.0, true, true}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestArrowFunctionsInheritThisAndArguments(t *testing.T) {
	got := mustExport(t, `
var obj = {
  name: "box",
  run: function () {
    var inner = () => [this.name, arguments[0]];
    return inner("ignored");
  },
};
exports.v = obj.run("outer");
`, "v")
	if !reflect.DeepEqual(got, []any{"box", "outer"}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestConstructorsAndPrototypes(t *testing.T) {
	got := mustExport(t, `
function Point(x, y) { this.x = x; this.y = y; }
Point.prototype.sum = function () { return this.x + this.y; };
var p = new Point(2, 3);
exports.v = [p.sum(), p instanceof Point, Object.getPrototypeOf(p) === Point.prototype];
`, "v")
	if !reflect.DeepEqual(got, []any{5.0, true, true}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestGettersSettersAndSpread(t *testing.T) {
	got := mustExport(t, `
var store = { _v: 1, get v() { return this._v * 10; }, set v(x) { this._v = x; } };
store.v = 4;
var copy = { ...store, extra: true };
exports.v = [store.v, copy.v, copy.extra, Math.max(...[3, 9, 2])];
`, "v")
	if !reflect.DeepEqual(got, []any{40.0, 40.0, true, 9.0}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestOptionalChainingAndTemplates(t *testing.T) {
	got := mustExport(t, `
var cfg = { db: { host: "h" } };
exports.v = [cfg?.db?.host, cfg.cache?.size, cfg.missing?.(), `+"`host=${cfg.db.host}!`"+`];
`, "v")
	if !reflect.DeepEqual(got, []any{"h", nil, nil, "host=h!"}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestSwitchFallsThrough(t *testing.T) {
	got := mustExport(t, `
function label(n) {
  var out = [];
  switch (n) {
    case 1: out.push("one");
    case 2: out.push("two"); break;
    default: out.push("other");
  }
  return out.join("+");
}
exports.v = [label(1), label(2), label(9)];
`, "v")
	if !reflect.DeepEqual(got, []any{"one+two", "two", "other"}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestForInVisitsEnumerableKeys(t *testing.T) {
	got := mustExport(t, `
var keys = [];
var o = { a: 1, b: 2 };
Object.defineProperty(o, "hidden", { value: 3, enumerable: false });
for (var k in o) keys.push(k);
for (var idx in ["x", "y"]) keys.push(idx);
exports.v = keys;
`, "v")
	if !reflect.DeepEqual(got, []any{"a", "b", "0", "1"}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestModuleExportsReassignment(t *testing.T) {
	exports, _, err := runSource(t, `module.exports = function () {}; module.exports = [1, "two"];`, Options{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !reflect.DeepEqual(exports, []any{1.0, "two"}) {
		t.Fatalf("unexpected exports %#v", exports)
	}
}

func TestExternalBindingsShadowGlobals(t *testing.T) {
	program := mustParseProgram(t, `module.exports = [input.n * 2, Math];`)
	result, err := Execute(program, map[string]any{
		"input": map[string]any{"n": 21},
		"Math":  "shadowed",
	}, Options{Globals: stdlib.Globals})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := runtime.ToGo(result); !reflect.DeepEqual(got, []any{42.0, "shadowed"}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestConsoleLogWritesStdout(t *testing.T) {
	_, stdout, err := runSource(t, `console.log("sum:", 1 + 2, [1, "a"], { k: null });`, Options{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if want := "sum: 3 [ 1, 'a' ] { k: null }\n"; stdout != want {
		t.Fatalf("expected %q, got %q", want, stdout)
	}
}

func TestEvaluateHandBuiltTree(t *testing.T) {
	program := ast.Prog(
		ast.Var("total", ast.Num(0)),
		ast.For(
			ast.Let("i", ast.Num(1)),
			ast.Bin("<=", ast.ID("i"), ast.Num(4)),
			ast.Inc(ast.ID("i"), false),
			ast.Expr(ast.AssignOp("+=", ast.ID("total"), ast.ID("i"))),
		),
		ast.Expr(ast.Assign(ast.Member(ast.ID("module"), "exports"), ast.ID("total"))),
	)
	result, err := Execute(program, nil, Options{})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if n, ok := result.(runtime.NumberValue); !ok || n.Val != 10 {
		t.Fatalf("expected 10, got %#v", result)
	}
}

func TestRootBindingsWithoutGlobals(t *testing.T) {
	interp := New(Options{})
	program := ast.Prog(ast.Expr(ast.Assign(ast.Member(ast.ID("module"), "exports"), ast.This())))
	result, err := interp.Execute(program, nil)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, ok := result.(runtime.NullValue); !ok {
		t.Fatalf("expected top-level this to be null, got %#v", result)
	}
	if _, ok := interp.RootEnvironment().Get("console"); ok {
		t.Fatalf("expected no console binding without a globals table")
	}
	binding, ok := interp.RootEnvironment().Lookup("module")
	if !ok || binding.Mutability() != runtime.Immutable {
		t.Fatalf("expected immutable module binding")
	}
}
