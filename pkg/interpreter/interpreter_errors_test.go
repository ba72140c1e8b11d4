package interpreter

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

func uncaught(t *testing.T, err error) runtime.Value {
	t.Helper()
	var thrown *runtime.ThrowError
	if !errors.As(err, &thrown) {
		t.Fatalf("expected uncaught throw, got %T: %v", err, err)
	}
	return thrown.Value
}

func TestCatchBindsThrownValue(t *testing.T) {
	got := mustExport(t, `var r; try { throw 'e'; } catch (e) { r = e; } exports.r = r;`, "r")
	if got != "e" {
		t.Fatalf("expected 'e', got %#v", got)
	}
}

func TestFinallyRunsExactlyOnce(t *testing.T) {
	got := mustExport(t, `
var count = 0;
function side() { count++; }
try { throw new Error("x"); } catch (e) {} finally { side(); }
try { 1; } finally { side(); }
function early() { try { return "try"; } finally { side(); } }
var ret = early();
try { try { throw 1; } finally { side(); } } catch (e) {}
exports.v = [count, ret];
`, "v")
	if !reflect.DeepEqual(got, []any{4.0, "try"}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestFinallyCompletionDoesNotOverrideNormalResult(t *testing.T) {
	got := mustExport(t, `
function normal() { try { return 1; } finally { "ignored"; } }
function abrupt() { try { return 1; } finally { return 2; } }
function swallow() { try { throw new Error("lost"); } finally { return "finally"; } }
exports.v = [normal(), abrupt(), swallow()];
`, "v")
	if !reflect.DeepEqual(got, []any{1.0, 2.0, "finally"}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestRuntimeErrorsAreCatchable(t *testing.T) {
	got := mustExport(t, `
var names = [];
function grab(fn) { try { fn(); } catch (e) { names.push(e.name + ": " + e.message); } }
grab(function () { return missing; });
grab(function () { var n = 1; n(); });
grab(function () { const c = 1; c = 2; });
grab(function () { null.x; });
grab(function () { let a = 1; { let b = 2; } let a = 3; });
exports.v = names;
`, "v")
	want := []any{
		"ReferenceError: missing is not defined",
		"TypeError: n is not a function",
		"TypeError: Assignment to constant variable.",
		"TypeError: Cannot read properties of null (reading 'x')",
		"ReferenceError: Identifier 'a' has already been declared",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAssigningUndeclaredIdentifierThrows(t *testing.T) {
	_, _, err := runSource(t, `undeclared = 5;`, Options{})
	thrown := uncaught(t, err)
	if runtime.ErrorName(thrown) != "ReferenceError" {
		t.Fatalf("expected ReferenceError, got %s", runtime.DescribeThrown(thrown))
	}
}

func TestImmutableRootBindingsRejectWrites(t *testing.T) {
	got := mustExport(t, `
var msg;
try { module = {}; } catch (e) { msg = e.message; }
exports.v = [msg, typeof module.exports];
`, "v")
	if !reflect.DeepEqual(got, []any{"Assignment to constant variable.", "object"}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestUncaughtThrowSurfacesValue(t *testing.T) {
	_, _, err := runSource(t, `throw { code: 42 };`, Options{})
	thrown := uncaught(t, err)
	if got := runtime.ToGo(thrown); !reflect.DeepEqual(got, map[string]any{"code": 42.0}) {
		t.Fatalf("unexpected thrown value %#v", got)
	}
	if !strings.HasPrefix(err.Error(), "Uncaught ") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestFatalErrorsBypassCatch(t *testing.T) {
	cases := map[string]struct {
		source string
		kind   FatalKind
	}{
		"with":        {source: `var ran = false; try { with ({}) {} } catch (e) { ran = true; }`, kind: FatalUnsupportedFeature},
		"class":       {source: `try { class A {} } catch (e) {}`, kind: FatalUnsupportedFeature},
		"label":       {source: `try { outer: for (;;) { break outer; } } catch (e) {}`, kind: FatalUnsupportedFeature},
		"generator":   {source: `try { (function* () {})(); } catch (e) {}`, kind: FatalUnsupportedFeature},
		"stray break": {source: `function f() { break; } try { f(); } catch (e) {}`, kind: FatalInvalidProgram},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			program := mustParseProgram(t, tc.source)
			_, err := Execute(program, nil, Options{})
			if !IsFatal(err, tc.kind) {
				t.Fatalf("expected fatal %s, got %T: %v", tc.kind, err, err)
			}
		})
	}
}

func TestFatalErrorStillRunsFinally(t *testing.T) {
	var log []string
	program := mustParseProgram(t, `try { with ({}) {} } finally { record("finally"); }`)
	_, err := Execute(program, map[string]any{
		"record": runtime.NativeFunc(func(call *runtime.NativeCall) (runtime.Value, error) {
			log = append(log, runtime.ToString(call.Arg(0)))
			return runtime.Undefined, nil
		}),
	}, Options{})
	if !IsFatal(err, FatalUnsupportedFeature) {
		t.Fatalf("expected UnsupportedFeature, got %v", err)
	}
	if !reflect.DeepEqual(log, []string{"finally"}) {
		t.Fatalf("expected finally to run once, got %v", log)
	}
}

func TestUnknownNodeKindIsFatal(t *testing.T) {
	program := ast.Prog(ast.NewRawNode(ast.NodeType("ImportDeclaration"), nil))
	_, err := Execute(program, nil, Options{})
	var fe *FatalError
	if !errors.As(err, &fe) || fe.Kind != FatalUnsupportedNodeKind {
		t.Fatalf("expected UnsupportedNodeKind, got %v", err)
	}
	if fe.NodeType != "ImportDeclaration" {
		t.Fatalf("expected node type on the error, got %q", fe.NodeType)
	}
}

func TestUnknownOperatorIsFatal(t *testing.T) {
	program := ast.Prog(ast.Expr(ast.Bin("<=>", ast.Num(1), ast.Num(2))))
	_, err := Execute(program, nil, Options{})
	if !IsFatal(err, FatalUnknownOperator) {
		t.Fatalf("expected UnknownOperator, got %v", err)
	}
}

func TestCallDepthBudget(t *testing.T) {
	_, _, err := runSource(t, `function f() { return f(); } f();`, Options{Budget: Budget{MaxCallDepth: 50}})
	thrown := uncaught(t, err)
	if runtime.ErrorName(thrown) != "RangeError" || runtime.ErrorMessage(thrown) != "Maximum call stack size exceeded" {
		t.Fatalf("unexpected %s", runtime.DescribeThrown(thrown))
	}
}

func TestStepBudgetStopsInfiniteLoop(t *testing.T) {
	_, _, err := runSource(t, `try { while (true) {} } catch (e) {}`, Options{Budget: Budget{MaxSteps: 1000}})
	if !IsFatal(err, FatalBudgetExceeded) {
		t.Fatalf("expected BudgetExceeded, got %v", err)
	}
}

func TestCancelledContextStopsEvaluation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := runSource(t, `for (;;) {}`, Options{Context: ctx})
	if !IsFatal(err, FatalCancelled) {
		t.Fatalf("expected Cancelled, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected error chain to carry context.Canceled, got %v", err)
	}
}

func TestTopLevelReturnEndsProgram(t *testing.T) {
	got := mustExport(t, `exports.v = "before"; return; exports.v = "after";`, "v")
	if got != "before" {
		t.Fatalf("expected program to stop at return, got %#v", got)
	}
}
