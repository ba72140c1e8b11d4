package interpreter

import (
	"reflect"
	"testing"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

func TestArrayDestructuring(t *testing.T) {
	got := mustExport(t, `
var [a, , b = 5, ...rest] = [1, 2, undefined, 4, 6];
let [x, [y, z]] = ["x", "yz"];
exports.v = [a, b, rest, x, y, z];
`, "v")
	want := []any{1.0, 5.0, []any{4.0, 6.0}, "x", "y", "z"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestObjectDestructuringWithDefaultsAndRest(t *testing.T) {
	got := mustExport(t, `
const { a, b: { c = 3 } = {}, ["d" + 1]: d1, ...others } = { a: 1, d1: "dee", e: 5, f: 6 };
exports.v = [a, c, d1, others];
`, "v")
	want := []any{1.0, 3.0, "dee", map[string]any{"e": 5.0, "f": 6.0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAssignmentDestructuringSwaps(t *testing.T) {
	got := mustExport(t, `
var p = 1, q = 2, box = {};
[p, q] = [q, p];
({ k: box.k } = { k: "member" });
exports.v = [p, q, box.k];
`, "v")
	if !reflect.DeepEqual(got, []any{2.0, 1.0, "member"}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestParameterPatterns(t *testing.T) {
	got := mustExport(t, `
function f({ name, tags: [first] }, count = name.length, ...extra) {
  return [name, first, count, extra.length, arguments.length];
}
exports.v = f({ name: "abc", tags: ["t1"] }, undefined, 7, 8);
`, "v")
	if !reflect.DeepEqual(got, []any{"abc", "t1", 3.0, 2.0, 4.0}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestFunctionLengthStopsAtDefault(t *testing.T) {
	got := mustExport(t, `exports.v = [(function (a, b = 1, c) {}).length, ((...r) => r).length, (function (a, b) {}).length];`, "v")
	if !reflect.DeepEqual(got, []any{1.0, 0.0, 2.0}) {
		t.Fatalf("unexpected %v", got)
	}
}

func TestDestructuringNullThrowsTypeError(t *testing.T) {
	_, _, err := runSource(t, `const { a } = null;`, Options{})
	thrown := uncaught(t, err)
	if runtime.ErrorName(thrown) != "TypeError" {
		t.Fatalf("expected TypeError, got %s", runtime.DescribeThrown(thrown))
	}
}

func TestDestructuringNonIterableThrows(t *testing.T) {
	_, _, err := runSource(t, `var [a] = 5;`, Options{})
	thrown := uncaught(t, err)
	if runtime.ErrorMessage(thrown) != "5 is not iterable" {
		t.Fatalf("unexpected %s", runtime.DescribeThrown(thrown))
	}
}

func TestDefaultNamesAnonymousFunctions(t *testing.T) {
	got := mustExport(t, `
var named = function () {};
const arrow = () => 1;
var { fallback = function () {} } = {};
exports.v = [named.name, arrow.name, fallback.name];
`, "v")
	if !reflect.DeepEqual(got, []any{"named", "arrow", "fallback"}) {
		t.Fatalf("unexpected %v", got)
	}
}
