package stdlib_test

import "testing"

func TestArrayConstruction(t *testing.T) {
	checkEval(t, []evalCase{
		{`Array(3)`, []any{nil, nil, nil}},
		{`new Array(1, 2)`, []any{1.0, 2.0}},
		{`Array("3")`, []any{"3"}},
		{`Array.of(7)`, []any{7.0}},
		{`Array.isArray([]) && !Array.isArray({ length: 0 })`, true},
		{`Array.from("héllo").length`, 5.0},
		{`Array.from({ length: 2, 0: "a", 1: "b" })`, []any{"a", "b"}},
		{`Array.from([1, 2], function (x, i) { return x * 10 + i; })`, []any{10.0, 21.0}},
	})
	if got := thrown(t, `new Array(-1)`); got != "RangeError: Invalid array length" {
		t.Fatalf("unexpected %s", got)
	}
}

func TestArrayMutators(t *testing.T) {
	out := run(t, `
var a = [1, 2, 3, 4, 5];
var removed = a.splice(1, 2, "x");
var log = [a.slice(), removed];
log.push(a.push(6, 7), a.pop(), a.shift(), a.unshift(0));
log.push(a.slice());
log.push([3, 1, 2].reverse());
log.push([0, 0, 0, 0].fill(9, 1, -1));
log.push([1, 2, 3].splice(-1));
exports.log = log;
`)
	want := []any{
		[]any{1.0, "x", 4.0, 5.0},
		[]any{2.0, 3.0},
		6.0, 7.0, 1.0, 5.0,
		[]any{0.0, "x", 4.0, 5.0, 6.0},
		[]any{2.0, 1.0, 3.0},
		[]any{0.0, 9.0, 9.0, 0.0},
		[]any{3.0},
	}
	assertExport(t, out, "log", want)
}

func TestArrayAccessors(t *testing.T) {
	checkEval(t, []evalCase{
		{`[1, 2, 3, 4, 5].slice(-2)`, []any{4.0, 5.0}},
		{`[1, 2, 3].slice(2, 1)`, []any{}},
		{`[1, [2, 3]].concat([4], 5, [[6]])`, []any{1.0, []any{2.0, 3.0}, 4.0, 5.0, []any{6.0}}},
		{`[1, null, undefined, 2].join("-")`, "1---2"},
		{`String([1, [2, 3]])`, "1,2,3"},
		{`[NaN].indexOf(NaN)`, -1.0},
		{`[NaN].includes(NaN)`, true},
		{`[1, 2, 1].lastIndexOf(1)`, 2.0},
		{`[1, 2, 1].indexOf(1, 1)`, 2.0},
		{`[1, 2, 3].at(-1)`, 3.0},
		{`[1, 2, 3].at(5)`, nil},
		{`[1, [2, [3, [4]]]].flat(2)`, []any{1.0, 2.0, 3.0, []any{4.0}}},
		{`[1, [2, [3]]].flat(Infinity)`, []any{1.0, 2.0, 3.0}},
		{`["a b", "c"].flatMap(function (s) { return s.split(" "); })`, []any{"a", "b", "c"}},
	})
}

func TestArrayIteration(t *testing.T) {
	checkEval(t, []evalCase{
		{`[1, 2, 3, 4].filter(function (n) { return n % 2; }).map(function (n, i) { return n * 10 + i; })`, []any{10.0, 31.0}},
		{`[1, 2, 3].reduce(function (acc, n) { return acc + n; })`, 6.0},
		{`["a", "b", "c"].reduceRight(function (acc, s) { return acc + s; }, "")`, "cba"},
		{`[5, 12, 8, 130].find(function (n) { return n > 10; })`, 12.0},
		{`[5, 12, 8, 130].findIndex(function (n) { return n > 100; })`, 3.0},
		{`[5, 12, 8, 130].findLast(function (n) { return n < 10; })`, 8.0},
		{`[5, 12].findLastIndex(function (n) { return n > 100; })`, -1.0},
		{`[1, 2].some(function (n) { return n > 1; }) && [1, 2].every(function (n) { return n > 0; })`, true},
		{`[].every(function () { return false; })`, true},
		{`(function () { var seen = []; [1, 2].forEach(function (n) { seen.push(this.base + n); }, { base: 10 }); return seen; })()`, []any{11.0, 12.0}},
		{`(function () { var a = [1, 2, 3]; return a.map(function (n) { a.push(n); return n; }).length; })()`, 3.0},
	})
	if got := thrown(t, `[].reduce(function (a, b) { return a + b; })`); got != "TypeError: Reduce of empty array with no initial value" {
		t.Fatalf("unexpected %s", got)
	}
	if got := thrown(t, `[1].map(42)`); got != "TypeError: 42 is not a function" {
		t.Fatalf("unexpected %s", got)
	}
}

func TestArraySort(t *testing.T) {
	checkEval(t, []evalCase{
		{`[3, 1, 2].sort()`, []any{1.0, 2.0, 3.0}},
		{`[10, 9, 1].sort()`, []any{1.0, 10.0, 9.0}},
		{`[10, 9, 1].sort(function (a, b) { return b - a; })`, []any{10.0, 9.0, 1.0}},
		{`[3, undefined, 1].sort()`, []any{1.0, 3.0, nil}},
		{`[{ k: 1, id: "a" }, { k: 0, id: "b" }, { k: 1, id: "c" }, { k: 0, id: "d" }].sort(function (x, y) { return x.k - y.k; }).map(function (o) { return o.id; }).join("")`, "bdac"},
	})
	if got := thrown(t, `[2, 1].sort(function () { throw new Error("cmp"); })`); got != "Error: cmp" {
		t.Fatalf("unexpected %s", got)
	}
}

func TestFrozenArrayRejectsMutation(t *testing.T) {
	if got := thrown(t, `var a = Object.freeze([1]); a.push(2);`); got != "TypeError: Cannot modify frozen array with push" {
		t.Fatalf("unexpected %s", got)
	}
}
