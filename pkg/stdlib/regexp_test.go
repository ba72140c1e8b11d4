package stdlib_test

import (
	"reflect"
	"testing"
)

func TestRegExpExecTracksLastIndex(t *testing.T) {
	got := eval(t, `(function () {
  var re = /o/g, s = "foo", out = [];
  out.push(re.exec(s).index, re.lastIndex);
  out.push(re.exec(s).index, re.lastIndex);
  out.push(re.exec(s), re.lastIndex);
  return out;
})()`)
	want := []any{1.0, 2.0, 2.0, 3.0, nil, 0.0}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRegExpProperties(t *testing.T) {
	checkEval(t, []evalCase{
		{`new RegExp("a+", "ig").flags`, "gi"},
		{`String(/x\d/m)`, "/x\\d/m"},
		{`/x/.source + new RegExp("").source`, "x(?:)"},
		{`[/a/g.global, /a/i.ignoreCase, /a/y.sticky, /a/.multiline]`, []any{true, true, true, false}},
		{`new RegExp(/ab/g).flags`, "g"},
		{`new RegExp(/ab/g, "i").flags`, "i"},
		{`Object.prototype.toString.call(/a/)`, "[object RegExp]"},
	})
}

func TestRegExpMatching(t *testing.T) {
	checkEval(t, []evalCase{
		{`/HELLO/i.test("say hello")`, true},
		{`/^b/m.test("a\nb")`, true},
		{`/^b/.test("a\nb")`, false},
		{`/a.b/s.test("a\nb")`, true},
		{`/a.b/.test("a\nb")`, false},
		{`(function () { var re = /a/y; re.lastIndex = 1; return re.test("ba"); })()`, true},
		{`(function () { var re = /a/y; return re.test("ba"); })()`, false},
		{`/(\d+)-(x)?/.exec("12-")`, []any{"12-", "12", nil}},
		{`/(?<word>\w+)/.exec("hi there").groups.word`, "hi"},
		{`/a/.exec("b")`, nil},
	})
}

func TestRegExpSyntaxErrors(t *testing.T) {
	out := run(t, `
var names = [];
[["(", ""], ["a", "gg"], ["a", "q"]].forEach(function (args) {
  try { new RegExp(args[0], args[1]); names.push("ok"); } catch (e) { names.push(e.name); }
});
exports.names = names;
`)
	assertExport(t, out, "names", []any{"SyntaxError", "SyntaxError", "SyntaxError"})
	if got := thrown(t, `RegExp.prototype.test.call({}, "x")`); got != "TypeError: RegExp.prototype.test called on incompatible receiver {}" {
		t.Fatalf("unexpected %s", got)
	}
}
