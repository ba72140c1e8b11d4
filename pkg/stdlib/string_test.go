package stdlib_test

import "testing"

func TestStringIndexingCountsCharacters(t *testing.T) {
	checkEval(t, []evalCase{
		{`"héllo".length`, 5.0},
		{`"héllo".charAt(1)`, "é"},
		{`"héllo"[1]`, "é"},
		{`"héllo".slice(1, 3)`, "él"},
		{`"héllo".indexOf("l")`, 2.0},
		{`"héllo".lastIndexOf("l")`, 3.0},
		{`"héllo".lastIndexOf("l", 2)`, 2.0},
		{`"abc".charCodeAt(1)`, 98.0},
		{`"abc".charAt(9)`, ""},
		{`"abc".at(-1)`, "c"},
		{`String.fromCharCode(72, 105)`, "Hi"},
	})
}

func TestStringTransforms(t *testing.T) {
	checkEval(t, []evalCase{
		{`"5".padStart(3, "0")`, "005"},
		{`"abc".padEnd(6, "12")`, "abc121"},
		{`"abc".padStart(2)`, "abc"},
		{`"ab".repeat(3)`, "ababab"},
		{`"  hi \n".trim() + "|" + "  x ".trimStart() + "|" + " y  ".trimEnd()`, "hi|x | y"},
		{`"MiXed".toUpperCase() + "MiXed".toLowerCase()`, "MIXEDmixed"},
		{`"hello".substring(3, 1)`, "el"},
		{`"hello".substr(-3, 2)`, "ll"},
		{`"a".concat("b", 1, null)`, "ab1null"},
		{`"abc".startsWith("b", 1) && "abc".endsWith("b", 2) && "abc".includes("c")`, true},
		{`"b".localeCompare("a")`, 1.0},
		{`"é".normalize().length`, 1.0},
		{`"é".normalize("NFD").length`, 2.0},
	})
	if got := thrown(t, `"ab".repeat(-1)`); got != "RangeError: Invalid count value: -1" {
		t.Fatalf("unexpected %s", got)
	}
	if got := thrown(t, `"x".normalize("bogus")`); got != "RangeError: The normalization form should be one of NFC, NFD, NFKC, NFKD." {
		t.Fatalf("unexpected %s", got)
	}
	if got := thrown(t, `"abc".includes(/b/)`); got != "TypeError: First argument to String.prototype.includes must not be a regular expression" {
		t.Fatalf("unexpected %s", got)
	}
}

func TestStringSplit(t *testing.T) {
	checkEval(t, []evalCase{
		{`"a,b,,c".split(",")`, []any{"a", "b", "", "c"}},
		{`"a,b,c".split(",", 2)`, []any{"a", "b"}},
		{`"abc".split("")`, []any{"a", "b", "c"}},
		{`"abc".split()`, []any{"abc"}},
		{`"".split(",")`, []any{""}},
		{`"a1b2c".split(/\d/)`, []any{"a", "b", "c"}},
		{`"a1b2c".split(/(\d)/)`, []any{"a", "1", "b", "2", "c"}},
		{`"one  two".split(/\s+/)`, []any{"one", "two"}},
	})
}

func TestStringReplace(t *testing.T) {
	checkEval(t, []evalCase{
		{`"aaa".replace("a", "b")`, "baa"},
		{`"aaa".replaceAll("a", "b")`, "bbb"},
		{`"x-y".replace(/(\w)-(\w)/, "$2-$1")`, "y-x"},
		{`"cost".replace("cost", "$$5 ($&)")`, "$5 (cost)"},
		{"\"abc\".replace(\"b\", \"[$`|$']\")", "a[a|c]c"},
		{`"a1b22".replace(/\d+/g, function (m) { return "<" + m + ">"; })`, "a<1>b<22>"},
		{`"John Smith".replace(/(\w+)\s(\w+)/, function (m, first, last, offset) { return last + ", " + first + "@" + offset; })`, "Smith, John@0"},
		{`"2024-05".replace(/(?<year>\d+)-(?<month>\d+)/, "$<month>/$<year>")`, "05/2024"},
		{`"AbAb".replace(/b/gi, "_")`, "A_A_"},
		{`"xyz".replace(/q/, "!")`, "xyz"},
	})
	if got := thrown(t, `"aa".replaceAll(/a/, "b")`); got != "TypeError: replaceAll must be called with a global RegExp" {
		t.Fatalf("unexpected %s", got)
	}
}

func TestStringMatching(t *testing.T) {
	checkEval(t, []evalCase{
		{`"a1b2".match(/\d/g)`, []any{"1", "2"}},
		{`"abc".match(/z/g)`, nil},
		{`(function () { var m = "xay".match(/a/); return [m[0], m.index, m.input]; })()`, []any{"a", 1.0, "xay"}},
		{`"a.b".match(".")[0]`, "a"},
		{`[..."a1b2".matchAll(/\d/g)].map(function (m) { return m[0] + "@" + m.index; })`, []any{"1@1", "2@3"}},
		{`"abc".search(/c/)`, 2.0},
		{`"abc".search("z")`, -1.0},
	})
	if got := thrown(t, `"a".matchAll(/a/)`); got != "TypeError: String.prototype.matchAll called with a non-global RegExp argument" {
		t.Fatalf("unexpected %s", got)
	}
}

func TestStringWrappers(t *testing.T) {
	checkEval(t, []evalCase{
		{`typeof new String("s")`, "object"},
		{`new String("ab").length`, 2.0},
		{`new String("ab") + "c"`, "abc"},
		{`String(null) + String(123) + String(true)`, "null123true"},
		{`Object.keys(new String("hi"))`, []any{"0", "1"}},
	})
	if got := thrown(t, `String.prototype.trim.call(null)`); got != "TypeError: String.prototype.trim called on null or undefined" {
		t.Fatalf("unexpected %s", got)
	}
}
