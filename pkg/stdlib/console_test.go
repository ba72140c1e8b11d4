package stdlib_test

import "testing"

func TestConsoleFormatsArguments(t *testing.T) {
	out := run(t, `
console.log("plain", 1, "two", null, undefined, true);
console.log([1, "a", [2, [3, [4]]]]);
console.log({ name: "box", size: { w: 1 } }, function area() {});
console.log(new Error("broken"));
console.info("info goes to stdout");
`)
	want := "plain 1 two null undefined true\n" +
		"[ 1, 'a', [ 2, [ 3, [Array] ] ] ]\n" +
		"{ name: 'box', size: { w: 1 } } [Function: area]\n" +
		"Error: broken\n    at <anonymous>\n" +
		"info goes to stdout\n"
	if out.stdout != want {
		t.Fatalf("expected %q, got %q", want, out.stdout)
	}
}

func TestConsolePlaceholders(t *testing.T) {
	cases := []struct {
		call string
		want string
	}{
		{`console.log("%s has %d items", "cart", 3, "extra")`, "cart has 3 items extra"},
		{`console.log("%i|%f|%j|%%|%c.", 4.7, 1.5, { a: [1] }, "color: red")`, `4|1.5|{"a":[1]}|%|.`},
		{`console.log("%o and %O", "x", { k: 1 })`, "'x' and { k: 1 }"},
		{`console.log("%s", { k: "v" })`, "{ k: 'v' }"},
		{`console.log("%d left", "12")`, "12 left"},
		{`console.log("100%")`, "100%"},
		{`console.log("%d %s")`, "%d %s"},
		{`console.log("%x", 1)`, "%x 1"},
		{`console.log()`, ""},
	}
	for _, tc := range cases {
		out := run(t, tc.call+";")
		if out.stdout != tc.want+"\n" {
			t.Fatalf("%s: expected %q, got %q", tc.call, tc.want, out.stdout)
		}
	}
}

func TestConsoleErrorWritesToStderr(t *testing.T) {
	out := run(t, `console.error("bad", 1); console.warn("careful"); console.log("ok");`)
	if out.stderr != "bad 1\ncareful\n" {
		t.Fatalf("unexpected stderr %q", out.stderr)
	}
	if out.stdout != "ok\n" {
		t.Fatalf("unexpected stdout %q", out.stdout)
	}
}

func TestConsoleLogCallsToString(t *testing.T) {
	out := run(t, `
var money = { toString: function () { return "$5"; } };
console.log("%s", "total " + money);
`)
	if out.stdout != "total $5\n" {
		t.Fatalf("unexpected %q", out.stdout)
	}
}
