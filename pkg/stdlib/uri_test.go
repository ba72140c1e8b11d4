package stdlib_test

import "testing"

func TestURIEncoding(t *testing.T) {
	checkEval(t, []evalCase{
		{`encodeURIComponent("a b&c/d?é")`, "a%20b%26c%2Fd%3F%C3%A9"},
		{`encodeURIComponent("-_.!~*'()")`, "-_.!~*'()"},
		{`encodeURI("http://x.com/a b?q=1&r=é#h")`, "http://x.com/a%20b?q=1&r=%C3%A9#h"},
		{`decodeURIComponent("a%20b%26c%2F%C3%A9")`, "a b&c/é"},
		{`decodeURIComponent("1+1")`, "1+1"},
		{`decodeURI("a%20b%26c%2F%3f")`, "a b%26c%2F%3f"},
		{`decodeURIComponent(encodeURIComponent("round ✓ trip"))`, "round ✓ trip"},
	})
}

func TestURIMalformed(t *testing.T) {
	for _, src := range []string{`decodeURIComponent("%E0%A4%A")`, `decodeURIComponent("%FF")`, `decodeURI("%zz")`} {
		if got := thrown(t, src); got != "URIError: URI malformed" {
			t.Fatalf("%s: unexpected %s", src, got)
		}
	}
}
