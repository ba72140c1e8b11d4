package stdlib

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

const (
	uriUnreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.!~*'()"
	uriReserved   = ";/?:@&=+$,#"
)

func installURI(realm *runtime.Realm, g map[string]runtime.Value) {
	g["encodeURIComponent"] = realm.NewNativeFunction("encodeURIComponent", 1, uriEncoder(uriUnreserved))
	g["encodeURI"] = realm.NewNativeFunction("encodeURI", 1, uriEncoder(uriUnreserved+uriReserved))
	g["decodeURIComponent"] = realm.NewNativeFunction("decodeURIComponent", 1, uriDecoder(""))
	g["decodeURI"] = realm.NewNativeFunction("decodeURI", 1, uriDecoder(uriReserved))
}

func uriEncoder(keep string) runtime.NativeFunc {
	return func(call *runtime.NativeCall) (runtime.Value, error) {
		s, err := argString(call, 0)
		if err != nil {
			return nil, err
		}
		const hex = "0123456789ABCDEF"
		var b strings.Builder
		for idx := 0; idx < len(s); idx++ {
			c := s[idx]
			if c < utf8.RuneSelf && strings.IndexByte(keep, c) >= 0 {
				b.WriteByte(c)
				continue
			}
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0xf])
		}
		return runtime.Str(b.String()), nil
	}
}

// uriDecoder unescapes percent sequences, leaving escapes of the preserve
// set untouched (decodeURI keeps reserved characters encoded).
func uriDecoder(preserve string) runtime.NativeFunc {
	return func(call *runtime.NativeCall) (runtime.Value, error) {
		s, err := argString(call, 0)
		if err != nil {
			return nil, err
		}
		if preserve != "" {
			s = protectEscapes(s, preserve)
		}
		out, err := url.PathUnescape(s)
		if err != nil || !utf8.ValidString(out) {
			return nil, call.Realm().Throw("URIError", "URI malformed")
		}
		return runtime.Str(out), nil
	}
}

// protectEscapes rewrites %XX escapes of preserved characters as %25XX so a
// subsequent unescape restores them verbatim.
func protectEscapes(s, preserve string) string {
	var b strings.Builder
	for idx := 0; idx < len(s); idx++ {
		if s[idx] == '%' && idx+2 < len(s) {
			if c, ok := unhex(s[idx+1], s[idx+2]); ok && strings.IndexByte(preserve, c) >= 0 {
				b.WriteString("%25")
				continue
			}
		}
		b.WriteByte(s[idx])
	}
	return b.String()
}

func unhex(hi, lo byte) (byte, bool) {
	h, ok1 := hexDigit(hi)
	l, ok2 := hexDigit(lo)
	return h<<4 | l, ok1 && ok2
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
