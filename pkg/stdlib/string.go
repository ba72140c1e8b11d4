package stdlib

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

func installString(realm *runtime.Realm, g map[string]runtime.Value) {
	ctor := realm.NewConstructor("String", 1, realm.StringPrototype, func(call *runtime.NativeCall) (runtime.Value, error) {
		s := ""
		if len(call.Args) > 0 {
			var err error
			if s, err = argString(call, 0); err != nil {
				return nil, err
			}
		}
		if call.NewTarget != nil {
			return wrapPrimitive(call.Realm(), runtime.Str(s)), nil
		}
		return runtime.Str(s), nil
	})
	defineMethods(realm, ctor, []method{
		{"fromCharCode", 1, func(call *runtime.NativeCall) (runtime.Value, error) {
			var b strings.Builder
			for idx := range call.Args {
				n, err := argNumber(call, idx)
				if err != nil {
					return nil, err
				}
				b.WriteRune(rune(runtime.ToUint32(n) & 0xffff))
			}
			return runtime.Str(b.String()), nil
		}},
	})
	defineMethods(realm, realm.StringPrototype, []method{
		{"charAt", 1, stringCharAt},
		{"charCodeAt", 1, stringCharCodeAt},
		{"codePointAt", 1, stringCharCodeAt},
		{"indexOf", 1, stringIndexOf},
		{"lastIndexOf", 1, stringLastIndexOf},
		{"includes", 1, stringIncludes},
		{"startsWith", 1, stringStartsWith},
		{"endsWith", 1, stringEndsWith},
		{"slice", 2, stringSlice},
		{"substring", 2, stringSubstring},
		{"substr", 2, stringSubstr},
		{"toUpperCase", 0, stringMapper("toUpperCase", strings.ToUpper)},
		{"toLowerCase", 0, stringMapper("toLowerCase", strings.ToLower)},
		{"toLocaleUpperCase", 0, stringMapper("toLocaleUpperCase", strings.ToUpper)},
		{"toLocaleLowerCase", 0, stringMapper("toLocaleLowerCase", strings.ToLower)},
		{"trim", 0, stringMapper("trim", func(s string) string { return strings.TrimFunc(s, isJSSpace) })},
		{"trimStart", 0, stringMapper("trimStart", func(s string) string { return strings.TrimLeftFunc(s, isJSSpace) })},
		{"trimEnd", 0, stringMapper("trimEnd", func(s string) string { return strings.TrimRightFunc(s, isJSSpace) })},
		{"padStart", 2, stringPadder(true)},
		{"padEnd", 2, stringPadder(false)},
		{"repeat", 1, stringRepeat},
		{"split", 2, stringSplit},
		{"concat", 1, stringConcat},
		{"replace", 2, stringReplacer(false)},
		{"replaceAll", 2, stringReplacer(true)},
		{"match", 1, stringMatch},
		{"matchAll", 1, stringMatchAll},
		{"search", 1, stringSearch},
		{"at", 1, stringAt},
		{"localeCompare", 1, stringLocaleCompare},
		{"normalize", 0, stringNormalize},
		{"toString", 0, stringValueOf},
		{"valueOf", 0, stringValueOf},
	})
	g["String"] = ctor
}

func isJSSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

// thisString coerces the receiver; null and undefined are rejected.
func thisString(call *runtime.NativeCall, name string) ([]rune, string, error) {
	if runtime.IsNullish(call.This) {
		return nil, "", call.Realm().TypeErrorf("String.prototype.%s called on null or undefined", name)
	}
	s, err := runtime.ToStringValue(call.Host, call.This)
	if err != nil {
		return nil, "", err
	}
	return []rune(s), s, nil
}

func stringValueOf(call *runtime.NativeCall) (runtime.Value, error) {
	switch v := call.This.(type) {
	case runtime.StringValue:
		return v, nil
	case *runtime.Object:
		if prim, ok := v.Internal.(runtime.StringValue); ok && v.Class == runtime.ClassString {
			return prim, nil
		}
	}
	return nil, call.Realm().TypeErrorf("String.prototype.valueOf requires that 'this' be a String")
}

func stringMapper(name string, fn func(string) string) runtime.NativeFunc {
	return func(call *runtime.NativeCall) (runtime.Value, error) {
		_, s, err := thisString(call, name)
		if err != nil {
			return nil, err
		}
		return runtime.Str(fn(s)), nil
	}
}

func stringCharAt(call *runtime.NativeCall) (runtime.Value, error) {
	units, _, err := thisString(call, "charAt")
	if err != nil {
		return nil, err
	}
	pos, err := argInteger(call, 0, 0)
	if err != nil {
		return nil, err
	}
	if pos < 0 || pos >= float64(len(units)) {
		return runtime.Str(""), nil
	}
	return runtime.Str(string(units[int(pos)])), nil
}

func stringCharCodeAt(call *runtime.NativeCall) (runtime.Value, error) {
	units, _, err := thisString(call, "charCodeAt")
	if err != nil {
		return nil, err
	}
	pos, err := argInteger(call, 0, 0)
	if err != nil {
		return nil, err
	}
	if pos < 0 || pos >= float64(len(units)) {
		return runtime.Num(math.NaN()), nil
	}
	return runtime.Num(float64(units[int(pos)])), nil
}

// runeIndex finds needle in hay starting at rune offset from; -1 if absent.
func runeIndex(hay, needle []rune, from int) int {
	for idx := max(from, 0); idx+len(needle) <= len(hay); idx++ {
		if string(hay[idx:idx+len(needle)]) == string(needle) {
			return idx
		}
	}
	return -1
}

func stringIndexOf(call *runtime.NativeCall) (runtime.Value, error) {
	units, _, err := thisString(call, "indexOf")
	if err != nil {
		return nil, err
	}
	needle, err := argString(call, 0)
	if err != nil {
		return nil, err
	}
	from, err := argInteger(call, 1, 0)
	if err != nil {
		return nil, err
	}
	from = math.Min(math.Max(from, 0), float64(len(units)))
	return runtime.Num(float64(runeIndex(units, []rune(needle), int(from)))), nil
}

func stringLastIndexOf(call *runtime.NativeCall) (runtime.Value, error) {
	units, _, err := thisString(call, "lastIndexOf")
	if err != nil {
		return nil, err
	}
	needle, err := argString(call, 0)
	if err != nil {
		return nil, err
	}
	n := []rune(needle)
	from, err := argNumber(call, 1)
	if err != nil {
		return nil, err
	}
	start := len(units) - len(n)
	if !math.IsNaN(from) {
		start = int(math.Min(math.Max(runtime.ToInteger(from), 0), float64(start)))
	}
	for idx := start; idx >= 0; idx-- {
		if string(units[idx:idx+len(n)]) == needle {
			return runtime.Num(float64(idx)), nil
		}
	}
	return runtime.Num(-1), nil
}

func rejectRegExp(call *runtime.NativeCall, name string) error {
	if _, ok := regexpOf(call.Arg(0)); ok {
		return call.Realm().TypeErrorf("First argument to String.prototype.%s must not be a regular expression", name)
	}
	return nil
}

func stringIncludes(call *runtime.NativeCall) (runtime.Value, error) {
	units, _, err := thisString(call, "includes")
	if err != nil {
		return nil, err
	}
	if err := rejectRegExp(call, "includes"); err != nil {
		return nil, err
	}
	needle, err := argString(call, 0)
	if err != nil {
		return nil, err
	}
	from, err := argInteger(call, 1, 0)
	if err != nil {
		return nil, err
	}
	return runtime.Bool(runeIndex(units, []rune(needle), relativeIndex(math.Max(from, 0), len(units))) >= 0), nil
}

func stringStartsWith(call *runtime.NativeCall) (runtime.Value, error) {
	units, _, err := thisString(call, "startsWith")
	if err != nil {
		return nil, err
	}
	if err := rejectRegExp(call, "startsWith"); err != nil {
		return nil, err
	}
	needle, err := argString(call, 0)
	if err != nil {
		return nil, err
	}
	pos, err := argInteger(call, 1, 0)
	if err != nil {
		return nil, err
	}
	start := relativeIndex(math.Max(pos, 0), len(units))
	return runtime.Bool(strings.HasPrefix(string(units[start:]), needle)), nil
}

func stringEndsWith(call *runtime.NativeCall) (runtime.Value, error) {
	units, _, err := thisString(call, "endsWith")
	if err != nil {
		return nil, err
	}
	if err := rejectRegExp(call, "endsWith"); err != nil {
		return nil, err
	}
	needle, err := argString(call, 0)
	if err != nil {
		return nil, err
	}
	pos, err := argInteger(call, 1, float64(len(units)))
	if err != nil {
		return nil, err
	}
	end := relativeIndex(math.Max(pos, 0), len(units))
	return runtime.Bool(strings.HasSuffix(string(units[:end]), needle)), nil
}

func stringSlice(call *runtime.NativeCall) (runtime.Value, error) {
	units, _, err := thisString(call, "slice")
	if err != nil {
		return nil, err
	}
	start, err := argInteger(call, 0, 0)
	if err != nil {
		return nil, err
	}
	end, err := argInteger(call, 1, float64(len(units)))
	if err != nil {
		return nil, err
	}
	from, to := relativeIndex(start, len(units)), relativeIndex(end, len(units))
	if to <= from {
		return runtime.Str(""), nil
	}
	return runtime.Str(string(units[from:to])), nil
}

func stringSubstring(call *runtime.NativeCall) (runtime.Value, error) {
	units, _, err := thisString(call, "substring")
	if err != nil {
		return nil, err
	}
	start, err := argInteger(call, 0, 0)
	if err != nil {
		return nil, err
	}
	end, err := argInteger(call, 1, float64(len(units)))
	if err != nil {
		return nil, err
	}
	clamp := func(f float64) int { return int(math.Min(math.Max(f, 0), float64(len(units)))) }
	from, to := clamp(start), clamp(end)
	if from > to {
		from, to = to, from
	}
	return runtime.Str(string(units[from:to])), nil
}

func stringSubstr(call *runtime.NativeCall) (runtime.Value, error) {
	units, _, err := thisString(call, "substr")
	if err != nil {
		return nil, err
	}
	start, err := argInteger(call, 0, 0)
	if err != nil {
		return nil, err
	}
	length, err := argInteger(call, 1, float64(len(units)))
	if err != nil {
		return nil, err
	}
	from := relativeIndex(start, len(units))
	to := int(math.Min(float64(from)+math.Max(length, 0), float64(len(units))))
	if to <= from {
		return runtime.Str(""), nil
	}
	return runtime.Str(string(units[from:to])), nil
}

func stringPadder(atStart bool) runtime.NativeFunc {
	return func(call *runtime.NativeCall) (runtime.Value, error) {
		name := "padEnd"
		if atStart {
			name = "padStart"
		}
		units, s, err := thisString(call, name)
		if err != nil {
			return nil, err
		}
		target, err := argInteger(call, 0, 0)
		if err != nil {
			return nil, err
		}
		fill := " "
		if _, undef := call.Arg(1).(runtime.UndefinedValue); !undef {
			if fill, err = argString(call, 1); err != nil {
				return nil, err
			}
		}
		missing := int(target) - len(units)
		if missing <= 0 || fill == "" {
			return runtime.Str(s), nil
		}
		fillUnits := []rune(strings.Repeat(fill, missing/utf8.RuneCountInString(fill)+1))[:missing]
		if atStart {
			return runtime.Str(string(fillUnits) + s), nil
		}
		return runtime.Str(s + string(fillUnits)), nil
	}
}

func stringRepeat(call *runtime.NativeCall) (runtime.Value, error) {
	_, s, err := thisString(call, "repeat")
	if err != nil {
		return nil, err
	}
	count, err := argInteger(call, 0, 0)
	if err != nil {
		return nil, err
	}
	if count < 0 || math.IsInf(count, 0) {
		return nil, call.Realm().RangeErrorf("Invalid count value: %s", runtime.NumberToString(count))
	}
	if float64(len(s))*count > 1<<28 {
		return nil, call.Realm().RangeErrorf("Invalid string length")
	}
	return runtime.Str(strings.Repeat(s, int(count))), nil
}

func stringConcat(call *runtime.NativeCall) (runtime.Value, error) {
	_, s, err := thisString(call, "concat")
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	b.WriteString(s)
	for idx := range call.Args {
		part, err := argString(call, idx)
		if err != nil {
			return nil, err
		}
		b.WriteString(part)
	}
	return runtime.Str(b.String()), nil
}

func stringSplit(call *runtime.NativeCall) (runtime.Value, error) {
	units, s, err := thisString(call, "split")
	if err != nil {
		return nil, err
	}
	limit := math.MaxUint32
	if _, undef := call.Arg(1).(runtime.UndefinedValue); !undef {
		n, err := argNumber(call, 1)
		if err != nil {
			return nil, err
		}
		limit = int(runtime.ToUint32(n))
	}
	var parts []runtime.Value
	add := func(v runtime.Value) bool {
		if len(parts) >= limit {
			return false
		}
		parts = append(parts, v)
		return true
	}
	realm := call.Realm()
	if _, undef := call.Arg(0).(runtime.UndefinedValue); undef {
		add(runtime.Str(s))
		return realm.NewArray(parts), nil
	}
	if rx, ok := regexpOf(call.Arg(0)); ok {
		if len(units) == 0 {
			if m, err := rx.find(realm, s, 0); err != nil {
				return nil, err
			} else if m == nil {
				add(runtime.Str(""))
			}
			return realm.NewArray(parts), nil
		}
		last := 0
		for pos := 0; pos < len(units); {
			m, err := rx.find(realm, s, pos)
			if err != nil {
				return nil, err
			}
			if m == nil || m.index >= len(units) {
				break
			}
			if m.end() == last {
				pos = m.index + 1
				continue
			}
			if !add(runtime.Str(string(units[last:m.index]))) {
				return realm.NewArray(parts), nil
			}
			for _, c := range m.captures {
				if !add(c) {
					return realm.NewArray(parts), nil
				}
			}
			last = m.end()
			pos = max(last, m.index+1)
		}
		add(runtime.Str(string(units[last:])))
		return realm.NewArray(parts), nil
	}
	sep, err := argString(call, 0)
	if err != nil {
		return nil, err
	}
	if sep == "" {
		for _, u := range units {
			if !add(runtime.Str(string(u))) {
				break
			}
		}
		return realm.NewArray(parts), nil
	}
	for _, piece := range strings.Split(s, sep) {
		if !add(runtime.Str(piece)) {
			break
		}
	}
	return realm.NewArray(parts), nil
}

// stringReplacer implements replace and replaceAll for string and RegExp
// patterns, with either a replacement template or a callback.
func stringReplacer(all bool) runtime.NativeFunc {
	return func(call *runtime.NativeCall) (runtime.Value, error) {
		name := "replace"
		if all {
			name = "replaceAll"
		}
		units, s, err := thisString(call, name)
		if err != nil {
			return nil, err
		}
		realm := call.Realm()
		var matches []*matchInfo
		if rx, ok := regexpOf(call.Arg(0)); ok {
			if all && !rx.has('g') {
				return nil, realm.TypeErrorf("replaceAll must be called with a global RegExp")
			}
			if rx.has('g') {
				if matches, err = rx.allMatches(realm, s); err != nil {
					return nil, err
				}
				if err := call.Host.Set(call.Arg(0), "lastIndex", runtime.Num(0)); err != nil {
					return nil, err
				}
			} else {
				m, err := execRegExp(call.Host, call.Arg(0).(*runtime.Object), rx, s)
				if err != nil {
					return nil, err
				}
				if m != nil {
					matches = []*matchInfo{m}
				}
			}
		} else {
			needle, err := argString(call, 0)
			if err != nil {
				return nil, err
			}
			matches = literalMatches([]rune(needle), units, all)
		}

		callback, _ := call.Arg(1).(*runtime.Object)
		if callback != nil && !callback.IsCallable() {
			callback = nil
		}
		template := ""
		if callback == nil {
			if template, err = argString(call, 1); err != nil {
				return nil, err
			}
		}

		var b strings.Builder
		last := 0
		for _, m := range matches {
			b.WriteString(string(units[last:m.index]))
			if callback != nil {
				args := append([]runtime.Value{runtime.Str(m.text)}, m.captures...)
				args = append(args, runtime.Num(float64(m.index)), runtime.Str(s))
				if m.groups != nil {
					args = append(args, m.groups)
				}
				out, err := call.Host.Call(callback, runtime.Undefined, args)
				if err != nil {
					return nil, err
				}
				text, err := runtime.ToStringValue(call.Host, out)
				if err != nil {
					return nil, err
				}
				b.WriteString(text)
			} else {
				b.WriteString(expandTemplate(template, m, units))
			}
			last = m.end()
		}
		b.WriteString(string(units[last:]))
		return runtime.Str(b.String()), nil
	}
}

func literalMatches(needle, units []rune, all bool) []*matchInfo {
	var out []*matchInfo
	for pos := 0; pos <= len(units); {
		idx := runeIndex(units, needle, pos)
		if idx < 0 {
			break
		}
		out = append(out, &matchInfo{index: idx, text: string(needle)})
		if !all {
			break
		}
		pos = idx + max(len(needle), 1)
	}
	return out
}

// expandTemplate substitutes $$, $&, $`, $', $n and $<name> in a
// replacement string.
func expandTemplate(template string, m *matchInfo, input []rune) string {
	if !strings.Contains(template, "$") {
		return template
	}
	var b strings.Builder
	tpl := []rune(template)
	for idx := 0; idx < len(tpl); idx++ {
		if tpl[idx] != '$' || idx+1 >= len(tpl) {
			b.WriteRune(tpl[idx])
			continue
		}
		next := tpl[idx+1]
		switch {
		case next == '$':
			b.WriteRune('$')
			idx++
		case next == '&':
			b.WriteString(m.text)
			idx++
		case next == '`':
			b.WriteString(string(input[:m.index]))
			idx++
		case next == '\'':
			b.WriteString(string(input[m.end():]))
			idx++
		case next >= '0' && next <= '9':
			digits := 1
			if idx+2 < len(tpl) && tpl[idx+2] >= '0' && tpl[idx+2] <= '9' {
				if n, _ := strconv.Atoi(string(tpl[idx+1 : idx+3])); n >= 1 && n <= len(m.captures) {
					digits = 2
				}
			}
			n, _ := strconv.Atoi(string(tpl[idx+1 : idx+1+digits]))
			if n < 1 || n > len(m.captures) {
				b.WriteRune('$')
				continue
			}
			if c, ok := m.captures[n-1].(runtime.StringValue); ok {
				b.WriteString(c.Val)
			}
			idx += digits
		case next == '<' && m.groups != nil:
			rest := string(tpl[idx+2:])
			end := strings.IndexByte(rest, '>')
			if end < 0 {
				b.WriteRune('$')
				continue
			}
			name := rest[:end]
			if p, ok := m.groups.GetOwnProperty(name); ok {
				if c, ok := p.Value.(runtime.StringValue); ok {
					b.WriteString(c.Val)
				}
			}
			idx += 2 + utf8.RuneCountInString(name)
		default:
			b.WriteRune('$')
		}
	}
	return b.String()
}

// coerceRegExp returns the RegExp argument, compiling non-RegExp values
// the way String.prototype.match does.
func coerceRegExp(call *runtime.NativeCall, flags string) (*runtime.Object, *regexpState, error) {
	if state, ok := regexpOf(call.Arg(0)); ok {
		return call.Arg(0).(*runtime.Object), state, nil
	}
	source := "(?:)"
	if _, undef := call.Arg(0).(runtime.UndefinedValue); !undef {
		s, err := argString(call, 0)
		if err != nil {
			return nil, nil, err
		}
		source = s
	}
	obj, err := newRegExp(call.Realm(), source, flags)
	if err != nil {
		return nil, nil, err
	}
	state, _ := regexpOf(obj)
	return obj, state, nil
}

func stringMatch(call *runtime.NativeCall) (runtime.Value, error) {
	_, s, err := thisString(call, "match")
	if err != nil {
		return nil, err
	}
	obj, rx, err := coerceRegExp(call, "")
	if err != nil {
		return nil, err
	}
	if !rx.has('g') {
		m, err := execRegExp(call.Host, obj, rx, s)
		if err != nil || m == nil {
			return runtime.Null, err
		}
		return matchArray(call.Realm(), m, s), nil
	}
	matches, err := rx.allMatches(call.Realm(), s)
	if err != nil {
		return nil, err
	}
	if err := call.Host.Set(obj, "lastIndex", runtime.Num(0)); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return runtime.Null, nil
	}
	out := make([]runtime.Value, len(matches))
	for idx, m := range matches {
		out[idx] = runtime.Str(m.text)
	}
	return call.Realm().NewArray(out), nil
}

// stringMatchAll returns the match arrays as a plain array, which for-of
// and spread consume directly.
func stringMatchAll(call *runtime.NativeCall) (runtime.Value, error) {
	_, s, err := thisString(call, "matchAll")
	if err != nil {
		return nil, err
	}
	_, rx, err := coerceRegExp(call, "g")
	if err != nil {
		return nil, err
	}
	if !rx.has('g') {
		return nil, call.Realm().TypeErrorf("String.prototype.matchAll called with a non-global RegExp argument")
	}
	matches, err := rx.allMatches(call.Realm(), s)
	if err != nil {
		return nil, err
	}
	out := make([]runtime.Value, len(matches))
	for idx, m := range matches {
		out[idx] = matchArray(call.Realm(), m, s)
	}
	return call.Realm().NewArray(out), nil
}

func stringSearch(call *runtime.NativeCall) (runtime.Value, error) {
	_, s, err := thisString(call, "search")
	if err != nil {
		return nil, err
	}
	_, rx, err := coerceRegExp(call, "")
	if err != nil {
		return nil, err
	}
	m, err := rx.find(call.Realm(), s, 0)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return runtime.Num(-1), nil
	}
	return runtime.Num(float64(m.index)), nil
}

func stringAt(call *runtime.NativeCall) (runtime.Value, error) {
	units, _, err := thisString(call, "at")
	if err != nil {
		return nil, err
	}
	pos, err := argInteger(call, 0, 0)
	if err != nil {
		return nil, err
	}
	if pos < 0 {
		pos += float64(len(units))
	}
	if pos < 0 || pos >= float64(len(units)) {
		return runtime.Undefined, nil
	}
	return runtime.Str(string(units[int(pos)])), nil
}

func stringLocaleCompare(call *runtime.NativeCall) (runtime.Value, error) {
	_, s, err := thisString(call, "localeCompare")
	if err != nil {
		return nil, err
	}
	other, err := argString(call, 0)
	if err != nil {
		return nil, err
	}
	return runtime.Num(float64(strings.Compare(s, other))), nil
}

func stringNormalize(call *runtime.NativeCall) (runtime.Value, error) {
	_, s, err := thisString(call, "normalize")
	if err != nil {
		return nil, err
	}
	form := "NFC"
	if _, undef := call.Arg(0).(runtime.UndefinedValue); !undef {
		if form, err = argString(call, 0); err != nil {
			return nil, err
		}
	}
	forms := map[string]norm.Form{"NFC": norm.NFC, "NFD": norm.NFD, "NFKC": norm.NFKC, "NFKD": norm.NFKD}
	f, ok := forms[form]
	if !ok {
		return nil, call.Realm().RangeErrorf("The normalization form should be one of NFC, NFD, NFKC, NFKD.")
	}
	return runtime.Str(f.String(s)), nil
}
