package stdlib

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

// matchTimeout bounds a single regexp match so catastrophic backtracking
// surfaces as an error instead of a hung run.
const matchTimeout = 5 * time.Second

// regexpState is the Internal slot of a RegExp object. Match positions
// reported by regexp2 count runes, which is also how strings are indexed.
type regexpState struct {
	source string
	flags  string
	re     *regexp2.Regexp
}

func (r *regexpState) String() string {
	return "/" + r.source + "/" + r.flags
}

func (r *regexpState) has(flag byte) bool {
	return strings.IndexByte(r.flags, flag) >= 0
}

func installRegExp(realm *runtime.Realm, g map[string]runtime.Value) {
	ctor := realm.NewConstructor("RegExp", 2, realm.RegExpPrototype, func(call *runtime.NativeCall) (runtime.Value, error) {
		source, flags := "(?:)", ""
		switch pattern := call.Arg(0).(type) {
		case *runtime.Object:
			if state, ok := regexpOf(pattern); ok {
				source, flags = state.source, state.flags
				break
			}
			s, err := runtime.ToStringValue(call.Host, pattern)
			if err != nil {
				return nil, err
			}
			source = s
		case runtime.UndefinedValue:
		default:
			s, err := runtime.ToStringValue(call.Host, pattern)
			if err != nil {
				return nil, err
			}
			if s != "" {
				source = s
			}
		}
		if _, undef := call.Arg(1).(runtime.UndefinedValue); !undef {
			f, err := argString(call, 1)
			if err != nil {
				return nil, err
			}
			flags = f
		}
		return newRegExp(call.Realm(), source, flags)
	})
	defineMethods(realm, realm.RegExpPrototype, []method{
		{"test", 1, regexpTest},
		{"exec", 1, regexpExec},
		{"toString", 0, regexpToString},
	})
	g["RegExp"] = ctor
}

// newRegExp compiles source with ECMAScript semantics. The dotAll flag needs
// regexp2's Singleline option, which its ECMAScript mode rejects, so those
// patterns compile in the default .NET dialect.
func newRegExp(realm *runtime.Realm, source, flags string) (*runtime.Object, error) {
	var opts regexp2.RegexOptions = regexp2.ECMAScript
	seen := make(map[rune]bool)
	for _, f := range flags {
		if seen[f] || !strings.ContainsRune("dgimsuy", f) {
			return nil, realm.SyntaxErrorf("Invalid flags supplied to RegExp constructor '%s'", flags)
		}
		seen[f] = true
	}
	if seen['i'] {
		opts |= regexp2.IgnoreCase
	}
	if seen['m'] {
		opts |= regexp2.Multiline
	}
	if seen['s'] {
		opts = opts&^regexp2.ECMAScript | regexp2.Singleline
	}
	re, err := regexp2.Compile(source, opts)
	if err != nil {
		return nil, realm.SyntaxErrorf("Invalid regular expression: /%s/: %v", source, err)
	}
	re.MatchTimeout = matchTimeout
	obj := runtime.NewObject(realm.RegExpPrototype)
	obj.Class = runtime.ClassRegExp
	state := &regexpState{source: source, flags: canonicalFlags(seen), re: re}
	obj.Internal = state
	obj.DefineOwnProperty("lastIndex", runtime.HiddenProperty(runtime.Num(0)))
	defineConstants(obj, map[string]runtime.Value{
		"source":     runtime.Str(source),
		"flags":      runtime.Str(state.flags),
		"global":     runtime.Bool(seen['g']),
		"ignoreCase": runtime.Bool(seen['i']),
		"multiline":  runtime.Bool(seen['m']),
		"dotAll":     runtime.Bool(seen['s']),
		"sticky":     runtime.Bool(seen['y']),
		"unicode":    runtime.Bool(seen['u']),
	})
	return obj, nil
}

func canonicalFlags(seen map[rune]bool) string {
	var b strings.Builder
	for _, f := range "dgimsuy" {
		if seen[f] {
			b.WriteRune(f)
		}
	}
	return b.String()
}

func regexpOf(v runtime.Value) (*regexpState, bool) {
	obj, ok := v.(*runtime.Object)
	if !ok || obj.Class != runtime.ClassRegExp {
		return nil, false
	}
	state, ok := obj.Internal.(*regexpState)
	return state, ok
}

func thisRegExp(call *runtime.NativeCall, name string) (*runtime.Object, *regexpState, error) {
	state, ok := regexpOf(call.This)
	if !ok {
		return nil, nil, call.Realm().TypeErrorf("RegExp.prototype.%s called on incompatible receiver %s", name, runtime.Inspect(call.This))
	}
	return call.This.(*runtime.Object), state, nil
}

// matchInfo is one match of a string or regexp search. Positions are rune
// offsets; captures holds undefined for groups that did not participate.
type matchInfo struct {
	index    int
	text     string
	captures []runtime.Value
	groups   *runtime.Object
}

func (m *matchInfo) end() int {
	return m.index + len([]rune(m.text))
}

func (r *regexpState) find(realm *runtime.Realm, input string, start int) (*matchInfo, error) {
	if start > len([]rune(input)) {
		return nil, nil
	}
	m, err := r.re.FindStringMatchStartingAt(input, start)
	if err != nil {
		return nil, realm.RangeErrorf("regular expression %s: %v", r, err)
	}
	if m == nil {
		return nil, nil
	}
	if r.has('y') && m.Index != start {
		return nil, nil
	}
	info := &matchInfo{index: m.Index, text: m.String()}
	for _, group := range m.Groups()[1:] {
		var val runtime.Value = runtime.Undefined
		if len(group.Captures) > 0 {
			val = runtime.Str(group.String())
		}
		info.captures = append(info.captures, val)
		if _, numbered := runtime.ArrayIndex(group.Name); !numbered {
			if info.groups == nil {
				info.groups = runtime.NewObject(nil)
			}
			info.groups.Put(group.Name, val)
		}
	}
	return info, nil
}

// execRegExp runs one exec step, honouring and updating lastIndex for global
// and sticky patterns.
func execRegExp(host runtime.Host, obj *runtime.Object, state *regexpState, input string) (*matchInfo, error) {
	tracksIndex := state.has('g') || state.has('y')
	start := 0
	if tracksIndex {
		last, err := host.Get(obj, "lastIndex")
		if err != nil {
			return nil, err
		}
		n, err := runtime.ToNumberValue(host, last)
		if err != nil {
			return nil, err
		}
		start = int(max(runtime.ToInteger(n), 0))
	}
	m, err := state.find(host.Realm(), input, start)
	if err != nil {
		return nil, err
	}
	if tracksIndex {
		next := 0
		if m != nil {
			next = m.end()
		}
		if err := host.Set(obj, "lastIndex", runtime.Num(float64(next))); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func matchArray(realm *runtime.Realm, m *matchInfo, input string) *runtime.Object {
	elems := append([]runtime.Value{runtime.Str(m.text)}, m.captures...)
	arr := realm.NewArray(elems)
	arr.Put("index", runtime.Num(float64(m.index)))
	arr.Put("input", runtime.Str(input))
	if m.groups != nil {
		arr.Put("groups", m.groups)
	} else {
		arr.Put("groups", runtime.Undefined)
	}
	return arr
}

func regexpExec(call *runtime.NativeCall) (runtime.Value, error) {
	obj, state, err := thisRegExp(call, "exec")
	if err != nil {
		return nil, err
	}
	input, err := argString(call, 0)
	if err != nil {
		return nil, err
	}
	m, err := execRegExp(call.Host, obj, state, input)
	if err != nil || m == nil {
		return runtime.Null, err
	}
	return matchArray(call.Realm(), m, input), nil
}

func regexpTest(call *runtime.NativeCall) (runtime.Value, error) {
	obj, state, err := thisRegExp(call, "test")
	if err != nil {
		return nil, err
	}
	input, err := argString(call, 0)
	if err != nil {
		return nil, err
	}
	m, err := execRegExp(call.Host, obj, state, input)
	if err != nil {
		return nil, err
	}
	return runtime.Bool(m != nil), nil
}

func regexpToString(call *runtime.NativeCall) (runtime.Value, error) {
	_, state, err := thisRegExp(call, "toString")
	if err != nil {
		return nil, err
	}
	return runtime.Str(state.String()), nil
}

// allMatches collects every match from position 0, stepping past empty
// matches, without touching lastIndex.
func (r *regexpState) allMatches(realm *runtime.Realm, input string) ([]*matchInfo, error) {
	var out []*matchInfo
	limit := len([]rune(input))
	for pos := 0; pos <= limit; {
		m, err := r.find(realm, input, pos)
		if err != nil {
			return nil, err
		}
		if m == nil {
			break
		}
		out = append(out, m)
		pos = m.end()
		if m.text == "" {
			pos++
		}
	}
	return out, nil
}
