package stdlib

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

func installJSON(realm *runtime.Realm, g map[string]runtime.Value) {
	j := realm.NewObject()
	defineMethods(realm, j, []method{
		{"stringify", 3, jsonStringify},
		{"parse", 2, jsonParse},
	})
	g["JSON"] = j
}

func jsonStringify(call *runtime.NativeCall) (runtime.Value, error) {
	indent := ""
	switch space := call.Arg(2).(type) {
	case runtime.NumberValue:
		n := min(int(runtime.ToInteger(space.Val)), 10)
		if n > 0 {
			indent = strings.Repeat(" ", n)
		}
	case runtime.StringValue:
		units := []rune(space.Val)
		indent = string(units[:min(len(units), 10)])
	}
	return stringify(call.Host, call.Arg(0), call.Arg(1), indent)
}

// stringify serializes v as JSON text. It returns undefined when v itself
// has no JSON form (functions, undefined).
func stringify(host runtime.Host, v runtime.Value, replacer runtime.Value, indent string) (runtime.Value, error) {
	s := &serializer{host: host, indent: indent}
	if fn, ok := replacer.(*runtime.Object); ok {
		switch {
		case fn.IsCallable():
			s.replacer = fn
		case fn.IsArray():
			s.allow = make(map[string]bool)
			for _, item := range fn.Elements {
				switch item.(type) {
				case runtime.StringValue, runtime.NumberValue:
					key := runtime.ToString(item)
					if !s.allow[key] {
						s.allow[key] = true
						s.order = append(s.order, key)
					}
				}
			}
		}
	}
	holder := host.Realm().NewObject()
	holder.Put("", v)
	var b strings.Builder
	ok, err := s.property(&b, holder, "", v, "")
	if err != nil || !ok {
		return runtime.Undefined, err
	}
	return runtime.Str(b.String()), nil
}

type serializer struct {
	host     runtime.Host
	indent   string
	replacer *runtime.Object
	allow    map[string]bool
	order    []string
	stack    []*runtime.Object
}

// property writes the serialization of holder[key]; ok is false when the
// value is skipped.
func (s *serializer) property(b *strings.Builder, holder *runtime.Object, key string, v runtime.Value, gap string) (bool, error) {
	if obj, isObj := v.(*runtime.Object); isObj {
		toJSON, err := s.host.Get(obj, "toJSON")
		if err != nil {
			return false, err
		}
		if fn, ok := toJSON.(*runtime.Object); ok && fn.IsCallable() {
			if v, err = s.host.Call(fn, obj, []runtime.Value{runtime.Str(key)}); err != nil {
				return false, err
			}
		}
	}
	if s.replacer != nil {
		var err error
		if v, err = s.host.Call(s.replacer, holder, []runtime.Value{runtime.Str(key), v}); err != nil {
			return false, err
		}
	}
	if obj, isObj := v.(*runtime.Object); isObj {
		switch obj.Class {
		case runtime.ClassNumber:
			n, err := runtime.ToNumberValue(s.host, obj)
			if err != nil {
				return false, err
			}
			v = runtime.Num(n)
		case runtime.ClassString:
			str, err := runtime.ToStringValue(s.host, obj)
			if err != nil {
				return false, err
			}
			v = runtime.Str(str)
		case runtime.ClassBoolean:
			if prim, ok := obj.Internal.(runtime.Value); ok {
				v = prim
			}
		}
	}
	switch val := v.(type) {
	case runtime.NullValue:
		b.WriteString("null")
	case runtime.BoolValue:
		b.WriteString(runtime.ToString(val))
	case runtime.StringValue:
		b.WriteString(quoteJSON(val.Val))
	case runtime.NumberValue:
		if isFinite(val.Val) {
			b.WriteString(runtime.NumberToString(val.Val))
		} else {
			b.WriteString("null")
		}
	case *runtime.Object:
		if val.IsCallable() {
			return false, nil
		}
		for _, seen := range s.stack {
			if seen == val {
				return false, s.host.Realm().TypeErrorf("Converting circular structure to JSON")
			}
		}
		s.stack = append(s.stack, val)
		defer func() { s.stack = s.stack[:len(s.stack)-1] }()
		if val.IsArray() {
			return true, s.array(b, val, gap)
		}
		return true, s.object(b, val, gap)
	default:
		return false, nil
	}
	return true, nil
}

func (s *serializer) array(b *strings.Builder, arr *runtime.Object, gap string) error {
	if len(arr.Elements) == 0 {
		b.WriteString("[]")
		return nil
	}
	inner := gap + s.indent
	b.WriteByte('[')
	for idx := 0; idx < len(arr.Elements); idx++ {
		if idx > 0 {
			b.WriteByte(',')
		}
		s.newline(b, inner)
		key := runtime.NumberToString(float64(idx))
		ok, err := s.property(b, arr, key, arr.Elements[idx], inner)
		if err != nil {
			return err
		}
		if !ok {
			b.WriteString("null")
		}
	}
	s.newline(b, gap)
	b.WriteByte(']')
	return nil
}

func (s *serializer) object(b *strings.Builder, obj *runtime.Object, gap string) error {
	keys := s.order
	if s.allow == nil {
		keys = obj.EnumerableOwnKeys()
	}
	inner := gap + s.indent
	wrote := false
	b.WriteByte('{')
	for _, key := range keys {
		if s.allow != nil && !obj.HasOwnProperty(key) {
			continue
		}
		v, err := s.host.Get(obj, key)
		if err != nil {
			return err
		}
		var member strings.Builder
		ok, err := s.property(&member, obj, key, v, inner)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if wrote {
			b.WriteByte(',')
		}
		wrote = true
		s.newline(b, inner)
		b.WriteString(quoteJSON(key))
		b.WriteByte(':')
		if s.indent != "" {
			b.WriteByte(' ')
		}
		b.WriteString(member.String())
	}
	if wrote {
		s.newline(b, gap)
	}
	b.WriteByte('}')
	return nil
}

func (s *serializer) newline(b *strings.Builder, gap string) {
	if s.indent == "" {
		return
	}
	b.WriteByte('\n')
	b.WriteString(gap)
}

// quoteJSON quotes s without the HTML escaping encoding/json applies by
// default.
func quoteJSON(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func isFinite(f float64) bool {
	return f-f == 0
}

func jsonParse(call *runtime.NativeCall) (runtime.Value, error) {
	text, err := argString(call, 0)
	if err != nil {
		return nil, err
	}
	realm := call.Realm()
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	value, err := decodeValue(realm, dec)
	if err == nil {
		if _, trailing := dec.Token(); !errors.Is(trailing, io.EOF) {
			err = errors.New("unexpected non-whitespace character after JSON")
		}
	}
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, realm.SyntaxErrorf("Unexpected end of JSON input")
		}
		return nil, realm.SyntaxErrorf("%q is not valid JSON: %v", text, err)
	}
	reviver, ok := call.Arg(1).(*runtime.Object)
	if !ok || !reviver.IsCallable() {
		return value, nil
	}
	root := realm.NewObject()
	root.Put("", value)
	return revive(call.Host, reviver, root, "")
}

// decodeValue builds values token by token so object keys keep their source
// order.
func decodeValue(realm *runtime.Realm, dec *json.Decoder) (runtime.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case nil:
		return runtime.Null, nil
	case bool:
		return runtime.Bool(t), nil
	case string:
		return runtime.Str(t), nil
	case json.Number:
		return runtime.Num(runtime.StringToNumber(t.String())), nil
	case json.Delim:
		switch t {
		case '[':
			elems := []runtime.Value{}
			for dec.More() {
				v, err := decodeValue(realm, dec)
				if err != nil {
					return nil, err
				}
				elems = append(elems, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return realm.NewArray(elems), nil
		case '{':
			obj := realm.NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, errors.New("object key must be a string")
				}
				v, err := decodeValue(realm, dec)
				if err != nil {
					return nil, err
				}
				if existing, ok := obj.GetOwnProperty(key); ok {
					existing.Value = v
					continue
				}
				obj.DefineOwnProperty(key, runtime.DataProperty(v))
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		}
	}
	return nil, errors.New("unexpected token")
}

func revive(host runtime.Host, reviver, holder *runtime.Object, key string) (runtime.Value, error) {
	v, err := host.Get(holder, key)
	if err != nil {
		return nil, err
	}
	if obj, ok := v.(*runtime.Object); ok {
		var keys []string
		if obj.IsArray() {
			for idx := range obj.Elements {
				keys = append(keys, runtime.NumberToString(float64(idx)))
			}
		} else {
			keys = obj.EnumerableOwnKeys()
		}
		for _, k := range keys {
			next, err := revive(host, reviver, obj, k)
			if err != nil {
				return nil, err
			}
			if _, undef := next.(runtime.UndefinedValue); undef {
				obj.Delete(k)
				continue
			}
			obj.Put(k, next)
		}
	}
	return host.Call(reviver, holder, []runtime.Value{runtime.Str(key), v})
}
