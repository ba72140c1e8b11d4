package runtime

import (
	"math"
	"strconv"
	"strings"
)

const (
	inspectMaxDepth  = 2
	inspectLineWidth = 72
)

// Inspect renders a value the way console.log renders non-string arguments.
func Inspect(v Value) string {
	p := &inspector{seen: make(map[*Object]bool)}
	return p.value(v, 0, true)
}

type inspector struct {
	seen map[*Object]bool
}

func (p *inspector) value(v Value, depth int, top bool) string {
	switch val := v.(type) {
	case nil, UndefinedValue:
		return "undefined"
	case NullValue:
		return "null"
	case BoolValue:
		return ToString(val)
	case StringValue:
		return quoteString(val.Val)
	case NumberValue:
		if val.Val == 0 && math.Signbit(val.Val) {
			return "-0"
		}
		return NumberToString(val.Val)
	case *Object:
		return p.object(val, depth, top)
	default:
		return "?"
	}
}

func (p *inspector) object(obj *Object, depth int, top bool) string {
	if p.seen[obj] {
		return "[Circular *1]"
	}
	switch obj.Class {
	case ClassError:
		if top {
			if stack, ok := obj.props["stack"]; ok {
				if s, ok := stack.Value.(StringValue); ok {
					return s.Val
				}
			}
			return DescribeThrown(obj)
		}
		return "[" + DescribeThrown(obj) + "]"
	case ClassRegExp, ClassDate:
		if obj.Class == ClassDate {
			if ms, ok := obj.Internal.(float64); ok && !math.IsNaN(ms) {
				return FormatISODate(ms)
			}
			return "Invalid Date"
		}
		return defaultObjectString(obj, map[*Object]bool{})
	case ClassNumber, ClassString, ClassBoolean:
		if prim, ok := obj.Internal.(Value); ok {
			return "[" + string(obj.Class) + ": " + p.value(prim, depth, false) + "]"
		}
	}

	prefix := ""
	if obj.IsCallable() {
		name := obj.FunctionName()
		if name == "" {
			prefix = "[Function (anonymous)]"
		} else {
			prefix = "[Function: " + name + "]"
		}
	} else if obj.Proto == nil {
		prefix = "[Object: null prototype]"
	} else if name := constructorName(obj); name != "" && name != "Object" && name != "Array" && obj.Class != ClassArguments {
		prefix = name
	}
	if obj.Class == ClassArguments {
		prefix = "[Arguments]"
	}

	keys := obj.EnumerableOwnKeys()
	if obj.hasElements() {
		keys = keys[min(len(obj.Elements), len(keys)):]
	}
	isList := obj.hasElements()
	if !isList && len(keys) == 0 {
		if prefix != "" && obj.IsCallable() {
			return prefix
		}
		if prefix != "" {
			return prefix + " {}"
		}
		return "{}"
	}
	if isList && len(obj.Elements) == 0 && len(keys) == 0 {
		if prefix != "" {
			return prefix + " []"
		}
		return "[]"
	}
	if depth > inspectMaxDepth {
		if isList {
			return "[Array]"
		}
		if obj.IsCallable() {
			return prefix
		}
		return "[Object]"
	}

	p.seen[obj] = true
	defer delete(p.seen, obj)

	parts := make([]string, 0, len(obj.Elements)+len(keys))
	if isList {
		for _, el := range obj.Elements {
			parts = append(parts, p.value(el, depth+1, false))
		}
	}
	for _, key := range keys {
		prop, _ := obj.GetOwnProperty(key)
		label := formatKey(key)
		switch {
		case prop.Getter != nil && prop.Setter != nil:
			parts = append(parts, label+": [Getter/Setter]")
		case prop.Getter != nil:
			parts = append(parts, label+": [Getter]")
		case prop.Setter != nil:
			parts = append(parts, label+": [Setter]")
		default:
			parts = append(parts, label+": "+p.value(prop.Value, depth+1, false))
		}
	}

	open, close := "{", "}"
	if isList {
		open, close = "[", "]"
	}
	if prefix != "" {
		open = prefix + " " + open
	}
	single := open + " " + strings.Join(parts, ", ") + " " + close
	if len(single) <= inspectLineWidth && !strings.Contains(single, "\n") {
		return single
	}
	indent := strings.Repeat("  ", depth+1)
	var b strings.Builder
	b.WriteString(open)
	b.WriteString("\n")
	for i, part := range parts {
		b.WriteString(indent)
		b.WriteString(strings.ReplaceAll(part, "\n", "\n"+indent))
		if i < len(parts)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(close)
	return b.String()
}

func constructorName(obj *Object) string {
	if obj.Proto == nil {
		return ""
	}
	prop, ok := obj.Proto.GetOwnProperty("constructor")
	if !ok || prop.IsAccessor() {
		return ""
	}
	ctor, ok := prop.Value.(*Object)
	if !ok || !ctor.IsCallable() {
		return ""
	}
	return ctor.FunctionName()
}

func formatKey(key string) string {
	if isIdentifierName(key) {
		return key
	}
	if _, ok := ArrayIndex(key); ok {
		return key
	}
	return quoteString(key)
}

func isIdentifierName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func quoteString(s string) string {
	quote := "'"
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		quote = `"`
	}
	var b strings.Builder
	b.WriteString(quote)
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		default:
			if string(r) == quote {
				b.WriteString(`\` + quote)
				continue
			}
			if r < 0x20 {
				b.WriteString(`\x` + leftPad(strconv.FormatInt(int64(r), 16), 2))
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteString(quote)
	return b.String()
}

func leftPad(s string, n int) string {
	for len(s) < n {
		s = "0" + s
	}
	return s
}
