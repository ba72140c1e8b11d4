package runtime

import (
	"math"
	"strconv"
	"strings"
)

// Hint selects the preferred primitive in ToPrimitive.
type Hint int

const (
	HintDefault Hint = iota
	HintNumber
	HintString
)

// ToBoolean implements truthiness.
func ToBoolean(v Value) bool {
	switch val := v.(type) {
	case nil, UndefinedValue, NullValue:
		return false
	case BoolValue:
		return val.Val
	case NumberValue:
		return val.Val != 0 && !math.IsNaN(val.Val)
	case StringValue:
		return val.Val != ""
	default:
		return true
	}
}

// ToPrimitive converts objects through their valueOf/toString methods. With a
// nil host, or when neither method is callable, a built-in rendering is used.
func ToPrimitive(host Host, v Value, hint Hint) (Value, error) {
	obj, ok := v.(*Object)
	if !ok {
		return v, nil
	}
	if host != nil {
		order := []string{"valueOf", "toString"}
		if hint == HintString || (hint == HintDefault && obj.Class == ClassDate) {
			order = []string{"toString", "valueOf"}
		}
		called := false
		for _, name := range order {
			method, err := host.Get(obj, name)
			if err != nil {
				return nil, err
			}
			fn, ok := method.(*Object)
			if !ok || !fn.IsCallable() {
				continue
			}
			called = true
			result, err := host.Call(fn, obj, nil)
			if err != nil {
				return nil, err
			}
			if _, isObj := result.(*Object); !isObj {
				return result, nil
			}
		}
		if called {
			return nil, host.Realm().TypeErrorf("Cannot convert object to primitive value")
		}
	}
	return defaultPrimitive(obj, hint), nil
}

func defaultPrimitive(obj *Object, hint Hint) Value {
	switch obj.Class {
	case ClassNumber, ClassBoolean, ClassString:
		if prim, ok := obj.Internal.(Value); ok {
			return prim
		}
	case ClassDate:
		if hint == HintNumber {
			if ms, ok := obj.Internal.(float64); ok {
				return Num(ms)
			}
		}
	}
	return Str(defaultObjectString(obj, make(map[*Object]bool)))
}

func defaultObjectString(obj *Object, seen map[*Object]bool) string {
	switch {
	case obj.hasElements():
		if seen[obj] {
			return ""
		}
		seen[obj] = true
		parts := make([]string, len(obj.Elements))
		for i, el := range obj.Elements {
			if IsNullish(el) {
				continue
			}
			if inner, ok := el.(*Object); ok {
				parts[i] = defaultObjectString(inner, seen)
				continue
			}
			parts[i] = ToString(el)
		}
		return strings.Join(parts, ",")
	case obj.Class == ClassError:
		return DescribeThrown(obj)
	case obj.IsCallable():
		return "function " + obj.FunctionName() + "() { [native code] }"
	case obj.Class == ClassRegExp:
		if src, ok := obj.Internal.(interface{ String() string }); ok {
			return src.String()
		}
	case obj.Class == ClassDate:
		if ms, ok := obj.Internal.(float64); ok {
			return FormatDate(ms)
		}
	}
	return "[object Object]"
}

// ToNumber converts a value without invoking interpreted code.
func ToNumber(v Value) float64 {
	switch val := v.(type) {
	case nil, UndefinedValue:
		return math.NaN()
	case NullValue:
		return 0
	case BoolValue:
		if val.Val {
			return 1
		}
		return 0
	case NumberValue:
		return val.Val
	case StringValue:
		return StringToNumber(val.Val)
	case *Object:
		return ToNumber(defaultPrimitive(val, HintNumber))
	default:
		return math.NaN()
	}
}

// StringToNumber parses numeric strings the way the Number() conversion does.
func StringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}
	lower := strings.ToLower(s)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.ContainsAny(s, "_xXpP") {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

// ToString converts a value without invoking interpreted code.
func ToString(v Value) string {
	switch val := v.(type) {
	case nil, UndefinedValue:
		return "undefined"
	case NullValue:
		return "null"
	case BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case NumberValue:
		return NumberToString(val.Val)
	case StringValue:
		return val.Val
	case *Object:
		return ToString(defaultPrimitive(val, HintString))
	default:
		return ""
	}
}

// ToStringValue converts v to a string, running user-defined toString/valueOf
// through host.
func ToStringValue(host Host, v Value) (string, error) {
	prim, err := ToPrimitive(host, v, HintString)
	if err != nil {
		return "", err
	}
	return ToString(prim), nil
}

// ToNumberValue converts v to a number, running user-defined valueOf/toString
// through host.
func ToNumberValue(host Host, v Value) (float64, error) {
	prim, err := ToPrimitive(host, v, HintNumber)
	if err != nil {
		return 0, err
	}
	return ToNumber(prim), nil
}

// ToPropertyKey converts a computed member key to its string form.
func ToPropertyKey(host Host, v Value) (string, error) {
	switch val := v.(type) {
	case StringValue:
		return val.Val, nil
	case NumberValue:
		return NumberToString(val.Val), nil
	}
	return ToStringValue(host, v)
}

// NumberToString formats a float64 following the Number#toString rules for
// radix 10.
func NumberToString(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}
	// Shortest round-tripping digits and decimal exponent.
	repr := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, expPart, _ := strings.Cut(repr, "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	exp, _ := strconv.Atoi(expPart)
	k := len(digits)
	n := exp + 1
	var out string
	switch {
	case k <= n && n <= 21:
		out = digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		out = digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		out = "0." + strings.Repeat("0", -n) + digits
	default:
		e := n - 1
		expSign := "+"
		if e < 0 {
			expSign = "-"
			e = -e
		}
		if k == 1 {
			out = digits + "e" + expSign + strconv.Itoa(e)
		} else {
			out = digits[:1] + "." + digits[1:] + "e" + expSign + strconv.Itoa(e)
		}
	}
	return sign + out
}

// ToInteger truncates toward zero, mapping NaN to 0.
func ToInteger(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	if math.IsInf(f, 0) {
		return f
	}
	return math.Trunc(f)
}

func ToInt32(f float64) int32 {
	return int32(ToUint32(f))
}

func ToUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(f), 4294967296)
	if m < 0 {
		m += 4294967296
	}
	return uint32(m)
}

// TypeOf implements the typeof operator.
func TypeOf(v Value) string {
	switch val := v.(type) {
	case nil, UndefinedValue:
		return "undefined"
	case NullValue:
		return "object"
	case BoolValue:
		return "boolean"
	case NumberValue:
		return "number"
	case StringValue:
		return "string"
	case *Object:
		if val.IsCallable() {
			return "function"
		}
		return "object"
	default:
		return "undefined"
	}
}

// StrictEquals implements ===.
func StrictEquals(a, b Value) bool {
	if a == nil {
		a = Undefined
	}
	if b == nil {
		b = Undefined
	}
	switch av := a.(type) {
	case NumberValue:
		bv, ok := b.(NumberValue)
		return ok && av.Val == bv.Val
	case *Object:
		bv, ok := b.(*Object)
		return ok && av == bv
	default:
		return a == b
	}
}

// SameValueZero is StrictEquals except that NaN equals NaN.
func SameValueZero(a, b Value) bool {
	an, aok := a.(NumberValue)
	bn, bok := b.(NumberValue)
	if aok && bok && math.IsNaN(an.Val) && math.IsNaN(bn.Val) {
		return true
	}
	return StrictEquals(a, b)
}

// LooseEquals implements == including its coercions.
func LooseEquals(host Host, a, b Value) (bool, error) {
	if a == nil {
		a = Undefined
	}
	if b == nil {
		b = Undefined
	}
	if a.Kind() == b.Kind() {
		return StrictEquals(a, b), nil
	}
	if IsNullish(a) && IsNullish(b) {
		return true, nil
	}
	if IsNullish(a) || IsNullish(b) {
		return false, nil
	}
	switch {
	case a.Kind() == KindNumber && b.Kind() == KindString:
		return a.(NumberValue).Val == ToNumber(b), nil
	case a.Kind() == KindString && b.Kind() == KindNumber:
		return ToNumber(a) == b.(NumberValue).Val, nil
	case a.Kind() == KindBoolean:
		return LooseEquals(host, Num(ToNumber(a)), b)
	case b.Kind() == KindBoolean:
		return LooseEquals(host, a, Num(ToNumber(b)))
	case a.Kind() == KindObject:
		prim, err := ToPrimitive(host, a, HintDefault)
		if err != nil {
			return false, err
		}
		return LooseEquals(host, prim, b)
	case b.Kind() == KindObject:
		prim, err := ToPrimitive(host, b, HintDefault)
		if err != nil {
			return false, err
		}
		return LooseEquals(host, a, prim)
	}
	return false, nil
}
