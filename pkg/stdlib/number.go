package stdlib

import (
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

const maxSafeInteger = 1<<53 - 1

func installNumber(realm *runtime.Realm, g map[string]runtime.Value) {
	ctor := realm.NewConstructor("Number", 1, realm.NumberPrototype, func(call *runtime.NativeCall) (runtime.Value, error) {
		n := 0.0
		if len(call.Args) > 0 {
			var err error
			if n, err = argNumber(call, 0); err != nil {
				return nil, err
			}
		}
		if call.NewTarget != nil {
			return wrapPrimitive(call.Realm(), runtime.Num(n)), nil
		}
		return runtime.Num(n), nil
	})
	parseIntFn := realm.NewNativeFunction("parseInt", 2, globalParseInt)
	parseFloatFn := realm.NewNativeFunction("parseFloat", 1, globalParseFloat)
	ctor.SetHidden("parseInt", parseIntFn)
	ctor.SetHidden("parseFloat", parseFloatFn)
	defineMethods(realm, ctor, []method{
		{"isInteger", 1, numberPredicate(func(f float64) bool { return isIntegral(f) })},
		{"isSafeInteger", 1, numberPredicate(func(f float64) bool { return isIntegral(f) && math.Abs(f) <= maxSafeInteger })},
		{"isFinite", 1, numberPredicate(func(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) })},
		{"isNaN", 1, numberPredicate(math.IsNaN)},
	})
	defineConstants(ctor, map[string]runtime.Value{
		"MAX_SAFE_INTEGER":  runtime.Num(maxSafeInteger),
		"MIN_SAFE_INTEGER":  runtime.Num(-maxSafeInteger),
		"MAX_VALUE":         runtime.Num(math.MaxFloat64),
		"MIN_VALUE":         runtime.Num(math.SmallestNonzeroFloat64),
		"EPSILON":           runtime.Num(math.Nextafter(1, 2) - 1),
		"POSITIVE_INFINITY": runtime.Num(math.Inf(1)),
		"NEGATIVE_INFINITY": runtime.Num(math.Inf(-1)),
		"NaN":               runtime.Num(math.NaN()),
	})
	defineMethods(realm, realm.NumberPrototype, []method{
		{"toString", 1, numberToString},
		{"toFixed", 1, numberToFixed},
		{"toPrecision", 1, numberToPrecision},
		{"toExponential", 1, numberToExponential},
		{"toLocaleString", 0, numberToLocaleString},
		{"valueOf", 0, func(call *runtime.NativeCall) (runtime.Value, error) {
			n, err := thisNumber(call, "valueOf")
			if err != nil {
				return nil, err
			}
			return runtime.Num(n), nil
		}},
	})
	g["Number"] = ctor
	g["parseInt"] = parseIntFn
	g["parseFloat"] = parseFloatFn
}

func installBoolean(realm *runtime.Realm, g map[string]runtime.Value) {
	ctor := realm.NewConstructor("Boolean", 1, realm.BooleanPrototype, func(call *runtime.NativeCall) (runtime.Value, error) {
		b := runtime.Bool(runtime.ToBoolean(call.Arg(0)))
		if call.NewTarget != nil {
			return wrapPrimitive(call.Realm(), b), nil
		}
		return b, nil
	})
	thisBool := func(call *runtime.NativeCall) (runtime.BoolValue, error) {
		switch v := call.This.(type) {
		case runtime.BoolValue:
			return v, nil
		case *runtime.Object:
			if prim, ok := v.Internal.(runtime.BoolValue); ok && v.Class == runtime.ClassBoolean {
				return prim, nil
			}
		}
		return runtime.BoolValue{}, call.Realm().TypeErrorf("Boolean.prototype.valueOf requires that 'this' be a Boolean")
	}
	defineMethods(realm, realm.BooleanPrototype, []method{
		{"toString", 0, func(call *runtime.NativeCall) (runtime.Value, error) {
			b, err := thisBool(call)
			if err != nil {
				return nil, err
			}
			return runtime.Str(runtime.ToString(b)), nil
		}},
		{"valueOf", 0, func(call *runtime.NativeCall) (runtime.Value, error) {
			b, err := thisBool(call)
			if err != nil {
				return nil, err
			}
			return b, nil
		}},
	})
	g["Boolean"] = ctor
}

// installGlobalFunctions adds the coercing isNaN and isFinite; parseInt and
// parseFloat are shared with Number.
func installGlobalFunctions(realm *runtime.Realm, g map[string]runtime.Value) {
	coercing := func(pred func(float64) bool) runtime.NativeFunc {
		return func(call *runtime.NativeCall) (runtime.Value, error) {
			n, err := argNumber(call, 0)
			if err != nil {
				return nil, err
			}
			return runtime.Bool(pred(n)), nil
		}
	}
	g["isNaN"] = realm.NewNativeFunction("isNaN", 1, coercing(math.IsNaN))
	g["isFinite"] = realm.NewNativeFunction("isFinite", 1, coercing(func(f float64) bool {
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	}))
}

func isIntegral(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
}

// numberPredicate builds the non-coercing Number.isX checks.
func numberPredicate(pred func(float64) bool) runtime.NativeFunc {
	return func(call *runtime.NativeCall) (runtime.Value, error) {
		n, ok := call.Arg(0).(runtime.NumberValue)
		return runtime.Bool(ok && pred(n.Val)), nil
	}
}

func thisNumber(call *runtime.NativeCall, name string) (float64, error) {
	switch v := call.This.(type) {
	case runtime.NumberValue:
		return v.Val, nil
	case *runtime.Object:
		if prim, ok := v.Internal.(runtime.NumberValue); ok && v.Class == runtime.ClassNumber {
			return prim.Val, nil
		}
	}
	return 0, call.Realm().TypeErrorf("Number.prototype.%s requires that 'this' be a Number", name)
}

func numberToString(call *runtime.NativeCall) (runtime.Value, error) {
	n, err := thisNumber(call, "toString")
	if err != nil {
		return nil, err
	}
	radix, err := argInteger(call, 0, 10)
	if err != nil {
		return nil, err
	}
	if radix < 2 || radix > 36 {
		return nil, call.Realm().RangeErrorf("toString() radix must be between 2 and 36")
	}
	if radix == 10 || math.IsNaN(n) || math.IsInf(n, 0) {
		return runtime.Str(runtime.NumberToString(n)), nil
	}
	return runtime.Str(formatRadix(n, int(radix))), nil
}

// formatRadix renders n in base radix, with up to 52 fractional digits.
func formatRadix(n float64, radix int) string {
	neg := n < 0
	n = math.Abs(n)
	whole := math.Floor(n)
	frac := n - whole
	intPart := new(big.Int)
	new(big.Float).SetFloat64(whole).Int(intPart)
	s := intPart.Text(radix)
	if frac > 0 {
		var b strings.Builder
		for digits := 0; frac > 0 && digits < 52; digits++ {
			frac *= float64(radix)
			d := int(frac)
			b.WriteByte(strconv.FormatInt(int64(d), radix)[0])
			frac -= float64(d)
		}
		s += "." + b.String()
	}
	if neg {
		s = "-" + s
	}
	return s
}

func numberToFixed(call *runtime.NativeCall) (runtime.Value, error) {
	n, err := thisNumber(call, "toFixed")
	if err != nil {
		return nil, err
	}
	digits, err := argInteger(call, 0, 0)
	if err != nil {
		return nil, err
	}
	if digits < 0 || digits > 100 {
		return nil, call.Realm().RangeErrorf("toFixed() digits argument must be between 0 and 100")
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || math.Abs(n) >= 1e21 {
		return runtime.Str(runtime.NumberToString(n)), nil
	}
	return runtime.Str(toFixed(n, int(digits))), nil
}

// toFixed rounds half away from zero on the exact binary value, which is
// where it differs from strconv's round-half-even.
func toFixed(x float64, digits int) string {
	neg := x < 0
	x = math.Abs(x)
	scale := new(big.Float).SetPrec(2048).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil))
	scaled := new(big.Float).SetPrec(2048).SetFloat64(x)
	scaled.Mul(scaled, scale)
	whole, _ := scaled.Int(nil)
	rest := new(big.Float).SetPrec(2048).Sub(scaled, new(big.Float).SetPrec(2048).SetInt(whole))
	if rest.Cmp(big.NewFloat(0.5)) >= 0 {
		whole.Add(whole, big.NewInt(1))
	}
	s := whole.String()
	if digits > 0 {
		if len(s) <= digits {
			s = strings.Repeat("0", digits-len(s)+1) + s
		}
		s = s[:len(s)-digits] + "." + s[len(s)-digits:]
	}
	if neg && strings.Trim(s, "0.") != "" {
		s = "-" + s
	}
	return s
}

func numberToPrecision(call *runtime.NativeCall) (runtime.Value, error) {
	n, err := thisNumber(call, "toPrecision")
	if err != nil {
		return nil, err
	}
	if _, undef := call.Arg(0).(runtime.UndefinedValue); undef || math.IsNaN(n) || math.IsInf(n, 0) {
		return runtime.Str(runtime.NumberToString(n)), nil
	}
	p, err := argInteger(call, 0, 0)
	if err != nil {
		return nil, err
	}
	if p < 1 || p > 100 {
		return nil, call.Realm().RangeErrorf("toPrecision() argument must be between 1 and 100")
	}
	if n == 0 {
		return runtime.Str(toFixed(0, int(p)-1)), nil
	}
	exp := exponentOf(strconv.FormatFloat(n, 'e', int(p)-1, 64))
	if exp < -6 || exp >= int(p) {
		return runtime.Str(jsExponential(n, int(p)-1)), nil
	}
	return runtime.Str(strconv.FormatFloat(n, 'f', int(p)-1-exp, 64)), nil
}

func numberToExponential(call *runtime.NativeCall) (runtime.Value, error) {
	n, err := thisNumber(call, "toExponential")
	if err != nil {
		return nil, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return runtime.Str(runtime.NumberToString(n)), nil
	}
	digits := -1
	if _, undef := call.Arg(0).(runtime.UndefinedValue); !undef {
		d, err := argInteger(call, 0, 0)
		if err != nil {
			return nil, err
		}
		if d < 0 || d > 100 {
			return nil, call.Realm().RangeErrorf("toExponential() argument must be between 0 and 100")
		}
		digits = int(d)
	}
	return runtime.Str(jsExponential(n, digits)), nil
}

func exponentOf(formatted string) int {
	idx := strings.IndexByte(formatted, 'e')
	exp, _ := strconv.Atoi(formatted[idx+1:])
	return exp
}

// jsExponential formats like strconv's 'e' verb but without exponent
// zero padding ("1.5e+3" rather than "1.5e+03").
func jsExponential(n float64, digits int) string {
	formatted := strconv.FormatFloat(n, 'e', digits, 64)
	idx := strings.IndexByte(formatted, 'e')
	mantissa, exp := formatted[:idx], exponentOf(formatted)
	sign := "+"
	if exp < 0 {
		sign = "-"
		exp = -exp
	}
	return mantissa + "e" + sign + strconv.Itoa(exp)
}

// numberToLocaleString formats through CLDR data for the requested locale
// (en-US by default). Options understood: style ("decimal" or "percent"),
// minimumFractionDigits and maximumFractionDigits.
func numberToLocaleString(call *runtime.NativeCall) (runtime.Value, error) {
	n, err := thisNumber(call, "toLocaleString")
	if err != nil {
		return nil, err
	}
	if math.IsNaN(n) {
		return runtime.Str("NaN"), nil
	}
	if math.IsInf(n, 0) {
		if n < 0 {
			return runtime.Str("-∞"), nil
		}
		return runtime.Str("∞"), nil
	}
	tag := language.AmericanEnglish
	if locale, ok := call.Arg(0).(runtime.StringValue); ok {
		if tag, err = language.Parse(locale.Val); err != nil {
			return nil, call.Realm().RangeErrorf("Incorrect locale information provided")
		}
	}
	style := "decimal"
	minDigits, maxDigits := 0, 3
	if opts, ok := call.Arg(1).(*runtime.Object); ok {
		if v, err := call.Host.Get(opts, "style"); err != nil {
			return nil, err
		} else if _, undef := v.(runtime.UndefinedValue); !undef {
			if style, err = runtime.ToStringValue(call.Host, v); err != nil {
				return nil, err
			}
		}
		if style == "percent" {
			maxDigits = 0
		}
		if minDigits, err = fractionDigitsOption(call, opts, "minimumFractionDigits", minDigits); err != nil {
			return nil, err
		}
		if maxDigits < minDigits {
			maxDigits = minDigits
		}
		if maxDigits, err = fractionDigitsOption(call, opts, "maximumFractionDigits", maxDigits); err != nil {
			return nil, err
		}
		if maxDigits < minDigits {
			return nil, call.Realm().RangeErrorf("maximumFractionDigits value is out of range.")
		}
	}
	digits := []number.Option{number.MinFractionDigits(minDigits), number.MaxFractionDigits(maxDigits)}
	p := message.NewPrinter(tag)
	switch style {
	case "decimal":
		return runtime.Str(p.Sprintf("%v", number.Decimal(n, digits...))), nil
	case "percent":
		return runtime.Str(p.Sprintf("%v", number.Percent(n, digits...))), nil
	default:
		return nil, call.Realm().RangeErrorf("Value %s out of range for Number.prototype.toLocaleString options property style", style)
	}
}

func fractionDigitsOption(call *runtime.NativeCall, opts *runtime.Object, name string, def int) (int, error) {
	v, err := call.Host.Get(opts, name)
	if err != nil {
		return 0, err
	}
	if _, undef := v.(runtime.UndefinedValue); undef {
		return def, nil
	}
	f, err := runtime.ToNumberValue(call.Host, v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || f < 0 || f > 20 {
		return 0, call.Realm().RangeErrorf("%s value is out of range.", name)
	}
	return int(f), nil
}

func globalParseInt(call *runtime.NativeCall) (runtime.Value, error) {
	s, err := argString(call, 0)
	if err != nil {
		return nil, err
	}
	radixNum, err := argNumber(call, 1)
	if err != nil {
		return nil, err
	}
	return runtime.Num(parseInt(s, int(runtime.ToInt32(radixNum)))), nil
}

func parseInt(s string, radix int) float64 {
	s = strings.TrimLeftFunc(s, isJSSpace)
	sign := 1.0
	if strings.HasPrefix(s, "-") {
		sign = -1
		s = s[1:]
	} else {
		s = strings.TrimPrefix(s, "+")
	}
	stripPrefix := true
	if radix != 0 {
		if radix < 2 || radix > 36 {
			return math.NaN()
		}
		stripPrefix = radix == 16
	} else {
		radix = 10
	}
	if stripPrefix && len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
		radix = 16
	}
	result, digits := 0.0, 0
	for _, ch := range s {
		d := digitValue(ch)
		if d < 0 || d >= radix {
			break
		}
		result = result*float64(radix) + float64(d)
		digits++
	}
	if digits == 0 {
		return math.NaN()
	}
	return sign * result
}

func digitValue(ch rune) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'z':
		return int(ch-'a') + 10
	case ch >= 'A' && ch <= 'Z':
		return int(ch-'A') + 10
	}
	return -1
}

var floatPrefix = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)

func globalParseFloat(call *runtime.NativeCall) (runtime.Value, error) {
	s, err := argString(call, 0)
	if err != nil {
		return nil, err
	}
	return runtime.Num(parseFloat(s)), nil
}

func parseFloat(s string) float64 {
	prefix := floatPrefix.FindString(strings.TrimLeftFunc(s, isJSSpace))
	if prefix == "" {
		return math.NaN()
	}
	return runtime.StringToNumber(prefix)
}
