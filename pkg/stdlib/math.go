package stdlib

import (
	"math"
	"math/rand/v2"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

func installMath(realm *runtime.Realm, g map[string]runtime.Value) {
	m := realm.NewObject()
	unary := map[string]func(float64) float64{
		"abs":   math.Abs,
		"floor": math.Floor,
		"ceil":  math.Ceil,
		"trunc": math.Trunc,
		"sqrt":  math.Sqrt,
		"cbrt":  math.Cbrt,
		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"asin":  math.Asin,
		"acos":  math.Acos,
		"atan":  math.Atan,
		"sinh":  math.Sinh,
		"cosh":  math.Cosh,
		"tanh":  math.Tanh,
		"asinh": math.Asinh,
		"acosh": math.Acosh,
		"atanh": math.Atanh,
		"exp":   math.Exp,
		"expm1": math.Expm1,
		"log":   math.Log,
		"log2":  math.Log2,
		"log10": math.Log10,
		"log1p": math.Log1p,
		"round": jsRound,
		"sign":  jsSign,
		"fround": func(f float64) float64 {
			return float64(float32(f))
		},
		"clz32": func(f float64) float64 {
			n := runtime.ToUint32(f)
			count := 0
			for bit := uint32(1) << 31; bit != 0 && n&bit == 0; bit >>= 1 {
				count++
			}
			return float64(count)
		},
	}
	for name, fn := range unary {
		fn := fn
		m.SetHidden(name, realm.NewNativeFunction(name, 1, func(call *runtime.NativeCall) (runtime.Value, error) {
			n, err := argNumber(call, 0)
			if err != nil {
				return nil, err
			}
			return runtime.Num(fn(n)), nil
		}))
	}
	defineMethods(realm, m, []method{
		{"max", 2, mathExtreme(math.Inf(-1), func(a, b float64) bool { return a > b })},
		{"min", 2, mathExtreme(math.Inf(1), func(a, b float64) bool { return a < b })},
		{"pow", 2, func(call *runtime.NativeCall) (runtime.Value, error) {
			base, err := argNumber(call, 0)
			if err != nil {
				return nil, err
			}
			exp, err := argNumber(call, 1)
			if err != nil {
				return nil, err
			}
			if math.IsNaN(exp) || (math.Abs(base) == 1 && math.IsInf(exp, 0)) {
				return runtime.Num(math.NaN()), nil
			}
			return runtime.Num(math.Pow(base, exp)), nil
		}},
		{"atan2", 2, func(call *runtime.NativeCall) (runtime.Value, error) {
			y, err := argNumber(call, 0)
			if err != nil {
				return nil, err
			}
			x, err := argNumber(call, 1)
			if err != nil {
				return nil, err
			}
			return runtime.Num(math.Atan2(y, x)), nil
		}},
		{"hypot", 2, func(call *runtime.NativeCall) (runtime.Value, error) {
			sum := 0.0
			for idx := range call.Args {
				n, err := argNumber(call, idx)
				if err != nil {
					return nil, err
				}
				if math.IsInf(n, 0) {
					return runtime.Num(math.Inf(1)), nil
				}
				sum += n * n
			}
			return runtime.Num(math.Sqrt(sum)), nil
		}},
		{"random", 0, func(*runtime.NativeCall) (runtime.Value, error) {
			return runtime.Num(rand.Float64()), nil
		}},
	})
	defineConstants(m, map[string]runtime.Value{
		"PI":      runtime.Num(math.Pi),
		"E":       runtime.Num(math.E),
		"LN2":     runtime.Num(math.Ln2),
		"LN10":    runtime.Num(math.Ln10),
		"LOG2E":   runtime.Num(math.Log2E),
		"LOG10E":  runtime.Num(math.Log10E),
		"SQRT2":   runtime.Num(math.Sqrt2),
		"SQRT1_2": runtime.Num(math.Sqrt2 / 2),
	})
	g["Math"] = m
}

// jsRound rounds half toward positive infinity.
func jsRound(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return f
	}
	r := math.Floor(f + 0.5)
	if r == 0 && f < 0 {
		return math.Copysign(0, -1)
	}
	if math.Abs(f) >= 1<<52 {
		return f
	}
	return r
}

func jsSign(f float64) float64 {
	switch {
	case math.IsNaN(f), f == 0:
		return f
	case f > 0:
		return 1
	default:
		return -1
	}
}

// mathExtreme folds the arguments with better; any NaN wins.
func mathExtreme(start float64, better func(a, b float64) bool) runtime.NativeFunc {
	return func(call *runtime.NativeCall) (runtime.Value, error) {
		result := start
		sawNaN := false
		for idx := range call.Args {
			n, err := argNumber(call, idx)
			if err != nil {
				return nil, err
			}
			switch {
			case math.IsNaN(n):
				sawNaN = true
			case better(n, result):
				result = n
			case n == 0 && result == 0 && math.Signbit(n) != math.Signbit(result):
				// max prefers +0, min prefers -0.
				if better(1, 0) == math.Signbit(result) {
					result = n
				}
			}
		}
		if sawNaN {
			return runtime.Num(math.NaN()), nil
		}
		return runtime.Num(result), nil
	}
}
