// Package stdlib provides the default global bindings: constructors,
// namespaces such as Math and JSON, console and timers. Natives reach back
// into the evaluator only through runtime.Host.
package stdlib

import (
	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

// Globals builds the default-bindings table for realm. Prototype methods are
// installed on the realm's intrinsics, so every call yields an isolated set.
func Globals(realm *runtime.Realm) map[string]runtime.Value {
	g := make(map[string]runtime.Value)
	installObject(realm, g)
	installFunction(realm, g)
	installArray(realm, g)
	installString(realm, g)
	installNumber(realm, g)
	installBoolean(realm, g)
	installMath(realm, g)
	installJSON(realm, g)
	installErrors(realm, g)
	installDate(realm, g)
	installRegExp(realm, g)
	installGlobalFunctions(realm, g)
	installURI(realm, g)
	installTimers(realm, g)
	installConsole(realm, g)

	global := realm.NewObject()
	for name, value := range g {
		global.SetHidden(name, value)
	}
	g["globalThis"] = global
	return g
}

type method struct {
	name  string
	arity int
	fn    runtime.NativeFunc
}

func defineMethods(realm *runtime.Realm, target *runtime.Object, methods []method) {
	for _, m := range methods {
		target.SetHidden(m.name, realm.NewNativeFunction(m.name, m.arity, m.fn))
	}
}

func defineConstants(target *runtime.Object, values map[string]runtime.Value) {
	for name, v := range values {
		target.DefineOwnProperty(name, &runtime.Property{Value: v})
	}
}

func argString(call *runtime.NativeCall, idx int) (string, error) {
	return runtime.ToStringValue(call.Host, call.Arg(idx))
}

func argNumber(call *runtime.NativeCall, idx int) (float64, error) {
	return runtime.ToNumberValue(call.Host, call.Arg(idx))
}

// argInteger converts argument idx with ToInteger, using def when absent
// or undefined.
func argInteger(call *runtime.NativeCall, idx int, def float64) (float64, error) {
	if _, undef := call.Arg(idx).(runtime.UndefinedValue); undef {
		return def, nil
	}
	n, err := argNumber(call, idx)
	if err != nil {
		return 0, err
	}
	return runtime.ToInteger(n), nil
}

func argCallable(call *runtime.NativeCall, idx int) (*runtime.Object, error) {
	fn, ok := call.Arg(idx).(*runtime.Object)
	if !ok || !fn.IsCallable() {
		return nil, call.Realm().TypeErrorf("%s is not a function", runtime.Inspect(call.Arg(idx)))
	}
	return fn, nil
}

// relativeIndex resolves a possibly negative position against length, clamped
// to [0, length].
func relativeIndex(pos float64, length int) int {
	n := float64(length)
	if pos < 0 {
		pos += n
		if pos < 0 {
			pos = 0
		}
	}
	if pos > n {
		pos = n
	}
	return int(pos)
}

func toObject(call *runtime.NativeCall, v runtime.Value) (*runtime.Object, error) {
	switch val := v.(type) {
	case *runtime.Object:
		return val, nil
	case runtime.UndefinedValue, runtime.NullValue, nil:
		return nil, call.Realm().TypeErrorf("Cannot convert undefined or null to object")
	default:
		return wrapPrimitive(call.Realm(), val), nil
	}
}

func wrapPrimitive(realm *runtime.Realm, v runtime.Value) *runtime.Object {
	var obj *runtime.Object
	switch val := v.(type) {
	case runtime.StringValue:
		obj = runtime.NewObject(realm.StringPrototype)
		obj.Class = runtime.ClassString
		obj.DefineOwnProperty("length", &runtime.Property{Value: runtime.Num(float64(len([]rune(val.Val))))})
		for idx, ch := range []rune(val.Val) {
			obj.DefineOwnProperty(runtime.NumberToString(float64(idx)), &runtime.Property{Value: runtime.Str(string(ch)), Enumerable: true})
		}
	case runtime.NumberValue:
		obj = runtime.NewObject(realm.NumberPrototype)
		obj.Class = runtime.ClassNumber
	case runtime.BoolValue:
		obj = runtime.NewObject(realm.BooleanPrototype)
		obj.Class = runtime.ClassBoolean
	default:
		return realm.NewObject()
	}
	obj.Internal = v
	return obj
}
