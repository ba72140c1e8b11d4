package stdlib

import (
	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

func installFunction(realm *runtime.Realm, g map[string]runtime.Value) {
	ctor := realm.NewConstructor("Function", 1, realm.FunctionPrototype, func(call *runtime.NativeCall) (runtime.Value, error) {
		return nil, call.Realm().Throw("EvalError", "Code generation from strings disallowed for this context")
	})
	defineMethods(realm, realm.FunctionPrototype, []method{
		{"call", 1, functionCall},
		{"apply", 2, functionApply},
		{"bind", 1, functionBind},
		{"toString", 0, functionToString},
	})
	g["Function"] = ctor
}

func thisFunction(call *runtime.NativeCall, name string) (*runtime.Object, error) {
	fn, ok := call.This.(*runtime.Object)
	if !ok || !fn.IsCallable() {
		return nil, call.Realm().TypeErrorf("Function.prototype.%s called on %s, which is not a function", name, runtime.Inspect(call.This))
	}
	return fn, nil
}

func functionCall(call *runtime.NativeCall) (runtime.Value, error) {
	fn, err := thisFunction(call, "call")
	if err != nil {
		return nil, err
	}
	var args []runtime.Value
	if len(call.Args) > 1 {
		args = call.Args[1:]
	}
	return call.Host.Call(fn, call.Arg(0), args)
}

func functionApply(call *runtime.NativeCall) (runtime.Value, error) {
	fn, err := thisFunction(call, "apply")
	if err != nil {
		return nil, err
	}
	args, err := listFromArrayLike(call, call.Arg(1))
	if err != nil {
		return nil, err
	}
	return call.Host.Call(fn, call.Arg(0), args)
}

// listFromArrayLike reads an argument list; nullish yields no arguments.
func listFromArrayLike(call *runtime.NativeCall, v runtime.Value) ([]runtime.Value, error) {
	if runtime.IsNullish(v) {
		return nil, nil
	}
	obj, ok := v.(*runtime.Object)
	if !ok {
		return nil, call.Realm().TypeErrorf("CreateListFromArrayLike called on non-object")
	}
	if obj.IsArray() || obj.Class == runtime.ClassArguments {
		return append([]runtime.Value(nil), obj.Elements...), nil
	}
	lengthVal, err := call.Host.Get(obj, "length")
	if err != nil {
		return nil, err
	}
	n := int(runtime.ToInteger(runtime.ToNumber(lengthVal)))
	out := make([]runtime.Value, 0, max(n, 0))
	for idx := 0; idx < n; idx++ {
		item, err := call.Host.Get(obj, runtime.NumberToString(float64(idx)))
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func functionBind(call *runtime.NativeCall) (runtime.Value, error) {
	fn, err := thisFunction(call, "bind")
	if err != nil {
		return nil, err
	}
	var args []runtime.Value
	if len(call.Args) > 1 {
		args = append(args, call.Args[1:]...)
	}
	length := 0
	if p, ok := fn.GetOwnProperty("length"); ok && !p.IsAccessor() {
		length = int(runtime.ToNumber(p.Value)) - len(args)
	}
	bound := &runtime.BoundFunction{Target: fn, This: call.Arg(0), Args: args}
	return call.Realm().NewFunctionObject(bound, bound.FunctionName(), max(length, 0)), nil
}

func functionToString(call *runtime.NativeCall) (runtime.Value, error) {
	fn, err := thisFunction(call, "toString")
	if err != nil {
		return nil, err
	}
	return runtime.Str("function " + fn.FunctionName() + "() { [native code] }"), nil
}
