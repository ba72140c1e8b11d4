package stdlib

import (
	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

func installErrors(realm *runtime.Realm, g map[string]runtime.Value) {
	for _, name := range runtime.ErrorNames {
		g[name] = realm.NewConstructor(name, 1, realm.ErrorPrototype(name), errorConstructor(name))
	}
	defineMethods(realm, realm.ErrorPrototype("Error"), []method{
		{"toString", 0, errorToString},
	})
}

// errorConstructor builds objects whether or not it is called with new.
func errorConstructor(name string) runtime.NativeFunc {
	return func(call *runtime.NativeCall) (runtime.Value, error) {
		message := ""
		if _, undef := call.Arg(0).(runtime.UndefinedValue); !undef {
			var err error
			if message, err = argString(call, 0); err != nil {
				return nil, err
			}
		}
		obj := call.Realm().NewError(name, message)
		if opts, ok := call.Arg(1).(*runtime.Object); ok && opts.HasProperty("cause") {
			cause, err := call.Host.Get(opts, "cause")
			if err != nil {
				return nil, err
			}
			obj.SetHidden("cause", cause)
		}
		return obj, nil
	}
}

func errorToString(call *runtime.NativeCall) (runtime.Value, error) {
	obj, ok := call.This.(*runtime.Object)
	if !ok {
		return nil, call.Realm().TypeErrorf("Error.prototype.toString requires that 'this' be an Object")
	}
	field := func(key, def string) (string, error) {
		v, err := call.Host.Get(obj, key)
		if err != nil {
			return "", err
		}
		if _, undef := v.(runtime.UndefinedValue); undef {
			return def, nil
		}
		return runtime.ToStringValue(call.Host, v)
	}
	name, err := field("name", "Error")
	if err != nil {
		return nil, err
	}
	message, err := field("message", "")
	if err != nil {
		return nil, err
	}
	switch {
	case name == "":
		return runtime.Str(message), nil
	case message == "":
		return runtime.Str(name), nil
	}
	return runtime.Str(name + ": " + message), nil
}
