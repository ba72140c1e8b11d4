package stdlib

import (
	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

// installTimers wires setTimeout and setInterval to the host's virtual
// timer queue, which is drained after the program body completes.
func installTimers(realm *runtime.Realm, g map[string]runtime.Value) {
	g["setTimeout"] = realm.NewNativeFunction("setTimeout", 2, scheduler(false))
	g["setInterval"] = realm.NewNativeFunction("setInterval", 2, scheduler(true))
	g["clearTimeout"] = realm.NewNativeFunction("clearTimeout", 1, clearTimer)
	g["clearInterval"] = realm.NewNativeFunction("clearInterval", 1, clearTimer)
}

func scheduler(repeat bool) runtime.NativeFunc {
	return func(call *runtime.NativeCall) (runtime.Value, error) {
		fn, err := argCallable(call, 0)
		if err != nil {
			return nil, err
		}
		delay, err := argNumber(call, 1)
		if err != nil {
			return nil, err
		}
		var args []runtime.Value
		if len(call.Args) > 2 {
			args = append(args, call.Args[2:]...)
		}
		return runtime.Num(float64(call.Host.Schedule(fn, args, delay, repeat))), nil
	}
}

func clearTimer(call *runtime.NativeCall) (runtime.Value, error) {
	if n, ok := call.Arg(0).(runtime.NumberValue); ok {
		call.Host.Cancel(int(n.Val))
	}
	return runtime.Undefined, nil
}
