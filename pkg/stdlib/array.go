package stdlib

import (
	"math"
	"sort"
	"strings"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

func installArray(realm *runtime.Realm, g map[string]runtime.Value) {
	ctor := realm.NewConstructor("Array", 1, realm.ArrayPrototype, func(call *runtime.NativeCall) (runtime.Value, error) {
		if len(call.Args) == 1 {
			if n, ok := call.Args[0].(runtime.NumberValue); ok {
				if n.Val < 0 || n.Val != math.Trunc(n.Val) || n.Val > math.MaxUint32 {
					return nil, call.Realm().RangeErrorf("Invalid array length")
				}
				elems := make([]runtime.Value, int(n.Val))
				for idx := range elems {
					elems[idx] = runtime.Undefined
				}
				return call.Realm().NewArray(elems), nil
			}
		}
		return call.Realm().NewArray(append([]runtime.Value(nil), call.Args...)), nil
	})
	defineMethods(realm, ctor, []method{
		{"isArray", 1, func(call *runtime.NativeCall) (runtime.Value, error) {
			obj, ok := call.Arg(0).(*runtime.Object)
			return runtime.Bool(ok && obj.IsArray()), nil
		}},
		{"of", 0, func(call *runtime.NativeCall) (runtime.Value, error) {
			return call.Realm().NewArray(append([]runtime.Value(nil), call.Args...)), nil
		}},
		{"from", 1, arrayFrom},
	})
	defineMethods(realm, realm.ArrayPrototype, []method{
		{"push", 1, arrayPush},
		{"pop", 0, arrayPop},
		{"shift", 0, arrayShift},
		{"unshift", 1, arrayUnshift},
		{"slice", 2, arraySlice},
		{"splice", 2, arraySplice},
		{"concat", 1, arrayConcat},
		{"join", 1, arrayJoin},
		{"toString", 0, arrayJoin},
		{"reverse", 0, arrayReverse},
		{"indexOf", 1, arrayIndexOf},
		{"lastIndexOf", 1, arrayLastIndexOf},
		{"includes", 1, arrayIncludes},
		{"find", 1, arrayFinder(false, false)},
		{"findIndex", 1, arrayFinder(true, false)},
		{"findLast", 1, arrayFinder(false, true)},
		{"findLastIndex", 1, arrayFinder(true, true)},
		{"filter", 1, arrayFilter},
		{"map", 1, arrayMap},
		{"forEach", 1, arrayForEach},
		{"some", 1, arraySome},
		{"every", 1, arrayEvery},
		{"reduce", 1, arrayReducer(false)},
		{"reduceRight", 1, arrayReducer(true)},
		{"sort", 1, arraySort},
		{"flat", 0, arrayFlat},
		{"flatMap", 1, arrayFlatMap},
		{"fill", 1, arrayFill},
		{"at", 1, arrayAt},
	})
	g["Array"] = ctor
}

func thisArray(call *runtime.NativeCall, name string) (*runtime.Object, error) {
	arr, ok := call.This.(*runtime.Object)
	if !ok || (arr.Class != runtime.ClassArray && arr.Class != runtime.ClassArguments) {
		return nil, call.Realm().TypeErrorf("Array.prototype.%s called on non-array %s", name, runtime.Inspect(call.This))
	}
	return arr, nil
}

func writableArray(call *runtime.NativeCall, name string) (*runtime.Object, error) {
	arr, err := thisArray(call, name)
	if err != nil {
		return nil, err
	}
	if arr.IsFrozen() {
		return nil, call.Realm().TypeErrorf("Cannot modify frozen array with %s", name)
	}
	return arr, nil
}

// visit calls fn(element, index, array) for each element present when the
// call started, mirroring the callback protocol of the iteration methods.
func visit(call *runtime.NativeCall, arr *runtime.Object, fn *runtime.Object, each func(idx int, el, result runtime.Value) (bool, error)) error {
	thisArg := call.Arg(1)
	n := len(arr.Elements)
	for idx := 0; idx < n && idx < len(arr.Elements); idx++ {
		el := arr.Elements[idx]
		result, err := call.Host.Call(fn, thisArg, []runtime.Value{el, runtime.Num(float64(idx)), arr})
		if err != nil {
			return err
		}
		stop, err := each(idx, el, result)
		if err != nil || stop {
			return err
		}
	}
	return nil
}

func arrayFrom(call *runtime.NativeCall) (runtime.Value, error) {
	var items []runtime.Value
	switch src := call.Arg(0).(type) {
	case runtime.StringValue:
		for _, ch := range src.Val {
			items = append(items, runtime.Str(string(ch)))
		}
	case *runtime.Object:
		list, err := listFromArrayLike(call, src)
		if err != nil {
			return nil, err
		}
		items = list
	case runtime.UndefinedValue, runtime.NullValue:
		return nil, call.Realm().TypeErrorf("%s is not iterable", runtime.Inspect(src))
	}
	if _, undef := call.Arg(1).(runtime.UndefinedValue); !undef {
		mapFn, err := argCallable(call, 1)
		if err != nil {
			return nil, err
		}
		for idx, item := range items {
			mapped, err := call.Host.Call(mapFn, call.Arg(2), []runtime.Value{item, runtime.Num(float64(idx))})
			if err != nil {
				return nil, err
			}
			items[idx] = mapped
		}
	}
	return call.Realm().NewArray(items), nil
}

func arrayPush(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := writableArray(call, "push")
	if err != nil {
		return nil, err
	}
	arr.Elements = append(arr.Elements, call.Args...)
	return runtime.Num(float64(len(arr.Elements))), nil
}

func arrayPop(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := writableArray(call, "pop")
	if err != nil {
		return nil, err
	}
	if len(arr.Elements) == 0 {
		return runtime.Undefined, nil
	}
	last := arr.Elements[len(arr.Elements)-1]
	arr.Elements = arr.Elements[:len(arr.Elements)-1]
	return last, nil
}

func arrayShift(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := writableArray(call, "shift")
	if err != nil {
		return nil, err
	}
	if len(arr.Elements) == 0 {
		return runtime.Undefined, nil
	}
	first := arr.Elements[0]
	arr.Elements = append([]runtime.Value(nil), arr.Elements[1:]...)
	return first, nil
}

func arrayUnshift(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := writableArray(call, "unshift")
	if err != nil {
		return nil, err
	}
	arr.Elements = append(append([]runtime.Value(nil), call.Args...), arr.Elements...)
	return runtime.Num(float64(len(arr.Elements))), nil
}

func arraySlice(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := thisArray(call, "slice")
	if err != nil {
		return nil, err
	}
	n := len(arr.Elements)
	start, err := argInteger(call, 0, 0)
	if err != nil {
		return nil, err
	}
	end, err := argInteger(call, 1, float64(n))
	if err != nil {
		return nil, err
	}
	from, to := relativeIndex(start, n), relativeIndex(end, n)
	if to < from {
		to = from
	}
	return call.Realm().NewArray(append([]runtime.Value(nil), arr.Elements[from:to]...)), nil
}

func arraySplice(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := writableArray(call, "splice")
	if err != nil {
		return nil, err
	}
	n := len(arr.Elements)
	start, err := argInteger(call, 0, 0)
	if err != nil {
		return nil, err
	}
	from := relativeIndex(start, n)
	count := n - from
	if len(call.Args) == 0 {
		count = 0
	} else if len(call.Args) > 1 {
		c, err := argInteger(call, 1, 0)
		if err != nil {
			return nil, err
		}
		count = int(math.Max(0, math.Min(c, float64(n-from))))
	}
	var inserts []runtime.Value
	if len(call.Args) > 2 {
		inserts = call.Args[2:]
	}
	removed := append([]runtime.Value(nil), arr.Elements[from:from+count]...)
	next := make([]runtime.Value, 0, n-count+len(inserts))
	next = append(next, arr.Elements[:from]...)
	next = append(next, inserts...)
	next = append(next, arr.Elements[from+count:]...)
	arr.Elements = next
	return call.Realm().NewArray(removed), nil
}

func arrayConcat(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := thisArray(call, "concat")
	if err != nil {
		return nil, err
	}
	out := append([]runtime.Value(nil), arr.Elements...)
	for _, arg := range call.Args {
		if other, ok := arg.(*runtime.Object); ok && other.IsArray() {
			out = append(out, other.Elements...)
			continue
		}
		out = append(out, arg)
	}
	return call.Realm().NewArray(out), nil
}

func arrayJoin(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := thisArray(call, "join")
	if err != nil {
		return nil, err
	}
	sep := ","
	if _, undef := call.Arg(0).(runtime.UndefinedValue); !undef {
		sep, err = argString(call, 0)
		if err != nil {
			return nil, err
		}
	}
	parts := make([]string, len(arr.Elements))
	for idx, el := range arr.Elements {
		if runtime.IsNullish(el) {
			continue
		}
		if el == runtime.Value(arr) {
			continue
		}
		s, err := runtime.ToStringValue(call.Host, el)
		if err != nil {
			return nil, err
		}
		parts[idx] = s
	}
	return runtime.Str(strings.Join(parts, sep)), nil
}

func arrayReverse(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := writableArray(call, "reverse")
	if err != nil {
		return nil, err
	}
	for a, b := 0, len(arr.Elements)-1; a < b; a, b = a+1, b-1 {
		arr.Elements[a], arr.Elements[b] = arr.Elements[b], arr.Elements[a]
	}
	return arr, nil
}

func arrayIndexOf(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := thisArray(call, "indexOf")
	if err != nil {
		return nil, err
	}
	start, err := argInteger(call, 1, 0)
	if err != nil {
		return nil, err
	}
	for idx := relativeIndex(start, len(arr.Elements)); idx < len(arr.Elements); idx++ {
		if runtime.StrictEquals(arr.Elements[idx], call.Arg(0)) {
			return runtime.Num(float64(idx)), nil
		}
	}
	return runtime.Num(-1), nil
}

func arrayLastIndexOf(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := thisArray(call, "lastIndexOf")
	if err != nil {
		return nil, err
	}
	n := len(arr.Elements)
	start, err := argInteger(call, 1, float64(n-1))
	if err != nil {
		return nil, err
	}
	if start < 0 {
		start += float64(n)
	}
	for idx := int(math.Min(start, float64(n-1))); idx >= 0; idx-- {
		if runtime.StrictEquals(arr.Elements[idx], call.Arg(0)) {
			return runtime.Num(float64(idx)), nil
		}
	}
	return runtime.Num(-1), nil
}

func arrayIncludes(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := thisArray(call, "includes")
	if err != nil {
		return nil, err
	}
	start, err := argInteger(call, 1, 0)
	if err != nil {
		return nil, err
	}
	for idx := relativeIndex(start, len(arr.Elements)); idx < len(arr.Elements); idx++ {
		if runtime.SameValueZero(arr.Elements[idx], call.Arg(0)) {
			return runtime.True, nil
		}
	}
	return runtime.False, nil
}

func arrayFinder(wantIndex, fromEnd bool) runtime.NativeFunc {
	return func(call *runtime.NativeCall) (runtime.Value, error) {
		arr, err := thisArray(call, "find")
		if err != nil {
			return nil, err
		}
		fn, err := argCallable(call, 0)
		if err != nil {
			return nil, err
		}
		n := len(arr.Elements)
		for step := 0; step < n; step++ {
			idx := step
			if fromEnd {
				idx = n - 1 - step
			}
			var el runtime.Value = runtime.Undefined
			if idx < len(arr.Elements) {
				el = arr.Elements[idx]
			}
			ok, err := call.Host.Call(fn, call.Arg(1), []runtime.Value{el, runtime.Num(float64(idx)), arr})
			if err != nil {
				return nil, err
			}
			if runtime.ToBoolean(ok) {
				if wantIndex {
					return runtime.Num(float64(idx)), nil
				}
				return el, nil
			}
		}
		if wantIndex {
			return runtime.Num(-1), nil
		}
		return runtime.Undefined, nil
	}
}

func arrayFilter(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := thisArray(call, "filter")
	if err != nil {
		return nil, err
	}
	fn, err := argCallable(call, 0)
	if err != nil {
		return nil, err
	}
	var out []runtime.Value
	err = visit(call, arr, fn, func(_ int, el, result runtime.Value) (bool, error) {
		if runtime.ToBoolean(result) {
			out = append(out, el)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return call.Realm().NewArray(out), nil
}

func arrayMap(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := thisArray(call, "map")
	if err != nil {
		return nil, err
	}
	fn, err := argCallable(call, 0)
	if err != nil {
		return nil, err
	}
	out := make([]runtime.Value, len(arr.Elements))
	for idx := range out {
		out[idx] = runtime.Undefined
	}
	err = visit(call, arr, fn, func(idx int, _, result runtime.Value) (bool, error) {
		out[idx] = result
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return call.Realm().NewArray(out), nil
}

func arrayForEach(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := thisArray(call, "forEach")
	if err != nil {
		return nil, err
	}
	fn, err := argCallable(call, 0)
	if err != nil {
		return nil, err
	}
	err = visit(call, arr, fn, func(int, runtime.Value, runtime.Value) (bool, error) {
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return runtime.Undefined, nil
}

func arraySome(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := thisArray(call, "some")
	if err != nil {
		return nil, err
	}
	fn, err := argCallable(call, 0)
	if err != nil {
		return nil, err
	}
	found := false
	err = visit(call, arr, fn, func(_ int, _, result runtime.Value) (bool, error) {
		found = runtime.ToBoolean(result)
		return found, nil
	})
	if err != nil {
		return nil, err
	}
	return runtime.Bool(found), nil
}

func arrayEvery(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := thisArray(call, "every")
	if err != nil {
		return nil, err
	}
	fn, err := argCallable(call, 0)
	if err != nil {
		return nil, err
	}
	all := true
	err = visit(call, arr, fn, func(_ int, _, result runtime.Value) (bool, error) {
		all = runtime.ToBoolean(result)
		return !all, nil
	})
	if err != nil {
		return nil, err
	}
	return runtime.Bool(all), nil
}

func arrayReducer(fromEnd bool) runtime.NativeFunc {
	return func(call *runtime.NativeCall) (runtime.Value, error) {
		arr, err := thisArray(call, "reduce")
		if err != nil {
			return nil, err
		}
		fn, err := argCallable(call, 0)
		if err != nil {
			return nil, err
		}
		n := len(arr.Elements)
		order := make([]int, n)
		for step := range order {
			order[step] = step
			if fromEnd {
				order[step] = n - 1 - step
			}
		}
		var acc runtime.Value
		if len(call.Args) > 1 {
			acc = call.Args[1]
		} else {
			if n == 0 {
				return nil, call.Realm().TypeErrorf("Reduce of empty array with no initial value")
			}
			acc = arr.Elements[order[0]]
			order = order[1:]
		}
		for _, idx := range order {
			if idx >= len(arr.Elements) {
				continue
			}
			acc, err = call.Host.Call(fn, runtime.Undefined, []runtime.Value{acc, arr.Elements[idx], runtime.Num(float64(idx)), arr})
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	}
}

// arraySort sorts in place with a stable sort. Undefined sorts last; without
// a comparator elements compare as strings.
func arraySort(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := writableArray(call, "sort")
	if err != nil {
		return nil, err
	}
	var cmp *runtime.Object
	if _, undef := call.Arg(0).(runtime.UndefinedValue); !undef {
		if cmp, err = argCallable(call, 0); err != nil {
			return nil, err
		}
	}
	var defined, undefs []runtime.Value
	for _, el := range arr.Elements {
		if _, undef := el.(runtime.UndefinedValue); undef {
			undefs = append(undefs, el)
			continue
		}
		defined = append(defined, el)
	}
	var sortErr error
	keys := make([]string, len(defined))
	if cmp == nil {
		for idx, el := range defined {
			if keys[idx], err = runtime.ToStringValue(call.Host, el); err != nil {
				return nil, err
			}
		}
	}
	perm := make([]int, len(defined))
	for idx := range perm {
		perm[idx] = idx
	}
	sort.SliceStable(perm, func(a, b int) bool {
		if sortErr != nil {
			return false
		}
		if cmp == nil {
			return keys[perm[a]] < keys[perm[b]]
		}
		result, err := call.Host.Call(cmp, runtime.Undefined, []runtime.Value{defined[perm[a]], defined[perm[b]]})
		if err != nil {
			sortErr = err
			return false
		}
		n, err := runtime.ToNumberValue(call.Host, result)
		if err != nil {
			sortErr = err
			return false
		}
		return n < 0
	})
	if sortErr != nil {
		return nil, sortErr
	}
	sorted := make([]runtime.Value, 0, len(arr.Elements))
	for _, idx := range perm {
		sorted = append(sorted, defined[idx])
	}
	arr.Elements = append(sorted, undefs...)
	return arr, nil
}

func flatten(out []runtime.Value, items []runtime.Value, depth float64) []runtime.Value {
	for _, item := range items {
		if inner, ok := item.(*runtime.Object); ok && inner.IsArray() && depth >= 1 {
			out = flatten(out, inner.Elements, depth-1)
			continue
		}
		out = append(out, item)
	}
	return out
}

func arrayFlat(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := thisArray(call, "flat")
	if err != nil {
		return nil, err
	}
	depth, err := argInteger(call, 0, 1)
	if err != nil {
		return nil, err
	}
	return call.Realm().NewArray(flatten(nil, arr.Elements, depth)), nil
}

func arrayFlatMap(call *runtime.NativeCall) (runtime.Value, error) {
	mapped, err := arrayMap(call)
	if err != nil {
		return nil, err
	}
	return call.Realm().NewArray(flatten(nil, mapped.(*runtime.Object).Elements, 1)), nil
}

func arrayFill(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := writableArray(call, "fill")
	if err != nil {
		return nil, err
	}
	n := len(arr.Elements)
	start, err := argInteger(call, 1, 0)
	if err != nil {
		return nil, err
	}
	end, err := argInteger(call, 2, float64(n))
	if err != nil {
		return nil, err
	}
	for idx := relativeIndex(start, n); idx < relativeIndex(end, n); idx++ {
		arr.Elements[idx] = call.Arg(0)
	}
	return arr, nil
}

func arrayAt(call *runtime.NativeCall) (runtime.Value, error) {
	arr, err := thisArray(call, "at")
	if err != nil {
		return nil, err
	}
	pos, err := argInteger(call, 0, 0)
	if err != nil {
		return nil, err
	}
	n := len(arr.Elements)
	if pos < 0 {
		pos += float64(n)
	}
	if pos < 0 || pos >= float64(n) {
		return runtime.Undefined, nil
	}
	return arr.Elements[int(pos)], nil
}
