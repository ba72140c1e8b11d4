package stdlib

import (
	"math"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

func installObject(realm *runtime.Realm, g map[string]runtime.Value) {
	ctor := realm.NewConstructor("Object", 1, realm.ObjectPrototype, func(call *runtime.NativeCall) (runtime.Value, error) {
		if runtime.IsNullish(call.Arg(0)) {
			return call.Realm().NewObject(), nil
		}
		return toObject(call, call.Arg(0))
	})
	defineMethods(realm, ctor, []method{
		{"keys", 1, objectKeys},
		{"values", 1, objectValues},
		{"entries", 1, objectEntries},
		{"assign", 2, objectAssign},
		{"freeze", 1, objectFreeze},
		{"isFrozen", 1, objectIsFrozen},
		{"create", 2, objectCreate},
		{"defineProperty", 3, objectDefineProperty},
		{"defineProperties", 2, objectDefineProperties},
		{"getOwnPropertyNames", 1, objectGetOwnPropertyNames},
		{"getOwnPropertyDescriptor", 2, objectGetOwnPropertyDescriptor},
		{"getPrototypeOf", 1, objectGetPrototypeOf},
		{"setPrototypeOf", 2, objectSetPrototypeOf},
		{"fromEntries", 1, objectFromEntries},
		{"is", 2, objectIs},
	})
	defineMethods(realm, realm.ObjectPrototype, []method{
		{"hasOwnProperty", 1, objectHasOwnProperty},
		{"isPrototypeOf", 1, objectIsPrototypeOf},
		{"propertyIsEnumerable", 1, objectPropertyIsEnumerable},
		{"toString", 0, objectToString},
		{"toLocaleString", 0, objectToString},
		{"valueOf", 0, func(call *runtime.NativeCall) (runtime.Value, error) {
			return toObject(call, call.This)
		}},
	})
	g["Object"] = ctor
}

func ownEnumerable(call *runtime.NativeCall) (*runtime.Object, []string, error) {
	obj, err := toObject(call, call.Arg(0))
	if err != nil {
		return nil, nil, err
	}
	return obj, obj.EnumerableOwnKeys(), nil
}

func objectKeys(call *runtime.NativeCall) (runtime.Value, error) {
	_, keys, err := ownEnumerable(call)
	if err != nil {
		return nil, err
	}
	out := make([]runtime.Value, len(keys))
	for idx, k := range keys {
		out[idx] = runtime.Str(k)
	}
	return call.Realm().NewArray(out), nil
}

func objectValues(call *runtime.NativeCall) (runtime.Value, error) {
	obj, keys, err := ownEnumerable(call)
	if err != nil {
		return nil, err
	}
	out := make([]runtime.Value, 0, len(keys))
	for _, k := range keys {
		v, err := call.Host.Get(obj, k)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return call.Realm().NewArray(out), nil
}

func objectEntries(call *runtime.NativeCall) (runtime.Value, error) {
	obj, keys, err := ownEnumerable(call)
	if err != nil {
		return nil, err
	}
	realm := call.Realm()
	out := make([]runtime.Value, 0, len(keys))
	for _, k := range keys {
		v, err := call.Host.Get(obj, k)
		if err != nil {
			return nil, err
		}
		out = append(out, realm.NewArray([]runtime.Value{runtime.Str(k), v}))
	}
	return realm.NewArray(out), nil
}

func objectAssign(call *runtime.NativeCall) (runtime.Value, error) {
	target, err := toObject(call, call.Arg(0))
	if err != nil {
		return nil, err
	}
	for _, src := range call.Args[min(1, len(call.Args)):] {
		if runtime.IsNullish(src) {
			continue
		}
		from, err := toObject(call, src)
		if err != nil {
			return nil, err
		}
		for _, k := range from.EnumerableOwnKeys() {
			v, err := call.Host.Get(from, k)
			if err != nil {
				return nil, err
			}
			if err := call.Host.Set(target, k, v); err != nil {
				return nil, err
			}
		}
	}
	return target, nil
}

func objectFreeze(call *runtime.NativeCall) (runtime.Value, error) {
	if obj, ok := call.Arg(0).(*runtime.Object); ok {
		obj.Freeze()
	}
	return call.Arg(0), nil
}

func objectIsFrozen(call *runtime.NativeCall) (runtime.Value, error) {
	obj, ok := call.Arg(0).(*runtime.Object)
	if !ok {
		return runtime.True, nil
	}
	return runtime.Bool(obj.IsFrozen()), nil
}

func objectCreate(call *runtime.NativeCall) (runtime.Value, error) {
	var proto *runtime.Object
	switch p := call.Arg(0).(type) {
	case *runtime.Object:
		proto = p
	case runtime.NullValue:
	default:
		return nil, call.Realm().TypeErrorf("Object prototype may only be an Object or null: %s", runtime.Inspect(p))
	}
	obj := runtime.NewObject(proto)
	if props, ok := call.Arg(1).(*runtime.Object); ok {
		if err := defineFromDescriptors(call, obj, props); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func objectDefineProperty(call *runtime.NativeCall) (runtime.Value, error) {
	obj, ok := call.Arg(0).(*runtime.Object)
	if !ok {
		return nil, call.Realm().TypeErrorf("Object.defineProperty called on non-object")
	}
	key, err := runtime.ToPropertyKey(call.Host, call.Arg(1))
	if err != nil {
		return nil, err
	}
	desc, ok := call.Arg(2).(*runtime.Object)
	if !ok {
		return nil, call.Realm().TypeErrorf("Property description must be an object: %s", runtime.Inspect(call.Arg(2)))
	}
	if err := defineFromDescriptor(call, obj, key, desc); err != nil {
		return nil, err
	}
	return obj, nil
}

func objectDefineProperties(call *runtime.NativeCall) (runtime.Value, error) {
	obj, ok := call.Arg(0).(*runtime.Object)
	if !ok {
		return nil, call.Realm().TypeErrorf("Object.defineProperties called on non-object")
	}
	props, ok := call.Arg(1).(*runtime.Object)
	if !ok {
		return nil, call.Realm().TypeErrorf("Property descriptors must be an object")
	}
	if err := defineFromDescriptors(call, obj, props); err != nil {
		return nil, err
	}
	return obj, nil
}

func defineFromDescriptors(call *runtime.NativeCall, obj, props *runtime.Object) error {
	for _, key := range props.EnumerableOwnKeys() {
		descVal, err := call.Host.Get(props, key)
		if err != nil {
			return err
		}
		desc, ok := descVal.(*runtime.Object)
		if !ok {
			return call.Realm().TypeErrorf("Property description must be an object: %s", runtime.Inspect(descVal))
		}
		if err := defineFromDescriptor(call, obj, key, desc); err != nil {
			return err
		}
	}
	return nil
}

// defineFromDescriptor applies a property descriptor object. Absent
// attributes keep their current value, or default to false for new keys.
func defineFromDescriptor(call *runtime.NativeCall, obj *runtime.Object, key string, desc *runtime.Object) error {
	prop := &runtime.Property{Value: runtime.Undefined}
	if existing, ok := obj.GetOwnProperty(key); ok {
		copied := *existing
		prop = &copied
	}
	flag := func(name string, dst *bool) error {
		if !desc.HasProperty(name) {
			return nil
		}
		v, err := call.Host.Get(desc, name)
		if err != nil {
			return err
		}
		*dst = runtime.ToBoolean(v)
		return nil
	}
	if err := flag("enumerable", &prop.Enumerable); err != nil {
		return err
	}
	if err := flag("configurable", &prop.Configurable); err != nil {
		return err
	}
	accessor := false
	for _, name := range []string{"get", "set"} {
		if !desc.HasProperty(name) {
			continue
		}
		v, err := call.Host.Get(desc, name)
		if err != nil {
			return err
		}
		fn, ok := v.(*runtime.Object)
		if _, undef := v.(runtime.UndefinedValue); !undef && (!ok || !fn.IsCallable()) {
			return call.Realm().TypeErrorf("%s must be a function: %s", name, runtime.Inspect(v))
		}
		if !ok {
			fn = nil
		}
		accessor = true
		if name == "get" {
			prop.Getter = fn
		} else {
			prop.Setter = fn
		}
	}
	if accessor {
		if desc.HasProperty("value") || desc.HasProperty("writable") {
			return call.Realm().TypeErrorf("Invalid property descriptor. Cannot both specify accessors and a value or writable attribute")
		}
		prop.Value = nil
		prop.Writable = false
	} else {
		if desc.HasProperty("value") {
			v, err := call.Host.Get(desc, "value")
			if err != nil {
				return err
			}
			prop.Value = v
			prop.Getter, prop.Setter = nil, nil
		}
		if err := flag("writable", &prop.Writable); err != nil {
			return err
		}
	}
	if !obj.DefineOwnProperty(key, prop) {
		return call.Realm().TypeErrorf("Cannot redefine property: %s", key)
	}
	return nil
}

func objectGetOwnPropertyNames(call *runtime.NativeCall) (runtime.Value, error) {
	obj, err := toObject(call, call.Arg(0))
	if err != nil {
		return nil, err
	}
	keys := obj.OwnKeys()
	out := make([]runtime.Value, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, runtime.Str(k))
	}
	if obj.IsArray() {
		out = append(out, runtime.Str("length"))
	}
	return call.Realm().NewArray(out), nil
}

func objectGetOwnPropertyDescriptor(call *runtime.NativeCall) (runtime.Value, error) {
	obj, err := toObject(call, call.Arg(0))
	if err != nil {
		return nil, err
	}
	key, err := runtime.ToPropertyKey(call.Host, call.Arg(1))
	if err != nil {
		return nil, err
	}
	prop, ok := obj.GetOwnProperty(key)
	if !ok {
		return runtime.Undefined, nil
	}
	desc := call.Realm().NewObject()
	if prop.IsAccessor() {
		desc.Put("get", functionOrUndefined(prop.Getter))
		desc.Put("set", functionOrUndefined(prop.Setter))
	} else {
		desc.Put("value", prop.Value)
		desc.Put("writable", runtime.Bool(prop.Writable))
	}
	desc.Put("enumerable", runtime.Bool(prop.Enumerable))
	desc.Put("configurable", runtime.Bool(prop.Configurable))
	return desc, nil
}

func functionOrUndefined(fn *runtime.Object) runtime.Value {
	if fn == nil {
		return runtime.Undefined
	}
	return fn
}

func objectGetPrototypeOf(call *runtime.NativeCall) (runtime.Value, error) {
	if _, ok := call.Arg(0).(*runtime.Object); !ok {
		if runtime.IsNullish(call.Arg(0)) {
			return nil, call.Realm().TypeErrorf("Cannot convert undefined or null to object")
		}
		return call.Realm().PrototypeFor(call.Arg(0)), nil
	}
	proto := call.Arg(0).(*runtime.Object).Proto
	if proto == nil {
		return runtime.Null, nil
	}
	return proto, nil
}

func objectSetPrototypeOf(call *runtime.NativeCall) (runtime.Value, error) {
	obj, ok := call.Arg(0).(*runtime.Object)
	if !ok {
		return call.Arg(0), nil
	}
	switch p := call.Arg(1).(type) {
	case *runtime.Object:
		for walk := p; walk != nil; walk = walk.Proto {
			if walk == obj {
				return nil, call.Realm().TypeErrorf("Cyclic __proto__ value")
			}
		}
		obj.Proto = p
	case runtime.NullValue:
		obj.Proto = nil
	default:
		return nil, call.Realm().TypeErrorf("Object prototype may only be an Object or null: %s", runtime.Inspect(p))
	}
	return obj, nil
}

func objectFromEntries(call *runtime.NativeCall) (runtime.Value, error) {
	list, ok := call.Arg(0).(*runtime.Object)
	if !ok || !list.IsArray() {
		return nil, call.Realm().TypeErrorf("%s is not iterable", runtime.Inspect(call.Arg(0)))
	}
	out := call.Realm().NewObject()
	for _, entry := range list.Elements {
		pair, ok := entry.(*runtime.Object)
		if !ok {
			return nil, call.Realm().TypeErrorf("Iterator value %s is not an entry object", runtime.Inspect(entry))
		}
		k, err := call.Host.Get(pair, "0")
		if err != nil {
			return nil, err
		}
		v, err := call.Host.Get(pair, "1")
		if err != nil {
			return nil, err
		}
		key, err := runtime.ToPropertyKey(call.Host, k)
		if err != nil {
			return nil, err
		}
		out.Put(key, v)
	}
	return out, nil
}

func objectIs(call *runtime.NativeCall) (runtime.Value, error) {
	a, b := call.Arg(0), call.Arg(1)
	an, aok := a.(runtime.NumberValue)
	bn, bok := b.(runtime.NumberValue)
	if aok && bok && an.Val == 0 && bn.Val == 0 {
		return runtime.Bool(math.Signbit(an.Val) == math.Signbit(bn.Val)), nil
	}
	return runtime.Bool(runtime.SameValueZero(a, b)), nil
}

func objectHasOwnProperty(call *runtime.NativeCall) (runtime.Value, error) {
	obj, err := toObject(call, call.This)
	if err != nil {
		return nil, err
	}
	key, err := runtime.ToPropertyKey(call.Host, call.Arg(0))
	if err != nil {
		return nil, err
	}
	return runtime.Bool(obj.HasOwnProperty(key)), nil
}

func objectIsPrototypeOf(call *runtime.NativeCall) (runtime.Value, error) {
	proto, ok := call.This.(*runtime.Object)
	target, tok := call.Arg(0).(*runtime.Object)
	if !ok || !tok {
		return runtime.False, nil
	}
	return runtime.Bool(target.InstanceOf(proto)), nil
}

func objectPropertyIsEnumerable(call *runtime.NativeCall) (runtime.Value, error) {
	obj, err := toObject(call, call.This)
	if err != nil {
		return nil, err
	}
	key, err := runtime.ToPropertyKey(call.Host, call.Arg(0))
	if err != nil {
		return nil, err
	}
	prop, ok := obj.GetOwnProperty(key)
	return runtime.Bool(ok && prop.Enumerable), nil
}

func objectToString(call *runtime.NativeCall) (runtime.Value, error) {
	switch v := call.This.(type) {
	case runtime.UndefinedValue:
		return runtime.Str("[object Undefined]"), nil
	case runtime.NullValue:
		return runtime.Str("[object Null]"), nil
	case *runtime.Object:
		tag := string(v.Class)
		if v.IsCallable() {
			tag = "Function"
		}
		return runtime.Str("[object " + tag + "]"), nil
	case runtime.StringValue:
		return runtime.Str("[object String]"), nil
	case runtime.NumberValue:
		return runtime.Str("[object Number]"), nil
	default:
		return runtime.Str("[object Boolean]"), nil
	}
}
