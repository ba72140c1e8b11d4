package runtime

import (
	"fmt"
	"math"
	"sort"
)

// FromGo converts plain Go data (as produced by encoding/json or yaml.v3)
// into runtime values. Map keys are sorted so the resulting object has a
// deterministic key order.
func FromGo(realm *Realm, v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null, nil
	case Value:
		return val, nil
	case NativeFunc:
		return realm.NewNativeFunction("", 0, val), nil
	case func(*NativeCall) (Value, error):
		return realm.NewNativeFunction("", 0, val), nil
	case bool:
		return Bool(val), nil
	case string:
		return Str(val), nil
	case int:
		return Num(float64(val)), nil
	case int32:
		return Num(float64(val)), nil
	case int64:
		return Num(float64(val)), nil
	case uint:
		return Num(float64(val)), nil
	case uint64:
		return Num(float64(val)), nil
	case float32:
		return Num(float64(val)), nil
	case float64:
		return Num(val), nil
	case []any:
		elems := make([]Value, 0, len(val))
		for _, item := range val {
			conv, err := FromGo(realm, item)
			if err != nil {
				return nil, err
			}
			elems = append(elems, conv)
		}
		return realm.NewArray(elems), nil
	case []string:
		elems := make([]Value, 0, len(val))
		for _, item := range val {
			elems = append(elems, Str(item))
		}
		return realm.NewArray(elems), nil
	case map[string]any:
		obj := realm.NewObject()
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			conv, err := FromGo(realm, val[k])
			if err != nil {
				return nil, err
			}
			obj.Put(k, conv)
		}
		return obj, nil
	case map[string]string:
		obj := realm.NewObject()
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			obj.Put(k, Str(val[k]))
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("runtime: cannot convert %T to a value", v)
	}
}

// ToGo converts a runtime value to plain Go data: nil, bool, float64,
// string, []any or map[string]any. Functions, cycles and non-finite numbers
// become nil, matching what JSON can carry.
func ToGo(v Value) any {
	return toGo(v, make(map[*Object]bool))
}

func toGo(v Value, seen map[*Object]bool) any {
	switch val := v.(type) {
	case nil, UndefinedValue, NullValue:
		return nil
	case BoolValue:
		return val.Val
	case NumberValue:
		if math.IsNaN(val.Val) || math.IsInf(val.Val, 0) {
			return nil
		}
		return val.Val
	case StringValue:
		return val.Val
	case *Object:
		if seen[val] || val.IsCallable() {
			return nil
		}
		seen[val] = true
		defer delete(seen, val)
		if val.hasElements() {
			out := make([]any, 0, len(val.Elements))
			for _, el := range val.Elements {
				out = append(out, toGo(el, seen))
			}
			return out
		}
		if prim, ok := val.Internal.(Value); ok {
			return toGo(prim, seen)
		}
		out := make(map[string]any)
		for _, k := range val.EnumerableOwnKeys() {
			prop, _ := val.GetOwnProperty(k)
			if prop.IsAccessor() {
				continue
			}
			out[k] = toGo(prop.Value, seen)
		}
		return out
	default:
		return nil
	}
}
