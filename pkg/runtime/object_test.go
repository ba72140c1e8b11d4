package runtime

import (
	"strings"
	"testing"
)

func TestOwnKeysOrderIntegersFirst(t *testing.T) {
	realm := NewRealm()
	obj := realm.NewObject()
	obj.Put("b", Num(1))
	obj.Put("10", Num(2))
	obj.Put("a", Num(3))
	obj.Put("2", Num(4))
	got := strings.Join(obj.OwnKeys(), ",")
	if got != "2,10,b,a" {
		t.Fatalf("unexpected key order %q", got)
	}
	if !obj.Delete("b") {
		t.Fatalf("delete failed")
	}
	if got := strings.Join(obj.OwnKeys(), ","); got != "2,10,a" {
		t.Fatalf("unexpected key order after delete %q", got)
	}
}

func TestArrayLengthAndIndices(t *testing.T) {
	realm := NewRealm()
	arr := realm.NewArray([]Value{Num(1)})
	arr.Put("3", Num(4))
	if len(arr.Elements) != 4 {
		t.Fatalf("expected length 4, got %d", len(arr.Elements))
	}
	if arr.Elements[1] != Undefined {
		t.Fatalf("expected gap filled with undefined")
	}
	arr.Put("length", Num(2))
	if len(arr.Elements) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(arr.Elements))
	}
	prop, ok := arr.GetOwnProperty("length")
	if !ok || prop.Enumerable || !StrictEquals(prop.Value, Num(2)) {
		t.Fatalf("unexpected length property %#v", prop)
	}
	if keys := arr.EnumerableOwnKeys(); len(keys) != 2 {
		t.Fatalf("length must not be enumerable, got %v", keys)
	}
}

func TestFreezeBlocksWrites(t *testing.T) {
	realm := NewRealm()
	obj := realm.NewObject()
	obj.Put("x", Num(1))
	obj.Freeze()
	if obj.Put("x", Num(2)) || obj.Put("y", Num(3)) {
		t.Fatalf("frozen object accepted a write")
	}
	if obj.Delete("x") {
		t.Fatalf("frozen object allowed delete")
	}
	arr := realm.NewArray([]Value{Num(1)})
	arr.Freeze()
	if arr.Put("0", Num(9)) || arr.Put("1", Num(9)) {
		t.Fatalf("frozen array accepted a write")
	}
}

func TestPrototypeChainLookup(t *testing.T) {
	realm := NewRealm()
	parent := realm.NewObject()
	parent.Put("greet", Str("hi"))
	child := NewObject(parent)
	prop, owner := child.FindProperty("greet")
	if prop == nil || owner != parent {
		t.Fatalf("expected inherited property from parent")
	}
	if !child.InstanceOf(parent) || !child.InstanceOf(realm.ObjectPrototype) {
		t.Fatalf("expected prototype chain membership")
	}
	if keys := child.EnumerableKeys(); len(keys) != 1 || keys[0] != "greet" {
		t.Fatalf("expected inherited enumerable key, got %v", keys)
	}
}

func TestErrorObjects(t *testing.T) {
	realm := NewRealm()
	errObj := realm.NewError("TypeError", "bad thing")
	if !errObj.InstanceOf(realm.ErrorPrototype("Error")) {
		t.Fatalf("TypeError must inherit from Error.prototype")
	}
	if ErrorName(errObj) != "TypeError" || ErrorMessage(errObj) != "bad thing" {
		t.Fatalf("unexpected name/message")
	}
	thrown := &ThrowError{Value: errObj}
	if thrown.Error() != "Uncaught TypeError: bad thing" {
		t.Fatalf("unexpected error text %q", thrown.Error())
	}
}

func TestGoBridgeRoundTrip(t *testing.T) {
	realm := NewRealm()
	v, err := FromGo(realm, map[string]any{"b": []any{1, "x", true}, "a": nil})
	if err != nil {
		t.Fatalf("FromGo failed: %v", err)
	}
	obj := v.(*Object)
	if keys := strings.Join(obj.OwnKeys(), ","); keys != "a,b" {
		t.Fatalf("expected sorted keys, got %q", keys)
	}
	back := ToGo(obj).(map[string]any)
	list := back["b"].([]any)
	if len(list) != 3 || list[0] != float64(1) || list[1] != "x" || list[2] != true {
		t.Fatalf("unexpected round trip %#v", back)
	}
	if _, err := FromGo(realm, struct{}{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
}
