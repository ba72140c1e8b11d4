package runtime

import "testing"

func TestInspectFormatsLikeConsole(t *testing.T) {
	realm := NewRealm()
	obj := realm.NewObject()
	obj.Put("a", Num(1))
	obj.Put("b-c", Str("x"))
	obj.Put("list", realm.NewArray([]Value{Num(1), Str("two"), Null}))
	want := "{ a: 1, 'b-c': 'x', list: [ 1, 'two', null ] }"
	if got := Inspect(obj); got != want {
		t.Fatalf("Inspect = %q, want %q", got, want)
	}
	if got := Inspect(realm.NewArray(nil)); got != "[]" {
		t.Fatalf("expected empty array, got %q", got)
	}
	if got := Inspect(realm.NewObject()); got != "{}" {
		t.Fatalf("expected empty object, got %q", got)
	}
	if got := Inspect(Str("it's")); got != `"it's"` {
		t.Fatalf("unexpected quoting %q", got)
	}
}

func TestInspectFunctionsAndCycles(t *testing.T) {
	realm := NewRealm()
	named := realm.NewNativeFunction("add", 2, func(*NativeCall) (Value, error) { return Undefined, nil })
	if got := Inspect(named); got != "[Function: add]" {
		t.Fatalf("unexpected function rendering %q", got)
	}
	anon := realm.NewNativeFunction("", 0, func(*NativeCall) (Value, error) { return Undefined, nil })
	if got := Inspect(anon); got != "[Function (anonymous)]" {
		t.Fatalf("unexpected anonymous rendering %q", got)
	}
	self := realm.NewObject()
	self.Put("self", self)
	if got := Inspect(self); got != "{ self: [Circular *1] }" {
		t.Fatalf("unexpected cycle rendering %q", got)
	}
}

func TestInspectDepthLimit(t *testing.T) {
	realm := NewRealm()
	inner := realm.NewObject()
	inner.Put("deep", Num(1))
	l3 := realm.NewObject()
	l3.Put("c", inner)
	l2 := realm.NewObject()
	l2.Put("b", l3)
	l1 := realm.NewObject()
	l1.Put("a", l2)
	if got := Inspect(l1); got != "{ a: { b: { c: [Object] } } }" {
		t.Fatalf("unexpected depth rendering %q", got)
	}
}

func TestInspectAccessors(t *testing.T) {
	realm := NewRealm()
	getter := realm.NewNativeFunction("get", 0, func(*NativeCall) (Value, error) { return Num(1), nil })
	obj := realm.NewObject()
	obj.DefineOwnProperty("v", &Property{Getter: getter, Enumerable: true, Configurable: true})
	if got := Inspect(obj); got != "{ v: [Getter] }" {
		t.Fatalf("unexpected accessor rendering %q", got)
	}
}
