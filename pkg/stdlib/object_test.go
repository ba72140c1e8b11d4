package stdlib_test

import "testing"

func TestObjectEnumeration(t *testing.T) {
	checkEval(t, []evalCase{
		{`Object.keys({ b: 1, 2: "x", a: 2, 1: "y" })`, []any{"1", "2", "b", "a"}},
		{`Object.values({ a: 1, b: [2] })`, []any{1.0, []any{2.0}}},
		{`Object.entries({ a: 1, b: "x" })`, []any{[]any{"a", 1.0}, []any{"b", "x"}}},
		{`Object.keys([7, 8])`, []any{"0", "1"}},
		{`Object.getOwnPropertyNames([7])`, []any{"0", "length"}},
		{`Object.fromEntries([["a", 1], ["b", 2]])`, map[string]any{"a": 1.0, "b": 2.0}},
		{`Object.fromEntries(Object.entries({ x: 1, y: 2 }).map(function (e) { return [e[0].toUpperCase(), e[1] * 2]; }))`, map[string]any{"X": 2.0, "Y": 4.0}},
		{`Object.assign({ a: 1 }, null, { b: 2 }, { a: 3 })`, map[string]any{"a": 3.0, "b": 2.0}},
	})
	if got := thrown(t, `Object.keys(null)`); got != "TypeError: Cannot convert undefined or null to object" {
		t.Fatalf("unexpected %s", got)
	}
}

func TestObjectDefineProperty(t *testing.T) {
	checkEval(t, []evalCase{
		{`(function () {
  var o = {};
  Object.defineProperty(o, "hidden", { value: 1 });
  return [Object.keys(o).length, o.hidden, o.propertyIsEnumerable("hidden"), o.hasOwnProperty("hidden")];
})()`, []any{0.0, 1.0, false, true}},
		{`(function () {
  var o = { _v: 2 };
  Object.defineProperty(o, "double", { get: function () { return this._v * 2; }, enumerable: true });
  return o.double;
})()`, 4.0},
		{`(function () {
  var d = Object.getOwnPropertyDescriptor({ a: 1 }, "a");
  return [d.value, d.writable, d.enumerable, d.configurable];
})()`, []any{1.0, true, true, true}},
		{`Object.getOwnPropertyDescriptor({}, "missing")`, nil},
		{`(function () {
  var o = Object.defineProperties({}, { a: { value: 1, enumerable: true }, b: { value: 2 } });
  return Object.keys(o);
})()`, []any{"a"}},
	})
	cases := []struct {
		src  string
		want string
	}{
		{
			`Object.defineProperty({}, "x", { get: function () {}, value: 1 })`,
			"TypeError: Invalid property descriptor. Cannot both specify accessors and a value or writable attribute",
		},
		{
			`Object.defineProperty({}, "x", 5)`,
			"TypeError: Property description must be an object: 5",
		},
		{
			`var o = {}; Object.defineProperty(o, "x", { value: 1 }); Object.defineProperty(o, "x", { value: 2 });`,
			"TypeError: Cannot redefine property: x",
		},
		{
			`var o = {}; Object.defineProperty(o, "x", { value: 1 }); o.x = 2;`,
			"TypeError: Cannot assign to read only property 'x' of object '#<Object>'",
		},
		{
			`var o = {}; Object.defineProperty(o, "x", { get: function () { return 1; } }); o.x = 2;`,
			"TypeError: Cannot set property x of #<Object> which has only a getter",
		},
	}
	for _, tc := range cases {
		if got := thrown(t, tc.src); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.src, tc.want, got)
		}
	}
}

func TestObjectPrototypes(t *testing.T) {
	checkEval(t, []evalCase{
		{`Object.getPrototypeOf(Object.create(null))`, nil},
		{`(function () { var base = { greet: function () { return "hi " + this.n; } }; var o = Object.create(base); o.n = "x"; return o.greet(); })()`, "hi x"},
		{`Object.getPrototypeOf([]) === Array.prototype && Object.getPrototypeOf("s") === String.prototype`, true},
		{`(function () { var o = Object.setPrototypeOf({}, { inherited: 1 }); return [o.inherited, Object.keys(o).length]; })()`, []any{1.0, 0.0}},
		{`Array.prototype.isPrototypeOf([]) && !Array.prototype.isPrototypeOf({})`, true},
		{`({}).toString() + Object.prototype.toString.call([]) + Object.prototype.toString.call(null)`, "[object Object][object Array][object Null]"},
		{`typeof Object("s") + typeof Object(null)`, "objectobject"},
		{`Object.is(NaN, NaN) && !Object.is(0, -0) && Object.is("a", "a")`, true},
	})
	if got := thrown(t, `var a = {}; var b = Object.create(a); Object.setPrototypeOf(a, b);`); got != "TypeError: Cyclic __proto__ value" {
		t.Fatalf("unexpected %s", got)
	}
}

func TestObjectFreeze(t *testing.T) {
	checkEval(t, []evalCase{
		{`Object.isFrozen(Object.freeze({ a: 1 })) && !Object.isFrozen({}) && Object.isFrozen(1)`, true},
	})
	if got := thrown(t, `var o = Object.freeze({ a: 1 }); o.a = 2;`); got != "TypeError: Cannot assign to read only property 'a' of object '#<Object>'" {
		t.Fatalf("unexpected %s", got)
	}
	if got := thrown(t, `var o = Object.freeze({}); o.b = 2;`); got != "TypeError: Cannot add property b, object is not extensible" {
		t.Fatalf("unexpected %s", got)
	}
}
