package runtime

import "fmt"

// ErrorNames lists the built-in error constructors, base first.
var ErrorNames = []string{"Error", "TypeError", "ReferenceError", "RangeError", "SyntaxError", "EvalError", "URIError"}

// Realm owns the intrinsic prototypes of one execution. Nothing is shared
// between realms, so separate executions cannot observe each other's
// prototype mutations.
type Realm struct {
	ObjectPrototype   *Object
	FunctionPrototype *Object
	ArrayPrototype    *Object
	StringPrototype   *Object
	NumberPrototype   *Object
	BooleanPrototype  *Object
	RegExpPrototype   *Object
	DatePrototype     *Object

	errorPrototypes map[string]*Object
}

func NewRealm() *Realm {
	r := &Realm{errorPrototypes: make(map[string]*Object)}
	r.ObjectPrototype = NewObject(nil)
	r.FunctionPrototype = NewObject(r.ObjectPrototype)
	r.FunctionPrototype.Class = ClassFunction
	r.FunctionPrototype.Callable = &NativeFunction{Name: "", Fn: func(*NativeCall) (Value, error) { return Undefined, nil }}
	r.ArrayPrototype = NewObject(r.ObjectPrototype)
	r.StringPrototype = NewObject(r.ObjectPrototype)
	r.NumberPrototype = NewObject(r.ObjectPrototype)
	r.BooleanPrototype = NewObject(r.ObjectPrototype)
	r.RegExpPrototype = NewObject(r.ObjectPrototype)
	r.DatePrototype = NewObject(r.ObjectPrototype)
	base := NewObject(r.ObjectPrototype)
	base.SetHidden("name", Str("Error"))
	base.SetHidden("message", Str(""))
	r.errorPrototypes["Error"] = base
	for _, name := range ErrorNames[1:] {
		proto := NewObject(base)
		proto.SetHidden("name", Str(name))
		proto.SetHidden("message", Str(""))
		r.errorPrototypes[name] = proto
	}
	return r
}

// ErrorPrototype returns the prototype for a built-in error name, falling
// back to Error.prototype.
func (r *Realm) ErrorPrototype(name string) *Object {
	if proto, ok := r.errorPrototypes[name]; ok {
		return proto
	}
	return r.errorPrototypes["Error"]
}

func (r *Realm) NewObject() *Object {
	return NewObject(r.ObjectPrototype)
}

func (r *Realm) NewArray(elements []Value) *Object {
	obj := NewObject(r.ArrayPrototype)
	obj.Class = ClassArray
	if elements == nil {
		elements = []Value{}
	}
	obj.Elements = elements
	return obj
}

// NewFunctionObject wraps a Callable in a function object carrying name and
// length.
func (r *Realm) NewFunctionObject(c Callable, name string, length int) *Object {
	obj := NewObject(r.FunctionPrototype)
	obj.Class = ClassFunction
	obj.Callable = c
	obj.DefineOwnProperty("length", &Property{Value: Num(float64(length)), Configurable: true})
	obj.DefineOwnProperty("name", &Property{Value: Str(name), Configurable: true})
	return obj
}

func (r *Realm) NewNativeFunction(name string, arity int, fn NativeFunc) *Object {
	return r.NewFunctionObject(&NativeFunction{Name: name, Arity: arity, Fn: fn}, name, arity)
}

// NewConstructor builds a native function usable with `new`, wiring
// prototype.constructor back to it.
func (r *Realm) NewConstructor(name string, arity int, proto *Object, fn NativeFunc) *Object {
	ctor := r.NewFunctionObject(&NativeFunction{Name: name, Arity: arity, Fn: fn, Constructs: true}, name, arity)
	if proto != nil {
		ctor.DefineOwnProperty("prototype", &Property{Value: proto})
		proto.SetHidden("constructor", ctor)
	}
	return ctor
}

// NewError creates an Error-family object with a message and a stack line.
func (r *Realm) NewError(name, message string) *Object {
	obj := NewObject(r.ErrorPrototype(name))
	obj.Class = ClassError
	if message != "" {
		obj.SetHidden("message", Str(message))
	}
	stack := name
	if message != "" {
		stack += ": " + message
	}
	obj.SetHidden("stack", Str(stack+"\n    at <anonymous>"))
	return obj
}

// PrototypeFor returns the prototype consulted for member access on v.
func (r *Realm) PrototypeFor(v Value) *Object {
	switch val := v.(type) {
	case *Object:
		return val.Proto
	case StringValue:
		return r.StringPrototype
	case NumberValue:
		return r.NumberPrototype
	case BoolValue:
		return r.BooleanPrototype
	default:
		return nil
	}
}

func (r *Realm) Throw(name, format string, args ...any) error {
	return &ThrowError{Value: r.NewError(name, fmt.Sprintf(format, args...))}
}

func (r *Realm) TypeErrorf(format string, args ...any) error {
	return r.Throw("TypeError", format, args...)
}

func (r *Realm) ReferenceErrorf(format string, args ...any) error {
	return r.Throw("ReferenceError", format, args...)
}

func (r *Realm) RangeErrorf(format string, args ...any) error {
	return r.Throw("RangeError", format, args...)
}

func (r *Realm) SyntaxErrorf(format string, args ...any) error {
	return r.Throw("SyntaxError", format, args...)
}

// ThrowError carries an interpreted-program exception value through Go's
// error channel.
type ThrowError struct {
	Value Value
}

func (e *ThrowError) Error() string {
	return "Uncaught " + DescribeThrown(e.Value)
}

// DescribeThrown renders a thrown value the way an uncaught report shows it.
func DescribeThrown(v Value) string {
	if obj, ok := v.(*Object); ok && obj.Class == ClassError {
		name := "Error"
		if p, _ := obj.FindProperty("name"); p != nil && !p.IsAccessor() {
			name = ToString(p.Value)
		}
		msg := ""
		if p, _ := obj.FindProperty("message"); p != nil && !p.IsAccessor() {
			msg = ToString(p.Value)
		}
		if msg == "" {
			return name
		}
		return name + ": " + msg
	}
	return Inspect(v)
}

// ErrorName reports the `name` of an Error-family value, or "" when v is not
// an error object.
func ErrorName(v Value) string {
	obj, ok := v.(*Object)
	if !ok || obj.Class != ClassError {
		return ""
	}
	if p, _ := obj.FindProperty("name"); p != nil && !p.IsAccessor() {
		return ToString(p.Value)
	}
	return ""
}

// ErrorMessage reports the `message` of an Error-family value.
func ErrorMessage(v Value) string {
	obj, ok := v.(*Object)
	if !ok {
		return ""
	}
	if p, _ := obj.FindProperty("message"); p != nil && !p.IsAccessor() {
		return ToString(p.Value)
	}
	return ""
}
