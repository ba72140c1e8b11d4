package runtime

import (
	"fmt"
	"io"
	"time"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Primitives
//-----------------------------------------------------------------------------

type UndefinedValue struct{}

func (UndefinedValue) Kind() Kind { return KindUndefined }

type NullValue struct{}

func (NullValue) Kind() Kind { return KindNull }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBoolean }

type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

var (
	Undefined = UndefinedValue{}
	Null      = NullValue{}
	True      = BoolValue{Val: true}
	False     = BoolValue{Val: false}
)

func Num(f float64) NumberValue { return NumberValue{Val: f} }

func Str(s string) StringValue { return StringValue{Val: s} }

func Bool(b bool) BoolValue {
	if b {
		return True
	}
	return False
}

// IsNullish reports undefined or null.
func IsNullish(v Value) bool {
	switch v.(type) {
	case nil, UndefinedValue, NullValue:
		return true
	}
	return false
}

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

// Callable is the behaviour attached to a function object. The interpreter
// supplies closures; NativeFunction covers host-provided functions.
type Callable interface {
	FunctionName() string
}

// NativeFunc implements a host function. call.NewTarget is non-nil when the
// function is invoked with `new`.
type NativeFunc func(call *NativeCall) (Value, error)

type NativeFunction struct {
	Name  string
	Arity int
	Fn    NativeFunc
	// Constructs marks functions that may be used with `new`.
	Constructs bool
}

func (f *NativeFunction) FunctionName() string { return f.Name }

// BoundFunction is produced by Function.prototype.bind.
type BoundFunction struct {
	Target *Object
	This   Value
	Args   []Value
}

func (f *BoundFunction) FunctionName() string {
	return "bound " + f.Target.FunctionName()
}

type NativeCall struct {
	Host      Host
	This      Value
	Args      []Value
	NewTarget *Object
}

// Arg returns the i-th argument or undefined.
func (c *NativeCall) Arg(i int) Value {
	if i < len(c.Args) {
		return c.Args[i]
	}
	return Undefined
}

func (c *NativeCall) Realm() *Realm { return c.Host.Realm() }

// Host is the evaluator surface that native functions call back into.
type Host interface {
	Realm() *Realm
	Call(fn Value, this Value, args []Value) (Value, error)
	Construct(fn Value, args []Value) (Value, error)
	Get(target Value, key string) (Value, error)
	Set(target Value, key string, value Value) error
	Stdout() io.Writer
	Stderr() io.Writer
	Now() time.Time
	// Schedule queues fn on the timer queue and returns its handle.
	Schedule(fn Value, args []Value, delay float64, repeat bool) int
	Cancel(id int)
}
