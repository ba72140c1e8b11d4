package runtime

import (
	"sort"
	"strconv"
)

// Class names the internal flavour of an object.
type Class string

const (
	ClassObject    Class = "Object"
	ClassArray     Class = "Array"
	ClassFunction  Class = "Function"
	ClassError     Class = "Error"
	ClassArguments Class = "Arguments"
	ClassRegExp    Class = "RegExp"
	ClassDate      Class = "Date"
	ClassBoolean   Class = "Boolean"
	ClassNumber    Class = "Number"
	ClassString    Class = "String"
)

// Property is either a data property (Value) or an accessor (Getter/Setter).
type Property struct {
	Value        Value
	Getter       *Object
	Setter       *Object
	Enumerable   bool
	Writable     bool
	Configurable bool
}

func (p *Property) IsAccessor() bool {
	return p.Getter != nil || p.Setter != nil
}

// DataProperty is the attribute set of a property created by assignment.
func DataProperty(v Value) *Property {
	return &Property{Value: v, Enumerable: true, Writable: true, Configurable: true}
}

// HiddenProperty is a writable, non-enumerable data property (methods,
// message, length of functions).
func HiddenProperty(v Value) *Property {
	return &Property{Value: v, Writable: true, Configurable: true}
}

type Object struct {
	Class      Class
	Proto      *Object
	Extensible bool
	// Elements is the dense storage for arrays and arguments objects.
	Elements []Value
	Callable Callable
	// Internal holds per-class state: compiled RegExp, Date time, wrapped primitive.
	Internal any

	props  map[string]*Property
	keys   []string
	frozen bool
}

func (o *Object) Kind() Kind { return KindObject }

// NewObject allocates an ordinary extensible object.
func NewObject(proto *Object) *Object {
	return &Object{Class: ClassObject, Proto: proto, Extensible: true, props: make(map[string]*Property)}
}

func (o *Object) IsArray() bool { return o.Class == ClassArray }

func (o *Object) hasElements() bool {
	return o.Class == ClassArray || o.Class == ClassArguments
}

func (o *Object) IsCallable() bool { return o.Callable != nil }

func (o *Object) FunctionName() string {
	if o.Callable == nil {
		return ""
	}
	if p, ok := o.props["name"]; ok && !p.IsAccessor() {
		if s, ok := p.Value.(StringValue); ok {
			return s.Val
		}
	}
	return o.Callable.FunctionName()
}

// ArrayIndex parses key as a canonical array index.
func ArrayIndex(key string) (int, bool) {
	if key == "" || len(key) > 10 || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n == 1<<32-1 {
		return 0, false
	}
	return int(n), true
}

// GetOwnProperty returns the property stored directly on o.
func (o *Object) GetOwnProperty(key string) (*Property, bool) {
	if o.hasElements() {
		if key == "length" && o.Class == ClassArray {
			return &Property{Value: Num(float64(len(o.Elements))), Writable: !o.frozen}, true
		}
		if idx, ok := ArrayIndex(key); ok {
			if idx < len(o.Elements) {
				return &Property{Value: o.Elements[idx], Enumerable: true, Writable: !o.frozen, Configurable: !o.frozen}, true
			}
			return nil, false
		}
	}
	p, ok := o.props[key]
	return p, ok
}

// FindProperty walks the prototype chain and returns the property together
// with the object that owns it.
func (o *Object) FindProperty(key string) (*Property, *Object) {
	for obj := o; obj != nil; obj = obj.Proto {
		if p, ok := obj.GetOwnProperty(key); ok {
			return p, obj
		}
	}
	return nil, nil
}

func (o *Object) HasProperty(key string) bool {
	p, _ := o.FindProperty(key)
	return p != nil
}

func (o *Object) HasOwnProperty(key string) bool {
	_, ok := o.GetOwnProperty(key)
	return ok
}

// DefineOwnProperty installs prop under key. It fails on non-extensible
// objects for new keys and on non-configurable existing keys.
func (o *Object) DefineOwnProperty(key string, prop *Property) bool {
	if o.hasElements() {
		if key == "length" && o.Class == ClassArray {
			if prop.IsAccessor() {
				return false
			}
			return o.setLength(prop.Value)
		}
		if idx, ok := ArrayIndex(key); ok && !prop.IsAccessor() {
			return o.setElement(idx, prop.Value)
		}
	}
	existing, ok := o.props[key]
	if ok {
		if !existing.Configurable {
			return false
		}
		o.props[key] = prop
		return true
	}
	if !o.Extensible {
		return false
	}
	if o.props == nil {
		o.props = make(map[string]*Property)
	}
	o.props[key] = prop
	o.keys = append(o.keys, key)
	return true
}

// Put writes a data value directly on o without consulting setters on the
// prototype chain; the evaluator handles accessors before calling Put.
func (o *Object) Put(key string, value Value) bool {
	if value == nil {
		value = Undefined
	}
	if o.hasElements() {
		if key == "length" && o.Class == ClassArray {
			return o.setLength(value)
		}
		if idx, ok := ArrayIndex(key); ok {
			return o.setElement(idx, value)
		}
	}
	if existing, ok := o.props[key]; ok {
		if existing.IsAccessor() || !existing.Writable {
			return false
		}
		existing.Value = value
		return true
	}
	return o.DefineOwnProperty(key, DataProperty(value))
}

// SetHidden defines a non-enumerable data property, used for built-in methods.
func (o *Object) SetHidden(key string, value Value) {
	o.DefineOwnProperty(key, HiddenProperty(value))
}

func (o *Object) setElement(idx int, value Value) bool {
	if o.frozen {
		return false
	}
	if idx < len(o.Elements) {
		o.Elements[idx] = value
		return true
	}
	if !o.Extensible {
		return false
	}
	for len(o.Elements) < idx {
		o.Elements = append(o.Elements, Undefined)
	}
	o.Elements = append(o.Elements, value)
	return true
}

func (o *Object) setLength(value Value) bool {
	if o.frozen {
		return false
	}
	n, ok := value.(NumberValue)
	if !ok || n.Val < 0 || n.Val != float64(int(n.Val)) {
		return false
	}
	length := int(n.Val)
	if length <= len(o.Elements) {
		o.Elements = o.Elements[:length]
		return true
	}
	for len(o.Elements) < length {
		o.Elements = append(o.Elements, Undefined)
	}
	return true
}

// Delete removes an own property. Deleting an array element leaves undefined
// in its slot.
func (o *Object) Delete(key string) bool {
	if o.hasElements() {
		if idx, ok := ArrayIndex(key); ok {
			if o.frozen {
				return false
			}
			if idx < len(o.Elements) {
				o.Elements[idx] = Undefined
			}
			return true
		}
		if key == "length" && o.Class == ClassArray {
			return false
		}
	}
	p, ok := o.props[key]
	if !ok {
		return true
	}
	if !p.Configurable {
		return false
	}
	delete(o.props, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// OwnKeys lists own property keys: integer keys ascending, then string keys
// in insertion order.
func (o *Object) OwnKeys() []string {
	out := make([]string, 0, len(o.Elements)+len(o.keys))
	if o.hasElements() {
		for i := range o.Elements {
			out = append(out, strconv.Itoa(i))
		}
	}
	var indices []int
	var named []string
	for _, k := range o.keys {
		if idx, ok := ArrayIndex(k); ok {
			indices = append(indices, idx)
			continue
		}
		named = append(named, k)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		out = append(out, strconv.Itoa(idx))
	}
	return append(out, named...)
}

// EnumerableOwnKeys filters OwnKeys to enumerable properties.
func (o *Object) EnumerableOwnKeys() []string {
	keys := o.OwnKeys()
	out := keys[:0]
	for _, k := range keys {
		if p, ok := o.GetOwnProperty(k); ok && p.Enumerable {
			out = append(out, k)
		}
	}
	return out
}

// EnumerableKeys lists enumerable keys along the prototype chain, own keys
// first, skipping shadowed names. This is the for-in order.
func (o *Object) EnumerableKeys() []string {
	seen := make(map[string]struct{})
	var out []string
	for obj := o; obj != nil; obj = obj.Proto {
		for _, k := range obj.OwnKeys() {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			if p, ok := obj.GetOwnProperty(k); ok && p.Enumerable {
				out = append(out, k)
			}
		}
	}
	return out
}

// Freeze makes every own property read-only and the object non-extensible.
func (o *Object) Freeze() {
	o.frozen = true
	o.Extensible = false
	for _, p := range o.props {
		p.Configurable = false
		if !p.IsAccessor() {
			p.Writable = false
		}
	}
}

func (o *Object) IsFrozen() bool { return o.frozen }

// InstanceOf reports whether proto appears on o's prototype chain.
func (o *Object) InstanceOf(proto *Object) bool {
	if proto == nil {
		return false
	}
	for p := o.Proto; p != nil; p = p.Proto {
		if p == proto {
			return true
		}
	}
	return false
}
