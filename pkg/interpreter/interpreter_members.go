package interpreter

import (
	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

// errShortCircuit unwinds an optional chain to its ChainExpression.
type shortCircuit struct{}

func (shortCircuit) Error() string { return "optional chain short-circuit" }

var errShortCircuit error = shortCircuit{}

func (i *Interpreter) evaluateMemberExpression(expr *ast.MemberExpression, env *runtime.Environment) (runtime.Value, error) {
	obj, err := i.evaluate(expr.Object, env)
	if err != nil {
		return nil, err
	}
	if expr.Optional && runtime.IsNullish(obj) {
		return nil, errShortCircuit
	}
	key, err := i.propertyKey(expr.Property, expr.Computed, env)
	if err != nil {
		return nil, err
	}
	return i.getMember(obj, key)
}

func (i *Interpreter) evaluateChainExpression(expr *ast.ChainExpression, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluate(expr.Expression, env)
	if err == errShortCircuit {
		return runtime.Undefined, nil
	}
	return val, err
}

// propertyKey resolves the key of a member or object-literal property.
func (i *Interpreter) propertyKey(key ast.Expression, computed bool, env *runtime.Environment) (string, error) {
	if !computed {
		switch k := key.(type) {
		case *ast.Identifier:
			return k.Name, nil
		case *ast.Literal:
			return runtime.ToString(literalValue(k)), nil
		default:
			return "", i.realm.TypeErrorf("illegal property key %s", key.NodeType())
		}
	}
	val, err := i.evaluate(key, env)
	if err != nil {
		return "", err
	}
	return runtime.ToPropertyKey(i, val)
}

// getMember reads key from target, running getters and consulting the
// primitive prototypes.
func (i *Interpreter) getMember(target runtime.Value, key string) (runtime.Value, error) {
	var proto *runtime.Object
	switch val := target.(type) {
	case nil, runtime.UndefinedValue, runtime.NullValue:
		return nil, i.realm.TypeErrorf("Cannot read properties of %s (reading '%s')", runtime.ToString(orUndefined(target)), key)
	case runtime.StringValue:
		units := stringUnits(val.Val)
		if key == "length" {
			return runtime.Num(float64(len(units))), nil
		}
		if idx, ok := runtime.ArrayIndex(key); ok {
			if idx < len(units) {
				return runtime.Str(string(units[idx])), nil
			}
			return runtime.Undefined, nil
		}
		proto = i.realm.StringPrototype
	case *runtime.Object:
		prop, _ := val.FindProperty(key)
		return i.readProperty(prop, target)
	default:
		proto = i.realm.PrototypeFor(target)
	}
	if proto == nil {
		return runtime.Undefined, nil
	}
	prop, _ := proto.FindProperty(key)
	return i.readProperty(prop, target)
}

func (i *Interpreter) readProperty(prop *runtime.Property, receiver runtime.Value) (runtime.Value, error) {
	if prop == nil {
		return runtime.Undefined, nil
	}
	if prop.IsAccessor() {
		if prop.Getter == nil {
			return runtime.Undefined, nil
		}
		return i.callFunction(prop.Getter, receiver, nil, nil)
	}
	if prop.Value == nil {
		return runtime.Undefined, nil
	}
	return prop.Value, nil
}

// setMember writes key on target. Setters found on the chain run with target
// as receiver; writes rejected by frozen or read-only properties raise a
// TypeError.
func (i *Interpreter) setMember(target runtime.Value, key string, value runtime.Value) error {
	obj, ok := target.(*runtime.Object)
	if !ok {
		if runtime.IsNullish(orUndefined(target)) {
			return i.realm.TypeErrorf("Cannot set properties of %s (setting '%s')", runtime.ToString(orUndefined(target)), key)
		}
		return nil
	}
	prop, owner := obj.FindProperty(key)
	if prop != nil && prop.IsAccessor() {
		if prop.Setter == nil {
			return i.realm.TypeErrorf("Cannot set property %s of %s which has only a getter", key, describeObject(obj))
		}
		_, err := i.callFunction(prop.Setter, obj, []runtime.Value{value}, nil)
		return err
	}
	if prop != nil && owner != obj && !prop.Writable {
		return i.realm.TypeErrorf("Cannot assign to read only property '%s' of object '%s'", key, describeObject(obj))
	}
	if !obj.Put(key, value) {
		if obj.HasOwnProperty(key) {
			return i.realm.TypeErrorf("Cannot assign to read only property '%s' of object '%s'", key, describeObject(obj))
		}
		return i.realm.TypeErrorf("Cannot add property %s, object is not extensible", key)
	}
	return nil
}

//-----------------------------------------------------------------------------
// References
//-----------------------------------------------------------------------------

// reference is a resolved assignment target: a binding or an object slot.
type reference struct {
	name    string
	env     *runtime.Environment
	binding *runtime.Binding
	object  runtime.Value
	key     string
	member  bool
	node    ast.Node
}

func (i *Interpreter) resolveReference(target ast.Node, env *runtime.Environment) (*reference, error) {
	switch t := target.(type) {
	case *ast.Identifier:
		binding, ok := env.Lookup(t.Name)
		if !ok {
			return nil, i.realm.ReferenceErrorf("%s is not defined", t.Name)
		}
		return &reference{name: t.Name, env: env, binding: binding, node: t}, nil
	case *ast.MemberExpression:
		if t.Optional {
			return nil, fatalf(FatalInvalidProgram, t, "invalid assignment target: optional chain")
		}
		obj, err := i.evaluate(t.Object, env)
		if err != nil {
			return nil, err
		}
		key, err := i.propertyKey(t.Property, t.Computed, env)
		if err != nil {
			return nil, err
		}
		return &reference{object: obj, key: key, member: true, node: t}, nil
	default:
		return nil, fatalf(FatalInvalidProgram, target, "invalid assignment target %s", target.NodeType())
	}
}

func (i *Interpreter) getReference(ref *reference) (runtime.Value, error) {
	if ref.member {
		return i.getMember(ref.object, ref.key)
	}
	return ref.binding.Value(), nil
}

func (i *Interpreter) putReference(ref *reference, value runtime.Value) error {
	if ref.member {
		return i.setMember(ref.object, ref.key, value)
	}
	if err := ref.env.Write(ref.name, ref.binding, value); err != nil {
		return i.realm.TypeErrorf("Assignment to constant variable.")
	}
	return nil
}

//-----------------------------------------------------------------------------
// Descriptions for error messages
//-----------------------------------------------------------------------------

// describeNode renders an expression compactly, e.g. "obj.method".
func describeNode(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Identifier:
		return n.Name
	case *ast.ThisExpression:
		return "this"
	case *ast.MemberExpression:
		if n.Computed {
			return describeNode(n.Object) + "[...]"
		}
		return describeNode(n.Object) + "." + describeNode(n.Property)
	case *ast.CallExpression:
		return describeNode(n.Callee) + "(...)"
	case *ast.Literal:
		if n.Raw != "" {
			return n.Raw
		}
		return runtime.Inspect(literalValue(n))
	case *ast.ChainExpression:
		return describeNode(n.Expression)
	case nil:
		return "undefined"
	default:
		return "(intermediate value)"
	}
}

func describeValue(v runtime.Value) string {
	if obj, ok := v.(*runtime.Object); ok {
		return describeObject(obj)
	}
	return runtime.Inspect(orUndefined(v))
}

func describeObject(obj *runtime.Object) string {
	if obj.IsCallable() {
		return runtime.Inspect(obj)
	}
	if obj.IsArray() {
		return "[object Array]"
	}
	return "#<" + constructorName(obj) + ">"
}

func constructorName(obj *runtime.Object) string {
	if obj.Proto != nil {
		if p, _ := obj.Proto.FindProperty("constructor"); p != nil && !p.IsAccessor() {
			if ctor, ok := p.Value.(*runtime.Object); ok && ctor.IsCallable() && ctor.FunctionName() != "" {
				return ctor.FunctionName()
			}
		}
	}
	return string(runtime.ClassObject)
}

func orUndefined(v runtime.Value) runtime.Value {
	if v == nil {
		return runtime.Undefined
	}
	return v
}

// stringUnits splits s into the characters indexing and length observe.
func stringUnits(s string) []rune {
	return []rune(s)
}
