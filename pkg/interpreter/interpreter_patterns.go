package interpreter

import (
	"errors"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

type bindMode int

const (
	bindVar bindMode = iota
	bindLet
	bindConst
	// bindParam defines unconditionally in the invocation scope.
	bindParam
)

func bindModeFor(kind ast.DeclarationKind) bindMode {
	switch kind {
	case ast.DeclarationLet:
		return bindLet
	case ast.DeclarationConst:
		return bindConst
	default:
		return bindVar
	}
}

func (i *Interpreter) declareName(name string, value runtime.Value, env *runtime.Environment, mode bindMode) error {
	var err error
	switch mode {
	case bindParam:
		env.Define(name, runtime.Mutable, value)
		return nil
	case bindVar:
		err = env.Declare(runtime.DeclareVar, name, value)
	case bindLet:
		err = env.Declare(runtime.DeclareLet, name, value)
	case bindConst:
		err = env.Declare(runtime.DeclareConst, name, value)
	}
	var redeclared *runtime.RedeclarationError
	if errors.As(err, &redeclared) {
		return i.realm.ReferenceErrorf("Identifier '%s' has already been declared", name)
	}
	return err
}

// bindPattern declares every identifier in pattern, destructuring value.
func (i *Interpreter) bindPattern(pattern ast.Node, value runtime.Value, env *runtime.Environment, mode bindMode) error {
	return i.destructure(pattern, value, env, func(target ast.Node, v runtime.Value) error {
		id, ok := target.(*ast.Identifier)
		if !ok {
			return fatalf(FatalInvalidProgram, target, "invalid binding target %s", target.NodeType())
		}
		return i.declareName(id.Name, v, env, mode)
	})
}

// assignPattern writes value into existing references named by pattern.
func (i *Interpreter) assignPattern(pattern ast.Node, value runtime.Value, env *runtime.Environment) error {
	return i.destructure(pattern, value, env, func(target ast.Node, v runtime.Value) error {
		ref, err := i.resolveReference(target, env)
		if err != nil {
			return err
		}
		return i.putReference(ref, v)
	})
}

func (i *Interpreter) destructure(pattern ast.Node, value runtime.Value, env *runtime.Environment, leaf func(ast.Node, runtime.Value) error) error {
	switch p := pattern.(type) {
	case *ast.Identifier, *ast.MemberExpression:
		return leaf(p, value)
	case *ast.AssignmentPattern:
		if _, undef := value.(runtime.UndefinedValue); undef {
			name := ""
			if id, ok := p.Left.(*ast.Identifier); ok {
				name = id.Name
			}
			def, err := i.evaluateNamed(p.Right, name, env)
			if err != nil {
				return err
			}
			value = def
		}
		return i.destructure(p.Left, value, env, leaf)
	case *ast.ArrayPattern:
		next, err := i.iterate(value, describeValue(value))
		if err != nil {
			return err
		}
		for _, el := range p.Elements {
			if rest, ok := el.(*ast.RestElement); ok {
				var remaining []runtime.Value
				for {
					item, more := next()
					if !more {
						break
					}
					remaining = append(remaining, item)
				}
				return i.destructure(rest.Argument, i.realm.NewArray(remaining), env, leaf)
			}
			item, more := next()
			if !more {
				item = runtime.Undefined
			}
			if el == nil {
				continue
			}
			if err := i.destructure(el, item, env, leaf); err != nil {
				return err
			}
		}
		return nil
	case *ast.ObjectPattern:
		if runtime.IsNullish(value) {
			return i.realm.TypeErrorf("Cannot destructure '%s' as it is %s.", runtime.ToString(value), runtime.ToString(value))
		}
		used := make(map[string]bool)
		for _, prop := range p.Properties {
			switch pp := prop.(type) {
			case *ast.Property:
				key, err := i.propertyKey(pp.Key, pp.Computed, env)
				if err != nil {
					return err
				}
				used[key] = true
				v, err := i.getMember(value, key)
				if err != nil {
					return err
				}
				if err := i.destructure(pp.Value, v, env, leaf); err != nil {
					return err
				}
			case *ast.RestElement:
				rest := i.realm.NewObject()
				if obj, ok := value.(*runtime.Object); ok {
					for _, key := range obj.EnumerableOwnKeys() {
						if used[key] {
							continue
						}
						v, err := i.getMember(obj, key)
						if err != nil {
							return err
						}
						rest.Put(key, v)
					}
				}
				if err := i.destructure(pp.Argument, rest, env, leaf); err != nil {
					return err
				}
			default:
				return fatalf(FatalInvalidProgram, prop, "invalid object pattern member %s", prop.NodeType())
			}
		}
		return nil
	case nil:
		return nil
	default:
		return fatalf(FatalUnsupportedNodeKind, pattern, "unsupported pattern %s", pattern.NodeType())
	}
}

// iterate returns a pull function over the values of an iterable. Arrays are
// read live so pushes during iteration are observed.
func (i *Interpreter) iterate(subject runtime.Value, what string) (func() (runtime.Value, bool), error) {
	switch val := subject.(type) {
	case *runtime.Object:
		if val.Class == runtime.ClassArray || val.Class == runtime.ClassArguments {
			idx := 0
			return func() (runtime.Value, bool) {
				if idx >= len(val.Elements) {
					return nil, false
				}
				item := val.Elements[idx]
				idx++
				return item, true
			}, nil
		}
	case runtime.StringValue:
		units := stringUnits(val.Val)
		idx := 0
		return func() (runtime.Value, bool) {
			if idx >= len(units) {
				return nil, false
			}
			item := runtime.Str(string(units[idx]))
			idx++
			return item, true
		}, nil
	}
	return nil, i.realm.TypeErrorf("%s is not iterable", what)
}

// spreadValues evaluates an argument or element list, expanding spreads.
func (i *Interpreter) spreadValues(list []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	out := make([]runtime.Value, 0, len(list))
	for _, expr := range list {
		if expr == nil {
			out = append(out, runtime.Undefined)
			continue
		}
		if spread, ok := expr.(*ast.SpreadElement); ok {
			val, err := i.evaluate(spread.Argument, env)
			if err != nil {
				return nil, err
			}
			next, err := i.iterate(val, describeNode(spread.Argument))
			if err != nil {
				return nil, err
			}
			for {
				item, more := next()
				if !more {
					break
				}
				out = append(out, item)
			}
			continue
		}
		val, err := i.evaluate(expr, env)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}
