package interpreter

import (
	"strings"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

func (i *Interpreter) evaluateIdentifier(expr *ast.Identifier, env *runtime.Environment) (runtime.Value, error) {
	binding, ok := env.Lookup(expr.Name)
	if !ok {
		return nil, i.realm.ReferenceErrorf("%s is not defined", expr.Name)
	}
	return orUndefined(binding.Value()), nil
}

func literalValue(lit *ast.Literal) runtime.Value {
	switch v := lit.Value.(type) {
	case nil:
		return runtime.Null
	case bool:
		return runtime.Bool(v)
	case float64:
		return runtime.Num(v)
	case int:
		return runtime.Num(float64(v))
	case string:
		return runtime.Str(v)
	default:
		return runtime.Undefined
	}
}

func (i *Interpreter) evaluateLiteral(lit *ast.Literal, _ *runtime.Environment) (runtime.Value, error) {
	if lit.Regex != nil {
		ctor, ok := i.root.Get("RegExp")
		if !ok {
			return nil, fatalf(FatalUnsupportedFeature, lit, "regular expression literal %s needs a RegExp binding", lit.Raw)
		}
		return i.construct(ctor, []runtime.Value{runtime.Str(lit.Regex.Pattern), runtime.Str(lit.Regex.Flags)})
	}
	return literalValue(lit), nil
}

func (i *Interpreter) evaluateThisExpression(_ *ast.ThisExpression, env *runtime.Environment) (runtime.Value, error) {
	if this, ok := env.Get("this"); ok {
		return orUndefined(this), nil
	}
	return runtime.Undefined, nil
}

func (i *Interpreter) evaluateArrayExpression(expr *ast.ArrayExpression, env *runtime.Environment) (runtime.Value, error) {
	elems, err := i.spreadValues(expr.Elements, env)
	if err != nil {
		return nil, err
	}
	return i.realm.NewArray(elems), nil
}

func (i *Interpreter) evaluateObjectExpression(expr *ast.ObjectExpression, env *runtime.Environment) (runtime.Value, error) {
	obj := i.realm.NewObject()
	for _, member := range expr.Properties {
		switch prop := member.(type) {
		case *ast.SpreadElement:
			val, err := i.evaluate(prop.Argument, env)
			if err != nil {
				return nil, err
			}
			if err := i.copyDataProperties(obj, val); err != nil {
				return nil, err
			}
		case *ast.Property:
			if err := i.defineLiteralProperty(obj, prop, env); err != nil {
				return nil, err
			}
		default:
			return nil, i.realm.TypeErrorf("illegal object literal member %s", member.NodeType())
		}
	}
	return obj, nil
}

func (i *Interpreter) defineLiteralProperty(obj *runtime.Object, prop *ast.Property, env *runtime.Environment) error {
	key, err := i.propertyKey(prop.Key, prop.Computed, env)
	if err != nil {
		return err
	}
	switch prop.Kind {
	case ast.PropertyInit:
		valueExpr, ok := prop.Value.(ast.Expression)
		if !ok {
			return i.realm.TypeErrorf("illegal value for property %s", key)
		}
		val, err := i.evaluateNamed(valueExpr, key, env)
		if err != nil {
			return err
		}
		if key == "__proto__" && !prop.Computed && !prop.Shorthand && !prop.Method {
			switch p := val.(type) {
			case *runtime.Object:
				obj.Proto = p
			case runtime.NullValue:
				obj.Proto = nil
			}
			return nil
		}
		obj.DefineOwnProperty(key, runtime.DataProperty(val))
		return nil
	case ast.PropertyGet, ast.PropertySet:
		fnExpr, ok := prop.Value.(*ast.FunctionExpression)
		if !ok {
			return i.realm.TypeErrorf("accessor %s must be a function", key)
		}
		fn, err := i.makeFunction(fnExpr, key, env)
		if err != nil {
			return err
		}
		accessor := &runtime.Property{Enumerable: true, Configurable: true}
		if existing, ok := obj.GetOwnProperty(key); ok && existing.IsAccessor() {
			accessor.Getter, accessor.Setter = existing.Getter, existing.Setter
		}
		if prop.Kind == ast.PropertyGet {
			accessor.Getter = fn
		} else {
			accessor.Setter = fn
		}
		obj.DefineOwnProperty(key, accessor)
		return nil
	default:
		return i.realm.TypeErrorf("unsupported property kind %s", prop.Kind)
	}
}

// copyDataProperties implements object spread: own enumerable properties of
// source are read (running getters) and written as plain data.
func (i *Interpreter) copyDataProperties(target *runtime.Object, source runtime.Value) error {
	switch src := source.(type) {
	case *runtime.Object:
		for _, key := range src.EnumerableOwnKeys() {
			v, err := i.getMember(src, key)
			if err != nil {
				return err
			}
			target.DefineOwnProperty(key, runtime.DataProperty(v))
		}
	case runtime.StringValue:
		for idx, ch := range stringUnits(src.Val) {
			target.DefineOwnProperty(runtime.NumberToString(float64(idx)), runtime.DataProperty(runtime.Str(string(ch))))
		}
	}
	return nil
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	switch expr.Operator {
	case "typeof":
		if id, ok := expr.Argument.(*ast.Identifier); ok {
			if _, bound := env.Lookup(id.Name); !bound {
				return runtime.Str("undefined"), nil
			}
		}
		val, err := i.evaluate(expr.Argument, env)
		if err != nil {
			return nil, err
		}
		return runtime.Str(runtime.TypeOf(val)), nil
	case "delete":
		return i.evaluateDelete(expr, env)
	}
	val, err := i.evaluate(expr.Argument, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case "void":
		return runtime.Undefined, nil
	case "!":
		return runtime.Bool(!runtime.ToBoolean(val)), nil
	case "-", "+", "~":
		n, err := runtime.ToNumberValue(i, val)
		if err != nil {
			return nil, err
		}
		switch expr.Operator {
		case "-":
			return runtime.Num(-n), nil
		case "+":
			return runtime.Num(n), nil
		default:
			return runtime.Num(float64(^runtime.ToInt32(n))), nil
		}
	default:
		return nil, fatalf(FatalUnknownOperator, expr, "unknown unary operator %q", expr.Operator)
	}
}

func (i *Interpreter) evaluateDelete(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	switch target := expr.Argument.(type) {
	case *ast.MemberExpression:
		obj, err := i.evaluate(target.Object, env)
		if err != nil {
			return nil, err
		}
		key, err := i.propertyKey(target.Property, target.Computed, env)
		if err != nil {
			return nil, err
		}
		if runtime.IsNullish(obj) {
			return nil, i.realm.TypeErrorf("Cannot convert undefined or null to object")
		}
		o, ok := obj.(*runtime.Object)
		if !ok {
			return runtime.True, nil
		}
		if !o.Delete(key) {
			return nil, i.realm.TypeErrorf("Cannot delete property '%s' of %s", key, describeObject(o))
		}
		return runtime.True, nil
	case *ast.Identifier:
		return runtime.False, nil
	default:
		if _, err := i.evaluate(expr.Argument, env); err != nil {
			return nil, err
		}
		return runtime.True, nil
	}
}

func (i *Interpreter) evaluateUpdateExpression(expr *ast.UpdateExpression, env *runtime.Environment) (runtime.Value, error) {
	delta := 1.0
	switch expr.Operator {
	case "++":
	case "--":
		delta = -1
	default:
		return nil, fatalf(FatalUnknownOperator, expr, "unknown update operator %q", expr.Operator)
	}
	ref, err := i.resolveReference(expr.Argument, env)
	if err != nil {
		return nil, err
	}
	current, err := i.getReference(ref)
	if err != nil {
		return nil, err
	}
	old, err := runtime.ToNumberValue(i, current)
	if err != nil {
		return nil, err
	}
	updated := old + delta
	if err := i.putReference(ref, runtime.Num(updated)); err != nil {
		return nil, err
	}
	if expr.Prefix {
		return runtime.Num(updated), nil
	}
	return runtime.Num(old), nil
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluate(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(expr.Right, env)
	if err != nil {
		return nil, err
	}
	return i.binaryOp(expr.Operator, left, right, expr)
}

func (i *Interpreter) evaluateLogicalExpression(expr *ast.LogicalExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluate(expr.Left, env)
	if err != nil {
		return nil, err
	}
	done, err := i.logicalShortCircuit(expr.Operator, left, expr)
	if err != nil {
		return nil, err
	}
	if done {
		return left, nil
	}
	return i.evaluate(expr.Right, env)
}

// logicalShortCircuit reports whether op settles on its left operand.
func (i *Interpreter) logicalShortCircuit(op string, left runtime.Value, node ast.Node) (bool, error) {
	switch op {
	case "&&":
		return !runtime.ToBoolean(left), nil
	case "||":
		return runtime.ToBoolean(left), nil
	case "??":
		return !runtime.IsNullish(left), nil
	default:
		return false, fatalf(FatalUnknownOperator, node, "unknown logical operator %q", op)
	}
}

func (i *Interpreter) evaluateAssignmentExpression(expr *ast.AssignmentExpression, env *runtime.Environment) (runtime.Value, error) {
	if expr.Operator == "=" {
		switch expr.Left.(type) {
		case *ast.ObjectPattern, *ast.ArrayPattern:
			val, err := i.evaluate(expr.Right, env)
			if err != nil {
				return nil, err
			}
			if err := i.assignPattern(expr.Left, val, env); err != nil {
				return nil, err
			}
			return val, nil
		}
	}
	ref, err := i.resolveReference(expr.Left, env)
	if err != nil {
		return nil, err
	}
	name := ""
	if id, ok := expr.Left.(*ast.Identifier); ok {
		name = id.Name
	}
	var value runtime.Value
	switch expr.Operator {
	case "=":
		value, err = i.evaluateNamed(expr.Right, name, env)
		if err != nil {
			return nil, err
		}
	case "&&=", "||=", "??=":
		current, err := i.getReference(ref)
		if err != nil {
			return nil, err
		}
		done, err := i.logicalShortCircuit(strings.TrimSuffix(expr.Operator, "="), current, expr)
		if err != nil {
			return nil, err
		}
		if done {
			return current, nil
		}
		value, err = i.evaluateNamed(expr.Right, name, env)
		if err != nil {
			return nil, err
		}
	default:
		op, ok := strings.CutSuffix(expr.Operator, "=")
		if !ok || op == "" {
			return nil, fatalf(FatalUnknownOperator, expr, "unknown assignment operator %q", expr.Operator)
		}
		current, err := i.getReference(ref)
		if err != nil {
			return nil, err
		}
		right, err := i.evaluate(expr.Right, env)
		if err != nil {
			return nil, err
		}
		value, err = i.binaryOp(op, current, right, expr)
		if err != nil {
			return nil, err
		}
	}
	if err := i.putReference(ref, value); err != nil {
		return nil, err
	}
	return value, nil
}

func (i *Interpreter) evaluateConditionalExpression(expr *ast.ConditionalExpression, env *runtime.Environment) (runtime.Value, error) {
	test, err := i.evaluate(expr.Test, env)
	if err != nil {
		return nil, err
	}
	if runtime.ToBoolean(test) {
		return i.evaluate(expr.Consequent, env)
	}
	return i.evaluate(expr.Alternate, env)
}

func (i *Interpreter) evaluateSequenceExpression(expr *ast.SequenceExpression, env *runtime.Environment) (runtime.Value, error) {
	var result runtime.Value = runtime.Undefined
	for _, e := range expr.Expressions {
		val, err := i.evaluate(e, env)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return result, nil
}

func (i *Interpreter) evaluateTemplateLiteral(expr *ast.TemplateLiteral, env *runtime.Environment) (runtime.Value, error) {
	var sb strings.Builder
	for idx, quasi := range expr.Quasis {
		sb.WriteString(quasi.Value.Cooked)
		if idx >= len(expr.Expressions) {
			continue
		}
		val, err := i.evaluate(expr.Expressions[idx], env)
		if err != nil {
			return nil, err
		}
		s, err := runtime.ToStringValue(i, val)
		if err != nil {
			return nil, err
		}
		sb.WriteString(s)
	}
	return runtime.Str(sb.String()), nil
}
