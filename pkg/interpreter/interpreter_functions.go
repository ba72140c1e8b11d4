package interpreter

import (
	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

// closure is the Callable behind interpreted functions. env is the scope the
// function was created in; each call extends it with a fresh function scope.
type closure struct {
	node ast.Function
	env  *runtime.Environment
	name string
}

func (c *closure) FunctionName() string { return c.name }

func (i *Interpreter) makeFunction(node ast.Function, name string, env *runtime.Environment) (*runtime.Object, error) {
	switch fn := node.(type) {
	case *ast.FunctionDeclaration:
		if fn.Generator || fn.Async {
			return nil, fatalf(FatalUnsupportedFeature, fn, "generator and async functions are not supported")
		}
	case *ast.FunctionExpression:
		if fn.Generator || fn.Async {
			return nil, fatalf(FatalUnsupportedFeature, fn, "generator and async functions are not supported")
		}
	case *ast.ArrowFunctionExpression:
		if fn.Async {
			return nil, fatalf(FatalUnsupportedFeature, fn, "async arrow functions are not supported")
		}
	}
	scope := env
	expr, isExpr := node.(*ast.FunctionExpression)
	if isExpr && expr.ID != nil {
		scope = env.Extend(runtime.ScopeBlock)
	}
	length := 0
	for _, p := range node.FunctionParams() {
		if _, stop := p.(*ast.AssignmentPattern); stop {
			break
		}
		if _, stop := p.(*ast.RestElement); stop {
			break
		}
		length++
	}
	obj := i.realm.NewFunctionObject(&closure{node: node, env: scope, name: name}, name, length)
	if !node.IsArrow() {
		proto := i.realm.NewObject()
		proto.SetHidden("constructor", obj)
		obj.DefineOwnProperty("prototype", &runtime.Property{Value: proto, Writable: true})
	}
	if isExpr && expr.ID != nil {
		scope.Define(expr.ID.Name, runtime.Immutable, obj)
	}
	return obj, nil
}

func (i *Interpreter) evaluateFunctionExpression(expr *ast.FunctionExpression, env *runtime.Environment) (runtime.Value, error) {
	name := ""
	if expr.ID != nil {
		name = expr.ID.Name
	}
	return i.makeFunction(expr, name, env)
}

func (i *Interpreter) evaluateArrowFunctionExpression(expr *ast.ArrowFunctionExpression, env *runtime.Environment) (runtime.Value, error) {
	return i.makeFunction(expr, "", env)
}

// evaluateNamed evaluates expr, giving anonymous function values the name
// they are being bound to.
func (i *Interpreter) evaluateNamed(expr ast.Expression, name string, env *runtime.Environment) (runtime.Value, error) {
	switch fn := expr.(type) {
	case *ast.FunctionExpression:
		if fn.ID == nil {
			return i.makeFunction(fn, name, env)
		}
	case *ast.ArrowFunctionExpression:
		return i.makeFunction(fn, name, env)
	}
	return i.evaluate(expr, env)
}

func (i *Interpreter) evaluateCallExpression(expr *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	var this runtime.Value = runtime.Undefined
	var callee runtime.Value
	switch c := expr.Callee.(type) {
	case *ast.MemberExpression:
		obj, err := i.evaluate(c.Object, env)
		if err != nil {
			return nil, err
		}
		if c.Optional && runtime.IsNullish(obj) {
			return nil, errShortCircuit
		}
		key, err := i.propertyKey(c.Property, c.Computed, env)
		if err != nil {
			return nil, err
		}
		callee, err = i.getMember(obj, key)
		if err != nil {
			return nil, err
		}
		this = obj
	default:
		val, err := i.evaluate(expr.Callee, env)
		if err != nil {
			return nil, err
		}
		callee = val
	}
	if expr.Optional && runtime.IsNullish(callee) {
		return nil, errShortCircuit
	}
	args, err := i.spreadValues(expr.Arguments, env)
	if err != nil {
		return nil, err
	}
	if fn, ok := callee.(*runtime.Object); !ok || !fn.IsCallable() {
		return nil, i.realm.TypeErrorf("%s is not a function", describeNode(expr.Callee))
	}
	return i.callFunction(callee, this, args, nil)
}

func (i *Interpreter) evaluateNewExpression(expr *ast.NewExpression, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluate(expr.Callee, env)
	if err != nil {
		return nil, err
	}
	args, err := i.spreadValues(expr.Arguments, env)
	if err != nil {
		return nil, err
	}
	if !isConstructor(callee) {
		return nil, i.realm.TypeErrorf("%s is not a constructor", describeNode(expr.Callee))
	}
	return i.construct(callee, args)
}

func isConstructor(v runtime.Value) bool {
	obj, ok := v.(*runtime.Object)
	if !ok {
		return false
	}
	switch c := obj.Callable.(type) {
	case *runtime.NativeFunction:
		return c.Constructs
	case *runtime.BoundFunction:
		return isConstructor(c.Target)
	case *closure:
		return !c.node.IsArrow()
	default:
		return false
	}
}

// callFunction invokes fn with this and args. newTarget is set for
// constructor calls.
func (i *Interpreter) callFunction(fn runtime.Value, this runtime.Value, args []runtime.Value, newTarget *runtime.Object) (runtime.Value, error) {
	obj, ok := fn.(*runtime.Object)
	if !ok || !obj.IsCallable() {
		return nil, i.realm.TypeErrorf("%s is not a function", describeValue(fn))
	}
	if err := i.tick(nil); err != nil {
		return nil, err
	}
	if i.depth >= i.opts.Budget.MaxCallDepth {
		return nil, i.realm.RangeErrorf("Maximum call stack size exceeded")
	}
	i.depth++
	defer func() { i.depth-- }()
	switch c := obj.Callable.(type) {
	case *runtime.NativeFunction:
		result, err := c.Fn(&runtime.NativeCall{Host: i, This: orUndefined(this), Args: args, NewTarget: newTarget})
		if err != nil {
			return nil, err
		}
		return orUndefined(result), nil
	case *runtime.BoundFunction:
		combined := append(append([]runtime.Value(nil), c.Args...), args...)
		return i.callFunction(c.Target, c.This, combined, newTarget)
	case *closure:
		return i.invokeClosure(c, this, args)
	default:
		return nil, i.realm.TypeErrorf("%s is not a function", describeValue(fn))
	}
}

func (i *Interpreter) invokeClosure(c *closure, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
	node := c.node
	scope := runtime.NewEnvironment(c.env, runtime.ScopeFunction)
	if !node.IsArrow() {
		scope.Define("this", runtime.Immutable, orUndefined(this))
		scope.Define("arguments", runtime.Mutable, i.newArguments(args))
	}
	for idx, param := range node.FunctionParams() {
		if rest, ok := param.(*ast.RestElement); ok {
			var remaining []runtime.Value
			if idx < len(args) {
				remaining = append(remaining, args[idx:]...)
			}
			if err := i.bindPattern(rest.Argument, i.realm.NewArray(remaining), scope, bindParam); err != nil {
				return nil, err
			}
			break
		}
		var arg runtime.Value = runtime.Undefined
		if idx < len(args) {
			arg = args[idx]
		}
		if err := i.bindPattern(param, arg, scope, bindParam); err != nil {
			return nil, err
		}
	}
	switch body := node.FunctionBody().(type) {
	case *ast.BlockStatement:
		if err := i.hoistDeclarations(body.Body, scope, true); err != nil {
			return nil, err
		}
		if _, err := i.evaluateStatements(body.Body, scope); err != nil {
			if sig, ok := asSignal(err); ok {
				if sig.Kind == SignalReturn {
					return orUndefined(sig.Value), nil
				}
				return nil, fatalf(FatalInvalidProgram, body, "illegal %s statement", sig)
			}
			return nil, err
		}
		return runtime.Undefined, nil
	case ast.Expression:
		return i.evaluate(body, scope)
	default:
		return nil, fatalf(FatalInvalidProgram, node, "function body has unexpected shape")
	}
}

func (i *Interpreter) newArguments(args []runtime.Value) *runtime.Object {
	obj := runtime.NewObject(i.realm.ObjectPrototype)
	obj.Class = runtime.ClassArguments
	obj.Elements = append([]runtime.Value{}, args...)
	obj.SetHidden("length", runtime.Num(float64(len(args))))
	return obj
}

// construct runs fn as a constructor. Interpreted constructors get a fresh
// object linked to fn.prototype; an object return value replaces it.
func (i *Interpreter) construct(fn runtime.Value, args []runtime.Value) (runtime.Value, error) {
	obj, ok := fn.(*runtime.Object)
	if !ok || !isConstructor(obj) {
		return nil, i.realm.TypeErrorf("%s is not a constructor", describeValue(fn))
	}
	switch c := obj.Callable.(type) {
	case *runtime.BoundFunction:
		combined := append(append([]runtime.Value(nil), c.Args...), args...)
		return i.construct(c.Target, combined)
	case *runtime.NativeFunction:
		return i.callFunction(obj, runtime.Undefined, args, obj)
	}
	protoVal, err := i.getMember(obj, "prototype")
	if err != nil {
		return nil, err
	}
	proto, ok := protoVal.(*runtime.Object)
	if !ok {
		proto = i.realm.ObjectPrototype
	}
	instance := runtime.NewObject(proto)
	result, err := i.callFunction(obj, instance, args, obj)
	if err != nil {
		return nil, err
	}
	if resObj, ok := result.(*runtime.Object); ok {
		return resObj, nil
	}
	return instance, nil
}
