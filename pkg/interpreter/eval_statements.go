package interpreter

import (
	"errors"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

func (i *Interpreter) evaluateProgram(program *ast.Program, env *runtime.Environment) (runtime.Value, error) {
	if err := i.hoistDeclarations(program.Body, env, true); err != nil {
		return nil, err
	}
	result, err := i.evaluateStatements(program.Body, env)
	if err != nil {
		if sig, ok := asSignal(err); ok {
			if sig.Kind == SignalReturn {
				return runtime.Undefined, nil
			}
			return nil, fatalf(FatalInvalidProgram, program, "illegal %s statement", sig)
		}
		return nil, err
	}
	return result, nil
}

// evaluateStatements runs a statement list in env and yields the last
// statement's value. Signals propagate unchanged.
func (i *Interpreter) evaluateStatements(body []ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	var result runtime.Value = runtime.Undefined
	for _, stmt := range body {
		val, err := i.evaluate(stmt, env)
		if err != nil {
			return nil, err
		}
		if val != nil {
			result = val
		}
	}
	return result, nil
}

func (i *Interpreter) evaluateExpressionStatement(stmt *ast.ExpressionStatement, env *runtime.Environment) (runtime.Value, error) {
	return i.evaluate(stmt.Expression, env)
}

func (i *Interpreter) evaluateBlockStatement(block *ast.BlockStatement, env *runtime.Environment) (runtime.Value, error) {
	scope := env.Extend(runtime.ScopeBlock)
	if err := i.hoistDeclarations(block.Body, scope, false); err != nil {
		return nil, err
	}
	return i.evaluateStatements(block.Body, scope)
}

func (i *Interpreter) evaluateEmptyStatement(*ast.EmptyStatement, *runtime.Environment) (runtime.Value, error) {
	return runtime.Undefined, nil
}

func (i *Interpreter) evaluateDebuggerStatement(*ast.DebuggerStatement, *runtime.Environment) (runtime.Value, error) {
	return runtime.Undefined, nil
}

func (i *Interpreter) evaluateWithStatement(stmt *ast.WithStatement, _ *runtime.Environment) (runtime.Value, error) {
	return nil, fatalf(FatalUnsupportedFeature, stmt, "with statements are not supported")
}

func (i *Interpreter) evaluateReturnStatement(stmt *ast.ReturnStatement, env *runtime.Environment) (runtime.Value, error) {
	var value runtime.Value = runtime.Undefined
	if stmt.Argument != nil {
		val, err := i.evaluate(stmt.Argument, env)
		if err != nil {
			return nil, err
		}
		value = val
	}
	return nil, &Signal{Kind: SignalReturn, Value: value}
}

func (i *Interpreter) evaluateBreakStatement(stmt *ast.BreakStatement, _ *runtime.Environment) (runtime.Value, error) {
	if stmt.Label != nil {
		return nil, fatalf(FatalUnsupportedFeature, stmt, "labelled break is not supported")
	}
	return nil, &Signal{Kind: SignalBreak}
}

func (i *Interpreter) evaluateContinueStatement(stmt *ast.ContinueStatement, _ *runtime.Environment) (runtime.Value, error) {
	if stmt.Label != nil {
		return nil, fatalf(FatalUnsupportedFeature, stmt, "labelled continue is not supported")
	}
	return nil, &Signal{Kind: SignalContinue}
}

func (i *Interpreter) evaluateIfStatement(stmt *ast.IfStatement, env *runtime.Environment) (runtime.Value, error) {
	test, err := i.evaluate(stmt.Test, env)
	if err != nil {
		return nil, err
	}
	if runtime.ToBoolean(test) {
		return i.evaluate(stmt.Consequent, env)
	}
	if stmt.Alternate != nil {
		return i.evaluate(stmt.Alternate, env)
	}
	return runtime.Undefined, nil
}

func (i *Interpreter) evaluateSwitchStatement(stmt *ast.SwitchStatement, env *runtime.Environment) (runtime.Value, error) {
	disc, err := i.evaluate(stmt.Discriminant, env)
	if err != nil {
		return nil, err
	}
	scope := env.Extend(runtime.ScopeBlock)
	for _, c := range stmt.Cases {
		if err := i.hoistDeclarations(c.Consequent, scope, false); err != nil {
			return nil, err
		}
	}
	start := -1
	for idx, c := range stmt.Cases {
		if c.Test == nil {
			continue
		}
		val, err := i.evaluate(c.Test, scope)
		if err != nil {
			return nil, err
		}
		if runtime.StrictEquals(disc, val) {
			start = idx
			break
		}
	}
	if start < 0 {
		for idx, c := range stmt.Cases {
			if c.Test == nil {
				start = idx
				break
			}
		}
	}
	if start < 0 {
		return runtime.Undefined, nil
	}
	for _, c := range stmt.Cases[start:] {
		if _, err := i.evaluateStatements(c.Consequent, scope); err != nil {
			if sig, ok := asSignal(err); ok && sig.Kind == SignalBreak && sig.Label == "" {
				return runtime.Undefined, nil
			}
			return nil, err
		}
	}
	return runtime.Undefined, nil
}

func (i *Interpreter) evaluateThrowStatement(stmt *ast.ThrowStatement, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluate(stmt.Argument, env)
	if err != nil {
		return nil, err
	}
	return nil, &runtime.ThrowError{Value: val}
}

func (i *Interpreter) evaluateTryStatement(stmt *ast.TryStatement, env *runtime.Environment) (runtime.Value, error) {
	result, err := i.evaluate(stmt.Block, env)
	if err != nil && stmt.Handler != nil {
		var thrown *runtime.ThrowError
		if errors.As(err, &thrown) {
			result, err = i.evaluateCatchClause(stmt.Handler, thrown.Value, env)
		}
	}
	if stmt.Finalizer != nil {
		if _, finErr := i.evaluate(stmt.Finalizer, env); finErr != nil {
			return nil, finErr
		}
	}
	return result, err
}

func (i *Interpreter) evaluateCatchClause(clause *ast.CatchClause, thrown runtime.Value, env *runtime.Environment) (runtime.Value, error) {
	scope := env.Extend(runtime.ScopeBlock)
	if clause.Param != nil {
		if err := i.bindPattern(clause.Param, thrown, scope, bindLet); err != nil {
			return nil, err
		}
	}
	return i.evaluate(clause.Body, scope)
}

// loopControl consumes break and continue aimed at the innermost loop.
// Everything else, Return included, is handed back for propagation.
func loopControl(err error) (brk bool, out error) {
	sig, ok := asSignal(err)
	if !ok || sig.Label != "" {
		return false, err
	}
	switch sig.Kind {
	case SignalBreak:
		return true, nil
	case SignalContinue:
		return false, nil
	default:
		return false, err
	}
}

func (i *Interpreter) evaluateWhileStatement(loop *ast.WhileStatement, env *runtime.Environment) (runtime.Value, error) {
	for {
		if err := i.tick(loop); err != nil {
			return nil, err
		}
		cond, err := i.evaluate(loop.Test, env)
		if err != nil {
			return nil, err
		}
		if !runtime.ToBoolean(cond) {
			return runtime.Undefined, nil
		}
		if _, err := i.evaluate(loop.Body, env); err != nil {
			brk, out := loopControl(err)
			if out != nil {
				return nil, out
			}
			if brk {
				return runtime.Undefined, nil
			}
		}
	}
}

func (i *Interpreter) evaluateDoWhileStatement(loop *ast.DoWhileStatement, env *runtime.Environment) (runtime.Value, error) {
	for {
		if err := i.tick(loop); err != nil {
			return nil, err
		}
		if _, err := i.evaluate(loop.Body, env); err != nil {
			brk, out := loopControl(err)
			if out != nil {
				return nil, out
			}
			if brk {
				return runtime.Undefined, nil
			}
		}
		cond, err := i.evaluate(loop.Test, env)
		if err != nil {
			return nil, err
		}
		if !runtime.ToBoolean(cond) {
			return runtime.Undefined, nil
		}
	}
}

// evaluateForStatement uses one loop scope for the whole statement, so
// closures created in the body share the loop variable.
func (i *Interpreter) evaluateForStatement(loop *ast.ForStatement, env *runtime.Environment) (runtime.Value, error) {
	scope := env.Extend(runtime.ScopeLoop)
	if loop.Init != nil {
		if _, err := i.evaluate(loop.Init, scope); err != nil {
			return nil, err
		}
	}
	for {
		if err := i.tick(loop); err != nil {
			return nil, err
		}
		if loop.Test != nil {
			cond, err := i.evaluate(loop.Test, scope)
			if err != nil {
				return nil, err
			}
			if !runtime.ToBoolean(cond) {
				return runtime.Undefined, nil
			}
		}
		if _, err := i.evaluate(loop.Body, scope); err != nil {
			brk, out := loopControl(err)
			if out != nil {
				return nil, out
			}
			if brk {
				return runtime.Undefined, nil
			}
		}
		if loop.Update != nil {
			if _, err := i.evaluate(loop.Update, scope); err != nil {
				return nil, err
			}
		}
	}
}

func (i *Interpreter) evaluateForInStatement(loop *ast.ForInStatement, env *runtime.Environment) (runtime.Value, error) {
	subject, err := i.evaluate(loop.Right, env)
	if err != nil {
		return nil, err
	}
	var keys []string
	obj, isObj := subject.(*runtime.Object)
	switch val := subject.(type) {
	case *runtime.Object:
		keys = val.EnumerableKeys()
	case runtime.StringValue:
		keys = indexKeys(len(stringUnits(val.Val)))
	}
	for _, key := range keys {
		if isObj && !obj.HasProperty(key) {
			continue
		}
		brk, err := i.runIteration(loop, loop.Left, runtime.Str(key), loop.Body, env)
		if err != nil {
			return nil, err
		}
		if brk {
			break
		}
	}
	return runtime.Undefined, nil
}

func (i *Interpreter) evaluateForOfStatement(loop *ast.ForOfStatement, env *runtime.Environment) (runtime.Value, error) {
	subject, err := i.evaluate(loop.Right, env)
	if err != nil {
		return nil, err
	}
	next, err := i.iterate(subject, describeNode(loop.Right))
	if err != nil {
		return nil, err
	}
	for {
		item, ok := next()
		if !ok {
			return runtime.Undefined, nil
		}
		brk, err := i.runIteration(loop, loop.Left, item, loop.Body, env)
		if err != nil {
			return nil, err
		}
		if brk {
			return runtime.Undefined, nil
		}
	}
}

// runIteration binds the loop target in a fresh scope and runs the body once.
func (i *Interpreter) runIteration(loop ast.Node, left ast.Node, item runtime.Value, body ast.Statement, env *runtime.Environment) (bool, error) {
	if err := i.tick(loop); err != nil {
		return false, err
	}
	scope := env.Extend(runtime.ScopeLoop)
	switch target := left.(type) {
	case *ast.VariableDeclaration:
		if len(target.Declarations) != 1 {
			return false, fatalf(FatalInvalidProgram, target, "loop head must declare exactly one binding")
		}
		if err := i.bindPattern(target.Declarations[0].ID, item, scope, bindModeFor(target.Kind)); err != nil {
			return false, err
		}
	case ast.Pattern:
		if err := i.assignPattern(target, item, scope); err != nil {
			return false, err
		}
	default:
		return false, fatalf(FatalInvalidProgram, left, "invalid loop target %s", left.NodeType())
	}
	if _, err := i.evaluate(body, scope); err != nil {
		return loopControl(err)
	}
	return false, nil
}

func (i *Interpreter) evaluateVariableDeclaration(decl *ast.VariableDeclaration, env *runtime.Environment) (runtime.Value, error) {
	mode := bindModeFor(decl.Kind)
	for _, d := range decl.Declarations {
		if d.Init == nil {
			if id, ok := d.ID.(*ast.Identifier); ok && mode == bindVar && env.HoistTarget().HasOwn(id.Name) {
				continue
			}
			if err := i.bindPattern(d.ID, runtime.Undefined, env, mode); err != nil {
				return nil, err
			}
			continue
		}
		name := ""
		if id, ok := d.ID.(*ast.Identifier); ok {
			name = id.Name
		}
		val, err := i.evaluateNamed(d.Init, name, env)
		if err != nil {
			return nil, err
		}
		if err := i.bindPattern(d.ID, val, env, mode); err != nil {
			return nil, err
		}
	}
	return runtime.Undefined, nil
}

// evaluateFunctionDeclaration is a no-op: declarations are bound by hoisting.
func (i *Interpreter) evaluateFunctionDeclaration(decl *ast.FunctionDeclaration, env *runtime.Environment) (runtime.Value, error) {
	if decl.ID == nil {
		return nil, fatalf(FatalInvalidProgram, decl, "function declaration without a name")
	}
	return runtime.Undefined, nil
}

func indexKeys(n int) []string {
	keys := make([]string, n)
	for idx := range keys {
		keys[idx] = runtime.NumberToString(float64(idx))
	}
	return keys
}
