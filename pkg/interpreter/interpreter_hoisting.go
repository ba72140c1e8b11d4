package interpreter

import (
	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/runtime"
)

// hoistDeclarations binds the function declarations of body in env before
// any statement runs. When scanVars is set (function bodies and the program)
// var names found anywhere in body, outside nested functions, are also
// declared as undefined on env's hoist target unless already bound there.
func (i *Interpreter) hoistDeclarations(body []ast.Statement, env *runtime.Environment, scanVars bool) error {
	if scanVars {
		target := env.HoistTarget()
		for _, name := range varNames(body) {
			if !target.HasOwn(name) {
				target.Define(name, runtime.Mutable, runtime.Undefined)
			}
		}
	}
	for _, stmt := range body {
		decl, ok := stmt.(*ast.FunctionDeclaration)
		if !ok {
			continue
		}
		if decl.ID == nil {
			return fatalf(FatalInvalidProgram, decl, "function declaration without a name")
		}
		fn, err := i.makeFunction(decl, decl.ID.Name, env)
		if err != nil {
			return err
		}
		env.Define(decl.ID.Name, runtime.Mutable, fn)
	}
	return nil
}

func varNames(body []ast.Statement) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(list []string) {
		for _, n := range list {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	var visit func(node ast.Node)
	visitDecl := func(decl *ast.VariableDeclaration) {
		if decl.Kind != ast.DeclarationVar {
			return
		}
		for _, d := range decl.Declarations {
			add(patternNames(d.ID))
		}
	}
	visit = func(node ast.Node) {
		switch n := node.(type) {
		case *ast.VariableDeclaration:
			visitDecl(n)
		case *ast.BlockStatement:
			for _, s := range n.Body {
				visit(s)
			}
		case *ast.IfStatement:
			visit(n.Consequent)
			if n.Alternate != nil {
				visit(n.Alternate)
			}
		case *ast.WhileStatement:
			visit(n.Body)
		case *ast.DoWhileStatement:
			visit(n.Body)
		case *ast.ForStatement:
			if n.Init != nil {
				visit(n.Init)
			}
			visit(n.Body)
		case *ast.ForInStatement:
			visit(n.Left)
			visit(n.Body)
		case *ast.ForOfStatement:
			visit(n.Left)
			visit(n.Body)
		case *ast.TryStatement:
			visit(n.Block)
			if n.Handler != nil {
				visit(n.Handler.Body)
			}
			if n.Finalizer != nil {
				visit(n.Finalizer)
			}
		case *ast.SwitchStatement:
			for _, c := range n.Cases {
				for _, s := range c.Consequent {
					visit(s)
				}
			}
		}
	}
	for _, stmt := range body {
		visit(stmt)
	}
	return names
}

// patternNames lists the identifiers a binding pattern introduces.
func patternNames(p ast.Node) []string {
	switch n := p.(type) {
	case *ast.Identifier:
		return []string{n.Name}
	case *ast.AssignmentPattern:
		return patternNames(n.Left)
	case *ast.RestElement:
		return patternNames(n.Argument)
	case *ast.ArrayPattern:
		var out []string
		for _, el := range n.Elements {
			if el != nil {
				out = append(out, patternNames(el)...)
			}
		}
		return out
	case *ast.ObjectPattern:
		var out []string
		for _, prop := range n.Properties {
			switch pp := prop.(type) {
			case *ast.Property:
				out = append(out, patternNames(pp.Value)...)
			case *ast.RestElement:
				out = append(out, patternNames(pp)...)
			}
		}
		return out
	default:
		return nil
	}
}
