package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
)

func (l *lowerer) statementList(nodes []*sitter.Node) ([]ast.Statement, error) {
	body := make([]ast.Statement, 0, len(nodes))
	for _, node := range nodes {
		stmt, err := l.statement(node)
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
	return body, nil
}

func (l *lowerer) statement(node *sitter.Node) (ast.Statement, error) {
	switch node.Kind() {
	case "expression_statement":
		expr, err := l.expression(firstNamedChild(node))
		if err != nil {
			return nil, err
		}
		return locate(ast.NewExpressionStatement(expr), node), nil
	case "variable_declaration", "lexical_declaration":
		return l.variableDeclaration(node)
	case "function_declaration", "generator_function_declaration":
		return l.functionDeclaration(node)
	case "statement_block":
		return l.block(node)
	case "empty_statement":
		return locate(ast.NewEmptyStatement(), node), nil
	case "debugger_statement":
		return locate(ast.NewDebuggerStatement(), node), nil
	case "if_statement":
		return l.ifStatement(node)
	case "switch_statement":
		return l.switchStatement(node)
	case "for_statement":
		return l.forStatement(node)
	case "for_in_statement":
		return l.forInStatement(node)
	case "while_statement":
		test, err := l.expression(node.ChildByFieldName("condition"))
		if err != nil {
			return nil, err
		}
		body, err := l.statement(node.ChildByFieldName("body"))
		if err != nil {
			return nil, err
		}
		return locate(ast.NewWhileStatement(test, body), node), nil
	case "do_statement":
		body, err := l.statement(node.ChildByFieldName("body"))
		if err != nil {
			return nil, err
		}
		test, err := l.expression(node.ChildByFieldName("condition"))
		if err != nil {
			return nil, err
		}
		return locate(ast.NewDoWhileStatement(body, test), node), nil
	case "try_statement":
		return l.tryStatement(node)
	case "return_statement":
		arg, err := l.optionalExpression(firstNamedChild(node))
		if err != nil {
			return nil, err
		}
		return locate(ast.NewReturnStatement(arg), node), nil
	case "throw_statement":
		arg, err := l.expression(firstNamedChild(node))
		if err != nil {
			return nil, err
		}
		return locate(ast.NewThrowStatement(arg), node), nil
	case "break_statement":
		return locate(ast.NewBreakStatement(l.label(node)), node), nil
	case "continue_statement":
		return locate(ast.NewContinueStatement(l.label(node)), node), nil
	case "with_statement":
		object, err := l.expression(node.ChildByFieldName("object"))
		if err != nil {
			return nil, err
		}
		body, err := l.statement(node.ChildByFieldName("body"))
		if err != nil {
			return nil, err
		}
		return locate(ast.NewWithStatement(object, body), node), nil
	case "labeled_statement":
		return l.raw(ast.NodeLabeledStatement, node), nil
	case "class_declaration":
		return l.raw(ast.NodeClassDeclaration, node), nil
	default:
		return l.raw(ast.NodeType(node.Kind()), node), nil
	}
}

// raw keeps a construct the AST has no typed form for; its source text rides
// along for diagnostics.
func (l *lowerer) raw(kind ast.NodeType, node *sitter.Node) *ast.RawNode {
	return locate(ast.NewRawNode(kind, map[string]any{"source": l.text(node)}), node)
}

func (l *lowerer) label(node *sitter.Node) *ast.Identifier {
	labelNode := node.ChildByFieldName("label")
	if labelNode == nil {
		return nil
	}
	return locate(ast.NewIdentifier(l.text(labelNode)), labelNode)
}

func (l *lowerer) block(node *sitter.Node) (*ast.BlockStatement, error) {
	body, err := l.statementList(namedChildren(node))
	if err != nil {
		return nil, err
	}
	return locate(ast.NewBlockStatement(body), node), nil
}

func (l *lowerer) variableDeclaration(node *sitter.Node) (*ast.VariableDeclaration, error) {
	kind := ast.DeclarationVar
	if kindNode := node.ChildByFieldName("kind"); kindNode != nil {
		kind = ast.DeclarationKind(l.text(kindNode))
	}
	var decls []*ast.VariableDeclarator
	for _, child := range namedChildren(node) {
		if child.Kind() != "variable_declarator" {
			continue
		}
		id, err := l.pattern(child.ChildByFieldName("name"))
		if err != nil {
			return nil, err
		}
		init, err := l.optionalExpression(child.ChildByFieldName("value"))
		if err != nil {
			return nil, err
		}
		decls = append(decls, locate(ast.NewVariableDeclarator(id, init), child))
	}
	return locate(ast.NewVariableDeclaration(kind, decls), node), nil
}

func (l *lowerer) functionDeclaration(node *sitter.Node) (*ast.FunctionDeclaration, error) {
	id := locate(ast.NewIdentifier(l.text(node.ChildByFieldName("name"))), node.ChildByFieldName("name"))
	params, err := l.parameters(node.ChildByFieldName("parameters"))
	if err != nil {
		return nil, err
	}
	body, err := l.block(node.ChildByFieldName("body"))
	if err != nil {
		return nil, err
	}
	fn := ast.NewFunctionDeclaration(id, params, body)
	fn.Generator = node.Kind() == "generator_function_declaration"
	fn.Async = hasToken(node, "async")
	return locate(fn, node), nil
}

func (l *lowerer) ifStatement(node *sitter.Node) (*ast.IfStatement, error) {
	test, err := l.expression(node.ChildByFieldName("condition"))
	if err != nil {
		return nil, err
	}
	consequent, err := l.statement(node.ChildByFieldName("consequence"))
	if err != nil {
		return nil, err
	}
	var alternate ast.Statement
	if elseNode := node.ChildByFieldName("alternative"); elseNode != nil {
		inner := elseNode
		if elseNode.Kind() == "else_clause" {
			inner = firstNamedChild(elseNode)
		}
		if alternate, err = l.statement(inner); err != nil {
			return nil, err
		}
	}
	return locate(ast.NewIfStatement(test, consequent, alternate), node), nil
}

func (l *lowerer) switchStatement(node *sitter.Node) (*ast.SwitchStatement, error) {
	discriminant, err := l.expression(node.ChildByFieldName("value"))
	if err != nil {
		return nil, err
	}
	var cases []*ast.SwitchCase
	for _, clause := range namedChildren(node.ChildByFieldName("body")) {
		var test ast.Expression
		valueNode := clause.ChildByFieldName("value")
		if clause.Kind() == "switch_case" {
			if test, err = l.expression(valueNode); err != nil {
				return nil, err
			}
		}
		var stmts []*sitter.Node
		for _, child := range namedChildren(clause) {
			if valueNode != nil && child.StartByte() == valueNode.StartByte() && child.EndByte() == valueNode.EndByte() {
				continue
			}
			stmts = append(stmts, child)
		}
		body, err := l.statementList(stmts)
		if err != nil {
			return nil, err
		}
		cases = append(cases, locate(ast.NewSwitchCase(test, body), clause))
	}
	return locate(ast.NewSwitchStatement(discriminant, cases), node), nil
}

func (l *lowerer) forStatement(node *sitter.Node) (*ast.ForStatement, error) {
	var init ast.Node
	if initNode := node.ChildByFieldName("initializer"); initNode != nil {
		switch initNode.Kind() {
		case "lexical_declaration", "variable_declaration":
			decl, err := l.variableDeclaration(initNode)
			if err != nil {
				return nil, err
			}
			init = decl
		case "empty_statement":
		default:
			expr, err := l.clauseExpression(initNode)
			if err != nil {
				return nil, err
			}
			init = expr
		}
	}
	test, err := l.clauseExpression(node.ChildByFieldName("condition"))
	if err != nil {
		return nil, err
	}
	update, err := l.optionalExpression(node.ChildByFieldName("increment"))
	if err != nil {
		return nil, err
	}
	body, err := l.statement(node.ChildByFieldName("body"))
	if err != nil {
		return nil, err
	}
	return locate(ast.NewForStatement(init, test, update, body), node), nil
}

// clauseExpression unwraps the expression_statement and empty_statement
// wrappers some grammar versions use for for-loop clauses.
func (l *lowerer) clauseExpression(node *sitter.Node) (ast.Expression, error) {
	if node == nil {
		return nil, nil
	}
	switch node.Kind() {
	case "empty_statement":
		return nil, nil
	case "expression_statement":
		return l.optionalExpression(firstNamedChild(node))
	}
	return l.expression(node)
}

func (l *lowerer) forInStatement(node *sitter.Node) (ast.Statement, error) {
	if hasToken(node, "await") {
		return l.raw(ast.NodeType("ForAwaitStatement"), node), nil
	}
	leftNode := node.ChildByFieldName("left")
	var left ast.Node
	target, err := l.pattern(leftNode)
	if err != nil {
		return nil, err
	}
	left = target
	if kindNode := node.ChildByFieldName("kind"); kindNode != nil {
		decl := ast.NewVariableDeclaration(ast.DeclarationKind(l.text(kindNode)), []*ast.VariableDeclarator{
			locate(ast.NewVariableDeclarator(target, nil), leftNode),
		})
		left = locate(decl, leftNode)
	}
	right, err := l.expression(node.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	body, err := l.statement(node.ChildByFieldName("body"))
	if err != nil {
		return nil, err
	}
	operator := node.ChildByFieldName("operator")
	if operator != nil && l.text(operator) == "of" {
		return locate(ast.NewForOfStatement(left, right, body), node), nil
	}
	return locate(ast.NewForInStatement(left, right, body), node), nil
}

func (l *lowerer) tryStatement(node *sitter.Node) (*ast.TryStatement, error) {
	block, err := l.block(node.ChildByFieldName("body"))
	if err != nil {
		return nil, err
	}
	var handler *ast.CatchClause
	if handlerNode := node.ChildByFieldName("handler"); handlerNode != nil {
		var param ast.Pattern
		if paramNode := handlerNode.ChildByFieldName("parameter"); paramNode != nil {
			if param, err = l.pattern(paramNode); err != nil {
				return nil, err
			}
		}
		body, err := l.block(handlerNode.ChildByFieldName("body"))
		if err != nil {
			return nil, err
		}
		handler = locate(ast.NewCatchClause(param, body), handlerNode)
	}
	var finalizer *ast.BlockStatement
	if finalNode := node.ChildByFieldName("finalizer"); finalNode != nil {
		if finalizer, err = l.block(finalNode.ChildByFieldName("body")); err != nil {
			return nil, err
		}
	}
	return locate(ast.NewTryStatement(block, handler, finalizer), node), nil
}
