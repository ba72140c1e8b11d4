package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
)

func (l *lowerer) optionalExpression(node *sitter.Node) (ast.Expression, error) {
	if node == nil {
		return nil, nil
	}
	return l.expression(node)
}

func (l *lowerer) expressions(nodes []*sitter.Node) ([]ast.Expression, error) {
	out := make([]ast.Expression, 0, len(nodes))
	for _, node := range nodes {
		expr, err := l.expression(node)
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	return out, nil
}

// isChainLink reports kinds that can carry an optional-chain marker.
func isChainLink(kind string) bool {
	switch kind {
	case "member_expression", "subscript_expression", "call_expression":
		return true
	}
	return false
}

func (l *lowerer) expression(node *sitter.Node) (ast.Expression, error) {
	if node == nil {
		return nil, fmt.Errorf("parser: missing expression")
	}
	if isChainLink(node.Kind()) {
		expr, optional, err := l.chainLink(node)
		if err != nil || !optional {
			return expr, err
		}
		return locate(ast.NewChainExpression(expr), node), nil
	}
	switch node.Kind() {
	case "identifier", "undefined":
		return locate(ast.NewIdentifier(l.text(node)), node), nil
	case "this":
		return locate(ast.NewThisExpression(), node), nil
	case "true":
		return locate(ast.NewLiteral(true, "true"), node), nil
	case "false":
		return locate(ast.NewLiteral(false, "false"), node), nil
	case "null":
		return locate(ast.NewLiteral(nil, "null"), node), nil
	case "number":
		return l.number(node)
	case "string":
		return l.stringLiteral(node)
	case "template_string":
		return l.template(node)
	case "regex":
		pattern := l.text(node.ChildByFieldName("pattern"))
		flags := l.text(node.ChildByFieldName("flags"))
		return locate(ast.NewRegexLiteral(pattern, flags), node), nil
	case "parenthesized_expression":
		return l.expression(firstNamedChild(node))
	case "sequence_expression":
		return l.sequence(node)
	case "array":
		return l.array(node)
	case "object":
		return l.object(node)
	case "function_expression", "function", "generator_function":
		return l.functionExpression(node)
	case "arrow_function":
		return l.arrowFunction(node)
	case "new_expression":
		return l.newExpression(node)
	case "assignment_expression":
		return l.assignment(node, "=")
	case "augmented_assignment_expression":
		return l.assignment(node, l.text(node.ChildByFieldName("operator")))
	case "unary_expression":
		arg, err := l.expression(node.ChildByFieldName("argument"))
		if err != nil {
			return nil, err
		}
		return locate(ast.NewUnaryExpression(l.text(node.ChildByFieldName("operator")), arg), node), nil
	case "update_expression":
		arg, err := l.expression(node.ChildByFieldName("argument"))
		if err != nil {
			return nil, err
		}
		operator := node.ChildByFieldName("operator")
		prefix := operator != nil && operator.StartByte() == node.StartByte()
		return locate(ast.NewUpdateExpression(l.text(operator), prefix, arg), node), nil
	case "binary_expression":
		return l.binary(node)
	case "ternary_expression":
		test, err := l.expression(node.ChildByFieldName("condition"))
		if err != nil {
			return nil, err
		}
		consequent, err := l.expression(node.ChildByFieldName("consequence"))
		if err != nil {
			return nil, err
		}
		alternate, err := l.expression(node.ChildByFieldName("alternative"))
		if err != nil {
			return nil, err
		}
		return locate(ast.NewConditionalExpression(test, consequent, alternate), node), nil
	case "spread_element":
		arg, err := l.expression(firstNamedChild(node))
		if err != nil {
			return nil, err
		}
		return locate(ast.NewSpreadElement(arg), node), nil
	case "class":
		return l.raw(ast.NodeClassDeclaration, node), nil
	default:
		return l.raw(ast.NodeType(node.Kind()), node), nil
	}
}

// chainLink lowers member, subscript and call expressions without wrapping
// inner links, reporting whether any link in the chain is optional so the
// outermost link can be wrapped in a ChainExpression.
func (l *lowerer) chainLink(node *sitter.Node) (ast.Expression, bool, error) {
	optionalHere := node.ChildByFieldName("optional_chain") != nil
	var baseNode *sitter.Node
	switch node.Kind() {
	case "call_expression":
		baseNode = node.ChildByFieldName("function")
	default:
		baseNode = node.ChildByFieldName("object")
	}
	var (
		base     ast.Expression
		optional bool
		err      error
	)
	if isChainLink(baseNode.Kind()) {
		base, optional, err = l.chainLink(baseNode)
	} else {
		base, err = l.expression(baseNode)
	}
	if err != nil {
		return nil, false, err
	}
	optional = optional || optionalHere

	switch node.Kind() {
	case "member_expression":
		propNode := node.ChildByFieldName("property")
		if propNode.Kind() == "private_property_identifier" {
			return l.raw(ast.NodeType("PrivateMemberExpression"), node), false, nil
		}
		prop := locate(ast.NewIdentifier(l.text(propNode)), propNode)
		member := ast.NewMemberExpression(base, prop, false)
		member.Optional = optionalHere
		return locate(member, node), optional, nil
	case "subscript_expression":
		index, err := l.expression(node.ChildByFieldName("index"))
		if err != nil {
			return nil, false, err
		}
		member := ast.NewMemberExpression(base, index, true)
		member.Optional = optionalHere
		return locate(member, node), optional, nil
	}

	argsNode := node.ChildByFieldName("arguments")
	if argsNode != nil && argsNode.Kind() == "template_string" {
		return l.raw(ast.NodeTaggedTemplateExpression, node), false, nil
	}
	args, err := l.arguments(argsNode)
	if err != nil {
		return nil, false, err
	}
	if baseNode.Kind() == "import" || baseNode.Kind() == "super" {
		return l.raw(ast.NodeType(baseNode.Kind()+"_call"), node), false, nil
	}
	call := ast.NewCallExpression(base, args)
	call.Optional = optionalHere
	return locate(call, node), optional, nil
}

func (l *lowerer) arguments(node *sitter.Node) ([]ast.Expression, error) {
	if node == nil {
		return []ast.Expression{}, nil
	}
	return l.expressions(namedChildren(node))
}

func (l *lowerer) newExpression(node *sitter.Node) (ast.Expression, error) {
	callee, err := l.expression(node.ChildByFieldName("constructor"))
	if err != nil {
		return nil, err
	}
	args, err := l.arguments(node.ChildByFieldName("arguments"))
	if err != nil {
		return nil, err
	}
	return locate(ast.NewNewExpression(callee, args), node), nil
}

func (l *lowerer) sequence(node *sitter.Node) (ast.Expression, error) {
	var exprs []ast.Expression
	var collect func(n *sitter.Node) error
	collect = func(n *sitter.Node) error {
		for _, child := range namedChildren(n) {
			if child.Kind() == "sequence_expression" {
				if err := collect(child); err != nil {
					return err
				}
				continue
			}
			expr, err := l.expression(child)
			if err != nil {
				return err
			}
			exprs = append(exprs, expr)
		}
		return nil
	}
	if err := collect(node); err != nil {
		return nil, err
	}
	return locate(ast.NewSequenceExpression(exprs), node), nil
}

func (l *lowerer) binary(node *sitter.Node) (ast.Expression, error) {
	left, err := l.expression(node.ChildByFieldName("left"))
	if err != nil {
		return nil, err
	}
	right, err := l.expression(node.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	op := l.text(node.ChildByFieldName("operator"))
	if logicalOperators[op] {
		return locate(ast.NewLogicalExpression(op, left, right), node), nil
	}
	return locate(ast.NewBinaryExpression(op, left, right), node), nil
}

func (l *lowerer) assignment(node *sitter.Node, op string) (ast.Expression, error) {
	leftNode := node.ChildByFieldName("left")
	for leftNode != nil && leftNode.Kind() == "parenthesized_expression" {
		leftNode = firstNamedChild(leftNode)
	}
	target, err := l.pattern(leftNode)
	if err != nil {
		return nil, err
	}
	right, err := l.expression(node.ChildByFieldName("right"))
	if err != nil {
		return nil, err
	}
	return locate(ast.NewAssignmentExpression(op, target, right), node), nil
}

// array lowers an array literal; elisions between commas become nil
// elements.
func (l *lowerer) array(node *sitter.Node) (ast.Expression, error) {
	var elems []ast.Expression
	pending := false
	for _, child := range children(node) {
		switch {
		case !child.IsNamed() && child.Kind() == ",":
			if !pending {
				elems = append(elems, nil)
			}
			pending = false
		case child.IsNamed():
			expr, err := l.expression(child)
			if err != nil {
				return nil, err
			}
			elems = append(elems, expr)
			pending = true
		}
	}
	if elems == nil {
		elems = []ast.Expression{}
	}
	return locate(ast.NewArrayExpression(elems), node), nil
}

func (l *lowerer) propertyKey(node *sitter.Node) (ast.Expression, bool, error) {
	switch node.Kind() {
	case "computed_property_name":
		key, err := l.expression(firstNamedChild(node))
		return key, true, err
	case "property_identifier", "identifier", "shorthand_property_identifier", "shorthand_property_identifier_pattern":
		return locate(ast.NewIdentifier(l.text(node)), node), false, nil
	case "string", "number":
		key, err := l.expression(node)
		return key, false, err
	case "private_property_identifier":
		return nil, false, l.errorf(node, "private names are not supported")
	}
	return nil, false, l.errorf(node, "unexpected property key %s", node.Kind())
}

func (l *lowerer) object(node *sitter.Node) (ast.Expression, error) {
	props := []ast.Node{}
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "pair":
			key, computed, err := l.propertyKey(child.ChildByFieldName("key"))
			if err != nil {
				return nil, err
			}
			value, err := l.expression(child.ChildByFieldName("value"))
			if err != nil {
				return nil, err
			}
			props = append(props, locate(ast.NewProperty(key, value, ast.PropertyInit, computed, false, false), child))
		case "shorthand_property_identifier":
			key := locate(ast.NewIdentifier(l.text(child)), child)
			value := locate(ast.NewIdentifier(l.text(child)), child)
			props = append(props, locate(ast.NewProperty(key, value, ast.PropertyInit, false, true, false), child))
		case "spread_element":
			spread, err := l.expression(child)
			if err != nil {
				return nil, err
			}
			props = append(props, spread)
		case "method_definition":
			prop, err := l.method(child)
			if err != nil {
				return nil, err
			}
			props = append(props, prop)
		default:
			return nil, l.errorf(child, "unexpected %s in object literal", child.Kind())
		}
	}
	return locate(ast.NewObjectExpression(props), node), nil
}

// method lowers `name() {}`, `get name() {}` and `set name(v) {}`.
func (l *lowerer) method(node *sitter.Node) (*ast.Property, error) {
	key, computed, err := l.propertyKey(node.ChildByFieldName("name"))
	if err != nil {
		return nil, err
	}
	params, err := l.parameters(node.ChildByFieldName("parameters"))
	if err != nil {
		return nil, err
	}
	body, err := l.block(node.ChildByFieldName("body"))
	if err != nil {
		return nil, err
	}
	fn := locate(ast.NewFunctionExpression(nil, params, body), node)
	fn.Generator = hasToken(node, "*")
	fn.Async = hasToken(node, "async")
	kind := ast.PropertyInit
	switch {
	case hasToken(node, "get"):
		kind = ast.PropertyGet
	case hasToken(node, "set"):
		kind = ast.PropertySet
	}
	return locate(ast.NewProperty(key, fn, kind, computed, false, kind == ast.PropertyInit), node), nil
}

func (l *lowerer) functionExpression(node *sitter.Node) (ast.Expression, error) {
	var id *ast.Identifier
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		id = locate(ast.NewIdentifier(l.text(nameNode)), nameNode)
	}
	params, err := l.parameters(node.ChildByFieldName("parameters"))
	if err != nil {
		return nil, err
	}
	body, err := l.block(node.ChildByFieldName("body"))
	if err != nil {
		return nil, err
	}
	fn := ast.NewFunctionExpression(id, params, body)
	fn.Generator = node.Kind() == "generator_function" || hasToken(node, "*")
	fn.Async = hasToken(node, "async")
	return locate(fn, node), nil
}

func (l *lowerer) arrowFunction(node *sitter.Node) (ast.Expression, error) {
	var params []ast.Pattern
	if single := node.ChildByFieldName("parameter"); single != nil {
		param, err := l.pattern(single)
		if err != nil {
			return nil, err
		}
		params = []ast.Pattern{param}
	} else {
		var err error
		if params, err = l.parameters(node.ChildByFieldName("parameters")); err != nil {
			return nil, err
		}
	}
	bodyNode := node.ChildByFieldName("body")
	var body ast.Node
	if bodyNode.Kind() == "statement_block" {
		block, err := l.block(bodyNode)
		if err != nil {
			return nil, err
		}
		body = block
	} else {
		expr, err := l.expression(bodyNode)
		if err != nil {
			return nil, err
		}
		body = expr
	}
	fn := ast.NewArrowFunctionExpression(params, body)
	fn.Async = hasToken(node, "async")
	return locate(fn, node), nil
}
