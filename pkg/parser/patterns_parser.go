package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
)

func (l *lowerer) parameters(node *sitter.Node) ([]ast.Pattern, error) {
	params := []ast.Pattern{}
	for _, child := range namedChildren(node) {
		param, err := l.pattern(child)
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	return params, nil
}

// pattern lowers a binding or assignment target. Member expressions are
// valid assignment targets and pass through as expressions.
func (l *lowerer) pattern(node *sitter.Node) (ast.Pattern, error) {
	if node == nil {
		return nil, nil
	}
	switch node.Kind() {
	case "identifier", "shorthand_property_identifier_pattern", "undefined":
		return locate(ast.NewIdentifier(l.text(node)), node), nil
	case "member_expression", "subscript_expression":
		expr, err := l.expression(node)
		if err != nil {
			return nil, err
		}
		target, ok := expr.(ast.Pattern)
		if !ok {
			return nil, l.errorf(node, "invalid assignment target")
		}
		return target, nil
	case "parenthesized_expression":
		return l.pattern(firstNamedChild(node))
	case "assignment_pattern", "object_assignment_pattern":
		left, err := l.pattern(node.ChildByFieldName("left"))
		if err != nil {
			return nil, err
		}
		right, err := l.expression(node.ChildByFieldName("right"))
		if err != nil {
			return nil, err
		}
		return locate(ast.NewAssignmentPattern(left, right), node), nil
	case "rest_pattern":
		arg, err := l.pattern(firstNamedChild(node))
		if err != nil {
			return nil, err
		}
		return locate(ast.NewRestElement(arg), node), nil
	case "array_pattern":
		return l.arrayPattern(node)
	case "object_pattern":
		return l.objectPattern(node)
	}
	return nil, l.errorf(node, "invalid destructuring target %s", node.Kind())
}

func (l *lowerer) arrayPattern(node *sitter.Node) (ast.Pattern, error) {
	var elems []ast.Pattern
	pending := false
	for _, child := range children(node) {
		switch {
		case !child.IsNamed() && child.Kind() == ",":
			if !pending {
				elems = append(elems, nil)
			}
			pending = false
		case child.IsNamed():
			elem, err := l.pattern(child)
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
			pending = true
		}
	}
	if elems == nil {
		elems = []ast.Pattern{}
	}
	return locate(ast.NewArrayPattern(elems), node), nil
}

func (l *lowerer) objectPattern(node *sitter.Node) (ast.Pattern, error) {
	props := []ast.Node{}
	for _, child := range namedChildren(node) {
		switch child.Kind() {
		case "pair_pattern":
			key, computed, err := l.propertyKey(child.ChildByFieldName("key"))
			if err != nil {
				return nil, err
			}
			value, err := l.pattern(child.ChildByFieldName("value"))
			if err != nil {
				return nil, err
			}
			props = append(props, locate(ast.NewProperty(key, value, ast.PropertyInit, computed, false, false), child))
		case "shorthand_property_identifier_pattern":
			key := locate(ast.NewIdentifier(l.text(child)), child)
			value := locate(ast.NewIdentifier(l.text(child)), child)
			props = append(props, locate(ast.NewProperty(key, value, ast.PropertyInit, false, true, false), child))
		case "object_assignment_pattern":
			value, err := l.pattern(child)
			if err != nil {
				return nil, err
			}
			leftNode := child.ChildByFieldName("left")
			if leftNode.Kind() != "shorthand_property_identifier_pattern" {
				return nil, l.errorf(child, "invalid shorthand default")
			}
			key := locate(ast.NewIdentifier(l.text(leftNode)), leftNode)
			props = append(props, locate(ast.NewProperty(key, value, ast.PropertyInit, false, true, false), child))
		case "rest_pattern":
			rest, err := l.pattern(child)
			if err != nil {
				return nil, err
			}
			props = append(props, rest)
		default:
			return nil, l.errorf(child, "unexpected %s in object pattern", child.Kind())
		}
	}
	return locate(ast.NewObjectPattern(props), node), nil
}
