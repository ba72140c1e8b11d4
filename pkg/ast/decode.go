package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DecodeJSON decodes an ESTree document (as produced by acorn, espree or
// `tinyjs parse`) into a Program.
func DecodeJSON(data []byte) (*Program, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("ast: decode json: %w", err)
	}
	node, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	program, ok := node.(*Program)
	if !ok {
		return nil, fmt.Errorf("ast: root node is %s, want Program", node.NodeType())
	}
	return program, nil
}

// Decode converts one generic ESTree node into its typed form. Node kinds
// without a typed representation decode to *RawNode.
func Decode(node map[string]any) (Node, error) {
	decoded, err := decodeNode(node)
	if err != nil {
		return nil, err
	}
	if loc := decodeLocation(node["loc"]); loc != nil {
		decoded.SetLocation(loc)
	}
	return decoded, nil
}

func decodeNode(node map[string]any) (Node, error) {
	typ, _ := node["type"].(string)
	if typ == "" {
		return nil, fmt.Errorf("ast: node without type field")
	}
	if decoded, ok, err := decodeExpressionNodes(node, typ); ok || err != nil {
		return decoded, err
	}
	switch NodeType(typ) {
	case NodeProgram:
		body, err := statementList(node["body"])
		if err != nil {
			return nil, err
		}
		program := NewProgram(body)
		if st, ok := node["sourceType"].(string); ok {
			program.SourceType = st
		}
		return program, nil
	case NodeExpressionStatement:
		expr, err := expressionField(node, "expression")
		if err != nil {
			return nil, err
		}
		return NewExpressionStatement(expr), nil
	case NodeBlockStatement:
		return decodeBlock(node)
	case NodeEmptyStatement:
		return NewEmptyStatement(), nil
	case NodeDebuggerStatement:
		return NewDebuggerStatement(), nil
	case NodeWithStatement:
		object, err := expressionField(node, "object")
		if err != nil {
			return nil, err
		}
		body, err := statementField(node, "body")
		if err != nil {
			return nil, err
		}
		return NewWithStatement(object, body), nil
	case NodeReturnStatement:
		arg, err := optionalExpressionField(node, "argument")
		if err != nil {
			return nil, err
		}
		return NewReturnStatement(arg), nil
	case NodeBreakStatement, NodeContinueStatement:
		var label *Identifier
		if raw, ok := node["label"].(map[string]any); ok {
			name, _ := raw["name"].(string)
			label = NewIdentifier(name)
		}
		if NodeType(typ) == NodeBreakStatement {
			return NewBreakStatement(label), nil
		}
		return NewContinueStatement(label), nil
	case NodeIfStatement:
		test, err := expressionField(node, "test")
		if err != nil {
			return nil, err
		}
		consequent, err := statementField(node, "consequent")
		if err != nil {
			return nil, err
		}
		alternate, err := optionalStatementField(node, "alternate")
		if err != nil {
			return nil, err
		}
		return NewIfStatement(test, consequent, alternate), nil
	case NodeSwitchStatement:
		discriminant, err := expressionField(node, "discriminant")
		if err != nil {
			return nil, err
		}
		rawCases, _ := node["cases"].([]any)
		cases := make([]*SwitchCase, 0, len(rawCases))
		for _, raw := range rawCases {
			child, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("ast: invalid switch case %T", raw)
			}
			test, err := optionalExpressionField(child, "test")
			if err != nil {
				return nil, err
			}
			body, err := statementList(child["consequent"])
			if err != nil {
				return nil, err
			}
			cases = append(cases, NewSwitchCase(test, body))
		}
		return NewSwitchStatement(discriminant, cases), nil
	case NodeThrowStatement:
		arg, err := expressionField(node, "argument")
		if err != nil {
			return nil, err
		}
		return NewThrowStatement(arg), nil
	case NodeTryStatement:
		blockRaw, ok := node["block"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ast: try statement missing block")
		}
		block, err := decodeBlock(blockRaw)
		if err != nil {
			return nil, err
		}
		var handler *CatchClause
		if raw, ok := node["handler"].(map[string]any); ok {
			param, err := optionalPatternField(raw, "param")
			if err != nil {
				return nil, err
			}
			bodyRaw, _ := raw["body"].(map[string]any)
			body, err := decodeBlock(bodyRaw)
			if err != nil {
				return nil, err
			}
			handler = NewCatchClause(param, body)
		}
		var finalizer *BlockStatement
		if raw, ok := node["finalizer"].(map[string]any); ok {
			finalizer, err = decodeBlock(raw)
			if err != nil {
				return nil, err
			}
		}
		return NewTryStatement(block, handler, finalizer), nil
	case NodeWhileStatement:
		test, err := expressionField(node, "test")
		if err != nil {
			return nil, err
		}
		body, err := statementField(node, "body")
		if err != nil {
			return nil, err
		}
		return NewWhileStatement(test, body), nil
	case NodeDoWhileStatement:
		body, err := statementField(node, "body")
		if err != nil {
			return nil, err
		}
		test, err := expressionField(node, "test")
		if err != nil {
			return nil, err
		}
		return NewDoWhileStatement(body, test), nil
	case NodeForStatement:
		var init Node
		if raw, ok := node["init"].(map[string]any); ok {
			decoded, err := Decode(raw)
			if err != nil {
				return nil, err
			}
			init = decoded
		}
		test, err := optionalExpressionField(node, "test")
		if err != nil {
			return nil, err
		}
		update, err := optionalExpressionField(node, "update")
		if err != nil {
			return nil, err
		}
		body, err := statementField(node, "body")
		if err != nil {
			return nil, err
		}
		return NewForStatement(init, test, update, body), nil
	case NodeForInStatement, NodeForOfStatement:
		leftRaw, ok := node["left"].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ast: %s missing left", typ)
		}
		left, err := Decode(leftRaw)
		if err != nil {
			return nil, err
		}
		right, err := expressionField(node, "right")
		if err != nil {
			return nil, err
		}
		body, err := statementField(node, "body")
		if err != nil {
			return nil, err
		}
		if NodeType(typ) == NodeForInStatement {
			return NewForInStatement(left, right, body), nil
		}
		return NewForOfStatement(left, right, body), nil
	case NodeVariableDeclaration:
		kind, _ := node["kind"].(string)
		rawDecls, _ := node["declarations"].([]any)
		decls := make([]*VariableDeclarator, 0, len(rawDecls))
		for _, raw := range rawDecls {
			child, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("ast: invalid declarator %T", raw)
			}
			id, err := patternField(child, "id")
			if err != nil {
				return nil, err
			}
			init, err := optionalExpressionField(child, "init")
			if err != nil {
				return nil, err
			}
			decls = append(decls, NewVariableDeclarator(id, init))
		}
		return NewVariableDeclaration(DeclarationKind(kind), decls), nil
	case NodeFunctionDeclaration:
		var id *Identifier
		if raw, ok := node["id"].(map[string]any); ok {
			name, _ := raw["name"].(string)
			id = NewIdentifier(name)
		}
		params, err := patternList(node["params"])
		if err != nil {
			return nil, err
		}
		bodyRaw, _ := node["body"].(map[string]any)
		body, err := decodeBlock(bodyRaw)
		if err != nil {
			return nil, err
		}
		fn := NewFunctionDeclaration(id, params, body)
		fn.Generator, _ = node["generator"].(bool)
		fn.Async, _ = node["async"].(bool)
		return fn, nil
	case NodeObjectPattern:
		props, err := propertyList(node["properties"], true)
		if err != nil {
			return nil, err
		}
		return NewObjectPattern(props), nil
	case NodeArrayPattern:
		rawElems, _ := node["elements"].([]any)
		elems := make([]Pattern, 0, len(rawElems))
		for _, raw := range rawElems {
			if raw == nil {
				elems = append(elems, nil)
				continue
			}
			pat, err := asPattern(raw)
			if err != nil {
				return nil, err
			}
			elems = append(elems, pat)
		}
		return NewArrayPattern(elems), nil
	case NodeAssignmentPattern:
		left, err := patternField(node, "left")
		if err != nil {
			return nil, err
		}
		right, err := expressionField(node, "right")
		if err != nil {
			return nil, err
		}
		return NewAssignmentPattern(left, right), nil
	case NodeRestElement:
		arg, err := patternField(node, "argument")
		if err != nil {
			return nil, err
		}
		return NewRestElement(arg), nil
	default:
		return NewRawNode(NodeType(typ), node), nil
	}
}

func decodeLocation(raw any) *SourceLocation {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	pos := func(v any) Position {
		p, _ := v.(map[string]any)
		line, _ := p["line"].(float64)
		col, _ := p["column"].(float64)
		return Position{Line: int(line), Column: int(col)}
	}
	return &SourceLocation{Start: pos(m["start"]), End: pos(m["end"])}
}

func decodeBlock(node map[string]any) (*BlockStatement, error) {
	if node == nil {
		return nil, fmt.Errorf("ast: missing block")
	}
	body, err := statementList(node["body"])
	if err != nil {
		return nil, err
	}
	block := NewBlockStatement(body)
	if loc := decodeLocation(node["loc"]); loc != nil {
		block.SetLocation(loc)
	}
	return block, nil
}

func decodeChild(raw any) (Node, error) {
	child, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("ast: expected node object, got %T", raw)
	}
	return Decode(child)
}

func asExpression(raw any) (Expression, error) {
	node, err := decodeChild(raw)
	if err != nil {
		return nil, err
	}
	expr, ok := node.(Expression)
	if !ok {
		return nil, fmt.Errorf("ast: %s is not an expression", node.NodeType())
	}
	return expr, nil
}

func asStatement(raw any) (Statement, error) {
	node, err := decodeChild(raw)
	if err != nil {
		return nil, err
	}
	stmt, ok := node.(Statement)
	if !ok {
		return nil, fmt.Errorf("ast: %s is not a statement", node.NodeType())
	}
	return stmt, nil
}

func asPattern(raw any) (Pattern, error) {
	node, err := decodeChild(raw)
	if err != nil {
		return nil, err
	}
	pat, ok := node.(Pattern)
	if !ok {
		return nil, fmt.Errorf("ast: %s is not a pattern", node.NodeType())
	}
	return pat, nil
}

func expressionField(node map[string]any, field string) (Expression, error) {
	raw, ok := node[field]
	if !ok || raw == nil {
		return nil, fmt.Errorf("ast: %v missing %s", node["type"], field)
	}
	return asExpression(raw)
}

func optionalExpressionField(node map[string]any, field string) (Expression, error) {
	if raw, ok := node[field]; ok && raw != nil {
		return asExpression(raw)
	}
	return nil, nil
}

func statementField(node map[string]any, field string) (Statement, error) {
	raw, ok := node[field]
	if !ok || raw == nil {
		return nil, fmt.Errorf("ast: %v missing %s", node["type"], field)
	}
	return asStatement(raw)
}

func optionalStatementField(node map[string]any, field string) (Statement, error) {
	if raw, ok := node[field]; ok && raw != nil {
		return asStatement(raw)
	}
	return nil, nil
}

func patternField(node map[string]any, field string) (Pattern, error) {
	raw, ok := node[field]
	if !ok || raw == nil {
		return nil, fmt.Errorf("ast: %v missing %s", node["type"], field)
	}
	return asPattern(raw)
}

func optionalPatternField(node map[string]any, field string) (Pattern, error) {
	if raw, ok := node[field]; ok && raw != nil {
		return asPattern(raw)
	}
	return nil, nil
}

func statementList(raw any) ([]Statement, error) {
	items, _ := raw.([]any)
	out := make([]Statement, 0, len(items))
	for _, item := range items {
		stmt, err := asStatement(item)
		if err != nil {
			return nil, err
		}
		out = append(out, stmt)
	}
	return out, nil
}

func expressionList(raw any) ([]Expression, error) {
	items, _ := raw.([]any)
	out := make([]Expression, 0, len(items))
	for _, item := range items {
		if item == nil {
			out = append(out, nil)
			continue
		}
		expr, err := asExpression(item)
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	return out, nil
}

func patternList(raw any) ([]Pattern, error) {
	items, _ := raw.([]any)
	out := make([]Pattern, 0, len(items))
	for _, item := range items {
		pat, err := asPattern(item)
		if err != nil {
			return nil, err
		}
		out = append(out, pat)
	}
	return out, nil
}

// propertyList decodes object literal or object pattern members. Pattern
// members carry Pattern values; literal members carry Expression values.
func propertyList(raw any, pattern bool) ([]Node, error) {
	items, _ := raw.([]any)
	out := make([]Node, 0, len(items))
	for _, item := range items {
		child, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("ast: invalid property %T", item)
		}
		if typ, _ := child["type"].(string); typ != string(NodeProperty) {
			node, err := Decode(child)
			if err != nil {
				return nil, err
			}
			out = append(out, node)
			continue
		}
		key, err := expressionField(child, "key")
		if err != nil {
			return nil, err
		}
		var value Node
		if pattern {
			value, err = patternField(child, "value")
		} else {
			value, err = expressionField(child, "value")
		}
		if err != nil {
			return nil, err
		}
		kind, _ := child["kind"].(string)
		computed, _ := child["computed"].(bool)
		shorthand, _ := child["shorthand"].(bool)
		method, _ := child["method"].(bool)
		prop := NewProperty(key, value, PropertyKind(kind), computed, shorthand, method)
		if loc := decodeLocation(child["loc"]); loc != nil {
			prop.SetLocation(loc)
		}
		out = append(out, prop)
	}
	return out, nil
}
