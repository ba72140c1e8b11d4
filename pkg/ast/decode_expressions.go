package ast

import "fmt"

func decodeExpressionNodes(node map[string]any, typ string) (Node, bool, error) {
	switch NodeType(typ) {
	case NodeIdentifier:
		name, _ := node["name"].(string)
		return NewIdentifier(name), true, nil
	case NodeLiteral:
		raw, _ := node["raw"].(string)
		if rx, ok := node["regex"].(map[string]any); ok {
			pattern, _ := rx["pattern"].(string)
			flags, _ := rx["flags"].(string)
			return NewRegexLiteral(pattern, flags), true, nil
		}
		if _, ok := node["bigint"]; ok {
			return NewRawNode(NodeLiteral, node), true, nil
		}
		switch v := node["value"].(type) {
		case nil, bool, float64, string:
			return NewLiteral(v, raw), true, nil
		default:
			return nil, true, fmt.Errorf("ast: unsupported literal value %T", v)
		}
	case NodeThisExpression:
		return NewThisExpression(), true, nil
	case NodeArrayExpression:
		elems, err := expressionList(node["elements"])
		if err != nil {
			return nil, true, err
		}
		return NewArrayExpression(elems), true, nil
	case NodeObjectExpression:
		props, err := propertyList(node["properties"], false)
		if err != nil {
			return nil, true, err
		}
		return NewObjectExpression(props), true, nil
	case NodeFunctionExpression:
		var id *Identifier
		if raw, ok := node["id"].(map[string]any); ok {
			name, _ := raw["name"].(string)
			id = NewIdentifier(name)
		}
		params, err := patternList(node["params"])
		if err != nil {
			return nil, true, err
		}
		bodyRaw, _ := node["body"].(map[string]any)
		body, err := decodeBlock(bodyRaw)
		if err != nil {
			return nil, true, err
		}
		fn := NewFunctionExpression(id, params, body)
		fn.Generator, _ = node["generator"].(bool)
		fn.Async, _ = node["async"].(bool)
		return fn, true, nil
	case NodeArrowFunctionExpression:
		params, err := patternList(node["params"])
		if err != nil {
			return nil, true, err
		}
		bodyRaw, ok := node["body"].(map[string]any)
		if !ok {
			return nil, true, fmt.Errorf("ast: arrow function missing body")
		}
		body, err := Decode(bodyRaw)
		if err != nil {
			return nil, true, err
		}
		fn := NewArrowFunctionExpression(params, body)
		fn.Async, _ = node["async"].(bool)
		return fn, true, nil
	case NodeUnaryExpression, NodeUpdateExpression:
		op, _ := node["operator"].(string)
		arg, err := expressionField(node, "argument")
		if err != nil {
			return nil, true, err
		}
		if NodeType(typ) == NodeUnaryExpression {
			return NewUnaryExpression(op, arg), true, nil
		}
		prefix, _ := node["prefix"].(bool)
		return NewUpdateExpression(op, prefix, arg), true, nil
	case NodeBinaryExpression, NodeLogicalExpression:
		op, _ := node["operator"].(string)
		left, err := expressionField(node, "left")
		if err != nil {
			return nil, true, err
		}
		right, err := expressionField(node, "right")
		if err != nil {
			return nil, true, err
		}
		if NodeType(typ) == NodeBinaryExpression {
			return NewBinaryExpression(op, left, right), true, nil
		}
		return NewLogicalExpression(op, left, right), true, nil
	case NodeAssignmentExpression:
		op, _ := node["operator"].(string)
		left, err := patternField(node, "left")
		if err != nil {
			return nil, true, err
		}
		right, err := expressionField(node, "right")
		if err != nil {
			return nil, true, err
		}
		return NewAssignmentExpression(op, left, right), true, nil
	case NodeMemberExpression:
		object, err := expressionField(node, "object")
		if err != nil {
			return nil, true, err
		}
		property, err := expressionField(node, "property")
		if err != nil {
			return nil, true, err
		}
		computed, _ := node["computed"].(bool)
		member := NewMemberExpression(object, property, computed)
		member.Optional, _ = node["optional"].(bool)
		return member, true, nil
	case NodeChainExpression:
		expr, err := expressionField(node, "expression")
		if err != nil {
			return nil, true, err
		}
		return NewChainExpression(expr), true, nil
	case NodeConditionalExpression:
		test, err := expressionField(node, "test")
		if err != nil {
			return nil, true, err
		}
		consequent, err := expressionField(node, "consequent")
		if err != nil {
			return nil, true, err
		}
		alternate, err := expressionField(node, "alternate")
		if err != nil {
			return nil, true, err
		}
		return NewConditionalExpression(test, consequent, alternate), true, nil
	case NodeCallExpression, NodeNewExpression:
		callee, err := expressionField(node, "callee")
		if err != nil {
			return nil, true, err
		}
		args, err := expressionList(node["arguments"])
		if err != nil {
			return nil, true, err
		}
		if NodeType(typ) == NodeNewExpression {
			return NewNewExpression(callee, args), true, nil
		}
		call := NewCallExpression(callee, args)
		call.Optional, _ = node["optional"].(bool)
		return call, true, nil
	case NodeSequenceExpression:
		exprs, err := expressionList(node["expressions"])
		if err != nil {
			return nil, true, err
		}
		return NewSequenceExpression(exprs), true, nil
	case NodeTemplateLiteral:
		rawQuasis, _ := node["quasis"].([]any)
		quasis := make([]*TemplateElement, 0, len(rawQuasis))
		for _, raw := range rawQuasis {
			child, ok := raw.(map[string]any)
			if !ok {
				return nil, true, fmt.Errorf("ast: invalid template element %T", raw)
			}
			value, _ := child["value"].(map[string]any)
			cooked, _ := value["cooked"].(string)
			rawText, _ := value["raw"].(string)
			tail, _ := child["tail"].(bool)
			quasis = append(quasis, NewTemplateElement(cooked, rawText, tail))
		}
		exprs, err := expressionList(node["expressions"])
		if err != nil {
			return nil, true, err
		}
		if len(quasis) != len(exprs)+1 {
			return nil, true, fmt.Errorf("ast: template literal has %d quasis for %d expressions", len(quasis), len(exprs))
		}
		return NewTemplateLiteral(quasis, exprs), true, nil
	case NodeSpreadElement:
		arg, err := expressionField(node, "argument")
		if err != nil {
			return nil, true, err
		}
		return NewSpreadElement(arg), true, nil
	}
	return nil, false, nil
}
