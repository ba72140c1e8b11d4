package ast

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Str(value string) *Literal {
	return NewLiteral(value, "")
}

func Num(value float64) *Literal {
	return NewLiteral(value, "")
}

func Bool(value bool) *Literal {
	return NewLiteral(value, "")
}

func Null() *Literal {
	return NewLiteral(nil, "null")
}

func Regex(pattern, flags string) *Literal {
	return NewRegexLiteral(pattern, flags)
}

func This() *ThisExpression {
	return NewThisExpression()
}

func Arr(elements ...Expression) *ArrayExpression {
	return NewArrayExpression(elements)
}

func Obj(properties ...Node) *ObjectExpression {
	return NewObjectExpression(properties)
}

// Prop builds a plain `key: value` property with an identifier key.
func Prop(key string, value Expression) *Property {
	return NewProperty(ID(key), value, PropertyInit, false, false, false)
}

func Getter(key string, body ...Statement) *Property {
	return NewProperty(ID(key), FnExpr(nil, nil, body...), PropertyGet, false, false, false)
}

func Setter(key string, param string, body ...Statement) *Property {
	return NewProperty(ID(key), FnExpr(nil, []Pattern{ID(param)}, body...), PropertySet, false, false, false)
}

func Spread(argument Expression) *SpreadElement {
	return NewSpreadElement(argument)
}

func Tmpl(parts ...any) *TemplateLiteral {
	var quasis []*TemplateElement
	var exprs []Expression
	expectString := true
	for _, part := range parts {
		switch p := part.(type) {
		case string:
			quasis = append(quasis, NewTemplateElement(p, p, false))
			expectString = false
		case Expression:
			if expectString {
				quasis = append(quasis, NewTemplateElement("", "", false))
			}
			exprs = append(exprs, p)
			expectString = true
		}
	}
	if expectString {
		quasis = append(quasis, NewTemplateElement("", "", false))
	}
	quasis[len(quasis)-1].Tail = true
	return NewTemplateLiteral(quasis, exprs)
}

// Expression helpers.

func Bin(op string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Logic(op string, left, right Expression) *LogicalExpression {
	return NewLogicalExpression(op, left, right)
}

func Unary(op string, argument Expression) *UnaryExpression {
	return NewUnaryExpression(op, argument)
}

func Assign(target Pattern, value Expression) *AssignmentExpression {
	return NewAssignmentExpression("=", target, value)
}

func AssignOp(op string, target Pattern, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(op, target, value)
}

func Inc(target Expression, prefix bool) *UpdateExpression {
	return NewUpdateExpression("++", prefix, target)
}

func Dec(target Expression, prefix bool) *UpdateExpression {
	return NewUpdateExpression("--", prefix, target)
}

func Member(object Expression, name string) *MemberExpression {
	return NewMemberExpression(object, ID(name), false)
}

func Index(object, index Expression) *MemberExpression {
	return NewMemberExpression(object, index, true)
}

func Call(callee Expression, args ...Expression) *CallExpression {
	return NewCallExpression(callee, args)
}

func New(callee Expression, args ...Expression) *NewExpression {
	return NewNewExpression(callee, args)
}

func Cond(test, consequent, alternate Expression) *ConditionalExpression {
	return NewConditionalExpression(test, consequent, alternate)
}

func Seq(exprs ...Expression) *SequenceExpression {
	return NewSequenceExpression(exprs)
}

func FnExpr(id *Identifier, params []Pattern, body ...Statement) *FunctionExpression {
	return NewFunctionExpression(id, params, Block(body...))
}

func Arrow(params []Pattern, body Node) *ArrowFunctionExpression {
	return NewArrowFunctionExpression(params, body)
}

// Params turns plain names into identifier patterns.
func Params(names ...string) []Pattern {
	out := make([]Pattern, 0, len(names))
	for _, name := range names {
		out = append(out, ID(name))
	}
	return out
}

// Statement helpers.

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

func Block(body ...Statement) *BlockStatement {
	return NewBlockStatement(body)
}

func Var(name string, init Expression) *VariableDeclaration {
	return Decl(DeclarationVar, ID(name), init)
}

func Let(name string, init Expression) *VariableDeclaration {
	return Decl(DeclarationLet, ID(name), init)
}

func Const(name string, init Expression) *VariableDeclaration {
	return Decl(DeclarationConst, ID(name), init)
}

func Decl(kind DeclarationKind, id Pattern, init Expression) *VariableDeclaration {
	return NewVariableDeclaration(kind, []*VariableDeclarator{NewVariableDeclarator(id, init)})
}

func Fn(name string, params []Pattern, body ...Statement) *FunctionDeclaration {
	return NewFunctionDeclaration(ID(name), params, Block(body...))
}

func Ret(argument Expression) *ReturnStatement {
	return NewReturnStatement(argument)
}

func Brk() *BreakStatement {
	return NewBreakStatement(nil)
}

func Cont() *ContinueStatement {
	return NewContinueStatement(nil)
}

func If(test Expression, consequent, alternate Statement) *IfStatement {
	return NewIfStatement(test, consequent, alternate)
}

func While(test Expression, body ...Statement) *WhileStatement {
	return NewWhileStatement(test, Block(body...))
}

func DoWhile(test Expression, body ...Statement) *DoWhileStatement {
	return NewDoWhileStatement(Block(body...), test)
}

func For(init Node, test, update Expression, body ...Statement) *ForStatement {
	return NewForStatement(init, test, update, Block(body...))
}

func ForIn(left Node, right Expression, body ...Statement) *ForInStatement {
	return NewForInStatement(left, right, Block(body...))
}

func ForOf(left Node, right Expression, body ...Statement) *ForOfStatement {
	return NewForOfStatement(left, right, Block(body...))
}

func Throw(argument Expression) *ThrowStatement {
	return NewThrowStatement(argument)
}

// Try builds a try statement; pass an empty param name for a parameterless
// catch, and nil handler/finalizer bodies to omit those clauses.
func Try(block *BlockStatement, param string, handler *BlockStatement, finalizer *BlockStatement) *TryStatement {
	var clause *CatchClause
	if handler != nil {
		var p Pattern
		if param != "" {
			p = ID(param)
		}
		clause = NewCatchClause(p, handler)
	}
	return NewTryStatement(block, clause, finalizer)
}

func Switch(discriminant Expression, cases ...*SwitchCase) *SwitchStatement {
	return NewSwitchStatement(discriminant, cases)
}

func Case(test Expression, body ...Statement) *SwitchCase {
	return NewSwitchCase(test, body)
}

func Prog(body ...Statement) *Program {
	return NewProgram(body)
}
