package ast

// Declarations and function forms

type DeclarationKind string

const (
	DeclarationVar   DeclarationKind = "var"
	DeclarationLet   DeclarationKind = "let"
	DeclarationConst DeclarationKind = "const"
)

type VariableDeclarator struct {
	nodeImpl

	ID   Pattern    `json:"id"`
	Init Expression `json:"init"`
}

func NewVariableDeclarator(id Pattern, init Expression) *VariableDeclarator {
	return &VariableDeclarator{nodeImpl: newNodeImpl(NodeVariableDeclarator), ID: id, Init: init}
}

type VariableDeclaration struct {
	nodeImpl
	statementMarker

	Kind         DeclarationKind       `json:"kind"`
	Declarations []*VariableDeclarator `json:"declarations"`
}

func NewVariableDeclaration(kind DeclarationKind, declarations []*VariableDeclarator) *VariableDeclaration {
	return &VariableDeclaration{nodeImpl: newNodeImpl(NodeVariableDeclaration), Kind: kind, Declarations: declarations}
}

// Function is the shape shared by declarations, expressions and arrows.
type Function interface {
	Node
	FunctionID() *Identifier
	FunctionParams() []Pattern
	// FunctionBody is a *BlockStatement, or an Expression for concise arrows.
	FunctionBody() Node
	IsArrow() bool
}

type FunctionDeclaration struct {
	nodeImpl
	statementMarker

	ID        *Identifier     `json:"id"`
	Params    []Pattern       `json:"params"`
	Body      *BlockStatement `json:"body"`
	Generator bool            `json:"generator"`
	Async     bool            `json:"async"`
}

func NewFunctionDeclaration(id *Identifier, params []Pattern, body *BlockStatement) *FunctionDeclaration {
	return &FunctionDeclaration{nodeImpl: newNodeImpl(NodeFunctionDeclaration), ID: id, Params: params, Body: body}
}

func (f *FunctionDeclaration) FunctionID() *Identifier   { return f.ID }
func (f *FunctionDeclaration) FunctionParams() []Pattern { return f.Params }
func (f *FunctionDeclaration) FunctionBody() Node        { return f.Body }
func (f *FunctionDeclaration) IsArrow() bool             { return false }

type FunctionExpression struct {
	nodeImpl
	expressionMarker

	ID        *Identifier     `json:"id"`
	Params    []Pattern       `json:"params"`
	Body      *BlockStatement `json:"body"`
	Generator bool            `json:"generator"`
	Async     bool            `json:"async"`
}

func NewFunctionExpression(id *Identifier, params []Pattern, body *BlockStatement) *FunctionExpression {
	return &FunctionExpression{nodeImpl: newNodeImpl(NodeFunctionExpression), ID: id, Params: params, Body: body}
}

func (f *FunctionExpression) FunctionID() *Identifier   { return f.ID }
func (f *FunctionExpression) FunctionParams() []Pattern { return f.Params }
func (f *FunctionExpression) FunctionBody() Node        { return f.Body }
func (f *FunctionExpression) IsArrow() bool             { return false }

type ArrowFunctionExpression struct {
	nodeImpl
	expressionMarker

	Params []Pattern `json:"params"`
	// Body is a *BlockStatement, or an Expression when Expression is true.
	Body       Node `json:"body"`
	Expression bool `json:"expression"`
	Async      bool `json:"async"`
}

func NewArrowFunctionExpression(params []Pattern, body Node) *ArrowFunctionExpression {
	_, isBlock := body.(*BlockStatement)
	return &ArrowFunctionExpression{nodeImpl: newNodeImpl(NodeArrowFunctionExpression), Params: params, Body: body, Expression: !isBlock}
}

func (f *ArrowFunctionExpression) FunctionID() *Identifier   { return nil }
func (f *ArrowFunctionExpression) FunctionParams() []Pattern { return f.Params }
func (f *ArrowFunctionExpression) FunctionBody() Node        { return f.Body }
func (f *ArrowFunctionExpression) IsArrow() bool             { return true }
