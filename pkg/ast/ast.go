package ast

type NodeType string

const (
	NodeProgram                  NodeType = "Program"
	NodeExpressionStatement      NodeType = "ExpressionStatement"
	NodeBlockStatement           NodeType = "BlockStatement"
	NodeEmptyStatement           NodeType = "EmptyStatement"
	NodeDebuggerStatement        NodeType = "DebuggerStatement"
	NodeWithStatement            NodeType = "WithStatement"
	NodeReturnStatement          NodeType = "ReturnStatement"
	NodeBreakStatement           NodeType = "BreakStatement"
	NodeContinueStatement        NodeType = "ContinueStatement"
	NodeIfStatement              NodeType = "IfStatement"
	NodeSwitchStatement          NodeType = "SwitchStatement"
	NodeSwitchCase               NodeType = "SwitchCase"
	NodeThrowStatement           NodeType = "ThrowStatement"
	NodeTryStatement             NodeType = "TryStatement"
	NodeCatchClause              NodeType = "CatchClause"
	NodeWhileStatement           NodeType = "WhileStatement"
	NodeDoWhileStatement         NodeType = "DoWhileStatement"
	NodeForStatement             NodeType = "ForStatement"
	NodeForInStatement           NodeType = "ForInStatement"
	NodeForOfStatement           NodeType = "ForOfStatement"
	NodeFunctionDeclaration      NodeType = "FunctionDeclaration"
	NodeVariableDeclaration      NodeType = "VariableDeclaration"
	NodeVariableDeclarator       NodeType = "VariableDeclarator"
	NodeIdentifier               NodeType = "Identifier"
	NodeLiteral                  NodeType = "Literal"
	NodeThisExpression           NodeType = "ThisExpression"
	NodeArrayExpression          NodeType = "ArrayExpression"
	NodeObjectExpression         NodeType = "ObjectExpression"
	NodeProperty                 NodeType = "Property"
	NodeFunctionExpression       NodeType = "FunctionExpression"
	NodeArrowFunctionExpression  NodeType = "ArrowFunctionExpression"
	NodeUnaryExpression          NodeType = "UnaryExpression"
	NodeUpdateExpression         NodeType = "UpdateExpression"
	NodeBinaryExpression         NodeType = "BinaryExpression"
	NodeLogicalExpression        NodeType = "LogicalExpression"
	NodeAssignmentExpression     NodeType = "AssignmentExpression"
	NodeMemberExpression         NodeType = "MemberExpression"
	NodeChainExpression          NodeType = "ChainExpression"
	NodeConditionalExpression    NodeType = "ConditionalExpression"
	NodeCallExpression           NodeType = "CallExpression"
	NodeNewExpression            NodeType = "NewExpression"
	NodeSequenceExpression       NodeType = "SequenceExpression"
	NodeTemplateLiteral          NodeType = "TemplateLiteral"
	NodeTemplateElement          NodeType = "TemplateElement"
	NodeSpreadElement            NodeType = "SpreadElement"
	NodeObjectPattern            NodeType = "ObjectPattern"
	NodeArrayPattern             NodeType = "ArrayPattern"
	NodeAssignmentPattern        NodeType = "AssignmentPattern"
	NodeRestElement              NodeType = "RestElement"
	NodeLabeledStatement         NodeType = "LabeledStatement"
	NodeClassDeclaration         NodeType = "ClassDeclaration"
	NodeTaggedTemplateExpression NodeType = "TaggedTemplateExpression"
)

// Position is a 1-based line and 0-based column, as ESTree producers report them.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type SourceLocation struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type Node interface {
	NodeType() NodeType
	Location() *SourceLocation
	SetLocation(loc *SourceLocation)
	isNode()
}

type nodeImpl struct {
	Type NodeType        `json:"type"`
	Loc  *SourceLocation `json:"loc,omitempty"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType               { return n.Type }
func (n nodeImpl) Location() *SourceLocation        { return n.Loc }
func (n *nodeImpl) SetLocation(loc *SourceLocation) { n.Loc = loc }
func (nodeImpl) isNode()                            {}

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Pattern is anything that can appear on the binding side of a declaration,
// parameter list or assignment.
type Pattern interface {
	Node
	patternNode()
}

type patternMarker struct{}

func (patternMarker) patternNode() {}

// RawNode holds a node whose kind has no typed representation. It satisfies
// every marker so decoding never fails on it; evaluating it does.
type RawNode struct {
	nodeImpl
	expressionMarker
	statementMarker
	patternMarker

	Fields map[string]any `json:"-"`
}

func NewRawNode(kind NodeType, fields map[string]any) *RawNode {
	return &RawNode{nodeImpl: newNodeImpl(kind), Fields: fields}
}

// Program

type Program struct {
	nodeImpl

	Body       []Statement `json:"body"`
	SourceType string      `json:"sourceType,omitempty"`
}

func NewProgram(body []Statement) *Program {
	return &Program{nodeImpl: newNodeImpl(NodeProgram), Body: body, SourceType: "script"}
}

// Statements

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

type BlockStatement struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlockStatement(body []Statement) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement), Body: body}
}

type EmptyStatement struct {
	nodeImpl
	statementMarker
}

func NewEmptyStatement() *EmptyStatement {
	return &EmptyStatement{nodeImpl: newNodeImpl(NodeEmptyStatement)}
}

type DebuggerStatement struct {
	nodeImpl
	statementMarker
}

func NewDebuggerStatement() *DebuggerStatement {
	return &DebuggerStatement{nodeImpl: newNodeImpl(NodeDebuggerStatement)}
}

type WithStatement struct {
	nodeImpl
	statementMarker

	Object Expression `json:"object"`
	Body   Statement  `json:"body"`
}

func NewWithStatement(object Expression, body Statement) *WithStatement {
	return &WithStatement{nodeImpl: newNodeImpl(NodeWithStatement), Object: object, Body: body}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument"`
}

func NewReturnStatement(argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}

type BreakStatement struct {
	nodeImpl
	statementMarker

	Label *Identifier `json:"label"`
}

func NewBreakStatement(label *Identifier) *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement), Label: label}
}

type ContinueStatement struct {
	nodeImpl
	statementMarker

	Label *Identifier `json:"label"`
}

func NewContinueStatement(label *Identifier) *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement), Label: label}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Test       Expression `json:"test"`
	Consequent Statement  `json:"consequent"`
	Alternate  Statement  `json:"alternate"`
}

func NewIfStatement(test Expression, consequent, alternate Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Test: test, Consequent: consequent, Alternate: alternate}
}

type SwitchCase struct {
	nodeImpl

	// Test is nil for the default clause.
	Test       Expression  `json:"test"`
	Consequent []Statement `json:"consequent"`
}

func NewSwitchCase(test Expression, consequent []Statement) *SwitchCase {
	return &SwitchCase{nodeImpl: newNodeImpl(NodeSwitchCase), Test: test, Consequent: consequent}
}

type SwitchStatement struct {
	nodeImpl
	statementMarker

	Discriminant Expression    `json:"discriminant"`
	Cases        []*SwitchCase `json:"cases"`
}

func NewSwitchStatement(discriminant Expression, cases []*SwitchCase) *SwitchStatement {
	return &SwitchStatement{nodeImpl: newNodeImpl(NodeSwitchStatement), Discriminant: discriminant, Cases: cases}
}

type ThrowStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument"`
}

func NewThrowStatement(argument Expression) *ThrowStatement {
	return &ThrowStatement{nodeImpl: newNodeImpl(NodeThrowStatement), Argument: argument}
}

type CatchClause struct {
	nodeImpl

	// Param is nil for `catch { ... }`.
	Param Pattern         `json:"param"`
	Body  *BlockStatement `json:"body"`
}

func NewCatchClause(param Pattern, body *BlockStatement) *CatchClause {
	return &CatchClause{nodeImpl: newNodeImpl(NodeCatchClause), Param: param, Body: body}
}

type TryStatement struct {
	nodeImpl
	statementMarker

	Block     *BlockStatement `json:"block"`
	Handler   *CatchClause    `json:"handler"`
	Finalizer *BlockStatement `json:"finalizer"`
}

func NewTryStatement(block *BlockStatement, handler *CatchClause, finalizer *BlockStatement) *TryStatement {
	return &TryStatement{nodeImpl: newNodeImpl(NodeTryStatement), Block: block, Handler: handler, Finalizer: finalizer}
}

type WhileStatement struct {
	nodeImpl
	statementMarker

	Test Expression `json:"test"`
	Body Statement  `json:"body"`
}

func NewWhileStatement(test Expression, body Statement) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Test: test, Body: body}
}

type DoWhileStatement struct {
	nodeImpl
	statementMarker

	Body Statement  `json:"body"`
	Test Expression `json:"test"`
}

func NewDoWhileStatement(body Statement, test Expression) *DoWhileStatement {
	return &DoWhileStatement{nodeImpl: newNodeImpl(NodeDoWhileStatement), Body: body, Test: test}
}

type ForStatement struct {
	nodeImpl
	statementMarker

	// Init is a *VariableDeclaration, an Expression, or nil.
	Init   Node       `json:"init"`
	Test   Expression `json:"test"`
	Update Expression `json:"update"`
	Body   Statement  `json:"body"`
}

func NewForStatement(init Node, test, update Expression, body Statement) *ForStatement {
	return &ForStatement{nodeImpl: newNodeImpl(NodeForStatement), Init: init, Test: test, Update: update, Body: body}
}

type ForInStatement struct {
	nodeImpl
	statementMarker

	// Left is a *VariableDeclaration or a Pattern.
	Left  Node       `json:"left"`
	Right Expression `json:"right"`
	Body  Statement  `json:"body"`
}

func NewForInStatement(left Node, right Expression, body Statement) *ForInStatement {
	return &ForInStatement{nodeImpl: newNodeImpl(NodeForInStatement), Left: left, Right: right, Body: body}
}

type ForOfStatement struct {
	nodeImpl
	statementMarker

	Left  Node       `json:"left"`
	Right Expression `json:"right"`
	Body  Statement  `json:"body"`
}

func NewForOfStatement(left Node, right Expression, body Statement) *ForOfStatement {
	return &ForOfStatement{nodeImpl: newNodeImpl(NodeForOfStatement), Left: left, Right: right, Body: body}
}

// Expressions

type Identifier struct {
	nodeImpl
	expressionMarker
	patternMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

type RegexLiteral struct {
	Pattern string `json:"pattern"`
	Flags   string `json:"flags"`
}

// Literal carries nil, bool, float64 or string in Value. Regex literals set
// Regex and leave Value nil.
type Literal struct {
	nodeImpl
	expressionMarker

	Value any           `json:"value"`
	Raw   string        `json:"raw,omitempty"`
	Regex *RegexLiteral `json:"regex,omitempty"`
}

func NewLiteral(value any, raw string) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral), Value: value, Raw: raw}
}

func NewRegexLiteral(pattern, flags string) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral), Raw: "/" + pattern + "/" + flags, Regex: &RegexLiteral{Pattern: pattern, Flags: flags}}
}

type ThisExpression struct {
	nodeImpl
	expressionMarker
}

func NewThisExpression() *ThisExpression {
	return &ThisExpression{nodeImpl: newNodeImpl(NodeThisExpression)}
}

type ArrayExpression struct {
	nodeImpl
	expressionMarker

	// Elements may contain nil for holes.
	Elements []Expression `json:"elements"`
}

func NewArrayExpression(elements []Expression) *ArrayExpression {
	return &ArrayExpression{nodeImpl: newNodeImpl(NodeArrayExpression), Elements: elements}
}

type PropertyKind string

const (
	PropertyInit PropertyKind = "init"
	PropertyGet  PropertyKind = "get"
	PropertySet  PropertyKind = "set"
)

// Property is shared by object literals (Value is an Expression) and object
// patterns (Value is a Pattern).
type Property struct {
	nodeImpl

	Key       Expression   `json:"key"`
	Value     Node         `json:"value"`
	Kind      PropertyKind `json:"kind"`
	Computed  bool         `json:"computed"`
	Shorthand bool         `json:"shorthand"`
	Method    bool         `json:"method"`
}

func NewProperty(key Expression, value Node, kind PropertyKind, computed, shorthand, method bool) *Property {
	if kind == "" {
		kind = PropertyInit
	}
	return &Property{nodeImpl: newNodeImpl(NodeProperty), Key: key, Value: value, Kind: kind, Computed: computed, Shorthand: shorthand, Method: method}
}

type ObjectExpression struct {
	nodeImpl
	expressionMarker

	// Properties holds *Property and *SpreadElement entries.
	Properties []Node `json:"properties"`
}

func NewObjectExpression(properties []Node) *ObjectExpression {
	return &ObjectExpression{nodeImpl: newNodeImpl(NodeObjectExpression), Properties: properties}
}

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Prefix   bool       `json:"prefix"`
	Argument Expression `json:"argument"`
}

func NewUnaryExpression(operator string, argument Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Prefix: true, Argument: argument}
}

type UpdateExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Prefix   bool       `json:"prefix"`
	Argument Expression `json:"argument"`
}

func NewUpdateExpression(operator string, prefix bool, argument Expression) *UpdateExpression {
	return &UpdateExpression{nodeImpl: newNodeImpl(NodeUpdateExpression), Operator: operator, Prefix: prefix, Argument: argument}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

type LogicalExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewLogicalExpression(operator string, left, right Expression) *LogicalExpression {
	return &LogicalExpression{nodeImpl: newNodeImpl(NodeLogicalExpression), Operator: operator, Left: left, Right: right}
}

type AssignmentExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Pattern    `json:"left"`
	Right    Expression `json:"right"`
}

func NewAssignmentExpression(operator string, left Pattern, right Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Operator: operator, Left: left, Right: right}
}

type MemberExpression struct {
	nodeImpl
	expressionMarker
	patternMarker

	Object   Expression `json:"object"`
	Property Expression `json:"property"`
	Computed bool       `json:"computed"`
	Optional bool       `json:"optional"`
}

func NewMemberExpression(object, property Expression, computed bool) *MemberExpression {
	return &MemberExpression{nodeImpl: newNodeImpl(NodeMemberExpression), Object: object, Property: property, Computed: computed}
}

// ChainExpression wraps an optional chain (`a?.b.c`) so that a nullish
// short-circuit anywhere inside yields undefined for the whole chain.
type ChainExpression struct {
	nodeImpl
	expressionMarker

	Expression Expression `json:"expression"`
}

func NewChainExpression(expr Expression) *ChainExpression {
	return &ChainExpression{nodeImpl: newNodeImpl(NodeChainExpression), Expression: expr}
}

type ConditionalExpression struct {
	nodeImpl
	expressionMarker

	Test       Expression `json:"test"`
	Consequent Expression `json:"consequent"`
	Alternate  Expression `json:"alternate"`
}

func NewConditionalExpression(test, consequent, alternate Expression) *ConditionalExpression {
	return &ConditionalExpression{nodeImpl: newNodeImpl(NodeConditionalExpression), Test: test, Consequent: consequent, Alternate: alternate}
}

type CallExpression struct {
	nodeImpl
	expressionMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
	Optional  bool         `json:"optional"`
}

func NewCallExpression(callee Expression, args []Expression) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Callee: callee, Arguments: args}
}

type NewExpression struct {
	nodeImpl
	expressionMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewNewExpression(callee Expression, args []Expression) *NewExpression {
	return &NewExpression{nodeImpl: newNodeImpl(NodeNewExpression), Callee: callee, Arguments: args}
}

type SequenceExpression struct {
	nodeImpl
	expressionMarker

	Expressions []Expression `json:"expressions"`
}

func NewSequenceExpression(exprs []Expression) *SequenceExpression {
	return &SequenceExpression{nodeImpl: newNodeImpl(NodeSequenceExpression), Expressions: exprs}
}

type TemplateValue struct {
	Raw    string `json:"raw"`
	Cooked string `json:"cooked"`
}

type TemplateElement struct {
	nodeImpl

	Value TemplateValue `json:"value"`
	Tail  bool          `json:"tail"`
}

func NewTemplateElement(cooked, raw string, tail bool) *TemplateElement {
	return &TemplateElement{nodeImpl: newNodeImpl(NodeTemplateElement), Value: TemplateValue{Raw: raw, Cooked: cooked}, Tail: tail}
}

// TemplateLiteral interleaves quasis and expressions: len(Quasis) ==
// len(Expressions)+1.
type TemplateLiteral struct {
	nodeImpl
	expressionMarker

	Quasis      []*TemplateElement `json:"quasis"`
	Expressions []Expression       `json:"expressions"`
}

func NewTemplateLiteral(quasis []*TemplateElement, exprs []Expression) *TemplateLiteral {
	return &TemplateLiteral{nodeImpl: newNodeImpl(NodeTemplateLiteral), Quasis: quasis, Expressions: exprs}
}

// SpreadElement is only meaningful inside array literals, object literals
// and argument lists.
type SpreadElement struct {
	nodeImpl
	expressionMarker

	Argument Expression `json:"argument"`
}

func NewSpreadElement(argument Expression) *SpreadElement {
	return &SpreadElement{nodeImpl: newNodeImpl(NodeSpreadElement), Argument: argument}
}

// Patterns

type ObjectPattern struct {
	nodeImpl
	patternMarker

	// Properties holds *Property entries (Value is a Pattern) and at most one
	// trailing *RestElement.
	Properties []Node `json:"properties"`
}

func NewObjectPattern(properties []Node) *ObjectPattern {
	return &ObjectPattern{nodeImpl: newNodeImpl(NodeObjectPattern), Properties: properties}
}

type ArrayPattern struct {
	nodeImpl
	patternMarker

	// Elements may contain nil for elisions.
	Elements []Pattern `json:"elements"`
}

func NewArrayPattern(elements []Pattern) *ArrayPattern {
	return &ArrayPattern{nodeImpl: newNodeImpl(NodeArrayPattern), Elements: elements}
}

type AssignmentPattern struct {
	nodeImpl
	patternMarker

	Left  Pattern    `json:"left"`
	Right Expression `json:"right"`
}

func NewAssignmentPattern(left Pattern, right Expression) *AssignmentPattern {
	return &AssignmentPattern{nodeImpl: newNodeImpl(NodeAssignmentPattern), Left: left, Right: right}
}

type RestElement struct {
	nodeImpl
	patternMarker

	Argument Pattern `json:"argument"`
}

func NewRestElement(argument Pattern) *RestElement {
	return &RestElement{nodeImpl: newNodeImpl(NodeRestElement), Argument: argument}
}
