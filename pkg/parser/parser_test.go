package parser_test

import (
	"errors"
	"testing"

	"github.com/jackie-gan/tiny-js-interpreter/pkg/ast"
	"github.com/jackie-gan/tiny-js-interpreter/pkg/parser"
)

func mustParse(t *testing.T, source string) *ast.Program {
	t.Helper()
	p, err := parser.NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	program, err := p.Parse([]byte(source))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	return program
}

func TestParseIgnoresComments(t *testing.T) {
	program := mustParse(t, `
// leading comment
function main() { /* inner */ return 1; }
`)
	if len(program.Body) != 1 {
		t.Fatalf("expected single statement, got %d", len(program.Body))
	}
	fn, ok := program.Body[0].(*ast.FunctionDeclaration)
	if !ok {
		t.Fatalf("expected FunctionDeclaration, got %T", program.Body[0])
	}
	if fn.ID.Name != "main" || len(fn.Body.Body) != 1 {
		t.Fatalf("unexpected function shape: %#v", fn)
	}
	if loc := fn.Location(); loc == nil || loc.Start.Line != 3 || loc.Start.Column != 0 {
		t.Fatalf("expected location 3:0, got %#v", loc)
	}
}

func TestParseVariableDeclarations(t *testing.T) {
	program := mustParse(t, `var a = 1, b; let c = "x"; const {d, e: [f = 2, ...g]} = obj;`)
	if len(program.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(program.Body))
	}
	first := program.Body[0].(*ast.VariableDeclaration)
	if first.Kind != ast.DeclarationVar || len(first.Declarations) != 2 || first.Declarations[1].Init != nil {
		t.Fatalf("unexpected var declaration: %#v", first)
	}
	second := program.Body[1].(*ast.VariableDeclaration)
	if second.Kind != ast.DeclarationLet {
		t.Fatalf("expected let, got %s", second.Kind)
	}
	if lit, ok := second.Declarations[0].Init.(*ast.Literal); !ok || lit.Value != "x" {
		t.Fatalf("expected string literal init, got %#v", second.Declarations[0].Init)
	}
	third := program.Body[2].(*ast.VariableDeclaration)
	pattern, ok := third.Declarations[0].ID.(*ast.ObjectPattern)
	if !ok || len(pattern.Properties) != 2 {
		t.Fatalf("expected object pattern with 2 properties, got %#v", third.Declarations[0].ID)
	}
	nested := pattern.Properties[1].(*ast.Property)
	arr, ok := nested.Value.(*ast.ArrayPattern)
	if !ok || len(arr.Elements) != 2 {
		t.Fatalf("expected nested array pattern, got %#v", nested.Value)
	}
	if _, ok := arr.Elements[0].(*ast.AssignmentPattern); !ok {
		t.Fatalf("expected default element, got %T", arr.Elements[0])
	}
	if _, ok := arr.Elements[1].(*ast.RestElement); !ok {
		t.Fatalf("expected rest element, got %T", arr.Elements[1])
	}
}

func TestParseOperators(t *testing.T) {
	program := mustParse(t, `(a ?? b) || c; x + y * z; i++; --j; !k; typeof m;`)
	logical := program.Body[0].(*ast.ExpressionStatement).Expression.(*ast.LogicalExpression)
	if logical.Operator != "||" {
		t.Fatalf("expected || at root, got %s", logical.Operator)
	}
	if inner, ok := logical.Left.(*ast.LogicalExpression); !ok || inner.Operator != "??" {
		t.Fatalf("expected ?? on the left, got %#v", logical.Left)
	}
	sum := program.Body[1].(*ast.ExpressionStatement).Expression.(*ast.BinaryExpression)
	if sum.Operator != "+" {
		t.Fatalf("expected + at root, got %s", sum.Operator)
	}
	if product, ok := sum.Right.(*ast.BinaryExpression); !ok || product.Operator != "*" {
		t.Fatalf("expected * on the right, got %#v", sum.Right)
	}
	post := program.Body[2].(*ast.ExpressionStatement).Expression.(*ast.UpdateExpression)
	if post.Prefix || post.Operator != "++" {
		t.Fatalf("expected postfix ++, got %#v", post)
	}
	pre := program.Body[3].(*ast.ExpressionStatement).Expression.(*ast.UpdateExpression)
	if !pre.Prefix || pre.Operator != "--" {
		t.Fatalf("expected prefix --, got %#v", pre)
	}
	for idx, op := range map[int]string{4: "!", 5: "typeof"} {
		unary := program.Body[idx].(*ast.ExpressionStatement).Expression.(*ast.UnaryExpression)
		if unary.Operator != op {
			t.Fatalf("statement %d: expected %s, got %s", idx, op, unary.Operator)
		}
	}
}

func TestParseOptionalChainWrapsOutermostLink(t *testing.T) {
	program := mustParse(t, `a?.b.c(); (a?.b).c;`)
	chain, ok := program.Body[0].(*ast.ExpressionStatement).Expression.(*ast.ChainExpression)
	if !ok {
		t.Fatalf("expected ChainExpression, got %T", program.Body[0].(*ast.ExpressionStatement).Expression)
	}
	call, ok := chain.Expression.(*ast.CallExpression)
	if !ok || call.Optional {
		t.Fatalf("expected non-optional call inside chain, got %#v", chain.Expression)
	}
	member := call.Callee.(*ast.MemberExpression)
	inner := member.Object.(*ast.MemberExpression)
	if !inner.Optional || member.Optional {
		t.Fatalf("expected only a?.b to be optional")
	}

	outer, ok := program.Body[1].(*ast.ExpressionStatement).Expression.(*ast.MemberExpression)
	if !ok {
		t.Fatalf("expected parenthesised chain to end the chain, got %T", program.Body[1].(*ast.ExpressionStatement).Expression)
	}
	if _, ok := outer.Object.(*ast.ChainExpression); !ok {
		t.Fatalf("expected inner ChainExpression, got %T", outer.Object)
	}
}

func TestParseLiterals(t *testing.T) {
	program := mustParse(t, "0x1F; 1_000; 0b101; 'a\\n\\u0041\\u{1F600}'; `x${1}y`; /ab+c/gi; [1,,2];")
	values := []float64{31, 1000, 5}
	for idx, want := range values {
		lit := program.Body[idx].(*ast.ExpressionStatement).Expression.(*ast.Literal)
		if lit.Value != want {
			t.Fatalf("literal %d: expected %v, got %#v", idx, want, lit.Value)
		}
	}
	str := program.Body[3].(*ast.ExpressionStatement).Expression.(*ast.Literal)
	if str.Value != "a\nA😀" {
		t.Fatalf("unexpected string value %q", str.Value)
	}
	tmpl := program.Body[4].(*ast.ExpressionStatement).Expression.(*ast.TemplateLiteral)
	if len(tmpl.Quasis) != 2 || tmpl.Quasis[0].Value.Cooked != "x" || tmpl.Quasis[1].Value.Cooked != "y" || !tmpl.Quasis[1].Tail {
		t.Fatalf("unexpected template quasis: %#v", tmpl.Quasis)
	}
	re := program.Body[5].(*ast.ExpressionStatement).Expression.(*ast.Literal)
	if re.Regex == nil || re.Regex.Pattern != "ab+c" || re.Regex.Flags != "gi" {
		t.Fatalf("unexpected regex literal: %#v", re.Regex)
	}
	arr := program.Body[6].(*ast.ExpressionStatement).Expression.(*ast.ArrayExpression)
	if len(arr.Elements) != 3 || arr.Elements[1] != nil {
		t.Fatalf("expected hole in the middle, got %#v", arr.Elements)
	}
}

func TestParseObjectLiteralForms(t *testing.T) {
	program := mustParse(t, `({ a: 1, b, [k]: 2, m() {}, get g() { return 1; }, set g(v) {}, ...rest });`)
	obj := program.Body[0].(*ast.ExpressionStatement).Expression.(*ast.ObjectExpression)
	if len(obj.Properties) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(obj.Properties))
	}
	kinds := []ast.PropertyKind{ast.PropertyInit, ast.PropertyInit, ast.PropertyInit, ast.PropertyInit, ast.PropertyGet, ast.PropertySet}
	for idx, want := range kinds {
		prop := obj.Properties[idx].(*ast.Property)
		if prop.Kind != want {
			t.Fatalf("property %d: expected kind %s, got %s", idx, want, prop.Kind)
		}
	}
	if !obj.Properties[1].(*ast.Property).Shorthand {
		t.Fatalf("expected shorthand property")
	}
	if !obj.Properties[2].(*ast.Property).Computed {
		t.Fatalf("expected computed key")
	}
	if !obj.Properties[3].(*ast.Property).Method {
		t.Fatalf("expected method property")
	}
	if _, ok := obj.Properties[6].(*ast.SpreadElement); !ok {
		t.Fatalf("expected spread, got %T", obj.Properties[6])
	}
}

func TestParseLoops(t *testing.T) {
	program := mustParse(t, `
for (let i = 0; i < 3; i++) {}
for (;;) { break; }
for (const k in obj) {}
for (x of xs) continue;
`)
	loop := program.Body[0].(*ast.ForStatement)
	if _, ok := loop.Init.(*ast.VariableDeclaration); !ok || loop.Test == nil || loop.Update == nil {
		t.Fatalf("unexpected for shape: %#v", loop)
	}
	bare := program.Body[1].(*ast.ForStatement)
	if bare.Init != nil || bare.Test != nil || bare.Update != nil {
		t.Fatalf("expected empty clauses, got %#v", bare)
	}
	forIn := program.Body[2].(*ast.ForInStatement)
	decl, ok := forIn.Left.(*ast.VariableDeclaration)
	if !ok || decl.Kind != ast.DeclarationConst {
		t.Fatalf("expected const declaration on the left, got %#v", forIn.Left)
	}
	forOf := program.Body[3].(*ast.ForOfStatement)
	if id, ok := forOf.Left.(*ast.Identifier); !ok || id.Name != "x" {
		t.Fatalf("expected identifier target, got %#v", forOf.Left)
	}
}

func TestParseTrySwitchAndFunctions(t *testing.T) {
	program := mustParse(t, `
try { f(); } catch ({message}) { g(); } finally { h(); }
switch (x) { case 1: a(); b(); default: c(); }
const add = (a, b = 1) => a + b;
const named = function fact(n) { return n; };
`)
	try := program.Body[0].(*ast.TryStatement)
	if try.Handler == nil || try.Finalizer == nil {
		t.Fatalf("expected handler and finalizer")
	}
	if _, ok := try.Handler.Param.(*ast.ObjectPattern); !ok {
		t.Fatalf("expected destructured catch param, got %T", try.Handler.Param)
	}
	sw := program.Body[1].(*ast.SwitchStatement)
	if len(sw.Cases) != 2 || len(sw.Cases[0].Consequent) != 2 || sw.Cases[1].Test != nil {
		t.Fatalf("unexpected switch shape: %#v", sw.Cases)
	}
	arrow := program.Body[2].(*ast.VariableDeclaration).Declarations[0].Init.(*ast.ArrowFunctionExpression)
	if !arrow.Expression || len(arrow.Params) != 2 {
		t.Fatalf("expected concise arrow with 2 params, got %#v", arrow)
	}
	fn := program.Body[3].(*ast.VariableDeclaration).Declarations[0].Init.(*ast.FunctionExpression)
	if fn.ID == nil || fn.ID.Name != "fact" {
		t.Fatalf("expected named function expression")
	}
}

func TestParseUnsupportedConstructsBecomeRawNodes(t *testing.T) {
	program := mustParse(t, `class A {} outer: for (;;) {}`)
	raw, ok := program.Body[0].(*ast.RawNode)
	if !ok || raw.NodeType() != ast.NodeClassDeclaration {
		t.Fatalf("expected raw ClassDeclaration, got %#v", program.Body[0])
	}
	label, ok := program.Body[1].(*ast.RawNode)
	if !ok || label.NodeType() != ast.NodeLabeledStatement {
		t.Fatalf("expected raw LabeledStatement, got %#v", program.Body[1])
	}
}

func TestParseReportsSyntaxErrorPosition(t *testing.T) {
	_, err := parser.ParseProgram([]byte("let x = 1;\nlet = ;\n"))
	if err == nil {
		t.Fatalf("expected syntax error")
	}
	var syntaxErr *parser.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("expected *SyntaxError, got %T: %v", err, err)
	}
	if syntaxErr.Line != 2 {
		t.Fatalf("expected error on line 2, got %d (%v)", syntaxErr.Line, err)
	}
}
